package system

import "errors"

var (
	ErrNoEngineState   = errors.New("system: no active engine state")
	ErrSystemExists    = errors.New("system: system already registered")
	ErrSystemNotFound  = errors.New("system: system not found")
	ErrAlreadyRunning  = errors.New("system: world already running")
	ErrInvalidTickRate = errors.New("system: tick rate must be positive")
)
