package app

import "errors"

var (
	ErrLevelNotFound = errors.New("app: level not found")
	ErrNotSetUp      = errors.New("app: setup has not run")
)
