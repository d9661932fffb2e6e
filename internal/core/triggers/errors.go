package triggers

import "errors"

var (
	ErrUnknownTrigger = errors.New("triggers: unknown trigger")
	ErrInvalidColor   = errors.New("triggers: invalid color")
	ErrMissingArg     = errors.New("triggers: missing argument")
	ErrDuplicateColor = errors.New("triggers: duplicate color")
)
