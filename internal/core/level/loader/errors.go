package loader

import "errors"

var (
	ErrNilImage         = errors.New("loader: nil image")
	ErrPixelOutOfBounds = errors.New("loader: pixel out of bounds")
	ErrNoSource         = errors.New("loader: no level source")
	ErrInvalidTileSize  = errors.New("loader: tile size must be positive")
	ErrUnknownScanOrder = errors.New("loader: unknown scan order")
)
