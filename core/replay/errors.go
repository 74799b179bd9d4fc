package replay

import "errors"

var (
	// ErrInvalidBufferSize is returned by the constructors when the segment
	// size or retention limit is less than one.
	ErrInvalidBufferSize = errors.New("replay buffer size must be at least 1")

	// ErrInvalidConfig wraps environment parsing failures in LoadConfig.
	ErrInvalidConfig = errors.New("invalid replay configuration")
)
