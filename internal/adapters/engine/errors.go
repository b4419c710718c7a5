package engine

import (
	"errors"
)

// Sentinel kinds for engine lifecycle errors.
var (
	ErrMissingToken       = errors.New("engine access token missing")
	ErrAlreadyInitialized = errors.New("viewport already initialized")
	ErrDestroyed          = errors.New("viewport destroyed")
	ErrNotReady           = errors.New("engine not ready")
)
