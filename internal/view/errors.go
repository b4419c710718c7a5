package view

import (
	"errors"
)

// Sentinel kinds for view lifecycle errors.
var (
	ErrAlreadyMounted = errors.New("view already mounted")
	ErrNotMounted     = errors.New("view not mounted")
	ErrUnmounted      = errors.New("view unmounted")
	ErrUnknownNode    = errors.New("unknown cluster node")
)
