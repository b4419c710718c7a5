package geoloc

import (
	"errors"
)

// Sentinel kinds for geolocation errors.
var (
	ErrPermissionDenied = errors.New("geolocation permission denied")
	ErrUnavailable      = errors.New("geolocation unavailable")
)
