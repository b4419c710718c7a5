package geoloc

import (
	"github.com/placora/geoview/pkg/logger"
)

// Option applies a configuration option to the Adapter.
type Option func(*Adapter)

// WithZoom sets the zoom applied after a successful position fix.
func WithZoom(zoom float64) Option {
	return func(a *Adapter) {
		if zoom > 0 {
			a.zoom = zoom
		}
	}
}

// WithLogger sets a custom logger for the adapter.
func WithLogger(log logger.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}
