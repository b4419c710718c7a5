package engine

import (
	"github.com/placora/geoview/pkg/logger"
)

// ViewportOption applies a configuration option to the Viewport.
type ViewportOption func(*Viewport)

// WithLogger sets a custom logger for the viewport.
func WithLogger(log logger.Logger) ViewportOption {
	return func(v *Viewport) {
		if log != nil {
			v.log = log
		}
	}
}

// WithOnReady sets the hook invoked when the engine attaches.
func WithOnReady(fn func(Engine)) ViewportOption {
	return func(v *Viewport) {
		v.onReady = fn
	}
}

// WithOnError sets the hook invoked when the bootstrap fails.
func WithOnError(fn func(error)) ViewportOption {
	return func(v *Viewport) {
		v.onError = fn
	}
}
