// Package geoloc wraps the platform's permission-gated position capability.
//
// It is the only subsystem touching an OS permission, so it stays isolated:
// a denied or failed request is logged and swallowed, and the viewport is
// left exactly as it was.
package geoloc

import (
	"context"
	"fmt"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/pkg/logger"
	"github.com/placora/geoview/pkg/metrics"
)

// defaultZoom is the neighborhood-level zoom applied after a position fix.
const defaultZoom = 12

// PositionProvider is the platform capability port.
type PositionProvider interface {
	// Position resolves the user's coordinate or fails with a permission
	// or platform error. It may block on a user prompt.
	Position(ctx context.Context) (model.Coordinate, error)
}

// Adapter recenters the viewport on the user's position.
type Adapter struct {
	provider PositionProvider
	viewport *engine.Viewport
	zoom     float64
	log      logger.Logger
}

// New creates an Adapter flying the given viewport.
func New(provider PositionProvider, viewport *engine.Viewport, opts ...Option) *Adapter {
	a := &Adapter{
		provider: provider,
		viewport: viewport,
		zoom:     defaultZoom,
		log:      logger.Get().Named("geoloc"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Locate requests the user's position and flies the viewport there. On
// failure the viewport is untouched and the error is returned for the
// caller's log only; nothing user-visible happens.
func (a *Adapter) Locate(ctx context.Context) error {
	metrics.RecordGeolocateRequest()

	pos, err := a.provider.Position(ctx)
	if err != nil {
		metrics.RecordGeolocateFailure()
		a.log.Warn(ctx, "position request failed", logger.Error(err))
		return fmt.Errorf("locate: %w", err)
	}
	if !pos.Valid() {
		metrics.RecordGeolocateFailure()
		a.log.Warn(ctx, "position provider returned invalid coordinate",
			logger.Float64("lat", pos.Lat), logger.Float64("lng", pos.Lng))
		return fmt.Errorf("locate: %w", ErrUnavailable)
	}

	// No-op if the view was torn down while the prompt was up.
	a.viewport.FlyTo(pos, a.zoom)
	return nil
}

// StaticProvider is a provider with a fixed answer, used by the harness and
// tests. Set Err to script a denial.
type StaticProvider struct {
	Coord model.Coordinate
	Err   error
}

// Position implements PositionProvider.
func (p StaticProvider) Position(_ context.Context) (model.Coordinate, error) {
	if p.Err != nil {
		return model.Coordinate{}, p.Err
	}
	return p.Coord, nil
}
