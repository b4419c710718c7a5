package engine

import (
	"context"
	"sync"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"

	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/pkg/logger"
	"github.com/placora/geoview/pkg/metrics"
)

// BootState is the explicit bootstrap state machine. Modeling the async
// load this way turns "is the view still mounted" races into one state
// check instead of scattered nil tests.
type BootState int

const (
	StateUninitialized BootState = iota
	StateLoading
	StateReady
	StateFailed
)

// String returns the state name for logs.
func (s BootState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Viewport exclusively owns one engine instance for one mounted view.
//
// Every Initialize stamps a fresh generation token; the bootstrap
// completion compares its token against the current one and destroys the
// engine instead of attaching when the viewport was torn down (or
// re-initialized) while the load was in flight.
type Viewport struct {
	mu         sync.Mutex
	factory    Factory
	cfg        Config
	state      BootState
	engine     Engine
	generation string
	destroyed  bool

	onReady func(Engine)
	onError func(error)
	log     logger.Logger
}

// NewViewport creates an uninitialized viewport over a factory.
func NewViewport(factory Factory, cfg Config, opts ...ViewportOption) *Viewport {
	v := &Viewport{
		factory: factory,
		cfg:     cfg,
		state:   StateUninitialized,
		log:     logger.Get().Named("viewport"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// State returns the current bootstrap state.
func (v *Viewport) State() BootState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Engine returns the attached engine, if ready.
func (v *Viewport) Engine() (Engine, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady || v.engine == nil {
		return nil, false
	}
	return v.engine, true
}

// Initialize starts the asynchronous engine bootstrap and returns
// immediately. Completion is reported through the OnReady/OnError hooks.
// A missing access token fails synchronously.
func (v *Viewport) Initialize(ctx context.Context, center model.Coordinate, zoom float64) error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return ErrDestroyed
	}
	if v.state != StateUninitialized {
		v.mu.Unlock()
		return ErrAlreadyInitialized
	}
	if v.cfg.AccessToken == "" {
		v.state = StateFailed
		onError := v.onError
		v.mu.Unlock()

		metrics.UpdateEngineState(int(StateFailed))
		metrics.RecordEngineBootstrap(metrics.EngineOutcomeFailed)
		v.log.Warn(ctx, "engine bootstrap refused", logger.Error(ErrMissingToken))
		if onError != nil {
			onError(ErrMissingToken)
		}
		return ErrMissingToken
	}

	v.state = StateLoading
	v.generation = uuid.NewString()
	gen := v.generation
	v.mu.Unlock()

	metrics.UpdateEngineState(int(StateLoading))
	v.log.Debug(ctx, "engine bootstrap started", logger.String("generation", gen))

	go v.bootstrap(ctx, gen, center, zoom)
	return nil
}

func (v *Viewport) bootstrap(ctx context.Context, gen string, center model.Coordinate, zoom float64) {
	eng, err := v.factory.New(ctx, v.cfg)

	v.mu.Lock()
	if v.destroyed || gen != v.generation {
		v.mu.Unlock()
		// The owning view went away while we were loading. Attaching now
		// would leak a live engine, so tear the instance down instead.
		if eng != nil {
			eng.Destroy()
		}
		metrics.RecordEngineBootstrap(metrics.EngineOutcomeDiscarded)
		v.log.Debug(ctx, "stale engine bootstrap discarded", logger.String("generation", gen))
		return
	}

	if err != nil {
		v.state = StateFailed
		onError := v.onError
		v.mu.Unlock()

		metrics.UpdateEngineState(int(StateFailed))
		metrics.RecordEngineBootstrap(metrics.EngineOutcomeFailed)
		v.log.Warn(ctx, "engine bootstrap failed", logger.Error(err))
		if onError != nil {
			onError(err)
		}
		return
	}

	eng.SetCamera(center, zoom)
	v.engine = eng
	v.state = StateReady
	onReady := v.onReady
	v.mu.Unlock()

	metrics.UpdateEngineState(int(StateReady))
	metrics.RecordEngineBootstrap(metrics.EngineOutcomeReady)
	v.log.Info(ctx, "engine ready",
		logger.Float64("lat", center.Lat),
		logger.Float64("lng", center.Lng),
		logger.Float64("zoom", zoom))
	if onReady != nil {
		onReady(eng)
	}
}

// FlyTo eases the camera to the coordinate. No-op unless Ready.
func (v *Viewport) FlyTo(c model.Coordinate, zoom float64) {
	if eng, ok := v.Engine(); ok {
		eng.FlyTo(c, zoom)
		metrics.RecordCameraMove()
	}
}

// EaseTo eases the camera without the fly arc. No-op unless Ready.
func (v *Viewport) EaseTo(c model.Coordinate, zoom float64) {
	if eng, ok := v.Engine(); ok {
		eng.EaseTo(c, zoom)
		metrics.RecordCameraMove()
	}
}

// ZoomIn bumps the zoom one step. No-op unless Ready.
func (v *Viewport) ZoomIn() {
	if eng, ok := v.Engine(); ok {
		eng.ZoomIn()
		metrics.RecordCameraMove()
	}
}

// ZoomOut drops the zoom one step. No-op unless Ready.
func (v *Viewport) ZoomOut() {
	if eng, ok := v.Engine(); ok {
		eng.ZoomOut()
		metrics.RecordCameraMove()
	}
}

// FitBounds frames the rectangle with padding, capped at maxZoom. No-op
// unless Ready or when the rectangle is empty.
func (v *Viewport) FitBounds(rect s2.Rect, paddingPx, maxZoom float64) {
	if rect.IsEmpty() {
		return
	}
	if eng, ok := v.Engine(); ok {
		eng.FitBounds(rect, paddingPx, maxZoom)
		metrics.RecordCameraMove()
	}
}

// SetCamera jumps the camera without animation. No-op unless Ready.
func (v *Viewport) SetCamera(c model.Coordinate, zoom float64) {
	if eng, ok := v.Engine(); ok {
		eng.SetCamera(c, zoom)
	}
}

// Camera returns the current center and zoom, if ready.
func (v *Viewport) Camera() (model.Coordinate, float64, bool) {
	eng, ok := v.Engine()
	if !ok {
		return model.Coordinate{}, 0, false
	}
	return eng.Center(), eng.Zoom(), true
}

// Destroy tears the viewport down. Idempotent: the engine, if attached, is
// destroyed exactly once, and any in-flight bootstrap resolves as stale.
func (v *Viewport) Destroy() {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.destroyed = true
	v.generation = ""
	eng := v.engine
	v.engine = nil
	v.state = StateUninitialized
	v.mu.Unlock()

	if eng != nil {
		eng.Destroy()
	}
	metrics.UpdateEngineState(int(StateUninitialized))
}
