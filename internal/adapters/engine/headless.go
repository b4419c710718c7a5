package engine

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/golang/geo/s2"

	"github.com/placora/geoview/internal/domain/model"
)

// zoomStep is the increment applied by ZoomIn/ZoomOut.
const zoomStep = 1

// HeadlessFactory builds in-memory engines. It is the engine the harness
// runs against: full camera and marker-element semantics, no rendering.
type HeadlessFactory struct{}

// New validates the config and returns a headless engine.
func (HeadlessFactory) New(_ context.Context, cfg Config) (Engine, error) {
	if cfg.AccessToken == "" {
		return nil, ErrMissingToken
	}
	return &headlessEngine{
		markers: make(map[int]*headlessMarker),
	}, nil
}

// headlessEngine tracks camera state and live marker elements in memory.
// It is safe for concurrent use: the harness drives it from HTTP handlers.
type headlessEngine struct {
	mu        sync.Mutex
	center    model.Coordinate
	zoom      float64
	markers   map[int]*headlessMarker
	nextID    int
	destroyed bool
}

func (e *headlessEngine) SetCamera(c model.Coordinate, zoom float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.center, e.zoom = c, zoom
}

func (e *headlessEngine) FlyTo(c model.Coordinate, zoom float64) { e.SetCamera(c, zoom) }

func (e *headlessEngine) EaseTo(c model.Coordinate, zoom float64) { e.SetCamera(c, zoom) }

func (e *headlessEngine) ZoomIn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoom += zoomStep
}

func (e *headlessEngine) ZoomOut() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoom -= zoomStep
}

func (e *headlessEngine) FitBounds(rect s2.Rect, _, maxZoom float64) {
	if rect.IsEmpty() {
		return
	}
	center := rect.Center()
	// Zoom so the wider angular span fits one tile axis, capped by maxZoom.
	spanDeg := math.Max(rect.Lat.Length(), rect.Lng.Length()) * 180 / math.Pi
	zoom := maxZoom
	if spanDeg > 0 {
		zoom = math.Min(maxZoom, math.Floor(math.Log2(360/spanDeg)))
	}
	e.SetCamera(model.Coordinate{Lat: center.Lat.Degrees(), Lng: center.Lng.Degrees()}, zoom)
}

func (e *headlessEngine) Center() model.Coordinate {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.center
}

func (e *headlessEngine) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

func (e *headlessEngine) AddMarker(c model.Coordinate, a MarkerAppearance) (MarkerHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil, fmt.Errorf("add marker: %w", ErrDestroyed)
	}
	e.nextID++
	m := &headlessMarker{engine: e, id: e.nextID, position: c, appearance: a}
	e.markers[m.id] = m
	return m, nil
}

// LiveMarkers reports the number of live marker elements. Zero after the
// owning view unmounts means the reconciler leaked nothing.
func (e *headlessEngine) LiveMarkers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.markers)
}

func (e *headlessEngine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	for id, m := range e.markers {
		m.detach()
		delete(e.markers, id)
	}
}

// headlessMarker is one in-memory marker element.
type headlessMarker struct {
	mu         sync.Mutex
	engine     *headlessEngine
	id         int
	position   model.Coordinate
	appearance MarkerAppearance
	popup      Popup
	popupOpen  bool
	onClick    func()
	removed    bool
}

func (m *headlessMarker) SetPosition(c model.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = c
}

func (m *headlessMarker) SetAppearance(a MarkerAppearance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appearance = a
}

func (m *headlessMarker) BindPopup(p Popup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popup = p
}

func (m *headlessMarker) OpenPopup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.removed {
		m.popupOpen = true
	}
}

func (m *headlessMarker) ClosePopup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupOpen = false
}

func (m *headlessMarker) PopupOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popupOpen
}

func (m *headlessMarker) OnClick(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = fn
}

// Click simulates the user clicking the element.
func (m *headlessMarker) Click() {
	m.mu.Lock()
	fn := m.onClick
	removed := m.removed
	m.mu.Unlock()
	if fn != nil && !removed {
		fn()
	}
}

func (m *headlessMarker) Remove() {
	m.mu.Lock()
	if m.removed {
		m.mu.Unlock()
		return
	}
	m.removed = true
	m.mu.Unlock()

	m.engine.mu.Lock()
	delete(m.engine.markers, m.id)
	m.engine.mu.Unlock()

	m.detach()
}

// detach drops listeners and popup state without touching the registry.
func (m *headlessMarker) detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = true
	m.popupOpen = false
	m.onClick = nil
}
