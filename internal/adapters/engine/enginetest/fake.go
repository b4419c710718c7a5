// Package enginetest provides a recording fake engine for lifecycle tests.
//
// The fake counts every element creation and removal so the reconciler's
// no-leak guarantee can be asserted without a real rendering engine, and its
// factory can be scripted to fail or to block until released, which is how
// the teardown-before-ready race is exercised. Recorded state is only
// reachable through locked accessors; tests may poll them while bootstrap
// goroutines are still mutating the fake.
package enginetest

import (
	"context"
	"strconv"
	"sync"

	"github.com/golang/geo/s2"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/domain/model"
)

// Factory builds fake engines. Zero value is ready to use.
type Factory struct {
	mu sync.Mutex

	// Err, when set, makes New fail with it.
	Err error

	// Gate, when non-nil, blocks New until the channel is closed. It
	// simulates a slow remote bootstrap.
	Gate chan struct{}

	engines []*Fake
}

// New implements engine.Factory.
func (f *Factory) New(_ context.Context, cfg engine.Config) (engine.Engine, error) {
	f.mu.Lock()
	gate := f.Gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	if cfg.AccessToken == "" {
		return nil, engine.ErrMissingToken
	}
	e := NewFake()
	f.engines = append(f.engines, e)
	return e, nil
}

// Engines returns every engine the factory built, in order.
func (f *Factory) Engines() []*Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Fake, len(f.engines))
	copy(out, f.engines)
	return out
}

// Fake is a recording engine.Engine.
type Fake struct {
	mu sync.Mutex

	center model.Coordinate
	zoom   float64

	flyTos     []model.Coordinate
	flyZooms   []float64
	easeTos    []model.Coordinate
	easeZooms  []float64
	fitCalls   int
	created    int
	removed    int
	destroyed  bool
	handles    map[string]*FakeMarker
	nextHandle int
}

// NewFake creates a recording engine.
func NewFake() *Fake {
	return &Fake{handles: make(map[string]*FakeMarker)}
}

func (f *Fake) SetCamera(c model.Coordinate, zoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.center, f.zoom = c, zoom
}

func (f *Fake) FlyTo(c model.Coordinate, zoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.center, f.zoom = c, zoom
	f.flyTos = append(f.flyTos, c)
	f.flyZooms = append(f.flyZooms, zoom)
}

func (f *Fake) EaseTo(c model.Coordinate, zoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.center, f.zoom = c, zoom
	f.easeTos = append(f.easeTos, c)
	f.easeZooms = append(f.easeZooms, zoom)
}

func (f *Fake) ZoomIn() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoom++
}

func (f *Fake) ZoomOut() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoom--
}

func (f *Fake) FitBounds(rect s2.Rect, _, maxZoom float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fitCalls++
	center := rect.Center()
	f.center = model.Coordinate{Lat: center.Lat.Degrees(), Lng: center.Lng.Degrees()}
	if f.zoom > maxZoom {
		f.zoom = maxZoom
	}
}

func (f *Fake) Center() model.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.center
}

func (f *Fake) Zoom() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zoom
}

func (f *Fake) AddMarker(c model.Coordinate, a engine.MarkerAppearance) (engine.MarkerHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	f.nextHandle++
	h := &FakeMarker{
		fake:       f,
		key:        strconv.Itoa(f.nextHandle),
		position:   c,
		appearance: a,
	}
	f.handles[h.key] = h
	return h, nil
}

// FlyTos returns every fly-to target so far.
func (f *Fake) FlyTos() []model.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Coordinate, len(f.flyTos))
	copy(out, f.flyTos)
	return out
}

// FlyZooms returns the zoom of every fly-to so far.
func (f *Fake) FlyZooms() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float64, len(f.flyZooms))
	copy(out, f.flyZooms)
	return out
}

// EaseTos returns every ease-to target so far.
func (f *Fake) EaseTos() []model.Coordinate {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Coordinate, len(f.easeTos))
	copy(out, f.easeTos)
	return out
}

// EaseZooms returns the zoom of every ease-to so far.
func (f *Fake) EaseZooms() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]float64, len(f.easeZooms))
	copy(out, f.easeZooms)
	return out
}

// FitCalls reports how many times FitBounds ran.
func (f *Fake) FitCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fitCalls
}

// Created reports the number of elements created.
func (f *Fake) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Removed reports the number of elements removed.
func (f *Fake) Removed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removed
}

// Destroyed reports whether Destroy ran.
func (f *Fake) Destroyed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroyed
}

// Live reports the number of elements created and not yet removed.
func (f *Fake) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handles)
}

// Handles returns the live marker handles.
func (f *Fake) Handles() []*FakeMarker {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*FakeMarker, 0, len(f.handles))
	for _, h := range f.handles {
		out = append(out, h)
	}
	return out
}

func (f *Fake) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = true
	for k := range f.handles {
		delete(f.handles, k)
	}
}

// FakeMarker is a recording engine.MarkerHandle.
type FakeMarker struct {
	mu   sync.Mutex
	fake *Fake
	key  string

	position    model.Coordinate
	appearance  engine.MarkerAppearance
	popup       engine.Popup
	popupOpen   bool
	onClick     func()
	removeCalls int
}

func (m *FakeMarker) SetPosition(c model.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = c
}

func (m *FakeMarker) SetAppearance(a engine.MarkerAppearance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appearance = a
}

func (m *FakeMarker) BindPopup(p engine.Popup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popup = p
}

func (m *FakeMarker) OpenPopup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupOpen = true
}

func (m *FakeMarker) ClosePopup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.popupOpen = false
}

func (m *FakeMarker) PopupOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popupOpen
}

func (m *FakeMarker) OnClick(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = fn
}

// Position returns the last position set on the element.
func (m *FakeMarker) Position() model.Coordinate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Appearance returns the last appearance set on the element.
func (m *FakeMarker) Appearance() engine.MarkerAppearance {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appearance
}

// Popup returns the bound popup content.
func (m *FakeMarker) Popup() engine.Popup {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.popup
}

// RemoveCalls reports how many times Remove ran, idempotent or not.
func (m *FakeMarker) RemoveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeCalls
}

// Click simulates the user clicking the element.
func (m *FakeMarker) Click() {
	m.mu.Lock()
	fn := m.onClick
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (m *FakeMarker) Remove() {
	m.mu.Lock()
	m.removeCalls++
	first := m.removeCalls == 1
	m.mu.Unlock()
	if !first {
		return
	}

	m.fake.mu.Lock()
	m.fake.removed++
	delete(m.fake.handles, m.key)
	m.fake.mu.Unlock()
}
