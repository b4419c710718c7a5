// Package engine defines the contract for the pluggable map rendering
// engine and owns its bootstrap lifecycle.
//
// The engine itself (tile fetching, rasterization, input handling) is a
// black box behind the Engine interface. This package contributes the one
// thing the view needs guaranteed: exactly one engine instance per mounted
// view, created asynchronously, destroyed exactly once, with late bootstrap
// completions discarded instead of applied to a dead view.
package engine

import (
	"context"

	"github.com/golang/geo/s2"

	"github.com/placora/geoview/internal/domain/model"
)

// Config carries what the engine needs to boot. An empty AccessToken is the
// documented trigger for the static fallback view.
type Config struct {
	AccessToken string
	StyleURL    string
}

// MarkerAppearance is the visual contract for one marker element. Premium
// records render differently from standard ones; Count > 1 renders the
// element as a cluster badge.
type MarkerAppearance struct {
	Icon    string
	Premium bool
	Count   int
}

// Popup is the content bound to a marker element's popup.
type Popup struct {
	Title     string
	Lines     []string
	LinkHref  string
	LinkLabel string
}

// MarkerHandle is one visual marker element owned by the reconciler. Remove
// must be idempotent and release the element's listeners exactly once.
type MarkerHandle interface {
	SetPosition(c model.Coordinate)
	SetAppearance(a MarkerAppearance)
	BindPopup(p Popup)
	OpenPopup()
	ClosePopup()
	PopupOpen() bool
	OnClick(fn func())
	Remove()
}

// Engine is the rendering engine surface the view orchestrates. Camera
// methods may animate; Destroy releases every native resource.
type Engine interface {
	SetCamera(c model.Coordinate, zoom float64)
	FlyTo(c model.Coordinate, zoom float64)
	EaseTo(c model.Coordinate, zoom float64)
	ZoomIn()
	ZoomOut()
	FitBounds(rect s2.Rect, paddingPx, maxZoom float64)
	Center() model.Coordinate
	Zoom() float64
	AddMarker(c model.Coordinate, a MarkerAppearance) (MarkerHandle, error)
	Destroy()
}

// Factory bootstraps engine instances. New may fetch remote resources and
// is therefore asynchronous from the view's perspective; the Viewport
// wrapper runs it off the event path and guards the completion.
type Factory interface {
	New(ctx context.Context, cfg Config) (Engine, error)
}
