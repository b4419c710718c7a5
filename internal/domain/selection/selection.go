// Package selection tracks which marker is active, shared by the list pane
// and the map pane.
package selection

import (
	"github.com/placora/geoview/internal/domain/model"
)

// State names the two controller states.
type State int

const (
	// Idle means no marker is active. It is the initial and terminal state.
	Idle State = iota
	// Selected means exactly one marker is active.
	Selected
)

// Origin labels where a selection came from, for logging and metrics.
const (
	OriginList = "list"
	OriginMap  = "map"
)

// Effects is how the controller reaches the panes. At most one popup is open
// at any time: CloseOtherPopups runs before OpenPopup on every selection.
type Effects interface {
	// FlyTo eases the camera to the marker at detail zoom.
	FlyTo(c model.Coordinate, zoom float64)

	// OpenPopup opens the marker element's popup.
	OpenPopup(markerID string)

	// CloseOtherPopups closes every popup except the given marker's.
	CloseOtherPopups(markerID string)

	// HighlightRow scrolls the list pane to the marker's row.
	HighlightRow(markerID string)
}

// Controller is the single source of truth for the active marker. It is
// single-writer: only the owning view's event handlers call it.
type Controller struct {
	state      State
	activeID   string
	detailZoom float64
	effects    Effects
	inSet      func(id string) (model.Marker, bool)
}

// New creates an Idle controller. lookup resolves an id against the current
// working set; selections of ids it rejects are no-ops.
func New(detailZoom float64, effects Effects, lookup func(id string) (model.Marker, bool)) *Controller {
	return &Controller{
		state:      Idle,
		detailZoom: detailZoom,
		effects:    effects,
		inSet:      lookup,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// ActiveID returns the active marker id, or "" when Idle.
func (c *Controller) ActiveID() string {
	return c.activeID
}

// SelectFromList activates a marker picked in the list pane: fly the camera
// to it, then open its popup. Selecting the active marker again re-applies
// the effects and stays Selected. Unknown ids are ignored.
func (c *Controller) SelectFromList(id string) bool {
	m, ok := c.inSet(id)
	if !ok {
		return false
	}

	c.state = Selected
	c.activeID = id
	c.effects.CloseOtherPopups(id)
	c.effects.FlyTo(m.Coordinate, c.detailZoom)
	c.effects.OpenPopup(id)
	return true
}

// SelectFromMap activates a marker clicked on the map: highlight its list
// row. Unknown ids are ignored (stale callbacks from a superseded pass).
func (c *Controller) SelectFromMap(id string) bool {
	if _, ok := c.inSet(id); !ok {
		return false
	}

	c.state = Selected
	c.activeID = id
	c.effects.CloseOtherPopups(id)
	c.effects.OpenPopup(id)
	c.effects.HighlightRow(id)
	return true
}

// Clear returns to Idle, closing any open popup.
func (c *Controller) Clear() {
	if c.state == Idle {
		return
	}
	c.state = Idle
	c.activeID = ""
	c.effects.CloseOtherPopups("")
}

// Revalidate clears the selection if the active marker left the working set.
// Returns true if the selection was invalidated.
func (c *Controller) Revalidate() bool {
	if c.state != Selected {
		return false
	}
	if _, ok := c.inSet(c.activeID); ok {
		return false
	}
	c.Clear()
	return true
}
