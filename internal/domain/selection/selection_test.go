package selection_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/internal/domain/selection"
)

// recordingEffects captures effect calls for assertions.
type recordingEffects struct {
	flyTos       []model.Coordinate
	flyZooms     []float64
	opened       []string
	closedExcept []string
	highlighted  []string
}

func (r *recordingEffects) FlyTo(c model.Coordinate, zoom float64) {
	r.flyTos = append(r.flyTos, c)
	r.flyZooms = append(r.flyZooms, zoom)
}

func (r *recordingEffects) OpenPopup(id string) { r.opened = append(r.opened, id) }
func (r *recordingEffects) CloseOtherPopups(id string) {
	r.closedExcept = append(r.closedExcept, id)
}
func (r *recordingEffects) HighlightRow(id string) { r.highlighted = append(r.highlighted, id) }

func newController(effects *recordingEffects, workingSet map[string]model.Marker) *selection.Controller {
	return selection.New(14, effects, func(id string) (model.Marker, bool) {
		m, ok := workingSet[id]
		return m, ok
	})
}

func TestSelectFromList(t *testing.T) {
	Convey("Given an idle controller over one marker", t, func() {
		effects := &recordingEffects{}
		coord := model.Coordinate{Lat: 52.09, Lng: 5.12}
		ctrl := newController(effects, map[string]model.Marker{
			"vet-1": {ID: "vet-1", Coordinate: coord},
		})

		So(ctrl.State(), ShouldEqual, selection.Idle)

		Convey("When selecting from the list", func() {
			ok := ctrl.SelectFromList("vet-1")

			Convey("Then the controller is Selected on that id", func() {
				So(ok, ShouldBeTrue)
				So(ctrl.State(), ShouldEqual, selection.Selected)
				So(ctrl.ActiveID(), ShouldEqual, "vet-1")
			})

			Convey("Then the camera flew to the marker at detail zoom", func() {
				So(effects.flyTos, ShouldResemble, []model.Coordinate{coord})
				So(effects.flyZooms, ShouldResemble, []float64{14})
			})

			Convey("Then sibling popups closed before this one opened", func() {
				So(effects.closedExcept, ShouldResemble, []string{"vet-1"})
				So(effects.opened, ShouldResemble, []string{"vet-1"})
			})
		})

		Convey("When selecting the same id twice", func() {
			ctrl.SelectFromList("vet-1")
			ctrl.SelectFromList("vet-1")

			Convey("Then the state stays Selected on that id", func() {
				So(ctrl.State(), ShouldEqual, selection.Selected)
				So(ctrl.ActiveID(), ShouldEqual, "vet-1")
			})
		})

		Convey("When selecting an id outside the working set", func() {
			ok := ctrl.SelectFromList("ghost")

			Convey("Then it is a no-op", func() {
				So(ok, ShouldBeFalse)
				So(ctrl.State(), ShouldEqual, selection.Idle)
				So(effects.flyTos, ShouldBeEmpty)
				So(effects.opened, ShouldBeEmpty)
			})
		})
	})
}

func TestSelectFromMap(t *testing.T) {
	Convey("Given an idle controller", t, func() {
		effects := &recordingEffects{}
		ctrl := newController(effects, map[string]model.Marker{
			"groom-1": {ID: "groom-1"},
		})

		Convey("When a map marker is clicked", func() {
			ok := ctrl.SelectFromMap("groom-1")

			Convey("Then the list row is highlighted, no camera move", func() {
				So(ok, ShouldBeTrue)
				So(ctrl.State(), ShouldEqual, selection.Selected)
				So(effects.highlighted, ShouldResemble, []string{"groom-1"})
				So(effects.flyTos, ShouldBeEmpty)
			})

			Convey("Then the popup invariant held", func() {
				So(effects.closedExcept, ShouldResemble, []string{"groom-1"})
				So(effects.opened, ShouldResemble, []string{"groom-1"})
			})
		})
	})
}

func TestClearAndRevalidate(t *testing.T) {
	Convey("Given a controller with a live selection", t, func() {
		effects := &recordingEffects{}
		workingSet := map[string]model.Marker{"vet-1": {ID: "vet-1"}}
		ctrl := newController(effects, workingSet)
		ctrl.SelectFromList("vet-1")

		Convey("When cleared explicitly", func() {
			ctrl.Clear()

			Convey("Then it returns to Idle and closes popups", func() {
				So(ctrl.State(), ShouldEqual, selection.Idle)
				So(ctrl.ActiveID(), ShouldBeEmpty)
				So(effects.closedExcept[len(effects.closedExcept)-1], ShouldEqual, "")
			})

			Convey("Then clearing again is a no-op", func() {
				before := len(effects.closedExcept)
				ctrl.Clear()
				So(len(effects.closedExcept), ShouldEqual, before)
			})
		})

		Convey("When the active marker drops out of the working set", func() {
			delete(workingSet, "vet-1")
			invalidated := ctrl.Revalidate()

			Convey("Then the selection transitions to Idle", func() {
				So(invalidated, ShouldBeTrue)
				So(ctrl.State(), ShouldEqual, selection.Idle)
			})
		})

		Convey("When the active marker stays in the working set", func() {
			invalidated := ctrl.Revalidate()

			Convey("Then the selection persists", func() {
				So(invalidated, ShouldBeFalse)
				So(ctrl.State(), ShouldEqual, selection.Selected)
				So(ctrl.ActiveID(), ShouldEqual, "vet-1")
			})
		})
	})
}
