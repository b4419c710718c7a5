package geoloc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/adapters/engine/enginetest"
	"github.com/placora/geoview/internal/adapters/geoloc"
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func readyViewport(t *testing.T, factory *enginetest.Factory) *engine.Viewport {
	t.Helper()
	vp := engine.NewViewport(factory, engine.Config{AccessToken: "pk.test"})
	if err := vp.Initialize(context.Background(), model.Coordinate{Lat: 52, Lng: 5}, 7); err != nil {
		t.Fatalf("initialize viewport: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for vp.State() != engine.StateReady && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if vp.State() != engine.StateReady {
		t.Fatal("viewport never became ready")
	}
	return vp
}

func TestLocate(t *testing.T) {
	Convey("Given a ready viewport", t, func() {
		factory := &enginetest.Factory{}
		vp := readyViewport(t, factory)
		home := model.Coordinate{Lat: 51.44, Lng: 5.47}

		Convey("When the provider resolves a position", func() {
			adapter := geoloc.New(geoloc.StaticProvider{Coord: home}, vp, geoloc.WithZoom(12))
			err := adapter.Locate(context.Background())

			Convey("Then the camera flies there at neighborhood zoom", func() {
				So(err, ShouldBeNil)
				center, zoom, ok := vp.Camera()
				So(ok, ShouldBeTrue)
				So(center, ShouldResemble, home)
				So(zoom, ShouldEqual, 12)
			})
		})

		Convey("When permission is denied", func() {
			before, beforeZoom, _ := vp.Camera()
			adapter := geoloc.New(geoloc.StaticProvider{Err: geoloc.ErrPermissionDenied}, vp)
			err := adapter.Locate(context.Background())

			Convey("Then the viewport is exactly as it was", func() {
				So(errors.Is(err, geoloc.ErrPermissionDenied), ShouldBeTrue)
				center, zoom, ok := vp.Camera()
				So(ok, ShouldBeTrue)
				So(center, ShouldResemble, before)
				So(zoom, ShouldEqual, beforeZoom)
				So(len(factory.Engines()[0].FlyTos()), ShouldEqual, 0)
			})
		})

		Convey("When the provider returns garbage coordinates", func() {
			adapter := geoloc.New(geoloc.StaticProvider{Coord: model.Coordinate{Lat: 200, Lng: 0}}, vp)
			err := adapter.Locate(context.Background())

			Convey("Then the fix is rejected as unavailable", func() {
				So(errors.Is(err, geoloc.ErrUnavailable), ShouldBeTrue)
				So(len(factory.Engines()[0].FlyTos()), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a viewport torn down while the prompt was up", t, func() {
		factory := &enginetest.Factory{}
		vp := readyViewport(t, factory)
		vp.Destroy()

		adapter := geoloc.New(geoloc.StaticProvider{Coord: model.Coordinate{Lat: 51, Lng: 5}}, vp)
		err := adapter.Locate(context.Background())

		Convey("Then the late fix is silently dropped", func() {
			So(err, ShouldBeNil)
			So(len(factory.Engines()[0].FlyTos()), ShouldEqual, 0)
		})
	})
}
