package view

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

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func testDataset() *model.Dataset {
	return model.NewDataset([]model.Marker{
		{
			ID: "m1", Name: "City Vet Clinic", Slug: "city-vet-clinic",
			Coordinate:   model.Coordinate{Lat: 52.09, Lng: 5.12},
			CategorySlug: "veterinarian",
			City:         model.City{Name: "Utrecht", Slug: "utrecht"},
		},
		{
			ID: "m2", Name: "Happy Paws Grooming", Slug: "happy-paws",
			Coordinate:   model.Coordinate{Lat: 52.37, Lng: 4.90},
			CategorySlug: "groomer",
			City:         model.City{Name: "Amsterdam", Slug: "amsterdam"},
		},
		{
			ID: "m3", Name: "Northern Vet Practice", Slug: "northern-vet",
			Coordinate:   model.Coordinate{Lat: 53.22, Lng: 6.57},
			CategorySlug: "veterinarian",
			City:         model.City{Name: "Groningen", Slug: "groningen"},
		},
	})
}

func mountedView(t *testing.T, opts ...Option) (*View, *enginetest.Factory, *enginetest.Fake) {
	t.Helper()
	factory := &enginetest.Factory{}
	opts = append([]Option{
		WithEngineConfig(engine.Config{AccessToken: "tok"}),
		WithDataset(testDataset()),
	}, opts...)
	v := New(factory, opts...)
	So(v.Mount(context.Background()), ShouldBeNil)
	waitFor(t, func() bool { return v.Snapshot().EngineState == engine.StateReady.String() })
	waitFor(t, func() bool { return len(factory.Engines()) == 1 })
	eng := factory.Engines()[0]
	waitFor(t, func() bool { return eng.Live() > 0 })
	return v, factory, eng
}

func TestMountLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a view with a valid engine configuration", t, func() {
		v, _, eng := mountedView(t)

		Convey("When it mounts", func() {
			snap := v.Snapshot()

			Convey("Then the engine is ready and markers synced", func() {
				So(snap.Mounted, ShouldBeTrue)
				So(snap.Fallback, ShouldBeFalse)
				So(snap.DatasetSize, ShouldEqual, 3)
				So(snap.WorkingSetSize, ShouldEqual, 3)
				So(eng.Live(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When it mounts a second time", func() {
			err := v.Mount(ctx)

			Convey("Then the second mount is rejected", func() {
				So(err, ShouldEqual, ErrAlreadyMounted)
			})
		})

		Convey("When it unmounts twice", func() {
			v.Unmount()
			v.Unmount()

			Convey("Then every element is removed and the engine destroyed once", func() {
				So(eng.Live(), ShouldEqual, 0)
				So(eng.Removed(), ShouldEqual, eng.Created())
				So(eng.Destroyed(), ShouldBeTrue)
				So(v.Snapshot().Mounted, ShouldBeFalse)
			})
		})
	})
}

func TestFallback(t *testing.T) {
	ctx := context.Background()

	Convey("Given a view without an engine access token", t, func() {
		factory := &enginetest.Factory{}
		v := New(factory, WithDataset(testDataset()))

		Convey("When it mounts", func() {
			err := v.Mount(ctx)
			snap := v.Snapshot()

			Convey("Then the fallback shows the unfiltered marker count", func() {
				So(err, ShouldBeNil)
				So(snap.Fallback, ShouldBeTrue)
				So(snap.FallbackText, ShouldContainSubstring, "3")
				So(len(factory.Engines()), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a view whose engine bootstrap fails", t, func() {
		factory := &enginetest.Factory{Err: engine.ErrNotReady}
		v := New(factory,
			WithEngineConfig(engine.Config{AccessToken: "tok"}),
			WithDataset(testDataset()),
		)

		Convey("When it mounts", func() {
			So(v.Mount(ctx), ShouldBeNil)
			waitFor(t, func() bool { return v.Snapshot().Fallback })

			Convey("Then the view degrades instead of erroring", func() {
				snap := v.Snapshot()
				So(snap.Fallback, ShouldBeTrue)
				So(snap.FallbackText, ShouldNotBeEmpty)
			})
		})
	})
}

func TestFiltering(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mounted view with three markers", t, func() {
		v, _, eng := mountedView(t)

		Convey("When the user types a query matching one marker", func() {
			v.SetQuery(ctx, "city vet")
			snap := v.Snapshot()

			Convey("Then only that marker survives on map and list", func() {
				So(snap.WorkingSetSize, ShouldEqual, 1)
				So(snap.Nodes, ShouldHaveLength, 1)
				So(snap.Nodes[0].Leaf.ID, ShouldEqual, "m1")
				So(eng.Live(), ShouldEqual, 1)
			})
		})

		Convey("When the user picks a category", func() {
			v.SetCategory(ctx, "veterinarian")

			Convey("Then both filters intersect", func() {
				So(v.Snapshot().WorkingSetSize, ShouldEqual, 2)

				v.SetQuery(ctx, "northern")
				So(v.Snapshot().WorkingSetSize, ShouldEqual, 1)
			})
		})

		Convey("When the category changes", func() {
			var got string
			v.onCategoryChange = func(slug string) { got = slug }
			v.SetCategory(ctx, "groomer")

			Convey("Then the host callback fires with the slug", func() {
				So(got, ShouldEqual, "groomer")
			})
		})

		Convey("When a filter excludes the selected marker", func() {
			So(v.SelectFromList(ctx, "m2"), ShouldBeTrue)
			So(v.Snapshot().SelectedID, ShouldEqual, "m2")

			v.SetCategory(ctx, "veterinarian")

			Convey("Then the selection is cleared", func() {
				snap := v.Snapshot()
				So(snap.SelectedID, ShouldBeEmpty)
				So(snap.HighlightedID, ShouldBeEmpty)
			})
		})
	})
}

func TestSelection(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mounted view", t, func() {
		v, _, eng := mountedView(t)

		Convey("When a marker is selected from the list", func() {
			ok := v.SelectFromList(ctx, "m1")

			Convey("Then the camera flies to it at detail zoom", func() {
				So(ok, ShouldBeTrue)
				So(eng.FlyTos(), ShouldHaveLength, 1)
				So(eng.FlyTos()[0].Lat, ShouldAlmostEqual, 52.09, 1e-9)
				So(eng.FlyZooms()[0], ShouldEqual, 14)
				So(v.Snapshot().SelectedID, ShouldEqual, "m1")
			})
		})

		Convey("When the selected marker is currently absorbed into a cluster", func() {
			v.SetViewport(ctx, model.Coordinate{Lat: 52.23, Lng: 5.01}, 5)
			clustered := false
			for _, n := range v.Snapshot().Nodes {
				if n.IsCluster() {
					clustered = true
				}
			}
			So(clustered, ShouldBeTrue)

			ok := v.SelectFromList(ctx, "m1")

			Convey("Then the cluster pass reruns and the popup still opens", func() {
				So(ok, ShouldBeTrue)
				So(eng.Zoom(), ShouldEqual, 14)
				open := 0
				for _, h := range eng.Handles() {
					if h.PopupOpen() {
						open++
					}
				}
				So(open, ShouldEqual, 1)
				for _, n := range v.Snapshot().Nodes {
					So(n.IsCluster(), ShouldBeFalse)
				}
			})
		})

		Convey("When a stale id is selected", func() {
			ok := v.SelectFromList(ctx, "gone")

			Convey("Then nothing happens", func() {
				So(ok, ShouldBeFalse)
				So(eng.FlyTos(), ShouldBeEmpty)
				So(v.Snapshot().SelectedID, ShouldBeEmpty)
			})
		})

		Convey("When a marker is clicked on the map", func() {
			v.SetQuery(ctx, "city vet")
			handle := eng.Handles()[0]
			handle.Click()

			Convey("Then the list row highlights without moving the camera", func() {
				snap := v.Snapshot()
				So(snap.SelectedID, ShouldEqual, "m1")
				So(snap.HighlightedID, ShouldEqual, "m1")
				So(eng.FlyTos(), ShouldBeEmpty)
			})
		})

		Convey("When the selection is cleared", func() {
			So(v.SelectFromList(ctx, "m1"), ShouldBeTrue)
			v.ClearSelection()

			Convey("Then the view returns to idle", func() {
				snap := v.Snapshot()
				So(snap.SelectedID, ShouldBeEmpty)
				So(snap.HighlightedID, ShouldBeEmpty)
			})
		})
	})
}

func TestClusterInteraction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mounted view zoomed out over all markers", t, func() {
		v, _, eng := mountedView(t)
		v.SetViewport(ctx, model.Coordinate{Lat: 52.5, Lng: 5.5}, 5)

		snap := v.Snapshot()
		var clusterID string
		for _, n := range snap.Nodes {
			if n.IsCluster() {
				clusterID = n.ID
				break
			}
		}
		So(clusterID, ShouldNotBeEmpty)

		Convey("When the cluster badge is clicked", func() {
			So(v.ClusterClick(ctx, clusterID), ShouldBeNil)

			Convey("Then the camera eases to the expansion zoom", func() {
				So(eng.EaseTos(), ShouldHaveLength, 1)
				So(eng.EaseZooms()[0], ShouldBeGreaterThan, 5)
			})
		})

		Convey("When an unknown node id is clicked", func() {
			err := v.ClusterClick(ctx, "nope")

			Convey("Then the click is rejected", func() {
				So(errors.Is(err, ErrUnknownNode), ShouldBeTrue)
			})
		})

		Convey("When the view is unmounted before the click lands", func() {
			v.Unmount()
			err := v.ClusterClick(ctx, clusterID)

			Convey("Then the late click is rejected", func() {
				So(errors.Is(err, ErrNotMounted), ShouldBeTrue)
				So(eng.EaseTos(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a view that was never mounted", t, func() {
		v := New(&enginetest.Factory{}, WithDataset(testDataset()))

		Convey("When a cluster click arrives", func() {
			err := v.ClusterClick(ctx, "any")

			So(errors.Is(err, ErrNotMounted), ShouldBeTrue)
		})
	})
}

func TestGeolocation(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mounted view with a working position provider", t, func() {
		v, _, eng := mountedView(t, WithPositionProvider(geoloc.StaticProvider{
			Coord: model.Coordinate{Lat: 51.92, Lng: 4.48},
		}))

		Convey("When the user asks to find themselves", func() {
			v.Locate(ctx)

			Convey("Then the camera flies to the fix", func() {
				So(eng.FlyTos(), ShouldHaveLength, 1)
				So(eng.FlyTos()[0].Lat, ShouldAlmostEqual, 51.92, 1e-9)
				So(eng.FlyZooms()[0], ShouldEqual, 12)
			})
		})
	})

	Convey("Given a view whose provider denies permission", t, func() {
		v, _, eng := mountedView(t, WithPositionProvider(geoloc.StaticProvider{
			Err: geoloc.ErrPermissionDenied,
		}))
		before := eng.Center()

		Convey("When the user asks to find themselves", func() {
			v.Locate(ctx)

			Convey("Then the camera is untouched and no error surfaces", func() {
				So(eng.FlyTos(), ShouldBeEmpty)
				So(eng.Center(), ShouldResemble, before)
			})
		})
	})
}

func TestCameraOperations(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mounted view", t, func() {
		v, _, eng := mountedView(t, WithInitialCamera(model.Coordinate{Lat: 52, Lng: 5}, 7))

		Convey("When the host zooms in and out", func() {
			v.ZoomIn(ctx)
			So(eng.Zoom(), ShouldEqual, 8)

			v.ZoomOut(ctx)
			So(eng.Zoom(), ShouldEqual, 7)
		})

		Convey("When the host fits to the current results", func() {
			v.SetQuery(ctx, "vet")
			v.FitToResults(ctx)

			Convey("Then the engine frames the working set", func() {
				So(eng.FitCalls(), ShouldEqual, 1)
			})
		})
	})
}

func TestDatasetReplacement(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mounted view with an active query", t, func() {
		v, _, eng := mountedView(t)
		v.SetQuery(ctx, "vet")
		So(v.Snapshot().WorkingSetSize, ShouldEqual, 2)

		Convey("When a fresh snapshot replaces the dataset", func() {
			v.ReplaceDataset(ctx, model.NewDataset([]model.Marker{
				{
					ID: "n1", Name: "Harbor Vet", Slug: "harbor-vet",
					Coordinate: model.Coordinate{Lat: 51.9, Lng: 4.5},
					City:       model.City{Name: "Rotterdam", Slug: "rotterdam"},
				},
			}))

			Convey("Then the filter reapplies over the new data", func() {
				snap := v.Snapshot()
				So(snap.DatasetSize, ShouldEqual, 1)
				So(snap.WorkingSetSize, ShouldEqual, 1)
				So(eng.Live(), ShouldEqual, 1)
			})
		})
	})
}
