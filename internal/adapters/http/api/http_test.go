package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/placora/geoview/internal/adapters/engine"
	"github.com/placora/geoview/internal/adapters/engine/enginetest"
	"github.com/placora/geoview/internal/adapters/http/api"
	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/internal/view"
	"github.com/placora/geoview/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func newTestMux(t *testing.T) (*http.ServeMux, *view.View) {
	t.Helper()
	factory := &enginetest.Factory{}
	v := view.New(factory,
		view.WithEngineConfig(engine.Config{AccessToken: "tok"}),
		view.WithDataset(model.NewDataset([]model.Marker{
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
		})),
		view.WithCategories([]model.Category{
			{Slug: "veterinarian", Icon: "🩺", Label: "Veterinarians", Count: 1},
			{Slug: "groomer", Icon: "✂️", Label: "Groomers", Count: 1},
		}),
	)
	if err := v.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for v.Snapshot().EngineState != engine.StateReady.String() {
		if time.Now().After(deadline) {
			t.Fatal("engine never became ready")
		}
		time.Sleep(time.Millisecond)
	}

	mux := http.NewServeMux()
	api.NewServer(v).Register(context.Background(), mux)
	return mux, v
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestStateAndListing(t *testing.T) {
	Convey("Given a registered API over a mounted view", t, func() {
		mux, _ := newTestMux(t)

		Convey("When GET /state is requested", func() {
			w := do(mux, http.MethodGet, "/state", "")

			Convey("Then the snapshot comes back as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var snap view.Snapshot
				So(json.Unmarshal(w.Body.Bytes(), &snap), ShouldBeNil)
				So(snap.Mounted, ShouldBeTrue)
				So(snap.WorkingSetSize, ShouldEqual, 2)
			})
		})

		Convey("When GET /markers is requested", func() {
			w := do(mux, http.MethodGet, "/markers", "")

			Convey("Then the working set is listed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var markers []model.Marker
				So(json.Unmarshal(w.Body.Bytes(), &markers), ShouldBeNil)
				So(markers, ShouldHaveLength, 2)
			})
		})

		Convey("When GET /categories is requested", func() {
			w := do(mux, http.MethodGet, "/categories", "")

			Convey("Then the filter chips are listed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var cats []model.Category
				So(json.Unmarshal(w.Body.Bytes(), &cats), ShouldBeNil)
				So(cats, ShouldHaveLength, 2)
			})
		})

		Convey("When GET /healthz is requested", func() {
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then the metrics registry is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestFilterEndpoint(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux, v := newTestMux(t)

		Convey("When PUT /filter sets a query", func() {
			w := do(mux, http.MethodPut, "/filter", `{"query":"groom"}`)

			Convey("Then the working set narrows", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(v.Snapshot().WorkingSetSize, ShouldEqual, 1)
				So(v.Results()[0].ID, ShouldEqual, "m2")
			})
		})

		Convey("When PUT /filter sets a category", func() {
			w := do(mux, http.MethodPut, "/filter", `{"category":"veterinarian"}`)

			Convey("Then only that category survives", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(v.Snapshot().Category, ShouldEqual, "veterinarian")
				So(v.Snapshot().WorkingSetSize, ShouldEqual, 1)
			})
		})

		Convey("When PUT /filter carries a corrupt body", func() {
			w := do(mux, http.MethodPut, "/filter", `{`)

			Convey("Then 400 is returned and nothing changes", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(v.Snapshot().WorkingSetSize, ShouldEqual, 2)
			})
		})

		Convey("When /filter is requested with the wrong method", func() {
			w := do(mux, http.MethodGet, "/filter", "")

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSelectEndpoints(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux, v := newTestMux(t)

		Convey("When POST /select/{id} hits a live marker", func() {
			w := do(mux, http.MethodPost, "/select/m1", "")

			Convey("Then the marker becomes selected", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(v.Snapshot().SelectedID, ShouldEqual, "m1")
			})
		})

		Convey("When POST /select/{id} hits a stale id", func() {
			w := do(mux, http.MethodPost, "/select/gone", "")

			Convey("Then 404 is returned and nothing is selected", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(v.Snapshot().SelectedID, ShouldBeEmpty)
			})
		})

		Convey("When DELETE /select clears an active selection", func() {
			So(do(mux, http.MethodPost, "/select/m1", "").Code, ShouldEqual, http.StatusOK)
			w := do(mux, http.MethodDelete, "/select", "")

			Convey("Then the view returns to idle", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(v.Snapshot().SelectedID, ShouldBeEmpty)
			})
		})

		Convey("When POST /cluster/{id}/expand names an unknown node", func() {
			w := do(mux, http.MethodPost, "/cluster/nope/expand", "")

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When POST /cluster/ has a malformed path", func() {
			w := do(mux, http.MethodPost, "/cluster/x", "")

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCameraEndpoints(t *testing.T) {
	Convey("Given a registered API", t, func() {
		mux, v := newTestMux(t)

		Convey("When PUT /viewport moves the camera", func() {
			w := do(mux, http.MethodPut, "/viewport", `{"center":{"lat":52.5,"lng":5.5},"zoom":9}`)

			Convey("Then the camera is applied", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				snap := v.Snapshot()
				So(snap.Camera, ShouldNotBeNil)
				So(snap.Camera.Zoom, ShouldEqual, 9)
			})
		})

		Convey("When PUT /viewport carries garbage coordinates", func() {
			w := do(mux, http.MethodPut, "/viewport", `{"center":{"lat":999,"lng":5.5},"zoom":9}`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When PUT /viewport?op=zoom_in is requested", func() {
			before := v.Snapshot().Camera.Zoom
			w := do(mux, http.MethodPut, "/viewport?op=zoom_in", "")

			Convey("Then the zoom increments", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(v.Snapshot().Camera.Zoom, ShouldEqual, before+1)
			})
		})

		Convey("When PUT /viewport?op=bogus is requested", func() {
			w := do(mux, http.MethodPut, "/viewport?op=bogus", "")

			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When POST /locate is requested with no provider", func() {
			w := do(mux, http.MethodPost, "/locate", "")

			Convey("Then the request succeeds and the camera is unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}
