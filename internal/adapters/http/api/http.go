// Package api declares HTTP contracts and route registration helpers for
// the headless map-view harness.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/placora/geoview/internal/domain/model"
	"github.com/placora/geoview/internal/view"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the view implementation.
type Dependencies interface {
	// Snapshot returns the host-visible view state.
	Snapshot() view.Snapshot

	// Results returns the current working set for the list pane.
	Results() []model.Marker

	// Filter operations.
	SetQuery(ctx context.Context, text string)
	SetCategory(ctx context.Context, slug string)

	// Selection operations.
	SelectFromList(ctx context.Context, id string) bool
	ClearSelection()
	ClusterClick(ctx context.Context, nodeID string) error

	// Camera operations.
	SetViewport(ctx context.Context, center model.Coordinate, zoom float64)
	ZoomIn(ctx context.Context)
	ZoomOut(ctx context.Context)
	FitToResults(ctx context.Context)
	Locate(ctx context.Context)
}

// Server wires HTTP routes for the map-view API.
type Server struct {
	healthHandler   *HealthHandler
	stateHandler    *StateHandler
	markersHandler  *MarkersHandler
	filterHandler   *FilterHandler
	selectHandler   *SelectHandler
	cameraHandler   *CameraHandler
	clustersHandler *ClustersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		stateHandler:    NewStateHandler(deps),
		markersHandler:  NewMarkersHandler(deps),
		filterHandler:   NewFilterHandler(deps),
		selectHandler:   NewSelectHandler(deps),
		cameraHandler:   NewCameraHandler(deps),
		clustersHandler: NewClustersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/state", MetricsMiddleware(s.stateHandler.HandleGetState, "state"))
	mux.HandleFunc("/markers", MetricsMiddleware(s.markersHandler.HandleGetMarkers, "markers"))
	mux.HandleFunc("/categories", MetricsMiddleware(s.markersHandler.HandleGetCategories, "categories"))
	mux.HandleFunc("/clusters", MetricsMiddleware(s.clustersHandler.HandleGetClusters, "clusters"))
	mux.HandleFunc("/filter", MetricsMiddleware(s.filterHandler.HandlePutFilter, "filter"))
	mux.HandleFunc("/select", MetricsMiddleware(s.selectHandler.HandleClearSelect, "select"))
	mux.HandleFunc("/select/", MetricsMiddleware(s.selectHandler.HandleSelect, "select"))
	mux.HandleFunc("/cluster/", MetricsMiddleware(s.selectHandler.HandleExpand, "cluster_expand"))
	mux.HandleFunc("/viewport", MetricsMiddleware(s.cameraHandler.HandlePutViewport, "viewport"))
	mux.HandleFunc("/locate", MetricsMiddleware(s.cameraHandler.HandleLocate, "locate"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
