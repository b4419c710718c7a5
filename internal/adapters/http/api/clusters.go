package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"

	"github.com/placora/geoview/internal/domain/cluster"
)

// ClustersHandler serves the map pane nodes.
type ClustersHandler struct {
	deps Dependencies
}

// NewClustersHandler creates a new clusters handler.
func NewClustersHandler(deps Dependencies) *ClustersHandler {
	return &ClustersHandler{deps: deps}
}

// HandleGetClusters handles GET /clusters?bbox=minLat,minLng,maxLat,maxLng
// requests. Without a bbox every node of the current pass is returned.
func (h *ClustersHandler) HandleGetClusters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	nodes := h.deps.Snapshot().Nodes
	if nodes == nil {
		nodes = []cluster.Node{}
	}

	if bbox := r.URL.Query().Get("bbox"); bbox != "" {
		rect, err := parseBBox(bbox)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		nodes = cluster.Within(nodes, rect)
	}
	writeJSON(w, http.StatusOK, nodes)
}

// parseBBox decodes "minLat,minLng,maxLat,maxLng" into a lat/lng rectangle.
func parseBBox(s string) (s2.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return s2.Rect{}, ErrBadRequest
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return s2.Rect{}, ErrBadRequest
		}
		vals[i] = v
	}
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(vals[0], vals[1]))
	return rect.AddPoint(s2.LatLngFromDegrees(vals[2], vals[3])), nil
}
