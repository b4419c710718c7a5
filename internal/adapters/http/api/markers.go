package api

import "net/http"

// MarkersHandler serves the list pane data.
type MarkersHandler struct {
	deps Dependencies
}

// NewMarkersHandler creates a new markers handler.
func NewMarkersHandler(deps Dependencies) *MarkersHandler {
	return &MarkersHandler{deps: deps}
}

// HandleGetMarkers handles GET /markers requests. It returns the working
// set: the markers surviving the active filters, in dataset order.
func (h *MarkersHandler) HandleGetMarkers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Results())
}

// HandleGetCategories handles GET /categories requests.
func (h *MarkersHandler) HandleGetCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Snapshot().Categories)
}
