package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/placora/geoview/internal/view"
)

// SelectHandler handles marker selection and cluster expansion.
type SelectHandler struct {
	deps Dependencies
}

// NewSelectHandler creates a new select handler.
func NewSelectHandler(deps Dependencies) *SelectHandler {
	return &SelectHandler{deps: deps}
}

// HandleSelect handles POST /select/{marker_id} requests. A stale id, one
// no longer in the working set, yields 404 and leaves the view untouched.
func (h *SelectHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/select/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if !h.deps.SelectFromList(r.Context(), id) {
		writeError(w, http.StatusNotFound, "not_found", ErrStaleSelection)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "selected"})
}

// HandleClearSelect handles DELETE /select requests.
func (h *SelectHandler) HandleClearSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	h.deps.ClearSelection()
	writeJSON(w, http.StatusOK, statusResponse{Status: "cleared"})
}

// HandleExpand handles POST /cluster/{node_id}/expand requests.
func (h *SelectHandler) HandleExpand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/cluster/")
	id, ok := strings.CutSuffix(path, "/expand")
	if !ok || id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.ClusterClick(r.Context(), id); err != nil {
		if errors.Is(err, view.ErrUnknownNode) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "expanded"})
}
