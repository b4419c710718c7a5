package api

import (
	"encoding/json"
	"net/http"
)

// filterRequest mirrors the PUT /filter body. Pointer fields distinguish
// "leave unchanged" from "set to empty".
type filterRequest struct {
	Query    *string `json:"query,omitempty"`
	Category *string `json:"category,omitempty"`
}

// FilterHandler handles filter updates.
type FilterHandler struct {
	deps Dependencies
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(deps Dependencies) *FilterHandler {
	return &FilterHandler{deps: deps}
}

// HandlePutFilter handles PUT /filter requests.
func (h *FilterHandler) HandlePutFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if req.Query != nil {
		h.deps.SetQuery(r.Context(), *req.Query)
	}
	if req.Category != nil {
		h.deps.SetCategory(r.Context(), *req.Category)
	}
	writeJSON(w, http.StatusOK, h.deps.Snapshot())
}
