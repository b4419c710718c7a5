package api

import (
	"encoding/json"
	"net/http"

	"github.com/placora/geoview/internal/domain/model"
)

// viewportRequest mirrors the PUT /viewport body.
type viewportRequest struct {
	Center model.Coordinate `json:"center"`
	Zoom   float64          `json:"zoom"`
}

func (v viewportRequest) validate() error {
	if !v.Center.Valid() {
		return ErrBadRequest
	}
	if v.Zoom < 0 || v.Zoom > 22 {
		return ErrBadRequest
	}
	return nil
}

// CameraHandler handles host-driven camera operations.
type CameraHandler struct {
	deps Dependencies
}

// NewCameraHandler creates a new camera handler.
func NewCameraHandler(deps Dependencies) *CameraHandler {
	return &CameraHandler{deps: deps}
}

// HandlePutViewport handles PUT /viewport requests and the zoom and fit
// shortcuts via the "op" query parameter (zoom_in, zoom_out, fit).
func (h *CameraHandler) HandlePutViewport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}

	switch r.URL.Query().Get("op") {
	case "zoom_in":
		h.deps.ZoomIn(r.Context())
	case "zoom_out":
		h.deps.ZoomOut(r.Context())
	case "fit":
		h.deps.FitToResults(r.Context())
	case "":
		var req viewportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		h.deps.SetViewport(r.Context(), req.Center, req.Zoom)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Snapshot())
}

// HandleLocate handles POST /locate requests. Denied or failed position
// fixes leave the camera alone; the response is the state either way.
func (h *CameraHandler) HandleLocate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.Locate(r.Context())
	writeJSON(w, http.StatusOK, h.deps.Snapshot())
}
