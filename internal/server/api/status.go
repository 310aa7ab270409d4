package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/slidehand/internal/app"
)

// StatusSource reports and toggles gesture control.
type StatusSource interface {
	Status() app.Status
	SetEnabled(bool)
}

// StatusHandler serves GET /api/status and PUT /api/status {"enabled": bool}.
type StatusHandler struct {
	source StatusSource
}

// NewStatusHandler creates a StatusHandler for s.
func NewStatusHandler(s StatusSource) *StatusHandler {
	return &StatusHandler{source: s}
}

type enableRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.source.Status())

	case http.MethodPut:
		var req enableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.source.SetEnabled(*req.Enabled)
		writeJSON(w, http.StatusOK, h.source.Status())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
