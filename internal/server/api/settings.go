package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/slidehand/internal/config"
)

// Tuner reads and changes the live gesture tuning.
type Tuner interface {
	Tuning() config.Tuning
	UpdateTuning(config.Tuning) error
}

// SettingsHandler serves GET and PUT /api/settings.
type SettingsHandler struct {
	tuner Tuner
}

// NewSettingsHandler creates a SettingsHandler for t.
func NewSettingsHandler(t Tuner) *SettingsHandler {
	return &SettingsHandler{tuner: t}
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.tuner.Tuning())

	case http.MethodPut:
		// Fields missing from the body keep their current value.
		t := h.tuner.Tuning()
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if err := t.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := h.tuner.UpdateTuning(t); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update settings")
			return
		}
		writeJSON(w, http.StatusOK, h.tuner.Tuning())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
