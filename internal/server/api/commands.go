package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/slidehand/internal/control"
)

// Commander executes manual slide commands.
type Commander interface {
	Trigger(control.Command) error
}

// CommandHandler serves POST /api/commands, the manual remote.
type CommandHandler struct {
	commander Commander
}

// NewCommandHandler creates a CommandHandler for c.
func NewCommandHandler(c Commander) *CommandHandler {
	return &CommandHandler{commander: c}
}

type commandRequest struct {
	Action string `json:"action"`
	Slide  int    `json:"slide,omitempty"`
}

type commandResponse struct {
	Status  string `json:"status"`
	Command string `json:"command"`
}

func (h *CommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	action, err := control.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cmd := control.Command{Action: action, Slide: req.Slide}
	if err := cmd.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.commander.Trigger(cmd); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to queue command")
		return
	}

	writeJSON(w, http.StatusAccepted, commandResponse{Status: "queued", Command: cmd.String()})
}
