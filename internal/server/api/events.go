package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/slidehand/internal/store"
)

// DefaultEventLimit is the page size of GET /api/events without ?limit.
const DefaultEventLimit = 50

// EventHandler serves the dispatch event log.
type EventHandler struct {
	store *store.Store
}

// NewEventHandler creates an EventHandler backed by s.
func NewEventHandler(s *store.Store) *EventHandler {
	return &EventHandler{store: s}
}

type eventResponse struct {
	ID        int64  `json:"id"`
	Mode      string `json:"mode"`
	Gesture   string `json:"gesture"`
	Action    string `json:"action"`
	CreatedAt string `json:"created_at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

type eventCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// ServeHTTP handles GET /api/events?limit=n and GET /api/events/counts.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch itemID(r.URL.Path, "/api/events") {
	case "":
		h.list(w, r)
	case "counts":
		h.counts(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultEventLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events, err := h.store.Events().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	resp := listEventsResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, eventResponse{
			ID:        e.ID,
			Mode:      e.Mode,
			Gesture:   e.Gesture,
			Action:    e.Action,
			CreatedAt: e.CreatedAt.Format(timeLayout),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *EventHandler) counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.Events().CountByAction()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count events")
		return
	}
	writeJSON(w, http.StatusOK, eventCountsResponse{Counts: counts})
}
