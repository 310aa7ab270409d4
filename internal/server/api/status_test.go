package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/control"
)

type fakeStatus struct {
	status app.Status
}

func (f *fakeStatus) Status() app.Status       { return f.status }
func (f *fakeStatus) SetEnabled(enabled bool) { f.status.Enabled = enabled }

func TestStatusHandler(t *testing.T) {
	source := &fakeStatus{status: app.Status{
		Snapshot: control.Snapshot{Mode: control.ModePointer},
		Enabled:  true,
		Running:  true,
		Detector: "mediapipe",
	}}
	handler := NewStatusHandler(source)

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

		var got map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got["mode"] != "pointer" || got["detector"] != "mediapipe" || got["enabled"] != true {
			t.Errorf("unexpected status %v", got)
		}
	})

	t.Run("disable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/status", strings.NewReader(`{"enabled":false}`)))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if source.status.Enabled {
			t.Error("expected gesture control to be disabled")
		}
	})

	t.Run("missing field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/status", strings.NewReader(`{}`)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}
