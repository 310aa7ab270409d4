package e2e

import (
	"bufio"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/config"
	"github.com/ayusman/slidehand/internal/detector"
	"github.com/ayusman/slidehand/internal/plugin"
	"github.com/ayusman/slidehand/internal/server"
	"github.com/ayusman/slidehand/internal/store"
)

// installPlugin writes a plugin that appends every request it receives to
// a log file, one JSON document per line.
func installPlugin(t *testing.T, pluginDir, name string, actions ...string) string {
	t.Helper()

	dir := filepath.Join(pluginDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "requests.log")
	script := "#!/bin/sh\ncat >> " + out + "\necho >> " + out + "\necho '{\"success\":true}'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	manifest, _ := json.Marshal(plugin.Manifest{Name: name, Version: "1.0.0", Executable: "run.sh", Actions: actions})
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), manifest, 0644); err != nil {
		t.Fatal(err)
	}
	return out
}

func readRequests(path string) []plugin.Request {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var reqs []plugin.Request
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var req plugin.Request
		if json.Unmarshal(sc.Bytes(), &req) == nil {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

type harness struct {
	app      *app.App
	store    *store.Store
	ts       *httptest.Server
	keyboard string
	remote   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping e2e test")
	}
	if runtime.GOOS == "windows" {
		t.Skip("shell plugins need a POSIX shell")
	}

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Screen.Width, cfg.Screen.Height = 800, 600

	h := &harness{
		keyboard: installPlugin(t, cfg.PluginDir(), "keyboard", plugin.ActionPress),
		remote:   installPlugin(t, cfg.PluginDir(), "remote", plugin.ActionPress),
	}

	s, err := store.New(cfg.DBPath())
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	h.store = s

	a, err := app.New(app.Config{Settings: cfg, Store: s})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	a.SetInjector(nil)
	a.SetDetector(detector.NewMockDetector(), "mock")
	if err := a.DiscoverPlugins(); err != nil {
		t.Fatalf("DiscoverPlugins() error = %v", err)
	}
	h.app = a

	srv := server.New(server.Config{Store: s, App: a})
	t.Cleanup(srv.Close)
	h.ts = httptest.NewServer(srv)
	t.Cleanup(h.ts.Close)
	return h
}

// hold shows hand to the app for n frames, 66ms apart.
func (h *harness) hold(hand detector.HandLandmarks, n int, start time.Time) time.Time {
	now := start
	for i := 0; i < n; i++ {
		h.app.ProcessHand(&hand, now)
		now = now.Add(66 * time.Millisecond)
	}
	return now
}

func (h *harness) status(t *testing.T) app.Status {
	t.Helper()
	resp, err := h.ts.Client().Get(h.ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status error = %v", err)
	}
	defer resp.Body.Close()

	var st app.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

func TestE2E_NavigationWithBinding(t *testing.T) {
	h := newHarness(t)
	client := h.ts.Client()

	resp, err := client.Post(h.ts.URL+"/api/bindings", "application/json",
		strings.NewReader(`{"action":"next-slide","plugin_name":"remote","plugin_action":"press","params":{"button":"forward"}}`))
	if err != nil {
		t.Fatalf("POST /api/bindings error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	// A held fist advances once, through the bound plugin.
	now := h.hold(detector.FistLandmarks(), 10, time.Now())
	waitFor(t, "bound plugin", func() bool { return len(readRequests(h.remote)) == 1 })

	req := readRequests(h.remote)[0]
	if req.Command != "next-slide" || string(req.Params) != `{"button":"forward"}` {
		t.Errorf("unexpected request %+v", req)
	}

	// Open hand goes back through the default keyboard plugin.
	h.hold(detector.OpenHandLandmarks(), 10, now.Add(time.Second))
	waitFor(t, "keyboard plugin", func() bool { return len(readRequests(h.keyboard)) == 1 })
	if keys := readRequests(h.keyboard)[0].Keys; len(keys) != 1 || keys[0] != "left" {
		t.Errorf("expected [left], got %v", keys)
	}

	waitFor(t, "event log", func() bool {
		counts, _ := h.store.Events().CountByAction()
		return counts["next-slide"] == 1 && counts["previous-slide"] == 1
	})

	if st := h.status(t); st.LastAction != "previous-slide" || st.Mode != "navigation" {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestE2E_PointerOverlay(t *testing.T) {
	h := newHarness(t)
	client := h.ts.Client()

	// Pointer mode hides the overlay until entered.
	resp, _ := client.Get(h.ts.URL + "/api/overlay.png")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("overlay before pointer mode: status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	now := h.hold(detector.PointLandmarks(), 5, time.Now())
	now = h.hold(detector.PointLandmarks().WithTip(0.25, 0.5), 3, now)

	st := h.status(t)
	if st.Mode != "pointer" || st.Pointer == nil {
		t.Fatalf("expected pointer mode, got %+v", st)
	}
	if st.Pointer.X != 600 || st.Pointer.Y != 300 {
		t.Errorf("expected pointer at (600, 300), got (%d, %d)", st.Pointer.X, st.Pointer.Y)
	}

	resp, err := client.Get(h.ts.URL + "/api/overlay.png?scale=0.5")
	if err != nil {
		t.Fatalf("GET /api/overlay.png error = %v", err)
	}
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode overlay: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("expected a 400x300 overlay, got %v", b)
	}

	h.hold(detector.FistLandmarks(), 5, now.Add(2*time.Second))
	if st := h.status(t); st.Mode != "navigation" || st.Pointer != nil {
		t.Errorf("expected navigation after fist, got %+v", st)
	}
}

func TestE2E_ManualRemote(t *testing.T) {
	h := newHarness(t)
	client := h.ts.Client()

	resp, err := client.Post(h.ts.URL+"/api/commands", "application/json", strings.NewReader(`{"action":"go-to-slide","slide":12}`))
	if err != nil {
		t.Fatalf("POST /api/commands error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusAccepted)
	}

	waitFor(t, "keyboard plugin", func() bool { return len(readRequests(h.keyboard)) == 1 })
	req := readRequests(h.keyboard)[0]
	if strings.Join(req.Keys, ",") != "1,2,enter" {
		t.Errorf("expected keys 1,2,enter, got %v", req.Keys)
	}

	// Disabling gesture control over the API stops gestures, not the remote.
	put, _ := http.NewRequest(http.MethodPut, h.ts.URL+"/api/status", strings.NewReader(`{"enabled":false}`))
	resp, err = client.Do(put)
	if err != nil {
		t.Fatalf("PUT /api/status error = %v", err)
	}
	resp.Body.Close()

	h.hold(detector.FistLandmarks(), 10, time.Now())
	time.Sleep(100 * time.Millisecond)
	if n := len(readRequests(h.keyboard)); n != 1 {
		t.Errorf("expected no gesture presses while disabled, got %d requests", n)
	}

	resp, _ = client.Post(h.ts.URL+"/api/commands", "application/json", strings.NewReader(`{"action":"black-screen"}`))
	resp.Body.Close()
	waitFor(t, "second keyboard request", func() bool { return len(readRequests(h.keyboard)) == 2 })
}
