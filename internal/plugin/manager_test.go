package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeManifest creates dir/name/plugin.json for m.
func writeManifest(t *testing.T, dir string, m Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(dir, m.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	pluginDir := writeManifest(t, tmpDir, Manifest{
		Name:        "keyboard",
		Version:     "1.0.0",
		Description: "Presses keys",
		Executable:  "keyboard",
		Actions:     []string{ActionPress, "shortcut"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "keyboard" {
		t.Errorf("expected plugin name 'keyboard', got %q", plugin.Manifest.Name)
	}
	if plugin.Manifest.Description != "Presses keys" {
		t.Errorf("expected description 'Presses keys', got %q", plugin.Manifest.Description)
	}
	if plugin.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, plugin.Path)
	}
	if plugin.Executable != filepath.Join(pluginDir, "keyboard") {
		t.Errorf("unexpected executable %q", plugin.Executable)
	}
	if !plugin.Supports(ActionPress) || plugin.Supports(ActionMove) {
		t.Error("Supports does not follow the manifest actions")
	}
}

func TestManager_Discover_SortedAndFiltered(t *testing.T) {
	tmpDir := t.TempDir()

	writeManifest(t, tmpDir, Manifest{Name: "pointer", Executable: "pointer", Actions: []string{ActionMove}})
	writeManifest(t, tmpDir, Manifest{Name: "keyboard", Executable: "keyboard", Actions: []string{ActionPress}})
	writeManifest(t, tmpDir, Manifest{Name: "elsewhere", Executable: "x", Platforms: []string{"plan9"}})
	writeManifest(t, tmpDir, Manifest{Name: "here", Executable: "x", Platforms: []string{runtime.GOOS}})
	writeManifest(t, tmpDir, Manifest{Name: "noexec"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	var names []string
	for _, p := range plugins {
		names = append(names, p.Manifest.Name)
	}

	want := []string{"here", "keyboard", "pointer"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
}

func TestManager_Discover_EmptyAndMissingDir(t *testing.T) {
	for _, dir := range []string{t.TempDir(), "/path/that/does/not/exist"} {
		manager := NewManager(dir)
		if err := manager.Discover(); err != nil {
			t.Fatalf("Discover(%s) failed: %v", dir, err)
		}
		if len(manager.List()) != 0 {
			t.Errorf("expected no plugins in %s", dir)
		}
	}
}

func TestManager_Discover_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()

	pluginDir := filepath.Join(tmpDir, "bad-plugin")
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), []byte("not valid json"), 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed unexpectedly: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Fatal("invalid JSON should be skipped")
	}
}

func TestManager_GetAndLookup(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "keyboard", Version: "2.0.0", Executable: "kb", Actions: []string{ActionPress}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugin, err := manager.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if plugin.Manifest.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %q", plugin.Manifest.Version)
	}

	if _, err := manager.Get("nonexistent"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
	if _, err := manager.Lookup("keyboard", ActionPress); err != nil {
		t.Errorf("Lookup(press) failed: %v", err)
	}
	if _, err := manager.Lookup("keyboard", ActionMove); err == nil {
		t.Error("expected error for unsupported action")
	}
	if _, err := manager.Lookup("nonexistent", ActionMove); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_Register(t *testing.T) {
	manager := NewManager("/path/to/plugins")
	if manager.PluginDir() != "/path/to/plugins" {
		t.Errorf("unexpected plugin dir %q", manager.PluginDir())
	}

	manager.Register(&Plugin{Manifest: Manifest{Name: "inline", Actions: []string{ActionMove}}})
	if _, err := manager.Lookup("inline", ActionMove); err != nil {
		t.Errorf("registered plugin not found: %v", err)
	}
}
