// Package plugin discovers and runs external action plugins. A plugin is an
// executable next to a plugin.json manifest; it reads one JSON Request on
// stdin and writes one JSON Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Actions understood by the bundled plugins.
const (
	ActionPress = "press" // press Keys in order
	ActionMove  = "move"  // move the pointer to Point
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	Platforms    []string        `json:"platforms,omitempty"` // GOOS values; empty means any
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Point is a screen position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action  string          `json:"action"`
	Command string          `json:"command,omitempty"` // slide action that caused the request
	Keys    []string        `json:"keys,omitempty"`
	Point   *Point          `json:"point,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the manifest lists action.
func (p *Plugin) Supports(action string) bool {
	return slices.Contains(p.Manifest.Actions, action)
}

// RunsOn reports whether the plugin can run on goos.
func (p *Plugin) RunsOn(goos string) bool {
	return len(p.Manifest.Platforms) == 0 || slices.Contains(p.Manifest.Platforms, goos)
}
