// Package main provides a keyboard plugin for macOS.
// It presses presentation keys and shortcuts via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Command string          `json:"command,omitempty"`
	Keys    []string        `json:"keys,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// ShortcutParams defines parameters for the shortcut action.
type ShortcutParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// keyCodes maps named keys to macOS virtual key codes.
var keyCodes = map[string]int{
	"right":  124,
	"left":   123,
	"up":     126,
	"down":   125,
	"enter":  36,
	"return": 36,
	"escape": 53,
	"esc":    53,
	"space":  49,
	"tab":    48,
	"f5":     96,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var err error
	switch req.Action {
	case "press":
		err = handlePress(req)
	case "shortcut":
		err = handleShortcut(req.Params)
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	if err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}
	writeSuccessResponse()
}

// handlePress presses the request keys in order. Bound requests may carry
// their keys in params instead, as {"keys": [...]}.
func handlePress(req Request) error {
	keys := req.Keys
	if len(keys) == 0 && len(req.Params) > 0 {
		var p struct {
			Keys []string `json:"keys"`
		}
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return fmt.Errorf("failed to parse params: %w", err)
		}
		keys = p.Keys
	}
	if len(keys) == 0 {
		return fmt.Errorf("keys are required")
	}

	script, err := buildPressScript(keys)
	if err != nil {
		return err
	}
	return runAppleScript(script)
}

// handleShortcut processes a key with modifiers.
func handleShortcut(params json.RawMessage) error {
	var p ShortcutParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	if p.Key == "" {
		return fmt.Errorf("key is required")
	}

	return runAppleScript(buildShortcutScript(p.Key, p.Modifiers))
}

// buildPressScript generates one System Events block pressing every key.
func buildPressScript(keys []string) (string, error) {
	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		k := strings.ToLower(key)
		if code, ok := keyCodes[k]; ok {
			lines = append(lines, fmt.Sprintf("key code %d", code))
			continue
		}
		if len([]rune(k)) != 1 {
			return "", fmt.Errorf("unknown key %q", key)
		}
		lines = append(lines, fmt.Sprintf("keystroke %q", k))
	}
	return "tell application \"System Events\"\n" + strings.Join(lines, "\n") + "\nend tell", nil
}

// buildShortcutScript generates an AppleScript for the given key and modifiers.
func buildShortcutScript(key string, modifiers []string) string {
	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	press := fmt.Sprintf("keystroke %q", key)
	if code, ok := keyCodes[strings.ToLower(key)]; ok {
		press = fmt.Sprintf("key code %d", code)
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to %s`, press)
	}

	modifierList := strings.Join(appleModifiers, ", ")
	return fmt.Sprintf(`tell application "System Events" to %s using {%s}`, press, modifierList)
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
