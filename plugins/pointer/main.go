// Package main provides a pointer plugin for macOS.
// It moves the system cursor with cliclick.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Point  *Point          `json:"point,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Point is a screen position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	switch req.Action {
	case "move":
		writeResponse(move(req.Point))
	case "click":
		writeResponse(click(req.Point))
	default:
		writeResponse(fmt.Errorf("unknown action: %s", req.Action))
	}
}

func move(p *Point) error {
	if p == nil {
		return fmt.Errorf("point is required")
	}
	return runCliclick(moveArg("m", *p))
}

func click(p *Point) error {
	if p == nil {
		return fmt.Errorf("point is required")
	}
	return runCliclick(moveArg("c", *p))
}

// moveArg formats a cliclick command. Negative coordinates need the "=" prefix.
func moveArg(cmd string, p Point) string {
	return fmt.Sprintf("%s:=%d,=%d", cmd, p.X, p.Y)
}

func runCliclick(arg string) error {
	path, err := exec.LookPath("cliclick")
	if err != nil {
		return fmt.Errorf("cliclick not installed (brew install cliclick)")
	}
	output, err := exec.Command(path, arg).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
