// Package config loads slidehand settings from defaults, an optional JSON
// file and SLIDEHAND_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/slidehand/internal/control"
	"github.com/ayusman/slidehand/internal/detector"
	"github.com/ayusman/slidehand/internal/gesture"
)

// Config is the complete application configuration.
type Config struct {
	Detector  detector.Config `json:"detector"`
	Gesture   GestureConfig   `json:"gesture"`
	Screen    control.Screen  `json:"screen"`
	Camera    CameraConfig    `json:"camera"`
	Server    ServerConfig    `json:"server"`
	Paths     PathsConfig     `json:"paths"`
	Recording RecordingConfig `json:"recording"`
}

// GestureConfig tunes classification and debouncing.
type GestureConfig struct {
	PinchThreshold    float64 `json:"pinch_threshold"`
	RequiredStability int     `json:"required_stability"`
	CooldownSeconds   float64 `json:"cooldown_seconds"`
	ThumbDirection    string  `json:"thumb_direction"`
}

// CameraConfig selects and tunes the capture device.
type CameraConfig struct {
	DeviceID        int     `json:"device_id"`
	Mirror          bool    `json:"mirror"`
	MotionThreshold float64 `json:"motion_threshold"` // percent of changed pixels
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// PathsConfig holds on-disk locations. Empty values are derived from DataDir.
type PathsConfig struct {
	DataDir   string `json:"data_dir"`
	PluginDir string `json:"plugin_dir"`
	WebDir    string `json:"web_dir"`
}

// RecordingConfig enables landmark recording or replay.
type RecordingConfig struct {
	Path   string `json:"path"`   // record landmark frames to this file
	Replay string `json:"replay"` // replay landmark frames from this file instead of the camera
	Loop   bool   `json:"loop"`
}

// Default returns the stock configuration.
func Default() Config {
	dataDir := ".slidehand"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".slidehand")
	}

	return Config{
		Detector: detector.DefaultConfig(),
		Gesture: GestureConfig{
			PinchThreshold:    gesture.DefaultPinchThreshold,
			RequiredStability: gesture.DefaultRequiredStability,
			CooldownSeconds:   gesture.DefaultCooldown.Seconds(),
			ThumbDirection:    string(gesture.ThumbRight),
		},
		Screen: control.DefaultScreen,
		Camera: CameraConfig{
			DeviceID:        0,
			Mirror:          true,
			MotionThreshold: 1.0,
		},
		Server: ServerConfig{Addr: ":8080"},
		Paths:  PathsConfig{DataDir: dataDir},
	}
}

// Load reads a JSON file on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as indented JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from SLIDEHAND_* variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	env := func(key string) string {
		return strings.TrimSpace(getenv(key))
	}

	if v := env("SLIDEHAND_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := env("SLIDEHAND_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := env("SLIDEHAND_CAMERA"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SLIDEHAND_CAMERA: %w", err)
		}
		c.Camera.DeviceID = id
	}
	if v := env("SLIDEHAND_COOLDOWN"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SLIDEHAND_COOLDOWN: %w", err)
		}
		c.Gesture.CooldownSeconds = secs
	}
	if v := env("SLIDEHAND_STABILITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SLIDEHAND_STABILITY: %w", err)
		}
		c.Gesture.RequiredStability = n
	}
	if v := env("SLIDEHAND_SCREEN"); v != "" {
		screen, err := ParseScreen(v)
		if err != nil {
			return fmt.Errorf("SLIDEHAND_SCREEN: %w", err)
		}
		c.Screen = screen
	}
	if v := env("SLIDEHAND_THUMB"); v != "" {
		c.Gesture.ThumbDirection = v
	}
	return nil
}

// ParseScreen parses a WIDTHxHEIGHT resolution such as "1920x1080".
func ParseScreen(s string) (control.Screen, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return control.Screen{}, fmt.Errorf("screen must be WIDTHxHEIGHT, got %q", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return control.Screen{}, fmt.Errorf("invalid screen width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return control.Screen{}, fmt.Errorf("invalid screen height %q: %w", h, err)
	}
	screen := control.Screen{Width: width, Height: height}
	return screen, screen.Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return fmt.Errorf("detector: %w", err)
	}
	if err := c.PipelineOptions().Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}
	if c.Camera.DeviceID < 0 {
		return fmt.Errorf("camera: device id must not be negative, got %d", c.Camera.DeviceID)
	}
	if c.Server.Addr == "" {
		return errors.New("server: addr must not be empty")
	}
	if c.Recording.Path != "" && c.Recording.Path == c.Recording.Replay {
		return errors.New("recording: cannot record to the file being replayed")
	}
	return nil
}

// Cooldown returns the gesture cooldown as a duration.
func (c Config) Cooldown() time.Duration {
	return secondsToDuration(c.Gesture.CooldownSeconds)
}

// PipelineOptions converts the gesture and screen sections for control.NewPipeline.
func (c Config) PipelineOptions() control.Options {
	return control.Options{
		Thumb:             gesture.ThumbDirection(c.Gesture.ThumbDirection),
		PinchThreshold:    c.Gesture.PinchThreshold,
		RequiredStability: c.Gesture.RequiredStability,
		Cooldown:          c.Cooldown(),
		Screen:            c.Screen,
	}
}

// DBPath returns the sqlite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.Paths.DataDir, "slidehand.db")
}

// PluginDir returns the plugin directory, defaulting to DataDir/plugins.
func (c Config) PluginDir() string {
	if c.Paths.PluginDir != "" {
		return c.Paths.PluginDir
	}
	return filepath.Join(c.Paths.DataDir, "plugins")
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
