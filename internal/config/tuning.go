package config

import (
	"fmt"
	"time"

	"github.com/ayusman/slidehand/internal/gesture"
)

// Tuning is the subset of settings that can be changed while running.
type Tuning struct {
	CooldownSeconds   float64 `json:"cooldown_seconds"`
	RequiredStability int     `json:"required_stability"`
	PinchThreshold    float64 `json:"pinch_threshold"`
}

// Tuning extracts the live-tunable settings.
func (c Config) Tuning() Tuning {
	return Tuning{
		CooldownSeconds:   c.Gesture.CooldownSeconds,
		RequiredStability: c.Gesture.RequiredStability,
		PinchThreshold:    c.Gesture.PinchThreshold,
	}
}

// ApplyTuning copies t into the gesture section.
func (c *Config) ApplyTuning(t Tuning) {
	c.Gesture.CooldownSeconds = t.CooldownSeconds
	c.Gesture.RequiredStability = t.RequiredStability
	c.Gesture.PinchThreshold = t.PinchThreshold
}

// Cooldown returns the cooldown as a duration.
func (t Tuning) Cooldown() time.Duration {
	return secondsToDuration(t.CooldownSeconds)
}

// Validate checks the tuning ranges.
func (t Tuning) Validate() error {
	cd := t.Cooldown()
	if cd < gesture.MinCooldown || cd > gesture.MaxCooldown {
		return fmt.Errorf("cooldown must be between %.1f and %.1f seconds, got %v",
			gesture.MinCooldown.Seconds(), gesture.MaxCooldown.Seconds(), t.CooldownSeconds)
	}
	if t.RequiredStability < 1 {
		return fmt.Errorf("required stability must be at least 1, got %d", t.RequiredStability)
	}
	if t.PinchThreshold <= 0 || t.PinchThreshold >= 1 {
		return fmt.Errorf("pinch threshold must be in (0, 1), got %v", t.PinchThreshold)
	}
	return nil
}
