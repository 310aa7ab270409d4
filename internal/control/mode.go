package control

import "fmt"

// Mode is the top-level state of the dispatcher.
type Mode string

const (
	// ModeNavigation maps gestures to slide actions.
	ModeNavigation Mode = "navigation"
	// ModePointer tracks the index fingertip as an on-screen pointer.
	ModePointer Mode = "pointer"
)

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeNavigation, ModePointer:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	return string(m)
}
