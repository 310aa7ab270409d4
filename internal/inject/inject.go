// Package inject sends key presses and pointer moves to the operating
// system directly, without a plugin process. Only Windows is supported;
// New returns ErrUnsupported elsewhere.
package inject

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupported is returned by New on platforms without a native injector.
	ErrUnsupported = errors.New("native input injection not supported on this platform")
	// ErrUnknownKey is returned for key names without a virtual key code.
	ErrUnknownKey = errors.New("unknown key")
)

// Injector presses keys and moves the system pointer.
type Injector interface {
	PressKeys(keys []string) error
	MoveTo(x, y int) error
}

// Virtual key codes of the named keys.
var namedKeys = map[string]uint16{
	"backspace": 0x08,
	"tab":       0x09,
	"enter":     0x0D,
	"return":    0x0D,
	"escape":    0x1B,
	"esc":       0x1B,
	"space":     0x20,
	"pageup":    0x21,
	"pagedown":  0x22,
	"end":       0x23,
	"home":      0x24,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
	"f5":        0x74,
}

// extendedKeys need KEYEVENTF_EXTENDEDKEY.
var extendedKeys = map[uint16]bool{
	0x21: true, 0x22: true, 0x23: true, 0x24: true,
	0x25: true, 0x26: true, 0x27: true, 0x28: true,
}

// VirtualKey returns the Windows virtual key code for a key name. Single
// letters and digits map to their ASCII upper-case code.
func VirtualKey(name string) (uint16, error) {
	k := strings.ToLower(name)
	if vk, ok := namedKeys[k]; ok {
		return vk, nil
	}
	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= '0' && c <= '9':
			return uint16(c), nil
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a' + 'A'), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// IsExtended reports whether vk is an extended key.
func IsExtended(vk uint16) bool {
	return extendedKeys[vk]
}

// resolveKeys converts every name before anything is pressed so that an
// unknown key does not leave a half-typed sequence.
func resolveKeys(keys []string) ([]uint16, error) {
	codes := make([]uint16, 0, len(keys))
	for _, k := range keys {
		vk, err := VirtualKey(k)
		if err != nil {
			return nil, err
		}
		codes = append(codes, vk)
	}
	return codes, nil
}
