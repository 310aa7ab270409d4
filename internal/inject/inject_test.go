package inject

import (
	"errors"
	"runtime"
	"testing"
)

func TestVirtualKey(t *testing.T) {
	tests := []struct {
		name string
		want uint16
	}{
		{"right", 0x27},
		{"Left", 0x25},
		{"f5", 0x74},
		{"escape", 0x1B},
		{"enter", 0x0D},
		{"b", 0x42},
		{"W", 0x57},
		{"7", 0x37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VirtualKey(tt.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected 0x%02X, got 0x%02X", tt.want, got)
			}
		})
	}

	for _, bad := range []string{"", "hyper", "!"} {
		if _, err := VirtualKey(bad); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("VirtualKey(%q): expected ErrUnknownKey, got %v", bad, err)
		}
	}
}

func TestIsExtended(t *testing.T) {
	right, _ := VirtualKey("right")
	b, _ := VirtualKey("b")
	if !IsExtended(right) {
		t.Error("arrow keys are extended")
	}
	if IsExtended(b) {
		t.Error("letters are not extended")
	}
}

func TestResolveKeys(t *testing.T) {
	codes, err := resolveKeys([]string{"1", "2", "enter"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codes) != 3 || codes[0] != '1' || codes[2] != 0x0D {
		t.Errorf("unexpected codes %v", codes)
	}

	if _, err := resolveKeys([]string{"1", "bogus"}); err == nil {
		t.Error("expected error for a sequence with an unknown key")
	}
}

func TestNew_Unsupported(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("native injection is available on Windows")
	}
	if _, err := New(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
