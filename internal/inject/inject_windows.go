//go:build windows

package inject

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	inputKeyboard = 1

	keyeventfExtendedKey = 0x0001
	keyeventfKeyUp       = 0x0002
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procSendInput    = user32.NewProc("SendInput")
	procSetCursorPos = user32.NewProc("SetCursorPos")
)

type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// keyboardInput mirrors INPUT with the keyboard union member. The trailing
// padding brings it to the size of the largest member (MOUSEINPUT).
type keyboardInput struct {
	Type uint32
	Ki   keybdInput
	_    [8]byte
}

type windowsInjector struct{}

// New returns the SendInput based injector.
func New() (Injector, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("SendInput unavailable: %w", err)
	}
	return windowsInjector{}, nil
}

// PressKeys sends a key down and key up for every key, in order.
func (windowsInjector) PressKeys(keys []string) error {
	codes, err := resolveKeys(keys)
	if err != nil {
		return err
	}

	inputs := make([]keyboardInput, 0, 2*len(codes))
	for _, vk := range codes {
		var flags uint32
		if IsExtended(vk) {
			flags = keyeventfExtendedKey
		}
		inputs = append(inputs,
			keyboardInput{Type: inputKeyboard, Ki: keybdInput{Vk: vk, Flags: flags}},
			keyboardInput{Type: inputKeyboard, Ki: keybdInput{Vk: vk, Flags: flags | keyeventfKeyUp}},
		)
	}
	if len(inputs) == 0 {
		return nil
	}

	ret, _, callErr := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(ret) != len(inputs) {
		return fmt.Errorf("SendInput sent %d of %d events: %v", ret, len(inputs), callErr)
	}
	return nil
}

// MoveTo places the cursor at (x, y) screen pixels.
func (windowsInjector) MoveTo(x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("SetCursorPos failed: %v", err)
	}
	return nil
}
