// Package control turns confirmed gestures into presentation and pointer
// actions. It holds the Navigation / Pointer mode machine, the pointer
// sub-state and the per-frame pipeline that ties the gesture package to an
// Actuator.
package control

import (
	"errors"
	"fmt"
	"strconv"
)

// Action names a dispatched operation. Slide actions are sent to the
// Actuator; pointer actions only change in-process state.
type Action string

// Slide actions.
const (
	NextSlide      Action = "next-slide"
	PreviousSlide  Action = "previous-slide"
	StartSlideshow Action = "start-slideshow"
	GoToSlide      Action = "go-to-slide"
	EndSlideshow   Action = "end-slideshow"
	BlackScreen    Action = "black-screen"
	WhiteScreen    Action = "white-screen"
)

// Pointer mode actions.
const (
	EnterPointer  Action = "enter-pointer"
	ExitPointer   Action = "exit-pointer"
	CycleSize     Action = "cycle-size"
	CycleColor    Action = "cycle-color"
	ToggleDrawing Action = "toggle-drawing"
	ClearDrawing  Action = "clear-drawing"
)

var slideActions = []Action{NextSlide, PreviousSlide, StartSlideshow, GoToSlide, EndSlideshow, BlackScreen, WhiteScreen}

// Errors returned by ParseAction and Command.Validate.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrInvalidSlide  = errors.New("slide number must be at least 1")
)

// SlideActions returns the actions an Actuator can be asked to perform.
func SlideActions() []Action {
	out := make([]Action, len(slideActions))
	copy(out, slideActions)
	return out
}

// ParseAction converts a string to a slide action.
func ParseAction(s string) (Action, error) {
	for _, a := range slideActions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// IsSlideAction reports whether a is forwarded to the Actuator.
func (a Action) IsSlideAction() bool {
	for _, s := range slideActions {
		if a == s {
			return true
		}
	}
	return false
}

// Command is one request to the presentation.
type Command struct {
	Action Action `json:"action"`
	Slide  int    `json:"slide,omitempty"` // only for go-to-slide
}

// Validate checks that the command can be executed.
func (c Command) Validate() error {
	if !c.Action.IsSlideAction() {
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Action)
	}
	if c.Action == GoToSlide && c.Slide < 1 {
		return ErrInvalidSlide
	}
	return nil
}

func (c Command) String() string {
	if c.Action == GoToSlide {
		return fmt.Sprintf("%s %d", c.Action, c.Slide)
	}
	return string(c.Action)
}

// DefaultKeys returns the key presses a PowerPoint-style viewer expects for
// the command, in order. Unknown actions return nil.
func DefaultKeys(c Command) []string {
	switch c.Action {
	case NextSlide:
		return []string{"right"}
	case PreviousSlide:
		return []string{"left"}
	case StartSlideshow:
		return []string{"f5"}
	case GoToSlide:
		keys := make([]string, 0, 4)
		for _, r := range strconv.Itoa(c.Slide) {
			keys = append(keys, string(r))
		}
		return append(keys, "enter")
	case EndSlideshow:
		return []string{"escape"}
	case BlackScreen:
		return []string{"b"}
	case WhiteScreen:
		return []string{"w"}
	}
	return nil
}

// Actuator performs actions outside the process. Calls must not block for
// long and report nothing back; failures are the implementation's concern.
type Actuator interface {
	Trigger(cmd Command)
	MovePointer(x, y int)
}

// NopActuator discards every call.
type NopActuator struct{}

// Trigger does nothing.
func (NopActuator) Trigger(Command) {}

// MovePointer does nothing.
func (NopActuator) MovePointer(int, int) {}
