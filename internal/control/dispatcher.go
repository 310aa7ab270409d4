package control

import (
	"time"

	"github.com/ayusman/slidehand/internal/gesture"
)

// Event describes one executed action.
type Event struct {
	Mode    Mode          `json:"mode"` // mode the gesture was handled in
	Gesture gesture.Label `json:"gesture"`
	Action  Action        `json:"action"`
	Time    time.Time     `json:"time"`
}

// Dispatcher is the Navigation / Pointer state machine. It is not safe for
// concurrent use.
type Dispatcher struct {
	mode     Mode
	pointer  *PointerState
	navGate  *gesture.CooldownGate
	ptrGate  *gesture.CooldownGate
	actuator Actuator

	// OnEvent, if set, is called synchronously after every executed action.
	OnEvent func(Event)
}

// NewDispatcher creates a dispatcher in Navigation mode. Both modes use
// their own cooldown gate with the given interval.
func NewDispatcher(actuator Actuator, cooldown time.Duration) *Dispatcher {
	if actuator == nil {
		actuator = NopActuator{}
	}
	return &Dispatcher{
		mode:     ModeNavigation,
		navGate:  gesture.NewCooldownGate(cooldown),
		ptrGate:  gesture.NewCooldownGate(cooldown),
		actuator: actuator,
	}
}

// Mode returns the current mode.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Pointer returns the pointer sub-state, or nil in Navigation mode.
func (d *Dispatcher) Pointer() *PointerState {
	return d.pointer
}

// SetCooldown changes the interval of both gates.
func (d *Dispatcher) SetCooldown(interval time.Duration) {
	d.navGate.SetInterval(interval)
	d.ptrGate.SetInterval(interval)
}

// Cooldown returns the gate interval.
func (d *Dispatcher) Cooldown() time.Duration {
	return d.navGate.Interval()
}

// Dispatch handles a confirmed gesture. It returns the executed action and
// true, or false when the gesture maps to nothing in the current mode or
// the mode's cooldown has not elapsed.
func (d *Dispatcher) Dispatch(label gesture.Label, now time.Time) (Action, bool) {
	var action Action
	var ok bool
	switch d.mode {
	case ModePointer:
		action, ok = d.dispatchPointer(label, now)
	default:
		action, ok = d.dispatchNavigation(label, now)
	}
	return action, ok
}

func (d *Dispatcher) dispatchNavigation(label gesture.Label, now time.Time) (Action, bool) {
	var action Action
	switch label {
	case gesture.Fist:
		action = NextSlide
	case gesture.OpenHand:
		action = PreviousSlide
	case gesture.OK:
		action = StartSlideshow
	case gesture.Point:
		action = EnterPointer
	default:
		return "", false
	}

	if !d.navGate.Allow(now) {
		return "", false
	}

	if action == EnterPointer {
		d.enterPointer(now)
	} else {
		d.actuator.Trigger(Command{Action: action})
		d.navGate.Record(now)
	}
	d.emit(ModeNavigation, label, action, now)
	return action, true
}

func (d *Dispatcher) dispatchPointer(label gesture.Label, now time.Time) (Action, bool) {
	var action Action
	switch label {
	case gesture.Fist:
		action = ExitPointer
	case gesture.Two:
		action = CycleSize
	case gesture.Three:
		action = CycleColor
	case gesture.OK:
		action = ToggleDrawing
	case gesture.OpenHand:
		action = ClearDrawing
	default:
		// point is tracked by the pipeline on every frame
		return "", false
	}

	if !d.ptrGate.Allow(now) {
		return "", false
	}

	switch action {
	case ExitPointer:
		d.exitPointer(now)
	case CycleSize:
		d.pointer.CycleSize()
	case CycleColor:
		d.pointer.CycleColor()
	case ToggleDrawing:
		d.pointer.ToggleDrawing()
	case ClearDrawing:
		d.pointer.ClearDrawing()
	}
	if action != ExitPointer {
		d.ptrGate.Record(now)
	}
	d.emit(ModePointer, label, action, now)
	return action, true
}

// TrackPointer moves the pointer to the normalized fingertip position.
// It does nothing outside Pointer mode and is not subject to cooldown.
func (d *Dispatcher) TrackPointer(nx, ny float64, screen Screen, now time.Time) {
	if d.mode != ModePointer {
		return
	}
	x, y := screen.Map(nx, ny)
	d.pointer.UpdatePosition(x, y, now)
	d.actuator.MovePointer(x, y)
}

// Trigger forwards a manual command to the actuator, bypassing gestures
// and cooldown.
func (d *Dispatcher) Trigger(cmd Command, now time.Time) {
	d.actuator.Trigger(cmd)
	d.emit(d.mode, gesture.None, cmd.Action, now)
}

// enterPointer and exitPointer record the transition on both gates so a
// gesture still held across the switch waits a full cooldown.
func (d *Dispatcher) enterPointer(now time.Time) {
	d.mode = ModePointer
	d.pointer = NewPointerState()
	d.navGate.Record(now)
	d.ptrGate.Record(now)
}

func (d *Dispatcher) exitPointer(now time.Time) {
	d.mode = ModeNavigation
	d.pointer = nil
	d.navGate.Record(now)
	d.ptrGate.Record(now)
}

func (d *Dispatcher) emit(mode Mode, label gesture.Label, action Action, now time.Time) {
	if d.OnEvent != nil {
		d.OnEvent(Event{Mode: mode, Gesture: label, Action: action, Time: now})
	}
}

// Reset returns to Navigation mode and forgets both cooldowns.
func (d *Dispatcher) Reset() {
	d.mode = ModeNavigation
	d.pointer = nil
	d.navGate.Reset()
	d.ptrGate.Reset()
}
