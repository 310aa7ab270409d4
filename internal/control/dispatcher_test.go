package control

import (
	"testing"
	"time"

	"github.com/ayusman/slidehand/internal/gesture"
)

// fakeActuator records every call.
type fakeActuator struct {
	commands []Command
	moves    [][2]int
}

func (f *fakeActuator) Trigger(cmd Command)  { f.commands = append(f.commands, cmd) }
func (f *fakeActuator) MovePointer(x, y int) { f.moves = append(f.moves, [2]int{x, y}) }

func TestDispatcher_NavigationMap(t *testing.T) {
	tests := []struct {
		label  gesture.Label
		action Action
		sent   bool
	}{
		{gesture.Fist, NextSlide, true},
		{gesture.OpenHand, PreviousSlide, true},
		{gesture.OK, StartSlideshow, true},
		{gesture.Point, EnterPointer, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			act := &fakeActuator{}
			d := NewDispatcher(act, time.Second)

			action, ok := d.Dispatch(tt.label, time.Unix(1000, 0))
			if !ok || action != tt.action {
				t.Fatalf("expected %s, got %s (%v)", tt.action, action, ok)
			}
			if tt.sent {
				if len(act.commands) != 1 || act.commands[0].Action != tt.action {
					t.Errorf("expected one %s command, got %v", tt.action, act.commands)
				}
			} else if len(act.commands) != 0 {
				t.Errorf("expected no command, got %v", act.commands)
			}
		})
	}
}

func TestDispatcher_NoOps(t *testing.T) {
	noops := map[Mode][]gesture.Label{
		ModeNavigation: {gesture.None, gesture.Unknown, gesture.One, gesture.Two, gesture.Three, gesture.Four},
		ModePointer:    {gesture.None, gesture.Unknown, gesture.One, gesture.Four, gesture.Point},
	}

	for mode, labels := range noops {
		for _, label := range labels {
			t.Run(string(mode)+"/"+string(label), func(t *testing.T) {
				act := &fakeActuator{}
				d := NewDispatcher(act, time.Second)
				now := time.Unix(1000, 0)
				if mode == ModePointer {
					d.Dispatch(gesture.Point, now)
				}

				for i := 1; i <= 3; i++ {
					if _, ok := d.Dispatch(label, now.Add(time.Duration(i)*5*time.Second)); ok {
						t.Fatal("expected no-op")
					}
				}
				if d.Mode() != mode {
					t.Errorf("mode changed to %s", d.Mode())
				}
				if len(act.commands) != 0 {
					t.Errorf("unexpected commands %v", act.commands)
				}
				if p := d.Pointer(); p != nil {
					if p.Color().Name != "red" || p.Size() != SizeNormal || p.Drawing() {
						t.Error("pointer state changed")
					}
				}
			})
		}
	}
}

func TestDispatcher_NavigationCooldown(t *testing.T) {
	act := &fakeActuator{}
	d := NewDispatcher(act, time.Second)
	base := time.Unix(1000, 0)

	d.Dispatch(gesture.Fist, base)
	if _, ok := d.Dispatch(gesture.Fist, base.Add(500*time.Millisecond)); ok {
		t.Error("expected second action within the cooldown to be dropped")
	}
	if _, ok := d.Dispatch(gesture.OpenHand, base.Add(900*time.Millisecond)); ok {
		t.Error("cooldown applies across gestures")
	}
	if _, ok := d.Dispatch(gesture.OpenHand, base.Add(time.Second)); !ok {
		t.Error("expected action after the cooldown")
	}
	if len(act.commands) != 2 {
		t.Errorf("expected 2 commands, got %d", len(act.commands))
	}
}

func TestDispatcher_PointerMap(t *testing.T) {
	base := time.Unix(1000, 0)
	act := &fakeActuator{}
	d := NewDispatcher(act, time.Second)

	d.Dispatch(gesture.Point, base)
	if d.Mode() != ModePointer || d.Pointer() == nil {
		t.Fatal("expected Pointer mode with pointer state")
	}

	now := base
	step := func(label gesture.Label, want Action) {
		t.Helper()
		now = now.Add(time.Second)
		action, ok := d.Dispatch(label, now)
		if !ok || action != want {
			t.Fatalf("%s: expected %s, got %s (%v)", label, want, action, ok)
		}
	}

	step(gesture.Two, CycleSize)
	if d.Pointer().Size() != SizeLarge {
		t.Errorf("expected large, got %s", d.Pointer().Size())
	}
	step(gesture.Three, CycleColor)
	if d.Pointer().Color().Name != "green" {
		t.Errorf("expected green, got %s", d.Pointer().Color().Name)
	}
	step(gesture.OK, ToggleDrawing)
	if !d.Pointer().Drawing() {
		t.Error("expected drawing on")
	}
	step(gesture.OpenHand, ClearDrawing)
	if d.Pointer().Drawing() {
		t.Error("expected clear to stop drawing")
	}
	step(gesture.Fist, ExitPointer)
	if d.Mode() != ModeNavigation || d.Pointer() != nil {
		t.Error("expected Navigation mode without pointer state")
	}

	if len(act.commands) != 0 {
		t.Errorf("pointer actions must not reach the actuator, got %v", act.commands)
	}
}

func TestDispatcher_PointGestureIsNotDispatchedInPointerMode(t *testing.T) {
	d := NewDispatcher(nil, time.Second)
	d.Dispatch(gesture.Point, time.Unix(1000, 0))

	if _, ok := d.Dispatch(gesture.Point, time.Unix(1010, 0)); ok {
		t.Error("point in Pointer mode is tracking, not a dispatched action")
	}
}

func TestDispatcher_TransitionsRecordBothGates(t *testing.T) {
	base := time.Unix(1000, 0)
	act := &fakeActuator{}
	d := NewDispatcher(act, time.Second)

	d.Dispatch(gesture.Point, base)
	if _, ok := d.Dispatch(gesture.Fist, base.Add(100*time.Millisecond)); ok {
		t.Error("pointer action right after entering should wait for the cooldown")
	}
	if _, ok := d.Dispatch(gesture.Fist, base.Add(time.Second)); !ok {
		t.Fatal("expected exit after the cooldown")
	}

	// A fist held across the exit must not page forward immediately.
	if _, ok := d.Dispatch(gesture.Fist, base.Add(1100*time.Millisecond)); ok {
		t.Error("navigation action right after exiting should wait for the cooldown")
	}
	if _, ok := d.Dispatch(gesture.Fist, base.Add(2*time.Second)); !ok {
		t.Error("expected next-slide after the cooldown")
	}
	if len(act.commands) != 1 || act.commands[0].Action != NextSlide {
		t.Errorf("expected one next-slide, got %v", act.commands)
	}
}

func TestDispatcher_IndependentGates(t *testing.T) {
	base := time.Unix(1000, 0)
	d := NewDispatcher(nil, time.Second)

	d.Dispatch(gesture.Point, base)
	d.Dispatch(gesture.Two, base.Add(time.Second))

	// The navigation gate was last recorded at the transition.
	d.Dispatch(gesture.Fist, base.Add(2*time.Second))
	if _, ok := d.Dispatch(gesture.OpenHand, base.Add(2*time.Second)); ok {
		t.Error("expected the navigation gate to be recorded by the exit")
	}
	if _, ok := d.Dispatch(gesture.OpenHand, base.Add(3*time.Second)); !ok {
		t.Error("expected previous-slide one cooldown after the exit")
	}
}

func TestDispatcher_TrackPointer(t *testing.T) {
	act := &fakeActuator{}
	d := NewDispatcher(act, time.Second)
	screen := Screen{Width: 1000, Height: 500}
	now := time.Unix(1000, 0)

	d.TrackPointer(0.5, 0.5, screen, now)
	if len(act.moves) != 0 {
		t.Error("tracking outside Pointer mode should do nothing")
	}

	d.Dispatch(gesture.Point, now)
	d.TrackPointer(0.2, 0.4, screen, now)
	if len(act.moves) != 1 || act.moves[0] != [2]int{800, 200} {
		t.Errorf("expected move to (800, 200), got %v", act.moves)
	}
	x, y, ok := d.Pointer().Position()
	if !ok || x != 800 || y != 200 {
		t.Errorf("expected pointer at (800, 200), got (%d, %d)", x, y)
	}
}

func TestDispatcher_OnEventAndTrigger(t *testing.T) {
	act := &fakeActuator{}
	d := NewDispatcher(act, time.Second)

	var events []Event
	d.OnEvent = func(e Event) { events = append(events, e) }

	now := time.Unix(1000, 0)
	d.Dispatch(gesture.Fist, now)
	d.Trigger(Command{Action: BlackScreen}, now)
	d.Dispatch(gesture.Three, now.Add(5*time.Second))

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != NextSlide || events[0].Gesture != gesture.Fist || events[0].Mode != ModeNavigation {
		t.Errorf("unexpected first event %+v", events[0])
	}
	if events[1].Action != BlackScreen || events[1].Gesture != gesture.None {
		t.Errorf("unexpected second event %+v", events[1])
	}
	if len(act.commands) != 2 {
		t.Errorf("expected 2 commands, got %d", len(act.commands))
	}
}

func TestDispatcher_Reset(t *testing.T) {
	d := NewDispatcher(nil, time.Second)
	now := time.Unix(1000, 0)
	d.Dispatch(gesture.Point, now)

	d.Reset()
	if d.Mode() != ModeNavigation || d.Pointer() != nil {
		t.Error("expected Navigation mode after reset")
	}
	if _, ok := d.Dispatch(gesture.Fist, now); !ok {
		t.Error("expected cooldown cleared after reset")
	}
}
