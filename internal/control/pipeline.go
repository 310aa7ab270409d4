package control

import (
	"fmt"
	"time"

	"github.com/ayusman/slidehand/internal/detector"
	"github.com/ayusman/slidehand/internal/gesture"
)

// Options configures a Pipeline.
type Options struct {
	Thumb             gesture.ThumbDirection
	PinchThreshold    float64
	RequiredStability int
	Cooldown          time.Duration
	Screen            Screen
}

// DefaultOptions returns the stock classifier, filter and screen settings.
func DefaultOptions() Options {
	return Options{
		Thumb:             gesture.ThumbRight,
		PinchThreshold:    gesture.DefaultPinchThreshold,
		RequiredStability: gesture.DefaultRequiredStability,
		Cooldown:          gesture.DefaultCooldown,
		Screen:            DefaultScreen,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if _, err := gesture.ParseThumbDirection(string(o.Thumb)); err != nil {
		return err
	}
	if o.PinchThreshold <= 0 {
		return fmt.Errorf("pinch threshold must be positive, got %v", o.PinchThreshold)
	}
	if o.RequiredStability < 1 {
		return fmt.Errorf("required stability must be at least 1, got %d", o.RequiredStability)
	}
	if o.Cooldown < gesture.MinCooldown || o.Cooldown > gesture.MaxCooldown {
		return fmt.Errorf("cooldown must be between %v and %v, got %v", gesture.MinCooldown, gesture.MaxCooldown, o.Cooldown)
	}
	return o.Screen.Validate()
}

// Result is the outcome of one processed frame.
type Result struct {
	Raw        gesture.Label `json:"raw"`
	Confirmed  gesture.Label `json:"confirmed"`
	Confidence float64       `json:"confidence"`
	Mode       Mode          `json:"mode"`
	Action     Action        `json:"action,omitempty"`
	Executed   bool          `json:"executed"`
	Tracked    bool          `json:"tracked"`
}

// Snapshot is an immutable view of the pipeline for other goroutines.
type Snapshot struct {
	Mode         Mode             `json:"mode"`
	Raw          gesture.Label    `json:"raw"`
	Confirmed    gesture.Label    `json:"confirmed"`
	Confidence   float64          `json:"confidence"`
	LastAction   Action           `json:"last_action,omitempty"`
	LastActionAt time.Time        `json:"last_action_at,omitempty"`
	Pointer      *PointerSnapshot `json:"pointer,omitempty"`
	Screen       Screen           `json:"screen"`
	Timestamp    time.Time        `json:"timestamp"`
}

// Pipeline runs classify -> stability -> pointer tracking or gated dispatch
// for one frame at a time. It is synchronous and owned by a single goroutine.
type Pipeline struct {
	classifier *gesture.Classifier
	stability  *gesture.StabilityFilter
	dispatcher *Dispatcher
	screen     Screen

	last         Result
	lastAction   Action
	lastActionAt time.Time
}

// NewPipeline creates a pipeline driving the given actuator.
func NewPipeline(opts Options, actuator Actuator) *Pipeline {
	classifier := gesture.NewClassifier(opts.Thumb)
	if opts.PinchThreshold > 0 {
		classifier.PinchThreshold = opts.PinchThreshold
	}
	screen := opts.Screen
	if screen.Validate() != nil {
		screen = DefaultScreen
	}
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = gesture.DefaultCooldown
	}

	return &Pipeline{
		classifier: classifier,
		stability:  gesture.NewStabilityFilter(opts.RequiredStability),
		dispatcher: NewDispatcher(actuator, cooldown),
		screen:     screen,
		last:       Result{Raw: gesture.None, Confirmed: gesture.None, Mode: ModeNavigation},
	}
}

// Process handles one frame. A nil hand means no hand was detected.
func (p *Pipeline) Process(hand *detector.HandLandmarks, now time.Time) Result {
	raw := p.classifier.Classify(hand)
	confirmed, confidence := p.stability.Update(raw)

	res := Result{
		Raw:        raw,
		Confirmed:  confirmed,
		Confidence: confidence,
	}

	if p.dispatcher.Mode() == ModePointer && raw == gesture.Point {
		tip := hand.Tip()
		p.dispatcher.TrackPointer(tip.X, tip.Y, p.screen, now)
		res.Tracked = true
	} else if confirmed != gesture.None {
		if action, ok := p.dispatcher.Dispatch(confirmed, now); ok {
			res.Action = action
			res.Executed = true
			p.lastAction = action
			p.lastActionAt = now
		}
	}

	res.Mode = p.dispatcher.Mode()
	p.last = res
	return res
}

// Trigger sends a manual command through the dispatcher.
func (p *Pipeline) Trigger(cmd Command, now time.Time) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	p.dispatcher.Trigger(cmd, now)
	p.lastAction = cmd.Action
	p.lastActionAt = now
	return nil
}

// Configure applies new options without resetting the mode. Changing the
// required stability restarts the frame count.
func (p *Pipeline) Configure(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	p.classifier.Geometry.Thumb = opts.Thumb
	p.classifier.PinchThreshold = opts.PinchThreshold
	if opts.RequiredStability != p.stability.Required() {
		p.stability.SetRequired(opts.RequiredStability)
	}
	p.dispatcher.SetCooldown(opts.Cooldown)
	p.screen = opts.Screen
	return nil
}

// Options returns the options currently in effect.
func (p *Pipeline) Options() Options {
	return Options{
		Thumb:             p.classifier.Geometry.Thumb,
		PinchThreshold:    p.classifier.PinchThreshold,
		RequiredStability: p.stability.Required(),
		Cooldown:          p.dispatcher.Cooldown(),
		Screen:            p.screen,
	}
}

// Dispatcher returns the mode dispatcher.
func (p *Pipeline) Dispatcher() *Dispatcher {
	return p.dispatcher
}

// Mode returns the current dispatcher mode.
func (p *Pipeline) Mode() Mode {
	return p.dispatcher.Mode()
}

// Last returns the result of the most recent frame.
func (p *Pipeline) Last() Result {
	return p.last
}

// Snapshot copies the pipeline state.
func (p *Pipeline) Snapshot(now time.Time) Snapshot {
	s := Snapshot{
		Mode:         p.dispatcher.Mode(),
		Raw:          p.last.Raw,
		Confirmed:    p.last.Confirmed,
		Confidence:   p.last.Confidence,
		LastAction:   p.lastAction,
		LastActionAt: p.lastActionAt,
		Screen:       p.screen,
		Timestamp:    now,
	}
	if ptr := p.dispatcher.Pointer(); ptr != nil {
		ps := ptr.Snapshot()
		s.Pointer = &ps
	}
	return s
}

// Reset returns to Navigation mode and clears the stability history.
func (p *Pipeline) Reset() {
	p.stability.Reset()
	p.dispatcher.Reset()
	p.last = Result{Raw: gesture.None, Confirmed: gesture.None, Mode: ModeNavigation}
}
