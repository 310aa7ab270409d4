package gesture

import "math"

// DefaultRequiredStability is the number of identical consecutive frames
// needed to confirm a gesture.
const DefaultRequiredStability = 5

// StabilityFilter turns the noisy per-frame label stream into confirmed gestures.
// It must be fed every processed frame, including frames without a hand (None).
type StabilityFilter struct {
	required int
	last     Label
	count    int
}

// NewStabilityFilter creates a filter requiring the given number of frames.
// Values below 1 fall back to DefaultRequiredStability.
func NewStabilityFilter(required int) *StabilityFilter {
	if required < 1 {
		required = DefaultRequiredStability
	}
	return &StabilityFilter{required: required}
}

// Update records one frame's label. It returns the label when it has been
// seen for at least the required number of consecutive frames, None otherwise,
// together with min(count/required, 1).
func (f *StabilityFilter) Update(raw Label) (Label, float64) {
	if f.count > 0 && raw == f.last {
		f.count++
	} else {
		f.last = raw
		f.count = 1
	}

	confidence := math.Min(float64(f.count)/float64(f.required), 1.0)
	if f.count >= f.required {
		return f.last, confidence
	}
	return None, confidence
}

// Last returns the most recent label, or None before the first update.
func (f *StabilityFilter) Last() Label {
	if f.count == 0 {
		return None
	}
	return f.last
}

// Count returns how many consecutive frames the last label has been seen.
func (f *StabilityFilter) Count() int {
	return f.count
}

// Required returns the confirmation threshold.
func (f *StabilityFilter) Required() int {
	return f.required
}

// SetRequired changes the confirmation threshold and starts counting over.
func (f *StabilityFilter) SetRequired(required int) {
	if required < 1 {
		required = DefaultRequiredStability
	}
	f.required = required
	f.Reset()
}

// Reset forgets the label history.
func (f *StabilityFilter) Reset() {
	f.last = None
	f.count = 0
}
