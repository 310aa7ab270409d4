// Package gesture classifies hand landmarks into discrete gesture labels and
// debounces the per-frame label stream.
package gesture

import "fmt"

// Label is a discrete gesture classification. Labels carry no state.
type Label string

const (
	// None means no hand was detected.
	None Label = "none"
	// Fist is a closed hand, no finger extended.
	Fist Label = "fist"
	// Point is the index finger alone extended.
	Point Label = "point"
	// One is a single extended finger other than the index.
	One Label = "one"
	// Two is two extended fingers.
	Two Label = "two"
	// Three is three extended fingers.
	Three Label = "three"
	// Four is four extended fingers.
	Four Label = "four"
	// OpenHand is all five fingers extended.
	OpenHand Label = "open_hand"
	// OK is a thumb and index pinch.
	OK Label = "ok"
	// Unknown is any geometry the classifier cannot name.
	Unknown Label = "unknown"
)

var labels = []Label{None, Fist, Point, One, Two, Three, Four, OpenHand, OK, Unknown}

// Labels returns every label in declaration order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

// ParseLabel converts a string to a Label.
func ParseLabel(s string) (Label, error) {
	for _, l := range labels {
		if string(l) == s {
			return l, nil
		}
	}
	return Unknown, fmt.Errorf("unknown gesture label %q", s)
}

func (l Label) String() string {
	return string(l)
}
