package gesture

import "github.com/ayusman/slidehand/internal/detector"

// DefaultPinchThreshold is the thumb-index tip distance, in normalized units,
// below which a hand with at most two extended fingers is an "ok" pinch.
const DefaultPinchThreshold = 0.05

// Classifier maps a landmark set to a Label. It is deterministic and keeps no state.
type Classifier struct {
	Geometry       Geometry
	PinchThreshold float64
}

// NewClassifier creates a classifier with the default pinch threshold.
func NewClassifier(thumb ThumbDirection) *Classifier {
	return &Classifier{
		Geometry:       Geometry{Thumb: thumb},
		PinchThreshold: DefaultPinchThreshold,
	}
}

// Classify returns the gesture shown by hand. A nil hand is None.
// The pinch test takes priority over the finger count.
func (c *Classifier) Classify(hand *detector.HandLandmarks) Label {
	if hand == nil {
		return None
	}

	extended := c.Geometry.CountExtendedFingers(hand)

	pinch := Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
	if pinch < c.PinchThreshold && extended <= 2 {
		return OK
	}

	switch extended {
	case 0:
		return Fist
	case 1:
		if IsFingerExtended(hand, detector.IndexTip, detector.IndexPIP) {
			return Point
		}
		return One
	case 2:
		return Two
	case 3:
		return Three
	case 4:
		return Four
	case 5:
		return OpenHand
	}
	return Unknown
}
