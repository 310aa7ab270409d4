package gesture

import (
	"fmt"
	"math"

	"github.com/ayusman/slidehand/internal/detector"
)

// ThumbDirection is the side the thumb tip moves to when the thumb extends,
// as seen in the frames handed to the classifier. It depends on the camera
// mirroring convention and the tracked hand.
type ThumbDirection string

const (
	// ThumbRight: the thumb is extended when its tip is right of its IP joint.
	// This matches a right hand seen through a mirrored front camera.
	ThumbRight ThumbDirection = "right"
	// ThumbLeft: the thumb is extended when its tip is left of its IP joint.
	ThumbLeft ThumbDirection = "left"
)

// ParseThumbDirection converts a config string to a ThumbDirection.
func ParseThumbDirection(s string) (ThumbDirection, error) {
	switch ThumbDirection(s) {
	case ThumbRight, ThumbLeft:
		return ThumbDirection(s), nil
	case "":
		return ThumbRight, nil
	}
	return ThumbRight, fmt.Errorf("thumb direction must be %q or %q, got %q", ThumbRight, ThumbLeft, s)
}

// Distance is the Euclidean distance between two landmarks in normalized x,y space.
func Distance(a, b detector.Point3D) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// IsFingerExtended reports whether the tip is above its joint on screen.
// This assumes an upright hand; a rotated hand gives wrong answers.
func IsFingerExtended(hand *detector.HandLandmarks, tip, pip int) bool {
	return hand.Points[tip].Y < hand.Points[pip].Y
}

// Geometry holds the orientation assumptions of the finger tests.
type Geometry struct {
	Thumb ThumbDirection
}

// IsThumbExtended applies the lateral thumb test for the configured direction.
func (g Geometry) IsThumbExtended(hand *detector.HandLandmarks) bool {
	tip := hand.Points[detector.ThumbTip]
	ip := hand.Points[detector.ThumbIP]
	if g.Thumb == ThumbLeft {
		return tip.X < ip.X
	}
	return tip.X > ip.X
}

// CountExtendedFingers returns how many fingers (0-5) are extended.
func (g Geometry) CountExtendedFingers(hand *detector.HandLandmarks) int {
	count := 0
	if g.IsThumbExtended(hand) {
		count++
	}
	for i := 1; i < len(detector.FingerTips); i++ {
		if IsFingerExtended(hand, detector.FingerTips[i], detector.FingerJoints[i]) {
			count++
		}
	}
	return count
}
