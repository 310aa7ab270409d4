// Package detector provides hand detection interfaces and landmark types for gesture classification.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// FingerTips lists the tip landmark of each finger, thumb first.
var FingerTips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// FingerJoints lists the joint each tip is compared against, in the same order as FingerTips.
// The thumb uses its IP joint, the other fingers their PIP joint.
var FingerJoints = [5]int{ThumbIP, IndexPIP, MiddlePIP, RingPIP, PinkyPIP}

// ErrLandmarkCount is returned when a landmark list does not hold exactly NumLandmarks points.
var ErrLandmarkCount = errors.New("hand must have exactly 21 landmarks")

// Point3D is a landmark position. X and Y are normalized to [0,1] with the
// origin at the top-left of the frame; Z is relative depth and is not used
// by the classifier.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand. It is produced once per frame and never mutated afterwards.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// NewHandLandmarks builds a hand from a point list.
// The list must hold exactly NumLandmarks points.
func NewHandLandmarks(points []Point3D, handedness string, score float64) (*HandLandmarks, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("got %d points: %w", len(points), ErrLandmarkCount)
	}

	h := &HandLandmarks{
		Handedness: handedness,
		Score:      score,
	}
	copy(h.Points[:], points)
	return h, nil
}

// Tip returns the index fingertip, which drives the on-screen pointer.
func (h *HandLandmarks) Tip() Point3D {
	return h.Points[IndexTip]
}
