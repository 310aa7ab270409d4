package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	queue [][]HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect once the queue is drained.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Queue appends per-frame results that Detect returns in order before
// falling back to the hands set with SetHands. A nil entry is a frame
// without a hand.
func (m *MockDetector) Queue(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next queued frame, the configured hands, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// finger layout used by the canned poses: MCP x position of each non-thumb finger.
var fingerBaseX = [4]float64{0.55, 0.50, 0.45, 0.40}

// PoseLandmarks builds an upright right hand, as seen by a mirrored front
// camera, with the given fingers extended (thumb, index, middle, ring, pinky).
// Extended fingers point up; curled fingers fold their tip below the PIP joint.
// Curled thumb and index tips are kept far apart so that no pose pinches.
func PoseLandmarks(extended [5]bool) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.73}

	if extended[0] {
		h.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.68}
		h.Points[ThumbTip] = Point3D{X: 0.72, Y: 0.62}
	} else {
		h.Points[ThumbIP] = Point3D{X: 0.63, Y: 0.70}
		h.Points[ThumbTip] = Point3D{X: 0.61, Y: 0.76}
	}

	for f := 0; f < 4; f++ {
		x := fingerBaseX[f]
		mcp := IndexMCP + f*4
		h.Points[mcp] = Point3D{X: x, Y: 0.68}
		if extended[f+1] {
			h.Points[mcp+1] = Point3D{X: x, Y: 0.55}
			h.Points[mcp+2] = Point3D{X: x, Y: 0.45}
			h.Points[mcp+3] = Point3D{X: x, Y: 0.35}
		} else {
			h.Points[mcp+1] = Point3D{X: x, Y: 0.60, Z: -0.05}
			h.Points[mcp+2] = Point3D{X: x, Y: 0.62, Z: -0.04}
			h.Points[mcp+3] = Point3D{X: x, Y: 0.64, Z: -0.02}
		}
	}

	return h
}

// FistLandmarks returns a closed fist: no finger extended.
func FistLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{})
}

// OpenHandLandmarks returns an open palm: all five fingers extended.
func OpenHandLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{true, true, true, true, true})
}

// PointLandmarks returns a pointing hand: only the index finger extended.
func PointLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{false, true, false, false, false})
}

// ThumbOnlyLandmarks returns a hand with only the thumb extended.
func ThumbOnlyLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{true, false, false, false, false})
}

// TwoFingersLandmarks returns index and middle fingers extended.
func TwoFingersLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{false, true, true, false, false})
}

// ThreeFingersLandmarks returns index, middle and ring fingers extended.
func ThreeFingersLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{false, true, true, true, false})
}

// FourFingersLandmarks returns all fingers but the thumb extended.
func FourFingersLandmarks() HandLandmarks {
	return PoseLandmarks([5]bool{false, true, true, true, true})
}

// PinchLandmarks returns an "ok" pinch: thumb and index tips touching,
// every finger curled.
func PinchLandmarks() HandLandmarks {
	h := FistLandmarks()
	h.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.55}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.56}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.58}
	h.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.64}
	h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.60}
	return h
}

// WithTip returns a copy of h with the index fingertip moved to (x, y).
// The PIP joint is moved along so the finger stays extended.
func (h HandLandmarks) WithTip(x, y float64) HandLandmarks {
	dy := y - h.Points[IndexTip].Y
	h.Points[IndexTip] = Point3D{X: x, Y: y}
	h.Points[IndexDIP].Y += dy
	h.Points[IndexPIP].Y += dy
	h.Points[IndexDIP].X = x
	h.Points[IndexPIP].X = x
	return h
}

// MirrorX returns a copy of h flipped horizontally (x -> 1-x).
func (h HandLandmarks) MirrorX() HandLandmarks {
	for i := range h.Points {
		h.Points[i].X = 1 - h.Points[i].X
	}
	return h
}
