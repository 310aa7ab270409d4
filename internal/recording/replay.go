package recording

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/slidehand/internal/detector"
)

// ReplayDetector returns recorded hands, one frame per Detect call, and
// ignores the camera frame. After the last frame it reports no hand, or
// starts over when looping.
type ReplayDetector struct {
	mu     sync.Mutex
	frames []Frame
	pos    int
	loop   bool
}

// NewReplayDetector loads the recording at path.
func NewReplayDetector(path string, loop bool) (*ReplayDetector, error) {
	frames, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewReplayDetectorFrames(frames, loop), nil
}

// NewReplayDetectorFrames replays frames already in memory.
func NewReplayDetectorFrames(frames []Frame, loop bool) *ReplayDetector {
	return &ReplayDetector{frames: frames, loop: loop}
}

// Detect returns the next recorded hand.
func (d *ReplayDetector) Detect(frame *gocv.Mat) ([]detector.HandLandmarks, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pos >= len(d.frames) {
		if !d.loop || len(d.frames) == 0 {
			return nil, nil
		}
		d.pos = 0
	}

	fr := d.frames[d.pos]
	d.pos++
	if fr.Hand == nil {
		return nil, nil
	}
	return []detector.HandLandmarks{*fr.Hand}, nil
}

// Done reports whether a non-looping replay has run out of frames.
func (d *ReplayDetector) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.loop && d.pos >= len(d.frames)
}

// Len returns the number of recorded frames.
func (d *ReplayDetector) Len() int {
	return len(d.frames)
}

// Close is a no-op.
func (d *ReplayDetector) Close() error {
	return nil
}
