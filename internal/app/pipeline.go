package app

import (
	"bytes"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/slidehand/internal/capture"
	"github.com/ayusman/slidehand/internal/detector"
)

// run is the frame loop. Every frame read is classified, including frames
// without a hand, so the stability filter sees the hand disappear. Motion
// or a visible hand raises the frame rate; quiet drops it back to idle.
func (a *App) run(stop <-chan struct{}) {
	defer a.wg.Done()

	var rate capture.RateControl
	ticker := time.NewTicker(rate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		if !a.IsEnabled() {
			continue
		}

		fps, changed := a.step(&rate)
		if !changed {
			continue
		}

		a.stateMu.Lock()
		a.fps = fps
		camera := a.camera
		a.stateMu.Unlock()

		camera.SetFPS(fps)
		ticker.Reset(time.Second / time.Duration(fps))
		if rate.Active() {
			log.Println("Switched to active mode")
		} else {
			log.Println("Switched to idle mode")
		}
	}
}

// step reads, detects and processes one frame.
func (a *App) step(rate *capture.RateControl) (int, bool) {
	a.stateMu.RLock()
	camera, det := a.camera, a.detector
	a.stateMu.RUnlock()

	frame, err := camera.ReadFrame()
	now := time.Now()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		a.ProcessHand(nil, now)
		return rate.Observe(false, false, now)
	}
	defer frame.Close()

	a.frames.offer(frame)
	motion, _ := a.motion.Detect(frame)

	hands, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		hands = nil
	}

	hand := detector.Primary(hands)
	a.ProcessHand(hand, now)
	return rate.Observe(motion, hand != nil, now)
}

// frameBuffer keeps the latest frame as JPEG while someone is watching.
type frameBuffer struct {
	mu       sync.Mutex
	watchers int
	jpeg     []byte
	seq      uint64
}

func (b *frameBuffer) offer(frame *gocv.Mat) {
	b.mu.Lock()
	watching := b.watchers > 0
	b.mu.Unlock()
	if !watching {
		return
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Failed to encode frame: %v", err)
		return
	}
	data := bytes.Clone(buf.GetBytes())
	buf.Close()

	b.mu.Lock()
	b.jpeg = data
	b.seq++
	b.mu.Unlock()
}

// WatchFrames starts keeping JPEG frames for the stream. Call the returned
// function when done watching.
func (a *App) WatchFrames() func() {
	a.frames.mu.Lock()
	a.frames.watchers++
	a.frames.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.frames.mu.Lock()
			a.frames.watchers--
			if a.frames.watchers == 0 {
				a.frames.jpeg = nil
			}
			a.frames.mu.Unlock()
		})
	}
}

// LatestFrame returns the newest JPEG frame and its sequence number.
// The slice must not be modified.
func (a *App) LatestFrame() ([]byte, uint64) {
	a.frames.mu.Lock()
	defer a.frames.mu.Unlock()
	return a.frames.jpeg, a.frames.seq
}
