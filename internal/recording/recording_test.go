package recording

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/slidehand/internal/detector"
)

func TestRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "session.rec")

	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}

	base := time.Unix(1700000000, 123)
	fist := detector.FistLandmarks()
	point := detector.PointLandmarks().WithTip(0.3, 0.2)

	inputs := []*detector.HandLandmarks{&fist, nil, &point}
	for i, h := range inputs {
		if err := rec.Record(base.Add(time.Duration(i)*time.Millisecond), h); err != nil {
			t.Fatalf("Record %d failed: %v", i, err)
		}
	}
	if rec.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := rec.Record(base, nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	frames, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}

	if !frames[0].Time.Equal(base) {
		t.Errorf("expected time %v, got %v", base, frames[0].Time)
	}
	if frames[0].Hand == nil || frames[0].Hand.Points != fist.Points {
		t.Fatal("first frame should hold the fist landmarks")
	}
	if frames[0].Hand.Handedness != "Right" || frames[0].Hand.Score != fist.Score {
		t.Errorf("unexpected metadata %q %v", frames[0].Hand.Handedness, frames[0].Hand.Score)
	}
	if frames[1].Hand != nil {
		t.Error("second frame should have no hand")
	}
	if frames[2].Hand == nil || frames[2].Hand.Tip().X != 0.3 {
		t.Error("third frame should hold the moved tip")
	}
}

func TestReader_BadInput(t *testing.T) {
	if _, err := NewReader(bytes.NewReader([]byte("NOTAREC1"))); !errors.Is(err, ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
	if _, err := NewReader(bytes.NewReader([]byte("SLH"))); err == nil {
		t.Error("expected error for a short file")
	}

	// Header promising more bytes than are present.
	data := append([]byte(magic), 0, 0, 0, 0, 0, 0, 0, 0, 10, 0, 0, 0, 1, 2)
	rd, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := rd.Next(); err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected truncation error, got %v", err)
	}

	rd, _ = NewReader(bytes.NewReader([]byte(magic)))
	if _, err := rd.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF for an empty recording, got %v", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.rec"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReplayDetector(t *testing.T) {
	fist := detector.FistLandmarks()
	frames := []Frame{{Hand: &fist}, {Hand: nil}}

	t.Run("once", func(t *testing.T) {
		d := NewReplayDetectorFrames(frames, false)

		hands, _ := d.Detect(nil)
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
		hands, _ = d.Detect(nil)
		if len(hands) != 0 {
			t.Errorf("expected no hand, got %d", len(hands))
		}
		if !d.Done() {
			t.Error("expected Done after the last frame")
		}
		hands, err := d.Detect(nil)
		if err != nil || len(hands) != 0 {
			t.Errorf("expected empty result after the end, got %v, %v", hands, err)
		}
	})

	t.Run("loop", func(t *testing.T) {
		d := NewReplayDetectorFrames(frames, true)
		seen := 0
		for i := 0; i < 6; i++ {
			hands, _ := d.Detect(nil)
			seen += len(hands)
		}
		if seen != 3 {
			t.Errorf("expected 3 hands in 6 looped frames, got %d", seen)
		}
		if d.Done() {
			t.Error("a looping replay is never done")
		}
	})

	var _ detector.Detector = (*ReplayDetector)(nil)
}
