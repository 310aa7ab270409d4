package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func solidFrame(v float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0), 480, 640, gocv.MatTypeCV8UC3)
}

func TestNewMotionDetector(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.0, 1.0},
		{5.0, 5.0},
		{0, DefaultMotionThreshold},
		{-2, DefaultMotionThreshold},
	}

	for _, tt := range tests {
		md := NewMotionDetector(tt.in)
		if got := md.Threshold(); got != tt.want {
			t.Errorf("NewMotionDetector(%v).Threshold() = %v, want %v", tt.in, got, tt.want)
		}
		md.Close()
	}
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	black := solidFrame(0)
	defer black.Close()
	white := solidFrame(255)
	defer white.Close()

	t.Run("first frame is the baseline", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		if detected, pct := md.Detect(&black); detected || pct != 0 {
			t.Errorf("expected no motion on the first frame, got %v %f", detected, pct)
		}
	})

	t.Run("identical frames", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		md.Detect(&black)
		if detected, pct := md.Detect(&black); detected {
			t.Errorf("identical frames should not be motion, changed %f%%", pct)
		}
	})

	t.Run("black to white", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		md.Detect(&black)
		detected, pct := md.Detect(&white)
		if !detected || pct < 50 {
			t.Errorf("expected motion, got %v with %f%%", detected, pct)
		}
	})

	t.Run("reset drops the baseline", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		md.Detect(&black)
		md.Reset()
		if detected, _ := md.Detect(&white); detected {
			t.Error("first frame after Reset should not be motion")
		}
	})

	t.Run("close then reuse", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		md.Detect(&black)
		md.Close()
		if detected, _ := md.Detect(&white); detected {
			t.Error("first frame after Close should not be motion")
		}
		md.Close()
	})

	t.Run("nil frame", func(t *testing.T) {
		md := NewMotionDetector(1.0)
		defer md.Close()
		if detected, _ := md.Detect(nil); detected {
			t.Error("nil frame should not be motion")
		}
	})
}
