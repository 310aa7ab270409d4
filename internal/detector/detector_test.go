package detector

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestNewHandLandmarks(t *testing.T) {
	t.Run("accepts exactly 21 points", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) / 100, Y: 0.5}
		}

		h, err := NewHandLandmarks(points, "Right", 0.9)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h.Points[PinkyTip].X != 0.2 {
			t.Errorf("expected pinky tip X 0.2, got %f", h.Points[PinkyTip].X)
		}
		if h.Handedness != "Right" || h.Score != 0.9 {
			t.Errorf("metadata not preserved: %q %f", h.Handedness, h.Score)
		}
	})

	t.Run("rejects wrong point counts", func(t *testing.T) {
		for _, n := range []int{0, 20, 22} {
			_, err := NewHandLandmarks(make([]Point3D, n), "Right", 0.9)
			if !errors.Is(err, ErrLandmarkCount) {
				t.Errorf("%d points: expected ErrLandmarkCount, got %v", n, err)
			}
		}
	})
}

func TestPrimary(t *testing.T) {
	if Primary(nil) != nil {
		t.Error("expected nil for no hands")
	}

	fist := FistLandmarks()
	open := OpenHandLandmarks()
	got := Primary([]HandLandmarks{fist, open})
	if got == nil {
		t.Fatal("expected a hand")
	}
	if got.Points[ThumbTip] != fist.Points[ThumbTip] {
		t.Error("expected the first hand to be returned")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero hands", mutate: func(c *Config) { c.MaxHands = 0 }, wantErr: true},
		{name: "detection above one", mutate: func(c *Config) { c.MinDetectionConfidence = 1.2 }, wantErr: true},
		{name: "tracking negative", mutate: func(c *Config) { c.MinTrackingConfidence = -0.1 }, wantErr: true},
		{name: "bounds inclusive", mutate: func(c *Config) { c.MinDetectionConfidence = 1; c.MinTrackingConfidence = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	if cfg.MaxHands != 1 || cfg.MinDetectionConfidence != 0.7 || cfg.MinTrackingConfidence != 0.5 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseResponse(t *testing.T) {
	t.Run("keeps only well-formed hands up to the limit", func(t *testing.T) {
		line := []byte(`{"hands":[` + jsonHandWith(21) + `,` + jsonHandWith(3) + `,` + jsonHandWith(21) + `]}`)

		hands, err := parseResponse(line, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}
	})

	t.Run("drops malformed hands", func(t *testing.T) {
		line := []byte(`{"hands":[` + jsonHandWith(3) + `]}`)

		hands, err := parseResponse(line, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		if _, err := parseResponse([]byte("not json"), 1); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}

func jsonHandWith(n int) string {
	s := `{"handedness":"Right","score":0.9,"points":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ","
		}
		s += `{"x":0.5,"y":0.5,"z":0}`
	}
	return s + `]}`
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns queued frames before configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{OpenHandLandmarks()})
		mock.Queue([]HandLandmarks{FistLandmarks()}, nil)

		first, _ := mock.Detect(nil)
		second, _ := mock.Detect(nil)
		third, _ := mock.Detect(nil)

		if len(first) != 1 || first[0].Points[IndexTip] != FistLandmarks().Points[IndexTip] {
			t.Error("expected the queued fist first")
		}
		if second != nil {
			t.Error("expected an empty frame second")
		}
		if len(third) != 1 || third[0].Points[IndexTip] != OpenHandLandmarks().Points[IndexTip] {
			t.Error("expected the configured hands once the queue is drained")
		}
		if mock.Calls() != 3 {
			t.Errorf("expected 3 calls, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
	})
}

func TestPoseLandmarks(t *testing.T) {
	t.Run("extended fingers have tips above their joints", func(t *testing.T) {
		h := OpenHandLandmarks()
		for i := 1; i < 5; i++ {
			if h.Points[FingerTips[i]].Y >= h.Points[FingerJoints[i]].Y {
				t.Errorf("finger %d should be extended", i)
			}
		}
		if h.Points[ThumbTip].X <= h.Points[ThumbIP].X {
			t.Error("thumb tip should be right of its IP joint")
		}
	})

	t.Run("curled fingers have tips below their joints", func(t *testing.T) {
		h := FistLandmarks()
		for i := 1; i < 5; i++ {
			if h.Points[FingerTips[i]].Y <= h.Points[FingerJoints[i]].Y {
				t.Errorf("finger %d should be curled", i)
			}
		}
		if h.Points[ThumbTip].X >= h.Points[ThumbIP].X {
			t.Error("thumb tip should be left of its IP joint")
		}
	})

	t.Run("pinch brings thumb and index tips together", func(t *testing.T) {
		h := PinchLandmarks()
		dx := h.Points[ThumbTip].X - h.Points[IndexTip].X
		dy := h.Points[ThumbTip].Y - h.Points[IndexTip].Y
		if math.Hypot(dx, dy) >= 0.05 {
			t.Errorf("expected pinch distance below 0.05, got %f", math.Hypot(dx, dy))
		}
	})
}

func TestHandLandmarks_WithTip(t *testing.T) {
	h := PointLandmarks().WithTip(0.2, 0.3)

	if math.Abs(h.Tip().X-0.2) > epsilon || math.Abs(h.Tip().Y-0.3) > epsilon {
		t.Errorf("expected tip at (0.2, 0.3), got (%f, %f)", h.Tip().X, h.Tip().Y)
	}
	if h.Points[IndexTip].Y >= h.Points[IndexPIP].Y {
		t.Error("index finger should stay extended")
	}
}

func TestHandLandmarks_MirrorX(t *testing.T) {
	h := OpenHandLandmarks()
	m := h.MirrorX()

	for i := range h.Points {
		if math.Abs(m.Points[i].X-(1-h.Points[i].X)) > epsilon {
			t.Fatalf("point %d not mirrored", i)
		}
		if m.Points[i].Y != h.Points[i].Y {
			t.Fatalf("point %d Y changed", i)
		}
	}
}
