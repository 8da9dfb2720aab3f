package timing

import (
	"errors"
	"testing"
)

func TestSecondsToFrames(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		fps     float64
		want    int
	}{
		{"whole seconds", 2, 30, 60},
		{"fractional result floors", 1.5, 29.97, 44}, // 44.955
		{"zero seconds", 0, 30, 0},
		{"negative clamps to zero", -3, 30, 0},
		{"high fps", 5, 120, 600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SecondsToFrames(tt.seconds, tt.fps)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SecondsToFrames(%v, %v) = %d, want %d", tt.seconds, tt.fps, got, tt.want)
			}
			if got < 0 {
				t.Error("result must never be negative")
			}
		})
	}
}

func TestSecondsToFramesInvalidFPS(t *testing.T) {
	for _, fps := range []float64{0, -1, -29.97} {
		if _, err := SecondsToFrames(1, fps); !errors.Is(err, ErrInvalidFPS) {
			t.Errorf("fps=%v: want ErrInvalidFPS, got %v", fps, err)
		}
	}
}

func TestFramesToSeconds(t *testing.T) {
	got, err := FramesToSeconds(90, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Errorf("FramesToSeconds(90, 30) = %v, want 3", got)
	}

	if _, err := FramesToSeconds(90, 0); !errors.Is(err, ErrInvalidFPS) {
		t.Errorf("want ErrInvalidFPS, got %v", err)
	}
}

func TestDynamicBounds(t *testing.T) {
	// Press at frame 100, second press at 250, pre-roll 2s at 30fps.
	start, end, err := DynamicBounds(100, 250, 2, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 40 || end != 250 {
		t.Errorf("got (%d, %d), want (40, 250)", start, end)
	}
}

func TestDynamicBoundsClampsAtZero(t *testing.T) {
	start, end, err := DynamicBounds(10, 50, 2, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
	if end != 50 {
		t.Errorf("end = %d, want 50", end)
	}
}

func TestDynamicBoundsStartNeverAfterPress(t *testing.T) {
	for _, preRoll := range []float64{0, 0.5, 2, 10} {
		start, _, err := DynamicBounds(300, 400, preRoll, 30)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if start > 300 {
			t.Errorf("preRoll=%v: start %d exceeds recording start frame", preRoll, start)
		}
	}
}

func TestFixedBounds(t *testing.T) {
	// Press at 500, 5s fixed, 1s pre-roll, 30fps, 10000 frames:
	// fixedFrames=150, preRollFrames=30, start=470, end=620.
	start, end, err := FixedBounds(500, 5, 1, 30, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 470 || end != 620 {
		t.Errorf("got (%d, %d), want (470, 620)", start, end)
	}
}

func TestFixedBoundsClampsAtVideoStart(t *testing.T) {
	start, _, err := FixedBounds(2, 5, 1, 30, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 0 {
		t.Errorf("start = %d, want 0", start)
	}
}

func TestFixedBoundsClampsAtVideoEnd(t *testing.T) {
	_, end, err := FixedBounds(9990, 5, 0, 30, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 9999 {
		t.Errorf("end = %d, want 9999", end)
	}
}

func TestFixedBoundsCollapsedRange(t *testing.T) {
	// Pre-roll longer than the fixed duration near frame zero: the raw end
	// would precede the start, so the range collapses instead of inverting.
	start, end, err := FixedBounds(3, 1, 10, 30, 10000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end < start {
		t.Errorf("inverted range: start=%d end=%d", start, end)
	}
}

func TestFixedBoundsInvalidFPS(t *testing.T) {
	if _, _, err := FixedBounds(100, 5, 1, 0, 10000); !errors.Is(err, ErrInvalidFPS) {
		t.Errorf("want ErrInvalidFPS, got %v", err)
	}
	if _, _, err := DynamicBounds(100, 200, 1, -30); !errors.Is(err, ErrInvalidFPS) {
		t.Errorf("want ErrInvalidFPS, got %v", err)
	}
}
