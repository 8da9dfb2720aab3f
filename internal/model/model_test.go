package model

import "testing"

func TestNewMarkerClamping(t *testing.T) {
	tests := []struct {
		name        string
		start, end  int
		totalFrames int
		wantStart   int
		wantEnd     int
	}{
		{"in range", 40, 250, 1000, 40, 250},
		{"negative start", -10, 50, 1000, 0, 50},
		{"end past video", 900, 2000, 1000, 900, 999},
		{"inverted range", 80, 20, 1000, 80, 80},
		{"zero length", 5, 5, 1000, 5, 5},
		{"start past video", 1500, 1600, 1000, 999, 999},
		{"zero total frames", 10, 20, 0, 0, 0},
		{"negative total frames", 10, 20, -5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMarker(tt.start, tt.end, "Goal", tt.totalFrames)
			if m.StartFrame != tt.wantStart {
				t.Errorf("StartFrame = %d, want %d", m.StartFrame, tt.wantStart)
			}
			if m.EndFrame != tt.wantEnd {
				t.Errorf("EndFrame = %d, want %d", m.EndFrame, tt.wantEnd)
			}
			if m.StartFrame < 0 {
				t.Error("StartFrame must never be negative")
			}
			if m.EndFrame < m.StartFrame {
				t.Error("EndFrame must never precede StartFrame")
			}
			if m.Note != "" {
				t.Errorf("Note should default empty, got %q", m.Note)
			}
		})
	}
}

func TestMarkerDuration(t *testing.T) {
	m := NewMarker(10, 19, "Shot on Goal", 100)
	if got := m.Duration(); got != 10 {
		t.Errorf("Duration() = %d, want 10", got)
	}

	single := NewMarker(5, 5, "Penalty", 100)
	if got := single.Duration(); got != 1 {
		t.Errorf("single-frame Duration() = %d, want 1", got)
	}
}

func TestMarkerOverlaps(t *testing.T) {
	m := NewMarker(100, 200, "Zone Entry", 1000)

	if !m.Overlaps(150, 160) {
		t.Error("expected overlap with contained range")
	}
	if !m.Overlaps(200, 300) {
		t.Error("expected overlap at end bound")
	}
	if m.Overlaps(201, 300) {
		t.Error("expected no overlap past end bound")
	}
	if m.Overlaps(0, 99) {
		t.Error("expected no overlap before start bound")
	}
}

func TestRecordingModeValid(t *testing.T) {
	if !ModeDynamic.Valid() || !ModeFixedLength.Valid() {
		t.Error("known modes should be valid")
	}
	if RecordingMode("freeform").Valid() {
		t.Error("unknown mode should be invalid")
	}
}
