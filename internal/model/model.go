// Package model holds the core domain types shared across the recorder:
// markers, event types, and the recording configuration surface.
package model

// RecordingMode selects how a hotkey press turns into a marker.
type RecordingMode string

const (
	// ModeDynamic records between two presses of the same hotkey.
	ModeDynamic RecordingMode = "dynamic"
	// ModeFixedLength records a fixed-duration marker on a single press.
	ModeFixedLength RecordingMode = "fixed_length"
)

// Valid reports whether m is a known recording mode.
func (m RecordingMode) Valid() bool {
	return m == ModeDynamic || m == ModeFixedLength
}

// TimingConfig holds the numeric parameters read by the bound computation.
// PostRollSec is persisted and user-configurable but does not influence
// bound computation; it is reserved until a concrete requirement lands.
type TimingConfig struct {
	FixedDurationSec float64 `json:"fixedDurationSec" mapstructure:"fixedDurationSec"`
	PreRollSec       float64 `json:"preRollSec" mapstructure:"preRollSec"`
	PostRollSec      float64 `json:"postRollSec" mapstructure:"postRollSec"`
}

// SessionInfo describes the tagging session a storage backend records
// into. Backends receive it on session start and attach subsequent markers
// to it.
type SessionInfo struct {
	ProjectName string  `json:"projectName"`
	VideoPath   string  `json:"videoPath"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
}

// EventType describes a taggable event: its unique name, display color,
// bound hotkey and free-form description. At most one event type may claim
// a given hotkey at any time; the registry enforces that.
type EventType struct {
	Name        string `json:"name" mapstructure:"name"`
	Color       string `json:"color" mapstructure:"color"`
	Hotkey      string `json:"hotkey" mapstructure:"hotkey"`
	Description string `json:"description" mapstructure:"description"`
}

// Marker is a named, frame-bounded event annotation on a video.
// StartFrame and EndFrame are inclusive and always satisfy
// 0 <= StartFrame <= EndFrame.
type Marker struct {
	ID         uint           `json:"id,omitempty"`
	StartFrame int            `json:"startFrame"`
	EndFrame   int            `json:"endFrame"`
	EventName  string         `json:"eventName"`
	Note       string         `json:"note"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// NewMarker builds a structurally valid marker from raw bounds. Pathological
// inputs (out-of-range, inverted or zero-length ranges) are resolved by
// clamping, never rejected. totalFrames <= 0 collapses the marker to frame 0.
func NewMarker(start, end int, eventName string, totalFrames int) Marker {
	lastFrame := totalFrames - 1
	if lastFrame < 0 {
		lastFrame = 0
	}

	if start < 0 {
		start = 0
	}
	if start > lastFrame {
		start = lastFrame
	}
	if end > lastFrame {
		end = lastFrame
	}
	if end < start {
		end = start
	}

	return Marker{
		StartFrame: start,
		EndFrame:   end,
		EventName:  eventName,
		Note:       "",
	}
}

// Duration returns the marker length in frames, inclusive of both bounds.
func (m Marker) Duration() int {
	return m.EndFrame - m.StartFrame + 1
}

// Overlaps reports whether the marker's frame range intersects [start, end].
func (m Marker) Overlaps(start, end int) bool {
	return m.StartFrame <= end && m.EndFrame >= start
}
