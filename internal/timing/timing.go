// Package timing provides pure seconds/frames conversion and marker bound
// computation for both recording modes. All functions are stateless; the
// caller supplies fps and frame positions per call.
package timing

import (
	"errors"
	"math"
)

// ErrInvalidFPS is returned when a conversion is attempted with fps <= 0.
// Callers must validate playback state before invoking timing operations.
var ErrInvalidFPS = errors.New("fps must be positive")

// SecondsToFrames converts a duration in seconds to a whole frame count,
// truncating toward zero and clamping at 0.
func SecondsToFrames(seconds, fps float64) (int, error) {
	if fps <= 0 {
		return 0, ErrInvalidFPS
	}
	frames := int(math.Floor(seconds * fps))
	if frames < 0 {
		frames = 0
	}
	return frames, nil
}

// FramesToSeconds converts a frame index to its timestamp in seconds.
func FramesToSeconds(frame int, fps float64) (float64, error) {
	if fps <= 0 {
		return 0, ErrInvalidFPS
	}
	return float64(frame) / fps, nil
}

// DynamicBounds computes the marker bounds for a two-press recording:
// the start is pulled back by the pre-roll, the end frame is taken as-is.
// Guarantees start <= recordingStartFrame and start >= 0.
func DynamicBounds(recordingStartFrame, endFrame int, preRollSec, fps float64) (start, end int, err error) {
	preRollFrames, err := SecondsToFrames(preRollSec, fps)
	if err != nil {
		return 0, 0, err
	}
	start = recordingStartFrame - preRollFrames
	if start < 0 {
		start = 0
	}
	return start, endFrame, nil
}

// FixedBounds computes the marker bounds for a single-press fixed-duration
// recording. The pre-roll shifts the whole window back; the end is clamped
// to the last valid frame and never precedes the start.
func FixedBounds(pressFrame int, fixedDurationSec, preRollSec, fps float64, totalFrames int) (start, end int, err error) {
	fixedFrames, err := SecondsToFrames(fixedDurationSec, fps)
	if err != nil {
		return 0, 0, err
	}
	preRollFrames, err := SecondsToFrames(preRollSec, fps)
	if err != nil {
		return 0, 0, err
	}

	start = pressFrame - preRollFrames
	if start < 0 {
		start = 0
	}

	end = pressFrame + fixedFrames - preRollFrames
	if lastFrame := totalFrames - 1; end > lastFrame {
		end = lastFrame
	}
	// A pre-roll longer than the fixed duration can collapse the range.
	if end < start {
		end = start
	}
	return start, end, nil
}
