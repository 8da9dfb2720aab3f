// Package recorder implements the hotkey-driven recording state machine:
// it turns hotkey presses at a video frame position into frame-bounded
// markers, under a dynamic (two-press) or fixed-length (one-press) mode.
//
// The recorder is confined to the caller's event loop: presses, cancels and
// mode changes arrive serially, so no internal locking is needed.
package recorder

import (
	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/internal/timing"
)

// HotkeyResolver maps a pressed hotkey to an event name.
type HotkeyResolver interface {
	ResolveHotkey(hotkey string) (string, bool)
}

// Settings exposes the recording mode and timing parameters. The recorder
// reads them fresh on every press so external mutation is visible
// immediately.
type Settings interface {
	RecordingMode() model.RecordingMode
	Timing() model.TimingConfig
	SetRecordingMode(mode model.RecordingMode)
	SetTiming(cfg model.TimingConfig)
}

// Kind tags the outcome of a press, cancel or mode change.
type Kind string

const (
	// KindIgnored means the input changed nothing: unknown hotkey, a press
	// for a different event mid-recording, or a cancel while idle.
	KindIgnored Kind = "ignored"
	// KindStarted means a dynamic recording session began.
	KindStarted Kind = "started"
	// KindCompleted means a dynamic session closed and produced a marker.
	KindCompleted Kind = "completed"
	// KindFixed means a fixed-length press produced a marker atomically.
	KindFixed Kind = "fixed"
	// KindCancelled means an active session was discarded without a marker.
	KindCancelled Kind = "cancelled"
)

// Result is the typed outcome of a recorder operation. Marker is non-nil
// only for KindCompleted and KindFixed; SeekFrame then carries the marker's
// start frame so the caller can reposition playback.
type Result struct {
	Kind      Kind
	EventName string
	Marker    *model.Marker
	SeekFrame int
}

// Session is the transient state of an in-progress dynamic recording.
type Session struct {
	Active     bool
	EventName  string
	StartFrame int
}

// Recorder owns the recording session and dispatches presses per mode.
type Recorder struct {
	resolver HotkeyResolver
	settings Settings
	session  Session
}

// New creates an idle Recorder with the given collaborators.
func New(resolver HotkeyResolver, settings Settings) *Recorder {
	return &Recorder{resolver: resolver, settings: settings}
}

// Session returns a copy of the current session state.
func (r *Recorder) Session() Session {
	return r.session
}

// HandleHotkey is the sole press entry point. It resolves the hotkey
// through the registry, consults the current mode and session state, and
// returns a typed result. A timing.ErrInvalidFPS failure drops the press
// and leaves any active session untouched.
func (r *Recorder) HandleHotkey(hotkey string, currentFrame int, fps float64, totalFrames int) (Result, error) {
	eventName, ok := r.resolver.ResolveHotkey(hotkey)
	if !ok {
		return Result{Kind: KindIgnored}, nil
	}

	switch r.settings.RecordingMode() {
	case model.ModeFixedLength:
		return r.handleFixed(eventName, currentFrame, fps, totalFrames)
	default:
		return r.handleDynamic(eventName, currentFrame, fps, totalFrames)
	}
}

// Cancel discards any active session without emitting a marker. Cancelling
// while idle is a harmless no-op.
func (r *Recorder) Cancel() Result {
	if !r.session.Active {
		return Result{Kind: KindIgnored}
	}
	eventName := r.session.EventName
	r.session = Session{}
	return Result{Kind: KindCancelled, EventName: eventName}
}

// SetMode switches the recording mode. A dynamic session in progress is
// force-cancelled first so a half-open recording never leaks across modes;
// the returned result reports that cancellation (KindIgnored otherwise).
func (r *Recorder) SetMode(mode model.RecordingMode) Result {
	res := Result{Kind: KindIgnored}
	if r.session.Active && mode != r.settings.RecordingMode() {
		res = r.Cancel()
	}
	r.settings.SetRecordingMode(mode)
	return res
}

// SetTiming replaces the timing parameters, effective on the next press.
func (r *Recorder) SetTiming(cfg model.TimingConfig) {
	r.settings.SetTiming(cfg)
}

func (r *Recorder) handleDynamic(eventName string, currentFrame int, fps float64, totalFrames int) (Result, error) {
	if !r.session.Active {
		r.session = Session{Active: true, EventName: eventName, StartFrame: currentFrame}
		return Result{Kind: KindStarted, EventName: eventName}, nil
	}

	// Only the event that opened the session can close it; presses for
	// other events mid-recording are no-ops.
	if r.session.EventName != eventName {
		return Result{Kind: KindIgnored, EventName: eventName}, nil
	}

	cfg := r.settings.Timing()
	start, end, err := timing.DynamicBounds(r.session.StartFrame, currentFrame, cfg.PreRollSec, fps)
	if err != nil {
		return Result{Kind: KindIgnored, EventName: eventName}, err
	}

	marker := model.NewMarker(start, end, eventName, totalFrames)
	r.session = Session{}
	return Result{
		Kind:      KindCompleted,
		EventName: eventName,
		Marker:    &marker,
		SeekFrame: marker.StartFrame,
	}, nil
}

// handleFixed emits a marker atomically. It never reads or writes the
// dynamic session, so a fixed press while a dynamic session is active
// leaves that session intact.
func (r *Recorder) handleFixed(eventName string, currentFrame int, fps float64, totalFrames int) (Result, error) {
	cfg := r.settings.Timing()
	start, end, err := timing.FixedBounds(currentFrame, cfg.FixedDurationSec, cfg.PreRollSec, fps, totalFrames)
	if err != nil {
		return Result{Kind: KindIgnored, EventName: eventName}, err
	}

	marker := model.NewMarker(start, end, eventName, totalFrames)
	return Result{
		Kind:      KindFixed,
		EventName: eventName,
		Marker:    &marker,
		SeekFrame: marker.StartFrame,
	}, nil
}
