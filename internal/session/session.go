// Package session ties the recording state machine to the project, the
// undo history, and the storage backend. It is the unit the command
// dispatcher and the CLI talk to.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pucktrack/recorder/internal/config"
	"github.com/pucktrack/recorder/internal/export"
	"github.com/pucktrack/recorder/internal/history"
	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/internal/project"
	"github.com/pucktrack/recorder/internal/recorder"
	"github.com/pucktrack/recorder/internal/registry"
	"github.com/pucktrack/recorder/internal/stats"
	"github.com/pucktrack/recorder/internal/storage"
)

// ErrNoProject is returned when an operation needs an open project.
var ErrNoProject = errors.New("no project open")

// Dependencies holds everything a tagging session needs.
type Dependencies struct {
	Registry *registry.Registry
	Settings recorder.Settings
	Backend  storage.Backend
	History  *history.Manager
	Stats    *stats.Manager
	Exporter *export.Exporter
	Log      *slog.Logger
}

// Service drives one tagging session over one project. Most methods run on
// the command loop goroutine; Export may run on a dispatcher worker, so the
// project pointer is guarded.
type Service struct {
	deps Dependencies

	rec     *recorder.Recorder
	saver   *project.Autosaver
	started bool

	mu   sync.RWMutex
	proj *project.Project

	// Backends assign their own marker IDs. backendIDs maps project marker
	// IDs to backend IDs so removals and edits hit the right row.
	backendIDs map[uint]uint
}

// NewService creates a session service. A project must be opened before
// hotkeys are handled.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps: deps,
		rec:  recorder.New(deps.Registry, deps.Settings),
	}
}

// Project returns the open project, or nil.
func (s *Service) Project() *project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.proj
}

// Recorder exposes the recording state machine for status queries.
func (s *Service) Recorder() *recorder.Recorder {
	return s.rec
}

// Open attaches a project and announces the session to the backend.
func (s *Service) Open(p *project.Project, autosave config.AutosaveConfig) error {
	if s.proj != nil {
		if err := s.Close(context.Background()); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.proj = p
	s.mu.Unlock()
	s.backendIDs = make(map[uint]uint)

	if s.deps.Backend != nil {
		err := s.deps.Backend.StartSession(model.SessionInfo{
			ProjectName: p.Name,
			VideoPath:   p.VideoPath,
			FPS:         p.FPS,
			TotalFrames: p.TotalFrames,
		})
		if err != nil {
			return fmt.Errorf("start storage session: %w", err)
		}
		s.started = true
	}

	if autosave.Enabled {
		s.saver = project.NewAutosaver(p, autosave.Interval, s.deps.Log)
		s.saver.Start()
	}

	s.deps.Log.Info("session opened",
		"project", p.Name,
		"video", p.VideoPath,
		"fps", p.FPS,
		"totalFrames", p.TotalFrames,
	)
	return nil
}

// HandleHotkey feeds one key press to the recorder and applies the outcome
// to the project, the history, and the backend.
func (s *Service) HandleHotkey(hotkey string, currentFrame int) (recorder.Result, error) {
	if s.proj == nil {
		return recorder.Result{}, ErrNoProject
	}

	res, err := s.rec.HandleHotkey(hotkey, currentFrame, s.proj.FPS, s.proj.TotalFrames)
	if err != nil {
		return res, err
	}

	if res.Marker != nil {
		stored, applyErr := s.applyMarker(*res.Marker)
		if applyErr != nil {
			return res, applyErr
		}
		res.Marker = &stored
	}

	return res, nil
}

func (s *Service) applyMarker(m model.Marker) (model.Marker, error) {
	cmd := history.NewAddMarker(s.proj, m)
	if err := s.deps.History.Execute(cmd); err != nil {
		return model.Marker{}, err
	}
	stored := cmd.StoredMarker()

	if s.deps.Backend != nil {
		backendCopy := stored
		backendCopy.ID = 0
		if err := s.deps.Backend.AddMarker(&backendCopy); err != nil {
			s.deps.Log.Error("backend add marker failed", "error", err, "event", stored.EventName)
		} else {
			s.backendIDs[stored.ID] = backendCopy.ID
		}
	}

	s.deps.Log.Info("marker recorded",
		"event", stored.EventName,
		"startFrame", stored.StartFrame,
		"endFrame", stored.EndFrame,
	)
	return stored, nil
}

// Cancel aborts the in-flight dynamic recording, if any.
func (s *Service) Cancel() recorder.Result {
	return s.rec.Cancel()
}

// SetMode changes the recording mode, cancelling any active recording.
func (s *Service) SetMode(mode model.RecordingMode) (recorder.Result, error) {
	if !mode.Valid() {
		return recorder.Result{}, fmt.Errorf("unknown recording mode %q", mode)
	}
	res := s.rec.SetMode(mode)
	s.deps.Log.Info("recording mode changed", "mode", string(mode))
	return res, nil
}

// SetTiming updates the timing settings used by subsequent presses.
func (s *Service) SetTiming(cfg model.TimingConfig) {
	s.rec.SetTiming(cfg)
}

// RemoveMarker deletes a marker through the history so it can be undone.
func (s *Service) RemoveMarker(id uint) error {
	if s.proj == nil {
		return ErrNoProject
	}
	if err := s.deps.History.Execute(history.NewRemoveMarker(s.proj, id)); err != nil {
		return err
	}
	if s.deps.Backend != nil {
		if err := s.deps.Backend.DeleteMarker(s.backendID(id)); err != nil {
			s.deps.Log.Error("backend delete marker failed", "error", err, "id", id)
		}
		delete(s.backendIDs, id)
	}
	return nil
}

// UpdateMarker edits a marker through the history so it can be undone.
func (s *Service) UpdateMarker(m model.Marker) error {
	if s.proj == nil {
		return ErrNoProject
	}
	if err := s.deps.History.Execute(history.NewUpdateMarker(s.proj, m)); err != nil {
		return err
	}
	if s.deps.Backend != nil {
		backendCopy := m
		backendCopy.ID = s.backendID(m.ID)
		if err := s.deps.Backend.UpdateMarker(&backendCopy); err != nil {
			s.deps.Log.Error("backend update marker failed", "error", err, "id", m.ID)
		}
	}
	return nil
}

// backendID maps a project marker ID to the backend's row ID. IDs coincide
// until the first resync; after that the map is authoritative.
func (s *Service) backendID(projectID uint) uint {
	if id, ok := s.backendIDs[projectID]; ok {
		return id
	}
	return projectID
}

// Undo reverts the last marker operation and resyncs the backend.
func (s *Service) Undo() error {
	if err := s.deps.History.Undo(); err != nil {
		return err
	}
	s.resyncBackend()
	return nil
}

// Redo reapplies the last undone operation and resyncs the backend.
func (s *Service) Redo() error {
	if err := s.deps.History.Redo(); err != nil {
		return err
	}
	s.resyncBackend()
	return nil
}

// resyncBackend replays the project's markers into the backend. Undo and
// redo can touch any marker, restarting the session is the simplest way to
// keep the stream consistent.
func (s *Service) resyncBackend() {
	if s.deps.Backend == nil || s.proj == nil || !s.started {
		return
	}
	err := s.deps.Backend.StartSession(model.SessionInfo{
		ProjectName: s.proj.Name,
		VideoPath:   s.proj.VideoPath,
		FPS:         s.proj.FPS,
		TotalFrames: s.proj.TotalFrames,
	})
	if err != nil {
		s.deps.Log.Error("backend resync failed", "error", err)
		return
	}
	// The backend assigns fresh IDs in replay order; the project keeps its
	// original ones. Rebuild the mapping so later edits stay aligned.
	s.backendIDs = make(map[uint]uint)
	for _, m := range s.proj.Snapshot() {
		backendCopy := m
		backendCopy.ID = 0
		if err := s.deps.Backend.AddMarker(&backendCopy); err != nil {
			s.deps.Log.Error("backend resync add failed", "error", err, "id", m.ID)
			continue
		}
		s.backendIDs[m.ID] = backendCopy.ID
	}
}

// Save writes the project to its file path.
func (s *Service) Save(path string) error {
	if s.proj == nil {
		return ErrNoProject
	}
	if path == "" {
		path = s.proj.FilePath
	}
	if path == "" {
		return errors.New("no save path set")
	}
	return project.Save(s.proj, path)
}

// Export cuts the tagged segments to outputPath.
func (s *Service) Export(ctx context.Context, outputPath string) ([]string, error) {
	s.mu.RLock()
	proj := s.proj
	s.mu.RUnlock()
	if proj == nil {
		return nil, ErrNoProject
	}
	if s.deps.Exporter == nil {
		return nil, errors.New("export not configured")
	}
	// Export runs on a dispatcher worker while the command loop keeps
	// tagging; cut from a snapshot, not the live slice.
	markers := proj.Snapshot()
	return s.deps.Exporter.Export(ctx, proj.VideoPath, markers, proj.FPS, outputPath)
}

// Close ends the session, flushes the backend, and reports statistics.
func (s *Service) Close(ctx context.Context) error {
	if s.proj == nil {
		return nil
	}

	if s.saver != nil {
		s.saver.Close()
		s.saver = nil
	}

	s.rec.Cancel()

	var firstErr error
	if s.deps.Backend != nil && s.started {
		if err := s.deps.Backend.EndSession(); err != nil {
			firstErr = err
		}
		s.started = false
	}

	if s.deps.Stats != nil {
		err := s.deps.Stats.WriteSessionSummary(ctx, s.proj.Name, s.proj.FPS, s.proj.Markers)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.deps.Log.Info("session closed", "project", s.proj.Name, "markers", len(s.proj.Markers))
	s.mu.Lock()
	s.proj = nil
	s.mu.Unlock()
	s.backendIDs = nil
	s.deps.History.Clear()
	return firstErr
}
