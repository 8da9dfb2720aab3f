// Package monitor periodically writes engine status to a JSON file so the
// UI layer can poll recording state without talking to the engine directly.
package monitor

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Status is one snapshot of the tagging engine.
type Status struct {
	Time        time.Time `json:"time"`
	ProjectName string    `json:"projectName,omitempty"`
	MarkerCount int       `json:"markerCount"`
	Dirty       bool      `json:"dirty"`
	Recording   bool      `json:"recording"`
	EventName   string    `json:"eventName,omitempty"`
	StartFrame  int       `json:"startFrame,omitempty"`
}

// Dependencies holds all dependencies for the monitor service.
type Dependencies struct {
	Log *slog.Logger

	// StatusProvider returns the current engine snapshot. Called from the
	// monitor goroutine, so it must be safe for concurrent use. When nil,
	// snapshots pushed via SetStatus are used instead.
	StatusProvider func() Status

	// StatusDir is where status.json is written.
	StatusDir string

	// Interval between writes. Defaults to one second.
	Interval time.Duration
}

// Service manages status monitoring.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	latest    Status
}

// NewService creates a new monitor service.
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// StatusFilePath returns where the monitor writes its snapshot.
func (s *Service) StatusFilePath() string {
	return filepath.Join(s.deps.StatusDir, "status.json")
}

// Start starts the status monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Log.Debug("Starting status monitor goroutine")

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.writeSnapshot(); err != nil {
					s.deps.Log.Error("Error writing status file", "error", err)
				}
			}
		}
	}()

	return nil
}

// SetStatus records a snapshot for the next periodic write. Used when no
// StatusProvider is configured, typically pushed from the command loop.
func (s *Service) SetStatus(status Status) {
	s.mu.Lock()
	s.latest = status
	s.mu.Unlock()
}

func (s *Service) writeSnapshot() error {
	var status Status
	if s.deps.StatusProvider != nil {
		status = s.deps.StatusProvider()
	} else {
		s.mu.RLock()
		status = s.latest
		s.mu.RUnlock()
	}
	status.Time = time.Now()

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}

	// Write then rename so pollers never see a partial file.
	tmp := s.StatusFilePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.StatusFilePath())
}

// Stop stops the status monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
