package project

import (
	"log/slog"
	"time"
)

// Autosaver periodically saves a dirty project to its file path. It mirrors
// the periodic dump loop used by the SQLite storage backend: a ticker
// goroutine stopped through a channel on Close.
type Autosaver struct {
	interval time.Duration
	log      *slog.Logger
	stopChan chan struct{}

	// saveFunc is swapped in tests.
	saveFunc func(*Project, string) error
	proj     *Project
}

// NewAutosaver creates an Autosaver for p. Start must be called to begin
// the loop.
func NewAutosaver(p *Project, interval time.Duration, log *slog.Logger) *Autosaver {
	return &Autosaver{
		interval: interval,
		log:      log,
		stopChan: make(chan struct{}),
		saveFunc: Save,
		proj:     p,
	}
}

// Start launches the autosave loop. It is a no-op for a non-positive
// interval.
func (a *Autosaver) Start() {
	if a.interval <= 0 {
		return
	}
	go a.loop()
}

// Close stops the autosave loop.
func (a *Autosaver) Close() {
	close(a.stopChan)
}

func (a *Autosaver) loop() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopChan:
			return
		case <-ticker.C:
			a.saveIfDirty()
		}
	}
}

func (a *Autosaver) saveIfDirty() {
	if !a.proj.Dirty() || a.proj.FilePath == "" {
		return
	}
	start := time.Now()
	if err := a.saveFunc(a.proj, a.proj.FilePath); err != nil {
		a.log.Error("autosave failed", "path", a.proj.FilePath, "error", err)
		return
	}
	a.log.Debug("autosaved project", "path", a.proj.FilePath, "duration", time.Since(start))
}
