// Package project holds the annotation project: the video it refers to and
// the marker collection produced by the recorder, with JSON persistence and
// autosave.
package project

import (
	"errors"
	"sync"
	"time"

	"github.com/pucktrack/recorder/internal/model"
)

// FormatVersion is written into saved project files.
const FormatVersion = "1.0"

// ErrMarkerNotFound is returned when operating on a marker ID the project
// does not contain.
var ErrMarkerNotFound = errors.New("marker not found")

// Project is an annotation session for a single video. Markers are owned by
// the project once the recorder emits them. Mutations and reads may come
// from both the event loop and the autosaver, so the marker collection is
// guarded internally.
type Project struct {
	Name        string         `json:"name"`
	VideoPath   string         `json:"videoPath"`
	FPS         float64        `json:"fps"`
	TotalFrames int            `json:"totalFrames"`
	Version     string         `json:"version"`
	CreatedAt   time.Time      `json:"createdAt"`
	ModifiedAt  time.Time      `json:"modifiedAt"`
	Markers     []model.Marker `json:"markers"`

	// Runtime state, not serialized.
	FilePath string `json:"-"`

	mu     sync.RWMutex
	dirty  bool
	nextID uint
}

// New creates an empty project for a video.
func New(name, videoPath string, fps float64, totalFrames int) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		VideoPath:   videoPath,
		FPS:         fps,
		TotalFrames: totalFrames,
		Version:     FormatVersion,
		CreatedAt:   now,
		ModifiedAt:  now,
		nextID:      1,
	}
}

// Dirty reports whether the project has unsaved changes.
func (p *Project) Dirty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty
}

// AddMarker appends a marker, assigns it an ID, and returns the stored copy.
func (p *Project) AddMarker(m model.Marker) model.Marker {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m.ID == 0 {
		m.ID = p.nextID
		p.nextID++
	} else if m.ID >= p.nextID {
		p.nextID = m.ID + 1
	}
	p.Markers = append(p.Markers, m)
	p.touch()
	return m
}

// RemoveMarker deletes the marker with the given ID and returns it.
func (p *Project) RemoveMarker(id uint) (model.Marker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, m := range p.Markers {
		if m.ID == id {
			p.Markers = append(p.Markers[:i], p.Markers[i+1:]...)
			p.touch()
			return m, nil
		}
	}
	return model.Marker{}, ErrMarkerNotFound
}

// UpdateMarker replaces the marker with updated.ID and returns the previous
// value.
func (p *Project) UpdateMarker(updated model.Marker) (model.Marker, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, m := range p.Markers {
		if m.ID == updated.ID {
			p.Markers[i] = updated
			p.touch()
			return m, nil
		}
	}
	return model.Marker{}, ErrMarkerNotFound
}

// Snapshot returns a copy of the marker collection. Callers on other
// goroutines (export, autosave) work from the copy while the event loop
// keeps mutating the project.
func (p *Project) Snapshot() []model.Marker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Marker, len(p.Markers))
	copy(out, p.Markers)
	return out
}

// Marker returns the marker with the given ID.
func (p *Project) Marker(id uint) (model.Marker, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, m := range p.Markers {
		if m.ID == id {
			return m, true
		}
	}
	return model.Marker{}, false
}

// MarkersForEvent returns all markers of the named event type, in insertion
// order.
func (p *Project) MarkersForEvent(eventName string) []model.Marker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.Marker
	for _, m := range p.Markers {
		if m.EventName == eventName {
			out = append(out, m)
		}
	}
	return out
}

// MarkersInRange returns all markers whose frame range intersects
// [start, end].
func (p *Project) MarkersInRange(start, end int) []model.Marker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []model.Marker
	for _, m := range p.Markers {
		if m.Overlaps(start, end) {
			out = append(out, m)
		}
	}
	return out
}

// touch is called with p.mu held.
func (p *Project) touch() {
	p.ModifiedAt = time.Now()
	p.dirty = true
}
