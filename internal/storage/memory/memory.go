// Package memory stores session markers in memory and exports them to a
// JSON file when the session ends.
package memory

import (
	"fmt"
	"sync"

	"github.com/pucktrack/recorder/internal/config"
	"github.com/pucktrack/recorder/internal/model"
)

// Backend keeps the session's markers in memory and writes a JSON export
// on EndSession.
type Backend struct {
	cfg config.MemoryConfig

	mu        sync.RWMutex
	session   sessionHeader
	hasActive bool
	markers   []model.Marker
	idCounter uint

	exportedPath string
}

type sessionHeader struct {
	ProjectName string  `json:"projectName"`
	VideoPath   string  `json:"videoPath"`
	FPS         float64 `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// AddMarker stores a marker and assigns it an ID.
func (b *Backend) AddMarker(m *model.Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	m.ID = b.idCounter
	b.markers = append(b.markers, *m)
	return nil
}

// UpdateMarker replaces a stored marker by ID.
func (b *Backend) UpdateMarker(m *model.Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.markers {
		if b.markers[i].ID == m.ID {
			b.markers[i] = *m
			return nil
		}
	}
	return fmt.Errorf("marker %d not found", m.ID)
}

// DeleteMarker removes a stored marker by ID.
func (b *Backend) DeleteMarker(id uint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.markers {
		if b.markers[i].ID == id {
			b.markers = append(b.markers[:i], b.markers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("marker %d not found", id)
}

// ListMarkers returns a copy of all stored markers.
func (b *Backend) ListMarkers() ([]model.Marker, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Marker, len(b.markers))
	copy(out, b.markers)
	return out, nil
}

// ExportedFilePath returns the path of the last JSON export, empty before
// the first EndSession.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.exportedPath
}
