// Package storage defines the marker persistence interface and its
// backend factory. Backends record markers durably beyond the in-memory
// project: a local JSON export, a SQLite or Postgres review database, or a
// live WebSocket feed to a timeline viewer.
package storage

import "github.com/pucktrack/recorder/internal/model"

// Backend is the interface all storage implementations must satisfy.
// Implementations live in subpackages and depend only on internal/model,
// never on this package; they satisfy the interface structurally.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management
	StartSession(info model.SessionInfo) error
	EndSession() error

	// Marker recording. AddMarker assigns an ID to the passed pointer.
	AddMarker(m *model.Marker) error
	UpdateMarker(m *model.Marker) error
	DeleteMarker(id uint) error
	ListMarkers() ([]model.Marker, error)
}

// Exportable is an optional interface for backends that produce a file on
// EndSession.
type Exportable interface {
	ExportedFilePath() string
}
