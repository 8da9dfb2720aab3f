// Package gormstore implements marker storage on a relational review
// database through GORM: SQLite for local work, Postgres for a shared team
// database with automatic fallback to SQLite when it is unreachable.
package gormstore

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/pucktrack/recorder/internal/model"
)

// ErrNoActiveSession is returned for marker operations outside a session.
var ErrNoActiveSession = errors.New("no active session")

// Backend records sessions and markers through GORM.
type Backend struct {
	db  *gorm.DB
	log *slog.Logger

	mu      sync.Mutex
	current *SessionRecord
}

// newBackend wraps an open GORM handle.
func newBackend(db *gorm.DB, log *slog.Logger) *Backend {
	return &Backend{db: db, log: log}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(&SessionRecord{}, &MarkerRecord{}); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return fmt.Errorf("accessing sql interface: %w", err)
	}
	return sqlDB.Close()
}

// StartSession inserts a session row; markers added afterwards attach to it.
func (b *Backend) StartSession(info model.SessionInfo) error {
	rec := SessionRecord{
		ProjectName: info.ProjectName,
		VideoPath:   info.VideoPath,
		FPS:         info.FPS,
		TotalFrames: info.TotalFrames,
		StartedAt:   time.Now(),
	}
	if err := b.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	b.mu.Lock()
	b.current = &rec
	b.mu.Unlock()

	b.log.Info("session started", "session", rec.ID, "project", info.ProjectName)
	return nil
}

// EndSession stamps the session row's end time.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	current := b.current
	b.current = nil
	b.mu.Unlock()

	if current == nil {
		return ErrNoActiveSession
	}

	now := time.Now()
	current.EndedAt = &now
	if err := b.db.Save(current).Error; err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return nil
}

// AddMarker inserts a marker row and assigns the generated ID back.
func (b *Backend) AddMarker(m *model.Marker) error {
	sessionID, err := b.sessionID()
	if err != nil {
		return err
	}

	rec, err := toRecord(m, sessionID)
	if err != nil {
		return fmt.Errorf("converting marker: %w", err)
	}
	rec.ID = 0
	if err := b.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("creating marker: %w", err)
	}
	m.ID = rec.ID
	return nil
}

// UpdateMarker replaces a marker row by ID.
func (b *Backend) UpdateMarker(m *model.Marker) error {
	sessionID, err := b.sessionID()
	if err != nil {
		return err
	}

	rec, err := toRecord(m, sessionID)
	if err != nil {
		return fmt.Errorf("converting marker: %w", err)
	}
	res := b.db.Model(&MarkerRecord{}).Where("id = ? AND session_id = ?", m.ID, sessionID).
		Updates(map[string]any{
			"start_frame": rec.StartFrame,
			"end_frame":   rec.EndFrame,
			"event_name":  rec.EventName,
			"note":        rec.Note,
			"extra":       rec.Extra,
		})
	if res.Error != nil {
		return fmt.Errorf("updating marker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("marker %d not found", m.ID)
	}
	return nil
}

// DeleteMarker removes a marker row by ID.
func (b *Backend) DeleteMarker(id uint) error {
	sessionID, err := b.sessionID()
	if err != nil {
		return err
	}

	res := b.db.Where("id = ? AND session_id = ?", id, sessionID).Delete(&MarkerRecord{})
	if res.Error != nil {
		return fmt.Errorf("deleting marker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("marker %d not found", id)
	}
	return nil
}

// ListMarkers returns the current session's markers in insertion order.
func (b *Backend) ListMarkers() ([]model.Marker, error) {
	sessionID, err := b.sessionID()
	if err != nil {
		return nil, err
	}

	var recs []MarkerRecord
	if err := b.db.Where("session_id = ?", sessionID).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing markers: %w", err)
	}

	out := make([]model.Marker, 0, len(recs))
	for _, rec := range recs {
		m, err := toMarker(rec)
		if err != nil {
			return nil, fmt.Errorf("converting marker %d: %w", rec.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (b *Backend) sessionID() (uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return 0, ErrNoActiveSession
	}
	return b.current.ID, nil
}
