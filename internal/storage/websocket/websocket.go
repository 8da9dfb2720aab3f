// Package websocket streams tagging sessions to a live timeline viewer.
// Markers are mirrored locally so
// ListMarkers works without a round trip.
package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend streams marker updates over WebSocket.
type Backend struct {
	conn *connection
	cfg  Config

	mu       sync.Mutex
	markers  []model.Marker
	nextID   uint
	inActive bool
}

// New creates a new WebSocket storage backend.
func New(cfg Config, log *slog.Logger) *Backend {
	return &Backend{
		conn: newConnection(log),
		cfg:  cfg,
	}
}

// Init connects to the timeline viewer.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the timeline viewer.
func (b *Backend) Close() error {
	return b.conn.close()
}

// StartSession announces a new session and caches the message for replay
// after reconnects.
func (b *Backend) StartSession(info model.SessionInfo) error {
	payload := streaming.SessionPayload{
		ProjectName: info.ProjectName,
		VideoPath:   info.VideoPath,
		FPS:         info.FPS,
		TotalFrames: info.TotalFrames,
	}
	data, err := marshalEnvelope(streaming.TypeStartSession, payload)
	if err != nil {
		return err
	}

	b.conn.mu.Lock()
	b.conn.cachedStartMsg = data
	b.conn.mu.Unlock()

	b.mu.Lock()
	b.markers = nil
	b.nextID = 0
	b.inActive = true
	b.mu.Unlock()

	b.conn.send(data)
	return nil
}

// EndSession announces the end of the session.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	if !b.inActive {
		b.mu.Unlock()
		return fmt.Errorf("no active session")
	}
	b.inActive = false
	b.mu.Unlock()

	b.conn.mu.Lock()
	b.conn.cachedStartMsg = nil
	b.conn.mu.Unlock()

	data, err := marshalEnvelope(streaming.TypeEndSession, struct{}{})
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// AddMarker assigns an ID, mirrors the marker, and streams it.
func (b *Backend) AddMarker(m *model.Marker) error {
	b.mu.Lock()
	b.nextID++
	m.ID = b.nextID
	b.markers = append(b.markers, *m)
	b.mu.Unlock()

	data, err := marshalEnvelope(streaming.TypeAddMarker, markerPayload(m))
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// UpdateMarker updates the mirror and streams the change.
func (b *Backend) UpdateMarker(m *model.Marker) error {
	b.mu.Lock()
	found := false
	for i := range b.markers {
		if b.markers[i].ID == m.ID {
			b.markers[i] = *m
			found = true
			break
		}
	}
	b.mu.Unlock()
	if !found {
		return fmt.Errorf("marker %d not found", m.ID)
	}

	data, err := marshalEnvelope(streaming.TypeUpdateMarker, markerPayload(m))
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// DeleteMarker removes the marker from the mirror and streams the removal.
func (b *Backend) DeleteMarker(id uint) error {
	b.mu.Lock()
	found := false
	for i := range b.markers {
		if b.markers[i].ID == id {
			b.markers = append(b.markers[:i], b.markers[i+1:]...)
			found = true
			break
		}
	}
	b.mu.Unlock()
	if !found {
		return fmt.Errorf("marker %d not found", id)
	}

	data, err := marshalEnvelope(streaming.TypeDeleteMarker, streaming.DeleteMarkerPayload{ID: id})
	if err != nil {
		return err
	}
	b.conn.send(data)
	return nil
}

// ListMarkers returns the locally mirrored markers.
func (b *Backend) ListMarkers() ([]model.Marker, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Marker, len(b.markers))
	copy(out, b.markers)
	return out, nil
}

func markerPayload(m *model.Marker) streaming.MarkerPayload {
	return streaming.MarkerPayload{
		ID:         m.ID,
		StartFrame: m.StartFrame,
		EndFrame:   m.EndFrame,
		EventName:  m.EventName,
		Note:       m.Note,
		Extra:      m.Extra,
	}
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and
// payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}
