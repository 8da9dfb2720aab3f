package gormstore

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/pucktrack/recorder/internal/model"
)

// SessionRecord is one tagging session in the review database.
type SessionRecord struct {
	ID          uint `gorm:"primarykey"`
	ProjectName string
	VideoPath   string
	FPS         float64
	TotalFrames int
	StartedAt   time.Time
	EndedAt     *time.Time
}

// MarkerRecord is a persisted marker row.
type MarkerRecord struct {
	ID         uint `gorm:"primarykey"`
	SessionID  uint `gorm:"index"`
	StartFrame int
	EndFrame   int
	EventName  string `gorm:"index"`
	Note       string
	Extra      datatypes.JSON
	CreatedAt  time.Time
}

// toRecord converts a domain marker into its database row.
func toRecord(m *model.Marker, sessionID uint) (MarkerRecord, error) {
	rec := MarkerRecord{
		ID:         m.ID,
		SessionID:  sessionID,
		StartFrame: m.StartFrame,
		EndFrame:   m.EndFrame,
		EventName:  m.EventName,
		Note:       m.Note,
	}
	if len(m.Extra) > 0 {
		raw, err := json.Marshal(m.Extra)
		if err != nil {
			return MarkerRecord{}, err
		}
		rec.Extra = datatypes.JSON(raw)
	}
	return rec, nil
}

// toMarker converts a database row back into a domain marker.
func toMarker(rec MarkerRecord) (model.Marker, error) {
	m := model.Marker{
		ID:         rec.ID,
		StartFrame: rec.StartFrame,
		EndFrame:   rec.EndFrame,
		EventName:  rec.EventName,
		Note:       rec.Note,
	}
	if len(rec.Extra) > 0 {
		if err := json.Unmarshal(rec.Extra, &m.Extra); err != nil {
			return model.Marker{}, err
		}
	}
	return m, nil
}
