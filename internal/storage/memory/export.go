package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pucktrack/recorder/internal/model"
)

// exportDocument is the on-disk shape of a finished session.
type exportDocument struct {
	sessionHeader
	RecordedAt time.Time      `json:"recordedAt"`
	Markers    []model.Marker `json:"markers"`
}

// StartSession begins recording a new tagging session, resetting any
// previously collected markers.
func (b *Backend) StartSession(info model.SessionInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.session = sessionHeader{
		ProjectName: info.ProjectName,
		VideoPath:   info.VideoPath,
		FPS:         info.FPS,
		TotalFrames: info.TotalFrames,
	}
	b.hasActive = true
	b.markers = nil
	b.idCounter = 0
	return nil
}

// EndSession writes the collected markers to a JSON file in the configured
// output directory, gzip-compressed when enabled.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasActive {
		return fmt.Errorf("no active session")
	}
	b.hasActive = false

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	doc := exportDocument{
		sessionHeader: b.session,
		RecordedAt:    time.Now(),
		Markers:       b.markers,
	}

	name := exportFileName(b.session.ProjectName, doc.RecordedAt, b.cfg.CompressOutput)
	path := filepath.Join(b.cfg.OutputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if b.cfg.CompressOutput {
		gz := gzip.NewWriter(f)
		enc := json.NewEncoder(gz)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}
		if err := gz.Close(); err != nil {
			return fmt.Errorf("closing gzip writer: %w", err)
		}
	} else {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding export: %w", err)
		}
	}

	b.exportedPath = path
	return nil
}

// exportFileName builds a collision-resistant file name from the project
// name and timestamp.
func exportFileName(projectName string, at time.Time, compressed bool) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, projectName)
	if base == "" {
		base = "session"
	}
	name := fmt.Sprintf("%s.%s.json", base, at.Format("20060102_150405"))
	if compressed {
		name += ".gz"
	}
	return name
}
