package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the project as JSON to path, creating parent directories as
// needed, and clears the dirty flag on success.
func Save(p *Project, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating project directory: %w", err)
		}
	}

	p.mu.RLock()
	data, err := json.MarshalIndent(p, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("marshalling project: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}

	p.mu.Lock()
	p.FilePath = path
	p.dirty = false
	p.mu.Unlock()
	return nil
}

// Load reads a project from a JSON file. Marker IDs are re-validated so the
// next assigned ID never collides with a loaded one.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	p := &Project{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("unmarshalling project: %w", err)
	}

	if p.Version == "" {
		p.Version = FormatVersion
	}
	if p.FPS == 0 {
		p.FPS = 30
	}

	p.nextID = 1
	for _, m := range p.Markers {
		if m.ID >= p.nextID {
			p.nextID = m.ID + 1
		}
	}

	p.FilePath = path
	p.dirty = false
	return p, nil
}
