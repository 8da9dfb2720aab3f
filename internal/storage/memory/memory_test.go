package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pucktrack/recorder/internal/config"
	"github.com/pucktrack/recorder/internal/model"
)

func testInfo() model.SessionInfo {
	return model.SessionInfo{
		ProjectName: "Game 12",
		VideoPath:   "/videos/game12.mp4",
		FPS:         30,
		TotalFrames: 108000,
	}
}

func TestAddMarkerAssignsSequentialIDs(t *testing.T) {
	b := New(config.MemoryConfig{})
	if err := b.StartSession(testInfo()); err != nil {
		t.Fatal(err)
	}

	m1 := model.NewMarker(40, 250, "Goal", 108000)
	m2 := model.NewMarker(300, 400, "Penalty", 108000)
	if err := b.AddMarker(&m1); err != nil {
		t.Fatal(err)
	}
	if err := b.AddMarker(&m2); err != nil {
		t.Fatal(err)
	}

	if m1.ID != 1 || m2.ID != 2 {
		t.Errorf("IDs = %d, %d; want 1, 2", m1.ID, m2.ID)
	}
}

func TestStartSessionResetsState(t *testing.T) {
	b := New(config.MemoryConfig{})
	if err := b.StartSession(testInfo()); err != nil {
		t.Fatal(err)
	}
	m := model.NewMarker(1, 2, "Goal", 100)
	if err := b.AddMarker(&m); err != nil {
		t.Fatal(err)
	}

	if err := b.StartSession(testInfo()); err != nil {
		t.Fatal(err)
	}
	markers, err := b.ListMarkers()
	if err != nil {
		t.Fatal(err)
	}
	if len(markers) != 0 {
		t.Errorf("markers after restart = %d, want 0", len(markers))
	}

	m2 := model.NewMarker(3, 4, "Goal", 100)
	if err := b.AddMarker(&m2); err != nil {
		t.Fatal(err)
	}
	if m2.ID != 1 {
		t.Errorf("ID counter should reset, got %d", m2.ID)
	}
}

func TestUpdateAndDeleteMarker(t *testing.T) {
	b := New(config.MemoryConfig{})
	if err := b.StartSession(testInfo()); err != nil {
		t.Fatal(err)
	}

	m := model.NewMarker(1, 2, "Goal", 100)
	if err := b.AddMarker(&m); err != nil {
		t.Fatal(err)
	}

	m.Note = "rebound"
	if err := b.UpdateMarker(&m); err != nil {
		t.Fatalf("UpdateMarker: %v", err)
	}
	markers, _ := b.ListMarkers()
	if markers[0].Note != "rebound" {
		t.Errorf("note = %q, want rebound", markers[0].Note)
	}

	if err := b.DeleteMarker(m.ID); err != nil {
		t.Fatalf("DeleteMarker: %v", err)
	}
	if err := b.DeleteMarker(m.ID); err == nil {
		t.Error("double delete should fail")
	}
	if err := b.UpdateMarker(&m); err == nil {
		t.Error("update of deleted marker should fail")
	}
}

func TestEndSessionExportsJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})
	if err := b.StartSession(testInfo()); err != nil {
		t.Fatal(err)
	}
	m := model.NewMarker(40, 250, "Goal", 108000)
	if err := b.AddMarker(&m); err != nil {
		t.Fatal(err)
	}

	if err := b.EndSession(); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	path := b.ExportedFilePath()
	if path == "" {
		t.Fatal("exported file path should be set")
	}
	if !strings.HasSuffix(path, ".json") {
		t.Errorf("path = %q, want .json suffix", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var doc exportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decoding export: %v", err)
	}
	if doc.ProjectName != "Game 12" || len(doc.Markers) != 1 {
		t.Errorf("export = %+v", doc)
	}
}

func TestEndSessionExportsCompressed(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	if err := b.StartSession(testInfo()); err != nil {
		t.Fatal(err)
	}
	if err := b.EndSession(); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	path := b.ExportedFilePath()
	if !strings.HasSuffix(path, ".json.gz") {
		t.Fatalf("path = %q, want .json.gz suffix", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	var doc exportDocument
	if err := json.NewDecoder(gz).Decode(&doc); err != nil {
		t.Fatalf("decoding compressed export: %v", err)
	}
	if doc.ProjectName != "Game 12" {
		t.Errorf("project name = %q", doc.ProjectName)
	}
}

func TestEndSessionWithoutStart(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	if err := b.EndSession(); err == nil {
		t.Fatal("EndSession without StartSession should fail")
	}
}

func TestExportFileNameSanitizes(t *testing.T) {
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	name := exportFileName("Game 12: HC Spartak / CSKA", at, false)
	if strings.ContainsAny(name, " :/") {
		t.Errorf("name %q contains unsafe characters", name)
	}
	if name != "Game_12__HC_Spartak___CSKA.20260314_150926.json" {
		t.Errorf("unexpected name %q", name)
	}

	empty := exportFileName("", at, true)
	if !strings.HasPrefix(empty, "session.") || !strings.HasSuffix(empty, ".json.gz") {
		t.Errorf("fallback name %q", empty)
	}
}
