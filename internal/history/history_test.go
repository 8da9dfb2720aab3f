package history

import (
	"errors"
	"testing"

	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/internal/project"
)

func newTestProject() *project.Project {
	return project.New("Test", "/videos/test.mp4", 30, 10000)
}

func TestAddMarkerUndoRedo(t *testing.T) {
	p := newTestProject()
	m := NewManager(0)

	cmd := NewAddMarker(p, model.NewMarker(40, 250, "Goal", 10000))
	if err := m.Execute(cmd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(p.Markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(p.Markers))
	}
	id := cmd.StoredMarker().ID

	if err := m.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if len(p.Markers) != 0 {
		t.Errorf("markers after undo = %d, want 0", len(p.Markers))
	}

	if err := m.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if len(p.Markers) != 1 {
		t.Fatalf("markers after redo = %d, want 1", len(p.Markers))
	}
	if p.Markers[0].ID != id {
		t.Errorf("redo must reuse the original ID %d, got %d", id, p.Markers[0].ID)
	}
}

func TestRemoveMarkerUndo(t *testing.T) {
	p := newTestProject()
	stored := p.AddMarker(model.NewMarker(40, 250, "Goal", 10000))
	m := NewManager(0)

	if err := m.Execute(NewRemoveMarker(p, stored.ID)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(p.Markers) != 0 {
		t.Fatal("marker should be removed")
	}

	if err := m.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	got, ok := p.Marker(stored.ID)
	if !ok {
		t.Fatal("marker should be restored with its original ID")
	}
	if got.EventName != "Goal" {
		t.Errorf("restored marker = %+v", got)
	}
}

func TestUpdateMarkerUndo(t *testing.T) {
	p := newTestProject()
	stored := p.AddMarker(model.NewMarker(40, 250, "Goal", 10000))
	m := NewManager(0)

	updated := stored
	updated.Note = "short-handed"
	if err := m.Execute(NewUpdateMarker(p, updated)); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if err := m.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	got, _ := p.Marker(stored.ID)
	if got.Note != "" {
		t.Errorf("note after undo = %q, want empty", got.Note)
	}
}

func TestNewCommandClearsRedo(t *testing.T) {
	p := newTestProject()
	m := NewManager(0)

	if err := m.Execute(NewAddMarker(p, model.NewMarker(1, 2, "Goal", 10000))); err != nil {
		t.Fatal(err)
	}
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if !m.CanRedo() {
		t.Fatal("redo should be available after undo")
	}

	if err := m.Execute(NewAddMarker(p, model.NewMarker(3, 4, "Penalty", 10000))); err != nil {
		t.Fatal(err)
	}
	if m.CanRedo() {
		t.Error("new command must clear the redo stack")
	}
}

func TestUndoRedoEmptyStacks(t *testing.T) {
	m := NewManager(0)
	if err := m.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("want ErrNothingToUndo, got %v", err)
	}
	if err := m.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("want ErrNothingToRedo, got %v", err)
	}
}

func TestUndoLimitDropsOldest(t *testing.T) {
	p := newTestProject()
	m := NewManager(2)

	for i := 0; i < 3; i++ {
		if err := m.Execute(NewAddMarker(p, model.NewMarker(i*10, i*10+5, "Goal", 10000))); err != nil {
			t.Fatal(err)
		}
	}

	// Only the two newest commands are undoable.
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if err := m.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("want ErrNothingToUndo after limit, got %v", err)
	}
	if len(p.Markers) != 1 {
		t.Errorf("markers = %d, want 1 (oldest command not undoable)", len(p.Markers))
	}
}

func TestFailedExecuteNotRecorded(t *testing.T) {
	p := newTestProject()
	m := NewManager(0)

	// Removing a missing marker fails; the command must not enter history.
	if err := m.Execute(NewRemoveMarker(p, 999)); err == nil {
		t.Fatal("expected error")
	}
	if m.CanUndo() {
		t.Error("failed command must not be undoable")
	}
}
