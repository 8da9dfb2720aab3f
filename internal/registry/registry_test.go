package registry

import (
	"errors"
	"testing"

	"github.com/pucktrack/recorder/internal/model"
)

func TestResolveHotkey(t *testing.T) {
	r := New()

	name, ok := r.ResolveHotkey("G")
	if !ok || name != "Goal" {
		t.Errorf("ResolveHotkey(G) = (%q, %v), want (Goal, true)", name, ok)
	}

	// Case-insensitive match.
	name, ok = r.ResolveHotkey("g")
	if !ok || name != "Goal" {
		t.Errorf("ResolveHotkey(g) = (%q, %v), want (Goal, true)", name, ok)
	}

	if _, ok := r.ResolveHotkey("9"); ok {
		t.Error("unbound hotkey should not resolve")
	}
}

func TestAddCustomEvent(t *testing.T) {
	r := New()

	e := model.EventType{Name: "Breakaway", Color: "#123ABC", Hotkey: "W", Description: "Breakaway chance"}
	if err := r.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}

	name, ok := r.ResolveHotkey("w")
	if !ok || name != "Breakaway" {
		t.Errorf("ResolveHotkey(w) = (%q, %v), want (Breakaway, true)", name, ok)
	}

	if err := r.Add(e); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate Add: want ErrDuplicateName, got %v", err)
	}
}

func TestAddRejectsTakenHotkey(t *testing.T) {
	r := New()

	// "G" belongs to Goal; case-insensitive conflict.
	e := model.EventType{Name: "Giveaway", Color: "#112233", Hotkey: "g"}
	if err := r.Add(e); !errors.Is(err, ErrHotkeyTaken) {
		t.Errorf("want ErrHotkeyTaken, got %v", err)
	}
}

func TestAddRejectsInvalidColor(t *testing.T) {
	r := New()
	for _, color := range []string{"", "red", "#12345", "#GGGGGG", "123456#"} {
		e := model.EventType{Name: "Bad " + color, Color: color, Hotkey: ""}
		if err := r.Add(e); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("color %q: want ErrInvalidColor, got %v", color, err)
		}
	}
}

func TestUpdateEvent(t *testing.T) {
	r := New()
	if err := r.Add(model.EventType{Name: "Breakaway", Color: "#123ABC", Hotkey: "W"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Rename keeping the hotkey: allowed, old binding released.
	updated := model.EventType{Name: "Odd-Man Rush", Color: "#123ABC", Hotkey: "W"}
	if err := r.Update("Breakaway", updated); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := r.Get("Breakaway"); ok {
		t.Error("old name should be gone after rename")
	}
	if name, ok := r.ResolveHotkey("W"); !ok || name != "Odd-Man Rush" {
		t.Errorf("hotkey should follow the rename, got (%q, %v)", name, ok)
	}

	// Rename onto an existing name is rejected.
	if err := r.Update("Odd-Man Rush", model.EventType{Name: "Goal", Color: "#111111"}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("want ErrDuplicateName, got %v", err)
	}

	if err := r.Update("Nope", model.EventType{Name: "Nope", Color: "#111111"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("want ErrUnknownEvent, got %v", err)
	}
}

func TestDeleteProtectsDefaults(t *testing.T) {
	r := New()

	if err := r.Delete("Goal"); !errors.Is(err, ErrDefaultEvent) {
		t.Errorf("want ErrDefaultEvent, got %v", err)
	}

	if err := r.Add(model.EventType{Name: "Breakaway", Color: "#123ABC"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Delete("Breakaway"); err != nil {
		t.Errorf("Delete custom: %v", err)
	}
	if err := r.Delete("Breakaway"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("double delete: want ErrUnknownEvent, got %v", err)
	}
}

func TestCustomReturnsOnlyDeviations(t *testing.T) {
	r := New()
	if got := r.Custom(); len(got) != 0 {
		t.Fatalf("fresh registry should have no custom events, got %d", len(got))
	}

	if err := r.Add(model.EventType{Name: "Breakaway", Color: "#123ABC", Hotkey: "W"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	// Re-bind a default event's hotkey; it should now count as a deviation.
	goal, _ := r.Get("Goal")
	goal.Hotkey = "1"
	if err := r.Update("Goal", goal); err != nil {
		t.Fatalf("Update: %v", err)
	}

	custom := r.Custom()
	if len(custom) != 2 {
		t.Fatalf("want 2 custom entries, got %d", len(custom))
	}
}

func TestLoadCustomSkipsInvalid(t *testing.T) {
	r := New()
	errs := r.LoadCustom([]model.EventType{
		{Name: "Breakaway", Color: "#123ABC", Hotkey: "W"},
		{Name: "Bad Color", Color: "puce", Hotkey: "Q"},
		{Name: "Conflict", Color: "#000000", Hotkey: "G"},
	})
	if len(errs) != 2 {
		t.Fatalf("want 2 load errors, got %d: %v", len(errs), errs)
	}
	if _, ok := r.Get("Breakaway"); !ok {
		t.Error("valid event should have loaded")
	}
	if _, ok := r.Get("Bad Color"); ok {
		t.Error("invalid color event should have been skipped")
	}
}

func TestAllSorted(t *testing.T) {
	r := New()
	all := r.All()
	if len(all) != len(DefaultEvents) {
		t.Fatalf("want %d events, got %d", len(DefaultEvents), len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Name > all[i].Name {
			t.Fatalf("All() not sorted at %d: %q > %q", i, all[i-1].Name, all[i].Name)
		}
	}
}
