// Package registry manages the set of taggable event types: a built-in
// hockey event catalogue plus user-defined events, with exclusive hotkey
// assignment across the whole set.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pucktrack/recorder/internal/model"
)

var (
	// ErrDuplicateName is returned when adding an event whose name is taken.
	ErrDuplicateName = errors.New("event name already exists")
	// ErrHotkeyTaken is returned when an event claims a hotkey already bound
	// to a different event.
	ErrHotkeyTaken = errors.New("hotkey already bound to another event")
	// ErrInvalidColor is returned for a color that is not a #RRGGBB value.
	ErrInvalidColor = errors.New("invalid color")
	// ErrDefaultEvent is returned when attempting to delete a built-in event.
	ErrDefaultEvent = errors.New("built-in events cannot be deleted")
	// ErrUnknownEvent is returned when updating or deleting a missing event.
	ErrUnknownEvent = errors.New("unknown event")
)

// DefaultEvents is the built-in hockey event catalogue. These are always
// present and cannot be deleted, only re-colored or re-bound.
var DefaultEvents = []model.EventType{
	// Shooting
	{Name: "Goal", Color: "#FF0000", Hotkey: "G", Description: "Goal scored"},
	{Name: "Shot on Goal", Color: "#FF5722", Hotkey: "H", Description: "Shot on goal"},
	{Name: "Missed Shot", Color: "#FF9800", Hotkey: "M", Description: "Shot missed the net"},
	{Name: "Blocked Shot", Color: "#795548", Hotkey: "B", Description: "Shot blocked"},

	// Zone entries and exits
	{Name: "Zone Entry", Color: "#2196F3", Hotkey: "Z", Description: "Entry into offensive zone"},
	{Name: "Zone Exit", Color: "#03A9F4", Hotkey: "X", Description: "Exit from defensive zone"},
	{Name: "Dump In", Color: "#00BCD4", Hotkey: "D", Description: "Dump puck into zone"},

	// Possession
	{Name: "Turnover", Color: "#607D8B", Hotkey: "T", Description: "Loss of puck possession"},
	{Name: "Takeaway", Color: "#4CAF50", Hotkey: "A", Description: "Puck possession gained"},
	{Name: "Faceoff Win", Color: "#8BC34A", Hotkey: "F", Description: "Faceoff won"},
	{Name: "Faceoff Loss", Color: "#558B2F", Hotkey: "L", Description: "Faceoff lost"},

	// Defense
	{Name: "Defensive Block", Color: "#3F51B5", Hotkey: "K", Description: "Shot blocked in defense"},
	{Name: "Penalty", Color: "#9C27B0", Hotkey: "P", Description: "Penalty called"},
}

// Registry holds all event types for the session. Safe for concurrent use;
// settings UI edits and the recorder read path may run on different
// goroutines in embedding applications.
type Registry struct {
	mu     sync.RWMutex
	events map[string]model.EventType
}

// New creates a Registry seeded with the built-in event catalogue.
func New() *Registry {
	r := &Registry{events: make(map[string]model.EventType, len(DefaultEvents))}
	for _, e := range DefaultEvents {
		r.events[e.Name] = e
	}
	return r
}

// LoadCustom merges previously persisted custom events into the registry.
// Events that collide with an existing name overwrite it, so user re-binds
// of default events survive restarts. Invalid entries are skipped and
// reported.
func (r *Registry) LoadCustom(events []model.EventType) []error {
	var errs []error
	for _, e := range events {
		if err := validateColor(e.Color); err != nil {
			errs = append(errs, fmt.Errorf("event %q: %w", e.Name, err))
			continue
		}
		r.mu.Lock()
		if e.Hotkey != "" && !r.hotkeyAvailableLocked(e.Hotkey, e.Name) {
			r.mu.Unlock()
			errs = append(errs, fmt.Errorf("event %q: %w", e.Name, ErrHotkeyTaken))
			continue
		}
		r.events[e.Name] = e
		r.mu.Unlock()
	}
	return errs
}

// ResolveHotkey maps a pressed hotkey to the event name it is bound to.
// Matching is case-insensitive. The second return is false when no event
// claims the hotkey.
func (r *Registry) ResolveHotkey(hotkey string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.events {
		if e.Hotkey != "" && strings.EqualFold(e.Hotkey, hotkey) {
			return e.Name, true
		}
	}
	return "", false
}

// Get returns the event type with the given name.
func (r *Registry) Get(name string) (model.EventType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[name]
	return e, ok
}

// All returns every event type sorted by name.
func (r *Registry) All() []model.EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Custom returns the event types that differ from the built-in catalogue,
// sorted by name. This is the set the settings layer persists.
func (r *Registry) Custom() []model.EventType {
	defaults := make(map[string]model.EventType, len(DefaultEvents))
	for _, e := range DefaultEvents {
		defaults[e.Name] = e
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.EventType
	for _, e := range r.events {
		if d, ok := defaults[e.Name]; !ok || d != e {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Add registers a new custom event type.
func (r *Registry) Add(e model.EventType) error {
	if e.Name == "" {
		return ErrUnknownEvent
	}
	if err := validateColor(e.Color); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[e.Name]; exists {
		return ErrDuplicateName
	}
	if e.Hotkey != "" && !r.hotkeyAvailableLocked(e.Hotkey, e.Name) {
		return ErrHotkeyTaken
	}
	r.events[e.Name] = e
	return nil
}

// Update replaces the event named oldName with updated, which may rename it.
func (r *Registry) Update(oldName string, updated model.EventType) error {
	if err := validateColor(updated.Color); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[oldName]; !exists {
		return ErrUnknownEvent
	}
	if oldName != updated.Name {
		if _, exists := r.events[updated.Name]; exists {
			return ErrDuplicateName
		}
	}
	if updated.Hotkey != "" && !r.hotkeyAvailableLocked(updated.Hotkey, oldName) {
		return ErrHotkeyTaken
	}

	if oldName != updated.Name {
		delete(r.events, oldName)
	}
	r.events[updated.Name] = updated
	return nil
}

// Delete removes a custom event type. Built-in events are protected.
func (r *Registry) Delete(name string) error {
	for _, d := range DefaultEvents {
		if d.Name == name {
			return ErrDefaultEvent
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[name]; !exists {
		return ErrUnknownEvent
	}
	delete(r.events, name)
	return nil
}

// hotkeyAvailableLocked reports whether hotkey is free, ignoring the binding
// of excludeEvent (used when updating an event in place). Callers hold r.mu.
func (r *Registry) hotkeyAvailableLocked(hotkey, excludeEvent string) bool {
	for _, e := range r.events {
		if e.Name == excludeEvent {
			continue
		}
		if e.Hotkey != "" && strings.EqualFold(e.Hotkey, hotkey) {
			return false
		}
	}
	return true
}

func validateColor(color string) error {
	if len(color) != 7 || color[0] != '#' {
		return fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	for _, c := range color[1:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidColor, color)
		}
	}
	return nil
}
