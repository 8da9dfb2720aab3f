// Package history provides the undo/redo command stack for marker edits.
package history

import "errors"

// DefaultLimit bounds the undo stack when no explicit limit is given.
const DefaultLimit = 50

// ErrNothingToUndo and ErrNothingToRedo report empty stacks.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Command is a reversible marker edit.
type Command interface {
	Execute() error
	Undo() error
	// Name identifies the command for logging and UI labels.
	Name() string
}

// Manager owns the undo and redo stacks. A new command clears the redo
// stack; the undo stack is bounded and drops its oldest entry when full.
type Manager struct {
	undoStack []Command
	redoStack []Command
	limit     int
}

// NewManager creates a Manager with the given undo limit (DefaultLimit when
// limit <= 0).
func NewManager(limit int) *Manager {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Manager{limit: limit}
}

// Execute runs the command and records it for undo.
func (m *Manager) Execute(c Command) error {
	if err := c.Execute(); err != nil {
		return err
	}
	m.undoStack = append(m.undoStack, c)
	m.redoStack = nil
	if len(m.undoStack) > m.limit {
		m.undoStack = m.undoStack[1:]
	}
	return nil
}

// Undo reverts the most recent command.
func (m *Manager) Undo() error {
	if len(m.undoStack) == 0 {
		return ErrNothingToUndo
	}
	c := m.undoStack[len(m.undoStack)-1]
	if err := c.Undo(); err != nil {
		return err
	}
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, c)
	return nil
}

// Redo re-applies the most recently undone command.
func (m *Manager) Redo() error {
	if len(m.redoStack) == 0 {
		return ErrNothingToRedo
	}
	c := m.redoStack[len(m.redoStack)-1]
	if err := c.Execute(); err != nil {
		return err
	}
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, c)
	return nil
}

// CanUndo reports whether Undo would act.
func (m *Manager) CanUndo() bool { return len(m.undoStack) > 0 }

// CanRedo reports whether Redo would act.
func (m *Manager) CanRedo() bool { return len(m.redoStack) > 0 }

// Clear drops both stacks.
func (m *Manager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
}
