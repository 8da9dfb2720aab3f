package history

import (
	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/internal/project"
)

// AddMarkerCommand appends a marker to a project and can take it back out.
type AddMarkerCommand struct {
	Project *project.Project
	Marker  model.Marker

	stored model.Marker
}

// NewAddMarker creates the command.
func NewAddMarker(p *project.Project, m model.Marker) *AddMarkerCommand {
	return &AddMarkerCommand{Project: p, Marker: m}
}

func (c *AddMarkerCommand) Execute() error {
	// Re-executing (redo) reuses the ID assigned the first time so undo
	// history stays consistent.
	if c.stored.ID != 0 {
		c.Project.AddMarker(c.stored)
		return nil
	}
	c.stored = c.Project.AddMarker(c.Marker)
	return nil
}

func (c *AddMarkerCommand) Undo() error {
	_, err := c.Project.RemoveMarker(c.stored.ID)
	return err
}

func (c *AddMarkerCommand) Name() string { return "add marker" }

// StoredMarker returns the marker as stored in the project, including its
// assigned ID. Valid after Execute.
func (c *AddMarkerCommand) StoredMarker() model.Marker { return c.stored }

// RemoveMarkerCommand deletes a marker by ID and can restore it.
type RemoveMarkerCommand struct {
	Project *project.Project
	ID      uint

	removed model.Marker
}

// NewRemoveMarker creates the command.
func NewRemoveMarker(p *project.Project, id uint) *RemoveMarkerCommand {
	return &RemoveMarkerCommand{Project: p, ID: id}
}

func (c *RemoveMarkerCommand) Execute() error {
	m, err := c.Project.RemoveMarker(c.ID)
	if err != nil {
		return err
	}
	c.removed = m
	return nil
}

func (c *RemoveMarkerCommand) Undo() error {
	c.Project.AddMarker(c.removed)
	return nil
}

func (c *RemoveMarkerCommand) Name() string { return "remove marker" }

// UpdateMarkerCommand replaces a marker and can restore the previous value.
type UpdateMarkerCommand struct {
	Project *project.Project
	Updated model.Marker

	previous model.Marker
}

// NewUpdateMarker creates the command.
func NewUpdateMarker(p *project.Project, updated model.Marker) *UpdateMarkerCommand {
	return &UpdateMarkerCommand{Project: p, Updated: updated}
}

func (c *UpdateMarkerCommand) Execute() error {
	prev, err := c.Project.UpdateMarker(c.Updated)
	if err != nil {
		return err
	}
	c.previous = prev
	return nil
}

func (c *UpdateMarkerCommand) Undo() error {
	_, err := c.Project.UpdateMarker(c.previous)
	return err
}

func (c *UpdateMarkerCommand) Name() string { return "update marker" }

var (
	_ Command = (*AddMarkerCommand)(nil)
	_ Command = (*RemoveMarkerCommand)(nil)
	_ Command = (*UpdateMarkerCommand)(nil)
)
