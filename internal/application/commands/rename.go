package commands

import (
	"context"
	"fmt"
	"strings"

	"kbstudio/internal/application"
	"kbstudio/internal/ports"
)

// RenameWorkflowResult contains the result of a rename operation
type RenameWorkflowResult struct {
	WorkflowID string
	OldName    string
	NewName    string
	Message    string
}

// RenameWorkflowCommand changes the display name of a workflow
type RenameWorkflowCommand struct {
	store      ports.WorkflowStore
	WorkflowID string
	NewName    string
}

// NewRenameWorkflowCommand creates a new RenameWorkflowCommand
func NewRenameWorkflowCommand(store ports.WorkflowStore, workflowID, newName string) *RenameWorkflowCommand {
	return &RenameWorkflowCommand{
		store:      store,
		WorkflowID: workflowID,
		NewName:    newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameWorkflowCommand) Validate() error {
	if err := application.ValidateRequired("workflowID", c.WorkflowID); err != nil {
		return err
	}
	return application.ValidateRequired("name", c.NewName)
}

// Execute runs the rename command
func (c *RenameWorkflowCommand) Execute(ctx context.Context) (*RenameWorkflowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}

	newName := strings.TrimSpace(c.NewName)
	if err := c.store.RenameWorkflow(w.ID, newName); err != nil {
		return nil, fmt.Errorf("failed to rename: %w", err)
	}

	return &RenameWorkflowResult{
		WorkflowID: w.ID,
		OldName:    w.Name,
		NewName:    newName,
		Message:    fmt.Sprintf("Renamed %s to %s", w.Name, newName),
	}, nil
}
