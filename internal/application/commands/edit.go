package commands

import (
	"context"
	"fmt"
	"os"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
)

// EditWorkflowResult contains the result of editing a workflow by hand
type EditWorkflowResult struct {
	Workflow *domain.Workflow
	Changed  bool
	Message  string
}

// EditWorkflowCommand round-trips a workflow document through an external
// editor. Prepare and Apply can be driven separately when the caller runs the
// editor itself.
type EditWorkflowCommand struct {
	store      ports.WorkflowStore
	editor     ports.EditorOpener
	validator  ports.DocumentValidator
	WorkflowID string
	TempDir    string // os.TempDir() when empty

	original *domain.Workflow
}

// NewEditWorkflowCommand creates a new EditWorkflowCommand
func NewEditWorkflowCommand(store ports.WorkflowStore, editor ports.EditorOpener, validator ports.DocumentValidator, workflowID string) *EditWorkflowCommand {
	return &EditWorkflowCommand{
		store:      store,
		editor:     editor,
		validator:  validator,
		WorkflowID: workflowID,
	}
}

// Validate checks the workflow ID
func (c *EditWorkflowCommand) Validate() error {
	return application.ValidateRequired("workflowID", c.WorkflowID)
}

// Prepare writes the workflow document to a temporary file and returns its path
func (c *EditWorkflowCommand) Prepare() (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return "", fmt.Errorf("failed to load workflow: %w", err)
	}
	out, err := domain.MarshalIndent(w.Document)
	if err != nil {
		return "", fmt.Errorf("failed to encode workflow: %w", err)
	}

	f, err := os.CreateTemp(c.TempDir, "kbstudio-*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(out, '\n')); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	c.original = w
	return f.Name(), nil
}

// Apply stores the edited file and removes it
func (c *EditWorkflowCommand) Apply(ctx context.Context, path string) (*EditWorkflowResult, error) {
	if c.original == nil {
		return nil, fmt.Errorf("edit was not prepared: %w", application.ErrInvalidOperation)
	}
	defer os.Remove(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	doc, err := application.ParseDocument(raw, c.validator)
	if err != nil {
		return nil, err
	}

	if doc.Equal(c.original.Document) {
		return &EditWorkflowResult{
			Workflow: c.original,
			Message:  fmt.Sprintf("No changes to %s", c.original.Name),
		}, nil
	}
	warnDuplicates(ctx, doc)

	w, err := c.store.UpdateDocument(c.original.ID, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}
	return &EditWorkflowResult{
		Workflow: w,
		Changed:  true,
		Message:  fmt.Sprintf("Saved %s", w.Name),
	}, nil
}

// Execute prepares the file, waits for the editor and applies the result
func (c *EditWorkflowCommand) Execute(ctx context.Context) (*EditWorkflowResult, error) {
	path, err := c.Prepare()
	if err != nil {
		return nil, err
	}
	if err := c.editor.OpenFile(path); err != nil {
		os.Remove(path)
		return nil, err
	}
	return c.Apply(ctx, path)
}
