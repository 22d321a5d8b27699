package commands

import (
	"context"
	"fmt"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

// ListWorkflowsCommand lists all stored workflows
type ListWorkflowsCommand struct {
	store ports.WorkflowStore
}

// NewListWorkflowsCommand creates a new ListWorkflowsCommand
func NewListWorkflowsCommand(store ports.WorkflowStore) *ListWorkflowsCommand {
	return &ListWorkflowsCommand{store: store}
}

// Execute runs the list command
func (c *ListWorkflowsCommand) Execute(ctx context.Context) ([]domain.WorkflowSummary, error) {
	return c.store.ListWorkflows()
}

// ImportWorkflowResult contains the result of importing a workflow
type ImportWorkflowResult struct {
	Workflow *domain.Workflow
	Message  string
}

// ImportWorkflowCommand stores a workflow document under a new workflow
type ImportWorkflowCommand struct {
	store     ports.WorkflowStore
	validator ports.DocumentValidator
	Name      string
	Raw       []byte
}

// NewImportWorkflowCommand creates a new ImportWorkflowCommand
func NewImportWorkflowCommand(store ports.WorkflowStore, validator ports.DocumentValidator, name string, raw []byte) *ImportWorkflowCommand {
	return &ImportWorkflowCommand{
		store:     store,
		validator: validator,
		Name:      name,
		Raw:       raw,
	}
}

// Validate checks the workflow name
func (c *ImportWorkflowCommand) Validate() error {
	return application.ValidateRequired("name", c.Name)
}

// Execute runs the import command
func (c *ImportWorkflowCommand) Execute(ctx context.Context) (*ImportWorkflowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc, err := application.ParseDocument(c.Raw, c.validator)
	if err != nil {
		return nil, err
	}
	warnDuplicates(ctx, doc)

	w, err := c.store.CreateWorkflow(c.Name, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	summary := domain.Summarize(w)
	logging.FromContext(ctx).Info().Str("workflow", w.ID).Int("nodes", summary.NodeCount).Msg("imported workflow")

	return &ImportWorkflowResult{
		Workflow: w,
		Message:  fmt.Sprintf("Imported %s (%d nodes) as %s", w.Name, summary.NodeCount, w.ID),
	}, nil
}

// ExportWorkflowResult contains an exported workflow
type ExportWorkflowResult struct {
	Workflow *domain.Workflow
	JSON     []byte
}

// ExportWorkflowCommand renders a stored workflow as indented JSON
type ExportWorkflowCommand struct {
	store      ports.WorkflowStore
	WorkflowID string
}

// NewExportWorkflowCommand creates a new ExportWorkflowCommand
func NewExportWorkflowCommand(store ports.WorkflowStore, workflowID string) *ExportWorkflowCommand {
	return &ExportWorkflowCommand{store: store, WorkflowID: workflowID}
}

// Execute runs the export command
func (c *ExportWorkflowCommand) Execute(ctx context.Context) (*ExportWorkflowResult, error) {
	if err := application.ValidateRequired("workflowID", c.WorkflowID); err != nil {
		return nil, err
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	out, err := domain.MarshalIndent(w.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workflow: %w", err)
	}
	return &ExportWorkflowResult{Workflow: w, JSON: out}, nil
}

// DeleteWorkflowResult contains the result of deleting a workflow
type DeleteWorkflowResult struct {
	WorkflowID string
	Message    string
}

// DeleteWorkflowCommand removes a workflow from the store
type DeleteWorkflowCommand struct {
	store      ports.WorkflowStore
	WorkflowID string
}

// NewDeleteWorkflowCommand creates a new DeleteWorkflowCommand
func NewDeleteWorkflowCommand(store ports.WorkflowStore, workflowID string) *DeleteWorkflowCommand {
	return &DeleteWorkflowCommand{store: store, WorkflowID: workflowID}
}

// Validate checks the workflow ID
func (c *DeleteWorkflowCommand) Validate() error {
	return application.ValidateRequired("workflowID", c.WorkflowID)
}

// Execute runs the delete command
func (c *DeleteWorkflowCommand) Execute(ctx context.Context) (*DeleteWorkflowResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	if err := c.store.DeleteWorkflow(w.ID); err != nil {
		return nil, fmt.Errorf("failed to delete workflow: %w", err)
	}

	logging.FromContext(ctx).Info().Str("workflow", w.ID).Msg("deleted workflow")

	return &DeleteWorkflowResult{
		WorkflowID: w.ID,
		Message:    fmt.Sprintf("Deleted %s", w.Name),
	}, nil
}
