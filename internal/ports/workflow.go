package ports

import "kbstudio/internal/domain"

// WorkflowStore holds the live workflow model. Node IDs are indexed per
// workflow so that NodeExists stays cheap during paste.
type WorkflowStore interface {
	// Queries
	ListWorkflows() ([]domain.WorkflowSummary, error)
	GetWorkflow(id string) (*domain.Workflow, error)
	NodeExists(workflowID, nodeID string) (bool, error)

	// Mutations
	CreateWorkflow(name string, doc domain.Value) (*domain.Workflow, error)
	UpdateDocument(id string, doc domain.Value) (*domain.Workflow, error)
	RenameWorkflow(id, name string) error
	DeleteWorkflow(id string) error

	// MergeFragment appends fragment nodes and edges to a workflow atomically.
	// It fails without changes if any fragment node ID is already in use.
	MergeFragment(workflowID string, fragment domain.Value) (*domain.MergeStats, error)
}
