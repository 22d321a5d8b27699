package commands

import (
	"context"
	"fmt"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

// DuplicateNodesCommand copies nodes of a workflow back into the same
// workflow under fresh IDs, keeping the edges between them
type DuplicateNodesCommand struct {
	store      ports.WorkflowStore
	WorkflowID string
	NodeIDs    []string

	RewriteOptions []domain.RewriteOption
}

// NewDuplicateNodesCommand creates a new DuplicateNodesCommand
func NewDuplicateNodesCommand(store ports.WorkflowStore, workflowID string, nodeIDs []string) *DuplicateNodesCommand {
	return &DuplicateNodesCommand{
		store:      store,
		WorkflowID: workflowID,
		NodeIDs:    nodeIDs,
	}
}

// Validate checks the workflow and node selection
func (c *DuplicateNodesCommand) Validate() error {
	if err := application.ValidateRequired("workflowID", c.WorkflowID); err != nil {
		return err
	}
	return application.ValidateNodeIDs("nodeIDs", c.NodeIDs)
}

// Execute runs the duplicate command
func (c *DuplicateNodesCommand) Execute(ctx context.Context) (*MergeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}

	fragment, err := domain.ExtractFragment(w.Document, c.NodeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to select nodes: %w", err)
	}

	replacements, err := rewriteForWorkflow(c.store, w.ID, fragment, c.RewriteOptions)
	if err != nil {
		return nil, err
	}

	stats, err := c.store.MergeFragment(w.ID, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to merge duplicates: %w", err)
	}

	logging.FromContext(ctx).Info().
		Str("workflow", w.ID).
		Int("nodes", stats.NodesAdded).
		Msg("duplicated nodes")

	return &MergeResult{
		WorkflowID: w.ID,
		NodesAdded: stats.NodesAdded,
		EdgesAdded: stats.EdgesAdded,
		NodeIDs:    stats.NodeIDs,
		Renamed:    renamedOnly(replacements),
		Message:    fmt.Sprintf("Duplicated %d nodes in %s", stats.NodesAdded, w.Name),
	}, nil
}
