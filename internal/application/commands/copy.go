package commands

import (
	"context"
	"fmt"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
)

// CopyNodesResult contains the result of copying nodes to the clipboard
type CopyNodesResult struct {
	WorkflowID string
	NodeCount  int // nested blocks included
	EdgeCount  int
	Text       string
	Message    string
}

// CopyNodesCommand writes selected nodes, and the edges between them, to the
// clipboard as a workflow document. No selection copies the whole workflow.
type CopyNodesCommand struct {
	store      ports.WorkflowStore
	clipboard  ports.Clipboard
	WorkflowID string
	NodeIDs    []string
}

// NewCopyNodesCommand creates a new CopyNodesCommand
func NewCopyNodesCommand(store ports.WorkflowStore, clipboard ports.Clipboard, workflowID string, nodeIDs []string) *CopyNodesCommand {
	return &CopyNodesCommand{
		store:      store,
		clipboard:  clipboard,
		WorkflowID: workflowID,
		NodeIDs:    nodeIDs,
	}
}

// Validate checks the copy source
func (c *CopyNodesCommand) Validate() error {
	if err := application.ValidateRequired("workflowID", c.WorkflowID); err != nil {
		return err
	}
	if len(c.NodeIDs) > 0 {
		return application.ValidateNodeIDs("nodeIDs", c.NodeIDs)
	}
	return nil
}

// Execute runs the copy command
func (c *CopyNodesCommand) Execute(ctx context.Context) (*CopyNodesResult, error) {
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

	text, err := domain.MarshalIndent(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fragment: %w", err)
	}
	if err := c.clipboard.WriteText(string(text)); err != nil {
		return nil, fmt.Errorf("failed to write clipboard: %w", err)
	}

	nodes := len(domain.CollectNodeIDs(fragment))
	return &CopyNodesResult{
		WorkflowID: w.ID,
		NodeCount:  nodes,
		EdgeCount:  domain.WorkflowEdges(fragment).Len(),
		Text:       string(text),
		Message:    fmt.Sprintf("Copied %d nodes from %s", nodes, w.Name),
	}, nil
}
