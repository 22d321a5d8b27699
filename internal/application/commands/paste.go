package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

// PasteWorkflowCommand merges a workflow document from the clipboard into a
// stored workflow, renaming every node ID already used there
type PasteWorkflowCommand struct {
	store      ports.WorkflowStore
	clipboard  ports.Clipboard
	validator  ports.DocumentValidator
	WorkflowID string

	// RewriteOptions configure ID generation; defaults apply when empty
	RewriteOptions []domain.RewriteOption
}

// NewPasteWorkflowCommand creates a new PasteWorkflowCommand
func NewPasteWorkflowCommand(store ports.WorkflowStore, clipboard ports.Clipboard, validator ports.DocumentValidator, workflowID string) *PasteWorkflowCommand {
	return &PasteWorkflowCommand{
		store:      store,
		clipboard:  clipboard,
		validator:  validator,
		WorkflowID: workflowID,
	}
}

// Validate checks the paste target
func (c *PasteWorkflowCommand) Validate() error {
	return application.ValidateRequired("workflowID", c.WorkflowID)
}

// Execute runs the paste command
func (c *PasteWorkflowCommand) Execute(ctx context.Context) (*MergeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	text, err := c.clipboard.ReadText()
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, application.ErrEmptyClipboard
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}

	doc, err := application.ParseDocument([]byte(text), c.validator)
	if err != nil {
		return nil, err
	}
	warnDuplicates(ctx, doc)

	replacements, err := rewriteForWorkflow(c.store, w.ID, doc, c.RewriteOptions)
	if err != nil {
		log.Error().Err(err).Str("workflow", w.ID).Msg("paste rewrite failed")
		return nil, err
	}

	stats, err := c.store.MergeFragment(w.ID, doc)
	if err != nil {
		if errors.Is(err, application.ErrNodeIDInUse) {
			return nil, &application.PasteError{WorkflowID: w.ID, Reason: "workflow changed during paste", Err: err}
		}
		return nil, fmt.Errorf("failed to merge into workflow: %w", err)
	}

	renamed := renamedOnly(replacements)
	log.Info().
		Str("workflow", w.ID).
		Int("nodes", stats.NodesAdded).
		Int("edges", stats.EdgesAdded).
		Int("renamed", len(renamed)).
		Msg("pasted fragment")

	return &MergeResult{
		WorkflowID: w.ID,
		NodesAdded: stats.NodesAdded,
		EdgesAdded: stats.EdgesAdded,
		NodeIDs:    stats.NodeIDs,
		Renamed:    renamed,
		Message:    fmt.Sprintf("Pasted %d nodes into %s (%d renamed)", stats.NodesAdded, w.Name, len(renamed)),
	}, nil
}
