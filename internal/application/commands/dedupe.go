package commands

import (
	"context"
	"fmt"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
	"kbstudio/internal/textdiff"
)

// DedupeResult contains a document rewritten against a workflow
type DedupeResult struct {
	WorkflowID   string
	Document     domain.Value
	JSON         []byte
	Replacements map[string]string // every collected ID, identity entries included
	Renamed      map[string]string
	Diff         string // set when WithDiff is true
	Message      string
}

// DedupeCommand rewrites a document so that its node IDs are free in a
// workflow, without merging it
type DedupeCommand struct {
	store      ports.WorkflowStore
	validator  ports.DocumentValidator
	WorkflowID string
	Raw        []byte
	WithDiff   bool

	RewriteOptions []domain.RewriteOption
}

// NewDedupeCommand creates a new DedupeCommand
func NewDedupeCommand(store ports.WorkflowStore, validator ports.DocumentValidator, workflowID string, raw []byte) *DedupeCommand {
	return &DedupeCommand{
		store:      store,
		validator:  validator,
		WorkflowID: workflowID,
		Raw:        raw,
	}
}

// Validate checks the target workflow ID
func (c *DedupeCommand) Validate() error {
	return application.ValidateRequired("workflowID", c.WorkflowID)
}

// Execute runs the dedupe command
func (c *DedupeCommand) Execute(ctx context.Context) (*DedupeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	w, err := c.store.GetWorkflow(c.WorkflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}

	doc, err := application.ParseDocument(c.Raw, c.validator)
	if err != nil {
		return nil, err
	}
	warnDuplicates(ctx, doc)

	var before []byte
	if c.WithDiff {
		if before, err = domain.MarshalIndent(doc); err != nil {
			return nil, fmt.Errorf("failed to encode document: %w", err)
		}
	}

	replacements, err := rewriteForWorkflow(c.store, w.ID, doc, c.RewriteOptions)
	if err != nil {
		return nil, err
	}

	after, err := domain.MarshalIndent(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	renamed := renamedOnly(replacements)
	result := &DedupeResult{
		WorkflowID:   w.ID,
		Document:     doc,
		JSON:         after,
		Replacements: replacements,
		Renamed:      renamed,
		Message:      fmt.Sprintf("%d of %d node IDs renamed for %s", len(renamed), len(replacements), w.Name),
	}
	if c.WithDiff {
		result.Diff = textdiff.Unified(string(before), string(after))
	}
	return result, nil
}
