package commands

import (
	"context"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
	"kbstudio/internal/logging"
	"kbstudio/internal/ports"
)

// storeUniqueness answers isUnique from a workflow's node index. The first
// lookup failure is kept and every later ID is reported as taken.
type storeUniqueness struct {
	store      ports.WorkflowStore
	workflowID string
	err        error
}

func (u *storeUniqueness) IsUnique(id string) bool {
	if u.err != nil {
		return false
	}
	exists, err := u.store.NodeExists(u.workflowID, id)
	if err != nil {
		u.err = err
		return false
	}
	return !exists
}

// rewriteForWorkflow gives doc node IDs that are free in the target workflow
func rewriteForWorkflow(store ports.WorkflowStore, workflowID string, doc domain.Value, opts []domain.RewriteOption) (map[string]string, error) {
	uniq := &storeUniqueness{store: store, workflowID: workflowID}
	_, replacements, err := domain.GenerateUniqueWorkflow(doc, uniq.IsUnique, opts...)
	if uniq.err != nil {
		return nil, &application.PasteError{WorkflowID: workflowID, Reason: "node lookup failed", Err: uniq.err}
	}
	if err != nil {
		return nil, &application.PasteError{WorkflowID: workflowID, Reason: "no free node IDs", Err: err}
	}
	return replacements, nil
}

// renamedOnly drops identity entries from a replacement map
func renamedOnly(replacements map[string]string) map[string]string {
	renamed := make(map[string]string)
	for old, next := range replacements {
		if old != next {
			renamed[old] = next
		}
	}
	return renamed
}

// warnDuplicates logs node IDs that occur more than once in doc
func warnDuplicates(ctx context.Context, doc domain.Value) {
	if dups := domain.DuplicateNodeIDs(doc); len(dups) > 0 {
		logging.FromContext(ctx).Warn().Strs("ids", dups).Msg("document repeats node IDs")
	}
}

// MergeResult contains the result of merging a fragment into a workflow
type MergeResult struct {
	WorkflowID string
	NodesAdded int
	EdgesAdded int
	NodeIDs    []string          // every merged node ID, nested blocks included
	Renamed    map[string]string // old -> new, only IDs that changed
	Message    string
}
