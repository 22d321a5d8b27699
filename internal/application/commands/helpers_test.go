package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"kbstudio/internal/adapters/sqlite"
	"kbstudio/internal/domain"
)

const sampleWorkflow = `{
	"nodes": [
		{"id": "start", "type": "start", "meta": {}, "data": {}},
		{"id": "loop", "type": "loop", "meta": {}, "data": {}, "blocks": [
			{"id": "body", "type": "llm", "meta": {}, "data": {
				"inputs": {"q": {"source": "block-output", "blockID": "start", "name": "query"}}
			}}
		]}
	],
	"edges": [
		{"sourceNodeID": "start", "targetNodeID": "loop"},
		{"sourceNodeID": "loop", "targetNodeID": "body"}
	]
}`

// memStore is an in-memory WorkflowStore
type memStore struct {
	workflows     map[string]*domain.Workflow
	nextID        int
	nodeExistsErr error
}

func newMemStore() *memStore {
	return &memStore{workflows: make(map[string]*domain.Workflow)}
}

func (m *memStore) ListWorkflows() ([]domain.WorkflowSummary, error) {
	var out []domain.WorkflowSummary
	for i := 1; i <= m.nextID; i++ {
		if w, ok := m.workflows[fmt.Sprintf("w%d", i)]; ok {
			out = append(out, domain.Summarize(w))
		}
	}
	return out, nil
}

func (m *memStore) GetWorkflow(id string) (*domain.Workflow, error) {
	w, ok := m.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	copied := *w
	copied.Document = w.Document.Clone()
	return &copied, nil
}

func (m *memStore) NodeExists(workflowID, nodeID string) (bool, error) {
	if m.nodeExistsErr != nil {
		return false, m.nodeExistsErr
	}
	w, ok := m.workflows[workflowID]
	if !ok {
		return false, nil
	}
	for _, id := range domain.CollectNodeIDs(w.Document) {
		if id == nodeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CreateWorkflow(name string, doc domain.Value) (*domain.Workflow, error) {
	m.nextID++
	w := &domain.Workflow{ID: fmt.Sprintf("w%d", m.nextID), Name: name, Document: doc.Clone()}
	m.workflows[w.ID] = w
	return w, nil
}

func (m *memStore) UpdateDocument(id string, doc domain.Value) (*domain.Workflow, error) {
	w, ok := m.workflows[id]
	if !ok {
		return nil, fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	w.Document = doc.Clone()
	return w, nil
}

func (m *memStore) RenameWorkflow(id, name string) error {
	w, ok := m.workflows[id]
	if !ok {
		return fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	w.Name = name
	return nil
}

func (m *memStore) DeleteWorkflow(id string) error {
	if _, ok := m.workflows[id]; !ok {
		return fmt.Errorf("workflow %s: %w", id, domain.ErrNotFound)
	}
	delete(m.workflows, id)
	return nil
}

func (m *memStore) MergeFragment(workflowID string, fragment domain.Value) (*domain.MergeStats, error) {
	w, ok := m.workflows[workflowID]
	if !ok {
		return nil, fmt.Errorf("workflow %s: %w", workflowID, domain.ErrNotFound)
	}
	for _, id := range domain.CollectNodeIDs(fragment) {
		if exists, _ := m.NodeExists(workflowID, id); exists {
			return nil, fmt.Errorf("node %s: %w", id, domain.ErrNodeIDInUse)
		}
	}
	stats, err := domain.MergeFragment(w.Document, fragment.Clone())
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// scriptedGenerator hands out ids in order, repeating the last one
type scriptedGenerator struct {
	ids []string
	pos int
}

func (g *scriptedGenerator) NewID() string {
	id := g.ids[g.pos]
	if g.pos < len(g.ids)-1 {
		g.pos++
	}
	return id
}

func mustParse(t *testing.T, s string) domain.Value {
	t.Helper()
	v, err := domain.ParseJSON([]byte(s))
	if err != nil {
		t.Fatalf("failed to parse %s: %v", s, err)
	}
	return v
}

func openSQLite(t *testing.T) *sqlite.Store {
	t.Helper()
	s := sqlite.NewStore()
	if err := s.Open(filepath.Join(t.TempDir(), "workflows.db")); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// assertUniqueIDs fails when doc repeats a node ID
func assertUniqueIDs(t *testing.T, doc domain.Value) {
	t.Helper()
	if dups := domain.DuplicateNodeIDs(doc); len(dups) > 0 {
		t.Errorf("duplicate node IDs %v in %s", dups, doc)
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
