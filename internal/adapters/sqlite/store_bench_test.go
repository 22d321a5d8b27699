package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"

	"kbstudio/internal/domain"
)

// BenchmarkNodeExists measures the lookup behind paste uniqueness checks
func BenchmarkNodeExists(b *testing.B) {
	s := NewStore()
	if err := s.Open(filepath.Join(b.TempDir(), "bench.db")); err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			b.Fatalf("failed to close store: %v", err)
		}
	}()

	doc := domain.NewWorkflowDocument()
	nodes := domain.WorkflowNodes(doc)
	for i := 0; i < 1000; i++ {
		node := domain.NewObject()
		node.Set(domain.KeyID, domain.String(fmt.Sprintf("%06d", i)))
		nodes.Append(domain.ObjectValue(node))
	}
	w, err := s.CreateWorkflow("bench", doc)
	if err != nil {
		b.Fatalf("failed to create workflow: %v", err)
	}

	b.ResetTimer()
	i := 0
	for b.Loop() {
		if _, err := s.NodeExists(w.ID, fmt.Sprintf("%06d", i%2000)); err != nil {
			b.Fatalf("NodeExists failed: %v", err)
		}
		i++
	}
}
