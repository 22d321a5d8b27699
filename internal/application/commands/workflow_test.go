package commands

import (
	"context"
	"errors"
	"testing"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
)

func TestImportWorkflowCommand(t *testing.T) {
	tests := []struct {
		name   string
		wfName string
		raw    string
		errMsg string
	}{
		{name: "valid", wfName: "Sample", raw: sampleWorkflow},
		{name: "missing edges filled", wfName: "Bare", raw: `{"nodes":[]}`},
		{name: "missing name", raw: sampleWorkflow, errMsg: "name is required"},
		{name: "empty document", wfName: "x", raw: "  ", errMsg: "document is empty"},
		{name: "array document", wfName: "x", raw: `[]`, errMsg: "must be an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			result, err := NewImportWorkflowCommand(store, nil, tt.wfName, []byte(tt.raw)).Execute(context.Background())
			if tt.errMsg != "" {
				if err == nil || !contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			stored, err := store.GetWorkflow(result.Workflow.ID)
			if err != nil {
				t.Fatalf("imported workflow not stored: %v", err)
			}
			if domain.WorkflowEdges(stored.Document) == nil {
				t.Error("expected edges array")
			}
		})
	}
}

func TestListExportDelete(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	a, _ := store.CreateWorkflow("A", mustParse(t, sampleWorkflow))
	store.CreateWorkflow("B", domain.NewWorkflowDocument())

	list, err := NewListWorkflowsCommand(store).Execute(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].NodeCount != 3 {
		t.Errorf("unexpected listing %+v", list)
	}

	exported, err := NewExportWorkflowCommand(store, a.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	roundTrip, err := domain.ParseJSON(exported.JSON)
	if err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if !roundTrip.Equal(mustParse(t, sampleWorkflow)) {
		t.Errorf("exported document = %s", exported.JSON)
	}

	deleted, err := NewDeleteWorkflowCommand(store, a.ID).Execute(ctx)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted.Message != "Deleted A" {
		t.Errorf("Message = %q", deleted.Message)
	}
	if _, err := NewExportWorkflowCommand(store, a.ID).Execute(ctx); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRenameWorkflowCommand(t *testing.T) {
	store := newMemStore()
	w, _ := store.CreateWorkflow("Old", domain.NewWorkflowDocument())

	result, err := NewRenameWorkflowCommand(store, w.ID, "  New  ").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Message != "Renamed Old to New" {
		t.Errorf("Message = %q", result.Message)
	}
	if got, _ := store.GetWorkflow(w.ID); got.Name != "New" {
		t.Errorf("Name = %q, expected New", got.Name)
	}

	if err := NewRenameWorkflowCommand(store, w.ID, " ").Validate(); err == nil {
		t.Error("expected error for blank name")
	}
}

func TestSearchNodesCommand(t *testing.T) {
	store := newMemStore()
	store.CreateWorkflow("Sample", mustParse(t, sampleWorkflow))

	matches, err := NewSearchNodesCommand(store, "llm").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %+v", matches)
	}
	m := matches[0]
	if m.NodeID != "body" || m.NodeType != "llm" || m.Path != "nodes[1].blocks[0]" {
		t.Errorf("unexpected match %+v", m)
	}

	if matches, _ := NewSearchNodesCommand(store, "s").Execute(context.Background()); matches != nil {
		t.Error("expected short queries to return nothing")
	}
}

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		target string
		query  string
		check  func(int) bool
	}{
		{"loop", "loop", func(s int) bool { return s == 150 }},
		{"my_loop", "loop", func(s int) bool { return s == 100 }},
		{"llm_call", "lc", func(s int) bool { return s > 0 && s < 100 }},
		{"start", "xyz", func(s int) bool { return s == 0 }},
		{"", "a", func(s int) bool { return s == 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.target+"/"+tt.query, func(t *testing.T) {
			if got := FuzzyScore(tt.target, tt.query); !tt.check(got) {
				t.Errorf("FuzzyScore(%q, %q) = %d", tt.target, tt.query, got)
			}
		})
	}
}
