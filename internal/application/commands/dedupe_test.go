package commands

import (
	"context"
	"strings"
	"testing"

	"kbstudio/internal/domain"
	"kbstudio/internal/textdiff"
)

func TestDedupeCommand_Execute(t *testing.T) {
	store := newMemStore()
	w, _ := store.CreateWorkflow("Sample", mustParse(t, sampleWorkflow))
	before, _ := store.GetWorkflow(w.ID)

	cmd := NewDedupeCommand(store, nil, w.ID, []byte(pastedFragment))
	cmd.WithDiff = true
	cmd.RewriteOptions = []domain.RewriteOption{
		domain.WithGenerator(&scriptedGenerator{ids: []string{"424242"}}),
	}

	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Renamed["start"] != "424242" || len(result.Renamed) != 1 {
		t.Errorf("unexpected renames %v", result.Renamed)
	}
	if len(result.Replacements) != 2 || result.Replacements["fresh"] != "fresh" {
		t.Errorf("unexpected replacements %v", result.Replacements)
	}
	if !strings.Contains(string(result.JSON), `"424242"`) || strings.Contains(string(result.JSON), `"id": "start"`) {
		t.Errorf("rewritten JSON = %s", result.JSON)
	}
	if !strings.Contains(result.Diff, `- `) || !strings.Contains(result.Diff, `+ `) {
		t.Errorf("expected removed and added lines in diff, got %q", result.Diff)
	}
	if result.Message != "1 of 2 node IDs renamed for Sample" {
		t.Errorf("Message = %q", result.Message)
	}

	after, _ := store.GetWorkflow(w.ID)
	if !after.Document.Equal(before.Document) {
		t.Error("dedupe must not modify the stored workflow")
	}
}

func TestDedupeCommand_NoDiffByDefault(t *testing.T) {
	store := newMemStore()
	w, _ := store.CreateWorkflow("Empty", domain.NewWorkflowDocument())

	result, err := NewDedupeCommand(store, nil, w.ID, []byte(pastedFragment)).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Diff != "" {
		t.Errorf("expected no diff, got %q", result.Diff)
	}
	if len(result.Renamed) != 0 {
		t.Errorf("expected no renames, got %v", result.Renamed)
	}
}

func TestDedupeCommand_DiffLinesMatchDocument(t *testing.T) {
	store := newMemStore()
	w, _ := store.CreateWorkflow("Sample", mustParse(t, sampleWorkflow))

	before, err := domain.MarshalIndent(mustParse(t, pastedFragment))
	if err != nil {
		t.Fatalf("MarshalIndent failed: %v", err)
	}
	if n := strings.Count(string(before), "\n"); n < 15 {
		t.Fatalf("expected a document of 15+ lines, got %d", n+1)
	}

	cmd := NewDedupeCommand(store, nil, w.ID, []byte(pastedFragment))
	cmd.WithDiff = true
	cmd.RewriteOptions = []domain.RewriteOption{
		domain.WithGenerator(&scriptedGenerator{ids: []string{"424242"}}),
	}
	result, err := cmd.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	oldLines := strings.Split(string(before), "\n")
	newLines := strings.Split(string(result.JSON), "\n")
	lines := textdiff.Lines(string(before), string(result.JSON))
	for _, l := range lines {
		switch l.Op {
		case textdiff.OpDelete:
			if oldLines[l.OldLine-1] != l.Text || !strings.Contains(l.Text, `"start"`) {
				t.Errorf("deleted line %d = %q, document has %q", l.OldLine, l.Text, oldLines[l.OldLine-1])
			}
		case textdiff.OpInsert:
			if newLines[l.NewLine-1] != l.Text || !strings.Contains(l.Text, `"424242"`) {
				t.Errorf("inserted line %d = %q, document has %q", l.NewLine, l.Text, newLines[l.NewLine-1])
			}
		}
	}
	if inserted, deleted := textdiff.Changes(lines); inserted != 3 || deleted != 3 {
		t.Errorf("Changes() = +%d -%d, expected +3 -3", inserted, deleted)
	}

	for _, want := range []string{
		"@@ -1 +1 @@\n",
		"-       \"id\": \"start\",\n",
		"+       \"id\": \"424242\",\n",
		"+       \"sourceNodeID\": \"424242\",\n",
	} {
		if !strings.Contains(result.Diff, want) {
			t.Errorf("expected diff to contain %q, got:\n%s", want, result.Diff)
		}
	}
}
