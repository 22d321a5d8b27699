package views

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"kbstudio/internal/adapters/clipboard"
	"kbstudio/internal/adapters/sqlite"
	"kbstudio/internal/domain"
)

const sampleWorkflow = `{
	"nodes": [
		{"id": "start", "type": "start", "meta": {}, "data": {}},
		{"id": "loop", "type": "loop", "meta": {}, "data": {}, "blocks": [
			{"id": "body", "type": "llm", "meta": {}, "data": {}}
		]}
	],
	"edges": [{"sourceNodeID": "start", "targetNodeID": "loop"}]
}`

func newTestBrowser(t *testing.T) (*BrowserModel, Deps, string) {
	t.Helper()
	store := sqlite.NewStore()
	if err := store.Open(filepath.Join(t.TempDir(), "workflows.db")); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	doc, err := domain.ParseJSON([]byte(sampleWorkflow))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	w, err := store.CreateWorkflow("Sample", doc)
	if err != nil {
		t.Fatalf("failed to create workflow: %v", err)
	}

	deps := Deps{Store: store, Clipboard: clipboard.NewBuffer("")}
	m := NewBrowserModel(deps)
	run(t, m, m.Init())
	return m, deps, w.ID
}

// run executes cmd and feeds the resulting messages back into m until no
// command is left
func run(t *testing.T, m tea.Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 20 {
			t.Fatal("command chain did not settle")
		}
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				run(t, m, c)
			}
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(t *testing.T, m *BrowserModel, keys string) {
	t.Helper()
	for _, r := range keys {
		var msg tea.KeyMsg
		if r == '\n' {
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		_, cmd := m.Update(msg)
		run(t, m, cmd)
	}
}

func rowIDs(m *BrowserModel) string {
	var ids []string
	for _, n := range m.flatNodes {
		ids = append(ids, n.ID)
	}
	return strings.Join(ids, ",")
}

func TestBrowser_ExpandAndNavigate(t *testing.T) {
	m, _, id := newTestBrowser(t)

	if got := rowIDs(m); got != id {
		t.Fatalf("rows = %s, expected only the workflow", got)
	}

	press(t, m, "l")
	if got := rowIDs(m); got != id+",start,loop" {
		t.Errorf("rows after expand = %s", got)
	}

	press(t, m, "jjl")
	if got := rowIDs(m); got != id+",start,loop,body" {
		t.Errorf("rows after expanding loop = %s", got)
	}

	press(t, m, "jh")
	if sel := m.SelectedNode(); sel == nil || sel.ID != "loop" {
		t.Errorf("expected h on body to move to loop, got %+v", sel)
	}
}

func TestBrowser_CopyPaste(t *testing.T) {
	m, deps, id := newTestBrowser(t)

	press(t, m, "lj") // select start
	press(t, m, "c")
	if m.MessageErr || !strings.Contains(m.Message, "Copied 1 nodes") {
		t.Fatalf("unexpected toast %q", m.Message)
	}
	text, _ := deps.Clipboard.ReadText()
	if !strings.Contains(text, `"start"`) {
		t.Errorf("clipboard = %s", text)
	}

	press(t, m, "v")
	if m.MessageErr {
		t.Fatalf("paste failed: %s", m.Message)
	}
	if !strings.HasPrefix(m.Message, "Pasted 1 nodes") {
		t.Errorf("unexpected toast %q", m.Message)
	}

	w, err := deps.Store.GetWorkflow(id)
	if err != nil {
		t.Fatalf("failed to load workflow: %v", err)
	}
	if n := domain.WorkflowNodes(w.Document).Len(); n != 3 {
		t.Errorf("expected 3 top-level nodes after paste, got %d", n)
	}
	if dups := domain.DuplicateNodeIDs(w.Document); len(dups) > 0 {
		t.Errorf("duplicate node IDs %v", dups)
	}
	if len(m.flatNodes) != 4 {
		t.Errorf("expected the reloaded workflow to stay expanded, rows = %s", rowIDs(m))
	}
}

func TestBrowser_DuplicateNestedSelectsTopLevel(t *testing.T) {
	m, deps, id := newTestBrowser(t)

	press(t, m, "ljjlj") // select body inside loop
	if sel := m.SelectedNode(); sel == nil || sel.ID != "body" {
		t.Fatalf("expected body selected, got %+v", sel)
	}
	press(t, m, "d")
	if m.MessageErr {
		t.Fatalf("duplicate failed: %s", m.Message)
	}

	w, _ := deps.Store.GetWorkflow(id)
	if n := len(domain.CollectNodeIDs(w.Document)); n != 5 {
		t.Errorf("expected loop and body to be duplicated, got %d nodes", n)
	}
}

func TestBrowser_DuplicateOnWorkflowRow(t *testing.T) {
	m, _, _ := newTestBrowser(t)
	press(t, m, "d")
	if !m.MessageErr {
		t.Errorf("expected an error toast, got %q", m.Message)
	}
}

func TestBrowser_PasteEmptyClipboard(t *testing.T) {
	m, _, _ := newTestBrowser(t)
	press(t, m, "v")
	if !m.MessageErr || !strings.Contains(m.Message, "clipboard") {
		t.Errorf("expected an empty clipboard error, got %q", m.Message)
	}
}

func TestBrowser_Focus(t *testing.T) {
	m, _, id := newTestBrowser(t)
	run(t, m, m.Focus(id, "body"))
	if sel := m.SelectedNode(); sel == nil || sel.ID != "body" {
		t.Errorf("expected body focused, got %+v", sel)
	}
}
