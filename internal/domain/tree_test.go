package domain

import (
	"strings"
	"testing"
)

func sampleTree(t *testing.T) *TreeNode {
	t.Helper()
	root := NewWorkflowTree([]WorkflowSummary{
		{ID: "w1", Name: "First"},
		{ID: "w2", Name: "Second"},
	})
	root.Children[0].SetOutline(Outline(mustParse(t, sampleWorkflow)))
	return root
}

func visibleIDs(root *TreeNode) string {
	var ids []string
	for _, n := range root.Flatten()[1:] {
		ids = append(ids, n.ID)
	}
	return strings.Join(ids, ",")
}

func TestTreeNode_Flatten(t *testing.T) {
	root := sampleTree(t)
	if got := visibleIDs(root); got != "w1,w2" {
		t.Errorf("collapsed tree = %s, expected w1,w2", got)
	}

	w1 := root.Children[0]
	w1.Expand()
	if got := visibleIDs(root); got != "w1,start,loop,end,w2" {
		t.Errorf("expanded tree = %s", got)
	}

	loop := w1.Children[1]
	loop.Toggle()
	if got := visibleIDs(root); got != "w1,start,loop,body,end,w2" {
		t.Errorf("expanded loop = %s", got)
	}
	if depth := loop.Children[0].Depth(); depth != 3 {
		t.Errorf("body depth = %d, expected 3", depth)
	}
}

func TestTreeNode_HasChildren(t *testing.T) {
	root := sampleTree(t)
	tests := []struct {
		name     string
		node     *TreeNode
		expected bool
	}{
		{name: "unloaded workflow", node: root.Children[1], expected: true},
		{name: "loaded workflow", node: root.Children[0], expected: true},
		{name: "leaf node", node: root.Children[0].Children[0], expected: false},
		{name: "node with blocks", node: root.Children[0].Children[1], expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.HasChildren(); got != tt.expected {
				t.Errorf("HasChildren() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTreeNode_TopLevelAndFind(t *testing.T) {
	root := sampleTree(t)

	body := root.Find("w1", "body")
	if body == nil {
		t.Fatal("expected to find body")
	}
	if top := body.TopLevel(); top == nil || top.ID != "loop" {
		t.Errorf("TopLevel() = %+v, expected loop", top)
	}
	if root.Children[0].TopLevel() != nil {
		t.Error("expected no top-level node for a workflow row")
	}
	if root.Find("w2", "body") != nil {
		t.Error("expected body not to be found in w2")
	}

	body.Reveal()
	if got := visibleIDs(root); got != "w1,start,loop,body,end,w2" {
		t.Errorf("revealed tree = %s", got)
	}
}
