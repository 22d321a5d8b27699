package domain

import (
	"strings"
	"testing"
)

const sampleWorkflow = `{
	"nodes": [
		{"id": "start", "type": "start", "meta": {}, "data": {}},
		{"id": "loop", "type": "loop", "meta": {}, "data": {}, "blocks": [
			{"id": "body", "type": "llm", "meta": {}, "data": {}}
		]},
		{"id": "end", "type": "end", "meta": {}, "data": {}}
	],
	"edges": [
		{"sourceNodeID": "start", "targetNodeID": "loop"},
		{"sourceNodeID": "loop", "targetNodeID": "end"},
		{"sourceNodeID": "loop", "targetNodeID": "body"}
	]
}`

func TestExtractFragment(t *testing.T) {
	tests := []struct {
		name          string
		nodeIDs       []string
		expectedNodes []string
		expectedEdges int
		wantErr       bool
	}{
		{
			name:          "whole document",
			nodeIDs:       nil,
			expectedNodes: []string{"start", "loop", "body", "end"},
			expectedEdges: 3,
		},
		{
			name:          "single node keeps no dangling edges",
			nodeIDs:       []string{"start"},
			expectedNodes: []string{"start"},
			expectedEdges: 0,
		},
		{
			name:          "group keeps edge into nested block",
			nodeIDs:       []string{"loop", "end"},
			expectedNodes: []string{"loop", "body", "end"},
			expectedEdges: 2,
		},
		{
			name:    "unknown node",
			nodeIDs: []string{"missing"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, sampleWorkflow)
			fragment, err := ExtractFragment(doc, tt.nodeIDs)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			got := CollectNodeIDs(fragment)
			if strings.Join(got, ",") != strings.Join(tt.expectedNodes, ",") {
				t.Errorf("nodes = %v, expected %v", got, tt.expectedNodes)
			}
			if n := WorkflowEdges(fragment).Len(); n != tt.expectedEdges {
				t.Errorf("edges = %d, expected %d", n, tt.expectedEdges)
			}
			if Same(fragment, doc) {
				t.Error("expected fragment to be a copy")
			}
		})
	}
}

func TestMergeFragment(t *testing.T) {
	doc := mustParse(t, sampleWorkflow)
	fragment := mustParse(t, `{
		"nodes": [{"id": "extra", "type": "t", "meta": {}, "data": {}, "blocks": [{"id": "inner"}]}],
		"edges": [{"sourceNodeID": "end", "targetNodeID": "extra"}]
	}`)

	stats, err := MergeFragment(doc, fragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.NodesAdded != 1 || stats.EdgesAdded != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if strings.Join(stats.NodeIDs, ",") != "extra,inner" {
		t.Errorf("NodeIDs = %v", stats.NodeIDs)
	}
	if WorkflowNodes(doc).Len() != 4 || WorkflowEdges(doc).Len() != 4 {
		t.Errorf("merged document = %s", doc)
	}
}

func TestEnsureWorkflowShape(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "complete", doc: `{"nodes":[],"edges":[]}`},
		{name: "missing edges", doc: `{"nodes":[]}`},
		{name: "null nodes", doc: `{"nodes":null}`},
		{name: "not an object", doc: `[]`, wantErr: true},
		{name: "nodes not an array", doc: `{"nodes":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc)
			err := EnsureWorkflowShape(doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EnsureWorkflowShape() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (WorkflowNodes(doc) == nil || WorkflowEdges(doc) == nil) {
				t.Errorf("expected nodes and edges arrays, got %s", doc)
			}
		})
	}
}

func TestOutline(t *testing.T) {
	outline := Outline(mustParse(t, sampleWorkflow))
	if len(outline) != 3 {
		t.Fatalf("expected 3 top-level nodes, got %d", len(outline))
	}
	loop := outline[1]
	if loop.ID != "loop" || loop.Type != "loop" {
		t.Errorf("unexpected node %+v", loop)
	}
	if len(loop.Children) != 1 || loop.Children[0].ID != "body" {
		t.Errorf("expected body nested in loop, got %+v", loop.Children)
	}
}

func TestSummarize(t *testing.T) {
	w := &Workflow{ID: "w1", Name: "Sample", Document: mustParse(t, sampleWorkflow)}
	s := Summarize(w)
	if s.NodeCount != 4 || s.EdgeCount != 3 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestDuplicateNodeIDs(t *testing.T) {
	doc := mustParse(t, `{"nodes":[
		{"id":"a","blocks":[{"id":"b"},{"id":"a"}]},
		{"id":"b"},
		{"id":"a"},
		{"id":"c"}
	]}`)
	got := DuplicateNodeIDs(doc)
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("DuplicateNodeIDs = %v, expected [a b]", got)
	}
	if len(DuplicateNodeIDs(mustParse(t, sampleWorkflow))) != 0 {
		t.Error("expected no duplicates in sample workflow")
	}
}
