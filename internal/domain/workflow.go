package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a workflow or node does not exist
	ErrNotFound = errors.New("not found")
	// ErrNodeIDInUse is returned when a merge would duplicate a node ID
	ErrNodeIDInUse = errors.New("node ID already in use")
)

// Workflow is a stored workflow document
type Workflow struct {
	ID        string
	Name      string
	Document  Value
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkflowSummary is the listing view of a workflow
type WorkflowSummary struct {
	ID        string
	Name      string
	NodeCount int // includes nested blocks
	EdgeCount int
	UpdatedAt time.Time
}

// MergeStats counts what a merge appended to a workflow
type MergeStats struct {
	NodesAdded int // top-level nodes
	EdgesAdded int
	NodeIDs    []string // every merged node ID, nested blocks included
}

// NodeOutline is the id/type skeleton of a workflow node
type NodeOutline struct {
	ID       string
	Type     string
	Children []*NodeOutline
}

// NewWorkflowDocument returns {"nodes": [], "edges": []}
func NewWorkflowDocument() Value {
	o := NewObject()
	o.Set(KeyNodes, ArrayValue(NewArray()))
	o.Set(KeyEdges, ArrayValue(NewArray()))
	return ObjectValue(o)
}

// EnsureWorkflowShape checks that doc is an object whose nodes and edges are
// arrays, adding empty ones when missing
func EnsureWorkflowShape(doc Value) error {
	if doc.Kind() != KindObject {
		return fmt.Errorf("workflow document must be an object, got %s", doc.Kind())
	}
	for _, key := range []string{KeyNodes, KeyEdges} {
		v, ok := doc.Get(key)
		if !ok || v.IsNull() {
			doc.Object().Set(key, ArrayValue(NewArray()))
			continue
		}
		if v.Kind() != KindArray {
			return fmt.Errorf("workflow %s must be an array, got %s", key, v.Kind())
		}
	}
	return nil
}

// WorkflowNodes returns the top-level nodes array, or nil
func WorkflowNodes(doc Value) *Array {
	v, _ := doc.Get(KeyNodes)
	return v.Array()
}

// WorkflowEdges returns the edges array, or nil
func WorkflowEdges(doc Value) *Array {
	v, _ := doc.Get(KeyEdges)
	return v.Array()
}

// Summarize builds the listing view of w
func Summarize(w *Workflow) WorkflowSummary {
	return WorkflowSummary{
		ID:        w.ID,
		Name:      w.Name,
		NodeCount: len(CollectNodeIDs(w.Document)),
		EdgeCount: WorkflowEdges(w.Document).Len(),
		UpdatedAt: w.UpdatedAt,
	}
}

// ExtractFragment copies the selected top-level nodes, and every edge whose
// endpoints both lie inside the selection, into a new document. An empty
// selection copies the whole document.
func ExtractFragment(doc Value, nodeIDs []string) (Value, error) {
	if len(nodeIDs) == 0 {
		fragment := doc.Clone()
		if err := EnsureWorkflowShape(fragment); err != nil {
			return Value{}, err
		}
		return fragment, nil
	}

	wanted := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		wanted[id] = true
	}

	fragment := NewWorkflowDocument()
	nodes := WorkflowNodes(fragment)
	for _, node := range WorkflowNodes(doc).Items() {
		id, _ := node.GetString(KeyID)
		if wanted[id] {
			nodes.Append(node.Clone())
			delete(wanted, id)
		}
	}
	for _, id := range nodeIDs {
		if wanted[id] {
			return Value{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
		}
	}

	inside := make(map[string]bool)
	for _, id := range CollectNodeIDs(fragment) {
		inside[id] = true
	}
	edges := WorkflowEdges(fragment)
	for _, edge := range WorkflowEdges(doc).Items() {
		src, _ := edge.GetString(KeySourceNodeID)
		dst, _ := edge.GetString(KeyTargetNodeID)
		if inside[src] && inside[dst] {
			edges.Append(edge.Clone())
		}
	}
	return fragment, nil
}

// MergeFragment appends the nodes and edges of fragment to doc
func MergeFragment(doc, fragment Value) (MergeStats, error) {
	if err := EnsureWorkflowShape(doc); err != nil {
		return MergeStats{}, err
	}
	if err := EnsureWorkflowShape(fragment); err != nil {
		return MergeStats{}, fmt.Errorf("fragment: %w", err)
	}

	stats := MergeStats{NodeIDs: CollectNodeIDs(fragment)}
	nodes := WorkflowNodes(doc)
	for _, node := range WorkflowNodes(fragment).Items() {
		nodes.Append(node)
		stats.NodesAdded++
	}
	edges := WorkflowEdges(doc)
	for _, edge := range WorkflowEdges(fragment).Items() {
		edges.Append(edge)
		stats.EdgesAdded++
	}
	return stats, nil
}

// Outline returns the node hierarchy of doc
func Outline(doc Value) []*NodeOutline {
	var build func(nodes *Array) []*NodeOutline
	build = func(nodes *Array) []*NodeOutline {
		var out []*NodeOutline
		for _, node := range nodes.Items() {
			id, _ := node.GetString(KeyID)
			typ, _ := node.GetString(KeyType)
			o := &NodeOutline{ID: id, Type: typ}
			if blocks, ok := node.Get(KeyBlocks); ok {
				o.Children = build(blocks.Array())
			}
			out = append(out, o)
		}
		return out
	}
	return build(WorkflowNodes(doc))
}
