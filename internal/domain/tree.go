package domain

// TreeKind tells workflow rows from node rows in a browse tree
type TreeKind int

const (
	TreeRoot TreeKind = iota
	TreeWorkflow
	TreeNodeRow
)

// TreeNode is a row of the workflow browser: the root, a workflow, or one of
// its nodes
type TreeNode struct {
	Kind       TreeKind
	WorkflowID string
	ID         string // node ID; the workflow ID for workflow rows
	Name       string // workflow name or node type
	Children   []*TreeNode
	IsExpanded bool
	Loaded     bool // children of workflow rows are loaded on first expand
	Parent     *TreeNode
}

// NewWorkflowTree builds a root with one collapsed row per workflow
func NewWorkflowTree(summaries []WorkflowSummary) *TreeNode {
	root := &TreeNode{Kind: TreeRoot, IsExpanded: true, Loaded: true}
	for _, s := range summaries {
		root.Children = append(root.Children, &TreeNode{
			Kind:       TreeWorkflow,
			WorkflowID: s.ID,
			ID:         s.ID,
			Name:       s.Name,
			Parent:     root,
		})
	}
	return root
}

// SetOutline replaces the children of a workflow row with the node outline
// of its document
func (n *TreeNode) SetOutline(outline []*NodeOutline) {
	var build func(parent *TreeNode, nodes []*NodeOutline) []*TreeNode
	build = func(parent *TreeNode, nodes []*NodeOutline) []*TreeNode {
		var out []*TreeNode
		for _, o := range nodes {
			child := &TreeNode{
				Kind:       TreeNodeRow,
				WorkflowID: n.WorkflowID,
				ID:         o.ID,
				Name:       o.Type,
				Parent:     parent,
				Loaded:     true,
			}
			child.Children = build(child, o.Children)
			out = append(out, child)
		}
		return out
	}
	n.Children = build(n, outline)
	n.Loaded = true
}

// Flatten returns all visible nodes in the tree (for list rendering)
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	if n.IsExpanded {
		for _, child := range n.Children {
			child.flattenRecursive(result)
		}
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	for current := n.Parent; current != nil; current = current.Parent {
		depth++
	}
	return depth
}

// HasChildren reports whether the row can be expanded
func (n *TreeNode) HasChildren() bool {
	return !n.Loaded || len(n.Children) > 0
}

// TopLevel returns the top-level node row this row belongs to, or nil for
// workflow and root rows. Copy and duplicate act on top-level nodes.
func (n *TreeNode) TopLevel() *TreeNode {
	if n.Kind != TreeNodeRow {
		return nil
	}
	current := n
	for current.Parent != nil && current.Parent.Kind == TreeNodeRow {
		current = current.Parent
	}
	return current
}

// Find returns the first row in the subtree with the given workflow and node
// ID, searching collapsed rows too
func (n *TreeNode) Find(workflowID, id string) *TreeNode {
	if n.WorkflowID == workflowID && n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(workflowID, id); found != nil {
			return found
		}
	}
	return nil
}

// Reveal expands every ancestor of n
func (n *TreeNode) Reveal() {
	for current := n.Parent; current != nil; current = current.Parent {
		current.IsExpanded = true
	}
}

// Toggle expands or collapses the node
func (n *TreeNode) Toggle() {
	n.IsExpanded = !n.IsExpanded
}

// Expand sets the node as expanded
func (n *TreeNode) Expand() {
	n.IsExpanded = true
}

// Collapse sets the node as collapsed
func (n *TreeNode) Collapse() {
	n.IsExpanded = false
}
