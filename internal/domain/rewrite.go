package domain

// Workflow document keys recognised by the rewriter
const (
	KeyNodes        = "nodes"
	KeyEdges        = "edges"
	KeyBlocks       = "blocks"
	KeyID           = "id"
	KeyType         = "type"
	KeyMeta         = "meta"
	KeyData         = "data"
	KeySourceNodeID = "sourceNodeID"
	KeyTargetNodeID = "targetNodeID"
	KeyBlockID      = "blockID"
	KeyName         = "name"
	KeySource       = "source"

	// SourceBlockOutput marks a variable that reads another node's output
	SourceBlockOutput = "block-output"
)

// UniqueFunc reports whether a node ID is free in the target workflow
type UniqueFunc func(id string) bool

// RewriteOption configures GenerateUniqueWorkflow and BuildReplacementMap
type RewriteOption func(*rewriteConfig)

type rewriteConfig struct {
	generator   IDGenerator
	maxAttempts int
}

// WithGenerator sets the source of candidate IDs
func WithGenerator(g IDGenerator) RewriteOption {
	return func(c *rewriteConfig) {
		if g != nil {
			c.generator = g
		}
	}
}

// WithMaxAttempts bounds the candidates drawn per node ID
func WithMaxAttempts(n int) RewriteOption {
	return func(c *rewriteConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func newRewriteConfig(opts []RewriteOption) *rewriteConfig {
	c := &rewriteConfig{maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(c)
	}
	if c.generator == nil {
		c.generator = NewNumericIDGenerator(DefaultIDLength, nil)
	}
	return c
}

// GenerateUniqueWorkflow gives every node of doc an ID accepted by isUnique
// and rewrites node IDs, edge endpoints and block-output variable references
// to match. doc is mutated in place and returned along with the old→new map.
// On error doc is left untouched.
func GenerateUniqueWorkflow(doc Value, isUnique UniqueFunc, opts ...RewriteOption) (Value, map[string]string, error) {
	ids := CollectNodeIDs(doc)
	replacements, err := BuildReplacementMap(ids, isUnique, opts...)
	if err != nil {
		return doc, nil, err
	}
	RewriteReferences(doc, replacements)
	return doc, replacements, nil
}

// CollectNodeIDs returns the IDs of all nodes, including nested blocks, in
// discovery order without duplicates
func CollectNodeIDs(doc Value) []string {
	seen := make(map[string]bool)
	var ids []string
	var collect func(nodes Value)
	collect = func(nodes Value) {
		for _, node := range nodes.Array().Items() {
			if id, ok := node.GetString(KeyID); ok && id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
			if blocks, ok := node.Get(KeyBlocks); ok && blocks.Kind() == KindArray {
				collect(blocks)
			}
		}
	}
	if nodes, ok := doc.Get(KeyNodes); ok && nodes.Kind() == KindArray {
		collect(nodes)
	}
	return ids
}

// BuildReplacementMap maps each ID to itself when isUnique accepts it, and to
// a freshly minted ID otherwise. A minted ID is never one of ids and never
// handed out twice in the same call.
func BuildReplacementMap(ids []string, isUnique UniqueFunc, opts ...RewriteOption) (map[string]string, error) {
	cfg := newRewriteConfig(opts)

	taken := make(map[string]bool, len(ids))
	for _, id := range ids {
		taken[id] = true
	}

	replacements := make(map[string]string, len(ids))
	for _, id := range ids {
		if isUnique(id) {
			replacements[id] = id
			continue
		}
		minted := ""
		for attempt := 0; attempt < cfg.maxAttempts; attempt++ {
			candidate := cfg.generator.NewID()
			if !taken[candidate] && isUnique(candidate) {
				minted = candidate
				break
			}
		}
		if minted == "" {
			return nil, &IDSpaceExhaustedError{ID: id, Attempts: cfg.maxAttempts}
		}
		taken[minted] = true
		replacements[id] = minted
	}
	return replacements, nil
}

// RewriteReferences replaces every recognised ID reference found in
// replacements and returns the number of values changed
func RewriteReferences(doc Value, replacements map[string]string) int {
	changed := 0
	Traverse(doc, func(ctx *Context) {
		n := ctx.Node()
		if !IsEdgeEndpoint(n) && !IsNodeID(n) && !IsVariableReference(n) {
			return
		}
		old, ok := n.Value().Str()
		if !ok {
			return
		}
		next, ok := replacements[old]
		if !ok || next == old {
			return
		}
		if ctx.SetValue(String(next)) {
			changed++
		}
	})
	return changed
}

// IsEdgeEndpoint matches edges[i].sourceNodeID and edges[i].targetNodeID
func IsEdgeEndpoint(n *Node) bool {
	if !n.KeyIs(KeySourceNodeID) && !n.KeyIs(KeyTargetNodeID) {
		return false
	}
	edge := n.Parent()
	if edge == nil {
		return false
	}
	return edge.Parent().KeyIs(KeyEdges)
}

// IsNodeID matches the id of an object that also carries type, meta and data
func IsNodeID(n *Node) bool {
	if !n.KeyIs(KeyID) {
		return false
	}
	obj := n.container.Object()
	return hasNonNull(obj, KeyType) && hasNonNull(obj, KeyMeta) && hasNonNull(obj, KeyData)
}

// IsVariableReference matches blockID inside {source: "block-output", blockID, name}
func IsVariableReference(n *Node) bool {
	if !n.KeyIs(KeyBlockID) {
		return false
	}
	obj := n.container.Object()
	if !obj.Has(KeyName) {
		return false
	}
	source, ok := obj.Get(KeySource)
	if !ok {
		return false
	}
	s, ok := source.Str()
	return ok && s == SourceBlockOutput
}

func hasNonNull(obj *Object, key string) bool {
	v, ok := obj.Get(key)
	return ok && !v.IsNull()
}
