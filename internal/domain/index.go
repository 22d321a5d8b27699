package domain

import "time"

// IndexStats contains statistics from a node index rebuild
type IndexStats struct {
	WorkflowsScanned int
	NodesIndexed     int
	DuplicateIDs     int // node IDs repeated inside one workflow
	Duration         time.Duration
}

// DuplicateNodeIDs returns node IDs that appear more than once in doc, in
// discovery order
func DuplicateNodeIDs(doc Value) []string {
	counts := make(map[string]int)
	var order []string
	var walk func(nodes *Array)
	walk = func(nodes *Array) {
		for _, node := range nodes.Items() {
			if id, ok := node.GetString(KeyID); ok && id != "" {
				counts[id]++
				if counts[id] == 2 {
					order = append(order, id)
				}
			}
			if blocks, ok := node.Get(KeyBlocks); ok {
				walk(blocks.Array())
			}
		}
	}
	walk(WorkflowNodes(doc))
	return order
}
