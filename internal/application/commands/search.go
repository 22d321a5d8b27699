package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
)

// NodeMatch is a node found by SearchNodesCommand
type NodeMatch struct {
	WorkflowID   string
	WorkflowName string
	NodeID       string
	NodeType     string
	Path         string // location of the node inside its document
	Score        int
}

// SearchNodesCommand finds nodes across all workflows by ID or type with
// fuzzy matching
type SearchNodesCommand struct {
	store ports.WorkflowStore
	Query string
}

// NewSearchNodesCommand creates a new SearchNodesCommand
func NewSearchNodesCommand(store ports.WorkflowStore, query string) *SearchNodesCommand {
	return &SearchNodesCommand{
		store: store,
		Query: query,
	}
}

// Execute runs the search command and returns scored, sorted matches
func (c *SearchNodesCommand) Execute(ctx context.Context) ([]NodeMatch, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	summaries, err := c.store.ListWorkflows()
	if err != nil {
		return nil, err
	}

	var matches []NodeMatch
	for _, s := range summaries {
		w, err := c.store.GetWorkflow(s.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", s.ID, err)
		}
		for _, m := range nodesIn(w) {
			m.Score = max(FuzzyScore(m.NodeID, c.Query), FuzzyScore(m.NodeType, c.Query))
			if m.Score > 0 {
				matches = append(matches, m)
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches, nil
}

// nodesIn lists every node of a workflow with its location
func nodesIn(w *domain.Workflow) []NodeMatch {
	var nodes []NodeMatch
	domain.TraverseWith(w.Document, domain.Options{StrictPath: true}, func(tc *domain.Context) {
		n := tc.Node()
		if !domain.IsNodeID(n) {
			return
		}
		id, _ := n.Value().Str()
		typ, _ := n.Parent().Value().GetString(domain.KeyType)
		path := tc.Path()
		nodes = append(nodes, NodeMatch{
			WorkflowID:   w.ID,
			WorkflowName: w.Name,
			NodeID:       id,
			NodeType:     typ,
			Path:         path[:len(path)-1].String(),
		})
	})
	return nodes
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 || len(target) == 0 {
		return 0
	}

	// Substring match ranks highest
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Otherwise every query char must appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] != query[queryIdx] {
			continue
		}
		if prevMatchIdx == i-1 {
			score += 10 // consecutive chars
		}
		if i == 0 {
			score += 15 // start of string
		}
		if i > 0 && strings.ContainsRune(" _-", rune(target[i-1])) {
			score += 10 // after separator
		}
		score++
		prevMatchIdx = i
		queryIdx++
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}
