package domain

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"
)

// scriptedGenerator hands out ids in order, repeating the last one
type scriptedGenerator struct {
	ids []string
	pos int
}

func (g *scriptedGenerator) NewID() string {
	id := g.ids[g.pos]
	if g.pos < len(g.ids)-1 {
		g.pos++
	}
	return id
}

func never(string) bool { return false }

func always(string) bool { return true }

// collidesWith reports ids in existing as taken and everything else as free
func collidesWith(existing ...string) UniqueFunc {
	set := make(map[string]bool, len(existing))
	for _, id := range existing {
		set[id] = true
	}
	return func(id string) bool { return !set[id] }
}

func TestGenerateUniqueWorkflow_ForcedRename(t *testing.T) {
	doc := mustParse(t, `{
		"nodes": [{"id": "n1", "type": "t", "meta": {}, "data": {}}],
		"edges": [{"sourceNodeID": "n1", "targetNodeID": "n1"}]
	}`)

	gen := NewNumericIDGenerator(DefaultIDLength, rand.New(rand.NewPCG(1, 2)))
	calls := 0
	isUnique := func(id string) bool {
		calls++
		return id != "n1"
	}

	out, replacements, err := GenerateUniqueWorkflow(doc, isUnique, WithGenerator(gen))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Same(out, doc) {
		t.Error("expected the document to be rewritten in place")
	}

	newID := replacements["n1"]
	if newID == "n1" {
		t.Fatal("expected n1 to be renamed")
	}
	if !regexp.MustCompile(`^[0-9]{6}$`).MatchString(newID) {
		t.Errorf("expected a 6-digit id, got %q", newID)
	}

	node, _ := WorkflowNodes(doc).At(0)
	if id, _ := node.GetString(KeyID); id != newID {
		t.Errorf("node id = %q, expected %q", id, newID)
	}
	edge, _ := WorkflowEdges(doc).At(0)
	if src, _ := edge.GetString(KeySourceNodeID); src != newID {
		t.Errorf("sourceNodeID = %q, expected %q", src, newID)
	}
	if dst, _ := edge.GetString(KeyTargetNodeID); dst != newID {
		t.Errorf("targetNodeID = %q, expected %q", dst, newID)
	}
	if calls < 2 {
		t.Errorf("expected the candidate to be checked with isUnique, got %d calls", calls)
	}
}

func TestGenerateUniqueWorkflow_AlreadyUniqueIsIdentity(t *testing.T) {
	doc := mustParse(t, `{
		"nodes": [
			{"id": "start", "type": "start", "meta": {"position": {"x": 0, "y": 0}}, "data": {}},
			{"id": "loop", "type": "loop", "meta": {}, "data": {}, "blocks": [
				{"id": "inner", "type": "llm", "meta": {}, "data": {
					"inputs": {"prompt": {"source": "block-output", "blockID": "start", "name": "query"}}
				}}
			]}
		],
		"edges": [{"sourceNodeID": "start", "targetNodeID": "loop"}]
	}`)
	original := doc.Clone()

	_, replacements, err := GenerateUniqueWorkflow(doc, always, WithGenerator(&scriptedGenerator{ids: []string{"999999"}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.Equal(original) {
		t.Errorf("expected document unchanged, got %s", doc)
	}
	for old, next := range replacements {
		if old != next {
			t.Errorf("expected identity mapping, got %s -> %s", old, next)
		}
	}
	if len(replacements) != 3 {
		t.Errorf("expected 3 ids in map, got %d", len(replacements))
	}
}

func TestGenerateUniqueWorkflow_NestedBlocksAndVariables(t *testing.T) {
	doc := mustParse(t, `{
		"nodes": [
			{"id": "group", "type": "group", "meta": {}, "data": {}, "blocks": [
				{"id": "child1", "type": "code", "meta": {}, "data": {}}
			]},
			{"id": "end", "type": "end", "meta": {}, "data": {
				"inputsValues": {
					"result": {"source": "block-output", "blockID": "child1", "name": "x"}
				}
			}}
		],
		"edges": [{"sourceNodeID": "group", "targetNodeID": "end"}]
	}`)

	gen := &scriptedGenerator{ids: []string{"123456"}}
	_, replacements, err := GenerateUniqueWorkflow(doc, collidesWith("child1"), WithGenerator(gen))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if replacements["child1"] != "123456" {
		t.Fatalf("expected child1 -> 123456, got %q", replacements["child1"])
	}
	if replacements["group"] != "group" || replacements["end"] != "end" {
		t.Errorf("expected non-colliding ids to map to themselves, got %v", replacements)
	}

	expected := mustParse(t, `{
		"nodes": [
			{"id": "group", "type": "group", "meta": {}, "data": {}, "blocks": [
				{"id": "123456", "type": "code", "meta": {}, "data": {}}
			]},
			{"id": "end", "type": "end", "meta": {}, "data": {
				"inputsValues": {
					"result": {"source": "block-output", "blockID": "123456", "name": "x"}
				}
			}}
		],
		"edges": [{"sourceNodeID": "group", "targetNodeID": "end"}]
	}`)
	if !doc.Equal(expected) {
		t.Errorf("rewritten document = %s\nexpected %s", doc, expected)
	}
}

func TestGenerateUniqueWorkflow_MintedIDsNeverCollide(t *testing.T) {
	doc := mustParse(t, `{
		"nodes": [
			{"id": "a", "type": "t", "meta": {}, "data": {}},
			{"id": "b", "type": "t", "meta": {}, "data": {}},
			{"id": "keep", "type": "t", "meta": {}, "data": {}}
		],
		"edges": [{"sourceNodeID": "a", "targetNodeID": "b"}]
	}`)

	// "keep" is free in the target, so it stays; the generator offers it and
	// repeats itself before yielding fresh ids.
	gen := &scriptedGenerator{ids: []string{"keep", "111111", "111111", "222222"}}
	_, replacements, err := GenerateUniqueWorkflow(doc, collidesWith("a", "b"), WithGenerator(gen))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if replacements["keep"] != "keep" {
		t.Errorf("expected keep to stay, got %q", replacements["keep"])
	}
	if replacements["a"] != "111111" {
		t.Errorf("a -> %q, expected 111111", replacements["a"])
	}
	if replacements["b"] != "222222" {
		t.Errorf("b -> %q, expected 222222", replacements["b"])
	}

	seen := make(map[string]bool)
	for _, id := range CollectNodeIDs(doc) {
		if seen[id] {
			t.Errorf("duplicate id %q after rewrite", id)
		}
		seen[id] = true
	}
}

func TestGenerateUniqueWorkflow_IDSpaceExhausted(t *testing.T) {
	doc := mustParse(t, `{"nodes": [{"id": "n1", "type": "t", "meta": {}, "data": {}}], "edges": []}`)
	original := doc.Clone()

	_, _, err := GenerateUniqueWorkflow(doc, never,
		WithGenerator(&scriptedGenerator{ids: []string{"000001"}}),
		WithMaxAttempts(5),
	)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrIDSpaceExhausted) {
		t.Errorf("expected ErrIDSpaceExhausted, got %v", err)
	}
	var exhausted *IDSpaceExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected *IDSpaceExhaustedError, got %T", err)
	}
	if exhausted.ID != "n1" || exhausted.Attempts != 5 {
		t.Errorf("unexpected error details: %+v", exhausted)
	}
	if !doc.Equal(original) {
		t.Error("expected document untouched after failure")
	}
}

func TestRewriteReferences_OnlyRecognisedPositions(t *testing.T) {
	doc := mustParse(t, `{
		"nodes": [{"id": "x", "type": "t", "meta": {}, "data": {
			"label": "x",
			"config": {"id": "x"},
			"ref": {"source": "constant", "blockID": "x", "name": "v"},
			"noName": {"source": "block-output", "blockID": "x"}
		}}],
		"edges": [{"sourceNodeID": "x", "targetNodeID": "outside"}],
		"links": [{"sourceNodeID": "x"}]
	}`)

	changed := RewriteReferences(doc, map[string]string{"x": "y"})
	if changed != 2 {
		t.Errorf("changed %d values, expected 2", changed)
	}

	expected := mustParse(t, `{
		"nodes": [{"id": "y", "type": "t", "meta": {}, "data": {
			"label": "x",
			"config": {"id": "x"},
			"ref": {"source": "constant", "blockID": "x", "name": "v"},
			"noName": {"source": "block-output", "blockID": "x"}
		}}],
		"edges": [{"sourceNodeID": "y", "targetNodeID": "outside"}],
		"links": [{"sourceNodeID": "x"}]
	}`)
	if !doc.Equal(expected) {
		t.Errorf("rewritten document = %s", doc)
	}
}

func TestIsNodeID_RequiresNonNullSiblings(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		expected bool
	}{
		{name: "full node", doc: `{"id":"a","type":"t","meta":{},"data":{}}`, expected: true},
		{name: "missing meta", doc: `{"id":"a","type":"t","data":{}}`, expected: false},
		{name: "null data", doc: `{"id":"a","type":"t","meta":{},"data":null}`, expected: false},
		{name: "empty type string", doc: `{"id":"a","type":"","meta":{},"data":{}}`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc)
			got := false
			Traverse(doc, func(ctx *Context) {
				if ctx.Node().KeyIs(KeyID) {
					got = IsNodeID(ctx.Node())
				}
			})
			if got != tt.expected {
				t.Errorf("IsNodeID = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCollectNodeIDs(t *testing.T) {
	doc := mustParse(t, `{
		"nodes": [
			{"id": "a", "blocks": [{"id": "a1", "blocks": [{"id": "a1x"}]}, {"id": "a2"}]},
			{"id": "b"},
			{"id": ""},
			{"id": 7},
			{"id": "a"}
		]
	}`)

	got := CollectNodeIDs(doc)
	expected := []string{"a", "a1", "a1x", "a2", "b"}
	if len(got) != len(expected) {
		t.Fatalf("CollectNodeIDs = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("CollectNodeIDs[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestNumericIDGenerator(t *testing.T) {
	gen := NewNumericIDGenerator(6, rand.New(rand.NewPCG(7, 7)))
	pattern := regexp.MustCompile(`^[0-9]{6}$`)
	for i := 0; i < 100; i++ {
		id := gen.NewID()
		if !pattern.MatchString(id) {
			t.Fatalf("generated %q, expected 6 digits", id)
		}
	}

	if got := NewNumericIDGenerator(0, nil).NewID(); len(got) != DefaultIDLength {
		t.Errorf("expected default length %d, got %q", DefaultIDLength, got)
	}
}
