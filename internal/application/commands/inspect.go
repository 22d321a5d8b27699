package commands

import (
	"context"
	"fmt"

	"kbstudio/internal/application"
	"kbstudio/internal/domain"
)

// PathEntry is one value visited while inspecting a document
type PathEntry struct {
	Path  string
	Kind  domain.Kind
	Value string // JSON text for scalars, a size summary for containers
}

// InspectResult lists the visited values of a document in visit order
type InspectResult struct {
	Entries []PathEntry
	NodeIDs []string
	Message string
}

// InspectCommand walks a JSON document and reports the path of every value
// the traversal visits
type InspectCommand struct {
	Raw        []byte
	StrictPath bool // keep index 0 and empty keys in paths
	VisitFalsy bool
}

// NewInspectCommand creates a new InspectCommand
func NewInspectCommand(raw []byte, strict bool) *InspectCommand {
	return &InspectCommand{Raw: raw, StrictPath: strict}
}

// Execute runs the inspect command
func (c *InspectCommand) Execute(ctx context.Context) (*InspectResult, error) {
	doc, err := domain.ParseJSON(c.Raw)
	if err != nil {
		return nil, &application.ValidationError{Field: "document", Message: err.Error()}
	}

	var entries []PathEntry
	domain.TraverseWith(doc, domain.Options{StrictPath: c.StrictPath, VisitFalsy: c.VisitFalsy}, func(tc *domain.Context) {
		v := tc.Value()
		entries = append(entries, PathEntry{
			Path:  tc.StringifyPath(),
			Kind:  v.Kind(),
			Value: describe(v),
		})
	})

	return &InspectResult{
		Entries: entries,
		NodeIDs: domain.CollectNodeIDs(doc),
		Message: fmt.Sprintf("Visited %d values", len(entries)),
	}, nil
}

func describe(v domain.Value) string {
	switch v.Kind() {
	case domain.KindObject:
		return fmt.Sprintf("{%d keys}", v.Object().Len())
	case domain.KindArray:
		return fmt.Sprintf("[%d items]", v.Array().Len())
	default:
		return v.String()
	}
}
