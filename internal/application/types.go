package application

import (
	"strings"

	"kbstudio/internal/domain"
	"kbstudio/internal/ports"
)

// Re-export domain types for use by adapters
type (
	Value           = domain.Value
	Workflow        = domain.Workflow
	WorkflowSummary = domain.WorkflowSummary
	MergeStats      = domain.MergeStats
	NodeOutline     = domain.NodeOutline
)

// ParseDocument decodes a workflow document, checks it against validator when
// one is given, and fills in missing nodes/edges arrays
func ParseDocument(raw []byte, validator ports.DocumentValidator) (domain.Value, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return domain.Value{}, &ValidationError{Field: "document", Message: "document is empty"}
	}
	doc, err := domain.ParseJSON(raw)
	if err != nil {
		return domain.Value{}, &ValidationError{Field: "document", Message: err.Error()}
	}
	if validator != nil {
		if err := validator.Validate(doc); err != nil {
			return domain.Value{}, &ValidationError{Field: "document", Message: err.Error()}
		}
	}
	if err := domain.EnsureWorkflowShape(doc); err != nil {
		return domain.Value{}, &ValidationError{Field: "document", Message: err.Error()}
	}
	return doc, nil
}

// Outline returns the node hierarchy of a workflow document
func Outline(doc domain.Value) []*domain.NodeOutline {
	return domain.Outline(doc)
}
