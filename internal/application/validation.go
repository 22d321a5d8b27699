package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateNodeIDs checks that a node selection is non-empty and holds no blank IDs
func ValidateNodeIDs(fieldName string, ids []string) error {
	if len(ids) == 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("at least one %s is required", formatFieldName(fieldName)),
		}
	}
	for i, id := range ids {
		if strings.TrimSpace(id) == "" {
			return &ValidationError{
				Field:   fieldName,
				Message: fmt.Sprintf("%s %d is empty", formatFieldName(fieldName), i+1),
			}
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "workflowID" -> "workflow ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"workflowID": "workflow ID",
		"nodeIDs":    "node ID",
		"nodeID":     "node ID",
		"name":       "name",
		"document":   "document",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
