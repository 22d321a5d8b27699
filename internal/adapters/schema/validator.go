package schema

import (
	"bytes"
	_ "embed"
	"fmt"

	"kbstudio/internal/domain"
	"kbstudio/internal/ports"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed workflow.schema.json
var workflowSchema []byte

const workflowSchemaURL = "workflow.schema.json"

// Validator checks documents against the workflow JSON Schema
type Validator struct {
	schema *jsonschema.Schema
}

// Ensure Validator implements DocumentValidator
var _ ports.DocumentValidator = (*Validator)(nil)

// NewValidator compiles the embedded workflow schema
func NewValidator() (*Validator, error) {
	return NewValidatorFromJSON(workflowSchema)
}

// NewValidatorFromJSON compiles a custom schema
func NewValidatorFromJSON(schemaJSON []byte) (*Validator, error) {
	// jsonschema.UnmarshalJSON keeps numbers as json.Number, which the compiler expects
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema JSON: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(workflowSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile(workflowSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate reports the first schema violations of doc
func (v *Validator) Validate(doc domain.Value) error {
	if err := v.schema.Validate(doc.Interface()); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
