package schema

import (
	"testing"

	"kbstudio/internal/domain"
)

func TestValidator_Validate(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "valid workflow",
			doc: `{"nodes":[{"id":"1","type":"start","meta":{"position":{"x":1.5,"y":0}},"data":{},
				"blocks":[{"id":"2","type":"llm"}]}],
				"edges":[{"sourceNodeID":"1","targetNodeID":"2"}]}`,
		},
		{name: "nodes only", doc: `{"nodes":[]}`},
		{name: "missing nodes", doc: `{"edges":[]}`, wantErr: true},
		{name: "not an object", doc: `[1,2]`, wantErr: true},
		{name: "node without id", doc: `{"nodes":[{"type":"start"}]}`, wantErr: true},
		{name: "empty id", doc: `{"nodes":[{"id":""}]}`, wantErr: true},
		{name: "numeric id", doc: `{"nodes":[{"id":7}]}`, wantErr: true},
		{name: "nested block without id", doc: `{"nodes":[{"id":"a","blocks":[{}]}]}`, wantErr: true},
		{name: "edge missing target", doc: `{"nodes":[],"edges":[{"sourceNodeID":"a"}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := domain.ParseJSON([]byte(tt.doc))
			if err != nil {
				t.Fatalf("failed to parse: %v", err)
			}
			err = v.Validate(doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewValidatorFromJSON_Invalid(t *testing.T) {
	if _, err := NewValidatorFromJSON([]byte(`{"type": 12`)); err == nil {
		t.Error("expected error for malformed schema")
	}
	if _, err := NewValidatorFromJSON([]byte(`{"type": "no-such-type"}`)); err == nil {
		t.Error("expected error for invalid schema")
	}
}
