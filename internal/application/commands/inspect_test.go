package commands

import (
	"context"
	"reflect"
	"testing"
)

func TestInspectCommand_Execute(t *testing.T) {
	tests := []struct {
		name     string
		strict   bool
		expected []string
	}{
		{
			name:     "index 0 dropped",
			expected: []string{"a.b[2]", "a.b[1]", "a.b", "a.b", "a", ""},
		},
		{
			name:     "strict paths",
			strict:   true,
			expected: []string{"a.b[2]", "a.b[1]", "a.b[0]", "a.b", "a", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewInspectCommand([]byte(`{"a":{"b":[10,20,30]}}`), tt.strict).Execute(context.Background())
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			var paths []string
			for _, e := range result.Entries {
				paths = append(paths, e.Path)
			}
			if !reflect.DeepEqual(paths, tt.expected) {
				t.Errorf("paths = %q, expected %q", paths, tt.expected)
			}
		})
	}
}

func TestInspectCommand_ValuesAndFalsy(t *testing.T) {
	raw := []byte(`{"n":0,"s":"x","list":[true]}`)

	result, err := NewInspectCommand(raw, false).Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	got := make(map[string]string)
	for _, e := range result.Entries {
		got[e.Path] = e.Value
	}
	if _, ok := got["n"]; ok {
		t.Error("expected falsy value to be skipped")
	}
	if got["s"] != `"x"` || got["list"] != "[1 items]" || got[""] != "{3 keys}" {
		t.Errorf("unexpected entries %v", got)
	}

	cmd := NewInspectCommand(raw, false)
	cmd.VisitFalsy = true
	result, _ = cmd.Execute(context.Background())
	if len(result.Entries) != 5 {
		t.Errorf("expected 5 entries with falsy values, got %d", len(result.Entries))
	}
}

func TestInspectCommand_InvalidJSON(t *testing.T) {
	if _, err := NewInspectCommand([]byte(`{`), false).Execute(context.Background()); err == nil {
		t.Error("expected error, got nil")
	}
}
