package clipboard

import "testing"

func TestBuffer(t *testing.T) {
	b := NewBuffer("first")

	got, err := b.ReadText()
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if got != "first" {
		t.Errorf("ReadText() = %q, expected first", got)
	}

	if err := b.WriteText("second"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if got, _ := b.ReadText(); got != "second" {
		t.Errorf("ReadText() = %q, expected second", got)
	}
}

func TestSystem_Unavailable(t *testing.T) {
	s := NewSystem()
	if s.Available() {
		t.Skip("clipboard utility present")
	}
	if _, err := s.ReadText(); err == nil {
		t.Error("expected error without a clipboard utility")
	}
}
