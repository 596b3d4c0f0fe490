package testfixtures

import "testing"

func TestIDGeneratorSequence(t *testing.T) {
	gen := NewIDGenerator("staff")
	if got := gen.Next(); got != "staff-1" {
		t.Fatalf("expected staff-1, got %s", got)
	}
	if got := gen.Next(); got != "staff-2" {
		t.Fatalf("expected staff-2, got %s", got)
	}
}

func TestIDGeneratorDefaultsPrefix(t *testing.T) {
	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("expected id-1, got %s", got)
	}
}
