package id

import (
	"strings"
	"testing"
)

func TestPrefixedGenerator(t *testing.T) {
	gen := NewPrefixedGenerator("run_")
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if !strings.HasPrefix(first, "run_") || len(first) != len("run_")+32 {
		t.Fatalf("unexpected id %q", first)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
}
