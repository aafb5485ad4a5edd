package app

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCounterGeneratorNeverRepeats(t *testing.T) {
	gen := CounterGenerator("t")
	seen := map[string]struct{}{}
	for range 1000 {
		id := gen()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
	if got := CounterGenerator(" ")(); got != "id-1" {
		t.Fatalf("unexpected default prefix id %q", got)
	}
}

func TestNewIDGenerator(t *testing.T) {
	gen, err := NewIDGenerator(IDStrategyUUID)
	if err != nil {
		t.Fatalf("NewIDGenerator() error = %v", err)
	}
	if _, err := uuid.Parse(gen()); err != nil {
		t.Fatalf("expected uuid id, parse error %v", err)
	}
	gen, err = NewIDGenerator("Counter")
	if err != nil {
		t.Fatalf("NewIDGenerator() error = %v", err)
	}
	if got := gen(); got != "e-1" {
		t.Fatalf("unexpected counter id %q", got)
	}
	if _, err := NewIDGenerator("random"); !errors.Is(err, ErrInvalidIDStrategy) {
		t.Fatalf("expected ErrInvalidIDStrategy, got %v", err)
	}
}
