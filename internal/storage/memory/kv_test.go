package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/paisa-buddy/internal/interfaces"
)

func TestKVStorage_RoundTrip(t *testing.T) {
	kv := NewKVStorage()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "k"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	kv.Set(ctx, "k", "v")
	if v, err := kv.Get(ctx, "k"); err != nil || v != "v" {
		t.Fatalf("expected v, got %q (%v)", v, err)
	}

	all, _ := kv.Scan(ctx, "k")
	all["k"] = "mutated"
	if v, _ := kv.Get(ctx, "k"); v != "v" {
		t.Error("Scan must return a copy")
	}

	kv.Delete(ctx, "k")
	if _, err := kv.Get(ctx, "k"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
