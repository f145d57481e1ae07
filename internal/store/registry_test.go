package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRegistryCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry[*int]()
	v := 7
	id := NewID()
	if err := r.Create(ctx, id, &v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.Create(ctx, id, &v); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := r.Get(ctx, id)
	if err != nil || *got != 7 {
		t.Fatalf("get: %v %v", got, err)
	}
	if _, err := r.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := r.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestRegistryHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRegistry[string]()
	if err := r.Create(ctx, "a", "b"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestNewIDIsUniqueAndOrdered(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := NewID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != 800 {
		t.Fatalf("expected 800 unique ids, got %d", len(seen))
	}
	a, b := NewID(), NewID()
	if a >= b {
		t.Fatalf("expected monotonic ids: %s >= %s", a, b)
	}
}
