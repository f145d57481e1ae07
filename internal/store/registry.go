package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Registry is an in-process keyed store. It only guards the map; callers
// serialize access to the values themselves.
type Registry[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{items: map[string]V{}}
}

func (r *Registry[V]) Create(ctx context.Context, id string, v V) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		return ErrConflict
	}
	r.items[id] = v
	return nil
}

func (r *Registry[V]) Get(ctx context.Context, id string) (V, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return zero, ErrNotFound
	}
	return v, nil
}

func (r *Registry[V]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// IDs returns the keys in sorted order.
func (r *Registry[V]) IDs() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.items))
	for id := range r.items {
		out = append(out, id)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
