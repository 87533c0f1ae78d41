package views

import (
	"context"
	"slices"
	"sync"
)

// Resource is the cached copy of one server list.
type Resource[T any] struct {
	name   string
	load   func(context.Context) ([]T, error)
	mu     *sync.RWMutex
	items  []T
	loaded bool
}

// NewResource creates an empty resource read with load.
func NewResource[T any](name string, load func(context.Context) ([]T, error)) *Resource[T] {
	return &Resource[T]{name: name, load: load, mu: &sync.RWMutex{}}
}

// Name identifies the resource in logs and errors.
func (r *Resource[T]) Name() string {
	return r.name
}

// Get returns a copy of the cached items.
func (r *Resource[T]) Get() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

// Loaded reports whether at least one read has been committed.
func (r *Resource[T]) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

func (r *Resource[T]) fetch(ctx context.Context) (func(), error) {
	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	// Called with the syncer's cache lock held.
	return func() {
		r.items = items
		r.loaded = true
	}, nil
}

func (r *Resource[T]) bind(mu *sync.RWMutex) {
	r.mu = mu
}
