// Package memory is a map-backed repository for tests and TK_ENV=testing.
package memory

import (
	"context"
	"sync"

	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
)

// Repository keeps items in a map. It can be told to fail writes.
type Repository struct {
	mu       sync.Mutex
	items    map[string]string
	quota    int
	failErr  error
	setCalls int
	closed   bool
}

var _ repository.Repository = (*Repository)(nil)

// New returns an empty repository with the given quota (<= 0 disables it).
func New(quota int) *Repository {
	return &Repository{items: make(map[string]string), quota: quota}
}

// Seed stores value without counting it as a write.
func (r *Repository) Seed(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = value
}

// FailWrites makes every subsequent SetItem and RemoveItem return err.
// Passing nil restores normal behavior.
func (r *Repository) FailWrites(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failErr = err
}

// SetCalls reports how many times SetItem was called, failed or not.
func (r *Repository) SetCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setCalls
}

// GetItem returns the value stored under key.
func (r *Repository) GetItem(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.items[key]
	return value, ok, nil
}

// SetItem stores value under key.
func (r *Repository) SetItem(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setCalls++
	if r.failErr != nil {
		return errors.NewStorageError("set item", r.failErr)
	}
	if err := repository.CheckQuota(key, value, r.quota); err != nil {
		return err
	}
	r.items[key] = value
	return nil
}

// RemoveItem deletes key.
func (r *Repository) RemoveItem(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failErr != nil {
		return errors.NewStorageError("remove item", r.failErr)
	}
	delete(r.items, key)
	return nil
}

// Close marks the repository closed.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *Repository) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
