// Package repository defines the durable key/value storage that holds the
// serialized task list, plus the quota rule shared by every backend.
package repository

import (
	"context"

	"task-tracker/internal/errors"
)

// DefaultQuota mirrors the per-origin budget of browser local storage.
const DefaultQuota = 5 << 20

// Repository stores string values under string keys.
type Repository interface {
	// GetItem returns the stored value; ok is false when the key is absent.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem replaces the value under key.
	SetItem(ctx context.Context, key, value string) error
	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
	Close() error
}

// CheckQuota rejects values larger than limit bytes. A limit <= 0 disables
// the check.
func CheckQuota(key, value string, limit int) error {
	if limit <= 0 || len(value) <= limit {
		return nil
	}
	return errors.NewQuotaExceededError(key, len(value), limit)
}
