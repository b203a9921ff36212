// Package sqlite stores the task record in a single-table SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
	"task-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Item is one row of kv_store.
type Item struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Options tunes a Repository.
type Options struct {
	QueryTimeout   time.Duration
	WriteTimeout   time.Duration
	Quota          int
	DirPermissions os.FileMode
	// Now stamps updated_at; defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the settings used when no config is supplied.
func DefaultOptions() Options {
	return Options{
		QueryTimeout:   10 * time.Second,
		WriteTimeout:   5 * time.Second,
		Quota:          repository.DefaultQuota,
		DirPermissions: 0755,
		Now:            time.Now,
	}
}

// Repository implements repository.Repository on SQLite.
type Repository struct {
	db   *sql.DB
	opts Options
}

var _ repository.Repository = (*Repository)(nil)

// New opens (creating if needed) the database at dbPath and migrates it.
// Use ":memory:" for a throwaway database.
func New(ctx context.Context, dbPath string, opts Options) (*Repository, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if dbPath != ":memory:" {
		perm := opts.DirPermissions
		if perm == 0 {
			perm = 0755
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), perm); err != nil {
			return nil, errors.NewStorageError("create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// One connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewStorageError("run migrations", err)
	}

	return &Repository{db: db, opts: opts}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// GetItem returns the value stored under key.
func (r *Repository) GetItem(ctx context.Context, key string) (string, bool, error) {
	item, found, err := r.GetEntry(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	return item.Value, true, nil
}

// GetEntry returns the full row for key, including when it was last written.
func (r *Repository) GetEntry(ctx context.Context, key string) (*Item, bool, error) {
	query := `SELECT key, value, updated_at FROM kv_store WHERE key = ?`
	return QuerySingle(ctx, r.db, r.opts.QueryTimeout, query, ScanItem, "item", key)
}

// SetItem upserts value under key after the quota check.
func (r *Repository) SetItem(ctx context.Context, key, value string) error {
	if err := repository.CheckQuota(key, value, r.opts.Quota); err != nil {
		return err
	}

	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := ExecuteWithRowsAffected(ctx, r.db, r.opts.WriteTimeout, "set item", query, key, value, FormatTimeForDB(r.opts.Now()))
	return err
}

// RemoveItem deletes key.
func (r *Repository) RemoveItem(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = ?`
	_, err := ExecuteWithRowsAffected(ctx, r.db, r.opts.WriteTimeout, "remove item", query, key)
	return err
}
