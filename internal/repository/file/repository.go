// Package file stores items as one JSON object in a single file.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"task-tracker/internal/errors"
	"task-tracker/internal/repository"
)

// Repository persists a key/value object to path. The file is read on
// every access so writes from other processes are seen.
type Repository struct {
	mu    sync.Mutex
	path  string
	quota int
}

var _ repository.Repository = (*Repository)(nil)

// New creates a file repository at path, creating its directory.
// The file itself is created on first write.
func New(path string, quota int, dirPerm os.FileMode) (*Repository, error) {
	if dirPerm == 0 {
		dirPerm = 0755
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, errors.NewStorageError("create data directory", err)
	}
	return &Repository{path: path, quota: quota}, nil
}

// read decodes the file. A missing file is an empty object.
func (r *Repository) read() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, errors.NewStorageError("read data file", err)
	}

	items := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, errors.NewStorageError("decode data file", err)
		}
	}
	return items, nil
}

// GetItem returns the value stored under key.
func (r *Repository) GetItem(_ context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return "", false, err
	}
	value, ok := items[key]
	return value, ok, nil
}

// SetItem stores value under key and rewrites the file.
func (r *Repository) SetItem(_ context.Context, key, value string) error {
	if err := repository.CheckQuota(key, value, r.quota); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return err
	}
	items[key] = value
	return r.write(items)
}

// RemoveItem deletes key and rewrites the file.
func (r *Repository) RemoveItem(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok {
		return nil
	}
	delete(items, key)
	return r.write(items)
}

// Close is a no-op; every write is already on disk.
func (r *Repository) Close() error {
	return nil
}

// write replaces the file through a temp file and rename so a crash never
// leaves a half-written object.
func (r *Repository) write(items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return errors.NewStorageError("encode data file", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return errors.NewStorageError("create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewStorageError("write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewStorageError("close temp file", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return errors.NewStorageError("replace data file", err)
	}
	return nil
}
