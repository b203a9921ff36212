package config

import (
	"context"
	"fmt"
	"os"

	"task-tracker/internal/repository"
	"task-tracker/internal/repository/file"
	"task-tracker/internal/repository/memory"
	"task-tracker/internal/repository/sqlite"
)

// CreateRepository opens the storage backend selected by the configuration.
// TK_ENV=testing always selects the in-memory backend.
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	if config.IsTesting() || config.Storage.Backend == BackendMemory {
		return memory.New(config.Storage.QuotaBytes), nil
	}

	path := config.GetStoragePath()
	perm := os.FileMode(config.Storage.DirPermissions)

	switch config.Storage.Backend {
	case BackendFile:
		repo, err := file.New(path, config.Storage.QuotaBytes, perm)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
		return repo, nil
	default:
		repo, err := sqlite.New(ctx, path, sqlite.Options{
			QueryTimeout:   config.Storage.QueryTimeout,
			WriteTimeout:   config.Storage.WriteTimeout,
			Quota:          config.Storage.QuotaBytes,
			DirPermissions: perm,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	}
}
