package config

import (
	"context"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-tracker/internal/notify"
	"task-tracker/internal/repository/file"
	"task-tracker/internal/repository/memory"
	"task-tracker/internal/repository/sqlite"
)

func testConfig(t *testing.T, backend string) *Config {
	t.Helper()
	cfg := NewConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.Dir = t.TempDir()
	return cfg
}

func TestCreateRepository(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		backend string
		check   func(t *testing.T, repo interface{})
	}{
		{"sqlite", BackendSQLite, func(t *testing.T, repo interface{}) { assert.IsType(t, &sqlite.Repository{}, repo) }},
		{"file", BackendFile, func(t *testing.T, repo interface{}) { assert.IsType(t, &file.Repository{}, repo) }},
		{"memory", BackendMemory, func(t *testing.T, repo interface{}) { assert.IsType(t, &memory.Repository{}, repo) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, tt.backend)

			repo, err := CreateRepository(ctx, cfg)
			require.NoError(t, err)
			defer repo.Close()
			tt.check(t, repo)

			require.NoError(t, repo.SetItem(ctx, cfg.Storage.Key, "[]"))
			value, ok, err := repo.GetItem(ctx, cfg.Storage.Key)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "[]", value)
		})
	}
}

func TestCreateRepository_TestingUsesMemory(t *testing.T) {
	cfg := testConfig(t, BackendSQLite)
	cfg.Application.Env = "testing"

	repo, err := CreateRepository(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &memory.Repository{}, repo)

	_, err = os.Stat(cfg.GetStoragePath())
	assert.True(t, os.IsNotExist(err), "testing must not touch the data directory")
}

func TestCreateNotifier(t *testing.T) {
	logger := log.New(os.Stderr)

	tests := []struct {
		name     string
		backend  string
		env      string
		expected notify.Permission
	}{
		{"log is always granted", NotifyLog, "", notify.PermissionGranted},
		{"none is denied", NotifyNone, "", notify.PermissionDenied},
		{"desktop under testing is denied", NotifyDesktop, "testing", notify.PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Notify.Backend = tt.backend
			cfg.Application.Env = tt.env

			gate := CreateNotifier(cfg, logger)
			assert.Equal(t, tt.expected, gate.RequestPermission(context.Background()))
		})
	}
}
