package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tavern/backend/internal/storage"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)

	paths := cfg.FileMap()
	assert.Equal(t, filepath.Join("data", "customers.json"), paths.Collections[storage.Customers])
	assert.Equal(t, filepath.Join("data", "ticket_counter.txt"), paths.Counter)
	assert.Len(t, paths.Collections, 3)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/tavern")
	t.Setenv("TICKETS_FILE", "/var/lib/tavern/tickets.json")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := load(v)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StorageBackend)
	assert.Equal(t, "/var/lib/tavern/tickets.json", cfg.FileMap().Collections[storage.Tickets])
}

func TestValidate(t *testing.T) {
	assert.Error(t, Config{StorageBackend: "sqlite"}.Validate())
	assert.Error(t, Config{StorageBackend: BackendPostgres}.Validate())
	assert.Error(t, Config{StorageBackend: BackendFile}.Validate())
	assert.NoError(t, Config{StorageBackend: BackendFile, DataDir: "d"}.Validate())
}
