package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Indexer.MaxOpenDocuments)
	assert.Equal(t, 4, cfg.Indexer.MinWordLength)
	assert.Equal(t, int64(100), cfg.Indexer.ContextWindow)
	assert.Equal(t, 101, cfg.Indexer.InitialTableCapacity)
	assert.False(t, cfg.Search.CacheEnabled)
	assert.False(t, cfg.Kafka.Enabled)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
indexer:
  maxOpenDocuments: 8
  contextWindow: 250
search:
  cacheEnabled: true
redis:
  addr: cache:6379
  cacheTTL: 30s
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Indexer.MaxOpenDocuments)
	assert.Equal(t, int64(250), cfg.Indexer.ContextWindow)
	// untouched fields keep their defaults
	assert.Equal(t, 4, cfg.Indexer.MinWordLength)
	assert.True(t, cfg.Search.CacheEnabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.Redis.CacheTTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TS_INDEXER_MIN_WORD_LENGTH", "3")
	t.Setenv("TS_KAFKA_ENABLED", "true")
	t.Setenv("TS_KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("TS_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Indexer.MinWordLength)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidLimits(t *testing.T) {
	t.Setenv("TS_INDEXER_MAX_OPEN_DOCUMENTS", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxOpenDocuments")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
