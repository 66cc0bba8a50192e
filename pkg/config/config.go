// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for the index,
// the query pipeline and the optional Redis, Kafka and metrics integrations.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Indexer IndexerConfig `yaml:"indexer"`
	Search  SearchConfig  `yaml:"search"`
	Redis   RedisConfig   `yaml:"redis"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// IndexerConfig bounds the inverted index: how many documents may be open,
// which tokens are indexed and how far apart query terms may be.
type IndexerConfig struct {
	MaxOpenDocuments     int   `yaml:"maxOpenDocuments"`
	MinWordLength        int   `yaml:"minWordLength"`
	ContextWindow        int64 `yaml:"contextWindow"`
	InitialTableCapacity int   `yaml:"initialTableCapacity"`
}

// SearchConfig controls query execution.
type SearchConfig struct {
	CacheEnabled bool `yaml:"cacheEnabled"`
	// MaxPrintedLines caps how many context lines are rendered per result.
	// Zero means no cap.
	MaxPrintedLines int `yaml:"maxPrintedLines"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Brokers       []string      `yaml:"brokers"`
	Topics        KafkaTopics   `yaml:"topics"`
	BufferSize    int           `yaml:"bufferSize"`
	BatchSize     int           `yaml:"batchSize"`
	FlushInterval time.Duration `yaml:"flushInterval"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	AnalyticsEvents string `yaml:"analyticsEvents"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// Validate rejects limits the index cannot work with.
func (c *Config) Validate() error {
	if c.Indexer.MaxOpenDocuments <= 0 {
		return fmt.Errorf("indexer.maxOpenDocuments must be positive, got %d", c.Indexer.MaxOpenDocuments)
	}
	if c.Indexer.MinWordLength <= 0 {
		return fmt.Errorf("indexer.minWordLength must be positive, got %d", c.Indexer.MinWordLength)
	}
	if c.Indexer.ContextWindow < 0 {
		return fmt.Errorf("indexer.contextWindow must not be negative, got %d", c.Indexer.ContextWindow)
	}
	if c.Indexer.InitialTableCapacity <= 0 {
		return fmt.Errorf("indexer.initialTableCapacity must be positive, got %d", c.Indexer.InitialTableCapacity)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Indexer: IndexerConfig{
			MaxOpenDocuments:     5,
			MinWordLength:        4,
			ContextWindow:        100,
			InitialTableCapacity: 101,
		},
		Search: SearchConfig{
			CacheEnabled:    false,
			MaxPrintedLines: 20,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			PoolSize: 4,
			CacheTTL: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				AnalyticsEvents: "textsearch-events",
			},
			BufferSize:    1000,
			BatchSize:     50,
			FlushInterval: 2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
		},
	}
}

// applyEnvOverrides reads TS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TS_INDEXER_MAX_OPEN_DOCUMENTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.MaxOpenDocuments = n
		}
	}
	if v := os.Getenv("TS_INDEXER_MIN_WORD_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indexer.MinWordLength = n
		}
	}
	if v := os.Getenv("TS_INDEXER_CONTEXT_WINDOW"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Indexer.ContextWindow = n
		}
	}
	if v := os.Getenv("TS_SEARCH_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Search.CacheEnabled = b
		}
	}
	if v := os.Getenv("TS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TS_KAFKA_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Kafka.Enabled = b
		}
	}
	if v := os.Getenv("TS_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TS_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("TS_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
