// Package cache stores search results in Redis so that repeating a query
// against the same set of loaded documents skips the index walk. Concurrent
// identical lookups are collapsed with singleflight.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer"
	pkgredis "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/resilience"
)

const keyPrefix = "textsearch:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

type QueryCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	breaker *resilience.Breaker
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

func New(store Store, ttl time.Duration) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		breaker: resilience.NewBreaker("redis-cache", resilience.BreakerConfig{}),
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// Get looks up the results of query against corpus. Any store failure is
// logged and treated as a miss; repeated failures open a circuit breaker so
// an unreachable Redis is skipped instead of timing out on every query.
func (c *QueryCache) Get(ctx context.Context, query string, corpus []string) ([]indexer.Result, bool) {
	key := BuildKey(query, corpus)
	var data string
	found := false
	err := c.breaker.Do(func() error {
		var err error
		data, err = c.store.Get(ctx, key)
		if pkgredis.IsNilError(err) {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Error("cache get failed", "key", key, "error", err)
	}
	if !found {
		c.misses.Add(1)
		return nil, false
	}
	var results []indexer.Result
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", query, "key", key)
	return results, true
}

func (c *QueryCache) Set(ctx context.Context, query string, corpus []string, results []indexer.Result) {
	key := BuildKey(query, corpus)
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Do(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil && !errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns cached results or runs computeFn and caches its
// output. cached reports whether the results came from the store.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	corpus []string,
	computeFn func() ([]indexer.Result, error),
) (results []indexer.Result, cached bool, err error) {
	if results, ok := c.Get(ctx, query, corpus); ok {
		return results, true, nil
	}
	key := BuildKey(query, corpus)
	val, err, _ := c.group.Do(key, func() (any, error) {
		results, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, corpus, results)
		return results, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]indexer.Result), false, nil
}

// Invalidate drops every cached result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// BuildKey derives the cache key from the canonical query and the ordered
// list of loaded documents, since document ids depend on load order.
func BuildKey(query string, corpus []string) string {
	raw := query + "\x00" + strings.Join(corpus, "\x00")
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
