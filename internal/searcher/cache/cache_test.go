package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = string(value.([]byte))
	return nil
}

func (m *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var n int64
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

var sample = []indexer.Result{
	{DocID: 0, Document: "a.txt", FirstLine: 2, LastLine: 3, StartOffset: 14, EndOffset: 40},
}

func TestGetOrComputeCachesResults(t *testing.T) {
	c := New(newMemStore(), time.Minute)
	ctx := context.Background()
	corpus := []string{"a.txt"}
	calls := 0
	compute := func() ([]indexer.Result, error) {
		calls++
		return sample, nil
	}

	got, cached, err := c.GetOrCompute(ctx, "AND|giant,windmill", corpus, compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, sample, got)

	got, cached, err = c.GetOrCompute(ctx, "AND|giant,windmill", corpus, compute)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, sample, got)
	assert.Equal(t, 1, calls)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestKeyDependsOnCorpus(t *testing.T) {
	assert.NotEqual(t, BuildKey("AND|giant", []string{"a.txt"}), BuildKey("AND|giant", []string{"a.txt", "b.txt"}))
	assert.NotEqual(t, BuildKey("AND|giant", []string{"a.txt", "b.txt"}), BuildKey("AND|giant", []string{"b.txt", "a.txt"}))
	assert.Equal(t, BuildKey("AND|giant", []string{"a.txt"}), BuildKey("AND|giant", []string{"a.txt"}))
	assert.True(t, strings.HasPrefix(BuildKey("q", nil), keyPrefix))
}

func TestComputeErrorIsNotCached(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrCompute(context.Background(), "q", nil, func() ([]indexer.Result, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, store.data)
}

func TestStoreFailureFallsBackToCompute(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	c := New(store, time.Minute)

	got, cached, err := c.GetOrCompute(context.Background(), "q", nil, func() ([]indexer.Result, error) {
		return sample, nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, sample, got)
}

func TestInvalidate(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute)
	ctx := context.Background()
	c.Set(ctx, "q", nil, sample)
	store.data["other:key"] = "keep"

	require.NoError(t, c.Invalidate(ctx))
	_, ok := c.Get(ctx, "q", nil)
	assert.False(t, ok)
	assert.Equal(t, "keep", store.data["other:key"])
}

func TestRepeatedStoreFailuresOpenBreaker(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	c := New(store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, ok := c.Get(ctx, "q", nil)
		assert.False(t, ok)
	}
	assert.Equal(t, "open", c.breaker.State().String())
}
