// Package executor runs console queries against the index. It parses the
// input, consults the result cache, attaches the matched lines of each
// document and records analytics and metrics for every query.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/metrics"
)

// Tracker receives analytics events. *analytics.Collector implements it.
type Tracker interface {
	Track(event any)
}

// Match is one result together with the text of its lines.
type Match struct {
	indexer.Result
	Lines []string `json:"lines"`
	// Truncated is set when the line range was longer than the print limit.
	Truncated bool `json:"truncated"`
}

type SearchResult struct {
	QueryID     string        `json:"query_id"`
	Query       string        `json:"query"`
	Terms       []string      `json:"terms"`
	Unindexable []string      `json:"unindexable,omitempty"`
	Matches     []Match       `json:"matches"`
	CacheHit    bool          `json:"cache_hit"`
	Latency     time.Duration `json:"latency"`
}

type Option func(*Executor)

func WithCache(c *cache.QueryCache) Option {
	return func(e *Executor) {
		e.cache = c
	}
}

func WithTracker(t Tracker) Option {
	return func(e *Executor) {
		e.tracker = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// Executor serializes access to the engine, which is not safe for
// concurrent use.
type Executor struct {
	mu      sync.Mutex
	engine  *indexer.Engine
	cfg     config.Config
	cache   *cache.QueryCache
	tracker Tracker
	metrics *metrics.Metrics
	logger  *slog.Logger
	nextID  atomic.Int64
}

func New(engine *indexer.Engine, cfg config.Config, opts ...Option) *Executor {
	e := &Executor{
		engine: engine,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load adds a document to the index and reports it to analytics.
func (e *Executor) Load(ctx context.Context, name string) (int, error) {
	start := time.Now()
	e.mu.Lock()
	id, err := e.engine.LoadDocument(name)
	e.mu.Unlock()

	event := analytics.IndexEvent{
		Type:      analytics.EventIndexDoc,
		DocID:     id,
		Document:  name,
		LatencyMs: time.Since(start).Milliseconds(),
		Timestamp: time.Now(),
	}
	if err != nil {
		event.Type = analytics.EventIndexFail
		event.Error = err.Error()
	}
	e.track(event)
	if err != nil {
		return -1, err
	}
	logger.FromContext(ctx).Debug("document indexed", "doc_id", id, "document", name)
	return id, nil
}

// Documents returns the loaded document names indexed by id.
func (e *Executor) Documents() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Documents()
}

// Execute parses rawQuery and returns the matches of every loaded document.
func (e *Executor) Execute(ctx context.Context, rawQuery string) (*SearchResult, error) {
	start := time.Now()
	queryID := fmt.Sprintf("q-%d", e.nextID.Add(1))
	ctx = logger.WithQueryID(ctx, queryID)
	log := logger.FromContext(ctx)

	plan, err := parser.Parse(rawQuery, e.cfg.Indexer.MinWordLength)
	if err != nil {
		e.observe("invalid", "none", 0, time.Since(start))
		return nil, err
	}
	if len(plan.Unindexable) > 0 {
		log.Debug("query has unindexable terms", "terms", plan.Unindexable)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var results []indexer.Result
	cacheHit := false
	cacheStatus := "disabled"
	if e.cache != nil {
		results, cacheHit, err = e.cache.GetOrCompute(ctx, plan.String(), e.engine.Fingerprint(), func() ([]indexer.Result, error) {
			return e.engine.Search(plan.Terms)
		})
		cacheStatus = "miss"
		if cacheHit {
			cacheStatus = "hit"
		}
		e.countCache(cacheHit)
	} else {
		results, err = e.engine.Search(plan.Terms)
	}
	if err != nil {
		e.observe("error", cacheStatus, 0, time.Since(start))
		log.Error("search failed", "query", rawQuery, "error", err)
		return nil, fmt.Errorf("executing query: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		m, err := e.attachLines(r)
		if err != nil {
			e.observe("error", cacheStatus, 0, time.Since(start))
			return nil, err
		}
		matches = append(matches, m)
	}

	latency := time.Since(start)
	resultType := "hit"
	eventType := analytics.EventSearch
	if len(matches) == 0 {
		resultType = "zero"
		eventType = analytics.EventZeroResult
	}
	e.observe(resultType, cacheStatus, len(matches), latency)
	e.track(analytics.SearchEvent{
		Type:      eventType,
		QueryID:   queryID,
		Query:     rawQuery,
		Terms:     plan.Terms,
		Results:   len(matches),
		LatencyMs: latency.Milliseconds(),
		CacheHit:  cacheHit,
		Timestamp: time.Now(),
	})
	log.Info("query executed",
		"query", rawQuery,
		"terms", plan.Terms,
		"results", len(matches),
		"cache", cacheStatus,
		"latency", latency,
	)

	return &SearchResult{
		QueryID:     queryID,
		Query:       rawQuery,
		Terms:       plan.Terms,
		Unindexable: plan.Unindexable,
		Matches:     matches,
		CacheHit:    cacheHit,
		Latency:     latency,
	}, nil
}

// WordOccurrences lists where a word appears in one document.
type WordOccurrences struct {
	DocID    int    `json:"doc_id"`
	Document string `json:"document"`
	Count    int    `json:"count"`
	// Lines holds the first MaxPrintedLines occurrences, in offset order.
	Lines []OccurrenceLine `json:"lines"`
}

type OccurrenceLine struct {
	Offset int64  `json:"offset"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
}

// Occurrences returns, per document, the places where word was indexed. An
// unindexed word yields an empty slice.
func (e *Executor) Occurrences(ctx context.Context, word string) ([]WordOccurrences, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "usage: :occ <word>")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	list, ok := e.engine.Occurrences(word)
	if !ok {
		logger.FromContext(ctx).Debug("word not indexed", "word", word)
		return []WordOccurrences{}, nil
	}
	out := make([]WordOccurrences, 0, list.DocumentCount())
	for _, occ := range list.Occurrences() {
		doc, ok := e.engine.Document(occ.DocID)
		if !ok {
			return nil, fmt.Errorf("occurrence in document %d: %w", occ.DocID, apperrors.ErrDocumentNotFound)
		}
		wo := WordOccurrences{
			DocID:    occ.DocID,
			Document: doc.Name(),
			Count:    list.PositionCount(occ.DocID),
		}
		positions := occ.Positions.Values()
		if limit := e.cfg.Search.MaxPrintedLines; limit > 0 && len(positions) > limit {
			positions = positions[:limit]
		}
		for _, off := range positions {
			line, err := doc.LineForOffset(off)
			if err != nil {
				return nil, fmt.Errorf("locating %q in %s: %w", word, doc.Name(), err)
			}
			text, err := doc.Lines(line, line)
			if err != nil {
				return nil, fmt.Errorf("reading %q in %s: %w", word, doc.Name(), err)
			}
			wo.Lines = append(wo.Lines, OccurrenceLine{Offset: off, Line: line, Text: text[0]})
		}
		out = append(out, wo)
	}
	return out, nil
}

// Stats summarizes the index and the result cache.
type Stats struct {
	Documents    []string `json:"documents"`
	Words        int      `json:"words"`
	Tokens       int64    `json:"tokens"`
	CacheEnabled bool     `json:"cache_enabled"`
	CacheHits    int64    `json:"cache_hits"`
	CacheMisses  int64    `json:"cache_misses"`
}

func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Stats{
		Documents: e.engine.Documents(),
		Words:     e.engine.WordCount(),
		Tokens:    e.engine.TotalTokens(),
	}
	if e.cache != nil {
		st.CacheEnabled = true
		st.CacheHits, st.CacheMisses = e.cache.Stats()
	}
	return st
}

// ErrCacheDisabled is returned by FlushCache when no cache is configured.
var ErrCacheDisabled = apperrors.New(apperrors.ErrInvalidInput, "the result cache is not enabled")

// FlushCache drops every cached result.
func (e *Executor) FlushCache(ctx context.Context) error {
	if e.cache == nil {
		return ErrCacheDisabled
	}
	return e.cache.Invalidate(ctx)
}

// attachLines reads the lines of r from its document, keeping at most
// MaxPrintedLines of them.
func (e *Executor) attachLines(r indexer.Result) (Match, error) {
	m := Match{Result: r}
	doc, ok := e.engine.Document(r.DocID)
	if !ok {
		return m, fmt.Errorf("result for document %d: %w", r.DocID, apperrors.ErrDocumentNotFound)
	}
	last := r.LastLine
	if limit := e.cfg.Search.MaxPrintedLines; limit > 0 && last-r.FirstLine+1 > limit {
		last = r.FirstLine + limit - 1
		m.Truncated = true
	}
	lines, err := doc.Lines(r.FirstLine, last)
	if err != nil {
		return m, fmt.Errorf("reading lines of %s: %w", doc.Name(), err)
	}
	m.Lines = lines
	return m, nil
}

func (e *Executor) track(event any) {
	if e.tracker != nil {
		e.tracker.Track(event)
	}
}

func (e *Executor) observe(resultType, cacheStatus string, results int, latency time.Duration) {
	if e.metrics == nil {
		return
	}
	e.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	e.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	if resultType == "hit" || resultType == "zero" {
		e.metrics.SearchResultsCount.Observe(float64(results))
	}
}

func (e *Executor) countCache(hit bool) {
	if e.metrics == nil {
		return
	}
	if hit {
		e.metrics.CacheHitsTotal.Inc()
	} else {
		e.metrics.CacheMissesTotal.Inc()
	}
}
