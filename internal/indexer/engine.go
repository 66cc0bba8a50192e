package indexer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cespare/xxhash/v2"

	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/document"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/dynarray"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/hashmap"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/proximity"
	"github.com/Adithya-Monish-Kumar-K/textsearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/textsearch/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/textsearch/pkg/metrics"
)

// Result locates one proximity match: the line range of document DocID that
// holds every query term within the context window.
type Result struct {
	DocID       int    `json:"doc_id"`
	Document    string `json:"document"`
	FirstLine   int    `json:"first_line"`
	LastLine    int    `json:"last_line"`
	StartOffset int64  `json:"start_offset"`
	EndOffset   int64  `json:"end_offset"`
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine is the inverted index. It maps every indexed word to the documents
// and byte offsets where it occurs, and keeps the loaded documents open so
// that matches can be turned into line numbers and printed.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	words       *hashmap.Map[*index.OccurrenceList]
	docs        []*document.Document
	digests     []uint64
	cfg         config.IndexerConfig
	logger      *slog.Logger
	metrics     *metrics.Metrics
	totalTokens int64
}

func NewEngine(cfg config.IndexerConfig, opts ...Option) *Engine {
	e := &Engine{
		words:  hashmap.NewWithCapacity[*index.OccurrenceList](cfg.InitialTableCapacity),
		docs:   make([]*document.Document, 0, cfg.MaxOpenDocuments),
		cfg:    cfg,
		logger: slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.updateGauges()
	return e
}

// LoadDocument opens name, assigns it the next document id and indexes every
// word in it. Nothing is changed when the document limit is reached, the file
// cannot be opened or read, or its words cannot be added to the word table.
func (e *Engine) LoadDocument(name string) (int, error) {
	if len(e.docs) >= e.cfg.MaxOpenDocuments {
		e.countLoad("limit")
		return -1, fmt.Errorf("loading %s: %w (%d)", name, apperrors.ErrTooManyDocuments, e.cfg.MaxOpenDocuments)
	}
	doc, err := document.Open(name)
	if err != nil {
		if errors.Is(err, apperrors.ErrDocumentNotFound) {
			e.countLoad("not_found")
		} else {
			e.countLoad("error")
		}
		e.logger.Error("failed to open document", "document", name, "error", err)
		return -1, fmt.Errorf("loading document: %w", err)
	}

	id := len(e.docs)
	terms, tokens, digest, err := e.stage(id, doc)
	if err != nil {
		doc.Close()
		e.countLoad("error")
		e.logger.Error("failed to tokenize document", "document", name, "error", err)
		return -1, fmt.Errorf("tokenizing %s: %w", name, err)
	}

	// Registered before committing so that every recorded position refers
	// to an open document.
	e.docs = append(e.docs, doc)
	e.digests = append(e.digests, digest)
	if err := e.commit(terms); err != nil {
		e.rollback(id, terms)
		e.countLoad("error")
		e.updateGauges()
		e.logger.Error("failed to index document", "document", name, "error", err)
		return -1, fmt.Errorf("indexing %s: %w", name, err)
	}
	e.totalTokens += int64(tokens)

	e.countLoad("ok")
	if e.metrics != nil {
		e.metrics.TokensIndexedTotal.Add(float64(tokens))
	}
	e.updateGauges()
	e.logger.Info("document loaded",
		"doc_id", id,
		"document", name,
		"bytes", doc.Size(),
		"tokens", tokens,
		"distinct_words", terms.Len(),
		"indexed_words", e.words.Len(),
	)
	return id, nil
}

// stage tokenizes doc into a per-document table of word -> occurrences and
// hashes its content.
func (e *Engine) stage(docID int, doc *document.Document) (*hashmap.Map[*index.OccurrenceList], int, uint64, error) {
	terms := hashmap.New[*index.OccurrenceList]()
	digest := xxhash.New()
	tokens := 0
	err := tokenizer.Scan(io.TeeReader(doc.Reader(), digest), e.cfg.MinWordLength, func(tok tokenizer.Token) error {
		list, ok := terms.Get(tok.Term)
		if !ok {
			list = index.NewOccurrenceList()
			if err := terms.Put(tok.Term, list); err != nil {
				return err
			}
		}
		tokens++
		return list.Add(docID, tok.Offset)
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return terms, tokens, digest.Sum64(), nil
}

func (e *Engine) commit(terms *hashmap.Map[*index.OccurrenceList]) error {
	for term, staged := range terms.All() {
		list, ok := e.words.Get(term)
		if !ok {
			list = index.NewOccurrenceList()
			if err := e.words.Put(term, list); err != nil {
				return fmt.Errorf("adding word %q: %w", term, err)
			}
		}
		list.Merge(staged)
	}
	return nil
}

// rollback undoes a partial commit of document docID, which must be the most
// recently registered document.
func (e *Engine) rollback(docID int, terms *hashmap.Map[*index.OccurrenceList]) {
	for term := range terms.All() {
		list, ok := e.words.Get(term)
		if !ok {
			continue
		}
		list.RemoveDocument(docID)
		if list.DocumentCount() == 0 {
			e.words.Remove(term)
		}
	}
	if err := e.docs[docID].Close(); err != nil {
		e.logger.Error("closing document", "document", e.docs[docID].Name(), "error", err)
	}
	e.docs = e.docs[:docID]
	e.digests = e.digests[:docID]
}

// Search returns, for every loaded document in id order, the first place
// where all terms occur within the configured context window. Terms are
// matched case-insensitively and duplicates count once.
func (e *Engine) Search(terms []string) ([]Result, error) {
	normalized := normalizeTerms(terms)
	if len(normalized) == 0 {
		return nil, fmt.Errorf("searching: no terms: %w", apperrors.ErrInvalidInput)
	}

	lists := make([]*index.OccurrenceList, len(normalized))
	for i, term := range normalized {
		list, ok := e.words.Get(term)
		if !ok {
			e.logger.Debug("term not indexed", "term", term)
			return []Result{}, nil
		}
		lists[i] = list
	}

	results := make([]Result, 0, len(e.docs))
	streams := make([]*dynarray.Array[int64], len(lists))
	for docID, doc := range e.docs {
		if !collectStreams(lists, docID, streams) {
			continue
		}
		merged := proximity.Merge(streams...)
		w, ok := proximity.Find(merged.Values(), len(normalized), e.cfg.ContextWindow)
		if !ok {
			continue
		}
		first, err := doc.LineForOffset(w.Start)
		if err != nil {
			return nil, fmt.Errorf("locating match in %s: %w", doc.Name(), err)
		}
		last, err := doc.LineForOffset(w.End)
		if err != nil {
			return nil, fmt.Errorf("locating match in %s: %w", doc.Name(), err)
		}
		results = append(results, Result{
			DocID:       docID,
			Document:    doc.Name(),
			FirstLine:   first,
			LastLine:    last,
			StartOffset: w.Start,
			EndOffset:   w.End,
		})
	}
	e.logger.Debug("search complete",
		"terms", normalized,
		"documents", len(e.docs),
		"results", len(results),
	)
	return results, nil
}

// collectStreams fills streams with each term's positions in docID and
// reports whether every term occurs there.
func collectStreams(lists []*index.OccurrenceList, docID int, streams []*dynarray.Array[int64]) bool {
	for i, list := range lists {
		occ, ok := list.Find(docID)
		if !ok {
			return false
		}
		streams[i] = occ.Positions
	}
	return true
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		n := tokenizer.Normalize(t)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Occurrences returns the occurrence list of an indexed word.
func (e *Engine) Occurrences(word string) (*index.OccurrenceList, bool) {
	return e.words.Get(tokenizer.Normalize(word))
}

// Document returns the open document with the given id.
func (e *Engine) Document(id int) (*document.Document, bool) {
	if id < 0 || id >= len(e.docs) {
		return nil, false
	}
	return e.docs[id], true
}

// Fingerprint identifies what a search runs against: the index settings and
// the content of every loaded document in id order. Two engines with equal
// fingerprints answer every query identically.
func (e *Engine) Fingerprint() []string {
	out := make([]string, 0, len(e.docs)+1)
	out = append(out, fmt.Sprintf("minlen=%d window=%d", e.cfg.MinWordLength, e.cfg.ContextWindow))
	for i, d := range e.docs {
		out = append(out, fmt.Sprintf("%s:%d:%016x", d.Name(), d.Size(), e.digests[i]))
	}
	return out
}

// Documents returns the names of the loaded documents, indexed by id.
func (e *Engine) Documents() []string {
	names := make([]string, len(e.docs))
	for i, d := range e.docs {
		names[i] = d.Name()
	}
	return names
}

func (e *Engine) DocumentCount() int {
	return len(e.docs)
}

// WordCount returns the number of distinct indexed words.
func (e *Engine) WordCount() int {
	return e.words.Len()
}

func (e *Engine) TotalTokens() int64 {
	return e.totalTokens
}

// Close releases the word table and closes every document. The Engine must
// not be used afterwards.
func (e *Engine) Close() error {
	e.words.Clear()
	var errs []error
	for _, d := range e.docs {
		if err := d.Close(); err != nil {
			e.logger.Error("closing document", "document", d.Name(), "error", err)
			errs = append(errs, fmt.Errorf("closing %s: %w", d.Name(), err))
		}
	}
	e.docs = nil
	e.digests = nil
	e.updateGauges()
	return errors.Join(errs...)
}

func (e *Engine) countLoad(status string) {
	if e.metrics != nil {
		e.metrics.DocumentsLoadedTotal.WithLabelValues(status).Inc()
	}
}

func (e *Engine) updateGauges() {
	if e.metrics == nil {
		return
	}
	e.metrics.OpenDocuments.Set(float64(len(e.docs)))
	e.metrics.IndexedWords.Set(float64(e.words.Len()))
	e.metrics.WordTableCapacity.Set(float64(e.words.Cap()))
	e.metrics.WordTableResizes.Set(float64(e.words.Resizes()))
	e.metrics.WordTableTombstones.Set(float64(e.words.Tombstones()))
}
