// Package retriever ranks the corpus against free-text queries. It runs in
// one of two mutually exclusive modes chosen at initialization: dense
// vector similarity when the embedding backend is reachable, sparse token
// overlap otherwise. The fallback is total; a partially embedded corpus is
// never served because index/document alignment must hold.
package retriever

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fabwise/fabkb/internal/corpus"
)

// Backend generates embedding vectors. Corpus and query embeddings must
// come from the same backend and model, otherwise similarity between them
// is meaningless.
type Backend interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// Mode identifies the active retrieval strategy.
type Mode int

const (
	ModeUninitialized Mode = iota
	ModeDense
	ModeSparse
)

func (m Mode) String() string {
	switch m {
	case ModeDense:
		return "dense"
	case ModeSparse:
		return "sparse"
	default:
		return "uninitialized"
	}
}

// Result pairs a corpus document with its per-query relevance score. In
// dense mode the score is a raw cosine similarity; in sparse mode it is a
// normalized overlap ratio in [0,1]. Scores order results within one mode
// and are not comparable across modes.
type Result struct {
	Document corpus.Document
	Score    float64
}

// Retriever ranks a fixed corpus. After Init succeeds it is read-only and
// safe for concurrent Retrieve calls.
type Retriever struct {
	backend Backend // nil means sparse-only operation
	logger  *slog.Logger

	mu     sync.Mutex
	idx    index
	sparse *sparseIndex // always built; per-call fallback target in dense mode
}

// New creates an uninitialized retriever. A nil backend skips dense
// indexing entirely.
func New(backend Backend, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		backend: backend,
		logger:  logger,
	}
}

// Init builds the index over docs. An empty corpus is a configuration
// error and fails fast. Any failure while building the dense index (no
// backend, network or auth errors, malformed responses) falls back to
// sparse mode silently; the error is logged, never surfaced. Calling Init
// on an already initialized retriever is a no-op.
func (r *Retriever) Init(ctx context.Context, docs []corpus.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idx != nil {
		return nil
	}
	if len(docs) == 0 {
		return ErrEmptyCorpus
	}

	r.sparse = newSparseIndex(docs)
	r.idx = r.buildIndex(ctx, docs)
	r.logger.Info("retriever ready", "mode", r.idx.mode().String(), "documents", len(docs))
	return nil
}

// buildIndex attempts dense construction and falls back to sparse.
func (r *Retriever) buildIndex(ctx context.Context, docs []corpus.Document) index {
	if r.backend == nil {
		r.logger.Info("no embedding backend configured, using sparse retrieval")
		return r.sparse
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := r.backend.Embed(ctx, texts)
	if err != nil {
		r.logger.Warn("dense index build failed, falling back to sparse", "error", err)
		return r.sparse
	}
	return newDenseIndex(r.backend, docs, vectors)
}

// Mode reports the active mode.
func (r *Retriever) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idx == nil {
		return ModeUninitialized
	}
	return r.idx.mode()
}

// Ready reports whether Init has completed.
func (r *Retriever) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx != nil
}

// Retrieve returns up to topK documents ranked by relevance descending,
// ties broken by corpus order. A transient dense-mode failure (backend
// timeout, malformed response) degrades to sparse scoring for this call
// only; dense mode stays active for subsequent calls.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Result, error) {
	r.mu.Lock()
	idx, sparse := r.idx, r.sparse
	r.mu.Unlock()

	if idx == nil {
		return nil, ErrNotInitialized
	}
	if topK <= 0 {
		return nil, nil
	}

	results, err := idx.search(ctx, query, topK)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.logger.Warn("dense retrieval failed, sparse fallback for this query", "error", err)
		return sparse.search(ctx, query, topK)
	}
	return results, nil
}
