// Package engine assembles retrieval context for explanation and chat
// requests. It owns the one-time initialization of the document store and
// retriever, turns structured requests into search queries, and packages
// ranked results into RAGContext objects for the generation collaborator.
package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fabwise/fabkb/internal/corpus"
	"github.com/fabwise/fabkb/internal/retriever"
	"github.com/fabwise/fabkb/internal/tco"
)

// DefaultTopK is the number of documents retrieved when the caller does
// not specify one.
const DefaultTopK = 5

// Engine is the application-scoped context assembler, constructed once at
// startup and shared across requests. Initialization runs at most once;
// the first retrieval call triggers it synchronously when the background
// task has not finished yet.
type Engine struct {
	store     *corpus.Store
	retriever *retriever.Retriever
	logger    *slog.Logger

	mu       sync.Mutex
	initDone chan struct{} // non-nil once init started, closed when finished
	initErr  error
}

// New wires an engine over the store and retriever.
func New(store *corpus.Store, retr *retriever.Retriever, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:     store,
		retriever: retr,
		logger:    logger,
	}
}

// StartBackground kicks off initialization without blocking the caller.
// Request handlers can observe Ready() and degrade while it runs.
func (e *Engine) StartBackground() {
	go func() {
		if err := e.ensureInit(context.Background()); err != nil {
			e.logger.Error("background initialization failed", "error", err)
		}
	}()
}

// Ready reports whether initialization has completed successfully.
// Callers seeing false should answer from structured data only rather
// than block.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	done := e.initDone
	e.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.initErr == nil
	default:
		return false
	}
}

// ensureInit runs initialization exactly once (single-flight); concurrent
// callers wait for the first one. The ingest itself runs detached from the
// triggering caller's context so one canceled request cannot poison the
// shared corpus.
func (e *Engine) ensureInit(ctx context.Context) error {
	e.mu.Lock()
	done := e.initDone
	if done == nil {
		done = make(chan struct{})
		e.initDone = done
		go func() {
			err := e.initialize(context.WithoutCancel(ctx))
			e.mu.Lock()
			e.initErr = err
			e.mu.Unlock()
			close(done)
		}()
	}
	e.mu.Unlock()

	select {
	case <-done:
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// initialize ingests the corpus and builds the retrieval index.
func (e *Engine) initialize(ctx context.Context) error {
	e.logger.Info("initializing knowledge engine")
	result := e.store.Ingest(ctx)
	if result.Placeholder {
		e.logger.Warn("running on placeholder corpus")
	}
	if err := e.retriever.Init(ctx, e.store.Documents()); err != nil {
		return err
	}
	e.logger.Info("knowledge engine ready",
		"documents", e.store.Len(),
		"mode", e.retriever.Mode().String(),
	)
	return nil
}

// RetrieveContext retrieves grounding for a structured result-explanation
// request. The query is derived from the request's subject identifiers
// and the dominant cost drivers of the result.
func (e *Engine) RetrieveContext(ctx context.Context, req tco.PredictRequest, result tco.PredictResponse, topK int) (*RAGContext, error) {
	return e.retrieve(ctx, buildResultQuery(result), topK)
}

// RetrieveContextFromQuery retrieves grounding for a raw free-text query.
func (e *Engine) RetrieveContextFromQuery(ctx context.Context, query string, topK int) (*RAGContext, error) {
	return e.retrieve(ctx, query, topK)
}

// RetrieveChatContext retrieves grounding for a conversational question,
// enriching the query with domain key-terms, the attached calculation's
// identifiers, and the most recent prior user utterance.
func (e *Engine) RetrieveChatContext(ctx context.Context, question string, tcoCtx *tco.PredictResponse, history []tco.ChatMessage, topK int) (*RAGContext, error) {
	return e.retrieve(ctx, buildChatQuery(question, tcoCtx, history), topK)
}

// retrieve runs one query through the retriever and packages the results.
// Ranking authority belongs entirely to the retriever; retrieval order is
// preserved as-is.
func (e *Engine) retrieve(ctx context.Context, query string, topK int) (*RAGContext, error) {
	if err := e.ensureInit(ctx); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	id := uuid.New().String()
	e.logger.Debug("retrieving context", "context_id", id, "query", query, "top_k", topK)

	results, err := e.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	rc := &RAGContext{
		ID:              id,
		Query:           query,
		Documents:       make([]corpus.Document, len(results)),
		RelevanceScores: make([]float64, len(results)),
	}
	for i, res := range results {
		rc.Documents[i] = res.Document
		rc.RelevanceScores[i] = res.Score
	}

	e.logger.Info("context assembled", "context_id", id, "documents", len(rc.Documents))
	return rc, nil
}
