// Package embedding generates dense vectors for corpus documents and
// queries through an external backend. Corpus and query vectors always
// come from the same model so cosine similarity between them is
// meaningful.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

const (
	// DefaultModel is the embedding model used for both indexing and
	// query embedding.
	DefaultModel = "text-embedding-3-small"

	// DefaultBatchSize bounds peak memory and backend request size
	// during index construction.
	DefaultBatchSize = 64
)

// Embedder batches texts against the backend and retries rate-limited
// requests with exponential backoff. Any other failure is permanent and
// surfaces to the caller, which decides whether to fall back to sparse
// retrieval.
type Embedder struct {
	client    *Client
	model     string
	batchSize int
}

// NewEmbedder creates an Embedder. Zero batchSize and empty model select
// the defaults.
func NewEmbedder(client *Client, model string, batchSize int) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Embedder{
		client:    client,
		model:     model,
		batchSize: batchSize,
	}
}

// Embed generates one vector per input text, preserving input order.
// Results are validated against the input count and for uniform
// dimensions; a malformed response is an error, never a partial result.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var all [][]float32

	for i := 0; i < len(texts); i += e.batchSize {
		end := min(i+e.batchSize, len(texts))
		vectors, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
		all = append(all, vectors...)
	}

	if err := validateShape(all, len(texts)); err != nil {
		return nil, err
	}
	return all, nil
}

// EmbedQuery generates the vector for a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vectors, err := e.embedBatch(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("backend returned %d vectors for single query", len(vectors))
	}
	return vectors[0], nil
}

// embedBatch sends one batch, retrying rate-limit errors (HTTP 429) with
// exponential backoff. Other errors fail immediately.
func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	operation := func() error {
		resp, err := e.client.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model: e.model,
		})
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		vectors = make([][]float32, len(resp.Data))
		for i, data := range resp.Data {
			vectors[i] = toFloat32(data.Embedding)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return vectors, nil
}

// validateShape rejects responses with a missing vector or inconsistent
// dimensions. Index/document alignment depends on this.
func validateShape(vectors [][]float32, want int) error {
	if len(vectors) != want {
		return fmt.Errorf("backend returned %d vectors for %d texts", len(vectors), want)
	}
	if want == 0 {
		return nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return errors.New("backend returned empty vector")
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return nil
}

// isRateLimitError reports whether err is an HTTP 429 from the backend.
func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// toFloat32 narrows the backend's float64 vectors for index storage.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
