package retriever

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/fabwise/fabkb/internal/corpus"
)

// index is the active retrieval strategy. Exactly one variant exists per
// initialized retriever, so dispatch is exhaustive and never a nil-check
// on optional vector fields.
type index interface {
	mode() Mode
	search(ctx context.Context, query string, topK int) ([]Result, error)
}

// denseIndex holds one embedding vector per corpus document, aligned by
// position. Vectors are owned here, never attached to the documents.
type denseIndex struct {
	backend Backend
	docs    []corpus.Document
	vectors [][]float32
	norms   []float64
}

func newDenseIndex(backend Backend, docs []corpus.Document, vectors [][]float32) *denseIndex {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = vectorNorm(v)
	}
	return &denseIndex{
		backend: backend,
		docs:    docs,
		vectors: vectors,
		norms:   norms,
	}
}

func (d *denseIndex) mode() Mode { return ModeDense }

// search embeds the query with the index's own backend and ranks every
// document by cosine similarity. Scores are raw similarities; callers get
// a relative ordering, not an absolute scale.
func (d *denseIndex) search(ctx context.Context, query string, topK int) ([]Result, error) {
	qv, err := d.backend.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	qnorm := vectorNorm(qv)

	results := make([]Result, len(d.docs))
	for i := range d.docs {
		results[i] = Result{
			Document: d.docs[i],
			Score:    cosine(d.vectors[i], d.norms[i], qv, qnorm),
		}
	}

	// Stable sort keeps corpus order as the tie-break.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// sparseIndex scores documents by normalized token overlap. It needs no
// backend and never fails.
type sparseIndex struct {
	docs   []corpus.Document
	tokens []map[string]struct{} // lowercase token set per document
}

func newSparseIndex(docs []corpus.Document) *sparseIndex {
	tokens := make([]map[string]struct{}, len(docs))
	for i, doc := range docs {
		tokens[i] = tokenSet(doc.Content)
	}
	return &sparseIndex{docs: docs, tokens: tokens}
}

func (s *sparseIndex) mode() Mode { return ModeSparse }

// search scores each document as |query∩doc| / |query| over lowercase
// whitespace token sets. Documents with zero overlap are dropped; results
// are never padded to topK.
func (s *sparseIndex) search(_ context.Context, query string, topK int) ([]Result, error) {
	qtokens := tokenSet(query)
	if len(qtokens) == 0 {
		return nil, nil
	}

	var results []Result
	for i := range s.docs {
		overlap := 0
		for tok := range qtokens {
			if _, ok := s.tokens[i][tok]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		results = append(results, Result{
			Document: s.docs[i],
			Score:    float64(overlap) / float64(len(qtokens)),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// tokenSet lowercases and splits on whitespace into a set.
func tokenSet(text string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// cosine computes similarity given precomputed norms. Zero-norm vectors
// score zero rather than NaN.
func cosine(a []float32, anorm float64, b []float32, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
