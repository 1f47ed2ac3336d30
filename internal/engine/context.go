package engine

import (
	"fmt"
	"strings"

	"github.com/fabwise/fabkb/internal/corpus"
)

// RAGContext is the packaged result of one retrieval, handed to the
// generation collaborator and then discarded. Documents and
// RelevanceScores are parallel lists in retrieval order (relevance
// descending); zero matches is a valid, non-error outcome.
type RAGContext struct {
	ID              string // Per-request correlation ID, appears in logs
	Query           string
	Documents       []corpus.Document
	RelevanceScores []float64
}

// FormatContext renders up to maxDocs documents as a prompt block for the
// generation collaborator.
func (c *RAGContext) FormatContext(maxDocs int) string {
	if maxDocs <= 0 || maxDocs > len(c.Documents) {
		maxDocs = len(c.Documents)
	}

	parts := make([]string, 0, maxDocs)
	for i := 0; i < maxDocs; i++ {
		parts = append(parts, fmt.Sprintf("[Source: %s (relevance: %.2f)]\n%s\n",
			c.Documents[i].Source, c.RelevanceScores[i], c.Documents[i].Content))
	}
	return strings.Join(parts, "\n---\n")
}

// Citations returns the provenance view of the retrieved documents,
// deduplicated by source and year, in retrieval order.
func (c *RAGContext) Citations() []corpus.Citation {
	seen := make(map[string]struct{}, len(c.Documents))
	var citations []corpus.Citation
	for _, doc := range c.Documents {
		cit := doc.Citation()
		key := fmt.Sprintf("%s|%d", cit.Source, cit.Year)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		citations = append(citations, cit)
	}
	return citations
}
