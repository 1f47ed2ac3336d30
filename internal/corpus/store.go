package corpus

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Source loads documents from one dataset. Implementations live in
// internal/sources; each one is independently testable and its failures
// are isolated from the other sources.
type Source interface {
	// Name identifies the source in logs and ingestion stats.
	Name() string
	// Load reads the dataset and converts it into documents.
	Load(ctx context.Context) ([]Document, error)
}

// IngestResult contains statistics about an ingestion run.
type IngestResult struct {
	TotalSources  int
	LoadedSources int
	TotalDocs     int
	FailedSources []FailedSource
	Placeholder   bool // True when every source failed and the fallback corpus was used
	Duration      time.Duration
}

// FailedSource records a source that could not be loaded.
type FailedSource struct {
	Name   string
	Reason string
}

// Store owns the corpus: it runs the ordered source list once at startup
// and exposes the resulting flat document list. After Ingest returns the
// store is read-only.
type Store struct {
	sources []Source
	logger  *slog.Logger
	docs    []Document
}

// NewStore creates a store over a fixed ordered list of sources.
func NewStore(sources []Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sources: sources,
		logger:  logger,
	}
}

// Ingest runs every source in registration order. A failing source is
// logged and skipped; the others still load. When all sources fail or
// yield nothing, a minimal placeholder corpus is installed so the
// retriever never sees an empty document list.
func (s *Store) Ingest(ctx context.Context) *IngestResult {
	start := time.Now()
	result := &IngestResult{TotalSources: len(s.sources)}

	s.docs = s.docs[:0]
	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			result.FailedSources = append(result.FailedSources, FailedSource{
				Name:   src.Name(),
				Reason: err.Error(),
			})
			continue
		}

		docs, err := src.Load(ctx)
		if err != nil {
			s.logger.Warn("source failed, continuing", "source", src.Name(), "error", err)
			result.FailedSources = append(result.FailedSources, FailedSource{
				Name:   src.Name(),
				Reason: err.Error(),
			})
			continue
		}
		s.docs = append(s.docs, docs...)
		result.LoadedSources++
		s.logger.Info("source loaded", "source", src.Name(), "documents", len(docs))
	}

	if len(s.docs) == 0 {
		s.logger.Warn("all sources failed, using placeholder corpus")
		s.docs = placeholderCorpus()
		result.Placeholder = true
	}

	result.TotalDocs = len(s.docs)
	result.Duration = time.Since(start)
	s.logger.Info("ingestion complete",
		"sources", result.LoadedSources,
		"failed", len(result.FailedSources),
		"documents", result.TotalDocs,
		"duration", result.Duration,
	)
	return result
}

// Documents returns the full corpus in stable ingestion order. The
// returned slice is shared and must be treated as read-only.
func (s *Store) Documents() []Document {
	return s.docs
}

// Len reports the corpus size.
func (s *Store) Len() int {
	return len(s.docs)
}

// SearchKeyword scores every document by the number of query tokens that
// occur in its content and returns the topK documents with a positive
// score, ties broken by corpus order. This is the last-resort diagnostic
// path, independent of the retriever.
func (s *Store) SearchKeyword(query string, topK int) []Document {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 || topK <= 0 {
		return nil
	}

	type scored struct {
		pos   int
		score int
	}
	var hits []scored
	for i, doc := range s.docs {
		content := strings.ToLower(doc.Content)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(content, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{pos: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}

	docs := make([]Document, len(hits))
	for i, h := range hits {
		docs[i] = s.docs[h.pos]
	}
	return docs
}

// placeholderCorpus is the fixed fallback set installed when ingestion
// yields nothing. Confidence is deliberately low.
func placeholderCorpus() []Document {
	entries := []struct {
		source  string
		content string
	}{
		{
			source:  "Fallback Knowledge Base",
			content: "Semiconductor manufacturing cost is driven by chip fabrication, energy consumption, carbon taxes, maintenance, and supply chain risk. Government subsidies can offset a significant share of total cost of ownership.",
		},
		{
			source:  "Fallback Knowledge Base",
			content: "Wide-bandgap semiconductors such as SiC and GaN offer higher energy efficiency than traditional Silicon in power applications, at a higher cost per wafer.",
		},
		{
			source:  "Fallback Knowledge Base",
			content: "Regional electricity prices and grid carbon intensity vary widely and directly affect semiconductor fabrication economics.",
		},
	}

	docs := make([]Document, len(entries))
	for i, e := range entries {
		doc := NewDocument(e.source, e.content)
		doc.Metadata["type"] = "placeholder"
		doc.Confidence = 0.5
		docs[i] = doc
	}
	return docs
}
