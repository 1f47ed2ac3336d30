package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fabwise/fabkb/internal/corpus"
	"github.com/fabwise/fabkb/internal/textsplit"
)

// Reports shorter than this are most likely failed text extractions.
const minReportChars = 100

// ReportSource loads long-form report text (policy documents, research
// papers, pre-extracted PDF text) from a directory of *.txt files and
// chunks each one with overlap. The chunk count per report is capped to
// bound ingestion cost.
type ReportSource struct {
	dir  string
	opts ChunkOptions
}

// NewReportSource creates the adapter over a directory of report files.
func NewReportSource(dir string, opts ChunkOptions) *ReportSource {
	return &ReportSource{dir: dir, opts: opts}
}

func (s *ReportSource) Name() string { return "reports" }

// Load chunks every report file. Unreadable or near-empty files are
// skipped; the source fails only when the directory yields nothing.
func (s *ReportSource) Load(ctx context.Context) ([]corpus.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", s.dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: no report files found", s.dir)
	}

	var docs []corpus.Document
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(raw))
		if len(text) < minReportChars {
			continue
		}

		chunks := textsplit.Split(text, s.opts.MaxChars, s.opts.Overlap)
		if max := s.opts.MaxChunksPerDoc; max > 0 && len(chunks) > max {
			chunks = chunks[:max]
		}

		base := filepath.Base(path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		for i, chunk := range chunks {
			doc := corpus.NewDocument(fmt.Sprintf("%s (Part %d/%d)", stem, i+1, len(chunks)), chunk)
			doc.URL = "file://" + path
			doc.Confidence = 0.95
			doc.Metadata = map[string]any{
				"type":         "report",
				"file":         base,
				"chunk":        i + 1,
				"total_chunks": len(chunks),
				"year":         defaultYear,
			}
			docs = append(docs, doc)
		}
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no usable reports", s.dir)
	}
	return docs, nil
}
