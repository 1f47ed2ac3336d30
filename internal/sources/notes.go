package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fabwise/fabkb/internal/corpus"
	"github.com/fabwise/fabkb/internal/markdown"
)

// Sections shorter than this carry too little signal to retrieve.
const minSectionChars = 100

// overviewChars caps the preamble overview document.
const overviewChars = 2000

// SourceNotesSource loads hand-maintained markdown notes documenting the
// underlying datasets (subsidy programs, carbon tax rates, cost
// benchmarks). Every file yields an overview document from its preamble
// plus one document per H1/H2 section, so retrieval can land on a single
// section instead of a whole file.
type SourceNotesSource struct {
	dir      string
	splitter *markdown.Splitter
	maxChars int
}

// NewSourceNotesSource creates the adapter over a directory of *.md files.
func NewSourceNotesSource(dir string, splitter *markdown.Splitter, maxChars int) *SourceNotesSource {
	return &SourceNotesSource{
		dir:      dir,
		splitter: splitter,
		maxChars: maxChars,
	}
}

func (s *SourceNotesSource) Name() string { return "source-notes" }

// Load converts every markdown file in the directory. A file that fails
// to parse is skipped; the source only fails when nothing loads at all.
func (s *SourceNotesSource) Load(ctx context.Context) ([]corpus.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(s.dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", s.dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: no markdown notes found", s.dir)
	}

	var docs []corpus.Document
	for _, path := range paths {
		fileDocs, err := s.loadFile(path)
		if err != nil {
			continue
		}
		docs = append(docs, fileDocs...)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no usable notes", s.dir)
	}
	return docs, nil
}

func (s *SourceNotesSource) loadFile(path string) ([]corpus.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sections, err := s.splitter.Split(raw)
	if err != nil {
		return nil, err
	}

	title := noteTitle(sections, path)
	file := filepath.Base(path)
	var docs []corpus.Document

	for _, sec := range sections {
		if len(sec.Content) < minSectionChars {
			continue
		}

		label := title
		sectionName := "overview"
		if sec.Title != "" && sec.Title != title {
			label = fmt.Sprintf("%s - %s", title, sec.Title)
			sectionName = sec.Title
		}

		max := s.maxChars
		if sectionName == "overview" {
			max = overviewChars
		}

		doc := corpus.NewDocument(label, truncate(sec.Content, max))
		doc.URL = "file://" + path
		doc.Confidence = 1.0
		doc.Metadata = map[string]any{
			"type":    "data_source_notes",
			"file":    file,
			"section": sectionName,
			"year":    defaultYear,
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// noteTitle prefers the file's first H1 heading and falls back to the
// filename stem.
func noteTitle(sections []markdown.Section, path string) string {
	for _, sec := range sections {
		if sec.Title != "" {
			return sec.Title
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
