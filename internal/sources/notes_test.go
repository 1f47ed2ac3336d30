package sources

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabwise/fabkb/internal/markdown"
)

var noteMarkdown = `# Subsidy Rate Sources

This file documents where the regional subsidy rates come from, how they
were normalized, and which programs they cover across the dataset.

## EU Chips Act

The EU Chips Act rates were taken from the official program documentation
published by the European Commission, covering FOAK facilities and
wide-bandgap semiconductor manufacturing lines in member states.

## Tiny

Too short.
`

func TestSourceNotesSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "subsidies.md", noteMarkdown)

	src := NewSourceNotesSource(dir, markdown.NewSplitter(), 2000)
	docs, err := src.Load(context.Background())
	require.NoError(t, err)

	// The H1 becomes the overview, the long H2 its own document, and the
	// short section is dropped.
	require.Len(t, docs, 2)

	overview := docs[0]
	assert.Equal(t, "Subsidy Rate Sources", overview.Source)
	assert.Equal(t, "overview", overview.Metadata["section"])
	assert.Contains(t, overview.Content, "regional subsidy rates")
	assert.Equal(t, 1.0, overview.Confidence)
	assert.Equal(t, "data_source_notes", overview.Metadata["type"])

	section := docs[1]
	assert.Equal(t, "Subsidy Rate Sources - EU Chips Act", section.Source)
	assert.Equal(t, "EU Chips Act", section.Metadata["section"])
	assert.Contains(t, section.Content, "European Commission")
}

func TestSourceNotesSource_TruncatesSections(t *testing.T) {
	dir := t.TempDir()
	long := "# Title\n\n## Section\n\n" + strings.Repeat("filler content ", 100)
	writeFile(t, dir, "long.md", long)

	src := NewSourceNotesSource(dir, markdown.NewSplitter(), 200)
	docs, err := src.Load(context.Background())
	require.NoError(t, err)

	for _, doc := range docs {
		if doc.Metadata["section"] != "overview" {
			assert.LessOrEqual(t, len(doc.Content), 200)
		}
	}
}

func TestSourceNotesSource_EmptyDir(t *testing.T) {
	src := NewSourceNotesSource(t.TempDir(), markdown.NewSplitter(), 2000)
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestNoteTitle_FallsBackToFilename(t *testing.T) {
	sections := []markdown.Section{{Content: "no headings here"}}
	assert.Equal(t, "notes", noteTitle(sections, "/data/notes.md"))
}
