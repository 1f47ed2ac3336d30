package textsplit

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortText(t *testing.T) {
	chunks := Split("A short report.", 2000, 150)
	require.Len(t, chunks, 1)
	assert.Equal(t, "A short report.", chunks[0])
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, Split("", 2000, 150))
	assert.Empty(t, Split("   \n  ", 2000, 150))
}

func TestSplit_SentenceBoundary(t *testing.T) {
	text := "First sentence here. Second sentence goes here. Third."
	chunks := Split(text, 30, 0)

	require.Equal(t, []string{
		"First sentence here.",
		"Second sentence goes here.",
		"Third.",
	}, chunks)
}

func TestSplit_HardCutWhenNoBoundary(t *testing.T) {
	text := strings.Repeat("word ", 100) // no sentence breaks
	chunks := Split(text, 100, 10)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), 100, "chunk %d too long", i)
		assert.NotEmpty(t, c)
	}
}

func TestSplit_EarlyBoundaryIgnored(t *testing.T) {
	// The only sentence break sits in the first half of the window, so
	// the hard cut applies instead of a tiny chunk.
	text := "Hi. " + strings.Repeat("x", 200)
	chunks := Split(text, 100, 0)
	require.NotEmpty(t, chunks)
	assert.Greater(t, len(chunks[0]), 50)
}

func TestSplit_Overlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Sentence number filler content goes right here. ")
	}
	chunks := Split(b.String(), 400, 100)
	require.Greater(t, len(chunks), 1)

	// Consecutive chunks share the overlap region.
	tail := chunks[0][len(chunks[0])-40:]
	assert.Contains(t, chunks[1], strings.TrimSpace(tail))
}

func TestSplit_CoversFullText(t *testing.T) {
	text := strings.Repeat("Alpha beta gamma delta. ", 50)
	chunks := Split(text, 120, 20)
	require.NotEmpty(t, chunks)

	assert.True(t, strings.HasPrefix(text, chunks[0]))
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(strings.TrimSpace(text), last))
}

func TestSplit_NoGapsBetweenChunks(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "Sentence number %02d carries unique coverage content. ", i)
	}
	text := b.String()
	overlap := 40
	chunks := Split(text, 250, overlap)
	require.Greater(t, len(chunks), 2)

	// Each chunk is a contiguous slice of the original; consecutive
	// chunks leave no gap longer than the trimmed whitespace around the
	// overlap region.
	prevEnd := 0
	pos := 0
	for i, c := range chunks {
		idx := strings.Index(text[pos:], c)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found in text", i)
		start := pos + idx
		if i > 0 {
			assert.LessOrEqual(t, start, prevEnd, "gap before chunk %d", i)
		}
		prevEnd = start + len(c)
		pos = start
	}
}

func TestSplit_DefaultsApplied(t *testing.T) {
	text := strings.Repeat("Some sentence content here. ", 200)

	// Invalid knobs fall back to defaults instead of panicking or
	// looping.
	chunks := Split(text, 0, -1)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), DefaultMaxChars)
	}

	// Overlap >= maxChars would never advance; it resets to default.
	chunks = Split(text, 500, 500)
	assert.NotEmpty(t, chunks)
}

func TestSplit_RuneBoundary(t *testing.T) {
	text := strings.Repeat("é", 300)
	chunks := Split(text, 101, 0) // 101 falls mid-rune for 2-byte runes

	for i, c := range chunks {
		assert.True(t, strings.HasPrefix(c, "é"), "chunk %d starts mid-rune", i)
		assert.Equal(t, 0, len(c)%2, "chunk %d split a rune", i)
	}
}
