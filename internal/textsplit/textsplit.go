// Package textsplit splits long-form text into bounded, overlapping chunks
// for retrieval. Boundaries prefer sentence or paragraph breaks so that a
// chunk rarely cuts mid-thought.
package textsplit

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChars bounds the size of a single chunk.
	DefaultMaxChars = 2000

	// DefaultOverlap is the number of characters shared between
	// consecutive chunks, preserving context across a cut.
	DefaultOverlap = 150
)

// Split breaks text into chunks of at most maxChars bytes. The boundary is
// the last sentence or paragraph break inside the window; when no break
// lies past 50% of the window the hard limit applies. Consecutive chunks
// overlap by overlap characters. Chunks are whitespace-trimmed and never
// empty.
func Split(text string, maxChars, overlap int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = DefaultOverlap
	}

	var chunks []string
	start := 0
	for start < len(text) {
		if start+maxChars >= len(text) {
			if c := strings.TrimSpace(text[start:]); c != "" {
				chunks = append(chunks, c)
			}
			break
		}

		end := runeBoundary(text, start+maxChars)
		window := text[start:end]

		// Prefer a sentence or paragraph break, but only when it lies
		// past half the window; otherwise keep the hard cut.
		if bp := lastBreak(window); bp > maxChars/2 {
			end = start + bp + 1
			window = text[start:end]
		}

		if c := strings.TrimSpace(window); c != "" {
			chunks = append(chunks, c)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// lastBreak returns the byte offset of the last sentence end (". ") or
// paragraph break ("\n\n") in window, or -1 when there is none.
func lastBreak(window string) int {
	p := strings.LastIndex(window, ". ")
	if n := strings.LastIndex(window, "\n\n"); n > p {
		p = n
	}
	return p
}

// runeBoundary moves pos down to the nearest rune start so a hard cut
// never splits a multi-byte character.
func runeBoundary(s string, pos int) int {
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}
