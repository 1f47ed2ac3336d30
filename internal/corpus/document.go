package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Document is an atomic retrievable unit of the knowledge base.
// Content and Metadata are immutable once the document is created;
// embedding vectors are never stored here, they live in the retriever's
// index side-table so the corpus stays mode-agnostic.
type Document struct {
	ID         string         // Stable: source slug + content hash
	Source     string         // Human-readable provenance label
	Content    string         // Retrievable text body, never empty
	Metadata   map[string]any // Scalar fields consumed by formatting, opaque to retrieval
	URL        string         // Optional provenance link ("" when absent)
	Confidence float64        // Static trust score in [0,1], assigned at ingestion
}

// Citation is the compact provenance view consumed by the downstream
// generation collaborator.
type Citation struct {
	Source     string  `json:"source"`
	URL        string  `json:"url,omitempty"`
	Year       int     `json:"year,omitempty"`
	Confidence float64 `json:"confidence"`
}

// NewDocument creates a document with a deterministic ID derived from the
// source label and a content hash. The same source+content pair always
// yields the same ID; different content never reuses an ID.
func NewDocument(source, content string) Document {
	return Document{
		ID:         documentID(source, content),
		Source:     source,
		Content:    content,
		Metadata:   map[string]any{},
		Confidence: 0.8,
	}
}

// Citation converts the document to its citation view. The year is taken
// from metadata when present.
func (d Document) Citation() Citation {
	c := Citation{
		Source:     d.Source,
		URL:        d.URL,
		Confidence: d.Confidence,
	}
	if y, ok := d.Metadata["year"].(int); ok {
		c.Year = y
	}
	return c
}

// Year returns the metadata year, or def when missing or malformed.
func (d Document) Year(def int) int {
	if y, ok := d.Metadata["year"].(int); ok {
		return y
	}
	return def
}

// documentID builds "<source-slug>-<12 hex chars of sha256(content)>".
func documentID(source, content string) string {
	sum := sha256.Sum256([]byte(content))
	return slugify(source) + "-" + hex.EncodeToString(sum[:])[:12]
}

// slugify lowercases the source label and collapses runs of
// non-alphanumeric characters into single dashes.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
