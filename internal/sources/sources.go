// Package sources implements the dataset adapters that feed the corpus.
// Each adapter converts one heterogeneous dataset into documents; adapters
// are registered in a fixed ordered list and the store isolates their
// failures from each other.
package sources

import (
	"path/filepath"
	"unicode/utf8"

	"github.com/fabwise/fabkb/internal/corpus"
	"github.com/fabwise/fabkb/internal/markdown"
)

// ChunkOptions bounds long-form text chunking for notes and reports.
type ChunkOptions struct {
	MaxChars        int // Hard upper bound per chunk
	Overlap         int // Characters shared between consecutive chunks
	MaxChunksPerDoc int // Cap per report, bounds ingestion cost
}

// DefaultChunkOptions mirrors the knobs the report pipeline was tuned
// with.
func DefaultChunkOptions() ChunkOptions {
	return ChunkOptions{
		MaxChars:        2000,
		Overlap:         150,
		MaxChunksPerDoc: 10,
	}
}

// DefaultSet returns the standard ordered adapter list over a data
// directory. Order is fixed so the corpus (and therefore index alignment
// and tie-breaks) is reproducible across runs.
func DefaultSet(dataDir string, opts ChunkOptions) []corpus.Source {
	return []corpus.Source{
		NewFabCapacitySource(filepath.Join(dataDir, "fab_capacity.csv")),
		NewMaterialCatalogSource(filepath.Join(dataDir, "materials.db")),
		NewEnergyPriceSource(filepath.Join(dataDir, "energy_prices.json")),
		NewPolicyFactsSource(),
		NewSourceNotesSource(dataDir, markdown.NewSplitter(), opts.MaxChars),
		NewReportSource(filepath.Join(dataDir, "reports"), opts),
	}
}

// truncate caps s at max bytes, backing off to a rune boundary.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
