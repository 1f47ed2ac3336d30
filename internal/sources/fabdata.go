package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fabwise/fabkb/internal/corpus"
)

// Defaults applied when optional tabular fields are missing or malformed.
const (
	defaultYear        = 2024
	defaultDataQuality = "unknown"
)

// FabCapacitySource loads semiconductor fabrication capacity records from
// a CSV file. Each row becomes one document whose content is a synthesized
// sentence and whose metadata carries the row's fields verbatim.
type FabCapacitySource struct {
	path string
}

// NewFabCapacitySource creates the adapter for the given CSV path.
func NewFabCapacitySource(path string) *FabCapacitySource {
	return &FabCapacitySource{path: path}
}

func (s *FabCapacitySource) Name() string { return "fab-capacity" }

// Load reads the CSV and converts every row. Rows without a material are
// skipped; missing optional fields degrade to documented defaults.
func (s *FabCapacitySource) Load(ctx context.Context) ([]corpus.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", s.path)
	}

	cols := headerIndex(records[0])
	var docs []corpus.Document
	for _, row := range records[1:] {
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		material := field("material")
		if material == "" {
			continue
		}

		techNode := field("technology_node_nm")
		globalCap := parseFloat(field("global_capacity_wafers_per_year"))
		euCap := parseFloat(field("eu_capacity_wafers_per_year"))
		euShare := parseFloat(field("eu_share_pct"))
		energy := parseFloat(field("energy_kwh_per_wafer"))
		co2 := parseFloat(field("co2_kg_per_wafer"))
		cost := parseFloat(field("avg_cost_per_wafer_eur"))
		year := parseYear(field("year"))
		quality := field("data_quality")
		if quality == "" {
			quality = defaultDataQuality
		}
		label := field("source")
		if label == "" {
			label = "EU JRC Semiconductor Database"
		}

		doc := corpus.NewDocument(label, fabSentence(material, techNode, globalCap, euCap, euShare, energy, co2, cost))
		doc.URL = "https://publications.jrc.ec.europa.eu/"
		doc.Confidence = 0.95
		doc.Metadata = map[string]any{
			"material":        material,
			"technology_node": techNode,
			"eu_share_pct":    euShare,
			"type":            "production_data",
			"year":            year,
			"data_quality":    quality,
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// fabSentence synthesizes the natural-language content for one record.
func fabSentence(material, techNode string, globalCap, euCap, euShare, energy, co2, cost float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s semiconductor", material)
	if techNode != "" {
		fmt.Fprintf(&b, " (technology node: %s)", techNode)
	}
	fmt.Fprintf(&b, " has global production capacity of %.0f wafers/year", globalCap)
	if euShare > 0 {
		fmt.Fprintf(&b, " with EU capacity of %.0f wafers (%.1f%% share).", euCap, euShare)
	} else {
		fmt.Fprintf(&b, " with EU capacity of %.0f wafers.", euCap)
	}
	fmt.Fprintf(&b, " Energy consumption: %.0f kWh/wafer, CO2 footprint: %.0f kg/wafer, average cost: €%.0f/wafer.", energy, co2, cost)
	return b.String()
}

// headerIndex maps lowercase column names to positions.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil || y <= 0 {
		return defaultYear
	}
	return y
}
