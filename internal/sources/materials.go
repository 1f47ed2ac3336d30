package sources

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/fabwise/fabkb/internal/corpus"
)

// MaterialCatalogSource loads the material properties catalog from a
// SQLite database. One document per material.
type MaterialCatalogSource struct {
	dbPath string
}

// NewMaterialCatalogSource creates the adapter for the given database
// file.
func NewMaterialCatalogSource(dbPath string) *MaterialCatalogSource {
	return &MaterialCatalogSource{dbPath: dbPath}
}

func (s *MaterialCatalogSource) Name() string { return "material-catalog" }

// materialRow mirrors the material_properties table.
type materialRow struct {
	Material            string  `db:"material"`
	BandgapEV           float64 `db:"bandgap_ev"`
	ElectronMobility    float64 `db:"electron_mobility_cm2_vs"`
	ThermalConductivity float64 `db:"thermal_conductivity_w_mk"`
	MaxTemperatureC     float64 `db:"max_temperature_c"`
	CostRelativeToSi    float64 `db:"cost_relative_to_si"`
}

// Load opens the catalog read-only and converts every row.
func (s *MaterialCatalogSource) Load(ctx context.Context) ([]corpus.Document, error) {
	db, err := sqlx.Open("sqlite3", "file:"+s.dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.dbPath, err)
	}
	defer db.Close()

	var rows []materialRow
	err = db.SelectContext(ctx, &rows, `
		SELECT material, bandgap_ev, electron_mobility_cm2_vs,
		       thermal_conductivity_w_mk, max_temperature_c, cost_relative_to_si
		FROM material_properties
		ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query material_properties: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: material_properties is empty", s.dbPath)
	}

	docs := make([]corpus.Document, 0, len(rows))
	for _, row := range rows {
		content := fmt.Sprintf(
			"%s properties: bandgap %.2feV, electron mobility %.0f cm²/Vs, thermal conductivity %.0f W/mK, max temperature %.0f°C. Cost is %.1fx relative to Silicon.",
			row.Material, row.BandgapEV, row.ElectronMobility,
			row.ThermalConductivity, row.MaxTemperatureC, row.CostRelativeToSi,
		)

		doc := corpus.NewDocument("Materials Project / MatWeb Database", content)
		doc.URL = "https://materialsproject.org"
		doc.Confidence = 0.85
		doc.Metadata = map[string]any{
			"material": row.Material,
			"type":     "material_properties",
			"year":     defaultYear,
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
