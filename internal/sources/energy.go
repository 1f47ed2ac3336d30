package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fabwise/fabkb/internal/corpus"
)

// EnergyPriceSource loads the wholesale electricity price and carbon
// intensity dataset from a JSON file: one overview document carrying the
// citation, plus one document per region.
type EnergyPriceSource struct {
	path string
}

// NewEnergyPriceSource creates the adapter for the given JSON path.
func NewEnergyPriceSource(path string) *EnergyPriceSource {
	return &EnergyPriceSource{path: path}
}

func (s *EnergyPriceSource) Name() string { return "energy-prices" }

type energyDataset struct {
	Title        string         `json:"title"`
	DOI          string         `json:"doi"`
	Version      string         `json:"version"`
	Period       string         `json:"period"`
	DataQuality  string         `json:"data_quality"`
	Citation     string         `json:"citation"`
	CarbonSource string         `json:"carbon_source"`
	Regions      []energyRegion `json:"regions"`
}

type energyRegion struct {
	Country         string  `json:"country"`
	Content         string  `json:"content"`
	PriceEURPerKWh  float64 `json:"price_eur_kwh"`
	PriceUSDPerKWh  float64 `json:"price_usd_kwh"`
	CarbonIntensity float64 `json:"carbon_intensity_g_kwh"`
	CarbonTaxEURTon float64 `json:"carbon_tax_eur_ton"`
	SubsidyRate     float64 `json:"subsidy_rate"`
	Year            int     `json:"year"`
}

// Load parses the dataset file.
func (s *EnergyPriceSource) Load(ctx context.Context) ([]corpus.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var data energyDataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if len(data.Regions) == 0 {
		return nil, fmt.Errorf("%s: no regions", s.path)
	}

	docs := make([]corpus.Document, 0, len(data.Regions)+1)

	overview := fmt.Sprintf(
		"%s (version %s) compiled from major wholesale markets. Period: %s. Data quality: %s. Citation: %s. Carbon intensity data from %s.",
		data.Title, data.Version, data.Period, data.DataQuality, data.Citation, data.CarbonSource,
	)
	doc := corpus.NewDocument(fmt.Sprintf("%s (DOI:%s)", data.Title, data.DOI), overview)
	doc.URL = "https://doi.org/" + data.DOI
	doc.Confidence = 1.0
	doc.Metadata = map[string]any{
		"type":         "energy_prices",
		"period":       data.Period,
		"data_quality": data.DataQuality,
		"doi":          data.DOI,
		"year":         defaultYear,
	}
	docs = append(docs, doc)

	for _, region := range data.Regions {
		if region.Content == "" {
			continue
		}
		year := region.Year
		if year <= 0 {
			year = defaultYear
		}

		rd := corpus.NewDocument(fmt.Sprintf("Wholesale Energy & Carbon Data (%s)", region.Country), region.Content)
		rd.URL = "https://doi.org/" + data.DOI
		rd.Confidence = 1.0
		rd.Metadata = map[string]any{
			"type":                   "energy_prices",
			"country":                region.Country,
			"price_eur_kwh":          region.PriceEURPerKWh,
			"price_usd_kwh":          region.PriceUSDPerKWh,
			"carbon_intensity_g_kwh": region.CarbonIntensity,
			"carbon_tax_eur_ton":     region.CarbonTaxEURTon,
			"subsidy_rate":           region.SubsidyRate,
			"year":                   year,
			"data_quality":           data.DataQuality,
			"doi":                    data.DOI,
		}
		docs = append(docs, rd)
	}

	return docs, nil
}
