package sources

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const energyJSON = `{
  "title": "European Wholesale Electricity Price Data",
  "doi": "10.5281/zenodo.1234567",
  "version": "2024.06",
  "period": "2015-2024",
  "data_quality": "high",
  "citation": "Ember (2024)",
  "carbon_source": "Electricity Maps",
  "regions": [
    {
      "country": "Germany",
      "content": "Germany wholesale electricity averaged 0.095 EUR/kWh with carbon intensity of 380 g/kWh.",
      "price_eur_kwh": 0.095,
      "price_usd_kwh": 0.103,
      "carbon_intensity_g_kwh": 380,
      "carbon_tax_eur_ton": 90,
      "subsidy_rate": 0.35,
      "year": 2024
    },
    {
      "country": "France",
      "content": "France wholesale electricity averaged 0.078 EUR/kWh with low-carbon nuclear generation.",
      "price_eur_kwh": 0.078,
      "price_usd_kwh": 0.085,
      "carbon_intensity_g_kwh": 56,
      "carbon_tax_eur_ton": 90,
      "subsidy_rate": 0.30
    },
    {
      "country": "Empty",
      "content": ""
    }
  ]
}`

func TestEnergyPriceSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "energy_prices.json", energyJSON)
	docs, err := NewEnergyPriceSource(path).Load(context.Background())
	require.NoError(t, err)

	// One overview plus two regions; the empty-content region is skipped.
	require.Len(t, docs, 3)

	overview := docs[0]
	assert.Contains(t, overview.Source, "DOI:10.5281/zenodo.1234567")
	assert.Contains(t, overview.Content, "version 2024.06")
	assert.Contains(t, overview.Content, "Ember (2024)")
	assert.Equal(t, "https://doi.org/10.5281/zenodo.1234567", overview.URL)
	assert.Equal(t, 1.0, overview.Confidence)

	germany := docs[1]
	assert.Equal(t, "Wholesale Energy & Carbon Data (Germany)", germany.Source)
	assert.Contains(t, germany.Content, "0.095 EUR/kWh")
	assert.Equal(t, 0.095, germany.Metadata["price_eur_kwh"])
	assert.Equal(t, 2024, germany.Metadata["year"])

	// A region without a year gets the default.
	france := docs[2]
	assert.Equal(t, defaultYear, france.Metadata["year"])
}

func TestEnergyPriceSource_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", "{not json")
	_, err := NewEnergyPriceSource(path).Load(context.Background())
	assert.Error(t, err)
}

func TestEnergyPriceSource_NoRegions(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.json", `{"title":"x","regions":[]}`)
	_, err := NewEnergyPriceSource(path).Load(context.Background())
	assert.Error(t, err)
}

func TestEnergyPriceSource_MissingFile(t *testing.T) {
	_, err := NewEnergyPriceSource(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	assert.Error(t, err)
}
