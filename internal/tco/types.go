// Package tco declares the value types exchanged with the numeric results
// collaborator (the TCO calculation engine). The knowledge core reads
// component magnitudes to decide which cost drivers dominate a result; it
// never interprets or validates the numeric semantics.
package tco

// PredictRequest is the structured input that produced a TCO result.
type PredictRequest struct {
	Material string `json:"material"`
	Region   string `json:"region"`
	Volume   int    `json:"volume"`
	Years    int    `json:"years"`
}

// CostBreakdown itemizes a TCO result into named cost components.
type CostBreakdown struct {
	ChipCost        float64 `json:"chip_cost"`
	EnergyCost      float64 `json:"energy_cost"`
	CarbonTax       float64 `json:"carbon_tax"`
	Maintenance     float64 `json:"maintenance"`
	SupplyChainRisk float64 `json:"supply_chain_risk"`

	TotalBeforeSubsidy float64 `json:"total_before_subsidy"`
	SubsidyAmount      float64 `json:"subsidy_amount"`
	TotalAfterSubsidy  float64 `json:"total_after_subsidy"`
}

// PredictResponse is the calculation result being explained.
type PredictResponse struct {
	TotalCost    float64       `json:"total_cost"`
	Breakdown    CostBreakdown `json:"breakdown"`
	Currency     string        `json:"currency"`
	MaterialName string        `json:"material_name"`
	RegionName   string        `json:"region_name"`
	Years        int           `json:"years"`
	Volume       int           `json:"volume"`
	CostPerChip  float64       `json:"cost_per_chip"`
}

// ChatMessage is one turn of a conversation attached to a chat request.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
