package engine

import (
	"strings"

	"github.com/fabwise/fabkb/internal/tco"
)

// Dominance thresholds for structured-request query construction. A cost
// component contributes query fragments only when it explains enough of
// the result, so retrieval is biased toward the drivers of the current
// calculation rather than the subject generically.
const (
	energyDriverShare    = 0.30 // of total before subsidy
	carbonTaxDriverShare = 0.10
)

// buildResultQuery derives the search query for a structured
// result-explanation request from the subject identifiers and the
// dominant cost drivers.
func buildResultQuery(result tco.PredictResponse) string {
	parts := []string{
		result.MaterialName + " semiconductor",
		result.RegionName + " energy costs",
		"Total Cost of Ownership",
	}

	b := result.Breakdown
	if total := b.TotalBeforeSubsidy; total > 0 {
		if b.EnergyCost/total > energyDriverShare {
			parts = append(parts, "energy efficiency power consumption")
		}
		if b.CarbonTax/total > carbonTaxDriverShare {
			parts = append(parts, "carbon tax CO2 emissions")
		}
	}
	if b.SubsidyAmount > 0 {
		parts = append(parts, "semiconductor subsidies government funding incentives")
	}

	return strings.Join(parts, " ")
}

// buildChatQuery enriches a conversational question with domain key-terms,
// identifiers from the attached calculation, and the most recent prior
// user utterance. Only the single most recent utterance is added to avoid
// drifting back to stale topics.
func buildChatQuery(question string, tcoCtx *tco.PredictResponse, history []tco.ChatMessage) string {
	parts := []string{question}
	parts = append(parts, keyTerms(question)...)

	if tcoCtx != nil {
		parts = append(parts, tcoCtx.MaterialName, tcoCtx.RegionName)
	}

	if last := lastUserMessage(history); last != "" && last != question {
		parts = append(parts, last)
	}

	return strings.Join(parts, " ")
}

// keyTerms maps keyword presence in the question to domain-specific
// search terms.
func keyTerms(question string) []string {
	q := strings.ToLower(question)
	var terms []string

	if strings.Contains(q, "subsidy") || strings.Contains(q, "subsidies") || strings.Contains(q, "funding") {
		terms = append(terms, "EU Chips Act", "subsidy", "funding", "grant")
	}
	if strings.Contains(q, "energy") && strings.Contains(q, "cost") {
		terms = append(terms, "energy price", "electricity cost", "kWh")
	}
	if strings.Contains(q, "carbon") || strings.Contains(q, "tax") {
		terms = append(terms, "carbon tax", "CO2", "emissions")
	}
	if strings.Contains(q, "compare") || strings.Contains(q, "comparison") || strings.Contains(q, "vs") {
		terms = append(terms, "comparison", "versus", "alternative")
	}

	return terms
}

// lastUserMessage returns the content of the most recent user turn, or "".
func lastUserMessage(history []tco.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}
