package briefing

import (
	"context"
	"fmt"

	"github.com/sinn357/investment-app-sub000/internal/registry"
)

// CategoryAggregate is the structured per-category input handed to the
// summarizer: counts, average surprise, a one-line directional judgment, and
// the category's fixed rate-policy-implication sentence.
type CategoryAggregate struct {
	Category        registry.Category `json:"category"`
	IndicatorCount  int               `json:"indicator_count"`
	ReportedCount   int               `json:"reported_count"`
	AvgSurprise     float64           `json:"avg_surprise"`
	Direction       string            `json:"direction"`
	RateImplication string            `json:"rate_implication"`
	Signals         []string          `json:"signals"`
}

// CategoryBriefing is one category's narrative block in the summarizer
// payload.
type CategoryBriefing struct {
	Label           string   `json:"label"`
	Summary         string   `json:"summary"`
	RateImplication string   `json:"rate_implication"`
	RiskLevel       string   `json:"risk_level"`
	Signals         []string `json:"signals"`
}

// Payload is the schema-validated summarizer output.
type Payload struct {
	OverallSummary    string                      `json:"overall_summary"`
	CategoryBriefings map[string]CategoryBriefing `json:"category_briefings"`
}

// Validate enforces the payload schema; an unusable payload triggers the
// rule-based fallback instead of surfacing an error.
func (p *Payload) Validate() error {
	if p == nil {
		return fmt.Errorf("nil payload")
	}
	if p.OverallSummary == "" {
		return fmt.Errorf("missing overall_summary")
	}
	if len(p.CategoryBriefings) == 0 {
		return fmt.Errorf("missing category_briefings")
	}
	for cat, b := range p.CategoryBriefings {
		if b.Label == "" || b.Summary == "" {
			return fmt.Errorf("category %s: incomplete briefing", cat)
		}
	}
	return nil
}

// Summarizer is the external narrative generator. The language-model-backed
// implementation lives outside this core; tests and the fallback path use
// the deterministic composer below.
type Summarizer interface {
	Summarize(ctx context.Context, aggregates []CategoryAggregate) (*Payload, error)
}

// rateImplications holds the fixed per-category policy sentence.
var rateImplications = map[registry.Category]string{
	registry.CategoryBusiness:   "Sustained activity strength argues against near-term rate cuts.",
	registry.CategoryEmployment: "Labor market softening would open the door to easier policy.",
	registry.CategoryInterest:   "Curve shape prices the policy path; watch reversals at the front end.",
	registry.CategoryTrade:      "External balances rarely move policy on their own.",
	registry.CategoryInflation:  "Inflation above target keeps the tightening bias in place.",
	registry.CategoryCredit:     "Widening spreads tighten conditions and substitute for rate hikes.",
	registry.CategorySentiment:  "Volatility spikes historically precede dovish pivots.",
}

// RuleBasedSummarizer composes a deterministic narrative from the
// aggregates. It backs the generator when the external summarizer is
// unavailable or returns an unusable payload.
type RuleBasedSummarizer struct{}

func (RuleBasedSummarizer) Summarize(_ context.Context, aggregates []CategoryAggregate) (*Payload, error) {
	payload := &Payload{
		CategoryBriefings: make(map[string]CategoryBriefing, len(aggregates)),
	}

	improving := 0
	for _, agg := range aggregates {
		if agg.AvgSurprise > 0 {
			improving++
		}
		payload.CategoryBriefings[string(agg.Category)] = CategoryBriefing{
			Label:           string(agg.Category),
			Summary:         fmt.Sprintf("%d of %d indicators reported; %s (avg surprise %+.2f).", agg.ReportedCount, agg.IndicatorCount, agg.Direction, agg.AvgSurprise),
			RateImplication: agg.RateImplication,
			RiskLevel:       riskLevel(agg),
			Signals:         agg.Signals,
		}
	}

	payload.OverallSummary = fmt.Sprintf(
		"%d of %d categories surprised to the upside in the latest data round.",
		improving, len(aggregates))
	return payload, nil
}

func riskLevel(agg CategoryAggregate) string {
	switch {
	case agg.ReportedCount == 0:
		return "unknown"
	case agg.AvgSurprise < 0:
		return "elevated"
	default:
		return "normal"
	}
}
