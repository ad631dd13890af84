// Package cycle derives composite 0-100 cycle scores (macro, credit,
// sentiment) from the latest indicator snapshot and classifies each into a
// discrete regime. Scoring is a pure function of the snapshot: absent data
// degrades confidence, it never fails a request.
package cycle

import (
	"fmt"
	"math"
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// Kind selects one of the three composite cycles.
type Kind string

const (
	Macro     Kind = "macro"
	Credit    Kind = "credit"
	Sentiment Kind = "sentiment"
)

// neutralSubScore substitutes for indicators with no real data.
const neutralSubScore = 50.0

// indicatorSpec binds one snapshot indicator into a cycle.
type indicatorSpec struct {
	ID     string
	Weight float64
	Curve  Curve
	// BasisPoints: the curve is denominated in basis points; percent-tagged
	// snapshot values are converted (3.5% -> 350bp) before scoring.
	BasisPoints bool
}

// Definition is one cycle's fixed indicator set, weights, confidence steps,
// and regime bands.
type Definition struct {
	Kind       Kind
	Indicators []indicatorSpec
	// Confidence indexed by the count of indicators with real data.
	Confidence []float64
	Bands      []Band
}

func (d Definition) validate() error {
	var sum float64
	for _, ind := range d.Indicators {
		if err := ind.Curve.validate(); err != nil {
			return err
		}
		sum += ind.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("cycle %s: weights sum to %.4f, want 1.0", d.Kind, sum)
	}
	if len(d.Confidence) != len(d.Indicators)+1 {
		return fmt.Errorf("cycle %s: confidence table needs %d steps", d.Kind, len(d.Indicators)+1)
	}
	return nil
}

// SubScore is one indicator's contribution to a composite.
type SubScore struct {
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Defaulted bool    `json:"defaulted"` // neutral substitute, no real data
}

// Result is a freshly computed cycle classification. Not persisted here;
// storage is the caller's concern.
type Result struct {
	Cycle       Kind                `json:"cycle"`
	Score       float64             `json:"score"`
	Phase       string              `json:"phase"`
	PhaseKo     string              `json:"phase_ko"`
	Description string              `json:"description"`
	Action      string              `json:"action"`
	SubScores   map[string]SubScore `json:"sub_scores"`
	Confidence  float64             `json:"confidence"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Engine evaluates the three cycle definitions against a snapshot.
type Engine struct {
	defs map[Kind]Definition
}

// NewEngine builds the engine with the reference cycle definitions.
func NewEngine() (*Engine, error) {
	defs := map[Kind]Definition{
		Macro: {
			Kind: Macro,
			Indicators: []indicatorSpec{
				{ID: "ism_manufacturing", Weight: 0.30, Curve: curveISMPMI},
				{ID: "ism_services", Weight: 0.20, Curve: curveISMPMI},
				{ID: "core_cpi_yoy", Weight: 0.20, Curve: curveCoreInflation},
				{ID: "fed_funds_rate", Weight: 0.15, Curve: curvePolicyRate},
				{ID: "yield_curve_10y2y", Weight: 0.15, Curve: curveYieldCurve},
			},
			Confidence: []float64{0, 20, 40, 60, 80, 100},
			Bands:      macroBands,
		},
		Credit: {
			Kind: Credit,
			Indicators: []indicatorSpec{
				{ID: "high_yield_spread", Weight: 0.40, Curve: curveHighYield, BasisPoints: true},
				{ID: "ig_spread", Weight: 0.20, Curve: curveIGSpread, BasisPoints: true},
				{ID: "financial_conditions", Weight: 0.30, Curve: curveFinConditions},
				{ID: "m2_growth", Weight: 0.10, Curve: curveM2Growth},
			},
			Confidence: []float64{0, 25, 50, 75, 100},
			Bands:      creditBands,
		},
		Sentiment: {
			Kind: Sentiment,
			Indicators: []indicatorSpec{
				{ID: "vix", Weight: 1.00, Curve: curveVolatility},
			},
			Confidence: []float64{0, 100},
			Bands:      sentimentBands,
		},
	}

	for _, def := range defs {
		if err := def.validate(); err != nil {
			return nil, err
		}
	}
	return &Engine{defs: defs}, nil
}

// Calculate scores one cycle against the snapshot. Missing indicators fall
// back to a neutral 50 sub-score and lower confidence; only an unknown cycle
// kind is a hard error.
func (e *Engine) Calculate(kind Kind, snapshot schema.Snapshot) (*Result, error) {
	def, ok := e.defs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown cycle %q", kind)
	}

	subScores := make(map[string]SubScore, len(def.Indicators))
	var composite float64
	present := 0

	for _, ind := range def.Indicators {
		score := neutralSubScore
		defaulted := true

		if release, ok := snapshot[ind.ID]; ok && release.Actual != nil {
			score = ind.Curve.Score(rawInput(ind, *release.Actual))
			defaulted = false
			present++
		}

		weighted := score * ind.Weight
		composite += weighted
		subScores[ind.ID] = SubScore{
			Score:     score,
			Weight:    ind.Weight,
			Weighted:  weighted,
			Defaulted: defaulted,
		}
	}

	band := classify(def.Bands, composite)
	return &Result{
		Cycle:       kind,
		Score:       roundScore(composite),
		Phase:       band.Label,
		PhaseKo:     band.LabelKo,
		Description: band.Description,
		Action:      band.Action,
		SubScores:   subScores,
		Confidence:  def.Confidence[present],
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// CalculateAll scores every cycle.
func (e *Engine) CalculateAll(snapshot schema.Snapshot) (map[Kind]*Result, error) {
	out := make(map[Kind]*Result, len(e.defs))
	for kind := range e.defs {
		result, err := e.Calculate(kind, snapshot)
		if err != nil {
			return nil, err
		}
		out[kind] = result
	}
	return out, nil
}

// Required lists the indicator IDs a cycle consumes.
func (e *Engine) Required(kind Kind) []string {
	def, ok := e.defs[kind]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(def.Indicators))
	for _, ind := range def.Indicators {
		ids = append(ids, ind.ID)
	}
	return ids
}

// rawInput extracts the curve-denominated raw value from a tagged Value.
func rawInput(ind indicatorSpec, v schema.Value) float64 {
	if ind.BasisPoints && v.Unit == schema.UnitPercent {
		return v.Magnitude * 100
	}
	return v.Float64()
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
