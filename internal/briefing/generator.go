// Package briefing computes a content signature over the indicator snapshot
// and regenerates the narrative briefing only when the underlying data
// actually changed. Identical snapshots never trigger duplicate summarizer
// calls.
package briefing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sinn357/investment-app-sub000/internal/cache"
	"github.com/sinn357/investment-app-sub000/internal/registry"
	"github.com/sinn357/investment-app-sub000/internal/schema"
)

const (
	latestSlot    = "briefing:latest"
	signatureSlot = "briefing:sig:"
)

// Result is a generated (or cache-served) briefing.
type Result struct {
	Signature    string    `json:"signature"`
	Cached       bool      `json:"cached"`
	FallbackUsed bool      `json:"fallback_used"`
	Payload      Payload   `json:"payload"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Generator owns the briefing cache contract. The cache and summarizer are
// injected; the generator keeps no state of its own.
type Generator struct {
	reg        *registry.Registry
	cache      cache.Cache
	summarizer Summarizer
	fallback   RuleBasedSummarizer
	ttl        time.Duration
}

// NewGenerator wires a generator. ttl bounds how long cached briefings are
// served; zero means no expiry.
func NewGenerator(reg *registry.Registry, c cache.Cache, summarizer Summarizer, ttl time.Duration) *Generator {
	return &Generator{reg: reg, cache: c, summarizer: summarizer, ttl: ttl}
}

// Generate returns the briefing for snapshot. Unless force is set, a cached
// result under the current signature is returned as-is with Cached=true,
// checked first against the latest slot, then the signature-keyed slot.
func (g *Generator) Generate(ctx context.Context, snap schema.Snapshot, force bool) (*Result, error) {
	rows := ProjectSnapshot(g.reg, snap)
	sig := Signature(rows)

	if !force {
		if cached, ok := g.lookup(ctx, sig); ok {
			cached.Cached = true
			return cached, nil
		}
	}

	aggregates := g.aggregate(snap)

	payload, fallbackUsed := g.summarize(ctx, aggregates)
	result := &Result{
		Signature:    sig,
		FallbackUsed: fallbackUsed,
		Payload:      *payload,
		GeneratedAt:  time.Now().UTC(),
	}

	g.store(ctx, result)
	return result, nil
}

func (g *Generator) lookup(ctx context.Context, sig string) (*Result, bool) {
	for _, key := range []string{latestSlot, signatureSlot + sig} {
		data, ok := g.cache.Get(ctx, key)
		if !ok {
			continue
		}
		var cached Result
		if err := json.Unmarshal(data, &cached); err != nil {
			continue
		}
		if cached.Signature == sig {
			return &cached, true
		}
	}
	return nil, false
}

func (g *Generator) store(ctx context.Context, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	g.cache.Set(ctx, latestSlot, data, g.ttl)
	g.cache.Set(ctx, signatureSlot+result.Signature, data, g.ttl)
}

// summarize calls the external summarizer, falling back to the rule-based
// composer on error or an unusable payload. Summarizer failure is a soft
// condition, never an error to the caller.
func (g *Generator) summarize(ctx context.Context, aggregates []CategoryAggregate) (*Payload, bool) {
	if g.summarizer != nil {
		payload, err := g.summarizer.Summarize(ctx, aggregates)
		if err == nil {
			err = payload.Validate()
		}
		if err == nil {
			return payload, false
		}
		log.Warn().Err(err).Msg("summarizer unusable, using rule-based fallback")
	}

	payload, _ := g.fallback.Summarize(ctx, aggregates)
	return payload, true
}

// aggregate reduces the snapshot to per-category inputs. Surprise is actual
// vs forecast when a forecast exists, otherwise actual vs previous.
func (g *Generator) aggregate(snap schema.Snapshot) []CategoryAggregate {
	var out []CategoryAggregate
	groups := g.reg.ByCategory()

	for _, cat := range registry.Categories {
		indicators := groups[cat]
		if len(indicators) == 0 {
			continue
		}

		agg := CategoryAggregate{
			Category:        cat,
			IndicatorCount:  len(indicators),
			RateImplication: rateImplications[cat],
		}

		var surpriseSum float64
		for _, ind := range indicators {
			release, ok := snap[ind.ID]
			if !ok || release.Actual == nil {
				continue
			}
			agg.ReportedCount++
			agg.Signals = append(agg.Signals, ind.ID)
			surpriseSum += surpriseOf(release)
		}
		if agg.ReportedCount > 0 {
			agg.AvgSurprise = surpriseSum / float64(agg.ReportedCount)
		}
		agg.Direction = direction(agg)
		out = append(out, agg)
	}
	return out
}

func surpriseOf(release schema.LatestRelease) float64 {
	actual := release.Actual.Float64()
	if release.Forecast != nil {
		return actual - release.Forecast.Float64()
	}
	if release.Previous != nil {
		return actual - release.Previous.Float64()
	}
	return 0
}

func direction(agg CategoryAggregate) string {
	switch {
	case agg.ReportedCount == 0:
		return "no fresh data"
	case agg.AvgSurprise > 0:
		return "upside surprises dominate"
	case agg.AvgSurprise < 0:
		return "downside surprises dominate"
	default:
		return "in line with expectations"
	}
}
