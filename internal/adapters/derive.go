package adapters

import (
	"math"
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// SeriesPoint is one observation of a plain time series before derivation.
// Label is the display form of the period ("2024-05-01", "2024Q1"); Date is
// the comparable form used for ordering and the YoY anchor search.
type SeriesPoint struct {
	Label string
	Date  time.Time
	Value schema.Value
}

// Strategy picks how a series collapses into a ReleaseRecord.
type Strategy int

const (
	// StrategyDaily: market/rate data with no forecast concept. Actual is
	// the most recent point, previous the second; there is no next release.
	StrategyDaily Strategy = iota
	// StrategyPeriod: official statistics published per period, still
	// without a forecast. The next period exists but has no scheduled
	// date, so the record carries the undetermined next variant.
	StrategyPeriod
)

// DeriveLatest collapses a newest-first series into a ReleaseRecord.
// decimals controls surprise rounding (0 for quarterly absolute levels).
func DeriveLatest(points []SeriesPoint, strategy Strategy, decimals int) (*schema.ReleaseRecord, error) {
	if len(points) == 0 {
		return nil, schema.ErrNoReleaseData
	}

	latest := points[0]
	record := &schema.ReleaseRecord{
		Latest: schema.LatestRelease{
			ReleaseDate: latest.Label,
			Actual:      valueRef(latest.Value),
		},
		Timestamp: time.Now().UTC(),
	}

	if len(points) > 1 {
		prev := points[1]
		record.Latest.Previous = valueRef(prev.Value)
		surprise := roundTo(latest.Value.Float64()-prev.Value.Float64(), decimals)
		record.Surprise = &surprise
	}

	if strategy == StrategyPeriod {
		record.Next = schema.UndeterminedNext(valueRef(latest.Value))
	}

	record.History = seriesHistory(points)
	return record, nil
}

// seriesHistory renders up to MaxHistoryRows points as realized rows, each
// carrying the next older point as its previous.
func seriesHistory(points []SeriesPoint) []schema.CalendarRow {
	n := len(points)
	if n > schema.MaxHistoryRows {
		n = schema.MaxHistoryRows
	}
	rows := make([]schema.CalendarRow, 0, n)
	for i := 0; i < n; i++ {
		row := schema.CalendarRow{
			ReleaseDate: points[i].Label,
			Actual:      valueRef(points[i].Value),
		}
		if i+1 < len(points) {
			row.Previous = valueRef(points[i+1].Value)
		}
		rows = append(rows, row)
	}
	return rows
}

// YearOverYear converts a newest-first level series into YoY percent change.
// Each point is paired with the nearest observation at least 365 days
// earlier; points without an anchor fall off the tail. A zero-valued anchor
// is reported as InsufficientHistory, never defaulted. Pure function: same
// input always yields the same output.
func YearOverYear(indicatorID string, points []SeriesPoint) ([]SeriesPoint, error) {
	out := make([]SeriesPoint, 0, len(points))
	for i, p := range points {
		cutoff := p.Date.AddDate(0, 0, -365)
		anchor := -1
		for j := i + 1; j < len(points); j++ {
			if !points[j].Date.After(cutoff) {
				anchor = j
				break
			}
		}
		if anchor < 0 {
			continue
		}
		base := points[anchor].Value.Float64()
		if base == 0 {
			return nil, &schema.InsufficientHistoryError{
				IndicatorID: indicatorID,
				Date:        p.Label,
				Reason:      "year-ago anchor value is zero",
			}
		}
		pct := roundTo((p.Value.Float64()-base)/base*100, 2)
		out = append(out, SeriesPoint{Label: p.Label, Date: p.Date, Value: schema.Pct(pct)})
	}
	if len(out) == 0 {
		return nil, &schema.InsufficientHistoryError{
			IndicatorID: indicatorID,
			Date:        firstLabel(points),
			Reason:      "no observation has a year-ago anchor",
		}
	}
	return out, nil
}

func firstLabel(points []SeriesPoint) string {
	if len(points) == 0 {
		return ""
	}
	return points[0].Label
}

func valueRef(v schema.Value) *schema.Value { return &v }

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
