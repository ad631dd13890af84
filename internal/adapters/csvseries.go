package adapters

import (
	"context"
	"encoding/csv"
	"sort"
	"strings"
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// noObservation is the placeholder some statistical CSV feeds publish for
// periods without data.
const noObservation = "."

// CSVSeriesAdapter parses a two-column date,value CSV time series and
// derives the latest-vs-previous-period record. With CalculateYoY set the
// level series is first converted to year-over-year percent change.
type CSVSeriesAdapter struct {
	Fetcher TextFetcher
}

func (a *CSVSeriesAdapter) Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error) {
	body, err := a.Fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	points, err := ParseSeriesCSV(body)
	if err != nil {
		return nil, &schema.ExtractionError{Source: src.IndicatorID, Reason: "csv series", Err: err}
	}

	// Feeds like FRED publish percent series as bare numbers ("9.50" for a
	// 9.5% spread); the catalog's unit hint restores the tag the cell
	// itself cannot carry.
	applySourceUnit(points, src.Unit)

	if src.CalculateYoY {
		points, err = YearOverYear(src.IndicatorID, points)
		if err != nil {
			return nil, err
		}
	}

	return DeriveLatest(points, StrategyPeriod, 2)
}

// applySourceUnit tags untagged points with the source's declared unit.
// Points the cell parser already tagged keep their tag.
func applySourceUnit(points []SeriesPoint, unit schema.Unit) {
	if unit == schema.UnitNone {
		return
	}
	for i := range points {
		if points[i].Value.Unit == schema.UnitNone {
			points[i].Value.Unit = unit
		}
	}
}

// ParseSeriesCSV parses header + date,value rows, skipping no-observation
// placeholders, and returns the series sorted newest-first.
func ParseSeriesCSV(body string) ([]SeriesPoint, error) {
	r := csv.NewReader(strings.NewReader(body))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, schema.ErrNoReleaseData
	}

	points := make([]SeriesPoint, 0, len(records)-1)
	for _, rec := range records[1:] { // skip header
		if len(rec) < 2 {
			continue
		}
		raw := strings.TrimSpace(rec[1])
		if raw == noObservation {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
		if err != nil {
			continue
		}
		value, err := schema.ParseValue(raw)
		if err != nil {
			continue
		}
		points = append(points, SeriesPoint{
			Label: date.Format("2006-01-02"),
			Date:  date,
			Value: value,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.After(points[j].Date)
	})
	return points, nil
}
