package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// apiKeyToken is replaced in statistical-API URLs with the configured key.
const apiKeyToken = "{api_key}"

// StatsAPIAdapter queries a JSON statistical API publishing quarterly
// series. Period labels use the fixed-width YYYYQn form, so lexicographic
// descending order is chronological descending order.
type StatsAPIAdapter struct {
	Fetcher TextFetcher
	APIKey  string
}

// statsResponse mirrors the fixed nested path to the observation list.
type statsResponse struct {
	StatisticSearch struct {
		Row []struct {
			Time      string `json:"TIME"`
			DataValue string `json:"DATA_VALUE"`
		} `json:"row"`
	} `json:"StatisticSearch"`
}

func (a *StatsAPIAdapter) Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error) {
	if a.APIKey == "" {
		return nil, &schema.ConfigError{Field: "stats_api_key", Reason: "statistical API key is required"}
	}

	url := strings.ReplaceAll(src.URL, apiKeyToken, a.APIKey)
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	points, err := parseStatsJSON(body)
	if err != nil {
		return nil, &schema.ExtractionError{Source: src.IndicatorID, Reason: "stats api payload", Err: err}
	}

	// Quarterly absolute levels: surprise in whole units.
	return DeriveLatest(points, StrategyPeriod, 0)
}

func parseStatsJSON(body string) ([]SeriesPoint, error) {
	var resp statsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	rows := resp.StatisticSearch.Row
	if len(rows) == 0 {
		return nil, schema.ErrNoReleaseData
	}

	points := make([]SeriesPoint, 0, len(rows))
	for _, row := range rows {
		value, err := schema.ParseValue(row.DataValue)
		if err != nil {
			continue
		}
		date, ok := quarterEnd(row.Time)
		if !ok {
			continue
		}
		points = append(points, SeriesPoint{Label: row.Time, Date: date, Value: value})
	}
	if len(points) == 0 {
		return nil, schema.ErrNoReleaseData
	}

	// Fixed-width zero-padded labels: string order is period order.
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Label > points[j].Label
	})
	return points, nil
}

// quarterEnd maps "2024Q1" to the last day of that quarter.
func quarterEnd(label string) (time.Time, bool) {
	parts := strings.SplitN(label, "Q", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	q, err := strconv.Atoi(parts[1])
	if err != nil || q < 1 || q > 4 {
		return time.Time{}, false
	}
	firstOfNext := time.Date(year, time.Month(q*3)+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1), true
}
