package adapters

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// historySuffix is appended to instrument pages that serve their daily
// history on a sibling path.
const historySuffix = "-historical-data"

// instrumentPath matches source paths that carry a historical-data sibling.
var instrumentPath = regexp.MustCompile(`/(indices|currencies|commodities|etfs|rates-bonds|equities)/[^/?#]+$`)

// monthDayYear matches the first data cell of a price-history table, e.g.
// "Jun 12, 2024".
var monthDayYear = regexp.MustCompile(`^[A-Z][a-z]{2} \d{1,2}, \d{4}$`)

// PriceHistoryAdapter parses a daily date,price table and derives the
// today-vs-yesterday record. Daily cadence has no next-release concept.
type PriceHistoryAdapter struct {
	Fetcher TextFetcher
}

func (a *PriceHistoryAdapter) Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error) {
	body, err := a.Fetcher.Fetch(ctx, HistoryURL(src.URL))
	if err != nil {
		return nil, err
	}

	points, err := ParsePriceHistoryHTML(body)
	if err != nil {
		return nil, &schema.ExtractionError{Source: src.IndicatorID, Reason: "price history table", Err: err}
	}

	return DeriveLatest(points, StrategyDaily, 2)
}

// HistoryURL rewrites an instrument page URL to its historical-data page
// when the path matches the known instrument pattern; other URLs pass
// through untouched.
func HistoryURL(url string) string {
	if strings.HasSuffix(url, historySuffix) {
		return url
	}
	if instrumentPath.MatchString(strings.TrimSuffix(url, "/")) {
		return strings.TrimSuffix(url, "/") + historySuffix
	}
	return url
}

// ParsePriceHistoryHTML finds the first table whose first data cell is a
// month-name date and parses its date,price pairs newest-first.
func ParsePriceHistoryHTML(doc string) ([]SeriesPoint, error) {
	tbl, ok := findPriceTable(parseTables(doc))
	if !ok {
		return nil, schema.ErrTableNotFound
	}

	points := make([]SeriesPoint, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		if len(row) < 2 {
			continue
		}
		date, err := time.Parse("Jan 2, 2006", row[0])
		if err != nil {
			continue
		}
		value, err := schema.ParseValue(row[1])
		if err != nil {
			continue
		}
		points = append(points, SeriesPoint{
			Label: date.Format("2006-01-02"),
			Date:  date,
			Value: value,
		})
	}
	if len(points) == 0 {
		return nil, schema.ErrNoReleaseData
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.After(points[j].Date)
	})
	return points, nil
}

func findPriceTable(tables []table) (table, bool) {
	for _, t := range tables {
		if len(t.rows) == 0 || len(t.rows[0]) == 0 {
			continue
		}
		if monthDayYear.MatchString(t.rows[0][0]) {
			return t, true
		}
	}
	return table{}, false
}
