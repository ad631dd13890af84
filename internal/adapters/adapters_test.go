package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

func TestParseSeriesCSV_SkipsNoObservationRows(t *testing.T) {
	csv := "DATE,VALUE\n2024-03-01,20800\n2024-04-01,20900\n2024-05-01,.\n2024-06-01,21000\n"

	points, err := ParseSeriesCSV(csv)
	require.NoError(t, err)

	// 2024-05-01 published "." and must not appear at all.
	require.Len(t, points, 3)
	for _, p := range points {
		assert.NotEqual(t, "2024-05-01", p.Label)
	}

	// Sorted newest-first regardless of input order.
	assert.Equal(t, "2024-06-01", points[0].Label)
	assert.Equal(t, "2024-03-01", points[2].Label)
}

func TestCSVSeriesAdapter_YoY(t *testing.T) {
	csv := "DATE,VALUE\n2022-05-01,19000\n2023-05-01,20000\n2024-05-01,21000\n"
	a := &CSVSeriesAdapter{Fetcher: &stubFetcher{body: csv}}

	rec, err := a.Extract(context.Background(), Source{IndicatorID: "m2", Kind: KindCSVSeries, URL: "https://example.com/m2.csv", CalculateYoY: true})
	require.NoError(t, err)

	require.NotNil(t, rec.Latest.Actual)
	assert.Equal(t, 5.0, rec.Latest.Actual.Float64())
	assert.Equal(t, schema.UnitPercent, rec.Latest.Actual.Unit)
}

func TestCSVSeriesAdapter_SourceUnitTagsBareNumbers(t *testing.T) {
	// FRED spread series publish percent as bare numbers; the source's
	// declared unit restores the tag on every derived value.
	csv := "DATE,BAMLH0A0HYM2\n2024-06-13,9.40\n2024-06-14,9.50\n"
	a := &CSVSeriesAdapter{Fetcher: &stubFetcher{body: csv}}

	rec, err := a.Extract(context.Background(), Source{
		IndicatorID: "high_yield_spread",
		Kind:        KindCSVSeries,
		URL:         "https://example.com/hy.csv",
		Unit:        schema.UnitPercent,
	})
	require.NoError(t, err)

	require.NotNil(t, rec.Latest.Actual)
	assert.Equal(t, schema.Pct(9.5), *rec.Latest.Actual)
	require.NotNil(t, rec.Latest.Previous)
	assert.Equal(t, schema.Pct(9.4), *rec.Latest.Previous)

	for _, row := range rec.History {
		assert.Equal(t, schema.UnitPercent, row.Actual.Unit, row.ReleaseDate)
	}
}

func TestStatsAPIAdapter_RequiresKey(t *testing.T) {
	a := &StatsAPIAdapter{Fetcher: &stubFetcher{}, APIKey: ""}

	_, err := a.Extract(context.Background(), Source{IndicatorID: "gdp", Kind: KindStatsAPI, URL: "https://api.example.com/{api_key}/gdp"})
	var ce *schema.ConfigError
	require.ErrorAs(t, err, &ce)
}

func TestStatsAPIAdapter_Extract(t *testing.T) {
	body := `{"StatisticSearch":{"row":[
		{"TIME":"2023Q4","DATA_VALUE":"2325.8"},
		{"TIME":"2024Q1","DATA_VALUE":"2329.3"},
		{"TIME":"2023Q3","DATA_VALUE":"2310.1"}
	]}}`
	f := &stubFetcher{body: body}
	a := &StatsAPIAdapter{Fetcher: f, APIKey: "secret"}

	rec, err := a.Extract(context.Background(), Source{IndicatorID: "gdp", Kind: KindStatsAPI, URL: "https://api.example.com/{api_key}/gdp"})
	require.NoError(t, err)

	// Key substituted into the request URL.
	assert.Equal(t, "https://api.example.com/secret/gdp", f.gotURL)

	// YYYYQn labels sort lexicographically descending.
	assert.Equal(t, "2024Q1", rec.Latest.ReleaseDate)
	assert.Equal(t, 2329.3, rec.Latest.Actual.Float64())
	require.NotNil(t, rec.Surprise)
	assert.Equal(t, 4.0, *rec.Surprise) // whole-unit rounding for quarterly levels
}

const snapshotHTML = `
<html><table>
  <tr><th>Indicator</th><th>Actual</th><th>Previous</th><th>Unit</th><th>Frequency</th></tr>
  <tr><td>M2 Money Supply</td><td>20,963</td><td>20,867</td><td>USD Billion</td><td>Monthly</td></tr>
</table></html>`

func TestParseSnapshotHTML(t *testing.T) {
	rec, err := ParseSnapshotHTML(snapshotHTML)
	require.NoError(t, err)

	assert.Equal(t, 20963.0, rec.Latest.Actual.Float64())
	assert.Equal(t, 20867.0, rec.Latest.Previous.Float64())
	assert.Equal(t, "Monthly", rec.Latest.Time)
	require.NotNil(t, rec.Surprise)
	assert.Equal(t, 96.0, *rec.Surprise)
}

func TestParseSnapshotHTML_MissingColumnFailsClosed(t *testing.T) {
	doc := `<html><table>
		<tr><th>Actual</th><th>Previous</th></tr>
		<tr><td>1</td><td>2</td></tr>
	</table></html>`

	_, err := ParseSnapshotHTML(doc)
	assert.ErrorIs(t, err, schema.ErrTableNotFound)
}

func TestHistoryURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/indices/us-spx-500":                 "https://example.com/indices/us-spx-500-historical-data",
		"https://example.com/indices/us-spx-500-historical-data": "https://example.com/indices/us-spx-500-historical-data",
		"https://example.com/economic-calendar/cpi-69":           "https://example.com/economic-calendar/cpi-69",
	}
	for in, want := range cases {
		assert.Equal(t, want, HistoryURL(in), in)
	}
}

const priceHTML = `
<html>
<table><tr><th>Menu</th></tr><tr><td>Markets</td></tr></table>
<table>
  <tr><th>Date</th><th>Price</th><th>Open</th></tr>
  <tr><td>Jun 13, 2024</td><td>5,433.74</td><td>5,425.00</td></tr>
  <tr><td>Jun 14, 2024</td><td>5,421.03</td><td>5,430.10</td></tr>
</table></html>`

func TestPriceHistoryAdapter_Extract(t *testing.T) {
	f := &stubFetcher{body: priceHTML}
	a := &PriceHistoryAdapter{Fetcher: f}

	rec, err := a.Extract(context.Background(), Source{IndicatorID: "sp500", Kind: KindPriceHistory, URL: "https://example.com/indices/us-spx-500"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/indices/us-spx-500-historical-data", f.gotURL)
	assert.Equal(t, "2024-06-14", rec.Latest.ReleaseDate)
	assert.Equal(t, 5421.03, rec.Latest.Actual.Float64())
	assert.Nil(t, rec.Next)
}

func TestSet_LookupUnknownKind(t *testing.T) {
	s := NewSet(&stubFetcher{}, &stubFetcher{}, "")
	_, err := s.Lookup(Kind("bogus"))
	assert.Error(t, err)
}
