package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

type stubFetcher struct {
	body   string
	err    error
	gotURL string
	calls  int
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.gotURL = url
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.body, nil
}

const calendarHTML = `
<html><body>
<table><tr><th>Nav</th></tr><tr><td>not a calendar</td></tr></table>
<table>
  <tr><th>Release Date</th><th>Time</th><th>Actual</th><th>Forecast</th><th>Previous</th></tr>
  <tr><td>Jun 12, 2024 (May)</td><td>08:30</td><td></td><td>3.4%</td><td>3.5%</td></tr>
  <tr><td>May 15, 2024 (Apr)</td><td>08:30</td><td>3.5%</td><td>3.4%</td><td>3.8%</td></tr>
  <tr><td>TBD</td><td>08:30</td><td>9.9%</td><td></td><td></td></tr>
  <tr><td>Apr 10, 2024 (Mar)</td><td>08:30</td><td>218K</td><td>215K</td><td>212K</td></tr>
</table>
</body></html>`

func TestParseCalendarHTML(t *testing.T) {
	rows, err := ParseCalendarHTML(calendarHTML)
	require.NoError(t, err)

	// The "TBD" row has no parsable date and is discarded.
	require.Len(t, rows, 3)

	assert.Equal(t, "2024-06-12", rows[0].ReleaseDate)
	assert.Nil(t, rows[0].Actual)
	require.NotNil(t, rows[0].Forecast)
	assert.Equal(t, schema.UnitPercent, rows[0].Forecast.Unit)
	assert.Equal(t, 3.4, rows[0].Forecast.Float64())

	// K suffix preserved as a tagged value, not expanded.
	require.NotNil(t, rows[2].Actual)
	assert.Equal(t, schema.UnitThousand, rows[2].Actual.Unit)
	assert.Equal(t, 218.0, rows[2].Actual.Float64())
}

func TestParseCalendarHTML_NoMatchingTable(t *testing.T) {
	_, err := ParseCalendarHTML(`<html><table><tr><th>Name</th></tr><tr><td>x</td></tr></table></html>`)
	assert.ErrorIs(t, err, schema.ErrTableNotFound)
}

func TestCalendarAdapter_Extract(t *testing.T) {
	f := &stubFetcher{body: calendarHTML}
	a := &CalendarAdapter{Fetcher: f}

	rec, err := a.Extract(context.Background(), Source{IndicatorID: "cpi", Kind: KindCalendar, URL: "https://example.com/cpi"})
	require.NoError(t, err)

	// Latest is the first row in scan order with a realized actual.
	assert.Equal(t, "2024-05-15", rec.Latest.ReleaseDate)
	require.NotNil(t, rec.Latest.Actual)
	assert.Equal(t, 3.5, rec.Latest.Actual.Float64())

	require.NotNil(t, rec.Next)
	assert.False(t, rec.Next.Undetermined)
	assert.Equal(t, "2024-06-12", rec.Next.ReleaseDate)
}

func TestCalendarAdapter_FetchErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")
	a := &CalendarAdapter{Fetcher: &stubFetcher{err: wantErr}}

	_, err := a.Extract(context.Background(), Source{IndicatorID: "cpi", URL: "https://example.com/cpi"})
	assert.ErrorIs(t, err, wantErr)
}
