package adapters

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sinn357/investment-app-sub000/internal/extract"
	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// calendarHeaders: a table qualifies as a release calendar when any header
// cell contains one of these.
var calendarHeaders = []string{"release", "actual", "forecast", "previous"}

// CalendarAdapter parses an HTML economic-calendar table of past and
// scheduled releases into the canonical record via the shared extractor.
type CalendarAdapter struct {
	Fetcher TextFetcher
}

func (a *CalendarAdapter) Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error) {
	body, err := a.Fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	rows, err := ParseCalendarHTML(body)
	if err != nil {
		return nil, &schema.ExtractionError{Source: src.IndicatorID, Reason: "calendar table", Err: err}
	}

	record, err := extract.FromRows(rows)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("indicator", src.IndicatorID).
		Int("rows", len(rows)).
		Int("history", len(record.History)).
		Msg("calendar extracted")
	return record, nil
}

// ParseCalendarHTML locates the first release-calendar table in an HTML
// document and parses its rows. Rows with unparsable dates are discarded;
// empty or non-numeric cells become nil values.
func ParseCalendarHTML(doc string) ([]schema.CalendarRow, error) {
	tbl, ok := findCalendarTable(parseTables(doc))
	if !ok {
		return nil, schema.ErrTableNotFound
	}

	dateIdx := tbl.headerIndex("release")
	timeIdx := tbl.headerIndex("time")
	actualIdx := tbl.headerIndex("actual")
	forecastIdx := tbl.headerIndex("forecast")
	previousIdx := tbl.headerIndex("previous")

	rows := make([]schema.CalendarRow, 0, len(tbl.rows))
	for _, raw := range tbl.rows {
		iso, ok := parseReleaseDate(tbl.cell(raw, dateIdx))
		if !ok {
			continue
		}
		rows = append(rows, schema.CalendarRow{
			ReleaseDate: iso,
			Time:        tbl.cell(raw, timeIdx),
			Actual:      schema.MaybeValue(tbl.cell(raw, actualIdx)),
			Forecast:    schema.MaybeValue(tbl.cell(raw, forecastIdx)),
			Previous:    schema.MaybeValue(tbl.cell(raw, previousIdx)),
		})
	}
	return rows, nil
}

func findCalendarTable(tables []table) (table, bool) {
	for _, t := range tables {
		for _, h := range t.header {
			lower := strings.ToLower(h)
			for _, want := range calendarHeaders {
				if strings.Contains(lower, want) {
					return t, true
				}
			}
		}
	}
	return table{}, false
}

// parseReleaseDate parses "Jun 12, 2024 (May)" into "2024-06-12". The
// parenthetical reference-period suffix is dropped.
func parseReleaseDate(cell string) (string, bool) {
	s := cell
	if i := strings.Index(s, "("); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{"Jan 02, 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
