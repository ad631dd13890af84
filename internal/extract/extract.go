// Package extract turns parsed observation rows into the canonical
// latest/next/history release record, independent of which source adapter
// produced the rows.
package extract

import (
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// FromRows scans rows (assumed newest-first) and builds a ReleaseRecord.
// The first row with a realized actual becomes latest_release; the first row
// without one becomes next_release. When every row is realized, next_release
// is the explicit undetermined variant carrying the latest actual. Rows are
// never deduplicated; duplicate dates resolve by scan order.
func FromRows(rows []schema.CalendarRow) (*schema.ReleaseRecord, error) {
	var latest *schema.CalendarRow
	var next *schema.CalendarRow

	for i := range rows {
		row := &rows[i]
		if row.Actual != nil {
			if latest == nil {
				latest = row
			}
		} else if next == nil {
			next = row
		}
		if latest != nil && next != nil {
			break
		}
	}

	if latest == nil {
		return nil, schema.ErrNoReleaseData
	}

	record := &schema.ReleaseRecord{
		Latest: schema.LatestRelease{
			ReleaseDate: latest.ReleaseDate,
			Time:        latest.Time,
			Actual:      latest.Actual,
			Forecast:    latest.Forecast,
			Previous:    latest.Previous,
		},
		Timestamp: time.Now().UTC(),
	}

	if next != nil {
		record.Next = &schema.NextRelease{
			ReleaseDate: next.ReleaseDate,
			Time:        next.Time,
			Forecast:    next.Forecast,
			Previous:    next.Previous,
		}
	} else {
		record.Next = schema.UndeterminedNext(latest.Actual)
	}

	record.History = historyRows(rows)
	return record, nil
}

// historyRows collects up to MaxHistoryRows realized rows in scan order.
func historyRows(rows []schema.CalendarRow) []schema.CalendarRow {
	history := make([]schema.CalendarRow, 0, schema.MaxHistoryRows)
	for _, row := range rows {
		if row.Actual == nil {
			continue
		}
		history = append(history, row)
		if len(history) == schema.MaxHistoryRows {
			break
		}
	}
	return history
}
