package adapters

import (
	"context"
	"time"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// snapshotColumns must all be present by name in the comparison table.
var snapshotColumns = []string{"Actual", "Previous", "Unit", "Frequency"}

// SnapshotAdapter parses a fixed two-row comparison table (header + one data
// row) keyed by column name. Used for sources that publish a single current
// statistic instead of a calendar.
type SnapshotAdapter struct {
	Fetcher TextFetcher
}

func (a *SnapshotAdapter) Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error) {
	body, err := a.Fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return nil, err
	}

	record, err := ParseSnapshotHTML(body)
	if err != nil {
		return nil, &schema.ExtractionError{Source: src.IndicatorID, Reason: "snapshot table", Err: err}
	}
	return record, nil
}

// ParseSnapshotHTML locates the comparison table carrying all required
// columns and builds a record from its single data row.
func ParseSnapshotHTML(doc string) (*schema.ReleaseRecord, error) {
	tbl, ok := findSnapshotTable(parseTables(doc))
	if !ok {
		return nil, schema.ErrTableNotFound
	}
	if len(tbl.rows) == 0 {
		return nil, schema.ErrNoReleaseData
	}
	data := tbl.rows[0]

	actual := schema.MaybeValue(tbl.cell(data, tbl.headerIndex("Actual")))
	if actual == nil {
		return nil, schema.ErrNoReleaseData
	}
	previous := schema.MaybeValue(tbl.cell(data, tbl.headerIndex("Previous")))
	unit := tbl.cell(data, tbl.headerIndex("Unit"))
	frequency := tbl.cell(data, tbl.headerIndex("Frequency"))

	applyUnit(actual, unit)
	applyUnit(previous, unit)

	now := time.Now().UTC()
	record := &schema.ReleaseRecord{
		Latest: schema.LatestRelease{
			ReleaseDate: now.Format("2006-01-02"),
			Time:        frequency,
			Actual:      actual,
			Previous:    previous,
		},
		Timestamp: now,
	}
	if previous != nil {
		surprise := roundTo(actual.Float64()-previous.Float64(), 2)
		record.Surprise = &surprise
	}
	return record, nil
}

// findSnapshotTable requires every snapshot column to be present by name;
// a near-miss table is a shape change upstream and must fail closed.
func findSnapshotTable(tables []table) (table, bool) {
	for _, t := range tables {
		if hasAllColumns(t) {
			return t, true
		}
	}
	return table{}, false
}

func hasAllColumns(t table) bool {
	for _, col := range snapshotColumns {
		if t.headerIndex(col) < 0 {
			return false
		}
	}
	return true
}

// applyUnit tags an untagged value with the table's Unit column ("%" means
// percent). Values the cell parser already tagged keep their tag.
func applyUnit(v *schema.Value, unit string) {
	if v == nil || v.Unit != schema.UnitNone {
		return
	}
	if unit == "%" || unit == "percent" {
		v.Unit = schema.UnitPercent
	}
}
