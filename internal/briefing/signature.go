package briefing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/sinn357/investment-app-sub000/internal/registry"
	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// SignatureRow is the reduced projection of one indicator that participates
// in the content signature. Values are rendered in their published string
// form so tagging survives the round trip.
type SignatureRow struct {
	ID          string `json:"id"`
	Actual      string `json:"actual"`
	Forecast    string `json:"forecast"`
	Previous    string `json:"previous"`
	ReleaseDate string `json:"release_date"`
}

// ProjectSnapshot reduces a snapshot to signature rows for every enabled,
// non-manual catalog indicator, sorted by id. Indicators absent from the
// snapshot still contribute a row so appearing/disappearing data changes
// the signature.
func ProjectSnapshot(reg *registry.Registry, snap schema.Snapshot) []SignatureRow {
	rows := make([]SignatureRow, 0, len(snap))
	for _, ind := range reg.All() {
		if !ind.Enabled || ind.ManualCheck {
			continue
		}
		row := SignatureRow{ID: ind.ID}
		if release, ok := snap[ind.ID]; ok {
			row.Actual = valueString(release.Actual)
			row.Forecast = valueString(release.Forecast)
			row.Previous = valueString(release.Previous)
			row.ReleaseDate = release.ReleaseDate
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

// Signature hashes the projection deterministically. Two snapshots with the
// same rows produce the same signature regardless of map order or when they
// were generated.
func Signature(rows []SignatureRow) string {
	// Row order is fixed by ProjectSnapshot; canonical JSON of a slice of
	// flat structs is deterministic.
	data, _ := json.Marshal(rows)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func valueString(v *schema.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}
