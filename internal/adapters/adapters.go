// Package adapters contains one extraction adapter per source family. Every
// adapter normalizes its provider's shape into the canonical ReleaseRecord;
// unrecognized shapes fail closed with an ExtractionError rather than
// returning partial data.
package adapters

import (
	"context"
	"fmt"

	"github.com/sinn357/investment-app-sub000/internal/fetch"
	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// Kind selects an adapter family for a source.
type Kind string

const (
	KindCalendar     Kind = "calendar"      // HTML release calendar (past + scheduled)
	KindCSVSeries    Kind = "csv_series"    // two-column date,value CSV
	KindStatsAPI     Kind = "stats_api"     // quarterly JSON statistical API
	KindSnapshot     Kind = "snapshot"      // single-statistic comparison table
	KindPriceHistory Kind = "price_history" // daily price history table
)

// Source describes one extraction target. A Source is built from a registry
// entry; adapters never consult the registry directly.
type Source struct {
	IndicatorID  string
	Kind         Kind
	URL          string
	Unit         schema.Unit // tag for series whose published numbers carry no suffix
	CalculateYoY bool        // post-process the level series into YoY percent change
}

// Adapter extracts a canonical ReleaseRecord from one source family.
type Adapter interface {
	Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error)
}

// TextFetcher is the fetch dependency adapters need; satisfied by
// *fetch.Fetcher and stubbed in tests.
type TextFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var _ TextFetcher = (*fetch.Fetcher)(nil)

// Set is the startup-time adapter registration table. Selection is a plain
// lookup; there are no runtime fallback chains.
type Set struct {
	adapters map[Kind]Adapter
}

// NewSet registers the five adapter families. General scraping and the
// price-history pages use separately tuned fetchers.
func NewSet(general, price TextFetcher, apiKey string) *Set {
	return &Set{adapters: map[Kind]Adapter{
		KindCalendar:     &CalendarAdapter{Fetcher: general},
		KindCSVSeries:    &CSVSeriesAdapter{Fetcher: general},
		KindStatsAPI:     &StatsAPIAdapter{Fetcher: general, APIKey: apiKey},
		KindSnapshot:     &SnapshotAdapter{Fetcher: general},
		KindPriceHistory: &PriceHistoryAdapter{Fetcher: price},
	}}
}

// Lookup returns the adapter registered for kind.
func (s *Set) Lookup(kind Kind) (Adapter, error) {
	a, ok := s.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for kind %q", kind)
	}
	return a, nil
}

// Extract routes src to its registered adapter.
func (s *Set) Extract(ctx context.Context, src Source) (*schema.ReleaseRecord, error) {
	a, err := s.Lookup(src.Kind)
	if err != nil {
		return nil, err
	}
	return a.Extract(ctx, src)
}
