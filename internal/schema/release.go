package schema

import (
	"time"
)

// Undetermined is the sentinel used when a source publishes no scheduled
// future release.
const Undetermined = "undetermined"

// MaxHistoryRows caps the history table carried on a ReleaseRecord.
const MaxHistoryRows = 12

// Observation is a single timestamped raw value from a source.
// Sequences are ordered newest-first; duplicate timestamps are allowed and
// resolved by scan order downstream.
type Observation struct {
	Date  time.Time `json:"date"`
	Value *Value    `json:"value"`
}

// CalendarRow is one parsed row of a release calendar. A nil Actual means
// the release has not happened yet.
type CalendarRow struct {
	ReleaseDate string `json:"release_date"`
	Time        string `json:"time"`
	Actual      *Value `json:"actual"`
	Forecast    *Value `json:"forecast"`
	Previous    *Value `json:"previous"`
}

// LatestRelease is the most recent realized release.
type LatestRelease struct {
	ReleaseDate string `json:"release_date"`
	Time        string `json:"time"`
	Actual      *Value `json:"actual"`
	Forecast    *Value `json:"forecast"`
	Previous    *Value `json:"previous"`
}

// NextRelease is the upcoming scheduled release, or the explicit
// undetermined variant when the source lists none. The variant carries the
// latest actual as Previous so consumers still see the reference value.
type NextRelease struct {
	Undetermined bool   `json:"undetermined,omitempty"`
	ReleaseDate  string `json:"release_date"`
	Time         string `json:"time"`
	Forecast     *Value `json:"forecast"`
	Previous     *Value `json:"previous"`
}

// UndeterminedNext builds the explicit no-future-release variant.
func UndeterminedNext(previous *Value) *NextRelease {
	return &NextRelease{
		Undetermined: true,
		ReleaseDate:  Undetermined,
		Time:         Undetermined,
		Previous:     previous,
	}
}

// ReleaseRecord is the canonical contract every adapter produces: the latest
// realized release, the next scheduled one, and up to MaxHistoryRows of
// realized history, newest-first. Next is nil for daily-cadence sources,
// which have no discrete "next release" concept.
type ReleaseRecord struct {
	Latest    LatestRelease `json:"latest_release"`
	Next      *NextRelease  `json:"next_release"`
	History   []CalendarRow `json:"history_table"`
	Surprise  *float64      `json:"surprise,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Snapshot maps indicator IDs to their latest realized release. It is the
// scoring and briefing input shape supplied by the storage collaborator.
type Snapshot map[string]LatestRelease
