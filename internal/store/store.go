// Package store defines the persistence collaborator at its interface. The
// core only needs release upserts and the latest-snapshot read used by
// scoring and briefing; the engine behind it is replaceable.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// ReleaseStore persists canonical release records and serves the latest
// snapshot back to the scoring side.
type ReleaseStore interface {
	// UpsertRelease replaces the stored record for an indicator; history
	// rows are persisted individually alongside the record.
	UpsertRelease(ctx context.Context, indicatorID string, record *schema.ReleaseRecord) error

	// History returns up to limit stored history rows, newest-first.
	History(ctx context.Context, indicatorID string, limit int) ([]schema.CalendarRow, error)

	// LatestSnapshot returns the latest release per stored indicator.
	LatestSnapshot(ctx context.Context) (schema.Snapshot, error)
}

// Memory is the in-process ReleaseStore used by tests and single-shot CLI
// runs.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*schema.ReleaseRecord
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]*schema.ReleaseRecord)}
}

func (m *Memory) UpsertRelease(_ context.Context, indicatorID string, record *schema.ReleaseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[indicatorID] = record
	return nil
}

func (m *Memory) History(_ context.Context, indicatorID string, limit int) ([]schema.CalendarRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[indicatorID]
	if !ok {
		return nil, nil
	}
	rows := record.History
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([]schema.CalendarRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *Memory) LatestSnapshot(_ context.Context) (schema.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := make(schema.Snapshot, len(m.records))
	for id, record := range m.records {
		snap[id] = record.Latest
	}
	return snap, nil
}

// IDs returns stored indicator IDs, sorted. Test helper.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
