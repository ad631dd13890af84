package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sinn357/investment-app-sub000/internal/schema"
)

// Postgres is the reference ReleaseStore implementation.
type Postgres struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgres opens a connection pool against dsn.
func NewPostgres(dsn string, timeout time.Duration) (*Postgres, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Postgres{db: db, timeout: timeout}, nil
}

// Close releases the pool.
func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) UpsertRelease(ctx context.Context, indicatorID string, record *schema.ReleaseRecord) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal release record: %w", err)
	}
	latest, err := json.Marshal(record.Latest)
	if err != nil {
		return fmt.Errorf("marshal latest release: %w", err)
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO indicator_releases (indicator_id, latest, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (indicator_id) DO UPDATE SET
			latest = EXCLUDED.latest,
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`
	if _, err := tx.ExecContext(ctx, upsert, indicatorID, latest, payload, record.Timestamp); err != nil {
		return fmt.Errorf("upsert release for %s: %w", indicatorID, err)
	}

	// History rows are persisted individually so reporting can query them
	// without unpacking the record payload.
	const upsertRow = `
		INSERT INTO release_history (indicator_id, release_date, row)
		VALUES ($1, $2, $3)
		ON CONFLICT (indicator_id, release_date) DO UPDATE SET row = EXCLUDED.row`
	for _, row := range record.History {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal history row: %w", err)
		}
		if _, err := tx.ExecContext(ctx, upsertRow, indicatorID, row.ReleaseDate, data); err != nil {
			return fmt.Errorf("upsert history for %s at %s: %w", indicatorID, row.ReleaseDate, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (p *Postgres) History(ctx context.Context, indicatorID string, limit int) ([]schema.CalendarRow, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if limit <= 0 {
		limit = schema.MaxHistoryRows
	}

	const query = `
		SELECT row FROM release_history
		WHERE indicator_id = $1
		ORDER BY release_date DESC
		LIMIT $2`
	var raws [][]byte
	if err := p.db.SelectContext(ctx, &raws, query, indicatorID, limit); err != nil {
		return nil, fmt.Errorf("query history for %s: %w", indicatorID, err)
	}

	rows := make([]schema.CalendarRow, 0, len(raws))
	for _, raw := range raws {
		var row schema.CalendarRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("decode history row for %s: %w", indicatorID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *Postgres) LatestSnapshot(ctx context.Context) (schema.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	const query = `SELECT indicator_id, latest FROM indicator_releases`
	type row struct {
		IndicatorID string `db:"indicator_id"`
		Latest      []byte `db:"latest"`
	}
	var rows []row
	if err := p.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}

	snap := make(schema.Snapshot, len(rows))
	for _, r := range rows {
		var latest schema.LatestRelease
		if err := json.Unmarshal(r.Latest, &latest); err != nil {
			return nil, fmt.Errorf("decode latest for %s: %w", r.IndicatorID, err)
		}
		snap[r.IndicatorID] = latest
	}
	return snap, nil
}

// Schema is the DDL the reference implementation expects.
const Schema = `
CREATE TABLE IF NOT EXISTS indicator_releases (
	indicator_id TEXT PRIMARY KEY,
	latest       JSONB NOT NULL,
	payload      JSONB NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS release_history (
	indicator_id TEXT NOT NULL,
	release_date TEXT NOT NULL,
	row          JSONB NOT NULL,
	PRIMARY KEY (indicator_id, release_date)
);`

// EnsureSchema creates the tables when they do not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
