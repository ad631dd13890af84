// Package crawl orchestrates a full refresh of every crawlable indicator.
// Each indicator succeeds or fails independently; the batch as a whole is
// bounded by a wall-clock budget and never aborted by one bad source.
package crawl

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sinn357/investment-app-sub000/internal/adapters"
	"github.com/sinn357/investment-app-sub000/internal/metrics"
	"github.com/sinn357/investment-app-sub000/internal/registry"
	"github.com/sinn357/investment-app-sub000/internal/schema"
	"github.com/sinn357/investment-app-sub000/internal/store"
)

// Outcome is one indicator's result within a batch.
type Outcome struct {
	IndicatorID string                `json:"indicator_id"`
	Record      *schema.ReleaseRecord `json:"record,omitempty"`
	Err         error                 `json:"-"`
	Error       string                `json:"error,omitempty"`
	Elapsed     time.Duration         `json:"elapsed"`
}

// BatchResult summarizes one refresh run.
type BatchResult struct {
	RunID     string        `json:"run_id"`
	Outcomes  []Outcome     `json:"outcomes"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Runner drives batches of adapter extractions into the store.
type Runner struct {
	reg     *registry.Registry
	set     *adapters.Set
	store   store.ReleaseStore
	metrics *metrics.Metrics

	// Workers bounds concurrent extractions; adapters share no mutable
	// state so independent indicators may fetch in parallel.
	Workers int
	// Budget bounds the whole batch; results past it are discarded as
	// stale.
	Budget time.Duration
}

// NewRunner wires a Runner. metrics may be nil.
func NewRunner(reg *registry.Registry, set *adapters.Set, st store.ReleaseStore, m *metrics.Metrics) *Runner {
	return &Runner{
		reg:     reg,
		set:     set,
		store:   st,
		metrics: m,
		Workers: 4,
		Budget:  10 * time.Minute,
	}
}

// Refresh crawls every enabled non-manual indicator once.
func (r *Runner) Refresh(ctx context.Context) (*BatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Budget)
	defer cancel()

	runID := uuid.NewString()
	started := time.Now()
	targets := r.reg.Crawlable()

	log.Info().
		Str("run_id", runID).
		Int("indicators", len(targets)).
		Msg("starting crawl batch")

	jobs := make(chan registry.Indicator)
	results := make(chan Outcome, len(targets))

	var wg sync.WaitGroup
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range jobs {
				results <- r.crawlOne(ctx, ind)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ind := range targets {
			select {
			case jobs <- ind:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	batch := &BatchResult{RunID: runID}
	for outcome := range results {
		if outcome.Err != nil {
			outcome.Error = outcome.Err.Error()
			batch.Failed++
		} else {
			batch.Succeeded++
		}
		batch.Outcomes = append(batch.Outcomes, outcome)
	}
	batch.Elapsed = time.Since(started)

	if r.metrics != nil {
		r.metrics.CrawlDuration.Observe(batch.Elapsed.Seconds())
	}

	log.Info().
		Str("run_id", runID).
		Int("succeeded", batch.Succeeded).
		Int("failed", batch.Failed).
		Dur("elapsed", batch.Elapsed).
		Msg("crawl batch finished")

	// The batch itself only errors when the budget consumed everything
	// before any indicator finished.
	if err := ctx.Err(); err != nil && len(batch.Outcomes) == 0 {
		return batch, err
	}
	return batch, nil
}

func (r *Runner) crawlOne(ctx context.Context, ind registry.Indicator) Outcome {
	started := time.Now()
	outcome := Outcome{IndicatorID: ind.ID}

	// A result arriving after the budget is stale; report the context
	// error instead of persisting it.
	record, err := r.set.Extract(ctx, ind.Source())
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err == nil {
		err = r.store.UpsertRelease(ctx, ind.ID, record)
	}

	outcome.Elapsed = time.Since(started)
	if err != nil {
		outcome.Err = err
		log.Warn().Str("indicator", ind.ID).Err(err).Msg("indicator crawl failed")
	} else {
		outcome.Record = record
	}

	if r.metrics != nil {
		r.metrics.ObserveExtraction(ind.ID, err)
	}
	return outcome
}
