package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/sinn357/investment-app-sub000/internal/adapters"
	"github.com/sinn357/investment-app-sub000/internal/briefing"
	"github.com/sinn357/investment-app-sub000/internal/cache"
	"github.com/sinn357/investment-app-sub000/internal/config"
	"github.com/sinn357/investment-app-sub000/internal/crawl"
	"github.com/sinn357/investment-app-sub000/internal/cycle"
	"github.com/sinn357/investment-app-sub000/internal/fetch"
	"github.com/sinn357/investment-app-sub000/internal/metrics"
	"github.com/sinn357/investment-app-sub000/internal/registry"
	"github.com/sinn357/investment-app-sub000/internal/store"
)

// app wires configuration into the component graph shared by every
// subcommand.
type app struct {
	cfg      *config.Config
	registry *registry.Registry
	store    store.ReleaseStore
	runner   *crawl.Runner
	engine   *cycle.Engine
	briefing *briefing.Generator
	metrics  *metrics.Metrics
	promReg  *prometheus.Registry

	closeStore func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	observe := func(host, outcome string) {
		m.FetchAttempts.WithLabelValues(host, outcome).Inc()
	}
	general := fetch.New(cfg.Fetch.General.FetchConfig())
	general.Observe = observe
	price := fetch.New(cfg.Fetch.Price.FetchConfig())
	price.Observe = observe
	set := adapters.NewSet(general, price, cfg.Stats.APIKey)

	var (
		st         store.ReleaseStore
		closeStore func() error
	)
	if cfg.Store.PostgresDSN != "" {
		pg, err := store.NewPostgres(cfg.Store.PostgresDSN, cfg.Store.StoreTimeout())
		if err != nil {
			return nil, fmt.Errorf("connect release store: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("release store schema: %w", err)
		}
		st = pg
		closeStore = pg.Close
	} else {
		log.Debug().Msg("no postgres_dsn configured, using in-memory store")
		st = store.NewMemory()
	}

	runner := crawl.NewRunner(reg, set, st, m)
	runner.Workers = cfg.Crawl.Workers
	runner.Budget = cfg.Crawl.CrawlBudget()

	engine, err := cycle.NewEngine()
	if err != nil {
		return nil, err
	}

	gen := briefing.NewGenerator(reg, cache.New(cfg.Cache.RedisAddr),
		briefing.RuleBasedSummarizer{}, cfg.Briefing.BriefingTTL())

	return &app{
		cfg:        cfg,
		registry:   reg,
		store:      st,
		runner:     runner,
		engine:     engine,
		briefing:   gen,
		metrics:    m,
		promReg:    promReg,
		closeStore: closeStore,
	}, nil
}

func (a *app) Close() {
	if a.closeStore != nil {
		if err := a.closeStore(); err != nil {
			log.Warn().Err(err).Msg("closing release store")
		}
	}
}
