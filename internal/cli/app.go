package cli

import (
	"fmt"

	"github.com/skillscout/skillscout/internal/config"
	"github.com/skillscout/skillscout/internal/db"
	"github.com/skillscout/skillscout/internal/discovery"
	"github.com/skillscout/skillscout/internal/fetch"
	"github.com/skillscout/skillscout/internal/indexer"
	"github.com/skillscout/skillscout/internal/log"
	"github.com/skillscout/skillscout/internal/notify"
	"github.com/skillscout/skillscout/internal/scraper"
	"github.com/skillscout/skillscout/internal/search"
)

// app bundles the collaborators every pipeline command needs. Pools and the
// store are constructed once per process and passed down explicitly.
type app struct {
	cfg    *config.Config
	log    *log.Logger
	db     *db.DB
	api    *scraper.Service
	search *search.Index
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	paths := config.GetPaths(cfg)

	logger, err := log.New(paths.Logs)
	if err != nil {
		return nil, err
	}

	database, err := db.New(db.DefaultConfig(paths.Database))
	if err != nil {
		logger.Close()
		return nil, err
	}

	tokens := scraper.NewTokenPool(cfg.GitHub.Tokens)
	api := scraper.NewService(tokens, cfg.GitHub.RateLimit, logger)

	index := search.New(search.Config{
		DataDir: paths.Search,
		APIKey:  cfg.Search.APIKey,
	}, logger)

	return &app{
		cfg:    cfg,
		log:    logger,
		db:     database,
		api:    api,
		search: index,
	}, nil
}

func (a *app) Close() {
	_ = a.db.Close()
	_ = a.log.Close()
}

func (a *app) newIndexer() *indexer.Indexer {
	fetcher := fetch.New(a.api, scraper.NewRawClient(), a.log)
	return indexer.New(a.api, fetcher, a.db, a.search, notify.NewWebhook(a.cfg.Notify.WebhookURL), a.log)
}

func (a *app) newOrchestrator() *discovery.Orchestrator {
	return discovery.NewOrchestrator(a.api, a.cfg.GitHub, a.log)
}
