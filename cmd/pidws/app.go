package main

// ---------------------------------------------------------------------------
// app.go — shared wiring: logger, store, ingestor, corpus access
// ---------------------------------------------------------------------------

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pidws-project/pidws/internal/core"
	"github.com/pidws-project/pidws/internal/ingest"
	"github.com/pidws-project/pidws/internal/store"
)

// newLogger builds the CLI logger from config. Console format goes through
// zerolog's console writer; anything else is raw JSON lines.
func newLogger(cfg *core.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Logging.Format == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// newStore opens the configured object store. backendOverride ("azure",
// "memory" or "") takes precedence over the config file.
func newStore(cfg *core.Config, backendOverride string, logger zerolog.Logger) (store.ObjectStore, error) {
	backend := cfg.Storage.Backend
	if backendOverride != "" {
		backend = backendOverride
	}
	if backend == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewAzureStore(cfg.Storage.ConnectionString, cfg.Storage.Container, logger)
}

// newIngestor builds the document ingestor. headerRow >= 0 pins the header
// to a fixed offset for the documented vendor formats; -1 uses the config,
// which defaults to the adaptive scan.
func newIngestor(cfg *core.Config, headerRow int, logger zerolog.Logger) *ingest.Ingestor {
	opts := ingest.ReadOptions{
		HeaderRow:  cfg.Ingest.HeaderRow,
		ScanWindow: cfg.Ingest.ScanWindow,
	}
	if headerRow >= 0 {
		opts.HeaderRow = headerRow
	}
	return ingest.NewIngestor(opts, logger)
}

// corpusEnv bundles everything an analytics command needs.
type corpusEnv struct {
	cfg    *core.Config
	logger zerolog.Logger
	store  store.ObjectStore
	loader *store.CorpusLoader
	cache  *core.CorpusCache
}

// openCorpus builds the corpus environment for commands that touch the
// store. backendOverride comes from a --store flag, when offered.
func openCorpus(configPath, backendOverride string) *corpusEnv {
	cfg, err := core.LoadConfig(envConfig(configPath))
	if err != nil {
		errorf("%v", err)
	}
	logger := newLogger(cfg)

	st, err := newStore(cfg, backendOverride, logger)
	if err != nil {
		errorf("%v", err)
	}

	return &corpusEnv{
		cfg:    cfg,
		logger: logger,
		store:  st,
		loader: store.NewCorpusLoader(st, newIngestor(cfg, -1, logger), logger),
		cache:  core.NewCorpusCache(cfg.CacheTTL()),
	}
}

// table returns the historic corpus, via the cache. refresh forces a fetch.
func (env *corpusEnv) table(ctx context.Context, refresh bool) core.EventTable {
	if refresh {
		env.cache.Invalidate()
	}
	t, err := env.cache.GetOrRefresh(ctx, time.Now(), env.loader.Load)
	if err != nil {
		errorf("reconstructing corpus: %v", err)
	}
	return t
}
