package main

// ---------------------------------------------------------------------------
// cmd_upload.go — validate an alarm export and save it to the historic store
// ---------------------------------------------------------------------------

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pidws-project/pidws/internal/core"
	"github.com/pidws-project/pidws/internal/ingest"
)

func cmdUpload(args []string) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	headerRow := fs.Int("header-row", -1, "Fixed 0-based header row (skip adaptive scan)")
	backend := fs.String("store", "", "Store backend override: azure, memory")
	timeoutStr := fs.String("timeout", "60s", "Storage operation timeout")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: pidws upload <file>")
	}
	path := fs.Arg(0)
	name := filepath.Base(path)

	env := openCorpus(*configPath, *backend)

	timeout, err := time.ParseDuration(*timeoutStr)
	if err != nil {
		errorf("invalid timeout %q: %v", *timeoutStr, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	content, err := os.ReadFile(path)
	if err != nil {
		errorf("reading %s: %v", path, err)
	}

	var bus *core.NotifyBus
	if env.cfg.Bus.Enabled {
		bus, err = core.NewNotifyBus(&env.cfg.Bus, env.logger)
		if err != nil {
			warnf("notification bus unavailable: %v", err)
			bus = nil
		} else {
			defer bus.Close()
		}
	}

	// Validate first. A rejected document contributes nothing: it is never
	// written to the store.
	res, ingestErr := newIngestor(env.cfg, *headerRow, env.logger).Ingest(
		ingest.RawDocument{Name: name, Content: content},
		ingest.Provenance{SourceFile: name, IngestionDate: time.Now()},
	)
	if ingestErr != nil {
		publishReport(bus, &core.IngestReport{
			SourceFile: name,
			Accepted:   false,
			Reason:     core.RejectionReason(ingestErr),
			Timestamp:  time.Now().UTC(),
		})
		errorf("%s rejected, not stored: %v", name, ingestErr)
	}

	exists, err := env.store.Exists(ctx)
	if err != nil {
		errorf("%v", err)
	}
	if !exists {
		if err := env.store.Create(ctx); err != nil {
			errorf("%v", err)
		}
		env.logger.Info().Str("container", env.cfg.Storage.Container).Msg("container created")
	}

	if err := env.store.Put(ctx, name, content); err != nil {
		errorf("storing %s: %v", name, err)
	}

	// Invalidate synchronously after the write so the very next analytics
	// read in this process sees the fresh document.
	env.cache.Invalidate()

	publishReport(bus, &core.IngestReport{
		BatchID:    res.BatchID,
		SourceFile: name,
		Accepted:   true,
		Events:     len(res.Events),
		Dropped:    res.Dropped,
		Timestamp:  time.Now().UTC(),
	})

	fmt.Printf("%s saved %s to history (%d events, %d rows dropped)\n",
		green("✓"), bold(name), len(res.Events), res.Dropped)
}

func publishReport(bus *core.NotifyBus, report *core.IngestReport) {
	if bus == nil {
		return
	}
	if err := bus.PublishReport(report); err != nil {
		warnf("publishing ingest report: %v", err)
	}
}
