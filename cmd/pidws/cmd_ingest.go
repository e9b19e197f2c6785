package main

// ---------------------------------------------------------------------------
// cmd_ingest.go — validate and preview an alarm export locally
// ---------------------------------------------------------------------------

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pidws-project/pidws/internal/core"
	"github.com/pidws-project/pidws/internal/ingest"
)

func cmdIngest(args []string) {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	headerRow := fs.Int("header-row", -1, "Fixed 0-based header row (skip adaptive scan)")
	limit := fs.Int("limit", 10, "Preview row count (0 = all)")
	format := fs.String("format", "table", "Output format: table, json, csv")
	output := fs.String("output", "", "Write output to file")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: pidws ingest <file>")
	}
	path := fs.Arg(0)

	cfg, err := core.LoadConfig(envConfig(*configPath))
	if err != nil {
		errorf("%v", err)
	}
	logger := newLogger(cfg)

	content, err := os.ReadFile(path)
	if err != nil {
		errorf("reading %s: %v", path, err)
	}

	res, err := newIngestor(cfg, *headerRow, logger).Ingest(
		ingest.RawDocument{Name: path, Content: content},
		ingest.Provenance{SourceFile: path, IngestionDate: time.Now()},
	)
	if err != nil {
		if errors.Is(err, ingest.ErrSchemaUnrecognized) {
			errorf("%s rejected: %v", path, err)
		}
		errorf("%v", err)
	}

	w, cleanup := outputWriter(*output)
	defer cleanup()

	events := res.Events
	preview := events
	if *limit > 0 && len(preview) > *limit {
		preview = preview[:*limit]
	}

	switch parseFormat(*format) {
	case FormatJSON:
		data, _ := json.MarshalIndent(map[string]interface{}{
			"batch_id": res.BatchID,
			"events":   preview,
			"total":    len(events),
			"dropped":  res.Dropped,
		}, "", "  ")
		fmt.Fprintln(w, string(data))
	case FormatCSV:
		writeCSV(w, eventHeaders(), eventRows(preview))
	default:
		fmt.Fprintf(w, "\n%s  %s\n", green("✓"), bold(path))
		fmt.Fprintf(w, "  batch %s — %d events, %d rows dropped (no alert time)\n\n",
			dim(res.BatchID), len(events), res.Dropped)
		t := NewTable(w, eventHeaders()...)
		for _, row := range eventRows(preview) {
			t.AddRow(row...)
		}
		t.Render()
		if len(preview) < len(events) {
			fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("… %d more rows", len(events)-len(preview))))
		}
	}
}

func eventHeaders() []string {
	return []string{"alert_time", "verified", "severity", "section", "km", "type", "response_min", "sop_violation", "unverified_critical"}
}

func eventRows(events core.EventTable) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		verified := "-"
		if e.VerificationTime != nil {
			verified = e.VerificationTime.Format("2006-01-02 15:04")
		}
		km := "-"
		if e.LocationMarker != nil {
			km = fmt.Sprintf("%.1f", *e.LocationMarker)
		}
		resp := "-"
		if e.ResponseMinutes != nil {
			resp = fmt.Sprintf("%.1f", *e.ResponseMinutes)
		}
		rows = append(rows, []string{
			e.AlertTime.Format("2006-01-02 15:04"),
			verified,
			e.Severity,
			e.Section,
			km,
			e.EventType,
			resp,
			fmt.Sprintf("%t", e.IsSOPViolation),
			fmt.Sprintf("%t", e.IsUnverifiedCritical),
		})
	}
	return rows
}
