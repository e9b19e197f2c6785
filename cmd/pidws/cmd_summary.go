package main

// ---------------------------------------------------------------------------
// cmd_summary.go — all rollups in one pass over the corpus
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/pidws-project/pidws/internal/analytics"
)

func cmdSummary(args []string) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	format := fs.String("format", "table", "Output format: table, json")
	output := fs.String("output", "", "Write output to file")
	refresh := fs.Bool("refresh", false, "Bypass the corpus cache")
	fs.Parse(args)

	env := openCorpus(*configPath, "")
	ctx := context.Background()

	// Each rollup goes through the cache; only the first call fetches.
	table := env.table(ctx, *refresh)
	daily := analytics.Daily(env.table(ctx, false))
	sections := analytics.SectionHotspots(env.table(ctx, false))
	hours := analytics.Hourly(env.table(ctx, false))
	rate, rateDefined := analytics.ComplianceRate(table)

	w, cleanup := outputWriter(*output)
	defer cleanup()

	if parseFormat(*format) == FormatJSON {
		payload := map[string]interface{}{
			"events":   len(table),
			"daily":    daily,
			"hotspots": sections,
			"hourly":   hours,
		}
		if rateDefined {
			payload["compliance_rate"] = rate
		} else {
			payload["compliance_rate"] = nil
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if len(table) == 0 {
		fmt.Fprintf(w, "%s\n", yellow("no historic data in storage yet"))
		return
	}

	fmt.Fprintf(w, "\n%s\n\n", bold("Corpus summary"))
	fmt.Fprintf(w, "  events: %d across %d days, %d sections\n",
		len(table), len(daily), len(table.Sections()))
	if rateDefined {
		fmt.Fprintf(w, "  SOP compliance: %s\n", bold(fmt.Sprintf("%.1f%%", rate)))
	} else {
		fmt.Fprintf(w, "  SOP compliance: %s\n", dim("undefined (no alarms)"))
	}

	fmt.Fprintf(w, "\n%s\n", bold("Top hotspots"))
	t := NewTable(w, "section", "unverified_critical")
	for i, s := range sections {
		if i >= 5 {
			break
		}
		t.AddRow(s.Section, fmt.Sprintf("%d", s.Count))
	}
	t.Render()

	peak := 0
	for _, h := range hours {
		if h.Count > hours[peak].Count {
			peak = h.Hour
		}
	}
	fmt.Fprintf(w, "\n  peak high-severity hour: %02d:00 (%d alarms)\n\n",
		hours[peak].Hour, hours[peak].Count)
}
