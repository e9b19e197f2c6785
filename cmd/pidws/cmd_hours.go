package main

// ---------------------------------------------------------------------------
// cmd_hours.go — hour-of-day distribution of high-severity alarms
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/pidws-project/pidws/internal/analytics"
)

func cmdHours(args []string) {
	fs := flag.NewFlagSet("hours", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	format := fs.String("format", "table", "Output format: table, json, csv")
	output := fs.String("output", "", "Write output to file")
	refresh := fs.Bool("refresh", false, "Bypass the corpus cache")
	fs.Parse(args)

	env := openCorpus(*configPath, "")
	table := env.table(context.Background(), *refresh)
	hours := analytics.Hourly(table)

	w, cleanup := outputWriter(*output)
	defer cleanup()

	switch parseFormat(*format) {
	case FormatJSON:
		data, _ := json.MarshalIndent(hours, "", "  ")
		fmt.Fprintln(w, string(data))
	case FormatCSV:
		rows := make([][]string, 0, len(hours))
		for _, h := range hours {
			rows = append(rows, []string{fmt.Sprintf("%d", h.Hour), fmt.Sprintf("%d", h.Count)})
		}
		writeCSV(w, []string{"hour", "high_severity"}, rows)
	default:
		max := 0
		for _, h := range hours {
			if h.Count > max {
				max = h.Count
			}
		}
		fmt.Fprintf(w, "\n%s\n\n", bold("High-severity alarms by hour of day"))
		for _, h := range hours {
			bar := ""
			if max > 0 {
				bar = strings.Repeat("█", h.Count*40/max)
			}
			fmt.Fprintf(w, "  %02d:00  %4d  %s\n", h.Hour, h.Count, cyan(bar))
		}
		fmt.Fprintln(w)
	}
}
