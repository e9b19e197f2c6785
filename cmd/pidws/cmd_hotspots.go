package main

// ---------------------------------------------------------------------------
// cmd_hotspots.go — sections ranked by unverified high-severity alarms
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/pidws-project/pidws/internal/analytics"
)

func cmdHotspots(args []string) {
	fs := flag.NewFlagSet("hotspots", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	format := fs.String("format", "table", "Output format: table, json, csv")
	output := fs.String("output", "", "Write output to file")
	refresh := fs.Bool("refresh", false, "Bypass the corpus cache")
	fs.Parse(args)

	env := openCorpus(*configPath, "")
	table := env.table(context.Background(), *refresh)
	sections := analytics.SectionHotspots(table)

	w, cleanup := outputWriter(*output)
	defer cleanup()

	headers := []string{"section", "unverified_critical"}
	rows := make([][]string, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, []string{s.Section, fmt.Sprintf("%d", s.Count)})
	}

	switch parseFormat(*format) {
	case FormatJSON:
		data, _ := json.MarshalIndent(sections, "", "  ")
		fmt.Fprintln(w, string(data))
	case FormatCSV:
		writeCSV(w, headers, rows)
	default:
		if len(sections) == 0 {
			fmt.Fprintf(w, "%s\n", green("no unverified high-severity alarms in the corpus"))
			return
		}
		t := NewTable(w, headers...)
		for _, row := range rows {
			t.AddRow(row...)
		}
		t.Render()
	}
}
