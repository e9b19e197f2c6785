package main

// ---------------------------------------------------------------------------
// cmd_stretch.go — most vulnerable 1-km stretches within a section
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strings"

	"github.com/pidws-project/pidws/internal/analytics"
)

func cmdStretch(args []string) {
	fs := flag.NewFlagSet("stretch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	format := fs.String("format", "table", "Output format: table, json, csv")
	output := fs.String("output", "", "Write output to file")
	refresh := fs.Bool("refresh", false, "Bypass the corpus cache")
	fs.Parse(args)

	if fs.NArg() < 1 {
		errorf("usage: pidws stretch <section>")
	}
	section := fs.Arg(0)

	env := openCorpus(*configPath, "")
	table := env.table(context.Background(), *refresh)
	stretches := analytics.Stretch(table, section)

	w, cleanup := outputWriter(*output)
	defer cleanup()

	headers := []string{"stretch", "total_alarms", "high_severity", "unverified_critical", "vulnerability_score"}
	rows := make([][]string, 0, len(stretches))
	for _, s := range stretches {
		rows = append(rows, []string{
			s.Label,
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.HighCount),
			fmt.Sprintf("%d", s.UnverifiedCount),
			fmt.Sprintf("%d", s.VulnerabilityScore),
		})
	}

	switch parseFormat(*format) {
	case FormatJSON:
		data, _ := json.MarshalIndent(stretches, "", "  ")
		fmt.Fprintln(w, string(data))
	case FormatCSV:
		writeCSV(w, headers, rows)
	default:
		if len(stretches) == 0 {
			known := env.table(context.Background(), false).Sections()
			if len(known) > 0 {
				fmt.Fprintf(w, "%s\n", yellow(fmt.Sprintf(
					"no located alarms for section %q (known sections: %s)",
					section, strings.Join(known, ", "))))
			} else {
				fmt.Fprintf(w, "%s\n", yellow("no historic data in storage yet"))
			}
			return
		}
		fmt.Fprintf(w, "\n%s %s\n\n", bold("Most vulnerable stretches:"), cyan(section))
		t := NewTable(w, headers...)
		for _, row := range rows {
			t.AddRow(row...)
		}
		t.Render()
	}
}
