package main

// ---------------------------------------------------------------------------
// cmd_trends.go — daily violation trend and SOP compliance rate
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/pidws-project/pidws/internal/analytics"
)

func cmdTrends(args []string) {
	fs := flag.NewFlagSet("trends", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	format := fs.String("format", "table", "Output format: table, json, csv")
	output := fs.String("output", "", "Write output to file")
	refresh := fs.Bool("refresh", false, "Bypass the corpus cache")
	fs.Parse(args)

	env := openCorpus(*configPath, "")
	table := env.table(context.Background(), *refresh)

	daily := analytics.Daily(table)
	rate, rateDefined := analytics.ComplianceRate(table)

	w, cleanup := outputWriter(*output)
	defer cleanup()

	headers := []string{"date", "total_alarms", "mean_response_min", "unverified_critical", "sop_violations"}
	rows := make([][]string, 0, len(daily))
	for _, d := range daily {
		mean := "-"
		if d.MeanResponseMinutes != nil {
			mean = fmt.Sprintf("%.1f", *d.MeanResponseMinutes)
		}
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", d.Total),
			mean,
			fmt.Sprintf("%d", d.UnverifiedCritical),
			fmt.Sprintf("%d", d.SOPViolations),
		})
	}

	switch parseFormat(*format) {
	case FormatJSON:
		payload := map[string]interface{}{
			"daily":  daily,
			"events": len(table),
		}
		if rateDefined {
			payload["compliance_rate"] = rate
		} else {
			payload["compliance_rate"] = nil
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Fprintln(w, string(data))
	case FormatCSV:
		writeCSV(w, headers, rows)
	default:
		if len(table) == 0 {
			fmt.Fprintf(w, "%s\n", yellow("no historic data in storage yet"))
			return
		}
		t := NewTable(w, headers...)
		for _, row := range rows {
			t.AddRow(row...)
		}
		t.Render()
		// Undefined on an empty corpus; never shown as 100% or 0%.
		if rateDefined {
			fmt.Fprintf(w, "\nSOP compliance: %s over %d alarms\n",
				bold(fmt.Sprintf("%.1f%%", rate)), len(table))
		} else {
			fmt.Fprintf(w, "\nSOP compliance: %s\n", dim("undefined (no alarms)"))
		}
	}
}
