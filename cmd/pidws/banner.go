package main

// ---------------------------------------------------------------------------
// banner.go — version, usage, and per-command help printing
// ---------------------------------------------------------------------------

import (
	"fmt"
	"io"
	"os"
	goruntime "runtime"
	"runtime/debug"
)

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "pidws v%s", version)
	if commit != "dev" {
		fmt.Fprintf(w, " (%s)", commit[:min(7, len(commit))])
	}
	if buildDate != "unknown" {
		fmt.Fprintf(w, " built %s", buildDate)
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(w, " %s", bi.GoVersion)
	}
	fmt.Fprintf(w, " %s/%s", goruntime.GOOS, goruntime.GOARCH)
	fmt.Fprintln(w)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "\n%s %s\n\n", bold("pidws"), dim("v"+version+" — pipeline intrusion alarm trend analyzer"))
	fmt.Fprintf(w, "%s\n\n", bold("USAGE"))
	fmt.Fprintf(w, "  pidws <command> [flags]\n\n")
	fmt.Fprintf(w, "%s\n\n", bold("COMMANDS"))
	fmt.Fprintf(w, "  %-10s  %s\n", bold("ingest"), "Validate and preview an alarm export locally")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("upload"), "Validate an alarm export and save it to the historic store")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("trends"), "Daily violation trend and SOP compliance rate")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("hotspots"), "Sections ranked by unverified high-severity alarms")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("stretch"), "Most vulnerable 1-km stretches within a section")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("hours"), "Hour-of-day distribution of high-severity alarms")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("summary"), "All rollups in one pass over the corpus")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("corpus"), "List the stored source documents")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("watch"), "Follow ingest reports on the notification bus")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("config"), "Show or initialize configuration")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("version"), "Print version and build info")
	fmt.Fprintf(w, "  %-10s  %s\n", bold("help"), "Show help for a command")
	fmt.Fprintf(w, "\n%s\n\n", bold("GLOBAL FLAGS"))
	fmt.Fprintf(w, "  %-22s  %s\n", "--config <path>", "Config file path (default: "+defaultConfigPath+", env: PIDWS_CONFIG)")
	fmt.Fprintf(w, "  %-22s  %s\n", "--format <fmt>", "Output format: table, json, csv (default: table)")
	fmt.Fprintf(w, "  %-22s  %s\n", "--version, -V", "Print version and exit")
	fmt.Fprintf(w, "  %-22s  %s\n", "--help, -h", "Show help")
	fmt.Fprintf(w, "\n%s\n\n", bold("ENVIRONMENT VARIABLES"))
	fmt.Fprintf(w, "  %-34s  %s\n", "PIDWS_CONFIG", "Default config file path")
	fmt.Fprintf(w, "  %-34s  %s\n", "PIDWS_STORAGE_CONNECTION_STRING", "Storage account connection string")
	fmt.Fprintf(w, "  %-34s  %s\n", "PIDWS_STORAGE_CONTAINER", "Blob container override")
	fmt.Fprintf(w, "\n%s\n\n", bold("EXAMPLES"))
	fmt.Fprintf(w, "  %s\n", dim("# Validate today's export without storing it"))
	fmt.Fprintf(w, "  pidws ingest 05-02-2026-ALARMS.xlsx\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Save it to the historic corpus"))
	fmt.Fprintf(w, "  pidws upload 05-02-2026-ALARMS.xlsx\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Daily trend as JSON"))
	fmt.Fprintf(w, "  pidws trends --format json\n\n")
	fmt.Fprintf(w, "  %s\n", dim("# Drill into one section"))
	fmt.Fprintf(w, "  pidws stretch \"Sector 7\"\n\n")
	fmt.Fprintf(w, "Run %s for detailed help on any command.\n\n", bold("pidws help <command>"))
}

// cmdHelp prints detailed help for one command.
func cmdHelp(name string) {
	w := os.Stdout
	switch name {
	case "ingest":
		fmt.Fprintf(w, "\n%s — validate and preview an alarm export locally\n\n", bold("pidws ingest <file>"))
		fmt.Fprintf(w, "Runs the full ingestion pipeline (header detection, schema gate, field\n")
		fmt.Fprintf(w, "coercion) without touching the store. Prints a summary and the first rows.\n\n")
		fmt.Fprintf(w, "  %-22s  %s\n", "--header-row <n>", "Pin the header to a fixed 0-based row (skip the scan)")
		fmt.Fprintf(w, "  %-22s  %s\n", "--limit <n>", "Preview row count (default 10, 0 = all)")
		fmt.Fprintf(w, "  %-22s  %s\n", "--format <fmt>", "table, json, csv")
		fmt.Fprintf(w, "  %-22s  %s\n", "--output <path>", "Write output to file")
	case "upload":
		fmt.Fprintf(w, "\n%s — validate and store an alarm export\n\n", bold("pidws upload <file>"))
		fmt.Fprintf(w, "Rejected documents are not stored. A successful upload overwrites any\n")
		fmt.Fprintf(w, "object with the same name, invalidates the corpus cache, and publishes\n")
		fmt.Fprintf(w, "an ingest report on the notification bus when the bus is enabled.\n\n")
		fmt.Fprintf(w, "  %-22s  %s\n", "--header-row <n>", "Pin the header to a fixed 0-based row")
		fmt.Fprintf(w, "  %-22s  %s\n", "--store <backend>", "azure or memory (default from config)")
	case "trends", "hotspots", "hours", "summary":
		fmt.Fprintf(w, "\n%s — corpus analytics\n\n", bold("pidws "+name))
		fmt.Fprintf(w, "Reconstructs the historic corpus from the object store (cached for the\n")
		fmt.Fprintf(w, "configured staleness window) and prints the rollup.\n\n")
		fmt.Fprintf(w, "  %-22s  %s\n", "--format <fmt>", "table, json, csv")
		fmt.Fprintf(w, "  %-22s  %s\n", "--output <path>", "Write output to file")
	case "stretch":
		fmt.Fprintf(w, "\n%s — stretch drill-down\n\n", bold("pidws stretch <section>"))
		fmt.Fprintf(w, "Buckets the section's alarms per whole kilometer post and prints the\n")
		fmt.Fprintf(w, "top 5 stretches by vulnerability score (high-severity + unverified).\n\n")
		fmt.Fprintf(w, "  %-22s  %s\n", "--format <fmt>", "table, json, csv")
	case "corpus":
		fmt.Fprintf(w, "\n%s — list the stored source documents\n\n", bold("pidws corpus"))
		fmt.Fprintf(w, "Shows every object in the container and whether it counts toward the\n")
		fmt.Fprintf(w, "alarm corpus.\n")
	case "watch":
		fmt.Fprintf(w, "\n%s — follow ingest reports on the notification bus\n\n", bold("pidws watch"))
		fmt.Fprintf(w, "Subscribes to accepted/rejected ingest reports and prints them as they\n")
		fmt.Fprintf(w, "arrive. Requires bus.enabled: true in the config.\n\n")
		fmt.Fprintf(w, "  %-22s  %s\n", "--durable <name>", "Durable consumer name (resume across restarts)")
	case "config":
		fmt.Fprintf(w, "\n%s — show or initialize configuration\n\n", bold("pidws config <show|init>"))
		fmt.Fprintf(w, "  %-22s  %s\n", "show", "Print the effective configuration")
		fmt.Fprintf(w, "  %-22s  %s\n", "init", "Write a starter config file")
	default:
		printUsage(w)
	}
	fmt.Fprintln(w)
}
