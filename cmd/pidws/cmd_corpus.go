package main

// ---------------------------------------------------------------------------
// cmd_corpus.go — list the stored source documents
// ---------------------------------------------------------------------------

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/pidws-project/pidws/internal/ingest"
)

func cmdCorpus(args []string) {
	fs := flag.NewFlagSet("corpus", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Config file path")
	format := fs.String("format", "table", "Output format: table, json, csv")
	output := fs.String("output", "", "Write output to file")
	fs.Parse(args)

	env := openCorpus(*configPath, "")
	infos, err := env.store.List(context.Background())
	if err != nil {
		errorf("listing store: %v", err)
	}

	w, cleanup := outputWriter(*output)
	defer cleanup()

	type entry struct {
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
		Size      int64  `json:"size"`
		InCorpus  bool   `json:"in_corpus"`
	}
	entries := make([]entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, entry{
			Name:      info.Name,
			CreatedAt: info.CreatedAt.Format("2006-01-02 15:04"),
			Size:      info.Size,
			InCorpus:  ingest.InCorpus(info.Name),
		})
	}

	headers := []string{"name", "created", "bytes", "in_corpus"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name, e.CreatedAt, fmt.Sprintf("%d", e.Size), fmt.Sprintf("%t", e.InCorpus),
		})
	}

	switch parseFormat(*format) {
	case FormatJSON:
		data, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Fprintln(w, string(data))
	case FormatCSV:
		writeCSV(w, headers, rows)
	default:
		if len(entries) == 0 {
			fmt.Fprintf(w, "%s\n", yellow("store is empty"))
			return
		}
		t := NewTable(w, headers...)
		for _, row := range rows {
			t.AddRow(row...)
		}
		t.Render()
	}
}
