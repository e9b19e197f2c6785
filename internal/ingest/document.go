// Package ingest turns raw uploaded alarm exports (CSV or spreadsheet,
// unknown header position, inconsistent column naming, mixed encodings)
// into validated canonical event tables, or rejects them whole.
package ingest

import (
	"path/filepath"
	"strings"
	"time"
)

// DocKind discriminates the two supported document families. The filename
// extension is the only discriminator; content sniffing is not attempted.
type DocKind int

const (
	KindUnknown DocKind = iota
	KindDelimited
	KindSpreadsheet
)

func (k DocKind) String() string {
	switch k {
	case KindDelimited:
		return "csv"
	case KindSpreadsheet:
		return "spreadsheet"
	default:
		return "unknown"
	}
}

// RawDocument is one uploaded file: bytes plus the name they arrived under.
// It lives for exactly one ingestion call.
type RawDocument struct {
	Name    string
	Content []byte
}

// Kind classifies the document by filename extension.
func (d RawDocument) Kind() DocKind {
	switch strings.ToLower(filepath.Ext(d.Name)) {
	case ".csv":
		return KindDelimited
	case ".xlsx", ".xls":
		return KindSpreadsheet
	default:
		return KindUnknown
	}
}

// Provenance tags every event produced from one document.
type Provenance struct {
	SourceFile    string
	IngestionDate time.Time
	BatchID       string
}

// corpusMarker flags object names that belong to the alarm corpus even
// without a spreadsheet extension.
const corpusMarker = "alarm"

// InCorpus reports whether a stored object name is part of the historic
// alarm corpus: the name carries the ALARM marker (case-insensitive) or a
// spreadsheet extension. Other uploads sharing the container are ignored.
func InCorpus(name string) bool {
	if strings.Contains(strings.ToLower(name), corpusMarker) {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}
