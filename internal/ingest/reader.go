package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadOptions control how the raw table is extracted from a document.
type ReadOptions struct {
	// HeaderRow pins the header to a fixed 0-based row index, bypassing the
	// adaptive scan. Fixed-offset mode is authoritative when set: the
	// documented vendor formats carry the header at row 3. -1 enables the
	// adaptive scan.
	HeaderRow int
	// ScanWindow bounds the adaptive scan. 0 means DefaultScanWindow.
	ScanWindow int
}

// DefaultReadOptions returns adaptive-scan options.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{HeaderRow: -1}
}

// rawTable is an untyped table: the header labels as they appeared in the
// document, and every row below them.
type rawTable struct {
	labels []string
	rows   [][]string
}

// readTable extracts the raw table from a document. It returns
// ErrSchemaUnrecognized (wrapped) when no header row can be located, and a
// plain error for unreadable content; the builder folds both into the same
// rejection outcome.
func readTable(doc RawDocument, opts ReadOptions) (*rawTable, error) {
	switch doc.Kind() {
	case KindDelimited:
		return readDelimited(doc, opts)
	case KindSpreadsheet:
		return readSpreadsheet(doc, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported document type %q", ErrSchemaUnrecognized, doc.Name)
	}
}

func readDelimited(doc RawDocument, opts ReadOptions) (*rawTable, error) {
	text, err := decodeText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", doc.Name, err)
	}

	lines := splitLines(text)

	headerIdx := opts.HeaderRow
	if headerIdx < 0 {
		// Tokenize each line in the scan window independently so one
		// malformed line cannot abort the scan: a line that fails to parse
		// is simply "no match" and scanning continues.
		window := opts.ScanWindow
		if window <= 0 {
			window = DefaultScanWindow
		}
		found := false
		for i, line := range lines {
			if i >= window {
				break
			}
			cells, err := tokenizeLine(line)
			if err != nil {
				continue
			}
			if IsHeaderRow(cells) {
				headerIdx = i
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: no header row in first rows of %s", ErrSchemaUnrecognized, doc.Name)
		}
	}
	if headerIdx >= len(lines) {
		return nil, fmt.Errorf("%w: header row %d beyond end of %s", ErrSchemaUnrecognized, headerIdx, doc.Name)
	}

	// Re-read from the header down with a single reader so quoted fields
	// spanning lines still work in the body.
	r := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	labels, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", doc.Name, err)
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed body row: drop it, keep going.
			continue
		}
		rows = append(rows, rec)
	}

	return &rawTable{labels: labels, rows: rows}, nil
}

func readSpreadsheet(doc RawDocument, opts ReadOptions) (*rawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	if err != nil {
		return nil, fmt.Errorf("opening spreadsheet %s: %w", doc.Name, err)
	}
	defer f.Close()

	sheet, ok := PickSheet(f.GetSheetList())
	if !ok {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrSchemaUnrecognized, doc.Name)
	}

	allRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, doc.Name, err)
	}

	headerIdx := opts.HeaderRow
	if headerIdx < 0 {
		idx, found := LocateHeader(allRows, opts.ScanWindow)
		if !found {
			return nil, fmt.Errorf("%w: no header row in sheet %q of %s", ErrSchemaUnrecognized, sheet, doc.Name)
		}
		headerIdx = idx
	}
	if headerIdx >= len(allRows) {
		return nil, fmt.Errorf("%w: header row %d beyond end of sheet %q", ErrSchemaUnrecognized, headerIdx, sheet)
	}

	return &rawTable{labels: allRows[headerIdx], rows: allRows[headerIdx+1:]}, nil
}

// tokenizeLine parses a single line as one CSV record.
func tokenizeLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	return r.Read()
}

// splitLines splits on LF, tolerating CRLF.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	// Drop a trailing empty line from a final newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
