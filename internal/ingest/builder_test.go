package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
)

var testProv = Provenance{
	SourceFile:    "05-02-2026-ALARMS.csv",
	IngestionDate: time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
}

func testIngestor() *Ingestor {
	return NewIngestor(DefaultReadOptions(), zerolog.Nop())
}

const csvWithPreamble = `Daily Alarm Summary Report,,,,,,
Site:,North Terminal,,,,,
,,,,,,
Alert Time,Verification Date/Time,Severity,Section,KMP,Event Type,Duration
05-02-2026 10:00,05-02-2026 10:45,High,Sector 7,12.4,Fence Cut,00:45:00
05-02-2026 11:00,,High,Sector 7,12.8,Intrusion,00:00:00
05-02-2026 12:00,05-02-2026 12:10,Low,Sector 9,3.1,Nuisance,00:10:00
,,,,,,
bad-date,05-02-2026 13:00,Medium,Sector 9,4.0,Test,00:01:00
`

func TestIngest_CSVWithPreamble(t *testing.T) {
	res, err := testIngestor().Ingest(
		RawDocument{Name: "05-02-2026-ALARMS.csv", Content: []byte(csvWithPreamble)}, testProv)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if len(res.Events) != 3 {
		t.Fatalf("events = %d, want 3", len(res.Events))
	}
	// Blank row and bad-date row dropped for missing alert time.
	if res.Dropped != 2 {
		t.Errorf("dropped = %d, want 2", res.Dropped)
	}
	if res.BatchID == "" {
		t.Error("batch id should be generated")
	}
	for _, e := range res.Events {
		if e.SourceFile != testProv.SourceFile {
			t.Errorf("source_file = %q", e.SourceFile)
		}
		if !e.IngestionDate.Equal(testProv.IngestionDate) {
			t.Errorf("ingestion_date = %v", e.IngestionDate)
		}
		if e.BatchID != res.BatchID {
			t.Errorf("batch id not stamped on event")
		}
	}
	if !res.Events[0].IsSOPViolation {
		t.Error("45-minute response should be a violation")
	}
	if !res.Events[1].IsUnverifiedCritical {
		t.Error("unverified high should be a critical gap")
	}
}

func TestIngest_FixedHeaderRow(t *testing.T) {
	ing := NewIngestor(ReadOptions{HeaderRow: 3}, zerolog.Nop())
	res, err := ing.Ingest(
		RawDocument{Name: "05-02-2026-ALARMS.csv", Content: []byte(csvWithPreamble)}, testProv)
	if err != nil {
		t.Fatalf("fixed offset at documented row 3 should work: %v", err)
	}
	if len(res.Events) != 3 {
		t.Errorf("events = %d, want 3", len(res.Events))
	}
}

func TestIngest_MalformedPreambleLine(t *testing.T) {
	// An unbalanced quote in the preamble must not abort the scan.
	doc := "\"Report --- broken quote,,\n" +
		"Alert Time,Verification Date/Time,Severity\n" +
		"05-02-2026 10:00,05-02-2026 10:20,Low\n"
	res, err := testIngestor().Ingest(RawDocument{Name: "a.csv", Content: []byte(doc)}, testProv)
	if err != nil {
		t.Fatalf("malformed preamble line should be skipped: %v", err)
	}
	if len(res.Events) != 1 {
		t.Errorf("events = %d, want 1", len(res.Events))
	}
}

func TestIngest_RejectsMissingColumn(t *testing.T) {
	// No verification column: rejected with zero events no matter how many
	// rows are well formed.
	doc := "Alert Time,Severity,Section\n" +
		"05-02-2026 10:00,High,Sector 7\n" +
		"05-02-2026 11:00,Low,Sector 9\n"
	res, err := testIngestor().Ingest(RawDocument{Name: "a.csv", Content: []byte(doc)}, testProv)
	if !errors.Is(err, ErrSchemaUnrecognized) {
		t.Fatalf("want ErrSchemaUnrecognized, got %v", err)
	}
	if res != nil {
		t.Error("rejection is all-or-nothing; no partial table")
	}
}

func TestIngest_RejectsNoHeader(t *testing.T) {
	doc := "just,some,summary\nnumbers,1,2\n"
	_, err := testIngestor().Ingest(RawDocument{Name: "a.csv", Content: []byte(doc)}, testProv)
	if !errors.Is(err, ErrSchemaUnrecognized) {
		t.Fatalf("want ErrSchemaUnrecognized, got %v", err)
	}
}

func TestIngest_RejectsUnsupportedExtension(t *testing.T) {
	_, err := testIngestor().Ingest(RawDocument{Name: "a.txt", Content: []byte("x")}, testProv)
	if !errors.Is(err, ErrSchemaUnrecognized) {
		t.Fatalf("want ErrSchemaUnrecognized, got %v", err)
	}
}

func TestIngest_CorruptSpreadsheet(t *testing.T) {
	_, err := testIngestor().Ingest(
		RawDocument{Name: "a.xlsx", Content: []byte("this is not a zip container")}, testProv)
	if err == nil {
		t.Fatal("corrupt container must reject, not panic")
	}
}

func TestIngest_UTF16CSV(t *testing.T) {
	doc := "Alert Time,Verification Date/Time,Severity\n" +
		"05-02-2026 10:00,05-02-2026 10:20,Low\n"
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	raw, err := enc.Bytes([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	res, err := testIngestor().Ingest(RawDocument{Name: "a.csv", Content: raw}, testProv)
	if err != nil {
		t.Fatalf("UTF-16 export should ingest: %v", err)
	}
	if len(res.Events) != 1 {
		t.Errorf("events = %d, want 1", len(res.Events))
	}
}

func TestIngest_Windows1252CSV(t *testing.T) {
	// 0xE9 is é in Windows-1252 and invalid UTF-8.
	doc := []byte("Alert Time,Verification Date/Time,Severity,Section\n" +
		"05-02-2026 10:00,,High,Divisi\xE9n 3\n")
	res, err := testIngestor().Ingest(RawDocument{Name: "a.csv", Content: doc}, testProv)
	if err != nil {
		t.Fatalf("Windows-1252 export should ingest: %v", err)
	}
	if res.Events[0].Section != "División 3" {
		t.Errorf("section = %q", res.Events[0].Section)
	}
}

// buildWorkbook writes a one-sheet xlsx in memory.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatal(err)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestIngest_Spreadsheet(t *testing.T) {
	content := buildWorkbook(t, "Alarm Log", [][]interface{}{
		{"PIDWS Export"},
		{},
		{"Alert Time", "Verification Date/Time", "Severity", "Section"},
		{"05-02-2026 10:00", "05-02-2026 10:45", "High", "Sector 7"},
		{"05-02-2026 11:00", "", "high", "Sector 7"},
	})
	res, err := testIngestor().Ingest(
		RawDocument{Name: "05-02-2026-ALARMS.xlsx", Content: content}, testProv)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if len(res.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(res.Events))
	}
	if !res.Events[1].IsUnverifiedCritical {
		t.Error("unverified high should be a critical gap")
	}
}

func TestIngest_SpreadsheetPicksAlarmSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	// First sheet is an unrelated summary; the alarm data lives on the
	// second sheet, which must be selected by name.
	if err := f.SetCellValue("Sheet1", "A1", "Totals"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("Alarms Feb"); err != nil {
		t.Fatal(err)
	}
	cells := map[string]string{
		"A1": "Alert Time", "B1": "Verification Date/Time", "C1": "Severity",
		"A2": "05-02-2026 10:00", "B2": "05-02-2026 10:20", "C2": "Low",
	}
	for cell, v := range cells {
		if err := f.SetCellValue("Alarms Feb", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	res, err := testIngestor().Ingest(
		RawDocument{Name: "report.xlsx", Content: buf.Bytes()}, testProv)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}
	if len(res.Events) != 1 {
		t.Errorf("events = %d, want 1", len(res.Events))
	}
}

func TestIngest_ManyRows(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Alert Time,Verification Date/Time,Severity\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&buf, "05-02-2026 %02d:%02d,,Low\n", i/60, i%60)
	}
	res, err := testIngestor().Ingest(RawDocument{Name: "a.csv", Content: buf.Bytes()}, testProv)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Events) != 500 {
		t.Errorf("events = %d, want 500", len(res.Events))
	}
}
