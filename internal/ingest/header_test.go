package ingest

import (
	"testing"
)

func TestIsHeaderRow_Match(t *testing.T) {
	cells := []string{"Sr No", "Alert Time", "Verification Date/Time", "Severity"}
	if !IsHeaderRow(cells) {
		t.Error("row with alert time and severity should match")
	}
}

func TestIsHeaderRow_CaseInsensitive(t *testing.T) {
	if !IsHeaderRow([]string{"ALERT TIME", "SEVERITY"}) {
		t.Error("matching should be case-insensitive")
	}
}

func TestIsHeaderRow_MissingSeverity(t *testing.T) {
	if IsHeaderRow([]string{"Alert Time", "Section", "Remarks"}) {
		t.Error("row without severity should not match")
	}
}

func TestIsHeaderRow_MissingAlertTime(t *testing.T) {
	if IsHeaderRow([]string{"Severity", "Section", "Remarks"}) {
		t.Error("row without an alert-time marker should not match")
	}
}

func TestLocateHeader_AfterPreamble(t *testing.T) {
	rows := [][]string{
		{"Daily Alarm Summary Report"},
		{"Site:", "North Terminal"},
		{""},
		{"Alert Time", "Verification Date/Time", "Severity"},
		{"05-02-2026 10:00", "05-02-2026 10:20", "High"},
	}
	idx, ok := LocateHeader(rows, 10)
	if !ok {
		t.Fatal("header should be found")
	}
	if idx != 3 {
		t.Errorf("idx = %d, want 3", idx)
	}
}

func TestLocateHeader_FirstRow(t *testing.T) {
	rows := [][]string{
		{"Alert Time", "Severity"},
		{"data", "data"},
	}
	idx, ok := LocateHeader(rows, 10)
	if !ok || idx != 0 {
		t.Errorf("idx, ok = %d, %t; want 0, true", idx, ok)
	}
}

func TestLocateHeader_NotFound(t *testing.T) {
	rows := [][]string{
		{"Summary Report"},
		{"Total", "42"},
	}
	if _, ok := LocateHeader(rows, 10); ok {
		t.Error("no row matches; locator must report absent, never a wrong row")
	}
}

func TestLocateHeader_BeyondWindow(t *testing.T) {
	rows := make([][]string, 12)
	for i := range rows {
		rows[i] = []string{"preamble"}
	}
	rows[11] = []string{"Alert Time", "Severity"}
	if _, ok := LocateHeader(rows, 10); ok {
		t.Error("header beyond the scan window must not be found")
	}
}

func TestPickSheet_PrefersAlarmSheet(t *testing.T) {
	name, ok := PickSheet([]string{"Summary", "ALARM Log", "Charts"})
	if !ok || name != "ALARM Log" {
		t.Errorf("name, ok = %q, %t; want \"ALARM Log\", true", name, ok)
	}
}

func TestPickSheet_DefaultsToFirst(t *testing.T) {
	name, ok := PickSheet([]string{"Sheet1", "Sheet2"})
	if !ok || name != "Sheet1" {
		t.Errorf("name, ok = %q, %t; want \"Sheet1\", true", name, ok)
	}
}

func TestPickSheet_Empty(t *testing.T) {
	if _, ok := PickSheet(nil); ok {
		t.Error("no sheets should report absent")
	}
}
