package ingest

import (
	"math"
	"testing"
	"time"
)

func mustSchema(t *testing.T) Schema {
	t.Helper()
	s, err := ResolveSchema([]string{
		"Alert Time", "Verification Date/Time", "Severity",
		"Section", "KMP", "Event Type", "Duration",
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestParseTimestamp_DayFirst(t *testing.T) {
	ts := parseTimestamp("05-02-2026 10:00")
	if ts == nil {
		t.Fatal("should parse")
	}
	want := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("got %v, want %v (day-first)", ts, want)
	}
}

func TestParseTimestamp_ISO(t *testing.T) {
	ts := parseTimestamp("2026-02-05 10:45:30")
	if ts == nil {
		t.Fatal("should parse")
	}
	if ts.Day() != 5 || ts.Month() != time.February {
		t.Errorf("got %v", ts)
	}
}

func TestParseTimestamp_Unparseable(t *testing.T) {
	if ts := parseTimestamp("pending"); ts != nil {
		t.Errorf("got %v, want absent", ts)
	}
	if ts := parseTimestamp(""); ts != nil {
		t.Errorf("empty cell should be absent, got %v", ts)
	}
}

func TestParseDurationMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"01:02:30", 62.5},
		{"00:45:00", 45},
		{"00:00:30", 0.5},
		{"garbage", 0},
		{"10:00", 0},     // wrong token count
		{"aa:bb:cc", 0},  // non-numeric
		{"", 0},
	}
	for _, c := range cases {
		if got := parseDurationMinutes(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("parseDurationMinutes(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCoerceRow_FullRow(t *testing.T) {
	s := mustSchema(t)
	row := []string{"05-02-2026 10:00", "05-02-2026 10:45", "High", "Sector 7", "12.4", "Fence Cut", "00:45:00"}
	e, ok := coerceRow(s, row, Provenance{SourceFile: "a.csv"})
	if !ok {
		t.Fatal("row should survive")
	}
	if e.ResponseMinutes == nil || *e.ResponseMinutes != 45 {
		t.Errorf("response = %v, want 45", e.ResponseMinutes)
	}
	if !e.IsSOPViolation {
		t.Error("45 min response is a violation")
	}
	if e.IsUnverifiedCritical {
		t.Error("verified alarm is not an unverified critical")
	}
	if !e.IsHighSeverity {
		t.Error("High should flag high severity")
	}
	if e.Severity != "high" {
		t.Errorf("severity = %q, want lowercase", e.Severity)
	}
	if e.LocationMarker == nil || *e.LocationMarker != 12.4 {
		t.Errorf("location = %v, want 12.4", e.LocationMarker)
	}
	if e.DurationMinutes != 45 {
		t.Errorf("duration = %v, want 45", e.DurationMinutes)
	}
}

func TestCoerceRow_UnverifiedHigh(t *testing.T) {
	s := mustSchema(t)
	row := []string{"05-02-2026 10:00", "", "High", "Sector 7", "", "", ""}
	e, ok := coerceRow(s, row, Provenance{})
	if !ok {
		t.Fatal("row should survive")
	}
	if e.ResponseMinutes != nil {
		t.Errorf("response = %v, want absent", *e.ResponseMinutes)
	}
	if e.IsSOPViolation {
		t.Error("absent response is false, not a violation")
	}
	if !e.IsUnverifiedCritical {
		t.Error("unverified high should flag unverified critical")
	}
}

func TestCoerceRow_SOPBoundary(t *testing.T) {
	s := mustSchema(t)
	// Exactly 30 minutes: not a violation (strictly greater than).
	e, _ := coerceRow(s, []string{"05-02-2026 10:00:00", "05-02-2026 10:30:00", "Low", "", "", "", ""}, Provenance{})
	if e.IsSOPViolation {
		t.Error("exactly 30.0 must not be a violation")
	}
	e, _ = coerceRow(s, []string{"05-02-2026 10:00:00", "05-02-2026 10:30:01", "Low", "", "", "", ""}, Provenance{})
	if !e.IsSOPViolation {
		t.Error("30 min 1 s must be a violation")
	}
}

func TestCoerceRow_NegativeResponsePassesThrough(t *testing.T) {
	s := mustSchema(t)
	e, _ := coerceRow(s, []string{"05-02-2026 10:00", "05-02-2026 09:00", "Medium", "", "", "", ""}, Provenance{})
	if e.ResponseMinutes == nil || *e.ResponseMinutes != -60 {
		t.Errorf("response = %v, want -60 (anomaly passes through)", e.ResponseMinutes)
	}
	if e.IsSOPViolation {
		t.Error("negative response is not > 30")
	}
}

func TestCoerceRow_MissingAlertTimeDropsRow(t *testing.T) {
	s := mustSchema(t)
	if _, ok := coerceRow(s, []string{"not a date", "05-02-2026 10:45", "High", "", "", "", ""}, Provenance{}); ok {
		t.Error("row without a parseable alert time must be dropped")
	}
}

func TestCoerceRow_VeryHighSeverity(t *testing.T) {
	s := mustSchema(t)
	e, _ := coerceRow(s, []string{"05-02-2026 10:00", "", "Very HIGH", "", "", "", ""}, Provenance{})
	if !e.IsHighSeverity {
		t.Error("substring match should catch Very HIGH")
	}
}
