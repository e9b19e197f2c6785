package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/pidws-project/pidws/internal/core"
)

// timestampLayouts is the day-first parse chain. Day-first layouts come
// before ISO so "05-02-2026" is the 5th of February; unambiguous ISO
// strings fall through to their own layouts.
var timestampLayouts = []string{
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
}

// parseTimestamp parses a day-first timestamp. Unparseable values are
// absent, never an error: a bad cell degrades the field, not the row.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseDurationMinutes parses an "HH:MM:SS" duration into minutes
// (hours*60 + minutes + seconds/60). Any failure — wrong token count,
// non-numeric token — yields 0 rather than failing the row.
func parseDurationMinutes(s string) float64 {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0
		}
		vals[i] = v
	}
	return vals[0]*60 + vals[1] + vals[2]/60
}

// parseLocation parses a kilometer-post style numeric marker. Absent or
// non-numeric cells yield nil.
func parseLocation(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// coerceRow builds one canonical event from a schema-resolved raw row.
// The second return is false when the row carries no parseable alert time:
// such a row cannot be aggregated by date and is dropped, the only
// row-level condition that loses the whole row.
func coerceRow(s Schema, row []string, prov Provenance) (core.CanonicalEvent, bool) {
	alert := parseTimestamp(s.Cell(row, FieldAlertTime))
	if alert == nil {
		return core.CanonicalEvent{}, false
	}

	e := core.CanonicalEvent{
		AlertTime:        *alert,
		VerificationTime: parseTimestamp(s.Cell(row, FieldVerificationTime)),
		Severity:         s.Cell(row, FieldSeverity),
		Section:          s.Cell(row, FieldSection),
		LocationMarker:   parseLocation(s.Cell(row, FieldLocationMarker)),
		EventType:        s.Cell(row, FieldEventType),
		DurationMinutes:  parseDurationMinutes(s.Cell(row, FieldDuration)),
		SourceFile:       prov.SourceFile,
		IngestionDate:    prov.IngestionDate,
		BatchID:          prov.BatchID,
	}
	e.Derive()
	return e, true
}
