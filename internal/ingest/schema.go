package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaUnrecognized is the rejection gate: the document, after header
// detection and label normalization, does not carry the required alarm
// columns. Summary reports and unrelated logs uploaded by mistake land
// here rather than crashing the pipeline.
var ErrSchemaUnrecognized = errors.New("not a recognized alarm log")

// Canonical field names.
const (
	FieldAlertTime        = "alert_time"
	FieldVerificationTime = "verification_time"
	FieldSeverity         = "severity"
	FieldSection          = "section"
	FieldLocationMarker   = "location_marker"
	FieldEventType        = "event_type"
	FieldDuration         = "duration"
)

// fieldVariants maps each canonical field to the raw header labels accepted
// for it, compared case-insensitively after normalization. The dialects
// come from observed vendor exports; keeping them in one table makes the
// accepted set auditable and testable on its own.
var fieldVariants = map[string][]string{
	FieldAlertTime: {
		"Alert Time",
		"Alert Date/Time",
		"Alarm Time",
	},
	FieldVerificationTime: {
		"Verification Date/Time",
		"Verification Time",
		"Verified At",
	},
	FieldSeverity: {
		"Severity",
		"Alarm Severity",
	},
	FieldSection: {
		"Section",
		"Pipeline Section",
		"ROU Section",
	},
	FieldLocationMarker: {
		"KMP",
		"KM Post",
		"Chainage",
		"Location (KM)",
	},
	FieldEventType: {
		"Event Type",
		"Alarm Type",
		"Type of Alarm",
	},
	FieldDuration: {
		"Duration",
		"Alarm Duration",
	},
}

// requiredFields must all resolve for a document to pass the schema gate.
var requiredFields = []string{FieldAlertTime, FieldVerificationTime, FieldSeverity}

// NormalizeLabel canonicalizes a raw header label: trim surrounding
// whitespace, collapse embedded line breaks to single spaces, collapse
// runs of spaces.
func NormalizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Schema maps canonical fields to column indices in a raw table.
// Optional fields that did not resolve hold -1.
type Schema struct {
	columns map[string]int
}

// Col returns the column index for a canonical field, or -1.
func (s Schema) Col(field string) int {
	if i, ok := s.columns[field]; ok {
		return i
	}
	return -1
}

// Cell extracts the trimmed cell for a canonical field from a row, or ""
// when the field or the cell is absent.
func (s Schema) Cell(row []string, field string) string {
	i := s.Col(field)
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ResolveSchema normalizes the header labels and resolves each canonical
// field against its accepted variants (exact match post-normalization,
// case-insensitive). Missing required fields make the document invalid —
// returned as ErrSchemaUnrecognized, not a panic.
func ResolveSchema(labels []string) (Schema, error) {
	byLabel := make(map[string]int, len(labels))
	for i, l := range labels {
		key := strings.ToLower(NormalizeLabel(l))
		if _, dup := byLabel[key]; !dup {
			byLabel[key] = i
		}
	}

	s := Schema{columns: make(map[string]int)}
	for field, variants := range fieldVariants {
		for _, v := range variants {
			if i, ok := byLabel[strings.ToLower(v)]; ok {
				s.columns[field] = i
				break
			}
		}
	}

	var missing []string
	for _, f := range requiredFields {
		if _, ok := s.columns[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Schema{}, fmt.Errorf("%w: missing required columns %s",
			ErrSchemaUnrecognized, strings.Join(missing, ", "))
	}

	return s, nil
}
