package core

import (
	"encoding/json"
	"strings"
	"time"
)

// SOPResponseLimit is the maximum patrol response time allowed by the
// standard operating procedure. A verified alarm whose response took
// strictly longer than this is a violation.
const SOPResponseLimit = 30.0 // minutes

// highSeverityMarker is matched as a case-insensitive substring of the
// normalized severity label. "High", "high", "Very High" all qualify.
const highSeverityMarker = "high"

// CanonicalEvent is one validated alarm record in the canonical schema.
// Every event that reaches storage or analytics has a non-zero AlertTime;
// rows that fail to parse it are dropped during ingestion.
type CanonicalEvent struct {
	AlertTime        time.Time  `json:"alert_time"`
	VerificationTime *time.Time `json:"verification_time,omitempty"`
	Severity         string     `json:"severity"`
	Section          string     `json:"section,omitempty"`
	LocationMarker   *float64   `json:"location_marker,omitempty"`
	EventType        string     `json:"event_type,omitempty"`
	DurationMinutes  float64    `json:"duration_minutes"`

	// Derived fields, computed once at ingestion time.
	ResponseMinutes      *float64 `json:"response_minutes,omitempty"`
	IsSOPViolation       bool     `json:"is_sop_violation"`
	IsHighSeverity       bool     `json:"is_high_severity"`
	IsUnverifiedCritical bool     `json:"is_unverified_critical"`

	// Provenance.
	SourceFile    string    `json:"source_file"`
	IngestionDate time.Time `json:"ingestion_date"`
	BatchID       string    `json:"batch_id,omitempty"`
}

// Derive fills in the computed fields from the parsed ones. It is called
// exactly once per event by the ingestion builder, after coercion.
func (e *CanonicalEvent) Derive() {
	e.Severity = strings.ToLower(strings.TrimSpace(e.Severity))
	e.IsHighSeverity = strings.Contains(e.Severity, highSeverityMarker)

	if e.VerificationTime != nil {
		// Signed difference. Negative values (verification logged before
		// the alert, a data-entry anomaly) pass through unclamped.
		m := e.VerificationTime.Sub(e.AlertTime).Minutes()
		e.ResponseMinutes = &m
		e.IsSOPViolation = m > SOPResponseLimit
	} else {
		e.ResponseMinutes = nil
		e.IsSOPViolation = false
	}

	e.IsUnverifiedCritical = e.IsHighSeverity && e.VerificationTime == nil
}

// Marshal serializes the event to JSON.
func (e *CanonicalEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// EventTable is an ordered collection of canonical events, scoped to a
// single ingestion batch or the concatenated historic corpus. Order is
// preserved across concatenation; no deduplication is performed.
type EventTable []CanonicalEvent

// Append concatenates another table, preserving order.
func (t EventTable) Append(other EventTable) EventTable {
	return append(t, other...)
}

// Sections returns the distinct section identifiers in first-seen order.
func (t EventTable) Sections() []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range t {
		if e.Section == "" || seen[e.Section] {
			continue
		}
		seen[e.Section] = true
		out = append(out, e.Section)
	}
	return out
}
