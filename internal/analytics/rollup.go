// Package analytics computes rollups over canonical event tables. Every
// function here is pure and deterministic: same table in, same rows out,
// no side effects. Rollups are recomputed on demand and never persisted.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/pidws-project/pidws/internal/core"
)

// DailyRow is one day of the violation trend.
type DailyRow struct {
	Date                time.Time `json:"date"`
	Total               int       `json:"total_alarms"`
	MeanResponseMinutes *float64  `json:"mean_response_minutes,omitempty"`
	UnverifiedCritical  int       `json:"unverified_critical"`
	SOPViolations       int       `json:"sop_violations"`
}

// Daily groups the table by ingestion date. MeanResponseMinutes averages
// only rows with a defined response time and is nil for days with none —
// an explicit "no data", never a silent zero. Rows are sorted by date.
func Daily(table core.EventTable) []DailyRow {
	type agg struct {
		row         DailyRow
		responseSum float64
		responseN   int
	}
	byDate := make(map[time.Time]*agg)

	for _, e := range table {
		y, m, d := e.IngestionDate.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		a, ok := byDate[day]
		if !ok {
			a = &agg{row: DailyRow{Date: day}}
			byDate[day] = a
		}
		a.row.Total++
		if e.ResponseMinutes != nil {
			a.responseSum += *e.ResponseMinutes
			a.responseN++
		}
		if e.IsUnverifiedCritical {
			a.row.UnverifiedCritical++
		}
		if e.IsSOPViolation {
			a.row.SOPViolations++
		}
	}

	out := make([]DailyRow, 0, len(byDate))
	for _, a := range byDate {
		if a.responseN > 0 {
			mean := a.responseSum / float64(a.responseN)
			a.row.MeanResponseMinutes = &mean
		}
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SectionRow is one section's unverified-critical count.
type SectionRow struct {
	Section string `json:"section"`
	Count   int    `json:"count"`
}

// SectionHotspots counts unverified high-severity alarms per section,
// most affected first. Ties keep original insertion order (stable sort).
func SectionHotspots(table core.EventTable) []SectionRow {
	counts := make(map[string]int)
	var order []string
	for _, e := range table {
		if !e.IsUnverifiedCritical {
			continue
		}
		if _, seen := counts[e.Section]; !seen {
			order = append(order, e.Section)
		}
		counts[e.Section]++
	}

	out := make([]SectionRow, 0, len(order))
	for _, s := range order {
		out = append(out, SectionRow{Section: s, Count: counts[s]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// StretchRow is one 1-km stretch of a section, scored for vulnerability.
type StretchRow struct {
	Label              string `json:"label"`
	Bucket             int    `json:"bucket"`
	Total              int    `json:"total_alarms"`
	HighCount          int    `json:"high_severity"`
	UnverifiedCount    int    `json:"unverified_critical"`
	VulnerabilityScore int    `json:"vulnerability_score"`
}

// stretchTopN bounds the drill-down to the most vulnerable stretches.
const stretchTopN = 5

// Stretch is the drill-down within one section: rows with a numeric
// location marker are bucketed per whole kilometer (integer floor),
// scored vulnerability = high-severity count + unverified-critical count,
// and the top 5 returned by score descending, kilometer ascending on ties.
// The section parameter is the explicit drill-down selection; no state is
// carried between calls.
func Stretch(table core.EventTable, section string) []StretchRow {
	byBucket := make(map[int]*StretchRow)
	for _, e := range table {
		if e.Section != section || e.LocationMarker == nil {
			continue
		}
		b := int(math.Floor(*e.LocationMarker))
		row, ok := byBucket[b]
		if !ok {
			row = &StretchRow{Label: fmt.Sprintf("KM %d", b), Bucket: b}
			byBucket[b] = row
		}
		row.Total++
		if e.IsHighSeverity {
			row.HighCount++
		}
		if e.IsUnverifiedCritical {
			row.UnverifiedCount++
		}
	}

	out := make([]StretchRow, 0, len(byBucket))
	for _, row := range byBucket {
		row.VulnerabilityScore = row.HighCount + row.UnverifiedCount
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VulnerabilityScore != out[j].VulnerabilityScore {
			return out[i].VulnerabilityScore > out[j].VulnerabilityScore
		}
		return out[i].Bucket < out[j].Bucket
	})
	if len(out) > stretchTopN {
		out = out[:stretchTopN]
	}
	return out
}

// HourlyRow is one hour-of-day's high-severity alarm count.
type HourlyRow struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Hourly counts high-severity alarms per hour of day of the alert time.
// All 24 hours are always present, zero-filled, so a time-axis chart gets
// a complete axis.
func Hourly(table core.EventTable) []HourlyRow {
	out := make([]HourlyRow, 24)
	for h := range out {
		out[h].Hour = h
	}
	for _, e := range table {
		if !e.IsHighSeverity {
			continue
		}
		out[e.AlertTime.Hour()].Count++
	}
	return out
}

// ComplianceRate is the percentage of alarms answered within the SOP
// limit: 100 − violations/total × 100. The second return is false for an
// empty table — the rate is undefined there, never coerced to 100 or 0.
func ComplianceRate(table core.EventTable) (float64, bool) {
	if len(table) == 0 {
		return 0, false
	}
	violations := 0
	for _, e := range table {
		if e.IsSOPViolation {
			violations++
		}
	}
	return 100 - float64(violations)/float64(len(table))*100, true
}
