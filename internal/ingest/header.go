package ingest

import (
	"strings"
)

// DefaultScanWindow is how many leading rows the adaptive header scan
// inspects before giving up.
const DefaultScanWindow = 10

// Header detection markers. A row is the header iff its cells contain,
// case-insensitively, one of the alert-time markers and the severity
// marker. Vendor exports prepend metadata preambles of variable length
// (report title, site name, export date), so the header floats.
var (
	alertTimeMarkers = []string{"alert time", "alert date", "alarm time"}
	severityMarker   = "severity"
)

// IsHeaderRow reports whether the given cells satisfy the header predicate.
func IsHeaderRow(cells []string) bool {
	joined := strings.ToLower(strings.Join(cells, "\x00"))
	if !strings.Contains(joined, severityMarker) {
		return false
	}
	for _, m := range alertTimeMarkers {
		if strings.Contains(joined, m) {
			return true
		}
	}
	return false
}

// LocateHeader scans rows top-down within the window and returns the
// 0-based index of the first row matching the header predicate. The second
// return is false when no row in the window matches — never a wrong row.
func LocateHeader(rows [][]string, window int) (int, bool) {
	if window <= 0 {
		window = DefaultScanWindow
	}
	for i, row := range rows {
		if i >= window {
			break
		}
		if IsHeaderRow(row) {
			return i, true
		}
	}
	return 0, false
}

// PickSheet selects which spreadsheet page to scan: the first sheet whose
// name contains the alarm marker (case-insensitive), else the first sheet.
// Selection happens before header scanning; each sheet is scanned alone.
func PickSheet(names []string) (string, bool) {
	if len(names) == 0 {
		return "", false
	}
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), corpusMarker) {
			return n, true
		}
	}
	return names[0], true
}
