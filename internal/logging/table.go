// Package logging provides report generation for prepared recordings.
// This file contains the table formatting infrastructure shared by the
// per-recording and batch summary reports.

package logging

import (
	"fmt"
	"math"
	"strings"
)

// MetricRow represents a single row in a table.
// Values are pre-formatted strings to allow for mixed formatting (counts, decimals, dB).
type MetricRow struct {
	Label          string   // Row label, e.g., "Silence Peak"
	Values         []string // One value per column
	Unit           string   // Unit suffix, e.g., "dBFS", "s", "" for unitless
	Interpretation string   // Optional interpretation text (only shown if non-empty)
}

// MetricTable formats aligned columns.
// Handles variable column widths, missing values, and optional interpretation column.
type MetricTable struct {
	Headers []string    // Column headers, e.g., ["Chunks", "Share"]
	Rows    []MetricRow // Data rows
}

// String renders the table with aligned columns.
// - Labels are left-aligned
// - Values are right-aligned within their column
// - Units are appended after the last value column
// - Interpretation column only shown if any row has one
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasInterpretation := false
	for _, row := range t.Rows {
		if row.Interpretation != "" {
			hasInterpretation = true
			break
		}
	}

	labelWidth := 0
	for _, row := range t.Rows {
		labelWidth = max(labelWidth, len(row.Label))
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	unitWidth := 0
	for _, row := range t.Rows {
		unitWidth = max(unitWidth, len(row.Unit))
	}

	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		fmt.Fprintf(&sb, "%*s  ", valueWidths[i], header)
	}
	if unitWidth > 0 {
		sb.WriteString(strings.Repeat(" ", unitWidth+1))
	}
	if hasInterpretation {
		sb.WriteString("Interpretation")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		fmt.Fprintf(&sb, "%-*s  ", labelWidth, row.Label)

		for i := range t.Headers {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			fmt.Fprintf(&sb, "%*s  ", valueWidths[i], val)
		}

		if unitWidth > 0 {
			fmt.Fprintf(&sb, "%-*s ", unitWidth, row.Unit)
		}
		if hasInterpretation {
			sb.WriteString(row.Interpretation)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// =============================================================================
// Metric Formatting Helpers
// =============================================================================

// MissingValue is the placeholder for unavailable measurements
const MissingValue = "-"

// DigitalSilenceThreshold is the dBFS level at or below which a peak is
// reported as digital silence. A single LSB of a 32-bit sample sits near -187 dBFS.
const DigitalSilenceThreshold = -180.0

// fullScale is the magnitude of the most negative S32 sample.
const fullScale = float64(1 << 31)

// isDigitalSilence returns true if the value represents digital silence (true zero or below threshold).
func isDigitalSilence(value float64) bool {
	return math.IsInf(value, -1) || value <= DigitalSilenceThreshold
}

// formatMetric formats a numeric value with appropriate precision.
// Handles:
// - Regular floats: formatted to specified decimal places
// - Very small values (< 0.0001): scientific notation
// - NaN/Inf: returns MissingValue
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}
	return fmt.Sprintf("%.*f", decimals, value)
}

// formatCount formats an integer with thousands separators: 1234567 → "1,234,567".
func formatCount(n int) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// formatPercent formats part of total as a percentage, MissingValue when total is zero.
func formatPercent(part, total int, decimals int) string {
	if total == 0 {
		return MissingValue
	}
	return formatMetric(float64(part)*100/float64(total), decimals)
}

// sampleDBFS converts an absolute S32 sample magnitude to dBFS.
func sampleDBFS(peak float64) float64 {
	if peak <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(peak/fullScale)
}

// formatMetricPeak formats an absolute sample magnitude as dBFS.
// For digital silence (peak = 0), shows "< -180" instead of -Inf.
func formatMetricPeak(peak float64, decimals int) string {
	if math.IsNaN(peak) {
		return MissingValue
	}
	dB := sampleDBFS(peak)
	if isDigitalSilence(dB) {
		return "< -180"
	}
	return fmt.Sprintf("%.*f", decimals, dB)
}

// formatMetricWithUnit combines value and unit for display.
// Returns "value unit" if unit is non-empty, otherwise just "value".
func formatMetricWithUnit(value float64, decimals int, unit string) string {
	formatted := formatMetric(value, decimals)
	if formatted == MissingValue || unit == "" {
		return formatted
	}
	return formatted + " " + unit
}

// =============================================================================
// Table Builder Helpers
// =============================================================================

// NewMetricTable creates a new MetricTable with the given column headers.
func NewMetricTable(headers ...string) *MetricTable {
	return &MetricTable{
		Headers: headers,
		Rows:    make([]MetricRow, 0),
	}
}

// AddRow adds a row to the table with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         values,
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// AddMetricRow adds a single-value row, formatting it automatically.
// Pass math.NaN() for a missing value - it will display as "-".
func (t *MetricTable) AddMetricRow(label string, value float64, decimals int, unit string, interpretation string) {
	t.AddRow(label, []string{formatMetric(value, decimals)}, unit, interpretation)
}

// AddCountRow adds a row of integer counts.
func (t *MetricTable) AddCountRow(label string, counts []int, interpretation string) {
	values := make([]string, len(counts))
	for i, n := range counts {
		values[i] = formatCount(n)
	}
	t.AddRow(label, values, "", interpretation)
}
