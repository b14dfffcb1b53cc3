package logging

import (
	"math"
	"strings"
	"testing"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"threshold", 132.0, 1, "132.0"},
		{"fractional_threshold", 1181.4, 1, "1181.4"},
		{"silence_peak_dbfs", -84.2871, 1, "-84.3"},
		{"realtime_factor", 119.996, 0, "120"},
		{"coverage", 0.98765, 3, "0.988"},
		{"tiny_ratio", 0.00004, 2, "4.00e-05"},
		{"tiny_negative", -0.00004, 2, "-4.00e-05"},
		{"undefined_share", math.NaN(), 2, MissingValue},
		{"inf", math.Inf(1), 1, MissingValue},
		{"zero_peak_dbfs", math.Inf(-1), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetric(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetric(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{24000, "24,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatCount(tt.n); got != tt.want {
				t.Errorf("formatCount(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, total int
		decimals    int
		want        string
	}{
		{"quarter", 1, 4, 1, "25.0"},
		{"all", 3, 3, 0, "100"},
		{"none", 0, 7, 1, "0.0"},
		{"empty_total", 0, 0, 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPercent(tt.part, tt.total, tt.decimals); got != tt.want {
				t.Errorf("formatPercent(%d, %d) = %q, want %q", tt.part, tt.total, got, tt.want)
			}
		})
	}
}

func TestFormatMetricWithUnit(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		unit     string
		want     string
	}{
		{"with_unit", -16.0, 1, "dBFS", "-16.0 dBFS"},
		{"seconds", 12.25, 2, "s", "12.25 s"},
		{"nan_with_unit", math.NaN(), 1, "s", MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricWithUnit(tt.value, tt.decimals, tt.unit)
			if got != tt.want {
				t.Errorf("formatMetricWithUnit(%v, %d, %q) = %q, want %q", tt.value, tt.decimals, tt.unit, got, tt.want)
			}
		})
	}
}

func TestMetricTableString(t *testing.T) {
	t.Run("basic_two_column", func(t *testing.T) {
		table := NewMetricTable("Chunks", "Share")
		table.AddRow("signal", []string{"120", "40.0"}, "%", "")
		table.AddRow("silence", []string{"180", "60.0"}, "%", "")

		output := table.String()

		for _, want := range []string{"Chunks", "Share", "signal", "silence", "180", "60.0", "%"} {
			if !strings.Contains(output, want) {
				t.Errorf("Output should contain %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Interpretation") {
			t.Error("Interpretation header should be omitted when no row has one")
		}
	})

	t.Run("with_interpretation", func(t *testing.T) {
		table := NewMetricTable("Value")
		table.AddRow("Silence Peak Level", []string{"-85.0"}, "dBFS", "quiet room")

		output := table.String()

		if !strings.Contains(output, "Interpretation") {
			t.Error("Output should contain 'Interpretation' header when rows have interpretations")
		}
		if !strings.Contains(output, "quiet room") {
			t.Error("Output should contain interpretation text")
		}
	})

	t.Run("missing_values", func(t *testing.T) {
		table := NewMetricTable("Chunks", "Signal", "Written")
		table.AddRow("output-silence.raw", []string{"10", ""}, "", "") // Only 2 values for 3 columns

		output := table.String()

		if !strings.Contains(output, " -  ") {
			t.Errorf("Missing values should display as dash:\n%s", output)
		}
	})

	t.Run("empty_table", func(t *testing.T) {
		table := NewMetricTable("Value")
		if output := table.String(); output != "" {
			t.Errorf("Empty table should return empty string, got %q", output)
		}
	})

	t.Run("add_metric_row_with_nan", func(t *testing.T) {
		table := NewMetricTable("Value")
		table.AddMetricRow("Threshold", math.NaN(), 1, "", "")

		lines := strings.Split(table.String(), "\n")
		if len(lines) < 2 {
			t.Fatal("Expected at least 2 lines (header + data)")
		}
		if !strings.HasSuffix(strings.TrimRight(lines[1], " "), "-") {
			t.Errorf("NaN value should display as dash in: %q", lines[1])
		}
	})

	t.Run("add_count_row", func(t *testing.T) {
		table := NewMetricTable("Count")
		table.AddCountRow("Records Written", []int{1234567}, "")

		if !strings.Contains(table.String(), "1,234,567") {
			t.Error("AddCountRow should format with thousands separators")
		}
	})
}

func TestMetricTableAlignment(t *testing.T) {
	table := NewMetricTable("A", "B")
	table.AddRow("Short", []string{"1", "2"}, "", "")
	table.AddRow("Much Longer Label", []string{"100", "20000"}, "", "")

	lines := strings.Split(strings.TrimRight(table.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines (header + 2 data), got %d", len(lines))
	}

	// Right-aligned values end in the same column on every line
	for i := 1; i < len(lines); i++ {
		if len(lines[i]) != len(lines[1]) {
			t.Errorf("Line %d has width %d, want %d: %q", i, len(lines[i]), len(lines[1]), lines[i])
		}
	}
	if len(lines[0]) != len(lines[1]) {
		t.Errorf("Header width %d, want %d", len(lines[0]), len(lines[1]))
	}
}

func TestIsDigitalSilence(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"negative_infinity", math.Inf(-1), true},
		{"below_threshold", -186.6, true},
		{"at_threshold", -180.0, true},
		{"just_above_threshold", -179.9, false},
		{"normal_value", -60.0, false},
		{"positive_infinity", math.Inf(1), false},
		{"nan", math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isDigitalSilence(tt.value)
			if got != tt.want {
				t.Errorf("isDigitalSilence(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatMetricPeak(t *testing.T) {
	tests := []struct {
		name     string
		peak     float64
		decimals int
		want     string
	}{
		{"full_scale", 1 << 31, 1, "0.0"},
		{"half_scale", 1 << 30, 1, "-6.0"},
		{"one_lsb", 1, 1, "< -180"},
		{"zero", 0, 1, "< -180"},
		{"nan", math.NaN(), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricPeak(tt.peak, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetricPeak(%v, %d) = %q, want %q", tt.peak, tt.decimals, got, tt.want)
			}
		})
	}
}
