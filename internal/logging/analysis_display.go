// Package logging handles generation of reports for prepared recordings.
// This file provides console display for plain (non-interactive) output.

package logging

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/linuxmatters/doaprep/internal/batch"
	"github.com/linuxmatters/doaprep/internal/processor"
)

// DisplayFileResult writes a short console summary of one recording.
// Used when stdout is not a terminal and for dry runs.
func DisplayFileResult(w io.Writer, fr batch.FileResult, config *processor.Config) {
	name := filepath.Base(fr.Path)
	if fr.Skipped {
		fmt.Fprintf(w, "%s: skipped\n", name)
		return
	}
	if fr.Err != nil {
		fmt.Fprintf(w, "%s: FAILED: %v\n", name, fr.Err)
		return
	}

	r := fr.Result
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "%s (%s)\n", name, fr.Kind)
	fmt.Fprintln(w, strings.Repeat("=", 70))

	fmt.Fprintf(w, "Duration:    %s\n", formatDurationHMS(r.DurationSecs))
	fmt.Fprintf(w, "Output:      %s\n", r.Prefix)
	fmt.Fprintln(w)

	if cal := r.Calibration; cal != nil {
		writeAnalysisSection(w, "CALIBRATION")
		fmt.Fprintf(w, "  Silence Peak:   %s (%s dBFS, %s)\n",
			formatCount(int(cal.Peak)), formatMetricPeak(float64(cal.Peak), 1),
			interpretSilencePeak(sampleDBFS(float64(cal.Peak))))
		fmt.Fprintf(w, "  Threshold:      %.1f\n", cal.Threshold)
		fmt.Fprintln(w)
	}

	writeAnalysisSection(w, "CLASSIFICATION")
	fmt.Fprintf(w, "  Chunks:         %s\n", formatCount(r.Chunks))
	fmt.Fprintf(w, "  Signal:         %s (%s%%, %s)\n",
		formatCount(r.SignalChunks), formatPercent(r.SignalChunks, r.Chunks, 1),
		interpretSignalShare(fr.Kind, signalShare(r)))
	fmt.Fprintf(w, "  Silence:        %s\n", formatCount(r.SilenceChunks))
	fmt.Fprintln(w)

	writeAnalysisSection(w, "OUTPUT")
	fmt.Fprintf(w, "  Written:        %s\n", formatCount(r.Sink.Written))
	fmt.Fprintf(w, "  Dropped:        %s\n", formatCount(r.Sink.Dropped))
	fmt.Fprintf(w, "  Rejected:       %s\n", formatCount(r.Sink.Rejected))
	fmt.Fprintf(w, "  Time:           %s\n", formatDuration(fr.EndTime.Sub(fr.StartTime)))

	if tips := GenerateRecordingTips(fr.Kind, r, config); len(tips) > 0 {
		fmt.Fprintln(w)
		writeAnalysisSection(w, "TIPS")
		for _, tip := range tips {
			fmt.Fprintf(w, "  - %s\n", wrapText(tip.Message, 66, "    "))
		}
	}
	fmt.Fprintln(w)
}

// writeAnalysisSection writes a section header for console output.
func writeAnalysisSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
}

// formatDurationHMS formats duration as "Xh Ym Zs" or "Ym Zs" or "Z.Xs".
func formatDurationHMS(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}

	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	}
	return fmt.Sprintf("%dm %ds", minutes, secs)
}
