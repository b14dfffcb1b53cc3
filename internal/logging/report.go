// Package logging handles generation of reports for prepared recordings

package logging

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/doaprep/internal/batch"
	"github.com/linuxmatters/doaprep/internal/dataset"
	"github.com/linuxmatters/doaprep/internal/processor"
)

// ReportDir is the directory, relative to the output root, that holds reports.
const ReportDir = "reports"

// ============================================================================
// Interpretation Functions
// ============================================================================

// interpretSilencePeak describes the calibration window from its peak level.
// A 32-bit converter's self-noise typically sits well below -100 dBFS; a
// quiet room picked up by the array lands around -90 to -70 dBFS.
func interpretSilencePeak(dBFS float64) string {
	switch {
	case math.IsInf(dBFS, -1):
		return "digital zero, check capture"
	case dBFS < -100:
		return "converter noise floor"
	case dBFS < -70:
		return "quiet room"
	case dBFS < -40:
		return "noisy room"
	default:
		return "loud, threshold will mask quiet sources"
	}
}

// interpretSignalShare describes how much of a recording was labelled signal,
// relative to what its kind should contain.
func interpretSignalShare(kind dataset.Kind, share float64) string {
	if kind == dataset.KindSilence {
		switch {
		case share < 0.05:
			return "clean silence"
		case share < 0.5:
			return "intermittent noise"
		default:
			return "mostly above threshold"
		}
	}
	switch {
	case share == 0:
		return "no usable signal"
	case share < 0.2:
		return "sparse signal"
	case share < 0.8:
		return "typical for speech"
	default:
		return "continuous signal"
	}
}

// =============================================================================
// Report Writers
// =============================================================================

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate a recording report
type ReportData struct {
	InputPath string
	OutputDir string
	Kind      dataset.Kind
	StartTime time.Time
	EndTime   time.Time
	Config    *processor.Config
	Result    *processor.ProcessingResult
}

// ReportPath returns where the report for inputPath is written:
// <output>/reports/<basename>.log
func ReportPath(outputDir, inputPath string) string {
	return filepath.Join(outputDir, ReportDir, filepath.Base(inputPath)+".log")
}

// GenerateReport creates a detailed report for one recording under the
// output directory's reports folder.
//
// Report structure:
// 1. Header - file info and timestamp
// 2. Processing Summary - pass timings
// 3. Silence Calibration - peak, threshold and activity requirement
// 4. Chunk Classification - label counts with interpretation
// 5. Dataset Output - what the sink did with the chunks
// 6. Recording Tips - advice for the next capture session
func GenerateReport(data ReportData) error {
	if data.Result == nil || data.Config == nil {
		return fmt.Errorf("no result to report for %q", data.InputPath)
	}

	logPath := ReportPath(data.OutputDir, data.InputPath)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReport(f, data)
	return nil
}

func writeReport(w io.Writer, data ReportData) {
	writeReportHeader(w, data)
	writeProcessingSummary(w, data)
	writeCalibrationTable(w, data.Result.Calibration, data.Config)
	writeClassificationTable(w, data.Kind, data.Result)
	writeOutputTable(w, data.Result, data.Config)
	writeRecordingTips(w, GenerateRecordingTips(data.Kind, data.Result, data.Config))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// writeReportHeader outputs the report header with file info and timestamp.
func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "doaprep Recording Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintf(w, "File: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(w, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(time.Duration(data.Result.DurationSecs*float64(time.Second))))
	fmt.Fprintf(w, "Format: %d channels, %d Hz, S32LE\n", data.Config.Channels, data.Config.SampleRate)
	fmt.Fprintf(w, "Kind: %s\n", data.Kind)
	if data.Kind == dataset.KindDirectional {
		if d, err := dataset.ParseDescriptor(data.InputPath); err == nil {
			fmt.Fprintf(w, "Placement: %.3f° sub-angle, %.1f° elevation, %.1f m\n", d.SubAngle, d.Elevation, d.Distance)
		}
	}
	fmt.Fprintf(w, "Output: %s\n", data.Result.Prefix)
	fmt.Fprintln(w, "")
}

// writeProcessingSummary outputs the processing time summary for both passes.
func writeProcessingSummary(w io.Writer, data ReportData) {
	writeSection(w, "Processing Summary")

	fmt.Fprintf(w, "Pass 1 (Calibrating): %s\n", formatDuration(data.Result.CalibrateTime))
	fmt.Fprintf(w, "Pass 2 (Classifying): %s\n", formatDuration(data.Result.ClassifyTime))

	totalTime := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(w, "Total:                %s", formatDuration(totalTime))

	if data.Result.DurationSecs > 0 && totalTime > 0 {
		audioDuration := time.Duration(data.Result.DurationSecs * float64(time.Second))
		rtf := float64(audioDuration) / float64(totalTime)
		fmt.Fprintf(w, " (%.0fx real-time)", rtf)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "")
}

// writeCalibrationTable outputs the silence threshold derivation.
func writeCalibrationTable(w io.Writer, cal *processor.Calibration, cfg *processor.Config) {
	writeSection(w, "Silence Calibration")
	if cal == nil {
		fmt.Fprintln(w, "Status: NOT CALIBRATED")
		fmt.Fprintln(w, "")
		return
	}

	peakDB := sampleDBFS(float64(cal.Peak))
	table := NewMetricTable("Value")
	table.AddCountRow("Window Start", []int{cal.SkipOffset}, "")
	table.AddCountRow("Window End", []int{cal.TrainEnd}, "")
	table.AddCountRow("Silence Peak", []int{int(cal.Peak)}, "")
	table.AddRow("Silence Peak Level", []string{formatMetricPeak(float64(cal.Peak), 1)}, "dBFS", interpretSilencePeak(peakDB))
	table.AddMetricRow("Threshold", cal.Threshold, 1, "", fmt.Sprintf("peak x %.2f", cfg.ThresholdFactor))
	table.AddRow("Active Samples Needed",
		[]string{formatCount(cfg.MinActiveSamples())}, "",
		fmt.Sprintf("%g%% of %s", cfg.ValidPercent, formatCount(cfg.ChunkLen())))
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

// writeClassificationTable outputs chunk counts by label.
func writeClassificationTable(w io.Writer, kind dataset.Kind, r *processor.ProcessingResult) {
	writeSection(w, "Chunk Classification")

	table := NewMetricTable("Chunks", "Share")
	table.AddRow(processor.LabelSignal.String(),
		[]string{formatCount(r.SignalChunks), formatPercent(r.SignalChunks, r.Chunks, 1)}, "%",
		interpretSignalShare(kind, signalShare(r)))
	table.AddRow(processor.LabelSilence.String(),
		[]string{formatCount(r.SilenceChunks), formatPercent(r.SilenceChunks, r.Chunks, 1)}, "%", "")
	table.AddRow("total", []string{formatCount(r.Chunks), formatPercent(r.Chunks, r.Chunks, 1)}, "%", "")
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

// writeOutputTable outputs the sink statistics.
func writeOutputTable(w io.Writer, r *processor.ProcessingResult, cfg *processor.Config) {
	writeSection(w, "Dataset Output")

	table := NewMetricTable("Count")
	table.AddCountRow("Chunks Submitted", []int{r.Sink.Submitted}, "")
	table.AddCountRow("Chunks Rejected", []int{r.Sink.Rejected}, "label not wanted by this sink")
	table.AddCountRow("Chunks Accepted", []int{r.Accepted}, "")
	table.AddCountRow("Records Written", []int{r.Sink.Written}, "")
	table.AddCountRow("Records Dropped", []int{r.Sink.Dropped}, fmt.Sprintf("%d%% random drop", cfg.DropPercent))
	table.AddRow("Coverage", []string{formatMetric(r.Coverage(cfg.ChunkLen()), 1)}, "%", "of samples in accepted chunks")
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

// writeRecordingTips outputs the tips, if any fired.
func writeRecordingTips(w io.Writer, tips []RecordingTip) {
	if len(tips) == 0 {
		return
	}
	writeSection(w, "Recording Tips")
	for _, tip := range tips {
		fmt.Fprintf(w, "- %s\n", wrapText(tip.Message, 76, "  "))
	}
	fmt.Fprintln(w, "")
}

// GenerateSummary writes a one-line-per-recording overview of a batch run to
// <output>/reports/summary.log and returns its path.
func GenerateSummary(outputDir string, summary *batch.Summary) (string, error) {
	logPath := filepath.Join(outputDir, ReportDir, "summary.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	writeSummary(f, summary)
	return logPath, nil
}

func writeSummary(w io.Writer, summary *batch.Summary) {
	fmt.Fprintln(w, "doaprep Batch Summary")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Recordings: %d (%d failed)\n", len(summary.Files), summary.Failed())
	fmt.Fprintf(w, "Records written: %s\n", formatCount(summary.Written()))
	fmt.Fprintln(w, "")

	writeSection(w, "Recordings")
	table := NewMetricTable("Chunks", "Signal", "Written", "Dropped", "Time")
	for _, fr := range summary.Files {
		name := filepath.Base(fr.Path)
		switch {
		case fr.Skipped:
			table.AddRow(name, nil, "", "skipped")
		case fr.Err != nil:
			table.AddRow(name, nil, "", "failed: "+fr.Err.Error())
		default:
			r := fr.Result
			table.AddRow(name, []string{
				formatCount(r.Chunks),
				formatCount(r.SignalChunks),
				formatCount(r.Sink.Written),
				formatCount(r.Sink.Dropped),
				formatDuration(fr.EndTime.Sub(fr.StartTime)),
			}, "", fr.Kind.String())
		}
	}
	fmt.Fprint(w, table.String())
}
