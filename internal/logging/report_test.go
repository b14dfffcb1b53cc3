package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linuxmatters/doaprep/internal/batch"
	"github.com/linuxmatters/doaprep/internal/dataset"
	"github.com/linuxmatters/doaprep/internal/processor"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute + 3*time.Second, "2h 5m 3s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatDuration(tt.d); got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestInterpretSilencePeak(t *testing.T) {
	if got := interpretSilencePeak(sampleDBFS(0)); got != "digital zero, check capture" {
		t.Errorf("zero peak interpreted as %q", got)
	}
	if got := interpretSilencePeak(-85); got != "quiet room" {
		t.Errorf("-85 dBFS interpreted as %q", got)
	}
	if got := interpretSilencePeak(-10); !strings.HasPrefix(got, "loud") {
		t.Errorf("-10 dBFS interpreted as %q", got)
	}
}

func reportResult() *processor.ProcessingResult {
	r := tipResult(100000, 120, 48)
	r.InputPath = "/in/output-5.625deg-0elev-1m.raw"
	r.Prefix = filepath.Join("5.625", "0.0", "1.0")
	r.Samples = 24000 * 8 * 60
	r.Calibration.SkipOffset = 96000
	r.Calibration.TrainEnd = 288000
	r.Accepted = 48
	r.Sink = processor.SinkStats{Submitted: 120, Written: 19, Dropped: 365, Rejected: 72}
	r.CalibrateTime = 20 * time.Millisecond
	r.ClassifyTime = 480 * time.Millisecond
	return r
}

func TestGenerateReport(t *testing.T) {
	out := t.TempDir()
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	data := ReportData{
		InputPath: "/in/output-5.625deg-0elev-1m.raw",
		OutputDir: out,
		Kind:      dataset.KindDirectional,
		StartTime: start,
		EndTime:   start.Add(500 * time.Millisecond),
		Config:    processor.DefaultConfig(),
		Result:    reportResult(),
	}

	if err := GenerateReport(data); err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}

	path := filepath.Join(out, "reports", "output-5.625deg-0elev-1m.raw.log")
	if got := ReportPath(out, data.InputPath); got != path {
		t.Errorf("ReportPath() = %q, want %q", got, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(b)

	for _, want := range []string{
		"File: output-5.625deg-0elev-1m.raw",
		"Kind: directional",
		"Placement: 5.625° sub-angle, 0.0° elevation, 1.0 m",
		"Processing Summary",
		"(120x real-time)",
		"Silence Calibration",
		"288,000",
		"quiet room",
		"peak x 1.10",
		"410",
		"Chunk Classification",
		"typical for speech",
		"Dataset Output",
		"95% random drop",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestGenerateReportWithoutResult(t *testing.T) {
	err := GenerateReport(ReportData{InputPath: "x.raw", OutputDir: t.TempDir(), Config: processor.DefaultConfig()})
	if err == nil {
		t.Error("expected an error when there is no result")
	}
}

func TestWriteRecordingTipsSection(t *testing.T) {
	var buf bytes.Buffer
	writeRecordingTips(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("no tips should write nothing, got %q", buf.String())
	}

	writeRecordingTips(&buf, []RecordingTip{{Priority: 5, RuleID: "x", Message: "Record longer takes."}})
	if !strings.Contains(buf.String(), "Recording Tips") || !strings.Contains(buf.String(), "- Record longer takes.") {
		t.Errorf("unexpected tips section:\n%s", buf.String())
	}
}

func testSummary() *batch.Summary {
	start := time.Now()
	return &batch.Summary{Files: []batch.FileResult{
		{
			Path: "/in/output-silence.raw", Kind: dataset.KindSilence,
			Result:    &processor.ProcessingResult{Chunks: 30, Sink: processor.SinkStats{Written: 2, Dropped: 28}},
			StartTime: start, EndTime: start.Add(time.Second),
		},
		{
			Path: "/in/output-xdeg-0elev-1m.raw", Kind: dataset.KindDirectional,
			Err: errors.New("invalid recording name"),
		},
		{
			Path: "/in/output-90deg-0elev-1m.raw", Kind: dataset.KindDirectional,
			Err: errors.New("context canceled"), Skipped: true,
		},
	}}
}

func TestGenerateSummary(t *testing.T) {
	out := t.TempDir()
	path, err := GenerateSummary(out, testSummary())
	if err != nil {
		t.Fatalf("GenerateSummary() error = %v", err)
	}
	if path != filepath.Join(out, "reports", "summary.log") {
		t.Errorf("unexpected summary path %q", path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	summary := string(b)
	for _, want := range []string{
		"Recordings: 3 (2 failed)",
		"Records written: 2",
		"output-silence.raw",
		"failed: invalid recording name",
		"skipped",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestDisplayFileResult(t *testing.T) {
	cfg := processor.DefaultConfig()
	start := time.Now()

	var buf bytes.Buffer
	DisplayFileResult(&buf, batch.FileResult{
		Path:      "/in/output-5.625deg-0elev-1m.raw",
		Kind:      dataset.KindDirectional,
		Result:    reportResult(),
		StartTime: start,
		EndTime:   start.Add(time.Second),
	}, cfg)
	out := buf.String()
	for _, want := range []string{"output-5.625deg-0elev-1m.raw (directional)", "CALIBRATION", "Signal:         48 (40.0%", "Written:        19"} {
		if !strings.Contains(out, want) {
			t.Errorf("display missing %q:\n%s", want, out)
		}
	}

	for _, fr := range testSummary().Files[1:] {
		buf.Reset()
		DisplayFileResult(&buf, fr, cfg)
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("failed or skipped files should print one line, got %q", buf.String())
		}
	}
}
