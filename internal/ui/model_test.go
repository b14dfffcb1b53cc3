package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/doaprep/internal/processor"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelFileLifecycle(t *testing.T) {
	m := NewModel([]string{"/in/output-silence.raw", "/in/output-0deg-0elev-1m.raw"}, nil)
	if m.TotalFiles != 2 || m.Files[0].Status != StatusQueued {
		t.Fatalf("unexpected initial model: %+v", m)
	}

	m = update(t, m, FileStartMsg{FileIndex: 1, FileName: "/in/output-0deg-0elev-1m.raw", Kind: "directional"})
	if m.Files[1].Status != StatusCalibrating || m.ActiveFiles != 1 {
		t.Errorf("after start: status=%v active=%d", m.Files[1].Status, m.ActiveFiles)
	}

	cal := &processor.Calibration{Peak: 120, Threshold: 132}
	m = update(t, m, ProgressMsg{FileIndex: 1, Pass: 1, PassName: processor.PassCalibrating, Progress: 1, Calibration: cal})
	m = update(t, m, ProgressMsg{FileIndex: 1, Pass: 2, PassName: processor.PassClassifying, Progress: 0.5})
	fp := m.Files[1]
	if fp.Status != StatusClassifying || fp.Progress != 0.5 || fp.Calibration != cal {
		t.Errorf("after progress: %+v", fp)
	}

	m = update(t, m, FileCompleteMsg{FileIndex: 1, Prefix: "0.000/0.0/1.0", Chunks: 10, SignalChunks: 4, SilenceChunks: 6, Written: 2, Dropped: 30})
	fp = m.Files[1]
	if fp.Status != StatusComplete || fp.Written != 2 || fp.Progress != 1.0 {
		t.Errorf("after complete: %+v", fp)
	}
	if m.ActiveFiles != 0 || m.CompletedFiles != 1 {
		t.Errorf("counters: active=%d completed=%d", m.ActiveFiles, m.CompletedFiles)
	}
	if m.Files[0].Status != StatusQueued {
		t.Error("other recordings must be untouched")
	}
}

func TestModelFailures(t *testing.T) {
	m := NewModel([]string{"a.raw", "b.raw"}, nil)

	m = update(t, m, FileStartMsg{FileIndex: 0})
	m = update(t, m, FileCompleteMsg{FileIndex: 0, Error: errors.New("recording too short")})
	m = update(t, m, FileCompleteMsg{FileIndex: 1, Skipped: true})

	if m.Files[0].Status != StatusError || m.Files[1].Status != StatusSkipped {
		t.Errorf("statuses: %v %v", m.Files[0].Status, m.Files[1].Status)
	}
	if m.FailedFiles != 2 || m.ActiveFiles != 0 {
		t.Errorf("counters: failed=%d active=%d", m.FailedFiles, m.ActiveFiles)
	}
}

func TestModelIgnoresUnknownIndex(t *testing.T) {
	m := NewModel([]string{"a.raw"}, nil)
	m = update(t, m, FileStartMsg{FileIndex: 5})
	m = update(t, m, ProgressMsg{FileIndex: -1, Pass: 2})
	m = update(t, m, FileCompleteMsg{FileIndex: 1})
	if m.ActiveFiles != 0 || m.CompletedFiles != 0 || m.Files[0].Status != StatusQueued {
		t.Errorf("out-of-range messages changed the model: %+v", m)
	}
}

func TestModelAllComplete(t *testing.T) {
	m := NewModel([]string{"a.raw"}, nil)
	m = update(t, m, FileStartMsg{FileIndex: 0})
	m = update(t, m, FileCompleteMsg{FileIndex: 0, Prefix: "silence", Written: 7})

	next, cmd := m.Update(AllCompleteMsg{SummaryPath: "/out/reports/summary.log"})
	m = next.(Model)
	if !m.Done || cmd == nil {
		t.Fatal("AllCompleteMsg should finish the program")
	}

	view := m.View()
	for _, want := range []string{"Dataset Ready", "1 of 1 recording(s) prepared, 7 record(s) written", "/out/reports/summary.log"} {
		if !strings.Contains(view, want) {
			t.Errorf("completion view missing %q:\n%s", want, view)
		}
	}
}

func TestModelViewBeforeResize(t *testing.T) {
	m := NewModel([]string{"a.raw"}, nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if !strings.Contains(m.View(), "Processing 1 recording(s)") {
		t.Errorf("processing view missing header:\n%s", m.View())
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{61 * time.Second, "01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
	}
	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	if got := renderProgressBar(1.7, 10, 0); !strings.Contains(got, "100%") {
		t.Errorf("progress above 1 should clamp: %q", got)
	}
	if got := renderProgressBar(-1, 10, 0); !strings.Contains(got, "  0%") {
		t.Errorf("negative progress should clamp: %q", got)
	}
}
