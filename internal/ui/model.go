// Package ui provides the Bubbletea terminal user interface for doaprep
package ui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/doaprep/internal/processor"
)

// FileStatus represents the processing state of a single recording
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusCalibrating
	StatusClassifying
	StatusComplete
	StatusSkipped
	StatusError
)

// FileProgress tracks progress for a single recording
type FileProgress struct {
	InputPath string
	Kind      string
	Status    FileStatus

	// Phase tracking
	CurrentPass int // 1 or 2
	PassName    string

	// Progress tracking (percentage-based)
	Progress    float64 // 0.0 to 1.0
	StartTime   time.Time
	ElapsedTime time.Duration

	// Calibration results (from Pass 1)
	Calibration *processor.Calibration

	// Completion results
	Prefix        string
	Chunks        int
	SignalChunks  int
	SilenceChunks int
	Written       int
	Dropped       int

	// Error tracking
	Error error
}

// Model is the Bubbletea model for the processing UI. Several recordings
// may be active at once, so every message names its file index.
type Model struct {
	// File queue
	Files          []FileProgress
	TotalFiles     int
	ActiveFiles    int
	CompletedFiles int
	FailedFiles    int

	// Global state
	StartTime   time.Time
	Done        bool
	SummaryPath string

	spinnerIndex int
	logger       *slog.Logger

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model with the given input files
func NewModel(inputFiles []string, logger *slog.Logger) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return Model{
		Files:      files,
		TotalFiles: len(inputFiles),
		StartTime:  time.Now(),
		logger:     logger,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.logger.Debug("window size", "width", m.Width, "height", m.Height)

	case tickMsg:
		if m.Done {
			return m, nil
		}
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		return m, tickCmd()

	case FileStartMsg:
		if !m.valid(msg.FileIndex) {
			return m, nil
		}
		fp := &m.Files[msg.FileIndex]
		fp.Status = StatusCalibrating
		fp.Kind = msg.Kind
		fp.StartTime = time.Now()
		m.ActiveFiles++

	case ProgressMsg:
		if !m.valid(msg.FileIndex) {
			return m, nil
		}
		m.Files[msg.FileIndex] = updateFileProgress(m.Files[msg.FileIndex], msg)

	case FileCompleteMsg:
		if !m.valid(msg.FileIndex) {
			return m, nil
		}
		fp := &m.Files[msg.FileIndex]
		if fp.Status == StatusCalibrating || fp.Status == StatusClassifying {
			m.ActiveFiles--
		}
		fp.ElapsedTime = time.Since(fp.StartTime)

		switch {
		case msg.Skipped:
			fp.Status = StatusSkipped
			m.FailedFiles++
		case msg.Error != nil:
			fp.Status = StatusError
			fp.Error = msg.Error
			m.FailedFiles++
		default:
			fp.Status = StatusComplete
			fp.Progress = 1.0
			fp.Prefix = msg.Prefix
			fp.Chunks = msg.Chunks
			fp.SignalChunks = msg.SignalChunks
			fp.SilenceChunks = msg.SilenceChunks
			fp.Written = msg.Written
			fp.Dropped = msg.Dropped
			m.CompletedFiles++
		}

	case AllCompleteMsg:
		m.logger.Debug("all recordings complete", "completed", m.CompletedFiles, "failed", m.FailedFiles)
		m.Done = true
		m.SummaryPath = msg.SummaryPath
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) valid(index int) bool {
	return index >= 0 && index < len(m.Files)
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletionSummary(m)
	}
	if m.Width == 0 {
		return "Initializing..."
	}
	return renderProcessingView(m)
}

// updateFileProgress updates a FileProgress based on a ProgressMsg
func updateFileProgress(fp FileProgress, msg ProgressMsg) FileProgress {
	if msg.Pass != fp.CurrentPass {
		fp.StartTime = time.Now()
	}

	fp.Progress = msg.Progress
	fp.CurrentPass = msg.Pass
	fp.PassName = msg.PassName
	fp.ElapsedTime = time.Since(fp.StartTime)

	if msg.Calibration != nil {
		fp.Calibration = msg.Calibration
	}

	if msg.Pass == 1 {
		fp.Status = StatusCalibrating
	} else if msg.Pass == 2 {
		fp.Status = StatusClassifying
	}

	return fp
}
