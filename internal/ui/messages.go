package ui

import (
	"github.com/linuxmatters/doaprep/internal/processor"
)

// ProgressMsg represents a progress update for one recording
type ProgressMsg struct {
	FileIndex   int
	Pass        int     // 1 or 2
	PassName    string  // "Calibrating" or "Classifying"
	Progress    float64 // 0.0 to 1.0
	Calibration *processor.Calibration
}

// FileStartMsg indicates a recording has started processing
type FileStartMsg struct {
	FileIndex int
	FileName  string
	Kind      string
}

// FileCompleteMsg indicates a recording has finished processing
type FileCompleteMsg struct {
	FileIndex     int
	Prefix        string
	Chunks        int
	SignalChunks  int
	SilenceChunks int
	Written       int
	Dropped       int
	Skipped       bool
	Error         error
}

// AllCompleteMsg indicates all recordings have been processed
type AllCompleteMsg struct {
	SummaryPath string // empty when no summary was written
}

// tickMsg is sent for spinner/timer animation
type tickMsg struct{}
