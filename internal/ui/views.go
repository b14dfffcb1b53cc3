package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	accentColour = lipgloss.Color("#0087AF")
	mutedColour  = lipgloss.Color("#888888")
	okColour     = lipgloss.Color("#00AA00")
	busyColour   = lipgloss.Color("#FFA500")
	errorColour  = lipgloss.Color("#A40000")
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// renderProcessingView renders the main processing view
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderFileQueue(m))
	b.WriteString("\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColour).
		Render("doaprep 🎙 - Direction-of-Arrival Dataset Preparation")

	subtitle := lipgloss.NewStyle().
		Foreground(mutedColour).
		Italic(true).
		Render(fmt.Sprintf("Processing %d recording(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of recordings with their status.
// Queued recordings are collapsed into a count once the list outgrows the terminal.
func renderFileQueue(m Model) string {
	var b strings.Builder

	queued := 0
	for _, file := range m.Files {
		if file.Status == StatusQueued && m.Height > 0 && len(m.Files)*2 > m.Height {
			queued++
			continue
		}
		b.WriteString(renderFileEntry(file, m.spinnerIndex))
		b.WriteString("\n")
	}
	if queued > 0 {
		icon := lipgloss.NewStyle().Foreground(mutedColour).Render("○")
		fmt.Fprintf(&b, " %s %d more queued\n", icon, queued)
	}

	return b.String()
}

// renderFileEntry renders a single recording in the queue
func renderFileEntry(file FileProgress, spinnerIndex int) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(okColour).Render("✓")
		return fmt.Sprintf(" %s %s → %s\n   %s", icon, fileName, file.Prefix, completionLine(file))

	case StatusCalibrating, StatusClassifying:
		icon := lipgloss.NewStyle().Foreground(busyColour).Render("⚙")
		return fmt.Sprintf(" %s %s (%s)\n%s", icon, fileName, file.Kind, renderFileDetails(file, spinnerIndex))

	case StatusSkipped:
		icon := lipgloss.NewStyle().Foreground(mutedColour).Render("–")
		return fmt.Sprintf(" %s %s\n   Skipped", icon, fileName)

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(errorColour).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Error)

	default:
		icon := lipgloss.NewStyle().Foreground(mutedColour).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// completionLine summarises a finished recording on one line
func completionLine(file FileProgress) string {
	return fmt.Sprintf("Chunks: %d (%d signal, %d silence) | Written: %d | Dropped: %d",
		file.Chunks, file.SignalChunks, file.SilenceChunks, file.Written, file.Dropped)
}

// renderFileDetails renders detailed progress for an active recording
func renderFileDetails(file FileProgress, spinnerIndex int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColour).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	passName := file.PassName
	if passName == "" {
		passName = "Starting"
	}
	pass := max(file.CurrentPass, 1)
	fmt.Fprintf(&content, "Pass %d/2: %s\n", pass, passName)

	if file.Status == StatusCalibrating {
		// Calibration only reports start and end
		spinner := lipgloss.NewStyle().Foreground(accentColour).Render(spinnerFrames[spinnerIndex])
		fmt.Fprintf(&content, "%s Measuring silence... [%s]", spinner, formatElapsed(file.ElapsedTime))
	} else {
		content.WriteString(renderProgressBar(file.Progress, 40, file.ElapsedTime))
	}

	if cal := file.Calibration; cal != nil {
		fmt.Fprintf(&content, "\n\nSilence peak: %d | Threshold: %.1f", cal.Peak, cal.Threshold)
	}

	return box.Render(content.String())
}

// renderProgressBar renders a progress bar with percentage and elapsed time
func renderProgressBar(progress float64, width int, elapsed time.Duration) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(accentColour)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))

	bar := filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("━", empty))

	percentage := int(progress * 100)

	return fmt.Sprintf("%s %3d%% [%s]", bar, percentage, formatElapsed(elapsed))
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColour).
		Padding(0, 1).
		Width(60)

	done := m.CompletedFiles + m.FailedFiles
	content := fmt.Sprintf("%d of %d done | %d active | %d failed | %s",
		done, m.TotalFiles, m.ActiveFiles, m.FailedFiles, formatElapsed(time.Since(m.StartTime)))

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	colour, text := okColour, "✨ Dataset Ready!"
	if m.FailedFiles > 0 {
		colour, text = errorColour, fmt.Sprintf("⚠ Finished with %d failed recording(s)", m.FailedFiles)
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colour).
		Render(text)
	b.WriteString(header)
	b.WriteString("\n\n")

	written := 0
	for _, file := range m.Files {
		if file.Status == StatusQueued {
			continue
		}
		b.WriteString(renderFileEntry(file, 0))
		b.WriteString("\n")
		written += file.Written
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d of %d recording(s) prepared, %d record(s) written\n",
		m.CompletedFiles, m.TotalFiles, written)
	if m.SummaryPath != "" {
		fmt.Fprintf(&b, "Summary: %s\n", m.SummaryPath)
	}

	return b.String()
}
