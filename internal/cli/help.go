package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#888888")).
				Italic(true)
)

// helpEntry is one line of the Arguments or Flags section
type helpEntry struct {
	term       string
	help       string
	defaultVal string
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling.
// The usage line is built from the command's positional arguments.
func StyledHelpPrinter(title, description string) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(title + " 🎙"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render(description))
		sb.WriteString("\n")

		args := argumentEntries(ctx.Model.Node)

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(usageLine(ctx.Model.Name, args))
		sb.WriteString("\n")

		writeHelpSection(&sb, "Arguments:", helpArgStyle, args)
		writeHelpSection(&sb, "Flags:", helpFlagStyle, flagEntries(ctx.Model.Node))

		sb.WriteString("\n")
		_, err := io.WriteString(ctx.Stdout, sb.String())
		return err
	}
}

// writeHelpSection renders entries with their help text aligned in one column.
func writeHelpSection(sb *strings.Builder, heading string, style lipgloss.Style, entries []helpEntry) {
	if len(entries) == 0 {
		return
	}

	width := 0
	for _, e := range entries {
		width = max(width, len(e.term))
	}

	sb.WriteString("\n")
	sb.WriteString(helpSectionStyle.Render(heading))
	sb.WriteString("\n")
	for _, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(style.Render(e.term))
		if e.help != "" {
			sb.WriteString(strings.Repeat(" ", width-len(e.term)+2))
			sb.WriteString(e.help)
		}
		if e.defaultVal != "" {
			sb.WriteString(" ")
			sb.WriteString(helpDefaultStyle.Render("(default: " + e.defaultVal + ")"))
		}
		sb.WriteString("\n")
	}
}

// usageLine renders "name [flags] <arg> ..." from the positional arguments.
func usageLine(name string, args []helpEntry) string {
	parts := []string{name, "[flags]"}
	for _, arg := range args {
		parts = append(parts, arg.term)
	}
	return strings.Join(parts, " ")
}

func argumentEntries(node *kong.Node) []helpEntry {
	entries := make([]helpEntry, 0, len(node.Positional))
	for _, arg := range node.Positional {
		entries = append(entries, helpEntry{term: "<" + arg.Name + ">", help: arg.Help})
	}
	return entries
}

func flagEntries(node *kong.Node) []helpEntry {
	entries := []helpEntry{{term: "-h, --help", help: "Show context-sensitive help."}}

	for _, f := range node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		term := "    --" + f.Name
		if f.Short != 0 {
			term = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() {
			placeholder := f.PlaceHolder
			if placeholder == "" {
				placeholder = strings.ReplaceAll(f.Name, "-", "_")
			}
			term += "=" + strings.ToUpper(placeholder)
		}

		entries = append(entries, helpEntry{
			term:       term,
			help:       f.Help,
			defaultVal: f.Default,
		})
	}

	return entries
}
