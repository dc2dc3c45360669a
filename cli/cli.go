// Package cli provides the rawcstr command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Globals holds flags shared by all commands.
type Globals struct {
	Telemetry bool `help:"Print timing information to stderr."`
	NoColor   bool `help:"Disable styled output."`
}

// Commands is the full command tree, embedded by the main package.
type Commands struct {
	Dedup DedupCmd `cmd:"" help:"Intern the values of a file and report deduplication statistics."`
	Check CheckCmd `cmd:"" help:"Report values that cannot be converted to C strings."`
}

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	headerStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// styler renders text with or without ANSI styling.
type styler struct {
	enabled bool
}

func newStyler(globals *Globals, w io.Writer) styler {
	if globals.NoColor {
		return styler{}
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return styler{}
	}
	return styler{enabled: true}
}

func (s styler) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

func (s styler) printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", s.render(successStyle, successSymbol), message)
}

func (s styler) printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", s.render(errorStyle, errorSymbol), s.render(errorStyle, message))
}

func (s styler) printInfof(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, "%s %s\n", s.render(infoStyle, infoSymbol), fmt.Sprintf(format, args...))
}
