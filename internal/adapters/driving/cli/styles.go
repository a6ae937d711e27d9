package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette shared by every command.
var (
	colourPrimary   = lipgloss.Color("#7C3AED")
	colourSecondary = lipgloss.Color("#06B6D4")
	colourMuted     = lipgloss.Color("#6C7086")
	colourSuccess   = lipgloss.Color("#A6E3A1")
	colourWarning   = lipgloss.Color("#F9E2AF")
	colourError     = lipgloss.Color("#F38BA8")
)

// styles holds the lipgloss styles for one output stream. Colour is
// dropped automatically when the stream is not a terminal.
type styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		Title:   r.NewStyle().Bold(true).Foreground(colourPrimary),
		Label:   r.NewStyle().Foreground(colourSecondary),
		Muted:   r.NewStyle().Foreground(colourMuted),
		Success: r.NewStyle().Foreground(colourSuccess),
		Warning: r.NewStyle().Foreground(colourWarning),
		Error:   r.NewStyle().Foreground(colourError),
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// maskSecret hides all but the ends of a credential.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
