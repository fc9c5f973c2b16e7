// Package styles provides shared lipgloss styles for command output.
package styles

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Color palette using ANSI colors for broad terminal compatibility.
var (
	Primary = lipgloss.Color("4")   // Blue
	Success = lipgloss.Color("2")   // Green
	Warning = lipgloss.Color("3")   // Yellow
	Error   = lipgloss.Color("1")   // Red
	Muted   = lipgloss.Color("245") // Light gray
)

// Palette is the set of styles a command renders with. The zero Palette
// renders plain text.
type Palette struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// Colored returns the palette used on terminals.
func Colored() Palette {
	return Palette{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Success: lipgloss.NewStyle().Foreground(Success),
		Warning: lipgloss.NewStyle().Foreground(Warning).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(Error).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
	}
}

// Plain returns a palette that adds no escape sequences.
func Plain() Palette {
	s := lipgloss.NewStyle()
	return Palette{Title: s, Label: s, Success: s, Warning: s, Error: s, Muted: s}
}

// For picks Colored when w is a terminal and Plain otherwise.
func For(w io.Writer) Palette {
	if ShouldColorize(w) {
		return Colored()
	}
	return Plain()
}

// ShouldColorize reports whether w is an interactive terminal.
func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Indicators.
const (
	CheckMark = "✓"
	WarnMark  = "!"
	Bullet    = "•"
)
