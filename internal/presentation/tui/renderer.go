// Package tui renders query reports for terminals.
package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWidth is the wrap width used when the terminal size is unknown.
const DefaultWidth = 100

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of f, or DefaultWidth.
func Width(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// NewRenderer returns a function that renders markdown for a terminal of the
// given width, picking a light or dark style from the background.
func NewRenderer(width int) (func(string) (string, error), error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// ForOutput returns a renderer for f when it is a terminal, and nil otherwise
// so reports stay plain markdown when piped.
func ForOutput(f *os.File) func(string) (string, error) {
	if !IsTerminal(f) {
		return nil
	}
	render, err := NewRenderer(Width(f))
	if err != nil {
		return nil
	}
	return render
}
