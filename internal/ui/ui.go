// Package ui holds the terminal presentation helpers shared by the
// subcommands: status markers for batch progress and markdown rendering for
// model answers.
package ui

import (
	"fmt"
	"io"

	"charm.land/lipgloss/v2"
)

const (
	colorOK    = "#34A853"
	colorWarn  = "#FBBC04"
	colorFail  = "#EA4335"
	colorTitle = "#4285F4"
)

// Styles contains the lipgloss styles used on the console.
type Styles struct {
	Title lipgloss.Style
	OK    lipgloss.Style
	Warn  lipgloss.Style
	Fail  lipgloss.Style
	Dim   lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle)),
		OK:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorOK)),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarn)),
		Fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorFail)),
		Dim:   lipgloss.NewStyle().Faint(true),
	}
}

// Console writes styled status lines to a single destination.
type Console struct {
	out    io.Writer
	styles Styles
}

// NewConsole creates a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, styles: DefaultStyles()}
}

// Title prints a bold heading line.
func (c *Console) Title(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.Title.Render(fmt.Sprintf(format, args...)))
}

// OK prints a success line.
func (c *Console) OK(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.OK.Render("✓ ")+fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.Warn.Render("⚠ ")+fmt.Sprintf(format, args...))
}

// Fail prints an error line.
func (c *Console) Fail(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.Fail.Render("✗ ")+fmt.Sprintf(format, args...))
}

// Plain prints an unstyled line.
func (c *Console) Plain(format string, args ...any) {
	fmt.Fprintln(c.out, fmt.Sprintf(format, args...))
}
