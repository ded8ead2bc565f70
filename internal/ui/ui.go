// Package ui writes styled progress lines for the scaffolding run.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Reporter prints info, success, warning and error lines. Colour is only
// emitted when the underlying writer is a terminal.
type Reporter struct {
	w       io.Writer
	info    lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	muted   lipgloss.Style
}

// New returns a Reporter writing to w.
func New(w io.Writer) *Reporter {
	r := lipgloss.NewRenderer(w)
	return &Reporter{
		w:       w,
		info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("11")),
		err:     r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		muted:   r.NewStyle().Faint(true),
	}
}

// Discard returns a Reporter that drops everything.
func Discard() *Reporter { return New(io.Discard) }

// Writer returns the underlying writer.
func (r *Reporter) Writer() io.Writer { return r.w }

func (r *Reporter) Info(format string, args ...any) {
	fmt.Fprintln(r.w, r.info.Render(fmt.Sprintf(format, args...)))
}

func (r *Reporter) Success(format string, args ...any) {
	fmt.Fprintln(r.w, r.success.Render(fmt.Sprintf(format, args...)))
}

func (r *Reporter) Warn(format string, args ...any) {
	fmt.Fprintln(r.w, r.warn.Render("warning: "+fmt.Sprintf(format, args...)))
}

func (r *Reporter) Error(format string, args ...any) {
	fmt.Fprintln(r.w, r.err.Render("error: "+fmt.Sprintf(format, args...)))
}

// Detail prints an indented, de-emphasised line.
func (r *Reporter) Detail(format string, args ...any) {
	fmt.Fprintln(r.w, r.muted.Render("  "+fmt.Sprintf(format, args...)))
}
