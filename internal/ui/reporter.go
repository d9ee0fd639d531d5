// Package ui renders console output: colored status lines and a spinner for
// long provider calls.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Reporter prints prefixed, colored status lines.
type Reporter struct {
	out    io.Writer
	colors bool

	header  *color.Color
	success *color.Color
	info    *color.Color
	warning *color.Color
	failure *color.Color
	git     *color.Color
	ai      *color.Color
	banner  *color.Color
	message *color.Color
}

// NewReporter writes to out. Colors are used only when out is a terminal.
func NewReporter(out io.Writer) *Reporter {
	return NewReporterWithColors(out, isTerminal(out))
}

// NewReporterWithColors writes to out with colors forced on or off.
func NewReporterWithColors(out io.Writer, colors bool) *Reporter {
	r := &Reporter{
		out:     out,
		colors:  colors,
		header:  color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgBlue, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		git:     color.New(color.FgMagenta, color.Bold),
		ai:      color.New(color.FgCyan, color.Bold),
		banner:  color.New(color.FgWhite, color.BgBlue, color.Bold),
		message: color.New(color.FgWhite, color.Bold),
	}
	for _, c := range []*color.Color{r.header, r.success, r.info, r.warning, r.failure, r.git, r.ai, r.banner, r.message} {
		if colors {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Writer returns the underlying writer.
func (r *Reporter) Writer() io.Writer {
	return r.out
}

func (r *Reporter) line(c *color.Color, prefix, format string, args ...any) {
	_, _ = c.Fprintln(r.out, prefix+fmt.Sprintf(format, args...))
}

func (r *Reporter) Header(format string, args ...any) {
	r.line(r.header, "🚀 ", format, args...)
}

func (r *Reporter) Success(format string, args ...any) {
	r.line(r.success, "✅ ", format, args...)
}

func (r *Reporter) Info(format string, args ...any) {
	r.line(r.info, "ℹ️  ", format, args...)
}

func (r *Reporter) Warning(format string, args ...any) {
	r.line(r.warning, "⚠️  ", format, args...)
}

func (r *Reporter) Error(format string, args ...any) {
	r.line(r.failure, "❌ ", format, args...)
}

// Git announces a repository operation.
func (r *Reporter) Git(format string, args ...any) {
	r.line(r.git, "🔄 ", format, args...)
}

// AI announces a provider call.
func (r *Reporter) AI(format string, args ...any) {
	r.line(r.ai, "🤖 ", format, args...)
}

// CommitMessage prints a generated message under a banner.
func (r *Reporter) CommitMessage(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.banner.Fprint(r.out, " Generated commit message: ")
	_, _ = fmt.Fprint(r.out, "\n\n")
	_, _ = r.message.Fprintln(r.out, message)
	_, _ = fmt.Fprintln(r.out)
}

// Blank prints an empty line.
func (r *Reporter) Blank() {
	_, _ = fmt.Fprintln(r.out)
}
