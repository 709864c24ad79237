// Package report renders interpreter diagnostics for people and for tests.
package report

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"gobex/pkg/bex"
)

// Terminal writes one diagnostic per line, colored by kind when enabled.
type Terminal struct {
	out     io.Writer
	scan    *color.Color
	parse   *color.Color
	runtime *color.Color
	warning *color.Color
}

// UseColor decides whether f should get escape codes for the given mode:
// "always", "never", or "auto" (only when f is a terminal).
func UseColor(f *os.File, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewTerminal reports to f. Escape codes are translated on Windows consoles.
func NewTerminal(f *os.File, mode string) *Terminal {
	if UseColor(f, mode) {
		return NewTerminalWriter(colorable.NewColorable(f), true)
	}
	return NewTerminalWriter(colorable.NewNonColorable(f), false)
}

// NewTerminalWriter reports to w, coloring only when enabled is set.
func NewTerminalWriter(w io.Writer, enabled bool) *Terminal {
	t := &Terminal{
		out:     w,
		scan:    color.New(color.FgRed),
		parse:   color.New(color.FgRed, color.Bold),
		runtime: color.New(color.FgMagenta, color.Bold),
		warning: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{t.scan, t.parse, t.runtime, t.warning} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

func (t *Terminal) Report(d bex.Diagnostic) {
	c := t.parse
	switch d.Kind {
	case bex.ScanError:
		c = t.scan
	case bex.RuntimeErrorKind:
		c = t.runtime
	case bex.Warning:
		c = t.warning
	}
	c.Fprintln(t.out, d.String())
}

// Collector keeps diagnostics in memory.
type Collector struct {
	Diags bex.Diagnostics
}

func (c *Collector) Report(d bex.Diagnostic) {
	c.Diags = append(c.Diags, d)
}

// Reset drops everything collected so far.
func (c *Collector) Reset() { c.Diags = nil }

// Errors counts the entries that are not warnings.
func (c *Collector) Errors() int {
	n := 0
	for _, d := range c.Diags {
		if d.Kind != bex.Warning {
			n++
		}
	}
	return n
}

// Warnings counts the warning entries.
func (c *Collector) Warnings() int { return len(c.Diags) - c.Errors() }

// Tee forwards every diagnostic to each reporter in order.
func Tee(reporters ...bex.Reporter) bex.Reporter {
	return bex.ReporterFunc(func(d bex.Diagnostic) {
		for _, r := range reporters {
			r.Report(d)
		}
	})
}
