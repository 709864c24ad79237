package bex

import (
	"errors"
	"fmt"
	"strings"
)

// DiagnosticKind tells which stage produced a Diagnostic.
type DiagnosticKind int

const (
	ScanError DiagnosticKind = iota
	ParseError
	RuntimeErrorKind
	Warning
)

func (k DiagnosticKind) String() string {
	switch k {
	case ScanError:
		return "scan"
	case ParseError:
		return "parse"
	case RuntimeErrorKind:
		return "runtime"
	case Warning:
		return "warning"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic is one user-facing problem report.
type Diagnostic struct {
	Kind    DiagnosticKind
	Line    int
	Lexeme  string
	AtEnd   bool // the offending token was EOF
	Message string
}

// String renders the diagnostic in the interpreter's fixed formats:
//
//	[line 3] Error at 'x': Expected ')' after print statement.
//	[line 3] Error at end: Expected expression.
//	[line 3] Runtime Error: Undefined variable 'x'.
func (d Diagnostic) String() string {
	switch d.Kind {
	case RuntimeErrorKind:
		return fmt.Sprintf("[line %d] Runtime Error: %s", d.Line, d.Message)
	case Warning:
		return fmt.Sprintf("[line %d] Warning: %s", d.Line, d.Message)
	}
	if d.AtEnd {
		return fmt.Sprintf("[line %d] Error at end: %s", d.Line, d.Message)
	}
	return fmt.Sprintf("[line %d] Error at '%s': %s", d.Line, d.Lexeme, d.Message)
}

// Diagnostics is an ordered list of reports from one stage.
type Diagnostics []Diagnostic

// HasErrors reports whether any entry is more than a warning.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Kind != Warning {
			return true
		}
	}
	return false
}

func (ds Diagnostics) String() string {
	lines := make([]string, len(ds))
	for i, d := range ds {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// Reporter receives diagnostics as they are produced.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// discard is used when Options carries no Reporter.
var discard = ReporterFunc(func(Diagnostic) {})

// ErrStaticErrors is returned by Run when scanning or parsing reported errors.
var ErrStaticErrors = errors.New("source has scan or parse errors")

// RuntimeError aborts evaluation of the remaining statements.
type RuntimeError struct {
	Token   Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

// Diagnostic converts the error into its report form.
func (e *RuntimeError) Diagnostic() Diagnostic {
	return Diagnostic{
		Kind:    RuntimeErrorKind,
		Line:    e.Token.Line,
		Lexeme:  e.Token.Lexeme,
		Message: e.Message,
	}
}

func runtimeErrorf(tok Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
