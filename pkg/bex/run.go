package bex

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Options configures an Interpreter.
type Options struct {
	Out          io.Writer // print output, os.Stdout when nil
	Reporter     Reporter  // diagnostics sink, dropped when nil
	Debug        bool      // dump the token and parse streams to Out before evaluating
	MaxCallDepth int       // DefaultMaxCallDepth when <= 0

	// OnPrint is called after every print with the statement's line.
	OnPrint func(line int, v Value)
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Reporter == nil {
		o.Reporter = discard
	}
	if o.MaxCallDepth <= 0 {
		o.MaxCallDepth = DefaultMaxCallDepth
	}
	return o
}

// Run scans, parses and evaluates src.
//
// Statements that parsed are evaluated even when other statements did not.
// The returned error wraps ErrStaticErrors when scanning or parsing reported
// errors, and the *RuntimeError that stopped evaluation, if any.
func (in *Interpreter) Run(src string) error {
	tokens, scanDiags := Scan(src)
	in.report(scanDiags)
	if in.opts.Debug {
		DumpTokens(in.opts.Out, tokens)
	}

	stmts, parseDiags := Parse(tokens)
	in.report(parseDiags)
	if in.opts.Debug {
		DumpStatements(in.opts.Out, stmts)
	}

	var static error
	if scanDiags.HasErrors() || parseDiags.HasErrors() {
		static = ErrStaticErrors
	}
	return errors.Join(static, in.Evaluate(stmts))
}

func (in *Interpreter) report(ds Diagnostics) {
	for _, d := range ds {
		in.opts.Reporter.Report(d)
	}
}

// DumpTokens writes the numbered token stream.
func DumpTokens(w io.Writer, tokens []Token) {
	fmt.Fprintln(w, "=== TOKEN STREAM ===")
	for i, t := range tokens {
		fmt.Fprintf(w, "%d: [%d] %s '%s'\n", i, t.Line, t.Type, t.Lexeme)
	}
	fmt.Fprintln(w, "====================")
}

// DumpStatements writes the statement count followed by the printed AST.
func DumpStatements(w io.Writer, stmts []Stmt) {
	fmt.Fprintln(w, "=== PARSE STREAM ===")
	fmt.Fprintf(w, "%d statements\n", len(stmts))
	fmt.Fprint(w, PrintAST(stmts))
	fmt.Fprintln(w, "====================")
}
