package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"gobex/pkg/bex"
	"gobex/pkg/utils"
)

const testSource = `(circuit half_adder (a b)
  (xor a b))
(bit a true)
(bit_vector pair (and a 0) (half_adder a 0))
(print pair)
`

// spewConfig prints AST nodes without pointer addresses so dumps are stable.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func main() {
	emit := flag.String("emit", "all", "stages to print: tokens, ast, spew, env or all")
	flag.Parse()

	src := testSource
	if flag.NArg() > 0 {
		data, err := utils.ReadScript(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = data
	}

	if err := dump(os.Stdout, src, *emit); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dump(w io.Writer, src, emit string) error {
	all := emit == "all"
	switch emit {
	case "all", "tokens", "ast", "spew", "env":
	default:
		return fmt.Errorf("unknown -emit value %q", emit)
	}

	fmt.Fprintf(w, "Source:\n%s\n", src)

	tokens, diags := bex.Scan(src)
	if all || emit == "tokens" {
		fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Fprintln(w, " ", tok)
		}
		fmt.Fprintln(w)
	}

	stmts, parseDiags := bex.Parse(tokens)
	diags = append(diags, parseDiags...)
	if all || emit == "ast" {
		fmt.Fprintln(w, "AST")
		fmt.Fprint(w, bex.PrintAST(stmts))
		fmt.Fprintln(w)
	}
	if all || emit == "spew" {
		fmt.Fprintln(w, "AST (raw)")
		spewConfig.Fdump(w, stmts)
		fmt.Fprintln(w)
	}

	if all || emit == "env" {
		in := bex.NewInterpreter(bex.Options{
			Out:      io.Discard,
			Reporter: bex.ReporterFunc(func(d bex.Diagnostic) { diags = append(diags, d) }),
		})
		_ = in.Evaluate(stmts)
		fmt.Fprintln(w, "Environment")
		fmt.Fprint(w, in.Environment())
		fmt.Fprintln(w)
	}

	if len(diags) > 0 {
		fmt.Fprintf(w, "Diagnostics (%d)\n", len(diags))
		fmt.Fprintln(w, diags)
	}
	return nil
}
