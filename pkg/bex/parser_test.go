package bex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseSource(t *testing.T, src string) ([]Stmt, Diagnostics) {
	t.Helper()
	tokens, scanDiags := Scan(src)
	if len(scanDiags) != 0 {
		t.Fatalf("scan diagnostics: %v", scanDiags)
	}
	return Parse(tokens)
}

func render(stmts []Stmt) []string {
	out := make([]string, len(stmts))
	for i, s := range stmts {
		out[i] = s.String()
	}
	return out
}

func renderDiags(ds Diagnostics) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

// TestParse verifies the printed form of well-formed programs.
func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Print", "(print 0b1010)", []string{"(print 0b1010)"}},
		{"Bit Definition", "(bit a true)", []string{"(bit a true)"}},
		{"Not", "(print (not a))", []string{"(print (not a))"}},
		{"Binary Gates", "(xor a b) (xnor a b) (nand a b) (nor a b)", []string{"(xor a b)", "(xnor a b)", "(nand a b)", "(nor a b)"}},
		{"Variadic", "(print (and a b c))", []string{"(print (and a b c))"}},
		{"Single Operand And", "(or a)", []string{"(or a)"}},
		{"Nested Operand Is Not A Call", "(print (and a (not b)))", []string{"(print (and a (not b)))"}},
		{"Parenthesised Call", "(print (inc 0))", []string{"(print (inc false))"}},
		{"Adjacent Call", "(print inc(1))", []string{"(print (inc true))"}},
		{"Adjacent Call With Args", "(print add(a (not b)))", []string{"(print (add a (not b)))"}},
		{"Zero Argument Call", "(tick)", []string{"(tick)"}},
		{"Grouping", "(print ((x)))", []string{"(print ((x)))"}},
		{"Expression Statement", "(and 0b10 1)", []string{"(and 0b10 true)"}},
		{"Return", "(return a)", []string{"(return a)"}},
		{"Named Vector", "(bit_vector v 1 0 1)", []string{"(bit_vector v true false true)"}},
		{"Anonymous Vector", "(bit_vector 0b0101)", []string{"(bit_vector 0b0101)"}},
		{
			name:     "Circuit",
			input:    "(circuit inc (x) (not x))",
			expected: []string{"(circuit inc (x) (not x))"},
		},
		{
			name:     "Circuit With Return",
			input:    "(circuit half_sum (a b)\n  (return (xor a b)))",
			expected: []string{"(circuit half_sum (a b) (xor a b))"},
		},
		{
			name:     "Circuit With Bare Atoms",
			input:    "(circuit pick (a b) a b)",
			expected: []string{"(circuit pick (a b) a b)"},
		},
		{
			name:     "Circuit Without Params",
			input:    "(circuit one () 1)",
			expected: []string{"(circuit one () true)"},
		},
		{
			name:     "Leading And Trailing Junk",
			input:    "junk (print a)) ) (print b)",
			expected: []string{"(print a)", "(print b)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, diags := parseSource(t, tt.input)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if diff := cmp.Diff(tt.expected, render(stmts)); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseNodeTypes(t *testing.T) {
	stmts, diags := parseSource(t, "(print (xor a b)) (bit_vector 1) (circuit f () 0) (bit x 0)")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(stmts) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(stmts))
	}

	p, ok := stmts[0].(*PrintStmt)
	if !ok {
		t.Fatalf("expected *PrintStmt, got %T", stmts[0])
	}
	b, ok := p.Expr.(*Binary)
	if !ok || b.Op.Type != XOR {
		t.Fatalf("expected xor Binary, got %#v", p.Expr)
	}

	v, ok := stmts[1].(*BitVectorDef)
	if !ok || v.Name != nil {
		t.Fatalf("expected anonymous *BitVectorDef, got %#v", stmts[1])
	}

	c, ok := stmts[2].(*CircuitDef)
	if !ok || c.Name.Lexeme != "f" || len(c.Params) != 0 || len(c.Body) != 1 {
		t.Fatalf("unexpected circuit %#v", stmts[2])
	}

	if _, ok := stmts[3].(*BitDef); !ok {
		t.Fatalf("expected *BitDef, got %T", stmts[3])
	}
}

// TestParseRecovery checks that errors are reported and parsing carries on.
func TestParseRecovery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		stmts    []string
		messages []string
	}{
		{
			name:     "Missing Close Before Next Statement",
			input:    "(print a\n(print b)",
			stmts:    []string{"(print b)"},
			messages: []string{"[line 2] Error at '(': Expected ')' after print statement."},
		},
		{
			name:     "Unclosed And Before Next Statement",
			input:    "(print (and 1 0\n(print 1)",
			stmts:    []string{"(print true)"},
			messages: []string{"[line 2] Error at 'print': Expected expression."},
		},
		{
			name:     "Unclosed Or Before Definition",
			input:    "(print (or 1\n(bit a 1)\n(print a)",
			stmts:    []string{"(bit a true)", "(print a)"},
			messages: []string{"[line 2] Error at 'bit': Expected expression."},
		},
		{
			name:     "Unclosed Call Before Next Statement",
			input:    "(print (inc 0\n(print 1)",
			stmts:    []string{"(print true)"},
			messages: []string{"[line 2] Error at 'print': Expected expression."},
		},
		{
			name:     "Unclosed Adjacent Call Before Circuit",
			input:    "(print inc(0\n(circuit f () 1)",
			stmts:    []string{"(circuit f () true)"},
			messages: []string{"[line 2] Error at 'circuit': Expected expression."},
		},
		{
			name:     "Missing Expression",
			input:    "(print ) (print 1)",
			stmts:    []string{"(print true)"},
			messages: []string{"[line 1] Error at ')': Expected expression."},
		},
		{
			name:     "Unexpected End",
			input:    "(print",
			stmts:    []string{},
			messages: []string{"[line 1] Error at end: Expected expression."},
		},
		{
			name:     "Bad Bit Name",
			input:    "(bit 1 0)\n(bit b 1)",
			stmts:    []string{"(bit b true)"},
			messages: []string{"[line 1] Error at '1': Expected bit name."},
		},
		{
			name:     "Binary Needs Two Operands",
			input:    "(print (xor a))\n(print a)",
			stmts:    []string{"(print a)"},
			messages: []string{"[line 1] Error at ')': Expected expression."},
		},
		{
			name:     "Bad Circuit Name",
			input:    "(circuit 1) (print 0)",
			stmts:    []string{"(print false)"},
			messages: []string{"[line 1] Error at '1': Expected circuit name."},
		},
		{
			name:     "Bad Parameter",
			input:    "(circuit f (x 1) x)",
			stmts:    []string{},
			messages: []string{"[line 1] Error at '1': Expected parameter name."},
		},
		{
			name:     "Duplicate Parameter",
			input:    "(circuit f (x x) x)",
			stmts:    []string{},
			messages: []string{"[line 1] Error at 'x': Duplicate parameter 'x'."},
		},
		{
			name:     "Missing Parameter List",
			input:    "(circuit f x)",
			stmts:    []string{},
			messages: []string{"[line 1] Error at 'x': Expected '(' after circuit name."},
		},
		{
			name:     "Bad Vector",
			input:    "(bit_vector not)",
			stmts:    []string{},
			messages: []string{"[line 1] Error at 'not': Expected identifier or bit vector literal after 'bit_vector'."},
		},
		{
			name:     "Bad Body Item Is Skipped",
			input:    "(circuit f (x) (xor x) (not x))",
			stmts:    []string{"(circuit f (x) (not x))"},
			messages: []string{"[line 1] Error at ')': Expected expression."},
		},
		{
			name:     "Statement In Circuit Body",
			input:    "(circuit f (x) (print x) x)",
			stmts:    []string{"(circuit f (x) x)"},
			messages: []string{"[line 1] Error at 'print': 'print' is not allowed in a circuit body."},
		},
		{
			name:     "Unclosed Circuit",
			input:    "(circuit f (x)\n(not x)",
			stmts:    []string{"(circuit f (x) (not x))"},
			messages: []string{"[line 2] Warning: Missing closing parenthesis for circuit 'f'."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, diags := parseSource(t, tt.input)
			if diff := cmp.Diff(tt.stmts, render(stmts)); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.messages, renderDiags(diags)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWarningIsNotAnError(t *testing.T) {
	_, diags := parseSource(t, "(circuit f (x) x")
	if len(diags) != 1 || diags[0].Kind != Warning {
		t.Fatalf("expected one warning, got %v", diags)
	}
	if diags.HasErrors() {
		t.Errorf("a warning alone must not count as an error")
	}
}

func TestParseTerminatesOnGarbage(t *testing.T) {
	inputs := []string{
		"((((((",
		"))))))",
		"(circuit",
		"(circuit f (",
		"(bit_vector v",
		"(and",
		"( ( ) ) ( print ( ( ( not",
	}
	for _, in := range inputs {
		_, diags := parseSource(t, in)
		if in != "))))))" && len(diags) == 0 {
			t.Errorf("%q: expected diagnostics", in)
		}
	}
}

func TestParseWithoutEOF(t *testing.T) {
	tokens, _ := Scan("(print 1)")
	stmts, diags := Parse(tokens[:len(tokens)-1])
	if len(diags) != 0 || len(stmts) != 1 {
		t.Fatalf("expected one statement, got %v %v", stmts, diags)
	}
}

func TestPrintAST(t *testing.T) {
	stmts, _ := parseSource(t, "(bit a 1)\n(print (and a 0))")
	expected := "1: (bit a true)\n2: (print (and a false))\n"
	if got := PrintAST(stmts); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}
