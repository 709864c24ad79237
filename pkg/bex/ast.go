package bex

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a Value.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a bit or bit-vector constant.
//
//	(print 0b1010)
//	       ^^^^^^  Literal{Value: 0b1010}
type Literal struct {
	Token Token
	Value Value
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return l.Value.String() }

// Variable is a read of a named binding.
//
//	(not a)
//	     ^  Variable{Name: a}
type Variable struct {
	Name Token
}

func (*Variable) exprNode()        {}
func (v *Variable) String() string { return v.Name.Lexeme }

// Unary represents (not Operand).
type Unary struct {
	Op      Token
	Operand Expr
}

func (*Unary) exprNode()        {}
func (u *Unary) String() string { return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Operand) }

// Binary represents one of the two-input gates: xor, xnor, nand, nor.
//
//	(xor a b)
//	 ^   ^ ^
//	 |   | Right
//	 |   Left
//	 Op
type Binary struct {
	Op    Token
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op.Lexeme, b.Left, b.Right)
}

// Multi represents the variadic gates and / or.
type Multi struct {
	Op       Token
	Operands []Expr
}

func (*Multi) exprNode() {}
func (m *Multi) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(m.Op.Lexeme)
	for _, o := range m.Operands {
		sb.WriteString(" ")
		sb.WriteString(o.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Grouping is a parenthesised expression: ((and a b)).
type Grouping struct {
	Inner Expr
}

func (*Grouping) exprNode()        {}
func (g *Grouping) String() string { return fmt.Sprintf("(%s)", g.Inner) }

// Call invokes a circuit, written either (name args...) or name(args...).
type Call struct {
	Callee Token
	Args   []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(c.Callee.Lexeme)
	for _, a := range c.Args {
		sb.WriteString(" ")
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

//  Statement nodes

// Stmt is implemented by every top-level form.
type Stmt interface {
	stmtNode()
	String() string
}

// ExprStmt is an expression evaluated and discarded: (inc a).
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return e.Expr.String() }

// CircuitDef represents (circuit name (params...) body...).
// The result of a call is the value of the last body expression.
type CircuitDef struct {
	Name   Token
	Params []Token
	Body   []Expr
}

func (*CircuitDef) stmtNode() {}
func (c *CircuitDef) String() string {
	var sb strings.Builder
	sb.WriteString("(circuit ")
	sb.WriteString(c.Name.Lexeme)
	sb.WriteString(" (")
	for i, p := range c.Params {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(p.Lexeme)
	}
	sb.WriteString(")")
	for _, e := range c.Body {
		sb.WriteString(" ")
		sb.WriteString(e.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// BitDef represents (bit name initializer).
type BitDef struct {
	Name Token
	Init Expr
}

func (*BitDef) stmtNode() {}
func (b *BitDef) String() string {
	return fmt.Sprintf("(bit %s %s)", b.Name.Lexeme, b.Init)
}

// BitVectorDef represents (bit_vector name values...). Name is nil for the
// anonymous form (bit_vector 0b0101), which is evaluated and discarded.
type BitVectorDef struct {
	Keyword Token
	Name    *Token
	Values  []Expr
}

func (*BitVectorDef) stmtNode() {}
func (b *BitVectorDef) String() string {
	var sb strings.Builder
	sb.WriteString("(bit_vector")
	if b.Name != nil {
		sb.WriteString(" ")
		sb.WriteString(b.Name.Lexeme)
	}
	for _, v := range b.Values {
		sb.WriteString(" ")
		sb.WriteString(v.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// PrintStmt represents (print expr).
type PrintStmt struct {
	Keyword Token
	Expr    Expr
}

func (*PrintStmt) stmtNode()        {}
func (p *PrintStmt) String() string { return fmt.Sprintf("(print %s)", p.Expr) }

// ReturnStmt represents (return expr). Inside a circuit body only the
// expression is kept; at top level it behaves like an ExprStmt.
type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

func (*ReturnStmt) stmtNode()        {}
func (r *ReturnStmt) String() string { return fmt.Sprintf("(return %s)", r.Value) }

// PrintAST renders statements one per line, numbered from 1, the way the
// debug parse stream shows them.
func PrintAST(stmts []Stmt) string {
	var sb strings.Builder
	for i, s := range stmts {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, s)
	}
	return sb.String()
}
