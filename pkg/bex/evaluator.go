package bex

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDifferentSizes is returned by the gate functions when two bit vectors of
// unequal width meet.
var ErrDifferentSizes = errors.New("bit vectors of different sizes")

// DefaultMaxCallDepth bounds nested circuit calls.
const DefaultMaxCallDepth = 1024

//  Gates

// Not complements every bit.
func Not(v Value) Value {
	bits := v.Bits()
	for i := range bits {
		bits[i] = !bits[i]
	}
	return Value{bits: bits}
}

// binaryGate applies f lane by lane when both operands are vectors, and to
// the first bit of each operand otherwise.
func binaryGate(a, b Value, f func(x, y bool) bool) (Value, error) {
	if a.IsVector() && b.IsVector() {
		if a.Width() != b.Width() {
			return Value{}, ErrDifferentSizes
		}
		bits := make([]bool, a.Width())
		for i := range bits {
			bits[i] = f(a.At(i), b.At(i))
		}
		return Value{bits: bits}, nil
	}
	return Bit(f(a.Bool(), b.Bool())), nil
}

func Xor(a, b Value) (Value, error) {
	return binaryGate(a, b, func(x, y bool) bool { return x != y })
}

func Xnor(a, b Value) (Value, error) {
	return binaryGate(a, b, func(x, y bool) bool { return x == y })
}

func Nand(a, b Value) (Value, error) {
	return binaryGate(a, b, func(x, y bool) bool { return !(x && y) })
}

func Nor(a, b Value) (Value, error) {
	return binaryGate(a, b, func(x, y bool) bool { return !(x || y) })
}

// reduceGate folds f over all operands per lane. Vector operands must share
// one width; single bits are broadcast to every lane.
func reduceGate(vs []Value, identity bool, f func(x, y bool) bool) (Value, error) {
	width := 0
	for _, v := range vs {
		if !v.IsVector() {
			continue
		}
		if width == 0 {
			width = v.Width()
		} else if v.Width() != width {
			return Value{}, ErrDifferentSizes
		}
	}

	if width == 0 {
		acc := identity
		for _, v := range vs {
			acc = f(acc, v.Bool())
		}
		return Bit(acc), nil
	}

	bits := make([]bool, width)
	for i := range bits {
		acc := identity
		for _, v := range vs {
			if v.IsVector() {
				acc = f(acc, v.At(i))
			} else {
				acc = f(acc, v.Bool())
			}
		}
		bits[i] = acc
	}
	return Value{bits: bits}, nil
}

func And(vs ...Value) (Value, error) {
	return reduceGate(vs, true, func(x, y bool) bool { return x && y })
}

func Or(vs ...Value) (Value, error) {
	return reduceGate(vs, false, func(x, y bool) bool { return x || y })
}

//  Interpreter

// Interpreter walks statements against one Environment. The environment
// outlives a single Evaluate call, so definitions carry over between calls.
type Interpreter struct {
	env  *Environment
	opts Options
}

func NewInterpreter(opts Options) *Interpreter {
	return &Interpreter{env: NewEnvironment(), opts: opts.withDefaults()}
}

// Environment exposes the interpreter's bindings.
func (in *Interpreter) Environment() *Environment { return in.env }

// Evaluate executes stmts in order. The first runtime error stops the
// remaining statements; it is reported and returned.
func (in *Interpreter) Evaluate(stmts []Stmt) error {
	for _, s := range stmts {
		if err := in.execute(s); err != nil {
			var rerr *RuntimeError
			if errors.As(err, &rerr) {
				in.opts.Reporter.Report(rerr.Diagnostic())
			}
			return err
		}
	}
	return nil
}

func (in *Interpreter) execute(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := in.evaluate(s.Expr)
		return err

	case *CircuitDef:
		in.env.DefineCircuit(s)
		return nil

	case *BitDef:
		v, err := in.evaluate(s.Init)
		if err != nil {
			return err
		}
		if v.IsVector() {
			return runtimeErrorf(s.Name, "Bit definition requires a bit value.")
		}
		in.env.Define(s.Name.Lexeme, v)
		return nil

	case *BitVectorDef:
		var bits []bool
		for _, e := range s.Values {
			v, err := in.evaluate(e)
			if err != nil {
				return err
			}
			bits = append(bits, v.Bits()...)
		}
		if s.Name != nil {
			in.env.Define(s.Name.Lexeme, Vector(bits...))
		}
		return nil

	case *PrintStmt:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.opts.Out, v)
		if in.opts.OnPrint != nil {
			in.opts.OnPrint(s.Keyword.Line, v)
		}
		return nil

	case *ReturnStmt:
		_, err := in.evaluate(s.Value)
		return err
	}
	return fmt.Errorf("bex: unhandled statement %T", stmt)
}

func (in *Interpreter) evaluate(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil

	case *Variable:
		// A bare circuit name is a call with no arguments.
		if c, ok := in.env.lookupCircuit(e.Name.Lexeme); ok {
			return in.callCircuit(e.Name, c, nil)
		}
		return in.env.Get(e.Name)

	case *Grouping:
		return in.evaluate(e.Inner)

	case *Unary:
		v, err := in.evaluate(e.Operand)
		if err != nil {
			return Value{}, err
		}
		return Not(v), nil

	case *Binary:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return Value{}, err
		}
		right, err := in.evaluate(e.Right)
		if err != nil {
			return Value{}, err
		}
		var gate func(a, b Value) (Value, error)
		switch e.Op.Type {
		case XOR:
			gate = Xor
		case XNOR:
			gate = Xnor
		case NAND:
			gate = Nand
		case NOR:
			gate = Nor
		default:
			return Value{}, runtimeErrorf(e.Op, "Unknown binary operator '%s'.", e.Op.Lexeme)
		}
		v, err := gate(left, right)
		if err != nil {
			return Value{}, gateError(e.Op, err)
		}
		return v, nil

	case *Multi:
		operands := make([]Value, 0, len(e.Operands))
		for _, o := range e.Operands {
			v, err := in.evaluate(o)
			if err != nil {
				return Value{}, err
			}
			operands = append(operands, v)
		}
		var v Value
		var err error
		switch e.Op.Type {
		case AND:
			v, err = And(operands...)
		case OR:
			v, err = Or(operands...)
		default:
			return Value{}, runtimeErrorf(e.Op, "Unknown operator '%s'.", e.Op.Lexeme)
		}
		if err != nil {
			return Value{}, gateError(e.Op, err)
		}
		return v, nil

	case *Call:
		c, err := in.env.GetCircuit(e.Callee)
		if err != nil {
			return Value{}, err
		}
		if len(e.Args) != c.Arity() {
			return Value{}, runtimeErrorf(e.Callee, "Expected %d arguments but got %d.", c.Arity(), len(e.Args))
		}
		args := make([]Value, 0, len(e.Args))
		for _, a := range e.Args {
			v, err := in.evaluate(a)
			if err != nil {
				return Value{}, err
			}
			args = append(args, v)
		}
		return in.callCircuit(e.Callee, c, args)
	}
	return Value{}, fmt.Errorf("bex: unhandled expression %T", expr)
}

func gateError(op Token, err error) error {
	if errors.Is(err, ErrDifferentSizes) {
		return runtimeErrorf(op, "Cannot perform %s on bit vectors of different sizes.", strings.ToUpper(op.Lexeme))
	}
	return runtimeErrorf(op, "%s", err)
}

// callCircuit runs the body of c in a fresh scope chained to the scope c was
// defined in. The scope is popped on every return path.
func (in *Interpreter) callCircuit(callee Token, c *Circuit, args []Value) (Value, error) {
	if len(args) != c.Arity() {
		return Value{}, runtimeErrorf(callee, "Expected %d arguments but got %d.", c.Arity(), len(args))
	}
	if in.env.Depth() >= in.opts.MaxCallDepth {
		return Value{}, runtimeErrorf(callee, "Maximum circuit call depth exceeded.")
	}

	in.env.Push(c.Scope)
	defer in.env.Pop()

	for i, p := range c.Def.Params {
		in.env.Define(p.Lexeme, args[i])
	}

	result := Bit(false)
	for _, e := range c.Def.Body {
		v, err := in.evaluate(e)
		if err != nil {
			return Value{}, err
		}
		result = v
	}
	return result, nil
}
