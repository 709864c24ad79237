package bex

import (
	"fmt"
	"sort"
	"strings"
)

// Scope is one frame of name bindings. Values and circuits live in separate
// namespaces, so a bit and a circuit may share a name.
type Scope struct {
	values   map[string]Value
	circuits map[string]*Circuit
	parent   *Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{
		values:   make(map[string]Value),
		circuits: make(map[string]*Circuit),
		parent:   parent,
	}
}

// Parent returns the enclosing scope, nil for the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Circuit is a registered circuit definition together with the scope it was
// defined in. Calls resolve free names through that scope.
type Circuit struct {
	Def   *CircuitDef
	Scope *Scope
}

// Arity is the number of declared parameters.
func (c *Circuit) Arity() int { return len(c.Def.Params) }

// Environment tracks the active scopes during evaluation.
// The global scope is always at the bottom of the stack.
// Each circuit call pushes one scope and pops it when the call returns.
type Environment struct {
	global *Scope
	stack  []*Scope
}

func NewEnvironment() *Environment {
	g := newScope(nil)
	return &Environment{global: g, stack: []*Scope{g}}
}

// Push activates a new scope whose lookups fall back to parent.
// A nil parent means the current scope.
func (e *Environment) Push(parent *Scope) *Scope {
	if parent == nil {
		parent = e.Current()
	}
	s := newScope(parent)
	e.stack = append(e.stack, s)
	return s
}

// Pop discards the innermost scope. The global scope is never popped.
func (e *Environment) Pop() {
	if len(e.stack) > 1 {
		e.stack = e.stack[:len(e.stack)-1]
	}
}

// Current returns the innermost active scope.
func (e *Environment) Current() *Scope { return e.stack[len(e.stack)-1] }

func (e *Environment) Global() *Scope { return e.global }

// Depth is the number of pushed scopes above the global one.
func (e *Environment) Depth() int { return len(e.stack) - 1 }

// Define binds name in the current scope, replacing any earlier binding there.
func (e *Environment) Define(name string, v Value) {
	e.Current().values[name] = v
}

// DefineCircuit registers def in the current scope.
func (e *Environment) DefineCircuit(def *CircuitDef) {
	cur := e.Current()
	cur.circuits[def.Name.Lexeme] = &Circuit{Def: def, Scope: cur}
}

// lookupValue walks the chain outward from the current scope.
func (e *Environment) lookupValue(name string) (Value, bool) {
	for s := e.Current(); s != nil; s = s.parent {
		if v, ok := s.values[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

func (e *Environment) lookupCircuit(name string) (*Circuit, bool) {
	for s := e.Current(); s != nil; s = s.parent {
		if c, ok := s.circuits[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Get resolves a variable reference.
func (e *Environment) Get(name Token) (Value, error) {
	if v, ok := e.lookupValue(name.Lexeme); ok {
		return v, nil
	}
	return Value{}, runtimeErrorf(name, "Undefined variable '%s'.", name.Lexeme)
}

// GetCircuit resolves a circuit reference.
func (e *Environment) GetCircuit(name Token) (*Circuit, error) {
	if c, ok := e.lookupCircuit(name.Lexeme); ok {
		return c, nil
	}
	return nil, runtimeErrorf(name, "Undefined circuit '%s'.", name.Lexeme)
}

// HasCircuit reports whether name resolves to a circuit from the current scope.
func (e *Environment) HasCircuit(name string) bool {
	_, ok := e.lookupCircuit(name)
	return ok
}

// String returns a deterministically ordered dump of the active scopes.
func (e *Environment) String() string {
	var sb strings.Builder
	for i, s := range e.stack {
		if i == 0 {
			sb.WriteString("Global:\n")
		} else {
			fmt.Fprintf(&sb, "Scope %d:\n", i)
		}
		writeScope(&sb, s)
	}
	return sb.String()
}

func writeScope(sb *strings.Builder, s *Scope) {
	if len(s.values) == 0 && len(s.circuits) == 0 {
		sb.WriteString("  (empty)\n")
		return
	}
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "  %-20s  %s\n", name, s.values[name])
	}

	names = names[:0]
	for name := range s.circuits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := s.circuits[name]
		fmt.Fprintf(sb, "  circuit %-12s  (params: %d, body: %d)\n", name, c.Arity(), len(c.Def.Body))
	}
}
