// Package checker resolves names and types over a parsed Program,
// annotating every ast.Exp's type slot and reporting name/type
// diagnostics. Pallene is case-sensitive and has no overloading, so the
// scope stack is a simple outer-chain of flat maps rather than anything
// involving overload sets.
package checker

import "github.com/pallene-lang/pallenec/internal/types"

// Symbol is a name bound in some scope: a local variable, a function
// parameter, or a toplevel function/variable.
type Symbol struct {
	Name     string
	Type     *types.Type
	ReadOnly bool
}

// Scope is one level of lexical nesting. The outer chain terminates at
// the toplevel scope, which holds every exported and non-exported
// function/variable declared at the top of the module.
type Scope struct {
	symbols map[string]*Symbol
	outer   *Scope
}

func newScope(outer *Scope) *Scope {
	return &Scope{symbols: make(map[string]*Symbol), outer: outer}
}

// Define binds name in this scope, shadowing any binding of the same
// name in an outer scope. Returns false if name is already bound in
// this exact scope (not an outer one) — callers turn that into a
// "variable redeclared" diagnostic.
func (s *Scope) Define(name string, typ *types.Type, readOnly bool) bool {
	if _, exists := s.symbols[name]; exists {
		return false
	}
	s.symbols[name] = &Symbol{Name: name, Type: typ, ReadOnly: readOnly}
	return true
}

// Resolve searches this scope and every enclosing scope for name.
func (s *Scope) Resolve(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.outer {
		if sym, ok := cur.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *Scope) declaredHere(name string) bool {
	_, ok := s.symbols[name]
	return ok
}
