// Package ast defines the Pallene abstract syntax tree. The family is
// closed: every node kind is declared in this package, and downstream
// passes switch over concrete types rather than dispatching through an
// open-ended visitor hierarchy, per the "tagged ASTs" note in the design
// notes.
package ast

import (
	"github.com/pallene-lang/pallenec/internal/token"
	"github.com/pallene-lang/pallenec/internal/types"
)

// Node is implemented by every AST node. Pos is the node's starting
// source location, attached during parsing and reused by every later
// diagnostic.
type Node interface {
	Pos() token.Position
	node()
}

// Spanned is implemented by nodes that also carry an end location: casts,
// function bodies, and record/typealias declarations. Only the translator
// needs End; everything else only needs Pos.
type Spanned interface {
	Node
	End() token.Position
}

// base embeds into every concrete node to provide Pos() without
// repeating the field and the accessor in each variant.
type base struct {
	StartPos token.Position
}

func (b base) Pos() token.Position { return b.StartPos }
func (base) node()                 {}

// spanned embeds into the few node kinds that also need an end location.
type spanned struct {
	base
	EndPos token.Position
}

func (s spanned) End() token.Position { return s.EndPos }

// Program is the root of the tree: the ordered list of toplevel items in
// one compilation unit.
type Program struct {
	base
	Toplevels []Toplevel
}

// Toplevel is implemented by FuncDecl, TopVarDecl, TypealiasDecl,
// RecordDecl, and ImportDecl.
type Toplevel interface {
	Node
	toplevel()
}

// Stat is implemented by every statement variant.
type Stat interface {
	Node
	stat()
}

// Exp is implemented by every expression variant. Type is nil until the
// checker runs; after checking it holds the expression's resolved type
// (Invariant: "Every Exp node carries a resolved type after checking").
type Exp interface {
	Node
	exp()
	ExpType() *types.Type
	SetType(*types.Type)
}

// expBase is embedded by every expression node to provide the Type slot.
type expBase struct {
	base
	Typ *types.Type
}

func (e *expBase) ExpType() *types.Type  { return e.Typ }
func (e *expBase) SetType(t *types.Type) { e.Typ = t }
func (*expBase) exp()                    {}

// Var is implemented by Name, Bracket, and Dot: the three kinds of
// assignable/referenceable location. Var also satisfies Exp, since a
// variable reference is itself an expression.
type Var interface {
	Exp
	varNode()
}

type varBase struct {
	expBase
}

func (varBase) varNode() {}
