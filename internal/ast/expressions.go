package ast

import "github.com/pallene-lang/pallenec/internal/token"

// NilExp is the literal "nil".
type NilExp struct{ expBase }

// BoolExp is a "true"/"false" literal.
type BoolExp struct {
	expBase
	Value bool
}

// IntegerExp is an integer literal. Parsed eagerly so constant folding
// downstream never has to re-lex.
type IntegerExp struct {
	expBase
	Value int64
}

// FloatExp is a float literal.
type FloatExp struct {
	expBase
	Value float64
}

// StringExp is a string literal, already unescaped.
type StringExp struct {
	expBase
	Value string
}

// LambdaExp is an anonymous function literal.
type LambdaExp struct {
	expBase
	EndPos      token.Position
	Params      []Param
	RetColonPos token.Position // position of the return type's ":", valid only when len(RetTypes) > 0
	RetEndPos   token.Position // end of the return type annotation, including an enclosing ")" for a tuple
	RetTypes    []TypeExpr
	Body        []Stat
}

func (l *LambdaExp) End() token.Position { return l.EndPos }

// InitList is an array or table literal "{ e1, e2, ... }". It requires a
// surrounding context type supplied by the checker (variable annotation,
// return type, or parameter type) since the literal alone doesn't say
// whether it is an Array or a Table.
type InitList struct {
	expBase
	EndPos token.Position
	// Keys[i] is "" for a positional (array-style) element.
	Keys  []string
	Elems []Exp
}

func (i *InitList) End() token.Position { return i.EndPos }

// CastExp is "exp as TypeExpr". The span from "as" through TypeExpr is
// stripped by the translator.
type CastExp struct {
	expBase
	AsPos    token.Position // position of the "as" keyword; needed by the translator
	EndPos   token.Position
	Operand  Exp
	TypeExpr TypeExpr
	// Implicit is true for a cast the checker inserted around a mixed
	// int/float operand (spec 4.2) rather than one written in source —
	// it has no "as" span to strip, since it was never text to begin
	// with.
	Implicit bool
}

func (c *CastExp) End() token.Position { return c.EndPos }

// UnopKind enumerates unary operators.
type UnopKind int

const (
	UnopNot UnopKind = iota
	UnopLen
	UnopNeg
	UnopBNot
)

// UnopExp is a unary operator application.
type UnopExp struct {
	expBase
	Op      UnopKind
	Operand Exp
}

// BinopKind enumerates binary operators other than concatenation, which
// has its own node because it flattens nested chains (spec 4.2).
type BinopKind int

const (
	BinopOr BinopKind = iota
	BinopAnd
	BinopEq
	BinopNeq
	BinopLt
	BinopGt
	BinopLe
	BinopGe
	BinopBOr
	BinopBXor
	BinopBAnd
	BinopShl
	BinopShr
	BinopAdd
	BinopSub
	BinopMul
	BinopMod
	BinopDiv
	BinopIDiv
	BinopPow
)

// BinopExp is a binary operator application. The checker may rewrite
// this node's Left/Right to insert an explicit CastExp when one operand
// is an integer and the other a float (spec 4.2 arithmetic rules).
type BinopExp struct {
	expBase
	Op    BinopKind
	Left  Exp
	Right Exp
}

// ConcatExp is a flattened ".." chain: "a .. b .. c" becomes one node
// with three operands, never a right-nested chain of BinopExp, matching
// spec 4.2 ("flattens nested concatenations").
type ConcatExp struct {
	expBase
	Operands []Exp
}

// CallFunc is "callee(args...)", where callee may be any expression
// (including a Var naming a toplevel function, which the checker may
// mark for the direct-call path rather than the boxed-call protocol).
type CallFunc struct {
	expBase
	EndPos token.Position
	Callee Exp
	Args   []Exp
}

func (c *CallFunc) End() token.Position { return c.EndPos }

// CallMethod is "receiver:method(args...)".
type CallMethod struct {
	expBase
	EndPos   token.Position
	Receiver Exp
	Method   string
	Args     []Exp
}

func (c *CallMethod) End() token.Position { return c.EndPos }

// ParenExp is a parenthesized expression. Kept as its own node (rather
// than discarded during parsing) because the translator must reproduce
// the parentheses byte-for-byte.
type ParenExp struct {
	expBase
	EndPos  token.Position
	Operand Exp
}

func (p *ParenExp) End() token.Position { return p.EndPos }
