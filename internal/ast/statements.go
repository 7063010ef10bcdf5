package ast

import "github.com/pallene-lang/pallenec/internal/token"

type statBase struct {
	base
}

func (statBase) stat() {}

// Block is a sequence of statements forming one lexical scope (the body
// of do/while/for/function, or an explicit "do ... end" block).
type Block struct {
	statBase
	EndPos token.Position
	Stats  []Stat
}

func (b *Block) End() token.Position { return b.EndPos }

// AssignStat is "lhs1, lhs2 = rhs1, rhs2". Each Lhs entry must reduce to
// a Var node; the parser rejects anything else with AssignNotToVar.
type AssignStat struct {
	statBase
	Lhs []Var
	Rhs []Exp
}

// DeclStat is "local name: T = init" or "local name = init" (inferred).
type DeclStat struct {
	statBase
	Name     string
	ColonPos token.Position // position of ":", valid only when TypeExpr != nil; needed by the translator
	TypeExpr TypeExpr        // nil when the type is inferred from Init
	Init     Exp             // nil for a declaration without an initializer
}

// IfStat is "if cond then then-block [else else-block] end". elseif
// chains are represented as a nested IfStat in Else.
type IfStat struct {
	statBase
	Cond Exp
	Then *Block
	Else Stat // *Block, *IfStat, or nil
}

// WhileStat is "while cond do body end".
type WhileStat struct {
	statBase
	Cond Exp
	Body *Block
}

// RepeatStat is "repeat body until cond". Unlike While, the condition is
// evaluated with the body's bindings still in scope.
type RepeatStat struct {
	statBase
	Body *Block
	Cond Exp
}

// ForStat is a numeric "for name = start, limit[, step] do body end".
type ForStat struct {
	statBase
	Var   string
	Start Exp
	Limit Exp
	Step  Exp // nil means step 1
	Body  *Block
}

// BreakStat is "break"; the parser rejects it outside a loop body.
type BreakStat struct {
	statBase
}

// ReturnStat is "return exp1, exp2" or a value-less "return".
type ReturnStat struct {
	statBase
	Values []Exp
}

// CallStat is a call expression used as a statement: "f(x)".
type CallStat struct {
	statBase
	Call Exp // *CallFunc or *CallMethod
}
