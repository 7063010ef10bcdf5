package ast

import "github.com/pallene-lang/pallenec/internal/token"

// TypeExpr is the syntactic form of a type annotation as written in
// source, before the checker resolves it into a types.Type. It is kept
// as a separate family from types.Type because the translator needs the
// exact source span of a type annotation (to strip it) long after the
// checker has thrown the syntax away in favor of the resolved type.
type TypeExpr interface {
	Spanned
	typeExpr()
}

type typeExprBase struct {
	spanned
}

func (typeExprBase) typeExpr() {}

// TypeName is a bare name: a primitive ("integer", "string", ...), a
// record name, or a typealias name. Resolution happens in the checker.
type TypeName struct {
	typeExprBase
	Name string
}

// TypeArray is "{ ElemType }".
type TypeArray struct {
	typeExprBase
	Elem TypeExpr
}

// TypeTable is "{ name1: T1, name2: T2 }".
type TypeTable struct {
	typeExprBase
	Names []string
	Types []TypeExpr
}

// TypeFunction is "(T1, T2) -> (R1, R2)".
type TypeFunction struct {
	typeExprBase
	Params []TypeExpr
	Rets   []TypeExpr
}

// NewTypeName etc. are convenience constructors used by the parser so
// callers don't have to hand-assemble the base/spanned embedding.
func NewTypeName(start, end token.Position, name string) *TypeName {
	return &TypeName{typeExprBase: mkTypeExprBase(start, end), Name: name}
}

func NewTypeArray(start, end token.Position, elem TypeExpr) *TypeArray {
	return &TypeArray{typeExprBase: mkTypeExprBase(start, end), Elem: elem}
}

func NewTypeTable(start, end token.Position, names []string, typs []TypeExpr) *TypeTable {
	return &TypeTable{typeExprBase: mkTypeExprBase(start, end), Names: names, Types: typs}
}

func NewTypeFunction(start, end token.Position, params, rets []TypeExpr) *TypeFunction {
	return &TypeFunction{typeExprBase: mkTypeExprBase(start, end), Params: params, Rets: rets}
}

func mkTypeExprBase(start, end token.Position) typeExprBase {
	return typeExprBase{spanned{base{StartPos: start}, end}}
}
