package ast

import "github.com/pallene-lang/pallenec/internal/token"

type toplevelBase struct {
	base
}

func (toplevelBase) toplevel() {}

// Param is a function parameter: a name plus its declared type.
type Param struct {
	Name     string
	ColonPos token.Position // position of ":"; needed by the translator
	TypeExpr TypeExpr
}

// FuncDecl is a toplevel function or procedure definition.
type FuncDecl struct {
	toplevelBase
	EndPos      token.Position // end of "end", needed by the translator
	ExportPos   token.Position // position of "export", valid only when Export; needed by the translator
	Name        string
	Export      bool
	Params      []Param
	RetColonPos token.Position // position of the return type's ":", valid only when len(RetTypes) > 0
	RetEndPos   token.Position // end of the return type annotation, including an enclosing ")" for a tuple
	RetTypes    []TypeExpr     // empty means "()"
	Body        []Stat
}

func (f *FuncDecl) End() token.Position { return f.EndPos }

// TopVarDecl is a toplevel variable declaration, optionally exported.
type TopVarDecl struct {
	toplevelBase
	Name      string
	Export    bool
	ExportPos token.Position // position of "export", valid only when Export; needed by the translator
	ColonPos  token.Position // position of ":", valid only when TypeExpr != nil; needed by the translator
	TypeExpr  TypeExpr       // nil if the type is inferred from Init
	Init      Exp
}

// TypealiasDecl is "typealias Name = TypeExpr". The entire span from the
// "typealias" keyword to the end of TypeExpr is stripped by the
// translator.
type TypealiasDecl struct {
	toplevelBase
	EndPos   token.Position
	Name     string
	TypeExpr TypeExpr
}

func (t *TypealiasDecl) End() token.Position { return t.EndPos }

// RecordField is one field of a record declaration.
type RecordField struct {
	Name     string
	ColonPos token.Position // position of ":"; needed by the translator
	TypeExpr TypeExpr
}

// RecordDecl is "record Name field1: T1 ... end". The entire span from
// "record" to the terminal "end" is stripped by the translator.
type RecordDecl struct {
	toplevelBase
	EndPos token.Position
	Name   string
	Fields []RecordField
}

func (r *RecordDecl) End() token.Position { return r.EndPos }

// ImportDecl is "import Name" or "import Name as Alias".
type ImportDecl struct {
	toplevelBase
	Name  string
	Alias string // equal to Name when no "as" clause is present
}
