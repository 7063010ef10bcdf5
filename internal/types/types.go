// Package types implements the Pallene type lattice: a closed tagged union
// over Nil, Boolean, Integer, Float, String, Any, Array, Table, Function,
// Record, and Typealias. Equality is structural except for Record, which
// is nominal.
package types

import "strings"

// Kind tags the variant of a Type.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindAny
	KindArray
	KindTable
	KindFunction
	KindRecord
	KindTypealias
)

// Type is a single node of the closed type lattice. Which fields are
// meaningful depends on Kind; Go has no sum types, so this mirrors the
// teacher corpus's convention of one flat struct per tagged family member
// rather than an interface-per-variant hierarchy, since the IR and
// checker need to copy and compare Types by value frequently.
type Type struct {
	Kind Kind

	// Array
	Elem *Type

	// Table: ordered fields (declaration order matters for diagnostics
	// and for the translator's literal field synthesis).
	FieldOrder []string
	Fields     map[string]*Type

	// Function
	Params []*Type
	Rets   []*Type

	// Record: nominal identity lives in Name; RecordFields is structural
	// payload used only to check field access, not identity.
	Name         string
	RecordFields map[string]*Type

	// Typealias: resolved away by the checker before any later stage
	// observes it; Target holds what it stands for until expansion runs.
	Target *Type
}

var (
	NIL     = &Type{Kind: KindNil}
	BOOLEAN = &Type{Kind: KindBoolean}
	INTEGER = &Type{Kind: KindInteger}
	FLOAT   = &Type{Kind: KindFloat}
	STRING  = &Type{Kind: KindString}
	ANY     = &Type{Kind: KindAny}
)

// NewArrayType builds an Array(elem) type.
func NewArrayType(elem *Type) *Type {
	return &Type{Kind: KindArray, Elem: elem}
}

// NewTableType builds a Table type from an ordered field list.
func NewTableType(order []string, fields map[string]*Type) *Type {
	return &Type{Kind: KindTable, FieldOrder: append([]string(nil), order...), Fields: fields}
}

// NewFunctionType builds a Function(args, rets) type.
func NewFunctionType(params, rets []*Type) *Type {
	return &Type{Kind: KindFunction, Params: params, Rets: rets}
}

// NewRecordType builds a nominal Record type. Two Record types are equal
// only if they share a Name.
func NewRecordType(name string, order []string, fields map[string]*Type) *Type {
	return &Type{Kind: KindRecord, Name: name, FieldOrder: append([]string(nil), order...), RecordFields: fields}
}

// NewTypealias builds a Typealias(name -> target) type. No Typealias may
// survive checking; Expand resolves it away.
func NewTypealias(name string, target *Type) *Type {
	return &Type{Kind: KindTypealias, Name: name, Target: target}
}

// Expand follows a chain of Typealias nodes to the underlying type. It
// does not itself detect cycles — the checker's alias-expansion pass
// (internal/checker) does that once, up front, and rejects cyclic chains
// before any Expand call can loop forever.
func Expand(t *Type) *Type {
	for t != nil && t.Kind == KindTypealias {
		t = t.Target
	}
	return t
}

// IsNumeric reports whether t is Integer or Float.
func IsNumeric(t *Type) bool {
	t = Expand(t)
	return t != nil && (t.Kind == KindInteger || t.Kind == KindFloat)
}

// Equals reports structural equality, except Record identity which is
// nominal (by Name only).
func (t *Type) Equals(other *Type) bool {
	a, b := Expand(t), Expand(other)
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNil, KindBoolean, KindInteger, KindFloat, KindString, KindAny:
		return true
	case KindArray:
		return a.Elem.Equals(b.Elem)
	case KindTable:
		if len(a.FieldOrder) != len(b.FieldOrder) {
			return false
		}
		for _, name := range a.FieldOrder {
			bf, ok := b.Fields[name]
			if !ok || !a.Fields[name].Equals(bf) {
				return false
			}
		}
		return true
	case KindFunction:
		if len(a.Params) != len(b.Params) || len(a.Rets) != len(b.Rets) {
			return false
		}
		for i := range a.Params {
			if !a.Params[i].Equals(b.Params[i]) {
				return false
			}
		}
		for i := range a.Rets {
			if !a.Rets[i].Equals(b.Rets[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		return a.Name == b.Name
	}
	return false
}

// String renders a Type the way it would appear in a diagnostic.
func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	switch t.Kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindAny:
		return "any"
	case KindArray:
		return "{" + t.Elem.String() + "}"
	case KindTable:
		var sb strings.Builder
		sb.WriteString("{")
		for i, name := range t.FieldOrder {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(t.Fields[name].String())
		}
		sb.WriteString("}")
		return sb.String()
	case KindFunction:
		var sb strings.Builder
		sb.WriteString("(")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(") -> (")
		for i, r := range t.Rets {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(r.String())
		}
		sb.WriteString(")")
		return sb.String()
	case KindRecord:
		return t.Name
	case KindTypealias:
		return t.Name
	}
	return "<invalid type>"
}
