package types

import "testing"

func TestArrayEquality(t *testing.T) {
	a := NewArrayType(INTEGER)
	b := NewArrayType(INTEGER)
	c := NewArrayType(FLOAT)
	if !a.Equals(b) {
		t.Error("arrays of the same element type should be equal")
	}
	if a.Equals(c) {
		t.Error("arrays of different element types should not be equal")
	}
}

func TestRecordIdentityIsNominal(t *testing.T) {
	fields := map[string]*Type{"x": INTEGER}
	a := NewRecordType("Point", []string{"x"}, fields)
	b := NewRecordType("Point", []string{"x"}, fields)
	c := NewRecordType("Vector", []string{"x"}, fields)
	if !a.Equals(b) {
		t.Error("records with the same name should be equal regardless of struct identity")
	}
	if a.Equals(c) {
		t.Error("records with different names should not be equal even with identical fields")
	}
}

func TestTypealiasExpandsTransparently(t *testing.T) {
	alias := NewTypealias("Meters", FLOAT)
	if !alias.Equals(FLOAT) {
		t.Error("a typealias should be equal to its expansion")
	}
	if Expand(alias) != FLOAT {
		t.Error("Expand should follow the alias chain to its target")
	}
}

func TestFunctionTypeEquality(t *testing.T) {
	f1 := NewFunctionType([]*Type{INTEGER, STRING}, []*Type{BOOLEAN})
	f2 := NewFunctionType([]*Type{INTEGER, STRING}, []*Type{BOOLEAN})
	f3 := NewFunctionType([]*Type{INTEGER}, []*Type{BOOLEAN})
	if !f1.Equals(f2) {
		t.Error("functions with identical signatures should be equal")
	}
	if f1.Equals(f3) {
		t.Error("functions with different arity should not be equal")
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric(INTEGER) || !IsNumeric(FLOAT) {
		t.Error("integer and float should be numeric")
	}
	if IsNumeric(STRING) || IsNumeric(BOOLEAN) {
		t.Error("string and boolean should not be numeric")
	}
}

func TestStringRendering(t *testing.T) {
	at := NewArrayType(INTEGER)
	if at.String() != "{integer}" {
		t.Errorf("got %q", at.String())
	}
	ft := NewFunctionType([]*Type{INTEGER}, []*Type{BOOLEAN})
	if ft.String() != "(integer) -> (boolean)" {
		t.Errorf("got %q", ft.String())
	}
}
