package ast

import (
	"testing"

	"github.com/pallene-lang/pallenec/internal/token"
	"github.com/pallene-lang/pallenec/internal/types"
)

func TestExpTypeSlotStartsNil(t *testing.T) {
	e := &IntegerExp{Value: 10}
	if e.ExpType() != nil {
		t.Error("a freshly parsed expression should have no resolved type yet")
	}
	e.SetType(types.INTEGER)
	if e.ExpType() != types.INTEGER {
		t.Error("SetType should be visible through ExpType")
	}
}

func TestVarSatisfiesExp(t *testing.T) {
	var v Var = &NameVar{Name: "x"}
	var _ Exp = v
}

func TestClosedFamilySwitch(t *testing.T) {
	var exps = []Exp{
		&NilExp{}, &BoolExp{Value: true}, &IntegerExp{Value: 1},
		&FloatExp{Value: 1.5}, &StringExp{Value: "s"}, &NameVar{Name: "x"},
	}
	for _, e := range exps {
		switch e.(type) {
		case *NilExp, *BoolExp, *IntegerExp, *FloatExp, *StringExp, *NameVar:
			// recognized
		default:
			t.Errorf("unrecognized expression variant %T", e)
		}
	}
}

func TestSpannedNodesCarryEndPosition(t *testing.T) {
	start := token.Position{Line: 1, Column: 1}
	end := token.Position{Line: 3, Column: 4}
	rec := &RecordDecl{
		toplevelBase: toplevelBase{base{StartPos: start}},
		EndPos:       end,
		Name:         "Point",
	}
	var sp Spanned = rec
	if sp.Pos() != start || sp.End() != end {
		t.Errorf("got pos=%v end=%v", sp.Pos(), sp.End())
	}
}
