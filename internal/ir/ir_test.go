package ir

import (
	"testing"

	"github.com/pallene-lang/pallenec/internal/token"
	"github.com/pallene-lang/pallenec/internal/types"
)

func posAtLine(line int) token.Position {
	return token.Position{File: "t.pln", Line: line, Column: 1}
}

func TestLocalValueAndLiteralValueClassifyCorrectly(t *testing.T) {
	lv := LocalValue(Local(3))
	if !lv.IsLocalRef() || lv.IsLiteral() {
		t.Fatalf("LocalValue misclassified: %+v", lv)
	}
	if lv.Local != 3 {
		t.Fatalf("expected Local 3, got %d", lv.Local)
	}

	litv := LiteralValue(int64(42))
	if !litv.IsLiteral() || litv.IsLocalRef() {
		t.Fatalf("LiteralValue misclassified: %+v", litv)
	}
	if litv.Literal.(int64) != 42 {
		t.Fatalf("expected literal 42, got %v", litv.Literal)
	}
}

func TestCommandVariantsSatisfyTheClosedInterface(t *testing.T) {
	var cmds = []Command{
		&If{},
		&Loop{},
		&ForNumInt{},
		&ForNumFloat{},
		&Break{},
		&Return{},
		&Assign{},
		&Convert{},
		&CheckedLoad{},
		&CheckedStore{},
		&CallFunDirect{},
		&CallFunc{},
		&BinOp{},
		&UnOp{},
		&Concat{},
		&NewArray{},
		&NewTable{},
		&NewRecord{},
	}
	if len(cmds) != 18 {
		t.Fatalf("expected 18 command variants, got %d", len(cmds))
	}
}

func TestSetPosAndPositionRoundTrip(t *testing.T) {
	var b Break
	b.SetPos(posAtLine(7))
	if got := b.Position().Line; got != 7 {
		t.Fatalf("expected line 7, got %d", got)
	}
}

func TestIfCarriesBothBranchesEvenWhenEmpty(t *testing.T) {
	ifc := &If{Cond: LiteralValue(true)}
	if ifc.Then != nil || ifc.Else != nil {
		t.Fatalf("expected nil (not non-nil empty) branch slices by default: %+v", ifc)
	}
	ifc.Then = append(ifc.Then, &Break{})
	if len(ifc.Then) != 1 {
		t.Fatalf("expected one command appended to Then, got %d", len(ifc.Then))
	}
}

func TestFunctionLocalsLayoutParamsBeforeTemporaries(t *testing.T) {
	fn := &Function{
		Name:   "f",
		Params: 2,
		Locals: []LocalInfo{
			{Name: "x", Type: types.INTEGER},
			{Name: "y", Type: types.INTEGER},
			{Name: "", Type: types.INTEGER}, // compiler temporary
		},
	}
	if fn.Params != 2 {
		t.Fatalf("expected 2 params, got %d", fn.Params)
	}
	if fn.Locals[fn.Params].Name != "" {
		t.Fatalf("expected first non-param local to be an unnamed temporary, got %q", fn.Locals[fn.Params].Name)
	}
}

func TestModuleGlobalInitHoldsInitializerCommandsSeparateFromFunctions(t *testing.T) {
	mod := &Module{
		Name:    "t",
		Globals: []LocalInfo{{Name: "g", Type: types.INTEGER}},
		GlobalInit: []Command{
			&Assign{Dst: 0, Src: LiteralValue(int64(10))},
		},
	}
	if len(mod.Functions) != 0 {
		t.Fatalf("expected no functions, got %d", len(mod.Functions))
	}
	if len(mod.GlobalInit) != 1 {
		t.Fatalf("expected one GlobalInit command, got %d", len(mod.GlobalInit))
	}
	if _, ok := mod.GlobalInit[0].(*Assign); !ok {
		t.Fatalf("expected *Assign, got %T", mod.GlobalInit[0])
	}
}
