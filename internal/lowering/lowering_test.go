package lowering

import (
	"testing"

	"github.com/pallene-lang/pallenec/internal/checker"
	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/parser"
)

func lower(t *testing.T, src string) *ir.Module {
	t.Helper()
	p := parser.New("t.pln", src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if errs := checker.Check(prog, nil); len(errs) != 0 {
		t.Fatalf("check errors: %v", errs)
	}
	return Lower("t", prog)
}

func TestLowerProducesOneFunctionPerToplevelDecl(t *testing.T) {
	mod := lower(t, "function f() end\nfunction g() end\n")
	if len(mod.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(mod.Functions))
	}
	if mod.Functions[0].Name != "f" || mod.Functions[1].Name != "g" {
		t.Errorf("expected names [f g], got [%s %s]", mod.Functions[0].Name, mod.Functions[1].Name)
	}
}

func TestLowerFlattensCompoundExpressionsIntoTemporaries(t *testing.T) {
	src := "function f(): integer\n\treturn 1 + 2 * 3\nend\n"
	mod := lower(t, src)
	fn := mod.Functions[0]

	var binops int
	var walk func(cmds []ir.Command)
	walk = func(cmds []ir.Command) {
		for _, c := range cmds {
			if _, ok := c.(*ir.BinOp); ok {
				binops++
			}
		}
	}
	walk(fn.Body)
	if binops != 2 {
		t.Fatalf("expected 2 BinOp commands (one per operator), got %d", binops)
	}
}

func TestLowerSpecializesForLoopByStaticIntType(t *testing.T) {
	src := "function f()\n\tfor i = 1, 10 do\n\tend\nend\n"
	mod := lower(t, src)
	fn := mod.Functions[0]
	if len(fn.Body) != 1 {
		t.Fatalf("expected a single top-level command, got %d", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*ir.ForNumInt); !ok {
		t.Fatalf("expected *ir.ForNumInt, got %T", fn.Body[0])
	}
}

func TestLowerSpecializesForLoopByStaticFloatType(t *testing.T) {
	src := "function f()\n\tfor i = 1.0, 10.0 do\n\tend\nend\n"
	mod := lower(t, src)
	fn := mod.Functions[0]
	if _, ok := fn.Body[0].(*ir.ForNumFloat); !ok {
		t.Fatalf("expected *ir.ForNumFloat, got %T", fn.Body[0])
	}
}

func TestLowerInsertsExplicitConvertForImplicitIntToFloatPromotion(t *testing.T) {
	src := "function f(): float\n\tlocal x: integer = 1\n\treturn x + 1.0\nend\n"
	mod := lower(t, src)
	fn := mod.Functions[0]

	var found bool
	for _, c := range fn.Body {
		if _, ok := c.(*ir.Convert); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected a Convert command for the implicit int-to-float promotion")
	}
}

func TestLowerShortCircuitAndFlattensIntoAnIf(t *testing.T) {
	src := "function f(a: boolean, b: boolean): boolean\n\treturn a and b\nend\n"
	mod := lower(t, src)
	fn := mod.Functions[0]

	var found bool
	for _, c := range fn.Body {
		if _, ok := c.(*ir.If); ok {
			found = true
		}
	}
	if !found {
		t.Error("expected short-circuit \"and\" to lower to an If")
	}
}

func TestLowerGlobalInitializerRunsInGlobalInit(t *testing.T) {
	src := "local x: integer = 10\nfunction f() end\n"
	mod := lower(t, src)
	if len(mod.Globals) != 1 || mod.Globals[0].Name != "x" {
		t.Fatalf("expected one global named x, got %v", mod.Globals)
	}
	if len(mod.GlobalInit) == 0 {
		t.Error("expected a non-empty GlobalInit for an initialized global")
	}
}
