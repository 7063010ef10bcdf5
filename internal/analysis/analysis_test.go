package analysis

import (
	"testing"

	"github.com/pallene-lang/pallenec/internal/checker"
	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/lowering"
	"github.com/pallene-lang/pallenec/internal/parser"
)

func lowerSource(t *testing.T, src string) *ir.Module {
	t.Helper()
	p := parser.New("t.pln", src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if errs := checker.Check(prog, nil); len(errs) != 0 {
		t.Fatalf("check errors: %v", errs)
	}
	return lowering.Lower("t", prog)
}

func TestUninitializedUseIsRejected(t *testing.T) {
	mod := lowerSource(t, `
		function f(): integer
			local x: integer
			local y: integer = x + 1
			return y
		end
	`)
	errs := Run(mod)
	if len(errs) == 0 {
		t.Fatalf("expected an uninitialized-use error, got none")
	}
}

func TestInitializedOnEveryBranchIsAccepted(t *testing.T) {
	mod := lowerSource(t, `
		function f(n: integer): integer
			local x: integer
			if n > 0 then
				x = 1
			else
				x = 2
			end
			return x
		end
	`)
	if errs := Run(mod); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestInitializedOnOnlyOneBranchIsRejected(t *testing.T) {
	mod := lowerSource(t, `
		function f(n: integer): integer
			local x: integer
			if n > 0 then
				x = 1
			end
			return x
		end
	`)
	if errs := Run(mod); len(errs) == 0 {
		t.Fatalf("expected an uninitialized-use error, got none")
	}
}

func TestLoopMayRunZeroTimesSoAfterStateIsUnchanged(t *testing.T) {
	mod := lowerSource(t, `
		function f(n: integer): integer
			local x: integer
			while n > 0 do
				x = n
				n = n - 1
			end
			return x
		end
	`)
	if errs := Run(mod); len(errs) == 0 {
		t.Fatalf("expected an uninitialized-use error after a loop that might not run")
	}
}

func TestLoopReadBeforeWriteInBodyIsReportedOnFirstIteration(t *testing.T) {
	mod := lowerSource(t, `
		function f(n: integer): integer
			local x: integer
			local y: integer = 0
			while n > 0 do
				y = x
				x = 5
				n = n - 1
			end
			return y
		end
	`)
	if errs := Run(mod); len(errs) == 0 {
		t.Fatalf("expected x to be reported as possibly uninitialized on the loop's first iteration")
	}
}

func findBinOp(cmds []ir.Command) *ir.BinOp {
	for _, c := range cmds {
		if b, ok := c.(*ir.BinOp); ok {
			return b
		}
		if b := findInNested(c); b != nil {
			return b
		}
	}
	return nil
}

func findInNested(c ir.Command) *ir.BinOp {
	switch n := c.(type) {
	case *ir.If:
		if b := findBinOp(n.Then); b != nil {
			return b
		}
		return findBinOp(n.Else)
	case *ir.Loop:
		return findBinOp(n.Body)
	}
	return nil
}

func TestConstantFoldingReplacesBinOpWithAssign(t *testing.T) {
	mod := lowerSource(t, `
		function f(): integer
			local x: integer = 2 + 3
			return x
		end
	`)
	fn := mod.Functions[0]
	PropagateConstants(fn)

	if b := findBinOp(fn.Body); b != nil {
		t.Fatalf("expected the constant 2 + 3 to be folded away, found a surviving BinOp %+v", b)
	}

	var assigned *ir.Assign
	for _, c := range fn.Body {
		if a, ok := c.(*ir.Assign); ok && a.Src.IsLiteral() {
			assigned = a
		}
	}
	if assigned == nil {
		t.Fatalf("expected a folded literal Assign in %+v", fn.Body)
	}
	if got, ok := assigned.Src.Literal.(int64); !ok || got != 5 {
		t.Errorf("got %v, want int64(5)", assigned.Src.Literal)
	}
}

func TestConstantFoldingNeverFoldsDivisionByLiteralZero(t *testing.T) {
	mod := lowerSource(t, `
		function f(): integer
			local z: integer = 0
			local x: integer = 10 // z
			return x
		end
	`)
	fn := mod.Functions[0]
	PropagateConstants(fn)

	// z is tracked as the constant 0 by the time x is computed, so the
	// divisor is substituted with a literal zero; the fold must still be
	// refused, and // must remain a BinOp rather than an Assign.
	var sawDivBinOp bool
	for _, c := range fn.Body {
		if b, ok := c.(*ir.BinOp); ok && b.Op == "//" {
			sawDivBinOp = true
		}
	}
	if !sawDivBinOp {
		t.Fatalf("expected the integer division to remain a BinOp, body: %+v", fn.Body)
	}
}

func findReturn(cmds []ir.Command) *ir.Return {
	for _, c := range cmds {
		if r, ok := c.(*ir.Return); ok {
			return r
		}
	}
	return nil
}

func TestConstantPropagationInvalidatesLocalReassignedInAnIfBranch(t *testing.T) {
	mod := lowerSource(t, `
		function f(n: integer): integer
			local x: integer = 1
			if n > 0 then
				x = 2
			end
			return x
		end
	`)
	fn := mod.Functions[0]
	PropagateConstants(fn)

	ret := findReturn(fn.Body)
	if ret == nil {
		t.Fatalf("expected a Return command, body: %+v", fn.Body)
	}
	if ret.Values[0].IsLiteral() {
		t.Fatalf("expected \"return x\" to keep reading the local, not a stale pre-branch constant, got %+v", ret.Values[0])
	}
}

func TestConstantPropagationInvalidatesLocalReassignedInALoopBody(t *testing.T) {
	mod := lowerSource(t, `
		function f(n: integer): integer
			local x: integer = 1
			while n > 0 do
				x = x + 1
				n = n - 1
			end
			return x
		end
	`)
	fn := mod.Functions[0]
	PropagateConstants(fn)

	ret := findReturn(fn.Body)
	if ret == nil {
		t.Fatalf("expected a Return command, body: %+v", fn.Body)
	}
	if ret.Values[0].IsLiteral() {
		t.Fatalf("expected \"return x\" after the loop to keep reading the local, not a stale pre-loop constant, got %+v", ret.Values[0])
	}
}

func TestConstantPropagationSubstitutesIntoLaterUse(t *testing.T) {
	mod := lowerSource(t, `
		function f(): integer
			local a: integer = 7
			local b: integer = a + 1
			return b
		end
	`)
	fn := mod.Functions[0]
	PropagateConstants(fn)

	for _, c := range fn.Body {
		if b, ok := c.(*ir.BinOp); ok {
			t.Fatalf("expected a + 1 to fold once a is known constant, found %+v", b)
		}
	}
}
