package checker

import (
	"testing"

	"github.com/pallene-lang/pallenec/internal/parser"
)

func check(t *testing.T, src string) []string {
	t.Helper()
	p := parser.New("test.pln", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	errs := Check(prog, nil)
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Compact())
	}
	return msgs
}

func TestSimpleFunctionChecksClean(t *testing.T) {
	src := `
function add(x: integer, y: integer): integer
    return x + y
end
`
	if errs := check(t, src); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestUndeclaredNameIsReported(t *testing.T) {
	src := `
function f(): integer
    return y
end
`
	errs := check(t, src)
	if len(errs) == 0 {
		t.Fatalf("expected a name error")
	}
}

func TestMixedArithmeticPromotesToFloat(t *testing.T) {
	src := `
function f(): float
    local x: integer = 1
    local y: float = 2.0
    return x + y
end
`
	if errs := check(t, src); len(errs) != 0 {
		t.Fatalf("expected clean promotion, got %v", errs)
	}
}

func TestDivisionAlwaysReturnsFloat(t *testing.T) {
	src := `
function f(): float
    local x: integer = 4
    local y: integer = 2
    return x / y
end
`
	if errs := check(t, src); len(errs) != 0 {
		t.Fatalf("expected '/' to type as float, got %v", errs)
	}
}

func TestArrayLiteralRequiresContextType(t *testing.T) {
	src := `
function f(): {integer}
    local xs: {integer} = {1, 2, 3}
    return xs
end
`
	if errs := check(t, src); len(errs) != 0 {
		t.Fatalf("expected clean array literal, got %v", errs)
	}
}

func TestTypealiasCycleIsRejected(t *testing.T) {
	src := `
typealias A = B
typealias B = A
function f(): integer
    return 0
end
`
	errs := check(t, src)
	if len(errs) == 0 {
		t.Fatalf("expected a typealias cycle error")
	}
}

func TestRecordFieldAccess(t *testing.T) {
	src := `
record Point
    x: integer
    y: integer
end

function sum(p: Point): integer
    return p.x + p.y
end
`
	if errs := check(t, src); len(errs) != 0 {
		t.Fatalf("expected clean record access, got %v", errs)
	}
}

func TestReturnArityMismatch(t *testing.T) {
	src := `
function f(): integer
    return
end
`
	errs := check(t, src)
	if len(errs) == 0 {
		t.Fatalf("expected a return-arity error")
	}
}

func TestAssignToLoopVariableIsRejected(t *testing.T) {
	src := `
function f(): integer
    local total: integer = 0
    for i = 1, 10 do
        i = 2
    end
    return total
end
`
	errs := check(t, src)
	if len(errs) == 0 {
		t.Fatalf("expected an assignment error for the read-only loop variable")
	}
}
