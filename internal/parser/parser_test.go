package parser

import (
	"strings"
	"testing"

	"github.com/pallene-lang/pallenec/internal/ast"
)

func parseSrc(t *testing.T, src string) (*Parser, []string) {
	t.Helper()
	p := New("t.pln", src)
	p.ParseProgram()
	msgs := make([]string, len(p.Errors()))
	for i, e := range p.Errors() {
		msgs[i] = e.Message
	}
	return p, msgs
}

func TestValidProgramParsesWithoutErrors(t *testing.T) {
	src := "export function add(x: integer, y: integer): integer\n\treturn x + y\nend\n"
	_, errs := parseSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestBreakOutsideLoopIsReported(t *testing.T) {
	src := "function f()\n\tbreak\nend\n"
	_, errs := parseSrc(t, src)
	if len(errs) != 1 || errs[0] != "break statement outside loop" {
		t.Fatalf("got %v, want exactly [\"break statement outside loop\"]", errs)
	}
}

func TestBreakInsideLoopIsAccepted(t *testing.T) {
	src := "function f()\n\twhile true do\n\t\tbreak\n\tend\nend\n"
	_, errs := parseSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestMissingEndOnFunctionReportsTheExactLabel(t *testing.T) {
	src := "function f()\n\treturn 1\n"
	_, errs := parseSrc(t, src)
	found := false
	for _, m := range errs {
		if m == "Expected `end` to close the function body." {
			found = true
		}
	}
	if !found {
		t.Fatalf("got %v, want a message containing \"Expected `end` to close the function body.\"", errs)
	}
}

// TestSpanCoverageIsExactForFlatExpressions exercises this span
// property on a shape simple enough to check by hand: a single top-level
// function declaration's Pos()/End() should bound exactly the source.
func TestSpanCoverageIsExactForFlatExpressions(t *testing.T) {
	src := "function f() end"
	p := New("t.pln", src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Toplevels) != 1 {
		t.Fatalf("expected one toplevel decl, got %d", len(prog.Toplevels))
	}
	fn, ok := prog.Toplevels[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Toplevels[0])
	}
	if fn.Pos().Offset != 0 {
		t.Errorf("expected start offset 0, got %d", fn.Pos().Offset)
	}
	if fn.End().Offset != len(src) {
		t.Errorf("expected end offset %d, got %d", len(src), fn.End().Offset)
	}
}

func TestAssignToNonLvalueIsRejected(t *testing.T) {
	src := "function f()\n\t1 = 2\nend\n"
	_, errs := parseSrc(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error assigning to a non-lvalue")
	}
}

func TestImportDeclParsesNameAndOptionalAlias(t *testing.T) {
	src := "import mathlib\nimport strlib as s\nfunction f() end\n"
	p := New("t.pln", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	want := [][2]string{{"mathlib", "mathlib"}, {"strlib", "s"}}
	for i, w := range want {
		d, ok := prog.Toplevels[i].(*ast.ImportDecl)
		if !ok || d.Name != w[0] || d.Alias != w[1] {
			t.Errorf("toplevel %d: expected import %s as %s, got %#v", i, w[0], w[1], prog.Toplevels[i])
		}
	}
}

func TestRecordDeclarationParsesFieldsInOrder(t *testing.T) {
	src := "record Point\n\tx: integer\n\ty: integer\nend\nfunction f() end\n"
	p := New("t.pln", src)
	prog := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	d, ok := prog.Toplevels[0].(*ast.RecordDecl)
	if !ok || len(d.Fields) != 2 || d.Fields[0].Name != "x" || d.Fields[1].Name != "y" {
		t.Fatalf("expected record Point with fields x, y in order, got %#v", prog.Toplevels[0])
	}
}

func TestLabelCatalogMessagesDoNotContainInternalLabelNames(t *testing.T) {
	for label, msg := range catalog {
		if strings.Contains(msg, string(label)) {
			t.Errorf("message for label %q leaks its own internal name: %q", label, msg)
		}
	}
}
