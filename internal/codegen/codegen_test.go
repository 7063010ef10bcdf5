package codegen

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/pallene-lang/pallenec/internal/checker"
	"github.com/pallene-lang/pallenec/internal/lowering"
	"github.com/pallene-lang/pallenec/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	p := parser.New("t.pln", src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if errs := checker.Check(prog, nil); len(errs) != 0 {
		t.Fatalf("check errors: %v", errs)
	}
	mod := lowering.Lower("t", prog)
	out, err := Generate(mod)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func TestGenerateEmitsOneCFunctionPerPalleneFunction(t *testing.T) {
	src := "export function add(x: integer, y: integer): integer\n\treturn x + y\nend\n"
	got := generate(t, src)
	if !strings.Contains(got, "t_add(") {
		t.Errorf("expected a generated function named t_add, got %q", got)
	}
	if !strings.Contains(got, "int64_t") {
		t.Errorf("expected integer params/locals typed int64_t, got %q", got)
	}
}

func TestGenerateTypesLocalsByPalleneType(t *testing.T) {
	src := "function f(s: string, b: boolean, n: float): float\n\tlocal x: float = n\n\treturn x\nend\n"
	got := generate(t, src)
	for _, want := range []string{"pallene_string_t*", "bool", "double"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected generated C to use type %q, got %q", want, got)
		}
	}
}

func TestGenerateStructuredIfIsLiteralCIf(t *testing.T) {
	src := "function f(x: integer): integer\n\tif x > 0 then\n\t\treturn 1\n\telse\n\t\treturn 0\n\tend\nend\n"
	got := generate(t, src)
	if !strings.Contains(got, "if (") || !strings.Contains(got, "} else {") {
		t.Errorf("expected a literal C if/else, got %q", got)
	}
}

func TestGenerateExportedFunctionGetsAPrototype(t *testing.T) {
	src := "export function f(): integer\n\treturn 1\nend\n"
	got := generate(t, src)
	if strings.Count(got, "t_f(") < 2 {
		t.Errorf("expected an extra prototype line for an exported function, got %q", got)
	}
}

func TestGenerateArrayAndRecordOperationsCallRuntimeEntryPoints(t *testing.T) {
	src := "typealias IntArray = {integer}\n" +
		"function f(): IntArray\n" +
		"\tlocal xs: IntArray = {1, 2, 3}\n" +
		"\treturn xs\n" +
		"end\n"
	got := generate(t, src)
	if !strings.Contains(got, "pallene_new_array(") {
		t.Errorf("expected an array literal to allocate via pallene_new_array, got %q", got)
	}
}

func TestGcdCodegenSnapshot(t *testing.T) {
	src := "export function gcd(a: integer, b: integer): integer\n" +
		"\tif b == 0 then\n\t\treturn a\n\telse\n\t\treturn gcd(b, a % b)\n\tend\nend\n"
	snaps.MatchSnapshot(t, generate(t, src))
}
