package translator

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/pallene-lang/pallenec/internal/checker"
	"github.com/pallene-lang/pallenec/internal/parser"
)

func translate(t *testing.T, src string) string {
	t.Helper()
	p := parser.New("t.pln", src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if errs := checker.Check(prog, nil); len(errs) != 0 {
		t.Fatalf("check errors: %v", errs)
	}
	return Translate(src, prog)
}

func TestLocalVarTypeAnnotationIsBlankedWithSpaces(t *testing.T) {
	src := "local xs: integer = 10\n"
	got := translate(t, src)
	want := "local xs          = 10\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExportIsRewrittenToLocalAndSynthesizesExportTable(t *testing.T) {
	src := "export function f() end\n"
	got := translate(t, src)
	if !strings.Contains(got, "local  function f() end") {
		t.Errorf("expected %q to contain the rewritten declaration, got %q", src, got)
	}
	want := "return {\n    f = f,\n}\n"
	if !strings.HasSuffix(got, want) {
		t.Errorf("expected export table suffix %q, got %q", want, got)
	}
}

func TestNoExportsProducesNoTrailingTable(t *testing.T) {
	src := "function f() end\n"
	got := translate(t, src)
	if got != src {
		t.Errorf("got %q, want unchanged %q", got, src)
	}
}

func TestCastStripsAsAndType(t *testing.T) {
	src := "function f(): float\n\treturn 1 as float\nend\n"
	got := translate(t, src)
	if strings.Contains(got, "as float") {
		t.Errorf("expected the cast to be stripped, got %q", got)
	}
	if len(got) != len(src) {
		t.Errorf("translation must preserve byte length, got %d want %d", len(got), len(src))
	}
}

func TestTypealiasDeclarationIsStrippedEntirely(t *testing.T) {
	src := "typealias Point = {x: integer, y: integer}\nfunction f() end\n"
	got := translate(t, src)
	if strings.Contains(got, "typealias") || strings.Contains(got, "Point") {
		t.Errorf("expected the typealias declaration to be fully blanked, got %q", got)
	}
}

func TestRecordDeclarationIsStrippedEntirely(t *testing.T) {
	src := "record Point x: integer y: integer end\nfunction f() end\n"
	got := translate(t, src)
	if strings.Contains(got, "record") || strings.Contains(got, "Point") {
		t.Errorf("expected the record declaration to be fully blanked, got %q", got)
	}
}

func TestEveryNonStrippedByteIsUnchanged(t *testing.T) {
	src := "function add(x: integer, y: integer): integer\n\treturn x + y\nend\n"
	got := translate(t, src)
	if len(got) != len(src) {
		t.Fatalf("length changed: got %d want %d", len(got), len(src))
	}
	if !strings.Contains(got, "function add(") || !strings.Contains(got, "return x + y") {
		t.Errorf("expected surrounding syntax untouched, got %q", got)
	}
}

// A param-less, non-exported function strips down to source that is
// still valid Pallene (unlike "export", which rewrites to the
// Lua-only "local function" form this compiler's own grammar does not
// re-accept as a toplevel declaration), so this is the one shape that
// can demonstrate the fixed-point property by re-parsing with the same
// parser rather than a separate host-language one.
func TestTranslateIsIdempotentOnItsOwnOutput(t *testing.T) {
	src := "function f()\n\tlocal x: integer = 1 as integer\nend\n"
	first := translate(t, src)

	p := parser.New("t2.pln", first)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("re-parsing translator output failed: %v", errs)
	}
	second := Translate(first, prog)
	if second != first {
		t.Errorf("translate(translate(src)) != translate(src):\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestGcdTranslationSnapshot(t *testing.T) {
	src := "export function gcd(a: integer, b: integer): integer\n" +
		"\tif b == 0 then\n\t\treturn a\n\telse\n\t\treturn gcd(b, a % b)\n\tend\nend\n"
	snaps.MatchSnapshot(t, translate(t, src))
}
