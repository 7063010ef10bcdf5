package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveTerminalDefaultsToSharedObject(t *testing.T) {
	end, lua, err := resolveTerminal(Options{})
	if err != nil || lua || end != stageSo {
		t.Fatalf("got (%v, %v, %v), want (stageSo, false, nil)", end, lua, err)
	}
}

func TestResolveTerminalConflictingFlagsReportBothNames(t *testing.T) {
	_, _, err := resolveTerminal(Options{EmitC: true, EmitAsm: true})
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	want := "option '--emit-asm' can not be used together with option '--emit-c'"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestModuleNameFoldsSlashesToUnderscores(t *testing.T) {
	if got := moduleName("lib/math"); got != "lib_math" {
		t.Errorf("got %q, want %q", got, "lib_math")
	}
}

func TestValidateBaseRejectsDisallowedCharacters(t *testing.T) {
	if err := validateBase("ok_name-123"); err == nil {
		t.Error("expected a hyphen to be rejected")
	}
	if err := validateBase("lib/math_v2"); err != nil {
		t.Errorf("expected a valid base name to pass, got %v", err)
	}
}

func TestCompileEmitLuaProducesByteExactTranslation(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "gcd.pln")
	src := "export function gcd(a: integer, b: integer): integer\n" +
		"\tif b == 0 then\n\t\treturn a\n\telse\n\t\treturn gcd(b, a % b)\n\tend\nend\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Compile(input, Options{EmitLua: true}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "gcd.lua"))
	if err != nil {
		t.Fatalf("expected gcd.lua to be written: %v", err)
	}
	if !strings.Contains(string(out), "local  function gcd") {
		t.Errorf("expected the export keyword rewritten, got %q", out)
	}
	if !strings.HasSuffix(string(out), "return {\n    gcd = gcd,\n}\n") {
		t.Errorf("expected a synthesized export table, got %q", out)
	}
}

func TestCompileEmitCWritesGeneratedSource(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "add.pln")
	src := "export function add(x: integer, y: integer): integer\n\treturn x + y\nend\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Compile(input, Options{EmitC: true}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "add.c"))
	if err != nil {
		t.Fatalf("expected add.c to be written: %v", err)
	}
	if !strings.Contains(string(out), "_add_add(") {
		t.Errorf("expected a generated function named <module>_add, got %q", out)
	}
}

func TestCompileStopAfterCheckProducesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "f.pln")
	src := "function f(): integer\n\treturn 1\nend\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Compile(input, Options{EmitC: true, StopAfter: "check"}); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "f.c")); err == nil {
		t.Error("expected no .c output when stopping after check")
	}
}

func TestCompileReportsCheckerDiagnosticsInCompactFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.pln")
	src := "function f(): NotAType\n\treturn 1\nend\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	err := Compile(input, Options{EmitC: true})
	if err == nil {
		t.Fatal("expected a type error")
	}
	if !strings.Contains(err.Error(), "bad.pln:") {
		t.Errorf("expected the compact wire format to name the file, got %q", err.Error())
	}
}
