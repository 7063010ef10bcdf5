package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetFlags() {
	flagEmitC, flagEmitAsm, flagEmitLua, flagCompileC = false, false, false, false
	flagOutput, flagCC, flagStop = "", "", ""
	flagPasses = nil
	flagVerbose = false
}

func TestConflictingEmitFlagsReportBothNames(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	input := filepath.Join(dir, "f.pln")
	if err := os.WriteFile(input, []byte("function f() end\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flagEmitC, flagEmitAsm = true, true
	err := runCompile(rootCmd, []string{input})
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	want := "option '--emit-asm' can not be used together with option '--emit-c'"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestEmitLuaFlagProducesTranslatedOutput(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	input := filepath.Join(dir, "f.pln")
	if err := os.WriteFile(input, []byte("export function f() end\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flagEmitLua = true
	if err := runCompile(rootCmd, []string{input}); err != nil {
		t.Fatalf("runCompile: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "f.lua"))
	if err != nil {
		t.Fatalf("expected f.lua to be written: %v", err)
	}
	if !strings.Contains(string(out), "local  function f() end") {
		t.Errorf("expected the export rewrite, got %q", out)
	}
}

func TestPassSelectionDisablesConstantPropagation(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	input := filepath.Join(dir, "f.pln")
	src := "export function f(): integer\n\treturn 2 + 3\nend\n"
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	flagEmitC = true
	flagStop = "optimize"
	flagPasses = []string{"uninitialized"}
	if err := runCompile(rootCmd, []string{input}); err != nil {
		t.Fatalf("runCompile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "f.c")); err == nil {
		t.Error("expected no .c output when stopping after optimize")
	}
}
