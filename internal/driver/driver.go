// Package driver implements the compiler's pipeline dispatch: it
// chains the parser, checker, lowering, analysis, and code generator
// stages, then hands off to the host C toolchain via os/exec for the
// .c → .s → .o → .so leg, or to internal/translator for the off-chain
// .pln → .lua branch. Every intermediate file it creates is scoped to one
// Compile call and removed before Compile returns, success or failure.
package driver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pallene-lang/pallenec/internal/analysis"
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/checker"
	"github.com/pallene-lang/pallenec/internal/codegen"
	"github.com/pallene-lang/pallenec/internal/lowering"
	"github.com/pallene-lang/pallenec/internal/parser"
	"github.com/pallene-lang/pallenec/internal/translator"
)

// stage names the points in the .pln → .c → .s → .o → .so chain, in
// order, so a stage index doubles as its position in the chain.
type stage int

const (
	stagePln stage = iota
	stageC
	stageS
	stageO
	stageSo
)

var stageExt = map[stage]string{
	stagePln: "pln",
	stageC:   "c",
	stageS:   "s",
	stageO:   "o",
	stageSo:  "so",
}

var extStage = map[string]stage{
	"pln": stagePln,
	"c":   stageC,
	"s":   stageS,
	"o":   stageO,
	"so":  stageSo,
}

// baseNamePattern constrains the input path sans extension: it becomes
// both the generated C function prefix and (with "/" folded to "_") the
// runtime module name, so it must be safe to use as a C identifier
// fragment.
var baseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_/]+$`)

// Options configures one Compile call, covering the full compiler CLI
// surface plus the --stop-after/--pass developer ergonomics.
type Options struct {
	Output    string // overrides the default next-to-input output path
	CC        string // host C compiler, default "cc"
	EmitC     bool
	EmitAsm   bool
	EmitLua   bool
	CompileC  bool
	StopAfter string           // "", "parse", "check", "lower", "optimize"
	PassOpts  []analysis.Option
	Verbose   bool
	Log       io.Writer // verbose trace destination, default os.Stderr
	// SearchPaths are directories import resolution looks for a
	// "name.pln" file in, in order.
	SearchPaths []string
}

func (o Options) cc() string {
	if o.CC != "" {
		return o.CC
	}
	return "cc"
}

func (o Options) log(format string, args ...any) {
	if !o.Verbose {
		return
	}
	w := o.Log
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// ConflictError reports two emit/compile flags that were both set, in
// this exact wording.
type ConflictError struct {
	First, Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("option '%s' can not be used together with option '%s'", e.Second, e.First)
}

// resolveTerminal picks the flag-requested terminal stage and validates
// that at most one emit/compile flag was given.
func resolveTerminal(opts Options) (stage, bool, error) {
	type choice struct {
		set  bool
		name string
		end  stage
		lua  bool
	}
	choices := []choice{
		{opts.EmitC, "--emit-c", stageC, false},
		{opts.EmitAsm, "--emit-asm", stageS, false},
		{opts.CompileC, "--compile-c", stageSo, false},
		{opts.EmitLua, "--emit-lua", stagePln, true},
	}
	var picked *choice
	for i := range choices {
		if !choices[i].set {
			continue
		}
		if picked != nil {
			return 0, false, &ConflictError{First: picked.name, Second: choices[i].name}
		}
		picked = &choices[i]
	}
	if picked == nil {
		return stageSo, false, nil
	}
	return picked.end, picked.lua, nil
}

// moduleName derives the runtime-visible module name from the input
// path: the base name (path sans extension) with "/" replaced by "_".
func moduleName(base string) string {
	return strings.ReplaceAll(base, "/", "_")
}

func validateBase(base string) error {
	if !baseNamePattern.MatchString(base) {
		return fmt.Errorf("input base name %q must match %s", base, baseNamePattern.String())
	}
	return nil
}

// Compile runs the pipeline for one input file. The extension of
// inputPath picks the starting stage (a .c file can be handed to
// --emit-asm or --compile-c directly, skipping the Pallene front end
// entirely); opts picks the terminal stage.
func Compile(inputPath string, opts Options) error {
	ext := strings.TrimPrefix(filepath.Ext(inputPath), ".")
	start, ok := extStage[ext]
	if !ok {
		return fmt.Errorf("unrecognized input extension %q", ext)
	}
	base := strings.TrimSuffix(inputPath, "."+ext)
	if err := validateBase(filepath.ToSlash(base)); err != nil {
		return &cerr.Error{Kind: cerr.KindIO, Message: err.Error()}
	}

	terminal, lua, err := resolveTerminal(opts)
	if err != nil {
		return err
	}

	if lua {
		if start != stagePln {
			return fmt.Errorf("--emit-lua requires a .pln input, got .%s", ext)
		}
		return compileLua(base, opts)
	}

	if start > terminal {
		return fmt.Errorf("input stage .%s is past the requested terminal stage .%s", stageExt[start], stageExt[terminal])
	}

	tmpDir, err := os.MkdirTemp("", "pallenec-*")
	if err != nil {
		return &cerr.Error{Kind: cerr.KindIO, Message: err.Error()}
	}
	defer os.RemoveAll(tmpDir)

	// pathFor returns where stage s's output belongs: next to the input
	// at the two endpoints of the run (start and terminal), scratch
	// space under tmpDir everywhere in between.
	pathFor := func(s stage) string {
		if s == terminal {
			if opts.Output != "" {
				return opts.Output
			}
			return base + "." + stageExt[s]
		}
		if s == start {
			return inputPath
		}
		return filepath.Join(tmpDir, filepath.Base(base)+"."+stageExt[s])
	}

	cur := pathFor(start)
	for s := start; s < terminal; s++ {
		next := pathFor(s + 1)
		opts.log("pallenec: %s -> %s", stageExt[s], stageExt[s+1])
		if err := runStage(s, cur, next, base, opts); err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func compileLua(base string, opts Options) error {
	inputPath := base + ".pln"
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return &cerr.Error{Kind: cerr.KindIO, Message: err.Error()}
	}
	opts.log("pallenec: pln -> lua")
	prog, errs := parseAndCheck(inputPath, string(src), opts)
	if len(errs) > 0 {
		return errList(errs)
	}
	out := translator.Translate(string(src), prog)
	outPath := opts.Output
	if outPath == "" {
		outPath = base + ".lua"
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return &cerr.Error{Kind: cerr.KindIO, Message: err.Error()}
	}
	return nil
}

// runStage dispatches one link of the chain: pln->c runs the compiler
// front end, the rest shell out to the host C toolchain.
func runStage(from stage, in, out, moduleBase string, opts Options) error {
	switch from {
	case stagePln:
		return compileToC(in, out, moduleBase, opts)
	case stageC:
		return runToolchain(opts, "-S", "-o", out, in)
	case stageS:
		return runToolchain(opts, "-c", "-o", out, in)
	case stageO:
		return runToolchain(opts, "-shared", "-fPIC", "-o", out, in)
	default:
		return fmt.Errorf("driver: no toolchain step from stage %d", from)
	}
}

func compileToC(inputPath, outPath, moduleBase string, opts Options) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return &cerr.Error{Kind: cerr.KindIO, Message: err.Error()}
	}
	prog, errs := parseAndCheck(inputPath, string(src), opts)
	if len(errs) > 0 {
		return errList(errs)
	}
	if opts.StopAfter == "check" {
		return nil
	}

	opts.log("pallenec: lowering")
	mod := lowering.Lower(moduleName(filepath.ToSlash(moduleBase)), prog)
	if opts.StopAfter == "lower" {
		return nil
	}

	opts.log("pallenec: analysis")
	if errs := analysis.Run(mod, opts.PassOpts...); len(errs) > 0 {
		return errList(errs)
	}
	if opts.StopAfter == "optimize" {
		return nil
	}

	opts.log("pallenec: codegen")
	out, err := codegen.Generate(mod)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, []byte(out), 0o644)
}

func parseAndCheck(path, src string, opts Options) (*ast.Program, []*cerr.Error) {
	opts.log("pallenec: parsing %s", path)
	p := parser.New(path, src)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs
	}
	if opts.StopAfter == "parse" {
		return prog, nil
	}

	opts.log("pallenec: checking %s", path)
	imp := newSearchPathImporter(opts.SearchPaths, opts)
	if errs := checker.Check(prog, imp); len(errs) > 0 {
		return nil, errs
	}
	return prog, nil
}

// diagnostics joins accumulated errors into the single error Compile
// returns, one Compact()-formatted line per diagnostic in source order,
// so a caller can print err.Error() directly to stderr.
type diagnostics []*cerr.Error

func (d diagnostics) Error() string {
	lines := make([]string, len(d))
	for i, e := range d {
		lines[i] = e.Compact()
	}
	return strings.Join(lines, "\n")
}

func errList(errs []*cerr.Error) error {
	if len(errs) == 0 {
		return nil
	}
	return diagnostics(errs)
}

func runToolchain(opts Options, args ...string) error {
	opts.log("pallenec: %s %s", opts.cc(), strings.Join(args, " "))
	cmd := exec.Command(opts.cc(), args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &cerr.Error{Kind: cerr.KindToolchain, Message: fmt.Sprintf("%s: %s", err, tail(stderr.String(), 4096))}
	}
	return nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
