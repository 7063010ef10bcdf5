// Package lowering translates a checked AST (every ast.Exp already
// carrying its resolved type from internal/checker) into the structured
// internal/ir form: numeric "for" is specialized by static
// int/float type, short-circuit "and"/"or" are flattened into an If that
// writes a boolean local, every compound subexpression is flattened into
// a fresh temporary, and implicit casts become explicit Convert commands.
package lowering

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/token"
	"github.com/pallene-lang/pallenec/internal/types"
)

// Lower builds an ir.Module from a checked Program. Callers must run
// internal/checker.Check first and confirm it reported no errors —
// Lower does not itself validate types.
func Lower(moduleName string, prog *ast.Program) *ir.Module {
	mod := &ir.Module{Name: moduleName}

	globals := make(map[string]ir.Local)
	funcNames := make(map[string]bool)
	for _, tl := range prog.Toplevels {
		switch d := tl.(type) {
		case *ast.TopVarDecl:
			globals[d.Name] = ir.Local(len(mod.Globals))
			var typ *types.Type
			if d.Init != nil {
				typ = d.Init.ExpType()
			} else {
				typ = exprTypeOf(d.TypeExpr)
			}
			mod.Globals = append(mod.Globals, ir.LocalInfo{Name: d.Name, Type: typ})
		case *ast.FuncDecl:
			funcNames[d.Name] = true
		}
	}

	for _, tl := range prog.Toplevels {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			mod.Functions = append(mod.Functions, lowerFunc(d, globals, funcNames))
		case *ast.TopVarDecl:
			lowerGlobalInit(mod, d, globals, funcNames)
		}
	}
	return mod
}

// funcBuilder accumulates one Function's locals and emits commands into
// the current innermost block while lowering its body. body points at
// whichever command slice is currently open (the function's top level,
// or a nested If/Loop branch being built), so lowerExp's temp-flattening
// can emit supporting commands without every lowering method threading a
// destination slice through its signature.
type funcBuilder struct {
	fn        *ir.Function
	globals   map[string]ir.Local
	funcNames map[string]bool
	scopes    []map[string]ir.Local
	body      *[]ir.Command
	tempNum   int
	loopDepth int
	curPos    token.Position
}

func newFuncBuilder(name string, exported bool, rets []*types.Type, globals map[string]ir.Local, funcNames map[string]bool) *funcBuilder {
	return &funcBuilder{
		fn:        &ir.Function{Name: name, Exported: exported, Rets: rets},
		globals:   globals,
		funcNames: funcNames,
		scopes:    []map[string]ir.Local{{}},
	}
}

func (b *funcBuilder) pushScope() { b.scopes = append(b.scopes, map[string]ir.Local{}) }
func (b *funcBuilder) popScope()  { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *funcBuilder) emit(cmd ir.Command) {
	if p, ok := cmd.(interface{ SetPos(token.Position) }); ok {
		p.SetPos(b.curPos)
	}
	*b.body = append(*b.body, cmd)
}

func (b *funcBuilder) declareNamed(name string, typ *types.Type) ir.Local {
	l := ir.Local(len(b.fn.Locals))
	b.fn.Locals = append(b.fn.Locals, ir.LocalInfo{Name: name, Type: typ})
	b.scopes[len(b.scopes)-1][name] = l
	return l
}

func (b *funcBuilder) newTemp(typ *types.Type) ir.Local {
	b.tempNum++
	l := ir.Local(len(b.fn.Locals))
	b.fn.Locals = append(b.fn.Locals, ir.LocalInfo{Type: typ})
	return l
}

func (b *funcBuilder) resolve(name string) (ir.Local, bool) {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if l, ok := b.scopes[i][name]; ok {
			return l, true
		}
	}
	return 0, false
}

// lowerBlock lowers stats into a fresh command slice under a new lexical
// scope, temporarily redirecting b.body so nested emit calls land there.
func (b *funcBuilder) lowerBlock(stats []ast.Stat) []ir.Command {
	b.pushScope()
	defer b.popScope()
	var cmds []ir.Command
	saved := b.body
	b.body = &cmds
	for _, s := range stats {
		b.lowerStat(s)
	}
	b.body = saved
	return cmds
}

func lowerFunc(d *ast.FuncDecl, globals map[string]ir.Local, funcNames map[string]bool) *ir.Function {
	rets := make([]*types.Type, len(d.RetTypes))
	for i, r := range d.RetTypes {
		rets[i] = exprTypeOf(r)
	}
	b := newFuncBuilder(d.Name, d.Export, rets, globals, funcNames)
	for _, p := range d.Params {
		b.declareNamed(p.Name, exprTypeOf(p.TypeExpr))
	}
	b.fn.Params = len(d.Params)
	b.fn.Body = b.lowerBlock(d.Body)
	return b.fn
}

// exprTypeOf recovers a types.Type from a syntactic TypeExpr when the
// checker's resolved type isn't otherwise reachable at this point (a
// parameter's type is not carried on any ast.Exp node). This duplicates
// a small slice of the checker's own name resolution logic for
// primitives and falls back to types.ANY for anything structural, since
// a structural parameter type is always re-derivable from the function's
// already-checked call sites during codegen if ever needed precisely.
func exprTypeOf(te ast.TypeExpr) *types.Type {
	tn, ok := te.(*ast.TypeName)
	if !ok {
		return types.ANY
	}
	switch tn.Name {
	case "nil":
		return types.NIL
	case "boolean":
		return types.BOOLEAN
	case "integer":
		return types.INTEGER
	case "float":
		return types.FLOAT
	case "string":
		return types.STRING
	default:
		return types.ANY
	}
}

// lowerGlobalInit lowers a toplevel variable's initializer, if any, into
// mod.GlobalInit. The initializer runs in its own scratch funcBuilder
// whose locals feed only temporaries (the global itself already has its
// slot reserved in mod.Globals by Lower's first pass), so multiple
// initializers never collide on temp numbering.
func lowerGlobalInit(mod *ir.Module, d *ast.TopVarDecl, globals map[string]ir.Local, funcNames map[string]bool) {
	if d.Init == nil {
		return
	}
	dst := globals[d.Name]
	b := newFuncBuilder("$init", false, nil, globals, funcNames)
	var cmds []ir.Command
	b.body = &cmds
	b.lowerExpTo(d.Init, dst)
	mod.GlobalInit = append(mod.GlobalInit, cmds...)
}
