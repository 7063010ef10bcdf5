package checker

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/token"
	"github.com/pallene-lang/pallenec/internal/types"
)

// Importer resolves the Table-typed binding an "import" toplevel
// introduces. The driver supplies a search-path-backed implementation
// that recursively checks the imported module and reports a diagnostic
// on an import cycle; a nil Importer (used by standalone tests) gives
// every import a table type with no fields.
type Importer interface {
	Resolve(name string) (*types.Type, error)
}

// Checker resolves names and types over one parsed Program. Create one
// per compilation unit with New and discard after Check returns.
type Checker struct {
	errs   cerr.List
	global *Scope

	typealiases map[string]*types.Type
	typealiasAt map[string]token.Position
	records     map[string]*types.Type
	recordAt    map[string]token.Position

	importer Importer
}

// New creates a Checker. importer may be nil.
func New(importer Importer) *Checker {
	return &Checker{
		global:      newScope(nil),
		typealiases: make(map[string]*types.Type),
		typealiasAt: make(map[string]token.Position),
		records:     make(map[string]*types.Type),
		recordAt:    make(map[string]token.Position),
		importer:    importer,
	}
}

// Check runs name resolution and type checking over prog, annotating
// every ast.Exp's type slot in place, and returns accumulated
// diagnostics in source order. The program should not be used for
// further compilation (lowering) when the returned slice is non-empty.
func Check(prog *ast.Program, importer Importer) []*cerr.Error {
	c := New(importer)
	c.checkProgram(prog)
	return c.errs.Sorted()
}

func (c *Checker) checkProgram(prog *ast.Program) {
	c.collectTypeDecls(prog)
	c.collectToplevelSignatures(prog)

	for _, tl := range prog.Toplevels {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			c.checkFuncBody(d)
		case *ast.TopVarDecl:
			c.checkTopVarInit(d)
		}
	}
}

// collectTypeDecls resolves every typealias and record declared at
// toplevel before any function body is checked, so forward references
// (a function using a type declared later in the file) work. Typealias
// cycles are rejected closed type lattice invariant.
func (c *Checker) collectTypeDecls(prog *ast.Program) {
	rawAliases := make(map[string]ast.TypeExpr)
	for _, tl := range prog.Toplevels {
		switch d := tl.(type) {
		case *ast.TypealiasDecl:
			if _, exists := rawAliases[d.Name]; exists {
				c.errorf(d.Pos(), cerr.KindName, "typealias '%s' already declared", d.Name)
				continue
			}
			rawAliases[d.Name] = d.TypeExpr
			c.typealiasAt[d.Name] = d.Pos()
		case *ast.RecordDecl:
			if _, exists := c.records[d.Name]; exists {
				c.errorf(d.Pos(), cerr.KindName, "record '%s' already declared", d.Name)
				continue
			}
			// Register the record shell first so self-referential and
			// mutually-referential record fields resolve to the same
			// nominal *types.Type pointer once fields are filled in.
			c.records[d.Name] = types.NewRecordType(d.Name, nil, nil)
			c.recordAt[d.Name] = d.Pos()
		}
	}

	resolving := make(map[string]bool)
	var resolveAlias func(name string) *types.Type
	resolveAlias = func(name string) *types.Type {
		if t, ok := c.typealiases[name]; ok {
			return t
		}
		raw, ok := rawAliases[name]
		if !ok {
			return nil
		}
		if resolving[name] {
			c.errorf(c.typealiasAt[name], cerr.KindType, "typealias '%s' is defined in terms of itself", name)
			c.typealiases[name] = types.ANY
			return types.ANY
		}
		resolving[name] = true
		resolved := c.resolveTypeExprNamed(raw, resolveAlias)
		resolving[name] = false
		c.typealiases[name] = resolved
		return resolved
	}
	for name := range rawAliases {
		resolveAlias(name)
	}

	for _, tl := range prog.Toplevels {
		d, ok := tl.(*ast.RecordDecl)
		if !ok {
			continue
		}
		rec := c.records[d.Name]
		var order []string
		fields := make(map[string]*types.Type)
		for _, f := range d.Fields {
			order = append(order, f.Name)
			fields[f.Name] = c.resolveTypeExpr(f.TypeExpr)
		}
		rec.FieldOrder = order
		rec.RecordFields = fields
	}
}

func (c *Checker) collectToplevelSignatures(prog *ast.Program) {
	for _, tl := range prog.Toplevels {
		switch d := tl.(type) {
		case *ast.FuncDecl:
			sig := c.funcDeclType(d)
			if !c.global.Define(d.Name, sig, true) {
				c.errorf(d.Pos(), cerr.KindName, "'%s' is already declared", d.Name)
			}
		case *ast.TopVarDecl:
			var typ *types.Type
			if d.TypeExpr != nil {
				typ = c.resolveTypeExpr(d.TypeExpr)
			} else {
				typ = types.ANY
			}
			if !c.global.Define(d.Name, typ, false) {
				c.errorf(d.Pos(), cerr.KindName, "'%s' is already declared", d.Name)
			}
		case *ast.ImportDecl:
			typ := c.resolveImport(d)
			if !c.global.Define(d.Alias, typ, true) {
				c.errorf(d.Pos(), cerr.KindName, "'%s' is already declared", d.Alias)
			}
		}
	}
}

func (c *Checker) resolveImport(d *ast.ImportDecl) *types.Type {
	if c.importer == nil {
		return types.NewTableType(nil, nil)
	}
	typ, err := c.importer.Resolve(d.Name)
	if err != nil {
		c.errorf(d.Pos(), cerr.KindName, "cannot import '%s': %s", d.Name, err.Error())
		return types.ANY
	}
	return typ
}

func (c *Checker) funcDeclType(d *ast.FuncDecl) *types.Type {
	params := make([]*types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.resolveTypeExpr(p.TypeExpr)
	}
	rets := make([]*types.Type, len(d.RetTypes))
	for i, r := range d.RetTypes {
		rets[i] = c.resolveTypeExpr(r)
	}
	return types.NewFunctionType(params, rets)
}

// resolveTypeExpr resolves a syntactic type annotation to a types.Type,
// reporting a name error for an unknown TypeName and substituting any
// to keep checking the rest of the declaration.
func (c *Checker) resolveTypeExpr(te ast.TypeExpr) *types.Type {
	return c.resolveTypeExprNamed(te, func(name string) *types.Type {
		if t, ok := c.typealiases[name]; ok {
			return t
		}
		return nil
	})
}

func (c *Checker) resolveTypeExprNamed(te ast.TypeExpr, lookupAlias func(string) *types.Type) *types.Type {
	switch t := te.(type) {
	case *ast.TypeName:
		switch t.Name {
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
		case "any":
			return types.ANY
		}
		if rec, ok := c.records[t.Name]; ok {
			return rec
		}
		if alias := lookupAlias(t.Name); alias != nil {
			return alias
		}
		c.errorf(t.Pos(), cerr.KindName, "unknown type '%s'", t.Name)
		return types.ANY
	case *ast.TypeArray:
		return types.NewArrayType(c.resolveTypeExprNamed(t.Elem, lookupAlias))
	case *ast.TypeTable:
		fields := make(map[string]*types.Type, len(t.Names))
		for i, n := range t.Names {
			fields[n] = c.resolveTypeExprNamed(t.Types[i], lookupAlias)
		}
		return types.NewTableType(append([]string(nil), t.Names...), fields)
	case *ast.TypeFunction:
		params := make([]*types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveTypeExprNamed(p, lookupAlias)
		}
		rets := make([]*types.Type, len(t.Rets))
		for i, r := range t.Rets {
			rets[i] = c.resolveTypeExprNamed(r, lookupAlias)
		}
		return types.NewFunctionType(params, rets)
	}
	return types.ANY
}

func (c *Checker) errorf(pos token.Position, kind cerr.Kind, format string, args ...any) {
	c.errs.Add(pos, kind, format, args...)
}
