package checker

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/types"
)

func (c *Checker) checkFuncBody(d *ast.FuncDecl) {
	scope := newScope(c.global)
	sig, ok := c.global.Resolve(d.Name)
	var rets []*types.Type
	if ok {
		rets = sig.Type.Rets
	}
	for i, p := range d.Params {
		pt := c.resolveTypeExpr(p.TypeExpr)
		if !scope.Define(p.Name, pt, false) {
			c.errorf(d.Pos(), cerr.KindName, "parameter '%s' declared more than once", p.Name)
		}
		_ = i
	}
	c.checkStatList(scope, d.Body, rets)
}

func (c *Checker) checkTopVarInit(d *ast.TopVarDecl) {
	if d.Init == nil {
		return
	}
	sym, _ := c.global.Resolve(d.Name)
	var ctx *types.Type
	if sym != nil {
		ctx = sym.Type
	}
	initType := c.checkExp(c.global, d.Init, ctx)
	if ctx != nil && d.TypeExpr != nil && initType != nil && !initType.Equals(ctx) && ctx.Kind != types.KindAny && initType.Kind != types.KindAny {
		c.errorf(d.Init.Pos(), cerr.KindType, "variable '%s': expected %s, found %s", d.Name, ctx, initType)
	}
}

// checkStatList checks every statement of a body in the scope it is
// given (callers create the child scope), threading rets through so nested return statements
// can be checked against the enclosing function's declared result types.
func (c *Checker) checkStatList(scope *Scope, stats []ast.Stat, rets []*types.Type) {
	for _, s := range stats {
		c.checkStat(scope, s, rets)
	}
}

func (c *Checker) checkStat(scope *Scope, stat ast.Stat, rets []*types.Type) {
	switch s := stat.(type) {
	case *ast.DeclStat:
		c.checkDeclStat(scope, s)
	case *ast.AssignStat:
		c.checkAssignStat(scope, s)
	case *ast.IfStat:
		c.checkExp(scope, s.Cond, nil)
		c.checkBlockInScope(scope, s.Then, rets)
		if s.Else != nil {
			c.checkStat(scope, s.Else, rets)
		}
	case *ast.WhileStat:
		c.checkExp(scope, s.Cond, nil)
		c.checkBlockInScope(scope, s.Body, rets)
	case *ast.RepeatStat:
		// "repeat ... until cond" checks cond in the body's own scope,
		// since Pallene (like Lua) lets the condition see locals
		// declared in the loop body.
		inner := newScope(scope)
		c.checkStatList(inner, s.Body.Stats, rets)
		c.checkExp(inner, s.Cond, nil)
	case *ast.ForStat:
		c.checkForStat(scope, s, rets)
	case *ast.BreakStat:
		// loop-nesting is already validated by the parser.
	case *ast.ReturnStat:
		c.checkReturnStat(scope, s, rets)
	case *ast.CallStat:
		c.checkExp(scope, s.Call, nil)
	case *ast.Block:
		c.checkBlockInScope(scope, s, rets)
	}
}

func (c *Checker) checkBlockInScope(scope *Scope, b *ast.Block, rets []*types.Type) {
	inner := newScope(scope)
	c.checkStatList(inner, b.Stats, rets)
}

func (c *Checker) checkDeclStat(scope *Scope, s *ast.DeclStat) {
	var declared *types.Type
	if s.TypeExpr != nil {
		declared = c.resolveTypeExpr(s.TypeExpr)
	}
	var initType *types.Type
	if s.Init != nil {
		initType = c.checkExp(scope, s.Init, declared)
	}
	finalType := declared
	if finalType == nil {
		finalType = initType
	}
	if finalType == nil {
		finalType = types.ANY
	}
	if declared != nil && initType != nil && !initType.Equals(declared) && declared.Kind != types.KindAny && initType.Kind != types.KindAny {
		c.errorf(s.Init.Pos(), cerr.KindType, "local '%s': expected %s, found %s", s.Name, declared, initType)
	}
	if !scope.Define(s.Name, finalType, false) {
		c.errorf(s.Pos(), cerr.KindName, "'%s' is already declared in this scope", s.Name)
	}
}

func (c *Checker) checkAssignStat(scope *Scope, s *ast.AssignStat) {
	lhsTypes := make([]*types.Type, len(s.Lhs))
	for i, v := range s.Lhs {
		lhsTypes[i] = c.checkExp(scope, v, nil)
		if nv, ok := v.(*ast.NameVar); ok {
			if sym, found := scope.Resolve(nv.Name); found && sym.ReadOnly {
				c.errorf(v.Pos(), cerr.KindType, "cannot assign to '%s': it is not a mutable variable", nv.Name)
			}
		}
	}
	for i, rhs := range s.Rhs {
		var ctx *types.Type
		if i < len(lhsTypes) {
			ctx = lhsTypes[i]
		}
		rhsType := c.checkExp(scope, rhs, ctx)
		if i < len(lhsTypes) && lhsTypes[i] != nil && rhsType != nil &&
			!rhsType.Equals(lhsTypes[i]) && lhsTypes[i].Kind != types.KindAny && rhsType.Kind != types.KindAny {
			c.errorf(rhs.Pos(), cerr.KindType, "assignment %d: expected %s, found %s", i+1, lhsTypes[i], rhsType)
		}
	}
}

func (c *Checker) checkForStat(scope *Scope, s *ast.ForStat, rets []*types.Type) {
	startType := types.Expand(c.checkExp(scope, s.Start, nil))
	limitType := types.Expand(c.checkExp(scope, s.Limit, nil))
	var stepType *types.Type
	if s.Step != nil {
		stepType = types.Expand(c.checkExp(scope, s.Step, nil))
	}

	// The loop variable's kind follows this numeric-for
	// specialization: integer if every bound is a static integer, float
	// if any bound is float, else integer. An "any"-typed bound leaves
	// the variable integer; no runtime check is added for it here or in
	// lowering.
	loopType := types.INTEGER
	if startType != nil && startType.Kind == types.KindFloat ||
		limitType != nil && limitType.Kind == types.KindFloat ||
		stepType != nil && stepType.Kind == types.KindFloat {
		loopType = types.FLOAT
	}
	for _, t := range []*types.Type{startType, limitType, stepType} {
		if t != nil && !types.IsNumeric(t) && t.Kind != types.KindAny {
			c.errorf(s.Pos(), cerr.KindType, "'for' bounds must be numeric, found %s", t)
		}
	}

	inner := newScope(scope)
	inner.Define(s.Var, loopType, true)
	c.checkStatList(inner, s.Body.Stats, rets)
}

func (c *Checker) checkReturnStat(scope *Scope, s *ast.ReturnStat, rets []*types.Type) {
	if len(s.Values) != len(rets) {
		c.errorf(s.Pos(), cerr.KindType, "function returns %d value(s), 'return' provides %d", len(rets), len(s.Values))
	}
	for i, v := range s.Values {
		var ctx *types.Type
		if i < len(rets) {
			ctx = rets[i]
		}
		vt := c.checkExp(scope, v, ctx)
		if i < len(rets) && rets[i] != nil && vt != nil && !vt.Equals(rets[i]) && rets[i].Kind != types.KindAny && vt.Kind != types.KindAny {
			c.errorf(v.Pos(), cerr.KindType, "return value %d: expected %s, found %s", i+1, rets[i], vt)
		}
	}
}
