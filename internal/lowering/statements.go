package lowering

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/types"
)

func (b *funcBuilder) lowerStat(s ast.Stat) {
	b.curPos = s.Pos()
	switch st := s.(type) {
	case *ast.DeclStat:
		b.lowerDeclStat(st)
	case *ast.AssignStat:
		b.lowerAssignStat(st)
	case *ast.IfStat:
		b.lowerIfStat(st)
	case *ast.WhileStat:
		b.lowerWhileStat(st)
	case *ast.RepeatStat:
		b.lowerRepeatStat(st)
	case *ast.ForStat:
		b.lowerForStat(st)
	case *ast.BreakStat:
		b.emit(&ir.Break{})
	case *ast.ReturnStat:
		b.lowerReturnStat(st)
	case *ast.CallStat:
		b.lowerExp(st.Call)
	case *ast.Block:
		for _, inner := range st.Stats {
			b.lowerStat(inner)
		}
	}
}

func (b *funcBuilder) lowerDeclStat(s *ast.DeclStat) {
	resolved := exprTypeOf(s.TypeExpr)
	if s.Init != nil {
		resolved = s.Init.ExpType()
	}
	l := b.declareNamed(s.Name, resolved)
	if s.Init != nil {
		v := b.lowerExp(s.Init)
		b.emit(&ir.Assign{Dst: l, Src: v})
	}
}

func (b *funcBuilder) lowerAssignStat(s *ast.AssignStat) {
	values := make([]ir.Value, len(s.Rhs))
	for i, rhs := range s.Rhs {
		values[i] = b.lowerExp(rhs)
	}
	for i, lhs := range s.Lhs {
		if i < len(values) {
			b.lowerAssignTarget(lhs, values[i])
		}
	}
}

func (b *funcBuilder) lowerIfStat(s *ast.IfStat) {
	cond := b.lowerExp(s.Cond)
	then := b.lowerBlock(s.Then.Stats)
	var elseCmds []ir.Command
	if s.Else != nil {
		switch e := s.Else.(type) {
		case *ast.Block:
			elseCmds = b.lowerBlock(e.Stats)
		case *ast.IfStat:
			b.pushScope()
			var nested []ir.Command
			saved := b.body
			b.body = &nested
			b.lowerIfStat(e)
			b.body = saved
			b.popScope()
			elseCmds = nested
		}
	}
	b.emit(&ir.If{Cond: cond, Then: then, Else: elseCmds})
}

// lowerWhileStat lowers "while cond do body end" into a Loop whose body
// starts with an If that Breaks when cond is false, matching spec
// §4.3's structured-loop strategy (no goto, condition re-evaluated at
// the top of every iteration).
func (b *funcBuilder) lowerWhileStat(s *ast.WhileStat) {
	b.loopDepth++
	var body []ir.Command
	saved := b.body
	b.body = &body
	cond := b.lowerExp(s.Cond)
	b.emit(&ir.If{Cond: cond, Then: nil, Else: []ir.Command{&ir.Break{}}})
	for _, inner := range s.Body.Stats {
		b.lowerStat(inner)
	}
	b.body = saved
	b.loopDepth--
	b.emit(&ir.Loop{Body: body})
}

// lowerRepeatStat lowers "repeat body until cond" into a Loop whose body
// ends with an If that Breaks when cond is true — the condition is
// checked after the body runs at least once, and (per spec) still sees
// the body's own locals, since both live in the same lowered scope.
func (b *funcBuilder) lowerRepeatStat(s *ast.RepeatStat) {
	b.loopDepth++
	var body []ir.Command
	saved := b.body
	b.body = &body
	for _, inner := range s.Body.Stats {
		b.lowerStat(inner)
	}
	cond := b.lowerExp(s.Cond)
	b.emit(&ir.If{Cond: cond, Then: []ir.Command{&ir.Break{}}, Else: nil})
	b.body = saved
	b.loopDepth--
	b.emit(&ir.Loop{Body: body})
}

func (b *funcBuilder) lowerForStat(s *ast.ForStat) {
	start := b.lowerExp(s.Start)
	limit := b.lowerExp(s.Limit)
	var step ir.Value
	if s.Step != nil {
		step = b.lowerExp(s.Step)
	} else {
		step = ir.LiteralValue(int64(1))
	}

	b.pushScope()
	loopVarType := s.Start.ExpType()
	for _, e := range []ast.Exp{s.Limit, s.Step} {
		if e != nil && e.ExpType() != nil && types.Expand(e.ExpType()).Kind == types.KindFloat {
			loopVarType = types.FLOAT
		}
	}
	loopVar := b.declareNamed(s.Var, loopVarType)

	b.loopDepth++
	body := b.lowerBlock(s.Body.Stats)
	b.loopDepth--
	b.popScope()

	if loopVarType != nil && loopVarType.Kind == types.KindFloat {
		b.emit(&ir.ForNumFloat{Var: loopVar, Start: start, Limit: limit, Step: step, Body: body})
	} else {
		b.emit(&ir.ForNumInt{Var: loopVar, Start: start, Limit: limit, Step: step, Body: body})
	}
}

func (b *funcBuilder) lowerReturnStat(s *ast.ReturnStat) {
	values := make([]ir.Value, len(s.Values))
	for i, v := range s.Values {
		values[i] = b.lowerExp(v)
	}
	b.emit(&ir.Return{Values: values})
}
