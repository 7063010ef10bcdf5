package translator

import "github.com/pallene-lang/pallenec/internal/ast"

// collector walks a checked Program collecting the byte-range edits the
// translator must apply and the names of every toplevel export, in
// declaration order, for the synthesized export table.
type collector struct {
	edits   []edit
	exports []string
}

func (c *collector) blank(start, end int) {
	if end > start {
		c.edits = append(c.edits, edit{start: start, end: end})
	}
}

func (c *collector) rewriteExport(pos int) {
	c.edits = append(c.edits, edit{start: pos, end: pos + len("export"), literal: "local "})
}

func (c *collector) walkProgram(prog *ast.Program) {
	for _, tl := range prog.Toplevels {
		c.walkToplevel(tl)
	}
}

func (c *collector) walkToplevel(tl ast.Toplevel) {
	switch d := tl.(type) {
	case *ast.FuncDecl:
		if d.Export {
			c.rewriteExport(d.ExportPos.Offset)
			c.exports = append(c.exports, d.Name)
		}
		for _, p := range d.Params {
			c.blank(p.ColonPos.Offset, p.TypeExpr.End().Offset)
		}
		if len(d.RetTypes) > 0 {
			c.blank(d.RetColonPos.Offset, d.RetEndPos.Offset)
		}
		c.walkStats(d.Body)

	case *ast.TopVarDecl:
		if d.Export {
			c.rewriteExport(d.ExportPos.Offset)
			c.exports = append(c.exports, d.Name)
		}
		if d.TypeExpr != nil {
			c.blank(d.ColonPos.Offset, d.TypeExpr.End().Offset)
		}
		if d.Init != nil {
			c.walkExp(d.Init)
		}

	case *ast.TypealiasDecl:
		c.blank(d.Pos().Offset, d.EndPos.Offset)

	case *ast.RecordDecl:
		c.blank(d.Pos().Offset, d.EndPos.Offset)

	case *ast.ImportDecl:
		// Import syntax is already valid host-language-shaped source in
		// this dialect; nothing to strip.
	}
}

func (c *collector) walkStats(stats []ast.Stat) {
	for _, s := range stats {
		c.walkStat(s)
	}
}

func (c *collector) walkStat(s ast.Stat) {
	switch st := s.(type) {
	case *ast.DeclStat:
		if st.TypeExpr != nil {
			c.blank(st.ColonPos.Offset, st.TypeExpr.End().Offset)
		}
		if st.Init != nil {
			c.walkExp(st.Init)
		}
	case *ast.AssignStat:
		for _, l := range st.Lhs {
			c.walkExp(l)
		}
		for _, r := range st.Rhs {
			c.walkExp(r)
		}
	case *ast.IfStat:
		c.walkExp(st.Cond)
		c.walkStats(st.Then.Stats)
		switch e := st.Else.(type) {
		case *ast.Block:
			c.walkStats(e.Stats)
		case *ast.IfStat:
			c.walkStat(e)
		}
	case *ast.WhileStat:
		c.walkExp(st.Cond)
		c.walkStats(st.Body.Stats)
	case *ast.RepeatStat:
		c.walkStats(st.Body.Stats)
		c.walkExp(st.Cond)
	case *ast.ForStat:
		c.walkExp(st.Start)
		c.walkExp(st.Limit)
		if st.Step != nil {
			c.walkExp(st.Step)
		}
		c.walkStats(st.Body.Stats)
	case *ast.BreakStat:
	case *ast.ReturnStat:
		for _, v := range st.Values {
			c.walkExp(v)
		}
	case *ast.CallStat:
		c.walkExp(st.Call)
	case *ast.Block:
		c.walkStats(st.Stats)
	}
}

func (c *collector) walkExp(e ast.Exp) {
	switch ex := e.(type) {
	case *ast.CastExp:
		c.walkExp(ex.Operand)
		if !ex.Implicit {
			c.blank(ex.AsPos.Offset, ex.EndPos.Offset)
		}
	case *ast.UnopExp:
		c.walkExp(ex.Operand)
	case *ast.BinopExp:
		c.walkExp(ex.Left)
		c.walkExp(ex.Right)
	case *ast.ConcatExp:
		for _, o := range ex.Operands {
			c.walkExp(o)
		}
	case *ast.ParenExp:
		c.walkExp(ex.Operand)
	case *ast.BracketVar:
		c.walkExp(ex.Object)
		c.walkExp(ex.Key)
	case *ast.DotVar:
		c.walkExp(ex.Object)
	case *ast.CallFunc:
		c.walkExp(ex.Callee)
		for _, a := range ex.Args {
			c.walkExp(a)
		}
	case *ast.CallMethod:
		c.walkExp(ex.Receiver)
		for _, a := range ex.Args {
			c.walkExp(a)
		}
	case *ast.InitList:
		for _, el := range ex.Elems {
			c.walkExp(el)
		}
	case *ast.LambdaExp:
		for _, p := range ex.Params {
			c.blank(p.ColonPos.Offset, p.TypeExpr.End().Offset)
		}
		if len(ex.RetTypes) > 0 {
			c.blank(ex.RetColonPos.Offset, ex.RetEndPos.Offset)
		}
		c.walkStats(ex.Body)
	}
}
