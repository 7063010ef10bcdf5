package parser

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/token"
)

// parseStatList parses statements until it sees one of the stop tokens
// (typically END, ELSE, ELSEIF, or UNTIL) or EOF.
func (p *Parser) parseStatList(stop ...token.Type) []ast.Stat {
	var stats []ast.Stat
	for !p.atAny(stop...) && p.cur.Type != token.EOF {
		s := p.parseStat()
		if s == nil {
			p.advance()
			continue
		}
		stats = append(stats, s)
	}
	return stats
}

func (p *Parser) atAny(types ...token.Type) bool {
	for _, t := range types {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) parseBlock(stop ...token.Type) *ast.Block {
	start := p.cur.Pos
	stats := p.parseStatList(stop...)
	b := &ast.Block{Stats: stats, EndPos: p.cur.Pos}
	b.StartPos = start
	return b
}

func (p *Parser) parseStat() ast.Stat {
	switch p.cur.Type {
	case token.LOCAL:
		return p.parseDeclStat()
	case token.IF:
		return p.parseIfStat()
	case token.WHILE:
		return p.parseWhileStat()
	case token.REPEAT:
		return p.parseRepeatStat()
	case token.FOR:
		return p.parseForStat()
	case token.BREAK:
		return p.parseBreakStat()
	case token.RETURN:
		return p.parseReturnStat()
	case token.DO:
		start := p.cur.Pos
		p.advance()
		blk := p.parseBlock(token.END)
		p.expect(token.END, LabelWhileEnd)
		blk.StartPos = start
		return blk
	case token.SEMICOLON:
		p.advance()
		return nil
	default:
		return p.parseAssignOrCallStat()
	}
}

func (p *Parser) parseDeclStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "local"
	name, _, ok := p.expectIdent(LabelIdent)
	if !ok {
		return nil
	}
	var typ ast.TypeExpr
	var colonPos token.Position
	if p.at(token.COLON) {
		colonPos = p.cur.Pos
		p.advance()
		typ = p.parseTypeExpr()
	}
	var init ast.Exp
	if p.accept(token.ASSIGN) {
		init = p.parseExpr()
	}
	d := &ast.DeclStat{Name: name, ColonPos: colonPos, TypeExpr: typ, Init: init}
	d.StartPos = start
	return d
}

func (p *Parser) parseIfStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "if"
	cond := p.parseExpr()
	p.expect(token.THEN, LabelIfThen)
	then := p.parseBlock(token.ELSE, token.ELSEIF, token.END)

	var elseStat ast.Stat
	switch p.cur.Type {
	case token.ELSEIF:
		// "elseif" is parsed as a nested if starting at this token,
		// so the translator (and any tree walk) never needs to special
		// case it separately from a trailing "else if".
		elseStat = p.parseElseIf()
	case token.ELSE:
		p.advance()
		elseBlock := p.parseBlock(token.END)
		p.expect(token.END, LabelIfEnd)
		elseStat = elseBlock
		s := &ast.IfStat{Cond: cond, Then: then, Else: elseStat}
		s.StartPos = start
		return s
	}

	endTok, _ := p.expect(token.END, LabelIfEnd)
	_ = endTok
	s := &ast.IfStat{Cond: cond, Then: then, Else: elseStat}
	s.StartPos = start
	return s
}

// parseElseIf parses the "elseif cond then block" that follows an `if`,
// recursing for further "elseif"/"else" clauses, without consuming the
// terminating "end" — the outer parseIfStat call does that once, since
// it belongs to the original "if", not to any nested one.
func (p *Parser) parseElseIf() ast.Stat {
	start := p.cur.Pos
	p.advance() // "elseif"
	cond := p.parseExpr()
	p.expect(token.THEN, LabelIfThen)
	then := p.parseBlock(token.ELSE, token.ELSEIF, token.END)

	var elseStat ast.Stat
	switch p.cur.Type {
	case token.ELSEIF:
		elseStat = p.parseElseIf()
	case token.ELSE:
		p.advance()
		elseStat = p.parseBlock(token.END)
	}
	s := &ast.IfStat{Cond: cond, Then: then, Else: elseStat}
	s.StartPos = start
	return s
}

func (p *Parser) parseWhileStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "while"
	cond := p.parseExpr()
	p.expect(token.DO, LabelWhileDo)
	p.loopDepth++
	body := p.parseBlock(token.END)
	p.loopDepth--
	p.expect(token.END, LabelWhileEnd)
	s := &ast.WhileStat{Cond: cond, Body: body}
	s.StartPos = start
	return s
}

func (p *Parser) parseRepeatStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "repeat"
	p.loopDepth++
	body := p.parseBlock(token.UNTIL)
	p.loopDepth--
	p.expect(token.UNTIL, LabelRepeatUntil)
	cond := p.parseExpr()
	s := &ast.RepeatStat{Body: body, Cond: cond}
	s.StartPos = start
	return s
}

func (p *Parser) parseForStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "for"
	name, _, ok := p.expectIdent(LabelIdent)
	if !ok {
		return nil
	}
	p.expect(token.ASSIGN, LabelForAssign)
	lo := p.parseExpr()
	p.expect(token.COMMA, LabelColon)
	hi := p.parseExpr()
	var step ast.Exp
	if p.accept(token.COMMA) {
		step = p.parseExpr()
	}
	p.expect(token.DO, LabelForDo)
	p.loopDepth++
	body := p.parseBlock(token.END)
	p.loopDepth--
	p.expect(token.END, LabelForEnd)
	s := &ast.ForStat{Var: name, Start: lo, Limit: hi, Step: step, Body: body}
	s.StartPos = start
	return s
}

func (p *Parser) parseBreakStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "break"
	if p.loopDepth == 0 {
		p.errorf(start, "break statement outside loop")
	}
	s := &ast.BreakStat{}
	s.StartPos = start
	return s
}

func (p *Parser) parseReturnStat() ast.Stat {
	start := p.cur.Pos
	p.advance() // "return"
	var vals []ast.Exp
	if !p.atAny(token.END, token.ELSE, token.ELSEIF, token.UNTIL, token.EOF, token.SEMICOLON) {
		vals = append(vals, p.parseExpr())
		for p.accept(token.COMMA) {
			vals = append(vals, p.parseExpr())
		}
	}
	s := &ast.ReturnStat{Values: vals}
	s.StartPos = start
	return s
}

// parseAssignOrCallStat parses either a call-expression statement or an
// assignment. The left side of "=" must already reduce to a Var; a call
// expression there is rejected with AssignNotToVar.
func (p *Parser) parseAssignOrCallStat() ast.Stat {
	start := p.cur.Pos
	first := p.parseExpr()

	if p.at(token.ASSIGN) || p.at(token.COMMA) {
		lhs := []ast.Var{p.asVar(first)}
		for p.accept(token.COMMA) {
			lhs = append(lhs, p.asVar(p.parseExpr()))
		}
		p.expect(token.ASSIGN, LabelAssignOrCall)
		var rhs []ast.Exp
		rhs = append(rhs, p.parseExpr())
		for p.accept(token.COMMA) {
			rhs = append(rhs, p.parseExpr())
		}
		s := &ast.AssignStat{Lhs: lhs, Rhs: rhs}
		s.StartPos = start
		return s
	}

	switch first.(type) {
	case *ast.CallFunc, *ast.CallMethod:
		s := &ast.CallStat{Call: first}
		s.StartPos = start
		return s
	}

	p.errorf(start, "%s", LabelAssignOrCall.message())
	return nil
}

// asVar validates that exp reduces to an assignable Var, recording
// AssignNotToVar when it does not (e.g. the left side was a call).
func (p *Parser) asVar(exp ast.Exp) ast.Var {
	if v, ok := exp.(ast.Var); ok {
		return v
	}
	p.errorf(exp.Pos(), "AssignNotToVar: left side of assignment must be a variable, not a call")
	nv := &ast.NameVar{Name: "<error>"}
	nv.StartPos = exp.Pos()
	return nv
}
