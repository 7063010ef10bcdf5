package parser

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/token"
)

// parseExpr is the entry point into the precedence chain below. Levels
// are ordered exactly as this table, lowest to highest:
// or; and; comparison; |; ~ (xor); &; shifts; concat(..); additive;
// multiplicative; unary; power(^); cast(as).
func (p *Parser) parseExpr() ast.Exp {
	return p.parseOr()
}

func (p *Parser) parseOr() ast.Exp {
	left := p.parseAnd()
	for p.at(token.OR) {
		start := p.cur.Pos
		p.advance()
		right := p.parseAnd()
		left = mkBinop(start, ast.BinopOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.Exp {
	left := p.parseComparison()
	for p.at(token.AND) {
		start := p.cur.Pos
		p.advance()
		right := p.parseComparison()
		left = mkBinop(start, ast.BinopAnd, left, right)
	}
	return left
}

var comparisonOps = map[token.Type]ast.BinopKind{
	token.EQ: ast.BinopEq, token.NEQ: ast.BinopNeq, token.LT: ast.BinopLt,
	token.GT: ast.BinopGt, token.LE: ast.BinopLe, token.GE: ast.BinopGe,
}

func (p *Parser) parseComparison() ast.Exp {
	left := p.parseBitOr()
	for {
		op, ok := comparisonOps[p.cur.Type]
		if !ok {
			return left
		}
		start := p.cur.Pos
		p.advance()
		right := p.parseBitOr()
		left = mkBinop(start, op, left, right)
	}
}

func (p *Parser) parseBitOr() ast.Exp {
	left := p.parseBitXor()
	for p.at(token.PIPE) {
		start := p.cur.Pos
		p.advance()
		right := p.parseBitXor()
		left = mkBinop(start, ast.BinopBOr, left, right)
	}
	return left
}

func (p *Parser) parseBitXor() ast.Exp {
	left := p.parseBitAnd()
	for p.at(token.TILDE) {
		start := p.cur.Pos
		p.advance()
		right := p.parseBitAnd()
		left = mkBinop(start, ast.BinopBXor, left, right)
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Exp {
	left := p.parseShift()
	for p.at(token.AMP) {
		start := p.cur.Pos
		p.advance()
		right := p.parseShift()
		left = mkBinop(start, ast.BinopBAnd, left, right)
	}
	return left
}

func (p *Parser) parseShift() ast.Exp {
	left := p.parseConcat()
	for p.at(token.SHL) || p.at(token.SHR) {
		op := ast.BinopShl
		if p.cur.Type == token.SHR {
			op = ast.BinopShr
		}
		start := p.cur.Pos
		p.advance()
		right := p.parseConcat()
		left = mkBinop(start, op, left, right)
	}
	return left
}

// parseConcat flattens a chain of ".." operators into a single ConcatExp,
// ("flattens nested concatenations"), even though ".." is
// grammatically right-associative.
func (p *Parser) parseConcat() ast.Exp {
	left := p.parseAdditive()
	if !p.at(token.DOTDOT) {
		return left
	}
	start := left.Pos()
	operands := []ast.Exp{left}
	for p.accept(token.DOTDOT) {
		operands = append(operands, p.parseAdditive())
	}
	c := &ast.ConcatExp{Operands: operands}
	c.StartPos = start
	return c
}

func (p *Parser) parseAdditive() ast.Exp {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := ast.BinopAdd
		if p.cur.Type == token.MINUS {
			op = ast.BinopSub
		}
		start := p.cur.Pos
		p.advance()
		right := p.parseMultiplicative()
		left = mkBinop(start, op, left, right)
	}
	return left
}

var multiplicativeOps = map[token.Type]ast.BinopKind{
	token.STAR: ast.BinopMul, token.PERCENT: ast.BinopMod,
	token.SLASH: ast.BinopDiv, token.DSLASH: ast.BinopIDiv,
}

func (p *Parser) parseMultiplicative() ast.Exp {
	left := p.parseUnary()
	for {
		op, ok := multiplicativeOps[p.cur.Type]
		if !ok {
			return left
		}
		start := p.cur.Pos
		p.advance()
		right := p.parseUnary()
		left = mkBinop(start, op, left, right)
	}
}

var unaryOps = map[token.Type]ast.UnopKind{
	token.NOT: ast.UnopNot, token.HASH: ast.UnopLen,
	token.MINUS: ast.UnopNeg, token.TILDE: ast.UnopBNot,
}

func (p *Parser) parseUnary() ast.Exp {
	if op, ok := unaryOps[p.cur.Type]; ok {
		start := p.cur.Pos
		p.advance()
		operand := p.parseUnary()
		u := &ast.UnopExp{Op: op, Operand: operand}
		u.StartPos = start
		return u
	}
	return p.parsePow()
}

// parsePow handles "^", which is right-associative, so it recurses into
// itself on the right rather than looping.
func (p *Parser) parsePow() ast.Exp {
	left := p.parseCast()
	if p.at(token.CARET) {
		start := p.cur.Pos
		p.advance()
		right := p.parsePow()
		return mkBinop(start, ast.BinopPow, left, right)
	}
	return left
}

// parseCast handles "exp as Type", the tightest-binding operator in the
// table. A chain like "x as integer as float" is legal and left-folds.
func (p *Parser) parseCast() ast.Exp {
	left := p.parsePrimary()
	for p.at(token.AS) {
		start := left.Pos()
		asPos := p.cur.Pos
		p.advance()
		typ := p.parseTypeExpr()
		c := &ast.CastExp{AsPos: asPos, EndPos: typ.End(), Operand: left, TypeExpr: typ}
		c.StartPos = start
		left = c
	}
	return left
}

func mkBinop(_ token.Position, op ast.BinopKind, left, right ast.Exp) ast.Exp {
	b := &ast.BinopExp{Op: op, Left: left, Right: right}
	b.StartPos = left.Pos()
	return b
}

func (p *Parser) parsePrimary() ast.Exp {
	start := p.cur.Pos
	switch p.cur.Type {
	case token.NIL:
		p.advance()
		n := &ast.NilExp{}
		n.StartPos = start
		return n
	case token.TRUE, token.FALSE:
		v := p.cur.Type == token.TRUE
		p.advance()
		b := &ast.BoolExp{Value: v}
		b.StartPos = start
		return b
	case token.INT:
		lit := p.cur.Literal
		p.advance()
		e := &ast.IntegerExp{Value: parseIntLiteral(lit)}
		e.StartPos = start
		return e
	case token.FLOAT:
		lit := p.cur.Literal
		p.advance()
		e := &ast.FloatExp{Value: parseFloatLiteral(lit)}
		e.StartPos = start
		return e
	case token.STRING:
		lit := p.cur.Literal
		p.advance()
		e := &ast.StringExp{Value: lit}
		e.StartPos = start
		return e
	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		endTok, _ := p.expect(token.RPAREN, LabelRParen)
		e := &ast.ParenExp{EndPos: endTok.EndPos, Operand: inner}
		e.StartPos = start
		return p.parsePostfix(e)
	case token.LBRACE:
		return p.parseInitList()
	case token.FUNCTION:
		return p.parseLambda()
	case token.IDENT:
		name := p.cur.Literal
		p.advance()
		nv := &ast.NameVar{Name: name}
		nv.StartPos = start
		return p.parsePostfix(nv)
	default:
		p.errorf(start, "%s", LabelExpr.message())
		e := &ast.NilExp{}
		e.StartPos = start
		return e
	}
}

// parsePostfix handles the suffixes that can follow a primary variable
// or parenthesized expression: indexing, field access, and calls.
func (p *Parser) parsePostfix(e ast.Exp) ast.Exp {
	for {
		start := e.Pos()
		switch p.cur.Type {
		case token.LBRACKET:
			p.advance()
			key := p.parseExpr()
			p.expect(token.RBRACKET, LabelRBracket)
			v := &ast.BracketVar{Object: e, Key: key}
			v.StartPos = start
			e = v
		case token.DOT:
			p.advance()
			field, _, ok := p.expectIdent(LabelIdent)
			if !ok {
				return e
			}
			v := &ast.DotVar{Object: e, Field: field}
			v.StartPos = start
			e = v
		case token.COLON:
			// method call: receiver:method(args...)
			p.advance()
			method, _, ok := p.expectIdent(LabelIdent)
			if !ok {
				return e
			}
			p.expect(token.LPAREN, LabelLParen)
			args := p.parseArgList()
			endTok, _ := p.expect(token.RPAREN, LabelRParen)
			c := &ast.CallMethod{EndPos: endTok.EndPos, Receiver: e, Method: method, Args: args}
			c.StartPos = start
			e = c
		case token.LPAREN:
			p.advance()
			args := p.parseArgList()
			endTok, _ := p.expect(token.RPAREN, LabelRParen)
			c := &ast.CallFunc{EndPos: endTok.EndPos, Callee: e, Args: args}
			c.StartPos = start
			e = c
		default:
			return e
		}
	}
}

func (p *Parser) parseArgList() []ast.Exp {
	var args []ast.Exp
	if p.at(token.RPAREN) {
		return args
	}
	args = append(args, p.parseExpr())
	for p.accept(token.COMMA) {
		args = append(args, p.parseExpr())
	}
	return args
}

func (p *Parser) parseInitList() ast.Exp {
	start := p.cur.Pos
	p.advance() // "{"
	var keys []string
	var elems []ast.Exp
	for !p.at(token.RBRACE) && p.cur.Type != token.EOF {
		key := ""
		if p.cur.Type == token.IDENT && p.peek.Type == token.ASSIGN {
			key = p.cur.Literal
			p.advance()
			p.advance()
		}
		keys = append(keys, key)
		elems = append(elems, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	endTok, _ := p.expect(token.RBRACE, LabelRBrace)
	e := &ast.InitList{EndPos: endTok.EndPos, Keys: keys, Elems: elems}
	e.StartPos = start
	return e
}

func (p *Parser) parseLambda() ast.Exp {
	start := p.cur.Pos
	p.advance() // "function"
	p.expect(token.LPAREN, LabelFunctionParams)
	params := p.parseParamList()
	p.expect(token.RPAREN, LabelRParen)
	var rets []ast.TypeExpr
	var retColonPos, retEndPos token.Position
	if p.at(token.COLON) {
		retColonPos = p.cur.Pos
		p.advance()
		rets, retEndPos = p.parseRetTypeList()
	}
	body := p.parseStatList(token.END)
	endTok, _ := p.expect(token.END, LabelFunctionEnd)
	l := &ast.LambdaExp{
		EndPos:      endTok.EndPos,
		Params:      params,
		RetColonPos: retColonPos,
		RetEndPos:   retEndPos,
		RetTypes:    rets,
		Body:        body,
	}
	l.StartPos = start
	return l
}
