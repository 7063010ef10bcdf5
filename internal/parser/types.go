package parser

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/token"
)

// parseTypeExpr parses one type annotation. The surface grammar is:
//
//	TypeName     = ident
//	TypeArray    = "{" TypeExpr "}"
//	TypeTable    = "{" ident ":" TypeExpr ("," ident ":" TypeExpr)* "}"
//	TypeFunction = "(" [TypeExpr ("," TypeExpr)*] ")" ":" RetTypeExpr
//
// where RetTypeExpr is either a single TypeExpr or a parenthesized tuple
// "(" TypeExpr ("," TypeExpr)* ")" — mirroring parseRetTypeList so the
// translator can strip both forms as one contiguous span.
// Function types use ":" rather than an arrow token since the lexer
// defines no ARROW token; this is a rendering choice internal to the
// concrete syntax and does not affect types.Type.String()'s diagnostic
// "->" form.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.cur.Pos
	switch p.cur.Type {
	case token.IDENT:
		name := p.cur.Literal
		end := p.cur.EndPos
		p.advance()
		return ast.NewTypeName(start, end, name)
	case token.LBRACE:
		return p.parseBraceTypeExpr()
	case token.LPAREN:
		return p.parseFunctionTypeExpr()
	default:
		p.errorf(start, "%s", LabelTypeExpr.message())
		return ast.NewTypeName(start, start, "?")
	}
}

func (p *Parser) parseBraceTypeExpr() ast.TypeExpr {
	start := p.cur.Pos
	p.advance() // "{"

	if p.cur.Type == token.IDENT && p.peek.Type == token.COLON {
		var names []string
		var types []ast.TypeExpr
		for {
			name, _, ok := p.expectIdent(LabelIdent)
			if !ok {
				break
			}
			p.expect(token.COLON, LabelColon)
			names = append(names, name)
			types = append(types, p.parseTypeExpr())
			if !p.accept(token.COMMA) {
				break
			}
		}
		endTok, _ := p.expect(token.RBRACE, LabelRBrace)
		return ast.NewTypeTable(start, endTok.EndPos, names, types)
	}

	elem := p.parseTypeExpr()
	endTok, _ := p.expect(token.RBRACE, LabelRBrace)
	return ast.NewTypeArray(start, endTok.EndPos, elem)
}

func (p *Parser) parseFunctionTypeExpr() ast.TypeExpr {
	start := p.cur.Pos
	p.advance() // "("

	var params []ast.TypeExpr
	if !p.at(token.RPAREN) {
		for {
			params = append(params, p.parseTypeExpr())
			if !p.accept(token.COMMA) {
				break
			}
		}
	}
	p.expect(token.RPAREN, LabelRParen)
	p.expect(token.COLON, LabelColon)

	var rets []ast.TypeExpr
	var end token.Position
	if p.accept(token.LPAREN) {
		if !p.at(token.RPAREN) {
			for {
				rets = append(rets, p.parseTypeExpr())
				if !p.accept(token.COMMA) {
					break
				}
			}
		}
		endTok, _ := p.expect(token.RPAREN, LabelRParen)
		end = endTok.EndPos
	} else {
		ret := p.parseTypeExpr()
		rets = []ast.TypeExpr{ret}
		end = ret.End()
	}

	return ast.NewTypeFunction(start, end, params, rets)
}
