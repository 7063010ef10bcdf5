package parser

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/token"
)

func (p *Parser) parseToplevel() ast.Toplevel {
	exportPos := p.cur.Pos
	export := p.accept(token.EXPORT)
	switch p.cur.Type {
	case token.FUNCTION:
		return p.parseFuncDecl(export, exportPos)
	case token.LOCAL:
		if export {
			p.errorf(p.cur.Pos, "`export` cannot precede `local`")
		}
		return p.parseTopVarDecl(false, exportPos)
	case token.TYPEALIAS:
		return p.parseTypealiasDecl()
	case token.RECORD:
		return p.parseRecordDecl()
	case token.IMPORT:
		return p.parseImportDecl()
	default:
		if export {
			return p.parseTopVarDecl(true, exportPos)
		}
		p.errorf(p.cur.Pos, "expected a toplevel declaration (function, local, typealias, record, or import)")
		return nil
	}
}

func (p *Parser) parseFuncDecl(export bool, exportPos token.Position) *ast.FuncDecl {
	start := p.cur.Pos
	p.advance() // consume "function"

	name, _, ok := p.expectIdent(LabelFunctionName)
	if !ok {
		return nil
	}

	if _, ok := p.expect(token.LPAREN, LabelFunctionParams); !ok {
		return nil
	}
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

	fd := &ast.FuncDecl{
		EndPos:      endTok.EndPos,
		ExportPos:   exportPos,
		Name:        name,
		Export:      export,
		Params:      params,
		RetColonPos: retColonPos,
		RetEndPos:   retEndPos,
		RetTypes:    rets,
		Body:        body,
	}
	fd.StartPos = start
	return fd
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.at(token.RPAREN) {
		return params
	}
	for {
		name, _, ok := p.expectIdent(LabelIdent)
		if !ok {
			break
		}
		colonPos := p.cur.Pos
		p.expect(token.COLON, LabelColon)
		typ := p.parseTypeExpr()
		params = append(params, ast.Param{Name: name, ColonPos: colonPos, TypeExpr: typ})
		if !p.accept(token.COMMA) {
			break
		}
	}
	return params
}

// parseRetTypeList parses either a single type or a parenthesized tuple
// "(T1, T2)", matching the "enclosing parentheses for tuple return
// types" span the translator must strip as a single unit. It
// also reports the end of the whole annotation (including the closing
// paren for a tuple), since that span, not any one TypeExpr's own End,
// is what the translator must blank out.
func (p *Parser) parseRetTypeList() ([]ast.TypeExpr, token.Position) {
	if p.accept(token.LPAREN) {
		var rets []ast.TypeExpr
		if !p.at(token.RPAREN) {
			for {
				rets = append(rets, p.parseTypeExpr())
				if !p.accept(token.COMMA) {
					break
				}
			}
		}
		endTok, _ := p.expect(token.RPAREN, LabelRParen)
		return rets, endTok.EndPos
	}
	t := p.parseTypeExpr()
	return []ast.TypeExpr{t}, t.End()
}

func (p *Parser) parseTopVarDecl(export bool, exportPos token.Position) *ast.TopVarDecl {
	start := p.cur.Pos
	p.expect(token.LOCAL, LabelIdent)
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
	vd := &ast.TopVarDecl{
		Name:      name,
		Export:    export,
		ExportPos: exportPos,
		ColonPos:  colonPos,
		TypeExpr:  typ,
		Init:      init,
	}
	vd.StartPos = start
	return vd
}

func (p *Parser) parseTypealiasDecl() *ast.TypealiasDecl {
	start := p.cur.Pos
	p.advance() // "typealias"
	name, _, ok := p.expectIdent(LabelIdent)
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.ASSIGN, LabelTypealiasEq); !ok {
		return nil
	}
	typ := p.parseTypeExpr()
	td := &ast.TypealiasDecl{
		EndPos:   typ.End(),
		Name:     name,
		TypeExpr: typ,
	}
	td.StartPos = start
	return td
}

func (p *Parser) parseRecordDecl() *ast.RecordDecl {
	start := p.cur.Pos
	p.advance() // "record"
	name, _, ok := p.expectIdent(LabelIdent)
	if !ok {
		return nil
	}
	var fields []ast.RecordField
	for p.cur.Type == token.IDENT {
		fname := p.cur.Literal
		p.advance()
		colonPos := p.cur.Pos
		if _, ok := p.expect(token.COLON, LabelRecordFieldType); !ok {
			break
		}
		ftyp := p.parseTypeExpr()
		fields = append(fields, ast.RecordField{Name: fname, ColonPos: colonPos, TypeExpr: ftyp})
	}
	endTok, _ := p.expect(token.END, LabelRecordEnd)
	rd := &ast.RecordDecl{
		EndPos: endTok.EndPos,
		Name:   name,
		Fields: fields,
	}
	rd.StartPos = start
	return rd
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.cur.Pos
	p.advance() // "import"
	name, _, ok := p.expectIdent(LabelImportName)
	if !ok {
		return nil
	}
	alias := name
	if p.accept(token.AS) {
		a, _, ok := p.expectIdent(LabelIdent)
		if ok {
			alias = a
		}
	}
	decl := &ast.ImportDecl{Name: name, Alias: alias}
	decl.StartPos = start
	return decl
}
