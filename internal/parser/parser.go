// Package parser implements a hand-written recursive-descent parser for
// Pallene source, in a PEG style: at every commit point (after a keyword
// like "function" or "if") the grammar expects one specific terminal and
// reports a labeled error message (see labels.go) rather than a generic
// parse failure.
//
// Every piece of mutable parse state lives on *Parser, which is created
// fresh per call and never reentered, rather than on any package-level or
// process-global marker.
package parser

import (
	"strconv"

	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/lexer"
	"github.com/pallene-lang/pallenec/internal/token"
)

// Parser holds all state for one parse of one file. Create with New and
// discard after ParseProgram returns; do not reuse across inputs.
type Parser struct {
	file   string
	lex    *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errs   cerr.List
	loopDepth int
}

// New creates a Parser over source attributed to file.
func New(file, source string) *Parser {
	p := &Parser{file: file, lex: lexer.New(file, source)}
	p.cur = p.lex.NextToken()
	p.peek = p.lex.NextToken()
	return p
}

// ParseProgram parses a full compilation unit. It always returns
// whatever AST it managed to build alongside any diagnostics; callers
// must check Errors() before trusting the tree — this implementation
// always returns a non-nil Program, but one built on an input with
// errors should not be fed to the checker.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur.Pos
	prog := &ast.Program{}
	prog.StartPos = start
	for p.cur.Type != token.EOF {
		tl := p.parseToplevel()
		if tl != nil {
			prog.Toplevels = append(prog.Toplevels, tl)
		} else {
			// parseToplevel already recorded an error; skip the
			// offending token so the loop makes progress.
			p.advance()
		}
	}
	return prog
}

// Errors returns every diagnostic accumulated during parsing, sorted in
// source order.
func (p *Parser) Errors() []*cerr.Error { return p.errs.Sorted() }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) at(t token.Type) bool { return p.cur.Type == t }

func (p *Parser) accept(t token.Type) bool {
	if p.at(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches t, else records a
// labeled error at the current position and does not advance, letting
// the caller decide how to recover.
func (p *Parser) expect(t token.Type, label Label) (token.Token, bool) {
	if p.at(t) {
		tok := p.cur
		p.advance()
		return tok, true
	}
	p.errorf(p.cur.Pos, "%s", label.message())
	return token.Token{}, false
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errs.Add(pos, cerr.KindSyntax, format, args...)
}

func (p *Parser) expectIdent(label Label) (string, token.Position, bool) {
	if p.cur.Type != token.IDENT {
		p.errorf(p.cur.Pos, "%s", label.message())
		return "", p.cur.Pos, false
	}
	name, pos := p.cur.Literal, p.cur.Pos
	p.advance()
	return name, pos, true
}

func parseIntLiteral(lit string) int64 {
	if len(lit) > 1 && (lit[1] == 'x' || lit[1] == 'X') {
		v, _ := strconv.ParseInt(lit[2:], 16, 64)
		return v
	}
	v, _ := strconv.ParseInt(lit, 10, 64)
	return v
}

func parseFloatLiteral(lit string) float64 {
	v, _ := strconv.ParseFloat(lit, 64)
	return v
}
