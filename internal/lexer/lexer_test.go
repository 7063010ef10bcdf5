package lexer

import (
	"testing"

	"github.com/pallene-lang/pallenec/internal/token"
)

func collect(src string) []token.Token {
	l := New("test.pln", src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func TestNextTokenBasic(t *testing.T) {
	src := `local x: integer = 10`
	want := []token.Type{
		token.LOCAL, token.IDENT, token.COLON, token.IDENT, token.ASSIGN, token.INT, token.EOF,
	}
	toks := collect(src)
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestNumberKinds(t *testing.T) {
	tests := []struct {
		src  string
		want token.Type
	}{
		{"10", token.INT},
		{"0xFF", token.INT},
		{"10.5", token.FLOAT},
		{"1e10", token.FLOAT},
		{"1.5e-3", token.FLOAT},
	}
	for _, tt := range tests {
		toks := collect(tt.src)
		if toks[0].Type != tt.want {
			t.Errorf("%q: got %v, want %v", tt.src, toks[0].Type, tt.want)
		}
	}
}

func TestOperators(t *testing.T) {
	src := `== ~= <= >= << >> .. // #`
	want := []token.Type{token.EQ, token.NEQ, token.LE, token.GE, token.SHL, token.SHR, token.DOTDOT, token.DSLASH, token.HASH}
	toks := collect(src)
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("op %d: got %v, want %v", i, toks[i].Type, tt)
		}
	}
}

func TestKeywordsNotIdentifiers(t *testing.T) {
	for word, typ := range map[string]token.Type{
		"function": token.FUNCTION, "break": token.BREAK, "repeat": token.REPEAT,
		"typealias": token.TYPEALIAS, "export": token.EXPORT, "as": token.AS,
	} {
		toks := collect(word)
		if toks[0].Type != typ {
			t.Errorf("%q: got %v, want %v", word, toks[0].Type, typ)
		}
	}
}

func TestStringLiteral(t *testing.T) {
	toks := collect(`"hello\nworld"`)
	if toks[0].Type != token.STRING {
		t.Fatalf("got %v, want STRING", toks[0].Type)
	}
	if toks[0].Literal != "hello\nworld" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestPositionsAreByteExact(t *testing.T) {
	src := "local x\n  = 1"
	toks := collect(src)
	// "local" at offset 0, "x" at offset 6, "=" at line 2 col 3.
	if toks[0].Pos.Offset != 0 || toks[0].Pos.Line != 1 || toks[0].Pos.Column != 1 {
		t.Errorf("local pos = %+v", toks[0].Pos)
	}
	eq := toks[2]
	if eq.Type != token.ASSIGN || eq.Pos.Line != 2 || eq.Pos.Column != 3 {
		t.Errorf("= pos = %+v", eq.Pos)
	}
}

func TestCommentsSkipped(t *testing.T) {
	src := "-- a comment\nlocal x = 1 -- trailing\n"
	toks := collect(src)
	if toks[0].Type != token.LOCAL {
		t.Fatalf("got %v, want LOCAL", toks[0].Type)
	}
}

func TestIllegalCharacterRecorded(t *testing.T) {
	l := New("t.pln", "@")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("got %d errors, want 1", len(l.Errors()))
	}
}
