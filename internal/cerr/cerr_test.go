package cerr

import (
	"strings"
	"testing"

	"github.com/pallene-lang/pallenec/internal/token"
)

func TestCompactFormatMatchesSpec(t *testing.T) {
	e := &Error{
		Pos:     token.Position{File: "test.pln", Line: 3, Column: 5},
		Kind:    KindType,
		Message: "expected integer but found string",
	}
	want := "test.pln:3:5: type: expected integer but found string"
	if got := e.Compact(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListSortsBySourcePosition(t *testing.T) {
	var l List
	l.Add(token.Position{Line: 5, Column: 1}, KindType, "late")
	l.Add(token.Position{Line: 1, Column: 1}, KindSyntax, "early")
	l.Add(token.Position{Line: 3, Column: 2}, KindName, "middle")

	sorted := l.Sorted()
	if len(sorted) != 3 {
		t.Fatalf("got %d errors", len(sorted))
	}
	if sorted[0].Message != "early" || sorted[1].Message != "middle" || sorted[2].Message != "late" {
		t.Errorf("not sorted: %v %v %v", sorted[0].Message, sorted[1].Message, sorted[2].Message)
	}
}

func TestReportIncludesCaret(t *testing.T) {
	source := "local x: integer = \"oops\"\n"
	e := &Error{Pos: token.Position{File: "t.pln", Line: 1, Column: 20}, Kind: KindType, Message: "bad init"}
	report := e.Report(source)
	if !strings.Contains(report, "^") {
		t.Error("report should contain a caret")
	}
	if !strings.Contains(report, "local x") {
		t.Error("report should include the source line")
	}
}

func TestHasErrors(t *testing.T) {
	var l List
	if l.HasErrors() {
		t.Error("empty list should report no errors")
	}
	l.Add(token.Position{}, KindIO, "boom")
	if !l.HasErrors() {
		t.Error("list with one entry should report errors")
	}
}
