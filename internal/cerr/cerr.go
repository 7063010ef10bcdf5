// Package cerr implements the compiler's single diagnostic type and its
// two renderings: a compact "file:line:col: kind: message" wire format
// for tooling, and a human-readable, source-annotated report with a caret
// under the offending column.
package cerr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pallene-lang/pallenec/internal/token"
)

// Kind classifies a diagnostic. The set is closed: every stage reports
// one of these, never a free-form string.
type Kind string

const (
	KindSyntax        Kind = "syntax"
	KindType          Kind = "type"
	KindName          Kind = "name"
	KindUninitialized Kind = "uninitialized"
	KindIO            Kind = "io"
	KindToolchain     Kind = "toolchain"
)

// Error is one diagnostic: a position, a kind, and a message.
type Error struct {
	Pos     token.Position
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Compact()
}

// Compact renders the one-line wire format used on stderr:
// "<file>:<line>:<col>: <kind>: <message>".
func (e *Error) Compact() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos.String(), e.Kind, e.Message)
}

// Report renders a human-readable diagnostic with a line of source
// context and a caret under the offending column, for terminal use.
// source is the full original buffer the position was computed against.
func (e *Error) Report(source string) string {
	var sb strings.Builder
	sb.WriteString(e.Compact())
	sb.WriteString("\n")

	line := sourceLine(source, e.Pos.Line)
	if line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		col := e.Pos.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(prefix)+col-1))
		sb.WriteString("^\n")
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// List accumulates diagnostics from a single pipeline stage. Stages
// never stop at the first error; they finish their pass and
// return everything they found, sorted in source order.
type List struct {
	errs []*Error
}

// Add appends one diagnostic.
func (l *List) Add(pos token.Position, kind Kind, format string, args ...any) {
	l.errs = append(l.errs, &Error{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)})
}

// AddError appends an already-built diagnostic.
func (l *List) AddError(e *Error) {
	l.errs = append(l.errs, e)
}

// HasErrors reports whether any diagnostic has been recorded.
func (l *List) HasErrors() bool { return len(l.errs) > 0 }

// Len is the number of accumulated diagnostics.
func (l *List) Len() int { return len(l.errs) }

// Sorted returns the accumulated diagnostics ordered by source position,
// so a stage that discovers errors out of traversal order (for example a
// two-pass checker that resolves top-level declarations before checking
// bodies) still reports them in source order.
func (l *List) Sorted() []*Error {
	out := append([]*Error(nil), l.errs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Pos, out[j].Pos
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// FormatCompact renders every diagnostic, one per line, in the compact
// wire format, in the order given; it does not sort (List.Sorted does).
func FormatCompact(errs []*Error) string {
	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString(e.Compact())
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatReport renders every diagnostic as a human-readable report.
func FormatReport(errs []*Error, source string) string {
	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString(e.Report(source))
	}
	return sb.String()
}
