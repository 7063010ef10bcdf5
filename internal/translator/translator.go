// Package translator implements the alternate back end: a byte-exact
// source-to-source rewrite of Pallene into the host scripting language,
// used for `--emit-lua`. It never fails on its own input — by the time
// it runs, the caller has already confirmed the source parsed and
// type-checked.
package translator

import (
	"strings"

	"github.com/pallene-lang/pallenec/internal/ast"
)

// edit describes one byte range of the source to rewrite. With an empty
// literal it blanks every byte in [start, end) except \n, \r, \t to a
// space; otherwise literal, of the same length, replaces the range (the
// "export" to "local " keyword rewrite).
type edit struct {
	start, end int
	literal    string // empty for a blank edit
}

// Translate rewrites source (the original byte buffer pallenec read, as a
// string so offsets line up with token.Position.Offset) into host
// language source: type annotations, casts, and
// typealias/record declarations are blanked out preserving line/column
// geometry, "export" becomes "local ", and a synthesized export table is
// appended when any toplevel declaration was exported.
func Translate(source string, prog *ast.Program) string {
	c := &collector{}
	c.walkProgram(prog)
	out := applyEdits(source, c.edits)
	if len(c.exports) > 0 {
		out += synthesizeExportTable(c.exports)
	}
	return out
}

func applyEdits(source string, edits []edit) string {
	buf := []byte(source)
	for _, e := range edits {
		if e.literal != "" {
			copy(buf[e.start:e.end], e.literal)
			continue
		}
		for i := e.start; i < e.end; i++ {
			switch buf[i] {
			case '\n', '\r', '\t':
				// preserve line/column geometry
			default:
				buf[i] = ' '
			}
		}
	}
	return string(buf)
}

func synthesizeExportTable(names []string) string {
	var b strings.Builder
	b.WriteString("return {\n")
	for _, n := range names {
		b.WriteString("    ")
		b.WriteString(n)
		b.WriteString(" = ")
		b.WriteString(n)
		b.WriteString(",\n")
	}
	b.WriteString("}\n")
	return b.String()
}
