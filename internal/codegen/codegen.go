// Package codegen implements the code generator: it walks a checked,
// lowered ir.Module and emits portable C source that a host C toolchain
// can compile to a shared object. It never fails on a well-formed
// Module — by the time Generate runs, the uninitialized-variable check and
// every earlier pipeline stage have already accepted the program — but it
// returns an error for a Module outside that contract: one referencing a
// type.Kind it has no C mapping for, or an operator, literal, or command
// it does not know.
//
// Generate does not implement the runtime entry points it calls (array,
// table, and record allocation; boxing/unboxing for dynamic calls; the
// string representation). Those belong to the host runtime, declared here
// only as extern prototypes in a generated preamble — the runtime's
// allocator, tag layout, and GC are external collaborators.
package codegen

import (
	"fmt"
	"strings"

	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/types"
)

// Generate emits one C translation unit for mod: the runtime preamble,
// then one C function per Pallene function in source order.
func Generate(mod *ir.Module) (string, error) {
	g := &generator{}
	g.writePreamble(mod)
	for _, fn := range mod.Functions {
		if err := g.writeFunction(mod, fn); err != nil {
			return "", err
		}
	}
	return g.buf.String(), nil
}

type generator struct {
	buf    strings.Builder
	indent int
}

func (g *generator) line(format string, args ...any) {
	g.buf.WriteString(strings.Repeat("    ", g.indent))
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// writePreamble declares the fixed set of runtime entry points generated C
// calls into. These are prototypes only, matching the ABI this generator
// targets; the definitions live in the host runtime, out of this
// repository's scope.
func (g *generator) writePreamble(mod *ir.Module) {
	g.line("/* generated by pallenec from module %q — do not edit */", mod.Name)
	g.line("#include <stdbool.h>")
	g.line("#include <stdint.h>")
	g.line("#include \"pallene_rt.h\"")
	g.line("")
	g.line("/* pallene_rt.h is expected to declare, at minimum:")
	g.line(" *")
	g.line(" *   typedef struct pallene_string pallene_string_t;")
	g.line(" *   typedef struct pallene_value  pallene_value_t;")
	g.line(" *")
	g.line(" *   pallene_value_t *pallene_new_array(int64_t size);")
	g.line(" *   pallene_value_t *pallene_new_table(void);")
	g.line(" *   pallene_value_t *pallene_new_record(const char *type_name);")
	g.line(" *   pallene_value_t *pallene_load(pallene_value_t *obj, pallene_value_t key);")
	g.line(" *   void             pallene_store(pallene_value_t *obj, pallene_value_t key, pallene_value_t val);")
	g.line(" *   pallene_value_t  pallene_call(pallene_value_t *fun, pallene_value_t *args, int nargs);")
	g.line(" *   pallene_string_t *pallene_concat(pallene_string_t **parts, int nparts);")
	g.line(" *   pallene_string_t *pallene_new_string_literal(const char *bytes, int64_t len);")
	g.line(" *   int64_t          pallene_idiv(int64_t a, int64_t b);")
	g.line(" *   double           pallene_pow(double base, double exp);")
	g.line(" *   int64_t          pallene_len(pallene_value_t *v);")
	g.line(" *")
	g.line(" * and a boxing helper pair pallene_box_* / pallene_unbox_* per")
	g.line(" * cType below. This generator only calls these names; it does")
	g.line(" * not define them. */")
	g.line("")
}

// cType maps a Pallene static type to the C type codegen declares a local,
// parameter, or return slot as type mapping table.
func cType(t *types.Type) (string, error) {
	if t == nil {
		return "void", nil
	}
	switch types.Expand(t).Kind {
	case types.KindInteger:
		return "int64_t", nil
	case types.KindFloat:
		return "double", nil
	case types.KindBoolean:
		return "bool", nil
	case types.KindString:
		return "pallene_string_t*", nil
	case types.KindNil:
		return "void*", nil
	case types.KindArray, types.KindTable, types.KindFunction, types.KindRecord, types.KindAny:
		return "pallene_value_t*", nil
	default:
		return "", fmt.Errorf("codegen: no C type mapping for %s", t)
	}
}

func localName(fn *ir.Function, l ir.Local) string {
	info := fn.Locals[l]
	if info.Name != "" {
		return fmt.Sprintf("L_%s_%d", info.Name, int(l))
	}
	return fmt.Sprintf("t_%d", int(l))
}

func retType(rets []*types.Type) (string, error) {
	switch len(rets) {
	case 0:
		return "void", nil
	case 1:
		return cType(rets[0])
	default:
		// Multiple returns are passed back through out-parameters (see
		// writeFunction), so the C function itself always returns the
		// first result's type or void when there is none to return
		// directly; callers read the rest from the out-parameters.
		return cType(rets[0])
	}
}

func (g *generator) writeFunction(mod *ir.Module, fn *ir.Function) error {
	ret, err := retType(fn.Rets)
	if err != nil {
		return err
	}

	cName := mod.Name + "_" + fn.Name
	params := make([]string, 0, fn.Params+len(fn.Rets))
	for i := 0; i < fn.Params; i++ {
		pt, err := cType(fn.Locals[i].Type)
		if err != nil {
			return err
		}
		params = append(params, fmt.Sprintf("%s %s", pt, localName(fn, ir.Local(i))))
	}
	for i := 1; i < len(fn.Rets); i++ {
		pt, err := cType(fn.Rets[i])
		if err != nil {
			return err
		}
		params = append(params, fmt.Sprintf("%s *out%d", pt, i))
	}
	if len(params) == 0 {
		params = append(params, "void")
	}

	if fn.Exported {
		g.line("%s %s(%s);", ret, cName, strings.Join(params, ", "))
	}
	g.line("%s %s(%s)", ret, cName, strings.Join(params, ", "))
	g.line("{")
	g.indent++
	for i := fn.Params; i < len(fn.Locals); i++ {
		lt, err := cType(fn.Locals[i].Type)
		if err != nil {
			return err
		}
		g.line("%s %s;", lt, localName(fn, ir.Local(i)))
	}
	if err := g.writeCommands(mod, fn, fn.Body); err != nil {
		return err
	}
	g.indent--
	g.line("}")
	g.line("")
	return nil
}
