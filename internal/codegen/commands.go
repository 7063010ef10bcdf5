package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pallene-lang/pallenec/internal/ir"
)

// renderValue renders an ir.Value as a C expression: a local's generated
// name, or a literal rendered in the target type's C syntax.
func renderValue(fn *ir.Function, v ir.Value) (string, error) {
	if v.IsLocalRef() {
		return localName(fn, v.Local), nil
	}
	switch lit := v.Literal.(type) {
	case nil:
		return "NULL", nil
	case bool:
		if lit {
			return "true", nil
		}
		return "false", nil
	case int64:
		return strconv.FormatInt(lit, 10), nil
	case float64:
		return strconv.FormatFloat(lit, 'g', -1, 64), nil
	case string:
		return fmt.Sprintf("pallene_new_string_literal(%s, %d)", strconv.Quote(lit), len(lit)), nil
	default:
		return "", fmt.Errorf("codegen: unrenderable literal %T", lit)
	}
}

// binOpExpr maps an ir.BinOp's operator string to the C operator or
// runtime call that implements it. Pallene's "//" and "^" have no direct
// C equivalent, so they go through a runtime helper instead of raw C
// syntax; binary "~" is spelled as C's "^".
func binOpExpr(fn *ir.Function, op string, left, right ir.Value) (string, error) {
	l, err := renderValue(fn, left)
	if err != nil {
		return "", err
	}
	r, err := renderValue(fn, right)
	if err != nil {
		return "", err
	}
	switch op {
	case "+", "-", "*", "/", "%", "<", ">", "<=", ">=", "&", "|", "<<", ">>":
		return fmt.Sprintf("(%s %s %s)", l, op, r), nil
	case "==":
		return fmt.Sprintf("(%s == %s)", l, r), nil
	case "~=":
		return fmt.Sprintf("(%s != %s)", l, r), nil
	case "~":
		// Pallene's binary "~" is bitwise xor; C spells it "^", which
		// Pallene instead reserves for exponentiation (below).
		return fmt.Sprintf("(%s ^ %s)", l, r), nil
	case "//":
		return fmt.Sprintf("pallene_idiv(%s, %s)", l, r), nil
	case "^":
		return fmt.Sprintf("pallene_pow(%s, %s)", l, r), nil
	default:
		return "", fmt.Errorf("codegen: unknown binary operator %q", op)
	}
}

func unOpExpr(fn *ir.Function, op string, arg ir.Value) (string, error) {
	a, err := renderValue(fn, arg)
	if err != nil {
		return "", err
	}
	switch op {
	case "-":
		return fmt.Sprintf("(-%s)", a), nil
	case "not":
		return fmt.Sprintf("(!%s)", a), nil
	case "~":
		return fmt.Sprintf("(~%s)", a), nil
	case "#":
		return fmt.Sprintf("pallene_len(%s)", a), nil
	default:
		return "", fmt.Errorf("codegen: unknown unary operator %q", op)
	}
}

func (g *generator) writeCommands(mod *ir.Module, fn *ir.Function, cmds []ir.Command) error {
	for _, cmd := range cmds {
		if err := g.writeCommand(mod, fn, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) writeCommand(mod *ir.Module, fn *ir.Function, cmd ir.Command) error {
	switch c := cmd.(type) {
	case *ir.If:
		cond, err := renderValue(fn, c.Cond)
		if err != nil {
			return err
		}
		g.line("if (%s) {", cond)
		g.indent++
		if err := g.writeCommands(mod, fn, c.Then); err != nil {
			return err
		}
		g.indent--
		if len(c.Else) > 0 {
			g.line("} else {")
			g.indent++
			if err := g.writeCommands(mod, fn, c.Else); err != nil {
				return err
			}
			g.indent--
		}
		g.line("}")
		return nil

	case *ir.Loop:
		g.line("while (true) {")
		g.indent++
		if err := g.writeCommands(mod, fn, c.Body); err != nil {
			return err
		}
		g.indent--
		g.line("}")
		return nil

	case *ir.ForNumInt:
		return g.writeForNum(mod, fn, "int64_t", c.Var, c.Start, c.Limit, c.Step, c.Body)

	case *ir.ForNumFloat:
		return g.writeForNum(mod, fn, "double", c.Var, c.Start, c.Limit, c.Step, c.Body)

	case *ir.Break:
		g.line("break;")
		return nil

	case *ir.Return:
		return g.writeReturn(mod, fn, c.Values)

	case *ir.Assign:
		src, err := renderValue(fn, c.Src)
		if err != nil {
			return err
		}
		g.line("%s = %s;", localName(fn, c.Dst), src)
		return nil

	case *ir.Convert:
		src, err := renderValue(fn, c.Src)
		if err != nil {
			return err
		}
		ct, err := cType(c.Target)
		if err != nil {
			return err
		}
		g.line("%s = (%s) %s;", localName(fn, c.Dst), ct, src)
		return nil

	case *ir.CheckedLoad:
		obj, err := renderValue(fn, c.Obj)
		if err != nil {
			return err
		}
		key, err := renderValue(fn, c.Key)
		if err != nil {
			return err
		}
		g.line("%s = pallene_load(%s, %s);", localName(fn, c.Dst), obj, key)
		return nil

	case *ir.CheckedStore:
		obj, err := renderValue(fn, c.Obj)
		if err != nil {
			return err
		}
		key, err := renderValue(fn, c.Key)
		if err != nil {
			return err
		}
		val, err := renderValue(fn, c.Value)
		if err != nil {
			return err
		}
		g.line("pallene_store(%s, %s, %s);", obj, key, val)
		return nil

	case *ir.CallFunDirect:
		return g.writeCall(mod, fn, c.Dsts, mod.Name+"_"+c.Fun, c.Args)

	case *ir.CallFunc:
		return g.writeBoxedCall(mod, fn, c.Dsts, c.Fun, c.Args)

	case *ir.BinOp:
		expr, err := binOpExpr(fn, c.Op, c.Left, c.Right)
		if err != nil {
			return err
		}
		g.line("%s = %s;", localName(fn, c.Dst), expr)
		return nil

	case *ir.UnOp:
		expr, err := unOpExpr(fn, c.Op, c.Arg)
		if err != nil {
			return err
		}
		g.line("%s = %s;", localName(fn, c.Dst), expr)
		return nil

	case *ir.Concat:
		return g.writeConcat(fn, c)

	case *ir.NewArray:
		size, err := renderValue(fn, c.Size)
		if err != nil {
			return err
		}
		g.line("%s = pallene_new_array(%s);", localName(fn, c.Dst), size)
		return nil

	case *ir.NewTable:
		return g.writeNewTable(fn, c)

	case *ir.NewRecord:
		return g.writeNewRecord(fn, c)

	default:
		return fmt.Errorf("codegen: unhandled command %T", cmd)
	}
}

func (g *generator) writeForNum(mod *ir.Module, fn *ir.Function, ctype string, v ir.Local, start, limit, step ir.Value, body []ir.Command) error {
	s, err := renderValue(fn, start)
	if err != nil {
		return err
	}
	l, err := renderValue(fn, limit)
	if err != nil {
		return err
	}
	st, err := renderValue(fn, step)
	if err != nil {
		return err
	}
	name := localName(fn, v)
	// Step direction is only known at runtime (spec 4.3 allows a
	// non-literal step), so the continuation test picks <= or >= with a
	// ternary rather than assuming an ascending loop.
	g.line("for (%s = %s; (%s >= 0) ? (%s <= %s) : (%s >= %s); %s += %s) {", name, s, st, name, l, name, l, name, st)
	g.indent++
	if err := g.writeCommands(mod, fn, body); err != nil {
		return err
	}
	g.indent--
	g.line("}")
	return nil
}

func (g *generator) writeReturn(mod *ir.Module, fn *ir.Function, values []ir.Value) error {
	for i := 1; i < len(values); i++ {
		v, err := renderValue(fn, values[i])
		if err != nil {
			return err
		}
		g.line("*out%d = %s;", i, v)
	}
	if len(values) == 0 {
		g.line("return;")
		return nil
	}
	v, err := renderValue(fn, values[0])
	if err != nil {
		return err
	}
	g.line("return %s;", v)
	return nil
}

func (g *generator) writeCall(mod *ir.Module, fn *ir.Function, dsts []ir.Local, callee string, args []ir.Value) error {
	argStrs := make([]string, 0, len(args))
	for _, a := range args {
		s, err := renderValue(fn, a)
		if err != nil {
			return err
		}
		argStrs = append(argStrs, s)
	}
	for i := 1; i < len(dsts); i++ {
		argStrs = append(argStrs, "&"+localName(fn, dsts[i]))
	}
	call := fmt.Sprintf("%s(%s)", callee, strings.Join(argStrs, ", "))
	if len(dsts) == 0 {
		g.line("%s;", call)
		return nil
	}
	g.line("%s = %s;", localName(fn, dsts[0]), call)
	return nil
}

// writeBoxedCall calls a first-class function value through the runtime's
// boxed calling convention, rather than emitting a direct C call
// as writeCall does for statically known callees.
func (g *generator) writeBoxedCall(mod *ir.Module, fn *ir.Function, dsts []ir.Local, callee ir.Value, args []ir.Value) error {
	fv, err := renderValue(fn, callee)
	if err != nil {
		return err
	}
	argStrs := make([]string, 0, len(args))
	for _, a := range args {
		s, err := renderValue(fn, a)
		if err != nil {
			return err
		}
		argStrs = append(argStrs, s)
	}
	argsExpr := "NULL"
	if len(argStrs) > 0 {
		g.line("pallene_value_t __args[] = { %s };", strings.Join(argStrs, ", "))
		argsExpr = "__args"
	}
	call := fmt.Sprintf("pallene_call(%s, %s, %d)", fv, argsExpr, len(args))
	if len(dsts) == 0 {
		g.line("%s;", call)
		return nil
	}
	g.line("%s = %s;", localName(fn, dsts[0]), call)
	return nil
}

func (g *generator) writeConcat(fn *ir.Function, c *ir.Concat) error {
	parts := make([]string, 0, len(c.Operands))
	for _, op := range c.Operands {
		s, err := renderValue(fn, op)
		if err != nil {
			return err
		}
		parts = append(parts, s)
	}
	g.line("pallene_string_t *__concat_parts[] = { %s };", strings.Join(parts, ", "))
	g.line("%s = pallene_concat(__concat_parts, %d);", localName(fn, c.Dst), len(parts))
	return nil
}

func (g *generator) writeNewTable(fn *ir.Function, c *ir.NewTable) error {
	g.line("%s = pallene_new_table();", localName(fn, c.Dst))
	for i, key := range c.Keys {
		v, err := renderValue(fn, c.Values[i])
		if err != nil {
			return err
		}
		g.line("pallene_store(%s, pallene_new_string_literal(%s, %d), %s);",
			localName(fn, c.Dst), strconv.Quote(key), len(key), v)
	}
	return nil
}

func (g *generator) writeNewRecord(fn *ir.Function, c *ir.NewRecord) error {
	g.line("%s = pallene_new_record(%s);", localName(fn, c.Dst), strconv.Quote(c.Type.Name))
	for i, field := range c.Fields {
		v, err := renderValue(fn, c.Values[i])
		if err != nil {
			return err
		}
		g.line("pallene_store(%s, pallene_new_string_literal(%s, %d), %s);",
			localName(fn, c.Dst), strconv.Quote(field), len(field), v)
	}
	return nil
}
