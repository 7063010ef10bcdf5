package analysis

import (
	"math"

	"github.com/pallene-lang/pallenec/internal/ir"
)

// constEnv tracks which locals are currently known to hold a literal
// value within one straight-line run of commands. It is copied (never
// shared) across a branch or loop body, so propagation never assumes
// knowledge that depends on which path control actually took, and every
// local a branch or loop body may reassign is invalidated in the
// surrounding env once that body has been processed.
type constEnv map[ir.Local]any

func (e constEnv) clone() constEnv {
	out := make(constEnv, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// PropagateConstants rewrites fn's body in place: every read of a local
// known (within its straight-line scope) to hold a literal is replaced
// by that literal, and a BinOp/UnOp command whose operands are all
// literals after substitution is folded into a plain Assign. A Concat
// only has its operands substituted; it is never folded. Folding uses
// Go's native int64/float64 arithmetic (with "//" rounded toward
// negative infinity), and a division or modulo by a literal zero is left
// unfolded so the runtime division error still happens at the original
// call site.
func PropagateConstants(fn *ir.Function) {
	propagateCmds(fn.Body, make(constEnv))
}

func propagateCmds(cmds []ir.Command, env constEnv) {
	for i, cmd := range cmds {
		cmds[i] = propagateOne(cmd, env)
	}
}

func substValue(v ir.Value, env constEnv) ir.Value {
	if v.IsLocalRef() {
		if lit, ok := env[v.Local]; ok {
			return ir.LiteralValue(lit)
		}
	}
	return v
}

func substValues(vs []ir.Value, env constEnv) {
	for i, v := range vs {
		vs[i] = substValue(v, env)
	}
}

// assignedLocals collects every local that cmds (recursively, including
// nested If/Loop/ForNum bodies) writes to. A numeric for's own loop
// variable counts as written, since it changes every iteration.
func assignedLocals(cmds []ir.Command) map[ir.Local]bool {
	out := make(map[ir.Local]bool)
	collectAssigned(cmds, out)
	return out
}

func collectAssigned(cmds []ir.Command, out map[ir.Local]bool) {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case *ir.If:
			collectAssigned(c.Then, out)
			collectAssigned(c.Else, out)
		case *ir.Loop:
			collectAssigned(c.Body, out)
		case *ir.ForNumInt:
			out[c.Var] = true
			collectAssigned(c.Body, out)
		case *ir.ForNumFloat:
			out[c.Var] = true
			collectAssigned(c.Body, out)
		case *ir.Assign:
			out[c.Dst] = true
		case *ir.Convert:
			out[c.Dst] = true
		case *ir.CheckedLoad:
			out[c.Dst] = true
		case *ir.CallFunDirect:
			for _, d := range c.Dsts {
				out[d] = true
			}
		case *ir.CallFunc:
			for _, d := range c.Dsts {
				out[d] = true
			}
		case *ir.BinOp:
			out[c.Dst] = true
		case *ir.UnOp:
			out[c.Dst] = true
		case *ir.Concat:
			out[c.Dst] = true
		case *ir.NewArray:
			out[c.Dst] = true
		case *ir.NewTable:
			out[c.Dst] = true
		case *ir.NewRecord:
			out[c.Dst] = true
		}
	}
}

// invalidate drops every local in assigned from env: once a local may
// have been reassigned to a non-constant value by a branch or a loop
// iteration, env must stop reporting its pre-branch/pre-loop literal.
func invalidate(env constEnv, assigned map[ir.Local]bool) {
	for l := range assigned {
		delete(env, l)
	}
}

func propagateOne(cmd ir.Command, env constEnv) ir.Command {
	switch c := cmd.(type) {
	case *ir.If:
		c.Cond = substValue(c.Cond, env)
		assigned := assignedLocals(c.Then)
		for l := range assignedLocals(c.Else) {
			assigned[l] = true
		}
		propagateCmds(c.Then, env.clone())
		propagateCmds(c.Else, env.clone())
		// A local either branch may have reassigned can no longer be
		// trusted to hold its pre-If value once control rejoins.
		invalidate(env, assigned)
		return c

	case *ir.Loop:
		assigned := assignedLocals(c.Body)
		bodyEnv := env.clone()
		// The body may run more than once; a local it reassigns can't
		// be trusted to still hold the pre-loop value even on the body's
		// own first read of it.
		invalidate(bodyEnv, assigned)
		propagateCmds(c.Body, bodyEnv)
		invalidate(env, assigned)
		return c

	case *ir.ForNumInt:
		c.Start = substValue(c.Start, env)
		c.Limit = substValue(c.Limit, env)
		c.Step = substValue(c.Step, env)
		assigned := assignedLocals(c.Body)
		assigned[c.Var] = true
		bodyEnv := env.clone()
		invalidate(bodyEnv, assigned)
		propagateCmds(c.Body, bodyEnv)
		invalidate(env, assigned)
		return c

	case *ir.ForNumFloat:
		c.Start = substValue(c.Start, env)
		c.Limit = substValue(c.Limit, env)
		c.Step = substValue(c.Step, env)
		assigned := assignedLocals(c.Body)
		assigned[c.Var] = true
		bodyEnv := env.clone()
		invalidate(bodyEnv, assigned)
		propagateCmds(c.Body, bodyEnv)
		invalidate(env, assigned)
		return c

	case *ir.Return:
		substValues(c.Values, env)
		return c

	case *ir.Assign:
		c.Src = substValue(c.Src, env)
		if c.Src.IsLiteral() {
			env[c.Dst] = c.Src.Literal
		} else {
			delete(env, c.Dst)
		}
		return c

	case *ir.Convert:
		c.Src = substValue(c.Src, env)
		delete(env, c.Dst)
		return c

	case *ir.CheckedLoad:
		c.Obj = substValue(c.Obj, env)
		c.Key = substValue(c.Key, env)
		delete(env, c.Dst)
		return c

	case *ir.CheckedStore:
		c.Obj = substValue(c.Obj, env)
		c.Key = substValue(c.Key, env)
		c.Value = substValue(c.Value, env)
		return c

	case *ir.CallFunDirect:
		substValues(c.Args, env)
		for _, d := range c.Dsts {
			delete(env, d)
		}
		return c

	case *ir.CallFunc:
		c.Fun = substValue(c.Fun, env)
		substValues(c.Args, env)
		for _, d := range c.Dsts {
			delete(env, d)
		}
		return c

	case *ir.BinOp:
		c.Left = substValue(c.Left, env)
		c.Right = substValue(c.Right, env)
		if folded, ok := foldBinOp(c.Op, c.Left, c.Right); ok {
			env[c.Dst] = folded
			return &ir.Assign{Dst: c.Dst, Src: ir.LiteralValue(folded)}
		}
		delete(env, c.Dst)
		return c

	case *ir.UnOp:
		c.Arg = substValue(c.Arg, env)
		if folded, ok := foldUnOp(c.Op, c.Arg); ok {
			env[c.Dst] = folded
			return &ir.Assign{Dst: c.Dst, Src: ir.LiteralValue(folded)}
		}
		delete(env, c.Dst)
		return c

	case *ir.Concat:
		substValues(c.Operands, env)
		delete(env, c.Dst)
		return c

	case *ir.NewArray:
		c.Size = substValue(c.Size, env)
		delete(env, c.Dst)
		return c

	case *ir.NewTable:
		substValues(c.Values, env)
		delete(env, c.Dst)
		return c

	case *ir.NewRecord:
		substValues(c.Values, env)
		delete(env, c.Dst)
		return c
	}
	return cmd
}

func foldUnOp(op string, arg ir.Value) (any, bool) {
	if !arg.IsLiteral() {
		return nil, false
	}
	switch op {
	case "not":
		if b, ok := arg.Literal.(bool); ok {
			return !b, true
		}
	case "-":
		switch v := arg.Literal.(type) {
		case int64:
			return -v, true
		case float64:
			return -v, true
		}
	case "~":
		if v, ok := arg.Literal.(int64); ok {
			return ^v, true
		}
	}
	return nil, false
}

// foldBinOp folds a binary operator over two literal operands using Go's
// native int64/float64 arithmetic, which matches the wraparound and
// rounding behavior of the int64_t/double the generated C uses for the
// same operator; integer "//" is a floor division (the generated C calls
// a runtime helper for it rather than C's truncating "/"), so the fold
// rounds toward negative infinity too. Division and modulo by a literal zero are deliberately
// left unfolded: the program is still well-typed, and folding would turn
// a runtime division error into a compile-time panic in this compiler
// itself rather than in the generated code.
func foldBinOp(op string, left, right ir.Value) (any, bool) {
	if !left.IsLiteral() || !right.IsLiteral() {
		return nil, false
	}
	li, lIsInt := left.Literal.(int64)
	ri, rIsInt := right.Literal.(int64)
	if lIsInt && rIsInt {
		switch op {
		case "+":
			return li + ri, true
		case "-":
			return li - ri, true
		case "*":
			return li * ri, true
		case "%":
			if ri == 0 {
				return nil, false
			}
			return li % ri, true
		case "//":
			if ri == 0 {
				return nil, false
			}
			q := li / ri
			if li%ri != 0 && (li < 0) != (ri < 0) {
				q--
			}
			return q, true
		case "&":
			return li & ri, true
		case "|":
			return li | ri, true
		case "~":
			return li ^ ri, true
		case "<<":
			return li << uint64(ri), true
		case ">>":
			return li >> uint64(ri), true
		case "<":
			return li < ri, true
		case ">":
			return li > ri, true
		case "<=":
			return li <= ri, true
		case ">=":
			return li >= ri, true
		case "==":
			return li == ri, true
		case "~=":
			return li != ri, true
		case "/":
			return float64(li) / float64(ri), true
		case "^":
			return pow(float64(li), float64(ri)), true
		}
		return nil, false
	}

	lf, lIsFloatLit := asFloat(left.Literal)
	rf, rIsFloatLit := asFloat(right.Literal)
	if lIsFloatLit && rIsFloatLit {
		switch op {
		case "+":
			return lf + rf, true
		case "-":
			return lf - rf, true
		case "*":
			return lf * rf, true
		case "/":
			return lf / rf, true
		case "^":
			return pow(lf, rf), true
		case "<":
			return lf < rf, true
		case ">":
			return lf > rf, true
		case "<=":
			return lf <= rf, true
		case ">=":
			return lf >= rf, true
		case "==":
			return lf == rf, true
		case "~=":
			return lf != rf, true
		}
		return nil, false
	}

	if ls, ok := left.Literal.(string); ok {
		if rs, ok := right.Literal.(string); ok {
			switch op {
			case "==":
				return ls == rs, true
			case "~=":
				return ls != rs, true
			}
		}
	}
	return nil, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// pow implements "^" (always float), including fractional and negative
// exponents.
func pow(base, exp float64) float64 {
	return math.Pow(base, exp)
}
