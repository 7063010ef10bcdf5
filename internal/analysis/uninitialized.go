package analysis

import (
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/token"
)

type initState map[ir.Local]bool

func cloneState(s initState) initState {
	out := make(initState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// intersect returns the locals initialized in both a and b — the join
// operator for this forward dataflow analysis, used both for an If's two
// branches and for shrinking a loop's entry state toward its fixed
// point.
func intersect(a, b initState) initState {
	out := make(initState)
	for k, v := range a {
		if v && b[k] {
			out[k] = true
		}
	}
	return out
}

func equalStates(a, b initState) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// CheckUninitialized runs the forward dataflow analysis over one
// function: every Local must be definitely assigned along every path
// reaching a use. It stops and returns at the first violation found
//, rather than accumulating every one like the parser and
// checker do.
func CheckUninitialized(fn *ir.Function) *cerr.Error {
	in := make(initState)
	for i := 0; i < fn.Params; i++ {
		in[ir.Local(i)] = true
	}
	_, err := analyzeCmds(fn.Body, in, true)
	return err
}

func cmdPos(cmd ir.Command) token.Position {
	if p, ok := cmd.(interface{ Position() token.Position }); ok {
		return p.Position()
	}
	return token.Position{}
}

func checkValue(cmd ir.Command, v ir.Value, state initState, report bool) *cerr.Error {
	if !report || !v.IsLocalRef() {
		return nil
	}
	if state[v.Local] {
		return nil
	}
	return &cerr.Error{Pos: cmdPos(cmd), Kind: cerr.KindUninitialized, Message: "variable may be used before it is initialized"}
}

func checkValues(cmd ir.Command, vs []ir.Value, state initState, report bool) *cerr.Error {
	for _, v := range vs {
		if err := checkValue(cmd, v, state, report); err != nil {
			return err
		}
	}
	return nil
}

// analyzeCmds walks cmds in order starting from "in", returning the
// initialization state reached at the end of the list (or at the first
// violation, when report is true).
func analyzeCmds(cmds []ir.Command, in initState, report bool) (initState, *cerr.Error) {
	state := cloneState(in)
	for _, cmd := range cmds {
		var err *cerr.Error
		state, err = analyzeOne(cmd, state, report)
		if err != nil {
			return nil, err
		}
	}
	return state, nil
}

func analyzeOne(cmd ir.Command, state initState, report bool) (initState, *cerr.Error) {
	switch c := cmd.(type) {
	case *ir.If:
		if err := checkValue(cmd, c.Cond, state, report); err != nil {
			return nil, err
		}
		thenOut, err := analyzeCmds(c.Then, state, report)
		if err != nil {
			return nil, err
		}
		elseOut, err := analyzeCmds(c.Else, state, report)
		if err != nil {
			return nil, err
		}
		return intersect(thenOut, elseOut), nil

	case *ir.Loop:
		fixed, err := fixedPoint(c.Body, state)
		if err != nil {
			return nil, err
		}
		if _, err := analyzeCmds(c.Body, fixed, report); err != nil {
			return nil, err
		}
		// The loop may run zero times, so nothing it initializes is
		// guaranteed to have run by the time control reaches after it.
		return state, nil

	case *ir.ForNumInt:
		if err := checkValues(cmd, []ir.Value{c.Start, c.Limit, c.Step}, state, report); err != nil {
			return nil, err
		}
		bodyIn := cloneState(state)
		bodyIn[c.Var] = true
		fixed, err := fixedPoint(c.Body, bodyIn)
		if err != nil {
			return nil, err
		}
		if _, err := analyzeCmds(c.Body, fixed, report); err != nil {
			return nil, err
		}
		return state, nil

	case *ir.ForNumFloat:
		if err := checkValues(cmd, []ir.Value{c.Start, c.Limit, c.Step}, state, report); err != nil {
			return nil, err
		}
		bodyIn := cloneState(state)
		bodyIn[c.Var] = true
		fixed, err := fixedPoint(c.Body, bodyIn)
		if err != nil {
			return nil, err
		}
		if _, err := analyzeCmds(c.Body, fixed, report); err != nil {
			return nil, err
		}
		return state, nil

	case *ir.Break:
		return state, nil

	case *ir.Return:
		if err := checkValues(cmd, c.Values, state, report); err != nil {
			return nil, err
		}
		return state, nil

	case *ir.Assign:
		if err := checkValue(cmd, c.Src, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.Convert:
		if err := checkValue(cmd, c.Src, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.CheckedLoad:
		if err := checkValues(cmd, []ir.Value{c.Obj, c.Key}, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.CheckedStore:
		if err := checkValues(cmd, []ir.Value{c.Obj, c.Key, c.Value}, state, report); err != nil {
			return nil, err
		}
		return state, nil

	case *ir.CallFunDirect:
		if err := checkValues(cmd, c.Args, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		for _, d := range c.Dsts {
			out[d] = true
		}
		return out, nil

	case *ir.CallFunc:
		args := append([]ir.Value{c.Fun}, c.Args...)
		if err := checkValues(cmd, args, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		for _, d := range c.Dsts {
			out[d] = true
		}
		return out, nil

	case *ir.BinOp:
		if err := checkValues(cmd, []ir.Value{c.Left, c.Right}, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.UnOp:
		if err := checkValue(cmd, c.Arg, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.Concat:
		if err := checkValues(cmd, c.Operands, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.NewArray:
		if err := checkValue(cmd, c.Size, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.NewTable:
		if err := checkValues(cmd, c.Values, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil

	case *ir.NewRecord:
		if err := checkValues(cmd, c.Values, state, report); err != nil {
			return nil, err
		}
		out := cloneState(state)
		out[c.Dst] = true
		return out, nil
	}
	return state, nil
}

// fixedPoint computes the greatest state, bounded above by "in", that
// entering body is stable under running it an unbounded number of times
// — a local is only carried across the back edge as initialized if it is
// initialized both before the loop and at the end of every iteration
// starting from the current candidate entry state. This is a must
// analysis, so the candidate can only shrink (intersect), never grow
// (union): a local first read and only later assigned within the body
// must still be reported as possibly uninitialized on the loop's first
// iteration, which a growing fixed point would incorrectly clear once
// the back edge marked it initialized. No diagnostic is reported while
// converging, since an intermediate candidate is not yet known to be the
// real entry state; the caller re-analyzes body once more against the
// fixed point with reporting enabled.
func fixedPoint(body []ir.Command, in initState) (initState, *cerr.Error) {
	cur := cloneState(in)
	for {
		next, err := analyzeCmds(body, cur, false)
		if err != nil {
			// A real violation exists even on a body that might run
			// once; surface it once reporting is turned on by the
			// caller's real pass, so here we simply stop shrinking.
			return cur, nil
		}
		shrunk := intersect(in, next)
		if equalStates(shrunk, cur) {
			return cur, nil
		}
		cur = shrunk
	}
}
