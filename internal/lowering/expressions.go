package lowering

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/ir"
	"github.com/pallene-lang/pallenec/internal/types"
)

// lowerExp flattens e into zero or more supporting commands (emitted via
// b.emit) plus a single Value that names the result — either a literal
// or a reference to a Local holding a freshly computed temporary, per
// this "every compound subexpression becomes a fresh local" rule.
func (b *funcBuilder) lowerExp(e ast.Exp) ir.Value {
	b.curPos = e.Pos()
	switch ex := e.(type) {
	case *ast.NilExp:
		return ir.LiteralValue(nil)
	case *ast.BoolExp:
		return ir.LiteralValue(ex.Value)
	case *ast.IntegerExp:
		return ir.LiteralValue(ex.Value)
	case *ast.FloatExp:
		return ir.LiteralValue(ex.Value)
	case *ast.StringExp:
		return ir.LiteralValue(ex.Value)
	case *ast.ParenExp:
		return b.lowerExp(ex.Operand)
	case *ast.NameVar:
		return b.lowerNameVar(ex)
	case *ast.BracketVar:
		return b.lowerBracketLoad(ex)
	case *ast.DotVar:
		return b.lowerDotLoad(ex)
	case *ast.CastExp:
		return b.lowerCast(ex)
	case *ast.UnopExp:
		return b.lowerUnop(ex)
	case *ast.BinopExp:
		return b.lowerBinop(ex)
	case *ast.ConcatExp:
		return b.lowerConcat(ex)
	case *ast.CallFunc:
		return b.lowerCallFunc(ex)
	case *ast.CallMethod:
		return b.lowerCallMethod(ex)
	case *ast.InitList:
		return b.lowerInitList(ex)
	case *ast.LambdaExp:
		// Closures are not modeled in the IR: Pallene functions compile to
		// top-level C functions, and a nested "function(...) ... end"
		// value used as first-class data is represented only by name.
		return ir.LiteralValue("<lambda>")
	}
	return ir.LiteralValue(nil)
}

func (b *funcBuilder) lowerNameVar(ex *ast.NameVar) ir.Value {
	if l, ok := b.resolve(ex.Name); ok {
		return ir.LocalValue(l)
	}
	if l, ok := b.globals[ex.Name]; ok {
		return ir.LocalValue(l)
	}
	// A bare reference to a toplevel function used as a value rather
	// than called directly; codegen resolves it by name.
	return ir.LiteralValue(ex.Name)
}

// lowerExpTo lowers e and assigns its value into the already-allocated
// Local dst, used for global-variable initializers where the
// destination exists before the initializer is lowered.
func (b *funcBuilder) lowerExpTo(e ast.Exp, dst ir.Local) {
	v := b.lowerExp(e)
	b.emit(&ir.Assign{Dst: dst, Src: v})
}

func (b *funcBuilder) lowerBracketLoad(ex *ast.BracketVar) ir.Value {
	obj := b.lowerExp(ex.Object)
	key := b.lowerExp(ex.Key)
	dst := b.newTemp(ex.ExpType())
	b.emit(&ir.CheckedLoad{Dst: dst, Obj: obj, Key: key, Object: ex.Object.ExpType()})
	return ir.LocalValue(dst)
}

func (b *funcBuilder) lowerDotLoad(ex *ast.DotVar) ir.Value {
	obj := b.lowerExp(ex.Object)
	dst := b.newTemp(ex.ExpType())
	b.emit(&ir.CheckedLoad{Dst: dst, Obj: obj, Key: ir.LiteralValue(ex.Field), Object: ex.Object.ExpType()})
	return ir.LocalValue(dst)
}

// lowerAssignTarget lowers the left side of an assignment, emitting a
// CheckedStore for an indexed/field target or an Assign into the
// resolved local or global for a bare name.
func (b *funcBuilder) lowerAssignTarget(v ast.Var, value ir.Value) {
	switch t := v.(type) {
	case *ast.NameVar:
		if l, ok := b.resolve(t.Name); ok {
			b.emit(&ir.Assign{Dst: l, Src: value})
			return
		}
		if l, ok := b.globals[t.Name]; ok {
			b.emit(&ir.Assign{Dst: l, Src: value})
		}
	case *ast.BracketVar:
		obj := b.lowerExp(t.Object)
		key := b.lowerExp(t.Key)
		b.emit(&ir.CheckedStore{Obj: obj, Key: key, Value: value, Object: t.Object.ExpType()})
	case *ast.DotVar:
		obj := b.lowerExp(t.Object)
		b.emit(&ir.CheckedStore{Obj: obj, Key: ir.LiteralValue(t.Field), Value: value, Object: t.Object.ExpType()})
	}
}

func (b *funcBuilder) lowerCast(ex *ast.CastExp) ir.Value {
	src := b.lowerExp(ex.Operand)
	target := ex.ExpType()
	if ex.Operand.ExpType() != nil && target != nil && ex.Operand.ExpType().Equals(target) {
		return src
	}
	dst := b.newTemp(target)
	b.emit(&ir.Convert{Dst: dst, Src: src, Target: target})
	return ir.LocalValue(dst)
}

var unopNames = map[ast.UnopKind]string{
	ast.UnopNot:  "not",
	ast.UnopLen:  "#",
	ast.UnopNeg:  "-",
	ast.UnopBNot: "~",
}

func (b *funcBuilder) lowerUnop(ex *ast.UnopExp) ir.Value {
	arg := b.lowerExp(ex.Operand)
	dst := b.newTemp(ex.ExpType())
	b.emit(&ir.UnOp{Dst: dst, Op: unopNames[ex.Op], Arg: arg})
	return ir.LocalValue(dst)
}

var binopNames = map[ast.BinopKind]string{
	ast.BinopOr: "or", ast.BinopAnd: "and",
	ast.BinopEq: "==", ast.BinopNeq: "~=",
	ast.BinopLt: "<", ast.BinopGt: ">", ast.BinopLe: "<=", ast.BinopGe: ">=",
	ast.BinopBOr: "|", ast.BinopBXor: "~", ast.BinopBAnd: "&",
	ast.BinopShl: "<<", ast.BinopShr: ">>",
	ast.BinopAdd: "+", ast.BinopSub: "-", ast.BinopMul: "*",
	ast.BinopMod: "%", ast.BinopDiv: "/", ast.BinopIDiv: "//",
	ast.BinopPow: "^",
}

// lowerBinop flattens "and"/"or" into an If that writes a boolean
// temporary — short-circuit evaluation means the right operand must not
// be computed unconditionally — and every other binary operator into a
// single BinOp command.
func (b *funcBuilder) lowerBinop(ex *ast.BinopExp) ir.Value {
	if ex.Op == ast.BinopAnd || ex.Op == ast.BinopOr {
		return b.lowerShortCircuit(ex)
	}
	left := b.lowerExp(ex.Left)
	right := b.lowerExp(ex.Right)
	dst := b.newTemp(ex.ExpType())
	b.emit(&ir.BinOp{Dst: dst, Op: binopNames[ex.Op], Left: left, Right: right})
	return ir.LocalValue(dst)
}

func (b *funcBuilder) lowerShortCircuit(ex *ast.BinopExp) ir.Value {
	dst := b.newTemp(types.BOOLEAN)
	left := b.lowerExp(ex.Left)
	b.emit(&ir.Assign{Dst: dst, Src: left})

	var thenCmds, elseCmds []ir.Command
	saved := b.body
	if ex.Op == ast.BinopAnd {
		b.body = &thenCmds
		right := b.lowerExp(ex.Right)
		b.emit(&ir.Assign{Dst: dst, Src: right})
		b.body = saved
		b.emit(&ir.If{Cond: ir.LocalValue(dst), Then: thenCmds, Else: elseCmds})
	} else {
		b.body = &elseCmds
		right := b.lowerExp(ex.Right)
		b.emit(&ir.Assign{Dst: dst, Src: right})
		b.body = saved
		b.emit(&ir.If{Cond: ir.LocalValue(dst), Then: thenCmds, Else: elseCmds})
	}
	return ir.LocalValue(dst)
}

func (b *funcBuilder) lowerConcat(ex *ast.ConcatExp) ir.Value {
	operands := make([]ir.Value, len(ex.Operands))
	for i, o := range ex.Operands {
		operands[i] = b.lowerExp(o)
	}
	dst := b.newTemp(types.STRING)
	b.emit(&ir.Concat{Dst: dst, Operands: operands})
	return ir.LocalValue(dst)
}

// lowerCallFunc chooses the direct-call IR form when the callee is a
// bare name resolving to a known toplevel function, and the
// boxed form otherwise.
func (b *funcBuilder) lowerCallFunc(ex *ast.CallFunc) ir.Value {
	args := make([]ir.Value, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = b.lowerExp(a)
	}
	var dsts []ir.Local
	if ex.ExpType() != nil && ex.ExpType().Kind != types.KindNil {
		dsts = []ir.Local{b.newTemp(ex.ExpType())}
	}
	if nv, ok := ex.Callee.(*ast.NameVar); ok && b.funcNames[nv.Name] {
		b.emit(&ir.CallFunDirect{Dsts: dsts, Fun: nv.Name, Args: args})
	} else {
		fun := b.lowerExp(ex.Callee)
		b.emit(&ir.CallFunc{Dsts: dsts, Fun: fun, Args: args})
	}
	if len(dsts) == 0 {
		return ir.LiteralValue(nil)
	}
	return ir.LocalValue(dsts[0])
}

func (b *funcBuilder) lowerCallMethod(ex *ast.CallMethod) ir.Value {
	recv := b.lowerExp(ex.Receiver)
	args := make([]ir.Value, len(ex.Args)+1)
	args[0] = recv
	for i, a := range ex.Args {
		args[i+1] = b.lowerExp(a)
	}
	var dsts []ir.Local
	if ex.ExpType() != nil && ex.ExpType().Kind != types.KindNil {
		dsts = []ir.Local{b.newTemp(ex.ExpType())}
	}
	recvType := ex.Receiver.ExpType()
	name := ex.Method
	if recvType != nil {
		name = recvType.Name + ":" + ex.Method
	}
	b.emit(&ir.CallFunDirect{Dsts: dsts, Fun: name, Args: args})
	if len(dsts) == 0 {
		return ir.LiteralValue(nil)
	}
	return ir.LocalValue(dsts[0])
}

func (b *funcBuilder) lowerInitList(ex *ast.InitList) ir.Value {
	typ := types.Expand(ex.ExpType())
	dst := b.newTemp(ex.ExpType())
	if typ == nil {
		return ir.LocalValue(dst)
	}
	switch typ.Kind {
	case types.KindArray:
		values := make([]ir.Value, len(ex.Elems))
		for i, el := range ex.Elems {
			values[i] = b.lowerExp(el)
		}
		b.emit(&ir.NewArray{Dst: dst, Elem: typ.Elem, Size: ir.LiteralValue(int64(len(values)))})
		for i, v := range values {
			b.emit(&ir.CheckedStore{Obj: ir.LocalValue(dst), Key: ir.LiteralValue(int64(i)), Value: v, Object: typ})
		}
	case types.KindTable:
		keys := make([]string, len(ex.Elems))
		values := make([]ir.Value, len(ex.Elems))
		copy(keys, ex.Keys)
		for i, el := range ex.Elems {
			values[i] = b.lowerExp(el)
		}
		b.emit(&ir.NewTable{Dst: dst, Type: typ, Keys: keys, Values: values})
	case types.KindRecord:
		fields := make([]string, len(ex.Elems))
		values := make([]ir.Value, len(ex.Elems))
		copy(fields, ex.Keys)
		for i, el := range ex.Elems {
			values[i] = b.lowerExp(el)
		}
		b.emit(&ir.NewRecord{Dst: dst, Type: typ, Fields: fields, Values: values})
	}
	return ir.LocalValue(dst)
}
