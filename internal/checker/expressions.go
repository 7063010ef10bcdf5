package checker

import (
	"github.com/pallene-lang/pallenec/internal/ast"
	"github.com/pallene-lang/pallenec/internal/cerr"
	"github.com/pallene-lang/pallenec/internal/types"
)

// checkExp types exp in scope, annotating its type slot, and returns
// the resolved type for the caller's convenience. ctxType, when
// non-nil, is the type an enclosing declaration/parameter/return
// expects — InitList is the only expression that requires it, since a
// bare "{ ... }" literal does not say on its own whether it is an
// Array or a Table.
func (c *Checker) checkExp(scope *Scope, exp ast.Exp, ctxType *types.Type) *types.Type {
	var t *types.Type
	switch e := exp.(type) {
	case *ast.NilExp:
		t = types.NIL
	case *ast.BoolExp:
		t = types.BOOLEAN
	case *ast.IntegerExp:
		t = types.INTEGER
	case *ast.FloatExp:
		t = types.FLOAT
	case *ast.StringExp:
		t = types.STRING
	case *ast.NameVar:
		t = c.checkNameVar(scope, e)
	case *ast.BracketVar:
		t = c.checkBracketVar(scope, e)
	case *ast.DotVar:
		t = c.checkDotVar(scope, e)
	case *ast.ParenExp:
		t = c.checkExp(scope, e.Operand, nil)
	case *ast.CastExp:
		t = c.checkCastExp(scope, e)
	case *ast.UnopExp:
		t = c.checkUnopExp(scope, e)
	case *ast.BinopExp:
		t = c.checkBinopExp(scope, e)
	case *ast.ConcatExp:
		t = c.checkConcatExp(scope, e)
	case *ast.CallFunc:
		t = c.checkCallFunc(scope, e)
	case *ast.CallMethod:
		t = c.checkCallMethod(scope, e)
	case *ast.InitList:
		t = c.checkInitList(scope, e, ctxType)
	case *ast.LambdaExp:
		t = c.checkLambdaExp(scope, e)
	default:
		t = types.ANY
	}
	exp.SetType(t)
	return t
}

func (c *Checker) checkNameVar(scope *Scope, e *ast.NameVar) *types.Type {
	sym, ok := scope.Resolve(e.Name)
	if !ok {
		c.errorf(e.Pos(), cerr.KindName, "'%s' is not declared", e.Name)
		return types.ANY
	}
	return sym.Type
}

func (c *Checker) checkBracketVar(scope *Scope, e *ast.BracketVar) *types.Type {
	objType := types.Expand(c.checkExp(scope, e.Object, nil))
	keyType := c.checkExp(scope, e.Key, nil)
	switch {
	case objType == nil:
		return types.ANY
	case objType.Kind == types.KindArray:
		if !types.INTEGER.Equals(keyType) {
			c.errorf(e.Key.Pos(), cerr.KindType, "array index must be an integer, found %s", keyType)
		}
		return objType.Elem
	case objType.Kind == types.KindAny:
		return types.ANY
	default:
		c.errorf(e.Object.Pos(), cerr.KindType, "cannot index a value of type %s", objType)
		return types.ANY
	}
}

func (c *Checker) checkDotVar(scope *Scope, e *ast.DotVar) *types.Type {
	objType := types.Expand(c.checkExp(scope, e.Object, nil))
	switch {
	case objType == nil:
		return types.ANY
	case objType.Kind == types.KindRecord:
		if ft, ok := objType.RecordFields[e.Field]; ok {
			return ft
		}
		c.errorf(e.Pos(), cerr.KindType, "record %s has no field '%s'", objType.Name, e.Field)
		return types.ANY
	case objType.Kind == types.KindTable:
		if ft, ok := objType.Fields[e.Field]; ok {
			return ft
		}
		c.errorf(e.Pos(), cerr.KindType, "table has no field '%s'", e.Field)
		return types.ANY
	case objType.Kind == types.KindAny:
		return types.ANY
	default:
		c.errorf(e.Object.Pos(), cerr.KindType, "cannot access field '%s' on a value of type %s", e.Field, objType)
		return types.ANY
	}
}

func (c *Checker) checkCastExp(scope *Scope, e *ast.CastExp) *types.Type {
	c.checkExp(scope, e.Operand, nil)
	return c.resolveTypeExpr(e.TypeExpr)
}

func (c *Checker) checkUnopExp(scope *Scope, e *ast.UnopExp) *types.Type {
	operand := types.Expand(c.checkExp(scope, e.Operand, nil))
	switch e.Op {
	case ast.UnopNot:
		if operand != nil && !operand.Equals(types.BOOLEAN) {
			c.errorf(e.Pos(), cerr.KindType, "'not' requires a boolean operand, found %s", operand)
		}
		return types.BOOLEAN
	case ast.UnopLen:
		if operand != nil && operand.Kind != types.KindArray && operand.Kind != types.KindString && operand.Kind != types.KindAny {
			c.errorf(e.Pos(), cerr.KindType, "'#' requires an array or string operand, found %s", operand)
		}
		return types.INTEGER
	case ast.UnopNeg:
		if operand != nil && !types.IsNumeric(operand) && operand.Kind != types.KindAny {
			c.errorf(e.Pos(), cerr.KindType, "unary '-' requires a numeric operand, found %s", operand)
			return types.ANY
		}
		return operand
	case ast.UnopBNot:
		if operand != nil && !operand.Equals(types.INTEGER) {
			c.errorf(e.Pos(), cerr.KindType, "'~' requires an integer operand, found %s", operand)
		}
		return types.INTEGER
	}
	return types.ANY
}

// checkBinopExp types a binary operator application, inserting an
// implicit CastExp when one numeric operand is integer and the other
// float so lowering never has
// to re-derive the promotion.
func (c *Checker) checkBinopExp(scope *Scope, e *ast.BinopExp) *types.Type {
	left := types.Expand(c.checkExp(scope, e.Left, nil))
	right := types.Expand(c.checkExp(scope, e.Right, nil))

	switch e.Op {
	case ast.BinopOr, ast.BinopAnd:
		c.expectBoolean(e.Left, left)
		c.expectBoolean(e.Right, right)
		return types.BOOLEAN
	case ast.BinopEq, ast.BinopNeq:
		if left != nil && right != nil && !left.Equals(right) && left.Kind != types.KindAny && right.Kind != types.KindAny {
			c.errorf(e.Pos(), cerr.KindType, "cannot compare %s with %s", left, right)
		}
		return types.BOOLEAN
	case ast.BinopLt, ast.BinopGt, ast.BinopLe, ast.BinopGe:
		c.promoteNumericOperands(e, left, right)
		return types.BOOLEAN
	case ast.BinopBOr, ast.BinopBXor, ast.BinopBAnd, ast.BinopShl, ast.BinopShr:
		c.expectInteger(e.Left, left)
		c.expectInteger(e.Right, right)
		return types.INTEGER
	case ast.BinopDiv, ast.BinopPow:
		// "/" and "^" always yield float, even for two integer operands,
		// so an integer operand not already promoted is cast to float.
		if c.promoteNumericOperands(e, left, right).Kind != types.KindFloat {
			if left != nil && left.Kind == types.KindInteger {
				e.Left = wrapCast(e.Left, types.FLOAT)
			}
			if right != nil && right.Kind == types.KindInteger {
				e.Right = wrapCast(e.Right, types.FLOAT)
			}
		}
		return types.FLOAT
	case ast.BinopAdd, ast.BinopSub, ast.BinopMul, ast.BinopMod, ast.BinopIDiv:
		return c.promoteNumericOperands(e, left, right)
	}
	return types.ANY
}

func (c *Checker) expectBoolean(exp ast.Exp, t *types.Type) {
	if t != nil && !t.Equals(types.BOOLEAN) {
		c.errorf(exp.Pos(), cerr.KindType, "expected a boolean, found %s", t)
	}
}

func (c *Checker) expectInteger(exp ast.Exp, t *types.Type) {
	if t != nil && !t.Equals(types.INTEGER) {
		c.errorf(exp.Pos(), cerr.KindType, "expected an integer, found %s", t)
	}
}

// promoteNumericOperands reports a type error unless both operands are
// numeric, and returns float if either operand is float, else integer —
// the result type for "+ - * % //", and also inserts explicit CastExp
// nodes on the integer side of a mixed pair so lowering sees the
// promotion directly rather than re-deriving it from types.
func (c *Checker) promoteNumericOperands(e *ast.BinopExp, left, right *types.Type) *types.Type {
	leftOK := left != nil && (types.IsNumeric(left) || left.Kind == types.KindAny)
	rightOK := right != nil && (types.IsNumeric(right) || right.Kind == types.KindAny)
	if !leftOK {
		c.errorf(e.Left.Pos(), cerr.KindType, "expected a numeric operand, found %s", left)
	}
	if !rightOK {
		c.errorf(e.Right.Pos(), cerr.KindType, "expected a numeric operand, found %s", right)
	}
	if left != nil && left.Kind == types.KindFloat || right != nil && right.Kind == types.KindFloat {
		if left != nil && left.Kind == types.KindInteger {
			e.Left = wrapCast(e.Left, types.FLOAT)
		}
		if right != nil && right.Kind == types.KindInteger {
			e.Right = wrapCast(e.Right, types.FLOAT)
		}
		return types.FLOAT
	}
	return types.INTEGER
}

func wrapCast(exp ast.Exp, target *types.Type) ast.Exp {
	c := &ast.CastExp{Operand: exp, Implicit: true}
	c.StartPos = exp.Pos()
	c.SetType(target)
	return c
}

func (c *Checker) checkConcatExp(scope *Scope, e *ast.ConcatExp) *types.Type {
	for _, operand := range e.Operands {
		t := types.Expand(c.checkExp(scope, operand, nil))
		if t != nil && t.Kind != types.KindString && !types.IsNumeric(t) && t.Kind != types.KindAny {
			c.errorf(operand.Pos(), cerr.KindType, "'..' requires a string or numeric operand, found %s", t)
		}
	}
	return types.STRING
}

func (c *Checker) checkCallFunc(scope *Scope, e *ast.CallFunc) *types.Type {
	calleeType := types.Expand(c.checkExp(scope, e.Callee, nil))
	if calleeType == nil || calleeType.Kind == types.KindAny {
		for _, a := range e.Args {
			c.checkExp(scope, a, nil)
		}
		return types.ANY
	}
	if calleeType.Kind != types.KindFunction {
		c.errorf(e.Callee.Pos(), cerr.KindType, "cannot call a value of type %s", calleeType)
		for _, a := range e.Args {
			c.checkExp(scope, a, nil)
		}
		return types.ANY
	}
	if len(e.Args) != len(calleeType.Params) {
		c.errorf(e.Pos(), cerr.KindType, "function expects %d argument(s), got %d", len(calleeType.Params), len(e.Args))
	}
	for i, a := range e.Args {
		var paramType *types.Type
		if i < len(calleeType.Params) {
			paramType = calleeType.Params[i]
		}
		argType := c.checkExp(scope, a, paramType)
		if paramType != nil && argType != nil && !argType.Equals(paramType) && paramType.Kind != types.KindAny && argType.Kind != types.KindAny {
			c.errorf(a.Pos(), cerr.KindType, "argument %d: expected %s, found %s", i+1, paramType, argType)
		}
	}
	if len(calleeType.Rets) == 0 {
		return types.NIL
	}
	return calleeType.Rets[0]
}

func (c *Checker) checkCallMethod(scope *Scope, e *ast.CallMethod) *types.Type {
	recvType := types.Expand(c.checkExp(scope, e.Receiver, nil))
	for _, a := range e.Args {
		c.checkExp(scope, a, nil)
	}
	if recvType == nil || recvType.Kind == types.KindAny {
		return types.ANY
	}
	if recvType.Kind != types.KindRecord {
		c.errorf(e.Receiver.Pos(), cerr.KindType, "cannot call method '%s' on a value of type %s", e.Method, recvType)
		return types.ANY
	}
	methodType, ok := recvType.RecordFields[e.Method]
	if !ok || methodType.Kind != types.KindFunction {
		c.errorf(e.Pos(), cerr.KindType, "record %s has no method '%s'", recvType.Name, e.Method)
		return types.ANY
	}
	if len(methodType.Rets) == 0 {
		return types.NIL
	}
	return methodType.Rets[0]
}

// checkInitList types "{ ... }" against ctxType, which must be an
// Array or Table — InitList cannot be checked standalone.
func (c *Checker) checkInitList(scope *Scope, e *ast.InitList, ctxType *types.Type) *types.Type {
	ctx := types.Expand(ctxType)
	if ctx == nil {
		c.errorf(e.Pos(), cerr.KindType, "array/table literal requires a known type from context")
		for _, el := range e.Elems {
			c.checkExp(scope, el, nil)
		}
		return types.ANY
	}
	switch ctx.Kind {
	case types.KindArray:
		for i, el := range e.Elems {
			if e.Keys[i] != "" {
				c.errorf(el.Pos(), cerr.KindType, "array literal cannot have named fields")
			}
			elType := c.checkExp(scope, el, ctx.Elem)
			if elType != nil && !elType.Equals(ctx.Elem) && ctx.Elem.Kind != types.KindAny && elType.Kind != types.KindAny {
				c.errorf(el.Pos(), cerr.KindType, "array element %d: expected %s, found %s", i+1, ctx.Elem, elType)
			}
		}
	case types.KindTable:
		for i, el := range e.Elems {
			key := e.Keys[i]
			fieldType, ok := ctx.Fields[key]
			if key == "" || !ok {
				c.errorf(el.Pos(), cerr.KindType, "table literal field %d does not match the declared table type", i+1)
				c.checkExp(scope, el, nil)
				continue
			}
			elType := c.checkExp(scope, el, fieldType)
			if elType != nil && !elType.Equals(fieldType) && fieldType.Kind != types.KindAny && elType.Kind != types.KindAny {
				c.errorf(el.Pos(), cerr.KindType, "table field '%s': expected %s, found %s", key, fieldType, elType)
			}
		}
	case types.KindRecord:
		for i, el := range e.Elems {
			key := e.Keys[i]
			fieldType, ok := ctx.RecordFields[key]
			if key == "" || !ok {
				c.errorf(el.Pos(), cerr.KindType, "record literal field %d does not match %s", i+1, ctx.Name)
				c.checkExp(scope, el, nil)
				continue
			}
			c.checkExp(scope, el, fieldType)
		}
	default:
		c.errorf(e.Pos(), cerr.KindType, "array/table literal cannot be used where a %s is expected", ctx)
		for _, el := range e.Elems {
			c.checkExp(scope, el, nil)
		}
	}
	return ctxType
}

func (c *Checker) checkLambdaExp(scope *Scope, e *ast.LambdaExp) *types.Type {
	inner := newScope(scope)
	params := make([]*types.Type, len(e.Params))
	for i, p := range e.Params {
		pt := c.resolveTypeExpr(p.TypeExpr)
		params[i] = pt
		inner.Define(p.Name, pt, false)
	}
	rets := make([]*types.Type, len(e.RetTypes))
	for i, r := range e.RetTypes {
		rets[i] = c.resolveTypeExpr(r)
	}
	c.checkStatList(inner, e.Body, rets)
	return types.NewFunctionType(params, rets)
}
