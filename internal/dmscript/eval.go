package dmscript

// file eval.go walks a parsed syntax tree and produces values. Control flow
// out of a function is carried by an explicit result signal, never by a
// panic: every statement-level evaluation returns a result that is either a
// normal value or a value being returned, and a function call is the one
// place a returning result is converted back to a normal one.

import (
	"fmt"
	"math"
)

// result is the outcome of evaluating one node: the produced value, plus
// whether the value is unwinding out of the current function activation.
type result struct {
	val       Value
	returning bool
}

func normal(v Value) result {
	return result{val: v}
}

func returning(v Value) result {
	return result{val: v, returning: true}
}

func (it *Interp) eval(n Node, sc *Scope) (result, error) {
	switch node := n.(type) {
	case LiteralNode:
		return normal(node.Value), nil
	case VariableNode:
		return it.evalVariable(node, sc)
	case AssignmentNode:
		return it.evalAssignment(node, sc)
	case BinaryOpNode:
		return it.evalBinaryOp(node, sc)
	case UnaryOpNode:
		return it.evalUnaryOp(node, sc)
	case BlockNode:
		return it.evalBlock(node, sc)
	case IfNode:
		return it.evalIf(node, sc)
	case WhileNode:
		return it.evalWhile(node, sc)
	case CallNode:
		return it.evalCall(node, sc)
	case FuncDeclNode:
		return it.evalFuncDecl(node, sc)
	case ReturnNode:
		return it.evalReturn(node, sc)
	case ProgramNode:
		// top-level programs go through evalProgram for the echo rules; a
		// nested one would be a parser bug
		panic("program node nested in tree, should never happen")
	default:
		// ForNode and ImportNode are reserved and never produced
		panic(fmt.Sprintf("no evaluation rule for node type %T, should never happen", n))
	}
}

func (it *Interp) evalVariable(n VariableNode, sc *Scope) (result, error) {
	v, ok := sc.Lookup(n.Name)
	if !ok {
		return result{}, newRuntimeError(ErrUndefinedVariable, "undefined variable %q", n.Name)
	}
	return normal(v), nil
}

func (it *Interp) evalAssignment(n AssignmentNode, sc *Scope) (result, error) {
	r, err := it.eval(n.Value, sc)
	if err != nil {
		return result{}, err
	}

	if n.Declaration {
		sc.Define(n.Name, r.val)
	} else if !sc.Assign(n.Name, r.val) {
		// no enclosing binding to rebind; the name comes into being in the
		// innermost scope
		sc.Define(n.Name, r.val)
	}

	return normal(r.val), nil
}

func (it *Interp) evalBinaryOp(n BinaryOpNode, sc *Scope) (result, error) {
	// the logical operators evaluate their right operand conditionally, so
	// they get their own path
	if n.Op == OpAnd || n.Op == OpOr {
		return it.evalShortCircuit(n, sc)
	}

	lr, err := it.eval(n.Left, sc)
	if err != nil {
		return result{}, err
	}
	rr, err := it.eval(n.Right, sc)
	if err != nil {
		return result{}, err
	}
	left, right := lr.val, rr.val

	switch n.Op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo:
		if !left.CoercesToNumber() {
			return result{}, newRuntimeError(ErrTypeMismatch, "operator %s requires numeric operands; left operand is %s", n.Op.Symbol(), left.Type())
		}
		if !right.CoercesToNumber() {
			return result{}, newRuntimeError(ErrTypeMismatch, "operator %s requires numeric operands; right operand is %s", n.Op.Symbol(), right.Type())
		}

		lf, rf := left.Num(), right.Num()
		switch n.Op {
		case OpAdd:
			return normal(NewFloat(lf + rf)), nil
		case OpSubtract:
			return normal(NewFloat(lf - rf)), nil
		case OpMultiply:
			return normal(NewFloat(lf * rf)), nil
		case OpDivide:
			if rf == 0 {
				return result{}, newRuntimeError(ErrDivisionByZero, "division by zero")
			}
			return normal(NewFloat(lf / rf)), nil
		default: // OpModulo
			if rf == 0 {
				return result{}, newRuntimeError(ErrDivisionByZero, "division by zero")
			}
			return normal(NewFloat(math.Mod(lf, rf))), nil
		}

	case OpEqual:
		return normal(NewBool(left.Equal(right))), nil
	case OpNotEqual:
		return normal(NewBool(!left.Equal(right))), nil

	case OpLess, OpGreater, OpLessEqual, OpGreaterEqual:
		if !left.IsNumber() || !right.IsNumber() {
			return result{}, newRuntimeError(ErrTypeMismatch, "operator %s requires numeric operands; got %s and %s", n.Op.Symbol(), left.Type(), right.Type())
		}

		lf, rf := left.Num(), right.Num()
		var b bool
		switch n.Op {
		case OpLess:
			b = lf < rf
		case OpGreater:
			b = lf > rf
		case OpLessEqual:
			b = lf <= rf
		default: // OpGreaterEqual
			b = lf >= rf
		}
		return normal(NewBool(b)), nil

	default:
		panic(fmt.Sprintf("no evaluation rule for binary operation %s, should never happen", n.Op.Symbol()))
	}
}

// evalShortCircuit handles && and ||. The left operand is always evaluated
// and coerced to a boolean; the right operand is evaluated only when the
// left does not already determine the answer.
func (it *Interp) evalShortCircuit(n BinaryOpNode, sc *Scope) (result, error) {
	lr, err := it.eval(n.Left, sc)
	if err != nil {
		return result{}, err
	}
	leftTruth := lr.val.Truthy()

	if n.Op == OpAnd && !leftTruth {
		return normal(NewBool(false)), nil
	}
	if n.Op == OpOr && leftTruth {
		return normal(NewBool(true)), nil
	}

	rr, err := it.eval(n.Right, sc)
	if err != nil {
		return result{}, err
	}
	return normal(NewBool(rr.val.Truthy())), nil
}

func (it *Interp) evalUnaryOp(n UnaryOpNode, sc *Scope) (result, error) {
	or, err := it.eval(n.Operand, sc)
	if err != nil {
		return result{}, err
	}
	operand := or.val

	switch n.Op {
	case OpNegate:
		if !operand.IsNumber() {
			return result{}, newRuntimeError(ErrTypeMismatch, "operator - requires a numeric operand; got %s", operand.Type())
		}
		return normal(NewFloat(-operand.Num())), nil
	case OpNot:
		if operand.Type() != Bool {
			return result{}, newRuntimeError(ErrTypeMismatch, "operator ! requires a boolean operand; got %s", operand.Type())
		}
		return normal(NewBool(!operand.Bool())), nil
	default:
		panic(fmt.Sprintf("no evaluation rule for unary operation %s, should never happen", n.Op.Symbol()))
	}
}

func (it *Interp) evalBlock(n BlockNode, sc *Scope) (result, error) {
	inner := NewScope(sc)

	last := NewNull()
	for _, stmt := range n.Statements {
		r, err := it.eval(stmt, inner)
		if err != nil {
			return result{}, err
		}
		if r.returning {
			return r, nil
		}
		last = r.val
	}

	return normal(last), nil
}

func (it *Interp) evalIf(n IfNode, sc *Scope) (result, error) {
	cr, err := it.eval(n.Condition, sc)
	if err != nil {
		return result{}, err
	}

	if cr.val.Truthy() {
		return it.eval(n.Then, sc)
	}
	if n.Else != nil {
		return it.eval(n.Else, sc)
	}
	return normal(NewNull()), nil
}

func (it *Interp) evalWhile(n WhileNode, sc *Scope) (result, error) {
	last := NewNull()

	for {
		cr, err := it.eval(n.Condition, sc)
		if err != nil {
			return result{}, err
		}
		if !cr.val.Truthy() {
			return normal(last), nil
		}

		r, err := it.eval(n.Body, sc)
		if err != nil {
			return result{}, err
		}
		if r.returning {
			return r, nil
		}
		last = r.val
	}
}

func (it *Interp) evalCall(n CallNode, sc *Scope) (result, error) {
	callee, ok := sc.Lookup(n.Func)
	if !ok {
		return result{}, newRuntimeError(ErrUndefinedVariable, "undefined function %q", n.Func)
	}
	if callee.Type() != Function {
		return result{}, newRuntimeError(ErrTypeMismatch, "%q is not a function; it is %s", n.Func, callee.Type())
	}
	fn := callee.Func()

	arity := fn.Arity
	if fn.Native == nil {
		arity = len(fn.Params)
	}
	if len(n.Args) != arity {
		s := "s"
		if arity == 1 {
			s = ""
		}
		return result{}, newRuntimeError(ErrInvalidArgument, "function %s() takes %d argument%s; %d given", fn.Name, arity, s, len(n.Args))
	}

	args := make([]Value, len(n.Args))
	for i := range n.Args {
		r, err := it.eval(n.Args[i], sc)
		if err != nil {
			return result{}, err
		}
		args[i] = r.val
	}

	if fn.Native != nil {
		v, err := fn.Native(args)
		if err != nil {
			return result{}, err
		}
		return normal(v), nil
	}

	// the activation hangs off the scope the function was declared in, so
	// the body sees the declaration site's names, not the caller's
	activation := NewScope(fn.Env)
	for i, param := range fn.Params {
		activation.Define(param, args[i])
	}

	r, err := it.eval(fn.Body, activation)
	if err != nil {
		return result{}, err
	}

	// a return anywhere in the body unwinds to here and becomes the call's
	// ordinary value
	return normal(r.val), nil
}

func (it *Interp) evalFuncDecl(n FuncDeclNode, sc *Scope) (result, error) {
	sc.Define(n.Name, NewFunc(&FuncValue{
		Name:   n.Name,
		Params: n.Params,
		Body:   n.Body,
		Env:    sc,
	}))

	return normal(NewString(n.Name)), nil
}

func (it *Interp) evalReturn(n ReturnNode, sc *Scope) (result, error) {
	if n.Value == nil {
		return returning(NewNull()), nil
	}

	r, err := it.eval(n.Value, sc)
	if err != nil {
		return result{}, err
	}
	return returning(r.val), nil
}
