package interpreter

import (
	"alin/interpreter-go/pkg/ast"
	"alin/interpreter-go/pkg/runtime"
	"alin/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateAssignment(assign *ast.Assignment) (runtime.Value, error) {
	val, err := i.evaluate(assign.Value)
	if err != nil {
		return nil, err
	}
	if runtime.IsNil(val) {
		return runtime.Nil, nil
	}
	i.env.Define(assign.Name, val)
	return val, nil
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	leftVal, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	rightVal, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}
	// A nil operand is an earlier failure or an unbound name; it propagates quietly.
	if runtime.IsNil(leftVal) || runtime.IsNil(rightVal) {
		return runtime.Nil, nil
	}
	switch l := leftVal.(type) {
	case runtime.NumberValue:
		if r, ok := rightVal.(runtime.NumberValue); ok {
			if result, ok := applyNumeric(expr.Operator, l.Val, r.Val); ok {
				return result, nil
			}
			return runtime.Nil, nil
		}
	case runtime.StringValue:
		if r, ok := rightVal.(runtime.StringValue); ok && expr.Operator == token.Plus {
			if i.maxStringLen > 0 && len(l.Val)+len(r.Val) > i.maxStringLen {
				i.report(expr.Position(), "string too long (limit %d bytes)", i.maxStringLen)
				return runtime.Nil, nil
			}
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	}
	i.report(expr.Position(), "type mismatch in binary expression: %s %s %s", leftVal.Kind(), expr.Operator, rightVal.Kind())
	return runtime.Nil, nil
}

func applyNumeric(op token.Kind, a, b float64) (runtime.Value, bool) {
	switch op {
	case token.Plus:
		return runtime.NumberValue{Val: a + b}, true
	case token.Minus:
		return runtime.NumberValue{Val: a - b}, true
	case token.Star:
		return runtime.NumberValue{Val: a * b}, true
	case token.Slash:
		return runtime.NumberValue{Val: a / b}, true
	case token.EqualEqual:
		return runtime.Bool(a == b), true
	case token.BangEqual:
		return runtime.Bool(a != b), true
	case token.Less:
		return runtime.Bool(a < b), true
	case token.LessEqual:
		return runtime.Bool(a <= b), true
	case token.Greater:
		return runtime.Bool(a > b), true
	case token.GreaterEqual:
		return runtime.Bool(a >= b), true
	default:
		return nil, false
	}
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall) (runtime.Value, error) {
	fn, ok := i.builtins[call.Name]
	if !ok {
		i.report(call.Position(), "unknown function: %s", call.Name)
		return runtime.Nil, nil
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, err := i.evaluate(arg)
		if err != nil {
			return nil, err
		}
		if val == nil {
			val = runtime.Nil
		}
		args = append(args, val)
	}
	return fn(args)
}
