package interpreter

import (
	"alin/interpreter-go/pkg/ast"
	"alin/interpreter-go/pkg/runtime"
)

// evaluateBlock runs the body in order. A block produces no value of its own; break and
// continue stop it and travel upward.
func (i *Interpreter) evaluateBlock(block *ast.Block) (runtime.Value, error) {
	for _, stmt := range block.Body {
		if _, err := i.evaluate(stmt); err != nil {
			return nil, err
		}
	}
	return runtime.Nil, nil
}

func (i *Interpreter) evaluateIfExpression(expr *ast.IfExpression) (runtime.Value, error) {
	cond, err := i.evaluate(expr.Condition)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evaluate(expr.Then)
	}
	if expr.Else != nil {
		return i.evaluate(expr.Else)
	}
	return runtime.Nil, nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop) (runtime.Value, error) {
	for {
		cond, err := i.evaluate(loop.Condition)
		if err != nil {
			return nil, err
		}
		if !runtime.Truthy(cond) {
			return runtime.Nil, nil
		}
		if err := i.tick(loop.Position()); err != nil {
			return nil, err
		}
		if _, err := i.evaluate(loop.Body); err != nil {
			switch err.(type) {
			case breakSignal:
				return runtime.Nil, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
	}
}

// evaluateReturnStatement yields its operand. There is no call stack to unwind.
func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement) (runtime.Value, error) {
	return i.evaluate(stmt.Value)
}
