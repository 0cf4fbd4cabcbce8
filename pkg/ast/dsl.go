package ast

import "alin/interpreter-go/pkg/token"

// Position-free constructors, used by tests that build trees by hand.

func Num(value float64) *NumberLiteral {
	return NewNumberLiteral(value, token.Pos{})
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value, token.Pos{})
}

func Var(name string) *Variable {
	return NewVariable(name, token.Pos{})
}

func Bin(operator token.Kind, left, right Node) *BinaryExpression {
	return NewBinaryExpression(operator, left, right, token.Pos{})
}

func Assign(name string, value Node) *Assignment {
	return NewAssignment(name, value, token.Pos{})
}

func Blk(body ...Node) *Block {
	if body == nil {
		body = []Node{}
	}
	return NewBlock(body, token.Pos{})
}

func If(condition, then Node) *IfExpression {
	return NewIfExpression(condition, then, nil, token.Pos{})
}

func IfElse(condition, then, els Node) *IfExpression {
	return NewIfExpression(condition, then, els, token.Pos{})
}

func While(condition, body Node) *WhileLoop {
	return NewWhileLoop(condition, body, token.Pos{})
}

func Fn(name string, params []string, body Node) *FunctionDefinition {
	if params == nil {
		params = []string{}
	}
	return NewFunctionDefinition(name, params, body, token.Pos{})
}

func Call(name string, args ...Node) *FunctionCall {
	if args == nil {
		args = []Node{}
	}
	return NewFunctionCall(name, args, token.Pos{})
}

func Ret(value Node) *ReturnStatement {
	return NewReturnStatement(value, token.Pos{})
}

func Brk() *BreakStatement {
	return NewBreakStatement(token.Pos{})
}

func Cont() *ContinueStatement {
	return NewContinueStatement(token.Pos{})
}
