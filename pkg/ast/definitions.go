package ast

import "alin/interpreter-go/pkg/token"

// Functions

// FunctionDefinition is parsed but never invoked.
type FunctionDefinition struct {
	nodeImpl

	Name   string   `json:"name"`
	Params []string `json:"params"`
	Body   Node     `json:"body"`
}

func NewFunctionDefinition(name string, params []string, body Node, pos token.Pos) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition, pos), Name: name, Params: params, Body: body}
}

type FunctionCall struct {
	nodeImpl

	Name      string `json:"name"`
	Arguments []Node `json:"arguments"`
}

func NewFunctionCall(name string, args []Node, pos token.Pos) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall, pos), Name: name, Arguments: args}
}
