package ast

import "alin/interpreter-go/pkg/token"

type NodeType string

const (
	NodeNumberLiteral      NodeType = "NumberLiteral"
	NodeStringLiteral      NodeType = "StringLiteral"
	NodeVariable           NodeType = "Variable"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeAssignment         NodeType = "Assignment"
	NodeBlock              NodeType = "Block"
	NodeIfExpression       NodeType = "IfExpression"
	NodeWhileLoop          NodeType = "WhileLoop"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeFunctionCall       NodeType = "FunctionCall"
	NodeReturnStatement    NodeType = "ReturnStatement"
	NodeBreakStatement     NodeType = "BreakStatement"
	NodeContinueStatement  NodeType = "ContinueStatement"
)

// Node is implemented by every expression-tree node. A parent owns its children; nodes are
// never mutated once the parser has built them.
type Node interface {
	NodeType() NodeType
	Position() token.Pos
	isNode()
}

type nodeImpl struct {
	Type NodeType  `json:"type"`
	Pos  token.Pos `json:"pos"`
}

func newNodeImpl(kind NodeType, pos token.Pos) nodeImpl {
	return nodeImpl{Type: kind, Pos: pos}
}

func (n nodeImpl) NodeType() NodeType  { return n.Type }
func (n nodeImpl) Position() token.Pos { return n.Pos }
func (nodeImpl) isNode()               {}

// Literals

type NumberLiteral struct {
	nodeImpl

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64, pos token.Pos) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral, pos), Value: value}
}

type StringLiteral struct {
	nodeImpl

	Value string `json:"value"`
}

func NewStringLiteral(value string, pos token.Pos) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral, pos), Value: value}
}

// Variable is a reference to a name in the environment.
type Variable struct {
	nodeImpl

	Name string `json:"name"`
}

func NewVariable(name string, pos token.Pos) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable, pos), Name: name}
}

// Operators

type BinaryExpression struct {
	nodeImpl

	Operator token.Kind `json:"operator"`
	Left     Node       `json:"left"`
	Right    Node       `json:"right"`
}

func NewBinaryExpression(operator token.Kind, left, right Node, pos token.Pos) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression, pos), Operator: operator, Left: left, Right: right}
}

type Assignment struct {
	nodeImpl

	Name  string `json:"name"`
	Value Node   `json:"value"`
}

func NewAssignment(name string, value Node, pos token.Pos) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment, pos), Name: name, Value: value}
}

// Control flow

type Block struct {
	nodeImpl

	Body []Node `json:"body"`
}

func NewBlock(body []Node, pos token.Pos) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, pos), Body: body}
}

// IfExpression holds an optional else branch; Else is nil when absent.
type IfExpression struct {
	nodeImpl

	Condition Node `json:"condition"`
	Then      Node `json:"then"`
	Else      Node `json:"else,omitempty"`
}

func NewIfExpression(condition, then, els Node, pos token.Pos) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression, pos), Condition: condition, Then: then, Else: els}
}

type WhileLoop struct {
	nodeImpl

	Condition Node `json:"condition"`
	Body      Node `json:"body"`
}

func NewWhileLoop(condition, body Node, pos token.Pos) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop, pos), Condition: condition, Body: body}
}

type ReturnStatement struct {
	nodeImpl

	Value Node `json:"value"`
}

func NewReturnStatement(value Node, pos token.Pos) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement, pos), Value: value}
}

type BreakStatement struct {
	nodeImpl
}

func NewBreakStatement(pos token.Pos) *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement, pos)}
}

type ContinueStatement struct {
	nodeImpl
}

func NewContinueStatement(pos token.Pos) *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement, pos)}
}
