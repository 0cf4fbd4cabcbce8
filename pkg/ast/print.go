package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp renders a node as a compact s-expression. Positions are not included, so two trees
// with the same shape render identically.
func Sexp(node Node) string {
	var b strings.Builder
	writeSexp(&b, node)
	return b.String()
}

func writeSexp(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *NumberLiteral:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *StringLiteral:
		b.WriteString(strconv.Quote(n.Value))
	case *Variable:
		b.WriteString(n.Name)
	case *BinaryExpression:
		fmt.Fprintf(b, "(%s ", n.Operator)
		writeSexp(b, n.Left)
		b.WriteByte(' ')
		writeSexp(b, n.Right)
		b.WriteByte(')')
	case *Assignment:
		fmt.Fprintf(b, "(= %s ", n.Name)
		writeSexp(b, n.Value)
		b.WriteByte(')')
	case *Block:
		b.WriteString("(block")
		for _, stmt := range n.Body {
			b.WriteByte(' ')
			writeSexp(b, stmt)
		}
		b.WriteByte(')')
	case *IfExpression:
		b.WriteString("(if ")
		writeSexp(b, n.Condition)
		b.WriteByte(' ')
		writeSexp(b, n.Then)
		if n.Else != nil {
			b.WriteByte(' ')
			writeSexp(b, n.Else)
		}
		b.WriteByte(')')
	case *WhileLoop:
		b.WriteString("(while ")
		writeSexp(b, n.Condition)
		b.WriteByte(' ')
		writeSexp(b, n.Body)
		b.WriteByte(')')
	case *FunctionDefinition:
		fmt.Fprintf(b, "(fn %s (%s) ", n.Name, strings.Join(n.Params, " "))
		writeSexp(b, n.Body)
		b.WriteByte(')')
	case *FunctionCall:
		fmt.Fprintf(b, "(call %s", n.Name)
		for _, arg := range n.Arguments {
			b.WriteByte(' ')
			writeSexp(b, arg)
		}
		b.WriteByte(')')
	case *ReturnStatement:
		b.WriteString("(return ")
		writeSexp(b, n.Value)
		b.WriteByte(')')
	case *BreakStatement:
		b.WriteString("(break)")
	case *ContinueStatement:
		b.WriteString("(continue)")
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}
