package parser

import (
	"github.com/edwingeng/deque"

	"alin/interpreter-go/pkg/ast"
	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/token"
)

// Parser turns a token sequence into top-level nodes. Tokens are consumed front to back from
// a queue, with a single token of lookahead.
type Parser struct {
	tokens deque.Deque
	eof    token.Token
}

// New queues tokens for parsing. A trailing EOF is assumed when tokens does not end with one.
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: deque.NewDeque(), eof: token.Token{Kind: token.EOF}}
	for _, tok := range tokens {
		p.tokens.PushBack(tok)
	}
	if len(tokens) > 0 {
		p.eof.Pos = tokens[len(tokens)-1].Pos
	}
	return p
}

// Parse is a shorthand for New(tokens).Parse().
func Parse(tokens []token.Token) ([]ast.Node, error) {
	return New(tokens).Parse()
}

// Parse consumes the whole queue. The first grammar violation aborts the parse and is
// returned as a *diag.Diagnostic of kind diag.ParseError; no partial program is returned.
func (p *Parser) Parse() ([]ast.Node, error) {
	program := make([]ast.Node, 0)
	for !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program = append(program, stmt)
		p.eat(token.Semicolon)
	}
	return program, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.peek().Kind {
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.LBrace:
		return p.parseBlock()
	case token.Return:
		return p.parseReturn()
	case token.Fn:
		return p.parseFunctionDefinition()
	default:
		return p.parseAssignment()
	}
}

func (p *Parser) parseAssignment() (ast.Node, error) {
	expr, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	if !p.check(token.Equal) {
		return expr, nil
	}
	eq := p.next()
	target, ok := expr.(*ast.Variable)
	if !ok {
		return nil, diag.New(diag.ParseError, eq.Pos, "invalid assignment target")
	}
	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewAssignment(target.Name, value, target.Position()), nil
}

func (p *Parser) parseComparison() (ast.Node, error) {
	expr, err := p.parseBinary(5)
	if err != nil {
		return nil, err
	}
	for p.peek().Kind.IsComparison() {
		op := p.next()
		right, err := p.parseBinary(5)
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinaryExpression(op.Kind, expr, right, expr.Position())
	}
	return expr, nil
}

// parseBinary climbs precedence over the arithmetic operators. The right-hand side is parsed
// with prec+1 so operators of equal precedence associate left.
func (p *Parser) parseBinary(minPrec int) (ast.Node, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		prec := p.peek().Kind.Precedence()
		if prec == 0 || prec < minPrec {
			return lhs, nil
		}
		op := p.next()
		rhs, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = ast.NewBinaryExpression(op.Kind, lhs, rhs, lhs.Position())
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.next()
	switch tok.Kind {
	case token.Number:
		return ast.NewNumberLiteral(tok.Number, tok.Pos), nil
	case token.String:
		return ast.NewStringLiteral(tok.Text, tok.Pos), nil
	case token.Identifier:
		if !p.check(token.LParen) {
			return ast.NewVariable(tok.Text, tok.Pos), nil
		}
		p.next()
		args, err := p.parseArguments()
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionCall(tok.Text, args, tok.Pos), nil
	case token.LParen:
		expr, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		p.eat(token.RParen)
		return expr, nil
	case token.Break:
		return ast.NewBreakStatement(tok.Pos), nil
	case token.Continue:
		return ast.NewContinueStatement(tok.Pos), nil
	default:
		return nil, diag.New(diag.ParseError, tok.Pos, "syntax error near %s", tok)
	}
}

// parseArguments reads a comma separated list after '('. The closing ')' is consumed when
// present and silently tolerated when missing.
func (p *Parser) parseArguments() ([]ast.Node, error) {
	args := make([]ast.Node, 0)
	if p.eat(token.RParen) {
		return args, nil
	}
	for {
		arg, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.eat(token.RParen)
	return args, nil
}

func (p *Parser) parseIf() (ast.Node, error) {
	kw := p.next()
	condition, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var els ast.Node
	if p.eat(token.Else) {
		els, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfExpression(condition, then, els, kw.Pos), nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	kw := p.next()
	condition, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(condition, body, kw.Pos), nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	kw := p.next()
	value, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(value, kw.Pos), nil
}

func (p *Parser) parseBlock() (ast.Node, error) {
	open := p.next()
	body := make([]ast.Node, 0)
	for !p.check(token.RBrace) && !p.check(token.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
		p.eat(token.Semicolon)
	}
	p.eat(token.RBrace)
	return ast.NewBlock(body, open.Pos), nil
}

func (p *Parser) parseFunctionDefinition() (ast.Node, error) {
	kw := p.next()
	name := p.next()
	if name.Kind != token.Identifier {
		return nil, diag.New(diag.ParseError, name.Pos, "expected function name after 'fn', found %s", name)
	}
	if open := p.next(); open.Kind != token.LParen {
		return nil, diag.New(diag.ParseError, open.Pos, "expected '(' after function name %s, found %s", name.Text, open)
	}
	params := make([]string, 0)
	if !p.eat(token.RParen) {
		for {
			param := p.next()
			if param.Kind != token.Identifier {
				return nil, diag.New(diag.ParseError, param.Pos, "expected parameter name, found %s", param)
			}
			params = append(params, param.Text)
			if !p.eat(token.Comma) {
				break
			}
		}
		if closing := p.next(); closing.Kind != token.RParen {
			return nil, diag.New(diag.ParseError, closing.Pos, "expected ')' after parameters, found %s", closing)
		}
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(name.Text, params, body, kw.Pos), nil
}

func (p *Parser) peek() token.Token {
	if p.tokens.Empty() {
		return p.eof
	}
	return p.tokens.Front().(token.Token)
}

func (p *Parser) next() token.Token {
	if p.tokens.Empty() {
		return p.eof
	}
	return p.tokens.PopFront().(token.Token)
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Is(kind)
}

// eat consumes the next token when it has the expected kind.
func (p *Parser) eat(kind token.Kind) bool {
	if !p.check(kind) {
		return false
	}
	p.next()
	return true
}
