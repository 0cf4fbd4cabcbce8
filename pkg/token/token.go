package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical category of a token.
type Kind int

const (
	EOF Kind = iota

	Identifier
	Number
	String

	Plus
	Minus
	Star
	Slash

	Equal
	EqualEqual
	BangEqual
	Less
	LessEqual
	Greater
	GreaterEqual

	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semicolon

	If
	Else
	While
	Fn
	Return
	Break
	Continue
)

var kindNames = map[Kind]string{
	EOF:          "EOF",
	Identifier:   "IDENTIFIER",
	Number:       "NUMBER",
	String:       "STRING",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Equal:        "=",
	EqualEqual:   "==",
	BangEqual:    "!=",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	LParen:       "(",
	RParen:       ")",
	LBrace:       "{",
	RBrace:       "}",
	Comma:        ",",
	Semicolon:    ";",
	If:           "if",
	Else:         "else",
	While:        "while",
	Fn:           "fn",
	Return:       "return",
	Break:        "break",
	Continue:     "continue",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// MarshalText lets kinds appear by name in JSON dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsComparison reports whether k is one of the relational operators.
func (k Kind) IsComparison() bool {
	switch k {
	case EqualEqual, BangEqual, Less, LessEqual, Greater, GreaterEqual:
		return true
	}
	return false
}

// Precedence returns the binding power of an arithmetic operator, or 0.
func (k Kind) Precedence() int {
	switch k {
	case Star, Slash:
		return 10
	case Plus, Minus:
		return 5
	default:
		return 0
	}
}

var keywords = map[string]Kind{
	"if":       If,
	"else":     Else,
	"while":    While,
	"fn":       Fn,
	"return":   Return,
	"break":    Break,
	"continue": Continue,
}

// Lookup maps an identifier run to its keyword kind, or Identifier.
func Lookup(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return Identifier
}

// Pos is a 1-based line/column location in the source.
type Pos struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit.
type Token struct {
	Kind   Kind    `json:"kind"`
	Text   string  `json:"text,omitempty"`
	Number float64 `json:"number,omitempty"`
	Pos    Pos     `json:"pos"`
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier:
		return fmt.Sprintf("identifier %s", t.Text)
	case Number:
		return fmt.Sprintf("number %s", strconv.FormatFloat(t.Number, 'g', -1, 64))
	case String:
		return fmt.Sprintf("string %q", t.Text)
	case EOF:
		return "<eof>"
	default:
		return fmt.Sprintf("'%s'", t.Kind)
	}
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}
