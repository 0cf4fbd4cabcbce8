package lexer

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"fortio.org/log"

	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/token"
)

// Lexer scans source text into tokens. It is single use.
type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int

	tokens      []token.Token
	diagnostics diag.List
}

// New prepares a lexer over source.
func New(source string) *Lexer {
	return &Lexer{input: []rune(source), line: 1, col: 1}
}

// Tokenize is a shorthand for New(source).Tokenize().
func Tokenize(source string) ([]token.Token, diag.List) {
	return New(source).Tokenize()
}

// Tokenize scans the whole input. The result always ends with an EOF token; problems are
// reported as LexWarning diagnostics and never stop the scan.
func (l *Lexer) Tokenize() ([]token.Token, diag.List) {
	for {
		ch, ok := l.peek()
		if !ok {
			break
		}
		start := l.here()
		switch {
		case unicode.IsSpace(ch):
			l.advance()
		case isIdentStart(ch):
			l.scanIdentifier(start)
		case isDigit(ch):
			l.scanNumber(start)
		case ch == '"' || ch == '\'':
			l.advance()
			l.scanString(start, ch)
		case ch == '/':
			l.advance()
			if next, ok := l.peek(); ok && next == '/' {
				l.skipLineComment()
			} else {
				l.emit(token.Slash, start)
			}
		case ch == '=':
			l.advance()
			l.emitEither('=', token.EqualEqual, token.Equal, start)
		case ch == '<':
			l.advance()
			l.emitEither('=', token.LessEqual, token.Less, start)
		case ch == '>':
			l.advance()
			l.emitEither('=', token.GreaterEqual, token.Greater, start)
		case ch == '!':
			l.advance()
			if l.match('=') {
				l.emit(token.BangEqual, start)
			} else {
				l.warn(start, "unknown character '%c'", ch)
			}
		default:
			l.advance()
			if kind, ok := singles[ch]; ok {
				l.emit(kind, start)
			} else {
				l.warn(start, "unknown character '%c'", ch)
			}
		}
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.EOF, Pos: l.here()})
	return l.tokens, l.diagnostics
}

var singles = map[rune]token.Kind{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	';': token.Semicolon,
}

func (l *Lexer) scanIdentifier(start token.Pos) {
	var b strings.Builder
	for {
		ch, ok := l.peek()
		if !ok || !isIdentPart(ch) {
			break
		}
		b.WriteRune(ch)
		l.advance()
	}
	text := b.String()
	kind := token.Lookup(text)
	if kind != token.Identifier {
		l.emit(kind, start)
		return
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.Identifier, Text: text, Pos: start})
}

func (l *Lexer) scanNumber(start token.Pos) {
	var b strings.Builder
	for {
		ch, ok := l.peek()
		if !ok || !(isDigit(ch) || ch == '.') {
			break
		}
		b.WriteRune(ch)
		l.advance()
	}
	text := b.String()
	value, err := strconv.ParseFloat(text, 64)
	// Out of range literals keep the infinity ParseFloat returns; only malformed runs are zeroed.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		l.warn(start, "invalid number '%s'", text)
		value = 0
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.Number, Text: text, Number: value, Pos: start})
}

func (l *Lexer) scanString(start token.Pos, quote rune) {
	var b strings.Builder
	for {
		ch, ok := l.peek()
		if !ok {
			break
		}
		l.advance()
		if ch == quote {
			break
		}
		if ch != '\\' {
			b.WriteRune(ch)
			continue
		}
		escaped, ok := l.peek()
		if !ok {
			break
		}
		l.advance()
		switch escaped {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		default:
			b.WriteRune(escaped)
		}
	}
	l.tokens = append(l.tokens, token.Token{Kind: token.String, Text: b.String(), Pos: start})
}

func (l *Lexer) skipLineComment() {
	for {
		ch, ok := l.peek()
		if !ok {
			return
		}
		l.advance()
		if ch == '\n' {
			return
		}
	}
}

func (l *Lexer) emit(kind token.Kind, start token.Pos) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Pos: start})
}

func (l *Lexer) emitEither(next rune, matched, single token.Kind, start token.Pos) {
	if l.match(next) {
		l.emit(matched, start)
		return
	}
	l.emit(single, start)
}

func (l *Lexer) warn(pos token.Pos, format string, args ...any) {
	l.diagnostics.Add(diag.LexWarning, pos, format, args...)
	log.LogVf("lexer warning at %s: "+format, append([]any{pos}, args...)...)
}

func (l *Lexer) match(expected rune) bool {
	ch, ok := l.peek()
	if !ok || ch != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos], true
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) here() token.Pos {
	return token.Pos{Line: l.line, Column: l.col}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
