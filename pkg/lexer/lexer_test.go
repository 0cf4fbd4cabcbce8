package lexer

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/token"
)

func kindsOf(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"whitespace only", " \t\r\n ", []token.Kind{token.EOF}},
		{"arithmetic", "1+2*3", []token.Kind{token.Number, token.Plus, token.Number, token.Star, token.Number, token.EOF}},
		{"assignment", "x = 5;", []token.Kind{token.Identifier, token.Equal, token.Number, token.Semicolon, token.EOF}},
		{"comparisons", "== != < <= > >=", []token.Kind{
			token.EqualEqual, token.BangEqual, token.Less, token.LessEqual, token.Greater, token.GreaterEqual, token.EOF,
		}},
		{"adjacent equals", "a==b", []token.Kind{token.Identifier, token.EqualEqual, token.Identifier, token.EOF}},
		{"delimiters", "(){},;", []token.Kind{
			token.LParen, token.RParen, token.LBrace, token.RBrace, token.Comma, token.Semicolon, token.EOF,
		}},
		{"keywords", "if else while fn return break continue", []token.Kind{
			token.If, token.Else, token.While, token.Fn, token.Return, token.Break, token.Continue, token.EOF,
		}},
		{"keyword prefix is identifier", "iffy whiles _fn", []token.Kind{
			token.Identifier, token.Identifier, token.Identifier, token.EOF,
		}},
		{"division", "6 / 2", []token.Kind{token.Number, token.Slash, token.Number, token.EOF}},
		{"line comment", "1 // ignored + 2\n3", []token.Kind{token.Number, token.Number, token.EOF}},
		{"comment at eof", "1 //", []token.Kind{token.Number, token.EOF}},
		{"call", "print(1, \"a\")", []token.Kind{
			token.Identifier, token.LParen, token.Number, token.Comma, token.String, token.RParen, token.EOF,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, diags := Tokenize(tc.source)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if got := kindsOf(tokens); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("kinds = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTokenizeIdentifierText(t *testing.T) {
	tokens, _ := Tokenize("foo_bar1 _x")
	if tokens[0].Text != "foo_bar1" || tokens[1].Text != "_x" {
		t.Fatalf("unexpected identifiers: %#v", tokens[:2])
	}
}

func TestTokenizeNumbers(t *testing.T) {
	cases := []struct {
		source string
		want   float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"0.5", 0.5},
		{"007", 7},
	}
	for _, tc := range cases {
		tokens, diags := Tokenize(tc.source)
		if len(diags) != 0 {
			t.Fatalf("%q: unexpected diagnostics: %v", tc.source, diags)
		}
		if tokens[0].Kind != token.Number || tokens[0].Number != tc.want {
			t.Fatalf("%q: got %#v, want number %v", tc.source, tokens[0], tc.want)
		}
	}
}

func TestTokenizeInvalidNumberWarnsAndYieldsZero(t *testing.T) {
	tokens, diags := Tokenize("1.2.3 + 1")
	if tokens[0].Kind != token.Number || tokens[0].Number != 0 {
		t.Fatalf("expected zero number, got %#v", tokens[0])
	}
	if len(diags) != 1 || diags[0].Kind != diag.LexWarning {
		t.Fatalf("expected single lex warning, got %v", diags)
	}
	if diags[0].Message != "invalid number '1.2.3'" {
		t.Fatalf("message = %q", diags[0].Message)
	}
	if got := kindsOf(tokens); !reflect.DeepEqual(got, []token.Kind{token.Number, token.Plus, token.Number, token.EOF}) {
		t.Fatalf("scan did not continue: %v", got)
	}
	if math.Signbit(tokens[0].Number) {
		t.Fatalf("expected positive zero")
	}
}

func TestTokenizeHugeNumberIsInfinite(t *testing.T) {
	source := "1" + strings.Repeat("0", 400)
	tokens, diags := Tokenize(source)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Kind != token.Number || !math.IsInf(tokens[0].Number, 1) {
		t.Fatalf("expected +Inf, got %#v", tokens[0])
	}
	if tokens[0].Text != source {
		t.Fatalf("text should keep the literal, got %q", tokens[0].Text)
	}
}

func TestTokenizeStrings(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"double quoted", `"hello"`, "hello"},
		{"single quoted", `'world'`, "world"},
		{"other quote inside", `"it's"`, "it's"},
		{"newline escape", `"a\nb"`, "a\nb"},
		{"tab escape", `"a\tb"`, "a\tb"},
		{"quote escapes", `"\"\'"`, `"'`},
		{"backslash escape", `"a\\b"`, `a\b`},
		{"unknown escape passes through", `"\q"`, "q"},
		{"unterminated", `"abc`, "abc"},
		{"unterminated after escape", `"abc\`, "abc"},
		{"comment marker inside", `"// not a comment"`, "// not a comment"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, diags := Tokenize(tc.source)
			if len(diags) != 0 {
				t.Fatalf("unexpected diagnostics: %v", diags)
			}
			if len(tokens) != 2 || tokens[0].Kind != token.String {
				t.Fatalf("expected single string token, got %#v", tokens)
			}
			if tokens[0].Text != tc.want {
				t.Fatalf("text = %q, want %q", tokens[0].Text, tc.want)
			}
		})
	}
}

func TestTokenizeUnknownCharacterIsSkipped(t *testing.T) {
	tokens, diags := Tokenize("1 @ 2 ! é")
	if got := kindsOf(tokens); !reflect.DeepEqual(got, []token.Kind{token.Number, token.Number, token.EOF}) {
		t.Fatalf("kinds = %v", got)
	}
	want := []string{"unknown character '@'", "unknown character '!'", "unknown character 'é'"}
	if got := diags.Messages(); !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %v, want %v", got, want)
	}
	for _, d := range diags {
		if d.Kind != diag.LexWarning {
			t.Fatalf("expected lex warning, got %v", d.Kind)
		}
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, diags := Tokenize("x = 1\n  y @")
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	if got := diags[0].Pos; got != (token.Pos{Line: 2, Column: 5}) {
		t.Fatalf("diagnostic pos = %v", got)
	}
	want := []token.Pos{{Line: 1, Column: 1}, {Line: 1, Column: 3}, {Line: 1, Column: 5}, {Line: 2, Column: 3}}
	for i, pos := range want {
		if tokens[i].Pos != pos {
			t.Fatalf("token %d pos = %v, want %v", i, tokens[i].Pos, pos)
		}
	}
}
