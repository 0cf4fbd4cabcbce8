package driver

import (
	"bytes"
	"testing"

	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/interpreter"
	"alin/interpreter-go/pkg/runtime"
	"alin/interpreter-go/pkg/token"
)

func TestSessionRunPersistsBindings(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, &out)

	if report := s.Run("x = 5"); len(report.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", report.Diagnostics)
	}
	report := s.Run("print(x + 1); x * 2")
	if len(report.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", report.Diagnostics)
	}
	if got := out.String(); got != "6\n" {
		t.Fatalf("stdout = %q, want 6", got)
	}
	if num, ok := report.Value.(runtime.NumberValue); !ok || num.Val != 10 {
		t.Fatalf("value = %#v, want 10", report.Value)
	}
}

func TestSessionRunCollectsEveryTier(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, &out)
	report := s.Run(`x = 1 # 2; y = x + "s"; nope()`)
	kinds := make([]diag.Kind, 0, len(report.Diagnostics))
	for _, d := range report.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	want := []diag.Kind{diag.LexWarning, diag.EvalError, diag.EvalError}
	if len(kinds) != len(want) {
		t.Fatalf("diagnostics = %v", report.Diagnostics)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kind[%d] = %s, want %s", i, kinds[i], want[i])
		}
	}
	if !report.Parsed() {
		t.Fatalf("expected the input to parse")
	}
}

func TestSessionParseErrorSkipsEvaluation(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(nil, &out)
	report := s.Run("print(1)\nx = = 2")
	if report.Parsed() {
		t.Fatalf("expected parse failure")
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should run after a parse error, got %q", out.String())
	}
	last := report.Diagnostics[len(report.Diagnostics)-1]
	if last.Kind != diag.ParseError || last.Pos != (token.Pos{Line: 2, Column: 5}) {
		t.Fatalf("unexpected diagnostic %v", last)
	}
	if report.Value != nil {
		t.Fatalf("value should be nil, got %#v", report.Value)
	}
}

func TestSessionEmptyInput(t *testing.T) {
	s := NewSession(nil, &bytes.Buffer{})
	report := s.Run("  // just a comment\n")
	if len(report.Diagnostics) != 0 || report.Value != nil {
		t.Fatalf("unexpected report %#v", report)
	}
}

func TestSessionStepLimitFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepLimit = 3
	s := NewSession(cfg, &bytes.Buffer{})
	report := s.Run("while 1 { }")
	if len(report.Diagnostics) != 1 || report.Diagnostics[0].Kind != diag.EvalError {
		t.Fatalf("expected step limit diagnostic, got %v", report.Diagnostics)
	}

	// Options given to NewSession override the config.
	s = NewSession(cfg, &bytes.Buffer{}, interpreter.WithStepLimit(100))
	report = s.Run("i = 0; while i < 50 { i = i + 1 }")
	if len(report.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", report.Diagnostics)
	}
}

func TestSessionStepLimitCoversWholeInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StepLimit = 5
	s := NewSession(cfg, &bytes.Buffer{})
	report := s.Run("i = 0; while i < 3 { i = i + 1 }; j = 0; while j < 3 { j = j + 1 }")
	if len(report.Diagnostics) != 1 || report.Diagnostics[0].Message != "step limit exceeded (5 loop iterations)" {
		t.Fatalf("expected step limit diagnostic, got %v", report.Diagnostics)
	}
	if !report.Failed() {
		t.Fatalf("step limit should fail the report")
	}

	// A later input gets a fresh budget.
	if report := s.Run("k = 0; while k < 5 { k = k + 1 }"); len(report.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", report.Diagnostics)
	}
}

func TestSessionWarningsDoNotFail(t *testing.T) {
	s := NewSession(nil, &bytes.Buffer{})
	report := s.Run("x = 1 $")
	if len(report.Diagnostics) != 1 || report.Failed() || !report.Parsed() {
		t.Fatalf("unexpected report %#v", report)
	}
}

func TestSessionTokens(t *testing.T) {
	s := NewSession(nil, &bytes.Buffer{})
	tokens, diags := s.Tokens("x = 1")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	kinds := []token.Kind{token.Identifier, token.Equal, token.Number, token.EOF}
	if len(tokens) != len(kinds) {
		t.Fatalf("tokens = %v", tokens)
	}
	for i, kind := range kinds {
		if tokens[i].Kind != kind {
			t.Fatalf("token[%d] = %s, want %s", i, tokens[i].Kind, kind)
		}
	}
}
