package interpreter

import (
	"bytes"

	"alin/interpreter-go/pkg/ast"
	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/lexer"
	"alin/interpreter-go/pkg/parser"
	"alin/interpreter-go/pkg/runtime"
)

// testingT captures the subset of testing.T used by the helpers.
type testingT interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

func newTestInterpreter() (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	return New(WithOutput(&out)), &out
}

func mustParse(t testingT, source string) []ast.Node {
	t.Helper()
	tokens, lexDiags := lexer.Tokenize(source)
	if len(lexDiags) != 0 {
		t.Fatalf("unexpected lexer diagnostics for %q: %v", source, lexDiags)
	}
	program, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	return program
}

func runSource(t testingT, interp *Interpreter, source string) diag.List {
	t.Helper()
	return interp.Run(mustParse(t, source))
}

// evalSource returns the value of the last top-level statement in source.
func evalSource(t testingT, interp *Interpreter, source string) (runtime.Value, diag.List) {
	t.Helper()
	program := mustParse(t, source)
	if len(program) == 0 {
		t.Fatalf("no statements in %q", source)
	}
	return interp.Exec(program)
}

func expectNumber(t testingT, val runtime.Value, want float64) {
	t.Helper()
	num, ok := val.(runtime.NumberValue)
	if !ok || num.Val != want {
		t.Fatalf("expected number %v, got %#v", want, val)
	}
}

func expectNil(t testingT, val runtime.Value) {
	t.Helper()
	if !runtime.IsNil(val) {
		t.Fatalf("expected nil, got %#v", val)
	}
}
