package driver

import (
	"errors"
	"io"

	"fortio.org/log"

	"alin/interpreter-go/pkg/ast"
	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/interpreter"
	"alin/interpreter-go/pkg/lexer"
	"alin/interpreter-go/pkg/parser"
	"alin/interpreter-go/pkg/runtime"
	"alin/interpreter-go/pkg/token"
)

// Session pairs one interpreter with its configuration. Bindings persist across Run calls,
// which is what the REPL relies on.
type Session struct {
	cfg    *Config
	interp *interpreter.Interpreter
}

// Report is the outcome of running one chunk of source.
type Report struct {
	// Value is the value of the last top-level statement, nil when nothing ran.
	Value       runtime.Value
	Diagnostics diag.List
}

// Parsed reports whether the input made it past the parser.
func (r Report) Parsed() bool {
	return len(r.Diagnostics.Filter(diag.ParseError)) == 0
}

// Failed reports whether any diagnostic is above warning severity.
func (r Report) Failed() bool {
	return r.Diagnostics.HasErrors()
}

// NewSession builds a session writing program output to out. A nil cfg uses the defaults.
func NewSession(cfg *Config, out io.Writer, opts ...interpreter.Option) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	base := []interpreter.Option{
		interpreter.WithOutput(out),
		interpreter.WithStepLimit(cfg.StepLimit),
	}
	return &Session{
		cfg:    cfg,
		interp: interpreter.New(append(base, opts...)...),
	}
}

// Config returns the session's configuration.
func (s *Session) Config() *Config {
	return s.cfg
}

// Environment exposes the interpreter bindings.
func (s *Session) Environment() *runtime.Environment {
	return s.interp.Environment()
}

// Tokens runs only the lexer.
func (s *Session) Tokens(source string) ([]token.Token, diag.List) {
	return lexer.Tokenize(source)
}

// Parse runs the lexer and parser. The returned program is nil when parsing failed; the
// parse error is then the last entry of the diagnostics.
func (s *Session) Parse(source string) ([]ast.Node, diag.List) {
	tokens, diags := lexer.Tokenize(source)
	program, err := parser.Parse(tokens)
	if err != nil {
		return nil, append(diags, asDiagnostic(err))
	}
	return program, diags
}

// Run tokenizes, parses and evaluates source. Evaluation only happens when parsing succeeds.
func (s *Session) Run(source string) Report {
	program, diags := s.Parse(source)
	report := Report{Diagnostics: diags}
	if program == nil {
		log.LogVf("session: parse failed, nothing evaluated")
		return report
	}
	val, more := s.interp.Exec(program)
	report.Value = val
	report.Diagnostics = append(report.Diagnostics, more...)
	log.LogVf("session: ran %d statements, errors=%t", len(program), report.Failed())
	return report
}

func asDiagnostic(err error) *diag.Diagnostic {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return diag.New(diag.ParseError, token.Pos{}, "%v", err)
}
