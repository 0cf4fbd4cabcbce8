package interpreter

import (
	"fmt"
	"io"
	"os"

	"fortio.org/log"

	"alin/interpreter-go/pkg/ast"
	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/runtime"
	"alin/interpreter-go/pkg/token"
)

// Interpreter walks Alin expression trees against one persistent environment. It is not safe
// for concurrent use; give each session its own instance.
type Interpreter struct {
	env      *runtime.Environment
	out      io.Writer
	builtins map[string]builtinFunc

	stepLimit    int
	steps        int
	maxStringLen int

	diagnostics diag.List
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sends print output to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithStepLimit bounds the number of loop iterations a single Run, Exec or Evaluate call may
// perform. Zero means unlimited.
func WithStepLimit(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.stepLimit = n
		}
	}
}

// WithMaxStringLen bounds the byte length of strings built by concatenation. Zero means
// unlimited.
func WithMaxStringLen(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxStringLen = n
		}
	}
}

// New returns an interpreter with an empty environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		env: runtime.NewEnvironment(),
		out: os.Stdout,
	}
	i.builtins = map[string]builtinFunc{
		"print": i.builtinPrint,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Environment returns the interpreter's environment.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// Run evaluates each top-level node in order and returns the diagnostics produced by this
// call. A failing statement yields nil and evaluation moves on to the next one.
func (i *Interpreter) Run(program []ast.Node) diag.List {
	_, diags := i.Exec(program)
	return diags
}

// Exec is Run that also returns the value of the last top-level node, or nil for an empty
// program. The whole program shares one step budget.
func (i *Interpreter) Exec(program []ast.Node) (runtime.Value, diag.List) {
	i.begin()
	var val runtime.Value
	for _, node := range program {
		val = i.evaluateTopLevel(node)
	}
	return val, i.end()
}

// Evaluate runs a single top-level node and returns its value along with the diagnostics it
// produced.
func (i *Interpreter) Evaluate(node ast.Node) (runtime.Value, diag.List) {
	i.begin()
	val := i.evaluateTopLevel(node)
	return val, i.end()
}

func (i *Interpreter) begin() {
	i.steps = 0
	i.diagnostics = nil
}

func (i *Interpreter) end() diag.List {
	out := i.diagnostics
	i.diagnostics = nil
	return out
}

func (i *Interpreter) evaluateTopLevel(node ast.Node) runtime.Value {
	val, err := i.evaluate(node)
	if err == nil {
		return val
	}
	switch sig := err.(type) {
	case breakSignal:
		i.report(sig.pos, "break used outside of a loop")
	case continueSignal:
		i.report(sig.pos, "continue used outside of a loop")
	case stepLimitError:
		i.report(sig.pos, "%s", sig.Error())
	default:
		i.report(node.Position(), "%v", err)
	}
	return runtime.Nil
}

// evaluate dispatches on the node kind. The returned error is only ever a control-flow
// signal or a step limit abort; runtime problems are reported and degrade to nil.
func (i *Interpreter) evaluate(node ast.Node) (runtime.Value, error) {
	log.LogVf("eval %s at %s", node.NodeType(), node.Position())
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return runtime.NumberValue{Val: n.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}, nil
	case *ast.Variable:
		return i.env.Lookup(n.Name), nil
	case *ast.Assignment:
		return i.evaluateAssignment(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n)
	case *ast.Block:
		return i.evaluateBlock(n)
	case *ast.IfExpression:
		return i.evaluateIfExpression(n)
	case *ast.WhileLoop:
		return i.evaluateWhileLoop(n)
	case *ast.ReturnStatement:
		return i.evaluateReturnStatement(n)
	case *ast.BreakStatement:
		return nil, breakSignal{pos: n.Position()}
	case *ast.ContinueStatement:
		return nil, continueSignal{pos: n.Position()}
	case *ast.FunctionDefinition:
		log.LogVf("function %s defined with %d params; definitions are not callable", n.Name, len(n.Params))
		return runtime.Nil, nil
	default:
		i.report(node.Position(), "unsupported node type: %s", node.NodeType())
		return runtime.Nil, nil
	}
}

func (i *Interpreter) report(pos token.Pos, format string, args ...any) {
	i.diagnostics.Add(diag.EvalError, pos, format, args...)
}

// tick counts one loop iteration against the step limit.
func (i *Interpreter) tick(pos token.Pos) error {
	if i.stepLimit == 0 {
		return nil
	}
	i.steps++
	if i.steps > i.stepLimit {
		return stepLimitError{limit: i.stepLimit, pos: pos}
	}
	return nil
}

type breakSignal struct {
	pos token.Pos
}

func (breakSignal) Error() string { return "break" }

type continueSignal struct {
	pos token.Pos
}

func (continueSignal) Error() string { return "continue" }

type stepLimitError struct {
	limit int
	pos   token.Pos
}

func (e stepLimitError) Error() string {
	return fmt.Sprintf("step limit exceeded (%d loop iterations)", e.limit)
}
