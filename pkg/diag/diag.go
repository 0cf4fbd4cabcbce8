package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"alin/interpreter-go/pkg/token"
)

// Kind is the severity tier of a diagnostic.
type Kind int

const (
	// LexWarning is advisory: the lexer skipped or zeroed something and kept going.
	LexWarning Kind = iota
	// ParseError aborts the parse of the whole input.
	ParseError
	// EvalError degrades the current expression to nil; the run continues.
	EvalError
)

func (k Kind) String() string {
	switch k {
	case LexWarning:
		return "lex warning"
	case ParseError:
		return "parse error"
	case EvalError:
		return "eval error"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// IsError reports whether the kind is more severe than a warning.
func (k Kind) IsError() bool {
	return k != LexWarning
}

// MarshalText renders the kind for JSON payloads.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case LexWarning:
		return []byte("lex_warning"), nil
	case ParseError:
		return []byte("parse_error"), nil
	case EvalError:
		return []byte("eval_error"), nil
	default:
		return nil, fmt.Errorf("diag: unknown kind %d", int(k))
	}
}

// UnmarshalText accepts the names produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "lex_warning":
		*k = LexWarning
	case "parse_error":
		*k = ParseError
	case "eval_error":
		*k = EvalError
	default:
		return fmt.Errorf("diag: unknown kind %q", text)
	}
	return nil
}

// Diagnostic is a single message produced by one of the pipeline stages.
type Diagnostic struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Pos     token.Pos `json:"pos"`
}

// New builds a diagnostic at pos.
func New(kind Kind, pos token.Pos, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

func (d *Diagnostic) Error() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s [%s]: %s", d.Kind, d.Pos, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// List is an ordered collection of diagnostics.
type List []*Diagnostic

// Add appends a diagnostic built from the arguments.
func (l *List) Add(kind Kind, pos token.Pos, format string, args ...any) {
	*l = append(*l, New(kind, pos, format, args...))
}

// HasErrors reports whether any entry is above warning severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Kind.IsError() {
			return true
		}
	}
	return false
}

// Filter returns the entries of the given kind.
func (l List) Filter(kind Kind) List {
	var out List
	for _, d := range l {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Messages returns the bare messages, mostly useful for assertions.
func (l List) Messages() []string {
	out := make([]string, 0, len(l))
	for _, d := range l {
		out = append(out, d.Message)
	}
	return out
}

func (l List) Error() string {
	parts := make([]string, 0, len(l))
	for _, d := range l {
		parts = append(parts, d.Error())
	}
	return strings.Join(parts, "\n")
}

var (
	warnLabel  = color.New(color.FgYellow, color.Bold)
	errorLabel = color.New(color.FgRed, color.Bold)
)

// Fprint writes one line per diagnostic. When colored is false the output is plain text
// regardless of the global color setting.
func Fprint(w io.Writer, l List, colored bool) {
	for _, d := range l {
		label := d.Kind.String()
		if colored {
			if d.Kind.IsError() {
				label = errorLabel.Sprint(label)
			} else {
				label = warnLabel.Sprint(label)
			}
		}
		if d.Pos.IsValid() {
			fmt.Fprintf(w, "%s [%s]: %s\n", label, d.Pos, d.Message)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", label, d.Message)
	}
}
