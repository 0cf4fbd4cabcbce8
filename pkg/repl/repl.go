package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/log"
	"github.com/mattn/go-isatty"

	"alin/interpreter-go/pkg/diag"
	"alin/interpreter-go/pkg/driver"
)

const (
	// Banner is printed once when the loop starts on a terminal.
	Banner = "Alin REPL v0.1 — type 'exit()' to quit"
	// ExitCommand ends the loop.
	ExitCommand = "exit()"

	maxConsecutiveReadErrors = 3
)

// REPL reads one line at a time and runs it through a single session.
type REPL struct {
	session     *driver.Session
	in          *bufio.Reader
	out         io.Writer
	errOut      io.Writer
	interactive bool
	colored     bool
}

// Option configures a REPL.
type Option func(*REPL)

// WithInteractive forces the prompt and banner on or off.
func WithInteractive(on bool) Option {
	return func(r *REPL) { r.interactive = on }
}

// WithColor enables coloured diagnostics.
func WithColor(on bool) Option {
	return func(r *REPL) { r.colored = on }
}

// New builds a loop over in. Prompts go to out and diagnostics to errOut. Interactivity
// defaults to whether in is a terminal.
func New(session *driver.Session, in io.Reader, out, errOut io.Writer, opts ...Option) *REPL {
	r := &REPL{
		session:     session,
		in:          bufio.NewReader(in),
		out:         out,
		errOut:      errOut,
		interactive: IsTerminal(in),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Run loops until exit(), end of input, or repeated read failures.
func (r *REPL) Run() error {
	cfg := r.session.Config()
	if r.interactive && cfg.Banner {
		fmt.Fprintln(r.out, Banner)
	}
	failures := 0
	for {
		if r.interactive {
			fmt.Fprint(r.out, cfg.Prompt)
		}
		line, err := r.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			failures++
			fmt.Fprintf(r.errOut, "Error reading input: %v\n", err)
			log.Warnf("repl read failed (%d/%d): %v", failures, maxConsecutiveReadErrors, err)
			if failures >= maxConsecutiveReadErrors {
				return fmt.Errorf("repl: giving up after %d read errors: %w", failures, err)
			}
			continue
		}
		failures = 0
		atEOF := errors.Is(err, io.EOF)

		input := strings.TrimSpace(line)
		if input == ExitCommand {
			return nil
		}
		if input != "" {
			report := r.session.Run(input)
			diag.Fprint(r.errOut, report.Diagnostics, r.colored)
		}
		if atEOF {
			if r.interactive {
				fmt.Fprintln(r.out)
			}
			return nil
		}
	}
}
