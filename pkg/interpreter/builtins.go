package interpreter

import (
	"fmt"
	"strings"

	"alin/interpreter-go/pkg/runtime"
)

type builtinFunc func(args []runtime.Value) (runtime.Value, error)

// builtinPrint writes its arguments separated by single spaces and ends the line.
func (i *Interpreter) builtinPrint(args []runtime.Value) (runtime.Value, error) {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.String())
	}
	fmt.Fprintln(i.out, strings.Join(parts, " "))
	return runtime.Nil, nil
}
