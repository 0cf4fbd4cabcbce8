package runtime

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindNil
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindNil:
		return "nil"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

// String renders the shortest decimal that round-trips, never in exponent form.
func (v NumberValue) String() string {
	switch {
	case math.IsInf(v.Val, 1):
		return "inf"
	case math.IsInf(v.Val, -1):
		return "-inf"
	case math.IsNaN(v.Val):
		return "NaN"
	}
	return strconv.FormatFloat(v.Val, 'f', -1, 64)
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind     { return KindString }
func (v StringValue) String() string { return v.Val }

// NilValue is the absence of a value: an unbound variable, a failed evaluation, or a
// statement that produces nothing.
type NilValue struct{}

func (NilValue) Kind() Kind     { return KindNil }
func (NilValue) String() string { return "nil" }

// Nil is the shared nil value.
var Nil Value = NilValue{}

// IsNil reports whether v is absent or NilValue.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(NilValue)
	return ok
}

// Truthy reports whether v selects the taken branch of a conditional: only numbers other
// than zero are true.
func Truthy(v Value) bool {
	n, ok := v.(NumberValue)
	return ok && n.Val != 0
}

// Bool converts a Go boolean to the 1/0 number used for comparison results.
func Bool(b bool) NumberValue {
	if b {
		return NumberValue{Val: 1}
	}
	return NumberValue{Val: 0}
}
