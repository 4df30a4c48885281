package runtime

import (
	"fmt"

	"github.com/btouchard/qlang/internal/qlang/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindBoolean
	KindString
	KindArray
	KindFunction
	KindBuiltin
)

// String returns the French name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "rien"
	case KindNumber:
		return "nombre"
	case KindBoolean:
		return "booléen"
	case KindString:
		return "chaîne"
	case KindArray:
		return "tableau"
	case KindFunction, KindBuiltin:
		return "fonction"
	default:
		return fmt.Sprintf("type_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Null is the single null value.
var Null Value = NullValue{}

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type BooleanValue struct {
	Val bool
}

func (v BooleanValue) Kind() Kind { return KindBoolean }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

func Number(f float64) Value { return NumberValue{Val: f} }
func Boolean(b bool) Value   { return BooleanValue{Val: b} }
func String(s string) Value  { return StringValue{Val: s} }

// Array builds a new array holding elems.
func Array(elems ...Value) *ArrayValue {
	return &ArrayValue{Elements: elems}
}

//-----------------------------------------------------------------------------
// References
//-----------------------------------------------------------------------------

// ArrayValue is mutable and shared by reference.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// FunctionValue is a user function together with the environment it was
// declared in.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    *ast.BlockStatement
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// Arity is the number of parameters.
func (v *FunctionValue) Arity() int { return len(v.Params) }

// BuiltinFunc implements a native function. args always has exactly Arity
// elements.
type BuiltinFunc func(args []Value) (Value, error)

type BuiltinValue struct {
	Name  string
	Arity int
	Fn    BuiltinFunc
}

func (v *BuiltinValue) Kind() Kind { return KindBuiltin }

//-----------------------------------------------------------------------------
// Control flow
//-----------------------------------------------------------------------------

// Signal tells how a statement completed.
type Signal int

const (
	SignalNone Signal = iota
	SignalBreak
	SignalContinue
	SignalReturn
)

func (s Signal) String() string {
	switch s {
	case SignalBreak:
		return "arreter"
	case SignalContinue:
		return "continuer"
	case SignalReturn:
		return "retour"
	default:
		return "normal"
	}
}

// Completion is the result of evaluating a statement: a value, plus the
// control-flow signal that interrupted the enclosing block, if any.
// Signals never end up in a binding, an array or an output. Line is the
// source line of the statement that raised the signal.
type Completion struct {
	Signal Signal
	Value  Value
	Line   int
}

// Normal wraps a value that completed without interruption.
func Normal(v Value) Completion {
	return Completion{Value: v}
}

// Interrupted reports whether the completion carries a signal.
func (c Completion) Interrupted() bool {
	return c.Signal != SignalNone
}
