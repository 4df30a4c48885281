package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNumber writes f in its shortest decimal form, never with an
// exponent.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Display is the form used by ecrire and for the final value of a program.
func Display(v Value) string {
	switch v := v.(type) {
	case NullValue:
		return "rien"
	case BooleanValue:
		if v.Val {
			return "vrai"
		}
		return "faux"
	case NumberValue:
		return FormatNumber(v.Val)
	case StringValue:
		return v.Val
	case *ArrayValue:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = Display(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *FunctionValue:
		return "<fonction @" + v.Name + ">"
	case *BuiltinValue:
		return "<fonction @" + v.Name + ">"
	case nil:
		return "rien"
	}
	return fmt.Sprintf("%v", v)
}

// Raw is the form used when a value is concatenated to a string. Unlike
// Display, booleans and null keep their internal spelling.
func Raw(v Value) string {
	switch v := v.(type) {
	case NullValue, nil:
		return "null"
	case BooleanValue:
		return strconv.FormatBool(v.Val)
	case *ArrayValue:
		parts := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			parts[i] = Raw(e)
		}
		return strings.Join(parts, ",")
	}
	return Display(v)
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case NullValue, nil:
		return false
	case BooleanValue:
		return v.Val
	case NumberValue:
		return v.Val != 0 && !math.IsNaN(v.Val)
	case StringValue:
		return v.Val != ""
	}
	return true
}

// Equal compares two values without coercion. Arrays and functions are
// equal only to themselves.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case NumberValue:
		other, ok := b.(NumberValue)
		return ok && a.Val == other.Val
	case BooleanValue:
		other, ok := b.(BooleanValue)
		return ok && a.Val == other.Val
	case StringValue:
		other, ok := b.(StringValue)
		return ok && a.Val == other.Val
	case *ArrayValue:
		other, ok := b.(*ArrayValue)
		return ok && a == other
	case *FunctionValue:
		other, ok := b.(*FunctionValue)
		return ok && a == other
	case *BuiltinValue:
		other, ok := b.(*BuiltinValue)
		return ok && a == other
	}
	return false
}

// Compare orders two numbers, two strings or two booleans (faux < vrai).
// It returns -1, 0 or 1.
func Compare(a, b Value) (int, error) {
	switch a := a.(type) {
	case NumberValue:
		if other, ok := b.(NumberValue); ok {
			switch {
			case a.Val < other.Val:
				return -1, nil
			case a.Val > other.Val:
				return 1, nil
			}
			return 0, nil
		}
	case StringValue:
		if other, ok := b.(StringValue); ok {
			return strings.Compare(a.Val, other.Val), nil
		}
	case BooleanValue:
		if other, ok := b.(BooleanValue); ok {
			return boolRank(a.Val) - boolRank(other.Val), nil
		}
	}
	return 0, fmt.Errorf("Impossible de comparer une valeur de type '%s' avec une valeur de type '%s'", a.Kind(), b.Kind())
}

// ToNumber coerces v for arithmetic: booleans count as 1 or 0 and null as 0.
func ToNumber(v Value) (float64, bool) {
	switch v := v.(type) {
	case NumberValue:
		return v.Val, true
	case BooleanValue:
		return float64(boolRank(v.Val)), true
	case NullValue:
		return 0, true
	}
	return 0, false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
