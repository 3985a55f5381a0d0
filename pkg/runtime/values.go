package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	isValue()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }
func (NullValue) isValue()   {}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }
func (BoolValue) isValue()     {}

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }
func (NumberValue) isValue()     {}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }
func (StringValue) isValue()     {}

//-----------------------------------------------------------------------------
// Lists and functions
//-----------------------------------------------------------------------------

// ListValue is an ordered sequence. Lists are never mutated after
// construction, so copies may share Elements.
type ListValue struct {
	Elements []Value
}

func (v ListValue) Kind() Kind { return KindList }
func (ListValue) isValue()     {}

// FuncValue refers to a declared function by name. It captures no
// environment.
type FuncValue struct {
	Name string
}

func (v FuncValue) Kind() Kind { return KindFunction }
func (FuncValue) isValue()     {}

// Null is the shared null value.
var Null Value = NullValue{}

// Num, Bool, Str and List are shorthand constructors.
func Num(v float64) Value       { return NumberValue{Val: v} }
func Bool(v bool) Value         { return BoolValue{Val: v} }
func Str(v string) Value        { return StringValue{Val: v} }
func List(elems ...Value) Value { return ListValue{Elements: elems} }
func Func(name string) Value    { return FuncValue{Name: name} }

// Equal implements structural equality: same variant and equal contents,
// with no coercion between kinds.
func Equal(left, right Value) bool {
	switch lv := left.(type) {
	case NullValue:
		_, ok := right.(NullValue)
		return ok
	case BoolValue:
		rv, ok := right.(BoolValue)
		return ok && lv.Val == rv.Val
	case NumberValue:
		rv, ok := right.(NumberValue)
		return ok && lv.Val == rv.Val
	case StringValue:
		rv, ok := right.(StringValue)
		return ok && lv.Val == rv.Val
	case ListValue:
		rv, ok := right.(ListValue)
		if !ok || len(lv.Elements) != len(rv.Elements) {
			return false
		}
		for idx := range lv.Elements {
			if !Equal(lv.Elements[idx], rv.Elements[idx]) {
				return false
			}
		}
		return true
	case FuncValue:
		rv, ok := right.(FuncValue)
		return ok && lv.Name == rv.Name
	}
	return false
}

// Format renders the display form written by print.
func Format(val Value) string {
	switch v := val.(type) {
	case NullValue:
		return "null"
	case BoolValue:
		return strconv.FormatBool(v.Val)
	case NumberValue:
		return FormatNumber(v.Val)
	case StringValue:
		return v.Val
	case ListValue:
		parts := make([]string, len(v.Elements))
		for idx, el := range v.Elements {
			parts[idx] = Format(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case FuncValue:
		return fmt.Sprintf("<function: %s>", v.Name)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

// FormatNumber prints the shortest decimal that round-trips, without an
// exponent, so 5.0 renders as "5".
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
