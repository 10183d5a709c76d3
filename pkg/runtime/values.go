// Package runtime holds the live values and the per-activation variable store
// of a ROLEX run.
package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"rolex/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindDecimal
	KindBoolean
	KindString
	KindArray
	KindNoValue
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindNoValue:
		return "noType"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type DecimalValue struct {
	Val float64
}

func (v DecimalValue) Kind() Kind { return KindDecimal }

type BooleanValue struct {
	Val bool
}

func (v BooleanValue) Kind() Kind { return KindBoolean }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// ArrayValue owns an ordered, homogeneous element sequence. It is a pointer
// type so indexed assignment mutates the stored array in place.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NoValue is the sentinel for "no value": void returns and unconsumed input.
type NoValue struct{}

func (NoValue) Kind() Kind { return KindNoValue }

// Default builds the value a declaration allocates before any assignment:
// the scalar zero value, or a default-shaped nested array (unsized dimensions
// get length zero).
func Default(spec ast.TypeSpec) Value {
	if len(spec.Dimensions) == 0 {
		switch spec.Base {
		case ast.BaseInteger:
			return IntegerValue{}
		case ast.BaseDecimal:
			return DecimalValue{}
		case ast.BaseBoolean:
			return BooleanValue{}
		case ast.BaseString:
			return StringValue{}
		default:
			return NoValue{}
		}
	}
	length := 0
	if spec.Dimensions[0].HasLength {
		length = spec.Dimensions[0].Length
	}
	elements := make([]Value, length)
	for i := range elements {
		elements[i] = Default(spec.Elem())
	}
	return &ArrayValue{Elements: elements}
}

// Format renders a value the way the output statement prints it. Decimals
// always show a fractional part so `10 / 2` prints as 5.0, never 5.
func Format(v Value) string {
	switch val := v.(type) {
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case DecimalValue:
		if math.Trunc(val.Val) == val.Val && !math.IsInf(val.Val, 0) {
			return strconv.FormatFloat(val.Val, 'f', 1, 64)
		}
		return strconv.FormatFloat(val.Val, 'f', -1, 64)
	case BooleanValue:
		return strconv.FormatBool(val.Val)
	case StringValue:
		return val.Val
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, elem := range val.Elements {
			parts[i] = Format(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case NoValue:
		return "noType"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Equal compares two values structurally. The checker guarantees operands of
// identical type, so mixed kinds simply compare unequal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case IntegerValue:
		bv, ok := b.(IntegerValue)
		return ok && av.Val == bv.Val
	case DecimalValue:
		bv, ok := b.(DecimalValue)
		return ok && av.Val == bv.Val
	case BooleanValue:
		bv, ok := b.(BooleanValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case NoValue:
		_, ok := b.(NoValue)
		return ok
	default:
		return false
	}
}
