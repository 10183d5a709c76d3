package typechecker

import (
	"strings"

	"rolex/interpreter-go/pkg/ast"
)

// Base enumerates the scalar bases of the type system.
type Base int

const (
	BaseInteger Base = iota
	BaseDecimal
	BaseBoolean
	BaseString
	BaseNoType
)

func (b Base) String() string {
	switch b {
	case BaseInteger:
		return "integer"
	case BaseDecimal:
		return "decimal"
	case BaseBoolean:
		return "boolean"
	case BaseString:
		return "string"
	default:
		return "noType"
	}
}

// Type is a checker type: a scalar base plus a rank counting array
// dimensions. Rank 0 is a scalar.
type Type struct {
	Base Base
	Rank int
}

// NoType denotes the absence of a value.
var NoType = Type{Base: BaseNoType}

var baseNames = map[string]Base{
	ast.BaseInteger: BaseInteger,
	ast.BaseDecimal: BaseDecimal,
	ast.BaseBoolean: BaseBoolean,
	ast.BaseString:  BaseString,
	ast.BaseNoType:  BaseNoType,
}

// FromSpec converts a syntactic type to a checker type. The bool result is
// false when the base name is not a known primitive.
func FromSpec(spec ast.TypeSpec) (Type, bool) {
	base, ok := baseNames[spec.Base]
	if !ok {
		return Type{}, false
	}
	return Type{Base: base, Rank: spec.Rank()}, true
}

// Elem strips one array rank.
func (t Type) Elem() Type {
	if t.Rank == 0 {
		return t
	}
	return Type{Base: t.Base, Rank: t.Rank - 1}
}

// IsNoType reports the void/absent-value type.
func (t Type) IsNoType() bool { return t.Base == BaseNoType && t.Rank == 0 }

// IsNumeric reports a scalar integer or decimal.
func (t Type) IsNumeric() bool {
	return t.Rank == 0 && (t.Base == BaseInteger || t.Base == BaseDecimal)
}

// IsArithmetic reports a scalar type valid for "+": numeric or string.
func (t Type) IsArithmetic() bool {
	return t.IsNumeric() || (t.Rank == 0 && t.Base == BaseString)
}

// IsBoolean reports a scalar boolean.
func (t Type) IsBoolean() bool { return t.Rank == 0 && t.Base == BaseBoolean }

// String renders "integer", "decimal[][]", ...
func (t Type) String() string {
	return t.Base.String() + strings.Repeat("[]", t.Rank)
}
