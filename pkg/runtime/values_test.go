package runtime

import (
	"testing"

	"rolex/interpreter-go/pkg/ast"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{"integer", IntegerValue{Val: -7}, "-7"},
		{"integral decimal keeps a fraction digit", DecimalValue{Val: 5}, "5.0"},
		{"fractional decimal", DecimalValue{Val: 2.25}, "2.25"},
		{"boolean", BooleanValue{Val: true}, "true"},
		{"string", StringValue{Val: "hej"}, "hej"},
		{"array", &ArrayValue{Elements: []Value{
			IntegerValue{Val: 1}, IntegerValue{Val: 2},
		}}, "[1, 2]"},
		{"nested array", &ArrayValue{Elements: []Value{
			&ArrayValue{Elements: []Value{IntegerValue{Val: 1}}},
			&ArrayValue{Elements: []Value{}},
		}}, "[[1], []]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.in); got != tc.want {
				t.Fatalf("Format = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDefaultShapes(t *testing.T) {
	got := Default(ast.TyArr(ast.BaseInteger, 2, 3))
	if Format(got) != "[[0, 0, 0], [0, 0, 0]]" {
		t.Fatalf("default integer[2][3] = %s", Format(got))
	}
	if Default(ast.Ty(ast.BaseString)) != (StringValue{}) {
		t.Fatal("default string must be empty")
	}
	if Default(ast.Ty(ast.BaseNoType)).Kind() != KindNoValue {
		t.Fatal("default noType must be the sentinel")
	}
}

func TestEqual(t *testing.T) {
	a := &ArrayValue{Elements: []Value{IntegerValue{Val: 1}, IntegerValue{Val: 2}}}
	b := &ArrayValue{Elements: []Value{IntegerValue{Val: 1}, IntegerValue{Val: 2}}}
	c := &ArrayValue{Elements: []Value{IntegerValue{Val: 1}}}
	if !Equal(a, b) {
		t.Fatal("structurally equal arrays must compare equal")
	}
	if Equal(a, c) {
		t.Fatal("different lengths must compare unequal")
	}
	if Equal(IntegerValue{Val: 1}, DecimalValue{Val: 1}) {
		t.Fatal("different kinds must compare unequal")
	}
}
