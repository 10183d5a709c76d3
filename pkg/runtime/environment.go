package runtime

import (
	"strconv"
	"strings"

	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/diag"
)

// Function is one entry of the shared function table.
type Function struct {
	Decl *ast.FunctionDefinition
	// Return may differ from Decl.Return when the checker inferred it.
	Return ast.TypeSpec
}

type binding struct {
	typ   ast.TypeSpec
	value Value
}

// Environment owns the variable bindings of one activation (the global frame
// or one call frame) plus the program-wide function table. Call frames share
// the caller's table but never its locals.
type Environment struct {
	frames    []map[string]*binding
	functions map[string]*Function
}

// NewEnvironment creates the global activation with an empty function table.
func NewEnvironment() *Environment {
	return &Environment{
		frames:    []map[string]*binding{{}},
		functions: make(map[string]*Function),
	}
}

// NewCall creates a fresh activation for one function call: no visible
// locals, same function table.
func (e *Environment) NewCall() *Environment {
	return &Environment{
		frames:    []map[string]*binding{{}},
		functions: e.functions,
	}
}

// PushScope opens a nested block scope inside this activation.
func (e *Environment) PushScope() {
	e.frames = append(e.frames, map[string]*binding{})
}

// PopScope discards the innermost block scope.
func (e *Environment) PopScope() {
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

func (e *Environment) lookup(name string) *binding {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if b, ok := e.frames[i][name]; ok {
			return b
		}
	}
	return nil
}

// DeclareVariable binds name in the innermost scope and allocates its
// default-shaped storage.
func (e *Environment) DeclareVariable(name string, typ ast.TypeSpec) error {
	frame := e.frames[len(e.frames)-1]
	if _, ok := frame[name]; ok {
		return diag.Errorf(diag.KindScope, "duplicate name %q", name)
	}
	frame[name] = &binding{typ: typ, value: Default(typ)}
	return nil
}

// GetVariable resolves name, applying the given indices one rank at a time.
func (e *Environment) GetVariable(name string, indices []int) (Value, error) {
	b := e.lookup(name)
	if b == nil {
		return nil, diag.Errorf(diag.KindScope, "undeclared name %q", name)
	}
	if len(indices) > b.typ.Rank() {
		return nil, diag.Errorf(diag.KindRuntimeIndex,
			"%d indices exceed the %d dimensions of %q", len(indices), b.typ.Rank(), name)
	}
	current := b.value
	for _, idx := range indices {
		arr, ok := current.(*ArrayValue)
		if !ok {
			return nil, diag.Errorf(diag.KindRuntimeIndex, "indexing into non-array value of %q", name)
		}
		if idx < 0 || idx >= len(arr.Elements) {
			return nil, diag.Errorf(diag.KindRuntimeIndex,
				"index %d exceeds the upper limit of %d", idx, len(arr.Elements)-1)
		}
		current = arr.Elements[idx]
	}
	return current, nil
}

// SetVariable assigns to name. Without indices the whole variable is replaced
// and the value's shape must match the declared dimensions exactly; with
// indices a sub-array or scalar of matching remaining rank is substituted.
// Textual values are coerced to the declared scalar base on the way in.
func (e *Environment) SetVariable(name string, value Value, indices []int) error {
	b := e.lookup(name)
	if b == nil {
		return diag.Errorf(diag.KindScope, "undeclared name %q", name)
	}
	if len(indices) > b.typ.Rank() {
		return diag.Errorf(diag.KindRuntimeIndex,
			"%d indices exceed the %d dimensions of %q", len(indices), b.typ.Rank(), name)
	}

	remaining := ast.TypeSpec{Base: b.typ.Base, Dimensions: b.typ.Dimensions[len(indices):]}
	coerced, err := conform(value, remaining, name)
	if err != nil {
		return err
	}

	if len(indices) == 0 {
		b.value = coerced
		return nil
	}

	current := b.value
	for _, idx := range indices[:len(indices)-1] {
		arr, ok := current.(*ArrayValue)
		if !ok {
			return diag.Errorf(diag.KindRuntimeIndex, "indexing into non-array value of %q", name)
		}
		if idx < 0 || idx >= len(arr.Elements) {
			return diag.Errorf(diag.KindRuntimeIndex,
				"index %d exceeds the upper limit of %d", idx, len(arr.Elements)-1)
		}
		current = arr.Elements[idx]
	}
	arr, ok := current.(*ArrayValue)
	if !ok {
		return diag.Errorf(diag.KindRuntimeIndex, "indexing into non-array value of %q", name)
	}
	last := indices[len(indices)-1]
	if last < 0 || last >= len(arr.Elements) {
		return diag.Errorf(diag.KindRuntimeIndex,
			"index %d exceeds the upper limit of %d", last, len(arr.Elements)-1)
	}
	arr.Elements[last] = coerced
	return nil
}

// DeclaredType reports the declared type of a visible variable.
func (e *Environment) DeclaredType(name string) (ast.TypeSpec, bool) {
	if b := e.lookup(name); b != nil {
		return b.typ, true
	}
	return ast.TypeSpec{}, false
}

// DeclareFunction registers a function; re-registration is a duplicate-name
// error since the table is immutable after program start.
func (e *Environment) DeclareFunction(name string, fn *Function) error {
	if _, ok := e.functions[name]; ok {
		return diag.Errorf(diag.KindScope, "duplicate name %q", name)
	}
	e.functions[name] = fn
	return nil
}

// GetFunction looks a function up in the shared table.
func (e *Environment) GetFunction(name string) (*Function, error) {
	fn, ok := e.functions[name]
	if !ok {
		return nil, diag.Errorf(diag.KindScope, "undeclared name %q", name)
	}
	return fn, nil
}

// conform validates value against the expected remaining type, coercing
// textual scalars to the declared base. Array values are checked for exact
// rank and, where the declaration fixed a length, per-dimension length.
func conform(value Value, expected ast.TypeSpec, name string) (Value, error) {
	if expected.Rank() == 0 {
		return coerceScalar(value, expected.Base, name)
	}
	arr, ok := value.(*ArrayValue)
	if !ok {
		return nil, diag.Errorf(diag.KindTypeMismatch,
			"cannot assign non-array value to array %q", name)
	}
	dim := expected.Dimensions[0]
	if dim.HasLength && len(arr.Elements) != dim.Length {
		return nil, diag.Errorf(diag.KindTypeMismatch,
			"array %q expects length %d, got %d", name, dim.Length, len(arr.Elements))
	}
	elements := make([]Value, len(arr.Elements))
	for i, elem := range arr.Elements {
		conformed, err := conform(elem, expected.Elem(), name)
		if err != nil {
			return nil, err
		}
		elements[i] = conformed
	}
	return &ArrayValue{Elements: elements}, nil
}

// coerceScalar converts compatible textual representations (raw input lines)
// to the declared scalar type; anything else must already match it.
func coerceScalar(value Value, base string, name string) (Value, error) {
	if base == ast.BaseString {
		if s, ok := value.(StringValue); ok {
			return s, nil
		}
	}
	if s, ok := value.(StringValue); ok {
		text := strings.TrimSpace(s.Val)
		switch base {
		case ast.BaseInteger:
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, diag.Errorf(diag.KindTypeMismatch,
					"cannot coerce %q to integer for %q", s.Val, name)
			}
			return IntegerValue{Val: n}, nil
		case ast.BaseDecimal:
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, diag.Errorf(diag.KindTypeMismatch,
					"cannot coerce %q to decimal for %q", s.Val, name)
			}
			return DecimalValue{Val: f}, nil
		case ast.BaseBoolean:
			switch text {
			case "true":
				return BooleanValue{Val: true}, nil
			case "false":
				return BooleanValue{Val: false}, nil
			}
			return nil, diag.Errorf(diag.KindTypeMismatch,
				"cannot coerce %q to boolean for %q", s.Val, name)
		}
	}

	want := map[string]Kind{
		ast.BaseInteger: KindInteger,
		ast.BaseDecimal: KindDecimal,
		ast.BaseBoolean: KindBoolean,
		ast.BaseString:  KindString,
	}[base]
	if value.Kind() != want {
		return nil, diag.Errorf(diag.KindTypeMismatch,
			"cannot assign %s value to %s variable %q", value.Kind(), base, name)
	}
	return value, nil
}
