// Package typechecker implements the whole-program static semantics pass. It
// validates scoping, typing, structure and naming convention in one
// depth-first walk and fails fast with a structured error on the first
// violation. It never touches runtime state.
package typechecker

import (
	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/dialect"
)

// Signature is one entry of the checker's function table.
type Signature struct {
	Name   string
	Params []Type
	Return Type
	Decl   *ast.FunctionDefinition

	inferred bool
}

// Checker carries the state of one checking session: the scope stack, the
// function table, the enclosing function's expected return type, and the
// flag that lets a bare expression statement evaluate to no value.
type Checker struct {
	scopes    []map[string]Type
	funcs     map[string]*Signature
	order     []string
	caseStyle dialect.CaseStyle
	current   *Signature
	bareExpr  bool
}

// New builds a checker enforcing the given naming convention. The REPL uses
// this directly; file checking goes through Check.
func New(style dialect.CaseStyle) *Checker {
	return &Checker{
		scopes:    []map[string]Type{{}},
		funcs:     make(map[string]*Signature),
		caseStyle: style,
	}
}

// Check validates a whole program: two-phase (signatures first, then bodies
// against the complete table), followed by the global structure rules.
func Check(program *ast.Program) error {
	if program.Header == nil {
		return diag.Errorf(diag.KindStructure, "missing dialect header")
	}
	c := New(program.Header.Dialect.Case)

	for _, fn := range program.Functions {
		if err := c.registerFunction(fn); err != nil {
			return err
		}
	}
	for _, fn := range program.Functions {
		if err := c.checkFunctionBody(c.funcs[fn.Name]); err != nil {
			return err
		}
	}
	return c.checkMainPlacement()
}

// Signature exposes the (possibly inferred) signature of a checked function.
func (c *Checker) Signature(name string) (*Signature, bool) {
	sig, ok := c.funcs[name]
	return sig, ok
}

// CheckStatement validates one statement against the persistent global scope.
// Function definitions are registered and checked; every other statement is
// checked as if it appeared in a body.
func (c *Checker) CheckStatement(stmt ast.Statement) error {
	if fn, ok := stmt.(*ast.FunctionDefinition); ok {
		if err := c.registerFunction(fn); err != nil {
			return err
		}
		return c.checkFunctionBody(c.funcs[fn.Name])
	}
	return c.checkStatement(stmt)
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

func (c *Checker) registerFunction(fn *ast.FunctionDefinition) error {
	if _, exists := c.funcs[fn.Name]; exists {
		return diag.Errorf(diag.KindScope, "duplicate name %q", fn.Name).At(fn.Position.Line, fn.Position.Column)
	}
	if c.lookup(fn.Name) != nil {
		return diag.Errorf(diag.KindScope, "redeclaration of %q", fn.Name).At(fn.Position.Line, fn.Position.Column)
	}
	if err := c.checkCase(fn.Name, fn.Pos()); err != nil {
		return err
	}
	ret, ok := FromSpec(fn.Return)
	if !ok {
		return diag.Errorf(diag.KindStructure, "unknown type %q", fn.Return.Base).At(fn.Position.Line, fn.Position.Column)
	}
	params := make([]Type, len(fn.Parameters))
	for i, param := range fn.Parameters {
		typ, ok := FromSpec(param.Type)
		if !ok {
			return diag.Errorf(diag.KindStructure, "unknown type %q", param.Type.Base).At(param.Position.Line, param.Position.Column)
		}
		params[i] = typ
	}
	c.funcs[fn.Name] = &Signature{Name: fn.Name, Params: params, Return: ret, Decl: fn}
	c.order = append(c.order, fn.Name)
	return nil
}

// checkFunctionBody walks one body in a fresh, outer-local-free scope seeded
// only with the parameters, then enforces the per-branch return rules.
func (c *Checker) checkFunctionBody(sig *Signature) error {
	fn := sig.Decl

	paramScope := map[string]Type{}
	for i, param := range fn.Parameters {
		if err := c.checkCase(param.Name, param.Pos()); err != nil {
			return err
		}
		if _, dup := paramScope[param.Name]; dup {
			return diag.Errorf(diag.KindScope, "duplicate name %q", param.Name).At(param.Position.Line, param.Position.Column)
		}
		paramScope[param.Name] = sig.Params[i]
	}

	savedScopes, savedCurrent := c.scopes, c.current
	c.scopes = []map[string]Type{paramScope}
	c.current = sig

	err := c.checkBlock(fn.Body)

	c.scopes, c.current = savedScopes, savedCurrent
	if err != nil {
		return err
	}

	if err := checkSingleReturn(fn.Body); err != nil {
		return err
	}
	if !sig.Return.IsNoType() && !guaranteesReturn(fn.Body) {
		return diag.Errorf(diag.KindStructure,
			"function %q does not return on every path", fn.Name).At(fn.Position.Line, fn.Position.Column)
	}
	return nil
}

func (c *Checker) checkMainPlacement() error {
	count := 0
	for _, name := range c.order {
		if name == "main" {
			count++
		}
	}
	if len(c.order) == 0 || count != 1 || c.order[len(c.order)-1] != "main" {
		return diag.Errorf(diag.KindStructure, "%q must be the single last function definition", "main")
	}
	if sig := c.funcs["main"]; len(sig.Params) > 0 {
		return diag.Errorf(diag.KindStructure,
			"%q must not declare parameters", "main").At(sig.Decl.Position.Line, sig.Decl.Position.Column)
	}
	return nil
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

func (c *Checker) checkBlock(block *ast.Block) error {
	c.scopes = append(c.scopes, map[string]Type{})
	defer func() { c.scopes = c.scopes[:len(c.scopes)-1] }()
	for _, stmt := range block.Statements {
		if err := c.checkStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		return c.checkDeclaration(s)
	case *ast.Assignment:
		return c.checkAssignment(s)
	case *ast.IfStatement:
		return c.checkIf(s)
	case *ast.WhileStatement:
		return c.checkWhile(s)
	case *ast.ReturnStatement:
		return c.checkReturn(s)
	case *ast.OutputStatement:
		_, err := c.checkExpression(s.Value)
		return err
	case *ast.ExpressionStatement:
		c.bareExpr = true
		_, err := c.checkExpression(s.Expression)
		c.bareExpr = false
		return err
	case *ast.Block:
		return c.checkBlock(s)
	case *ast.FunctionDefinition:
		return diag.Errorf(diag.KindStructure, "nested function definitions are not allowed").At(s.Position.Line, s.Position.Column)
	default:
		return diag.Errorf(diag.KindStructure, "unsupported statement kind")
	}
}

func (c *Checker) checkDeclaration(decl *ast.VariableDeclaration) error {
	if err := c.checkCase(decl.Name, decl.Pos()); err != nil {
		return err
	}
	if c.lookup(decl.Name) != nil {
		return diag.Errorf(diag.KindScope, "redeclaration of %q", decl.Name).At(decl.Position.Line, decl.Position.Column)
	}
	if _, isFunc := c.funcs[decl.Name]; isFunc {
		return diag.Errorf(diag.KindScope, "redeclaration of %q", decl.Name).At(decl.Position.Line, decl.Position.Column)
	}
	declared, ok := FromSpec(decl.Type)
	if !ok {
		return diag.Errorf(diag.KindStructure, "unknown type %q", decl.Type.Base).At(decl.Position.Line, decl.Position.Column)
	}

	if decl.Initializer != nil {
		got, err := c.checkExpression(decl.Initializer)
		if err != nil {
			return err
		}
		if got != declared && !got.IsNoType() {
			return diag.Errorf(diag.KindTypeMismatch,
				"declaration of %q expects %s, got %s", decl.Name, declared, got).At(decl.Position.Line, decl.Position.Column)
		}
		if err := checkLiteralShape(decl.Initializer, decl.Type, decl.Name); err != nil {
			return err
		}
	}

	c.scopes[len(c.scopes)-1][decl.Name] = declared
	return nil
}

// checkLiteralShape compares an array-literal initializer against every
// constant declared length, recursing through nested literals.
func checkLiteralShape(init ast.Expression, spec ast.TypeSpec, name string) error {
	lit, ok := init.(*ast.ArrayLiteral)
	if !ok || len(spec.Dimensions) == 0 {
		return nil
	}
	dim := spec.Dimensions[0]
	if dim.HasLength && len(lit.Elements) != dim.Length {
		return diag.Errorf(diag.KindTypeMismatch,
			"array %q expects length %d, got %d elements", name, dim.Length, len(lit.Elements)).At(lit.Position.Line, lit.Position.Column)
	}
	for _, elem := range lit.Elements {
		if err := checkLiteralShape(elem, spec.Elem(), name); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkAssignment(assign *ast.Assignment) error {
	declared := c.lookup(assign.Target.Name)
	if declared == nil {
		return diag.Errorf(diag.KindScope, "undeclared identifier %q", assign.Target.Name).At(assign.Position.Line, assign.Position.Column)
	}
	if len(assign.Indices) > declared.Rank {
		return diag.Errorf(diag.KindTypeMismatch,
			"%d indices exceed the %d dimensions of %q", len(assign.Indices), declared.Rank, assign.Target.Name).At(assign.Position.Line, assign.Position.Column)
	}
	for _, index := range assign.Indices {
		it, err := c.checkExpression(index)
		if err != nil {
			return err
		}
		if it != (Type{Base: BaseInteger}) {
			return diag.Errorf(diag.KindTypeMismatch,
				"array index must be integer, got %s", it).At(index.Pos().Line, index.Pos().Column)
		}
	}

	expected := Type{Base: declared.Base, Rank: declared.Rank - len(assign.Indices)}
	got, err := c.checkExpression(assign.Value)
	if err != nil {
		return err
	}
	if got != expected && !got.IsNoType() {
		return diag.Errorf(diag.KindTypeMismatch,
			"assignment to %q expects %s, got %s", assign.Target.Name, expected, got).At(assign.Position.Line, assign.Position.Column)
	}
	return nil
}

func (c *Checker) checkIf(stmt *ast.IfStatement) error {
	if err := c.checkCondition(stmt.Condition, "if"); err != nil {
		return err
	}
	if err := c.checkBlock(stmt.Then); err != nil {
		return err
	}
	if stmt.Else != nil {
		return c.checkBlock(stmt.Else)
	}
	return nil
}

func (c *Checker) checkWhile(stmt *ast.WhileStatement) error {
	if err := c.checkCondition(stmt.Condition, "while"); err != nil {
		return err
	}
	return c.checkBlock(stmt.Body)
}

func (c *Checker) checkCondition(cond ast.Expression, construct string) error {
	t, err := c.checkExpression(cond)
	if err != nil {
		return err
	}
	if !t.IsBoolean() {
		return diag.Errorf(diag.KindTypeMismatch,
			"%s condition must be boolean, got %s", construct, t).At(cond.Pos().Line, cond.Pos().Column)
	}
	return nil
}

func (c *Checker) checkReturn(stmt *ast.ReturnStatement) error {
	if c.current == nil {
		return diag.Errorf(diag.KindStructure, "return outside function").At(stmt.Position.Line, stmt.Position.Column)
	}

	got := NoType
	if stmt.Value != nil {
		var err error
		got, err = c.checkExpression(stmt.Value)
		if err != nil {
			return err
		}
	}

	expected := c.current.Return
	if expected.IsNoType() && !c.current.inferred {
		if got.IsNoType() {
			return nil
		}
		// Declared with the untyped placeholder: the first value-carrying
		// return fixes the type and republishes the signature.
		c.current.Return = got
		c.current.inferred = true
		return nil
	}

	if got == expected || got.IsNoType() {
		return nil
	}
	if got.Base == expected.Base && got.Rank <= expected.Rank {
		return nil // obtainable by stripping array dimensions
	}
	return diag.Errorf(diag.KindTypeMismatch,
		"return expects %s, got %s", expected, got).At(stmt.Position.Line, stmt.Position.Column)
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (c *Checker) checkExpression(expr ast.Expression) (Type, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return Type{Base: BaseInteger}, nil
	case *ast.DecimalLiteral:
		return Type{Base: BaseDecimal}, nil
	case *ast.BooleanLiteral:
		return Type{Base: BaseBoolean}, nil
	case *ast.StringLiteral:
		return Type{Base: BaseString}, nil
	case *ast.InputExpression:
		return NoType, nil
	case *ast.Identifier:
		if t := c.lookup(e.Name); t != nil {
			return *t, nil
		}
		return Type{}, diag.Errorf(diag.KindScope, "undeclared identifier %q", e.Name).At(e.Position.Line, e.Position.Column)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(e)
	case *ast.UnaryExpression:
		return c.checkUnary(e)
	case *ast.ArithmeticExpression:
		return c.checkArithmetic(e)
	case *ast.ComparisonExpression:
		return c.checkComparison(e)
	case *ast.LogicalExpression:
		return c.checkLogical(e)
	case *ast.PostfixExpression:
		return c.checkPostfix(e)
	default:
		return Type{}, diag.Errorf(diag.KindStructure, "unsupported expression kind")
	}
}

func (c *Checker) checkArrayLiteral(lit *ast.ArrayLiteral) (Type, error) {
	if len(lit.Elements) == 0 {
		return Type{}, diag.Errorf(diag.KindTypeMismatch,
			"cannot infer the type of an empty array literal").At(lit.Position.Line, lit.Position.Column)
	}
	first, err := c.checkExpression(lit.Elements[0])
	if err != nil {
		return Type{}, err
	}
	for _, elem := range lit.Elements[1:] {
		t, err := c.checkExpression(elem)
		if err != nil {
			return Type{}, err
		}
		if t != first {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"array literal elements must share one type, got %s and %s", first, t).At(elem.Pos().Line, elem.Pos().Column)
		}
	}
	return Type{Base: first.Base, Rank: first.Rank + 1}, nil
}

func (c *Checker) checkUnary(e *ast.UnaryExpression) (Type, error) {
	t, err := c.checkExpression(e.Operand)
	if err != nil {
		return Type{}, err
	}
	switch e.Operator {
	case "-":
		if !t.IsNumeric() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"unary '-' requires a numeric operand, got %s", t).At(e.Position.Line, e.Position.Column)
		}
		return t, nil
	default: // "!"
		if !t.IsBoolean() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"'!' requires a boolean operand, got %s", t).At(e.Position.Line, e.Position.Column)
		}
		return t, nil
	}
}

func (c *Checker) checkArithmetic(e *ast.ArithmeticExpression) (Type, error) {
	left, err := c.checkExpression(e.Left)
	if err != nil {
		return Type{}, err
	}
	right, err := c.checkExpression(e.Right)
	if err != nil {
		return Type{}, err
	}
	if left != right {
		return Type{}, diag.Errorf(diag.KindTypeMismatch,
			"'%s' requires matching operand types, got %s and %s", e.Operator, left, right).At(e.Position.Line, e.Position.Column)
	}
	switch e.Operator {
	case "+":
		if !left.IsArithmetic() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"'+' requires numeric or string operands, got %s", left).At(e.Position.Line, e.Position.Column)
		}
		return left, nil
	case "/":
		if !left.IsNumeric() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"'/' requires numeric operands, got %s", left).At(e.Position.Line, e.Position.Column)
		}
		return Type{Base: BaseDecimal}, nil
	default: // - * %
		if !left.IsNumeric() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"'%s' requires numeric operands, got %s", e.Operator, left).At(e.Position.Line, e.Position.Column)
		}
		return left, nil
	}
}

func (c *Checker) checkComparison(e *ast.ComparisonExpression) (Type, error) {
	left, err := c.checkExpression(e.Left)
	if err != nil {
		return Type{}, err
	}
	right, err := c.checkExpression(e.Right)
	if err != nil {
		return Type{}, err
	}
	if left != right || left.IsNoType() {
		return Type{}, diag.Errorf(diag.KindTypeMismatch,
			"'%s' requires identical operand types, got %s and %s", e.Operator, left, right).At(e.Position.Line, e.Position.Column)
	}
	if e.Operator != "==" && e.Operator != "!=" && !left.IsNumeric() {
		return Type{}, diag.Errorf(diag.KindTypeMismatch,
			"'%s' requires numeric operands, got %s", e.Operator, left).At(e.Position.Line, e.Position.Column)
	}
	return Type{Base: BaseBoolean}, nil
}

func (c *Checker) checkLogical(e *ast.LogicalExpression) (Type, error) {
	for _, operand := range e.Operands {
		t, err := c.checkExpression(operand)
		if err != nil {
			return Type{}, err
		}
		if !t.IsBoolean() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"'%s' expects boolean operands, got %s", e.Operator, t).At(operand.Pos().Line, operand.Pos().Column)
		}
	}
	return Type{Base: BaseBoolean}, nil
}

// checkPostfix walks a call/index suffix chain. A call must target a declared
// function by name; functions are not first-class, so the chain can carry at
// most one leading call. Each index suffix peels one array rank.
func (c *Checker) checkPostfix(e *ast.PostfixExpression) (Type, error) {
	var current Type
	suffixes := e.Suffixes

	if id, ok := e.Primary.(*ast.Identifier); ok && len(suffixes) > 0 {
		if call, ok := suffixes[0].(*ast.CallSuffix); ok {
			t, err := c.checkCall(id, call)
			if err != nil {
				return Type{}, err
			}
			current = t
			suffixes = suffixes[1:]
			if current.IsNoType() && !c.bareExpr {
				// Only a bare expression statement may discard a void call.
				return Type{}, diag.Errorf(diag.KindTypeMismatch,
					"%q returns no value", id.Name).At(call.Position.Line, call.Position.Column)
			}
		} else {
			t, err := c.checkExpression(e.Primary)
			if err != nil {
				return Type{}, err
			}
			current = t
		}
	} else {
		t, err := c.checkExpression(e.Primary)
		if err != nil {
			return Type{}, err
		}
		current = t
	}

	for _, suffix := range suffixes {
		switch s := suffix.(type) {
		case *ast.CallSuffix:
			return Type{}, diag.Errorf(diag.KindStructure,
				"function call must target an identifier").At(s.Position.Line, s.Position.Column)
		case *ast.IndexSuffix:
			if current.Rank < 1 {
				return Type{}, diag.Errorf(diag.KindTypeMismatch,
					"indexing into non-array value of type %s", current).At(s.Position.Line, s.Position.Column)
			}
			it, err := c.checkExpression(s.Index)
			if err != nil {
				return Type{}, err
			}
			if it != (Type{Base: BaseInteger}) {
				return Type{}, diag.Errorf(diag.KindTypeMismatch,
					"array index must be integer, got %s", it).At(s.Position.Line, s.Position.Column)
			}
			current = current.Elem()
		}
	}
	return current, nil
}

func (c *Checker) checkCall(id *ast.Identifier, call *ast.CallSuffix) (Type, error) {
	sig, ok := c.funcs[id.Name]
	if !ok {
		return Type{}, diag.Errorf(diag.KindScope,
			"call to undefined function %q", id.Name).At(id.Position.Line, id.Position.Column)
	}
	if len(call.Arguments) != len(sig.Params) {
		return Type{}, diag.Errorf(diag.KindStructure,
			"%q expects %d arguments, got %d", id.Name, len(sig.Params), len(call.Arguments)).At(call.Position.Line, call.Position.Column)
	}
	for i, arg := range call.Arguments {
		got, err := c.checkExpression(arg)
		if err != nil {
			return Type{}, err
		}
		if got != sig.Params[i] && !got.IsNoType() {
			return Type{}, diag.Errorf(diag.KindTypeMismatch,
				"argument %d of %q expects %s, got %s", i+1, id.Name, sig.Params[i], got).At(arg.Pos().Line, arg.Pos().Column)
		}
	}
	return sig.Return, nil
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

func (c *Checker) lookup(name string) *Type {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return &t
		}
	}
	return nil
}

func (c *Checker) checkCase(name string, pos ast.Position) error {
	if !c.caseStyle.Matches(name) {
		return diag.Errorf(diag.KindCase, "%q is not %s", name, c.caseStyle).At(pos.Line, pos.Column)
	}
	return nil
}
