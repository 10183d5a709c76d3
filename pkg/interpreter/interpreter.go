// Package interpreter executes checked programs by walking the syntax tree.
// Execution starts at main, every call runs in a fresh activation that shares
// the program-wide function table, and input/output flow through the streams
// the interpreter was constructed with.
package interpreter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/runtime"
)

// maxCallDepth bounds recursion so runaway programs fail with a structured
// error instead of exhausting the goroutine stack.
const maxCallDepth = 10000

// Interpreter evaluates one program against injectable streams.
type Interpreter struct {
	globals *runtime.Environment
	in      *bufio.Reader
	out     io.Writer
	depth   int
}

// New builds an interpreter reading input lines from in and writing output
// lines to out.
func New(in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{
		globals: runtime.NewEnvironment(),
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Globals exposes the persistent activation the REPL evaluates in.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Run registers every function of the program and invokes main with no
// arguments. The value main returns is discarded.
func (i *Interpreter) Run(program *ast.Program) error {
	for _, fn := range program.Functions {
		decl := fn
		if err := i.globals.DeclareFunction(fn.Name, &runtime.Function{Decl: decl, Return: decl.Return}); err != nil {
			return err
		}
	}
	main, err := i.globals.GetFunction("main")
	if err != nil {
		return err
	}
	_, err = i.call(main, nil)
	return err
}

// ExecStatement runs one statement in the persistent global activation.
// Function definitions are registered; a top-level expression statement
// evaluates and returns its value so the REPL can echo it.
func (i *Interpreter) ExecStatement(stmt ast.Statement) (runtime.Value, error) {
	if fn, ok := stmt.(*ast.FunctionDefinition); ok {
		return nil, i.globals.DeclareFunction(fn.Name, &runtime.Function{Decl: fn, Return: fn.Return})
	}
	if expr, ok := stmt.(*ast.ExpressionStatement); ok {
		return i.eval(i.globals, expr.Expression)
	}
	ctrl, err := i.exec(i.globals, stmt)
	if err != nil {
		return nil, err
	}
	if ctrl != nil {
		return ctrl.value, nil
	}
	return nil, nil
}

// returned carries a return value up through nested blocks to the call site.
type returned struct {
	value runtime.Value
}

// call runs one function in a fresh activation seeded with its arguments.
func (i *Interpreter) call(fn *runtime.Function, args []runtime.Value) (runtime.Value, error) {
	if i.depth >= maxCallDepth {
		return nil, diag.Errorf(diag.KindResource,
			"call depth limit of %d exceeded in %q", maxCallDepth, fn.Decl.Name).At(fn.Decl.Position.Line, fn.Decl.Position.Column)
	}
	i.depth++
	defer func() { i.depth-- }()

	env := i.globals.NewCall()
	for idx, param := range fn.Decl.Parameters {
		if err := env.DeclareVariable(param.Name, param.Type); err != nil {
			return nil, err
		}
		if args[idx].Kind() != runtime.KindNoValue {
			if err := env.SetVariable(param.Name, args[idx], nil); err != nil {
				return nil, err
			}
		}
	}

	ctrl, err := i.execBlock(env, fn.Decl.Body)
	if err != nil {
		return nil, err
	}
	if ctrl != nil {
		return ctrl.value, nil
	}
	return runtime.NoValue{}, nil
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

// execBlock runs the statements of a block in a nested scope. A non-nil
// returned stops the block early and bubbles to the caller.
func (i *Interpreter) execBlock(env *runtime.Environment, block *ast.Block) (*returned, error) {
	env.PushScope()
	defer env.PopScope()
	for _, stmt := range block.Statements {
		ctrl, err := i.exec(env, stmt)
		if err != nil {
			return nil, err
		}
		if ctrl != nil {
			return ctrl, nil
		}
	}
	return nil, nil
}

func (i *Interpreter) exec(env *runtime.Environment, stmt ast.Statement) (*returned, error) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		return nil, i.execDeclaration(env, s)
	case *ast.Assignment:
		return nil, i.execAssignment(env, s)
	case *ast.IfStatement:
		return i.execIf(env, s)
	case *ast.WhileStatement:
		return i.execWhile(env, s)
	case *ast.ReturnStatement:
		return i.execReturn(env, s)
	case *ast.OutputStatement:
		return nil, i.execOutput(env, s)
	case *ast.ExpressionStatement:
		_, err := i.eval(env, s.Expression)
		return nil, err
	case *ast.Block:
		return i.execBlock(env, s)
	default:
		return nil, diag.Errorf(diag.KindStructure, "unsupported statement kind")
	}
}

func (i *Interpreter) execDeclaration(env *runtime.Environment, decl *ast.VariableDeclaration) error {
	if err := env.DeclareVariable(decl.Name, decl.Type); err != nil {
		return withPos(err, decl.Position)
	}
	if decl.Initializer == nil {
		return nil
	}
	value, err := i.eval(env, decl.Initializer)
	if err != nil {
		return err
	}
	if value.Kind() == runtime.KindNoValue {
		return nil
	}
	return withPos(env.SetVariable(decl.Name, value, nil), decl.Position)
}

func (i *Interpreter) execAssignment(env *runtime.Environment, assign *ast.Assignment) error {
	indices, err := i.evalIndices(env, assign.Indices)
	if err != nil {
		return err
	}
	value, err := i.eval(env, assign.Value)
	if err != nil {
		return err
	}
	if value.Kind() == runtime.KindNoValue {
		return nil
	}
	return withPos(env.SetVariable(assign.Target.Name, value, indices), assign.Position)
}

func (i *Interpreter) execIf(env *runtime.Environment, stmt *ast.IfStatement) (*returned, error) {
	cond, err := i.evalCondition(env, stmt.Condition)
	if err != nil {
		return nil, err
	}
	if cond {
		return i.execBlock(env, stmt.Then)
	}
	if stmt.Else != nil {
		return i.execBlock(env, stmt.Else)
	}
	return nil, nil
}

func (i *Interpreter) execWhile(env *runtime.Environment, stmt *ast.WhileStatement) (*returned, error) {
	for {
		cond, err := i.evalCondition(env, stmt.Condition)
		if err != nil {
			return nil, err
		}
		if !cond {
			return nil, nil
		}
		ctrl, err := i.execBlock(env, stmt.Body)
		if err != nil {
			return nil, err
		}
		if ctrl != nil {
			return ctrl, nil
		}
	}
}

func (i *Interpreter) execReturn(env *runtime.Environment, stmt *ast.ReturnStatement) (*returned, error) {
	if stmt.Value == nil {
		return &returned{value: runtime.NoValue{}}, nil
	}
	value, err := i.eval(env, stmt.Value)
	if err != nil {
		return nil, err
	}
	return &returned{value: value}, nil
}

func (i *Interpreter) execOutput(env *runtime.Environment, stmt *ast.OutputStatement) error {
	value, err := i.eval(env, stmt.Value)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.out, runtime.Format(value)); err != nil {
		return diag.Errorf(diag.KindRuntimeIO, "cannot write output: %v", err).At(stmt.Position.Line, stmt.Position.Column)
	}
	return nil
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (i *Interpreter) eval(env *runtime.Environment, expr ast.Expression) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: e.Value}, nil
	case *ast.DecimalLiteral:
		return runtime.DecimalValue{Val: e.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BooleanValue{Val: e.Value}, nil
	case *ast.StringLiteral:
		return runtime.StringValue{Val: e.Value}, nil
	case *ast.Identifier:
		value, err := env.GetVariable(e.Name, nil)
		return value, withPos(err, e.Position)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(env, e)
	case *ast.InputExpression:
		return i.evalInput(e)
	case *ast.UnaryExpression:
		return i.evalUnary(env, e)
	case *ast.ArithmeticExpression:
		return i.evalArithmetic(env, e)
	case *ast.ComparisonExpression:
		return i.evalComparison(env, e)
	case *ast.LogicalExpression:
		return i.evalLogical(env, e)
	case *ast.PostfixExpression:
		return i.evalPostfix(env, e)
	default:
		return nil, diag.Errorf(diag.KindStructure, "unsupported expression kind")
	}
}

func (i *Interpreter) evalCondition(env *runtime.Environment, expr ast.Expression) (bool, error) {
	value, err := i.eval(env, expr)
	if err != nil {
		return false, err
	}
	b, ok := value.(runtime.BooleanValue)
	if !ok {
		return false, diag.Errorf(diag.KindTypeMismatch,
			"condition must be boolean, got %s", value.Kind()).At(expr.Pos().Line, expr.Pos().Column)
	}
	return b.Val, nil
}

func (i *Interpreter) evalArrayLiteral(env *runtime.Environment, lit *ast.ArrayLiteral) (runtime.Value, error) {
	elements := make([]runtime.Value, len(lit.Elements))
	for idx, elem := range lit.Elements {
		value, err := i.eval(env, elem)
		if err != nil {
			return nil, err
		}
		elements[idx] = value
	}
	return &runtime.ArrayValue{Elements: elements}, nil
}

// evalInput consumes one line from the input stream. The raw text is made a
// string value; assignment to a typed variable coerces it there.
func (i *Interpreter) evalInput(e *ast.InputExpression) (runtime.Value, error) {
	line, err := i.in.ReadString('\n')
	if err != nil && line == "" {
		return nil, diag.Errorf(diag.KindRuntimeIO, "input exhausted").At(e.Position.Line, e.Position.Column)
	}
	line = trimNewline(line)
	return runtime.StringValue{Val: line}, nil
}

func (i *Interpreter) evalUnary(env *runtime.Environment, e *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.eval(env, e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.DecimalValue:
			return runtime.DecimalValue{Val: -v.Val}, nil
		}
	case "!":
		if v, ok := operand.(runtime.BooleanValue); ok {
			return runtime.BooleanValue{Val: !v.Val}, nil
		}
	}
	return nil, diag.Errorf(diag.KindTypeMismatch,
		"cannot apply '%s' to %s", e.Operator, operand.Kind()).At(e.Position.Line, e.Position.Column)
}

func (i *Interpreter) evalArithmetic(env *runtime.Environment, e *ast.ArithmeticExpression) (runtime.Value, error) {
	left, err := i.eval(env, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(env, e.Right)
	if err != nil {
		return nil, err
	}

	if e.Operator == "+" {
		if l, ok := left.(runtime.StringValue); ok {
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
	}

	// Division always lands in decimal; everything else stays in the shared
	// operand type.
	if e.Operator == "/" {
		lf, lok := asDecimal(left)
		rf, rok := asDecimal(right)
		if !lok || !rok {
			return nil, i.arithmeticTypeError(e, left, right)
		}
		if rf == 0 {
			return nil, diag.Errorf(diag.KindRuntimeMath, "division by zero").At(e.Position.Line, e.Position.Column)
		}
		return runtime.DecimalValue{Val: lf / rf}, nil
	}

	if l, ok := left.(runtime.IntegerValue); ok {
		r, ok := right.(runtime.IntegerValue)
		if !ok {
			return nil, i.arithmeticTypeError(e, left, right)
		}
		switch e.Operator {
		case "+":
			return runtime.IntegerValue{Val: l.Val + r.Val}, nil
		case "-":
			return runtime.IntegerValue{Val: l.Val - r.Val}, nil
		case "*":
			return runtime.IntegerValue{Val: l.Val * r.Val}, nil
		case "%":
			if r.Val == 0 {
				return nil, diag.Errorf(diag.KindRuntimeMath, "division by zero").At(e.Position.Line, e.Position.Column)
			}
			return runtime.IntegerValue{Val: l.Val % r.Val}, nil
		}
	}
	if l, ok := left.(runtime.DecimalValue); ok {
		r, ok := right.(runtime.DecimalValue)
		if !ok {
			return nil, i.arithmeticTypeError(e, left, right)
		}
		switch e.Operator {
		case "+":
			return runtime.DecimalValue{Val: l.Val + r.Val}, nil
		case "-":
			return runtime.DecimalValue{Val: l.Val - r.Val}, nil
		case "*":
			return runtime.DecimalValue{Val: l.Val * r.Val}, nil
		case "%":
			if r.Val == 0 {
				return nil, diag.Errorf(diag.KindRuntimeMath, "division by zero").At(e.Position.Line, e.Position.Column)
			}
			return runtime.DecimalValue{Val: math.Mod(l.Val, r.Val)}, nil
		}
	}
	return nil, i.arithmeticTypeError(e, left, right)
}

func (i *Interpreter) arithmeticTypeError(e *ast.ArithmeticExpression, left, right runtime.Value) error {
	return diag.Errorf(diag.KindTypeMismatch,
		"cannot apply '%s' to %s and %s", e.Operator, left.Kind(), right.Kind()).At(e.Position.Line, e.Position.Column)
}

func (i *Interpreter) evalComparison(env *runtime.Environment, e *ast.ComparisonExpression) (runtime.Value, error) {
	left, err := i.eval(env, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(env, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "==":
		return runtime.BooleanValue{Val: runtime.Equal(left, right)}, nil
	case "!=":
		return runtime.BooleanValue{Val: !runtime.Equal(left, right)}, nil
	}

	lf, lok := asDecimal(left)
	rf, rok := asDecimal(right)
	if !lok || !rok {
		return nil, diag.Errorf(diag.KindTypeMismatch,
			"cannot order %s and %s", left.Kind(), right.Kind()).At(e.Position.Line, e.Position.Column)
	}
	var result bool
	switch e.Operator {
	case "<":
		result = lf < rf
	case "<=":
		result = lf <= rf
	case ">":
		result = lf > rf
	case ">=":
		result = lf >= rf
	}
	return runtime.BooleanValue{Val: result}, nil
}

// evalLogical short-circuits along the operand chain.
func (i *Interpreter) evalLogical(env *runtime.Environment, e *ast.LogicalExpression) (runtime.Value, error) {
	for _, operand := range e.Operands {
		b, err := i.evalCondition(env, operand)
		if err != nil {
			return nil, err
		}
		if e.Operator == "and" && !b {
			return runtime.BooleanValue{Val: false}, nil
		}
		if e.Operator == "or" && b {
			return runtime.BooleanValue{Val: true}, nil
		}
	}
	return runtime.BooleanValue{Val: e.Operator == "and"}, nil
}

func (i *Interpreter) evalPostfix(env *runtime.Environment, e *ast.PostfixExpression) (runtime.Value, error) {
	var current runtime.Value
	suffixes := e.Suffixes

	if id, ok := e.Primary.(*ast.Identifier); ok && len(suffixes) > 0 {
		if call, ok := suffixes[0].(*ast.CallSuffix); ok {
			value, err := i.evalCall(env, id, call)
			if err != nil {
				return nil, err
			}
			current = value
			suffixes = suffixes[1:]
		}
	}
	if current == nil {
		value, err := i.eval(env, e.Primary)
		if err != nil {
			return nil, err
		}
		current = value
	}

	for _, suffix := range suffixes {
		idx, ok := suffix.(*ast.IndexSuffix)
		if !ok {
			return nil, diag.Errorf(diag.KindStructure,
				"function call must target an identifier").At(e.Position.Line, e.Position.Column)
		}
		index, err := i.evalIndex(env, idx.Index)
		if err != nil {
			return nil, err
		}
		arr, ok := current.(*runtime.ArrayValue)
		if !ok {
			return nil, diag.Errorf(diag.KindRuntimeIndex,
				"indexing into non-array value of %s", current.Kind()).At(idx.Position.Line, idx.Position.Column)
		}
		if index < 0 || index >= len(arr.Elements) {
			return nil, diag.Errorf(diag.KindRuntimeIndex,
				"index %d exceeds the upper limit of %d", index, len(arr.Elements)-1).At(idx.Position.Line, idx.Position.Column)
		}
		current = arr.Elements[index]
	}
	return current, nil
}

func (i *Interpreter) evalCall(env *runtime.Environment, id *ast.Identifier, call *ast.CallSuffix) (runtime.Value, error) {
	fn, err := env.GetFunction(id.Name)
	if err != nil {
		return nil, withPos(err, id.Position)
	}
	args := make([]runtime.Value, len(call.Arguments))
	for idx, arg := range call.Arguments {
		value, err := i.eval(env, arg)
		if err != nil {
			return nil, err
		}
		args[idx] = value
	}
	return i.call(fn, args)
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

func (i *Interpreter) evalIndices(env *runtime.Environment, exprs []ast.Expression) ([]int, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	indices := make([]int, len(exprs))
	for n, expr := range exprs {
		idx, err := i.evalIndex(env, expr)
		if err != nil {
			return nil, err
		}
		indices[n] = idx
	}
	return indices, nil
}

func (i *Interpreter) evalIndex(env *runtime.Environment, expr ast.Expression) (int, error) {
	value, err := i.eval(env, expr)
	if err != nil {
		return 0, err
	}
	n, ok := value.(runtime.IntegerValue)
	if !ok {
		return 0, diag.Errorf(diag.KindRuntimeIndex,
			"array index must be integer, got %s", value.Kind()).At(expr.Pos().Line, expr.Pos().Column)
	}
	return int(n.Val), nil
}

func asDecimal(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.IntegerValue:
		return float64(n.Val), true
	case runtime.DecimalValue:
		return n.Val, true
	}
	return 0, false
}

func withPos(err error, pos ast.Position) error {
	var d *diag.Error
	if err != nil && errors.As(err, &d) {
		return d.At(pos.Line, pos.Column)
	}
	return err
}

func trimNewline(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
