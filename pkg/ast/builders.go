package ast

import "rolex/interpreter-go/pkg/dialect"

// Builder helpers keep checker and interpreter tests terse. They construct
// nodes without positions; tests that assert on locations set them directly.

func ID(name string) *Identifier         { return &Identifier{Name: name} }
func Int(v int64) *IntegerLiteral        { return &IntegerLiteral{Value: v} }
func Dec(v float64) *DecimalLiteral      { return &DecimalLiteral{Value: v} }
func Bool(v bool) *BooleanLiteral        { return &BooleanLiteral{Value: v} }
func Str(v string) *StringLiteral        { return &StringLiteral{Value: v} }
func Arr(elems ...Expression) *ArrayLiteral {
	return &ArrayLiteral{Elements: elems}
}

func Neg(operand Expression) *UnaryExpression {
	return &UnaryExpression{Operator: "-", Operand: operand}
}

func Not(operand Expression) *UnaryExpression {
	return &UnaryExpression{Operator: "!", Operand: operand}
}

func Arith(op string, left, right Expression) *ArithmeticExpression {
	return &ArithmeticExpression{Operator: op, Left: left, Right: right}
}

func Cmp(op string, left, right Expression) *ComparisonExpression {
	return &ComparisonExpression{Operator: op, Left: left, Right: right}
}

func Logic(op string, operands ...Expression) *LogicalExpression {
	return &LogicalExpression{Operator: op, Operands: operands}
}

func Input() *InputExpression { return &InputExpression{} }

// Call builds `name(args...)` as a postfix chain.
func Call(name string, args ...Expression) *PostfixExpression {
	return &PostfixExpression{
		Primary:  ID(name),
		Suffixes: []PostfixSuffix{&CallSuffix{Arguments: args}},
	}
}

// Index builds `primary[index]...` with one suffix per index expression.
func Index(primary Expression, indices ...Expression) *PostfixExpression {
	suffixes := make([]PostfixSuffix, len(indices))
	for i, idx := range indices {
		suffixes[i] = &IndexSuffix{Index: idx}
	}
	return &PostfixExpression{Primary: primary, Suffixes: suffixes}
}

// Ty builds a scalar TypeSpec from a canonical base name.
func Ty(base string) TypeSpec { return TypeSpec{Base: base} }

// TyArr builds an array TypeSpec; each length >= 0 fixes a dimension, a
// negative length leaves it unsized.
func TyArr(base string, lengths ...int) TypeSpec {
	dims := make([]Dimension, len(lengths))
	for i, n := range lengths {
		if n >= 0 {
			dims[i] = Dimension{Length: n, HasLength: true}
		}
	}
	return TypeSpec{Base: base, Dimensions: dims}
}

func Decl(typ TypeSpec, name string, init Expression) *VariableDeclaration {
	return &VariableDeclaration{Type: typ, Name: name, Initializer: init}
}

func Assign(name string, value Expression, indices ...Expression) *Assignment {
	return &Assignment{Target: ID(name), Indices: indices, Value: value}
}

func Ret(value Expression) *ReturnStatement { return &ReturnStatement{Value: value} }

func Out(value Expression) *OutputStatement { return &OutputStatement{Value: value} }

func ExprStmt(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{Expression: expr}
}

func If(cond Expression, then, els *Block) *IfStatement {
	return &IfStatement{Condition: cond, Then: then, Else: els}
}

func While(cond Expression, body *Block) *WhileStatement {
	return &WhileStatement{Condition: cond, Body: body}
}

func Blk(stmts ...Statement) *Block { return &Block{Statements: stmts} }

func Param(typ TypeSpec, name string) *Parameter {
	return &Parameter{Type: typ, Name: name}
}

func Fn(ret TypeSpec, name string, params []*Parameter, body *Block) *FunctionDefinition {
	return &FunctionDefinition{Return: ret, Name: name, Parameters: params, Body: body}
}

// Prog assembles a program with an EN/camelCase header, the default for tests.
func Prog(functions ...*FunctionDefinition) *Program {
	return &Program{
		Header: &Header{Dialect: dialect.Dialect{
			Language: dialect.LanguageEN,
			Case:     dialect.CaseCamel,
		}},
		Functions: functions,
	}
}

// ProgWithCase assembles a program enforcing the given naming convention.
func ProgWithCase(style dialect.CaseStyle, functions ...*FunctionDefinition) *Program {
	return &Program{
		Header: &Header{Dialect: dialect.Dialect{
			Language: dialect.LanguageEN,
			Case:     style,
		}},
		Functions: functions,
	}
}
