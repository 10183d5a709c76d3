// Package ast defines the closed set of node kinds the ROLEX core consumes.
// Nodes are produced by the parser (or by test builders) and are read-only
// from the checker's and interpreter's point of view.
package ast

import (
	"strconv"

	"rolex/interpreter-go/pkg/dialect"
)

// Position is a 1-based source location. A zero Position means unknown.
type Position struct {
	Line   int
	Column int
}

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
}

// Statement nodes appear inside blocks or at top level.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes evaluate to a value (possibly the no-value sentinel).
type Expression interface {
	Node
	expressionNode()
}

//-----------------------------------------------------------------------------
// Types as written in source
//-----------------------------------------------------------------------------

// Base type names are canonical regardless of dialect.
const (
	BaseInteger = "integer"
	BaseDecimal = "decimal"
	BaseBoolean = "boolean"
	BaseString  = "string"
	BaseNoType  = "noType"
)

// Dimension is one array suffix of a declared type. Length is meaningful only
// when HasLength is set; `integer[]` declares an unsized dimension while
// `integer[3]` fixes it.
type Dimension struct {
	Length    int
	HasLength bool
}

// TypeSpec is a declared type: a canonical base name plus one Dimension per
// array rank. Rank 0 is a scalar.
type TypeSpec struct {
	Base       string
	Dimensions []Dimension
}

// Rank returns the number of array dimensions.
func (t TypeSpec) Rank() int { return len(t.Dimensions) }

// Elem strips one array dimension.
func (t TypeSpec) Elem() TypeSpec {
	if len(t.Dimensions) == 0 {
		return t
	}
	return TypeSpec{Base: t.Base, Dimensions: t.Dimensions[1:]}
}

// String renders the canonical spelling, e.g. "integer[3][]".
func (t TypeSpec) String() string {
	s := t.Base
	for _, d := range t.Dimensions {
		if d.HasLength {
			s += "[" + strconv.Itoa(d.Length) + "]"
		} else {
			s += "[]"
		}
	}
	return s
}

//-----------------------------------------------------------------------------
// Program structure
//-----------------------------------------------------------------------------

// Program is the root node: the dialect header followed by the top-level
// function definitions in source order.
type Program struct {
	Header    *Header
	Functions []*FunctionDefinition
}

func (p *Program) Pos() Position {
	if p.Header != nil {
		return p.Header.Position
	}
	if len(p.Functions) > 0 {
		return p.Functions[0].Pos()
	}
	return Position{}
}

// Header records the dialect/naming-convention preamble.
type Header struct {
	Position Position
	Dialect  dialect.Dialect
}

func (h *Header) Pos() Position { return h.Position }

// FunctionDefinition declares a function. It is also a Statement so the
// checker can reject nested definitions structurally.
type FunctionDefinition struct {
	Position   Position
	Return     TypeSpec
	Name       string
	Parameters []*Parameter
	Body       *Block
}

func (f *FunctionDefinition) Pos() Position  { return f.Position }
func (f *FunctionDefinition) statementNode() {}

// Parameter is one formal parameter of a function definition.
type Parameter struct {
	Position Position
	Type     TypeSpec
	Name     string
}

func (p *Parameter) Pos() Position { return p.Position }

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

// Block is a brace-delimited statement sequence opening a fresh scope frame.
type Block struct {
	Position   Position
	Statements []Statement
}

func (b *Block) Pos() Position  { return b.Position }
func (b *Block) statementNode() {}

// VariableDeclaration declares a variable with an optional initializer.
type VariableDeclaration struct {
	Position    Position
	Type        TypeSpec
	Name        string
	Initializer Expression
}

func (d *VariableDeclaration) Pos() Position  { return d.Position }
func (d *VariableDeclaration) statementNode() {}

// Assignment writes to a declared variable, optionally through index
// expressions peeling one rank each.
type Assignment struct {
	Position Position
	Target   *Identifier
	Indices  []Expression
	Value    Expression
}

func (a *Assignment) Pos() Position  { return a.Position }
func (a *Assignment) statementNode() {}

// IfStatement with optional else branch.
type IfStatement struct {
	Position  Position
	Condition Expression
	Then      *Block
	Else      *Block
}

func (s *IfStatement) Pos() Position  { return s.Position }
func (s *IfStatement) statementNode() {}

// WhileStatement loops while the condition holds.
type WhileStatement struct {
	Position  Position
	Condition Expression
	Body      *Block
}

func (s *WhileStatement) Pos() Position  { return s.Position }
func (s *WhileStatement) statementNode() {}

// ReturnStatement bubbles a value (or nothing) out of the enclosing call.
type ReturnStatement struct {
	Position Position
	Value    Expression
}

func (s *ReturnStatement) Pos() Position  { return s.Position }
func (s *ReturnStatement) statementNode() {}

// OutputStatement emits one line built from its expression.
type OutputStatement struct {
	Position Position
	Value    Expression
}

func (s *OutputStatement) Pos() Position  { return s.Position }
func (s *OutputStatement) statementNode() {}

// ExpressionStatement evaluates an expression for its side effects.
type ExpressionStatement struct {
	Position   Position
	Expression Expression
}

func (s *ExpressionStatement) Pos() Position  { return s.Position }
func (s *ExpressionStatement) statementNode() {}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// Identifier references a declared variable or function name.
type Identifier struct {
	Position Position
	Name     string
}

func (e *Identifier) Pos() Position   { return e.Position }
func (e *Identifier) expressionNode() {}

type IntegerLiteral struct {
	Position Position
	Value    int64
}

func (e *IntegerLiteral) Pos() Position   { return e.Position }
func (e *IntegerLiteral) expressionNode() {}

type DecimalLiteral struct {
	Position Position
	Value    float64
}

func (e *DecimalLiteral) Pos() Position   { return e.Position }
func (e *DecimalLiteral) expressionNode() {}

type BooleanLiteral struct {
	Position Position
	Value    bool
}

func (e *BooleanLiteral) Pos() Position   { return e.Position }
func (e *BooleanLiteral) expressionNode() {}

type StringLiteral struct {
	Position Position
	Value    string
}

func (e *StringLiteral) Pos() Position   { return e.Position }
func (e *StringLiteral) expressionNode() {}

// ArrayLiteral is a non-empty, homogeneous element sequence.
type ArrayLiteral struct {
	Position Position
	Elements []Expression
}

func (e *ArrayLiteral) Pos() Position   { return e.Position }
func (e *ArrayLiteral) expressionNode() {}

// UnaryExpression covers numeric negation ("-") and boolean negation ("!").
type UnaryExpression struct {
	Position Position
	Operator string
	Operand  Expression
}

func (e *UnaryExpression) Pos() Position   { return e.Position }
func (e *UnaryExpression) expressionNode() {}

// ArithmeticExpression applies one of + - * / %.
type ArithmeticExpression struct {
	Position Position
	Operator string
	Left     Expression
	Right    Expression
}

func (e *ArithmeticExpression) Pos() Position   { return e.Position }
func (e *ArithmeticExpression) expressionNode() {}

// ComparisonExpression applies one of == != < <= > >=.
type ComparisonExpression struct {
	Position Position
	Operator string
	Left     Expression
	Right    Expression
}

func (e *ComparisonExpression) Pos() Position   { return e.Position }
func (e *ComparisonExpression) expressionNode() {}

// LogicalExpression chains one operator ("and" or "or") over two or more
// operands, every one of which must be boolean.
type LogicalExpression struct {
	Position Position
	Operator string
	Operands []Expression
}

func (e *LogicalExpression) Pos() Position   { return e.Position }
func (e *LogicalExpression) expressionNode() {}

// InputExpression blocks for one external input line.
type InputExpression struct {
	Position Position
}

func (e *InputExpression) Pos() Position   { return e.Position }
func (e *InputExpression) expressionNode() {}

// PostfixExpression applies a chain of call and index suffixes to a primary.
type PostfixExpression struct {
	Position Position
	Primary  Expression
	Suffixes []PostfixSuffix
}

func (e *PostfixExpression) Pos() Position   { return e.Position }
func (e *PostfixExpression) expressionNode() {}

// PostfixSuffix is either a CallSuffix or an IndexSuffix.
type PostfixSuffix interface {
	Node
	suffixNode()
}

// CallSuffix invokes the primary as a function.
type CallSuffix struct {
	Position  Position
	Arguments []Expression
}

func (s *CallSuffix) Pos() Position { return s.Position }
func (s *CallSuffix) suffixNode()   {}

// IndexSuffix indexes one array rank.
type IndexSuffix struct {
	Position Position
	Index    Expression
}

func (s *IndexSuffix) Pos() Position { return s.Position }
func (s *IndexSuffix) suffixNode()   {}
