package parser

import (
	"errors"
	"testing"

	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/dialect"
)

var en = dialect.Dialect{Language: dialect.LanguageEN, Case: dialect.CaseCamel}
var dk = dialect.Dialect{Language: dialect.LanguageDK, Case: dialect.CaseCamel}

func parse(t *testing.T, src string, d dialect.Dialect) *ast.Program {
	t.Helper()
	program, err := Parse(src, d, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return program
}

func TestParseProgram(t *testing.T) {
	program := parse(t, `
function integer double(integer n) {
	return n * 2
}

function noType main() {
	integer x = double(4)
	output x
}
`, en)

	if len(program.Functions) != 2 {
		t.Fatalf("functions = %d, want 2", len(program.Functions))
	}
	double := program.Functions[0]
	if double.Name != "double" || double.Return.Base != ast.BaseInteger {
		t.Fatalf("first function = %s %s", double.Return, double.Name)
	}
	if len(double.Parameters) != 1 || double.Parameters[0].Name != "n" {
		t.Fatalf("parameters = %#v", double.Parameters)
	}
	main := program.Functions[1]
	if main.Return.Base != ast.BaseNoType {
		t.Fatalf("main return = %s", main.Return)
	}
	if len(main.Body.Statements) != 2 {
		t.Fatalf("main statements = %d", len(main.Body.Statements))
	}
	decl, ok := main.Body.Statements[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("statement 0 = %T", main.Body.Statements[0])
	}
	if _, ok := decl.Initializer.(*ast.PostfixExpression); !ok {
		t.Fatalf("initializer = %T, want call chain", decl.Initializer)
	}
}

func TestParseArrayTypes(t *testing.T) {
	program := parse(t, `
function noType main() {
	integer[3] xs = [1, 2, 3]
	integer[][] grid
	xs[0] = 9
}
`, en)
	body := program.Functions[0].Body.Statements

	xs := body[0].(*ast.VariableDeclaration)
	if xs.Type.Rank() != 1 || !xs.Type.Dimensions[0].HasLength || xs.Type.Dimensions[0].Length != 3 {
		t.Fatalf("xs type = %s", xs.Type)
	}
	if _, ok := xs.Initializer.(*ast.ArrayLiteral); !ok {
		t.Fatalf("xs initializer = %T", xs.Initializer)
	}

	grid := body[1].(*ast.VariableDeclaration)
	if grid.Type.Rank() != 2 || grid.Type.Dimensions[0].HasLength {
		t.Fatalf("grid type = %s", grid.Type)
	}

	assign := body[2].(*ast.Assignment)
	if assign.Target.Name != "xs" || len(assign.Indices) != 1 {
		t.Fatalf("assignment = %#v", assign)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	program := parse(t, `
function noType main() {
	output 1 + 2 * 3
}
`, en)
	out := program.Functions[0].Body.Statements[0].(*ast.OutputStatement)
	add, ok := out.Value.(*ast.ArithmeticExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("top = %#v, want +", out.Value)
	}
	mul, ok := add.Right.(*ast.ArithmeticExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right = %#v, want *", add.Right)
	}
}

func TestLogicalChainIsOneNode(t *testing.T) {
	program := parse(t, `
function noType main() {
	output a and b and c
}
`, en)
	out := program.Functions[0].Body.Statements[0].(*ast.OutputStatement)
	chain, ok := out.Value.(*ast.LogicalExpression)
	if !ok || chain.Operator != "and" {
		t.Fatalf("value = %#v", out.Value)
	}
	if len(chain.Operands) != 3 {
		t.Fatalf("operands = %d, want 3", len(chain.Operands))
	}
}

func TestComparisonBindsTighterThanLogic(t *testing.T) {
	program := parse(t, `
function noType main() {
	output 1 < 2 or 3 < 4
}
`, en)
	out := program.Functions[0].Body.Statements[0].(*ast.OutputStatement)
	or, ok := out.Value.(*ast.LogicalExpression)
	if !ok || or.Operator != "or" || len(or.Operands) != 2 {
		t.Fatalf("value = %#v", out.Value)
	}
	if _, ok := or.Operands[0].(*ast.ComparisonExpression); !ok {
		t.Fatalf("operand 0 = %T", or.Operands[0])
	}
}

func TestDanishProgram(t *testing.T) {
	program := parse(t, `
funktion heltal dobbelt(heltal n) {
	returner n * 2
}
`, dk)
	fn := program.Functions[0]
	if fn.Return.Base != ast.BaseInteger {
		t.Fatalf("return base = %s, want canonical integer", fn.Return.Base)
	}
	if _, ok := fn.Body.Statements[0].(*ast.ReturnStatement); !ok {
		t.Fatalf("statement = %T", fn.Body.Statements[0])
	}
}

func TestReturnWithoutValue(t *testing.T) {
	program := parse(t, `
function noType main() {
	return
}
`, en)
	ret := program.Functions[0].Body.Statements[0].(*ast.ReturnStatement)
	if ret.Value != nil {
		t.Fatalf("value = %#v, want nil", ret.Value)
	}
}

func TestInputExpression(t *testing.T) {
	program := parse(t, `
function noType main() {
	integer n = input
}
`, en)
	decl := program.Functions[0].Body.Statements[0].(*ast.VariableDeclaration)
	if _, ok := decl.Initializer.(*ast.InputExpression); !ok {
		t.Fatalf("initializer = %T", decl.Initializer)
	}
}

func TestParseStatement(t *testing.T) {
	stmt, err := ParseStatement("integer x = 1 + 2", en)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := stmt.(*ast.VariableDeclaration); !ok {
		t.Fatalf("statement = %T", stmt)
	}
}

func TestSyntaxErrorsCarryPositions(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"assignment to literal", "function noType main() {\n\t3 = x\n}"},
		{"assignment to call", "function noType main() {\n\tf() = 1\n}"},
		{"missing then", "function noType main() {\n\tif x { }\n}"},
		{"unclosed block", "function noType main() {\n\toutput 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src, en, 1)
			if err == nil {
				t.Fatal("expected a syntax error")
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("error = %T (%v), want SyntaxError", err, err)
			}
			if se.Line == 0 {
				t.Fatalf("missing line in %v", se)
			}
		})
	}
}

func TestStatementLinesCountFromStartLine(t *testing.T) {
	program, err := Parse("function noType main() {\n\toutput 1\n}\n", en, 10)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := program.Functions[0].Body.Statements[0].(*ast.OutputStatement)
	if out.Position.Line != 11 {
		t.Fatalf("line = %d, want 11", out.Position.Line)
	}
}
