package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/runtime"
)

// run executes a program built from the given functions with the given stdin
// and returns everything written to the output stream.
func run(t *testing.T, stdin string, functions ...*ast.FunctionDefinition) (string, error) {
	t.Helper()
	var out bytes.Buffer
	i := New(strings.NewReader(stdin), &out)
	err := i.Run(ast.Prog(functions...))
	return out.String(), err
}

func mainFn(stmts ...ast.Statement) *ast.FunctionDefinition {
	return ast.Fn(ast.Ty(ast.BaseNoType), "main", nil, ast.Blk(stmts...))
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name string
		expr ast.Expression
		want string
	}{
		{"integer addition", ast.Arith("+", ast.Int(2), ast.Int(3)), "5"},
		{"integer subtraction", ast.Arith("-", ast.Int(2), ast.Int(3)), "-1"},
		{"integer multiplication", ast.Arith("*", ast.Int(4), ast.Int(5)), "20"},
		{"integer modulo", ast.Arith("%", ast.Int(7), ast.Int(3)), "1"},
		{"division is decimal", ast.Arith("/", ast.Int(10), ast.Int(2)), "5.0"},
		{"decimal division", ast.Arith("/", ast.Dec(7.5), ast.Dec(2.5)), "3.0"},
		{"decimal modulo", ast.Arith("%", ast.Dec(7.5), ast.Dec(2.0)), "1.5"},
		{"string concatenation", ast.Arith("+", ast.Str("ab"), ast.Str("cd")), "abcd"},
		{"negation", ast.Neg(ast.Int(5)), "-5"},
		{"not", ast.Not(ast.Bool(false)), "true"},
		{"ordering", ast.Cmp("<", ast.Int(1), ast.Int(2)), "true"},
		{"mixed-width ordering stays exact", ast.Cmp(">=", ast.Dec(2.5), ast.Dec(2.5)), "true"},
		{"equality", ast.Cmp("==", ast.Str("a"), ast.Str("a")), "true"},
		{"inequality", ast.Cmp("!=", ast.Int(1), ast.Int(2)), "true"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, "", mainFn(ast.Out(tc.expr)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tc.want+"\n" {
				t.Fatalf("output = %q, want %q", out, tc.want+"\n")
			}
		})
	}
}

func TestWhileLoop(t *testing.T) {
	out, err := run(t, "", mainFn(
		ast.Decl(ast.Ty(ast.BaseInteger), "i", ast.Int(1)),
		ast.While(ast.Cmp("<=", ast.ID("i"), ast.Int(3)), ast.Blk(
			ast.Out(ast.ID("i")),
			ast.Assign("i", ast.Arith("+", ast.ID("i"), ast.Int(1))),
		)),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\n2\n3\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestReturnStopsTheBlock(t *testing.T) {
	out, err := run(t, "",
		ast.Fn(ast.Ty(ast.BaseInteger), "first", nil, ast.Blk(
			ast.Ret(ast.Int(1)),
		)),
		mainFn(
			ast.Out(ast.Call("first")),
		),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestReturnBubblesOutOfNestedBlocks(t *testing.T) {
	out, err := run(t, "",
		ast.Fn(ast.Ty(ast.BaseInteger), "pick", []*ast.Parameter{
			ast.Param(ast.Ty(ast.BaseBoolean), "b"),
		}, ast.Blk(
			ast.While(ast.ID("b"), ast.Blk(
				ast.If(ast.ID("b"), ast.Blk(ast.Ret(ast.Int(7))), nil),
			)),
			ast.Ret(ast.Int(0)),
		)),
		mainFn(ast.Out(ast.Call("pick", ast.Bool(true)))),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "7\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestCalleeCannotSeeCallerLocals(t *testing.T) {
	_, err := run(t, "",
		ast.Fn(ast.Ty(ast.BaseInteger), "peek", nil, ast.Blk(
			ast.Ret(ast.ID("hidden")),
		)),
		mainFn(
			ast.Decl(ast.Ty(ast.BaseInteger), "hidden", ast.Int(42)),
			ast.Out(ast.Call("peek")),
		),
	)
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind, _ := diag.KindOf(err); kind != diag.KindScope {
		t.Fatalf("kind = %s, want Scope", kind)
	}
}

func TestRecursion(t *testing.T) {
	fact := ast.Fn(ast.Ty(ast.BaseInteger), "fact", []*ast.Parameter{
		ast.Param(ast.Ty(ast.BaseInteger), "n"),
	}, ast.Blk(
		ast.If(ast.Cmp("<=", ast.ID("n"), ast.Int(1)),
			ast.Blk(ast.Ret(ast.Int(1))),
			ast.Blk(ast.Ret(ast.Arith("*", ast.ID("n"), ast.Call("fact", ast.Arith("-", ast.ID("n"), ast.Int(1))))))),
	))
	out, err := run(t, "", fact, mainFn(ast.Out(ast.Call("fact", ast.Int(5)))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "120\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestUnboundedRecursionIsResourceError(t *testing.T) {
	spin := ast.Fn(ast.Ty(ast.BaseInteger), "spin", nil, ast.Blk(
		ast.Ret(ast.Call("spin")),
	))
	_, err := run(t, "", spin, mainFn(ast.Out(ast.Call("spin"))))
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind, _ := diag.KindOf(err); kind != diag.KindResource {
		t.Fatalf("kind = %s, want Resource", kind)
	}
}

func TestArrays(t *testing.T) {
	out, err := run(t, "", mainFn(
		ast.Decl(ast.TyArr(ast.BaseInteger, -1), "xs", ast.Arr(ast.Int(1), ast.Int(2), ast.Int(3))),
		ast.Assign("xs", ast.Int(9), ast.Int(0)),
		ast.Out(ast.Index(ast.ID("xs"), ast.Int(0))),
		ast.Out(ast.ID("xs")),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "9\n[9, 2, 3]\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestNestedArrayIndexing(t *testing.T) {
	out, err := run(t, "", mainFn(
		ast.Decl(ast.TyArr(ast.BaseInteger, -1, -1), "grid",
			ast.Arr(ast.Arr(ast.Int(1), ast.Int(2)), ast.Arr(ast.Int(3), ast.Int(4)))),
		ast.Out(ast.Index(ast.ID("grid"), ast.Int(1), ast.Int(0))),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "3\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestIndexOutOfRange(t *testing.T) {
	_, err := run(t, "", mainFn(
		ast.Decl(ast.TyArr(ast.BaseInteger, -1), "xs", ast.Arr(ast.Int(1))),
		ast.Out(ast.Index(ast.ID("xs"), ast.Int(1))),
	))
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind, _ := diag.KindOf(err); kind != diag.KindRuntimeIndex {
		t.Fatalf("kind = %s, want RuntimeIndex", kind)
	}
}

func TestFixedLengthEnforcedOnAssignment(t *testing.T) {
	_, err := run(t, "", mainFn(
		ast.Decl(ast.TyArr(ast.BaseInteger, 2), "xs", ast.Arr(ast.Int(1), ast.Int(2), ast.Int(3))),
	))
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind, _ := diag.KindOf(err); kind != diag.KindTypeMismatch {
		t.Fatalf("kind = %s, want TypeMismatch", kind)
	}
}

func TestInputCoercion(t *testing.T) {
	out, err := run(t, "41\n1.5\nyes or no\n", mainFn(
		ast.Decl(ast.Ty(ast.BaseInteger), "n", ast.Input()),
		ast.Decl(ast.Ty(ast.BaseDecimal), "d", ast.Input()),
		ast.Decl(ast.Ty(ast.BaseString), "s", ast.Input()),
		ast.Out(ast.Arith("+", ast.ID("n"), ast.Int(1))),
		ast.Out(ast.ID("d")),
		ast.Out(ast.ID("s")),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42\n1.5\nyes or no\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestInputExhausted(t *testing.T) {
	_, err := run(t, "", mainFn(
		ast.Decl(ast.Ty(ast.BaseInteger), "n", ast.Input()),
	))
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind, _ := diag.KindOf(err); kind != diag.KindRuntimeIO {
		t.Fatalf("kind = %s, want RuntimeIO", kind)
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	// The second operand would fail at runtime; short-circuiting must keep
	// it unevaluated.
	out, err := run(t, "",
		ast.Fn(ast.Ty(ast.BaseBoolean), "boom", nil, ast.Blk(
			ast.Out(ast.Str("evaluated")),
			ast.Ret(ast.Bool(true)),
		)),
		mainFn(
			ast.Out(ast.Logic("and", ast.Bool(false), ast.Call("boom"))),
			ast.Out(ast.Logic("or", ast.Bool(true), ast.Call("boom"))),
		),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "false\ntrue\n" {
		t.Fatalf("output = %q (short-circuit must skip the call)", out)
	}
}

func TestDivisionByZero(t *testing.T) {
	_, err := run(t, "", mainFn(ast.Out(ast.Arith("/", ast.Int(1), ast.Int(0)))))
	if err == nil {
		t.Fatal("expected an error")
	}
	if kind, _ := diag.KindOf(err); kind != diag.KindRuntimeMath {
		t.Fatalf("kind = %s, want RuntimeMath", kind)
	}
}

func TestExecStatementEchoesValues(t *testing.T) {
	var out bytes.Buffer
	i := New(strings.NewReader(""), &out)

	if _, err := i.ExecStatement(ast.Decl(ast.Ty(ast.BaseInteger), "x", ast.Int(40))); err != nil {
		t.Fatalf("declaration: %v", err)
	}
	value, err := i.ExecStatement(ast.ExprStmt(ast.Arith("+", ast.ID("x"), ast.Int(2))))
	if err != nil {
		t.Fatalf("expression: %v", err)
	}
	n, ok := value.(runtime.IntegerValue)
	if !ok || n.Val != 42 {
		t.Fatalf("value = %#v, want IntegerValue 42", value)
	}
}
