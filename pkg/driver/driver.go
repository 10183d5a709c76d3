// Package driver wires the front-end passes into one pipeline: header, lexer,
// parser, checker, interpreter. The CLI and the execution fixtures both go
// through it.
package driver

import (
	"io"
	"os"

	"rolex/interpreter-go/pkg/ast"
	"rolex/interpreter-go/pkg/dialect"
	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/interpreter"
	"rolex/interpreter-go/pkg/parser"
	"rolex/interpreter-go/pkg/typechecker"
)

// LoadSource parses full program text, header included.
func LoadSource(src string) (*ast.Program, error) {
	header, err := dialect.ParseHeader(src)
	if err != nil {
		return nil, err
	}
	return parser.Parse(src[header.BodyOffset:], header.Dialect, header.BodyLine)
}

// LoadFile reads and parses one source file.
func LoadFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Errorf(diag.KindRuntimeIO, "cannot read %s: %v", path, err)
	}
	return LoadSource(string(src))
}

// Check runs the static semantics pass over a parsed program.
func Check(program *ast.Program) error {
	return typechecker.Check(program)
}

// Run executes a checked program against the given streams.
func Run(program *ast.Program, in io.Reader, out io.Writer) error {
	return interpreter.New(in, out).Run(program)
}

// Execute is the whole pipeline for one source text: parse, check, run.
func Execute(src string, in io.Reader, out io.Writer) error {
	program, err := LoadSource(src)
	if err != nil {
		return err
	}
	if err := Check(program); err != nil {
		return err
	}
	return Run(program, in, out)
}
