package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"rolex/interpreter-go/pkg/dialect"
	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/interpreter"
	"rolex/interpreter-go/pkg/lexer"
	"rolex/interpreter-go/pkg/parser"
	"rolex/interpreter-go/pkg/runtime"
	"rolex/interpreter-go/pkg/typechecker"
)

// cmdRepl hosts an interactive session. Statements are checked and executed
// against one persistent global activation, so declarations and functions
// stay visible across inputs.
func cmdRepl(args []string) error {
	flags := flag.NewFlagSet("repl", flag.ExitOnError)
	lang := flags.String("lang", "EN", "keyword language (EN or DK)")
	caseStyle := flags.String("case", "camelCase", "naming convention (camelCase or snake_case)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	d := dialect.Dialect{Language: dialect.Language(*lang), Case: dialect.CaseStyle(*caseStyle)}
	if !dialect.Supported(d.Language) {
		return fmt.Errorf("unsupported language %q", *lang)
	}
	if d.Case != dialect.CaseCamel && d.Case != dialect.CaseSnake {
		return fmt.Errorf("unsupported case style %q", *caseStyle)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, ".rolex_history")
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Printf("rolex %s (%s, %s), :quit to exit\n", version, d.Language, d.Case)

	checker := typechecker.New(d.Case)
	interp := interpreter.New(os.Stdin, os.Stdout)

	for {
		input, err := readStatement(line, d)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			break
		}
		if input == "" {
			continue
		}
		if input == ":quit" || input == ":q" {
			break
		}
		line.AppendHistory(input)

		stmt, err := parser.ParseStatement(input, d)
		if err != nil {
			fmt.Fprintln(os.Stderr, parser.Describe(err))
			continue
		}
		if err := checker.CheckStatement(stmt); err != nil {
			fmt.Fprintln(os.Stderr, diag.Describe(err))
			continue
		}
		value, err := interp.ExecStatement(stmt)
		if err != nil {
			fmt.Fprintln(os.Stderr, diag.Describe(err))
			continue
		}
		if value != nil && value.Kind() != runtime.KindNoValue {
			fmt.Println(runtime.Format(value))
		}
	}

	if historyPath != "" {
		if f, err := os.Create(historyPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

// readStatement collects one statement, prompting for continuation lines
// until every opened brace is closed.
func readStatement(line *liner.State, d dialect.Dialect) (string, error) {
	input, err := line.Prompt(">> ")
	if err != nil {
		return "", err
	}
	for openBraces(input, d) > 0 {
		more, err := line.Prompt(".. ")
		if err != nil {
			return "", err
		}
		input += "\n" + more
	}
	return input, nil
}

// openBraces counts unbalanced braces through the lexer so braces inside
// string literals do not miscount.
func openBraces(src string, d dialect.Dialect) int {
	open := 0
	for _, tok := range lexer.New(src, dialect.For(d.Language), 1).Tokens() {
		switch tok.Type {
		case lexer.LBRACE:
			open++
		case lexer.RBRACE:
			open--
		}
	}
	return open
}
