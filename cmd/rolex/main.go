// Command rolex is the ROLEX front-end: it checks and runs source files and
// hosts an interactive session.
package main

import (
	"fmt"
	"os"

	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/driver"
	"rolex/interpreter-go/pkg/parser"
)

const version = "0.2.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		requireFile("run")
		exitOn(cmdRun(os.Args[2]))
	case "check":
		requireFile("check")
		exitOn(cmdCheck(os.Args[2]))
	case "repl":
		exitOn(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println("rolex " + version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "rolex: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func cmdRun(path string) error {
	program, err := driver.LoadFile(path)
	if err != nil {
		return err
	}
	if err := driver.Check(program); err != nil {
		return err
	}
	return driver.Run(program, os.Stdin, os.Stdout)
}

func cmdCheck(path string) error {
	program, err := driver.LoadFile(path)
	if err != nil {
		return err
	}
	if err := driver.Check(program); err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", path)
	return nil
}

func requireFile(cmd string) {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "rolex %s: missing source file\n", cmd)
		os.Exit(2)
	}
}

func exitOn(err error) {
	if err == nil {
		return
	}
	if _, ok := diag.KindOf(err); ok {
		fmt.Fprintln(os.Stderr, diag.Describe(err))
	} else {
		fmt.Fprintln(os.Stderr, parser.Describe(err))
	}
	os.Exit(1)
}

func usage() {
	fmt.Print(`rolex - the ROLEX language front-end

Usage:
  rolex run <file>      check and execute a program
  rolex check <file>    run the static semantics pass only
  rolex repl [options]  start an interactive session
  rolex version         print the version

Repl options:
  -lang EN|DK                 keyword language (default EN)
  -case camelCase|snake_case  naming convention (default camelCase)
`)
}
