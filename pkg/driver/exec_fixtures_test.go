package driver

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"rolex/interpreter-go/pkg/diag"
	"rolex/interpreter-go/pkg/parser"
)

// TestExecFixtures runs every YAML fixture end to end through the pipeline
// and compares the outcome with the fixture's expectation.
func TestExecFixtures(t *testing.T) {
	fixtures, err := LoadFixtureDir(filepath.Join("..", "..", "fixtures"))
	if err != nil {
		t.Fatalf("loading fixtures: %v", err)
	}
	if len(fixtures) == 0 {
		t.Fatal("no fixtures found")
	}

	for _, fx := range fixtures {
		fx := fx
		t.Run(fx.Name, func(t *testing.T) {
			var out bytes.Buffer
			err := Execute(fx.Source, strings.NewReader(fx.Stdin), &out)

			if fx.Expect.Error == "" && fx.Expect.Kind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %s", describe(err))
				}
				if out.String() != fx.Expect.Output {
					t.Fatalf("output mismatch:\ngot  %q\nwant %q", out.String(), fx.Expect.Output)
				}
				return
			}

			if err == nil {
				t.Fatalf("expected failure %q, program succeeded with output %q", fx.Expect.Error, out.String())
			}
			if want, ok := fx.Expect.ExpectedKind(); ok {
				got, isDiag := diag.KindOf(err)
				if !isDiag {
					t.Fatalf("expected %s error, got %v", want, err)
				}
				if got != want {
					t.Fatalf("error kind mismatch: got %s, want %s (%s)", got, want, describe(err))
				}
			}
			if rendered := describe(err); !strings.Contains(rendered, fx.Expect.Error) {
				t.Fatalf("error %q does not contain %q", rendered, fx.Expect.Error)
			}
		})
	}
}

func describe(err error) string {
	if _, ok := diag.KindOf(err); ok {
		return diag.Describe(err)
	}
	return parser.Describe(err)
}

func TestLoadSourcePreservesLineNumbers(t *testing.T) {
	src := "Language EN\nCase camelCase\n\nfunction integer main() {\n\toutput missing\n}\n"
	program, err := LoadSource(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = Check(program)
	if err == nil {
		t.Fatal("expected a scope error")
	}
	var d *diag.Error
	if !diagAs(err, &d) {
		t.Fatalf("expected a diagnostic, got %v", err)
	}
	if d.Line != 5 {
		t.Fatalf("line = %d, want 5 (positions must count from the file start)", d.Line)
	}
}

func diagAs(err error, target **diag.Error) bool {
	d, ok := err.(*diag.Error)
	if ok {
		*target = d
	}
	return ok
}
