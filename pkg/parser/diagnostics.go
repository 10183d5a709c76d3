package parser

import (
	"errors"
	"fmt"

	"rolex/interpreter-go/pkg/lexer"
)

// SyntaxError carries a message plus the token location it was raised at.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string { return e.Message }

var errInvalidTarget = errors.New("invalid assignment target")

func (p *parser) errorAt(tok lexer.Token, format string, args ...any) error {
	return &SyntaxError{
		Message: "syntax error: " + fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

// Describe renders err the way the driver prints parse failures.
func Describe(err error) string {
	var se *SyntaxError
	if errors.As(err, &se) {
		if se.Line > 0 {
			return fmt.Sprintf("line %d: %s", se.Line, se.Message)
		}
		return se.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
