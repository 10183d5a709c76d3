// Package diag defines the structured error value shared by every pass of the
// ROLEX front-end. An error's identity is its Kind; rendering to "line N:
// message" text is a separate, pure formatting concern so drivers can print
// diagnostics without re-deriving context.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a diagnostic. The static passes report the first four kinds,
// the interpreter the rest.
type Kind int

const (
	KindTypeMismatch Kind = iota
	KindScope
	KindCase
	KindStructure
	KindRuntimeIndex
	KindRuntimeIO
	KindRuntimeMath
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindScope:
		return "Scope"
	case KindCase:
		return "Case"
	case KindStructure:
		return "Structure"
	case KindRuntimeIndex:
		return "RuntimeIndex"
	case KindRuntimeIO:
		return "RuntimeIO"
	case KindRuntimeMath:
		return "RuntimeMath"
	case KindResource:
		return "Resource"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// KindFromName resolves the textual kind names used by execution fixtures.
func KindFromName(name string) (Kind, bool) {
	switch name {
	case "TypeMismatch":
		return KindTypeMismatch, true
	case "Scope":
		return KindScope, true
	case "Case":
		return KindCase, true
	case "Structure":
		return KindStructure, true
	case "RuntimeIndex":
		return KindRuntimeIndex, true
	case "RuntimeIO":
		return KindRuntimeIO, true
	case "RuntimeMath":
		return KindRuntimeMath, true
	case "Resource":
		return KindResource, true
	}
	return 0, false
}

// Field is one ordered key/value pair of diagnostic context.
type Field struct {
	Key   string
	Value string
}

// Error is the one structured error type used across checker and interpreter.
// Line and Column are 1-based; zero means the location could not be derived.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Column  int
	Context []Field
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Kind.String() + ": " + e.Message
}

// Errorf constructs an Error without location information.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At returns a copy of the error pinned to the given location. Locations
// already present are kept: the innermost site wins.
func (e *Error) At(line, column int) *Error {
	if e == nil {
		return nil
	}
	if e.Line != 0 {
		return e
	}
	clone := *e
	clone.Line = line
	clone.Column = column
	return &clone
}

// With appends one context pair, returning the error for chaining.
func (e *Error) With(key, value string) *Error {
	e.Context = append(e.Context, Field{Key: key, Value: value})
	return e
}

// KindOf extracts the Kind when err is (or wraps) a diag.Error.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

// Describe renders err the way the CLI driver prints it: "line N: message",
// followed by any context pairs. Non-diag errors render as their Error text.
func Describe(err error) string {
	var de *Error
	if !errors.As(err, &de) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	var b strings.Builder
	if de.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", de.Line)
	}
	b.WriteString(de.Message)
	for _, f := range de.Context {
		fmt.Fprintf(&b, " (%s: %s)", f.Key, f.Value)
	}
	return b.String()
}
