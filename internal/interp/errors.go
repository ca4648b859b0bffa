package interp

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jdl/internal/syntax"
)

var (
	ErrMissingDeclaration   = errors.New("missing declaration")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrMalformedRecord      = errors.New("malformed record")
	ErrIO                   = errors.New("i/o failure")
	ErrSameInputOutput      = errors.New("output overwrites input")
)

// DeclarationError reports a script whose input, output or transform
// statements are missing or repeated, or whose output is its input.
type DeclarationError struct {
	Err       error
	Statement string
	Pos       syntax.Pos
}

func (e *DeclarationError) Error() string {
	switch {
	case errors.Is(e.Err, ErrDuplicateDeclaration):
		return fmt.Sprintf("%v: %s declared again at %s", e.Err, e.Statement, e.Pos)
	case errors.Is(e.Err, ErrSameInputOutput):
		return fmt.Sprintf("%v: %s at %s names the input file", e.Err, e.Statement, e.Pos)
	default:
		return fmt.Sprintf("%v: script has no %s statement", e.Err, e.Statement)
	}
}

func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// RecordError attributes a failure to a 1-based input line.
type RecordError struct {
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("input line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
