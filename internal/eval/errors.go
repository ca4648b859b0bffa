package eval

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jdl/internal/syntax"
)

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrNotObject       = errors.New("record is not a JSON object")
	ErrInvalidJSON     = errors.New("record is not valid JSON")
)

// EvalError reports an expression that cannot be evaluated.
type EvalError struct {
	Err  error
	Name string
	Hint string
	Pos  syntax.Pos
}

func (e *EvalError) Error() string {
	msg := fmt.Sprintf("eval error at %s: %v %q", e.Pos, e.Err, e.Name)
	if e.Hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Hint)
	}
	return msg
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
