package exit

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jdl/internal/eval"
	"github.com/jacoelho/jdl/internal/interp"
	"github.com/jacoelho/jdl/internal/syntax"
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	if r.Message == "" {
		return
	}
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a successful exit result that outputs to stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: 0,
		Message:  message,
	}
}

// Error creates an error exit result that outputs to stderr with exit code 1.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: 1,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// FromError maps a run error to a Result labelled with the failing stage.
// A nil error is a silent success.
func FromError(err error) *Result {
	if err == nil {
		return Success("")
	}
	return Errorf("Error: %s: %v\n", Stage(err), err)
}

// Stage names the phase of a run that produced err.
func Stage(err error) string {
	var (
		lexErr   *syntax.LexError
		parseErr *syntax.ParseError
		declErr  *interp.DeclarationError
		evalErr  *eval.EvalError
		recErr   *interp.RecordError
	)

	switch {
	case errors.As(err, &lexErr):
		return "lex"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &declErr):
		return "script"
	case errors.As(err, &recErr):
		return "record"
	case errors.As(err, &evalErr):
		return "eval"
	case errors.Is(err, interp.ErrIO):
		return "io"
	default:
		return "run"
	}
}
