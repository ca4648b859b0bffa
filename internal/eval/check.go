package eval

import (
	"errors"
	"slices"

	"github.com/jacoelho/jdl/internal/suggest"
	"github.com/jacoelho/jdl/internal/syntax"
)

// Check reports, without evaluating, every call to an unknown function and
// every reference to a variable not in vars. The result joins one EvalError
// per problem, or is nil.
func Check(expr syntax.Expr, vars []string) error {
	var errs []error
	var walk func(syntax.Expr)
	walk = func(e syntax.Expr) {
		switch current := e.(type) {
		case *syntax.Call:
			if _, ok := builtins[current.Name]; !ok {
				errs = append(errs, &EvalError{
					Err:  ErrUnknownFunction,
					Name: current.Name,
					Hint: suggest.Closest(current.Name, BuiltinNames()),
					Pos:  current.Pos,
				})
			}
		case *syntax.Variable:
			if !slices.Contains(vars, current.Name) {
				errs = append(errs, &EvalError{
					Err:  ErrUnknownVariable,
					Name: current.Name,
					Hint: suggest.Closest(current.Name, vars),
					Pos:  current.Pos,
				})
			}
		case *syntax.MethodChain:
			walk(current.Base)
		case *syntax.Concat:
			walk(current.Left)
			walk(current.Right)
		}
	}
	walk(expr)
	return errors.Join(errs...)
}
