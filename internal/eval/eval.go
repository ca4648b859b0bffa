package eval

import (
	"fmt"

	"github.com/jacoelho/jdl/internal/suggest"
	"github.com/jacoelho/jdl/internal/syntax"
)

// Evaluate computes the JSON value of expr for rec. A nil result is JSON
// null, which is how absent fields are represented.
func Evaluate(expr syntax.Expr, rec *Record, state *State) (any, error) {
	switch current := expr.(type) {
	case *syntax.FieldAccess:
		return lookupField(current.Path, rec, state), nil
	case *syntax.StringLiteral:
		return current.Text, nil
	case *syntax.Call:
		fn, ok := builtins[current.Name]
		if !ok {
			return nil, &EvalError{
				Err:  ErrUnknownFunction,
				Name: current.Name,
				Hint: suggest.Closest(current.Name, BuiltinNames()),
				Pos:  current.Pos,
			}
		}
		return fn(rec, state)
	case *syntax.Variable:
		value, ok := state.lookup(current.Name)
		if !ok {
			return nil, &EvalError{
				Err:  ErrUnknownVariable,
				Name: current.Name,
				Hint: suggest.Closest(current.Name, state.boundNames()),
				Pos:  current.Pos,
			}
		}
		return value, nil
	case *syntax.MethodChain:
		value, err := Evaluate(current.Base, rec, state)
		if err != nil {
			return nil, err
		}
		for _, op := range current.Ops {
			value = apply(op, value)
		}
		return value, nil
	case *syntax.Concat:
		left, err := Evaluate(current.Left, rec, state)
		if err != nil {
			return nil, err
		}
		right, err := Evaluate(current.Right, rec, state)
		if err != nil {
			return nil, err
		}
		return concatText(left) + concatText(right), nil
	default:
		return nil, fmt.Errorf("unsupported expression node %T", expr)
	}
}

// lookupField walks rec by name at each level. Missing keys and non-object
// intermediates both yield nil.
func lookupField(path []string, rec *Record, state *State) any {
	if rec == nil || len(path) == 0 {
		return nil
	}

	query, err := state.compiledPath(path)
	if err != nil {
		return nil
	}

	results := query.Select(rec.Data)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// apply runs one method chain step. Prefix and suffix pass null through so
// a later default can still substitute.
func apply(op syntax.Operation, value any) any {
	switch op.Kind {
	case syntax.OpPrefix:
		if value == nil {
			return nil
		}
		return op.Text + Stringify(value)
	case syntax.OpSuffix:
		if value == nil {
			return nil
		}
		return Stringify(value) + op.Text
	case syntax.OpDefault:
		if value == nil {
			return op.Text
		}
		return value
	default:
		return value
	}
}

func concatText(value any) string {
	if value == nil {
		return ""
	}
	return Stringify(value)
}

func (s *State) boundNames() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	return names
}

// Names returns the dotted path of every field referenced by expr, in
// source order.
func Names(expr syntax.Expr) []string {
	var names []string
	var walk func(syntax.Expr)
	walk = func(e syntax.Expr) {
		switch current := e.(type) {
		case *syntax.FieldAccess:
			names = append(names, current.DottedPath())
		case *syntax.MethodChain:
			walk(current.Base)
		case *syntax.Concat:
			walk(current.Left)
			walk(current.Right)
		}
	}
	walk(expr)
	return names
}
