package syntax

import (
	"errors"
	"fmt"
)

var (
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
)

// LexError reports a failure to tokenize script source.
type LexError struct {
	Err  error
	Char rune
	Pos  Pos
}

func (e *LexError) Error() string {
	if errors.Is(e.Err, ErrUnexpectedCharacter) {
		return fmt.Sprintf("lex error at %s: %v %q", e.Pos, e.Err, e.Char)
	}
	return fmt.Sprintf("lex error at %s: %v", e.Pos, e.Err)
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// ParseError reports a token sequence that does not match the grammar.
type ParseError struct {
	Err      error
	Expected string
	Found    string
	Hint     string
	Pos      Pos
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at %s: %v", e.Pos, e.Err)
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	if e.Found != "" {
		msg += ", found " + e.Found
	}
	if e.Hint != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Hint)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
