package syntax

import (
	"fmt"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	KindEOF Kind = iota
	KindKeyword
	KindIdentifier
	KindField
	KindString
	KindNumber
	KindOperator
	KindPunctuation
)

var kindNames = [...]string{
	KindEOF:         "end of input",
	KindKeyword:     "keyword",
	KindIdentifier:  "identifier",
	KindField:       "field reference",
	KindString:      "string literal",
	KindNumber:      "number",
	KindOperator:    "operator",
	KindPunctuation: "punctuation",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]struct{}{
	"input":     {},
	"output":    {},
	"transform": {},
	"print":     {},
	"line":      {},
	"let":       {},
}

// IsKeyword reports whether name is reserved at statement level.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// Pos is a location in script source. Line and Column are 1-based.
type Pos struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a classified lexical unit.
//
// Text holds the keyword, identifier, operator or punctuation text, the
// contents of a string literal without quotes, or the digits of a number.
// Path is set for field references only.
type Token struct {
	Kind Kind
	Text string
	Path []string
	Pos  Pos
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

func (t Token) String() string {
	switch t.Kind {
	case KindEOF:
		return "end of input"
	case KindField:
		return "@" + strings.Join(t.Path, ".")
	case KindString:
		return fmt.Sprintf("%q", t.Text)
	case KindKeyword, KindIdentifier:
		return t.Text
	default:
		return fmt.Sprintf("'%s'", t.Text)
	}
}
