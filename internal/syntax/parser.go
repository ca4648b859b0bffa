package syntax

import (
	"strconv"
	"strings"

	"github.com/jacoelho/jdl/internal/suggest"
)

type parserState struct {
	tokens []Token
	pos    int
}

// ParseString tokenizes and parses script source.
func ParseString(source string) (*Script, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse builds a Script from tokens produced by Tokenize. It checks structure
// only: whether input and output are declared is left to the interpreter.
func Parse(tokens []Token) (*Script, error) {
	p := parserState{tokens: tokens}
	script := &Script{}

	for p.current().Kind != KindEOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		script.Statements = append(script.Statements, stmt)
	}

	return script, nil
}

func (p *parserState) parseStatement() (Statement, error) {
	tok := p.current()
	if tok.Kind != KindKeyword {
		return nil, p.unexpected("statement")
	}

	switch tok.Text {
	case "input":
		p.advance()
		path, err := p.expectString()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &Input{Path: path, Pos: tok.Pos}, nil
	case "output":
		p.advance()
		path, err := p.expectString()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}
		return &Output{Path: path, Pos: tok.Pos}, nil
	case "transform":
		return p.parseTransform()
	case "print":
		return p.parsePrint()
	case "let":
		return p.parseLet()
	default:
		return nil, p.unexpected("statement")
	}
}

func (p *parserState) parseTransform() (Statement, error) {
	start := p.advance()
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	transform := &Transform{Pos: start.Pos}
	for !p.current().Is(KindPunctuation, "}") {
		assignment, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		transform.Assignments = append(transform.Assignments, assignment)
	}
	p.advance()

	if p.current().Is(KindPunctuation, ";") {
		p.advance()
	}

	return transform, nil
}

func (p *parserState) parseAssignment() (Assignment, error) {
	tok := p.current()
	switch tok.Kind {
	case KindIdentifier, KindKeyword, KindString:
		p.advance()
	default:
		return Assignment{}, p.unexpected("field name or '}'")
	}

	if err := p.expectOperator("="); err != nil {
		return Assignment{}, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return Assignment{}, err
	}

	if err := p.expectPunct(";"); err != nil {
		return Assignment{}, err
	}

	return Assignment{Field: tok.Text, Value: value, Pos: tok.Pos}, nil
}

func (p *parserState) parsePrint() (Statement, error) {
	start := p.advance()

	if p.current().Is(KindPunctuation, ";") {
		p.advance()
		return &PrintAll{Pos: start.Pos}, nil
	}

	if !p.current().Is(KindKeyword, "line") {
		return nil, p.unexpected("'line' or ';'")
	}
	p.advance()

	tok := p.current()
	if tok.Kind != KindNumber {
		return nil, p.unexpected("line number")
	}

	n, err := strconv.Atoi(tok.Text)
	if err != nil || n < 1 {
		return nil, &ParseError{
			Err:      ErrUnexpectedToken,
			Expected: "positive line number",
			Found:    tok.Text,
			Pos:      tok.Pos,
		}
	}
	p.advance()

	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return &PrintLine{Line: n, Pos: start.Pos}, nil
}

func (p *parserState) parseLet() (Statement, error) {
	start := p.advance()

	tok := p.current()
	if tok.Kind != KindIdentifier {
		return nil, p.unexpected("variable name")
	}
	p.advance()

	if err := p.expectOperator("="); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return &Let{Name: tok.Text, Value: value, Pos: start.Pos}, nil
}

func (p *parserState) parseExpression() (Expr, error) {
	return p.parseConcat()
}

func (p *parserState) parseConcat() (Expr, error) {
	left, err := p.parseChain()
	if err != nil {
		return nil, err
	}

	for p.current().Is(KindOperator, "+") {
		op := p.advance()
		right, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		left = &Concat{Left: left, Right: right, Pos: op.Pos}
	}

	return left, nil
}

func (p *parserState) parseChain() (Expr, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	var ops []Operation
	for p.current().Is(KindPunctuation, ".") {
		p.advance()

		name := p.current()
		if name.Kind != KindIdentifier && name.Kind != KindKeyword {
			return nil, p.unexpected("method name")
		}

		kind, ok := opKindOf(name.Text)
		if !ok {
			return nil, &ParseError{
				Err:      ErrUnexpectedToken,
				Expected: "method " + strings.Join(Methods, ", "),
				Found:    name.String(),
				Hint:     suggest.Closest(name.Text, Methods),
				Pos:      name.Pos,
			}
		}
		p.advance()

		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		text, err := p.expectString()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}

		ops = append(ops, Operation{Kind: kind, Text: text})
	}

	if len(ops) == 0 {
		return base, nil
	}
	return &MethodChain{Base: base, Ops: ops, Pos: base.Position()}, nil
}

func (p *parserState) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case KindField:
		p.advance()
		return &FieldAccess{Path: tok.Path, Pos: tok.Pos}, nil
	case KindString:
		p.advance()
		return &StringLiteral{Text: tok.Text, Pos: tok.Pos}, nil
	case KindIdentifier:
		p.advance()
		if !p.current().Is(KindPunctuation, "(") {
			return &Variable{Name: tok.Text, Pos: tok.Pos}, nil
		}
		p.advance()
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return &Call{Name: tok.Text, Pos: tok.Pos}, nil
	case KindPunctuation:
		if tok.Text != "(" {
			break
		}
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.unexpected("expression")
}

func (p *parserState) expectPunct(text string) error {
	if !p.current().Is(KindPunctuation, text) {
		return p.unexpected("'" + text + "'")
	}
	p.advance()
	return nil
}

func (p *parserState) expectOperator(text string) error {
	if !p.current().Is(KindOperator, text) {
		return p.unexpected("'" + text + "'")
	}
	p.advance()
	return nil
}

func (p *parserState) expectString() (string, error) {
	tok := p.current()
	if tok.Kind != KindString {
		return "", p.unexpected("string literal")
	}
	p.advance()
	return tok.Text, nil
}

func (p *parserState) unexpected(expected string) error {
	tok := p.current()
	if tok.Kind == KindEOF {
		return &ParseError{Err: ErrUnexpectedEOF, Expected: expected, Pos: tok.Pos}
	}
	return &ParseError{
		Err:      ErrUnexpectedToken,
		Expected: expected,
		Found:    tok.String(),
		Pos:      tok.Pos,
	}
}

func (p *parserState) current() Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return Token{Kind: KindEOF, Pos: p.tokens[len(p.tokens)-1].Pos}
		}
		return Token{Kind: KindEOF, Pos: Pos{Line: 1, Column: 1}}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
