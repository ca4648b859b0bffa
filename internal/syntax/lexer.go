package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input  string
	offset int
	line   int
	column int
	tokens []Token
}

// Tokenize converts script source into tokens terminated by a KindEOF token.
func Tokenize(source string) ([]Token, error) {
	l := &lexer{
		input:  source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, len(source)/4),
	}

	for {
		r, ok := l.peek()
		if !ok {
			break
		}

		if unicode.IsSpace(r) {
			l.next()
			continue
		}

		start := l.position()

		switch {
		case r == '/':
			if err := l.skipComment(start); err != nil {
				return nil, err
			}
		case r == '"':
			if err := l.lexString(start); err != nil {
				return nil, err
			}
		case r == '@':
			if err := l.lexField(start); err != nil {
				return nil, err
			}
		case isIdentifierStart(r):
			end := l.scanIdentifier(l.offset)
			text := l.input[l.offset:end]
			l.advanceTo(end)

			kind := KindIdentifier
			if IsKeyword(text) {
				kind = KindKeyword
			}
			l.emit(kind, text, start)
		case isDigit(r):
			if err := l.lexNumber(start); err != nil {
				return nil, err
			}
		case r == '=' || r == '+':
			l.next()
			l.emit(KindOperator, string(r), start)
		case strings.ContainsRune("{}();.,", r):
			l.next()
			l.emit(KindPunctuation, string(r), start)
		default:
			return nil, &LexError{Err: ErrUnexpectedCharacter, Char: r, Pos: start}
		}
	}

	l.emit(KindEOF, "", l.position())
	return l.tokens, nil
}

func (l *lexer) emit(kind Kind, text string, pos Pos) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: text, Pos: pos})
}

func (l *lexer) position() Pos {
	return Pos{Offset: l.offset, Line: l.line, Column: l.column}
}

func (l *lexer) peek() (rune, bool) {
	return l.peekAt(l.offset)
}

func (l *lexer) peekAt(offset int) (rune, bool) {
	if offset >= len(l.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(l.input[offset:])
	return r, true
}

func (l *lexer) next() rune {
	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) advanceTo(offset int) {
	for l.offset < offset {
		l.next()
	}
}

// scanIdentifier returns the end offset of the identifier run starting at
// offset, or offset itself when there is none.
func (l *lexer) scanIdentifier(offset int) int {
	end := offset
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !isIdentifierPart(r) {
			break
		}
		end += size
	}
	return end
}

func (l *lexer) skipComment(start Pos) error {
	second, ok := l.peekAt(l.offset + 1)
	switch {
	case ok && second == '/':
		for {
			r, ok := l.peek()
			if !ok || r == '\n' {
				return nil
			}
			l.next()
		}
	case ok && second == '*':
		end := strings.Index(l.input[l.offset+2:], "*/")
		if end < 0 {
			return &LexError{Err: ErrUnterminatedComment, Pos: start}
		}
		l.advanceTo(l.offset + 2 + end + 2)
		return nil
	default:
		return &LexError{Err: ErrUnexpectedCharacter, Char: '/', Pos: start}
	}
}

func (l *lexer) lexString(start Pos) error {
	end := strings.IndexByte(l.input[l.offset+1:], '"')
	if end < 0 {
		return &LexError{Err: ErrUnterminatedString, Pos: start}
	}

	text := l.input[l.offset+1 : l.offset+1+end]
	l.advanceTo(l.offset + 1 + end + 1)
	l.emit(KindString, text, start)
	return nil
}

// lexField consumes @name(.name)*. A segment directly followed by '(' is a
// method call and is left for the parser.
func (l *lexer) lexField(start Pos) error {
	l.next()

	end := l.scanIdentifier(l.offset)
	if end == l.offset {
		return &LexError{Err: ErrUnexpectedCharacter, Char: '@', Pos: start}
	}

	path := []string{l.input[l.offset:end]}
	l.advanceTo(end)

	for {
		if r, ok := l.peek(); !ok || r != '.' {
			break
		}

		segEnd := l.scanIdentifier(l.offset + 1)
		if segEnd == l.offset+1 || l.followedByParen(segEnd) {
			break
		}

		path = append(path, l.input[l.offset+1:segEnd])
		l.advanceTo(segEnd)
	}

	l.tokens = append(l.tokens, Token{
		Kind: KindField,
		Text: strings.Join(path, "."),
		Path: path,
		Pos:  start,
	})
	return nil
}

func (l *lexer) followedByParen(offset int) bool {
	for offset < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[offset:])
		if r == '(' {
			return true
		}
		if !unicode.IsSpace(r) {
			return false
		}
		offset += size
	}
	return false
}

func (l *lexer) lexNumber(start Pos) error {
	end := l.offset
	for end < len(l.input) && isDigit(rune(l.input[end])) {
		end++
	}

	if r, ok := l.peekAt(end); ok && isIdentifierStart(r) {
		l.advanceTo(end)
		return &LexError{Err: ErrUnexpectedCharacter, Char: r, Pos: l.position()}
	}

	text := l.input[l.offset:end]
	l.advanceTo(end)
	l.emit(KindNumber, text, start)
	return nil
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
