package syntax

import (
	"errors"
	"reflect"
	"testing"
)

type tokenSummary struct {
	kind Kind
	text string
}

func summarize(tokens []Token) []tokenSummary {
	out := make([]tokenSummary, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tokenSummary{kind: tok.Kind, text: tok.Text})
	}
	return out
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []tokenSummary
	}{
		{
			name:   "input_statement",
			source: `input "in.jsonl";`,
			want: []tokenSummary{
				{KindKeyword, "input"},
				{KindString, "in.jsonl"},
				{KindPunctuation, ";"},
				{KindEOF, ""},
			},
		},
		{
			name:   "nested_field",
			source: `@meta.score`,
			want: []tokenSummary{
				{KindField, "meta.score"},
				{KindEOF, ""},
			},
		},
		{
			name:   "field_followed_by_method",
			source: `@t.prefix("T: ")`,
			want: []tokenSummary{
				{KindField, "t"},
				{KindPunctuation, "."},
				{KindIdentifier, "prefix"},
				{KindPunctuation, "("},
				{KindString, "T: "},
				{KindPunctuation, ")"},
				{KindEOF, ""},
			},
		},
		{
			name:   "nested_field_followed_by_spaced_method",
			source: `@a.b.default ("x")`,
			want: []tokenSummary{
				{KindField, "a.b"},
				{KindPunctuation, "."},
				{KindIdentifier, "default"},
				{KindPunctuation, "("},
				{KindString, "x"},
				{KindPunctuation, ")"},
				{KindEOF, ""},
			},
		},
		{
			name:   "operators_and_call",
			source: `id = serial() + "x";`,
			want: []tokenSummary{
				{KindIdentifier, "id"},
				{KindOperator, "="},
				{KindIdentifier, "serial"},
				{KindPunctuation, "("},
				{KindPunctuation, ")"},
				{KindOperator, "+"},
				{KindString, "x"},
				{KindPunctuation, ";"},
				{KindEOF, ""},
			},
		},
		{
			name:   "print_line",
			source: "print line 12;",
			want: []tokenSummary{
				{KindKeyword, "print"},
				{KindKeyword, "line"},
				{KindNumber, "12"},
				{KindPunctuation, ";"},
				{KindEOF, ""},
			},
		},
		{
			name:   "comments_skipped",
			source: "// header\ninput /* inline */ \"a\";",
			want: []tokenSummary{
				{KindKeyword, "input"},
				{KindString, "a"},
				{KindPunctuation, ";"},
				{KindEOF, ""},
			},
		},
		{
			name:   "string_without_escape_processing",
			source: `"a\nb"`,
			want: []tokenSummary{
				{KindString, `a\nb`},
				{KindEOF, ""},
			},
		},
		{
			name:   "unicode_identifiers",
			source: `제목 = @문제;`,
			want: []tokenSummary{
				{KindIdentifier, "제목"},
				{KindOperator, "="},
				{KindField, "문제"},
				{KindPunctuation, ";"},
				{KindEOF, ""},
			},
		},
		{
			name:   "empty",
			source: "  \n\t ",
			want:   []tokenSummary{{KindEOF, ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, err := Tokenize(tt.source)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if got := summarize(tokens); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tokenize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenizeFieldPath(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize(`@a.b.c.suffix("!")`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(tokens[0].Path, want) {
		t.Fatalf("Path = %v, want %v", tokens[0].Path, want)
	}
}

func TestTokenizePositions(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize("input \"a\";\n  output \"b\";")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	output := tokens[3]
	if !output.Is(KindKeyword, "output") {
		t.Fatalf("tokens[3] = %v, want output keyword", output)
	}
	if output.Pos.Line != 2 || output.Pos.Column != 3 {
		t.Fatalf("output position = %s, want 2:3", output.Pos)
	}
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantErr  error
		wantChar rune
		wantPos  string
	}{
		{name: "unterminated_string", source: `input "in.jsonl;`, wantErr: ErrUnterminatedString, wantPos: "1:7"},
		{name: "unexpected_character", source: "input #", wantErr: ErrUnexpectedCharacter, wantChar: '#', wantPos: "1:7"},
		{name: "bare_at", source: "x = @;", wantErr: ErrUnexpectedCharacter, wantChar: '@', wantPos: "1:5"},
		{name: "lone_slash", source: "a / b", wantErr: ErrUnexpectedCharacter, wantChar: '/', wantPos: "1:3"},
		{name: "unterminated_comment", source: "\n/* open", wantErr: ErrUnterminatedComment, wantPos: "2:1"},
		{name: "number_followed_by_letter", source: "print line 3x;", wantErr: ErrUnexpectedCharacter, wantChar: 'x', wantPos: "1:13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Tokenize(tt.source)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Tokenize() error = %v, want %v", err, tt.wantErr)
			}

			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("Tokenize() error type = %T, want *LexError", err)
			}
			if lexErr.Char != tt.wantChar {
				t.Fatalf("Char = %q, want %q", lexErr.Char, tt.wantChar)
			}
			if got := lexErr.Pos.String(); got != tt.wantPos {
				t.Fatalf("Pos = %s, want %s", got, tt.wantPos)
			}
		})
	}
}
