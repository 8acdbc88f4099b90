package scanner_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/loxlang/lox/errs"
	"github.com/loxlang/lox/scanner"
	"github.com/loxlang/lox/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	reporter := errs.New(&bytes.Buffer{})
	toks := scanner.ScanAll([]byte(src), reporter)
	types := make([]token.Type, len(toks))
	for i, tok := range toks {
		types[i] = tok.Type
	}
	return types
}

func TestScanAll(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Type
	}{
		{
			name: "punctuation and operators",
			src:  "(){},.-+;*!!====<<=>>=/",
			want: []token.Type{
				token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
				token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon, token.Star,
				token.Bang, token.BangEqual, token.EqualEqual, token.Equal, token.Less, token.LessEqual,
				token.Greater, token.GreaterEqual, token.Slash,
				token.EOF,
			},
		},
		{
			name: "keywords and an identifier",
			src:  "and class else false fun for if nil or print return super this true var while an_ident01",
			want: []token.Type{
				token.And, token.Class, token.Else, token.False, token.Fun, token.For, token.If,
				token.Nil, token.Or, token.Print, token.Return, token.Super, token.This,
				token.True, token.Var, token.While, token.Ident,
				token.EOF,
			},
		},
		{
			name: "line comment is skipped",
			src:  "var a; // this is a comment\nvar b;",
			want: []token.Type{token.Var, token.Ident, token.Semicolon, token.Var, token.Ident, token.Semicolon, token.EOF},
		},
		{
			name: "dot-prefixed and dot-suffixed numbers scan as two tokens",
			src:  ".1234 1234.",
			want: []token.Type{token.Dot, token.Number, token.Number, token.Dot, token.EOF},
		},
		{
			name: "empty source is just EOF",
			src:  "",
			want: []token.Type{token.EOF},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanTypes(t, tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ScanAll() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanAll_NumberLiterals(t *testing.T) {
	reporter := errs.New(&bytes.Buffer{})
	toks := scanner.ScanAll([]byte("1234 12.349"), reporter)
	want := []float64{1234, 12.349}
	for i, w := range want {
		if toks[i].Literal.(float64) != w {
			t.Errorf("token %d: got literal %v, want %v", i, toks[i].Literal, w)
		}
	}
}

func TestScanAll_StringLiteral(t *testing.T) {
	reporter := errs.New(&bytes.Buffer{})
	toks := scanner.ScanAll([]byte(`"hello world"`), reporter)
	if toks[0].Type != token.String {
		t.Fatalf("got token type %s, want String", toks[0].Type)
	}
	if toks[0].Literal.(string) != "hello world" {
		t.Errorf("got literal %q, want %q", toks[0].Literal, "hello world")
	}
}

func TestScanAll_MultilineString(t *testing.T) {
	reporter := errs.New(&bytes.Buffer{})
	toks := scanner.ScanAll([]byte("\"hello\nworld\"\nvar a;"), reporter)
	if toks[0].Literal.(string) != "hello\nworld" {
		t.Errorf("got literal %q", toks[0].Literal)
	}
	// the newline inside the string advances the line count, so the token after it is on line 3
	if toks[1].Line != 3 {
		t.Errorf("got line %d for token after multiline string, want 3", toks[1].Line)
	}
}

func TestScanAll_UnterminatedStringReportsErrorButContinues(t *testing.T) {
	var buf bytes.Buffer
	reporter := errs.New(&buf)
	toks := scanner.ScanAll([]byte(`"unterminated`), reporter)
	if !reporter.HadError {
		t.Error("HadError = false, want true")
	}
	if len(toks) != 1 || toks[0].Type != token.EOF {
		t.Errorf("got tokens %v, want just EOF", toks)
	}
}

func TestScanAll_UnexpectedCharacterReportsErrorButContinues(t *testing.T) {
	var buf bytes.Buffer
	reporter := errs.New(&buf)
	toks := scanner.ScanAll([]byte("@ var a;"), reporter)
	if !reporter.HadError {
		t.Error("HadError = false, want true")
	}
	got := make([]token.Type, len(toks))
	for i, tok := range toks {
		got[i] = tok.Type
	}
	want := []token.Type{token.Var, token.Ident, token.Semicolon, token.EOF}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScanAll() mismatch (-want +got):\n%s", diff)
	}
}
