package token_test

import (
	"testing"

	"formula/internal/source"
	"formula/internal/token"
)

func tok(kind token.Kind, start, end uint32) token.Token {
	return token.Token{Kind: kind, Span: source.Span{Start: start, End: end}}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind token.Kind
		want string
	}{
		{token.EqEq, "=="},
		{token.KwNot, "not"},
		{token.NumberLit, "Number"},
		{token.EOF, "EOF"},
	}
	for _, tc := range cases {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestIsTrivia(t *testing.T) {
	if !tok(token.Newline, 0, 1).IsTrivia() {
		t.Error("Newline should be trivia")
	}
	if !tok(token.DocComment, 0, 4).IsTrivia() {
		t.Error("DocComment should be trivia")
	}
	if tok(token.Ident, 0, 1).IsTrivia() {
		t.Error("Ident should not be trivia")
	}
}

func TestInSpan(t *testing.T) {
	// sum(1, 2)
	tokens := []token.Token{
		tok(token.Ident, 0, 3),
		tok(token.LParen, 3, 4),
		tok(token.NumberLit, 4, 5),
		tok(token.Comma, 5, 6),
		tok(token.NumberLit, 7, 8),
		tok(token.RParen, 8, 9),
		tok(token.EOF, 9, 9),
	}

	got := token.InSpan(tokens, source.Span{Start: 4, End: 8})
	if len(got) != 3 || got[0].Kind != token.NumberLit || got[2].Kind != token.NumberLit {
		t.Fatalf("InSpan(4..8) = %v", got)
	}

	// insertion point inside the first number
	got = token.InSpan(tokens, source.EmptyAt(9))
	found := false
	for _, tk := range got {
		if tk.Kind == token.EOF {
			found = true
		}
	}
	if !found {
		t.Fatalf("InSpan(9..9) should include EOF, got %v", got)
	}

	if got := token.InSpan(tokens, source.Span{Start: 20, End: 25}); len(got) != 0 {
		t.Fatalf("InSpan past end = %v, want empty", got)
	}
}
