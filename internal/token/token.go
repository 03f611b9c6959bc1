package token

import (
	"formula/internal/source"
)

// Token represents a single source token with its location.
// Trivia tokens stay in the stream so that layout queries and the
// formatter can recover the exact source; syntax consumers skip them.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsTrivia reports whether the token is skipped by syntax consumers.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case DocComment, LineComment, BlockComment, Newline:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, BoolLit:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Lt, LtEq, EqEq, BangEq, GtEq, Gt, AndAnd, OrOr, Bang, Plus, Minus,
		Star, Slash, Percent, Caret, Dot, Comma, Colon, Pound, Question,
		LParen, RParen, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsEOF reports whether the token is the terminal end-of-input marker.
func (t Token) IsEOF() bool { return t.Kind == EOF }
