package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input. Its span is always empty.
	EOF

	// Ident represents an identifier token.
	Ident
	// KwNot represents the 'not' keyword (prefix negation).
	KwNot // not

	// NumberLit represents a numeric literal (decimal digit run).
	NumberLit
	// StringLit represents a double-quoted string literal, no escapes.
	StringLit
	// BoolLit represents 'true' or 'false'.
	BoolLit

	// Lt represents '<'.
	Lt // <
	// LtEq represents '<='.
	LtEq // <=
	// EqEq represents '=='.
	EqEq // ==
	// BangEq represents '!='.
	BangEq // !=
	// GtEq represents '>='.
	GtEq // >=
	// Gt represents '>'.
	Gt // >
	// AndAnd represents '&&'.
	AndAnd // &&
	// OrOr represents '||'.
	OrOr // ||
	// Bang represents '!'.
	Bang // !
	// Plus represents '+'.
	Plus // +
	// Minus represents '-'.
	Minus // -
	// Star represents '*'.
	Star // *
	// Slash represents '/'.
	Slash // /
	// Percent represents '%'.
	Percent // %
	// Caret represents '^' (power, right-associative).
	Caret // ^
	// Dot represents '.'.
	Dot // .
	// Comma represents ','.
	Comma // ,
	// Colon represents ':'.
	Colon // :
	// Pound represents '#'.
	Pound // #
	// Question represents '?'.
	Question // ?
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]

	// DocComment represents a '##' doc comment (trivia).
	DocComment
	// LineComment represents a '//' comment (trivia).
	LineComment
	// BlockComment represents a '/* */' comment (trivia).
	BlockComment
	// Newline represents a '\n' (trivia).
	Newline
)

var kindNames = map[Kind]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Ident:        "Ident",
	KwNot:        "not",
	NumberLit:    "Number",
	StringLit:    "String",
	BoolLit:      "Bool",
	Lt:           "<",
	LtEq:         "<=",
	EqEq:         "==",
	BangEq:       "!=",
	GtEq:         ">=",
	Gt:           ">",
	AndAnd:       "&&",
	OrOr:         "||",
	Bang:         "!",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Percent:      "%",
	Caret:        "^",
	Dot:          ".",
	Comma:        ",",
	Colon:        ":",
	Pound:        "#",
	Question:     "?",
	LParen:       "(",
	RParen:       ")",
	LBracket:     "[",
	RBracket:     "]",
	DocComment:   "DocComment",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	Newline:      "Newline",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}
