package lexer

import (
	"formula/internal/token"
)

// scanIdent consumes an identifier or keyword starting at mark.
// Не-ASCII codepoints разрешены и в начале, и в середине: имена свойств
// и функций бывают не латиницей.
func (lx *Lexer) scanIdent(mark Mark) {
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	text := lx.cursor.TextFrom(mark)
	kind := token.Ident
	switch text {
	case "not":
		kind = token.KwNot
	case "true", "false":
		kind = token.BoolLit
	}
	lx.push(kind, mark)
}

// scanNumber consumes a decimal digit run. Decimals and other numeric
// forms are out of the v1 grammar.
func (lx *Lexer) scanNumber(mark Mark) {
	for !lx.cursor.EOF() && isDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	lx.push(token.NumberLit, mark)
}
