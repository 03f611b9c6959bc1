package lexer

import (
	"formula/internal/diag"
	"formula/internal/token"
)

// scanString consumes a double-quoted string literal. Escape sequences
// are not part of the v1 grammar, so the scan is a plain search for the
// closing quote. An unterminated literal reports one diagnostic over
// [start, len) and the remainder is still emitted as a string token so
// that later phases see a stable stream.
func (lx *Lexer) scanString(mark Mark) {
	lx.cursor.Bump() // открывающая кавычка

	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			lx.push(token.StringLit, mark)
			return
		}
	}

	diag.ReportError(lx.reporter, diag.LexUnterminatedString,
		lx.cursor.SpanFrom(mark), "unterminated string literal").Emit()
	lx.push(token.StringLit, mark)
}
