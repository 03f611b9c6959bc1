package lexer

import (
	"formula/internal/diag"
	"formula/internal/token"
)

// scanPound handles '##' doc comments and the lone '#' token.
func (lx *Lexer) scanPound(mark Mark) {
	lx.cursor.Bump()
	if !lx.cursor.Eat('#') {
		lx.push(token.Pound, mark)
		return
	}
	lx.eatUntilNewline()
	lx.push(token.DocComment, mark)
}

// scanSlash handles '//' and '/* */' comments and the '/' operator.
func (lx *Lexer) scanSlash(mark Mark) {
	lx.cursor.Bump()
	switch {
	case lx.cursor.Eat('/'):
		lx.eatUntilNewline()
		lx.push(token.LineComment, mark)
	case lx.cursor.Eat('*'):
		lx.scanBlockComment(mark)
	default:
		lx.push(token.Slash, mark)
	}
}

func (lx *Lexer) scanBlockComment(mark Mark) {
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '*' && lx.cursor.Eat('/') {
			lx.push(token.BlockComment, mark)
			return
		}
	}

	// Комментарий до конца текста: диагностика + trivia-токен на остаток.
	diag.ReportError(lx.reporter, diag.LexUnterminatedBlockComment,
		lx.cursor.SpanFrom(mark), "unterminated block comment").Emit()
	lx.push(token.BlockComment, mark)
}

func (lx *Lexer) eatUntilNewline() {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
}
