package lexer

import (
	"fmt"

	"formula/internal/diag"
	"formula/internal/source"
	"formula/internal/token"
)

// Lexer сканирует текст формулы слева направо.
//
// Грамматика v1 намеренно маленькая:
//   - числа: только целые (непрерывный ряд десятичных цифр);
//   - строки: в двойных кавычках, без escape-последовательностей;
//   - идентификаторы: '_', ASCII-буква или любой не-ASCII codepoint.
//
// Ошибки не прерывают сканирование: каждая даёт ровно одну диагностику,
// дальше лексер продолжает с места восстановления.
type Lexer struct {
	cursor   Cursor
	reporter diag.Reporter
	tokens   []token.Token
}

// Lex scans the whole input and returns the token stream. Trivia
// (comments, newlines) stay in the stream; the final token is always
// EOF with the empty span [len, len).
func Lex(src string, reporter diag.Reporter) []token.Token {
	lx := &Lexer{
		cursor:   NewCursor(src),
		reporter: reporter,
	}
	lx.run()
	return lx.tokens
}

func (lx *Lexer) run() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()

		// Пробелы пропускаем, перевод строки — это trivia-токен.
		if b == ' ' || b == '\t' || b == '\r' {
			lx.cursor.Bump()
			continue
		}

		mark := lx.cursor.Mark()
		switch {
		case b == '\n':
			lx.cursor.Bump()
			lx.push(token.Newline, mark)
		case b == '#':
			lx.scanPound(mark)
		case b == '/':
			lx.scanSlash(mark)
		case b == '"':
			lx.scanString(mark)
		case isDigit(b):
			lx.scanNumber(mark)
		case isIdentStartByte(b):
			lx.scanIdent(mark)
		default:
			lx.scanOperator(mark)
		}
	}

	end := lx.cursor.Off()
	lx.tokens = append(lx.tokens, token.Token{
		Kind: token.EOF,
		Span: source.Span{Start: end, End: end},
	})
}

// scanOperator handles fixed-text operator and delimiter tokens, plus
// the hinted error cases for lone '=', '&', and '|'.
func (lx *Lexer) scanOperator(mark Mark) {
	b := lx.cursor.Bump()
	switch b {
	case '<':
		if lx.cursor.Eat('=') {
			lx.push(token.LtEq, mark)
		} else {
			lx.push(token.Lt, mark)
		}
	case '>':
		if lx.cursor.Eat('=') {
			lx.push(token.GtEq, mark)
		} else {
			lx.push(token.Gt, mark)
		}
	case '=':
		if lx.cursor.Eat('=') {
			lx.push(token.EqEq, mark)
		} else {
			lx.errorAt(mark, diag.LexUnknownChar, "unexpected char '=' (did you mean '==')")
		}
	case '!':
		if lx.cursor.Eat('=') {
			lx.push(token.BangEq, mark)
		} else {
			lx.push(token.Bang, mark)
		}
	case '&':
		if lx.cursor.Eat('&') {
			lx.push(token.AndAnd, mark)
		} else {
			lx.errorAt(mark, diag.LexUnknownChar, "unexpected char '&' (did you mean '&&')")
		}
	case '|':
		if lx.cursor.Eat('|') {
			lx.push(token.OrOr, mark)
		} else {
			lx.errorAt(mark, diag.LexUnknownChar, "unexpected char '|' (did you mean '||')")
		}
	case '+':
		lx.push(token.Plus, mark)
	case '-':
		lx.push(token.Minus, mark)
	case '*':
		lx.push(token.Star, mark)
	case '%':
		lx.push(token.Percent, mark)
	case '^':
		lx.push(token.Caret, mark)
	case '.':
		lx.push(token.Dot, mark)
	case ',':
		lx.push(token.Comma, mark)
	case ':':
		lx.push(token.Colon, mark)
	case '?':
		lx.push(token.Question, mark)
	case '(':
		lx.push(token.LParen, mark)
	case ')':
		lx.push(token.RParen, mark)
	case '[':
		lx.push(token.LBracket, mark)
	case ']':
		lx.push(token.RBracket, mark)
	default:
		// Мультибайтовый или просто неизвестный символ: перечитываем
		// его как руну, чтобы span покрыл весь codepoint.
		lx.cursor.Reset(mark)
		r := lx.cursor.BumpRune()
		lx.errorAt(mark, diag.LexUnknownChar, fmt.Sprintf("unexpected char '%c'", r))
	}
}

func (lx *Lexer) push(kind token.Kind, mark Mark) {
	lx.tokens = append(lx.tokens, token.Token{
		Kind: kind,
		Span: lx.cursor.SpanFrom(mark),
		Text: lx.cursor.TextFrom(mark),
	})
}

func (lx *Lexer) errorAt(mark Mark, code diag.Code, msg string) {
	diag.ReportError(lx.reporter, code, lx.cursor.SpanFrom(mark), msg).Emit()
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStartByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b >= 0x80 // любой не-ASCII codepoint начинает идентификатор
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDigit(b)
}
