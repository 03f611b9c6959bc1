// Package parser builds the expression tree from the lexer's token
// stream. It is a Pratt parser with span-anchored recovery: every
// malformed region becomes an explicit placeholder node, and parsing
// always yields a complete tree.
package parser

import (
	"fmt"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/source"
	"formula/internal/token"
)

// Parser consumes a token stream that still contains trivia and an
// explicit EOF marker. cur/bump skip trivia; spans stay byte-based.
type Parser struct {
	src      string
	tokens   []token.Token
	pos      int
	reporter diag.Reporter
}

// New constructs a parser over the given stream. The stream must end
// with an EOF token, which the lexer guarantees.
func New(src string, tokens []token.Token, reporter diag.Reporter) *Parser {
	return &Parser{
		src:      src,
		tokens:   tokens,
		reporter: reporter,
	}
}

// ParseExpr parses one full expression. Anything left before EOF is
// reported but never consumed into the tree.
func (p *Parser) ParseExpr() ast.Expr {
	expr := p.parseExprBP(0)

	if tok := p.cur(); tok.Kind != token.EOF {
		diag.ReportError(p.reporter, diag.SynUnexpectedToken, tok.Span,
			fmt.Sprintf("unexpected token %s after expression", describeToken(tok))).Emit()
	}
	return expr
}

func (p *Parser) nextNonTriviaIdx(idx int) int {
	for idx < len(p.tokens) && p.tokens[idx].IsTrivia() {
		idx++
	}
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	return idx
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.nextNonTriviaIdx(p.pos)]
}

// peekAfter returns the non-trivia token following the current one.
func (p *Parser) peekAfter() token.Token {
	idx := p.nextNonTriviaIdx(p.pos)
	if idx+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.nextNonTriviaIdx(idx+1)]
}

func (p *Parser) bump() token.Token {
	idx := p.nextNonTriviaIdx(p.pos)
	tok := p.tokens[idx]
	p.pos = idx + 1
	return tok
}

func (p *Parser) lastBumpedEnd() uint32 {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.cur().Span.End
}

func (p *Parser) at(kind token.Kind) bool {
	return p.cur().Kind == kind
}

func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.bump()
		return true
	}
	return false
}

// recoverTo skips tokens until one of the sync kinds (or EOF).
// Восстановление всегда двигается вперёд: минимум один токен на ошибку
// съедает вызывающий код.
func (p *Parser) recoverTo(sync ...token.Kind) {
	for {
		cur := p.cur().Kind
		if cur == token.EOF {
			return
		}
		for _, k := range sync {
			if cur == k {
				return
			}
		}
		p.bump()
	}
}

// canBeginExpr reports whether the token can start an expression.
func canBeginExpr(tok token.Token) bool {
	switch tok.Kind {
	case token.Ident, token.NumberLit, token.StringLit, token.BoolLit,
		token.Bang, token.KwNot, token.Minus, token.LParen, token.LBracket:
		return true
	default:
		return false
	}
}

func describeToken(tok token.Token) string {
	switch tok.Kind {
	case token.Ident:
		return "identifier"
	case token.NumberLit:
		return "number"
	case token.StringLit:
		return "string literal"
	case token.BoolLit:
		return "boolean"
	case token.KwNot:
		return "`not`"
	case token.EOF:
		return "end of input"
	default:
		if tok.IsPunctOrOp() {
			return "`" + tok.Kind.String() + "`"
		}
		return tok.Kind.String()
	}
}

func (p *Parser) emitUnexpected(expected string, found token.Token) {
	diag.ReportError(p.reporter, diag.SynUnexpectedToken, found.Span,
		fmt.Sprintf("expected %s, found %s", expected, describeToken(found))).Emit()
}

func (p *Parser) badExprAt(span source.Span) ast.Expr {
	return &ast.Bad{Sp: span}
}

// badExprBump reports nothing, consumes the offending token (unless
// EOF), and returns a placeholder covering it.
func (p *Parser) badExprBump() ast.Expr {
	tok := p.cur()
	if tok.Kind != token.EOF {
		p.bump()
	}
	return &ast.Bad{Sp: tok.Span}
}
