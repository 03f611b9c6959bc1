package parser

import (
	"fmt"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/source"
	"formula/internal/token"
)

// infixBindingPower returns (left, right) binding powers.
// Right-associative: (p, p). Left-associative: (p, p+1).
func infixBindingPower(op ast.BinaryOp) (left, right uint8) {
	switch op {
	case ast.BinOrOr:
		return 1, 2
	case ast.BinAndAnd:
		return 3, 4
	case ast.BinEqEq, ast.BinBangEq:
		return 5, 6
	case ast.BinLt, ast.BinLtEq, ast.BinGtEq, ast.BinGt:
		return 7, 8
	case ast.BinPlus, ast.BinMinus:
		return 9, 10
	case ast.BinStar, ast.BinSlash, ast.BinPercent:
		return 11, 12
	case ast.BinCaret:
		return 13, 13
	}
	return 0, 0
}

const prefixBindingPower = 14

func binOpFor(kind token.Kind) (ast.BinaryOp, bool) {
	switch kind {
	case token.Lt:
		return ast.BinLt, true
	case token.LtEq:
		return ast.BinLtEq, true
	case token.EqEq:
		return ast.BinEqEq, true
	case token.BangEq:
		return ast.BinBangEq, true
	case token.GtEq:
		return ast.BinGtEq, true
	case token.Gt:
		return ast.BinGt, true
	case token.AndAnd:
		return ast.BinAndAnd, true
	case token.OrOr:
		return ast.BinOrOr, true
	case token.Plus:
		return ast.BinPlus, true
	case token.Minus:
		return ast.BinMinus, true
	case token.Star:
		return ast.BinStar, true
	case token.Slash:
		return ast.BinSlash, true
	case token.Percent:
		return ast.BinPercent, true
	case token.Caret:
		return ast.BinCaret, true
	}
	return 0, false
}

func (p *Parser) parseExprBP(minBP uint8) ast.Expr {
	lhs := p.parsePrefix()

	for {
		if p.at(token.Question) {
			p.bump() // '?'
			thenExpr := p.parseTernaryBranch()
			if !p.eat(token.Colon) {
				p.emitUnexpected("':'", p.cur())
			}
			elseExpr := p.parseTernaryBranch()
			lhs = &ast.Ternary{
				Cond: lhs,
				Then: thenExpr,
				Else: elseExpr,
				Sp:   lhs.Span().Cover(elseExpr.Span()),
			}
			continue
		}

		op, ok := binOpFor(p.cur().Kind)
		if !ok {
			break
		}
		leftBP, rightBP := infixBindingPower(op)
		if leftBP < minBP {
			break
		}

		opTok := p.bump()

		var rhs ast.Expr
		if canBeginExpr(p.cur()) {
			rhs = p.parseExprBP(rightBP)
		} else {
			diag.ReportError(p.reporter, diag.SynMissingExpr, opTok.Span,
				fmt.Sprintf("expected expression after '%s'", op)).Emit()
			errSpan := p.cur().Span
			if p.at(token.EOF) {
				errSpan = source.EmptyAt(opTok.Span.End)
			}
			if !p.atSyncPoint() && !p.at(token.EOF) {
				p.bump()
				p.recoverTo(token.Comma, token.RBracket, token.RParen, token.Colon)
			}
			rhs = p.badExprAt(errSpan)
		}

		lhs = &ast.Binary{
			Op:     op,
			OpSpan: opTok.Span,
			Left:   lhs,
			Right:  rhs,
			Sp:     lhs.Span().Cover(rhs.Span()),
		}
	}

	return lhs
}

// parseTernaryBranch parses one branch of `? :` without ever consuming
// a delimiter that belongs to an enclosing call or list.
func (p *Parser) parseTernaryBranch() ast.Expr {
	if canBeginExpr(p.cur()) {
		return p.parseExprBP(0)
	}
	sp := source.EmptyAt(p.lastBumpedEnd())
	diag.ReportError(p.reporter, diag.SynMissingExpr, sp, "expected expression").Emit()
	return p.badExprAt(sp)
}

func (p *Parser) atSyncPoint() bool {
	switch p.cur().Kind {
	case token.Comma, token.RBracket, token.RParen, token.Colon, token.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur().Kind {
	case token.Bang, token.KwNot:
		tok := p.bump()
		x := p.parseExprBP(prefixBindingPower)
		return &ast.Unary{
			Op:     ast.UnaryNot,
			OpSpan: tok.Span,
			X:      x,
			Sp:     tok.Span.Cover(x.Span()),
		}
	case token.Minus:
		tok := p.bump()
		x := p.parseExprBP(prefixBindingPower)
		return &ast.Unary{
			Op:     ast.UnaryNeg,
			OpSpan: tok.Span,
			X:      x,
			Sp:     tok.Span.Cover(x.Span()),
		}
	default:
		return p.parsePostfixPrimary()
	}
}

func (p *Parser) parsePostfixPrimary() ast.Expr {
	expr := p.parsePrimary()

	for {
		if p.at(token.LParen) {
			lparen := p.bump()
			args := p.parseSeq(token.RParen, true)
			p.expectCloser(lparen, token.RParen)

			ident, ok := expr.(*ast.Ident)
			if !ok {
				diag.ReportError(p.reporter, diag.SynUnexpectedToken, p.cur().Span,
					"expected call callee (identifier)").Emit()
				expr = p.badExprAt(source.Span{Start: expr.Span().Start, End: p.lastBumpedEnd()})
				break
			}
			expr = &ast.Call{
				Name:     ident.Name,
				NameSpan: ident.Sp,
				LParen:   lparen.Span,
				Args:     args,
				Sp:       source.Span{Start: expr.Span().Start, End: p.lastBumpedEnd()},
			}
			continue
		}

		if p.at(token.Dot) {
			p.bump() // '.'

			// `a..m(x)`: лишние точки пропускаем с диагностикой.
			for p.at(token.Dot) {
				extra := p.bump()
				diag.ReportError(p.reporter, diag.SynRedundantDot, extra.Span,
					"redundant '.'").Emit()
			}

			if !p.at(token.Ident) {
				p.emitUnexpected("identifier", p.cur())
				if !p.at(token.EOF) && !p.atSyncPoint() {
					p.bump()
				}
				expr = p.badExprAt(source.Span{Start: expr.Span().Start, End: p.lastBumpedEnd()})
				break
			}
			methodTok := p.bump()

			if !p.at(token.LParen) {
				diag.ReportError(p.reporter, diag.SynBareMemberAccess, methodTok.Span,
					"expected '(' after member name (member access is not supported yet)").Emit()
				expr = p.badExprAt(source.Span{Start: expr.Span().Start, End: p.lastBumpedEnd()})
				break
			}

			lparen := p.bump()
			args := p.parseSeq(token.RParen, true)
			p.expectCloser(lparen, token.RParen)

			expr = &ast.MemberCall{
				Receiver:   expr,
				Method:     methodTok.Text,
				MethodSpan: methodTok.Span,
				LParen:     lparen.Span,
				Args:       args,
				Sp:         source.Span{Start: expr.Span().Start, End: p.lastBumpedEnd()},
			}
			continue
		}

		break
	}

	return expr
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case token.Ident:
		p.bump()
		return &ast.Ident{Name: tok.Text, Sp: tok.Span}

	case token.NumberLit:
		p.bump()
		return &ast.Lit{Kind: ast.LitNumber, Value: tok.Text, Sp: tok.Span}

	case token.StringLit:
		p.bump()
		value := tok.Text
		if len(value) >= 2 && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		} else if len(value) >= 1 {
			// незакрытая строка: кавычка только слева
			value = value[1:]
		}
		return &ast.Lit{Kind: ast.LitString, Value: value, Sp: tok.Span}

	case token.BoolLit:
		p.bump()
		return &ast.Lit{Kind: ast.LitBool, Value: tok.Text, Sp: tok.Span}

	case token.LParen:
		lparen := p.bump()
		inner := p.parseExprBP(0)
		p.expectCloser(lparen, token.RParen)
		return &ast.Group{
			Inner: inner,
			Sp:    source.Span{Start: lparen.Span.Start, End: p.lastBumpedEnd()},
		}

	case token.LBracket:
		lbrack := p.bump()
		elems := p.parseSeq(token.RBracket, false)
		p.expectCloser(lbrack, token.RBracket)
		return &ast.List{
			Elems: elems,
			Sp:    source.Span{Start: lbrack.Span.Start, End: p.lastBumpedEnd()},
		}

	default:
		diag.ReportError(p.reporter, diag.SynMissingExpr, tok.Span,
			fmt.Sprintf("expected primary expression, found %s", describeToken(tok))).Emit()
		return p.badExprBump()
	}
}

// parseSeq is the single shared routine for every comma-delimited
// construct (call arguments, list elements). fillMissing controls what
// a separator with no following item produces: calls get a placeholder
// so arity counting stays stable, lists treat it as a hard trailing
// comma error.
func (p *Parser) parseSeq(closer token.Kind, fillMissing bool) []ast.Expr {
	var items []ast.Expr
	if p.at(closer) || p.at(token.EOF) {
		return items
	}

	items = append(items, p.parseExprBP(0))
	for {
		if p.at(token.Comma) {
			comma := p.bump()

			if p.at(closer) || p.at(token.EOF) {
				if fillMissing {
					sp := source.EmptyAt(comma.Span.End)
					diag.ReportError(p.reporter, diag.SynMissingExpr, sp,
						"expected expression after ','").Emit()
					items = append(items, p.badExprAt(sp))
				} else {
					diag.ReportError(p.reporter, diag.SynTrailingComma, comma.Span,
						"trailing comma in list literal is not supported").Emit()
				}
				return items
			}

			if !canBeginExpr(p.cur()) {
				found := p.cur()
				diag.ReportError(p.reporter, diag.SynMissingExpr, found.Span,
					"expected expression after ','").Emit()
				if !p.at(token.EOF) {
					p.bump()
				}
				p.recoverTo(token.Comma, closer, token.RParen, token.RBracket, token.Colon)
				items = append(items, p.badExprAt(found.Span))
				if p.at(token.Comma) {
					continue
				}
				return items
			}

			items = append(items, p.parseExprBP(0))
			continue
		}

		// Пропущенная запятая: `f(a b)` — продолжаем, как будто она была.
		if canBeginExpr(p.cur()) {
			sp := source.EmptyAt(p.cur().Span.Start)
			diag.ReportError(p.reporter, diag.SynMissingComma, sp,
				"missing ',' before this expression").
				WithFix("insert ','", diag.FixEdit{Span: sp, NewText: ", "}).
				Emit()
			items = append(items, p.parseExprBP(0))
			continue
		}

		return items
	}
}

// expectCloser consumes the expected closing delimiter or recovers:
// the matching opposite closer counts as mismatched (and is consumed),
// anything else reports the opener as unclosed with an insert fix-it.
func (p *Parser) expectCloser(open token.Token, closer token.Kind) {
	if p.eat(closer) {
		return
	}

	closerText := closer.String()
	found := p.cur()

	other := token.RBracket
	if closer == token.RBracket {
		other = token.RParen
	}
	if found.Kind == other {
		diag.ReportError(p.reporter, diag.SynMismatchedDelimiter, found.Span,
			fmt.Sprintf("expected '%s', found %s", closerText, describeToken(found))).
			WithLabel(open.Span, fmt.Sprintf("this '%s' is closed with the wrong delimiter", open.Kind)).
			WithFix(fmt.Sprintf("replace with '%s'", closerText),
				diag.FixEdit{Span: found.Span, NewText: closerText}).
			Emit()
		p.bump()
		return
	}

	primary := found.Span
	if found.Kind == token.EOF {
		primary = source.EmptyAt(found.Span.Start)
	}
	diag.ReportError(p.reporter, diag.SynUnclosedDelimiter, primary,
		fmt.Sprintf("expected '%s', found %s", closerText, describeToken(found))).
		WithLabel(open.Span, fmt.Sprintf("this '%s' is not closed", open.Kind)).
		WithFix(fmt.Sprintf("insert '%s'", closerText),
			diag.FixEdit{Span: source.EmptyAt(primary.Start), NewText: closerText}).
		Emit()

	p.recoverTo(closer, token.Comma, token.Colon)
	if p.at(closer) {
		p.bump()
	}
}
