package format

import (
	"strings"

	"formula/internal/ast"
	"formula/internal/source"
	"formula/internal/token"
)

func isComment(k token.Kind) bool {
	switch k {
	case token.DocComment, token.LineComment, token.BlockComment:
		return true
	}
	return false
}

// firstTokenIdx finds the first non-trivia token starting at or after
// the span start; -1 when none exists.
func (p *printer) firstTokenIdx(sp source.Span) int {
	for idx, t := range p.tokens {
		if t.IsTrivia() || t.Kind == token.EOF {
			continue
		}
		if t.Span.Start >= sp.Start {
			return idx
		}
	}
	return -1
}

// lastTokenIdx finds the last non-trivia token fully inside the span;
// -1 when none exists.
func (p *printer) lastTokenIdx(sp source.Span) int {
	best := -1
	for idx, t := range p.tokens {
		if t.IsTrivia() || t.Kind == token.EOF {
			continue
		}
		if t.Span.Start >= sp.Start && t.Span.End <= sp.End {
			best = idx
		}
		if t.Span.Start >= sp.End {
			break
		}
	}
	return best
}

func (p *printer) lineAt(offset uint32) uint32 {
	return p.lines.ToLineCol(offset).Line
}

// takeLeadingComments claims the comment run directly before the
// expression. A block comment ending on the expression's own line is
// returned separately so it can stay inline.
func (p *printer) takeLeadingComments(expr ast.Expr) ([]int, int) {
	first := p.firstTokenIdx(expr.Span())
	if first < 0 {
		return nil, -1
	}

	var run []int
	for j := first - 1; j >= 0; j-- {
		t := p.tokens[j]
		if !t.IsTrivia() {
			break
		}
		if isComment(t.Kind) && !p.used[j] {
			run = append(run, j)
		}
	}
	// run собран в обратном порядке
	for i, j := 0, len(run)-1; i < j; i, j = i+1, j-1 {
		run[i], run[j] = run[j], run[i]
	}

	exprLine := p.lineAt(expr.Span().Start)
	inlineBlock := -1
	var leading []int
	for _, idx := range run {
		t := p.tokens[idx]
		endOffset := t.Span.End
		if endOffset > 0 {
			endOffset--
		}
		isInline := t.Kind == token.BlockComment &&
			p.lineAt(endOffset) == exprLine &&
			!p.sliceHasNewline(t.Span.End, expr.Span().Start)
		if isInline {
			inlineBlock = idx
		} else {
			leading = append(leading, idx)
		}
		p.used[idx] = true
	}
	return leading, inlineBlock
}

// availableTrailingComment finds a same-line comment right after the
// expression's last token, stopping at the first newline or code token.
func (p *printer) availableTrailingComment(expr ast.Expr) int {
	last := p.lastTokenIdx(expr.Span())
	if last < 0 {
		return -1
	}
	endOffset := p.tokens[last].Span.End
	if endOffset > 0 {
		endOffset--
	}
	lastLine := p.lineAt(endOffset)

	for j := last + 1; j < len(p.tokens); j++ {
		t := p.tokens[j]
		switch {
		case t.Kind == token.Newline || t.Kind == token.EOF:
			return -1
		case t.Kind == token.LineComment || t.Kind == token.DocComment:
			if p.used[j] {
				return -1
			}
			if p.lineAt(t.Span.Start) == lastLine {
				return j
			}
			return -1
		case t.Kind == token.BlockComment:
			if p.used[j] {
				return -1
			}
			if strings.Contains(t.Text, "\n") {
				return -1
			}
			if p.lineAt(t.Span.Start) == lastLine {
				return j
			}
		default:
			return -1
		}
	}
	return -1
}

func (p *printer) takeTrailingComment(expr ast.Expr) int {
	idx := p.availableTrailingComment(expr)
	if idx >= 0 {
		p.used[idx] = true
	}
	return idx
}

func (p *printer) sliceHasNewline(start, end uint32) bool {
	if start >= end || int(start) >= len(p.src) {
		return false
	}
	if int(end) > len(p.src) {
		end = uint32(len(p.src))
	}
	return strings.Contains(p.src[start:end], "\n")
}
