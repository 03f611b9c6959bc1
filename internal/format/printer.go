package format

import (
	"strings"

	"formula/internal/ast"
	"formula/internal/source"
	"formula/internal/token"
)

// FormatExpr prints expr into canonical text ending with exactly one
// trailing newline. Source and tokens must describe the same text the
// expression was parsed from, or comment placement will be wrong.
func FormatExpr(src string, tokens []token.Token, expr ast.Expr) string {
	p := &printer{
		src:    src,
		tokens: tokens,
		lines:  source.NewLineIndex(src),
		used:   make(map[int]bool),
	}
	out := p.formatExpr(expr, 0).render()
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

type printer struct {
	src    string
	tokens []token.Token
	lines  *source.LineIndex
	// used отмечает комментарии, уже прикреплённые к какому-то узлу.
	used map[int]bool
}

// tryInline runs an inline-layout attempt, rolling back comment
// attachment when the attempt fails.
func (p *printer) tryInline(f func() (string, bool)) (string, bool) {
	saved := make(map[int]bool, len(p.used))
	for k, v := range p.used {
		saved[k] = v
	}
	text, ok := f()
	if !ok {
		p.used = saved
	}
	return text, ok
}

func (p *printer) formatExpr(expr ast.Expr, indent int) rendered {
	var out rendered

	leading, inlineBlock := p.takeLeadingComments(expr)
	for _, idx := range leading {
		out.pushLine(indent, p.tokens[idx].Text)
	}

	body := p.formatKind(expr, indent)

	if inlineBlock >= 0 {
		prefix := p.tokens[inlineBlock].Text + " "
		if len(body.lines) > 0 {
			body.lines[0].text = prefix + body.lines[0].text
		} else {
			body.pushLine(indent, strings.TrimRight(prefix, " "))
		}
	}
	if idx := p.takeTrailingComment(expr); idx >= 0 {
		body.appendTrailing(p.tokens[idx].Text)
	}

	out.append(body)
	return out
}

func (p *printer) formatKind(expr ast.Expr, indent int) rendered {
	switch e := expr.(type) {
	case *ast.Ident:
		return single(indent, e.Name)
	case *ast.Lit:
		return single(indent, renderLiteral(e))
	case *ast.Group:
		return p.formatGroup(e, indent)
	case *ast.List:
		return p.formatList(e, indent)
	case *ast.Call:
		return p.formatCall(e, indent)
	case *ast.MemberCall:
		return p.formatMemberCall(e, indent)
	case *ast.Unary:
		return p.formatUnary(e, indent)
	case *ast.Binary:
		return p.formatBinary(e, indent)
	case *ast.Ternary:
		return p.formatTernary(e, indent)
	default:
		return single(indent, "<error>")
	}
}

func (p *printer) formatGroup(e *ast.Group, indent int) rendered {
	if !p.exprHasNewline(e) {
		if text, ok := p.tryInline(func() (string, bool) {
			inner, ok := p.formatSingleLine(e.Inner, indent)
			if !ok {
				return "", false
			}
			text := "(" + inner + ")"
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}

	var out rendered
	out.pushLine(indent, "(")
	out.append(p.formatExpr(e.Inner, indent+1))
	out.pushLine(indent, ")")
	return out
}

func (p *printer) formatList(e *ast.List, indent int) rendered {
	if !p.exprHasNewline(e) {
		if text, ok := p.tryInline(func() (string, bool) {
			parts, ok := p.formatPartsSingleLine(e.Elems, indent)
			if !ok {
				return "", false
			}
			text := "[" + strings.Join(parts, ", ") + "]"
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}
	return p.formatDelimitedSeq(rendered{}, indent, "[", false, "]", e.Elems)
}

func (p *printer) formatCall(e *ast.Call, indent int) rendered {
	if !p.exprHasNewline(e) {
		if text, ok := p.tryInline(func() (string, bool) {
			parts, ok := p.formatPartsSingleLine(e.Args, indent)
			if !ok {
				return "", false
			}
			text := e.Name + "(" + strings.Join(parts, ", ") + ")"
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}
	return p.formatDelimitedSeq(rendered{}, indent, e.Name+"(", false, ")", e.Args)
}

func (p *printer) formatMemberCall(e *ast.MemberCall, indent int) rendered {
	if !p.exprHasNewline(e) {
		if text, ok := p.tryInline(func() (string, bool) {
			recv, ok := p.formatSingleLine(e.Receiver, indent)
			if !ok {
				return "", false
			}
			parts, ok := p.formatPartsSingleLine(e.Args, indent)
			if !ok {
				return "", false
			}
			text := recv + "." + e.Method + "(" + strings.Join(parts, ", ") + ")"
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}
	receiver := p.formatExpr(e.Receiver, indent)
	return p.formatDelimitedSeq(receiver, indent, "."+e.Method+"(", true, ")", e.Args)
}

func (p *printer) formatUnary(e *ast.Unary, indent int) rendered {
	opText := p.spanText(e.OpSpan)
	if opText == "" {
		opText = e.Op.String()
	}
	needsSpace := opText == "not"

	if !p.exprHasNewline(e) {
		if text, ok := p.tryInline(func() (string, bool) {
			inner, ok := p.formatSingleLine(e.X, indent)
			if !ok {
				return "", false
			}
			text := opText + inner
			if needsSpace {
				text = opText + " " + inner
			}
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}

	var out rendered
	open := opText + "("
	if needsSpace {
		open = opText + " ("
	}
	out.pushLine(indent, open)
	out.append(p.formatExpr(e.X, indent+1))
	out.pushLine(indent, ")")
	return out
}

func (p *printer) formatBinary(e *ast.Binary, indent int) rendered {
	opText := e.Op.String()

	trailingLine := false
	if idx := p.availableTrailingComment(e); idx >= 0 {
		k := p.tokens[idx].Kind
		trailingLine = k == token.LineComment || k == token.DocComment
	}

	if !p.exprHasNewline(e) || trailingLine {
		if text, ok := p.tryInline(func() (string, bool) {
			lhs, ok := p.formatSingleLine(e.Left, indent)
			if !ok {
				return "", false
			}
			rhs, ok := p.formatSingleLine(e.Right, indent)
			if !ok {
				return "", false
			}
			text := lhs + " " + opText + " " + rhs
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}

	var out rendered
	left := p.formatExpr(e.Left, indent)
	right := p.formatExpr(e.Right, indent+1)

	// Однострочный левый операнд склеивается с первой строкой правого,
	// если комментарии не мешают.
	canJoin := len(left.lines) == 1 &&
		!strings.Contains(left.lines[0].text, "//") &&
		(len(right.lines) == 0 || !strings.HasPrefix(strings.TrimLeft(right.lines[0].text, " "), "//"))

	if canJoin {
		if len(right.lines) > 0 {
			right.lines[0].text = left.lines[0].text + " " + opText + " " + right.lines[0].text
			right.lines[0].indent = left.lines[0].indent
		} else {
			right.pushLine(indent+1, left.lines[0].text+" "+opText)
		}
		for i := 1; i < len(right.lines); i++ {
			if right.lines[i].indent > 0 {
				right.lines[i].indent--
			}
		}
		out.append(right)
		return out
	}

	if len(right.lines) > 0 {
		right.lines[0].text = opText + " " + right.lines[0].text
	} else {
		right.pushLine(indent+1, opText)
	}
	out.append(left)
	out.append(right)
	return out
}

func (p *printer) formatTernary(e *ast.Ternary, indent int) rendered {
	if !p.exprHasNewline(e) {
		if text, ok := p.tryInline(func() (string, bool) {
			c, ok := p.formatSingleLine(e.Cond, indent)
			if !ok {
				return "", false
			}
			t, ok := p.formatSingleLine(e.Then, indent)
			if !ok {
				return "", false
			}
			o, ok := p.formatSingleLine(e.Else, indent)
			if !ok {
				return "", false
			}
			text := c + " ? " + t + " : " + o
			return text, fitsOnLine(indent, len(text))
		}); ok {
			return single(indent, text)
		}
	}

	var out rendered
	cond := p.formatExpr(e.Cond, indent)
	then := p.formatExpr(e.Then, indent+1)
	els := p.formatExpr(e.Else, indent+1)

	if len(then.lines) > 0 {
		then.lines[0].text = "? " + then.lines[0].text
	} else {
		then.pushLine(indent+1, "?")
	}
	if len(els.lines) > 0 {
		els.lines[0].text = ": " + els.lines[0].text
	} else {
		els.pushLine(indent+1, ":")
	}

	out.append(cond)
	out.append(then)
	out.append(els)
	return out
}

// formatDelimitedSeq prints one item per line between open and close.
// Member calls keep ").method(" chained on the receiver's last line.
func (p *printer) formatDelimitedSeq(out rendered, indent int, open string, openAppendsToLast bool, close string, items []ast.Expr) rendered {
	if openAppendsToLast && len(out.lines) > 0 {
		out.lines[len(out.lines)-1].text += open
	} else {
		out.pushLine(indent, open)
	}

	for i, item := range items {
		itemR := p.formatExpr(item, indent+1)
		if i+1 < len(items) && len(itemR.lines) > 0 {
			itemR.lines[len(itemR.lines)-1].text += ","
		}
		out.append(itemR)
	}

	out.pushLine(indent, close)
	return out
}

func (p *printer) formatSingleLine(expr ast.Expr, indent int) (string, bool) {
	r := p.formatExpr(expr, indent)
	if len(r.lines) == 1 {
		return r.lines[0].text, true
	}
	return "", false
}

func (p *printer) formatPartsSingleLine(items []ast.Expr, indent int) ([]string, bool) {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := p.formatSingleLine(item, indent)
		if !ok {
			return nil, false
		}
		parts = append(parts, text)
	}
	return parts, true
}

func (p *printer) spanText(sp source.Span) string {
	if int(sp.End) > len(p.src) || sp.Start > sp.End {
		return ""
	}
	return p.src[sp.Start:sp.End]
}

// exprHasNewline reports whether the node's original source slice
// spans multiple lines; a single trailing newline does not count.
func (p *printer) exprHasNewline(expr ast.Expr) bool {
	s := p.spanText(expr.Span())
	s = strings.TrimSuffix(s, "\n")
	return strings.Contains(s, "\n")
}

func renderLiteral(lit *ast.Lit) string {
	if lit.Kind == ast.LitString {
		return `"` + lit.Value + `"`
	}
	return lit.Value
}
