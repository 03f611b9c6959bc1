package ast

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented tree dump of the expression, one node per
// line with its span. The output is stable and meant for golden tests
// and the CLI parse command.
func Fprint(w io.Writer, expr Expr) error {
	p := &treePrinter{w: w}
	p.print(expr, 0)
	return p.err
}

type treePrinter struct {
	w   io.Writer
	err error
}

func (p *treePrinter) line(depth int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (p *treePrinter) print(expr Expr, depth int) {
	sp := expr.Span()
	switch e := expr.(type) {
	case *Ident:
		p.line(depth, "Ident %s [%d..%d]", e.Name, sp.Start, sp.End)
	case *Lit:
		p.line(depth, "Lit %s %q [%d..%d]", e.Kind, e.Value, sp.Start, sp.End)
	case *Group:
		p.line(depth, "Group [%d..%d]", sp.Start, sp.End)
		p.print(e.Inner, depth+1)
	case *List:
		p.line(depth, "List [%d..%d]", sp.Start, sp.End)
		for _, elem := range e.Elems {
			p.print(elem, depth+1)
		}
	case *Call:
		p.line(depth, "Call %s [%d..%d]", e.Name, sp.Start, sp.End)
		for _, arg := range e.Args {
			p.print(arg, depth+1)
		}
	case *MemberCall:
		p.line(depth, "MemberCall .%s [%d..%d]", e.Method, sp.Start, sp.End)
		p.print(e.Receiver, depth+1)
		for _, arg := range e.Args {
			p.print(arg, depth+1)
		}
	case *Unary:
		p.line(depth, "Unary %s [%d..%d]", e.Op, sp.Start, sp.End)
		p.print(e.X, depth+1)
	case *Binary:
		p.line(depth, "Binary %s [%d..%d]", e.Op, sp.Start, sp.End)
		p.print(e.Left, depth+1)
		p.print(e.Right, depth+1)
	case *Ternary:
		p.line(depth, "Ternary [%d..%d]", sp.Start, sp.End)
		p.print(e.Cond, depth+1)
		p.print(e.Then, depth+1)
		p.print(e.Else, depth+1)
	case *Bad:
		p.line(depth, "Bad [%d..%d]", sp.Start, sp.End)
	}
}
