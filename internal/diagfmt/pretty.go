package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"formula/internal/diag"
	"formula/internal/source"
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowFixes bool
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	posColor  = color.New(color.FgCyan)
	hintColor = color.New(color.FgGreen)
)

// Pretty форматирует диагностики в человекочитаемый вид: заголовок,
// строка исходника с подчёркиванием ^~~~ по Span, затем labels, notes
// и (опционально) fix-it'ы. Порядок — порядок Finalize.
func Pretty(w io.Writer, src string, diags []diag.Diagnostic, opts PrettyOpts) {
	idx := source.NewLineIndex(src)

	for _, d := range diags {
		header := fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
		if opts.Color {
			c := errColor
			if d.Severity == diag.SevWarning {
				c = warnColor
			}
			header = c.Sprintf("%s[%s]", d.Severity, d.Code) + ": " + d.Message
		}
		fmt.Fprintln(w, header)

		pos := idx.ToLineCol(d.Primary.Start)
		loc := fmt.Sprintf("  --> <input>:%d:%d", pos.Line, pos.Col)
		if opts.Color {
			loc = posColor.Sprint(loc)
		}
		fmt.Fprintln(w, loc)

		writeCaretLine(w, idx, d.Primary)

		for _, l := range d.Labels {
			lpos := idx.ToLineCol(l.Span.Start)
			fmt.Fprintf(w, "  = label: %d:%d %s\n", lpos.Line, lpos.Col, l.Msg)
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  note: %s\n", n)
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				title := "  fix: " + f.Title
				if opts.Color {
					title = hintColor.Sprint(title)
				}
				fmt.Fprintln(w, title)
			}
		}
	}
}

// writeCaretLine prints the offending source line and underlines the
// span with ^~~~. Display width is resolved with runewidth so wide
// runes line up.
func writeCaretLine(w io.Writer, idx *source.LineIndex, sp source.Span) {
	pos := idx.ToLineCol(sp.Start)
	line := idx.Line(pos.Line)
	if line == "" && pos.Col > 1 {
		return
	}
	fmt.Fprintf(w, "   | %s\n", line)

	prefix := line
	if int(pos.Col-1) <= len(line) {
		prefix = line[:pos.Col-1]
	}
	pad := runewidth.StringWidth(prefix)

	// ширина подчёркивания: покрытая Span'ом часть строки, минимум 1
	spanLen := int(sp.Len())
	covered := spanLen
	if rest := len(line) - len(prefix); covered > rest {
		covered = rest
	}
	width := 1
	if covered > 0 && int(pos.Col-1)+covered <= len(line) {
		width = runewidth.StringWidth(line[pos.Col-1 : int(pos.Col-1)+covered])
	}
	if width < 1 {
		width = 1
	}

	fmt.Fprintf(w, "   | %s^%s\n", strings.Repeat(" ", pad), strings.Repeat("~", width-1))
}
