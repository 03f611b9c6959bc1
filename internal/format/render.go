package format

import "strings"

const (
	indentWidth = 2
	maxWidth    = 80
)

type line struct {
	indent int
	text   string
}

// rendered is a block of output lines with per-line indent levels;
// final indentation is applied once at render time.
type rendered struct {
	lines []line
}

func single(indent int, text string) rendered {
	return rendered{lines: []line{{indent: indent, text: text}}}
}

func (r *rendered) pushLine(indent int, text string) {
	r.lines = append(r.lines, line{indent: indent, text: text})
}

func (r *rendered) append(other rendered) {
	r.lines = append(r.lines, other.lines...)
}

// appendTrailing glues text onto the last line, e.g. a trailing
// comment after an argument.
func (r *rendered) appendTrailing(text string) {
	if len(r.lines) == 0 {
		r.pushLine(0, text)
		return
	}
	last := &r.lines[len(r.lines)-1]
	if last.text != "" {
		last.text += " "
	}
	last.text += text
}

func (r rendered) render() string {
	var b strings.Builder
	for i, ln := range r.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for n := 0; n < ln.indent*indentWidth; n++ {
			b.WriteByte(' ')
		}
		b.WriteString(ln.text)
	}
	return b.String()
}

func fitsOnLine(indent, textLen int) bool {
	return indent*indentWidth+textLen <= maxWidth
}
