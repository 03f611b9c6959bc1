// Package diagfmt renders finalized diagnostics to text. Render emits
// the deterministic plain format consumed by hosts and golden tests;
// Pretty adds source context, carets, and optional color for humans.
package diagfmt

import (
	"fmt"
	"io"
	"sort"

	"formula/internal/diag"
	"formula/internal/source"
)

// Render writes the deterministic plain-text form of the diagnostics.
// The caller passes the result of Bag.Finalize; the output follows that
// order byte for byte:
//
//	error: {message}
//	  --> <input>:{line}:{col} [{start}..{end}]
//	  = label: {line}:{col} [{start}..{end}] {message}
//	  note: {note}
func Render(w io.Writer, src string, diags []diag.Diagnostic) error {
	idx := source.NewLineIndex(src)

	for _, d := range diags {
		labels := make([]diag.Label, len(d.Labels))
		copy(labels, d.Labels)
		sort.SliceStable(labels, func(i, j int) bool {
			if labels[i].Span.Start != labels[j].Span.Start {
				return labels[i].Span.Start < labels[j].Span.Start
			}
			if labels[i].Span.End != labels[j].Span.End {
				return labels[i].Span.End < labels[j].Span.End
			}
			return labels[i].Msg < labels[j].Msg
		})

		pos := idx.ToLineCol(d.Primary.Start)
		if _, err := fmt.Fprintf(w, "%s: %s\n", d.Severity, d.Message); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  --> <input>:%d:%d [%d..%d]\n",
			pos.Line, pos.Col, d.Primary.Start, d.Primary.End); err != nil {
			return err
		}
		for _, l := range labels {
			lpos := idx.ToLineCol(l.Span.Start)
			if _, err := fmt.Fprintf(w, "  = label: %d:%d [%d..%d] %s\n",
				lpos.Line, lpos.Col, l.Span.Start, l.Span.End, l.Msg); err != nil {
				return err
			}
		}
		for _, n := range d.Notes {
			if _, err := fmt.Fprintf(w, "  note: %s\n", n); err != nil {
				return err
			}
		}
	}
	return nil
}
