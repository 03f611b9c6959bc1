package diag

import (
	"formula/internal/source"
)

// Label attaches a secondary message to a span.
type Label struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement inside a fix action.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested repair: a title plus ordered edits.
type Fix struct {
	Title string
	Edits []FixEdit
}

// Diagnostic is one reported problem, anchored at a primary span.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Labels   []Label
	Notes    []string
	Fixes    []Fix
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithLabel(sp source.Span, msg string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, msg)
	return d
}

func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Edits: edits})
	return d
}

// Priority returns the deconfliction weight of the diagnostic's code.
func (d Diagnostic) Priority() int {
	return d.Code.Priority()
}
