package fix_test

import (
	"testing"

	"formula/internal/diag"
	"formula/internal/fix"
	"formula/internal/lexer"
	"formula/internal/parser"
	"formula/internal/source"
)

func parseDiags(src string) []diag.Diagnostic {
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	parser.New(src, tokens, reporter).ParseExpr()
	return bag.Finalize()
}

func TestApplyClosesUnclosedCall(t *testing.T) {
	src := "sum(1"
	diags := parseDiags(src)
	if len(diags) == 0 {
		t.Fatal("expected an unclosed delimiter diagnostic")
	}

	res, err := fix.Apply(src, diags, fix.Options{Mode: fix.ModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) == 0 {
		t.Fatal("expected at least one applied fix")
	}
	if rest := parseDiags(res.Text); len(rest) != 0 {
		t.Errorf("fixed text %q still has %d diagnostic(s)", res.Text, len(rest))
	}
}

func TestApplyNoFixes(t *testing.T) {
	if _, err := fix.Apply("1 + 2", nil, fix.Options{}); err != fix.ErrNoFixes {
		t.Errorf("err = %v, want ErrNoFixes", err)
	}
}

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestApplySkipsConflictingFix(t *testing.T) {
	src := "abcdef"
	diags := []diag.Diagnostic{
		diag.NewError(diag.UnknownCode, sp(0, 3), "first").
			WithFix("replace head", diag.FixEdit{Span: sp(0, 3), NewText: "x"}),
		diag.NewError(diag.UnknownCode, sp(2, 5), "second").
			WithFix("replace middle", diag.FixEdit{Span: sp(2, 5), NewText: "y"}),
	}

	res, err := fix.Apply(src, diags, fix.Options{Mode: fix.ModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Text != "xdef" {
		t.Errorf("Text = %q, want %q", res.Text, "xdef")
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied %d, skipped %d; want 1 and 1", len(res.Applied), len(res.Skipped))
	}
	if res.Skipped[0].Reason != "conflicts with a previously applied fix" {
		t.Errorf("skip reason = %q", res.Skipped[0].Reason)
	}
}

func TestApplyRebasesLaterFixes(t *testing.T) {
	src := "ab"
	diags := []diag.Diagnostic{
		diag.NewError(diag.UnknownCode, sp(0, 1), "first").
			WithFix("widen a", diag.FixEdit{Span: sp(0, 1), NewText: "aaa"}),
		diag.NewError(diag.UnknownCode, sp(1, 2), "second").
			WithFix("widen b", diag.FixEdit{Span: sp(1, 2), NewText: "bbb"}),
	}

	res, err := fix.Apply(src, diags, fix.Options{Mode: fix.ModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Text != "aaabbb" {
		t.Errorf("Text = %q, want %q", res.Text, "aaabbb")
	}
}

func TestApplyModeOnce(t *testing.T) {
	src := "ab"
	diags := []diag.Diagnostic{
		diag.NewError(diag.UnknownCode, sp(0, 1), "first").
			WithFix("widen a", diag.FixEdit{Span: sp(0, 1), NewText: "aaa"}),
		diag.NewError(diag.UnknownCode, sp(1, 2), "second").
			WithFix("widen b", diag.FixEdit{Span: sp(1, 2), NewText: "bbb"}),
	}

	res, err := fix.Apply(src, diags, fix.Options{Mode: fix.ModeOnce})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Text != "aaab" {
		t.Errorf("Text = %q, want %q", res.Text, "aaab")
	}
	if len(res.Applied) != 1 {
		t.Errorf("applied %d fixes, want 1", len(res.Applied))
	}
}
