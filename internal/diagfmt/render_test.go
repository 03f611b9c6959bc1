package diagfmt_test

import (
	"strings"
	"testing"

	"formula/internal/diag"
	"formula/internal/diagfmt"
	"formula/internal/source"
)

func TestRenderFormat(t *testing.T) {
	src := "sum(1, 2"
	bag := diag.NewBag()
	bag.Add(diag.NewError(diag.SynUnclosedDelimiter, source.EmptyAt(8),
		"expected ')', found end of input").
		WithLabel(source.Span{Start: 3, End: 4}, "this '(' is not closed").
		WithNote("insert ')'"))

	var b strings.Builder
	if err := diagfmt.Render(&b, src, bag.Finalize()); err != nil {
		t.Fatal(err)
	}

	want := "error: expected ')', found end of input\n" +
		"  --> <input>:1:9 [8..8]\n" +
		"  = label: 1:4 [3..4] this '(' is not closed\n" +
		"  note: insert ')'\n"
	if b.String() != want {
		t.Fatalf("Render =\n%q\nwant\n%q", b.String(), want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := "a @ b @ c"
	render := func() string {
		bag := diag.NewBag()
		bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{Start: 6, End: 7}, "unexpected char '@'"))
		bag.Add(diag.NewError(diag.LexUnknownChar, source.Span{Start: 2, End: 3}, "unexpected char '@'"))
		var b strings.Builder
		if err := diagfmt.Render(&b, src, bag.Finalize()); err != nil {
			t.Fatal(err)
		}
		return b.String()
	}
	first, second := render(), render()
	if first != second {
		t.Fatal("render output must be byte-for-byte reproducible")
	}
	if strings.Index(first, "[2..3]") > strings.Index(first, "[6..7]") {
		t.Fatalf("diagnostics out of order:\n%s", first)
	}
}

func TestRenderLabelOrder(t *testing.T) {
	bag := diag.NewBag()
	bag.Add(diag.NewError(diag.SynUnclosedDelimiter, source.EmptyAt(9), "expected ')'").
		WithLabel(source.Span{Start: 5, End: 6}, "zz").
		WithLabel(source.Span{Start: 1, End: 2}, "aa"))

	var b strings.Builder
	if err := diagfmt.Render(&b, "(((((((((", bag.Finalize()); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if strings.Index(out, "aa") > strings.Index(out, "zz") {
		t.Fatalf("labels must sort by span:\n%s", out)
	}
}
