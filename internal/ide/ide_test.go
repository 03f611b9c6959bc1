package ide_test

import (
	"strings"
	"testing"

	"formula/internal/ide"
	"formula/internal/source"
	"formula/internal/types"
)

func helpAt(src string, cursor int, props []types.Property) ide.Output {
	return ide.Help(src, cursor, types.NewContext(props), ide.DefaultConfig())
}

func labels(items []ide.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func hasLabel(items []ide.Item, label string) bool {
	for _, item := range items {
		if item.Label == label {
			return true
		}
	}
	return false
}

func renderSegments(segs []ide.Segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.Kind == ide.SegParam {
			b.WriteString(seg.Name)
			b.WriteString(": ")
			b.WriteString(seg.Ty)
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}

func TestHelpEmptyDocument(t *testing.T) {
	out := helpAt("", 0, nil)
	if out.Replace != source.EmptyAt(0) {
		t.Fatalf("replace = %v", out.Replace)
	}
	for _, want := range []string{"not", "true", "false", "contains()", "sum()"} {
		if !hasLabel(out.Items, want) {
			t.Fatalf("missing %q in %v", want, labels(out.Items[:10]))
		}
	}
	if out.Signature != nil {
		t.Fatalf("unexpected signature help")
	}

	// Any non-zero cursor in an empty document offers nothing.
	out = helpAt("", 3, nil)
	if len(out.Items) != 0 {
		t.Fatalf("items = %v", labels(out.Items))
	}
}

func TestHelpAfterAtomOffersOperators(t *testing.T) {
	out := helpAt("1 ", 2, nil)
	wantOps := []string{"==", "!=", ">=", ">", "<=", "<", "+", "-", "*", "/"}
	for i, op := range wantOps {
		if out.Items[i].Label != op {
			t.Fatalf("item %d = %q, want %q", i, out.Items[i].Label, op)
		}
	}
	// Postfix methods come with the dot in the insert text.
	for _, item := range out.Items[len(wantOps):] {
		if !strings.HasPrefix(item.Label, ".") || !strings.HasPrefix(item.InsertText, ".") {
			t.Fatalf("postfix item = %+v", item)
		}
	}
	if out.Replace != source.EmptyAt(2) {
		t.Fatalf("replace = %v", out.Replace)
	}
}

func TestHelpIdentPrefixRanksAndReplaces(t *testing.T) {
	out := helpAt("conta", 5, nil)
	want := source.Span{Start: 0, End: 5}
	if out.Replace != want {
		t.Fatalf("replace = %v, want %v", out.Replace, want)
	}
	if out.Items[0].Label != "contains()" {
		t.Fatalf("top item = %q", out.Items[0].Label)
	}
	if len(out.PreferredIndices) == 0 || out.PreferredIndices[0] != 0 {
		t.Fatalf("preferred = %v", out.PreferredIndices)
	}
	if edit := out.Items[0].PrimaryEdit; edit == nil || edit.Range != want || edit.NewText != "contains()" {
		t.Fatalf("primary edit = %+v", edit)
	}
	// Cursor lands between the inserted parens.
	if cur := out.Items[0].Cursor; cur == nil || *cur != 9 {
		t.Fatalf("cursor = %v", cur)
	}
}

func TestHelpPreferredLimit(t *testing.T) {
	out := helpAt("m", 1, nil)
	if len(out.PreferredIndices) > ide.DefaultPreferredLimit {
		t.Fatalf("preferred = %v", out.PreferredIndices)
	}

	cfg := ide.Config{PreferredLimit: 0}
	out = ide.Help("m", 1, types.NewContext(nil), cfg)
	if len(out.PreferredIndices) != 0 {
		t.Fatalf("preferred with limit 0 = %v", out.PreferredIndices)
	}
}

func TestHelpInsideStringLiteral(t *testing.T) {
	out := helpAt(`"ab"`, 2, nil)
	if len(out.Items) != 0 {
		t.Fatalf("items = %v", labels(out.Items))
	}
}

func TestHelpPropertyItems(t *testing.T) {
	props := []types.Property{
		{Name: "Price", Ty: types.Number},
		{Name: "Old", Ty: types.String, DisabledReason: "renamed"},
	}
	out := helpAt("", 0, props)

	if out.Items[0].Label != "Price" || out.Items[0].InsertText != `prop("Price")` {
		t.Fatalf("first item = %+v", out.Items[0])
	}
	if out.Items[1].Label != "Old" || !out.Items[1].Disabled || out.Items[1].DisabledReason != "renamed" {
		t.Fatalf("disabled item = %+v", out.Items[1])
	}
	if out.Items[1].PrimaryEdit != nil || out.Items[1].Cursor != nil {
		t.Fatalf("disabled item got an edit: %+v", out.Items[1])
	}
}

func TestHelpAfterDotFiltersByReceiverType(t *testing.T) {
	out := helpAt(`"x".co`, 6, nil)
	want := source.Span{Start: 4, End: 6}
	if out.Replace != want {
		t.Fatalf("replace = %v, want %v", out.Replace, want)
	}
	if len(out.Items) == 0 || out.Items[0].Label != ".contains()" {
		t.Fatalf("items = %v", labels(out.Items))
	}
	// The dot already exists in the source.
	if out.Items[0].InsertText != "contains()" {
		t.Fatalf("insert = %q", out.Items[0].InsertText)
	}

	// A number receiver must not offer string methods.
	out = helpAt("1.co", 4, nil)
	if hasLabel(out.Items, ".contains()") {
		t.Fatalf("number receiver offered .contains(): %v", labels(out.Items))
	}
}

func TestHelpAfterDotUnknownReceiverKeepsAll(t *testing.T) {
	out := helpAt("someIdent.", 10, nil)
	if !hasLabel(out.Items, ".contains()") || !hasLabel(out.Items, ".replace()") {
		t.Fatalf("items = %v", labels(out.Items))
	}
}

func TestHelpAfterDotSkipsSingleParamMethods(t *testing.T) {
	// Postfix sugar needs at least one slot left for the parenthesized
	// args, so single-parameter signatures never show up after a dot.
	out := helpAt("someIdent.", 10, nil)
	if hasLabel(out.Items, ".lower()") || hasLabel(out.Items, ".abs()") {
		t.Fatalf("single-param method offered: %v", labels(out.Items))
	}
}

func TestSignatureHelpFixedCall(t *testing.T) {
	out := helpAt("round(1, ", 9, nil)
	if out.Signature == nil {
		t.Fatal("no signature help")
	}
	got := renderSegments(out.Signature.Signatures[0].Segments)
	want := "round(value: number, places: number?) -> number"
	if got != want {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	if out.Signature.ActiveParameter != 1 {
		t.Fatalf("active = %d", out.Signature.ActiveParameter)
	}
}

func TestSignatureHelpIfsTailSlot(t *testing.T) {
	src := `ifs(true, "42", )`
	out := helpAt(src, 16, nil)
	if out.Signature == nil {
		t.Fatal("no signature help")
	}
	got := renderSegments(out.Signature.Signatures[0].Segments)
	want := "ifs(condition1: boolean, value1: string, ..., default: string) -> string"
	if got != want {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	// The default tail slot, counting the ellipsis position.
	if out.Signature.ActiveParameter != 3 {
		t.Fatalf("active = %d, want 3", out.Signature.ActiveParameter)
	}
}

func TestSignatureHelpRepeatCycleClamped(t *testing.T) {
	// Third condition/value pair: display stays at two groups and the
	// highlight stays inside the second.
	src := "ifs(true, 1, false, 2, true, "
	out := helpAt(src, len(src), nil)
	if out.Signature == nil {
		t.Fatal("no signature help")
	}
	segs := out.Signature.Signatures[0].Segments
	var params []string
	for _, seg := range segs {
		if seg.Kind == ide.SegParam {
			params = append(params, seg.Name)
		}
	}
	want := []string{"condition1", "value1", "condition2", "value2", "default"}
	if len(params) != len(want) {
		t.Fatalf("params = %v", params)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Fatalf("params = %v, want %v", params, want)
		}
	}
	// Cursor on the 6th argument (a value in the third cycle): clamps
	// to the second displayed value slot.
	if out.Signature.ActiveParameter != 3 {
		t.Fatalf("active = %d, want 3", out.Signature.ActiveParameter)
	}
}

func TestSignatureHelpMethodStyle(t *testing.T) {
	out := helpAt(`"a".contains(`, 13, nil)
	if out.Signature == nil {
		t.Fatal("no signature help")
	}
	got := renderSegments(out.Signature.Signatures[0].Segments)
	want := "(text: string).contains(search: string) -> boolean"
	if got != want {
		t.Fatalf("segments = %q, want %q", got, want)
	}
	if out.Signature.ActiveParameter != 0 {
		t.Fatalf("active = %d", out.Signature.ActiveParameter)
	}
}

func TestSignatureHelpNestedCall(t *testing.T) {
	out := helpAt("if(sum(1, 2), ", 14, nil)
	if out.Signature == nil {
		t.Fatal("no signature help")
	}
	segs := out.Signature.Signatures[0].Segments
	if segs[0].Kind != ide.SegName || segs[0].Text != "if" {
		t.Fatalf("callee segment = %+v", segs[0])
	}
	if out.Signature.ActiveParameter != 1 {
		t.Fatalf("active = %d", out.Signature.ActiveParameter)
	}
}

func TestSignatureHelpBeforeParenHidden(t *testing.T) {
	out := helpAt("round(1)", 5, nil)
	if out.Signature != nil {
		t.Fatalf("signature shown left of '(': %+v", out.Signature)
	}
}

func TestTypeDirectedRanking(t *testing.T) {
	props := []types.Property{
		{Name: "Number", Ty: types.Number},
		{Name: "Label", Ty: types.String},
	}
	out := helpAt("sum(1, ", 7, props)
	if len(out.Items) == 0 || out.Items[0].Label != "Number" {
		t.Fatalf("top item = %v", labels(out.Items[:5]))
	}
	// The string-typed property sinks below the matching one.
	var numberIdx, labelIdx int
	for i, item := range out.Items {
		switch item.Label {
		case "Number":
			numberIdx = i
		case "Label":
			labelIdx = i
		}
	}
	if numberIdx > labelIdx {
		t.Fatalf("Number at %d, Label at %d", numberIdx, labelIdx)
	}
}

func TestHelpNilContext(t *testing.T) {
	out := ide.Help("", 0, nil, ide.DefaultConfig())
	got := labels(out.Items)
	want := []string{"not", "true", "false"}
	if len(got) != len(want) {
		t.Fatalf("items = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("items = %v, want %v", got, want)
		}
	}
}
