package sema_test

import (
	"strings"
	"testing"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/lexer"
	"formula/internal/parser"
	"formula/internal/sema"
	"formula/internal/types"
)

func parse(t *testing.T, src string) ast.Expr {
	t.Helper()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	expr := parser.New(src, tokens, reporter).ParseExpr()
	if bag.HasErrors() {
		t.Fatalf("parse %q produced diagnostics: %v", src, bag.Items())
	}
	return expr
}

func analyze(t *testing.T, src string, props []types.Property) (types.Ty, []diag.Diagnostic) {
	t.Helper()
	expr := parse(t, src)
	bag := diag.NewBag()
	ty, _ := sema.Analyze(expr, types.NewContext(props), diag.BagReporter{Bag: bag})
	return ty, bag.Finalize()
}

func TestInferExpressions(t *testing.T) {
	cases := []struct {
		src  string
		want types.Ty
	}{
		{"1 + 2", types.Number},
		{"1 + \"x\"", types.Unknown},
		{"true && false", types.Boolean},
		{"!true", types.Boolean},
		{"-5", types.Number},
		{"-\"x\"", types.Unknown},
		{"1 < 2", types.Boolean},
		{"1 == 2", types.Boolean},
		{"1 == \"x\"", types.Unknown},
		{"true ? 1 : 2", types.Number},
		{"true ? 1 : \"x\"", types.Unknown},
		{"(1 + 2) * 3", types.Number},
		{"someIdent", types.Unknown},
		{"2 ^ 3 ^ 2", types.Number},
		{"lower(\"A\")", types.String},
		{"sum(1, 2, 3)", types.Number},
		{"unknownFn(1)", types.Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			ty, _ := analyze(t, tc.src, nil)
			if !ty.Equal(tc.want) {
				t.Fatalf("infer(%q) = %s, want %s", tc.src, ty, tc.want)
			}
		})
	}
}

func TestInferGenericIf(t *testing.T) {
	// Plain generic: both branches bind T0, result is their union.
	ty, diags := analyze(t, "if(true, 1, \"x\")", nil)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	want := types.UnionOf(types.Number, types.String)
	if !ty.Equal(want) {
		t.Fatalf("if type = %s, want %s", ty, want)
	}

	ty, _ = analyze(t, "if(true, 1, 2)", nil)
	if !ty.Equal(types.Number) {
		t.Fatalf("if type = %s, want Number", ty)
	}
}

func TestInferVariantGenericIfs(t *testing.T) {
	// Variant generic: an Unknown value poisons the result.
	ty, _ := analyze(t, "ifs(true, someIdent, 2)", nil)
	if !ty.IsUnknown() {
		t.Fatalf("ifs with unknown branch = %s, want Unknown", ty)
	}

	ty, _ = analyze(t, "ifs(true, 1, \"x\")", nil)
	want := types.UnionOf(types.Number, types.String)
	if !ty.Equal(want) {
		t.Fatalf("ifs type = %s, want %s", ty, want)
	}
}

func TestInferPropLookup(t *testing.T) {
	props := []types.Property{{Name: "Price", Ty: types.Number}}
	ty, diags := analyze(t, "prop(\"Price\") * 2", props)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if !ty.Equal(types.Number) {
		t.Fatalf("prop type = %s, want Number", ty)
	}
}

func TestValidateUnknownFunction(t *testing.T) {
	_, diags := analyze(t, "nope(1)", nil)
	if len(diags) != 1 || diags[0].Message != "unknown function: nope" {
		t.Fatalf("diags = %v", diags)
	}
}

func TestValidatePropCalls(t *testing.T) {
	props := []types.Property{{Name: "Price", Ty: types.Number}}
	cases := []struct {
		src  string
		want string
	}{
		{"prop(\"Price\", 1)", "prop() expects exactly 1 argument"},
		{"prop(42)", "prop() expects a string literal argument"},
		{"prop(\"Missing\")", "Unknown property: Missing"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			_, diags := analyze(t, tc.src, props)
			if len(diags) != 1 || diags[0].Message != tc.want {
				t.Fatalf("diags = %v, want %q", diags, tc.want)
			}
		})
	}
}

func TestValidateArityMessages(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"abs()", "abs() expects exactly 1 argument"},
		{"contains(\"a\")", "contains() expects exactly 2 arguments"},
		{"round()", "round() expects at least 1 argument"},
		{"round(1, 2, 3)", "round() expects at most 2 arguments"},
		{"ifs(true)", "ifs() expects at least 3 arguments"},
		{"ifs(true, 1, false, 2)", "ifs() has an invalid argument shape"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			_, diags := analyze(t, tc.src, nil)
			if len(diags) != 1 || diags[0].Message != tc.want {
				t.Fatalf("diags = %v, want %q", diags, tc.want)
			}
		})
	}
}

func TestValidateShapeErrorSuppressesArgErrors(t *testing.T) {
	// One bad shape diagnostic, no per-argument cascade even though the
	// args are also the wrong type.
	_, diags := analyze(t, "contains(1)", nil)
	if len(diags) != 1 {
		t.Fatalf("want single shape diagnostic, got %v", diags)
	}
	if !strings.Contains(diags[0].Message, "expects exactly 2 arguments") {
		t.Fatalf("message = %q", diags[0].Message)
	}
}

func TestValidateArgTypeMismatch(t *testing.T) {
	_, diags := analyze(t, "lower(1)", nil)
	if len(diags) != 1 {
		t.Fatalf("diags = %v", diags)
	}
	want := "argument type mismatch: expected String, got Number"
	if diags[0].Message != want {
		t.Fatalf("message = %q, want %q", diags[0].Message, want)
	}
}

func TestValidateSumMessage(t *testing.T) {
	_, diags := analyze(t, "sum(1, \"x\")", nil)
	if len(diags) != 1 || diags[0].Message != "sum() expects number arguments" {
		t.Fatalf("diags = %v", diags)
	}
	// The diagnostic points at the offending argument, not the call.
	if diags[0].Primary.Start != 7 {
		t.Fatalf("primary = %v, want start at the bad arg", diags[0].Primary)
	}
}

func TestValidateGenericParamsAcceptAnything(t *testing.T) {
	// Wildcard parameters are declared as generics, so calls with any
	// well-typed argument validate cleanly.
	cases := []string{
		"empty(1)",
		"empty(\"x\")",
		"format(\"x\")",
		"format([1, 2])",
		"toNumber(true)",
		"length([1, 2])",
		"length(\"abc\")",
		"equal(1, 2)",
		"equal(1, \"x\")",
		"includes([1, 2], 3)",
		"join([1, 2], \", \")",
		"id()",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, diags := analyze(t, src, nil)
			if len(diags) != 0 {
				t.Fatalf("diags = %v, want none", diags)
			}
		})
	}
}

func TestInferGenericListAccessors(t *testing.T) {
	cases := []struct {
		src  string
		want types.Ty
	}{
		{"first([1, 2])", types.Number},
		{"last([\"a\", \"b\"])", types.String},
		{"at([1, 2], 0)", types.Number},
		{"sort([1, 2])", types.ListOf(types.Number)},
		{"reverse([\"a\"])", types.ListOf(types.String)},
		{"unique([true, false])", types.ListOf(types.Boolean)},
		{"slice([1, 2, 3], 1)", types.ListOf(types.Number)},
		{"concat([1], [2])", types.ListOf(types.Number)},
		// Elements of mixed type bind the generic to their union.
		{"first([1, \"a\"])", types.UnionOf(types.Number, types.String)},
		// An unknown element keeps the list at list of unknown, and a
		// Plain generic skips the Unknown binding entirely.
		{"first([someIdent])", types.Unknown},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			ty, diags := analyze(t, tc.src, nil)
			if len(diags) != 0 {
				t.Fatalf("diags = %v, want none", diags)
			}
			if !ty.Equal(tc.want) {
				t.Fatalf("infer(%q) = %s, want %s", tc.src, ty, tc.want)
			}
		})
	}
}

func TestValidateMemberCallRewrite(t *testing.T) {
	// "x".contains(1): receiver becomes the first argument, so the
	// second param is checked against Number.
	_, diags := analyze(t, "\"x\".contains(1)", nil)
	if len(diags) != 1 {
		t.Fatalf("diags = %v", diags)
	}
	want := "argument type mismatch: expected String, got Number"
	if diags[0].Message != want {
		t.Fatalf("message = %q, want %q", diags[0].Message, want)
	}

	// Non-postfix-capable methods validate the pieces but never the
	// rewritten call.
	_, diags = analyze(t, "someIdent.abs()", nil)
	if len(diags) != 0 {
		t.Fatalf("diags = %v", diags)
	}
}

func TestInferMemberCall(t *testing.T) {
	ty, _ := analyze(t, "\"a\".contains(\"b\")", nil)
	if !ty.Equal(types.Boolean) {
		t.Fatalf("member call type = %s, want Boolean", ty)
	}

	// Repeat-shaped signatures have no flat params, so the postfix
	// rewrite never applies even though the name is postfix-capable.
	ty, _ = analyze(t, "true.ifs(1, 2)", nil)
	if !ty.IsUnknown() {
		t.Fatalf("non-flat member call type = %s, want Unknown", ty)
	}
}

func TestAnalyzeDeterminism(t *testing.T) {
	src := "ifs(contains(prop(\"A\"), 1), sum(1, \"x\"), bad(), 2)"
	props := []types.Property{{Name: "A", Ty: types.String}}
	expr := parse(t, src)

	run := func() []diag.Diagnostic {
		bag := diag.NewBag()
		sema.Analyze(expr, types.NewContext(props), diag.BagReporter{Bag: bag})
		return bag.Finalize()
	}
	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("diag count differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Message != second[i].Message || first[i].Primary != second[i].Primary {
			t.Fatalf("diag %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestInstantiateSig(t *testing.T) {
	ctx := types.NewContext(nil)
	sig, _ := ctx.Function("if")

	num := types.Number
	params, ret := sema.InstantiateSig(sig, []*types.Ty{nil, &num, nil})
	if !ret.Equal(types.Number) {
		t.Fatalf("ret = %s, want Number", ret)
	}
	if len(params) != 3 || !params[1].Equal(types.Number) || !params[2].Equal(types.Number) {
		t.Fatalf("params = %v", params)
	}

	// Nothing bound: generics fall back to Unknown.
	params, ret = sema.InstantiateSig(sig, []*types.Ty{nil, nil, nil})
	if !ret.IsUnknown() || !params[1].IsUnknown() {
		t.Fatalf("unbound instantiation = %v / %s", params, ret)
	}
}
