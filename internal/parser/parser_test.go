package parser_test

import (
	"testing"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/lexer"
	"formula/internal/parser"
)

func parseExpr(t *testing.T, src string) (ast.Expr, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	expr := parser.New(src, tokens, reporter).ParseExpr()
	if expr == nil {
		t.Fatal("parser must always produce a tree")
	}
	return expr, bag
}

func mustClean(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, bag := parseExpr(t, src)
	if bag.Len() != 0 {
		t.Fatalf("%q: unexpected diagnostics: %v", src, bag.Items())
	}
	return expr
}

func TestParsePrecedence(t *testing.T) {
	// a + b * c parses as a + (b * c)
	expr := mustClean(t, "a + b * c")
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.BinPlus {
		t.Fatalf("root = %#v, want '+'", expr)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op != ast.BinStar {
		t.Fatalf("right = %#v, want '*'", bin.Right)
	}
}

func TestParseCaretRightAssociative(t *testing.T) {
	// 2 ^ 3 ^ 4 parses as 2 ^ (3 ^ 4)
	expr := mustClean(t, "2 ^ 3 ^ 4")
	bin := expr.(*ast.Binary)
	if bin.Op != ast.BinCaret {
		t.Fatalf("root op = %v", bin.Op)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("power must be right-associative, right = %#v", bin.Right)
	}
	if _, ok := bin.Left.(*ast.Lit); !ok {
		t.Fatalf("left = %#v", bin.Left)
	}
}

func TestParseLeftAssociative(t *testing.T) {
	// 1 - 2 - 3 parses as (1 - 2) - 3
	expr := mustClean(t, "1 - 2 - 3")
	bin := expr.(*ast.Binary)
	if _, ok := bin.Left.(*ast.Binary); !ok {
		t.Fatalf("subtraction must be left-associative, left = %#v", bin.Left)
	}
}

func TestParseTernary(t *testing.T) {
	expr := mustClean(t, `a ? "yes" : "no"`)
	tern, ok := expr.(*ast.Ternary)
	if !ok {
		t.Fatalf("root = %#v", expr)
	}
	if _, ok := tern.Cond.(*ast.Ident); !ok {
		t.Fatalf("cond = %#v", tern.Cond)
	}
}

func TestParseGroupPreserved(t *testing.T) {
	expr := mustClean(t, "(1 + 2) * 3")
	bin := expr.(*ast.Binary)
	if _, ok := bin.Left.(*ast.Group); !ok {
		t.Fatalf("explicit parens must stay in the tree, left = %#v", bin.Left)
	}
}

func TestParseCallAndMemberCall(t *testing.T) {
	expr := mustClean(t, "sum(1, 2, 3)")
	call, ok := expr.(*ast.Call)
	if !ok || call.Name != "sum" || len(call.Args) != 3 {
		t.Fatalf("call = %#v", expr)
	}

	expr = mustClean(t, `prop("A").contains("x")`)
	mc, ok := expr.(*ast.MemberCall)
	if !ok || mc.Method != "contains" || len(mc.Args) != 1 {
		t.Fatalf("member call = %#v", expr)
	}
	if _, ok := mc.Receiver.(*ast.Call); !ok {
		t.Fatalf("receiver = %#v", mc.Receiver)
	}
}

func TestParseNotKeyword(t *testing.T) {
	expr := mustClean(t, "not empty(x)")
	un, ok := expr.(*ast.Unary)
	if !ok || un.Op != ast.UnaryNot {
		t.Fatalf("root = %#v", expr)
	}
}

func TestBareMemberAccessRejected(t *testing.T) {
	expr, bag := parseExpr(t, "a.b")
	if !ast.IsBad(expr) {
		t.Fatalf("bare member access must produce an error node, got %#v", expr)
	}
	if bag.Len() != 1 {
		t.Fatalf("want 1 diagnostic, got %v", bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != diag.SynBareMemberAccess {
		t.Fatalf("code = %v", d.Code)
	}
	if d.Message != "expected '(' after member name (member access is not supported yet)" {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestRedundantDotRecovered(t *testing.T) {
	expr, bag := parseExpr(t, "a..b(c)")
	mc, ok := expr.(*ast.MemberCall)
	if !ok || mc.Method != "b" {
		t.Fatalf("expr = %#v", expr)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynRedundantDot {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestTrailingCommaInList(t *testing.T) {
	expr, bag := parseExpr(t, "[1, 2,]")
	list, ok := expr.(*ast.List)
	if !ok || len(list.Elems) != 2 {
		t.Fatalf("expr = %#v", expr)
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynTrailingComma {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestCallTrailingCommaFillsPlaceholder(t *testing.T) {
	expr, bag := parseExpr(t, `ifs(true, "42", )`)
	call, ok := expr.(*ast.Call)
	if !ok {
		t.Fatalf("expr = %#v", expr)
	}
	if len(call.Args) != 3 {
		t.Fatalf("arity must stay stable: args = %d", len(call.Args))
	}
	if !ast.IsBad(call.Args[2]) {
		t.Fatalf("third slot must be a placeholder, got %#v", call.Args[2])
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynMissingExpr {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestMissingCommaRecovered(t *testing.T) {
	expr, bag := parseExpr(t, "max(1 2)")
	call := expr.(*ast.Call)
	if len(call.Args) != 2 {
		t.Fatalf("args = %d, want 2", len(call.Args))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynMissingComma {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	if len(bag.Items()[0].Fixes) != 1 {
		t.Fatalf("missing comma should carry an insert fix")
	}
}

func TestUnclosedParenFixIt(t *testing.T) {
	_, bag := parseExpr(t, "sum(1, 2")
	items := bag.Finalize()
	var found bool
	for _, d := range items {
		if d.Code == diag.SynUnclosedDelimiter {
			found = true
			if len(d.Fixes) == 0 || d.Fixes[0].Edits[0].NewText != ")" {
				t.Fatalf("unclosed delimiter must carry an insert fix, got %v", d.Fixes)
			}
			if len(d.Labels) == 0 {
				t.Fatal("unclosed delimiter should label the opener")
			}
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v", items)
	}
}

func TestMismatchedDelimiter(t *testing.T) {
	_, bag := parseExpr(t, "(1 + 2]")
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.SynMismatchedDelimiter {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestTernaryDoesNotEatCallParen(t *testing.T) {
	// Even with a malformed branch the call still closes.
	expr, bag := parseExpr(t, "f(a ? : c)")
	call, ok := expr.(*ast.Call)
	if !ok || call.Name != "f" {
		t.Fatalf("expr = %#v", expr)
	}
	if bag.Len() == 0 {
		t.Fatal("malformed ternary must be diagnosed")
	}
	for _, d := range bag.Items() {
		if d.Code == diag.SynUnclosedDelimiter {
			t.Fatalf("call paren was eaten by ternary recovery: %v", bag.Items())
		}
	}
}

func TestRecoveryTotality(t *testing.T) {
	// Parser returns a tree for arbitrarily broken input.
	sources := []string{
		"",
		")",
		"f(",
		"[,]",
		"a + ",
		"? :",
		"((((",
		"1 2 3",
		"a.b.c",
		`"unterminated`,
	}
	for _, src := range sources {
		expr, _ := parseExpr(t, src)
		if expr == nil {
			t.Errorf("%q: no tree", src)
		}
	}
}

func TestUnexpectedTokenAfterExpression(t *testing.T) {
	_, bag := parseExpr(t, "1 1")
	var found bool
	for _, d := range bag.Items() {
		if d.Code == diag.SynUnexpectedToken {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}

func TestTriviaSkippedByParser(t *testing.T) {
	expr := mustClean(t, "1 + // comment\n 2")
	bin, ok := expr.(*ast.Binary)
	if !ok || bin.Op != ast.BinPlus {
		t.Fatalf("expr = %#v", expr)
	}
}

func TestStringValueStripsQuotes(t *testing.T) {
	expr := mustClean(t, `"hello"`)
	lit := expr.(*ast.Lit)
	if lit.Kind != ast.LitString || lit.Value != "hello" {
		t.Fatalf("lit = %#v", lit)
	}
	if lit.Sp.Len() != 7 {
		t.Fatalf("span must cover the quotes: %v", lit.Sp)
	}
}

func TestCalleeMustBeIdent(t *testing.T) {
	expr, bag := parseExpr(t, "(f)(x)")
	if !ast.IsBad(expr) {
		t.Fatalf("non-identifier callee must fail, got %#v", expr)
	}
	var found bool
	for _, d := range bag.Items() {
		if d.Message == "expected call callee (identifier)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
}
