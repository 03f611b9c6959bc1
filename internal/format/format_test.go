package format_test

import (
	"strings"
	"testing"

	"formula/internal/diag"
	"formula/internal/format"
	"formula/internal/lexer"
	"formula/internal/parser"
)

func formatSource(t *testing.T, src string) string {
	t.Helper()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	expr := parser.New(src, tokens, reporter).ParseExpr()
	if bag.HasErrors() {
		t.Fatalf("source %q has diagnostics, formatting is undefined", src)
	}
	return format.FormatExpr(src, tokens, expr)
}

func TestFormatInline(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"binary spacing", "1+2", "1 + 2\n"},
		{"call args", "sum( 1,2 )", "sum(1, 2)\n"},
		{"nested call", "round( sum(1,2),0 )", "round(sum(1, 2), 0)\n"},
		{"not keeps space", "not  true", "not true\n"},
		{"negation tight", "-1 + 2", "-1 + 2\n"},
		{"group", "( 1 )", "(1)\n"},
		{"list", "[1,2 ,3]", "[1, 2, 3]\n"},
		{"ternary", "1>2?3:4", "1 > 2 ? 3 : 4\n"},
		{"member call", `"a".contains("b")`, "\"a\".contains(\"b\")\n"},
		{"string requoted", `  "hi"`, "\"hi\"\n"},
		{"empty call", "pi( )", "pi()\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSource(t, tt.src)
			if got != tt.want {
				t.Errorf("format(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestFormatMultilineCallBreaks(t *testing.T) {
	got := formatSource(t, "sum(1,\n2)")
	want := "sum(\n  1,\n  2\n)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatMultilineBinaryJoins(t *testing.T) {
	// A single-line left operand is glued to the right operand's first
	// line, so a line break after the operator collapses.
	got := formatSource(t, "1 +\n2")
	want := "1 + 2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatWidthWrapsLongCall(t *testing.T) {
	long := strings.Repeat("a", 45)
	src := `contains("` + long + `", "` + long + `")`
	got := formatSource(t, src)
	want := "contains(\n  \"" + long + "\",\n  \"" + long + "\"\n)\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatLeadingComment(t *testing.T) {
	got := formatSource(t, "// note\n1+2")
	want := "// note\n1 + 2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatTrailingComment(t *testing.T) {
	got := formatSource(t, "1 + 2 // yes")
	want := "1 + 2 // yes\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatInlineBlockComment(t *testing.T) {
	got := formatSource(t, "/* check */ 1 + 2")
	want := "/* check */ 1 + 2\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatIdempotent(t *testing.T) {
	sources := []string{
		"1+2",
		"sum(1,\n2)",
		"// note\nnot true",
		`if(contains("a","b"), 1, 2)`,
	}
	for _, src := range sources {
		once := formatSource(t, src)
		twice := formatSource(t, once)
		if once != twice {
			t.Errorf("formatting %q is not idempotent: %q then %q", src, once, twice)
		}
	}
}

func TestFormatEndsWithSingleNewline(t *testing.T) {
	got := formatSource(t, "1 + 2\n\n")
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Errorf("want exactly one trailing newline, got %q", got)
	}
}
