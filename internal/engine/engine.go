// Package engine is the public face of the formula frontend: one call
// per editor operation, byte offsets everywhere. Malformed formula text
// is never a Go error, it comes back as diagnostics; errors are
// reserved for host-contract violations such as invalid cursors or
// formatting a source that still has diagnostics.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/diagfmt"
	"formula/internal/edit"
	"formula/internal/format"
	"formula/internal/ide"
	"formula/internal/lexer"
	"formula/internal/parser"
	"formula/internal/sema"
	"formula/internal/source"
	"formula/internal/token"
	"formula/internal/types"
)

// ErrSourceHasDiagnostics is returned by Format when the source does
// not lex and parse cleanly.
var ErrSourceHasDiagnostics = errors.New("source has diagnostics")

// ErrInvalidCursor mirrors the edit package's cursor contract for Help.
var ErrInvalidCursor = edit.ErrInvalidCursor

// ParseResult carries everything the frontend derives from raw text.
type ParseResult struct {
	Tokens []token.Token
	Expr   ast.Expr
	Diags  []diag.Diagnostic
}

// LexAndParse tokenizes and parses src. The tree is always complete;
// malformed regions surface as Bad nodes plus diagnostics.
func LexAndParse(src string) ParseResult {
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	expr := parser.New(src, tokens, reporter).ParseExpr()
	return ParseResult{Tokens: tokens, Expr: expr, Diags: bag.Finalize()}
}

// AnalyzeResult extends ParseResult with inference output.
type AnalyzeResult struct {
	ParseResult
	Ty    types.Ty
	Types *sema.TypeMap
}

// Analyze runs the full pipeline: lex, parse, infer, validate. The
// returned diagnostics are deterministic for identical inputs.
func Analyze(src string, ctx *types.Context) AnalyzeResult {
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	expr := parser.New(src, tokens, reporter).ParseExpr()
	ty, typeMap := sema.Analyze(expr, ctx, reporter)
	return AnalyzeResult{
		ParseResult: ParseResult{Tokens: tokens, Expr: expr, Diags: bag.Finalize()},
		Ty:          ty,
		Types:       typeMap,
	}
}

// FormatEdit renders the canonical formatting of src as a single edit
// covering the whole document, so callers can rebase cursors through
// the regular edit machinery.
func FormatEdit(src string) (edit.TextEdit, error) {
	res := LexAndParse(src)
	if len(res.Diags) > 0 {
		return edit.TextEdit{}, fmt.Errorf("%w: %d diagnostic(s)", ErrSourceHasDiagnostics, len(res.Diags))
	}
	text := format.FormatExpr(src, res.Tokens, res.Expr)
	end, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return edit.TextEdit{}, fmt.Errorf("source too large: %w", err)
	}
	return edit.TextEdit{Span: source.Span{Start: 0, End: end}, NewText: text}, nil
}

// Format returns the canonical text for a clean source.
func Format(src string) (string, error) {
	te, err := FormatEdit(src)
	if err != nil {
		return "", err
	}
	res, err := edit.Apply(src, []edit.TextEdit{te}, 0)
	if err != nil {
		return "", err
	}
	return res.Source, nil
}

// ApplyEdits applies a batch of text edits and rebases the cursor.
func ApplyEdits(src string, edits []edit.TextEdit, cursor uint32) (edit.Result, error) {
	return edit.Apply(src, edits, cursor)
}

// Help computes completion and signature help at a byte cursor. The
// cursor must lie on a character boundary inside [0, len(src)].
func Help(src string, cursor int, ctx *types.Context, config ide.Config) (ide.Output, error) {
	if cursor < 0 || cursor > len(src) {
		return ide.Output{}, fmt.Errorf("%w: %d", ErrInvalidCursor, cursor)
	}
	if cursor < len(src) && !utf8.RuneStart(src[cursor]) {
		return ide.Output{}, fmt.Errorf("%w: %d is inside a rune", ErrInvalidCursor, cursor)
	}
	return ide.Help(src, cursor, ctx, config), nil
}

// RenderDiagnostics renders diagnostics the way the CLI prints them.
func RenderDiagnostics(src string, diags []diag.Diagnostic) string {
	var buf bytes.Buffer
	if err := diagfmt.Render(&buf, src, diags); err != nil {
		return ""
	}
	return buf.String()
}
