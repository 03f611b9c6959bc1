package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formula/internal/edit"
	"formula/internal/engine"
	"formula/internal/ide"
	"formula/internal/source"
	"formula/internal/types"
)

func TestLexAndParseCleanSource(t *testing.T) {
	res := engine.LexAndParse(`contains("abc", "b")`)
	require.Empty(t, res.Diags)
	require.NotNil(t, res.Expr)
	require.NotEmpty(t, res.Tokens)
}

func TestLexAndParseAlwaysReturnsTree(t *testing.T) {
	res := engine.LexAndParse("1 +")
	require.NotEmpty(t, res.Diags, "dangling operator must produce diagnostics")
	require.NotNil(t, res.Expr, "recovery must still produce a tree")
}

func TestAnalyzeReportsTypeErrors(t *testing.T) {
	ctx := types.NewContext([]types.Property{
		{Name: "Price", Ty: types.Number},
	})

	res := engine.Analyze(`prop("Price") + 1`, ctx)
	require.Empty(t, res.Diags)
	assert.Equal(t, types.Number, res.Ty)

	res = engine.Analyze(`contains(1, "b")`, ctx)
	require.NotEmpty(t, res.Diags)
	assert.Contains(t, res.Diags[0].Message, "argument type mismatch")
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	ctx := types.NewContext(nil)
	src := `if(1, unknownName, 2 + "x")`

	first := engine.Analyze(src, ctx)
	second := engine.Analyze(src, ctx)

	require.Equal(t, first.Diags, second.Diags)
	require.Equal(t,
		engine.RenderDiagnostics(src, first.Diags),
		engine.RenderDiagnostics(src, second.Diags),
	)
}

func TestFormatNormalizesCleanSource(t *testing.T) {
	ctx := []struct {
		in   string
		want string
	}{
		{"1+2", "1 + 2\n"},
		{"sum( 1,2 )", "sum(1, 2)\n"},
		{"not  true", "not true\n"},
	}
	for _, tc := range ctx {
		got, err := engine.Format(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestFormatRejectsDirtySource(t *testing.T) {
	_, err := engine.Format("1 +")
	require.ErrorIs(t, err, engine.ErrSourceHasDiagnostics)
}

func TestFormatEditCoversWholeDocument(t *testing.T) {
	src := "sum( 1,2 )"
	te, err := engine.FormatEdit(src)
	require.NoError(t, err)
	assert.Equal(t, source.Span{Start: 0, End: uint32(len(src))}, te.Span)
	assert.Equal(t, "sum(1, 2)\n", te.NewText)
}

func TestApplyEditsRebasesCursor(t *testing.T) {
	res, err := engine.ApplyEdits("sum(1)", []edit.TextEdit{
		{Span: source.Span{Start: 4, End: 5}, NewText: "42"},
	}, 6)
	require.NoError(t, err)
	assert.Equal(t, "sum(42)", res.Source)
	assert.Equal(t, uint32(7), res.Cursor)
}

func TestApplyEditsRejectsBadBatch(t *testing.T) {
	_, err := engine.ApplyEdits("abc", []edit.TextEdit{
		{Span: source.Span{Start: 0, End: 100}},
	}, 0)
	require.ErrorIs(t, err, edit.ErrInvalidEditRange)

	_, err = engine.ApplyEdits("abcd", []edit.TextEdit{
		{Span: source.Span{Start: 0, End: 2}},
		{Span: source.Span{Start: 1, End: 3}},
	}, 0)
	require.ErrorIs(t, err, edit.ErrOverlappingEdits)
}

func TestHelpValidatesCursor(t *testing.T) {
	_, err := engine.Help("1 + 2", -1, nil, ide.Config{})
	require.ErrorIs(t, err, engine.ErrInvalidCursor)

	_, err = engine.Help("1 + 2", 6, nil, ide.Config{})
	require.ErrorIs(t, err, engine.ErrInvalidCursor)

	// Cursor inside a multi-byte rune.
	_, err = engine.Help("\"é\"", 2, nil, ide.Config{})
	require.ErrorIs(t, err, engine.ErrInvalidCursor)
}

func TestHelpDelegates(t *testing.T) {
	out, err := engine.Help("", 0, nil, ide.Config{PreferredLimit: ide.DefaultPreferredLimit})
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, "not", out.Items[0].Label)
}

func TestRenderDiagnosticsPlainFormat(t *testing.T) {
	src := "1 +"
	res := engine.LexAndParse(src)
	require.NotEmpty(t, res.Diags)

	text := engine.RenderDiagnostics(src, res.Diags)
	assert.True(t, strings.HasPrefix(text, "error: "), "got %q", text)
	assert.Contains(t, text, "--> <input>:1:")
}
