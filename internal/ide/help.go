// Package ide computes editor-facing data for a source text and a
// byte cursor: completion candidates with ready-to-apply edits,
// signature help with structured display segments, and the preferred
// default selection. All coordinates are UTF-8 byte offsets; spans are
// half-open [start, end).
package ide

import (
	"fortio.org/safecast"

	"formula/internal/diag"
	"formula/internal/lexer"
	"formula/internal/source"
	"formula/internal/token"
	"formula/internal/types"
)

// DefaultPreferredLimit bounds Output.PreferredIndices unless the
// caller overrides it.
const DefaultPreferredLimit = 5

// Config carries the ranking knobs for Help.
type Config struct {
	// PreferredLimit is the maximum length of PreferredIndices;
	// 0 disables the preferred selection entirely.
	PreferredLimit int
}

// DefaultConfig returns the standard ranking configuration.
func DefaultConfig() Config {
	return Config{PreferredLimit: DefaultPreferredLimit}
}

// ItemKind is the high-level bucket for UI grouping.
type ItemKind uint8

const (
	KindFunction ItemKind = iota
	KindBuiltin
	KindProperty
	KindOperator
)

// DataKind tags the extra metadata carried by an item.
type DataKind uint8

const (
	DataFunction DataKind = iota
	DataPropExpr
	DataPostfixMethod
)

// ItemData is extra metadata used for cursor placement and
// type-directed ranking.
type ItemData struct {
	Kind DataKind
	// Name is the function, property, or method name the item refers to.
	Name string
}

// TextEdit is a single completion edit in byte offsets.
type TextEdit struct {
	Range   source.Span
	NewText string
}

// Item is one completion candidate. When Cursor is set it is the
// desired byte offset in the updated document after applying the
// primary edit.
type Item struct {
	Label           string
	Kind            ItemKind
	Category        types.FunctionCategory
	InsertText      string
	PrimaryEdit     *TextEdit
	Cursor          *uint32
	AdditionalEdits []TextEdit
	Detail          string
	Disabled        bool
	DisabledReason  string
	Data            *ItemData
}

// SignatureHelp describes the call signature at the cursor.
// ActiveParameter is the display slot index into the signature's
// parameter list; SegParam segments carry the same indices.
type SignatureHelp struct {
	Signatures      []SignatureItem
	ActiveSignature int
	ActiveParameter int
}

// SignatureItem is a single signature rendering.
type SignatureItem struct {
	Segments []Segment
}

// Output is the result of one Help query.
type Output struct {
	Items     []Item
	Replace   source.Span
	Signature *SignatureHelp
	// PreferredIndices lists indices into Items for the UI default
	// selection, best first.
	PreferredIndices []int
}

// Help computes completion items and signature help at a byte cursor.
// The context may be nil; candidates then reduce to the keyword set.
func Help(text string, cursor int, ctx *types.Context, config Config) Output {
	cursorU32, err := safecast.Conv[uint32](cursor)
	if err != nil {
		cursorU32 = ^uint32(0)
	}
	tokens := lexer.Lex(text, diag.NopReporter{})

	if onlyEOF(tokens) {
		var items []Item
		if cursor == 0 {
			items = exprStartItems(ctx)
		}
		out := Output{Items: items, Replace: source.EmptyAt(cursorU32)}
		return finalizeOutput(text, out, config, posNeedExpr)
	}

	callCtx, haveCall := detectCallContext(tokens, cursorU32)
	var sigHelp *SignatureHelp
	if haveCall {
		sigHelp = signatureHelpInCall(text, tokens, cursorU32, ctx, &callCtx)
	}

	kind := posNone
	if !cursorStrictlyInsideStringLiteral(tokens, cursorU32) {
		kind = detectPositionKind(tokens, cursorU32, ctx)
	}

	out := completeForPosition(text, kind, ctx, tokens, cursorU32, callCtx, haveCall)
	out.Signature = sigHelp
	return finalizeOutput(text, out, config, kind)
}

func onlyEOF(tokens []token.Token) bool {
	for _, t := range tokens {
		if t.Kind != token.EOF {
			return false
		}
	}
	return true
}

func completeForPosition(text string, kind positionKind, ctx *types.Context, tokens []token.Token, cursor uint32, callCtx CallContext, haveCall bool) Output {
	switch kind {
	case posNeedExpr:
		items := exprStartItems(ctx)
		if expected, ok := expectedCallArgTy(callCtx, haveCall, ctx); ok {
			applyTypeRanking(&items, expected, ctx)
		}
		return Output{Items: items, Replace: replaceSpanForExprStart(tokens, cursor)}

	case posAfterAtom:
		return Output{Items: afterAtomItems(ctx), Replace: source.EmptyAt(cursor)}

	case posAfterDot:
		receiverTy := inferDotReceiverTy(text, tokens, cursor, ctx)
		return Output{
			Items:   afterDotItems(ctx, receiverTy),
			Replace: replaceSpanForExprStart(tokens, cursor),
		}

	default:
		return Output{Replace: source.EmptyAt(cursor)}
	}
}
