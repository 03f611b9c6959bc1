package ide

import (
	"strings"

	"formula/internal/source"
	"formula/internal/token"
	"formula/internal/types"
)

// positionKind is the coarse completion position, derived from nearby
// non-trivia tokens. All cursors are UTF-8 byte offsets.
type positionKind uint8

const (
	posNeedExpr positionKind = iota
	posAfterAtom
	posAfterDot
	posNone
)

// detectPositionKind classifies the cursor position using token
// neighbors only; member-access mode is structural, never guessed from
// text matching.
func detectPositionKind(tokens []token.Token, cursor uint32, ctx *types.Context) positionKind {
	if _, ok := postfixMemberAccessDotIndex(tokens, cursor); ok {
		return posAfterDot
	}
	if isStrictlyInsideIdent(tokens, cursor) {
		return posNeedExpr
	}
	if hasExtendingIdentPrefix(tokens, cursor, ctx) {
		return posNeedExpr
	}

	prev, havePrev := prevNonTriviaInsertion(tokens, cursor)
	if !havePrev || !isAtomKind(tokens[prev].Kind) {
		// Anything that may start an expression, including the empty
		// document, completes as an expression start.
		return posNeedExpr
	}
	return posAfterAtom
}

func isAtomKind(k token.Kind) bool {
	switch k {
	case token.Ident, token.NumberLit, token.StringLit, token.BoolLit, token.RParen:
		return true
	}
	return false
}

func dotHasReceiverAtom(tokens []token.Token, dotIdx int) bool {
	prev, ok := prevNonTriviaBefore(tokens, dotIdx)
	return ok && isAtomKind(tokens[prev].Kind)
}

// postfixMemberAccessDotIndex returns the dot token index when the
// cursor sits in member-access completion position: a receiver atom,
// a dot, and optionally a partial method identifier.
func postfixMemberAccessDotIndex(tokens []token.Token, cursor uint32) (int, bool) {
	if idx, ok := tokenContainingCursor(tokens, cursor); ok && tokens[idx].Kind == token.Ident {
		if dotIdx, dotOK := prevNonTriviaBefore(tokens, idx); dotOK &&
			tokens[dotIdx].Kind == token.Dot && dotHasReceiverAtom(tokens, dotIdx) {
			return dotIdx, true
		}
	}

	prevIdx, ok := prevNonTriviaInsertion(tokens, cursor)
	if !ok {
		return 0, false
	}
	switch tokens[prevIdx].Kind {
	case token.Dot:
		if dotHasReceiverAtom(tokens, prevIdx) {
			return prevIdx, true
		}
	case token.Ident:
		if dotIdx, dotOK := prevNonTriviaBefore(tokens, prevIdx); dotOK &&
			tokens[dotIdx].Kind == token.Dot && dotHasReceiverAtom(tokens, dotIdx) {
			return dotIdx, true
		}
	}
	return 0, false
}

func isStrictlyInsideIdent(tokens []token.Token, cursor uint32) bool {
	idx, ok := tokenContainingCursor(tokens, cursor)
	if !ok {
		return false
	}
	t := tokens[idx]
	identLike := t.Kind == token.Ident || t.Kind == token.KwNot || t.Kind == token.BoolLit
	return identLike && t.Span.Start < cursor && cursor < t.Span.End
}

func cursorStrictlyInsideStringLiteral(tokens []token.Token, cursor uint32) bool {
	idx, ok := tokenContainingCursor(tokens, cursor)
	if !ok {
		return false
	}
	t := tokens[idx]
	return t.Kind == token.StringLit && t.Span.Start < cursor && cursor < t.Span.End
}

// hasExtendingIdentPrefix reports whether the identifier ending right
// at the cursor is a proper prefix of some candidate label, so the
// replace span should extend over it.
func hasExtendingIdentPrefix(tokens []token.Token, cursor uint32, ctx *types.Context) bool {
	idx, ok := prevNonTriviaInsertion(tokens, cursor)
	if !ok {
		return false
	}
	t := tokens[idx]
	if t.Span.End != cursor || t.Kind != token.Ident {
		return false
	}
	return hasExtendingCompletionPrefix(t.Text, ctx)
}

func hasExtendingCompletionPrefix(prefix string, ctx *types.Context) bool {
	if prefix == "" {
		return false
	}
	lower := strings.ToLower(prefix)

	for _, kw := range [...]string{"true", "false", "not"} {
		if strings.HasPrefix(kw, lower) && lower != kw {
			return true
		}
	}
	if ctx == nil {
		return false
	}
	for i := range ctx.Functions {
		name := ctx.Functions[i].Name
		if strings.HasPrefix(strings.ToLower(name), lower) && name != lower {
			return true
		}
	}
	for _, prop := range ctx.Properties {
		if strings.HasPrefix(strings.ToLower(prop.Name), lower) && prop.Name != lower {
			return true
		}
	}
	return false
}

// prevNonTriviaInsertion treats cursor == token start as "before the
// token", so completion right before ')' behaves like insertion.
func prevNonTriviaInsertion(tokens []token.Token, cursor uint32) (int, bool) {
	if idx, ok := tokenContainingCursor(tokens, cursor); ok &&
		!tokens[idx].IsTrivia() && tokens[idx].Span.Start < cursor {
		return idx, true
	}

	best, found := 0, false
	for idx, t := range tokens {
		if t.IsTrivia() || t.Kind == token.EOF {
			continue
		}
		if t.Span.End <= cursor {
			best, found = idx, true
		} else {
			break
		}
	}
	return best, found
}

// prevNonTriviaBefore finds the previous non-trivia token before the
// token index (not a byte offset).
func prevNonTriviaBefore(tokens []token.Token, idx int) (int, bool) {
	for i := idx - 1; i >= 0; i-- {
		if tokens[i].IsTrivia() || tokens[i].Kind == token.EOF {
			continue
		}
		return i, true
	}
	return 0, false
}

func tokenContainingCursor(tokens []token.Token, cursor uint32) (int, bool) {
	for idx, t := range tokens {
		if t.Kind == token.EOF {
			continue
		}
		if t.Span.Start <= cursor && cursor < t.Span.End {
			return idx, true
		}
	}
	return 0, false
}

// replaceSpanForExprStart chooses the replace span for expression
// completion: the whole identifier when the cursor is inside it or
// extends it, otherwise an empty insertion span at the cursor.
func replaceSpanForExprStart(tokens []token.Token, cursor uint32) source.Span {
	if idx, ok := tokenContainingCursor(tokens, cursor); ok && tokens[idx].Kind == token.Ident {
		if cursor == tokens[idx].Span.Start {
			return source.EmptyAt(cursor)
		}
		return tokens[idx].Span
	}
	if idx, ok := prevNonTriviaInsertion(tokens, cursor); ok &&
		tokens[idx].Kind == token.Ident && tokens[idx].Span.End == cursor {
		return tokens[idx].Span
	}
	return source.EmptyAt(cursor)
}
