package token

import (
	"sort"

	"formula/internal/source"
)

// InSpan returns the contiguous run of tokens overlapping span.
// Tokens are assumed sorted by span start, which the lexer guarantees.
// An empty query span behaves like an insertion point: it selects every
// token touching that offset, including zero-length tokens anchored
// exactly there (the EOF marker included).
func InSpan(tokens []Token, span source.Span) []Token {
	// нижняя граница: первый токен, который ещё не закончился до span.Start
	lo := sort.Search(len(tokens), func(i int) bool {
		if span.Empty() {
			return tokens[i].Span.End >= span.Start
		}
		return tokens[i].Span.End > span.Start
	})
	// верхняя граница: первый токен, начинающийся за span.End
	hi := sort.Search(len(tokens), func(i int) bool {
		if span.Empty() {
			return tokens[i].Span.Start > span.End
		}
		return tokens[i].Span.Start >= span.End
	})
	if lo > hi {
		return nil
	}
	return tokens[lo:hi]
}
