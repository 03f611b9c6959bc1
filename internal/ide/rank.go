package ide

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"formula/internal/source"
	"formula/internal/types"
)

func kindPriority(kind ItemKind) uint8 {
	switch kind {
	case KindFunction:
		return 0
	case KindBuiltin:
		return 1
	case KindProperty:
		return 2
	default:
		return 3
	}
}

// finalizeOutput attaches primary edits, ranks items against the query
// derived from the replace span and picks the preferred indices.
func finalizeOutput(text string, out Output, config Config, kind positionKind) Output {
	attachPrimaryEdits(out.Replace, out.Items)

	query, ok := completionQueryForReplace(text, out.Replace)
	if !ok {
		out.PreferredIndices = nil
		return out
	}

	if kind == posAfterDot {
		out.Items = fuzzyFilterAndRankPostfixItems(query, out.Items)
	} else {
		fuzzyRankItems(query, out.Items)
	}
	out.PreferredIndices = preferredIndices(out.Items, query, config.PreferredLimit)
	return out
}

// completionQueryForReplace extracts the ranking query from the text
// covered by the replace span. Non-identifier content disables ranking.
func completionQueryForReplace(text string, replace source.Span) (string, bool) {
	if replace.Start == replace.End {
		return "", false
	}
	start, end := int(min(replace.Start, replace.End)), int(max(replace.Start, replace.End))
	if end > len(text) {
		return "", false
	}
	raw := text[start:end]
	if !utf8.ValidString(raw) {
		return "", false
	}

	allSpace := true
	for _, r := range raw {
		if !unicode.IsSpace(r) {
			allSpace = false
		}
		ok := r == '_' || unicode.IsSpace(r) ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return "", false
		}
	}
	if allSpace {
		return "", false
	}

	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '_' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// attachPrimaryEdits stamps the shared replace range onto every
// enabled item and positions the post-apply cursor.
func attachPrimaryEdits(replace source.Span, items []Item) {
	for i := range items {
		item := &items[i]
		if item.Disabled {
			item.PrimaryEdit = nil
			item.Cursor = nil
			continue
		}

		item.PrimaryEdit = &TextEdit{Range: replace, NewText: item.InsertText}
		item.Cursor = nil
		if item.Data == nil {
			continue
		}
		switch item.Data.Kind {
		case DataFunction, DataPostfixMethod:
			// Курсор встаёт внутрь вставленных скобок.
			if idx := strings.IndexByte(item.InsertText, '('); idx >= 0 {
				cursor := replace.Start + uint32(idx) + 1
				item.Cursor = &cursor
			}
		case DataPropExpr:
			cursor := replace.Start + uint32(len(item.InsertText))
			item.Cursor = &cursor
		}
	}
}

const (
	matchExact uint8 = iota
	matchContains
	matchFuzzy
	matchNone
)

type matchClass struct {
	rank  uint8
	pos   int
	fuzzy fuzzyScore
}

func classifyLabel(queryNorm, labelNorm string) matchClass {
	if labelNorm == "" {
		return matchClass{rank: matchNone}
	}
	if labelNorm == queryNorm {
		return matchClass{rank: matchExact}
	}
	if pos := strings.Index(labelNorm, queryNorm); pos >= 0 {
		return matchClass{rank: matchContains, pos: pos}
	}
	if score, ok := computeFuzzyScore(queryNorm, labelNorm); ok {
		return matchClass{rank: matchFuzzy, fuzzy: score}
	}
	return matchClass{rank: matchNone}
}

type rankedItem struct {
	originalIdx  int
	labelNormLen int
	class        matchClass
	item         Item
}

func lessRanked(a, b rankedItem) bool {
	if a.class.rank != b.class.rank {
		return a.class.rank < b.class.rank
	}
	switch a.class.rank {
	case matchExact:
		if a.labelNormLen != b.labelNormLen {
			return a.labelNormLen < b.labelNormLen
		}
	case matchContains:
		if a.labelNormLen != b.labelNormLen {
			return a.labelNormLen < b.labelNormLen
		}
		if a.class.pos != b.class.pos {
			return a.class.pos < b.class.pos
		}
	case matchFuzzy:
		if c := compareFuzzy(a.class.fuzzy, b.class.fuzzy); c != 0 {
			return c < 0
		}
		if pa, pb := kindPriority(a.item.Kind), kindPriority(b.item.Kind); pa != pb {
			return pa < pb
		}
	}
	return a.originalIdx < b.originalIdx
}

// fuzzyRankItems reorders items in place by query match quality with
// deterministic tie-breaks. Only function and property labels rank;
// everything else keeps source order at the bottom.
func fuzzyRankItems(query string, items []Item) {
	queryNorm := normalizeForMatch(query)

	ranked := make([]rankedItem, len(items))
	for i, item := range items {
		labelNorm := normalizeForMatch(item.Label)
		class := matchClass{rank: matchNone}
		if item.Kind == KindFunction || item.Kind == KindProperty {
			class = classifyLabel(queryNorm, labelNorm)
		}
		ranked[i] = rankedItem{
			originalIdx:  i,
			labelNormLen: utf8.RuneCountInString(labelNorm),
			class:        class,
			item:         item,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool { return lessRanked(ranked[i], ranked[j]) })
	for i, r := range ranked {
		items[i] = r.item
	}
}

// fuzzyFilterAndRankPostfixItems drops non-matching postfix items and
// ranks the rest; the leading dot is ignored for matching.
func fuzzyFilterAndRankPostfixItems(query string, items []Item) []Item {
	queryNorm := normalizeForMatch(query)

	ranked := make([]rankedItem, 0, len(items))
	for i, item := range items {
		labelNorm := normalizeForMatch(strings.TrimPrefix(item.Label, "."))
		class := classifyLabel(queryNorm, labelNorm)
		if class.rank == matchNone {
			continue
		}
		ranked = append(ranked, rankedItem{
			originalIdx:  i,
			labelNormLen: utf8.RuneCountInString(labelNorm),
			class:        class,
			item:         item,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return lessRanked(ranked[i], ranked[j]) })
	out := make([]Item, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}

// preferredIndices lists up to limit enabled function/property items
// that match the query, best first.
func preferredIndices(items []Item, query string, limit int) []int {
	if limit <= 0 {
		return nil
	}
	queryNorm := normalizeForMatch(query)

	matches := func(item Item) bool {
		if item.Kind != KindFunction && item.Kind != KindProperty {
			return false
		}
		labelNorm := normalizeForMatch(item.Label)
		if labelNorm == queryNorm || strings.Contains(labelNorm, queryNorm) {
			return true
		}
		_, ok := computeFuzzyScore(queryNorm, labelNorm)
		return ok
	}

	var out []int
	for idx, item := range items {
		if len(out) >= limit {
			break
		}
		if item.Disabled {
			continue
		}
		if matches(item) {
			out = append(out, idx)
		}
	}
	return out
}

// applyTypeRanking groups items into kind buckets, scores each item by
// how well its result type fits the expected type, sorts inside each
// bucket and reorders whole buckets toward the best fit.
func applyTypeRanking(items *[]Item, expected types.Ty, ctx *types.Context) {
	if expected.IsUnknown() {
		return
	}

	kindIndex := func(kind ItemKind) int {
		switch kind {
		case KindBuiltin:
			return 0
		case KindProperty:
			return 1
		case KindFunction:
			return 2
		default:
			return 3
		}
	}
	sectionPriority := [4]uint8{0, 1, 2, 3}

	type scoredItem struct {
		originalIdx int
		score       int
		item        Item
	}

	var buckets [4][]scoredItem
	bestScore := [4]int{-1 << 31, -1 << 31, -1 << 31, -1 << 31}

	for idx, item := range *items {
		actual, haveActual := itemResultTy(item, ctx)
		score := typeMatchScore(expected, actual, haveActual)
		b := kindIndex(item.Kind)
		if score > bestScore[b] {
			bestScore[b] = score
		}
		buckets[b] = append(buckets[b], scoredItem{originalIdx: idx, score: score, item: item})
	}

	for b := range buckets {
		bucket := buckets[b]
		sort.SliceStable(bucket, func(i, j int) bool {
			a, c := bucket[i], bucket[j]
			if a.item.Disabled != c.item.Disabled {
				return !a.item.Disabled
			}
			if a.score != c.score {
				return a.score > c.score
			}
			return a.originalIdx < c.originalIdx
		})
	}

	var order []int
	for b := range buckets {
		if len(buckets[b]) > 0 {
			order = append(order, b)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, c := order[i], order[j]
		if bestScore[a] != bestScore[c] {
			return bestScore[a] > bestScore[c]
		}
		return sectionPriority[a] < sectionPriority[c]
	})

	out := (*items)[:0]
	for _, b := range order {
		for _, s := range buckets[b] {
			out = append(out, s.item)
		}
	}
	*items = out
}

// itemResultTy is the type an item's insertion would evaluate to, when
// statically known.
func itemResultTy(item Item, ctx *types.Context) (types.Ty, bool) {
	if item.Data != nil {
		if ctx == nil {
			return types.Ty{}, false
		}
		switch item.Data.Kind {
		case DataFunction:
			if sig, ok := ctx.Function(item.Data.Name); ok {
				return sig.Ret, true
			}
		case DataPropExpr:
			return ctx.Lookup(item.Data.Name)
		}
		return types.Ty{}, false
	}

	if item.Kind == KindBuiltin {
		switch item.Label {
		case "true", "false", "not":
			return types.Boolean, true
		}
	}
	return types.Ty{}, false
}

func typeMatchScore(expected types.Ty, actual types.Ty, haveActual bool) int {
	if expected.IsUnknown() {
		return 1
	}
	if !haveActual {
		return 0
	}
	if actual.IsUnknown() {
		return 0
	}
	if expected.Accepts(actual) {
		return 2
	}
	return -1
}
