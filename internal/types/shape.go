package types

import "fmt"

// ParamSig is a single parameter slot in a function signature.
type ParamSig struct {
	Name     string
	Ty       Ty
	Optional bool
}

// ParamShape describes a signature's parameter layout: a fixed head,
// an optional repeating group and a fixed tail. The shape makes arity
// validation and signature-help presentation deterministic; a repeat
// shape always assumes at least one repeat group.
type ParamShape struct {
	Head   []ParamSig
	Repeat []ParamSig
	Tail   []ParamSig
}

// NewParamShape constructs a shape and enforces the determinism
// invariants. It panics when:
//   - a repeat param is marked optional;
//   - repeat is non-empty and any tail param is optional;
//   - tail has a required param after an optional one.
func NewParamShape(head, repeat, tail []ParamSig) ParamShape {
	for _, p := range repeat {
		if p.Optional {
			panic(fmt.Sprintf("types: repeat params must not be optional (found %q)", p.Name))
		}
	}
	if len(repeat) > 0 {
		for _, p := range tail {
			if p.Optional {
				panic(fmt.Sprintf("types: repeat shapes require a fully required tail (found optional %q)", p.Name))
			}
		}
	}
	seenOptional := false
	for _, p := range tail {
		if seenOptional && !p.Optional {
			panic(fmt.Sprintf("types: tail optionality must be suffix-only (required %q after optional)", p.Name))
		}
		if p.Optional {
			seenOptional = true
		}
	}
	return ParamShape{Head: head, Repeat: repeat, Tail: tail}
}

// CompletedShape is a repeat shape resolved against an argument count,
// with the count bumped up to the next valid total when needed.
type CompletedShape struct {
	// Total is the arg count the shape was resolved for; it may exceed
	// the requested count.
	Total int
	// TailUsed is how many trailing args belong to the tail.
	TailUsed int
	// TailStart is the index of the first tail arg, so tail args are
	// [TailStart, Total).
	TailStart int
	// RepeatGroups is how many repeat groups the middle holds.
	RepeatGroups int
}

// ResolveRepeatTailUsed splits total args into head + N*repeat + tail
// and returns how many args land in the tail.
//
// Without a repeat group the whole tail is always in play. With one,
// the middle must hold at least one full group and a whole number of
// groups; if several splits fit, the largest tail wins.
func (s ParamShape) ResolveRepeatTailUsed(total int) (int, bool) {
	return s.resolveTailUsed(total, 1)
}

func (s ParamShape) resolveTailUsed(total, minGroups int) (int, bool) {
	if len(s.Repeat) == 0 {
		return len(s.Tail), true
	}

	headLen := len(s.Head)
	if total < headLen {
		return 0, false
	}

	repeatLen := len(s.Repeat)
	tailMin := requiredTailPrefixLen(s.Tail)
	minMiddle := repeatLen * minGroups

	for tailUsed := len(s.Tail); tailUsed >= tailMin; tailUsed-- {
		if total < headLen+tailUsed {
			continue
		}
		middle := total - headLen - tailUsed
		if middle >= minMiddle && middle%repeatLen == 0 {
			return tailUsed, true
		}
	}
	return 0, false
}

// CompleteRepeatShape returns a parseable repeat shape for total args,
// raising the total to the smallest valid count when it does not fit
// (ties prefer the larger tail). Returns false for shapes without a
// repeat group.
func (s ParamShape) CompleteRepeatShape(total int) (CompletedShape, bool) {
	if len(s.Repeat) == 0 {
		return CompletedShape{}, false
	}

	headLen := len(s.Head)
	repeatLen := len(s.Repeat)

	// Уже парсится — оставляем total как есть.
	if tailUsed, ok := s.resolveTailUsed(total, 1); ok {
		middle := total - headLen - tailUsed
		return CompletedShape{
			Total:        total,
			TailUsed:     tailUsed,
			TailStart:    total - tailUsed,
			RepeatGroups: middle / repeatLen,
		}, true
	}

	tailMin := requiredTailPrefixLen(s.Tail)
	minMiddle := repeatLen

	bestTotal, bestTail := -1, -1
	for tailUsed := tailMin; tailUsed <= len(s.Tail); tailUsed++ {
		minTotal := headLen + tailUsed + minMiddle
		base := total
		if base < minTotal {
			base = minTotal
		}
		middle := ceilToMultiple(base-headLen-tailUsed, repeatLen)
		completed := headLen + tailUsed + middle

		if bestTotal < 0 || completed < bestTotal || (completed == bestTotal && tailUsed > bestTail) {
			bestTotal, bestTail = completed, tailUsed
		}
	}
	if bestTotal < 0 {
		return CompletedShape{}, false
	}

	middle := bestTotal - headLen - bestTail
	return CompletedShape{
		Total:        bestTotal,
		TailUsed:     bestTail,
		TailStart:    bestTotal - bestTail,
		RepeatGroups: middle / repeatLen,
	}, true
}

// requiredTailPrefixLen is the index just past the last required tail
// param: everything before it must be present.
func requiredTailPrefixLen(tail []ParamSig) int {
	required := 0
	for idx, p := range tail {
		if !p.Optional {
			required = idx + 1
		}
	}
	return required
}

func ceilToMultiple(n, m int) int {
	if m == 0 || n == 0 {
		return n
	}
	if rem := n % m; rem != 0 {
		return n + (m - rem)
	}
	return n
}
