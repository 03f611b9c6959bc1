package ide

import "strings"

// fuzzyScore captures the quality of a greedy left-to-right
// subsequence match, with every field participating in deterministic
// ordering. The greedy position choice is part of the contract: two
// runs over the same inputs always produce the same score.
type fuzzyScore struct {
	isPrefix bool
	gapSum   int
	maxRun   int
	firstPos int
	labelLen int
}

// computeFuzzyScore matches query as a subsequence of label, taking
// the leftmost position for each query character. Both inputs are
// expected pre-normalized.
func computeFuzzyScore(query, label string) (fuzzyScore, bool) {
	queryChars := []rune(strings.ToLower(query))
	labelChars := []rune(strings.ToLower(label))
	if len(queryChars) == 0 || len(labelChars) == 0 {
		return fuzzyScore{}, false
	}

	positions := make([]int, 0, len(queryChars))
	j := 0
	for _, qc := range queryChars {
		for j < len(labelChars) && labelChars[j] != qc {
			j++
		}
		if j == len(labelChars) {
			return fuzzyScore{}, false
		}
		positions = append(positions, j)
		j++
	}

	score := fuzzyScore{
		firstPos: positions[0],
		labelLen: len(labelChars),
		maxRun:   1,
	}
	run := 1
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			run++
			if run > score.maxRun {
				score.maxRun = run
			}
		} else {
			run = 1
			score.gapSum += positions[i] - positions[i-1] - 1
		}
	}
	score.isPrefix = strings.HasPrefix(string(labelChars), string(queryChars))
	return score, true
}

// compareFuzzy orders scores best-first: prefix matches win, then
// smaller gaps, longer runs, earlier first position, shorter label.
func compareFuzzy(a, b fuzzyScore) int {
	if a.isPrefix != b.isPrefix {
		if a.isPrefix {
			return -1
		}
		return 1
	}
	if a.gapSum != b.gapSum {
		return a.gapSum - b.gapSum
	}
	if a.maxRun != b.maxRun {
		return b.maxRun - a.maxRun
	}
	if a.firstPos != b.firstPos {
		return a.firstPos - b.firstPos
	}
	return a.labelLen - b.labelLen
}

// normalizeForMatch lowercases and strips underscores; queries and
// labels go through the same normalization before any comparison.
func normalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
