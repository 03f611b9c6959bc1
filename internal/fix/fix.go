// Package fix selects and applies fix-its carried by diagnostics to a
// single document. Selection is deterministic: candidates are ordered
// by span, then diagnostic code, then title, so repeated runs over the
// same input produce the same text.
package fix

import (
	"errors"
	"sort"

	"formula/internal/diag"
	"formula/internal/edit"
	"formula/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Mode determines the selection strategy for fixes.
type Mode uint8

const (
	// ModeOnce applies only the first candidate in selection order.
	ModeOnce Mode = iota
	// ModeAll applies every candidate that does not conflict with an
	// already applied one.
	ModeAll
)

// Options configures how fixes are selected.
type Options struct {
	Mode Mode
}

// Applied records a successfully applied fix.
type Applied struct {
	Title     string
	Message   string
	EditCount int
}

// Skipped captures a skipped or failed fix with a reason.
type Skipped struct {
	Title  string
	Reason string
}

// Result aggregates the rewritten text plus per-fix outcomes.
type Result struct {
	Text    string
	Applied []Applied
	Skipped []Skipped
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from the diagnostics, selects a subset per opts
// and applies them to src. Later fixes are rebased over earlier ones;
// a fix whose edits overlap an already applied fix is skipped.
func Apply(src string, diags []diag.Diagnostic, opts Options) (*Result, error) {
	result := &Result{Text: src}

	candidates := gatherCandidates(diags, result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)
	if opts.Mode == ModeOnce {
		candidates = candidates[:1]
	}

	var appliedEdits []edit.TextEdit // original coordinates, sorted by start
	for _, cand := range candidates {
		edits := edit.FromFix(cand.fix)
		if conflictsWithExisting(appliedEdits, edits) {
			result.Skipped = append(result.Skipped, Skipped{
				Title:  cand.fix.Title,
				Reason: "conflicts with a previously applied fix",
			})
			continue
		}

		shifted := make([]edit.TextEdit, len(edits))
		for i, e := range edits {
			shifted[i] = edit.TextEdit{
				Span:    rebaseSpan(appliedEdits, e.Span),
				NewText: e.NewText,
			}
		}
		next, err := edit.Apply(result.Text, shifted, 0)
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{
				Title:  cand.fix.Title,
				Reason: err.Error(),
			})
			continue
		}
		result.Text = next.Source
		for _, e := range edits {
			appliedEdits = insertEditSorted(appliedEdits, e)
		}
		result.Applied = append(result.Applied, Applied{
			Title:     cand.fix.Title,
			Message:   cand.diag.Message,
			EditCount: len(edits),
		})
	}

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func gatherCandidates(diags []diag.Diagnostic, result *Result) []candidate {
	var cands []candidate
	order := 0
	for _, d := range diags {
		for _, f := range d.Fixes {
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, Skipped{
					Title:  f.Title,
					Reason: "fix has no edits",
				})
				continue
			}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands
}

func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func conflictsWithExisting(existing, edits []edit.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict treats spans as half-open intervals. Two insertions at
// the same offset never conflict; an insertion inside a replaced range
// does.
func spansConflict(a, b edit.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// rebaseSpan shifts a span from original coordinates into the current
// text by the cumulative length delta of every applied edit before it.
func rebaseSpan(applied []edit.TextEdit, sp source.Span) source.Span {
	return source.Span{
		Start: shiftOffset(applied, sp.Start),
		End:   shiftOffset(applied, sp.End),
	}
}

func shiftOffset(applied []edit.TextEdit, off uint32) uint32 {
	delta := 0
	for _, e := range applied {
		if e.Span.Start > off {
			break
		}
		if e.Span.End <= off {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return uint32(int(off) + delta)
}

func insertEditSorted(edits []edit.TextEdit, e edit.TextEdit) []edit.TextEdit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == e.Span.Start {
			return edits[i].Span.End >= e.Span.End
		}
		return edits[i].Span.Start > e.Span.Start
	})
	edits = append(edits, edit.TextEdit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = e
	return edits
}
