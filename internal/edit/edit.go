// Package edit owns the text-edit application primitive shared by
// formatting, fix-its, and completion-apply: deterministic batch
// application of byte-offset edits with cursor rebasing.
package edit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"

	"formula/internal/diag"
	"formula/internal/source"
)

// TextEdit replaces the half-open byte range Span with NewText.
type TextEdit struct {
	Span    source.Span
	NewText string
}

// Host-contract violations. Malformed input text is never an error,
// only malformed caller usage is.
var (
	ErrInvalidCursor    = errors.New("invalid cursor")
	ErrInvalidEditRange = errors.New("invalid edit range")
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// Result is the outcome of applying a batch of edits.
type Result struct {
	Source string
	Cursor uint32
}

// Apply validates and applies a batch of edits, rebasing cursor through
// them. The batch is rejected wholesale when any range is out of bounds,
// off a UTF-8 boundary, or overlaps another edit. Edits are sorted by
// (start, end) and applied from the highest start downward so earlier
// offsets stay valid during application.
//
// Cursor rules, checked against each edit in original coordinates:
//   - the cursor precedes the edit: unchanged;
//   - the cursor is strictly inside the replaced range: clamped to the
//     end of the inserted text;
//   - the cursor is at or past the replaced range's end: shifted by the
//     edit's length delta.
func Apply(src string, edits []TextEdit, cursor uint32) (Result, error) {
	if err := validateCursor(src, cursor); err != nil {
		return Result{}, err
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})

	if err := validateSorted(src, sorted); err != nil {
		return Result{}, err
	}

	updated := src
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		start, end := e.Span.Start, e.Span.End

		insertedLen, err := safecast.Conv[uint32](len(e.NewText))
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidEditRange, err)
		}
		replacedLen := end - start

		switch {
		case end <= cursor:
			cursor = cursor + insertedLen - replacedLen
		case start < cursor && cursor < end:
			cursor = start + insertedLen
		}

		var b strings.Builder
		b.Grow(len(updated) - int(replacedLen) + len(e.NewText))
		b.WriteString(updated[:start])
		b.WriteString(e.NewText)
		b.WriteString(updated[end:])
		updated = b.String()
	}

	return Result{Source: updated, Cursor: cursor}, nil
}

// FromFix converts a diagnostic fix action into an applicable batch.
func FromFix(f diag.Fix) []TextEdit {
	edits := make([]TextEdit, 0, len(f.Edits))
	for _, e := range f.Edits {
		edits = append(edits, TextEdit{Span: e.Span, NewText: e.NewText})
	}
	return edits
}

func validateCursor(src string, cursor uint32) error {
	if int(cursor) > len(src) || !isCharBoundary(src, cursor) {
		return ErrInvalidCursor
	}
	return nil
}

func validateSorted(src string, edits []TextEdit) error {
	srcLen, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEditRange, err)
	}

	var prevEnd uint32
	for i, e := range edits {
		if e.Span.End < e.Span.Start || e.Span.End > srcLen {
			return ErrInvalidEditRange
		}
		if !isCharBoundary(src, e.Span.Start) || !isCharBoundary(src, e.Span.End) {
			return ErrInvalidEditRange
		}
		if i > 0 && e.Span.Start < prevEnd {
			return ErrOverlappingEdits
		}
		prevEnd = e.Span.End
	}
	return nil
}

func isCharBoundary(src string, off uint32) bool {
	if int(off) >= len(src) {
		return int(off) == len(src)
	}
	return utf8.RuneStart(src[off])
}
