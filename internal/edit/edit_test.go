package edit_test

import (
	"errors"
	"testing"

	"formula/internal/edit"
	"formula/internal/source"
)

func span(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}

func TestApplyEmptyBatchIdentity(t *testing.T) {
	res, err := edit.Apply("sum(1, 2)", nil, 4)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "sum(1, 2)" || res.Cursor != 4 {
		t.Fatalf("empty batch must be identity, got %q cursor %d", res.Source, res.Cursor)
	}
}

func TestApplyDescendingOrder(t *testing.T) {
	// Two edits; applying in ascending order would corrupt offsets.
	res, err := edit.Apply("abcdef", []edit.TextEdit{
		{Span: span(1, 2), NewText: "BB"},
		{Span: span(4, 5), NewText: ""},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "aBBcdf" {
		t.Fatalf("source = %q", res.Source)
	}
}

func TestApplyCursorRules(t *testing.T) {
	cases := []struct {
		name   string
		cursor uint32
		want   uint32
	}{
		{"before edit unchanged", 1, 1},
		{"inside edit clamps to new end", 3, 6},
		{"after edit shifts by delta", 6, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// replace [2,5) "cde" with "XXXX" (delta +1)
			res, err := edit.Apply("abcdefg", []edit.TextEdit{
				{Span: span(2, 5), NewText: "XXXX"},
			}, tc.cursor)
			if err != nil {
				t.Fatal(err)
			}
			if res.Cursor != tc.want {
				t.Fatalf("cursor = %d, want %d", res.Cursor, tc.want)
			}
		})
	}
}

func TestApplyCursorInsideClampsToNewEnd(t *testing.T) {
	// deletion: cursor inside the removed range lands at its new end,
	// which equals the edit start.
	res, err := edit.Apply("abcdefg", []edit.TextEdit{
		{Span: span(2, 5), NewText: ""},
	}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2", res.Cursor)
	}
}

func TestApplyRejectsOverlap(t *testing.T) {
	_, err := edit.Apply("abcdef", []edit.TextEdit{
		{Span: span(1, 4), NewText: "x"},
		{Span: span(3, 5), NewText: "y"},
	}, 0)
	if !errors.Is(err, edit.ErrOverlappingEdits) {
		t.Fatalf("err = %v, want ErrOverlappingEdits", err)
	}
}

func TestApplyRejectsOutOfBounds(t *testing.T) {
	_, err := edit.Apply("abc", []edit.TextEdit{
		{Span: span(1, 9), NewText: "x"},
	}, 0)
	if !errors.Is(err, edit.ErrInvalidEditRange) {
		t.Fatalf("err = %v, want ErrInvalidEditRange", err)
	}
}

func TestApplyRejectsInvalidCursor(t *testing.T) {
	_, err := edit.Apply("abc", nil, 10)
	if !errors.Is(err, edit.ErrInvalidCursor) {
		t.Fatalf("err = %v, want ErrInvalidCursor", err)
	}

	// Cursor in the middle of a multibyte rune is a contract violation.
	_, err = edit.Apply("Имя", nil, 1)
	if !errors.Is(err, edit.ErrInvalidCursor) {
		t.Fatalf("err = %v, want ErrInvalidCursor", err)
	}
}

func TestApplyRejectsSplitRune(t *testing.T) {
	_, err := edit.Apply("Имя", []edit.TextEdit{
		{Span: span(1, 2), NewText: "x"},
	}, 0)
	if !errors.Is(err, edit.ErrInvalidEditRange) {
		t.Fatalf("err = %v, want ErrInvalidEditRange", err)
	}
}

func TestApplyWholeDocument(t *testing.T) {
	src := "1+2"
	res, err := edit.Apply(src, []edit.TextEdit{
		{Span: span(0, uint32(len(src))), NewText: "1 + 2"},
	}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "1 + 2" {
		t.Fatalf("source = %q", res.Source)
	}
	if res.Cursor != 5 {
		t.Fatalf("cursor = %d, want 5", res.Cursor)
	}
}
