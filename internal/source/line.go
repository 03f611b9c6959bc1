package source

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// LineCol is a human-readable position, 1-based on both axes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// LineIndex maps byte offsets to line/column pairs for one text.
// Построен один раз, дальше только бинарный поиск.
type LineIndex struct {
	text  string
	newls []uint32 // offsets of '\n'
}

// NewLineIndex scans text once and records newline offsets.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{text: text}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line index overflow: %w", err))
			}
			idx.newls = append(idx.newls, off)
		}
	}
	return idx
}

// Text returns the indexed text.
func (idx *LineIndex) Text() string {
	return idx.text
}

// ToLineCol converts a byte offset into a 1-based line/column pair.
// Column counts bytes from the line start; callers that need display
// width resolve it themselves.
func (idx *LineIndex) ToLineCol(offset uint32) LineCol {
	// нижняя граница: первый '\n' с offset >= искомого
	lo, hi := 0, len(idx.newls)
	for lo < hi {
		mid := (lo + hi) / 2
		if idx.newls[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := uint32(lo) + 1 //nolint:gosec // lo <= len(newls) < 2^32
	lineStart := uint32(0)
	if lo > 0 {
		lineStart = idx.newls[lo-1] + 1
	}
	return LineCol{Line: line, Col: offset - lineStart + 1}
}

// Resolve converts a span into start and end positions.
func (idx *LineIndex) Resolve(span Span) (start, end LineCol) {
	return idx.ToLineCol(span.Start), idx.ToLineCol(span.End)
}

// Line returns the text of the given 1-based line without its newline.
func (idx *LineIndex) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	var start int
	if lineNum >= 2 {
		if int(lineNum-2) >= len(idx.newls) {
			return ""
		}
		start = int(idx.newls[lineNum-2]) + 1
	}
	rest := idx.text[start:]
	if cut := strings.IndexByte(rest, '\n'); cut >= 0 {
		rest = rest[:cut]
	}
	return rest
}
