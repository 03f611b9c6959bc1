package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"formula/internal/source"
)

// Cursor представляет собой позицию в исходном тексте
type Cursor struct {
	src string
	off uint32
	// limit is the exclusive upper bound for off; equals len(src).
	limit uint32
}

// NewCursor creates a new cursor over the provided text.
func NewCursor(src string) Cursor {
	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		panic(fmt.Errorf("source length overflow: %w", err))
	}
	return Cursor{src: src, limit: limit}
}

// EOF проверяет, достигнут ли конец текста
func (c *Cursor) EOF() bool {
	return c.off >= c.limit
}

// Off returns the current byte offset.
func (c *Cursor) Off() uint32 {
	return c.off
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.off+1 >= c.limit {
		return 0, 0, false
	}
	return c.src[c.off], c.src[c.off+1], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.off]
	c.off++
	return b
}

// PeekRune decodes the rune at the cursor without advancing.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.EOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.src[c.off:])
}

// BumpRune advances past one full rune and returns it.
func (c *Cursor) BumpRune() rune {
	r, size := c.PeekRune()
	if size == 0 {
		return utf8.RuneError
	}
	c.off += uint32(size) //nolint:gosec // size <= 4
	return r
}

// Mark это метка, чтобы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.off)
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.off = uint32(m)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.off}
}

// TextFrom returns the source fragment scanned since the mark.
func (c *Cursor) TextFrom(m Mark) string {
	return c.src[uint32(m):c.off]
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.src[c.off] == b {
		c.off++
		return true
	}
	return false
}
