// Package format pretty-prints a parsed formula back to stable source
// text: indent of two spaces, a soft line width of 80 bytes and a
// single trailing newline. Comments survive formatting; the token
// stream of the original source drives their reattachment.
//
// Назначение: канонический вывод формулы после успешного разбора.
// Не делает: форматирования текста с диагностиками — это решает engine.
// Зависимости: internal/ast, internal/token, internal/source.
package format
