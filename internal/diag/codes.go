package diag

import (
	"fmt"
)

// Code is a stable identifier for one diagnostic category.
type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Парсерные
	SynUnexpectedToken      Code = 2001
	SynUnclosedDelimiter    Code = 2002
	SynMismatchedDelimiter  Code = 2003
	SynMissingExpr          Code = 2004
	SynMissingComma         Code = 2005
	SynTrailingComma        Code = 2006
	SynBareMemberAccess     Code = 2007
	SynRedundantDot         Code = 2008

	// Семантические
	SemaError Code = 3001
)

// priorities drive same-span deconfliction: when two diagnostics land on
// an identical span, the higher-priority one wins.
var priorities = map[Code]int{
	SynUnclosedDelimiter:        100,
	SynMismatchedDelimiter:      95,
	LexUnknownChar:              90,
	LexUnterminatedString:       90,
	LexUnterminatedBlockComment: 90,
	SynUnexpectedToken:          80,
	SynBareMemberAccess:         80,
	SynRedundantDot:             80,
	SynMissingExpr:              70,
	SynMissingComma:             60,
	SynTrailingComma:            50,
	SemaError:                   10,
}

// Priority returns the deconfliction weight for the code.
func (c Code) Priority() int {
	if p, ok := priorities[c]; ok {
		return p
	}
	return 0
}

var codeDescriptions = map[Code]string{
	UnknownCode:                 "unknown error",
	LexUnknownChar:              "unexpected character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	SynUnexpectedToken:          "unexpected token",
	SynUnclosedDelimiter:        "unclosed delimiter",
	SynMismatchedDelimiter:      "mismatched delimiter",
	SynMissingExpr:              "missing expression",
	SynMissingComma:             "missing comma",
	SynTrailingComma:            "trailing comma",
	SynBareMemberAccess:         "bare member access",
	SynRedundantDot:             "redundant dot",
	SemaError:                   "semantic error",
}

// Description returns a short human description of the code.
func (c Code) Description() string {
	if d, ok := codeDescriptions[c]; ok {
		return d
	}
	return fmt.Sprintf("code %d", uint16(c))
}

func (c Code) String() string {
	return fmt.Sprintf("FORM%04d", uint16(c))
}
