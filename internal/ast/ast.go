// Package ast defines the closed expression tree produced by the
// parser. The tree owns its children, carries no back-references, and
// is immutable after parsing; spans let any node re-derive its source
// substring. Recovery is modeled with an explicit Bad node instead of
// nil children, so every malformed region still occupies a slot.
package ast

import (
	"formula/internal/source"
)

// Expr is implemented by every expression node.
type Expr interface {
	Span() source.Span
	exprNode()
}

// LitKind classifies literal expressions.
type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
	LitBool
)

func (k LitKind) String() string {
	switch k {
	case LitNumber:
		return "number"
	case LitString:
		return "string"
	case LitBool:
		return "boolean"
	}
	return "unknown"
}

// Ident is a bare identifier (property or function name position).
type Ident struct {
	Name string
	Sp   source.Span
}

// Lit is a literal. For strings Value holds the text without quotes.
type Lit struct {
	Kind  LitKind
	Value string
	Sp    source.Span
}

// Group preserves explicit parenthesization as its own node so that
// formatting and diagnostics can target the parens themselves.
type Group struct {
	Inner Expr
	Sp    source.Span
}

// List is a bracketed list literal. A trailing separator is a parse
// error and never reaches the tree.
type List struct {
	Elems []Expr
	Sp    source.Span
}

// Call is `name(args...)`; the callee is always a bare identifier.
type Call struct {
	Name     string
	NameSpan source.Span
	LParen   source.Span
	Args     []Expr
	Sp       source.Span
}

// MemberCall is `receiver.method(args...)`. Bare member access without
// the call is rejected by the parser.
type MemberCall struct {
	Receiver   Expr
	Method     string
	MethodSpan source.Span
	LParen     source.Span
	Args       []Expr
	Sp         source.Span
}

// UnaryOp enumerates prefix operators.
type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota // '!' or 'not'
	UnaryNeg                // '-'
)

func (op UnaryOp) String() string {
	if op == UnaryNeg {
		return "-"
	}
	return "!"
}

type Unary struct {
	Op     UnaryOp
	OpSpan source.Span
	X      Expr
	Sp     source.Span
}

// BinaryOp enumerates infix operators.
type BinaryOp uint8

const (
	BinOrOr BinaryOp = iota
	BinAndAnd
	BinEqEq
	BinBangEq
	BinLt
	BinLtEq
	BinGt
	BinGtEq
	BinPlus
	BinMinus
	BinStar
	BinSlash
	BinPercent
	BinCaret
)

var binOpText = [...]string{
	BinOrOr:    "||",
	BinAndAnd:  "&&",
	BinEqEq:    "==",
	BinBangEq:  "!=",
	BinLt:      "<",
	BinLtEq:    "<=",
	BinGt:      ">",
	BinGtEq:    ">=",
	BinPlus:    "+",
	BinMinus:   "-",
	BinStar:    "*",
	BinSlash:   "/",
	BinPercent: "%",
	BinCaret:   "^",
}

func (op BinaryOp) String() string {
	if int(op) < len(binOpText) {
		return binOpText[op]
	}
	return "?"
}

type Binary struct {
	Op     BinaryOp
	OpSpan source.Span
	Left   Expr
	Right  Expr
	Sp     source.Span
}

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond Expr
	Then Expr
	Else Expr
	Sp   source.Span
}

// Bad is the recovery placeholder: it stands in for an unparseable
// fragment and carries only the span that covers it.
type Bad struct {
	Sp source.Span
}

func (e *Ident) Span() source.Span      { return e.Sp }
func (e *Lit) Span() source.Span        { return e.Sp }
func (e *Group) Span() source.Span      { return e.Sp }
func (e *List) Span() source.Span       { return e.Sp }
func (e *Call) Span() source.Span       { return e.Sp }
func (e *MemberCall) Span() source.Span { return e.Sp }
func (e *Unary) Span() source.Span      { return e.Sp }
func (e *Binary) Span() source.Span     { return e.Sp }
func (e *Ternary) Span() source.Span    { return e.Sp }
func (e *Bad) Span() source.Span        { return e.Sp }

func (*Ident) exprNode()      {}
func (*Lit) exprNode()        {}
func (*Group) exprNode()      {}
func (*List) exprNode()       {}
func (*Call) exprNode()       {}
func (*MemberCall) exprNode() {}
func (*Unary) exprNode()      {}
func (*Binary) exprNode()     {}
func (*Ternary) exprNode()    {}
func (*Bad) exprNode()        {}

// IsBad reports whether the expression is the recovery placeholder.
func IsBad(e Expr) bool {
	_, ok := e.(*Bad)
	return ok
}
