// Package types models the formula type lattice: primitive types,
// element-typed lists, ordered unions, and generic placeholders bound
// during call inference. All operations are deterministic so that
// diagnostics and editor output are byte-for-byte reproducible.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind enumerates all supported kinds of formula types.
type Kind uint8

const (
	// KindUnknown is the absence of information, not an error.
	KindUnknown Kind = iota
	KindNumber
	KindString
	KindBoolean
	KindDate
	KindNull
	KindList
	KindUnion
	KindGeneric
)

// GenericID identifies a generic parameter within one signature.
type GenericID uint32

// Ty is a formula type. The zero value is Unknown.
//
// Elem is set only for KindList, Members only for KindUnion and
// Generic only for KindGeneric.
type Ty struct {
	Kind    Kind
	Generic GenericID
	Elem    *Ty
	Members []Ty
}

var (
	Unknown = Ty{Kind: KindUnknown}
	Number  = Ty{Kind: KindNumber}
	String  = Ty{Kind: KindString}
	Boolean = Ty{Kind: KindBoolean}
	Date    = Ty{Kind: KindDate}
	Null    = Ty{Kind: KindNull}
)

// ListOf builds a list type with the given element type.
func ListOf(elem Ty) Ty {
	return Ty{Kind: KindList, Elem: &elem}
}

// UnionOf builds a normalized union of the given members.
func UnionOf(members ...Ty) Ty {
	return NormalizeUnion(members)
}

// GenericOf builds a generic placeholder type.
func GenericOf(id GenericID) Ty {
	return Ty{Kind: KindGeneric, Generic: id}
}

// Equal reports deep structural equality.
func (t Ty) Equal(other Ty) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindGeneric:
		return t.Generic == other.Generic
	case KindList:
		return t.Elem.Equal(*other.Elem)
	case KindUnion:
		if len(t.Members) != len(other.Members) {
			return false
		}
		for i := range t.Members {
			if !t.Members[i].Equal(other.Members[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// IsUnknown reports whether the type is exactly Unknown.
func (t Ty) IsUnknown() bool { return t.Kind == KindUnknown }

// ContainsUnknown reports whether Unknown occurs in the type,
// looking through union members but not list elements.
func (t Ty) ContainsUnknown() bool {
	if t.Kind == KindUnknown {
		return true
	}
	if t.Kind == KindUnion {
		for _, m := range t.Members {
			if m.ContainsUnknown() {
				return true
			}
		}
	}
	return false
}

// Accepts reports whether a value of type actual can be passed where
// the receiver is expected.
//
// Rules, checked in order:
//   - actual Unknown is accepted everywhere (no information, no error);
//   - an expected Generic accepts anything (bindings are resolved by
//     inference, not here);
//   - union vs union: every actual member must be accepted;
//   - expected union vs single: some branch must accept;
//   - single expected vs actual union: every member must be accepted;
//   - lists are covariant in the element type;
//   - otherwise structural equality.
func (t Ty) Accepts(actual Ty) bool {
	if actual.Kind == KindUnknown {
		return true
	}
	if t.Kind == KindGeneric {
		return true
	}
	if t.Kind == KindUnion && actual.Kind == KindUnion {
		for _, m := range actual.Members {
			if !t.Accepts(m) {
				return false
			}
		}
		return true
	}
	if t.Kind == KindUnion {
		for _, branch := range t.Members {
			if branch.Accepts(actual) {
				return true
			}
		}
		return false
	}
	if actual.Kind == KindUnion {
		for _, m := range actual.Members {
			if !t.Accepts(m) {
				return false
			}
		}
		return true
	}
	if t.Kind == KindList && actual.Kind == KindList {
		return t.Elem.Accepts(*actual.Elem)
	}
	return t.Equal(actual)
}

// NormalizeUnion flattens nested unions, deduplicates members, sorts
// them into the canonical order and collapses degenerate cases: an
// empty set becomes Unknown, a singleton becomes its sole member.
func NormalizeUnion(members []Ty) Ty {
	var flat []Ty
	for _, m := range members {
		flat = appendFlattened(flat, m)
	}

	unique := make([]Ty, 0, len(flat))
	for _, ty := range flat {
		dup := false
		for _, seen := range unique {
			if seen.Equal(ty) {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, ty)
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		oi, si := unique[i].sortKey()
		oj, sj := unique[j].sortKey()
		if oi != oj {
			return oi < oj
		}
		return si < sj
	})

	switch len(unique) {
	case 0:
		return Unknown
	case 1:
		return unique[0]
	default:
		return Ty{Kind: KindUnion, Members: unique}
	}
}

func appendFlattened(out []Ty, ty Ty) []Ty {
	if ty.Kind == KindUnion {
		for _, m := range ty.Members {
			out = appendFlattened(out, m)
		}
		return out
	}
	return append(out, ty)
}

// sortKey задаёт канонический порядок членов union:
// null < boolean < number < string < date < list < generic < union < unknown.
func (t Ty) sortKey() (uint8, string) {
	switch t.Kind {
	case KindNull:
		return 0, "null"
	case KindBoolean:
		return 1, "boolean"
	case KindNumber:
		return 2, "number"
	case KindString:
		return 3, "string"
	case KindDate:
		return 4, "date"
	case KindList:
		_, inner := t.Elem.sortKey()
		return 5, "list<" + inner + ">"
	case KindGeneric:
		return 6, fmt.Sprintf("T%d", t.Generic)
	case KindUnion:
		return 7, "union"
	default:
		return 8, "unknown"
	}
}

// String renders the type in the notation used by diagnostics:
// Number, String, Boolean, Date, Null, Unknown, Generic(n),
// List(Elem), Union([A, B]).
func (t Ty) String() string {
	switch t.Kind {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindDate:
		return "Date"
	case KindNull:
		return "Null"
	case KindList:
		return "List(" + t.Elem.String() + ")"
	case KindGeneric:
		return fmt.Sprintf("Generic(%d)", t.Generic)
	case KindUnion:
		var b strings.Builder
		b.WriteString("Union([")
		for i, m := range t.Members {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(m.String())
		}
		b.WriteString("])")
		return b.String()
	default:
		return "Unknown"
	}
}

// Display renders the type the way editor surfaces show it: lowercase,
// with unions joined by " | " and lists as "elem[]".
func (t Ty) Display() string {
	switch t.Kind {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindNull:
		return "null"
	case KindList:
		return t.Elem.Display() + "[]"
	case KindGeneric:
		return fmt.Sprintf("T%d", t.Generic)
	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = m.Display()
		}
		return strings.Join(parts, " | ")
	default:
		return "unknown"
	}
}
