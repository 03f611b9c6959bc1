package types

import "fmt"

// GenericKind controls how a generic parameter merges multiple
// bindings during inference. Variant is stricter around Unknown than
// Plain: one Unknown binding poisons the whole result.
type GenericKind uint8

const (
	GenericPlain GenericKind = iota
	GenericVariant
)

// GenericParam declares a generic parameter used by a FunctionSig.
type GenericParam struct {
	ID   GenericID
	Kind GenericKind
}

// FunctionCategory groups builtins for editor surfaces.
type FunctionCategory uint8

const (
	CategoryGeneral FunctionCategory = iota
	CategoryText
	CategoryNumber
	CategoryDate
	CategoryPeople
	CategoryList
	CategorySpecial
)

func (c FunctionCategory) String() string {
	switch c {
	case CategoryGeneral:
		return "General"
	case CategoryText:
		return "Text"
	case CategoryNumber:
		return "Number"
	case CategoryDate:
		return "Date"
	case CategoryPeople:
		return "People"
	case CategoryList:
		return "List"
	case CategorySpecial:
		return "Special"
	default:
		return "General"
	}
}

// FunctionSig is a function signature used for semantic validation and
// editor tooling. Detail is the display string shown by completion and
// signature help.
type FunctionSig struct {
	Name     string
	Params   ParamShape
	Ret      Ty
	Category FunctionCategory
	Detail   string
	Generics []GenericParam
}

// NewSig creates a signature without extra validation.
func NewSig(category FunctionCategory, detail, name string, params ParamShape, ret Ty, generics []GenericParam) FunctionSig {
	return FunctionSig{
		Name:     name,
		Params:   params,
		Ret:      ret,
		Category: category,
		Detail:   detail,
		Generics: generics,
	}
}

// NewBuiltin creates a signature and panics when it uses a generic it
// does not declare. Builtins are constructed once at startup, so a
// panic here is a programming error caught in tests.
func NewBuiltin(category FunctionCategory, detail, name string, params ParamShape, ret Ty, generics []GenericParam) FunctionSig {
	sig := NewSig(category, detail, name, params, ret, generics)
	declared := make(map[GenericID]bool, len(generics))
	for _, g := range generics {
		declared[g.ID] = true
	}
	for _, p := range sig.DisplayParams() {
		for _, used := range collectGenerics(p.Ty) {
			if !declared[used] {
				panic(fmt.Sprintf("types: builtin %q param %q uses undeclared generic T%d", name, p.Name, used))
			}
		}
	}
	for _, used := range collectGenerics(ret) {
		if !declared[used] {
			panic(fmt.Sprintf("types: builtin %q return type uses undeclared generic T%d", name, used))
		}
	}
	return sig
}

// FlatParams returns the parameter list for signatures that are exactly
// head params, i.e. no repeat group and no tail.
func (s *FunctionSig) FlatParams() ([]ParamSig, bool) {
	if len(s.Params.Repeat) == 0 && len(s.Params.Tail) == 0 {
		return s.Params.Head, true
	}
	return nil, false
}

// DisplayParamsLen returns the number of displayed parameter slots.
func (s *FunctionSig) DisplayParamsLen() int {
	return len(s.Params.Head) + len(s.Params.Repeat) + len(s.Params.Tail)
}

// DisplayParams returns the displayed parameter slots: head, then
// repeat, then tail.
func (s *FunctionSig) DisplayParams() []ParamSig {
	out := make([]ParamSig, 0, s.DisplayParamsLen())
	out = append(out, s.Params.Head...)
	out = append(out, s.Params.Repeat...)
	out = append(out, s.Params.Tail...)
	return out
}

// IsVariadic reports whether the signature has a repeating group.
func (s *FunctionSig) IsVariadic() bool {
	return len(s.Params.Repeat) > 0
}

// RequiredMinArgs returns the minimum number of arguments the
// signature accepts. For fixed-arity signatures this is the index of
// the last required param plus one; for repeat shapes it assumes one
// required repeat group.
func (s *FunctionSig) RequiredMinArgs() int {
	if len(s.Params.Repeat) == 0 {
		required := 0
		idx := 0
		for _, p := range s.Params.Head {
			if !p.Optional {
				required = idx + 1
			}
			idx++
		}
		for _, p := range s.Params.Tail {
			if !p.Optional {
				required = idx + 1
			}
			idx++
		}
		return required
	}

	required := len(s.Params.Repeat)
	for _, p := range s.Params.Head {
		if !p.Optional {
			required++
		}
	}
	for _, p := range s.Params.Tail {
		if !p.Optional {
			required++
		}
	}
	return required
}

// ParamForArgIndex maps an argument index to a parameter slot without
// knowing the total argument count. Repeat shapes ignore the tail here
// and cycle through the repeat group after the head; use
// ParamForArgIndexWithTotal when the count is known.
func (s *FunctionSig) ParamForArgIndex(idx int) (ParamSig, bool) {
	if len(s.Params.Repeat) == 0 {
		if idx < len(s.Params.Head) {
			return s.Params.Head[idx], true
		}
		ti := idx - len(s.Params.Head)
		if ti < len(s.Params.Tail) {
			return s.Params.Tail[ti], true
		}
		return ParamSig{}, false
	}

	if idx < len(s.Params.Head) {
		return s.Params.Head[idx], true
	}
	ri := (idx - len(s.Params.Head)) % len(s.Params.Repeat)
	return s.Params.Repeat[ri], true
}

// ParamForArgIndexWithTotal maps an argument index to a parameter slot
// given the call's total argument count, so repeat shapes can place the
// tail precisely.
func (s *FunctionSig) ParamForArgIndexWithTotal(idx, total int) (ParamSig, bool) {
	if len(s.Params.Repeat) == 0 {
		return s.ParamForArgIndex(idx)
	}

	headLen := len(s.Params.Head)
	tailUsed, ok := s.Params.ResolveRepeatTailUsed(total)
	if !ok {
		tailUsed = len(s.Params.Tail)
	}
	tailStart := total - tailUsed
	if tailStart < 0 {
		tailStart = 0
	}

	switch {
	case idx < headLen:
		return s.Params.Head[idx], true
	case idx >= tailStart:
		ti := idx - tailStart
		if ti < len(s.Params.Tail) {
			return s.Params.Tail[ti], true
		}
		return ParamSig{}, false
	default:
		ri := (idx - headLen) % len(s.Params.Repeat)
		return s.Params.Repeat[ri], true
	}
}

// IsPostfixCapable reports whether receiver.name(...) may be treated
// as name(receiver, ...). The first parameter slot must be
// deterministic (head[0], or repeat[0] when head is empty; tail-only
// shapes are excluded) and at least one more displayed slot must
// remain for the parenthesized args.
func (s *FunctionSig) IsPostfixCapable() bool {
	if len(s.Params.Head) > 0 {
		return s.DisplayParamsLen() >= 2
	}
	if len(s.Params.Repeat) > 0 {
		return s.DisplayParamsLen() >= 2
	}
	return false
}

func collectGenerics(ty Ty) []GenericID {
	var out []GenericID
	var walk func(Ty)
	walk = func(t Ty) {
		switch t.Kind {
		case KindGeneric:
			out = append(out, t.Generic)
		case KindList:
			walk(*t.Elem)
		case KindUnion:
			for _, m := range t.Members {
				walk(m)
			}
		}
	}
	walk(ty)
	return out
}
