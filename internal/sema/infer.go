package sema

import (
	"formula/internal/ast"
	"formula/internal/types"
)

type subst map[types.GenericID]types.Ty

type genericRegistry map[types.GenericID]types.GenericKind

func registryFor(sig *types.FunctionSig) genericRegistry {
	reg := make(genericRegistry, len(sig.Generics))
	for _, g := range sig.Generics {
		reg[g.ID] = g.Kind
	}
	return reg
}

// bindGeneric merges one observed binding into the substitution.
//
// Plain generics skip Unknown entirely and union-accumulate the rest.
// Variant generics are poisoned by Unknown: once any binding contains
// it, the generic resolves to Unknown for good.
func bindGeneric(s subst, reg genericRegistry, id types.GenericID, actual types.Ty) {
	kind, ok := reg[id]
	if !ok {
		kind = types.GenericPlain
	}

	switch kind {
	case types.GenericPlain:
		if actual.IsUnknown() {
			return
		}
		if prev, bound := s[id]; bound {
			s[id] = types.NormalizeUnion([]types.Ty{prev, actual})
		} else {
			s[id] = types.NormalizeUnion([]types.Ty{actual})
		}

	case types.GenericVariant:
		if actual.ContainsUnknown() {
			s[id] = types.Unknown
			return
		}
		if prev, bound := s[id]; bound && prev.IsUnknown() {
			return
		}

		var toAdd []types.Ty
		if actual.Kind == types.KindUnion {
			toAdd = append(toAdd, actual.Members...)
		} else {
			toAdd = append(toAdd, actual)
		}
		if prev, bound := s[id]; bound {
			toAdd = append([]types.Ty{prev}, toAdd...)
		}
		s[id] = types.NormalizeUnion(toAdd)
	}
}

// unify walks the expected type and binds every generic it reaches
// against the matching part of the actual type.
func unify(s subst, reg genericRegistry, expected, actual types.Ty) {
	switch expected.Kind {
	case types.KindGeneric:
		bindGeneric(s, reg, expected.Generic, actual)
	case types.KindList:
		if actual.Kind == types.KindList {
			unify(s, reg, *expected.Elem, *actual.Elem)
		}
	case types.KindUnion:
		for _, branch := range expected.Members {
			unify(s, reg, branch, actual)
		}
	}
}

// applySubst substitutes bound generics into a type template. Unbound
// generics resolve to Unknown.
func applySubst(s subst, template types.Ty) types.Ty {
	switch template.Kind {
	case types.KindGeneric:
		if ty, ok := s[template.Generic]; ok {
			return ty
		}
		return types.Unknown
	case types.KindList:
		return types.ListOf(applySubst(s, *template.Elem))
	case types.KindUnion:
		members := make([]types.Ty, len(template.Members))
		for i, m := range template.Members {
			members[i] = applySubst(s, m)
		}
		return types.NormalizeUnion(members)
	default:
		return template
	}
}

func unifyCallArgs(sig *types.FunctionSig, argTys []types.Ty, s subst) {
	reg := registryFor(sig)

	if len(sig.Params.Repeat) == 0 {
		flat := make([]types.ParamSig, 0, len(sig.Params.Head)+len(sig.Params.Tail))
		flat = append(flat, sig.Params.Head...)
		flat = append(flat, sig.Params.Tail...)
		for i, actual := range argTys {
			if i >= len(flat) {
				break
			}
			unify(s, reg, flat[i].Ty, actual)
		}
		return
	}

	headLen := len(sig.Params.Head)
	tailUsed, ok := sig.Params.ResolveRepeatTailUsed(len(argTys))
	if !ok {
		tailUsed = len(sig.Params.Tail)
	}
	tailStart := len(argTys) - tailUsed
	if tailStart < 0 {
		tailStart = 0
	}

	for idx, actual := range argTys {
		var param types.ParamSig
		switch {
		case idx < headLen:
			param = sig.Params.Head[idx]
		case idx >= tailStart:
			ti := idx - tailStart
			if ti >= len(sig.Params.Tail) {
				continue
			}
			param = sig.Params.Tail[ti]
		default:
			param = sig.Params.Repeat[(idx-headLen)%len(sig.Params.Repeat)]
		}
		unify(s, reg, param.Ty, actual)
	}
}

// unifyCallArgsPresent unifies only the argument slots whose type is
// known (non-nil). Used by signature help, where some arg expressions
// are still missing.
func unifyCallArgsPresent(sig *types.FunctionSig, argTys []*types.Ty, s subst) {
	reg := registryFor(sig)

	if len(sig.Params.Repeat) == 0 {
		totalParams := len(sig.Params.Head) + len(sig.Params.Tail)
		for idx, actual := range argTys {
			if idx >= totalParams {
				break
			}
			if actual == nil {
				continue
			}
			var param types.ParamSig
			if idx < len(sig.Params.Head) {
				param = sig.Params.Head[idx]
			} else {
				param = sig.Params.Tail[idx-len(sig.Params.Head)]
			}
			unify(s, reg, param.Ty, *actual)
		}
		return
	}

	headLen := len(sig.Params.Head)
	shape, ok := sig.Params.CompleteRepeatShape(len(argTys))
	if !ok {
		return
	}

	for idx, actual := range argTys {
		if actual == nil {
			continue
		}
		var param types.ParamSig
		switch {
		case idx < headLen:
			param = sig.Params.Head[idx]
		case idx >= shape.TailStart:
			ti := idx - shape.TailStart
			if ti >= len(sig.Params.Tail) {
				continue
			}
			param = sig.Params.Tail[ti]
		default:
			param = sig.Params.Repeat[(idx-headLen)%len(sig.Params.Repeat)]
		}
		unify(s, reg, param.Ty, *actual)
	}
}

// InstantiateSig binds the signature's generics against the known
// argument types (nil marks a missing argument) and returns the
// instantiated display parameter types and return type.
func InstantiateSig(sig *types.FunctionSig, argTys []*types.Ty) ([]types.Ty, types.Ty) {
	s := make(subst)
	unifyCallArgsPresent(sig, argTys, s)

	display := sig.DisplayParams()
	params := make([]types.Ty, len(display))
	for i, p := range display {
		params[i] = applySubst(s, p.Ty)
	}
	return params, applySubst(s, sig.Ret)
}

// Infer computes the expression type bottom-up, recording every node
// in the map. Inference never reports diagnostics; uncertainty flows
// as Unknown and validation decides what deserves an error.
func Infer(expr ast.Expr, ctx *types.Context, m *TypeMap) types.Ty {
	ty := inferInner(expr, ctx, m)
	m.Insert(expr, ty)
	return ty
}

func inferInner(expr ast.Expr, ctx *types.Context, m *TypeMap) types.Ty {
	switch e := expr.(type) {
	case *ast.Lit:
		switch e.Kind {
		case ast.LitNumber:
			return types.Number
		case ast.LitString:
			return types.String
		default:
			return types.Boolean
		}

	case *ast.Ident:
		return types.Unknown

	case *ast.Group:
		return Infer(e.Inner, ctx, m)

	case *ast.List:
		elems := make([]types.Ty, 0, len(e.Elems))
		anyUnknown := false
		for _, elem := range e.Elems {
			ty := Infer(elem, ctx, m)
			if ty.IsUnknown() {
				anyUnknown = true
			}
			elems = append(elems, ty)
		}
		if anyUnknown || len(elems) == 0 {
			return types.ListOf(types.Unknown)
		}
		return types.ListOf(types.NormalizeUnion(elems))

	case *ast.Unary:
		inner := Infer(e.X, ctx, m)
		switch e.Op {
		case ast.UnaryNot:
			if inner.Equal(types.Boolean) {
				return types.Boolean
			}
		case ast.UnaryNeg:
			if inner.Equal(types.Number) {
				return types.Number
			}
		}
		return types.Unknown

	case *ast.Binary:
		left := Infer(e.Left, ctx, m)
		right := Infer(e.Right, ctx, m)
		switch e.Op {
		case ast.BinPlus, ast.BinMinus, ast.BinStar, ast.BinSlash, ast.BinPercent, ast.BinCaret:
			if left.Equal(types.Number) && right.Equal(types.Number) {
				return types.Number
			}
		case ast.BinAndAnd, ast.BinOrOr:
			if left.Equal(types.Boolean) && right.Equal(types.Boolean) {
				return types.Boolean
			}
		case ast.BinLt, ast.BinLtEq, ast.BinGtEq, ast.BinGt:
			if !left.IsUnknown() && !right.IsUnknown() {
				return types.Boolean
			}
		case ast.BinEqEq, ast.BinBangEq:
			if left.Equal(right) && !left.IsUnknown() {
				return types.Boolean
			}
		}
		return types.Unknown

	case *ast.Ternary:
		Infer(e.Cond, ctx, m)
		thenTy := Infer(e.Then, ctx, m)
		elseTy := Infer(e.Else, ctx, m)
		return joinTypes(thenTy, elseTy)

	case *ast.Call:
		if e.Name == "prop" {
			return inferProp(e.Args, ctx, m)
		}
		sig, _ := ctx.Function(e.Name)
		return inferCall(sig, e.Args, ctx, m)

	case *ast.MemberCall:
		Infer(e.Receiver, ctx, m)
		for _, arg := range e.Args {
			Infer(arg, ctx, m)
		}

		// Postfix form: receiver.fn(a, ...) reads as fn(receiver, a, ...).
		if !types.PostfixCapableNames()[e.Method] {
			return types.Unknown
		}
		sig, ok := ctx.Function(e.Method)
		if !ok {
			return types.Unknown
		}
		flat, flatOK := sig.FlatParams()
		if !flatOK || len(flat) <= 1 {
			return types.Unknown
		}

		allArgs := make([]ast.Expr, 0, 1+len(e.Args))
		allArgs = append(allArgs, e.Receiver)
		allArgs = append(allArgs, e.Args...)
		return inferCallTypes(sig, allArgs, m)

	default: // *ast.Bad
		return types.Unknown
	}
}

func inferProp(args []ast.Expr, ctx *types.Context, m *TypeMap) types.Ty {
	for _, arg := range args {
		Infer(arg, ctx, m)
	}
	if len(args) != 1 {
		return types.Unknown
	}
	lit, ok := args[0].(*ast.Lit)
	if !ok || lit.Kind != ast.LitString {
		return types.Unknown
	}
	if ty, found := ctx.Lookup(lit.Value); found {
		return ty
	}
	return types.Unknown
}

func inferCall(sig *types.FunctionSig, args []ast.Expr, ctx *types.Context, m *TypeMap) types.Ty {
	if sig == nil {
		for _, arg := range args {
			Infer(arg, ctx, m)
		}
		return types.Unknown
	}
	argTys := make([]types.Ty, len(args))
	for i, arg := range args {
		argTys[i] = Infer(arg, ctx, m)
	}
	s := make(subst)
	unifyCallArgs(sig, argTys, s)
	return applySubst(s, sig.Ret)
}

// inferCallTypes is inferCall over already-visited argument nodes; it
// reads their types from the map instead of re-walking them.
func inferCallTypes(sig *types.FunctionSig, args []ast.Expr, m *TypeMap) types.Ty {
	argTys := make([]types.Ty, len(args))
	for i, arg := range args {
		argTys[i] = m.Get(arg)
	}
	s := make(subst)
	unifyCallArgs(sig, argTys, s)
	return applySubst(s, sig.Ret)
}

// joinTypes merges the two ternary branches: equal known types keep
// the type, anything else collapses to Unknown.
func joinTypes(a, b types.Ty) types.Ty {
	if a.IsUnknown() || b.IsUnknown() {
		return types.Unknown
	}
	if a.Equal(b) {
		return a
	}
	return types.Unknown
}
