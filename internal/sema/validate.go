package sema

import (
	"fmt"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/source"
	"formula/internal/types"
)

// Analyze infers the expression type and reports semantic diagnostics.
// Inference runs first and never reports; validation then walks the
// tree against the recorded types.
func Analyze(expr ast.Expr, ctx *types.Context, reporter diag.Reporter) (types.Ty, *TypeMap) {
	m := NewTypeMap()
	ty := Infer(expr, ctx, m)
	validate(expr, ctx, m, reporter)
	return ty, m
}

// validate обходит дерево сверху вниз; ошибки вызовов — shape-first:
// одна диагностика арности подавляет поаргументные несоответствия.
func validate(expr ast.Expr, ctx *types.Context, m *TypeMap, reporter diag.Reporter) {
	switch e := expr.(type) {
	case *ast.Lit, *ast.Ident, *ast.Bad:

	case *ast.Group:
		validate(e.Inner, ctx, m, reporter)

	case *ast.List:
		for _, elem := range e.Elems {
			validate(elem, ctx, m, reporter)
		}

	case *ast.Unary:
		validate(e.X, ctx, m, reporter)

	case *ast.Binary:
		validate(e.Left, ctx, m, reporter)
		validate(e.Right, ctx, m, reporter)

	case *ast.Ternary:
		validate(e.Cond, ctx, m, reporter)
		validate(e.Then, ctx, m, reporter)
		validate(e.Else, ctx, m, reporter)

	case *ast.Call:
		for _, arg := range e.Args {
			validate(arg, ctx, m, reporter)
		}
		if e.Name == "prop" {
			validatePropCall(e, ctx, reporter)
			return
		}
		sig, ok := ctx.Function(e.Name)
		if !ok {
			semaError(reporter, e.Sp, fmt.Sprintf("unknown function: %s", e.Name))
			return
		}
		validateCall(e.Sp, e.Name, sig, e.Args, m, reporter)

	case *ast.MemberCall:
		validate(e.Receiver, ctx, m, reporter)
		for _, arg := range e.Args {
			validate(arg, ctx, m, reporter)
		}

		sig, ok := ctx.Function(e.Method)
		if !ok {
			return
		}
		if !types.PostfixCapableNames()[sig.Name] {
			return
		}
		flat, flatOK := sig.FlatParams()
		if !flatOK || len(flat) <= 1 {
			return
		}

		allArgs := make([]ast.Expr, 0, 1+len(e.Args))
		allArgs = append(allArgs, e.Receiver)
		allArgs = append(allArgs, e.Args...)
		validateCall(e.Sp, e.Method, sig, allArgs, m, reporter)
	}
}

func validatePropCall(call *ast.Call, ctx *types.Context, reporter diag.Reporter) {
	if len(call.Args) != 1 {
		semaError(reporter, call.Sp, "prop() expects exactly 1 argument")
		return
	}
	arg := call.Args[0]
	lit, ok := arg.(*ast.Lit)
	if !ok || lit.Kind != ast.LitString {
		semaError(reporter, arg.Span(), "prop() expects a string literal argument")
		return
	}
	if _, found := ctx.Lookup(lit.Value); !found {
		semaError(reporter, arg.Span(), fmt.Sprintf("Unknown property: %s", lit.Value))
	}
}

func validateCall(callSpan source.Span, name string, sig *types.FunctionSig, args []ast.Expr, m *TypeMap, reporter diag.Reporter) {
	if !validateArity(callSpan, name, sig, len(args), reporter) {
		return
	}

	for idx, arg := range args {
		param, ok := sig.ParamForArgIndexWithTotal(idx, len(args))
		if !ok {
			continue
		}
		actual := m.Get(arg)
		if param.Ty.Accepts(actual) {
			continue
		}
		if name == "sum" {
			semaError(reporter, arg.Span(), "sum() expects number arguments")
		} else {
			semaError(reporter, arg.Span(), fmt.Sprintf(
				"argument type mismatch: expected %s, got %s", param.Ty, actual))
		}
	}
}

// validateArity reports true when the call's argument count fits the
// signature. On a bad count it emits exactly one diagnostic and
// returns false, so the caller skips per-argument checks.
func validateArity(callSpan source.Span, name string, sig *types.FunctionSig, argLen int, reporter diag.Reporter) bool {
	required := sig.RequiredMinArgs()

	if len(sig.Params.Repeat) == 0 {
		max := len(sig.Params.Head) + len(sig.Params.Tail)
		if required == max {
			if argLen != max {
				semaError(reporter, callSpan, fmt.Sprintf(
					"%s() expects exactly %d argument%s", name, max, plural(max)))
				return false
			}
			return true
		}
		if argLen < required {
			semaError(reporter, callSpan, fmt.Sprintf(
				"%s() expects at least %d argument%s", name, required, plural(required)))
			return false
		}
		if argLen > max {
			semaError(reporter, callSpan, fmt.Sprintf(
				"%s() expects at most %d argument%s", name, max, plural(max)))
			return false
		}
		return true
	}

	if argLen < required {
		semaError(reporter, callSpan, fmt.Sprintf(
			"%s() expects at least %d argument%s", name, required, plural(required)))
		return false
	}
	if _, ok := sig.Params.ResolveRepeatTailUsed(argLen); !ok {
		semaError(reporter, callSpan, fmt.Sprintf("%s() has an invalid argument shape", name))
		return false
	}
	return true
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func semaError(reporter diag.Reporter, span source.Span, msg string) {
	reporter.Report(diag.NewError(diag.SemaError, span, msg))
}
