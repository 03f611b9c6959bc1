package ide

import (
	"fmt"
	"strings"

	"formula/internal/ast"
	"formula/internal/diag"
	"formula/internal/lexer"
	"formula/internal/parser"
	"formula/internal/sema"
	"formula/internal/source"
	"formula/internal/token"
	"formula/internal/types"
)

// CallContext is the call site the cursor sits in, derived from tokens
// alone so it survives arbitrary mid-typing states.
type CallContext struct {
	Callee    string
	LParenIdx int
	ArgIndex  int
}

// detectCallContext finds the innermost call whose '(' opens before the
// cursor and counts commas at depth zero to get the argument index.
func detectCallContext(tokens []token.Token, cursor uint32) (CallContext, bool) {
	var stack []int
	for idx, t := range tokens {
		if t.IsTrivia() || t.Kind == token.EOF {
			continue
		}
		if t.Span.Start >= cursor {
			break
		}
		switch t.Kind {
		case token.LParen:
			stack = append(stack, idx)
		case token.RParen:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return CallContext{}, false
	}
	lparenIdx := stack[len(stack)-1]

	calleeIdx, ok := prevNonTriviaBefore(tokens, lparenIdx)
	if !ok || tokens[calleeIdx].Kind != token.Ident {
		return CallContext{}, false
	}

	argIndex := 0
	parenDepth, bracketDepth := 0, 0
	for _, t := range tokens[lparenIdx+1:] {
		if t.IsTrivia() || t.Kind == token.EOF {
			continue
		}
		if t.Span.Start >= cursor {
			break
		}
		switch t.Kind {
		case token.LParen:
			parenDepth++
		case token.LBracket:
			bracketDepth++
		case token.RParen:
			if parenDepth > 0 {
				parenDepth--
			}
		case token.RBracket:
			if bracketDepth > 0 {
				bracketDepth--
			}
		case token.Comma:
			if parenDepth == 0 && bracketDepth == 0 {
				argIndex++
			}
		}
	}
	return CallContext{Callee: tokens[calleeIdx].Text, LParenIdx: lparenIdx, ArgIndex: argIndex}, true
}

// expectedCallArgTy is the declared type of the parameter under the
// cursor, used for type-directed ranking. Wildcard-ish types (Unknown,
// bare generics) yield no expectation.
func expectedCallArgTy(callCtx CallContext, haveCall bool, ctx *types.Context) (types.Ty, bool) {
	if !haveCall || ctx == nil {
		return types.Ty{}, false
	}
	sig, ok := ctx.Function(callCtx.Callee)
	if !ok {
		return types.Ty{}, false
	}
	param, ok := sig.ParamForArgIndex(callCtx.ArgIndex)
	if !ok {
		return types.Ty{}, false
	}
	switch param.Ty.Kind {
	case types.KindUnknown, types.KindGeneric:
		return types.Ty{}, false
	}
	return param.Ty, true
}

// signatureHelpInCall renders signature help once the cursor is past
// the '(' of a known callee; otherwise returns nil.
func signatureHelpInCall(text string, tokens []token.Token, cursor uint32, ctx *types.Context, callCtx *CallContext) *SignatureHelp {
	if callCtx.LParenIdx >= len(tokens) {
		return nil
	}
	lparen := tokens[callCtx.LParenIdx]
	if cursor < lparen.Span.End {
		return nil
	}
	if ctx == nil {
		return nil
	}
	sig, ok := ctx.Function(callCtx.Callee)
	if !ok {
		return nil
	}

	methodStyle := isTokenLevelPostfixCall(tokens, callCtx.LParenIdx) &&
		types.PostfixCapableNames()[sig.Name] && sig.IsPostfixCapable()

	argTys := inferCallArgTysBestEffort(text, tokens, ctx, callCtx, methodStyle)
	instParams, instRet := sema.InstantiateSig(sig, argTys)

	// receiver.fn(a, ...) считается как fn(receiver, a, ...).
	fullArgIndex := callCtx.ArgIndex
	if methodStyle {
		fullArgIndex++
	}
	totalForShape := max(len(argTys), fullArgIndex+1)

	rendered := renderSignature(sig, argTys, totalForShape, instParams, methodStyle)

	activeSlot := 0
	if len(rendered.slots) > 0 {
		slot := activeSlotIndex(sig, fullArgIndex, totalForShape)
		if methodStyle && slot > 0 {
			slot--
		}
		activeSlot = min(slot, len(rendered.slots)-1)
	}
	activeParameter := nearestParamIndex(rendered.slots, activeSlot)

	segments := buildSegments(sig.Name, &rendered, instRet, methodStyle)
	return &SignatureHelp{
		Signatures:      []SignatureItem{{Segments: segments}},
		ActiveSignature: 0,
		ActiveParameter: activeParameter,
	}
}

// isTokenLevelPostfixCall reports a receiver-dot-ident shape right
// before the call's '(' without consulting the AST.
func isTokenLevelPostfixCall(tokens []token.Token, lparenIdx int) bool {
	calleeIdx, ok := prevNonTriviaBefore(tokens, lparenIdx)
	if !ok || tokens[calleeIdx].Kind != token.Ident {
		return false
	}
	dotIdx, ok := prevNonTriviaBefore(tokens, calleeIdx)
	if !ok || tokens[dotIdx].Kind != token.Dot {
		return false
	}
	recvIdx, ok := prevNonTriviaBefore(tokens, dotIdx)
	if !ok {
		return false
	}
	switch tokens[recvIdx].Kind {
	case token.Ident, token.NumberLit, token.StringLit, token.BoolLit, token.RParen:
		return true
	}
	return false
}

type repeatShapeInfo struct {
	repeatGroups int
	tailStart    int
}

func completeShapeInfo(sig *types.FunctionSig, totalForShape int) (repeatShapeInfo, bool) {
	shape, ok := sig.Params.CompleteRepeatShape(totalForShape)
	if !ok {
		return repeatShapeInfo{}, false
	}
	return repeatShapeInfo{
		repeatGroups: max(shape.RepeatGroups, 1),
		tailStart:    shape.TailStart,
	}, true
}

// displayedRepeatGroups caps how many repeat groups the rendered
// signature spells out; later cycles collapse into the ellipsis.
const displayedRepeatGroupsCap = 2

func tyContainsGeneric(ty types.Ty) bool {
	switch ty.Kind {
	case types.KindGeneric:
		return true
	case types.KindList:
		return tyContainsGeneric(*ty.Elem)
	case types.KindUnion:
		for _, m := range ty.Members {
			if tyContainsGeneric(m) {
				return true
			}
		}
	}
	return false
}

func formatTyWithOptional(ty types.Ty, optional bool) string {
	out := ty.Display()
	if optional {
		out += "?"
	}
	return out
}

// chooseDisplayTy prefers the call-site argument type only for generic
// parameter slots; concrete declarations always show the instantiated
// expectation.
func chooseDisplayTy(actual *types.Ty, declaredTemplate, instantiated types.Ty) types.Ty {
	if !tyContainsGeneric(declaredTemplate) {
		return instantiated
	}
	if actual != nil {
		return *actual
	}
	return instantiated
}

func renderSignature(sig *types.FunctionSig, argTys []*types.Ty, totalForShape int, instParams []types.Ty, methodStyle bool) renderedSignature {
	var rendered renderedSignature

	pushParam := func(name, ty string) {
		if methodStyle && !rendered.hasReceiver {
			rendered.receiverName = name
			rendered.receiverTy = ty
			rendered.hasReceiver = true
			return
		}
		rendered.slots = append(rendered.slots, paramSlot{name: name, ty: ty})
	}

	instParamAt := func(idx int, fallback types.Ty) types.Ty {
		if idx < len(instParams) {
			return instParams[idx]
		}
		return fallback
	}
	actualAt := func(idx int) *types.Ty {
		if idx >= 0 && idx < len(argTys) {
			return argTys[idx]
		}
		return nil
	}

	if len(sig.Params.Repeat) == 0 {
		idx := 0
		for _, p := range sig.Params.Head {
			ty := chooseDisplayTy(actualAt(idx), p.Ty, instParamAt(idx, p.Ty))
			pushParam(p.Name, formatTyWithOptional(ty, p.Optional))
			idx++
		}
		for _, p := range sig.Params.Tail {
			ty := chooseDisplayTy(actualAt(idx), p.Ty, instParamAt(idx, p.Ty))
			pushParam(p.Name, formatTyWithOptional(ty, p.Optional))
			idx++
		}
		numberSlots(rendered.slots)
		return rendered
	}

	for idx, p := range sig.Params.Head {
		ty := instParamAt(idx, p.Ty)
		pushParam(p.Name, formatTyWithOptional(ty, p.Optional))
	}

	repeatStart := len(sig.Params.Head)
	repeatLen := len(sig.Params.Repeat)

	groups := 1
	tailStart := -1
	if info, ok := completeShapeInfo(sig, totalForShape); ok {
		groups = min(info.repeatGroups, displayedRepeatGroupsCap)
		tailStart = info.tailStart
	}

	// Каждая введённая группа нумеруется: cond1, value1, cond2, value2...
	for n := 1; n <= groups; n++ {
		for rIdx, p := range sig.Params.Repeat {
			name := fmt.Sprintf("%s%d", p.Name, n)
			actualIdx := repeatStart + (n-1)*repeatLen + rIdx
			instIdx := repeatStart + rIdx
			ty := chooseDisplayTy(actualAt(actualIdx), p.Ty, instParamAt(instIdx, p.Ty))
			pushParam(name, formatTyWithOptional(ty, p.Optional))
		}
	}
	rendered.slots = append(rendered.slots, paramSlot{ellipsis: true})
	for tIdx, p := range sig.Params.Tail {
		actualIdx := -1
		if tailStart >= 0 {
			actualIdx = tailStart + tIdx
		}
		instIdx := repeatStart + repeatLen + tIdx
		ty := chooseDisplayTy(actualAt(actualIdx), p.Ty, instParamAt(instIdx, p.Ty))
		pushParam(p.Name, formatTyWithOptional(ty, p.Optional))
	}

	numberSlots(rendered.slots)
	return rendered
}

// numberSlots assigns display indices positionally; the ellipsis
// occupies an index of its own but is never highlightable.
func numberSlots(slots []paramSlot) {
	for i := range slots {
		slots[i].index = i
	}
}

// activeSlotIndex maps the cursor's argument index onto a display slot
// of the fully rendered signature, ellipsis included in the numbering.
func activeSlotIndex(sig *types.FunctionSig, argIndex, totalForShape int) int {
	if len(sig.Params.Repeat) == 0 {
		totalParams := len(sig.Params.Head) + len(sig.Params.Tail)
		if totalParams == 0 {
			return 0
		}
		return min(argIndex, totalParams-1)
	}

	headLen := len(sig.Params.Head)
	repeatLen := len(sig.Params.Repeat)
	tailLen := len(sig.Params.Tail)

	info, ok := completeShapeInfo(sig, totalForShape)
	if !ok {
		return 0
	}
	groups := min(info.repeatGroups, displayedRepeatGroupsCap)

	ellipsisIdx := headLen + repeatLen*groups
	tailDisplayStart := ellipsisIdx + 1

	if argIndex < headLen {
		return argIndex
	}
	if argIndex >= info.tailStart {
		tailIdx := argIndex - info.tailStart
		if tailLen == 0 {
			return ellipsisIdx
		}
		return tailDisplayStart + min(tailIdx, tailLen-1)
	}

	idxInRepeat := argIndex - headLen
	cycle := min(idxInRepeat/repeatLen, groups-1)
	pos := idxInRepeat % repeatLen
	return headLen + cycle*repeatLen + pos
}

// nearestParamIndex resolves an active slot to a highlightable param
// index, stepping off the ellipsis to the closest neighbor.
func nearestParamIndex(slots []paramSlot, slotIdx int) int {
	at := func(i int) (int, bool) {
		if i < 0 || i >= len(slots) || slots[i].ellipsis {
			return 0, false
		}
		return slots[i].index, true
	}
	if idx, ok := at(slotIdx); ok {
		return idx
	}
	for i := slotIdx - 1; i >= 0; i-- {
		if idx, ok := at(i); ok {
			return idx
		}
	}
	for i := slotIdx + 1; i < len(slots); i++ {
		if idx, ok := at(i); ok {
			return idx
		}
	}
	return 0
}

// parseBestEffort parses a fragment and reports whether it produced a
// clean tree.
func parseBestEffort(src string) (ast.Expr, bool) {
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}
	tokens := lexer.Lex(src, reporter)
	expr := parser.New(src, tokens, reporter).ParseExpr()
	return expr, !bag.HasErrors()
}

func inferOneArg(fragment string, ctx *types.Context) *types.Ty {
	trimmed := strings.TrimSpace(fragment)
	if trimmed == "" {
		return nil
	}

	expr, clean := parseBestEffort(trimmed)
	if !clean {
		ty := types.Unknown
		return &ty
	}
	m := sema.NewTypeMap()
	ty := sema.Infer(expr, ctx, m)
	return &ty
}

// argSpans splits the argument list after lparenIdx into spans at
// depth-zero commas, stopping at the matching ')'.
func argSpans(tokens []token.Token, lparenIdx int, sourceLen uint32) []source.Span {
	var spans []source.Span
	if lparenIdx >= len(tokens) {
		return spans
	}
	lparen := tokens[lparenIdx]

	parenDepth, bracketDepth := 0, 0
	start := lparen.Span.End

	for _, t := range tokens[lparenIdx+1:] {
		if t.IsTrivia() || t.Kind == token.EOF {
			continue
		}
		switch t.Kind {
		case token.LParen:
			parenDepth++
		case token.LBracket:
			bracketDepth++
		case token.RParen:
			if parenDepth == 0 && bracketDepth == 0 {
				return append(spans, source.Span{Start: start, End: t.Span.Start})
			}
			if parenDepth > 0 {
				parenDepth--
			}
		case token.RBracket:
			if bracketDepth > 0 {
				bracketDepth--
			}
		case token.Comma:
			if parenDepth == 0 && bracketDepth == 0 {
				spans = append(spans, source.Span{Start: start, End: t.Span.Start})
				start = t.Span.End
			}
		}
	}
	return append(spans, source.Span{Start: start, End: sourceLen})
}

// inferCallArgTysBestEffort infers a type per argument slot: nil for an
// empty slot, Unknown when the fragment does not parse. For method
// style the receiver type is prepended as the leading argument.
func inferCallArgTysBestEffort(text string, tokens []token.Token, ctx *types.Context, callCtx *CallContext, includeReceiverAsArg bool) []*types.Ty {
	if callCtx.LParenIdx >= len(tokens) {
		return nil
	}
	lparen := tokens[callCtx.LParenIdx]
	spans := argSpans(tokens, callCtx.LParenIdx, uint32(len(text)))

	var argTys []*types.Ty

	if includeReceiverAsArg {
		if expr, clean := parseBestEffort(text); clean {
			if call, ok := findMemberCallByLParen(expr, callCtx.Callee, lparen.Span.Start); ok {
				m := sema.NewTypeMap()
				sema.Infer(expr, ctx, m)
				ty := m.Get(call.Receiver)
				argTys = append(argTys, &ty)
			}
		}
	}

	for _, sp := range spans {
		if sp.Start > sp.End || int(sp.End) > len(text) {
			continue
		}
		argTys = append(argTys, inferOneArg(text[sp.Start:sp.End], ctx))
	}
	return argTys
}

// findMemberCallByLParen walks the tree for the smallest member call
// with the given method whose span contains the '(' offset.
func findMemberCallByLParen(root ast.Expr, method string, lparenStart uint32) (*ast.MemberCall, bool) {
	var best *ast.MemberCall

	var visit func(expr ast.Expr)
	visit = func(expr ast.Expr) {
		switch e := expr.(type) {
		case *ast.Group:
			visit(e.Inner)
		case *ast.List:
			for _, item := range e.Elems {
				visit(item)
			}
		case *ast.Unary:
			visit(e.X)
		case *ast.Binary:
			visit(e.Left)
			visit(e.Right)
		case *ast.Ternary:
			visit(e.Cond)
			visit(e.Then)
			visit(e.Else)
		case *ast.Call:
			for _, a := range e.Args {
				visit(a)
			}
		case *ast.MemberCall:
			visit(e.Receiver)
			for _, a := range e.Args {
				visit(a)
			}
			sp := e.Span()
			if e.Method == method && sp.Start <= lparenStart && lparenStart < sp.End {
				if best == nil || sp.Len() <= best.Span().Len() {
					best = e
				}
			}
		}
	}
	visit(root)
	return best, best != nil
}

// inferDotReceiverTy best-effort types the receiver left of the dot the
// cursor completes after. Unknown keeps the full postfix candidate set.
func inferDotReceiverTy(text string, tokens []token.Token, cursor uint32, ctx *types.Context) types.Ty {
	dotIdx, ok := postfixMemberAccessDotIndex(tokens, cursor)
	if !ok {
		return types.Unknown
	}
	recvIdx, ok := prevNonTriviaBefore(tokens, dotIdx)
	if !ok {
		return types.Unknown
	}
	recv := tokens[recvIdx]

	switch recv.Kind {
	case token.NumberLit:
		return types.Number
	case token.StringLit:
		return types.String
	case token.BoolLit:
		return types.Boolean
	case token.RParen:
		return inferParenReceiverTy(text, tokens, recvIdx, ctx)
	}
	// Bare identifiers carry no type information.
	return types.Unknown
}

// inferParenReceiverTy re-parses the parenthesized receiver text that
// ends at the ')' token and infers its type.
func inferParenReceiverTy(text string, tokens []token.Token, rparenIdx int, ctx *types.Context) types.Ty {
	depth := 0
	start := -1
	for i := rparenIdx; i >= 0; i-- {
		switch tokens[i].Kind {
		case token.RParen:
			depth++
		case token.LParen:
			depth--
			if depth == 0 {
				start = i
			}
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return types.Unknown
	}

	lo, hi := tokens[start].Span.Start, tokens[rparenIdx].Span.End
	if int(hi) > len(text) || lo > hi {
		return types.Unknown
	}
	if ty := inferOneArg(text[lo:hi], ctx); ty != nil {
		return *ty
	}
	return types.Unknown
}
