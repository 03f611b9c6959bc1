package ide

import (
	"strings"

	"formula/internal/types"
)

// exprStartItems builds the raw candidate list for an expression start:
// property accessors first, then keyword builtins, then every function
// from the context. Ranking happens later.
func exprStartItems(ctx *types.Context) []Item {
	var items []Item
	if ctx == nil {
		return builtinExprStartItems()
	}

	items = append(items, propVariableItems(ctx)...)
	items = append(items, builtinExprStartItems()...)
	for i := range ctx.Functions {
		fn := &ctx.Functions[i]
		items = append(items, Item{
			Label:      fn.Name + "()",
			Kind:       KindFunction,
			Category:   fn.Category,
			InsertText: fn.Name + "()",
			Detail:     fn.Detail,
			Data:       &ItemData{Kind: DataFunction, Name: fn.Name},
		})
	}
	return items
}

// afterAtomItems offers binary operators plus postfix methods with the
// dot included in the insert text.
func afterAtomItems(ctx *types.Context) []Item {
	ops := [...]string{"==", "!=", ">=", ">", "<=", "<", "+", "-", "*", "/"}

	items := make([]Item, 0, len(ops))
	for _, op := range ops {
		items = append(items, Item{
			Label:      op,
			Kind:       KindOperator,
			InsertText: op,
		})
	}
	return append(items, postfixMethodItems(ctx, true, types.Unknown)...)
}

// afterDotItems completes after an existing '.', so the dot is not part
// of the insert text.
func afterDotItems(ctx *types.Context, receiverTy types.Ty) []Item {
	return postfixMethodItems(ctx, false, receiverTy)
}

func needsTrailingSpace(name string) bool {
	switch name {
	case "not", "true", "false":
		return true
	}
	return false
}

func builtinExprStartItems() []Item {
	names := [...]string{"not", "true", "false"}
	items := make([]Item, 0, len(names))
	for _, name := range names {
		insert := name
		if needsTrailingSpace(name) {
			insert += " "
		}
		items = append(items, Item{
			Label:      name,
			Kind:       KindBuiltin,
			InsertText: insert,
		})
	}
	return items
}

func displayParamName(p types.ParamSig) string {
	if p.Optional {
		return p.Name + "?"
	}
	return p.Name
}

// postfixDetail renders "(receiver).name(rest, ...)" from the shape,
// treating the first head (or repeat) param as the receiver.
func postfixDetail(sig *types.FunctionSig) string {
	var receiver string
	haveReceiver := false
	var callParams []string

	switch {
	case len(sig.Params.Head) > 0:
		receiver = displayParamName(sig.Params.Head[0])
		haveReceiver = true
		for _, p := range sig.Params.Head[1:] {
			callParams = append(callParams, displayParamName(p))
		}
	case len(sig.Params.Repeat) > 0:
		receiver = displayParamName(sig.Params.Repeat[0])
		haveReceiver = true
		for _, p := range sig.Params.Repeat[1:] {
			callParams = append(callParams, displayParamName(p))
		}
	}
	if !haveReceiver {
		return sig.Detail
	}

	if len(sig.Params.Repeat) > 0 {
		if len(sig.Params.Head) > 0 {
			for _, p := range sig.Params.Repeat {
				callParams = append(callParams, displayParamName(p))
			}
		}
		callParams = append(callParams, "...")
	}
	for _, p := range sig.Params.Tail {
		callParams = append(callParams, displayParamName(p))
	}

	return "(" + receiver + ")." + sig.Name + "(" + strings.Join(callParams, ", ") + ")"
}

func postfixFirstParam(sig *types.FunctionSig) (types.ParamSig, bool) {
	if len(sig.Params.Head) > 0 {
		return sig.Params.Head[0], true
	}
	if len(sig.Params.Repeat) > 0 {
		return sig.Params.Repeat[0], true
	}
	return types.ParamSig{}, false
}

func receiverMatchesPostfixFirstParam(sig *types.FunctionSig, receiverTy types.Ty) bool {
	// TODO(any-postfix-receiver): once an explicit any type exists, an
	// unknown receiver should only match first params that accept any.
	if receiverTy.IsUnknown() {
		return true
	}
	first, ok := postfixFirstParam(sig)
	if !ok {
		return false
	}
	return first.Ty.Accepts(receiverTy)
}

func postfixMethodItems(ctx *types.Context, insertDot bool, receiverTy types.Ty) []Item {
	var items []Item
	if ctx == nil {
		return items
	}
	capable := types.PostfixCapableNames()
	for i := range ctx.Functions {
		fn := &ctx.Functions[i]
		if !capable[fn.Name] {
			continue
		}
		if !receiverMatchesPostfixFirstParam(fn, receiverTy) {
			continue
		}
		insert := fn.Name + "()"
		if insertDot {
			insert = "." + insert
		}
		items = append(items, Item{
			Label:      "." + fn.Name + "()",
			Kind:       KindFunction,
			Category:   fn.Category,
			InsertText: insert,
			Detail:     postfixDetail(fn),
			Data:       &ItemData{Kind: DataPostfixMethod, Name: fn.Name},
		})
	}
	return items
}

// propVariableItems lists every context property as a prop("Name")
// insertion, enabled items before disabled ones.
func propVariableItems(ctx *types.Context) []Item {
	if len(ctx.Properties) == 0 {
		return nil
	}
	var enabled, disabled []Item
	for _, prop := range ctx.Properties {
		item := Item{
			Label:          prop.Name,
			Kind:           KindProperty,
			InsertText:     `prop("` + prop.Name + `")`,
			Disabled:       prop.DisabledReason != "",
			DisabledReason: prop.DisabledReason,
			Data:           &ItemData{Kind: DataPropExpr, Name: prop.Name},
		}
		if item.Disabled {
			disabled = append(disabled, item)
		} else {
			enabled = append(enabled, item)
		}
	}
	return append(enabled, disabled...)
}
