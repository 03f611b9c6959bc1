package types

import "sync"

// p is a required parameter slot.
func p(name string, ty Ty) ParamSig {
	return ParamSig{Name: name, Ty: ty}
}

// opt is an optional parameter slot.
func opt(name string, ty Ty) ParamSig {
	return ParamSig{Name: name, Ty: ty, Optional: true}
}

// fixed is a head-only shape with no repeat group and no tail.
func fixed(params ...ParamSig) ParamShape {
	return NewParamShape(params, nil, nil)
}

func fn(cat FunctionCategory, detail, name string, params ParamShape, ret Ty) FunctionSig {
	return NewBuiltin(cat, detail, name, params, ret, nil)
}

func fnG(cat FunctionCategory, detail string, generics []GenericParam, name string, params ParamShape, ret Ty) FunctionSig {
	return NewBuiltin(cat, detail, name, params, ret, generics)
}

var builtinsOnce = sync.OnceValue(buildBuiltins)

// Builtins returns the builtin function registry. The returned slice is
// shared; callers must not mutate it.
func Builtins() []FunctionSig {
	return builtinsOnce()
}

var postfixNamesOnce = sync.OnceValue(func() map[string]bool {
	names := make(map[string]bool)
	for i := range Builtins() {
		if Builtins()[i].IsPostfixCapable() {
			names[Builtins()[i].Name] = true
		}
	}
	return names
})

// PostfixCapableNames returns the set of builtin names eligible for
// postfix-call sugar: receiver.name(args...) read as
// name(receiver, args...). The returned map is shared; callers must
// not mutate it.
func PostfixCapableNames() map[string]bool {
	return postfixNamesOnce()
}

func buildBuiltins() []FunctionSig {
	t0 := GenericOf(0)
	t1 := GenericOf(1)
	listT0 := ListOf(t0)
	plainT0 := []GenericParam{{ID: 0, Kind: GenericPlain}}
	plainT0T1 := []GenericParam{{ID: 0, Kind: GenericPlain}, {ID: 1, Kind: GenericPlain}}
	variantT0 := []GenericParam{{ID: 0, Kind: GenericVariant}}
	numberOrList := UnionOf(Number, ListOf(Number))
	anyList := ListOf(Unknown)

	return []FunctionSig{
		// General / logic.
		fnG(CategoryGeneral, "if(condition, then, else)", plainT0, "if",
			fixed(p("condition", Boolean), p("then", t0), p("else", t0)), t0),
		fnG(CategoryGeneral, "ifs(condition, value, ..., default)", variantT0, "ifs",
			NewParamShape(nil,
				[]ParamSig{p("condition", Boolean), p("value", t0)},
				[]ParamSig{p("default", t0)}),
			t0),
		fnG(CategoryGeneral, "empty(value)", plainT0, "empty", fixed(p("value", t0)), Boolean),
		fnG(CategoryGeneral, "format(value)", plainT0, "format", fixed(p("value", t0)), String),
		fnG(CategoryGeneral, "toNumber(value)", plainT0, "toNumber", fixed(p("value", t0)), Number),

		// Text.
		fnG(CategoryText, "length(text|any[])", plainT0, "length",
			fixed(p("value", UnionOf(String, listT0))), Number),
		fn(CategoryText, "substring(text, start, end?)", "substring",
			fixed(p("text", String), p("start", Number), opt("end", Number)), String),
		fn(CategoryText, "contains(text, search)", "contains",
			fixed(p("text", String), p("search", String)), Boolean),
		fn(CategoryText, "test(text, regex)", "test",
			fixed(p("text", String), p("regex", String)), Boolean),
		fn(CategoryText, "match(text, regex)", "match",
			fixed(p("text", String), p("regex", String)), ListOf(String)),
		fn(CategoryText, "replace(text, regex, replacement)", "replace",
			fixed(p("text", String), p("regex", String), p("replacement", String)), String),
		fn(CategoryText, "replaceAll(text, regex, replacement)", "replaceAll",
			fixed(p("text", String), p("regex", String), p("replacement", String)), String),
		fn(CategoryText, "lower(text)", "lower", fixed(p("text", String)), String),
		fn(CategoryText, "upper(text)", "upper", fixed(p("text", String)), String),
		fn(CategoryText, "repeat(text, times)", "repeat",
			fixed(p("text", String), p("times", Number)), String),
		fn(CategoryText, "link(label, url)", "link",
			fixed(p("label", String), p("url", String)), String),
		fn(CategoryText, "style(text, styleOrColor, ...)", "style",
			NewParamShape([]ParamSig{p("text", String)}, []ParamSig{p("styles", String)}, nil),
			String),
		fn(CategoryText, "unstyle(text, style?)", "unstyle",
			fixed(p("text", String), opt("styles", String)), String),
		fn(CategoryText, "trim(text)", "trim", fixed(p("text", String)), String),

		// Number.
		fn(CategoryNumber, "add(a, b)", "add", fixed(p("a", Number), p("b", Number)), Number),
		fn(CategoryNumber, "subtract(a, b)", "subtract", fixed(p("a", Number), p("b", Number)), Number),
		fn(CategoryNumber, "multiply(a, b)", "multiply", fixed(p("a", Number), p("b", Number)), Number),
		fn(CategoryNumber, "divide(a, b)", "divide", fixed(p("a", Number), p("b", Number)), Number),
		fn(CategoryNumber, "mod(a, b)", "mod", fixed(p("a", Number), p("b", Number)), Number),
		fn(CategoryNumber, "pow(base, exp)", "pow", fixed(p("base", Number), p("exp", Number)), Number),
		fn(CategoryNumber, "min(number|number[], ...)", "min",
			NewParamShape(nil, []ParamSig{p("values", numberOrList)}, nil), Number),
		fn(CategoryNumber, "max(number|number[], ...)", "max",
			NewParamShape(nil, []ParamSig{p("values", numberOrList)}, nil), Number),
		fn(CategoryNumber, "sum(number|number[], ...)", "sum",
			NewParamShape(nil, []ParamSig{p("values", numberOrList)}, nil), Number),
		fn(CategoryNumber, "median(number|number[], ...)", "median",
			NewParamShape(nil, []ParamSig{p("values", numberOrList)}, nil), Number),
		fn(CategoryNumber, "mean(number|number[], ...)", "mean",
			NewParamShape(nil, []ParamSig{p("values", numberOrList)}, nil), Number),
		fn(CategoryNumber, "abs(number)", "abs", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "round(number, places?)", "round",
			fixed(p("value", Number), opt("places", Number)), Number),
		fn(CategoryNumber, "ceil(number)", "ceil", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "floor(number)", "floor", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "sqrt(number)", "sqrt", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "cbrt(number)", "cbrt", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "exp(number)", "exp", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "ln(number)", "ln", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "log10(number)", "log10", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "log2(number)", "log2", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "sign(number)", "sign", fixed(p("value", Number)), Number),
		fn(CategoryNumber, "pi()", "pi", fixed(), Number),
		fn(CategoryNumber, "e()", "e", fixed(), Number),

		// Date.
		fn(CategoryDate, "now()", "now", fixed(), Date),
		fn(CategoryDate, "today()", "today", fixed(), Date),
		fn(CategoryDate, "minute(date)", "minute", fixed(p("date", Date)), Number),
		fn(CategoryDate, "hour(date)", "hour", fixed(p("date", Date)), Number),
		fn(CategoryDate, "day(date)", "day", fixed(p("date", Date)), Number),
		fn(CategoryDate, "date(date)", "date", fixed(p("date", Date)), Number),
		fn(CategoryDate, "week(date)", "week", fixed(p("date", Date)), Number),
		fn(CategoryDate, "month(date)", "month", fixed(p("date", Date)), Number),
		fn(CategoryDate, "year(date)", "year", fixed(p("date", Date)), Number),
		fn(CategoryDate, "dateAdd(date, amount, unit)", "dateAdd",
			fixed(p("date", Date), p("amount", Number), p("unit", String)), Date),
		fn(CategoryDate, "dateSubtract(date, amount, unit)", "dateSubtract",
			fixed(p("date", Date), p("amount", Number), p("unit", String)), Date),
		fn(CategoryDate, "dateBetween(a, b, unit)", "dateBetween",
			fixed(p("a", Date), p("b", Date), p("unit", String)), Number),
		fn(CategoryDate, "dateRange(start, end)", "dateRange",
			fixed(p("start", Date), p("end", Date)), Date),
		fn(CategoryDate, "dateStart(range)", "dateStart", fixed(p("range", Date)), Date),
		fn(CategoryDate, "dateEnd(range)", "dateEnd", fixed(p("range", Date)), Date),
		fn(CategoryDate, "timestamp(date)", "timestamp", fixed(p("date", Date)), Number),
		fn(CategoryDate, "fromTimestamp(timestampMs)", "fromTimestamp",
			fixed(p("timestamp", Number)), Date),
		fn(CategoryDate, "formatDate(date, format)", "formatDate",
			fixed(p("date", Date), p("format", String)), String),
		fn(CategoryDate, "parseDate(text)", "parseDate", fixed(p("text", String)), Date),

		// People.
		fnG(CategoryPeople, "name(person)", plainT0, "name", fixed(p("person", t0)), String),
		fnG(CategoryPeople, "email(person)", plainT0, "email", fixed(p("person", t0)), String),

		// List.
		fnG(CategoryList, "at(list, index)", plainT0, "at",
			fixed(p("list", listT0), p("index", Number)), t0),
		fnG(CategoryList, "first(list)", plainT0, "first", fixed(p("list", listT0)), t0),
		fnG(CategoryList, "last(list)", plainT0, "last", fixed(p("list", listT0)), t0),
		fnG(CategoryList, "slice(list, start, end?)", plainT0, "slice",
			fixed(p("list", listT0), p("start", Number), opt("end", Number)), listT0),
		fnG(CategoryList, "concat(lists1, lists2, ...)", plainT0, "concat",
			NewParamShape([]ParamSig{p("lists1", listT0)}, []ParamSig{p("listsN", listT0)}, nil),
			listT0),
		fnG(CategoryList, "sort(list)", plainT0, "sort", fixed(p("list", listT0)), listT0),
		fnG(CategoryList, "reverse(list)", plainT0, "reverse", fixed(p("list", listT0)), listT0),
		fnG(CategoryList, "join(list, separator)", plainT0, "join",
			fixed(p("list", listT0), p("separator", String)), String),
		fn(CategoryList, "split(text, separator)", "split",
			fixed(p("text", String), p("separator", String)), ListOf(String)),
		fnG(CategoryList, "unique(list)", plainT0, "unique", fixed(p("list", listT0)), listT0),
		fnG(CategoryList, "includes(list, value)", plainT0, "includes",
			fixed(p("list", listT0), p("value", t0)), Boolean),
		fnG(CategoryList, "find(list, predicate)", plainT0, "find",
			fixed(p("list", listT0), p("predicate", t0)), t0),
		fnG(CategoryList, "findIndex(list, predicate)", plainT0, "findIndex",
			fixed(p("list", listT0), p("predicate", t0)), Number),
		fnG(CategoryList, "filter(list, predicate)", plainT0, "filter",
			fixed(p("list", listT0), p("predicate", t0)), listT0),
		fnG(CategoryList, "some(list, predicate)", plainT0, "some",
			fixed(p("list", listT0), p("predicate", t0)), Boolean),
		fnG(CategoryList, "every(list, predicate)", plainT0, "every",
			fixed(p("list", listT0), p("predicate", t0)), Boolean),
		fnG(CategoryList, "map(list, mapper)", plainT0T1, "map",
			fixed(p("list", listT0), p("mapper", t1)), ListOf(t1)),
		// flat needs depth-sensitive typing for a precise element type;
		// any list in, any[] out.
		fnG(CategoryList, "flat(list)", plainT0, "flat", fixed(p("list", listT0)), anyList),

		// Special / utility.
		fnG(CategorySpecial, "id(page?)", plainT0, "id", fixed(opt("page", t0)), String),
		fnG(CategorySpecial, "equal(a, b)", plainT0, "equal",
			fixed(p("a", t0), p("b", t0)), Boolean),
		fnG(CategorySpecial, "unequal(a, b)", plainT0, "unequal",
			fixed(p("a", t0), p("b", t0)), Boolean),
		fnG(CategorySpecial, "let(var, value, expr)", plainT0, "let",
			fixed(p("var", t0), p("value", t0), p("expr", t0)), t0),
		fnG(CategorySpecial, "lets(var1, value1, ..., expr)", plainT0, "lets",
			NewParamShape(nil,
				[]ParamSig{p("var", t0), p("value", t0)},
				[]ParamSig{p("expr", t0)}),
			t0),
	}
}
