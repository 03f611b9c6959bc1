package types_test

import (
	"testing"

	"formula/internal/types"
)

func TestAcceptsRules(t *testing.T) {
	numberOrList := types.UnionOf(types.Number, types.ListOf(types.Number))

	cases := []struct {
		name     string
		expected types.Ty
		actual   types.Ty
		want     bool
	}{
		{"unknown actual always accepted", types.Number, types.Unknown, true},
		{"expected generic is wildcard", types.GenericOf(0), types.String, true},
		{"actual generic does not wildcard", types.Number, types.GenericOf(0), false},
		{"exact match", types.Date, types.Date, true},
		{"mismatch", types.Number, types.String, false},
		{"union branch accepts single", numberOrList, types.Number, true},
		{"union branch accepts list", numberOrList, types.ListOf(types.Number), true},
		{"union rejects stranger", numberOrList, types.String, false},
		{"single accepts union when all members fit", types.Number, types.UnionOf(types.Number), true},
		{
			"single rejects union with stray member",
			types.Number,
			types.Ty{Kind: types.KindUnion, Members: []types.Ty{types.Number, types.String}},
			false,
		},
		{
			"union accepts union by containment",
			types.UnionOf(types.Number, types.String, types.Date),
			types.Ty{Kind: types.KindUnion, Members: []types.Ty{types.Number, types.String}},
			true,
		},
		{"list covariant", types.ListOf(numberOrList), types.ListOf(types.Number), true},
		{"list invariant on mismatch", types.ListOf(types.Number), types.ListOf(types.String), false},
		{"unknown-element list accepts via element unknown", types.ListOf(types.Number), types.ListOf(types.Unknown), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.expected.Accepts(tc.actual); got != tc.want {
				t.Fatalf("(%s).Accepts(%s) = %v, want %v", tc.expected, tc.actual, got, tc.want)
			}
		})
	}
}

func TestNormalizeUnion(t *testing.T) {
	t.Run("empty is unknown", func(t *testing.T) {
		if got := types.NormalizeUnion(nil); !got.IsUnknown() {
			t.Fatalf("got %s", got)
		}
	})
	t.Run("singleton collapses", func(t *testing.T) {
		got := types.NormalizeUnion([]types.Ty{types.Number})
		if !got.Equal(types.Number) {
			t.Fatalf("got %s", got)
		}
	})
	t.Run("flattens dedups and sorts", func(t *testing.T) {
		got := types.NormalizeUnion([]types.Ty{
			types.String,
			types.UnionOf(types.Number, types.String),
			types.Null,
			types.Number,
		})
		want := types.Ty{Kind: types.KindUnion, Members: []types.Ty{
			types.Null, types.Number, types.String,
		}}
		if !got.Equal(want) {
			t.Fatalf("got %s, want %s", got, want)
		}
	})
	t.Run("order is canonical regardless of input order", func(t *testing.T) {
		a := types.NormalizeUnion([]types.Ty{types.Date, types.Boolean, types.ListOf(types.Number)})
		b := types.NormalizeUnion([]types.Ty{types.ListOf(types.Number), types.Date, types.Boolean})
		if !a.Equal(b) {
			t.Fatalf("%s != %s", a, b)
		}
		if a.Members[0].Kind != types.KindBoolean {
			t.Fatalf("boolean must sort before date and list, got %s", a)
		}
	})
}

func TestTyString(t *testing.T) {
	got := types.UnionOf(types.Number, types.ListOf(types.Number)).String()
	if got != "Union([Number, List(Number)])" {
		t.Fatalf("String() = %q", got)
	}
}
