package formula

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTermsAdditive(t *testing.T) {
	tl := Terms(NewOp("+", NewSym("age"), NewSym("sex")))
	require.True(t, tl.Intercept)
	require.Equal(t, [][]string{{"age"}, {"sex"}}, tl.Terms)
}

func TestTermsInterceptRemoval(t *testing.T) {
	tl := Terms(NewOp("-", NewSym("age"), NewNum(1)))
	require.False(t, tl.Intercept)
	require.Equal(t, [][]string{{"age"}}, tl.Terms)

	tl = Terms(NewOp("+", NewSym("age"), NewNum(0)))
	require.False(t, tl.Intercept)

	// A literal -1, as the JSON codec delivers it, removes the
	// intercept just like the unary-minus form.
	tl = Terms(NewOp("+", NewSym("age"), NewNum(-1)))
	require.False(t, tl.Intercept)
	require.Equal(t, [][]string{{"age"}}, tl.Terms)

	tl = Terms(NewOp("+", NewSym("age"), NewOp("-", NewNum(1))))
	require.False(t, tl.Intercept)
}

func TestTermsCrossing(t *testing.T) {
	// a*b expands to a + b + a:b.
	tl := Terms(NewOp("*", NewSym("a"), NewSym("b")))
	require.Equal(t, [][]string{{"a"}, {"b"}, {"a", "b"}}, tl.Terms)
}

func TestTermsInteractionDistributes(t *testing.T) {
	// (a+b):c expands to a:c + b:c.
	tl := Terms(NewOp(":", Group(NewOp("+", NewSym("a"), NewSym("b"))), NewSym("c")))
	require.Equal(t, [][]string{{"a", "c"}, {"b", "c"}}, tl.Terms)
}

func TestTermsCallIsOpaque(t *testing.T) {
	tl := Terms(NewOp("+", NewCall("log", NewSym("age")), NewSym("sex")))
	require.Equal(t, [][]string{{"log(age)"}, {"sex"}}, tl.Terms)
}

func TestCombineDropped(t *testing.T) {
	base := Terms(NewOp("+", NewSym("age"), NewSym("sex")))
	combined, dropped := CombineDropped(base, NewOp("-", NewSym("x"), NewSym("age")))
	require.Equal(t, [][]string{{"sex"}, {"x"}}, combined.Terms)
	require.Equal(t, [][]string{{"age"}}, dropped)
	require.True(t, combined.Intercept)
}

func TestCombineReAddedTermIsNotDropped(t *testing.T) {
	base := Terms(NewSym("age"))
	combined, dropped := CombineDropped(base, NewOp("+", NewOp("-", NewSym("age")), NewSym("age")))
	require.Empty(t, dropped)
	require.Equal(t, [][]string{{"age"}}, combined.Terms)
}

func TestCatalogMatchBySignature(t *testing.T) {
	cat, err := NewCatalog([][]string{{"age"}, {"sex"}, {"age", "trt"}})
	require.NoError(t, err)
	require.Equal(t, 3, cat.Len())

	// Matching ignores variable order inside a term.
	i, ok := cat.Match([]string{"trt", "age"})
	require.True(t, ok)
	require.Equal(t, 3, i)

	// Empty set is the baseline.
	i, ok = cat.Match(nil)
	require.True(t, ok)
	require.Equal(t, 0, i)

	_, ok = cat.Match([]string{"weight"})
	require.False(t, ok)

	_, ok = cat.Match([]string{"age", "sex"})
	require.False(t, ok)
}

func TestCatalogPoolDeduplicates(t *testing.T) {
	def := Terms(NewSym("age"))
	line := Terms(NewOp("+", NewSym("age"), NewSym("sex")))
	cat, err := Pool(def, line)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	require.Equal(t, []string{"(Baseline)", "age", "sex"}, cat.Labels())
}
