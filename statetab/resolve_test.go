package statetab

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hazmap-xyz/go-hazmap/formula"
)

func threeStates(t *testing.T) *Table {
	t.Helper()
	tab, err := NewTable(
		[]string{"healthy", "sick", "death"},
		map[string][]string{"kind": {"transient", "transient", "absorbing"}},
	)
	require.NoError(t, err)
	return tab
}

func colon(from, to formula.Node) formula.Node { return formula.NewOp(":", from, to) }

func TestResolveNames(t *testing.T) {
	tab := threeStates(t)
	pairs, err := ResolvePairs(colon(formula.NewSym("healthy"), formula.NewSym("death")), tab)
	require.NoError(t, err)
	require.Equal(t, []Pair{{From: 1, To: 3}}, pairs)
}

func TestResolveNumericAndZero(t *testing.T) {
	tab := threeStates(t)

	// 0 on the left means every state.
	pairs, err := ResolvePairs(colon(formula.NewNum(0), formula.NewNum(3)), tab)
	require.NoError(t, err)
	require.Equal(t, []Pair{{1, 3}, {2, 3}, {3, 3}}, pairs)

	// Sequence on the left, Cartesian product.
	sel := colon(formula.NewCall("c", formula.NewNum(1), formula.NewNum(2)), formula.NewNum(3))
	pairs, err = ResolvePairs(sel, tab)
	require.NoError(t, err)
	require.Equal(t, []Pair{{1, 3}, {2, 3}}, pairs)
}

func TestResolvePlusJoinedKeepsDuplicates(t *testing.T) {
	tab := threeStates(t)
	sel := formula.NewOp("+",
		colon(formula.NewNum(1), formula.NewNum(3)),
		colon(formula.NewNum(1), formula.NewNum(3)))
	pairs, err := ResolvePairs(sel, tab)
	require.NoError(t, err)
	require.Equal(t, []Pair{{1, 3}, {1, 3}}, pairs)
}

func TestResolveAttributes(t *testing.T) {
	tab := threeStates(t)

	// kind(transient):death selects both transient states.
	sel := colon(
		formula.NewCall("kind", formula.NewSym("transient")),
		formula.NewSym("death"))
	pairs, err := ResolvePairs(sel, tab)
	require.NoError(t, err)
	require.Equal(t, []Pair{{1, 3}, {2, 3}}, pairs)

	// A bare attribute name selects all states.
	sel = colon(formula.NewSym("kind"), formula.NewSym("death"))
	pairs, err = ResolvePairs(sel, tab)
	require.NoError(t, err)
	require.Len(t, pairs, 3)
}

func TestResolveErrors(t *testing.T) {
	tab := threeStates(t)

	// Missing colon.
	_, err := ResolvePairs(formula.NewSym("healthy"), tab)
	require.ErrorIs(t, err, ErrTermMissingColon)

	// Non-integral index.
	_, err = ResolvePairs(colon(formula.NewNum(1.5), formula.NewNum(3)), tab)
	require.ErrorIs(t, err, ErrNonIntegerState)

	// Out of range.
	_, err = ResolvePairs(colon(formula.NewNum(4), formula.NewNum(3)), tab)
	require.ErrorIs(t, err, ErrStateIndexOutOfRange)

	// Unknown attribute call.
	_, err = ResolvePairs(colon(formula.NewCall("color", formula.NewSym("red")), formula.NewNum(3)), tab)
	require.ErrorIs(t, err, ErrAttributeNotFound)

	// Attribute value matching no state.
	_, err = ResolvePairs(colon(formula.NewCall("kind", formula.NewSym("missing")), formula.NewNum(3)), tab)
	require.ErrorIs(t, err, ErrAttributeValueNotFound)
	require.Contains(t, err.Error(), "missing")
}

func TestResolveUnknownStateNamesOffender(t *testing.T) {
	// An unknown state name is reported by name.
	tab := threeStates(t)
	_, err := ResolvePairs(colon(formula.NewSym("cured"), formula.NewSym("death")), tab)
	if !errors.Is(err, ErrStateNameNotFound) {
		t.Fatalf("err = %v, want ErrStateNameNotFound", err)
	}
	if !strings.Contains(err.Error(), "cured") {
		t.Errorf("error should name the unmatched value, got %q", err.Error())
	}
}
