package statetab

import (
	"fmt"
	"math"
	"strconv"

	"fortio.org/safecast"

	"github.com/hazmap-xyz/go-hazmap/formula"
)

// Pair is one ordered from/to transition, with 1-based state indices.
type Pair struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ResolvePairs evaluates a transition selector against the table. The
// selector is a "+"-joined list of from:to terms; each side resolves
// independently and the term expands to the Cartesian product of its
// from-set and to-set. Terms are concatenated in order and duplicate
// pairs are kept.
func ResolvePairs(selector formula.Node, t *Table) ([]Pair, error) {
	matchers := t.attrMatchers()

	var pairs []Pair
	for _, term := range selectorTerms(selector) {
		op, ok := colonTerm(term)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTermMissingColon, term.String())
		}
		from, err := resolveSide(op.Args[0], t, matchers)
		if err != nil {
			return nil, err
		}
		to, err := resolveSide(op.Args[1], t, matchers)
		if err != nil {
			return nil, err
		}
		for _, f := range from {
			for _, s := range to {
				pairs = append(pairs, Pair{From: f, To: s})
			}
		}
	}
	return pairs, nil
}

// selectorTerms splits the selector on top-level "+", unwrapping
// parenthesized groups.
func selectorTerms(n formula.Node) []formula.Node {
	if op, ok := n.(*formula.Op); ok {
		switch {
		case op.Name == "+" && len(op.Args) == 2:
			return append(selectorTerms(op.Args[0]), selectorTerms(op.Args[1])...)
		case op.Name == "+" && len(op.Args) == 1:
			return selectorTerms(op.Args[0])
		case op.Name == "()" && len(op.Args) == 1:
			return selectorTerms(op.Args[0])
		}
	}
	return []formula.Node{n}
}

func colonTerm(n formula.Node) (*formula.Op, bool) {
	if op, ok := n.(*formula.Op); ok {
		if op.Name == ":" && len(op.Args) == 2 {
			return op, true
		}
		if op.Name == "()" && len(op.Args) == 1 {
			return colonTerm(op.Args[0])
		}
	}
	return nil, false
}

// attrMatcher selects the 1-based indices of states whose attribute
// takes any of the requested values.
type attrMatcher func(values []string) ([]int, error)

// attrMatchers builds a static lookup table from attribute name to
// matcher, one per attribute column of the table.
func (t *Table) attrMatchers() map[string]attrMatcher {
	m := make(map[string]attrMatcher, len(t.attrNames))
	for _, name := range t.attrNames {
		attr := name
		m[attr] = func(values []string) ([]int, error) {
			var out []int
			seen := make(map[int]bool)
			for _, v := range values {
				matched := false
				for i, s := range t.states {
					if s.Attrs[attr] == v {
						matched = true
						if !seen[i+1] {
							seen[i+1] = true
							out = append(out, i+1)
						}
					}
				}
				if !matched {
					return nil, fmt.Errorf("%w: %s(%s)", ErrAttributeValueNotFound, attr, v)
				}
			}
			return out, nil
		}
	}
	return m
}

// resolveSide evaluates one side of a from:to term into a list of
// 1-based state indices.
func resolveSide(n formula.Node, t *Table, matchers map[string]attrMatcher) ([]int, error) {
	switch x := n.(type) {
	case *formula.Num:
		if x.Value == 0 {
			return t.allStates(), nil
		}
		return t.numericStates(x.Value)

	case *formula.Sym:
		if _, ok := matchers[x.Name]; ok {
			// A zero-argument attribute reference selects all states.
			return t.allStates(), nil
		}
		if i, ok := t.Index(x.Name); ok {
			return []int{i}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrStateNameNotFound, x.Name)

	case *formula.Str:
		if i, ok := t.Index(x.Value); ok {
			return []int{i}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrStateNameNotFound, x.Value)

	case *formula.Call:
		if m, ok := matchers[x.Name]; ok {
			if len(x.Args) == 0 {
				return t.allStates(), nil
			}
			values := make([]string, len(x.Args))
			for i, a := range x.Args {
				values[i] = valueString(a)
			}
			return m(values)
		}
		if x.Name == "c" {
			var out []int
			for _, a := range x.Args {
				idx, err := resolveSide(a, t, matchers)
				if err != nil {
					return nil, err
				}
				out = append(out, idx...)
			}
			return out, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrAttributeNotFound, x.Name)

	case *formula.Op:
		if x.Name == "()" && len(x.Args) == 1 {
			return resolveSide(x.Args[0], t, matchers)
		}
		if x.Name == "-" && len(x.Args) == 1 {
			if num, ok := x.Args[0].(*formula.Num); ok {
				return t.numericStates(-num.Value)
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrStateNameNotFound, n.String())
}

func (t *Table) allStates() []int {
	out := make([]int, len(t.states))
	for i := range t.states {
		out[i] = i + 1
	}
	return out
}

// numericStates converts a numeric state reference to an index,
// rejecting non-integral values and range violations.
func (t *Table) numericStates(v float64) ([]int, error) {
	i, err := safecast.Convert[int](v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNonIntegerState, strconv.FormatFloat(v, 'g', -1, 64))
	}
	if i < 1 || i > len(t.states) {
		return nil, fmt.Errorf("%w: %d (table has %d states)", ErrStateIndexOutOfRange, i, len(t.states))
	}
	return []int{i}, nil
}

// valueString renders an attribute selector argument for matching.
func valueString(n formula.Node) string {
	switch x := n.(type) {
	case *formula.Str:
		return x.Value
	case *formula.Sym:
		return x.Name
	case *formula.Num:
		if x.Value == math.Trunc(x.Value) {
			return strconv.FormatInt(int64(x.Value), 10)
		}
		return strconv.FormatFloat(x.Value, 'g', -1, 64)
	default:
		return n.String()
	}
}
