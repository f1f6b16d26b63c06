package formula

import (
	"sort"
	"strings"
)

// TermList is the additive expansion of a core formula: an ordered
// list of terms, each identified by its set of participating
// variables, plus an intercept flag.
type TermList struct {
	// Terms holds one sorted variable-name set per term, in order of
	// first appearance.
	Terms [][]string

	// Intercept reports whether the formula carries a baseline
	// intercept.
	Intercept bool
}

// Terms expands a core formula into its term list. The intercept is
// present unless explicitly removed with -1 or 0.
func Terms(core Node) TermList {
	return Combine(TermList{Intercept: true}, core)
}

// Combine applies a core formula onto a base term list using
// explicit-removal semantics: "+" appends terms not already present,
// a leading or binary "-" removes, and 1 / -1 / 0 control the
// intercept. The base list is not modified.
func Combine(base TermList, core Node) TermList {
	out, _ := CombineDropped(base, core)
	return out
}

// CombineDropped is Combine, additionally reporting the terms that
// were present at some point during combination but are absent from
// the result. The compiler zeroes those cells for the line's
// transitions.
func CombineDropped(base TermList, core Node) (TermList, [][]string) {
	tl := TermList{Intercept: base.Intercept}
	tl.Terms = append(tl.Terms, base.Terms...)

	var removed [][]string
	walkTerms(core, false, &tl, &removed)

	// A term both removed and still present (re-added later) did not
	// actually drop.
	dropped := removed[:0]
	for _, t := range removed {
		if termIndex(tl.Terms, t) < 0 {
			dropped = append(dropped, t)
		}
	}
	return tl, dropped
}

// walkTerms folds one formula node into the accumulating term list.
// neg is true under an odd number of "-" operators.
func walkTerms(n Node, neg bool, tl *TermList, removed *[][]string) {
	switch t := n.(type) {
	case *Op:
		switch t.Name {
		case "+":
			for _, a := range t.Args {
				walkTerms(a, neg, tl, removed)
			}
			return
		case "-":
			if len(t.Args) == 2 {
				walkTerms(t.Args[0], neg, tl, removed)
				walkTerms(t.Args[1], !neg, tl, removed)
			} else if len(t.Args) == 1 {
				walkTerms(t.Args[0], !neg, tl, removed)
			}
			return
		case "()":
			if len(t.Args) == 1 {
				walkTerms(t.Args[0], neg, tl, removed)
			}
			return
		case "*":
			// a*b crosses: a + b + a:b.
			if len(t.Args) == 2 {
				left := expandTerms(t.Args[0])
				right := expandTerms(t.Args[1])
				for _, v := range left {
					applyTerm(v, neg, tl, removed)
				}
				for _, v := range right {
					applyTerm(v, neg, tl, removed)
				}
				for _, l := range left {
					for _, r := range right {
						applyTerm(unionVars(l, r), neg, tl, removed)
					}
				}
			}
			return
		case ":", "in":
			if len(t.Args) == 2 {
				for _, l := range expandTerms(t.Args[0]) {
					for _, r := range expandTerms(t.Args[1]) {
						applyTerm(unionVars(l, r), neg, tl, removed)
					}
				}
			}
			return
		}
	case *Num:
		switch t.Value {
		case 0:
			tl.Intercept = false
		case 1:
			tl.Intercept = !neg
		case -1:
			tl.Intercept = neg
		}
		return
	case *Sym:
		applyTerm([]string{t.Name}, neg, tl, removed)
		return
	case *Call:
		// An opaque single variable named by its rendering.
		applyTerm([]string{t.String()}, neg, tl, removed)
		return
	}
	if n != nil {
		applyTerm([]string{n.String()}, neg, tl, removed)
	}
}

// expandTerms returns the additive terms of a sub-expression, for use
// as interaction operands. Removals inside an interaction operand are
// ignored.
func expandTerms(n Node) [][]string {
	sub := TermList{}
	var rm [][]string
	walkTerms(n, false, &sub, &rm)
	return sub.Terms
}

func applyTerm(vars []string, neg bool, tl *TermList, removed *[][]string) {
	i := termIndex(tl.Terms, vars)
	if neg {
		if i >= 0 {
			tl.Terms = append(tl.Terms[:i], tl.Terms[i+1:]...)
			*removed = append(*removed, vars)
		}
		return
	}
	if i < 0 {
		tl.Terms = append(tl.Terms, vars)
	}
}

// termIndex locates a variable set within a term list, or -1.
func termIndex(terms [][]string, vars []string) int {
	key := termKey(vars)
	for i, t := range terms {
		if termKey(t) == key {
			return i
		}
	}
	return -1
}

func termKey(vars []string) string {
	s := append([]string(nil), vars...)
	sort.Strings(s)
	return strings.Join(s, "\x00")
}

func unionVars(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, v := range b {
		found := false
		for _, w := range out {
			if w == v {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
