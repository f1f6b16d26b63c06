package formula

import (
	"sort"
	"strings"

	"github.com/holiman/uint256"
)

// Signature identifies a term by the fixed-order bitset of its
// participating variables. Interaction-term labels print in an order
// that depends on how the formula was built, so matching by printed
// name is unsafe; the bitset is order-independent.
type Signature struct {
	bits uint256.Int
}

// Equal reports whether two signatures cover the same variable set.
func (s Signature) Equal(o Signature) bool { return s.bits.Eq(&o.bits) }

// IsBaseline reports whether the signature has no variables, i.e.
// denotes the intercept term.
func (s Signature) IsBaseline() bool { return s.bits.IsZero() }

// Term is one entry of a catalog: a covariate effect with its label,
// participating variables, and canonical signature.
type Term struct {
	Label string
	Vars  []string
	sig   Signature
}

// Signature returns the term's canonical signature.
func (t Term) Signature() Signature { return t.sig }

// Catalog is the ordered, de-duplicated list of terms spanning the
// default formula and every covariate line. Term indices run 1..Len();
// index 0 is reserved for the baseline hazard.
type Catalog struct {
	varIndex map[string]int
	vars     []string
	terms    []Term
}

// NewCatalog builds a catalog from per-term variable lists, normally
// supplied by a term-extraction collaborator. Variables are numbered
// in order of first appearance; duplicate terms collapse to their
// first occurrence.
func NewCatalog(termVars [][]string) (*Catalog, error) {
	c := &Catalog{varIndex: make(map[string]int)}
	for _, vars := range termVars {
		if err := c.add(vars); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Pool builds a catalog spanning the default formula's terms and those
// of every line, in input order.
func Pool(def TermList, lines ...TermList) (*Catalog, error) {
	c := &Catalog{varIndex: make(map[string]int)}
	for _, vars := range def.Terms {
		if err := c.add(vars); err != nil {
			return nil, err
		}
	}
	for _, tl := range lines {
		for _, vars := range tl.Terms {
			if err := c.add(vars); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Catalog) add(vars []string) error {
	sig, err := c.intern(vars)
	if err != nil {
		return err
	}
	for _, t := range c.terms {
		if t.sig.Equal(sig) {
			return nil
		}
	}
	sorted := append([]string(nil), vars...)
	sort.Strings(sorted)
	c.terms = append(c.terms, Term{
		Label: strings.Join(sorted, ":"),
		Vars:  sorted,
		sig:   sig,
	})
	return nil
}

// intern assigns bit positions to unseen variables and returns the
// signature of the given set.
func (c *Catalog) intern(vars []string) (Signature, error) {
	var sig Signature
	for _, v := range vars {
		i, ok := c.varIndex[v]
		if !ok {
			i = len(c.vars)
			if i >= 256 {
				return Signature{}, ErrTooManyVariables
			}
			c.varIndex[v] = i
			c.vars = append(c.vars, v)
		}
		bit := new(uint256.Int).Lsh(uint256.NewInt(1), uint(i))
		sig.bits.Or(&sig.bits, bit)
	}
	return sig, nil
}

// Len returns the number of covariate terms, excluding the baseline.
func (c *Catalog) Len() int { return len(c.terms) }

// Term returns the 1-based catalog entry.
func (c *Catalog) Term(i int) Term { return c.terms[i-1] }

// Labels returns the term labels in catalog order, baseline first.
func (c *Catalog) Labels() []string {
	out := make([]string, 0, len(c.terms)+1)
	out = append(out, "(Baseline)")
	for _, t := range c.terms {
		out = append(out, t.Label)
	}
	return out
}

// Match resolves a variable set to its 1-based term index. An empty
// set matches the baseline, index 0. The second return value is false
// when the set involves an unknown variable or no catalog term has
// that signature.
func (c *Catalog) Match(vars []string) (int, bool) {
	if len(vars) == 0 {
		return 0, true
	}
	var sig Signature
	for _, v := range vars {
		i, ok := c.varIndex[v]
		if !ok {
			return 0, false
		}
		bit := new(uint256.Int).Lsh(uint256.NewInt(1), uint(i))
		sig.bits.Or(&sig.bits, bit)
	}
	for i, t := range c.terms {
		if t.sig.Equal(sig) {
			return i + 1, true
		}
	}
	return 0, false
}
