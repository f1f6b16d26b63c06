package compile

import (
	"fmt"
	"strings"

	"github.com/hazmap-xyz/go-hazmap/formula"
	"github.com/hazmap-xyz/go-hazmap/statetab"
)

// InitSpec is one pending initial-value request, recorded while lines
// are processed and validated only once the final coefficient layout
// is known.
type InitSpec struct {
	// Terms holds the 1-based catalog indices of the line's terms.
	Terms []int

	// Pairs holds the line's resolved transitions.
	Pairs []statetab.Pair

	// Values are the requested initial coefficient values.
	Values []float64

	// Coefs receives the resolved coefficient ids during validation.
	Coefs []int
}

// mapBuilder fills the full (nterm+1) x nstate x nstate term map. The
// parallel dmap arena holds one unique fresh id per cell and is the
// only source of new group ids, so independently stamped cells can
// never collide.
type mapBuilder struct {
	cat   *formula.Catalog
	tab   *statetab.Table
	def   formula.TermList
	tmap  [][][]int
	dmap  [][][]int
	inits []InitSpec
}

func newMapBuilder(cat *formula.Catalog, tab *statetab.Table, def formula.TermList) (*mapBuilder, error) {
	nterm := cat.Len()
	ns := tab.Len()
	b := &mapBuilder{
		cat:  cat,
		tab:  tab,
		def:  def,
		tmap: newCube(nterm+1, ns),
		dmap: newCube(nterm+1, ns),
	}
	id := 1
	for k := 0; k <= nterm; k++ {
		for i := 0; i < ns; i++ {
			for j := 0; j < ns; j++ {
				b.dmap[k][i][j] = id
				id++
			}
		}
	}
	if err := b.applyDefault(); err != nil {
		return nil, err
	}
	return b, nil
}

func newCube(nterm, ns int) [][][]int {
	cube := make([][][]int, nterm)
	for k := range cube {
		cube[k] = make([][]int, ns)
		for i := range cube[k] {
			cube[k][i] = make([]int, ns)
		}
	}
	return cube
}

// applyDefault pre-fills every cell of the grid for each term of the
// default formula, baseline included. Each cell receives its own dmap
// id: by default every transition carries its own coefficients.
func (b *mapBuilder) applyDefault() error {
	idxs, err := b.matchAll(b.def.Terms)
	if err != nil {
		return err
	}
	if b.def.Intercept {
		idxs = append([]int{0}, idxs...)
	}
	ns := b.tab.Len()
	for _, k := range idxs {
		for i := 0; i < ns; i++ {
			for j := 0; j < ns; j++ {
				b.tmap[k][i][j] = b.dmap[k][i][j]
			}
		}
	}
	return nil
}

// applyLine folds one covariate line into the map. Lines are applied
// in input order; later lines may override or remove earlier stamps.
func (b *mapBuilder) applyLine(ln *Line) error {
	combined, dropped := formula.CombineDropped(b.def, ln.Core)

	// Explicitly removed terms are zeroed across the line's pairs.
	for _, vars := range dropped {
		k, err := b.matchTerm(vars)
		if err != nil {
			return err
		}
		for _, p := range ln.Pairs {
			b.tmap[k][p.From-1][p.To-1] = 0
		}
	}

	idxs, err := b.matchAll(combined.Terms)
	if err != nil {
		return err
	}
	if combined.Intercept {
		idxs = append([]int{0}, idxs...)
	}

	for _, k := range idxs {
		if ln.Opts.Common && len(ln.Pairs) > 0 {
			// One coefficient group for the whole line, drawn once
			// from the first pair's cell.
			first := ln.Pairs[0]
			id := b.dmap[k][first.From-1][first.To-1]
			for _, p := range ln.Pairs {
				b.tmap[k][p.From-1][p.To-1] = id
			}
			continue
		}
		for _, p := range ln.Pairs {
			b.tmap[k][p.From-1][p.To-1] = b.dmap[k][p.From-1][p.To-1]
		}
	}

	if ln.Opts.Shared && combined.Intercept && len(ln.Pairs) > 1 {
		// Sign-encoded tie: every baseline cell after the first points
		// at the first pair's id.
		first := ln.Pairs[0]
		base := b.tmap[0][first.From-1][first.To-1]
		for _, p := range ln.Pairs[1:] {
			if p == first {
				continue
			}
			b.tmap[0][p.From-1][p.To-1] = -base
		}
	}

	if ln.Opts.Init != nil {
		own, err := b.matchAll(formula.Terms(ln.Core).Terms)
		if err != nil {
			return err
		}
		b.inits = append(b.inits, InitSpec{
			Terms:  own,
			Pairs:  append([]statetab.Pair(nil), ln.Pairs...),
			Values: append([]float64(nil), ln.Opts.Init...),
		})
	}
	return nil
}

func (b *mapBuilder) matchAll(terms [][]string) ([]int, error) {
	out := make([]int, 0, len(terms))
	for _, vars := range terms {
		k, err := b.matchTerm(vars)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func (b *mapBuilder) matchTerm(vars []string) (int, error) {
	k, ok := b.cat.Match(vars)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTermMatchFailure, strings.Join(vars, ":"))
	}
	return k, nil
}
