package compile

import (
	"fmt"

	"github.com/hazmap-xyz/go-hazmap/statetab"
)

// CompactMap restricts the full state grid to the transitions actually
// observed in the data.
type CompactMap struct {
	// TMap2 is the term x realized-transition matrix. Row 0 holds
	// baseline stratum ids; other rows hold per-term group ids, each
	// row renumbered independently (0 = term absent).
	TMap2 [][]int

	// MapID gives the (from, to) state pair of each column.
	MapID []statetab.Pair

	// PHBaseline is per column 0 when the column's baseline stands on
	// its own, otherwise the 1-based column index of the baseline it
	// is proportional to.
	PHBaseline []int

	// Strata is the number of distinct baseline strata.
	Strata int
}

// compact slices the full grid down to the observed transitions and
// resolves the sign-encoded shared-baseline markers. observed is the
// from x to count matrix; censor is the index of a censored-outcome
// column to skip, or -1.
//
// Transitions that are theoretically shared but never observed are
// dropped from the compact map entirely; a known simplification, kept
// deliberately.
func (b *mapBuilder) compact(observed [][]int, censor int) (*CompactMap, error) {
	ns := b.tab.Len()
	counts, err := filterObserved(observed, ns, censor)
	if err != nil {
		return nil, err
	}

	// Rows with no transitions at all drop first (absorbing states);
	// the realized set is every remaining nonzero cell, row-major.
	var mapid []statetab.Pair
	for i := 0; i < ns; i++ {
		rowZero := true
		for j := 0; j < ns; j++ {
			if counts[i][j] != 0 {
				rowZero = false
				break
			}
		}
		if rowZero {
			continue
		}
		for j := 0; j < ns; j++ {
			if counts[i][j] != 0 {
				mapid = append(mapid, statetab.Pair{From: i + 1, To: j + 1})
			}
		}
	}

	nterm := b.cat.Len()
	ncol := len(mapid)
	tmap2 := make([][]int, nterm+1)
	for k := range tmap2 {
		tmap2[k] = make([]int, ncol)
		for c, p := range mapid {
			tmap2[k][c] = b.tmap[k][p.From-1][p.To-1]
		}
	}

	cm := &CompactMap{TMap2: tmap2, MapID: mapid, PHBaseline: make([]int, ncol)}
	cm.resolveShared()
	cm.renumber(nterm)
	return cm, nil
}

// filterObserved checks the count matrix shape and removes the
// censored column when present.
func filterObserved(observed [][]int, ns, censor int) ([][]int, error) {
	if len(observed) != ns {
		return nil, fmt.Errorf("%w: %d rows for %d states", ErrObservedShape, len(observed), ns)
	}
	want := ns
	if censor >= 0 {
		want = ns + 1
		if censor >= want {
			return nil, fmt.Errorf("%w: censored column %d outside %d columns", ErrObservedShape, censor, want)
		}
	}
	counts := make([][]int, ns)
	for i, row := range observed {
		if len(row) != want {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrObservedShape, i+1, len(row), want)
		}
		counts[i] = make([]int, 0, ns)
		for j, v := range row {
			if j == censor && censor >= 0 {
				continue
			}
			counts[i] = append(counts[i], v)
		}
	}
	return counts, nil
}

// resolveShared rewrites the baseline row's negative tie markers. A
// marked column adopts the stratum id of the column it points at and
// records that column in PHBaseline. A marker whose partner transition
// was never observed reverts to a standalone stratum.
func (cm *CompactMap) resolveShared() {
	base := cm.TMap2[0]
	orig := append([]int(nil), base...)
	for c, v := range orig {
		if v >= 0 {
			continue
		}
		ref := -1
		for r, w := range orig {
			if w == -v {
				ref = r
				break
			}
		}
		if ref < 0 {
			base[c] = -v
			continue
		}
		base[c] = orig[ref]
		cm.PHBaseline[c] = ref + 1
	}
}

// renumber maps the baseline row to contiguous stratum ids by first
// appearance, then every other row independently within the row.
func (cm *CompactMap) renumber(nterm int) {
	cm.Strata = renumberRow(cm.TMap2[0])
	for k := 1; k <= nterm; k++ {
		renumberRow(cm.TMap2[k])
	}
}

func renumberRow(row []int) int {
	ids := make(map[int]int)
	next := 0
	for c, v := range row {
		if v == 0 {
			continue
		}
		id, ok := ids[v]
		if !ok {
			next++
			id = next
			ids[v] = id
		}
		row[c] = id
	}
	return next
}
