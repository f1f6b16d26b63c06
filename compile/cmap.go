package compile

import (
	"fmt"

	"github.com/hazmap-xyz/go-hazmap/formula"
	"github.com/hazmap-xyz/go-hazmap/matutil"
)

// DesignLayout describes the design-matrix columns produced for the
// combined formula by a design-matrix collaborator: the ordered column
// names and a parallel column-to-term assignment vector holding
// 1-based catalog term indices (0 marks an intercept column, which has
// no coefficient here and is skipped).
type DesignLayout struct {
	Names  []string `json:"names"`
	Assign []int    `json:"assign"`
}

// coefMap is the coefficient x realized-transition matrix together
// with its row bookkeeping.
type coefMap struct {
	cmap     [][]int
	rowNames []string
	rowTerms []int // catalog term per row, 0 for appended ph rows
	ncoef    int
}

// buildCoefMap expands terms into design columns and renumbers the
// whole matrix into contiguous coefficient ids. For every distinct
// proportional-baseline reference one extra row is appended holding
// the pure log-hazard-ratio coefficients of the transitions tied to
// it, labeled by the reference transition.
func buildCoefMap(cm *CompactMap, cat *formula.Catalog, layout *DesignLayout, transNames []string) (*coefMap, error) {
	if len(layout.Names) != len(layout.Assign) {
		return nil, fmt.Errorf("%w: %d names, %d assignments",
			ErrLayoutShape, len(layout.Names), len(layout.Assign))
	}
	for c, a := range layout.Assign {
		if a < 0 || a > cat.Len() {
			return nil, fmt.Errorf("%w: column %q assigned to term %d of %d",
				ErrLayoutShape, layout.Names[c], a, cat.Len())
		}
	}

	// One row per design column, grouped by catalog term order.
	type rowdef struct {
		term   int
		offset int
		name   string
	}
	var rows []rowdef
	for k := 1; k <= cat.Len(); k++ {
		offset := 0
		for c, a := range layout.Assign {
			if a == k {
				rows = append(rows, rowdef{term: k, offset: offset, name: layout.Names[c]})
				offset++
			}
		}
	}

	// Encode group ids so cells tied within a term row stay tied and
	// nothing collides across terms or design columns. The final
	// renumbering below flattens the encoding away.
	ncol := len(cm.MapID)
	colScale := 1
	for k := 1; k <= cat.Len(); k++ {
		n := 0
		for _, a := range layout.Assign {
			if a == k {
				n++
			}
		}
		if n+1 > colScale {
			colScale = n + 1
		}
	}
	maxID := matutil.MaxAbs(cm.TMap2) + 1

	out := &coefMap{}
	for _, rd := range rows {
		row := make([]int, ncol)
		for j := 0; j < ncol; j++ {
			if v := cm.TMap2[rd.term][j]; v != 0 {
				row[j] = (rd.term*maxID+v)*colScale + rd.offset + 1
			}
		}
		out.cmap = append(out.cmap, row)
		out.rowNames = append(out.rowNames, rd.name)
		out.rowTerms = append(out.rowTerms, rd.term)
	}

	// Proportional-baseline rows: each tied transition gets its own
	// fresh ratio coefficient, distinct from every design coefficient
	// and from the reference's baseline stratum.
	marker := (cat.Len()+1)*maxID*colScale + colScale
	for _, ref := range distinctRefs(cm.PHBaseline) {
		row := make([]int, ncol)
		for j, r := range cm.PHBaseline {
			if r == ref {
				marker++
				row[j] = marker
			}
		}
		out.cmap = append(out.cmap, row)
		out.rowNames = append(out.rowNames, "ph("+transNames[ref-1]+")")
		out.rowTerms = append(out.rowTerms, 0)
	}

	// Contiguous ids 1..K, row-major by first appearance.
	ids := make(map[int]int)
	for _, row := range out.cmap {
		for j, v := range row {
			if v == 0 {
				continue
			}
			id, ok := ids[v]
			if !ok {
				out.ncoef++
				id = out.ncoef
				ids[v] = id
			}
			row[j] = id
		}
	}
	return out, nil
}

// distinctRefs lists the distinct positive reference columns in order
// of first appearance.
func distinctRefs(phbaseline []int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, r := range phbaseline {
		if r > 0 && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}
