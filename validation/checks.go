package validation

import (
	"fmt"

	"github.com/hazmap-xyz/go-hazmap/formula"
	"github.com/hazmap-xyz/go-hazmap/statetab"
)

// checkTable validates the state table itself.
func (v *Validator) checkTable() {
	if v.spec.Table == nil {
		v.AddError("structure", "Specification has no state table", nil,
			"Provide a state table with at least one state")
		return
	}
	if v.spec.Table.Len() < 2 {
		v.AddWarning("structure", "State table has fewer than two states", v.spec.Table.Names(),
			"Multi-state models need at least two states for any transition to exist")
	}
}

// checkObserved validates the observed transition count matrix.
func (v *Validator) checkObserved() {
	if v.spec.Table == nil {
		return
	}
	ns := v.spec.Table.Len()
	obs := v.spec.Observed

	if len(obs) == 0 {
		v.AddError("observed", "Specification has no observed transition matrix", nil,
			"Provide an ns x ns count matrix, optionally with a censoring column")
		return
	}
	if len(obs) != ns {
		v.AddError("observed",
			fmt.Sprintf("Observed matrix has %d rows but the table has %d states", len(obs), ns),
			nil, "One row per origin state")
		return
	}

	wantCols := ns
	censoring := v.spec.Censor >= 0
	if censoring {
		wantCols = ns + 1
		if v.spec.Censor >= wantCols {
			v.AddError("observed",
				fmt.Sprintf("Censoring column %d is outside the %d-column matrix", v.spec.Censor, wantCols),
				nil, "Use a zero-based column index within the matrix")
			return
		}
	}

	realized := 0
	for i, row := range obs {
		if len(row) != wantCols {
			v.AddError("observed",
				fmt.Sprintf("Observed row %d has %d columns, want %d", i, len(row), wantCols),
				[]string{v.spec.Table.Name(i + 1)}, "")
			return
		}
		for j, n := range row {
			if n < 0 {
				v.AddError("observed",
					fmt.Sprintf("Observed count at (%d,%d) is negative", i, j),
					[]string{v.spec.Table.Name(i + 1)}, "Counts must be non-negative")
			}
			if censoring && j == v.spec.Censor {
				continue
			}
			col := j
			if censoring && j > v.spec.Censor {
				col = j - 1
			}
			if col == i && n > 0 {
				v.AddWarning("observed",
					fmt.Sprintf("State '%s' has %d self transitions", v.spec.Table.Name(i+1), n),
					[]string{v.spec.Table.Name(i + 1)},
					"Self transitions are unusual in multi-state hazard models")
			}
			// Self transitions count too: the compiler keeps every
			// nonzero cell, diagonal included.
			if n > 0 {
				realized++
			}
		}
	}
	v.result.Summary.Transitions = realized

	if realized == 0 {
		v.AddWarning("observed", "No transitions were observed", nil,
			"The compiled transition map will be empty")
	}
}

// checkDefault validates the shared default covariate formula.
func (v *Validator) checkDefault() {
	if v.spec.Default == nil {
		return
	}
	core, optNode := formula.Split(v.spec.Default)
	if optNode != nil {
		v.AddError("formula", "Default formula carries an option clause", nil,
			"Options like common or shared only apply to per-transition lines")
		return
	}
	tl := formula.Terms(core)
	if len(tl.Terms) == 0 && !tl.Intercept {
		v.AddInfo("formula", "Default formula contributes no terms and removes the baseline", nil)
	}
}

// checkLines validates each per-transition specification line.
func (v *Validator) checkLines() {
	if v.spec.Table == nil {
		return
	}
	for i, raw := range v.spec.Lines {
		loc := []string{fmt.Sprintf("line %d", i+1)}

		op, ok := raw.(*formula.Op)
		if !ok || op.Name != "~" || len(op.Args) != 2 {
			v.AddError("formula",
				fmt.Sprintf("Line %d is not of the form 'selector ~ covariates': %s", i+1, raw.String()),
				loc, "")
			continue
		}

		_, optNode := formula.Split(op.Args[1])
		opts, err := formula.ParseOptions(optNode)
		if err != nil {
			v.AddError("formula", fmt.Sprintf("Line %d: %v", i+1, err), loc, "")
			continue
		}

		pairs, err := statetab.ResolvePairs(op.Args[0], v.spec.Table)
		if err != nil {
			v.AddError("formula", fmt.Sprintf("Line %d: %v", i+1, err), loc, "")
			continue
		}

		v.checkLinePairs(i, pairs)

		if len(opts.Init) > 0 && v.spec.Layout == nil {
			v.AddInfo("formula",
				fmt.Sprintf("Line %d has initial values but no design layout; validation is deferred", i+1),
				loc)
		}
		if opts.Shared && len(pairs) < 2 {
			v.AddWarning("formula",
				fmt.Sprintf("Line %d requests shared hazards but selects %d transition", i+1, len(pairs)),
				loc, "Shared needs at least two transitions to tie together")
		}
	}
}

// checkLinePairs warns about selected transitions that never occur in
// the observed data. They compile fine but their cells are dropped
// during compaction, so the line has no effect there.
func (v *Validator) checkLinePairs(line int, pairs []statetab.Pair) {
	ns := v.spec.Table.Len()
	censoring := v.spec.Censor >= 0
	for _, p := range pairs {
		if len(v.spec.Observed) != ns {
			return
		}
		row := v.spec.Observed[p.From-1]
		col := p.To - 1
		if censoring && col >= v.spec.Censor {
			col++
		}
		if col >= len(row) || row[col] == 0 {
			name := fmt.Sprintf("%s:%s", v.spec.Table.Name(p.From), v.spec.Table.Name(p.To))
			v.AddWarning("observed",
				fmt.Sprintf("Line %d targets transition %s which was never observed", line+1, name),
				[]string{name}, "The compacted map drops unobserved transitions")
		}
	}
}
