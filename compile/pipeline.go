// Package compile turns per-transition covariate specifications for a
// multi-state hazard model into the numeric term-map and
// coefficient-map matrices a fitting routine consumes.
//
// Compilation runs in three stages: each covariate line is split into
// a core formula and its options, the line's transition selector is
// resolved against the state table, and the resulting stamps are
// compacted over the observed transitions into tmap2, phbaseline, and
// (when a design layout is supplied) the coefficient map. The whole
// computation is pure and synchronous; the first error aborts it with
// no partial result.
package compile

import (
	"fmt"
	"log"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/hazmap-xyz/go-hazmap/formula"
	"github.com/hazmap-xyz/go-hazmap/statetab"
)

// ModelSpec collects the inputs of one compilation.
type ModelSpec struct {
	// Table is the model's state table.
	Table *statetab.Table

	// Default is the core default formula applied to every
	// transition; nil means baseline hazards only.
	Default formula.Node

	// Lines are the per-transition covariate specifications, each a
	// binary "~" expression: selector ~ covariates [/ options].
	Lines []formula.Node

	// Observed is the from x to transition count matrix tabulated
	// from the data, with an optional extra censored-outcome column.
	Observed [][]int

	// Censor is the column index of the censored column within
	// Observed, or -1 when there is none.
	Censor int

	// Layout describes the design-matrix columns. It is only
	// available once the combined formula is known; when nil the
	// coefficient map is skipped and init requests stay unvalidated.
	Layout *DesignLayout
}

// Result is the compiled structural map set.
type Result struct {
	Catalog *formula.Catalog

	// TMap2, MapID, PHBaseline and Strata come from the compaction
	// stage; see CompactMap.
	TMap2      [][]int
	MapID      []statetab.Pair
	PHBaseline []int
	Strata     int

	// TransNames labels the realized transitions, "from:to".
	TransNames []string

	// Inits holds the pending init requests, validated (and their
	// Coefs filled in) only when a design layout was supplied.
	Inits []InitSpec

	// CMap, CoefNames and NCoef are only set when a design layout was
	// supplied.
	CMap      [][]int
	CoefNames []string
	NCoef     int
}

// Compiler runs model-map compilations. The zero value is ready to
// use; a logger can be attached for stage summaries.
type Compiler struct {
	logger *log.Logger
}

// New creates a Compiler.
func New() *Compiler { return &Compiler{} }

// WithLogger attaches a logger for per-stage progress output.
func (c *Compiler) WithLogger(l *log.Logger) *Compiler {
	c.logger = l
	return c
}

// Compile is a convenience wrapper around a fresh Compiler.
func Compile(spec ModelSpec) (*Result, error) {
	return New().Compile(spec)
}

// Compile compiles one model specification.
func (c *Compiler) Compile(spec ModelSpec) (*Result, error) {
	if spec.Table == nil {
		return nil, fmt.Errorf("%w: missing state table", statetab.ErrMissingStateColumn)
	}

	def, err := defaultTerms(spec.Default)
	if err != nil {
		return nil, err
	}

	lines := make([]*Line, 0, len(spec.Lines))
	lineTerms := make([]formula.TermList, 0, len(spec.Lines))
	for _, raw := range spec.Lines {
		ln, err := parseLine(raw, spec.Table)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ln)
		lineTerms = append(lineTerms, formula.Terms(ln.Core))
	}

	cat, err := formula.Pool(def, lineTerms...)
	if err != nil {
		return nil, err
	}
	c.logf("catalog: %d terms over %d lines", cat.Len(), len(lines))

	builder, err := newMapBuilder(cat, spec.Table, def)
	if err != nil {
		return nil, err
	}
	for _, ln := range lines {
		if err := builder.applyLine(ln); err != nil {
			return nil, err
		}
	}

	cm, err := builder.compact(spec.Observed, spec.Censor)
	if err != nil {
		return nil, err
	}
	c.logf("compact: %d realized transitions, %d strata", len(cm.MapID), cm.Strata)

	res := &Result{
		Catalog:    cat,
		TMap2:      cm.TMap2,
		MapID:      cm.MapID,
		PHBaseline: cm.PHBaseline,
		Strata:     cm.Strata,
		TransNames: transNames(cm.MapID, spec.Table),
		Inits:      builder.inits,
	}

	if spec.Layout != nil {
		coef, err := buildCoefMap(cm, cat, spec.Layout, res.TransNames)
		if err != nil {
			return nil, err
		}
		res.CMap = coef.cmap
		res.CoefNames = coef.rowNames
		res.NCoef = coef.ncoef
		if err := validateInits(res, coef); err != nil {
			return nil, err
		}
		c.logf("coefficients: %d over %d rows", res.NCoef, len(res.CMap))
	}
	return res, nil
}

func (c *Compiler) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// defaultTerms expands the default formula; it must not carry an
// option clause.
func defaultTerms(def formula.Node) (formula.TermList, error) {
	if def == nil {
		return formula.TermList{Intercept: true}, nil
	}
	core, opts := formula.Split(def)
	if opts != nil {
		return formula.TermList{}, fmt.Errorf(
			"%w: default formula cannot carry an option clause (%s)",
			formula.ErrFormulaShape, opts.String())
	}
	return formula.Terms(core), nil
}

func transNames(mapid []statetab.Pair, tab *statetab.Table) []string {
	out := make([]string, len(mapid))
	for i, p := range mapid {
		out[i] = tab.Name(p.From) + ":" + tab.Name(p.To)
	}
	return out
}

// validateInits checks every pending init request against the final
// coefficient layout: values must be finite and their count must equal
// the number of distinct coefficients the request covers.
func validateInits(res *Result, coef *coefMap) error {
	for i := range res.Inits {
		in := &res.Inits[i]
		if floats.HasNaN(in.Values) {
			return fmt.Errorf("%w: NaN in init values", ErrInitValue)
		}
		for _, v := range in.Values {
			if math.IsInf(v, 0) {
				return fmt.Errorf("%w: infinite init value", ErrInitValue)
			}
		}

		cols := make([]int, 0, len(in.Pairs))
		for c, p := range res.MapID {
			for _, q := range in.Pairs {
				if p == q {
					cols = append(cols, c)
					break
				}
			}
		}

		seen := make(map[int]bool)
		var ids []int
		for r, term := range coef.rowTerms {
			if !containsInt(in.Terms, term) {
				continue
			}
			for _, c := range cols {
				if v := coef.cmap[r][c]; v != 0 && !seen[v] {
					seen[v] = true
					ids = append(ids, v)
				}
			}
		}
		if len(in.Values) != len(ids) {
			return fmt.Errorf("%w: got %d values for %d coefficients",
				ErrInitLength, len(in.Values), len(ids))
		}
		in.Coefs = ids
	}
	return nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Summary returns a human-readable overview of the compiled maps.
func (r *Result) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hazard Map Compilation\n")
	fmt.Fprintf(&sb, "======================\n")
	fmt.Fprintf(&sb, "Terms:       %d\n", r.Catalog.Len())
	fmt.Fprintf(&sb, "Transitions: %d\n", len(r.MapID))
	fmt.Fprintf(&sb, "Strata:      %d\n", r.Strata)
	if r.CMap != nil {
		fmt.Fprintf(&sb, "Coefficients: %d\n", r.NCoef)
	}
	fmt.Fprintf(&sb, "\nBaseline row:\n")
	for c, name := range r.TransNames {
		ph := ""
		if r.PHBaseline[c] != 0 {
			ph = fmt.Sprintf("  (proportional to %s)", r.TransNames[r.PHBaseline[c]-1])
		}
		fmt.Fprintf(&sb, "  %-20s stratum %d%s\n", name, r.TMap2[0][c], ph)
	}
	return sb.String()
}
