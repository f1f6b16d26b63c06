package compile

import (
	"fmt"

	"github.com/hazmap-xyz/go-hazmap/formula"
	"github.com/hazmap-xyz/go-hazmap/statetab"
)

// Line is one parsed covariate specification line: the resolved
// transition set, the option-free core formula, and its options.
type Line struct {
	Selector formula.Node
	Core     formula.Node
	Opts     formula.Options
	Pairs    []statetab.Pair
}

// parseLine decomposes a raw "selector ~ covariates [/ options]"
// expression and resolves its selector against the state table.
func parseLine(n formula.Node, tab *statetab.Table) (*Line, error) {
	op, ok := n.(*formula.Op)
	if !ok || op.Name != "~" || len(op.Args) != 2 {
		return nil, fmt.Errorf("%w: %s", formula.ErrFormulaShape, n.String())
	}
	core, optNode := formula.Split(op.Args[1])
	opts, err := formula.ParseOptions(optNode)
	if err != nil {
		return nil, err
	}
	pairs, err := statetab.ResolvePairs(op.Args[0], tab)
	if err != nil {
		return nil, err
	}
	return &Line{
		Selector: op.Args[0],
		Core:     core,
		Opts:     opts,
		Pairs:    pairs,
	}, nil
}
