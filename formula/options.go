package formula

import (
	"fmt"
	"strings"
)

// Options holds the interpreted option clause of one covariate line.
type Options struct {
	// Common ties one coefficient per term across every transition
	// the line selects.
	Common bool

	// Shared ties the baseline hazards of the line's transitions.
	Shared bool

	// Init holds initial coefficient values for the line, nil when
	// absent. Value counts are validated only once the final
	// coefficient layout is known.
	Init []float64
}

// ParseOptions interprets an option clause, a "+"-joined list of the
// keywords common and shared and of init(...) calls. A nil clause
// yields the zero Options. Every unrecognized term is collected and
// reported in a single error.
func ParseOptions(n Node) (Options, error) {
	var opts Options
	if n == nil {
		return opts, nil
	}

	var unknown []string
	for _, leaf := range splitPlus(n) {
		switch t := leaf.(type) {
		case *Sym:
			switch t.Name {
			case "common":
				opts.Common = true
				continue
			case "shared":
				opts.Shared = true
				continue
			case "init":
				return opts, fmt.Errorf("%w: init given without arguments", ErrInitValues)
			}
		case *Call:
			if t.Name == "init" {
				vals, err := flattenNumbers(t.Args)
				if err != nil {
					return opts, err
				}
				opts.Init = append(opts.Init, vals...)
				continue
			}
		}
		unknown = append(unknown, leaf.String())
	}
	if len(unknown) > 0 {
		return opts, fmt.Errorf("%w: %s", ErrUnknownOption, strings.Join(unknown, ", "))
	}
	return opts, nil
}

// splitPlus expands a tree of top-level "+" operators into its leaves,
// preserving left-to-right order. Parenthesized groups are unwrapped.
func splitPlus(n Node) []Node {
	if op, ok := n.(*Op); ok {
		switch {
		case op.Name == "+" && len(op.Args) == 2:
			return append(splitPlus(op.Args[0]), splitPlus(op.Args[1])...)
		case op.Name == "+" && len(op.Args) == 1:
			return splitPlus(op.Args[0])
		case op.Name == "()" && len(op.Args) == 1:
			return splitPlus(op.Args[0])
		}
	}
	return []Node{n}
}

// flattenNumbers evaluates an argument list to a flat numeric
// sequence. Nested calls such as c(...) are flattened recursively and
// unary minus negates its operand.
func flattenNumbers(args []Node) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		switch t := a.(type) {
		case *Num:
			out = append(out, t.Value)
		case *Call:
			vals, err := flattenNumbers(t.Args)
			if err != nil {
				return nil, err
			}
			out = append(out, vals...)
		case *Op:
			if t.Name == "-" && len(t.Args) == 1 {
				vals, err := flattenNumbers(t.Args)
				if err != nil {
					return nil, err
				}
				for _, v := range vals {
					out = append(out, -v)
				}
				continue
			}
			if t.Name == "()" && len(t.Args) == 1 {
				vals, err := flattenNumbers(t.Args)
				if err != nil {
					return nil, err
				}
				out = append(out, vals...)
				continue
			}
			return nil, fmt.Errorf("%w: %s", ErrInitValues, a.String())
		default:
			return nil, fmt.Errorf("%w: %s", ErrInitValues, a.String())
		}
	}
	return out, nil
}
