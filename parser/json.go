// Package parser handles JSON import/export for hazard model
// specifications and compiled maps. Expression trees travel as tagged
// objects, so a client that already parsed its formulas elsewhere can
// hand them over without this module ever tokenizing formula text.
//
// The specification format:
//
//	{
//	  "states": [{"name": "healthy", "attrs": {"kind": "transient"}}],
//	  "default": {"sym": "age"},
//	  "lines": [
//	    {"op": "~", "args": [
//	      {"op": ":", "args": [{"sym": "healthy"}, {"sym": "death"}]},
//	      {"sym": "sex"}]}
//	  ],
//	  "observed": [[0, 5, 2], [0, 0, 7], [0, 0, 0]],
//	  "censor": -1,
//	  "layout": {"names": ["age", "sex"], "assign": [1, 2]}
//	}
//
// Expression nodes are one of {"op": name, "args": [...]},
// {"call": name, "args": [...]}, {"sym": name}, {"num": value},
// {"str": value}.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/hazmap-xyz/go-hazmap/compile"
	"github.com/hazmap-xyz/go-hazmap/formula"
	"github.com/hazmap-xyz/go-hazmap/statetab"
)

type specJSON struct {
	States   []stateJSON           `json:"states"`
	Default  json.RawMessage       `json:"default,omitempty"`
	Lines    []json.RawMessage     `json:"lines,omitempty"`
	Observed [][]int               `json:"observed"`
	Censor   *int                  `json:"censor,omitempty"`
	Layout   *compile.DesignLayout `json:"layout,omitempty"`
}

type stateJSON struct {
	Name  string            `json:"name"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// SpecFromJSON parses a model specification from JSON bytes.
func SpecFromJSON(data []byte) (*compile.ModelSpec, error) {
	var raw specJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	names := make([]string, len(raw.States))
	attrs := make(map[string][]string)
	for i, s := range raw.States {
		names[i] = s.Name
		for k := range s.Attrs {
			if _, ok := attrs[k]; !ok {
				attrs[k] = make([]string, len(raw.States))
			}
		}
	}
	for i, s := range raw.States {
		for k := range attrs {
			attrs[k][i] = s.Attrs[k]
		}
	}
	if len(attrs) == 0 {
		attrs = nil
	}
	table, err := statetab.NewTable(names, attrs)
	if err != nil {
		return nil, err
	}

	spec := &compile.ModelSpec{
		Table:    table,
		Observed: raw.Observed,
		Censor:   -1,
		Layout:   raw.Layout,
	}
	if raw.Censor != nil {
		spec.Censor = *raw.Censor
	}
	if raw.Default != nil {
		if spec.Default, err = NodeFromJSON(raw.Default); err != nil {
			return nil, err
		}
	}
	for _, l := range raw.Lines {
		node, err := NodeFromJSON(l)
		if err != nil {
			return nil, err
		}
		spec.Lines = append(spec.Lines, node)
	}
	return spec, nil
}

// NodeFromJSON parses one expression node from its tagged JSON form.
func NodeFromJSON(data []byte) (formula.Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid expression JSON: %w", err)
	}

	switch {
	case raw["op"] != nil:
		var name string
		if err := json.Unmarshal(raw["op"], &name); err != nil {
			return nil, fmt.Errorf("operator name: %w", err)
		}
		args, err := argsFromJSON(raw["args"])
		if err != nil {
			return nil, err
		}
		return formula.NewOp(name, args...), nil

	case raw["call"] != nil:
		var name string
		if err := json.Unmarshal(raw["call"], &name); err != nil {
			return nil, fmt.Errorf("call name: %w", err)
		}
		args, err := argsFromJSON(raw["args"])
		if err != nil {
			return nil, err
		}
		return formula.NewCall(name, args...), nil

	case raw["sym"] != nil:
		var name string
		if err := json.Unmarshal(raw["sym"], &name); err != nil {
			return nil, fmt.Errorf("symbol name: %w", err)
		}
		return formula.NewSym(name), nil

	case raw["num"] != nil:
		var v float64
		if err := json.Unmarshal(raw["num"], &v); err != nil {
			return nil, fmt.Errorf("numeric literal: %w", err)
		}
		return formula.NewNum(v), nil

	case raw["str"] != nil:
		var v string
		if err := json.Unmarshal(raw["str"], &v); err != nil {
			return nil, fmt.Errorf("string literal: %w", err)
		}
		return formula.NewStr(v), nil
	}
	return nil, fmt.Errorf("expression node must have one of op, call, sym, num, str: %s", data)
}

func argsFromJSON(data json.RawMessage) ([]formula.Node, error) {
	if data == nil {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("argument list: %w", err)
	}
	args := make([]formula.Node, len(items))
	for i, item := range items {
		node, err := NodeFromJSON(item)
		if err != nil {
			return nil, err
		}
		args[i] = node
	}
	return args, nil
}

// NodeToJSON renders an expression node into its tagged JSON form.
func NodeToJSON(n formula.Node) ([]byte, error) {
	return json.Marshal(nodeValue(n))
}

func nodeValue(n formula.Node) interface{} {
	switch x := n.(type) {
	case *formula.Op:
		args := make([]interface{}, len(x.Args))
		for i, a := range x.Args {
			args[i] = nodeValue(a)
		}
		return map[string]interface{}{"op": x.Name, "args": args}
	case *formula.Call:
		args := make([]interface{}, len(x.Args))
		for i, a := range x.Args {
			args[i] = nodeValue(a)
		}
		return map[string]interface{}{"call": x.Name, "args": args}
	case *formula.Sym:
		return map[string]interface{}{"sym": x.Name}
	case *formula.Num:
		return map[string]interface{}{"num": x.Value}
	case *formula.Str:
		return map[string]interface{}{"str": x.Value}
	default:
		return nil
	}
}

type resultJSON struct {
	TMap2      [][]int         `json:"tmap2"`
	MapID      []statetab.Pair `json:"mapid"`
	PHBaseline []int           `json:"phbaseline"`
	Strata     int             `json:"strata"`
	TransNames []string        `json:"transitions"`
	CMap       [][]int         `json:"cmap,omitempty"`
	CoefNames  []string        `json:"coefficients,omitempty"`
	NCoef      int             `json:"ncoef,omitempty"`
}

// ResultToJSON serializes the compiled maps for storage or transport.
func ResultToJSON(r *compile.Result) ([]byte, error) {
	return json.Marshal(resultJSON{
		TMap2:      r.TMap2,
		MapID:      r.MapID,
		PHBaseline: r.PHBaseline,
		Strata:     r.Strata,
		TransNames: r.TransNames,
		CMap:       r.CMap,
		CoefNames:  r.CoefNames,
		NCoef:      r.NCoef,
	})
}
