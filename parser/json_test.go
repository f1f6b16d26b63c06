package parser

import (
	"strings"
	"testing"

	"github.com/hazmap-xyz/go-hazmap/compile"
	"github.com/hazmap-xyz/go-hazmap/formula"
)

const specData = `{
	"states": [
		{"name": "healthy", "attrs": {"kind": "transient"}},
		{"name": "sick", "attrs": {"kind": "transient"}},
		{"name": "death", "attrs": {"kind": "absorbing"}}
	],
	"default": {"sym": "age"},
	"lines": [
		{"op": "~", "args": [
			{"op": ":", "args": [{"sym": "healthy"}, {"sym": "death"}]},
			{"sym": "sex"}
		]}
	],
	"observed": [[0, 5, 2], [1, 0, 7], [0, 0, 0]],
	"censor": -1
}`

func TestSpecFromJSON(t *testing.T) {
	spec, err := SpecFromJSON([]byte(specData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Table.Len() != 3 {
		t.Fatalf("states = %d, want 3", spec.Table.Len())
	}
	if !spec.Table.HasAttr("kind") {
		t.Error("attribute column lost")
	}
	if spec.Default == nil || spec.Default.String() != "age" {
		t.Errorf("default = %v, want age", spec.Default)
	}
	if len(spec.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(spec.Lines))
	}
	if spec.Censor != -1 {
		t.Errorf("censor = %d, want -1", spec.Censor)
	}
}

func TestSpecFromJSONCompiles(t *testing.T) {
	spec, err := SpecFromJSON([]byte(specData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := compile.Compile(*spec)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(res.MapID) != 4 {
		t.Errorf("realized transitions = %d, want 4", len(res.MapID))
	}
}

func TestNodeRoundTrip(t *testing.T) {
	node := formula.NewOp("~",
		formula.NewOp(":", formula.NewNum(1), formula.NewNum(3)),
		formula.NewOp("/", formula.NewSym("x"),
			formula.NewCall("init", formula.NewNum(0.5))))

	data, err := NodeToJSON(node)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := NodeFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != node.String() {
		t.Errorf("round trip changed rendering: %q vs %q", back.String(), node.String())
	}
}

func TestNodeFromJSONRejectsUnknownTag(t *testing.T) {
	if _, err := NodeFromJSON([]byte(`{"bogus": 1}`)); err == nil {
		t.Error("expected error for unknown node tag")
	}
	if _, err := NodeFromJSON([]byte(`[1, 2]`)); err == nil {
		t.Error("expected error for non-object node")
	}
}

func TestResultToJSON(t *testing.T) {
	spec, err := SpecFromJSON([]byte(specData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := compile.Compile(*spec)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	data, err := ResultToJSON(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"tmap2", "mapid", "phbaseline", "transitions"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("serialized result missing %q", key)
		}
	}
}
