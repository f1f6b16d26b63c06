package storage

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/hazmap-xyz/go-hazmap/compile"
	"github.com/hazmap-xyz/go-hazmap/parser"
)

const specDoc = `{
	"states": [
		{"name": "healthy"},
		{"name": "sick"},
		{"name": "death"}
	],
	"default": {"sym": "age"},
	"observed": [[0, 5, 2], [1, 0, 7], [0, 0, 0]],
	"censor": -1
}`

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "models.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func compiledSpec(t *testing.T) *compile.Result {
	t.Helper()
	spec, err := parser.SpecFromJSON([]byte(specDoc))
	if err != nil {
		t.Fatalf("parse spec: %v", err)
	}
	res, err := compile.Compile(*spec)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return res
}

func TestSaveAndGetModel(t *testing.T) {
	store := openStore(t)
	res := compiledSpec(t)

	id, err := store.SaveModel("illness-death", []byte(specDoc), res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	m, err := store.GetModel(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if m.Name != "illness-death" {
		t.Errorf("name = %q", m.Name)
	}
	if m.States != 3 {
		t.Errorf("states = %d, want 3", m.States)
	}
	if m.Transitions != 4 {
		t.Errorf("transitions = %d, want 4", m.Transitions)
	}
	if len(m.Hash) != 64 {
		t.Errorf("hash = %q, want a sha256 hex digest", m.Hash)
	}

	var stored map[string]json.RawMessage
	if err := json.Unmarshal([]byte(m.ResultJSON), &stored); err != nil {
		t.Fatalf("stored result is not valid JSON: %v", err)
	}
	if stored["tmap2"] == nil {
		t.Error("stored result missing tmap2")
	}
}

func TestGetModelByName(t *testing.T) {
	store := openStore(t)
	res := compiledSpec(t)

	if _, err := store.SaveModel("current", []byte(specDoc), res); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := store.SaveModel("current", []byte(specDoc), res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	m, err := store.GetModelByName("current")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if m.ID != second {
		t.Errorf("got %s, want latest save %s", m.ID, second)
	}
}

func TestRecentModelsAndDelete(t *testing.T) {
	store := openStore(t)
	res := compiledSpec(t)

	a, _ := store.SaveModel("a", []byte(specDoc), res)
	b, _ := store.SaveModel("b", []byte(specDoc), res)

	models, err := store.RecentModels(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("recent = %d models, want 2", len(models))
	}

	if err := store.DeleteModel(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	models, _ = store.RecentModels(10)
	if len(models) != 1 || models[0].ID != b {
		t.Error("delete should leave only the second model")
	}
}

func TestLoadSpecRecompiles(t *testing.T) {
	store := openStore(t)
	res := compiledSpec(t)

	id, err := store.SaveModel("reload", []byte(specDoc), res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	spec, err := store.LoadSpec(id)
	if err != nil {
		t.Fatalf("load spec: %v", err)
	}
	again, err := compile.Compile(*spec)
	if err != nil {
		t.Fatalf("recompile: %v", err)
	}
	if len(again.MapID) != len(res.MapID) {
		t.Errorf("recompiled transitions = %d, want %d", len(again.MapID), len(res.MapID))
	}
}

func TestExportModelJSON(t *testing.T) {
	store := openStore(t)
	res := compiledSpec(t)

	id, err := store.SaveModel("export", []byte(specDoc), res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := store.ExportModelJSON(id)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var export map[string]json.RawMessage
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	for _, key := range []string{"spec", "result", "name"} {
		if export[key] == nil {
			t.Errorf("export missing %q", key)
		}
	}
}
