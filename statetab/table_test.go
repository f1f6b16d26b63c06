package statetab

import (
	"errors"
	"testing"
)

func TestNewTable(t *testing.T) {
	tab, err := NewTable(
		[]string{"healthy", "sick", "death"},
		map[string][]string{"kind": {"transient", "transient", "absorbing"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tab.Len() != 3 {
		t.Fatalf("Len = %d, want 3", tab.Len())
	}
	if tab.Name(3) != "death" {
		t.Errorf("Name(3) = %q, want death", tab.Name(3))
	}
	if i, ok := tab.Index("sick"); !ok || i != 2 {
		t.Errorf("Index(sick) = %d,%v, want 2,true", i, ok)
	}
	if !tab.HasAttr("kind") || tab.HasAttr("color") {
		t.Error("attribute lookup wrong")
	}
	if tab.State(3).Attrs["kind"] != "absorbing" {
		t.Errorf("State(3) kind = %q", tab.State(3).Attrs["kind"])
	}
}

func TestNewTableErrors(t *testing.T) {
	if _, err := NewTable(nil, nil); !errors.Is(err, ErrMissingStateColumn) {
		t.Errorf("no names: err = %v, want ErrMissingStateColumn", err)
	}
	if _, err := NewTable([]string{"a", "a"}, nil); !errors.Is(err, ErrIncompleteStateTable) {
		t.Errorf("duplicate: err = %v, want ErrIncompleteStateTable", err)
	}
	if _, err := NewTable([]string{"a", ""}, nil); !errors.Is(err, ErrIncompleteStateTable) {
		t.Errorf("empty name: err = %v, want ErrIncompleteStateTable", err)
	}
	_, err := NewTable([]string{"a", "b"}, map[string][]string{"kind": {"x"}})
	if !errors.Is(err, ErrIncompleteStateTable) {
		t.Errorf("short column: err = %v, want ErrIncompleteStateTable", err)
	}
}
