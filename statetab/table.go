// Package statetab defines the state table of a multi-state hazard
// model and resolves transition selectors against it into concrete
// from/to state-index pairs.
package statetab

import "fmt"

// State is one row of the state table: a unique name plus optional
// attributes used by selector expressions.
type State struct {
	Name  string
	Attrs map[string]string
}

// Table is the ordered list of model states. State indices are
// 1-based throughout, matching the selector convention where literal
// 0 means "all states".
type Table struct {
	states    []State
	attrNames []string
	index     map[string]int
}

// NewTable builds a table from a name column and parallel attribute
// columns. Names are required and must be unique and non-empty; every
// attribute column must have one value per state.
func NewTable(names []string, attrs map[string][]string) (*Table, error) {
	if len(names) == 0 {
		return nil, ErrMissingStateColumn
	}
	t := &Table{index: make(map[string]int, len(names))}
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: state %d has no name", ErrIncompleteStateTable, i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate state name %q", ErrIncompleteStateTable, name)
		}
		t.index[name] = i + 1
		t.states = append(t.states, State{Name: name, Attrs: make(map[string]string)})
	}
	for attr, col := range attrs {
		if len(col) != len(names) {
			return nil, fmt.Errorf("%w: attribute %q has %d values for %d states",
				ErrIncompleteStateTable, attr, len(col), len(names))
		}
		t.attrNames = append(t.attrNames, attr)
		for i, v := range col {
			t.states[i].Attrs[attr] = v
		}
	}
	return t, nil
}

// FromNames builds a table with no attributes, as used when the model
// specification gives only the state names.
func FromNames(names ...string) (*Table, error) {
	return NewTable(names, nil)
}

// Len returns the number of states.
func (t *Table) Len() int { return len(t.states) }

// Name returns the name of the 1-based state index.
func (t *Table) Name(i int) string { return t.states[i-1].Name }

// Names returns all state names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.states))
	for i, s := range t.states {
		out[i] = s.Name
	}
	return out
}

// Index resolves a state name to its 1-based index.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// State returns the 1-based state entry.
func (t *Table) State(i int) State { return t.states[i-1] }

// HasAttr reports whether the table defines the named attribute.
func (t *Table) HasAttr(name string) bool {
	for _, a := range t.attrNames {
		if a == name {
			return true
		}
	}
	return false
}
