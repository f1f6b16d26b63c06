package statetab

import "errors"

var (
	// ErrMissingStateColumn is returned when a table is built without
	// a name column.
	ErrMissingStateColumn = errors.New("statetab: state table has no name column")

	// ErrIncompleteStateTable is returned for empty or duplicate
	// state names and for attribute columns of the wrong length.
	ErrIncompleteStateTable = errors.New("statetab: incomplete state table")

	// ErrTermMissingColon is returned when a selector term is not a
	// binary from:to expression.
	ErrTermMissingColon = errors.New("statetab: selector term is not of the form from:to")

	// ErrNonIntegerState is returned when a numeric state reference
	// is not a whole number.
	ErrNonIntegerState = errors.New("statetab: state index is not an integer")

	// ErrStateIndexOutOfRange is returned when a numeric state
	// reference falls outside 1..nstate.
	ErrStateIndexOutOfRange = errors.New("statetab: state index out of range")

	// ErrAttributeNotFound is returned when a selector calls an
	// attribute the table does not define.
	ErrAttributeNotFound = errors.New("statetab: state attribute not found")

	// ErrAttributeValueNotFound is returned when an attribute
	// selector value matches no state.
	ErrAttributeValueNotFound = errors.New("statetab: attribute value matches no state")

	// ErrStateNameNotFound is returned when an identifier or string
	// matches no state name.
	ErrStateNameNotFound = errors.New("statetab: state name not found")
)
