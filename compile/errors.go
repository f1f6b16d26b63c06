package compile

import "errors"

var (
	// ErrTermMatchFailure indicates a catalog/signature mismatch.
	// It is an internal-invariant violation: unreachable when the
	// catalog was pooled from the same formulas being compiled.
	ErrTermMatchFailure = errors.New("compile: term does not match the catalog")

	// ErrObservedShape is returned when the observed-transition count
	// matrix does not match the state table.
	ErrObservedShape = errors.New("compile: observed transition matrix has wrong shape")

	// ErrLayoutShape is returned when the design layout's names and
	// assignment vector disagree or reference unknown terms.
	ErrLayoutShape = errors.New("compile: design layout is inconsistent")

	// ErrInitLength is returned when an init option supplies the
	// wrong number of values for the coefficients it covers.
	ErrInitLength = errors.New("compile: wrong number of init values")

	// ErrInitValue is returned when an init option supplies a NaN or
	// infinite value.
	ErrInitValue = errors.New("compile: init values must be finite")
)
