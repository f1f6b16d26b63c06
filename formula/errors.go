package formula

import "errors"

var (
	// ErrUnknownOption is returned when an option clause contains a
	// term other than common, shared, or init(...).
	ErrUnknownOption = errors.New("formula: unknown option")

	// ErrInitValues is returned when an init option carries no
	// argument list or a non-numeric argument.
	ErrInitValues = errors.New("formula: init option requires numeric arguments")

	// ErrFormulaShape is returned when a covariate line is not a
	// binary "~" expression.
	ErrFormulaShape = errors.New("formula: expression is not of the form selector ~ covariates")

	// ErrTooManyVariables is returned when a catalog would span more
	// variables than a signature bitset can hold.
	ErrTooManyVariables = errors.New("formula: catalog exceeds 256 variables")
)
