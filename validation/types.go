// Package validation provides structural lint checks for hazard model
// specifications before compilation. It reports problems the compiler
// would reject as errors, plus softer issues (unobserved transitions,
// deferred initial values) that compile cleanly but usually indicate a
// mistake in the model.
package validation

import (
	"github.com/hazmap-xyz/go-hazmap/compile"
)

// Result contains the outcome of validating a model specification.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
	Info     []Issue `json:"info,omitempty"`
	Summary  Summary `json:"summary"`
}

// Issue represents a single validation finding.
type Issue struct {
	Severity   string   `json:"severity"` // "error", "warning", "info"
	Category   string   `json:"category"` // "structure", "formula", "observed", etc.
	Message    string   `json:"message"`
	Location   []string `json:"location,omitempty"` // affected states or transitions
	Suggestion string   `json:"suggestion,omitempty"`
}

// Summary provides an overview of the validated specification.
type Summary struct {
	States      int `json:"states"`
	Transitions int `json:"transitions"` // observed transitions with nonzero counts
	Lines       int `json:"lines"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
}

// Validator performs lint checks on one model specification.
type Validator struct {
	spec   *compile.ModelSpec
	result *Result
}

// NewValidator creates a validator for a model specification.
func NewValidator(spec *compile.ModelSpec) *Validator {
	states := 0
	if spec.Table != nil {
		states = spec.Table.Len()
	}
	return &Validator{
		spec: spec,
		result: &Result{
			Valid: true,
			Summary: Summary{
				States: states,
				Lines:  len(spec.Lines),
			},
		},
	}
}

// Validate runs all checks and returns the collected findings.
func (v *Validator) Validate() *Result {
	v.checkTable()
	v.checkObserved()
	v.checkDefault()
	v.checkLines()

	v.result.Valid = len(v.result.Errors) == 0
	v.result.Summary.Errors = len(v.result.Errors)
	v.result.Summary.Warnings = len(v.result.Warnings)

	return v.result
}

// Check is a convenience wrapper that validates a specification in one call.
func Check(spec *compile.ModelSpec) *Result {
	return NewValidator(spec).Validate()
}

// AddError adds an error issue.
func (v *Validator) AddError(category, message string, location []string, suggestion string) {
	v.result.Errors = append(v.result.Errors, Issue{
		Severity:   "error",
		Category:   category,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddWarning adds a warning issue.
func (v *Validator) AddWarning(category, message string, location []string, suggestion string) {
	v.result.Warnings = append(v.result.Warnings, Issue{
		Severity:   "warning",
		Category:   category,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddInfo adds an info issue.
func (v *Validator) AddInfo(category, message string, location []string) {
	v.result.Info = append(v.result.Info, Issue{
		Severity: "info",
		Category: category,
		Message:  message,
		Location: location,
	})
}
