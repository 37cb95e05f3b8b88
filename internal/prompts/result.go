package prompts

import "errors"

// Outcome is the overall verdict of a validation run.
type Outcome string

const (
	// OutcomePassed means no errors and at least MinPrompts records.
	OutcomePassed Outcome = "passed"
	// OutcomeBelowTarget means no errors but fewer than MinPrompts records.
	// It still counts as success.
	OutcomeBelowTarget Outcome = "below_target"
	// OutcomeFailed means a structural or record-level error was found.
	OutcomeFailed Outcome = "failed"
)

// CategoryCount is one row of the category distribution.
type CategoryCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Result is everything a single validation run produced.
//
// When Fatal is set the document could not be inspected and the counters,
// Categories and Errors are all zero.
type Result struct {
	Path       string
	Fatal      error
	Total      int
	Unique     int
	Categories []CategoryCount
	Errors     []RecordError
	MinPrompts int
}

// Outcome classifies the run.
func (r *Result) Outcome() Outcome {
	switch {
	case r.Fatal != nil || len(r.Errors) > 0:
		return OutcomeFailed
	case r.Total < r.MinPrompts:
		return OutcomeBelowTarget
	default:
		return OutcomePassed
	}
}

// Passed reports whether the run should exit with status 0.
// A record count below MinPrompts is advisory only.
func (r *Result) Passed() bool {
	return r.Outcome() != OutcomeFailed
}

// Err returns nil for a passing run, the structural error for a fatal run,
// or all record errors joined together.
func (r *Result) Err() error {
	if r.Fatal != nil {
		return r.Fatal
	}
	if len(r.Errors) == 0 {
		return nil
	}

	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
