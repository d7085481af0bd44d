package analyzer

import "errors"

var (
	// ErrInvalidInput reports a malformed price series or request parameter.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoDataInRange reports that no bar falls inside the requested window.
	ErrNoDataInRange = errors.New("no data found for the given date range")
	// ErrComputation reports any other failure while computing the report.
	ErrComputation = errors.New("computation failed")
)
