package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidInputError reports scheduler input that cannot be scheduled, such
// as an employee without a preference for one of the seven days.
type InvalidInputError struct {
	Employee string
	// Field is the day name for preference problems, or "priority".
	Field string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input for employee %q (%s): %v", e.Employee, e.Field, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Define specific error types for better error handling
var (
	ErrInvalidFieldCount  = fmt.Errorf("invalid field count")
	ErrEmptyName          = fmt.Errorf("empty employee name")
	ErrUnknownShift       = fmt.Errorf("unknown shift")
	ErrInvalidPriority    = fmt.Errorf("invalid priority order")
	ErrDuplicateEmployee  = fmt.Errorf("duplicate employee")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported roster format")
	ErrMissingPreference  = fmt.Errorf("missing shift preference")
	ErrInvalidPreferences = fmt.Errorf("invalid preference count")
	ErrRunNotFound        = fmt.Errorf("run not found")
)
