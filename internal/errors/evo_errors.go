package errors

import (
	"fmt"
)

// ErrorCategory represents the kinds of failures the evolution engine can
// surface.
type ErrorCategory string

const (
	// Caller-supplied parameter out of range: generation count, variant,
	// adaptation scheme, migration probability, incompatible problem shape.
	ErrorCategoryValue ErrorCategory = "VALUE"

	// Worker launch failed or an evolution was interrupted.
	ErrorCategoryRuntime ErrorCategory = "RUNTIME"

	// An objective function evaluation failed inside a worker.
	ErrorCategoryObjective ErrorCategory = "OBJECTIVE"

	// Invalid run configuration supplied to the CLI layer.
	ErrorCategoryConfig ErrorCategory = "CONFIG"
)

// EvoError is a categorized error with the component and operation that
// produced it.
type EvoError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface.
func (e *EvoError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *EvoError) Unwrap() error {
	return e.Underlying
}

// NewValueError reports a caller-supplied argument out of its legal range.
func NewValueError(component, operation, message string) *EvoError {
	return &EvoError{
		Category:  ErrorCategoryValue,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// NewRuntimeError reports a worker-level failure such as an interrupted
// evolution.
func NewRuntimeError(component, operation, message string) *EvoError {
	return &EvoError{
		Category:  ErrorCategoryRuntime,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// NewConfigError reports an invalid run configuration.
func NewConfigError(component, operation, message string) *EvoError {
	return &EvoError{
		Category:  ErrorCategoryConfig,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// WrapObjectiveError wraps a failure propagated out of an objective function
// evaluation.
func WrapObjectiveError(err error, component, operation string) *EvoError {
	if err == nil {
		return nil
	}
	return &EvoError{
		Category:   ErrorCategoryObjective,
		Component:  component,
		Operation:  operation,
		Message:    "objective function evaluation failed",
		Underlying: err,
	}
}

// IsCategory reports whether err is an EvoError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	evoErr, ok := err.(*EvoError)
	if !ok {
		return false
	}
	return evoErr.Category == category
}

// IsValueError reports whether err is a value error.
func IsValueError(err error) bool {
	return IsCategory(err, ErrorCategoryValue)
}

// IsRuntimeError reports whether err is a runtime error.
func IsRuntimeError(err error) bool {
	return IsCategory(err, ErrorCategoryRuntime)
}

// IsObjectiveError reports whether err wraps an objective evaluation failure.
func IsObjectiveError(err error) bool {
	return IsCategory(err, ErrorCategoryObjective)
}
