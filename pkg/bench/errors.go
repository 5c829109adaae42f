package bench

import (
	"errors"
	"fmt"
)

// ErrorClass classifies a benchmark core error for the caller's skip/abort
// decision. No error is recovered inside the core.
type ErrorClass string

const (
	// ErrorClassConfig indicates missing required parameters or an
	// unsupported mechanism for the attempted operation. Never retried.
	ErrorClassConfig ErrorClass = "config"

	// ErrorClassInstall indicates a failure of the underlying install
	// mechanism (package not found, script exited non-zero).
	ErrorClassInstall ErrorClass = "install"

	// ErrorClassExecution indicates an external solver process exited
	// non-zero. No partial-result recovery.
	ErrorClassExecution ErrorClass = "execution"

	// ErrorClassTiming indicates the process timer output did not match the
	// expected pattern. Falling back to uncorrected timing would corrupt
	// cross-solver comparisons, so this is always a hard failure.
	ErrorClassTiming ErrorClass = "timing"

	// ErrorClassCapability indicates a contract misuse such as GetResult
	// before any Run.
	ErrorClassCapability ErrorClass = "capability"
)

// Error is a classified benchmark core error with reporting context.
type Error struct {
	// Class is the error classification.
	Class ErrorClass

	// Message is the human-readable error message.
	Message string

	// Solver is the display name of the solver involved, if any.
	Solver string

	// Environment is the target environment name, if any.
	Environment string

	// RawOutput carries unparsed timer or process output to aid debugging.
	RawOutput string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Class, e.Message)
	if e.Solver != "" {
		msg += fmt.Sprintf(" (solver=%s", e.Solver)
		if e.Environment != "" {
			msg += fmt.Sprintf(", environment=%s", e.Environment)
		}
		msg += ")"
	} else if e.Environment != "" {
		msg += fmt.Sprintf(" (environment=%s)", e.Environment)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.RawOutput != "" {
		msg += fmt.Sprintf(" [output: %q]", e.RawOutput)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// NewConfigError creates a configuration error.
func NewConfigError(message string, err error) *Error {
	return &Error{Class: ErrorClassConfig, Message: message, Err: err}
}

// NewInstallError creates an installation error for a solver/environment pair.
func NewInstallError(message, solver, environment string, err error) *Error {
	return &Error{
		Class:       ErrorClassInstall,
		Message:     message,
		Solver:      solver,
		Environment: environment,
		Err:         err,
	}
}

// NewExecutionError creates an execution error carrying the process output.
func NewExecutionError(message, solver, output string, err error) *Error {
	return &Error{
		Class:     ErrorClassExecution,
		Message:   message,
		Solver:    solver,
		RawOutput: output,
		Err:       err,
	}
}

// NewTimingError creates a timing-protocol error carrying the raw timer output.
func NewTimingError(message, solver, rawOutput string, err error) *Error {
	return &Error{
		Class:     ErrorClassTiming,
		Message:   message,
		Solver:    solver,
		RawOutput: rawOutput,
		Err:       err,
	}
}

// NewCapabilityError creates a contract-misuse error.
func NewCapabilityError(message, solver string) *Error {
	return &Error{Class: ErrorClassCapability, Message: message, Solver: solver}
}

// ClassOf returns the classification of err, or empty when err is not a
// benchmark core error.
func ClassOf(err error) ErrorClass {
	var be *Error
	if errors.As(err, &be) {
		return be.Class
	}
	return ""
}

// IsClass reports whether err carries the given classification.
func IsClass(err error, class ErrorClass) bool {
	return ClassOf(err) == class
}
