package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a devloop error with a structured error code.
// Codes use the form DL-<AREA>-<NNNN>; the numeric part mirrors the closest
// HTTP status so CLI output and logs stay greppable.
type DomainError struct {
	Code    string // Error code (e.g., "DL-SETUP-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Setup Errors (SETUP): fatal, the process exits non-zero.
// ============================================================================

var (
	// ErrProjectNotFound indicates no .devloop folder was found.
	ErrProjectNotFound = NewDomainError("DL-SETUP-4040", "devloop project not found")

	// ErrConfigMissing indicates the project has no conf.yaml.
	ErrConfigMissing = NewDomainError("DL-SETUP-4041", "project configuration missing")

	// ErrConfigInvalid indicates conf.yaml failed validation.
	ErrConfigInvalid = NewDomainError("DL-SETUP-4000", "invalid project configuration")

	// ErrAlreadyRunning indicates a live server already owns the project.
	ErrAlreadyRunning = NewDomainError("DL-SETUP-4090", "server already running")
)

// ============================================================================
// Runtime Errors (PORT, STOP, SRV)
// ============================================================================

var (
	// ErrNoFreePort indicates the port allocator exhausted its attempts.
	ErrNoFreePort = NewDomainError("DL-PORT-5030", "no free port available")

	// ErrStopTimeout indicates the server did not remove its state record in time.
	ErrStopTimeout = NewDomainError("DL-STOP-5040", "timed out waiting for server to stop")

	// ErrStartTimeout indicates a launched server never published its state.
	ErrStartTimeout = NewDomainError("DL-START-5040", "timed out waiting for server to start")

	// ErrNotRunning indicates an operation needs a live server and none exists.
	ErrNotRunning = NewDomainError("DL-SRV-4041", "server not running")

	// ErrInternal indicates an unexpected failure.
	ErrInternal = NewDomainError("DL-SRV-5000", "internal error")
)

// ============================================================================
// IPC Errors (IPC): protocol-level, logged and discarded.
// ============================================================================

var (
	// ErrMalformedRequest indicates a queue entry that could not be decoded.
	ErrMalformedRequest = NewDomainError("DL-IPC-4220", "malformed queue entry")

	// ErrMalformedState indicates a state record that could not be decoded.
	ErrMalformedState = NewDomainError("DL-IPC-4221", "malformed state record")

	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("DL-ARG-1001", "invalid argument")
)
