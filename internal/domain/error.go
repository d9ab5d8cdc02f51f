package domain

import (
	"errors"
	"fmt"
)

// Application error codes.
// These determine the process exit status and whether a batch is aborted.
const (
	EFORMAT   = "format"    // Unparsable required field; aborts the batch
	EINTERNAL = "internal"  // Unexpected I/O or encoding failure
	EINVALID  = "invalid"   // Bad configuration or arguments
	ELOOKUP   = "lookup"    // Referenced id or SKU absent; soft, never aborts
	ENOTFOUND = "not_found" // Input file, catalog or asset source missing
)

// Error represents an application error with a code and message.
// It implements the error interface and supports error wrapping.
type Error struct {
	// Code is a machine-readable error code (e.g., EFORMAT, ENOTFOUND).
	Code string

	// Message is a human-readable error message safe to print.
	Message string

	// Op is the operation where the error occurred (e.g., "transcode.decode").
	// Used for debugging and logging.
	Op string

	// Err is the underlying error, if any. Used for error wrapping.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the error code from an error.
// Returns EINTERNAL for non-domain errors and "" for nil.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return EINTERNAL
}

// ErrorMessage extracts a printable message from an error.
// For internal errors, returns a generic message; details go to the log.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		if e.Code == EINTERNAL {
			return "An internal error occurred. See the log for details."
		}
		return e.Message
	}

	return "An internal error occurred. See the log for details."
}

// ErrorOp extracts the operation from an error (for logging).
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}

	return ""
}

// Errorf creates a new domain error with formatted message.
// Example: domain.Errorf(domain.EFORMAT, "transcode.decode", "invalid price: %q", raw)
func Errorf(code, op, format string, args ...interface{}) error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError wraps an existing error with a domain error code and operation.
// Preserves the underlying error for logging while providing structure.
// Returns nil if err is nil.
func WrapError(err error, code, op, message string) error {
	if err == nil {
		return nil
	}

	return &Error{
		Code:    code,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// IsCode returns true if err has the given error code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}

// ExitCode maps an error to a process exit status.
// Soft lookups exit cleanly; everything else is a failure.
func ExitCode(err error) int {
	if IsValidationError(err) {
		return 2
	}
	switch ErrorCode(err) {
	case "", ELOOKUP:
		return 0
	case EINVALID:
		return 2
	default:
		return 1
	}
}

// =============================================================================
// Validation Errors (field-level errors for configuration)
// =============================================================================

// ValidationError represents one or more field validation failures.
type ValidationError struct {
	// Fields maps field names to error messages.
	Fields map[string]string

	// Op is the operation where validation failed.
	Op string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for field, msg := range e.Fields {
			if e.Op != "" {
				return fmt.Sprintf("%s: %s: %s", e.Op, field, msg)
			}
			return fmt.Sprintf("%s: %s", field, msg)
		}
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: validation failed for %d fields", e.Op, len(e.Fields))
	}
	return fmt.Sprintf("validation failed for %d fields", len(e.Fields))
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(op, field, message string) error {
	return &ValidationError{
		Op:     op,
		Fields: map[string]string{field: message},
	}
}

// AddFieldError adds a field error to an existing ValidationError.
// If err is nil or not a ValidationError, creates a new one with the field.
func AddFieldError(err error, field, message string) error {
	var ve *ValidationError
	if err != nil && errors.As(err, &ve) {
		ve.Fields[field] = message
		return ve
	}

	return &ValidationError{
		Fields: map[string]string{field: message},
	}
}

// IsValidationError returns true if err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GetValidationFields extracts field errors from a ValidationError.
// Returns nil if err is not a ValidationError.
func GetValidationFields(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

// =============================================================================
// Common errors (convenience)
// =============================================================================

// FormatError creates an error for a field that cannot be parsed.
// Example: domain.FormatError("transcode.decode", "price", "abc")
func FormatError(op, field, value string) error {
	return &Error{
		Code:    EFORMAT,
		Op:      op,
		Message: fmt.Sprintf("invalid %s: %q", field, value),
	}
}

// NotFound creates a not found error for a resource.
// Example: domain.NotFound("catalog.load", "catalog", path)
func NotFound(op, resource, identifier string) error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
	}
}

// Lookup creates a soft error for a referenced record that does not exist.
// Example: domain.Lookup("catalog.patch", "product", "42")
func Lookup(op, resource, identifier string) error {
	return &Error{
		Code:    ELOOKUP,
		Op:      op,
		Message: fmt.Sprintf("no %s with id %s", resource, identifier),
	}
}

// Invalid creates an error for bad configuration or arguments.
func Invalid(op, message string) error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error (wraps underlying error).
func Internal(err error, op, message string) error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
