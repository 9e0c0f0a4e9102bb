package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the application. Lifecycle-rule violations are
// surfaced verbatim to the caller; concurrency conflicts are retryable;
// transport failures never escape the effect dispatcher.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeNotFound               = "NOT_FOUND"
	CodeIllegalTransition      = "ILLEGAL_TRANSITION"
	CodeNoOpTransition         = "NOOP_TRANSITION"
	CodeMissingRequiredField   = "MISSING_REQUIRED_FIELD"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeInvalidSortField       = "INVALID_SORT_FIELD"
	CodeEmptyUnits             = "EMPTY_UNITS"
	CodeUnsupportedType        = "UNSUPPORTED_TYPE"
	CodeTransportError         = "TRANSPORT_ERROR"
	CodeInternal               = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports a missing record.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError reports malformed, user-correctable input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewUnauthorizedError reports a caller whose role lacks a capability.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// NewIllegalTransitionError reports a status change the transition table
// does not allow from the current status.
func NewIllegalTransitionError(message string) *AppError {
	return &AppError{
		Code:    CodeIllegalTransition,
		Message: message,
	}
}

// NewNoOpTransitionError reports a transition whose target equals the
// current status.
func NewNoOpTransitionError(message string) *AppError {
	return &AppError{
		Code:    CodeNoOpTransition,
		Message: message,
	}
}

// NewMissingRequiredFieldError reports a transition missing a field the
// target status requires, such as remarks on denial.
func NewMissingRequiredFieldError(field string) *AppError {
	return &AppError{
		Code:    CodeMissingRequiredField,
		Message: fmt.Sprintf("Transition requires field %q", field),
	}
}

// NewConcurrentModificationError reports a lost optimistic-lock race. The
// caller should refetch the record and retry.
func NewConcurrentModificationError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeConcurrentModification,
		Message: fmt.Sprintf("%s with ID %v was modified concurrently, refetch and retry", resource, id),
	}
}

// NewInvalidSortFieldError reports an unknown sort key. Unknown keys are
// rejected instead of being passed into the query builder.
func NewInvalidSortFieldError(field string) *AppError {
	return &AppError{
		Code:    CodeInvalidSortField,
		Message: fmt.Sprintf("Unknown sort field %q", field),
	}
}

// NewEmptyUnitsError reports a request filed without any line items.
func NewEmptyUnitsError() *AppError {
	return &AppError{
		Code:    CodeEmptyUnits,
		Message: "A request must include at least one document",
	}
}

// NewUnsupportedTypeError reports a request type the system does not
// fulfill.
func NewUnsupportedTypeError(message string) *AppError {
	return &AppError{
		Code:    CodeUnsupportedType,
		Message: message,
	}
}

// NewTransportError reports a side-effect delivery failure. It is recorded
// in dispatch reports and logs, never returned to the API caller.
func NewTransportError(err error) *AppError {
	return &AppError{
		Code:    CodeTransportError,
		Message: "Delivery failed",
		Err:     err,
	}
}

// httpStatusFor maps application error codes to HTTP statuses.
func httpStatusFor(code string) int {
	switch code {
	case CodeValidation, CodeIllegalTransition, CodeNoOpTransition, CodeMissingRequiredField,
		CodeInvalidSortField, CodeEmptyUnits, CodeUnsupportedType:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConcurrentModification:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response.
func RespondWithError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*AppError); ok {
		response := ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
		return c.Status(httpStatusFor(appErr.Code)).JSON(response)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
}
