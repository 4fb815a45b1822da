package common

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Machine-readable error codes returned to clients.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidTransition  = "INVALID_TRANSITION"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeTenantNotFound     = "TENANT_NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateNotConfigured  = "RATE_NOT_CONFIGURED"
	CodeBusinessRule       = "BUSINESS_RULE_VIOLATION"
	CodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL"
)

// AppError is a classified domain or infrastructure error. Domain layers
// return it unchanged; the HTTP boundary maps it onto a status code and
// the standard error envelope.
type AppError struct {
	Code    string
	Status  int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(code string, status int, message string) *AppError {
	return &AppError{Code: code, Status: status, Message: message}
}

func NewValidationError(message string) *AppError {
	return newAppError(CodeValidation, http.StatusBadRequest, message)
}

func NewInvalidTransitionError(from, to string) *AppError {
	return newAppError(CodeInvalidTransition, http.StatusBadRequest, "illegal status transition from "+from+" to "+to)
}

func NewUnauthenticatedError() *AppError {
	return newAppError(CodeUnauthenticated, http.StatusUnauthorized, "authentication required")
}

func NewTenantNotFoundError() *AppError {
	return newAppError(CodeTenantNotFound, http.StatusForbidden, "no tenant resolved for principal")
}

func NewForbiddenError(message string) *AppError {
	return newAppError(CodeForbidden, http.StatusForbidden, message)
}

func NewNotFoundError(resource string) *AppError {
	return newAppError(CodeNotFound, http.StatusNotFound, resource+" not found")
}

func NewConflictError(message string) *AppError {
	return newAppError(CodeConflict, http.StatusConflict, message)
}

func NewRateNotConfiguredError(serviceType string, weight float64) *AppError {
	e := newAppError(CodeRateNotConfigured, http.StatusUnprocessableEntity, "no rate configured for the requested service and weight")
	e.Cause = &rateBracketError{serviceType: serviceType, weight: weight}
	return e
}

func NewBusinessRuleError(message string) *AppError {
	return newAppError(CodeBusinessRule, http.StatusUnprocessableEntity, message)
}

func NewRateLimitError() *AppError {
	return newAppError(CodeRateLimitExceeded, http.StatusTooManyRequests, "rate limit exceeded")
}

// NewInternalError wraps an infrastructure failure with an opaque
// correlation id. The cause is logged server-side and never returned.
func NewInternalError(cause error) *AppError {
	correlationID := uuid.NewString()
	log.Printf("ERROR [%s]: %v", correlationID, cause)
	return &AppError{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "internal error (ref " + correlationID + ")",
		Cause:   cause,
	}
}

type rateBracketError struct {
	serviceType string
	weight      float64
}

func (e *rateBracketError) Error() string {
	return "no rate bracket for service " + e.serviceType
}

// SendError maps any error onto the standard JSON envelope. Errors that are
// not an AppError are treated as infrastructure failures.
func SendError(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}
	// AppError.Message never carries the underlying cause, so it is safe
	// to return as-is for every class including INTERNAL.
	return c.JSON(appErr.Status, CreateErrorResponse(appErr.Code, appErr.Message, nil))
}

// IsCode reports whether err is an AppError carrying the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
