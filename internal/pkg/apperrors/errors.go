package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Transport and server errors
	ErrTransport  = errors.New("portal unreachable")
	ErrUnexpected = errors.New("unexpected portal response")
)

// Portal domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameExists     = errors.New("username already exists")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseCodeExists   = errors.New("course code already exists")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
)

// Client-side view errors
var (
	ErrMutationPending = errors.New("another change is still in progress")
	ErrNotConfirmed    = errors.New("action not confirmed")
	ErrViewClosed      = errors.New("view is no longer mounted")
	ErrRefreshFailed   = errors.New("change saved but the list could not be refreshed")
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// APIError is a non-2xx answer from the portal.
// Message holds the server's "error" field when the body carried one.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

// Error implements error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Unwrap maps the status onto the error taxonomy so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	return ClassifyStatus(e.Status)
}

// ClassifyStatus returns the sentinel for an HTTP status.
func ClassifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrPermissionDenied
	case status == http.StatusNotFound:
		return ErrResourceNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 400 && status < 500:
		return ErrValidationFailed
	default:
		return ErrUnexpected
	}
}

// UserMessage turns err into something that can be shown to a person.
// Server messages on 4xx answers and local validation messages are shown verbatim;
// transport failures, 5xx answers and malformed bodies fall back to generic.
func UserMessage(err error, generic string) string {
	if err == nil {
		return ""
	}

	for _, s := range []error{ErrRefreshFailed, ErrMutationPending, ErrNotConfirmed, ErrViewClosed} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Message != "" {
			return apiErr.Message
		}
		return generic
	}

	var custom *CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}

	return generic
}
