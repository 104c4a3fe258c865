package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced by the services wraps exactly one of these.
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Validation errors
	ErrValidationFailed  = errors.New("validation failed")
	ErrInvalidIdentifier = fmt.Errorf("invalid identifier: %w", ErrValidationFailed)
	ErrBadRequest        = fmt.Errorf("bad request: %w", ErrValidationFailed)

	// Credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User errors
var (
	ErrUserNotFound          = fmt.Errorf("user not found: %w", ErrResourceNotFound)
	ErrUsernameAlreadyExists = fmt.Errorf("username already exists: %w", ErrResourceAlreadyExists)
	ErrIdentifierExists      = fmt.Errorf("identifier already exists: %w", ErrResourceAlreadyExists)
)

// Student errors
var (
	ErrStudentNotFound = fmt.Errorf("student not found: %w", ErrResourceNotFound)
	ErrAlreadyEnrolled = fmt.Errorf("student already enrolled in course: %w", ErrConflict)
	ErrNotEnrolled     = fmt.Errorf("student not enrolled in course: %w", ErrConflict)
)

// Lecturer errors
var (
	ErrLecturerNotFound = fmt.Errorf("lecturer not found: %w", ErrResourceNotFound)
	ErrAlreadyAssigned  = fmt.Errorf("lecturer already assigned to course: %w", ErrConflict)
	ErrNotAssigned      = fmt.Errorf("lecturer not assigned to course: %w", ErrConflict)
)

// Admin errors
var (
	ErrAdminNotFound = fmt.Errorf("admin not found: %w", ErrResourceNotFound)
)

// Department errors
var (
	ErrDepartmentNotFound      = fmt.Errorf("department not found: %w", ErrResourceNotFound)
	ErrDepartmentAlreadyExists = fmt.Errorf("department with this name already exists: %w", ErrResourceAlreadyExists)
)

// Course errors
var (
	ErrCourseNotFound      = fmt.Errorf("course not found: %w", ErrResourceNotFound)
	ErrCourseAlreadyExists = fmt.Errorf("course with this name already exists: %w", ErrResourceAlreadyExists)
)

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
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

// IsNotFound reports whether err is of the NotFound kind.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsConflict reports whether err is of the Conflict kind (uniqueness or duplicate edge).
func IsConflict(err error) bool {
	return Is(err, ErrConflict, ErrResourceAlreadyExists)
}

// IsInvalidInput reports whether err is of the InvalidInput kind.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
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

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
