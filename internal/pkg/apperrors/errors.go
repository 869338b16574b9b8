package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrSessionNotFound    = errors.New("session not found")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordMismatch = errors.New("the passwords you entered do not match")
	ErrCaptchaFailed    = errors.New("captcha verification failed")
	ErrNoConfirmation   = errors.New("missing confirmation")

	// Persistence errors
	ErrDatabase = errors.New("database error")
)

// Student errors
var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrIdentifierTaken   = errors.New("identifier already taken")
	ErrInvalidIdentifier = errors.New("invalid identifier format")
	ErrAdminImmutable    = errors.New("the admin account cannot be deleted")
)

// Section errors
var (
	ErrSectionNotFound      = errors.New("section not found")
	ErrSectionAlreadyExists = errors.New("section already exists")
	ErrDefaultSectionLocked = errors.New("the default section cannot be deleted")
)

// Workspace errors
var (
	ErrInvalidSlot     = errors.New("invalid assignment slot name")
	ErrInvalidFilename = errors.New("invalid filename")
	ErrNoFile          = errors.New("no file chosen")
	ErrFileNotFound    = errors.New("file not found")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps ErrValidationFailed with a user-visible message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}
