// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "user", "progress", "leaderboard"
	Op      string // Operation that failed, e.g., "Create", "Record"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound       = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrEmailTaken         = NewDomainError("user", "Create", ErrAlreadyExists, "user with this email already exists")
	ErrInvalidCredentials = NewDomainError("user", "Authenticate", ErrUnauthorized, "invalid email or password")
	ErrNoProfileChanges   = NewDomainError("user", "UpdateProfile", ErrInvalidInput, "no fields to update")
	ErrInvalidSkillLevel  = NewDomainError("user", "Validate", ErrInvalidInput, "skill level must be beginner, intermediate or advanced")
)

// Auth errors
var (
	ErrTokenMissing = NewDomainError("auth", "Authenticate", ErrUnauthorized, "access token required")
	ErrTokenInvalid = NewDomainError("auth", "Authenticate", ErrForbidden, "invalid or expired token")
)

// Course domain errors
var (
	ErrCourseNotFound = NewDomainError("course", "Find", ErrNotFound, "course not found")
	ErrLessonNotFound = NewDomainError("course", "FindLesson", ErrNotFound, "lesson not found")
)

// Progress domain errors
var (
	ErrProgressNotFound = NewDomainError("progress", "Find", ErrNotFound, "progress not found")
	ErrInvalidScore     = NewDomainError("progress", "Validate", ErrValueOutOfRange, "score must be between 0 and 100")
	ErrInvalidLessonID  = NewDomainError("progress", "Validate", ErrInvalidID, "lesson id must be positive")
)

// Leaderboard domain errors
var (
	ErrInvalidPeriod = NewDomainError("leaderboard", "Validate", ErrInvalidInput, "period must be daily, weekly, monthly or all")
	ErrInvalidLimit  = NewDomainError("leaderboard", "Validate", ErrValueOutOfRange, "limit must be between 1 and 100")
)

// Dictionary domain errors
var (
	ErrSignNotFound = NewDomainError("dictionary", "Find", ErrNotFound, "sign not found")
)

// Recognition domain errors
var (
	ErrInvalidConfidence     = NewDomainError("recognition", "Validate", ErrValueOutOfRange, "confidence must be between 0 and 1")
	ErrRecognizerUnavailable = NewDomainError("recognition", "Feedback", ErrServiceUnavailable, "recognition service is unavailable")
)

// Storage errors
var (
	ErrAvatarTooLarge    = NewDomainError("storage", "UploadAvatar", ErrValueOutOfRange, "file too large, max 5MB")
	ErrUnsupportedImage  = NewDomainError("storage", "UploadAvatar", ErrInvalidFormat, "only images are allowed (jpeg, jpg, png, gif, webp)")
	ErrAvatarUploadFails = NewDomainError("storage", "UploadAvatar", ErrExternalService, "failed to upload avatar")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if the error means the caller is not authenticated.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden checks if the error means the caller is not allowed.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
