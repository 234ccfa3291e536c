package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeInvalidField  = "INVALID_FIELD"
	ErrCodeInvalidStatus = "INVALID_STATUS"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnauthorised  = "UNAUTHORIZED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports a missing or malformed field supplied by a caller.
func NewValidationError(field, message string) *DomainError {
	return NewDomainError(ErrCodeMissingField, fmt.Sprintf("%s: %s", field, message))
}

// Common domain errors
var (
	ErrMenuItemNotFound    = NewDomainError(ErrCodeNotFound, "Menu item not found")
	ErrCategoryNotFound    = NewDomainError(ErrCodeNotFound, "Category not found")
	ErrReservationNotFound = NewDomainError(ErrCodeNotFound, "Reservation not found")
	ErrInvalidStatus       = NewDomainError(ErrCodeInvalidStatus, "Status must be pending, confirmed or cancelled")
	ErrInvalidPrice        = NewDomainError(ErrCodeInvalidField, "Price must not be negative")
	ErrInvalidGuests       = NewDomainError(ErrCodeInvalidField, "Guest count must be at least 1")
)

// SubscriptionError reports a failed live listener on a collection or document.
type SubscriptionError struct {
	Collection string
	Err        error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("subscription to %s failed: %v", e.Collection, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a rejected write or delete.
type PersistenceError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s/%s failed: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
