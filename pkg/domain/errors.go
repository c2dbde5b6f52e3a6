package domain

import "errors"

// Record errors
var (
	ErrMemberNotFound = errors.New("member not found")
	ErrPlanNotFound   = errors.New("membership plan not found")
	ErrPhotoNotFound  = errors.New("photo not found")
)

// Authentication errors
var (
	ErrStaffNotFound      = errors.New("staff account not found")
	ErrStaffAlreadyExists = errors.New("staff account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account locked due to too many failed login attempts")
	ErrInvalidToken       = errors.New("invalid token")
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a rejected field before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
