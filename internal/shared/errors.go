package shared

import "errors"

var (
	// ErrNotFound indicates the referenced entity is absent or outside the tenant scope.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or structural-integrity violation.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates a business-rule violation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the company has not enabled the requested module.
	ErrForbidden = errors.New("forbidden")
)
