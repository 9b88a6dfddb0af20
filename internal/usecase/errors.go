package usecase

import "errors"

// Stable outward error kinds. The HTTP layer maps these to status codes;
// nothing else escapes the usecases unwrapped.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("email already exists")
)
