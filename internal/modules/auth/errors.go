package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateHandle    = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrWeakCredential     = errors.New("password does not meet the minimum length")
	ErrValidation         = errors.New("validation failed")
)
