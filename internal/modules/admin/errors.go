package admin

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNotProfessional    = errors.New("user is not a professional")
	ErrVerificationClosed = errors.New("verification already decided the other way")
	ErrNotSuspended       = errors.New("user not found or not suspended")
	ErrValidation         = errors.New("validation error")
)
