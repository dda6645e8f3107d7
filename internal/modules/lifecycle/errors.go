package lifecycle

import "errors"

var (
	// ErrServiceNotFoundOrAlreadyProcessed is returned when a conditional
	// update matched no row: the service is gone, owned by someone else at
	// the store level, or already moved past the expected status.
	ErrServiceNotFoundOrAlreadyProcessed = errors.New("service not found or already processed")
	ErrValidation                        = errors.New("validation error")
)
