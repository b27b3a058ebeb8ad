package services

import "errors"

// Service-level error taxonomy. Handlers map these onto HTTP statuses;
// anything else is treated as a generic server error.
var (
	// ErrNotFound signals that a referenced chatbot or conversation does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation signals malformed input to a configuration operation.
	ErrValidation = errors.New("invalid input")

	// ErrQuotaExceeded signals that a registered user has used up their
	// monthly message allowance.
	ErrQuotaExceeded = errors.New("monthly message quota exceeded")
)
