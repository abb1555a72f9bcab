// internal/liberr/errors.go

// Package liberr defines the error taxonomy shared by the domain services.
// Services wrap these sentinels with context via fmt.Errorf("...: %w", ...)
// and callers classify failures with errors.Is.
package liberr

import "errors"

var (
	// ErrNotFound is returned when an id, ISBN, barcode or loan cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned on username, email or ISBN collisions
	// where uniqueness is required.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotAvailable is returned when a copy is not in the Available state
	// at loan issue time.
	ErrNotAvailable = errors.New("copy not available")

	// ErrLoanLimitExceeded is returned when a user is already at the
	// active-loan cap.
	ErrLoanLimitExceeded = errors.New("loan limit exceeded")
)
