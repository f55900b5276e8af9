package errors

import "errors"

var (
	ErrNotFound              = errors.New("booking not found")
	ErrInvalidID             = errors.New("invalid booking ID")
	ErrDuplicateTrackingCode = errors.New("tracking code already in use")
)
