package errors

import "errors"

var (
	ErrNotFound  = errors.New("route price not found")
	ErrInvalidID = errors.New("invalid route price ID")
)
