package errors

import "errors"

var (
	ErrNotFound  = errors.New("seat not found")
	ErrInvalidID = errors.New("invalid seat ID")
)
