package errors

import "errors"

var (
	ErrNotFound  = errors.New("route not found")
	ErrInvalidID = errors.New("invalid route ID")
	ErrDuplicate = errors.New("route already exists")
)
