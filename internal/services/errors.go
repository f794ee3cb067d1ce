package services

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps request validation failures.
	ErrInvalid = errors.New("invalid request")
)
