package domain

import "errors"

// Sentinel errors shared across services. Services wrap lower-level errors
// with %w; controllers map these to HTTP status codes.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrInvalidInput    = errors.New("invalid input")
)
