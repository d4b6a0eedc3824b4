package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound      = errors.New("domain: not found")
	ErrInvalidStatus = errors.New("domain: invalid status")
	ErrInvalidIndex  = errors.New("domain: index out of range")
	ErrInvalidInput  = errors.New("domain: invalid input")
)
