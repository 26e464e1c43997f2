package core

import "errors"

// Domain errors. The API layer maps these onto HTTP status codes; nothing in
// this package panics across its boundary.
var (
	ErrNotFound         = errors.New("entity not found")
	ErrDomainRinging    = errors.New("a ringing entity must be dismissed before other changes")
	ErrNotRinging       = errors.New("entity is not ringing")
	ErrLimitExceeded    = errors.New("entity limit reached")
	ErrBuiltinImmutable = errors.New("builtin entities cannot be deleted")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidState     = errors.New("operation not valid in the entity's current state")
)
