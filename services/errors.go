package services

import "errors"

// Domain failure kinds. Services wrap these with context via fmt.Errorf("%w");
// controllers translate them to HTTP statuses with errors.Is. Authorization
// failures are never retried, they are not transient.
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrMembershipRequired = errors.New("membership required")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrValidation         = errors.New("invalid input")
	ErrAlreadyApplied     = errors.New("already applied")
	ErrConflict           = errors.New("concurrent update conflict")
)
