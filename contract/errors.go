package contract

import "errors"

// Error kinds returned by the contract. Rejected calls wrap one of these; match with errors.Is.
var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrNotFound               = errors.New("not found")
	ErrAlreadyRegistered      = errors.New("already registered")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrNotInitialized         = errors.New("ledger not initialized")
	ErrAlreadyInitialized     = errors.New("ledger already initialized")
)
