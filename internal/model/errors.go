package model

import "errors"

// Domain errors. All are recoverable at the call site: the operation that
// returned one made no state change (except ErrPersist, where the in-memory
// mutation succeeded but the snapshot write did not).
var (
	// ErrInvalidInput is a malformed or out-of-range primitive input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPIN is a failed PIN re-verification on an outbound-funds
	// operation.
	ErrInvalidPIN = errors.New("invalid PIN")

	// ErrInvalidCredentials is a failed name+PIN login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInsufficientFunds means the cash balance or a holding cannot cover
	// the requested debit.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateIdentity means another account already uses the name or
	// the PIN. Either collision alone blocks registration.
	ErrDuplicateIdentity = errors.New("account with this name or PIN already exists")

	// ErrLoanAlreadyActive means a loan is outstanding; loans do not stack.
	ErrLoanAlreadyActive = errors.New("loan already active")

	// ErrCapacityExceeded means the registry is full.
	ErrCapacityExceeded = errors.New("account limit reached")

	// ErrPersist wraps a snapshot write failure. Memory and disk may diverge
	// until the next successful persist.
	ErrPersist = errors.New("persisting accounts")
)
