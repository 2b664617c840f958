package domain

import "errors"

var (
	// ErrInvalidAddress is returned when an input key is not a base58 encoded 32-byte key
	ErrInvalidAddress = errors.New("invalid address")

	// ErrTruncatedBuffer is returned when account data is shorter than its schema
	ErrTruncatedBuffer = errors.New("truncated buffer")

	// ErrSchemaMismatch is returned when account data does not fit the expected schema
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrDerivationExhausted is returned when no bump seed yields an off-curve address
	ErrDerivationExhausted = errors.New("program address derivation exhausted")

	// ErrMaxSeedLength is returned when a derivation seed is too long or there are too many seeds
	ErrMaxSeedLength = errors.New("max seed length exceeded")

	// ErrFetchFailure is returned when the RPC node or metadata service cannot be reached
	ErrFetchFailure = errors.New("fetch failure")

	// ErrTimestampOutOfRange is returned when a unix timestamp is past the representable range
	ErrTimestampOutOfRange = errors.New("timestamp out of range")

	// ErrAccountNotFound is returned when a required account does not exist on chain
	ErrAccountNotFound = errors.New("account not found")
)
