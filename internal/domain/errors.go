package domain

import "errors"

// Investigation errors. Collectors that merely degrade do not surface
// errors here; only conditions that abort an investigation do.
var (
	// ErrInvalidSubject is returned for malformed mint addresses.
	// Rejected before any I/O is attempted.
	ErrInvalidSubject = errors.New("invalid subject: not a base58 32-byte address")

	// ErrAssetNotFound is returned when the ledger has no account for the
	// subject, or the account is not a recognized token mint.
	ErrAssetNotFound = errors.New("asset not found: no token mint at address")

	// ErrReasoningFailed is returned when the AI judgment call errors or
	// produces unparsable output. A verdict is never emitted without a
	// reasoned judgment.
	ErrReasoningFailed = errors.New("analysis failed: reasoning engine unavailable")
)
