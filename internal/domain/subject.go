package domain

import (
	"strings"

	"github.com/mr-tron/base58"
)

// Subject is a validated investigation subject: a token mint address.
// Immutable after construction; the raw caller input is normalized once
// (whitespace trimmed, case preserved, base58 is case-sensitive).
type Subject struct {
	mint string
}

// NewSubject validates and normalizes a caller-supplied mint address.
// Returns ErrInvalidSubject if the input does not decode to a 32-byte
// public key.
func NewSubject(raw string) (Subject, error) {
	mint := strings.TrimSpace(raw)
	if mint == "" {
		return Subject{}, ErrInvalidSubject
	}
	decoded, err := base58.Decode(mint)
	if err != nil || len(decoded) != 32 {
		return Subject{}, ErrInvalidSubject
	}
	return Subject{mint: mint}, nil
}

// Mint returns the normalized mint address.
func (s Subject) Mint() string {
	return s.mint
}

// IsZero reports whether the subject was never validated.
func (s Subject) IsZero() bool {
	return s.mint == ""
}
