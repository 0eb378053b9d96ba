package domain

import "time"

// OffenderRecord tracks a creator address previously associated with a
// DANGER verdict. Keyed by creator address in the registry.
type OffenderRecord struct {
	Creator        string
	TokenMint      string
	Verdict        Verdict
	Reason         string
	DetectionCount int
	FirstFlaggedAt time.Time
	LastSeenAt     time.Time
}
