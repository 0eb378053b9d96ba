// Package storage defines the persistent collaborators of the
// investigator: the known-offender registry and the verdict archive.
package storage

import (
	"context"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
)

// OffenderStore is the known-offender registry, keyed by creator address.
type OffenderStore interface {
	// Get retrieves the record for a creator. Returns ErrNotFound if the
	// creator has never been flagged.
	Get(ctx context.Context, creator string) (*domain.OffenderRecord, error)

	// Flag upserts a detection: a new creator gets DetectionCount 1 and
	// FirstFlaggedAt now; an existing one keeps FirstFlaggedAt and has
	// DetectionCount incremented. Returns the stored record.
	Flag(ctx context.Context, record *domain.OffenderRecord) (*domain.OffenderRecord, error)
}

// ArchivedVerdict is one completed investigation, flattened for the
// append-only analytics archive.
type ArchivedVerdict struct {
	Mint               string
	Score              int
	Verdict            string
	DeterministicScore int
	AIScore            int
	Creator            string
	FastPath           bool
	Degraded           []string
	DurationMs         int64
	InvestigatedAt     time.Time
}

// VerdictArchive records completed investigations for later analytics.
// Best-effort from the investigator's perspective.
type VerdictArchive interface {
	Insert(ctx context.Context, v *ArchivedVerdict) error
	GetByMint(ctx context.Context, mint string) ([]*ArchivedVerdict, error)
}
