package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/storage"
)

// OffenderStore implements storage.OffenderStore using PostgreSQL.
type OffenderStore struct {
	pool *Pool
}

// NewOffenderStore creates a new OffenderStore.
func NewOffenderStore(pool *Pool) *OffenderStore {
	return &OffenderStore{pool: pool}
}

// Compile-time interface check.
var _ storage.OffenderStore = (*OffenderStore)(nil)

// Get retrieves the record for a creator. Returns ErrNotFound if the
// creator has never been flagged.
func (s *OffenderStore) Get(ctx context.Context, creator string) (*domain.OffenderRecord, error) {
	if creator == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT creator, token_mint, verdict, reason, detection_count, first_flagged_at, last_seen_at
		FROM known_offenders
		WHERE creator = $1
	`

	row := s.pool.QueryRow(ctx, query, creator)
	var r domain.OffenderRecord
	err := row.Scan(&r.Creator, &r.TokenMint, &r.Verdict, &r.Reason,
		&r.DetectionCount, &r.FirstFlaggedAt, &r.LastSeenAt)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get offender: %w", err)
	}
	return &r, nil
}

// Flag upserts a detection, preserving first_flagged_at and incrementing
// detection_count on conflict.
func (s *OffenderStore) Flag(ctx context.Context, record *domain.OffenderRecord) (*domain.OffenderRecord, error) {
	if record == nil || record.Creator == "" {
		return nil, storage.ErrInvalidInput
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO known_offenders (
			creator, token_mint, verdict, reason, detection_count, first_flagged_at, last_seen_at
		) VALUES ($1, $2, $3, $4, 1, $5, $5)
		ON CONFLICT (creator) DO UPDATE SET
			token_mint      = EXCLUDED.token_mint,
			verdict         = EXCLUDED.verdict,
			reason          = EXCLUDED.reason,
			detection_count = known_offenders.detection_count + 1,
			last_seen_at    = EXCLUDED.last_seen_at
		RETURNING creator, token_mint, verdict, reason, detection_count, first_flagged_at, last_seen_at
	`

	row := s.pool.QueryRow(ctx, query,
		record.Creator,
		record.TokenMint,
		string(record.Verdict),
		record.Reason,
		now,
	)

	var r domain.OffenderRecord
	err := row.Scan(&r.Creator, &r.TokenMint, &r.Verdict, &r.Reason,
		&r.DetectionCount, &r.FirstFlaggedAt, &r.LastSeenAt)
	if err != nil {
		return nil, fmt.Errorf("flag offender: %w", err)
	}
	return &r, nil
}
