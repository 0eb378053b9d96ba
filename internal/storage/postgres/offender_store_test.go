package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/storage"
	"github.com/Ticoworld/veritas/internal/storage/postgres"
)

func TestOffenderStore_FlagAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewOffenderStore(pool)
	ctx := context.Background()

	flagged, err := store.Flag(ctx, &domain.OffenderRecord{
		Creator:   "CreatorWallet001",
		TokenMint: "MintAddress001",
		Verdict:   domain.VerdictDanger,
		Reason:    "mint authority live with dumped creator",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, flagged.DetectionCount)
	assert.False(t, flagged.FirstFlaggedAt.IsZero())
	assert.False(t, flagged.LastSeenAt.IsZero())

	retrieved, err := store.Get(ctx, "CreatorWallet001")
	require.NoError(t, err)

	assert.Equal(t, "CreatorWallet001", retrieved.Creator)
	assert.Equal(t, "MintAddress001", retrieved.TokenMint)
	assert.Equal(t, domain.VerdictDanger, retrieved.Verdict)
	assert.Equal(t, "mint authority live with dumped creator", retrieved.Reason)
	assert.Equal(t, 1, retrieved.DetectionCount)
}

func TestOffenderStore_RepeatFlagIncrements(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewOffenderStore(pool)
	ctx := context.Background()

	first, err := store.Flag(ctx, &domain.OffenderRecord{
		Creator:   "CreatorWallet002",
		TokenMint: "MintAddressA",
		Verdict:   domain.VerdictDanger,
		Reason:    "initial detection",
	})
	require.NoError(t, err)

	second, err := store.Flag(ctx, &domain.OffenderRecord{
		Creator:   "CreatorWallet002",
		TokenMint: "MintAddressB",
		Verdict:   domain.VerdictDanger,
		Reason:    "relaunched under a new mint",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, second.DetectionCount)
	assert.Equal(t, "MintAddressB", second.TokenMint)
	assert.Equal(t, "relaunched under a new mint", second.Reason)
	// first_flagged_at survives the upsert.
	assert.WithinDuration(t, first.FirstFlaggedAt, second.FirstFlaggedAt, 0)
	assert.True(t, second.LastSeenAt.After(second.FirstFlaggedAt) || second.LastSeenAt.Equal(second.FirstFlaggedAt))
}

func TestOffenderStore_GetUnknownCreator(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewOffenderStore(pool)
	_, err := store.Get(context.Background(), "NeverFlagged")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOffenderStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := postgres.NewOffenderStore(pool)
	ctx := context.Background()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.Flag(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.Flag(ctx, &domain.OffenderRecord{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
