package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/storage"
)

func TestOffenderStore_GetUnknownCreator(t *testing.T) {
	store := NewOffenderStore()
	_, err := store.Get(context.Background(), "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOffenderStore_FlagAndGet(t *testing.T) {
	store := NewOffenderStore()
	ctx := context.Background()

	flagged, err := store.Flag(ctx, &domain.OffenderRecord{
		Creator:   "creator",
		TokenMint: "mintA",
		Verdict:   domain.VerdictDanger,
		Reason:    "rug pattern",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flagged.DetectionCount != 1 {
		t.Errorf("first flag should count 1, got %d", flagged.DetectionCount)
	}
	if flagged.FirstFlaggedAt.IsZero() || flagged.LastSeenAt.IsZero() {
		t.Error("timestamps not set")
	}

	got, err := store.Get(ctx, "creator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TokenMint != "mintA" || got.Reason != "rug pattern" {
		t.Errorf("unexpected record: %+v", got)
	}
}

func TestOffenderStore_RepeatFlagIncrements(t *testing.T) {
	store := NewOffenderStore()
	ctx := context.Background()

	first, _ := store.Flag(ctx, &domain.OffenderRecord{Creator: "creator", TokenMint: "mintA", Verdict: domain.VerdictDanger})
	second, err := store.Flag(ctx, &domain.OffenderRecord{Creator: "creator", TokenMint: "mintB", Verdict: domain.VerdictDanger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.DetectionCount != 2 {
		t.Errorf("expected count 2, got %d", second.DetectionCount)
	}
	if !second.FirstFlaggedAt.Equal(first.FirstFlaggedAt) {
		t.Error("FirstFlaggedAt must be preserved across flags")
	}
	if second.TokenMint != "mintB" {
		t.Errorf("latest token should be recorded, got %s", second.TokenMint)
	}
}

func TestOffenderStore_InvalidInput(t *testing.T) {
	store := NewOffenderStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, ""); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.Flag(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := store.Flag(ctx, &domain.OffenderRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestOffenderStore_ReturnsCopies(t *testing.T) {
	store := NewOffenderStore()
	ctx := context.Background()

	store.Flag(ctx, &domain.OffenderRecord{Creator: "creator", TokenMint: "mintA", Verdict: domain.VerdictDanger})
	got, _ := store.Get(ctx, "creator")
	got.TokenMint = "tampered"

	again, _ := store.Get(ctx, "creator")
	if again.TokenMint != "mintA" {
		t.Error("mutating a returned record must not affect the store")
	}
}
