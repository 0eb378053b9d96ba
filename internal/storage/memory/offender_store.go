package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/storage"
)

// OffenderStore is an in-memory implementation of storage.OffenderStore.
type OffenderStore struct {
	mu   sync.RWMutex
	data map[string]*domain.OffenderRecord // keyed by creator
}

// NewOffenderStore creates a new in-memory offender store.
func NewOffenderStore() *OffenderStore {
	return &OffenderStore{
		data: make(map[string]*domain.OffenderRecord),
	}
}

// Compile-time interface check.
var _ storage.OffenderStore = (*OffenderStore)(nil)

// Get retrieves the record for a creator. Returns ErrNotFound if the
// creator has never been flagged.
func (s *OffenderStore) Get(_ context.Context, creator string) (*domain.OffenderRecord, error) {
	if creator == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[creator]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	recordCopy := *r
	return &recordCopy, nil
}

// Flag upserts a detection, preserving FirstFlaggedAt and incrementing
// DetectionCount for known creators.
func (s *OffenderStore) Flag(_ context.Context, record *domain.OffenderRecord) (*domain.OffenderRecord, error) {
	if record == nil || record.Creator == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := &domain.OffenderRecord{
		Creator:        record.Creator,
		TokenMint:      record.TokenMint,
		Verdict:        record.Verdict,
		Reason:         record.Reason,
		DetectionCount: 1,
		FirstFlaggedAt: now,
		LastSeenAt:     now,
	}
	if prev, exists := s.data[record.Creator]; exists {
		stored.DetectionCount = prev.DetectionCount + 1
		stored.FirstFlaggedAt = prev.FirstFlaggedAt
	}
	s.data[record.Creator] = stored

	recordCopy := *stored
	return &recordCopy, nil
}
