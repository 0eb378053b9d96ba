package memory

import (
	"context"
	"sync"

	"github.com/Ticoworld/veritas/internal/storage"
)

// VerdictArchive is an in-memory implementation of storage.VerdictArchive.
type VerdictArchive struct {
	mu   sync.RWMutex
	data []*storage.ArchivedVerdict
}

// NewVerdictArchive creates a new in-memory verdict archive.
func NewVerdictArchive() *VerdictArchive {
	return &VerdictArchive{}
}

// Compile-time interface check.
var _ storage.VerdictArchive = (*VerdictArchive)(nil)

// Insert appends a completed verdict.
func (a *VerdictArchive) Insert(_ context.Context, v *storage.ArchivedVerdict) error {
	if v == nil || v.Mint == "" {
		return storage.ErrInvalidInput
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	verdictCopy := *v
	a.data = append(a.data, &verdictCopy)
	return nil
}

// GetByMint retrieves all archived verdicts for a mint, insertion order.
func (a *VerdictArchive) GetByMint(_ context.Context, mint string) ([]*storage.ArchivedVerdict, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var result []*storage.ArchivedVerdict
	for _, v := range a.data {
		if v.Mint == mint {
			verdictCopy := *v
			result = append(result, &verdictCopy)
		}
	}
	return result, nil
}
