package keyreg

import (
	"bytes"
	"context"
	"sync"
)

type memoryRepository struct {
	mu   sync.RWMutex
	keys map[int64][]AccountKey
}

// NewMemoryRepository constructs an in-memory repository for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{keys: make(map[int64][]AccountKey)}
}

func (r *memoryRepository) Add(_ context.Context, key AccountKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.keys[key.AccountID] {
		if existing.Scheme == key.Scheme && bytes.Equal(existing.PublicKey, key.PublicKey) {
			return ErrDuplicateKey
		}
	}
	r.keys[key.AccountID] = append(r.keys[key.AccountID], key)
	return nil
}

func (r *memoryRepository) ListByAccount(_ context.Context, accountID int64) ([]AccountKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]AccountKey, len(r.keys[accountID]))
	copy(keys, r.keys[accountID])
	return keys, nil
}
