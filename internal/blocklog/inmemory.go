package blocklog

import (
	"context"
	"sync"
	"time"
)

type inMemoryLog struct {
	mu     sync.Mutex
	blocks []Block // blocks[i].ID == int64(i)+1
}

// NewInMemory creates a concurrency-safe in-memory block log useful for unit
// tests and dev mode. Appends are serialized on one mutex, so ids are
// contiguous by construction and no retry loop is needed.
func NewInMemory() Log {
	return &inMemoryLog{}
}

func (l *inMemoryLog) Append(_ context.Context, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}

	// callers may reuse the data slice after Append returns
	stored := make([]byte, len(data))
	copy(stored, data)

	l.mu.Lock()
	defer l.mu.Unlock()
	id := int64(len(l.blocks)) + 1
	l.blocks = append(l.blocks, Block{ID: id, Data: stored, CreatedAt: time.Now().UTC()})
	return id, nil
}

func (l *inMemoryLog) Get(_ context.Context, id int64) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if id < 1 || id > int64(len(l.blocks)) {
		return Block{}, ErrNotFound
	}
	return l.blocks[id-1], nil
}
