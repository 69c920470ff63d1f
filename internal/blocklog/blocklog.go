package blocklog

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

var (
	// ErrEmptyData rejects appends with nil or empty payloads.
	ErrEmptyData = errors.New("block data must be non-empty")

	// ErrNotFound indicates a block lookup matched no record.
	ErrNotFound = errors.New("block not found")

	// ErrContention indicates the append retry budget was exhausted under
	// concurrent write load. The append had no effect and may be retried.
	ErrContention = errors.New("append abandoned after repeated id collisions")
)

// Block represents one immutable log entry. Ids form a contiguous sequence
// starting at 1; blocks are never updated or deleted.
type Block struct {
	ID        int64
	Data      []byte
	CreatedAt time.Time
}

// Log defines the contract implemented by block log backends.
type Log interface {
	Append(ctx context.Context, data []byte) (int64, error)
	Get(ctx context.Context, id int64) (Block, error)
}

// RetryPolicy bounds the optimistic append loop. MaxAttempts 0 retries
// forever, matching the original unbounded design; Backoff is the base sleep
// between attempts, with up to the same amount of jitter added.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy bounds contention at 100 attempts with a 2ms base backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 100, Backoff: 2 * time.Millisecond}
}

// wait sleeps between attempts, honoring context cancellation.
func (p RetryPolicy) wait(ctx context.Context) error {
	if p.Backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Backoff + time.Duration(rand.Int63n(int64(p.Backoff))))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
