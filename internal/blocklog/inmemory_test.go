package blocklog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryLog_RejectsEmptyData(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	for _, data := range [][]byte{nil, {}} {
		if _, err := l.Append(ctx, data); !errors.Is(err, ErrEmptyData) {
			t.Fatalf("expected empty data error for %v, got %v", data, err)
		}
	}

	// rejected appends create no record
	if _, err := l.Get(ctx, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected empty log, got %v", err)
	}
}

func TestInMemoryLog_IdsStartAtOneAndIncrement(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	first, err := l.Append(ctx, []byte("x"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected first id 1, got %d", first)
	}

	second, err := l.Append(ctx, []byte("y"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if second != first+1 {
		t.Fatalf("expected id %d, got %d", first+1, second)
	}
}

func TestInMemoryLog_GetRoundTrip(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	payload := []byte("deadbeef")
	id, err := l.Append(ctx, payload)
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	// blocks are immutable even if the caller scribbles on its slice
	payload[0] = 'X'

	block, err := l.Get(ctx, id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if block.ID != id || !bytes.Equal(block.Data, []byte("deadbeef")) {
		t.Fatalf("unexpected block: id=%d data=%q", block.ID, block.Data)
	}
	if block.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	if _, err := l.Get(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInMemoryLog_ConcurrentAppendsAreGapFree(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()

	const workers = 10
	const perWorker = 20

	ids := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			payload := []byte(fmt.Sprintf("t%d", w))
			for i := 0; i < perWorker; i++ {
				id, err := l.Append(ctx, payload)
				if err != nil {
					t.Errorf("append failed: %v", err)
					return
				}
				ids <- id
			}
		}(w)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers*perWorker)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d ids, got %d", workers*perWorker, len(seen))
	}
	for id := int64(1); id <= int64(workers*perWorker); id++ {
		if !seen[id] {
			t.Fatalf("gap in id sequence at %d", id)
		}
	}
}

func TestRetryPolicy_WaitHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := DefaultRetryPolicy()
	if err := policy.wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
