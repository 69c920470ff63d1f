package blocklog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	id  int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.id
	return nil
}

// collidingQuerier fails the first n inserts with a unique violation, as if a
// concurrent append claimed the candidate id, then assigns ids sequentially.
type collidingQuerier struct {
	n     int
	calls int
}

func (q *collidingQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	q.calls++
	if q.calls <= q.n {
		return fakeRow{err: &pgconn.PgError{Code: uniqueViolationCode}}
	}
	return fakeRow{id: int64(q.calls)}
}

func TestPostgresLogAppendRetriesIdCollisions(t *testing.T) {
	q := &collidingQuerier{n: 3}
	l := &PostgresLog{db: q, policy: RetryPolicy{MaxAttempts: 10}}

	id, err := l.Append(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if q.calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", q.calls)
	}
	if id != 4 {
		t.Fatalf("unexpected id %d", id)
	}
}

func TestPostgresLogAppendExhaustsRetryBudget(t *testing.T) {
	q := &collidingQuerier{n: 1 << 30}
	l := &PostgresLog{db: q, policy: RetryPolicy{MaxAttempts: 5}}

	if _, err := l.Append(context.Background(), []byte("x")); !errors.Is(err, ErrContention) {
		t.Fatalf("expected contention error, got %v", err)
	}
	if q.calls != 5 {
		t.Fatalf("expected 5 attempts, got %d", q.calls)
	}
}

type failingQuerier struct {
	code  string
	calls int
}

func (q *failingQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	q.calls++
	return fakeRow{err: &pgconn.PgError{Code: q.code}}
}

func TestPostgresLogAppendDoesNotRetryOtherErrors(t *testing.T) {
	q := &failingQuerier{code: "23502"} // not_null_violation
	l := &PostgresLog{db: q, policy: RetryPolicy{MaxAttempts: 10}}

	_, err := l.Append(context.Background(), []byte("x"))
	if err == nil || errors.Is(err, ErrContention) {
		t.Fatalf("expected a terminal error, got %v", err)
	}
	if q.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", q.calls)
	}
}

func TestPostgresLogAppendRejectsEmptyDataWithoutInsert(t *testing.T) {
	q := &collidingQuerier{}
	l := &PostgresLog{db: q, policy: DefaultRetryPolicy()}

	if _, err := l.Append(context.Background(), nil); !errors.Is(err, ErrEmptyData) {
		t.Fatalf("expected empty data error, got %v", err)
	}
	if q.calls != 0 {
		t.Fatalf("expected no insert attempt, got %d", q.calls)
	}
}
