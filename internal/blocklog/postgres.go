package blocklog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres "unique_violation".
const uniqueViolationCode = "23505"

// rowQuerier is the subset of pgxpool.Pool the log uses.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresLog persists blocks in PostgreSQL with optimistic id assignment.
type PostgresLog struct {
	db     rowQuerier
	policy RetryPolicy
}

// NewPostgresLog constructs a Postgres-backed block log.
func NewPostgresLog(db *pgxpool.Pool, policy RetryPolicy) *PostgresLog {
	return &PostgresLog{db: db, policy: policy}
}

// Append claims MAX(id)+1 (1 on an empty log) and inserts in one statement.
// A unique violation means a concurrent append won that id; the attempt is
// discarded and the candidate recomputed. Ids are never pre-allocated, so an
// aborted attempt cannot leave a gap. Collisions are invisible to the caller.
func (l *PostgresLog) Append(ctx context.Context, data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, ErrEmptyData
	}

	const insert = `INSERT INTO blocks (id, data, created_at)
        SELECT COALESCE(MAX(id), 0) + 1, $1, now() FROM blocks
        RETURNING id`

	for attempt := 1; ; attempt++ {
		var id int64
		err := l.db.QueryRow(ctx, insert, data).Scan(&id)
		if err == nil {
			return id, nil
		}

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
			return 0, fmt.Errorf("append block: %w", err)
		}
		if l.policy.MaxAttempts > 0 && attempt >= l.policy.MaxAttempts {
			return 0, ErrContention
		}
		if err := l.policy.wait(ctx); err != nil {
			return 0, err
		}
	}
}

// Get returns the block with the given id.
func (l *PostgresLog) Get(ctx context.Context, id int64) (Block, error) {
	const query = `SELECT data, created_at FROM blocks WHERE id = $1`
	var (
		data      []byte
		createdAt time.Time
	)
	if err := l.db.QueryRow(ctx, query, id).Scan(&data, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Block{}, ErrNotFound
		}
		return Block{}, fmt.Errorf("read block: %w", err)
	}
	return Block{ID: id, Data: data, CreatedAt: createdAt.UTC()}, nil
}
