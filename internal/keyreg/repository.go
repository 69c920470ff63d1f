package keyreg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateKey indicates the exact (account, scheme, key) row already exists.
var ErrDuplicateKey = errors.New("account key already registered")

// Repository persists account keys.
type Repository interface {
	Add(ctx context.Context, key AccountKey) error
	ListByAccount(ctx context.Context, accountID int64) ([]AccountKey, error)
}

// PostgresRepository stores account keys in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts an account key row. The unique constraint on
// (account_id, scheme, public_key) rejects exact duplicates; the same key
// under another scheme or more keys for the same scheme are fine.
func (r *PostgresRepository) Add(ctx context.Context, key AccountKey) error {
	_, err := r.db.Exec(ctx, `INSERT INTO account_keys (account_id, scheme, public_key, created_at)
        VALUES ($1, $2, $3, $4)`, key.AccountID, key.Scheme, key.PublicKey, key.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateKey
	}
	if err != nil {
		return fmt.Errorf("insert account key: %w", err)
	}
	return nil
}

// ListByAccount returns all keys registered for an account.
func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID int64) ([]AccountKey, error) {
	rows, err := r.db.Query(ctx, `SELECT scheme, public_key, created_at FROM account_keys
        WHERE account_id = $1 ORDER BY scheme, created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account keys: %w", err)
	}
	defer rows.Close()

	var keys []AccountKey
	for rows.Next() {
		key := AccountKey{AccountID: accountID}
		if err := rows.Scan(&key.Scheme, &key.PublicKey, &key.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account key: %w", err)
		}
		key.CreatedAt = key.CreatedAt.UTC()
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
