package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresLedger persists balances in PostgreSQL, one row per (account, currency).
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// TransferFunds moves amount from one balance row to another inside a single
// transaction. Row locks are always acquired in ascending account id order,
// for both directions of the comparison, so two opposing transfers on the same
// account pair can never deadlock.
func (l *PostgresLedger) TransferFunds(ctx context.Context, from, to int64, currency string, amount decimal.Decimal) error {
	currency, err := validateTransfer(from, to, currency, amount)
	if err != nil {
		return err
	}

	tx, err := l.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	first, second := from, to
	if second < first {
		first, second = second, first
	}

	var senderBalance decimal.Decimal
	for _, account := range [2]int64{first, second} {
		if account == to {
			if err := lockReceiverRow(ctx, tx, account, currency); err != nil {
				return err
			}
			continue
		}
		senderBalance, err = lockSenderRow(ctx, tx, account, currency)
		if err != nil {
			return err
		}
	}

	if senderBalance.LessThan(amount) {
		return &InsufficientFundsError{
			AccountID: from,
			Currency:  currency,
			Balance:   senderBalance,
			Requested: amount,
		}
	}

	// The updated_at refresh is an explicit engine step inside the same
	// transaction, not a store-level trigger.
	now := time.Now().UTC()
	const apply = `UPDATE balances SET balance = balance + $3::numeric, updated_at = $4
        WHERE account_id = $1 AND currency = $2`
	if _, err := tx.Exec(ctx, apply, from, currency, amount.Neg().StringFixed(2), now); err != nil {
		return fmt.Errorf("debit sender: %w", err)
	}
	if _, err := tx.Exec(ctx, apply, to, currency, amount.StringFixed(2), now); err != nil {
		return fmt.Errorf("credit receiver: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	return nil
}

// GetBalance returns the balance row for (account, currency).
func (l *PostgresLedger) GetBalance(ctx context.Context, account int64, currency string) (Balance, error) {
	const query = `SELECT balance::text, updated_at FROM balances
        WHERE account_id = $1 AND currency = $2`
	var (
		raw       string
		updatedAt time.Time
	)
	if err := l.db.QueryRow(ctx, query, account, currency).Scan(&raw, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Balance{}, ErrBalanceNotFound
		}
		return Balance{}, fmt.Errorf("read balance: %w", err)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return Balance{}, fmt.Errorf("parse balance %q: %w", raw, err)
	}
	return Balance{AccountID: account, Currency: currency, Amount: amount, UpdatedAt: updatedAt.UTC()}, nil
}

// lockSenderRow takes the sender's exclusive row lock and returns its balance.
func lockSenderRow(ctx context.Context, tx pgx.Tx, account int64, currency string) (decimal.Decimal, error) {
	const query = `SELECT balance::text FROM balances
        WHERE account_id = $1 AND currency = $2 FOR UPDATE`
	var raw string
	if err := tx.QueryRow(ctx, query, account, currency).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrSenderNotFound
		}
		return decimal.Zero, fmt.Errorf("lock sender balance: %w", err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sender balance %q: %w", raw, err)
	}
	return balance, nil
}

// lockReceiverRow takes the receiver's exclusive row lock, creating the row at
// balance 0 first if it does not exist. If a concurrent transfer races to
// create the same row, ON CONFLICT lets exactly one insert win and the
// follow-up select locks whichever row survived.
func lockReceiverRow(ctx context.Context, tx pgx.Tx, account int64, currency string) error {
	const create = `INSERT INTO balances (account_id, currency, balance, updated_at)
        VALUES ($1, $2, 0, now()) ON CONFLICT (account_id, currency) DO NOTHING`
	if _, err := tx.Exec(ctx, create, account, currency); err != nil {
		return fmt.Errorf("create receiver balance: %w", err)
	}

	const lock = `SELECT balance::text FROM balances
        WHERE account_id = $1 AND currency = $2 FOR UPDATE`
	var raw string
	if err := tx.QueryRow(ctx, lock, account, currency).Scan(&raw); err != nil {
		return fmt.Errorf("lock receiver balance: %w", err)
	}
	return nil
}
