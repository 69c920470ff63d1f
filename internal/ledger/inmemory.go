package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type balanceKey struct {
	account  int64
	currency string
}

type balanceRow struct {
	mu        sync.Mutex
	amount    decimal.Decimal
	updatedAt time.Time
}

type inMemoryLedger struct {
	mu   sync.Mutex
	rows map[balanceKey]*balanceRow
}

// NewInMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and dev mode. It follows the same protocol as the Postgres backend:
// per-row locks acquired in ascending account id order.
func NewInMemory() Ledger {
	return &inMemoryLedger{rows: make(map[balanceKey]*balanceRow)}
}

// row returns the row for key, creating a zero-balance row when create is set.
func (l *inMemoryLedger) row(key balanceKey, create bool) *balanceRow {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.rows[key]
	if !ok && create {
		r = &balanceRow{amount: decimal.Zero, updatedAt: time.Now().UTC()}
		l.rows[key] = r
	}
	return r
}

func (l *inMemoryLedger) TransferFunds(_ context.Context, from, to int64, currency string, amount decimal.Decimal) error {
	currency, err := validateTransfer(from, to, currency, amount)
	if err != nil {
		return err
	}

	sender := l.row(balanceKey{from, currency}, false)
	if sender == nil {
		return ErrSenderNotFound
	}
	// Receiver is auto-created at balance 0; the map mutex serializes racing
	// creations so both racers end up holding the same row.
	receiver := l.row(balanceKey{to, currency}, true)

	first, second := sender, receiver
	if to < from {
		first, second = receiver, sender
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if sender.amount.LessThan(amount) {
		return &InsufficientFundsError{
			AccountID: from,
			Currency:  currency,
			Balance:   sender.amount,
			Requested: amount,
		}
	}

	now := time.Now().UTC()
	sender.amount = sender.amount.Sub(amount)
	receiver.amount = receiver.amount.Add(amount)
	sender.updatedAt = now
	receiver.updatedAt = now
	return nil
}

func (l *inMemoryLedger) GetBalance(_ context.Context, account int64, currency string) (Balance, error) {
	r := l.row(balanceKey{account, currency}, false)
	if r == nil {
		return Balance{}, ErrBalanceNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return Balance{AccountID: account, Currency: currency, Amount: r.amount, UpdatedAt: r.updatedAt}, nil
}
