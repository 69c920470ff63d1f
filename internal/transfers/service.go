package transfers

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/httpay/httpay/internal/ledger"
)

// Service exposes ledger transfers to the HTTP layer.
type Service struct {
	ledger ledger.Ledger
}

// NewService constructs a transfer service.
func NewService(l ledger.Ledger) *Service {
	return &Service{ledger: l}
}

// TransferInput captures the data needed to move funds between accounts.
type TransferInput struct {
	FromAccount int64
	ToAccount   int64
	Currency    string
	Amount      decimal.Decimal
}

// TransferResult reports both post-transfer balances.
type TransferResult struct {
	FromBalance ledger.Balance
	ToBalance   ledger.Balance
	CompletedAt time.Time
}

// Transfer runs the atomic transfer and reads back the resulting balances.
// The currency is trimmed once here so the readbacks hit the same rows the
// engine mutated.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferResult, error) {
	currency := strings.TrimSpace(input.Currency)

	if err := s.ledger.TransferFunds(ctx, input.FromAccount, input.ToAccount, currency, input.Amount); err != nil {
		return TransferResult{}, err
	}

	from, err := s.ledger.GetBalance(ctx, input.FromAccount, currency)
	if err != nil {
		return TransferResult{}, err
	}
	to, err := s.ledger.GetBalance(ctx, input.ToAccount, currency)
	if err != nil {
		return TransferResult{}, err
	}

	return TransferResult{FromBalance: from, ToBalance: to, CompletedAt: time.Now().UTC()}, nil
}

// Balance returns the current balance for (account, currency).
func (s *Service) Balance(ctx context.Context, account int64, currency string) (ledger.Balance, error) {
	return s.ledger.GetBalance(ctx, account, currency)
}
