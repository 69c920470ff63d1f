package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositiveAmount rejects transfers of zero or negative amounts.
	ErrNonPositiveAmount = errors.New("transfer amount must be positive")

	// ErrSameAccount rejects transfers where sender and receiver are the same account.
	ErrSameAccount = errors.New("sender and receiver must differ")

	// ErrEmptyCurrency rejects transfers with a blank currency code.
	ErrEmptyCurrency = errors.New("currency must be non-empty")

	// ErrSenderNotFound indicates the sender has no balance row for the currency.
	ErrSenderNotFound = errors.New("sender balance not found")

	// ErrBalanceNotFound indicates a balance lookup matched no row.
	ErrBalanceNotFound = errors.New("balance not found")

	// ErrInsufficientFunds occurs when the sender's balance cannot cover the
	// requested amount. Matched by errors.Is against *InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientFundsError carries the observed sender state so callers can
// decide on remediation (retry smaller, top up the account).
type InsufficientFundsError struct {
	AccountID int64
	Currency  string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: account %d holds %s %s, requested %s",
		e.AccountID, e.Balance.StringFixed(2), e.Currency, e.Requested.StringFixed(2))
}

// Is lets errors.Is(err, ErrInsufficientFunds) match the typed error.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Balance represents one account's holdings in one currency. Amounts are
// fixed-point decimals with scale 2, never negative.
type Balance struct {
	AccountID int64
	Currency  string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}

// Ledger defines the contract implemented by ledger backends (e.g. Postgres).
// TransferFunds is deliberately not idempotent: two identical calls post two
// independent debits and credits.
type Ledger interface {
	TransferFunds(ctx context.Context, from, to int64, currency string, amount decimal.Decimal) error
	GetBalance(ctx context.Context, account int64, currency string) (Balance, error)
}

// validateTransfer applies the input checks shared by every backend. Each
// violation maps to its own sentinel and is detected before any row is
// touched. Returns the trimmed currency on success.
func validateTransfer(from, to int64, currency string, amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", ErrNonPositiveAmount
	}
	if from == to {
		return "", ErrSameAccount
	}
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return "", ErrEmptyCurrency
	}
	return currency, nil
}
