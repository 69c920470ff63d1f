package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestInMemoryLedger_TransferMovesFunds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "100"))
	SeedBalance(l, 2, "USD", dec(t, "0"))

	if err := l.TransferFunds(ctx, 1, 2, "USD", dec(t, "50")); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	from, err := l.GetBalance(ctx, 1, "USD")
	if err != nil {
		t.Fatalf("get sender balance: %v", err)
	}
	if !from.Amount.Equal(dec(t, "50")) {
		t.Fatalf("expected sender balance 50, got %s", from.Amount)
	}
	to, err := l.GetBalance(ctx, 2, "USD")
	if err != nil {
		t.Fatalf("get receiver balance: %v", err)
	}
	if !to.Amount.Equal(dec(t, "50")) {
		t.Fatalf("expected receiver balance 50, got %s", to.Amount)
	}
}

func TestInMemoryLedger_AutoCreatesReceiver(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "100"))

	if _, err := l.GetBalance(ctx, 99, "USD"); !errors.Is(err, ErrBalanceNotFound) {
		t.Fatalf("expected no balance for account 99, got %v", err)
	}

	if err := l.TransferFunds(ctx, 1, 99, "USD", dec(t, "10")); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	to, err := l.GetBalance(ctx, 99, "USD")
	if err != nil {
		t.Fatalf("get receiver balance: %v", err)
	}
	if !to.Amount.Equal(dec(t, "10")) {
		t.Fatalf("expected receiver balance 10, got %s", to.Amount)
	}
}

func TestInMemoryLedger_InsufficientFunds(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "10"))

	err := l.TransferFunds(ctx, 1, 2, "USD", dec(t, "50"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientFundsError, got %T", err)
	}
	if !insufficient.Balance.Equal(dec(t, "10")) || !insufficient.Requested.Equal(dec(t, "50")) {
		t.Fatalf("unexpected diagnostics: balance=%s requested=%s", insufficient.Balance, insufficient.Requested)
	}
	if insufficient.Currency != "USD" || insufficient.AccountID != 1 {
		t.Fatalf("unexpected diagnostics: account=%d currency=%s", insufficient.AccountID, insufficient.Currency)
	}

	// no partial effect
	from, err := l.GetBalance(ctx, 1, "USD")
	if err != nil {
		t.Fatalf("get sender balance: %v", err)
	}
	if !from.Amount.Equal(dec(t, "10")) {
		t.Fatalf("sender balance mutated, got %s", from.Amount)
	}
}

func TestInMemoryLedger_Validation(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "100"))

	cases := []struct {
		name     string
		from, to int64
		currency string
		amount   string
		want     error
	}{
		{"zero amount", 1, 2, "USD", "0", ErrNonPositiveAmount},
		{"negative amount", 1, 2, "USD", "-5", ErrNonPositiveAmount},
		{"same account", 1, 1, "USD", "10", ErrSameAccount},
		{"empty currency", 1, 2, "", "10", ErrEmptyCurrency},
		{"blank currency", 1, 2, "   ", "10", ErrEmptyCurrency},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := l.TransferFunds(ctx, tc.from, tc.to, tc.currency, dec(t, tc.amount))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	from, err := l.GetBalance(ctx, 1, "USD")
	if err != nil {
		t.Fatalf("get sender balance: %v", err)
	}
	if !from.Amount.Equal(dec(t, "100")) {
		t.Fatalf("sender balance mutated by rejected transfers, got %s", from.Amount)
	}
}

func TestInMemoryLedger_SenderNotFound(t *testing.T) {
	l := NewInMemory()
	err := l.TransferFunds(context.Background(), 5, 6, "USD", dec(t, "1"))
	if !errors.Is(err, ErrSenderNotFound) {
		t.Fatalf("expected sender not found, got %v", err)
	}
}

func TestInMemoryLedger_TransfersAreNotIdempotent(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "100"))

	for i := 0; i < 2; i++ {
		if err := l.TransferFunds(ctx, 1, 2, "USD", dec(t, "30")); err != nil {
			t.Fatalf("transfer %d failed: %v", i, err)
		}
	}

	from, _ := l.GetBalance(ctx, 1, "USD")
	to, _ := l.GetBalance(ctx, 2, "USD")
	if !from.Amount.Equal(dec(t, "40")) || !to.Amount.Equal(dec(t, "60")) {
		t.Fatalf("expected 40/60 after replayed transfer, got %s/%s", from.Amount, to.Amount)
	}
}

func TestInMemoryLedger_ConservationUnderConcurrency(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	total := dec(t, "1000.00")
	SeedBalance(l, 1, "USD", total)
	SeedBalance(l, 2, "USD", dec(t, "0"))

	const workers = 20
	amount := dec(t, "5.00")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.TransferFunds(ctx, 1, 2, "USD", amount); err != nil {
				t.Errorf("transfer failed: %v", err)
			}
		}()
	}
	wg.Wait()

	from, _ := l.GetBalance(ctx, 1, "USD")
	to, _ := l.GetBalance(ctx, 2, "USD")
	if !from.Amount.Add(to.Amount).Equal(total) {
		t.Fatalf("funds not conserved: %s + %s != %s", from.Amount, to.Amount, total)
	}
	if from.Amount.IsNegative() || to.Amount.IsNegative() {
		t.Fatalf("negative balance observed: %s / %s", from.Amount, to.Amount)
	}
}

// Opposing transfers on the same account pair must both complete; the
// ascending-id lock order means no lock cycle can form.
func TestInMemoryLedger_OpposingTransfersComplete(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "500"))
	SeedBalance(l, 2, "USD", dec(t, "500"))

	const rounds = 200
	amount := dec(t, "1")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := l.TransferFunds(ctx, 1, 2, "USD", amount); err != nil {
				t.Errorf("1->2 transfer failed: %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := l.TransferFunds(ctx, 2, 1, "USD", amount); err != nil {
				t.Errorf("2->1 transfer failed: %v", err)
			}
		}
	}()
	wg.Wait()

	from, _ := l.GetBalance(ctx, 1, "USD")
	to, _ := l.GetBalance(ctx, 2, "USD")
	if !from.Amount.Add(to.Amount).Equal(dec(t, "1000")) {
		t.Fatalf("funds not conserved: %s + %s", from.Amount, to.Amount)
	}
}

func TestInMemoryLedger_CurrenciesAreIndependent(t *testing.T) {
	l := NewInMemory()
	ctx := context.Background()
	SeedBalance(l, 1, "USD", dec(t, "100"))
	SeedBalance(l, 1, "EUR", dec(t, "20"))

	if err := l.TransferFunds(ctx, 1, 2, "EUR", dec(t, "15")); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	usd, _ := l.GetBalance(ctx, 1, "USD")
	if !usd.Amount.Equal(dec(t, "100")) {
		t.Fatalf("USD balance touched by EUR transfer, got %s", usd.Amount)
	}
	eur, _ := l.GetBalance(ctx, 1, "EUR")
	if !eur.Amount.Equal(dec(t, "5")) {
		t.Fatalf("expected EUR balance 5, got %s", eur.Amount)
	}
}
