package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeedBalance is a test helper that sets a balance row directly when using the
// in-memory ledger.
func SeedBalance(l Ledger, account int64, currency string, amount decimal.Decimal) {
	if mem, ok := l.(*inMemoryLedger); ok {
		r := mem.row(balanceKey{account, currency}, true)
		r.mu.Lock()
		defer r.mu.Unlock()
		r.amount = amount
		r.updatedAt = time.Now().UTC()
	}
}
