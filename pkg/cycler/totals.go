package cycler

import (
	"math/big"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
)

// Totals accumulates what one loop moved and paid during this run.
// Amounts are in ether; AmountMoved and GasSpent only grow.
type Totals struct {
	mu                    sync.Mutex
	amountMoved           decimal.Decimal
	gasSpent              decimal.Decimal
	lastKnownTokenBalance decimal.Decimal
	confirmed             int
	failed                int
}

// TotalsSnapshot is a consistent copy of Totals
type TotalsSnapshot struct {
	AmountMoved           decimal.Decimal
	GasSpent              decimal.Decimal
	LastKnownTokenBalance decimal.Decimal
	Confirmed             int
	Failed                int
}

// NewTotals creates zeroed totals
func NewTotals() *Totals {
	return &Totals{
		amountMoved:           decimal.Zero,
		gasSpent:              decimal.Zero,
		lastKnownTokenBalance: decimal.Zero,
	}
}

// Record adds a confirmed transaction's amount and fee, both in wei
func (t *Totals) Record(amount, fee *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if amount != nil && amount.Sign() > 0 {
		t.amountMoved = t.amountMoved.Add(chains.WeiToEther(amount))
	}
	if fee != nil && fee.Sign() > 0 {
		t.gasSpent = t.gasSpent.Add(chains.WeiToEther(fee))
	}
	t.confirmed++
}

// RecordFailure counts an iteration that moved nothing
func (t *Totals) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
}

// SetTokenBalance overwrites the last known token balance, in wei
func (t *Totals) SetTokenBalance(balance *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastKnownTokenBalance = chains.WeiToEther(balance)
}

// Snapshot returns a copy of the current values
func (t *Totals) Snapshot() TotalsSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return TotalsSnapshot{
		AmountMoved:           t.amountMoved,
		GasSpent:              t.gasSpent,
		LastKnownTokenBalance: t.lastKnownTokenBalance,
		Confirmed:             t.confirmed,
		Failed:                t.failed,
	}
}
