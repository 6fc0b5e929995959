package cycler

import (
	"context"
	"math/big"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/metrics"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// Report is the summary printed when a loop completes
type Report struct {
	Kind        models.ActionKind
	AmountMoved decimal.Decimal
	GasSpent    decimal.Decimal
	// balances in wei, nil when the query failed
	TokenBalance  *big.Int
	NativeBalance *big.Int
}

// Reporter writes transaction blocks and completion summaries to the log
type Reporter struct {
	ledger    Ledger
	formatter *Formatter
	logger    logger.Logger

	// keeps the lines of one block together when both loops log at once
	mu sync.Mutex
}

// NewReporter creates a reporter reading live balances from the ledger
func NewReporter(ledger Ledger, formatter *Formatter, logger logger.Logger) *Reporter {
	return &Reporter{
		ledger:    ledger,
		formatter: formatter,
		logger:    logger,
	}
}

// Transaction logs the block for a confirmed transaction
func (r *Reporter) Transaction(kind models.ActionKind, index int, amount *big.Int, outcome *models.TransactionOutcome, tokenBalance *big.Int) {
	r.emit(kind, r.logger.InfoWithAction, r.formatter.TransactionLines(kind, index, amount, outcome, tokenBalance))
}

// Finalize re-reads both balances and logs the summary for one loop.
// It can be called any number of times and never resets the totals.
func (r *Reporter) Finalize(ctx context.Context, kind models.ActionKind, totals *Totals) Report {
	action := string(kind)

	tokenBalance, err := r.ledger.TokenBalance(ctx)
	if err != nil {
		r.logger.ErrorWithAction(action, "Failed to get WETH balance: %v", err)
		tokenBalance = nil
	} else {
		totals.SetTokenBalance(tokenBalance)
		metrics.TokenBalance.Set(chains.WeiToEther(tokenBalance).InexactFloat64())
	}

	nativeBalance, err := r.ledger.NativeBalance(ctx)
	if err != nil {
		r.logger.ErrorWithAction(action, "Failed to get ETH balance: %v", err)
		nativeBalance = nil
	} else {
		metrics.NativeBalance.Set(chains.WeiToEther(nativeBalance).InexactFloat64())
	}

	snapshot := totals.Snapshot()
	report := Report{
		Kind:          kind,
		AmountMoved:   snapshot.AmountMoved,
		GasSpent:      snapshot.GasSpent,
		TokenBalance:  tokenBalance,
		NativeBalance: nativeBalance,
	}

	r.emit(kind, r.logger.NoticeWithAction, r.formatter.ReportLines(report))
	return report
}

func (r *Reporter) emit(kind models.ActionKind, logf func(action string, format string, args ...interface{}), lines []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, line := range lines {
		logf(string(kind), "%s", line)
	}
}
