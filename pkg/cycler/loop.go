package cycler

import (
	"context"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/config"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/metrics"
	"github.com/speedrun-hq/wethcycle/pkg/models"
	"github.com/speedrun-hq/wethcycle/pkg/randomizer"
)

// finalizeTimeout bounds the balance queries of a report issued after cancellation
const finalizeTimeout = 30 * time.Second

// Ledger reads the balances of the signing account
type Ledger interface {
	TokenBalance(ctx context.Context) (*big.Int, error)
	NativeBalance(ctx context.Context) (*big.Int, error)
}

// Submitter sends an intent and waits for it to be mined
type Submitter interface {
	Submit(ctx context.Context, intent models.TransactionIntent) (*models.TransactionOutcome, error)
}

// IntentBuilder creates the calls sent by the loops
type IntentBuilder interface {
	Withdraw(amount *big.Int) (models.TransactionIntent, error)
	Deposit(amount *big.Int) (models.TransactionIntent, error)
}

// LoopDeps are the collaborators of a Loop
type LoopDeps struct {
	Ledger    Ledger
	Builder   IntentBuilder
	Submitter Submitter
	Reporter  *Reporter
	Random    *randomizer.Randomizer
	Logger    logger.Logger
}

// iteration is the result of one loop step
type iteration struct {
	amount  *big.Int
	outcome *models.TransactionOutcome
	// the whole remaining balance was withdrawn, no further iterations
	finalSweep bool
	// nothing left to withdraw, finalize without a transaction
	exhausted bool
	err       error
}

// Loop repeatedly wraps or unwraps random amounts until its count is reached
type Loop struct {
	kind   models.ActionKind
	cfg    config.ActionConfig
	totals *Totals

	ledger    Ledger
	builder   IntentBuilder
	submitter Submitter
	reporter  *Reporter
	random    *randomizer.Randomizer
	logger    logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
	state atomic.Int32
}

// NewLoop creates a loop accumulating into totals
func NewLoop(kind models.ActionKind, cfg config.ActionConfig, totals *Totals, deps LoopDeps) *Loop {
	random := deps.Random
	if random == nil {
		random = randomizer.Default()
	}

	l := &Loop{
		kind:      kind,
		cfg:       cfg,
		totals:    totals,
		ledger:    deps.Ledger,
		builder:   deps.Builder,
		submitter: deps.Submitter,
		reporter:  deps.Reporter,
		random:    random,
		logger:    deps.Logger,
		sleep:     sleepContext,
	}
	l.setState(models.LoopIdle)
	return l
}

// Kind returns the action the loop performs
func (l *Loop) Kind() models.ActionKind {
	return l.kind
}

// Totals returns the accumulator the loop records into
func (l *Loop) Totals() *Totals {
	return l.totals
}

// State returns the current lifecycle state
func (l *Loop) State() models.LoopState {
	return models.LoopState(l.state.Load())
}

func (l *Loop) setState(state models.LoopState) {
	l.state.Store(int32(state))
	metrics.SetLoopState(l.kind, state)
}

// skip is how far a final sweep moves the index, always past the remaining count
func (l *Loop) skip() int {
	return l.cfg.TxCount
}

// Run executes iterations from start until the count is reached, the balance is
// exhausted or ctx is cancelled, then finalizes. It returns ctx.Err() when cancelled.
func (l *Loop) Run(ctx context.Context, start int) error {
	action := string(l.kind)
	l.setState(models.LoopRunning)
	l.logger.InfoWithAction(action, "Starting %d %s transactions", l.cfg.TxCount, l.kind)

	var err error
	for i := start; i < l.cfg.TxCount; {
		result := l.iterate(ctx, i)
		if result.exhausted {
			break
		}

		next := i + 1
		if result.finalSweep {
			next += l.skip()
		}
		if next >= l.cfg.TxCount {
			break
		}

		delay := l.random.RandomDelay(l.cfg.MinDelay, l.cfg.MaxDelay)
		l.logger.DebugWithAction(action, "Next %s in %s", l.kind, delay)
		if err = l.sleep(ctx, delay); err != nil {
			l.logger.ErrorWithAction(action, "Stopping %s loop: %v", l.kind, err)
			break
		}
		i = next
	}

	l.finalize(ctx)
	return err
}

func (l *Loop) finalize(ctx context.Context) {
	l.setState(models.LoopFinalizing)
	l.finalizeReport(ctx)
	l.setState(models.LoopDone)
}

// finalizeReport prints the loop summary, reading live balances even after a shutdown signal
func (l *Loop) finalizeReport(ctx context.Context) Report {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()
	return l.reporter.Finalize(fctx, l.kind, l.totals)
}

// iterate performs one step: sample, build, submit, record and log
func (l *Loop) iterate(ctx context.Context, index int) iteration {
	started := time.Now()
	action := string(l.kind)

	amount := chains.EtherToWei(l.random.RandomAmount(l.cfg.MinAmount, l.cfg.MaxAmount))
	result := iteration{amount: amount}

	var intent models.TransactionIntent
	var err error
	switch l.kind {
	case models.ActionWithdraw:
		balance, queryErr := l.ledger.TokenBalance(ctx)
		if queryErr != nil {
			return l.fail(result, started, queryErr)
		}
		l.totals.SetTokenBalance(balance)

		if balance.Sign() == 0 {
			l.logger.NoticeWithAction(action, "No WETH balance left to withdraw")
			metrics.RecordSkipped(l.kind)
			result.exhausted = true
			return result
		}
		if amount.Cmp(balance) >= 0 {
			l.logger.NoticeWithAction(action, "Sampled %s ETH covers the remaining balance, withdrawing %s WETH as the last transaction",
				chains.WeiToEther(amount), chains.WeiToEther(balance))
			amount = new(big.Int).Set(balance)
			result.amount = amount
			result.finalSweep = true
		}
		intent, err = l.builder.Withdraw(amount)
	default:
		intent, err = l.builder.Deposit(amount)
	}
	if err != nil {
		return l.fail(result, started, err)
	}

	outcome, err := l.submitter.Submit(ctx, intent)
	if err != nil {
		return l.fail(result, started, err)
	}
	result.outcome = outcome

	fee := outcome.Fee()
	l.totals.Record(amount, fee)
	metrics.RecordConfirmed(l.kind, chains.WeiToEther(amount), chains.WeiToEther(fee), time.Since(started).Seconds())

	// totals already hold the receipt values, a failed refresh only affects the displayed balance
	tokenBalance, err := l.ledger.TokenBalance(ctx)
	if err != nil {
		l.logger.ErrorWithAction(action, "Failed to refresh WETH balance: %v", err)
		tokenBalance = nil
	} else {
		l.totals.SetTokenBalance(tokenBalance)
		metrics.TokenBalance.Set(chains.WeiToEther(tokenBalance).InexactFloat64())
	}

	l.reporter.Transaction(l.kind, index, amount, outcome, tokenBalance)
	return result
}

func (l *Loop) fail(result iteration, started time.Time, err error) iteration {
	l.logger.ErrorWithAction(string(l.kind), "Error sending %s of %s ETH: %v", l.kind, chains.WeiToEther(result.amount), err)
	l.totals.RecordFailure()
	metrics.RecordFailed(l.kind, time.Since(started).Seconds())
	result.err = err
	return result
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
