package cycler

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/blockchain"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/config"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

var (
	testGasUsed  = uint64(50000)
	testGasPrice = big.NewInt(1_000_000_000)
	// 50000 gas at 1 gwei
	testFee = decimal.RequireFromString("0.00005")

	testBlockTime = time.Date(2024, time.June, 1, 4, 5, 0, 0, time.UTC)
)

func eth(s string) *big.Int {
	return chains.EtherToWei(decimal.RequireFromString(s))
}

func (f *fakeLedger) tokenBalance() *big.Int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return new(big.Int).Set(f.token)
}

// fakeLedger tracks balances and moves them as the fake submitter confirms transactions
type fakeLedger struct {
	mu        sync.Mutex
	token     *big.Int
	native    *big.Int
	tokenErrs []error // consumed one per TokenBalance call, nil entries succeed
	nativeErr error
}

func newFakeLedger(token, native string) *fakeLedger {
	return &fakeLedger{token: eth(token), native: eth(native)}
}

func (f *fakeLedger) TokenBalance(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.tokenErrs) > 0 {
		err := f.tokenErrs[0]
		f.tokenErrs = f.tokenErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return new(big.Int).Set(f.token), nil
}

func (f *fakeLedger) NativeBalance(ctx context.Context) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	return new(big.Int).Set(f.native), nil
}

func (f *fakeLedger) apply(intent models.TransactionIntent, fee *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch intent.Action {
	case models.ActionWithdraw:
		f.token.Sub(f.token, intent.Amount)
		f.native.Add(f.native, intent.Amount)
	case models.ActionDeposit:
		f.token.Add(f.token, intent.Amount)
		f.native.Sub(f.native, intent.Amount)
	}
	f.native.Sub(f.native, fee)
}

// fakeSubmitter confirms every intent unless a failure is scheduled for its call number
type fakeSubmitter struct {
	mu       sync.Mutex
	ledger   *fakeLedger
	intents  []models.TransactionIntent
	failOn   map[int]error // call number, starting at 0
	block    uint64
	headerOK bool
}

func newFakeSubmitter(ledger *fakeLedger) *fakeSubmitter {
	return &fakeSubmitter{ledger: ledger, failOn: make(map[int]error), block: 100, headerOK: true}
}

func (f *fakeSubmitter) Submit(_ context.Context, intent models.TransactionIntent) (*models.TransactionOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.intents)
	f.intents = append(f.intents, intent)
	if err, ok := f.failOn[call]; ok {
		return nil, &blockchain.SubmissionError{Stage: blockchain.StageReverted, Hash: common.BigToHash(big.NewInt(int64(call + 1))), Err: err}
	}

	f.block++
	outcome := &models.TransactionOutcome{
		Hash:              common.BigToHash(big.NewInt(int64(call + 1))),
		Nonce:             uint64(call),
		BlockNumber:       f.block,
		GasUsed:           testGasUsed,
		EffectiveGasPrice: new(big.Int).Set(testGasPrice),
	}
	if f.headerOK {
		outcome.BlockTime = testBlockTime
	}
	if f.ledger != nil {
		f.ledger.apply(intent, outcome.Fee())
	}
	return outcome, nil
}

func (f *fakeSubmitter) submitted() []models.TransactionIntent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TransactionIntent(nil), f.intents...)
}

// fakeBuilder builds intents without ABI packing
type fakeBuilder struct{}

func (fakeBuilder) Withdraw(amount *big.Int) (models.TransactionIntent, error) {
	if amount.Sign() <= 0 {
		return models.TransactionIntent{}, errors.New("non positive amount")
	}
	return models.TransactionIntent{Action: models.ActionWithdraw, Amount: new(big.Int).Set(amount), Value: big.NewInt(0)}, nil
}

func (fakeBuilder) Deposit(amount *big.Int) (models.TransactionIntent, error) {
	if amount.Sign() <= 0 {
		return models.TransactionIntent{}, errors.New("non positive amount")
	}
	return models.TransactionIntent{Action: models.ActionDeposit, Amount: new(big.Int).Set(amount), Value: new(big.Int).Set(amount)}, nil
}

type logEntry struct {
	level  logger.Level
	action string
	msg    string
}

// recordingLogger keeps every formatted message
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

var _ logger.Logger = (*recordingLogger)(nil)

func (r *recordingLogger) add(level logger.Level, action, format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, logEntry{level: level, action: action, msg: fmt.Sprintf(format, args...)})
}

func (r *recordingLogger) Info(format string, args ...interface{}) {
	r.add(logger.InfoLevel, "", format, args...)
}

func (r *recordingLogger) InfoWithAction(action string, format string, args ...interface{}) {
	r.add(logger.InfoLevel, action, format, args...)
}

func (r *recordingLogger) Error(format string, args ...interface{}) {
	r.add(logger.ErrorLevel, "", format, args...)
}

func (r *recordingLogger) ErrorWithAction(action string, format string, args ...interface{}) {
	r.add(logger.ErrorLevel, action, format, args...)
}

func (r *recordingLogger) Debug(format string, args ...interface{}) {
	r.add(logger.DebugLevel, "", format, args...)
}

func (r *recordingLogger) DebugWithAction(action string, format string, args ...interface{}) {
	r.add(logger.DebugLevel, action, format, args...)
}

func (r *recordingLogger) Notice(format string, args ...interface{}) {
	r.add(logger.NoticeLevel, "", format, args...)
}

func (r *recordingLogger) NoticeWithAction(action string, format string, args ...interface{}) {
	r.add(logger.NoticeLevel, action, format, args...)
}

// count returns how many messages contain substr
func (r *recordingLogger) count(substr string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, e := range r.entries {
		if strings.Contains(e.msg, substr) {
			n++
		}
	}
	return n
}

// errors returns the messages logged at error level
func (r *recordingLogger) errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.entries {
		if e.level == logger.ErrorLevel {
			out = append(out, e.msg)
		}
	}
	return out
}

func (r *recordingLogger) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.msg)
	}
	return out
}

func testAction(txCount int, min, max string) config.ActionConfig {
	return config.ActionConfig{
		TxCount:              txCount,
		MinAmount:            decimal.RequireFromString(min),
		MaxAmount:            decimal.RequireFromString(max),
		MinDelay:             time.Second,
		MaxDelay:             3 * time.Second,
		GasLimit:             100000,
		MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		MaxFeePerGas:         big.NewInt(2_000_000_000),
	}
}
