package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// Transaction statuses
const (
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Metrics for monitoring
var (
	Transactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wethcycle_transactions_total",
		Help: "The total number of loop iterations by outcome",
	}, []string{"action", "status"})

	AmountMoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wethcycle_amount_moved_eth_total",
		Help: "Ether wrapped or unwrapped by confirmed transactions",
	}, []string{"action"})

	FeesSpent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wethcycle_fees_spent_eth_total",
		Help: "Transaction fees paid by confirmed transactions, in ether",
	}, []string{"action"})

	TokenBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wethcycle_token_balance_eth",
		Help: "Last queried wrapped token balance of the signing account",
	})

	NativeBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wethcycle_native_balance_eth",
		Help: "Last queried native balance of the signing account",
	})

	IterationTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wethcycle_iteration_seconds",
		Help:    "Time from sampling an amount to the confirmed or failed transaction",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10), // Start at 1s with 10 buckets doubling in size
	}, []string{"action"})

	LoopState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wethcycle_loop_state",
		Help: "Loop lifecycle state: 0 idle, 1 running, 2 finalizing, 3 done",
	}, []string{"action"})
)

// RecordConfirmed counts a confirmed transaction and its amount and fee in ether
func RecordConfirmed(action models.ActionKind, amount, fee decimal.Decimal, seconds float64) {
	Transactions.WithLabelValues(string(action), StatusConfirmed).Inc()
	AmountMoved.WithLabelValues(string(action)).Add(amount.InexactFloat64())
	FeesSpent.WithLabelValues(string(action)).Add(fee.InexactFloat64())
	IterationTime.WithLabelValues(string(action)).Observe(seconds)
}

// RecordFailed counts an iteration that moved nothing
func RecordFailed(action models.ActionKind, seconds float64) {
	Transactions.WithLabelValues(string(action), StatusFailed).Inc()
	IterationTime.WithLabelValues(string(action)).Observe(seconds)
}

// RecordSkipped counts an iteration that sent no transaction because nothing was left to move
func RecordSkipped(action models.ActionKind) {
	Transactions.WithLabelValues(string(action), StatusSkipped).Inc()
}

// SetLoopState publishes the lifecycle state of a loop
func SetLoopState(action models.ActionKind, state models.LoopState) {
	LoopState.WithLabelValues(string(action)).Set(float64(state))
}
