// Package randomizer samples transaction amounts and inter-transaction delays.
package randomizer

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits kept on sampled amounts
const AmountPrecision = 8

// Randomizer samples amounts and delays from a single random source
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a randomizer backed by the given source
func New(src rand.Source) *Randomizer {
	return &Randomizer{rng: rand.New(src)}
}

// NewSeeded creates a deterministic randomizer, mostly useful in tests
func NewSeeded(seed uint64) *Randomizer {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

var defaultRandomizer = New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

// Default returns the process-wide randomizer behind RandomAmount and RandomDelay
func Default() *Randomizer {
	return defaultRandomizer
}

// RandomAmount samples from the default randomizer
func RandomAmount(min, max decimal.Decimal) decimal.Decimal {
	return defaultRandomizer.RandomAmount(min, max)
}

// RandomDelay samples from the default randomizer
func RandomDelay(min, max time.Duration) time.Duration {
	return defaultRandomizer.RandomDelay(min, max)
}

// RandomAmount returns a uniform sample in [min, max) rounded to 8 fractional digits.
// The rounded value is clamped into [min, max], and a clamped bound is rounded too, so the
// result never carries more than 8 digits; min >= max always yields min rounded.
func (r *Randomizer) RandomAmount(min, max decimal.Decimal) decimal.Decimal {
	if max.LessThanOrEqual(min) {
		return min.Round(AmountPrecision)
	}

	r.mu.Lock()
	f := r.rng.Float64()
	r.mu.Unlock()

	span := max.Sub(min)
	amount := min.Add(span.Mul(decimal.NewFromFloat(f))).Round(AmountPrecision)

	if amount.LessThan(min) {
		return min.Round(AmountPrecision)
	}
	if amount.GreaterThan(max) {
		return max.Round(AmountPrecision)
	}
	return amount
}

// RandomDelay returns a uniform sample in [min, max) with millisecond granularity.
// max <= min yields min, a fixed delay.
func (r *Randomizer) RandomDelay(min, max time.Duration) time.Duration {
	minMs := min.Milliseconds()
	maxMs := max.Milliseconds()
	if maxMs <= minMs {
		return time.Duration(minMs) * time.Millisecond
	}

	r.mu.Lock()
	n := r.rng.Int64N(maxMs - minMs)
	r.mu.Unlock()

	return time.Duration(minMs+n) * time.Millisecond
}
