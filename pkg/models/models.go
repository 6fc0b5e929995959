package models

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ActionKind identifies which of the two loops a value belongs to
type ActionKind string

const (
	// ActionWithdraw unwraps token back into native coin
	ActionWithdraw ActionKind = "withdrawal"
	// ActionDeposit wraps native coin into token
	ActionDeposit ActionKind = "deposit"
)

// Title returns the capitalized action name used in reports
func (k ActionKind) Title() string {
	switch k {
	case ActionWithdraw:
		return "Withdrawal"
	case ActionDeposit:
		return "Deposit"
	}
	return string(k)
}

// TransactionIntent is a single unsigned wrap or unwrap call
type TransactionIntent struct {
	Action    ActionKind
	From      common.Address
	To        common.Address
	Value     *big.Int // native coin attached to the call
	Amount    *big.Int // amount moved, in wei
	Data      []byte
	GasTipCap *big.Int
	GasFeeCap *big.Int
	Gas       uint64
	ChainID   *big.Int
}

// TransactionOutcome is the confirmed result of a submitted intent
type TransactionOutcome struct {
	Hash              common.Hash
	Nonce             uint64
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	BlockTime         time.Time // zero if the block lookup failed
}

// Fee returns gasUsed * effectiveGasPrice in wei
func (o *TransactionOutcome) Fee() *big.Int {
	if o.EffectiveGasPrice == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(new(big.Int).SetUint64(o.GasUsed), o.EffectiveGasPrice)
}
