package blockchain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Submission stages
const (
	StageSign      = "sign"
	StageBroadcast = "broadcast"
	StageConfirm   = "confirm"
	StageReverted  = "reverted"
	StageVerify    = "verify"
)

// ErrReverted is wrapped by a SubmissionError when the receipt reports failure
var ErrReverted = errors.New("transaction reverted")

// ErrAmountMismatch is wrapped by a SubmissionError when the contract logged a different amount
var ErrAmountMismatch = errors.New("event amount does not match")

// SubmissionError reports a transaction that did not confirm successfully.
// Hash is zero when the transaction never left the process.
type SubmissionError struct {
	Stage string
	Hash  common.Hash
	Err   error
}

func (e *SubmissionError) Error() string {
	if e.Hash == (common.Hash{}) {
		return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Hash.Hex(), e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
