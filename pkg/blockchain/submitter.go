package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/speedrun-hq/wethcycle/pkg/contracts"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// Submitter signs, broadcasts and waits for wrap/unwrap transactions
type Submitter struct {
	backend Backend
	key     *ecdsa.PrivateKey
	nonces  *NonceManager
	events  *contracts.WETHFilterer
	logger  logger.Logger

	// held from nonce allocation until the node accepted or rejected the transaction,
	// so a higher nonce never reaches the node ahead of a lower one
	sendMu sync.Mutex
}

// NewSubmitter creates a submitter signing with the given key
func NewSubmitter(backend Backend, key *ecdsa.PrivateKey, nonces *NonceManager, logger logger.Logger) (*Submitter, error) {
	// receipts are matched by log address, the binding itself is not tied to one
	events, err := contracts.NewWETHFilterer(common.Address{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to bind WETH events: %w", err)
	}

	return &Submitter{
		backend: backend,
		key:     key,
		nonces:  nonces,
		events:  events,
		logger:  logger,
	}, nil
}

// Submit sends the intent as a fee market transaction and blocks until it is mined.
// Any failure is returned as a *SubmissionError.
func (s *Submitter) Submit(ctx context.Context, intent models.TransactionIntent) (*models.TransactionOutcome, error) {
	action := string(intent.Action)

	signedTx, nonce, err := s.broadcast(ctx, intent)
	if err != nil {
		return nil, err
	}
	s.logger.DebugWithAction(action, "Transaction sent: %s (nonce %d)", signedTx.Hash().Hex(), nonce)

	receipt, err := bind.WaitMined(ctx, s.backend, signedTx)
	if err != nil {
		s.nonces.MarkTransactionFailed(nonce)
		return nil, &SubmissionError{Stage: StageConfirm, Hash: signedTx.Hash(), Err: err}
	}
	s.nonces.MarkTransactionConfirmed(nonce)

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &SubmissionError{
			Stage: StageReverted,
			Hash:  signedTx.Hash(),
			Err:   fmt.Errorf("%w in block %d", ErrReverted, receipt.BlockNumber.Uint64()),
		}
	}
	if err := s.checkEvent(intent, receipt); err != nil {
		return nil, &SubmissionError{Stage: StageVerify, Hash: signedTx.Hash(), Err: err}
	}

	outcome := &models.TransactionOutcome{
		Hash:        signedTx.Hash(),
		Nonce:       nonce,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}

	header, err := s.backend.HeaderByNumber(ctx, receipt.BlockNumber)
	if err != nil {
		s.logger.ErrorWithAction(action, "Failed to get block %d header: %v", outcome.BlockNumber, err)
		header = nil
	} else {
		outcome.BlockTime = time.Unix(int64(header.Time), 0)
	}

	outcome.EffectiveGasPrice = EffectiveGasPrice(receipt, header, intent.GasTipCap, intent.GasFeeCap)
	return outcome, nil
}

// broadcast allocates a nonce, signs and sends the transaction
func (s *Submitter) broadcast(ctx context.Context, intent models.TransactionIntent) (*types.Transaction, uint64, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	nonce, err := s.nonces.GetNonce(ctx)
	if err != nil {
		return nil, 0, &SubmissionError{Stage: StageSign, Err: err}
	}

	to := intent.To
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   intent.ChainID,
		Nonce:     nonce,
		GasTipCap: intent.GasTipCap,
		GasFeeCap: intent.GasFeeCap,
		Gas:       intent.Gas,
		To:        &to,
		Value:     intent.Value,
		Data:      intent.Data,
	})

	signedTx, err := types.SignTx(tx, types.NewLondonSigner(intent.ChainID), s.key)
	if err != nil {
		s.nonces.ReleaseNonce(nonce)
		return nil, 0, &SubmissionError{Stage: StageSign, Err: fmt.Errorf("failed to sign transaction: %w", err)}
	}

	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		s.nonces.ReleaseNonce(nonce)
		return nil, 0, &SubmissionError{Stage: StageBroadcast, Hash: signedTx.Hash(), Err: err}
	}
	s.nonces.TrackTransaction(intent.Action, signedTx.Hash(), nonce)
	return signedTx, nonce, nil
}

// checkEvent compares the amount in the contract's Deposit or Withdrawal event with the
// amount sent. Receipts without such an event are accepted.
func (s *Submitter) checkEvent(intent models.TransactionIntent, receipt *types.Receipt) error {
	for _, log := range receipt.Logs {
		if log == nil || log.Address != intent.To {
			continue
		}

		var account common.Address
		var wad *big.Int
		switch intent.Action {
		case models.ActionWithdraw:
			event, err := s.events.ParseWithdrawal(*log)
			if err != nil {
				continue
			}
			account, wad = event.Src, event.Wad
		case models.ActionDeposit:
			event, err := s.events.ParseDeposit(*log)
			if err != nil {
				continue
			}
			account, wad = event.Dst, event.Wad
		default:
			return nil
		}
		if account != intent.From {
			continue
		}

		if intent.Amount == nil || wad.Cmp(intent.Amount) != 0 {
			return fmt.Errorf("%w: event reports %s wei, sent %s wei", ErrAmountMismatch, wad, intent.Amount)
		}
		return nil
	}

	s.logger.DebugWithAction(string(intent.Action), "No %s event from %s in receipt %s", intent.Action, intent.To.Hex(), receipt.TxHash.Hex())
	return nil
}

// EffectiveGasPrice returns the price actually paid per gas unit. Nodes that omit it from
// the receipt get min(feeCap, baseFee+tipCap); without a base fee the fee cap is used.
func EffectiveGasPrice(receipt *types.Receipt, header *types.Header, tipCap, feeCap *big.Int) *big.Int {
	if receipt != nil && receipt.EffectiveGasPrice != nil && receipt.EffectiveGasPrice.Sign() > 0 {
		return new(big.Int).Set(receipt.EffectiveGasPrice)
	}
	if header == nil || header.BaseFee == nil {
		return new(big.Int).Set(feeCap)
	}

	price := new(big.Int).Add(header.BaseFee, tipCap)
	if price.Cmp(feeCap) > 0 {
		return new(big.Int).Set(feeCap)
	}
	return price
}
