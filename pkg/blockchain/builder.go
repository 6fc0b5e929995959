package blockchain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/speedrun-hq/wethcycle/pkg/config"
	"github.com/speedrun-hq/wethcycle/pkg/contracts"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// Builder creates unsigned wrap and unwrap calls with fixed fee and gas settings
type Builder struct {
	from     common.Address
	contract common.Address
	chainID  *big.Int
	gas      uint64
	tipCap   *big.Int
	feeCap   *big.Int
	abi      abi.ABI
}

// NewBuilder creates a builder for calls from the given account to the token contract
func NewBuilder(from, contract common.Address, chainID *big.Int, cfg config.ActionConfig) (*Builder, error) {
	parsed, err := contracts.ParseWETHABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	if chainID == nil || chainID.Sign() <= 0 {
		return nil, fmt.Errorf("invalid chain ID: %v", chainID)
	}
	if cfg.MaxPriorityFeePerGas == nil || cfg.MaxFeePerGas == nil {
		return nil, fmt.Errorf("fee caps are required")
	}

	return &Builder{
		from:     from,
		contract: contract,
		chainID:  new(big.Int).Set(chainID),
		gas:      cfg.GasLimit,
		tipCap:   new(big.Int).Set(cfg.MaxPriorityFeePerGas),
		feeCap:   new(big.Int).Set(cfg.MaxFeePerGas),
		abi:      parsed,
	}, nil
}

// Withdraw builds an unwrap call for the given amount in wei
func (b *Builder) Withdraw(amount *big.Int) (models.TransactionIntent, error) {
	if amount == nil || amount.Sign() <= 0 {
		return models.TransactionIntent{}, fmt.Errorf("withdrawal amount must be positive, got %v", amount)
	}

	data, err := b.abi.Pack("withdraw", amount)
	if err != nil {
		return models.TransactionIntent{}, fmt.Errorf("failed to pack withdraw call: %w", err)
	}

	return b.intent(models.ActionWithdraw, amount, big.NewInt(0), data), nil
}

// Deposit builds a wrap call attaching the given amount in wei
func (b *Builder) Deposit(amount *big.Int) (models.TransactionIntent, error) {
	if amount == nil || amount.Sign() <= 0 {
		return models.TransactionIntent{}, fmt.Errorf("deposit amount must be positive, got %v", amount)
	}

	data, err := b.abi.Pack("deposit")
	if err != nil {
		return models.TransactionIntent{}, fmt.Errorf("failed to pack deposit call: %w", err)
	}

	return b.intent(models.ActionDeposit, amount, amount, data), nil
}

func (b *Builder) intent(action models.ActionKind, amount, value *big.Int, data []byte) models.TransactionIntent {
	return models.TransactionIntent{
		Action:    action,
		From:      b.from,
		To:        b.contract,
		Value:     new(big.Int).Set(value),
		Amount:    new(big.Int).Set(amount),
		Data:      data,
		GasTipCap: new(big.Int).Set(b.tipCap),
		GasFeeCap: new(big.Int).Set(b.feeCap),
		Gas:       b.gas,
		ChainID:   new(big.Int).Set(b.chainID),
	}
}
