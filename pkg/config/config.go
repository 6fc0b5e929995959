package config

import (
	"log"
	"math/big"
	"time"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/models"
)

// Config holds the configuration for the wrap/unwrap cycler
type Config struct {
	RPCURL          string
	PrivateKey      string
	ContractAddress common.Address
	ChainID         int
	Withdraw        ActionConfig
	Deposit         ActionConfig
	Timezone        *time.Location
	ExplorerURL     string
	MetricsPort     string
	MetricsAPIKey   string
	LoggerConfig    LoggerConfig
}

// ActionConfig holds the settings of a single action loop
type ActionConfig struct {
	TxCount              int
	MinAmount            decimal.Decimal
	MaxAmount            decimal.Decimal
	MinDelay             time.Duration
	MaxDelay             time.Duration
	GasLimit             uint64
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
}

// LoggerConfig holds the configuration for logging
type LoggerConfig struct {
	Level    logger.Level
	Coloring bool
}

// Action returns the settings of the given loop
func (c *Config) Action(kind models.ActionKind) ActionConfig {
	if kind == models.ActionDeposit {
		return c.Deposit
	}
	return c.Withdraw
}

// LoadConfig loads the configuration from the given env files, or .env when none is given
func LoadConfig(envFiles ...string) (*Config, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(envFiles...); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the process environment
func FromEnv() (*Config, error) {
	rpcURL, err := GetEnvRPCURL()
	if err != nil {
		return nil, err
	}

	privateKey, err := GetEnvPrivateKey()
	if err != nil {
		return nil, err
	}

	contractAddress, err := GetEnvContractAddress()
	if err != nil {
		return nil, err
	}

	chainID, err := GetEnvChainID()
	if err != nil {
		return nil, err
	}

	gasLimit, err := GetEnvGasLimit()
	if err != nil {
		return nil, err
	}

	tipCap, feeCap, err := GetEnvFees()
	if err != nil {
		return nil, err
	}

	withdraw, err := loadAction(withdrawPrefix, gasLimit, tipCap, feeCap)
	if err != nil {
		return nil, err
	}

	deposit, err := loadAction(depositPrefix, gasLimit, tipCap, feeCap)
	if err != nil {
		return nil, err
	}

	timezone, err := GetEnvDisplayTimezone()
	if err != nil {
		return nil, err
	}

	explorerURL, err := GetEnvExplorerURL(chainID)
	if err != nil {
		return nil, err
	}

	metricsPort, err := GetEnvMetricsPort()
	if err != nil {
		return nil, err
	}

	logLevel, err := GetEnvLogLevel()
	if err != nil {
		return nil, err
	}

	logColoring, err := GetEnvLogColoring()
	if err != nil {
		return nil, err
	}

	return &Config{
		RPCURL:          rpcURL,
		PrivateKey:      privateKey,
		ContractAddress: contractAddress,
		ChainID:         chainID,
		Withdraw:        withdraw,
		Deposit:         deposit,
		Timezone:        timezone,
		ExplorerURL:     explorerURL,
		MetricsPort:     metricsPort,
		MetricsAPIKey:   GetEnvMetricsAPIKey(),
		LoggerConfig: LoggerConfig{
			Level:    logLevel,
			Coloring: logColoring,
		},
	}, nil
}

// loadAction reads the per-loop variables sharing the given prefix
func loadAction(prefix string, gasLimit uint64, tipCap, feeCap *big.Int) (ActionConfig, error) {
	txCount, err := GetEnvTxCount(prefix)
	if err != nil {
		return ActionConfig{}, err
	}

	minAmount, maxAmount, err := GetEnvAmountRange(prefix)
	if err != nil {
		return ActionConfig{}, err
	}

	minDelay, maxDelay, err := GetEnvDelayRange(prefix)
	if err != nil {
		return ActionConfig{}, err
	}

	return ActionConfig{
		TxCount:              txCount,
		MinAmount:            minAmount,
		MaxAmount:            maxAmount,
		MinDelay:             minDelay,
		MaxDelay:             maxDelay,
		GasLimit:             gasLimit,
		MaxPriorityFeePerGas: new(big.Int).Set(tipCap),
		MaxFeePerGas:         new(big.Int).Set(feeCap),
	}, nil
}
