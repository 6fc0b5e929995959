package config

import (
	"math/big"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/chains"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/randomizer"
)

const (
	// DefaultChainID is the network the wrap/unwrap transactions are signed for
	DefaultChainID = chains.TaikoMainnetChainID

	// DefaultDisplayTimezone is used to render block timestamps
	DefaultDisplayTimezone = "Asia/Manila"

	// DefaultLogLevel defines the default logger level
	DefaultLogLevel = "info"

	// DefaultLogColoring defines whether log prefixes are colored
	DefaultLogColoring = true

	// action prefixes for per-loop variables
	withdrawPrefix = "WITHDRAW"
	depositPrefix  = "DEPOSIT"
)

// requireEnv returns the trimmed value of a required environment variable
func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", missing(key)
	}
	return value, nil
}

// requireInt parses a required integer environment variable
func requireInt(key string) (int, error) {
	value, err := requireEnv(key)
	if err != nil {
		return 0, err
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, invalid(key, "%s must be an integer", value)
	}
	return parsed, nil
}

// requireDecimal parses a required decimal environment variable
func requireDecimal(key string) (decimal.Decimal, error) {
	value, err := requireEnv(key)
	if err != nil {
		return decimal.Zero, err
	}

	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, invalid(key, "%s must be a decimal number", value)
	}
	return parsed, nil
}

// GetEnvRPCURL returns the node endpoint
func GetEnvRPCURL() (string, error) {
	rpcURL, err := requireEnv("RPC_URL")
	if err != nil {
		return "", err
	}

	// Validate URL format
	if _, err := url.ParseRequestURI(rpcURL); err != nil {
		return "", invalid("RPC_URL", "%s must be a valid URL", rpcURL)
	}
	return rpcURL, nil
}

// GetEnvPrivateKey returns the hex encoded signing key without 0x prefix
func GetEnvPrivateKey() (string, error) {
	key, err := requireEnv("WALLET_PRIVATEKEY")
	if err != nil {
		return "", err
	}
	key = strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")

	if _, err := crypto.HexToECDSA(key); err != nil {
		// never echo the key itself
		return "", invalid("WALLET_PRIVATEKEY", "must be a hex encoded secp256k1 private key")
	}
	return key, nil
}

// GetEnvContractAddress returns the wrapped token contract address
func GetEnvContractAddress() (common.Address, error) {
	address, err := requireEnv("WETH_CA")
	if err != nil {
		return common.Address{}, err
	}

	// Validate Ethereum address format
	if !common.IsHexAddress(address) {
		return common.Address{}, invalid("WETH_CA", "%s must be a valid Ethereum address", address)
	}
	return common.HexToAddress(address), nil
}

// GetEnvChainID returns the chain the transactions are signed for
func GetEnvChainID() (int, error) {
	chainID := os.Getenv("CHAIN_ID")
	if chainID == "" {
		return DefaultChainID, nil
	}

	id, err := strconv.Atoi(chainID)
	if err != nil {
		return 0, invalid("CHAIN_ID", "%s must be an integer", chainID)
	}
	if id <= 0 {
		return 0, invalid("CHAIN_ID", "must be greater than 0")
	}
	return id, nil
}

// GetEnvGasLimit returns the fixed gas limit used for every transaction
func GetEnvGasLimit() (uint64, error) {
	value, err := requireEnv("GAS_LIMIT")
	if err != nil {
		return 0, err
	}

	gasLimit, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, invalid("GAS_LIMIT", "%s must be a positive integer", value)
	}
	if gasLimit == 0 {
		return 0, invalid("GAS_LIMIT", "must be greater than 0")
	}
	return gasLimit, nil
}

// GetEnvFees returns the priority fee and fee cap in wei, configured in gwei
func GetEnvFees() (*big.Int, *big.Int, error) {
	tip, err := requireDecimal("MAX_PRIORITY_FEE_PER_GAS")
	if err != nil {
		return nil, nil, err
	}
	if tip.IsNegative() {
		return nil, nil, invalid("MAX_PRIORITY_FEE_PER_GAS", "must be greater than or equal to 0")
	}

	feeCap, err := requireDecimal("MAX_FEE_PER_GAS")
	if err != nil {
		return nil, nil, err
	}
	if !feeCap.IsPositive() {
		return nil, nil, invalid("MAX_FEE_PER_GAS", "must be greater than 0")
	}

	if tip.GreaterThan(feeCap) {
		return nil, nil, invalid("MAX_PRIORITY_FEE_PER_GAS", "%s gwei exceeds MAX_FEE_PER_GAS %s gwei", tip, feeCap)
	}

	return chains.GweiToWei(tip), chains.GweiToWei(feeCap), nil
}

// GetEnvTxCount returns the number of iterations for an action loop
func GetEnvTxCount(prefix string) (int, error) {
	key := prefix + "_TX_COUNT"
	count, err := requireInt(key)
	if err != nil {
		return 0, err
	}
	if count < 1 {
		return 0, invalid(key, "must be greater than 0")
	}
	return count, nil
}

// GetEnvAmountRange returns the ether-denominated sampling range for an action loop
func GetEnvAmountRange(prefix string) (decimal.Decimal, decimal.Decimal, error) {
	minKey := prefix + "_RANDOM_AMOUNT_MIN"
	maxKey := prefix + "_RANDOM_AMOUNT_MAX"

	min, err := requireDecimal(minKey)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	max, err := requireDecimal(maxKey)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if !min.IsPositive() {
		return decimal.Zero, decimal.Zero, invalid(minKey, "must be greater than 0")
	}
	// sampled amounts carry at most AmountPrecision digits
	for _, bound := range []struct {
		key   string
		value decimal.Decimal
	}{{minKey, min}, {maxKey, max}} {
		if !bound.value.Equal(bound.value.Round(randomizer.AmountPrecision)) {
			return decimal.Zero, decimal.Zero, invalid(bound.key, "%s has more than %d fractional digits", bound.value, randomizer.AmountPrecision)
		}
	}
	if min.GreaterThan(max) {
		return decimal.Zero, decimal.Zero, invalid(minKey, "%s exceeds %s %s", min, maxKey, max)
	}
	return min, max, nil
}

// GetEnvDelayRange returns the delay range for an action loop, configured in milliseconds
func GetEnvDelayRange(prefix string) (time.Duration, time.Duration, error) {
	minKey := prefix + "_RANDOM_TIME_MIN"
	maxKey := prefix + "_RANDOM_TIME_MAX"

	min, err := requireInt(minKey)
	if err != nil {
		return 0, 0, err
	}
	max, err := requireInt(maxKey)
	if err != nil {
		return 0, 0, err
	}

	if min < 0 {
		return 0, 0, invalid(minKey, "must be greater than or equal to 0")
	}
	if min > max {
		return 0, 0, invalid(minKey, "%d exceeds %s %d", min, maxKey, max)
	}
	return time.Duration(min) * time.Millisecond, time.Duration(max) * time.Millisecond, nil
}

// GetEnvDisplayTimezone returns the location block timestamps are rendered in
func GetEnvDisplayTimezone() (*time.Location, error) {
	name := os.Getenv("DISPLAY_TIMEZONE")
	if name == "" {
		name = DefaultDisplayTimezone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, invalid("DISPLAY_TIMEZONE", "%s is not a known time zone", name)
	}
	return loc, nil
}

// GetEnvExplorerURL returns the block explorer base URL, defaulting to the known explorer for the chain
func GetEnvExplorerURL(chainID int) (string, error) {
	explorer := os.Getenv("EXPLORER_URL")
	if explorer == "" {
		return chains.GetExplorerURL(chainID), nil
	}

	// Validate URL format
	if _, err := url.ParseRequestURI(explorer); err != nil {
		return "", invalid("EXPLORER_URL", "%s must be a valid URL", explorer)
	}
	return explorer, nil
}

// GetEnvMetricsPort returns the metrics server port, empty when the server is disabled
func GetEnvMetricsPort() (string, error) {
	metricsPort := os.Getenv("METRICS_PORT")
	if metricsPort == "" {
		return "", nil
	}

	// Validate port format
	if _, err := strconv.Atoi(metricsPort); err != nil {
		return "", invalid("METRICS_PORT", "%s must be a valid integer", metricsPort)
	}
	return metricsPort, nil
}

// GetEnvLogLevel returns the logger level
func GetEnvLogLevel() (logger.Level, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = DefaultLogLevel
	}

	parsed, err := logger.ParseLevel(level)
	if err != nil {
		return logger.InfoLevel, invalid("LOG_LEVEL", "%s must be one of debug, info, notice, error", level)
	}
	return parsed, nil
}

// GetEnvLogColoring returns whether log output is colored
func GetEnvLogColoring() (bool, error) {
	coloring := os.Getenv("LOG_COLORING")
	if coloring == "" {
		return DefaultLogColoring, nil
	}

	if coloring == "true" {
		return true, nil
	} else if coloring == "false" {
		return false, nil
	}

	return false, invalid("LOG_COLORING", "%s must be 'true' or 'false'", coloring)
}

// GetEnvMetricsAPIKey returns the bearer token guarding the metrics endpoint, empty when open
func GetEnvMetricsAPIKey() string {
	return os.Getenv("METRICS_API_KEY")
}
