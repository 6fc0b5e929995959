package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
	"github.com/speedrun-hq/wethcycle/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrivateKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// setValidEnv sets every required variable and clears the optional ones
func setValidEnv(t *testing.T) {
	t.Helper()
	env := map[string]string{
		"RPC_URL":                    "https://rpc.mainnet.taiko.xyz",
		"WALLET_PRIVATEKEY":          "0x" + testPrivateKey,
		"WETH_CA":                    "0xA51894664A773981C6C112C43ce576f315d5b1B6",
		"GAS_LIMIT":                  "100000",
		"MAX_PRIORITY_FEE_PER_GAS":   "0.1",
		"MAX_FEE_PER_GAS":            "1.5",
		"WITHDRAW_TX_COUNT":          "3",
		"WITHDRAW_RANDOM_AMOUNT_MIN": "0.0001",
		"WITHDRAW_RANDOM_AMOUNT_MAX": "0.0005",
		"WITHDRAW_RANDOM_TIME_MIN":   "1000",
		"WITHDRAW_RANDOM_TIME_MAX":   "5000",
		"DEPOSIT_TX_COUNT":           "2",
		"DEPOSIT_RANDOM_AMOUNT_MIN":  "0.001",
		"DEPOSIT_RANDOM_AMOUNT_MAX":  "0.002",
		"DEPOSIT_RANDOM_TIME_MIN":    "2000",
		"DEPOSIT_RANDOM_TIME_MAX":    "2000",
		"CHAIN_ID":                   "",
		"DISPLAY_TIMEZONE":           "",
		"EXPLORER_URL":               "",
		"METRICS_PORT":               "",
		"METRICS_API_KEY":            "",
		"LOG_LEVEL":                  "",
		"LOG_COLORING":               "",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestFromEnv(t *testing.T) {
	setValidEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.mainnet.taiko.xyz", cfg.RPCURL)
	assert.Equal(t, testPrivateKey, cfg.PrivateKey)
	assert.Equal(t, common.HexToAddress("0xA51894664A773981C6C112C43ce576f315d5b1B6"), cfg.ContractAddress)
	assert.Equal(t, DefaultChainID, cfg.ChainID)
	assert.Equal(t, "https://taikoscan.network", cfg.ExplorerURL)
	assert.Equal(t, "Asia/Manila", cfg.Timezone.String())
	assert.Equal(t, "", cfg.MetricsPort)
	assert.Equal(t, logger.InfoLevel, cfg.LoggerConfig.Level)
	assert.True(t, cfg.LoggerConfig.Coloring)

	w := cfg.Withdraw
	assert.Equal(t, 3, w.TxCount)
	assert.True(t, w.MinAmount.Equal(decimal.RequireFromString("0.0001")))
	assert.True(t, w.MaxAmount.Equal(decimal.RequireFromString("0.0005")))
	assert.Equal(t, time.Second, w.MinDelay)
	assert.Equal(t, 5*time.Second, w.MaxDelay)
	assert.Equal(t, uint64(100000), w.GasLimit)
	assert.Equal(t, big.NewInt(100_000_000), w.MaxPriorityFeePerGas)
	assert.Equal(t, big.NewInt(1_500_000_000), w.MaxFeePerGas)

	d := cfg.Action(models.ActionDeposit)
	assert.Equal(t, 2, d.TxCount)
	assert.Equal(t, 2*time.Second, d.MinDelay)
	assert.Equal(t, 2*time.Second, d.MaxDelay)
	assert.Equal(t, cfg.Withdraw, cfg.Action(models.ActionWithdraw))

	// fee values are copied per loop
	d.MaxFeePerGas.SetInt64(1)
	assert.Equal(t, big.NewInt(1_500_000_000), cfg.Withdraw.MaxFeePerGas)
}

func TestFromEnvOptionalOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("CHAIN_ID", "167009")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("METRICS_PORT", "8080")
	t.Setenv("METRICS_API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_COLORING", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 167009, cfg.ChainID)
	assert.Equal(t, "https://hekla.taikoscan.network", cfg.ExplorerURL)
	assert.Equal(t, time.UTC.String(), cfg.Timezone.String())
	assert.Equal(t, "8080", cfg.MetricsPort)
	assert.Equal(t, "secret", cfg.MetricsAPIKey)
	assert.Equal(t, logger.DebugLevel, cfg.LoggerConfig.Level)
	assert.False(t, cfg.LoggerConfig.Coloring)

	t.Setenv("EXPLORER_URL", "https://explorer.example.org/")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://explorer.example.org/", cfg.ExplorerURL)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "missing rpc url", key: "RPC_URL", val: ""},
		{name: "malformed rpc url", key: "RPC_URL", val: "not a url"},
		{name: "missing private key", key: "WALLET_PRIVATEKEY", val: ""},
		{name: "malformed private key", key: "WALLET_PRIVATEKEY", val: "0x1234"},
		{name: "malformed contract", key: "WETH_CA", val: "0x1234"},
		{name: "zero gas limit", key: "GAS_LIMIT", val: "0"},
		{name: "negative gas limit", key: "GAS_LIMIT", val: "-5"},
		{name: "missing fee cap", key: "MAX_FEE_PER_GAS", val: ""},
		{name: "tip above fee cap", key: "MAX_PRIORITY_FEE_PER_GAS", val: "2"},
		{name: "zero tx count", key: "WITHDRAW_TX_COUNT", val: "0"},
		{name: "non numeric tx count", key: "DEPOSIT_TX_COUNT", val: "two"},
		{name: "amount min above max", key: "WITHDRAW_RANDOM_AMOUNT_MIN", val: "0.001"},
		{name: "non numeric amount", key: "DEPOSIT_RANDOM_AMOUNT_MAX", val: "lots"},
		{name: "zero amount min", key: "DEPOSIT_RANDOM_AMOUNT_MIN", val: "0"},
		{name: "amount min below precision", key: "WITHDRAW_RANDOM_AMOUNT_MIN", val: "0.000000001"},
		{name: "amount max below precision", key: "DEPOSIT_RANDOM_AMOUNT_MAX", val: "0.0015000001"},
		{name: "delay min above max", key: "DEPOSIT_RANDOM_TIME_MIN", val: "3000"},
		{name: "negative delay", key: "WITHDRAW_RANDOM_TIME_MIN", val: "-1"},
		{name: "bad chain id", key: "CHAIN_ID", val: "taiko"},
		{name: "unknown timezone", key: "DISPLAY_TIMEZONE", val: "Mars/Olympus"},
		{name: "bad metrics port", key: "METRICS_PORT", val: "http"},
		{name: "bad log level", key: "LOG_LEVEL", val: "verbose"},
		{name: "bad log coloring", key: "LOG_COLORING", val: "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(tt.key, tt.val)

			cfg, err := FromEnv()
			require.Error(t, err)
			assert.Nil(t, cfg)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestPrivateKeyNotLeakedInError(t *testing.T) {
	setValidEnv(t)
	t.Setenv("WALLET_PRIVATEKEY", "zz"+testPrivateKey[2:])

	_, err := FromEnv()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testPrivateKey[2:])
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	setValidEnv(t)
	// godotenv does not override variables that are already set
	os.Unsetenv("WITHDRAW_TX_COUNT")
	t.Cleanup(func() { os.Unsetenv("WITHDRAW_TX_COUNT") })

	path := filepath.Join(t.TempDir(), "cycle.env")
	require.NoError(t, os.WriteFile(path, []byte("WITHDRAW_TX_COUNT=7\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Withdraw.TxCount)
}
