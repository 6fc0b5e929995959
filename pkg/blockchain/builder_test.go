package blockchain

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/speedrun-hq/wethcycle/pkg/config"
	"github.com/speedrun-hq/wethcycle/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFrom     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testContract = common.HexToAddress("0xA51894664A773981C6C112C43ce576f315d5b1B6")
)

func testActionConfig() config.ActionConfig {
	return config.ActionConfig{
		GasLimit:             100000,
		MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		MaxFeePerGas:         big.NewInt(2_000_000_000),
	}
}

func TestBuilder(t *testing.T) {
	builder, err := NewBuilder(testFrom, testContract, big.NewInt(167000), testActionConfig())
	require.NoError(t, err)

	amount := big.NewInt(1_500_000_000_000_000) // 0.0015 ether

	t.Run("withdraw", func(t *testing.T) {
		intent, err := builder.Withdraw(amount)
		require.NoError(t, err)

		assert.Equal(t, models.ActionWithdraw, intent.Action)
		assert.Equal(t, testFrom, intent.From)
		assert.Equal(t, testContract, intent.To)
		assert.Equal(t, 0, intent.Value.Sign())
		assert.Equal(t, amount, intent.Amount)
		assert.Equal(t,
			"2e1a7d4d"+hex.EncodeToString(common.LeftPadBytes(amount.Bytes(), 32)),
			hex.EncodeToString(intent.Data))
		assert.Equal(t, uint64(100000), intent.Gas)
		assert.Equal(t, big.NewInt(1_000_000_000), intent.GasTipCap)
		assert.Equal(t, big.NewInt(2_000_000_000), intent.GasFeeCap)
		assert.Equal(t, big.NewInt(167000), intent.ChainID)
	})

	t.Run("deposit", func(t *testing.T) {
		intent, err := builder.Deposit(amount)
		require.NoError(t, err)

		assert.Equal(t, models.ActionDeposit, intent.Action)
		assert.Equal(t, amount, intent.Value)
		assert.Equal(t, amount, intent.Amount)
		assert.Equal(t, "d0e30db0", hex.EncodeToString(intent.Data))

		// intents do not share state with the caller
		intent.Value.SetInt64(1)
		assert.Equal(t, big.NewInt(1_500_000_000_000_000), amount)
	})

	t.Run("non positive amounts", func(t *testing.T) {
		for _, a := range []*big.Int{nil, big.NewInt(0), big.NewInt(-1)} {
			_, err := builder.Withdraw(a)
			assert.Error(t, err)
			_, err = builder.Deposit(a)
			assert.Error(t, err)
		}
	})
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(testFrom, testContract, nil, testActionConfig())
	assert.Error(t, err)

	_, err = NewBuilder(testFrom, testContract, big.NewInt(1), config.ActionConfig{GasLimit: 1})
	assert.Error(t, err)
}
