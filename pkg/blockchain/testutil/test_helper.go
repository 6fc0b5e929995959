package testutil

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Constants for testing
const (
	DefaultTestTimeout = 10 * time.Second

	// SimulatedChainID is the chain ID of the simulated backend
	SimulatedChainID = 1337

	// block interval used by StartMining
	miningInterval = 50 * time.Millisecond
)

// SetupSimulation creates a simulated blockchain with a funded account and closes it when the test ends
func SetupSimulation(t *testing.T) (*simulated.Backend, *ecdsa.PrivateKey, common.Address) {
	t.Helper()

	// Generate a new random private key
	privateKey, err := crypto.GenerateKey()
	require.NoError(t, err, "Failed to generate private key")
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	// Fund the account with some initial balance
	balance := CreateBigInt("10000000000000000000") // 10 ETH
	//nolint:SA1019 // Using deprecated GenesisAccount for compatibility
	genesisAlloc := map[common.Address]core.GenesisAccount{
		address: {
			Balance: balance,
		},
	}

	// Create simulated blockchain
	sim := simulated.NewBackend(genesisAlloc)
	t.Cleanup(func() {
		if err := sim.Close(); err != nil {
			t.Logf("Failed to close simulated backend: %v", err)
		}
	})

	return sim, privateKey, address
}

// StartMining commits a block at a short interval until the test ends
func StartMining(t *testing.T, sim *simulated.Backend) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(miningInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sim.Commit()
			}
		}
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
}

// GenerateAddress creates a random address for testing
func GenerateAddress() common.Address {
	privateKey, _ := crypto.GenerateKey()
	return crypto.PubkeyToAddress(privateKey.PublicKey)
}

// CreateBigInt parses a string into a big.Int
func CreateBigInt(value string) *big.Int {
	result := new(big.Int)
	result.SetString(value, 10)
	return result
}

// AssertBigIntEqual compares two big.Int values for equality in tests
func AssertBigIntEqual(t *testing.T, expected, actual *big.Int, msgAndArgs ...interface{}) {
	t.Helper()

	if expected == nil && actual == nil {
		return
	}

	if (expected == nil && actual != nil) || (expected != nil && actual == nil) {
		assert.Fail(t, "Values not equal", msgAndArgs...)
		return
	}

	assert.Equal(t, 0, expected.Cmp(actual), msgAndArgs...)
}

// SetupTestWithTimeout returns a context cancelled after DefaultTestTimeout or when the test ends
func SetupTestWithTimeout(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)
	t.Cleanup(cancel)
	return ctx
}
