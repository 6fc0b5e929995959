package chains

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// EtherDecimals is the number of decimals of the native coin and its wrapped token
	EtherDecimals = 18
	// GweiDecimals is the number of decimals between gwei and wei
	GweiDecimals = 9
)

// EtherToWei converts an ether-denominated decimal into wei, truncating below 1 wei
func EtherToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(EtherDecimals).BigInt()
}

// GweiToWei converts a gwei-denominated decimal into wei, truncating below 1 wei
func GweiToWei(amount decimal.Decimal) *big.Int {
	return amount.Shift(GweiDecimals).BigInt()
}

// WeiToEther converts a wei amount into an ether-denominated decimal
func WeiToEther(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals)
}
