package chains

import "strings"

// TaikoMainnetChainID is the network the tool targets unless CHAIN_ID overrides it
const TaikoMainnetChainID = 167000

// ChainList contains the list of known chain IDs
var ChainList = []int{
	1,      // Ethereum
	137,    // Polygon
	42161,  // Arbitrum
	43114,  // Avalanche
	56,     // Binance Smart Chain
	8453,   // Base
	167000, // Taiko
	167009, // Taiko Hekla
}

// chainNames maps chain IDs to their names
var chainNames = map[int]string{
	1:      "ETHEREUM",
	137:    "POLYGON",
	42161:  "ARBITRUM",
	43114:  "AVALANCHE",
	56:     "BSC",
	8453:   "BASE",
	167000: "TAIKO",
	167009: "TAIKO_HEKLA",
}

// explorerURLs maps chain IDs to block explorer base URLs
var explorerURLs = map[int]string{
	1:      "https://etherscan.io",
	137:    "https://polygonscan.com",
	42161:  "https://arbiscan.io",
	43114:  "https://snowtrace.io",
	56:     "https://bscscan.com",
	8453:   "https://basescan.org",
	167000: "https://taikoscan.network",
	167009: "https://hekla.taikoscan.network",
}

// GetChainName returns the name of the chain for a given chain ID
func GetChainName(chainID int) string {
	name, exists := chainNames[chainID]
	if !exists {
		return ""
	}
	return name
}

// GetExplorerURL returns the block explorer base URL for a given chain ID
func GetExplorerURL(chainID int) string {
	url, exists := explorerURLs[chainID]
	if !exists {
		return ""
	}
	return url
}

// TxURL joins an explorer base URL and a transaction hash
// an empty base yields an empty link
func TxURL(explorerURL string, txHash string) string {
	if explorerURL == "" {
		return ""
	}
	return strings.TrimRight(explorerURL, "/") + "/tx/" + txHash
}
