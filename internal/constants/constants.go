package constants

import "time"

// Redis keys
const (
	RedisKeyTokenIndex  = "tokens:index"
	RedisKeyTokenPrefix = "tokens:"
	RedisKeyPairsPrefix = "pairs:seen:"
)

// Enrichment limits
const (
	// Pairs below this liquidity are treated as scam liquidity and
	// excluded from buy locations.
	MinBuyLocationLiquidityUSD = 10000.0

	// Buy locations are truncated to the most liquid venues.
	MaxBuyLocations = 10
)

// Network timeouts
const (
	// FetchTimeout bounds every outbound call made during enrichment.
	// Expiry is a recoverable failure for that call only.
	FetchTimeout = 10 * time.Second
)

// Block explorer endpoints, keyed by chain.
var ExplorerEndpoints = map[string]string{
	"BSC": "https://api.bscscan.com/api",
	"ETH": "https://api.etherscan.io/api",
}

// Chain IDs in Etherscan V2 format. Only BSC and ETH have explorer
// endpoints wired; the rest are kept for dexscreener chain labels.
var ChainIDs = map[string]int{
	"ETH":       1,
	"BSC":       56,
	"POLYGON":   137,
	"ARBITRUM":  42161,
	"BASE":      8453,
	"OPTIMISM":  10,
	"AVALANCHE": 43114,
	"FANTOM":    250,
}

// Exchange names as stored on listings.
const (
	ExchangeBinance = "Binance"
	ExchangeMEXC    = "MEXC"
	ExchangeKuCoin  = "KuCoin"
	ExchangeGateIO  = "Gate.io"
	ExchangeCakepad = "PancakeSwap CAKEPAD"
)
