package market

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/dexscreener"
	"github.com/tokenscope/tokenscope/internal/models"
)

// PairSource is the DEX-aggregation lookup the aggregator depends on.
type PairSource interface {
	TokenPairs(ctx context.Context, address string) ([]dexscreener.Pair, error)
}

// Aggregator derives a price snapshot and a ranked venue list from one
// pair lookup per token. Both views come from the same fetch so they can
// never disagree about the upstream state.
type Aggregator struct {
	source PairSource
	logger *logrus.Logger
}

func New(source PairSource, logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.New()
	}
	return &Aggregator{source: source, logger: logger}
}

// Fetch returns the raw pair list for an address. Failures are returned
// to the caller; the enrichment layer degrades them to "no data".
func (a *Aggregator) Fetch(ctx context.Context, address string) ([]dexscreener.Pair, error) {
	return a.source.TokenPairs(ctx, address)
}

// Snapshot projects the single most liquid pair into a PriceSnapshot.
// Nil means no pairs exist for the token ("no data"), which is distinct
// from a snapshot full of zeros. Ties on liquidity keep the first pair
// in upstream order.
func Snapshot(pairs []dexscreener.Pair) *models.PriceSnapshot {
	if len(pairs) == 0 {
		return nil
	}

	main := pairs[0]
	for _, p := range pairs[1:] {
		if p.LiquidityUSD() > main.LiquidityUSD() {
			main = p
		}
	}

	return &models.PriceSnapshot{
		CurrentPriceUSD: parsePrice(main.PriceUsd),
		PriceChange5m:   main.PriceChange.M5,
		PriceChange1h:   main.PriceChange.H1,
		PriceChange6h:   main.PriceChange.H6,
		PriceChange24h:  main.PriceChange.H24,
		AllTimeHigh:     main.PriceChange.ATH,
		Volume24h:       main.Volume.H24,
		LiquidityUSD:    main.LiquidityUSD(),
		MarketCap:       main.MarketCap,
		FDV:             main.FDV,
		DexID:           main.DexID,
		PairAddress:     main.PairAddress,
		LastUpdated:     time.Now().UTC(),
	}
}

// BuyLocations maps pairs into tradeable venues: liquidity below the
// floor is dropped (scam-liquidity filter), survivors are sorted by
// liquidity descending and truncated to the top MaxBuyLocations. An
// empty result is a valid answer, not an error.
func BuyLocations(pairs []dexscreener.Pair) []models.BuyLocation {
	locations := make([]models.BuyLocation, 0, len(pairs))
	for _, p := range pairs {
		liquidity := p.LiquidityUSD()
		if liquidity < constants.MinBuyLocationLiquidityUSD {
			continue
		}

		platform := p.DexID
		if platform == "" {
			platform = "Unknown DEX"
		}
		chain := p.ChainID
		if chain == "" {
			chain = "Unknown"
		}

		locations = append(locations, models.BuyLocation{
			Platform:      platform,
			Type:          "DEX",
			Chain:         chain,
			PairAddress:   p.PairAddress,
			URL:           p.URL,
			CurrentPrice:  parsePrice(p.PriceUsd),
			LiquidityUSD:  liquidity,
			Volume24h:     p.Volume.H24,
			PairCreatedAt: p.PairCreatedAt,
			BaseToken:     p.BaseToken.Symbol,
			QuoteToken:    p.QuoteToken.Symbol,
		})
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].LiquidityUSD > locations[j].LiquidityUSD
	})

	if len(locations) > constants.MaxBuyLocations {
		locations = locations[:constants.MaxBuyLocations]
	}
	return locations
}

// TotalLiquidity sums venue liquidity, the scorer's liquidity input.
func TotalLiquidity(locations []models.BuyLocation) float64 {
	total := 0.0
	for _, loc := range locations {
		total += loc.LiquidityUSD
	}
	return total
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
