package recommend

import (
	"context"
	"math"

	"github.com/tokenscope/tokenscope/internal/market"
	"github.com/tokenscope/tokenscope/internal/models"
)

// Scorer turns an enriched token into a trading recommendation. The
// rule-based and AI-backed engines are interchangeable behind this
// interface; the orchestrator does not care which one is configured.
type Scorer interface {
	Score(ctx context.Context, token *models.EnrichedToken) *models.Recommendation
}

// inputs flattens the optional enrichment sections into the values the
// scoring rules consume. A missing section reads exactly as its
// documented default: risk 50, everything else 0.
type inputs struct {
	riskScore      int
	verified       bool
	honeypot       models.HoneypotStatus
	totalLiquidity float64
	volume24h      float64
	priceChange24h float64
	currentPrice   float64
}

func gather(token *models.EnrichedToken) inputs {
	in := inputs{
		riskScore: 50,
		honeypot:  models.HoneypotUnknown,
	}
	if token.Verification != nil {
		in.riskScore = token.Verification.RiskScore
		in.verified = token.Verification.ContractVerified
		in.honeypot = token.Verification.HoneypotCheck
	}
	if token.PriceData != nil {
		in.volume24h = token.PriceData.Volume24h
		in.priceChange24h = token.PriceData.PriceChange24h
		in.currentPrice = token.PriceData.CurrentPriceUSD
	}
	in.totalLiquidity = market.TotalLiquidity(token.WhereToBuyNow)
	return in
}

// priceTargets fills the entry/target/stop fields from the current
// price: entry 2% below, targets at 2x/3x/5x, stop-loss at -20%, all
// rounded to 6 decimal places. A zero price leaves every target at 0.
func priceTargets(rec *models.Recommendation, price float64) {
	if price <= 0 {
		return
	}
	rec.SuggestedEntry = round6(price * 0.98)
	rec.Target2x = round6(price * 2.0)
	rec.Target3x = round6(price * 3.0)
	rec.Target5x = round6(price * 5.0)
	rec.StopLoss = round6(price * 0.80)
}

func keyMetrics(in inputs) models.KeyMetrics {
	return models.KeyMetrics{
		RiskScore:      in.riskScore,
		LiquidityScore: minInt(100, int(in.totalLiquidity/10000)),
		VolumeScore:    minInt(100, int(in.volume24h/10000)),
		MomentumScore:  clampInt(50+int(in.priceChange24h/2), 0, 100),
	}
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
