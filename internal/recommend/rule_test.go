package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenscope/tokenscope/internal/models"
)

func enrichedToken(verification *models.VerificationResult, price *models.PriceSnapshot, venues []models.BuyLocation) *models.EnrichedToken {
	return &models.EnrichedToken{
		Listing: models.Listing{
			Name:     "Test Token",
			Symbol:   "TEST",
			Exchange: "Binance",
			Chain:    "BSC",
		},
		Verification:  verification,
		PriceData:     price,
		WhereToBuyNow: venues,
	}
}

func venues(liquidity float64) []models.BuyLocation {
	return []models.BuyLocation{{Platform: "pancakeswap", Type: "DEX", LiquidityUSD: liquidity}}
}

func TestRuleScorer_StrongTokenIsBuy(t *testing.T) {
	token := enrichedToken(
		&models.VerificationResult{
			ContractVerified: true,
			HoneypotCheck:    models.HoneypotSafe,
			RiskScore:        20,
		},
		&models.PriceSnapshot{
			CurrentPriceUSD: 2.5,
			Volume24h:       2000000,
			PriceChange24h:  50,
		},
		venues(600000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	// 50 +20 (risk) +15 (liquidity) +10 (volume) +10 (momentum)
	// +10 (verified) = 115, clamped to 95.
	assert.Equal(t, 95, rec.Confidence)
	assert.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, "Strong fundamentals, good momentum, acceptable risk", rec.Reasoning)
	assert.Equal(t, "3-5% of portfolio", rec.PositionSize)
	assert.Equal(t, "24-72 hours", rec.TimeHorizon)
	assert.Equal(t, "1:2.5", rec.RiskRewardRatio)
}

func TestRuleScorer_ConfidenceExactly70IsWatch(t *testing.T) {
	// Only the low-risk bonus applies: 50 + 20 = 70. The BUY cut is
	// strictly above 70.
	token := enrichedToken(
		&models.VerificationResult{RiskScore: 20},
		&models.PriceSnapshot{Volume24h: 100000, PriceChange24h: 5},
		venues(100000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	assert.Equal(t, 70, rec.Confidence)
	assert.Equal(t, models.ActionWatch, rec.Action)
	assert.Equal(t, "Mixed signals, wait for better entry or more data", rec.Reasoning)
	assert.Equal(t, "0%", rec.PositionSize)
	assert.Equal(t, "N/A", rec.TimeHorizon)
}

func TestRuleScorer_ConfidenceExactly50IsAvoid(t *testing.T) {
	// No adjustment fires: mid risk, mid liquidity, mid volume, flat
	// chart. The WATCH cut is strictly above 50.
	token := enrichedToken(
		&models.VerificationResult{RiskScore: 45},
		&models.PriceSnapshot{Volume24h: 100000, PriceChange24h: 5},
		venues(100000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	assert.Equal(t, 50, rec.Confidence)
	assert.Equal(t, models.ActionAvoid, rec.Action)
}

func TestRuleScorer_NoDataFloorsAtTwenty(t *testing.T) {
	// A listing with no contract address: missing risk reads as 50,
	// liquidity and volume read as 0.
	token := enrichedToken(nil, nil, nil)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	// 50 -20 (liquidity) -10 (volume) = 20.
	assert.Equal(t, 20, rec.Confidence)
	assert.Equal(t, models.ActionAvoid, rec.Action)
	assert.Equal(t, "High risk factors detected, insufficient liquidity, or unfavorable conditions", rec.Reasoning)
	assert.Zero(t, rec.SuggestedEntry)
	assert.Zero(t, rec.StopLoss)
}

func TestRuleScorer_HoneypotPenalty(t *testing.T) {
	token := enrichedToken(
		&models.VerificationResult{
			RiskScore:     45,
			HoneypotCheck: models.HoneypotRisky,
		},
		&models.PriceSnapshot{Volume24h: 100000},
		venues(100000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	// 50 - 30 = 20.
	assert.Equal(t, 20, rec.Confidence)
	assert.Equal(t, models.ActionAvoid, rec.Action)
}

func TestRuleScorer_OverheatedChartPenalty(t *testing.T) {
	token := enrichedToken(
		&models.VerificationResult{RiskScore: 45},
		&models.PriceSnapshot{Volume24h: 100000, PriceChange24h: 400},
		venues(100000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	assert.Equal(t, 35, rec.Confidence)
}

func TestRuleScorer_PriceTargets(t *testing.T) {
	token := enrichedToken(
		&models.VerificationResult{RiskScore: 45},
		&models.PriceSnapshot{CurrentPriceUSD: 100},
		venues(100000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	assert.Equal(t, 98.0, rec.SuggestedEntry)
	assert.Equal(t, 200.0, rec.Target2x)
	assert.Equal(t, 300.0, rec.Target3x)
	assert.Equal(t, 500.0, rec.Target5x)
	assert.Equal(t, 80.0, rec.StopLoss)
}

func TestRuleScorer_PriceTargetsRounding(t *testing.T) {
	token := enrichedToken(
		nil,
		&models.PriceSnapshot{CurrentPriceUSD: 0.00001234},
		nil,
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	assert.Equal(t, 0.000012, rec.SuggestedEntry)
	assert.Equal(t, 0.000025, rec.Target2x)
	assert.Equal(t, 0.00001, rec.StopLoss)
}

func TestRuleScorer_Deterministic(t *testing.T) {
	token := enrichedToken(
		&models.VerificationResult{ContractVerified: true, RiskScore: 25, HoneypotCheck: models.HoneypotSafe},
		&models.PriceSnapshot{CurrentPriceUSD: 1.5, Volume24h: 300000, PriceChange24h: 42},
		venues(200000),
	)

	s := NewRuleScorer()
	first := s.Score(context.Background(), token)
	second := s.Score(context.Background(), token)
	assert.Equal(t, first, second)
}

func TestKeyMetrics(t *testing.T) {
	token := enrichedToken(
		&models.VerificationResult{RiskScore: 35},
		&models.PriceSnapshot{Volume24h: 1234567, PriceChange24h: 30},
		venues(250000),
	)

	rec := NewRuleScorer().Score(context.Background(), token)
	require.NotNil(t, rec)

	assert.Equal(t, 35, rec.KeyMetrics.RiskScore)
	assert.Equal(t, 25, rec.KeyMetrics.LiquidityScore)
	assert.Equal(t, 100, rec.KeyMetrics.VolumeScore)
	assert.Equal(t, 65, rec.KeyMetrics.MomentumScore)
}

func TestKeyMetrics_MomentumClamps(t *testing.T) {
	down := enrichedToken(nil, &models.PriceSnapshot{PriceChange24h: -200}, nil)
	up := enrichedToken(nil, &models.PriceSnapshot{PriceChange24h: 500}, nil)

	s := NewRuleScorer()
	assert.Equal(t, 0, s.Score(context.Background(), down).KeyMetrics.MomentumScore)
	assert.Equal(t, 100, s.Score(context.Background(), up).KeyMetrics.MomentumScore)
}
