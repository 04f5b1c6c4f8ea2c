package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenscope/tokenscope/internal/ai"
	"github.com/tokenscope/tokenscope/internal/models"
)

type fakeAnalysis struct {
	result *ai.Analysis
}

func (f *fakeAnalysis) Analyze(_ context.Context, _ *models.EnrichedToken) *ai.Analysis {
	return f.result
}

type fakeSentiment struct {
	result *models.Sentiment
}

func (f *fakeSentiment) Sentiment(_ context.Context, _ string) *models.Sentiment {
	return f.result
}

func TestAIScorer_AllSignalsBullish(t *testing.T) {
	scorer := NewAIScorer(
		&fakeAnalysis{result: &ai.Analysis{
			Text:           "Solid project, strong liquidity. Recommendation: BUY",
			Recommendation: models.ActionBuy,
			ModelUsed:      "openai/gpt-4.1-mini",
		}},
		&fakeSentiment{result: &models.Sentiment{Sentiment: "BULLISH", Reason: "Trending #3 on CoinGecko", Rank: 3}},
	)

	token := enrichedToken(
		&models.VerificationResult{ContractVerified: true, HoneypotCheck: models.HoneypotSafe, RiskScore: 25},
		&models.PriceSnapshot{CurrentPriceUSD: 2.0, Volume24h: 500000},
		venues(300000),
	)

	rec := scorer.Score(context.Background(), token)
	require.NotNil(t, rec)

	// 50 +15 (verified) +15 (safe) +10 (volume) +10 (bullish) = 100,
	// clamped to 95.
	assert.Equal(t, 95, rec.Confidence)
	assert.Equal(t, models.ActionBuy, rec.Action)
	assert.Equal(t, "openai/gpt-4.1-mini", rec.Model)
	assert.Contains(t, rec.AIAnalysis, "Solid project")
	require.NotNil(t, rec.MarketSentiment)
	assert.Equal(t, "BULLISH", rec.MarketSentiment.Sentiment)
	assert.Equal(t, "3-5% of portfolio", rec.PositionSize)

	// Price targets come from the shared derivation.
	assert.Equal(t, 1.96, rec.SuggestedEntry)
	assert.Equal(t, 4.0, rec.Target2x)
	assert.Equal(t, 1.6, rec.StopLoss)
}

func TestAIScorer_NoSignals(t *testing.T) {
	scorer := NewAIScorer(
		&fakeAnalysis{result: &ai.Analysis{
			Text:           "AI analysis unavailable - no API key",
			Recommendation: models.ActionWatch,
			ModelUsed:      "none",
		}},
		&fakeSentiment{result: &models.Sentiment{Sentiment: "NEUTRAL", Reason: "Not in top trending tokens"}},
	)

	rec := scorer.Score(context.Background(), enrichedToken(nil, nil, nil))
	require.NotNil(t, rec)

	assert.Equal(t, 50, rec.Confidence)
	assert.Equal(t, models.ActionWatch, rec.Action)
	assert.Equal(t, "0%", rec.PositionSize)
	assert.Equal(t, "N/A", rec.TimeHorizon)
}

func TestAIScorer_AvoidVerdictKeepsConfidenceIndependent(t *testing.T) {
	// Confidence measures data quality, not agreement with the verdict.
	scorer := NewAIScorer(
		&fakeAnalysis{result: &ai.Analysis{
			Text:           "Unverified contract, AVOID",
			Recommendation: models.ActionAvoid,
			ModelUsed:      "openai/gpt-4.1-mini",
		}},
		&fakeSentiment{result: &models.Sentiment{Sentiment: "BULLISH", Rank: 1}},
	)

	token := enrichedToken(
		&models.VerificationResult{ContractVerified: true, HoneypotCheck: models.HoneypotSafe, RiskScore: 30},
		&models.PriceSnapshot{Volume24h: 10000},
		nil,
	)

	rec := scorer.Score(context.Background(), token)
	require.NotNil(t, rec)

	// 50 +15 +15 +10 (bullish) = 90; volume too low for its bonus.
	assert.Equal(t, 90, rec.Confidence)
	assert.Equal(t, models.ActionAvoid, rec.Action)
	assert.Equal(t, "0%", rec.PositionSize)
}
