package recommend

import (
	"context"

	"github.com/tokenscope/tokenscope/internal/ai"
	"github.com/tokenscope/tokenscope/internal/models"
)

// AnalysisSource is the LLM collaborator the AI scorer delegates the
// action verdict to.
type AnalysisSource interface {
	Analyze(ctx context.Context, token *models.EnrichedToken) *ai.Analysis
}

// SentimentSource is the market-sentiment collaborator.
type SentimentSource interface {
	Sentiment(ctx context.Context, symbol string) *models.Sentiment
}

// AIScorer delegates the action to an LLM analysis and folds sentiment
// into the confidence score. Price-target derivation is shared with the
// rule-based engine so both variants suggest the same levels.
type AIScorer struct {
	analysis  AnalysisSource
	sentiment SentimentSource
}

func NewAIScorer(analysis AnalysisSource, sentiment SentimentSource) *AIScorer {
	return &AIScorer{analysis: analysis, sentiment: sentiment}
}

func (s *AIScorer) Score(ctx context.Context, token *models.EnrichedToken) *models.Recommendation {
	in := gather(token)

	analysis := s.analysis.Analyze(ctx, token)
	sent := s.sentiment.Sentiment(ctx, token.Symbol)

	// Confidence reflects data quality rather than the verdict itself.
	confidence := 50
	if in.verified {
		confidence += 15
	}
	if in.honeypot == models.HoneypotSafe {
		confidence += 15
	}
	if in.volume24h > 100000 {
		confidence += 10
	}
	if sent != nil && sent.Sentiment == "BULLISH" {
		confidence += 10
	}
	confidence = clampInt(confidence, 30, 95)

	rec := &models.Recommendation{
		Action:          analysis.Recommendation,
		Confidence:      confidence,
		AIAnalysis:      analysis.Text,
		MarketSentiment: sent,
		Model:           analysis.ModelUsed,
		RiskRewardRatio: "1:2.5",
		PositionSize:    "0%",
		TimeHorizon:     "N/A",
		KeyMetrics:      keyMetrics(in),
	}
	if rec.Action == models.ActionBuy {
		rec.PositionSize = "3-5% of portfolio"
		rec.TimeHorizon = "24-72 hours"
	}
	priceTargets(rec, in.currentPrice)

	return rec
}
