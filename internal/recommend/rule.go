package recommend

import (
	"context"

	"github.com/tokenscope/tokenscope/internal/models"
)

// Fixed reasoning strings per action bucket.
const (
	reasonBuy   = "Strong fundamentals, good momentum, acceptable risk"
	reasonWatch = "Mixed signals, wait for better entry or more data"
	reasonAvoid = "High risk factors detected, insufficient liquidity, or unfavorable conditions"
)

// RuleScorer is the deterministic point-scoring engine. It is a pure
// function of the token's verification, price and venue fields: no
// network, no mutation, identical output for identical input.
type RuleScorer struct{}

func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

func (s *RuleScorer) Score(_ context.Context, token *models.EnrichedToken) *models.Recommendation {
	in := gather(token)

	confidence := 50

	// Contract risk.
	if in.riskScore < 30 {
		confidence += 20
	} else if in.riskScore > 60 {
		confidence -= 25
	}

	// Liquidity: can a position actually be entered and exited.
	if in.totalLiquidity > 500000 {
		confidence += 15
	} else if in.totalLiquidity < 50000 {
		confidence -= 20
	}

	// Volume: is there real trading activity.
	if in.volume24h > 1000000 {
		confidence += 10
	} else if in.volume24h < 50000 {
		confidence -= 10
	}

	// Momentum: healthy growth is a plus, an overheated or bleeding
	// chart is not.
	if in.priceChange24h > 20 && in.priceChange24h < 150 {
		confidence += 10
	} else if in.priceChange24h > 300 {
		confidence -= 15
	} else if in.priceChange24h < -30 {
		confidence -= 10
	}

	if in.verified {
		confidence += 10
	}
	if in.honeypot == models.HoneypotRisky {
		confidence -= 30
	}

	confidence = clampInt(confidence, 20, 95)

	var action models.Action
	var reasoning string
	switch {
	case confidence > 70:
		action = models.ActionBuy
		reasoning = reasonBuy
	case confidence > 50:
		action = models.ActionWatch
		reasoning = reasonWatch
	default:
		action = models.ActionAvoid
		reasoning = reasonAvoid
	}

	rec := &models.Recommendation{
		Action:          action,
		Confidence:      confidence,
		Reasoning:       reasoning,
		RiskRewardRatio: "1:2.5",
		PositionSize:    "0%",
		TimeHorizon:     "N/A",
		KeyMetrics:      keyMetrics(in),
	}
	if action == models.ActionBuy {
		rec.PositionSize = "3-5% of portfolio"
		rec.TimeHorizon = "24-72 hours"
	}
	priceTargets(rec, in.currentPrice)

	return rec
}
