package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/tokenscope/tokenscope/internal/models"
)

// AnalyzerConfig holds configuration for the LLM analyzer.
type AnalyzerConfig struct {
	// OpenRouter / LLM settings.
	OpenRouterAPIKey string
	// Model name as understood by OpenRouter, e.g. "openai/gpt-4.1-mini".
	Model string

	Logger *logrus.Logger
}

// Analysis is the parsed outcome of one LLM review of a token.
type Analysis struct {
	Text           string
	Recommendation models.Action
	ModelUsed      string
}

// Analyzer asks an LLM for a narrative risk assessment of an enriched
// token. It is a pluggable collaborator of the AI scorer variant; when
// no API key is configured Analyze degrades to a MANUAL_REVIEW-style
// answer instead of failing.
type Analyzer struct {
	llm    llms.Model
	model  string
	logger *logrus.Logger
}

// NewAnalyzer creates an Analyzer backed by OpenRouter's OpenAI-compatible API.
func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Model == "" {
		cfg.Model = "openai/gpt-4.1-mini"
	}

	a := &Analyzer{model: cfg.Model, logger: cfg.Logger}
	if cfg.OpenRouterAPIKey == "" {
		cfg.Logger.Warn("no OpenRouter API key configured, AI analysis disabled")
		return a, nil
	}

	llm, err := openai.New(
		openai.WithToken(cfg.OpenRouterAPIKey),
		openai.WithBaseURL("https://openrouter.ai/api/v1"),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter LLM: %w", err)
	}
	a.llm = llm

	cfg.Logger.WithField("model", cfg.Model).Info("initialized AI analyzer")
	return a, nil
}

// Analyze reviews a token and returns a narrative plus a parsed verdict.
// Never returns an error: an unavailable or failing LLM degrades to a
// WATCH verdict with an explanatory note.
func (a *Analyzer) Analyze(ctx context.Context, token *models.EnrichedToken) *Analysis {
	if a.llm == nil {
		return &Analysis{
			Text:           "AI analysis unavailable - no API key",
			Recommendation: models.ActionWatch,
			ModelUsed:      "none",
		}
	}

	resp, err := llms.GenerateFromSinglePrompt(
		ctx,
		a.llm,
		buildPrompt(token),
		llms.WithMaxTokens(512),
	)
	if err != nil {
		a.logger.WithError(err).Warn("LLM analysis failed")
		return &Analysis{
			Text:           "AI temporarily unavailable. Algorithmic analysis active.",
			Recommendation: models.ActionWatch,
			ModelUsed:      a.model,
		}
	}

	return &Analysis{
		Text:           strings.TrimSpace(resp),
		Recommendation: parseRecommendation(resp),
		ModelUsed:      a.model,
	}
}

func buildPrompt(token *models.EnrichedToken) string {
	verified := false
	honeypot := models.HoneypotUnknown
	riskScore := 50
	if token.Verification != nil {
		verified = token.Verification.ContractVerified
		honeypot = token.Verification.HoneypotCheck
		riskScore = token.Verification.RiskScore
	}

	price, volume, liquidity, change := 0.0, 0.0, 0.0, 0.0
	if token.PriceData != nil {
		price = token.PriceData.CurrentPriceUSD
		volume = token.PriceData.Volume24h
		liquidity = token.PriceData.LiquidityUSD
		change = token.PriceData.PriceChange24h
	}

	return fmt.Sprintf(`You are a professional cryptocurrency trader analyzing a new token listing.

TOKEN DATA:
Name: %s
Symbol: %s
Exchange: %s
Chain: %s

SECURITY:
Contract Verified: %t
Honeypot Check: %s
Risk Score: %d/100

MARKET DATA:
Current Price: $%g
24h Volume: $%.0f
Liquidity: $%.0f
24h Change: %g%%

Provide a concise analysis (150-200 words):
1. Risk Level (LOW/MEDIUM/HIGH)
2. Recommendation (BUY/WATCH/AVOID)
3. Key reasons (2-3 bullets)
4. Red flags (if any)
5. Position size (%% of portfolio)

Be direct and actionable.`,
		token.Name, token.Symbol, token.Exchange, token.Chain,
		verified, honeypot, riskScore,
		price, volume, liquidity, change)
}

// parseRecommendation extracts the verdict from free-form LLM output.
// AVOID wins over BUY when both appear, anything else is WATCH.
func parseRecommendation(text string) models.Action {
	upper := strings.ToUpper(text)
	if strings.Contains(upper, "AVOID") {
		return models.ActionAvoid
	}
	if strings.Contains(upper, "BUY") {
		return models.ActionBuy
	}
	return models.ActionWatch
}
