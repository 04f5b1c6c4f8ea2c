package ai

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenscope/tokenscope/internal/models"
)

func TestParseRecommendation(t *testing.T) {
	tests := []struct {
		text string
		want models.Action
	}{
		{"Recommendation: BUY. Strong liquidity and verified contract.", models.ActionBuy},
		{"recommendation: buy", models.ActionBuy},
		{"This is risky, AVOID for now.", models.ActionAvoid},
		{"I would buy, but honestly AVOID until the contract verifies.", models.ActionAvoid},
		{"Keep it on the radar.", models.ActionWatch},
		{"", models.ActionWatch},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseRecommendation(tt.text), "text %q", tt.text)
	}
}

func TestAnalyze_NoAPIKeyDegrades(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	a, err := NewAnalyzer(AnalyzerConfig{Logger: logger})
	require.NoError(t, err)

	analysis := a.Analyze(context.Background(), &models.EnrichedToken{
		Listing: models.Listing{Symbol: "TEST", Exchange: "Binance"},
	})
	require.NotNil(t, analysis)

	assert.Equal(t, models.ActionWatch, analysis.Recommendation)
	assert.Equal(t, "none", analysis.ModelUsed)
	assert.Contains(t, analysis.Text, "no API key")
}

func TestBuildPrompt_MissingSectionsUseDefaults(t *testing.T) {
	prompt := buildPrompt(&models.EnrichedToken{
		Listing: models.Listing{Name: "Test Token", Symbol: "TEST", Exchange: "MEXC", Chain: "BSC"},
	})

	assert.Contains(t, prompt, "Symbol: TEST")
	assert.Contains(t, prompt, "Risk Score: 50/100")
	assert.Contains(t, prompt, "Honeypot Check: UNKNOWN")
	assert.Contains(t, prompt, "Contract Verified: false")
}
