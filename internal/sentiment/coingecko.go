package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/models"
)

// Source produces a coarse market-sentiment reading for a symbol.
type Source interface {
	Sentiment(ctx context.Context, symbol string) *models.Sentiment
}

// CoinGecko reads the trending-search list: a symbol that is trending is
// taken as BULLISH, everything else NEUTRAL. Failures come back as
// UNKNOWN so the scorer can ignore them.
type CoinGecko struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewCoinGecko(apiKey string) *CoinGecko {
	return &CoinGecko{
		BaseURL: "https://api.coingecko.com/api/v3",
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: constants.FetchTimeout,
		},
	}
}

type trendingResponse struct {
	Coins []struct {
		Item struct {
			Symbol string `json:"symbol"`
		} `json:"item"`
	} `json:"coins"`
}

func (c *CoinGecko) Sentiment(ctx context.Context, symbol string) *models.Sentiment {
	if c.APIKey == "" {
		return &models.Sentiment{Sentiment: "NEUTRAL", Reason: "CoinGecko API not configured"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search/trending", nil)
	if err != nil {
		return &models.Sentiment{Sentiment: "UNKNOWN", Reason: err.Error()}
	}
	req.Header.Set("x-cg-demo-api-key", c.APIKey)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return &models.Sentiment{Sentiment: "UNKNOWN", Reason: err.Error()}
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return &models.Sentiment{Sentiment: "NEUTRAL", Reason: "CoinGecko API error"}
	}

	var out trendingResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return &models.Sentiment{Sentiment: "UNKNOWN", Reason: err.Error()}
	}

	want := strings.ToUpper(symbol)
	for i, coin := range out.Coins {
		if strings.ToUpper(coin.Item.Symbol) == want {
			rank := i + 1
			return &models.Sentiment{
				Sentiment: "BULLISH",
				Reason:    fmt.Sprintf("Trending #%d on CoinGecko", rank),
				Rank:      rank,
			}
		}
	}
	return &models.Sentiment{Sentiment: "NEUTRAL", Reason: "Not in top trending tokens"}
}
