package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tokenscope/tokenscope/internal/constants"
)

// Client talks to the DexScreener aggregation API. No API key needed.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.dexscreener.com/latest"
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: constants.FetchTimeout,
		},
	}
}

// TokenPairs returns every trading pair DexScreener knows for a contract
// address, in upstream order. An empty slice means no liquidity anywhere,
// which is data, not an error.
func (c *Client) TokenPairs(ctx context.Context, address string) ([]Pair, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("address is required")
	}

	u := c.BaseURL + "/dex/tokens/" + address
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("dexscreener http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out tokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode dexscreener response: %w", err)
	}
	return out.Pairs, nil
}
