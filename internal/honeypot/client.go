package honeypot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tokenscope/tokenscope/internal/constants"
)

// Client talks to the honeypot.is detection service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.honeypot.is/v2"
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: constants.FetchTimeout,
		},
	}
}

type response struct {
	HoneypotResult struct {
		IsHoneypot bool `json:"isHoneypot"`
	} `json:"honeypotResult"`
}

// Check reports whether the contract at address behaves like a honeypot.
// Any transport or payload failure is an error; the caller decides how to
// degrade.
func (c *Client) Check(ctx context.Context, address string) (bool, error) {
	q := url.Values{}
	q.Set("address", address)

	u := c.BaseURL + "/IsHoneypot?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return false, fmt.Errorf("honeypot http %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return false, fmt.Errorf("failed to decode honeypot response: %w", err)
	}
	return out.HoneypotResult.IsHoneypot, nil
}
