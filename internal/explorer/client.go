package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tokenscope/tokenscope/internal/constants"
)

// ErrUnsupportedChain is returned when no block explorer is configured
// for the requested chain.
var ErrUnsupportedChain = errors.New("unsupported chain")

// Client talks to an Etherscan-compatible block explorer for one chain.
type Client struct {
	Chain   string
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient resolves the explorer endpoint for a chain. Supported chains
// are the keys of constants.ExplorerEndpoints; anything else returns
// ErrUnsupportedChain without making a network call.
func NewClient(chain, apiKey string) (*Client, error) {
	base, ok := constants.ExplorerEndpoints[strings.ToUpper(strings.TrimSpace(chain))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	return &Client{
		Chain:   strings.ToUpper(strings.TrimSpace(chain)),
		BaseURL: base,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: constants.FetchTimeout,
		},
	}, nil
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("explorer http %d", e.StatusCode)
	}
	return fmt.Sprintf("explorer http %d: %s", e.StatusCode, b)
}

// SourceInfo is the result of a getsourcecode lookup.
type SourceInfo struct {
	Verified     bool
	ContractName string
}

// CreationInfo is the result of a getcontractcreation lookup.
type CreationInfo struct {
	CreatorAddress string
	TxHash         string
}

// envelope is the standard Etherscan response wrapper. Status "1" means
// the query matched; "0" with message "NOTOK" usually means a key or
// rate-limit problem.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type sourceCodeResult struct {
	SourceCode   string `json:"SourceCode"`
	ContractName string `json:"ContractName"`
}

type creationResult struct {
	ContractAddress string `json:"contractAddress"`
	ContractCreator string `json:"contractCreator"`
	TxHash          string `json:"txHash"`
}

// GetSourceCode reports whether the contract's source is verified on the
// explorer, and the contract name when it is.
func (c *Client) GetSourceCode(ctx context.Context, address string) (*SourceInfo, error) {
	env, err := c.get(ctx, url.Values{
		"module":  {"contract"},
		"action":  {"getsourcecode"},
		"address": {address},
	})
	if err != nil {
		return nil, err
	}

	// On status "0" the result is a plain message string, not a list.
	if env.Status != "1" {
		return &SourceInfo{}, nil
	}

	var results []sourceCodeResult
	if err := json.Unmarshal(env.Result, &results); err != nil {
		return nil, fmt.Errorf("decode getsourcecode result: %w", err)
	}
	if len(results) == 0 {
		return &SourceInfo{}, nil
	}

	r := results[0]
	return &SourceInfo{
		Verified:     r.SourceCode != "",
		ContractName: r.ContractName,
	}, nil
}

// GetContractCreation returns the creator address and creation
// transaction for a contract.
func (c *Client) GetContractCreation(ctx context.Context, address string) (*CreationInfo, error) {
	env, err := c.get(ctx, url.Values{
		"module":            {"contract"},
		"action":            {"getcontractcreation"},
		"contractaddresses": {address},
	})
	if err != nil {
		return nil, err
	}

	if env.Status != "1" {
		return &CreationInfo{}, nil
	}

	var results []creationResult
	if err := json.Unmarshal(env.Result, &results); err != nil {
		return nil, fmt.Errorf("decode getcontractcreation result: %w", err)
	}
	if len(results) == 0 {
		return &CreationInfo{}, nil
	}

	r := results[0]
	return &CreationInfo{
		CreatorAddress: r.ContractCreator,
		TxHash:         r.TxHash,
	}, nil
}

func (c *Client) get(ctx context.Context, q url.Values) (*envelope, error) {
	if c.APIKey != "" {
		q.Set("apikey", c.APIKey)
	}

	u := c.BaseURL + "?" + q.Encode()
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
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode explorer response: %w", err)
	}
	return &env, nil
}
