package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/storage"
)

// MEXCScanner diffs the exchange's full spot pair list against the set
// recorded on the previous scan. MEXC tends to list tokens hours before
// larger exchanges, which is what makes the diff worth watching.
type MEXCScanner struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
	memory  storage.PairMemory

	now func() time.Time
}

func NewMEXCScanner(baseURL string, memory storage.PairMemory) *MEXCScanner {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.mexc.com"
	}
	return &MEXCScanner{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: constants.FetchTimeout},
		Logger:  logrus.New(),
		memory:  memory,
		now:     time.Now,
	}
}

func (s *MEXCScanner) Name() string {
	return constants.ExchangeMEXC
}

type mexcExchangeInfo struct {
	Symbols []struct {
		Symbol string `json:"symbol"`
		Status string `json:"status"`
	} `json:"symbols"`
}

func (s *MEXCScanner) Scan(ctx context.Context) ([]models.Listing, error) {
	current, err := s.fetchPairs(ctx)
	if err != nil {
		return nil, err
	}
	return diffScan(ctx, constants.ExchangeMEXC, s.memory, s.Logger, current, s.parsePair)
}

// parsePair turns a new USDT spot pair into a listing. Non-USDT quotes
// are skipped.
func (s *MEXCScanner) parsePair(pair string) (models.Listing, bool) {
	symbol, ok := strings.CutSuffix(pair, "USDT")
	if !ok || symbol == "" {
		return models.Listing{}, false
	}
	return models.Listing{
		Name:            symbol,
		Symbol:          symbol,
		Exchange:        constants.ExchangeMEXC,
		ListingType:     models.ListingSpot,
		AnnouncementURL: "https://www.mexc.com/exchange/" + symbol + "_USDT",
		DetectedAt:      s.now().UTC(),
		DataComplete:    false,
	}, true
}

func (s *MEXCScanner) fetchPairs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/api/v3/exchangeInfo", nil)
	if err != nil {
		return nil, err
	}

	res, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mexc exchangeInfo http %d", res.StatusCode)
	}

	var out mexcExchangeInfo
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode mexc exchangeInfo: %w", err)
	}

	pairs := make([]string, 0, len(out.Symbols))
	for _, sym := range out.Symbols {
		if sym.Status == "ENABLED" || sym.Status == "1" {
			pairs = append(pairs, sym.Symbol)
		}
	}
	return pairs, nil
}
