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

// KuCoinScanner diffs KuCoin's spot symbol list, same strategy as the
// MEXC scanner. KuCoin pairs are dash-separated ("PEPE-USDT").
type KuCoinScanner struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
	memory  storage.PairMemory

	now func() time.Time
}

func NewKuCoinScanner(baseURL string, memory storage.PairMemory) *KuCoinScanner {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.kucoin.com"
	}
	return &KuCoinScanner{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: constants.FetchTimeout},
		Logger:  logrus.New(),
		memory:  memory,
		now:     time.Now,
	}
}

func (s *KuCoinScanner) Name() string {
	return constants.ExchangeKuCoin
}

type kucoinSymbols struct {
	Code string `json:"code"`
	Data []struct {
		Symbol        string `json:"symbol"`
		EnableTrading bool   `json:"enableTrading"`
	} `json:"data"`
}

func (s *KuCoinScanner) Scan(ctx context.Context) ([]models.Listing, error) {
	current, err := s.fetchPairs(ctx)
	if err != nil {
		return nil, err
	}
	return diffScan(ctx, constants.ExchangeKuCoin, s.memory, s.Logger, current, s.parsePair)
}

func (s *KuCoinScanner) parsePair(pair string) (models.Listing, bool) {
	symbol, ok := strings.CutSuffix(pair, "-USDT")
	if !ok || symbol == "" {
		return models.Listing{}, false
	}
	return models.Listing{
		Name:            symbol,
		Symbol:          symbol,
		Exchange:        constants.ExchangeKuCoin,
		ListingType:     models.ListingSpot,
		AnnouncementURL: "https://www.kucoin.com/trade/" + pair,
		DetectedAt:      s.now().UTC(),
		DataComplete:    false,
	}, true
}

func (s *KuCoinScanner) fetchPairs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/api/v1/symbols", nil)
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
		return nil, fmt.Errorf("kucoin symbols http %d", res.StatusCode)
	}

	var out kucoinSymbols
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode kucoin symbols: %w", err)
	}

	pairs := make([]string, 0, len(out.Data))
	for _, sym := range out.Data {
		if sym.EnableTrading {
			pairs = append(pairs, sym.Symbol)
		}
	}
	return pairs, nil
}
