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

// GateIOScanner diffs Gate.io's spot currency pairs. Gate.io often
// lists tokens half a day before the bigger exchanges, so its diff is
// the earliest signal among the pair scanners.
type GateIOScanner struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *logrus.Logger
	memory  storage.PairMemory

	now func() time.Time
}

func NewGateIOScanner(baseURL string, memory storage.PairMemory) *GateIOScanner {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.gateio.ws/api/v4"
	}
	return &GateIOScanner{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: constants.FetchTimeout},
		Logger:  logrus.New(),
		memory:  memory,
		now:     time.Now,
	}
}

func (s *GateIOScanner) Name() string {
	return constants.ExchangeGateIO
}

type gateioPair struct {
	ID          string `json:"id"`
	TradeStatus string `json:"trade_status"`
}

func (s *GateIOScanner) Scan(ctx context.Context) ([]models.Listing, error) {
	current, err := s.fetchPairs(ctx)
	if err != nil {
		return nil, err
	}
	return diffScan(ctx, constants.ExchangeGateIO, s.memory, s.Logger, current, s.parsePair)
}

func (s *GateIOScanner) parsePair(pair string) (models.Listing, bool) {
	symbol, ok := strings.CutSuffix(pair, "_USDT")
	if !ok || symbol == "" {
		return models.Listing{}, false
	}
	return models.Listing{
		Name:            symbol,
		Symbol:          symbol,
		Exchange:        constants.ExchangeGateIO,
		ListingType:     models.ListingSpot,
		AnnouncementURL: "https://www.gate.io/trade/" + pair,
		DetectedAt:      s.now().UTC(),
		DataComplete:    false,
	}, true
}

func (s *GateIOScanner) fetchPairs(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/spot/currency_pairs", nil)
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
		return nil, fmt.Errorf("gateio currency_pairs http %d", res.StatusCode)
	}

	var out []gateioPair
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode gateio currency_pairs: %w", err)
	}

	pairs := make([]string, 0, len(out))
	for _, p := range out {
		if p.TradeStatus == "tradable" {
			pairs = append(pairs, p.ID)
		}
	}
	return pairs, nil
}
