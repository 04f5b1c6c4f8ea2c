package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/models"
)

// titleRe matches announcement titles like "Binance Will List Pepe (PEPE)".
var titleRe = regexp.MustCompile(`(.+?)\s*\(([A-Z]{2,10})\)`)

// BinanceScanner reads the new-listing category of the Binance
// announcement feed and parses token listings out of article titles.
type BinanceScanner struct {
	BaseURL string
	HTTP    *http.Client

	// MaxAge drops stale announcements; defaults to 7 days.
	MaxAge time.Duration

	now func() time.Time
}

func NewBinanceScanner(baseURL string) *BinanceScanner {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://www.binance.com/bapi/composite/v1/public/cms/article/catalog/list/query"
	}
	return &BinanceScanner{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: constants.FetchTimeout},
		MaxAge:  7 * 24 * time.Hour,
		now:     time.Now,
	}
}

func (s *BinanceScanner) Name() string {
	return constants.ExchangeBinance
}

type binanceArticle struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	ReleaseDate int64  `json:"releaseDate"` // unix millis
}

type binanceResponse struct {
	Data struct {
		Catalogs []struct {
			Articles []binanceArticle `json:"articles"`
		} `json:"catalogs"`
	} `json:"data"`
}

func (s *BinanceScanner) Scan(ctx context.Context) ([]models.Listing, error) {
	// catalogId 48 is the "New Cryptocurrency Listing" category.
	u := s.BaseURL + "?type=1&catalogId=48&pageNo=1&pageSize=15"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	res, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("binance announcements http %d", res.StatusCode)
	}

	var out binanceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode binance announcements: %w", err)
	}
	if len(out.Data.Catalogs) == 0 {
		return nil, nil
	}

	var listings []models.Listing
	for _, article := range out.Data.Catalogs[0].Articles {
		published := time.UnixMilli(article.ReleaseDate)
		if s.now().Sub(published) > s.MaxAge {
			continue
		}
		if l, ok := s.ParseArticle(article.Title, article.Code); ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// ParseArticle extracts a listing from an announcement title. Titles
// without a "Name (SYMBOL)" pattern are skipped; the listing type comes
// from keywords in the title.
func (s *BinanceScanner) ParseArticle(title, code string) (models.Listing, bool) {
	m := titleRe.FindStringSubmatch(title)
	if m == nil {
		return models.Listing{}, false
	}

	listingType := models.ListingSpot
	lower := strings.ToLower(title)
	if strings.Contains(lower, "alpha") {
		listingType = models.ListingAlpha
	} else if strings.Contains(lower, "futures") || strings.Contains(lower, "perpetual") {
		listingType = models.ListingFutures
	}

	return models.Listing{
		Name:            strings.TrimSpace(m[1]),
		Symbol:          strings.TrimSpace(m[2]),
		Exchange:        constants.ExchangeBinance,
		ListingType:     listingType,
		AnnouncementURL: "https://www.binance.com/en/support/announcement/" + code,
		DetectedAt:      s.now().UTC(),
		DataComplete:    false,
	}, true
}
