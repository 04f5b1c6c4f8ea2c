package scanner

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tokenscope/tokenscope/internal/constants"
	"github.com/tokenscope/tokenscope/internal/models"
)

var (
	// cakepadTitleRe extracts the token name from titles like
	// "CAKEPAD: Moon Token (MOON) Launch".
	cakepadTitleRe = regexp.MustCompile(`CAKEPAD[:\s]+(.+?)(?:\s+\(|$)`)

	// contractRe matches an EVM contract address anywhere in the post body.
	contractRe = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)
)

// CakepadScanner watches the PancakeSwap blog feed for CAKEPAD launch
// posts. There is no public API for the CAKEPAD schedule, so the RSS
// feed is the discovery channel; launches parse as presale listings on
// BSC with the contract address pulled from the post body when present.
type CakepadScanner struct {
	FeedURL string
	HTTP    *http.Client

	// MaxItems bounds how deep into the feed a scan looks.
	MaxItems int

	now func() time.Time
}

func NewCakepadScanner(feedURL string) *CakepadScanner {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		feedURL = "https://blog.pancakeswap.finance/feed"
	}
	return &CakepadScanner{
		FeedURL:  feedURL,
		HTTP:     &http.Client{Timeout: constants.FetchTimeout},
		MaxItems: 10,
		now:      time.Now,
	}
}

func (s *CakepadScanner) Name() string {
	return constants.ExchangeCakepad
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

func (s *CakepadScanner) Scan(ctx context.Context) ([]models.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FeedURL, nil)
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
		return nil, fmt.Errorf("pancakeswap feed http %d", res.StatusCode)
	}

	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to decode pancakeswap feed: %w", err)
	}

	items := feed.Channel.Items
	if len(items) > s.MaxItems {
		items = items[:s.MaxItems]
	}

	var listings []models.Listing
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Title), "cakepad") {
			continue
		}
		if l, ok := s.ParseItem(item.Title, item.Link, item.Description); ok {
			listings = append(listings, l)
		}
	}
	return listings, nil
}

// ParseItem extracts a presale listing from one blog post. The symbol
// is a guess from the token name until enrichment corrects it; posts
// without a recognizable token name are skipped.
func (s *CakepadScanner) ParseItem(title, link, description string) (models.Listing, bool) {
	m := cakepadTitleRe.FindStringSubmatch(title)
	if m == nil {
		return models.Listing{}, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return models.Listing{}, false
	}

	return models.Listing{
		Name:            name,
		Symbol:          strings.ToUpper(strings.Fields(name)[0]),
		Exchange:        constants.ExchangeCakepad,
		ListingType:     models.ListingPresale,
		ContractAddress: contractRe.FindString(description),
		Chain:           "BSC",
		AnnouncementURL: link,
		DetectedAt:      s.now().UTC(),
		DataComplete:    false,
	}, true
}
