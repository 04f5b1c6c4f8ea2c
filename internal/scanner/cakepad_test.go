package scanner

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokenscope/tokenscope/internal/models"
)

const cakepadFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>PancakeSwap Blog</title>
    <item>
      <title>CAKEPAD: Moon Token (MOON) Launch</title>
      <link>https://blog.pancakeswap.finance/articles/moon-token</link>
      <description>Moon Token launches on CAKEPAD. Contract: 0x1234567890abcdef1234567890abcdef12345678</description>
    </item>
    <item>
      <title>Weekly Recap</title>
      <link>https://blog.pancakeswap.finance/articles/recap</link>
      <description>What happened this week.</description>
    </item>
  </channel>
</rss>`

func TestCakepadScan_ParsesLaunchPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, cakepadFeed)
	}))
	defer srv.Close()

	listings, err := NewCakepadScanner(srv.URL).Scan(context.Background())
	require.NoError(t, err)

	// Only the CAKEPAD announcement parses; the recap post is skipped.
	require.Len(t, listings, 1)
	l := listings[0]
	assert.Equal(t, "Moon Token", l.Name)
	assert.Equal(t, "MOON", l.Symbol)
	assert.Equal(t, "PancakeSwap CAKEPAD", l.Exchange)
	assert.Equal(t, models.ListingPresale, l.ListingType)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", l.ContractAddress)
	assert.Equal(t, "BSC", l.Chain)
	assert.Equal(t, "https://blog.pancakeswap.finance/articles/moon-token", l.AnnouncementURL)
}

func TestCakepadParseItem(t *testing.T) {
	s := NewCakepadScanner("")

	tests := []struct {
		name  string
		title string
		desc  string
		want  models.Listing
		ok    bool
	}{
		{
			name:  "title with parenthesized ticker",
			title: "CAKEPAD: Stellar Gold (STG) IFO",
			want:  models.Listing{Name: "Stellar Gold", Symbol: "STELLAR"},
			ok:    true,
		},
		{
			name:  "title without ticker",
			title: "CAKEPAD Rocket",
			want:  models.Listing{Name: "Rocket", Symbol: "ROCKET"},
			ok:    true,
		},
		{
			name:  "no contract in body",
			title: "CAKEPAD: Nova (NOVA)",
			desc:  "Launch details coming soon.",
			want:  models.Listing{Name: "Nova", Symbol: "NOVA"},
			ok:    true,
		},
		{
			name:  "unrelated title",
			title: "PancakeSwap v4 roadmap",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.ParseItem(tt.title, "https://example.com/post", tt.desc)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Symbol, got.Symbol)
			assert.Equal(t, models.ListingPresale, got.ListingType)
			assert.Equal(t, "BSC", got.Chain)
		})
	}
}

func TestCakepadScan_BoundsFeedDepth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?><rss><channel>`)
		for i := 0; i < 5; i++ {
			fmt.Fprintf(w, `<item><title>CAKEPAD: Token%d</title><link>https://example.com/%d</link><description/></item>`, i, i)
		}
		fmt.Fprint(w, `</channel></rss>`)
	}))
	defer srv.Close()

	s := NewCakepadScanner(srv.URL)
	s.MaxItems = 2

	listings, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, listings, 2)
}
