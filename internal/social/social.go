package social

import (
	"context"

	"github.com/tokenscope/tokenscope/internal/models"
)

// Source produces community metrics for a token. Implementations are
// expected to be best-effort; callers degrade to the stub values on error.
type Source interface {
	Metrics(ctx context.Context, name, symbol string) (*models.SocialMetrics, error)
}

// Stub is the default Source. Real follower counts need Twitter/Telegram
// API keys, so until those are wired in it reports zero counts and a
// neutral sentiment. This is a documented placeholder, not missing data.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Metrics(_ context.Context, _, _ string) (*models.SocialMetrics, error) {
	return &models.SocialMetrics{
		TwitterFollowers:  0,
		TelegramMembers:   0,
		DiscordMembers:    0,
		RedditSubscribers: 0,
		SentimentScore:    50,
		TrendingRank:      nil,
		Note:              "Social metrics require API keys (not implemented in demo)",
	}, nil
}
