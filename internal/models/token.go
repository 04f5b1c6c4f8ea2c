package models

import "time"

// ListingType classifies how an exchange introduced a token.
type ListingType string

const (
	ListingSpot    ListingType = "spot"
	ListingAlpha   ListingType = "alpha"
	ListingFutures ListingType = "futures"
	ListingPresale ListingType = "presale"
)

// HoneypotStatus is the outcome of the honeypot simulation.
type HoneypotStatus string

const (
	HoneypotSafe    HoneypotStatus = "SAFE"
	HoneypotRisky   HoneypotStatus = "RISKY"
	HoneypotUnknown HoneypotStatus = "UNKNOWN"
)

// RiskLevel buckets a numeric risk score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevelFor maps a 0-100 risk score onto its bucket: below 30 is
// LOW, below 60 MEDIUM, everything else HIGH.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score < 30:
		return RiskLow
	case score < 60:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Action is a trading recommendation verdict.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionWatch Action = "WATCH"
	ActionAvoid Action = "AVOID"
)

// Listing is a token discovered on an exchange, before enrichment.
type Listing struct {
	Name            string      `json:"name"`
	Symbol          string      `json:"symbol"`
	Exchange        string      `json:"exchange"`
	ListingType     ListingType `json:"listing_type"`
	ContractAddress string      `json:"contract_address,omitempty"`
	Chain           string      `json:"chain,omitempty"`
	AnnouncementURL string      `json:"announcement_url,omitempty"`
	DetectedAt      time.Time   `json:"detected_at"`
	DataComplete    bool        `json:"data_complete"`
}

// VerificationResult is the folded outcome of contract verification,
// creator lookup and the honeypot check. RiskScore runs 0-100, lower
// is safer.
type VerificationResult struct {
	ContractVerified bool           `json:"contract_verified"`
	ContractName     string         `json:"contract_name,omitempty"`
	CreatorAddress   string         `json:"creator_address,omitempty"`
	CreationTxn      string         `json:"creation_txn,omitempty"`
	HoneypotCheck    HoneypotStatus `json:"honeypot_check"`
	RiskScore        int            `json:"risk_score"`
	RiskLevel        RiskLevel      `json:"risk_level"`
	Status           string         `json:"status,omitempty"`
}

// PriceSnapshot is the market view of the single most liquid pair.
type PriceSnapshot struct {
	CurrentPriceUSD float64   `json:"current_price_usd"`
	PriceChange5m   float64   `json:"price_change_5m"`
	PriceChange1h   float64   `json:"price_change_1h"`
	PriceChange6h   float64   `json:"price_change_6h"`
	PriceChange24h  float64   `json:"price_change_24h"`
	AllTimeHigh     float64   `json:"ath,omitempty"`
	Volume24h       float64   `json:"volume_24h"`
	LiquidityUSD    float64   `json:"liquidity_usd"`
	MarketCap       float64   `json:"market_cap,omitempty"`
	FDV             float64   `json:"fdv,omitempty"`
	DexID           string    `json:"dex_id,omitempty"`
	PairAddress     string    `json:"pair_address,omitempty"`
	LastUpdated     time.Time `json:"last_updated"`
}

// BuyLocation is one venue where the token can currently be traded.
type BuyLocation struct {
	Platform      string  `json:"platform"`
	Type          string  `json:"type"`
	Chain         string  `json:"chain"`
	PairAddress   string  `json:"pair_address,omitempty"`
	URL           string  `json:"url,omitempty"`
	CurrentPrice  float64 `json:"current_price"`
	LiquidityUSD  float64 `json:"liquidity_usd"`
	Volume24h     float64 `json:"volume_24h"`
	PairCreatedAt int64   `json:"pair_created_at,omitempty"`
	BaseToken     string  `json:"base_token,omitempty"`
	QuoteToken    string  `json:"quote_token,omitempty"`
}

// SocialMetrics holds community size and sentiment readings.
type SocialMetrics struct {
	TwitterFollowers  int    `json:"twitter_followers"`
	TelegramMembers   int    `json:"telegram_members"`
	DiscordMembers    int    `json:"discord_members"`
	RedditSubscribers int    `json:"reddit_subscribers"`
	SentimentScore    int    `json:"sentiment_score"`
	TrendingRank      *int   `json:"trending_rank,omitempty"`
	Note              string `json:"note,omitempty"`
}

// Sentiment is a coarse market-sentiment reading for a symbol.
type Sentiment struct {
	Sentiment string `json:"sentiment"`
	Reason    string `json:"reason,omitempty"`
	Rank      int    `json:"rank,omitempty"`
}

// KeyMetrics are the normalized 0-100 sub-scores behind a recommendation.
type KeyMetrics struct {
	RiskScore      int `json:"risk_score"`
	LiquidityScore int `json:"liquidity_score"`
	VolumeScore    int `json:"volume_score"`
	MomentumScore  int `json:"momentum_score"`
}

// Recommendation is a scored trading verdict with price targets. The
// AI-specific fields stay empty under the rule-based engine.
type Recommendation struct {
	Action          Action     `json:"action"`
	Confidence      int        `json:"confidence"`
	Reasoning       string     `json:"reasoning,omitempty"`
	AIAnalysis      string     `json:"ai_analysis,omitempty"`
	MarketSentiment *Sentiment `json:"market_sentiment,omitempty"`
	Model           string     `json:"model,omitempty"`
	SuggestedEntry  float64    `json:"suggested_entry,omitempty"`
	Target2x        float64    `json:"target_2x,omitempty"`
	Target3x        float64    `json:"target_3x,omitempty"`
	Target5x        float64    `json:"target_5x,omitempty"`
	StopLoss        float64    `json:"stop_loss,omitempty"`
	PositionSize    string     `json:"position_size_recommendation"`
	TimeHorizon     string     `json:"time_horizon"`
	RiskRewardRatio string     `json:"risk_reward_ratio"`
	KeyMetrics      KeyMetrics `json:"key_metrics"`
}

// EnrichedToken is the full record stored per (symbol, exchange). The
// pointer sections are nil when that enrichment step never applied,
// which is distinct from a section full of zero values.
type EnrichedToken struct {
	Listing

	Verification   *VerificationResult `json:"verification,omitempty"`
	PriceData      *PriceSnapshot      `json:"price_data,omitempty"`
	WhereToBuyNow  []BuyLocation       `json:"where_to_buy_now,omitempty"`
	SocialMetrics  *SocialMetrics      `json:"social_metrics,omitempty"`
	Recommendation *Recommendation     `json:"recommendation,omitempty"`
	LastUpdated    time.Time           `json:"last_updated"`
}
