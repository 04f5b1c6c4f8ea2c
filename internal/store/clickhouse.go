package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/tokenscope/tokenscope/internal/models"
)

// ClickHouseStore appends one row per enrichment run to the
// `enrichments` table. Insert-only: the redis store holds current
// state, clickhouse holds the history for performance reports.
type ClickHouseStore struct {
	conn driver.Conn
}

// ClickHouseConfig holds connection settings for the history store.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
}

func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &ClickHouseStore{conn: conn}, nil
}

func (c *ClickHouseStore) InsertEnrichment(ctx context.Context, token *models.EnrichedToken) error {
	var action string
	var confidence, riskScore int
	if token.Recommendation != nil {
		action = string(token.Recommendation.Action)
		confidence = token.Recommendation.Confidence
	}
	if token.Verification != nil {
		riskScore = token.Verification.RiskScore
	}

	var price, liquidity, volume float64
	if token.PriceData != nil {
		price = token.PriceData.CurrentPriceUSD
		liquidity = token.PriceData.LiquidityUSD
		volume = token.PriceData.Volume24h
	}

	query := `
		INSERT INTO enrichments (
			symbol, exchange, chain, action, confidence,
			risk_score, price_usd, liquidity_usd, volume_24h, enriched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		token.Symbol,
		token.Exchange,
		token.Chain,
		action,
		confidence,
		riskScore,
		price,
		liquidity,
		volume,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert enrichment: %w", err)
	}
	return nil
}

func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
