package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/dexscreener"
	"github.com/tokenscope/tokenscope/internal/market"
	"github.com/tokenscope/tokenscope/internal/models"
	"github.com/tokenscope/tokenscope/internal/recommend"
	"github.com/tokenscope/tokenscope/internal/social"
	"github.com/tokenscope/tokenscope/internal/storage"
)

// ContractVerifier is the verification aggregator dependency.
type ContractVerifier interface {
	Verify(ctx context.Context, address, chain string) *models.VerificationResult
}

// MarketSource fetches the pair list one time per token; the price
// snapshot and buy locations are both derived from that single list.
type MarketSource interface {
	Fetch(ctx context.Context, address string) ([]dexscreener.Pair, error)
}

// Config holds the collaborators of the Enricher.
type Config struct {
	Verifier ContractVerifier
	Market   MarketSource
	Social   social.Source
	Scorer   recommend.Scorer
	Store    storage.TokenStore
	History  storage.HistoryStore // optional
	Logger   *logrus.Logger
}

// Enricher turns a bare listing into a fully-scored EnrichedToken.
// Every enrichment step is best-effort: a failing fetch leaves its
// section at the documented default and the record is always usable.
type Enricher struct {
	verifier ContractVerifier
	market   MarketSource
	social   social.Source
	scorer   recommend.Scorer
	store    storage.TokenStore
	history  storage.HistoryStore
	logger   *logrus.Logger
}

func New(cfg Config) (*Enricher, error) {
	if cfg.Verifier == nil || cfg.Market == nil || cfg.Scorer == nil || cfg.Store == nil {
		return nil, fmt.Errorf("verifier, market, scorer and store are required")
	}
	if cfg.Social == nil {
		cfg.Social = social.NewStub()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Enricher{
		verifier: cfg.Verifier,
		market:   cfg.Market,
		social:   cfg.Social,
		scorer:   cfg.Scorer,
		store:    cfg.Store,
		history:  cfg.History,
		logger:   cfg.Logger,
	}, nil
}

// Enrich runs the full pipeline for one listing and upserts the result
// keyed by (symbol, exchange). The returned error only ever reflects
// the persistence step: partial enrichment never fails the operation.
func (e *Enricher) Enrich(ctx context.Context, listing models.Listing) (*models.EnrichedToken, error) {
	log := e.logger.WithFields(logrus.Fields{
		"symbol":   listing.Symbol,
		"exchange": listing.Exchange,
	})
	log.Info("enriching token")

	token := &models.EnrichedToken{Listing: listing}

	// The three data fetches are read-only and independent of one another,
	// so they fan out concurrently; each carries its own timeout.
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		if listing.ContractAddress == "" {
			token.Verification = &models.VerificationResult{
				ContractVerified: false,
				HoneypotCheck:    models.HoneypotUnknown,
				RiskScore:        50,
				Status:           "No contract address available",
			}
			return
		}
		token.Verification = e.verifier.Verify(ctx, listing.ContractAddress, listing.Chain)
	}()

	go func() {
		defer wg.Done()
		if listing.ContractAddress == "" {
			// No address: price data stays nil, which is distinct from
			// "address with no liquidity".
			return
		}
		pairs, err := e.market.Fetch(ctx, listing.ContractAddress)
		if err != nil {
			log.WithError(err).Warn("market data fetch failed")
			return
		}
		token.PriceData = market.Snapshot(pairs)
		token.WhereToBuyNow = market.BuyLocations(pairs)
	}()

	go func() {
		defer wg.Done()
		metrics, err := e.social.Metrics(ctx, listing.Name, listing.Symbol)
		if err != nil {
			log.WithError(err).Warn("social metrics fetch failed")
			metrics, _ = social.NewStub().Metrics(ctx, listing.Name, listing.Symbol)
		}
		token.SocialMetrics = metrics
	}()

	wg.Wait()

	token.Recommendation = e.scorer.Score(ctx, token)
	token.DataComplete = true
	token.LastUpdated = time.Now().UTC()

	if err := e.store.Upsert(ctx, token); err != nil {
		return token, fmt.Errorf("persist enriched token: %w", err)
	}

	if e.history != nil {
		if err := e.history.InsertEnrichment(ctx, token); err != nil {
			log.WithError(err).Warn("history insert failed")
		}
	}

	log.WithFields(logrus.Fields{
		"action":     token.Recommendation.Action,
		"confidence": token.Recommendation.Confidence,
	}).Info("enrichment complete")
	return token, nil
}

// EnrichSymbol looks up a stored listing by symbol and enriches it.
// A missing symbol is the only terminal failure in the pipeline.
func (e *Enricher) EnrichSymbol(ctx context.Context, symbol string) (*models.EnrichedToken, error) {
	stored, err := e.store.Get(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return e.Enrich(ctx, stored.Listing)
}
