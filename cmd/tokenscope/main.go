package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tokenscope/tokenscope/internal/ai"
	"github.com/tokenscope/tokenscope/internal/config"
	"github.com/tokenscope/tokenscope/internal/dexscreener"
	"github.com/tokenscope/tokenscope/internal/enrich"
	"github.com/tokenscope/tokenscope/internal/honeypot"
	"github.com/tokenscope/tokenscope/internal/market"
	"github.com/tokenscope/tokenscope/internal/recommend"
	"github.com/tokenscope/tokenscope/internal/scanner"
	"github.com/tokenscope/tokenscope/internal/sentiment"
	"github.com/tokenscope/tokenscope/internal/social"
	"github.com/tokenscope/tokenscope/internal/storage"
	"github.com/tokenscope/tokenscope/internal/store"
	"github.com/tokenscope/tokenscope/internal/verify"
)

const usage = "Usage: tokenscope <scan|enrich SYMBOL>"

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using system environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	tokenStore, err := store.NewRedisStore(redisClient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create token store")
	}
	defer tokenStore.Close()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	if err := tokenStore.Ping(pingCtx); err != nil {
		pingCancel()
		logger.WithError(err).Fatal("redis is not reachable")
	}
	pingCancel()

	switch args[0] {
	case "scan":
		runScan(ctx, logger, tokenStore)
	case "enrich":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: tokenscope enrich <SYMBOL>")
			os.Exit(1)
		}
		runEnrich(ctx, logger, cfg, tokenStore, args[1])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}
}

func runScan(ctx context.Context, logger *logrus.Logger, tokenStore *store.RedisStore) {
	runner := scanner.NewRunner(tokenStore, logger,
		scanner.NewBinanceScanner(""),
		scanner.NewMEXCScanner("", tokenStore),
		scanner.NewKuCoinScanner("", tokenStore),
		scanner.NewGateIOScanner("", tokenStore),
		scanner.NewCakepadScanner(""),
	)

	listings, err := runner.ScanAll(ctx)
	if err != nil {
		logger.WithError(err).Fatal("scan failed")
	}

	fmt.Printf("Found %d new listing(s)\n", len(listings))
	for _, l := range listings {
		fmt.Printf("  - %s on %s (%s)\n", l.Symbol, l.Exchange, l.ListingType)
	}
}

func runEnrich(ctx context.Context, logger *logrus.Logger, cfg *config.Config, tokenStore *store.RedisStore, symbol string) {
	enricher, err := buildEnricher(ctx, logger, cfg, tokenStore)
	if err != nil {
		logger.WithError(err).Fatal("failed to build enrichment pipeline")
	}

	token, err := enricher.EnrichSymbol(ctx, symbol)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Fatalf("token %s not found, run a scan first", symbol)
	}
	if err != nil {
		logger.WithError(err).Fatal("enrichment failed")
	}

	out, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("failed to encode token")
	}
	fmt.Println(string(out))
}

func buildEnricher(ctx context.Context, logger *logrus.Logger, cfg *config.Config, tokenStore *store.RedisStore) (*enrich.Enricher, error) {
	verifier := verify.New(verify.Config{
		EtherscanAPIKey: cfg.EtherscanAPIKey,
		BscscanAPIKey:   cfg.BscscanAPIKey,
		Honeypot:        honeypot.NewClient(""),
		Timeout:         cfg.HTTPTimeout,
		Logger:          logger,
	})

	marketAgg := market.New(dexscreener.NewClient(""), logger)

	scorer, err := buildScorer(cfg, logger)
	if err != nil {
		return nil, err
	}

	// History is optional: the CLI still works without ClickHouse.
	var history storage.HistoryStore
	chCtx, chCancel := context.WithTimeout(ctx, 5*time.Second)
	ch, err := store.NewClickHouseStore(chCtx, store.ClickHouseConfig{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	})
	chCancel()
	if err != nil {
		logger.WithError(err).Warn("clickhouse unavailable, enrichment history disabled")
	} else {
		history = ch
	}

	return enrich.New(enrich.Config{
		Verifier: verifier,
		Market:   marketAgg,
		Social:   social.NewStub(),
		Scorer:   scorer,
		Store:    tokenStore,
		History:  history,
		Logger:   logger,
	})
}

func buildScorer(cfg *config.Config, logger *logrus.Logger) (recommend.Scorer, error) {
	if cfg.Scorer != "ai" {
		return recommend.NewRuleScorer(), nil
	}

	analyzer, err := ai.NewAnalyzer(ai.AnalyzerConfig{
		OpenRouterAPIKey: cfg.OpenRouterAPIKey,
		Model:            cfg.Model,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}
	return recommend.NewAIScorer(analyzer, sentiment.NewCoinGecko(cfg.CoinGeckoAPIKey)), nil
}
