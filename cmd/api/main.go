package main

import (
	"context"
	"errors"
	"net/http"
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
	"github.com/tokenscope/tokenscope/internal/server"
	"github.com/tokenscope/tokenscope/internal/social"
	"github.com/tokenscope/tokenscope/internal/storage"
	"github.com/tokenscope/tokenscope/internal/store"
	"github.com/tokenscope/tokenscope/internal/verify"
)

func main() {
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		defer ch.Close()
	}

	scorer, err := buildScorer(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to build scorer")
	}

	verifier := verify.New(verify.Config{
		EtherscanAPIKey: cfg.EtherscanAPIKey,
		BscscanAPIKey:   cfg.BscscanAPIKey,
		Honeypot:        honeypot.NewClient(""),
		Timeout:         cfg.HTTPTimeout,
		Logger:          logger,
	})

	enricher, err := enrich.New(enrich.Config{
		Verifier: verifier,
		Market:   market.New(dexscreener.NewClient(""), logger),
		Social:   social.NewStub(),
		Scorer:   scorer,
		Store:    tokenStore,
		History:  history,
		Logger:   logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to build enrichment pipeline")
	}

	runner := scanner.NewRunner(tokenStore, logger,
		scanner.NewBinanceScanner(""),
		scanner.NewMEXCScanner("", tokenStore),
		scanner.NewKuCoinScanner("", tokenStore),
		scanner.NewGateIOScanner("", tokenStore),
		scanner.NewCakepadScanner(""),
	)

	srv, err := server.NewServer(server.ServerDeps{
		Handlers: &server.Handlers{
			Store:    tokenStore,
			Enricher: enricher,
			Scanner:  runner,
			DevMode:  cfg.DevMode,
			Logger:   logger,
		},
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr,
			DevMode: cfg.DevMode,
			APIKey:  cfg.APIKey,
		},
		Logger: logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}

	go func() {
		logger.WithField("addr", cfg.APIAddr).Info("starting API server")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer waitCancel()
	if err := srv.WaitClosed(waitCtx); err != nil {
		logger.WithError(err).Warn("server did not close cleanly")
	}
	logger.Info("goodbye")
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
