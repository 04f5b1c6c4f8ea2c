package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Redis settings
	RedisAddr string
	RedisDB   int

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Block explorer API keys
	EtherscanAPIKey string
	BscscanAPIKey   string

	// HTTP client settings
	HTTPTimeout time.Duration

	// Scorer selection: "rule" or "ai"
	Scorer string

	// OpenRouter / LLM settings (AI scorer only)
	OpenRouterAPIKey string
	Model            string

	// CoinGecko (sentiment source)
	CoinGeckoAPIKey string

	// API server settings
	APIAddr string
	APIKey  string
	DevMode bool
}

func Load() *Config {
	return &Config{
		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getIntEnv("REDIS_DB", 0),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "tokenscope"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Explorers
		EtherscanAPIKey: getEnv("ETHERSCAN_API_KEY", ""),
		BscscanAPIKey:   getEnv("BSCSCAN_API_KEY", ""),

		// HTTP
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT", 10*time.Second),

		// Scoring
		Scorer:           getEnv("SCORER", "rule"),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		Model:            getEnv("AI_MODEL", "openai/gpt-4.1-mini"),
		CoinGeckoAPIKey:  getEnv("COINGECKO_API_KEY", ""),

		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),
	}
}

func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	switch c.Scorer {
	case "rule", "ai":
	default:
		return fmt.Errorf("SCORER must be \"rule\" or \"ai\", got %q", c.Scorer)
	}
	if c.Scorer == "ai" && c.OpenRouterAPIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required when SCORER=ai")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
