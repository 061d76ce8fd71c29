package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from
// environment variables or a .env file.
//
// It is composed of smaller structs that represent different concerns
// of the system: the HTTP server and the three upstream data sources.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	MARKETDATA_BASE_URL=https://query1.finance.yahoo.com
//	ALPHAVANTAGE_BASE_URL=https://www.alphavantage.co
//	ALPHAVANTAGE_KEY=demo
//	NEWS_FEED_URL=https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US
//	FUNDAMENTALS_CACHE_TTL=15m
type Config struct {
	Server       ServerConfig       // HTTP server configuration
	MarketData   MarketDataConfig   // Price history source
	Fundamentals FundamentalsConfig // Financial statements source
	News         NewsConfig         // Headlines source
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// MarketDataConfig points at the market data (price history) API.
type MarketDataConfig struct {
	BaseURL string
}

// FundamentalsConfig holds the statements API endpoint and credential.
//
// APIKey is resolved once at startup and injected into the client; it
// is intentionally NOT validated here. A missing key must surface as a
// request-time error on the fundamentals view only, never as a startup
// failure — the other three views work without it.
type FundamentalsConfig struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration // advisory cache for the quota-limited endpoints
}

// NewsConfig holds the RSS feed URL template (one %s for the ticker).
type NewsConfig struct {
	FeedURL string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the
// application. All services should import this package and read from
// AppConfig instead of reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("MARKETDATA_BASE_URL", "https://query1.finance.yahoo.com")
	viper.SetDefault("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co")
	viper.SetDefault("ALPHAVANTAGE_KEY", "")
	viper.SetDefault("NEWS_FEED_URL", "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US")
	viper.SetDefault("FUNDAMENTALS_CACHE_TTL", "15m")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		MarketData: MarketDataConfig{
			BaseURL: viper.GetString("MARKETDATA_BASE_URL"),
		},
		Fundamentals: FundamentalsConfig{
			BaseURL:  viper.GetString("ALPHAVANTAGE_BASE_URL"),
			APIKey:   viper.GetString("ALPHAVANTAGE_KEY"),
			CacheTTL: viper.GetDuration("FUNDAMENTALS_CACHE_TTL"),
		},
		News: NewsConfig{
			FeedURL: viper.GetString("NEWS_FEED_URL"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// ALPHAVANTAGE_KEY is deliberately absent from this list; see
// FundamentalsConfig.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.MarketData.BaseURL == "" {
		missing = append(missing, "MARKETDATA_BASE_URL")
	}
	if AppConfig.Fundamentals.BaseURL == "" {
		missing = append(missing, "ALPHAVANTAGE_BASE_URL")
	}
	if AppConfig.News.FeedURL == "" {
		missing = append(missing, "NEWS_FEED_URL")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
