package config

import (
	"os"
	"strconv"
	"strings"

	"horizonfolio/internal/logger"
)

type Config struct {
	Port string

	CoinMarketCapAPIKey  string
	CoinMarketCapBaseURL string

	MarketDataRevalidateSecs int
	UpstreamTimeoutSecs      int
	UpstreamRateLimitPerMin  int
	AlternativeFNGEnabled    bool
	CacheWarmEnabled         bool

	RedisURL         string
	DatabaseURL      string
	TelegramBotToken string

	SSHPort               int
	SSHHostKeyPath        string
	MarketDataURL         string
	FeedDedupeSecs        int
	FeedFocusThrottleSecs int

	PortfolioContentPath string
	AdminAPIKey          string
}

func Load() *Config {
	log := logger.WithComponent("config")

	cfg := &Config{
		CoinMarketCapAPIKey: strings.TrimSpace(os.Getenv("COINMARKETCAP_API_KEY")),
		RedisURL:            strings.TrimSpace(os.Getenv("REDIS_URL")),
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
	cfg.PortfolioContentPath = strings.TrimSpace(os.Getenv("PORTFOLIO_CONTENT_PATH"))
	cfg.AdminAPIKey = strings.TrimSpace(os.Getenv("ADMIN_API_KEY"))

	if cfg.CoinMarketCapAPIKey == "" {
		log.Warn("COINMARKETCAP_API_KEY not set, /api/market-data will report a configuration error")
	}
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-process market data cache")
	}
	if cfg.DatabaseURL == "" {
		log.Info("DATABASE_URL not set, sentiment history disabled")
	}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.CoinMarketCapBaseURL = strings.TrimSpace(os.Getenv("COINMARKETCAP_BASE_URL"))
	if cfg.CoinMarketCapBaseURL == "" {
		cfg.CoinMarketCapBaseURL = "https://pro-api.coinmarketcap.com"
	}

	cfg.MarketDataRevalidateSecs = positiveInt("MARKET_DATA_REVALIDATE_SECS", 3600)
	cfg.UpstreamTimeoutSecs = positiveInt("UPSTREAM_TIMEOUT_SECS", 10)
	cfg.UpstreamRateLimitPerMin = positiveInt("UPSTREAM_RATE_LIMIT_PER_MIN", 30)

	cfg.AlternativeFNGEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("ALTERNATIVE_FNG_ENABLED")), "true")
	cfg.CacheWarmEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("CACHE_WARM_ENABLED")), "true")

	cfg.SSHPort = positiveInt("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = strings.TrimSpace(os.Getenv("SSH_HOST_KEY_PATH"))
	if cfg.SSHHostKeyPath == "" {
		cfg.SSHHostKeyPath = ".ssh/horizonfolio_ed25519"
	}

	cfg.MarketDataURL = strings.TrimSpace(os.Getenv("MARKET_DATA_URL"))
	if cfg.MarketDataURL == "" {
		cfg.MarketDataURL = "http://localhost:" + cfg.Port + "/api/market-data"
	}

	cfg.FeedDedupeSecs = positiveInt("FEED_DEDUPE_SECS", 60)
	cfg.FeedFocusThrottleSecs = positiveInt("FEED_FOCUS_THROTTLE_SECS", 5)

	return cfg
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		logger.WithComponent("config").Warnf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
