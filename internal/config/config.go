package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	HTTPPort         int
	RedisURL         string
	TelegramBotToken string

	APIKey        string
	FinnhubAPIKey string
	OpenAIAPIKey  string
	OpenAIModel   string

	Watchlist     []string
	CryptoSources []string
	EquitySources []string

	NewsFeedTemplate string

	SourceTimeoutSecs int
	QuoteCacheTTLSecs int
	PollSecs          int

	HistoryWindowDays int
	MinAlignedPoints  int

	SentimentThreshold    float64
	SentimentTrendWeight  float64
	SentimentDisplayCount int
	SentimentMaxItems     int
	SentimentTrendDays    int
}

func Load() *Config {
	cfg := &Config{
		RedisURL:         os.Getenv("REDIS_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           os.Getenv("API_KEY"),
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		NewsFeedTemplate: strings.TrimSpace(os.Getenv("NEWS_FEED_TEMPLATE")),
	}

	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, quote cache disabled")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.FinnhubAPIKey == "" {
		log.Println("Warning: FINNHUB_API_KEY not set, equity quotes fall back to Yahoo")
	}
	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, sentiment uses the lexicon classifier")
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	for _, s := range splitList(os.Getenv("WATCHLIST")) {
		cfg.Watchlist = append(cfg.Watchlist, strings.ToUpper(s))
	}
	for _, s := range splitList(os.Getenv("CRYPTO_SOURCES")) {
		cfg.CryptoSources = append(cfg.CryptoSources, strings.ToLower(s))
	}
	for _, s := range splitList(os.Getenv("EQUITY_SOURCES")) {
		cfg.EquitySources = append(cfg.EquitySources, strings.ToLower(s))
	}

	cfg.SourceTimeoutSecs = 5
	if v := strings.TrimSpace(os.Getenv("SOURCE_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SourceTimeoutSecs = n
		}
	}

	cfg.QuoteCacheTTLSecs = 30
	if v := strings.TrimSpace(os.Getenv("QUOTE_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.QuoteCacheTTLSecs = n
		}
	}

	cfg.PollSecs = 60
	if v := strings.TrimSpace(os.Getenv("POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollSecs = n
		}
	}

	cfg.HistoryWindowDays = 365
	if v := strings.TrimSpace(os.Getenv("HISTORY_WINDOW_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryWindowDays = n
		}
	}

	cfg.MinAlignedPoints = 30
	if v := strings.TrimSpace(os.Getenv("MIN_ALIGNED_POINTS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 2 {
			cfg.MinAlignedPoints = n
		}
	}

	cfg.SentimentThreshold = 0.2
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_THRESHOLD")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n > 0 && n < 1 {
			cfg.SentimentThreshold = n
		}
	}

	cfg.SentimentTrendWeight = 0.5
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_TREND_WEIGHT")); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil && n >= 0 && n <= 1 {
			cfg.SentimentTrendWeight = n
		}
	}

	cfg.SentimentDisplayCount = 10
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_DISPLAY_COUNT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SentimentDisplayCount = n
		}
	}

	cfg.SentimentMaxItems = 40
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_MAX_ITEMS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SentimentMaxItems = n
		}
	}

	cfg.SentimentTrendDays = 90
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_TREND_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 31 {
			cfg.SentimentTrendDays = n
		}
	}

	return cfg
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
