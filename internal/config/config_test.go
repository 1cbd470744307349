package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("WATCHLIST", "")
	t.Setenv("CRYPTO_SOURCES", "")
	t.Setenv("SOURCE_TIMEOUT_SECS", "")
	t.Setenv("SENTIMENT_THRESHOLD", "")

	cfg := Load()
	if cfg.RedisURL != "" {
		t.Fatalf("expected empty redis url, got %s", cfg.RedisURL)
	}
	if len(cfg.Watchlist) != 0 {
		t.Fatalf("expected empty watchlist, got %v", cfg.Watchlist)
	}
	if cfg.SourceTimeoutSecs != 5 {
		t.Fatalf("expected default source timeout 5, got %d", cfg.SourceTimeoutSecs)
	}
	if cfg.QuoteCacheTTLSecs != 30 {
		t.Fatalf("expected default cache ttl 30, got %d", cfg.QuoteCacheTTLSecs)
	}
	if cfg.HistoryWindowDays != 365 || cfg.MinAlignedPoints != 30 {
		t.Fatalf("unexpected history defaults: %+v", cfg)
	}
	if cfg.SentimentThreshold != 0.2 || cfg.SentimentTrendWeight != 0.5 {
		t.Fatalf("unexpected sentiment defaults: %+v", cfg)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %s", cfg.OpenAIModel)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("WATCHLIST", "btc-usd, iren ,MARA")
	t.Setenv("CRYPTO_SOURCES", "Binance,Yahoo")
	t.Setenv("SOURCE_TIMEOUT_SECS", "10")
	t.Setenv("SENTIMENT_THRESHOLD", "0.3")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if len(cfg.Watchlist) != 3 || cfg.Watchlist[0] != "BTC-USD" || cfg.Watchlist[1] != "IREN" {
		t.Fatalf("unexpected watchlist: %v", cfg.Watchlist)
	}
	if len(cfg.CryptoSources) != 2 || cfg.CryptoSources[0] != "binance" {
		t.Fatalf("unexpected crypto sources: %v", cfg.CryptoSources)
	}
	if cfg.SourceTimeoutSecs != 10 {
		t.Fatalf("expected source timeout 10, got %d", cfg.SourceTimeoutSecs)
	}
	if cfg.SentimentThreshold != 0.3 {
		t.Fatalf("expected threshold 0.3, got %v", cfg.SentimentThreshold)
	}

	t.Setenv("SOURCE_TIMEOUT_SECS", "bad")
	t.Setenv("SENTIMENT_THRESHOLD", "2")
	cfg = Load()
	if cfg.SourceTimeoutSecs != 5 {
		t.Fatalf("invalid timeout should fall back to default, got %d", cfg.SourceTimeoutSecs)
	}
	if cfg.SentimentThreshold != 0.2 {
		t.Fatalf("out of range threshold should fall back to default, got %v", cfg.SentimentThreshold)
	}
}
