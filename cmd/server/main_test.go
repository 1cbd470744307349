package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"miner-pulse/internal/bot"
	"miner-pulse/internal/config"
	"miner-pulse/internal/job"
	"miner-pulse/internal/marketdata"
	"miner-pulse/internal/provider"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func TestBuildRegistryNames(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	registry := buildRegistry(&config.Config{}, tracer)

	names := map[string]bool{}
	for _, name := range registry.SourceNames() {
		names[name] = true
	}
	for _, want := range []string{"binance", "coingecko", "yahoo", "finnhub", "mock"} {
		if !names[want] {
			t.Errorf("expected source %s to be registered", want)
		}
	}
}

func TestPreferencesOverride(t *testing.T) {
	prefs := preferences(&config.Config{})
	if len(prefs.Crypto) == 0 || prefs.Crypto[0] != "binance" {
		t.Fatalf("expected default crypto chain, got %v", prefs.Crypto)
	}

	prefs = preferences(&config.Config{CryptoSources: []string{"yahoo"}, EquitySources: []string{"yahoo", "mock"}})
	if len(prefs.Crypto) != 1 || prefs.Crypto[0] != "yahoo" {
		t.Fatalf("expected overridden crypto chain, got %v", prefs.Crypto)
	}
	if len(prefs.Equity) != 2 {
		t.Fatalf("expected overridden equity chain, got %v", prefs.Equity)
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origBuildRegistry := buildRegistryFunc
	origStartPoller := startPollerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{PollSecs: 1, SourceTimeoutSecs: 1}
	}
	initRedisFunc = func(context.Context, string) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	buildRegistryFunc = func(cfg *config.Config, tracer trace.Tracer) *marketdata.Registry {
		registry := marketdata.NewRegistry()
		registry.RegisterQuotes(provider.NewMockProvider())
		return registry
	}
	startPollerFunc = func(*job.PricePoller, context.Context) {}
	startTelegramBotFunc = func(string, bot.QuoteReader, bot.Predictor, bot.SentimentReader) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		buildRegistryFunc = origBuildRegistry
		startPollerFunc = origStartPoller
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
