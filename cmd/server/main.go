package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"miner-pulse/internal/bot"
	"miner-pulse/internal/cache"
	"miner-pulse/internal/config"
	"miner-pulse/internal/handler"
	"miner-pulse/internal/job"
	"miner-pulse/internal/marketdata"
	"miner-pulse/internal/provider"
	"miner-pulse/internal/sentiment"
	"miner-pulse/internal/service"
	"miner-pulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "miner-pulse/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	buildRegistryFunc      = buildRegistry
	newPricePollerFunc     = job.NewPricePoller
	startPollerFunc        = func(p *job.PricePoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func buildRegistry(cfg *config.Config, tracer trace.Tracer) *marketdata.Registry {
	registry := marketdata.NewRegistry()
	registry.RegisterQuotes(provider.NewBinanceProvider(tracer))
	registry.RegisterQuotes(provider.NewCoinGeckoProvider(tracer))
	registry.RegisterQuotes(provider.NewYahooProvider(tracer))
	registry.RegisterQuotes(provider.NewFinnhubProvider(cfg.FinnhubAPIKey, tracer))
	registry.RegisterQuotes(provider.NewMockProvider())
	return registry
}

func preferences(cfg *config.Config) marketdata.Preferences {
	prefs := marketdata.DefaultPreferences()
	if len(cfg.CryptoSources) > 0 {
		prefs.Crypto = cfg.CryptoSources
	}
	if len(cfg.EquitySources) > 0 {
		prefs.Equity = cfg.EquitySources
	}
	return prefs
}

// @title           Miner Pulse API
// @version         1.0
// @description     BTC-driven price predictions and sentiment for mining and proxy stocks.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	registry := buildRegistryFunc(cfg, tracer)
	prefs := preferences(cfg)
	sourceTimeout := time.Duration(cfg.SourceTimeoutSecs) * time.Second

	agg := marketdata.NewAggregator(registry, sourceTimeout, tracer)
	history := marketdata.NewHistoryProvider(registry, sourceTimeout, cfg.MinAlignedPoints, tracer)

	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	quoteService := service.NewQuoteService(
		tracer, agg, redisClient, prefs,
		time.Duration(cfg.QuoteCacheTTLSecs)*time.Second, cfg.Watchlist,
	)
	predictionService := service.NewPredictionService(tracer, quoteService, history, prefs, cfg.HistoryWindowDays)

	var classifier sentiment.Classifier = sentiment.NewLexiconClassifier()
	if mc := sentiment.NewModelClassifier(cfg.OpenAIAPIKey, cfg.OpenAIModel); mc != nil {
		classifier = mc
	}
	news := provider.NewRSSProvider(cfg.NewsFeedTemplate, tracer)
	social := provider.NewRedditProvider(tracer)
	sentimentService := service.NewSentimentService(tracer, news, social, classifier, history, prefs, service.SentimentConfig{
		Aggregate: sentiment.AggregateConfig{
			LabelThreshold: cfg.SentimentThreshold,
			TrendWeight:    &cfg.SentimentTrendWeight,
			DisplayCount:   cfg.SentimentDisplayCount,
		},
		MaxItemsPerSource: cfg.SentimentMaxItems,
		FetchTimeout:      sourceTimeout,
		TrendDays:         cfg.SentimentTrendDays,
	})

	// Start watchlist poller (background goroutine, stopped by ctx cancel)
	poller := newPricePollerFunc(tracer, quoteService, cfg.PollSecs)
	startPollerFunc(poller, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, quoteService, predictionService, sentimentService)

	h := newHandlerFunc(tracer, quoteService, predictionService, sentimentService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("miner-pulse"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
