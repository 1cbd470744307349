package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"miner-pulse/internal/domain"
	"miner-pulse/internal/marketdata"
	"miner-pulse/internal/provider"
	"miner-pulse/internal/sentiment"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NewsFetcher pulls per-ticker headlines.
type NewsFetcher interface {
	FetchTickerNews(ctx context.Context, ticker string, maxItems int) ([]provider.ContentItem, error)
}

// SocialFetcher searches social posts mentioning a query.
type SocialFetcher interface {
	SearchPosts(ctx context.Context, query string, limit int) ([]provider.ContentItem, error)
}

// SeriesReader supplies daily closes for the trend signal.
type SeriesReader interface {
	DailyCloses(ctx context.Context, symbol string, days int, prefs marketdata.Preferences) (domain.PriceSeries, error)
}

// SentimentConfig tunes the pipeline. Zero values take defaults.
type SentimentConfig struct {
	Aggregate         sentiment.AggregateConfig
	MaxItemsPerSource int           // default 40
	FetchTimeout      time.Duration // default 5s
	TrendDays         int           // default 90
}

func (c SentimentConfig) withDefaults() SentimentConfig {
	if c.MaxItemsPerSource <= 0 {
		c.MaxItemsPerSource = 40
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 5 * time.Second
	}
	if c.TrendDays <= 0 {
		c.TrendDays = 90
	}
	return c
}

// SentimentService runs the full pipeline for one ticker: fetch news
// and social posts concurrently, classify, read the price trend,
// aggregate. A source failing means fewer items, never a request
// error; social falls back to canned posts so the pipeline always has
// something to chew on.
type SentimentService struct {
	tracer     trace.Tracer
	news       NewsFetcher
	social     SocialFetcher
	classifier sentiment.Classifier
	series     SeriesReader
	prefs      marketdata.Preferences
	cfg        SentimentConfig
}

func NewSentimentService(
	tracer trace.Tracer,
	news NewsFetcher,
	social SocialFetcher,
	classifier sentiment.Classifier,
	series SeriesReader,
	prefs marketdata.Preferences,
	cfg SentimentConfig,
) *SentimentService {
	return &SentimentService{
		tracer:     tracer,
		news:       news,
		social:     social,
		classifier: classifier,
		series:     series,
		prefs:      prefs,
		cfg:        cfg.withDefaults(),
	}
}

// GetSentiment aggregates the current sentiment picture for ticker.
func (s *SentimentService) GetSentiment(ctx context.Context, ticker string) (*domain.SentimentResult, error) {
	ctx, span := s.tracer.Start(ctx, "sentiment-service.get-sentiment")
	defer span.End()

	ticker = domain.NormalizeSymbol(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required: %w", domain.ErrInvalidInput)
	}
	span.SetAttributes(attribute.String("ticker", ticker))

	newsCh := make(chan []domain.SentimentItem, 1)
	socialCh := make(chan []domain.SentimentItem, 1)
	trendCh := make(chan float64, 1)

	go func() { newsCh <- s.fetchNews(ctx, ticker) }()
	go func() { socialCh <- s.fetchSocial(ctx, ticker) }()
	go func() { trendCh <- s.fetchTrend(ctx, ticker) }()

	items := append(<-newsCh, <-socialCh...)
	trendScore := <-trendCh

	scored := s.classifier.Classify(ctx, items)
	result := sentiment.Aggregate(ticker, scored, trendScore, s.cfg.Aggregate)
	return &result, nil
}

func (s *SentimentService) fetchNews(ctx context.Context, ticker string) []domain.SentimentItem {
	if s.news == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	raw, err := s.news.FetchTickerNews(ctx, ticker, s.cfg.MaxItemsPerSource)
	if err != nil {
		log.Printf("news fetch failed for %s, continuing without: %v", ticker, err)
		return nil
	}
	items := make([]domain.SentimentItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, newsItem(item))
	}
	return items
}

func (s *SentimentService) fetchSocial(ctx context.Context, ticker string) []domain.SentimentItem {
	query := searchQuery(ticker)
	var raw []provider.ContentItem

	if s.social != nil {
		fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
		var err error
		raw, err = s.social.SearchPosts(fetchCtx, query, s.cfg.MaxItemsPerSource)
		cancel()
		if err != nil {
			log.Printf("social fetch failed for %s, using mock posts: %v", ticker, err)
			raw = nil
		}
	}
	if len(raw) == 0 {
		raw = provider.MockSocialPosts(ticker, 10)
	}

	items := make([]domain.SentimentItem, 0, len(raw))
	for _, item := range raw {
		items = append(items, socialItem(item))
	}
	return items
}

func (s *SentimentService) fetchTrend(ctx context.Context, ticker string) float64 {
	if s.series == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	series, err := s.series.DailyCloses(ctx, ticker, s.cfg.TrendDays, s.prefs)
	if err != nil {
		log.Printf("trend history failed for %s, scoring neutral: %v", ticker, err)
		return 0
	}
	return sentiment.TrendScore(series.Closes())
}

// searchQuery widens the social search with the company name when one
// is on file, so posts that never mention the ticker still count.
func searchQuery(ticker string) string {
	if name, ok := domain.CompanyName[ticker]; ok {
		return fmt.Sprintf("%s OR %q", ticker, name)
	}
	return ticker
}

func newsItem(item provider.ContentItem) domain.SentimentItem {
	providerName := item.Author
	if channel, ok := item.Metadata["channel"].(string); ok && channel != "" {
		providerName = channel
	}
	if providerName == "" {
		providerName = item.Source
	}
	return domain.SentimentItem{
		Kind:        domain.ItemKindNews,
		Title:       item.Title,
		Provider:    providerName,
		URL:         item.URL,
		Engagement:  item.Engagement,
		PublishedAt: item.PublishedAt,
	}
}

func socialItem(item provider.ContentItem) domain.SentimentItem {
	content := item.Excerpt
	if content == "" {
		content = item.Title
	}
	return domain.SentimentItem{
		Kind:        domain.ItemKindSocial,
		Content:     content,
		Author:      item.Author,
		URL:         item.URL,
		Engagement:  item.Engagement,
		PublishedAt: item.PublishedAt,
	}
}
