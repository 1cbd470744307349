package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"miner-pulse/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type QuoteReader interface {
	Watchlist() []string
	Quote(ctx context.Context, symbol string) (domain.BookEntry, error)
}

type Predictor interface {
	Predict(ctx context.Context, ticker string, targetBtc, multiplier float64) (*domain.PredictionResult, error)
}

type SentimentReader interface {
	GetSentiment(ctx context.Context, ticker string) (*domain.SentimentResult, error)
}

func StartTelegramBot(token string, quotes QuoteReader, predictor Predictor, sentiments SentimentReader) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send(fmt.Sprintf("Usage: /price MARA\nWatchlist: %s", strings.Join(quotes.Watchlist(), ", ")))
		}
		symbol := domain.NormalizeSymbol(args[0])
		entry, err := quotes.Quote(context.Background(), symbol)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching price for %s: %v", symbol, err))
		}
		return c.Send(formatQuote(symbol, entry))
	})

	b.Handle("/predict", func(c tele.Context) error {
		args := c.Args()
		if len(args) < 2 {
			return c.Send("Usage: /predict MARA 150000")
		}
		ticker := domain.NormalizeSymbol(args[0])
		targetBtc, err := strconv.ParseFloat(args[1], 64)
		if err != nil || targetBtc <= 0 {
			return c.Send("Target BTC price must be a positive number")
		}
		result, err := predictor.Predict(context.Background(), ticker, targetBtc, 1.0)
		if err != nil {
			return c.Send(fmt.Sprintf("Prediction for %s failed: %v", ticker, err))
		}
		return c.Send(formatPrediction(result))
	})

	b.Handle("/sentiment", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /sentiment MARA")
		}
		ticker := domain.NormalizeSymbol(args[0])
		result, err := sentiments.GetSentiment(context.Background(), ticker)
		if err != nil {
			return c.Send(fmt.Sprintf("Sentiment for %s failed: %v", ticker, err))
		}
		return c.Send(formatSentiment(result))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatQuote(symbol string, entry domain.BookEntry) string {
	msg := fmt.Sprintf("%s\nPrice: $%.2f", symbol, entry.Price)
	if ext := entry.Extended; ext != nil {
		msg += fmt.Sprintf("\nMarket: %s\nChange: %.2f%%", ext.MarketState, ext.ChangePct)
		if ext.MarketState == domain.MarketPre && ext.PreMarketPrice > 0 {
			msg += fmt.Sprintf("\nPre-market: $%.2f", ext.PreMarketPrice)
		}
		if ext.MarketState == domain.MarketPost && ext.PostMarketPrice > 0 {
			msg += fmt.Sprintf("\nAfter-hours: $%.2f", ext.PostMarketPrice)
		}
	}
	return msg
}

func formatPrediction(r *domain.PredictionResult) string {
	return fmt.Sprintf(
		"%s at BTC $%.0f\nBeta model: $%.2f\nPower law: $%.2f\nBeta: %.2f  Corr: %.2f\nSamples: %d",
		r.Ticker, r.TargetBTCPrice,
		r.PredictedStockPriceBeta, r.PredictedStockPricePowerLaw,
		r.Beta, r.Correlation, r.SampleSize,
	)
}

func formatSentiment(r *domain.SentimentResult) string {
	return fmt.Sprintf(
		"%s sentiment\nText: %.2f (%s)\nTrend: %.2f (%s)\nComposite: %.2f (%s)\nItems: %d",
		r.Ticker,
		r.Score, r.Label,
		r.TrendScore, r.TrendLabel,
		r.CompositeScore, r.CompositeLabel,
		r.ItemCount,
	)
}
