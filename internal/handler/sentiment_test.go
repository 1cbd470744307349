package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"miner-pulse/internal/domain"
)

func TestGetSentimentHappyPath(t *testing.T) {
	sentiments := &stubSentiments{result: &domain.SentimentResult{
		Ticker:         "MARA",
		Score:          0.4,
		Label:          domain.SentimentBullish,
		TrendScore:     0.2,
		TrendLabel:     domain.SentimentBullish,
		CompositeScore: 0.3,
		CompositeLabel: domain.SentimentBullish,
		ItemCount:      12,
		Items: []domain.SentimentItem{
			{Kind: domain.ItemKindNews, Title: "Marathon expands", Label: domain.SentimentBullish, Score: 0.5},
		},
	}}
	r := newTestRouter(&stubQuotes{}, &stubPredictor{}, sentiments)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sentiment?ticker=mara", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if sentiments.lastTicker != "MARA" {
		t.Fatalf("expected normalized ticker, got %s", sentiments.lastTicker)
	}

	var resp domain.SentimentResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.CompositeLabel != domain.SentimentBullish || resp.ItemCount != 12 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.Items) != 1 || resp.Items[0].Kind != domain.ItemKindNews {
		t.Errorf("unexpected items: %+v", resp.Items)
	}
}

func TestGetSentimentRequiresTicker(t *testing.T) {
	sentiments := &stubSentiments{}
	r := newTestRouter(&stubQuotes{}, &stubPredictor{}, sentiments)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sentiment", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if sentiments.calls != 0 {
		t.Errorf("service should not be called without a ticker")
	}
}
