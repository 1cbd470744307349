package provider

import (
	"context"
	"strings"
	"testing"
)

func TestMockQuoteAlwaysSucceeds(t *testing.T) {
	t.Parallel()

	p := NewMockProvider()
	for _, sym := range []string{"BTC-USD", "IREN", "UNKNOWN"} {
		q, err := p.Quote(context.Background(), sym)
		if err != nil {
			t.Fatalf("mock quote for %s failed: %v", sym, err)
		}
		if q.Price <= 0 {
			t.Fatalf("mock price for %s must be positive, got %v", sym, q.Price)
		}
		if q.Source != "mock" {
			t.Fatalf("unexpected source: %s", q.Source)
		}
	}
}

func TestMockDailyClosesDeterministic(t *testing.T) {
	t.Parallel()

	p := NewMockProvider()
	a, err := p.DailyCloses(context.Background(), "IREN", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := p.DailyCloses(context.Background(), "IREN", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Len() != 90 || b.Len() != 90 {
		t.Fatalf("expected 90 points, got %d and %d", a.Len(), b.Len())
	}
	for i := range a.Points {
		if a.Points[i] != b.Points[i] {
			t.Fatalf("mock series must be deterministic, differs at %d: %+v vs %+v", i, a.Points[i], b.Points[i])
		}
	}
}

func TestMockSeriesVaries(t *testing.T) {
	t.Parallel()

	p := NewMockProvider()
	s, _ := p.DailyCloses(context.Background(), "BTC-USD", 60)
	first := s.Points[0].Value
	varies := false
	for _, pt := range s.Points[1:] {
		if pt.Value != first {
			varies = true
			break
		}
	}
	if !varies {
		t.Fatal("mock closes must vary so regressions have variance")
	}
}

func TestMockSocialPosts(t *testing.T) {
	t.Parallel()

	posts := MockSocialPosts("MARA", 7)
	if len(posts) != 7 {
		t.Fatalf("expected 7 posts, got %d", len(posts))
	}
	for i, post := range posts {
		if !strings.Contains(post.Excerpt, "MARA") {
			t.Errorf("post %d does not mention the query: %q", i, post.Excerpt)
		}
		if post.Engagement <= 0 {
			t.Errorf("post %d has no engagement", i)
		}
		if post.Source != "mock" {
			t.Errorf("post %d has source %q", i, post.Source)
		}
	}
	again := MockSocialPosts("MARA", 7)
	for i := range posts {
		if posts[i].Excerpt != again[i].Excerpt || posts[i].Engagement != again[i].Engagement {
			t.Fatalf("mock posts must be deterministic, differ at %d", i)
		}
	}
}
