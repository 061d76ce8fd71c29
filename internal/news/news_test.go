package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func rssBody(items int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>ACME Headlines</title>`)
	for i := 0; i < items; i++ {
		sentiment := "reports record profit and great growth"
		if i%2 == 1 {
			sentiment = "faces terrible losses after awful quarter"
		}
		fmt.Fprintf(&b, `<item>
			<title>ACME %s (%d)</title>
			<description>The company %s, analysts say.</description>
			<pubDate>Mon, 05 Aug 2024 1%d:00:00 +0000</pubDate>
		</item>`, sentiment, i, sentiment, i%10)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

func newFeedServer(t *testing.T, items int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("s"); got != "ACME" {
			t.Errorf("ticker param = %q, want ACME", got)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = fmt.Fprint(w, rssBody(items))
	}))
}

func TestRecentArticles_ParsesAndScores(t *testing.T) {
	srv := newFeedServer(t, 3)
	defer srv.Close()

	src := NewFeedSource(srv.URL + "/rss?s=%s")
	articles, err := src.RecentArticles(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("got %d articles, want 3", len(articles))
	}

	for i, a := range articles {
		if a.Title == "" || a.Summary == "" {
			t.Fatalf("article %d missing fields: %+v", i, a)
		}
		if a.PublishedAt.IsZero() {
			t.Fatalf("article %d missing publish time", i)
		}
	}
	// Positive headline scores above the negative one.
	if !(articles[0].TitleSentiment > 0 && articles[1].TitleSentiment < 0) {
		t.Fatalf("sentiment not discriminating: pos=%v neg=%v",
			articles[0].TitleSentiment, articles[1].TitleSentiment)
	}
	if !(articles[0].SummarySentiment > articles[1].SummarySentiment) {
		t.Fatalf("summary sentiment not discriminating: %v vs %v",
			articles[0].SummarySentiment, articles[1].SummarySentiment)
	}
}

func TestRecentArticles_CapsAtTen(t *testing.T) {
	srv := newFeedServer(t, 25)
	defer srv.Close()

	src := NewFeedSource(srv.URL + "/rss?s=%s")
	articles, err := src.RecentArticles(context.Background(), "ACME")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 10 {
		t.Fatalf("got %d articles, want 10", len(articles))
	}
}

func TestRecentArticles_FeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	src := NewFeedSource(srv.URL + "/rss?s=%s")
	if _, err := src.RecentArticles(context.Background(), "ACME"); err == nil {
		t.Fatal("expected error for failing feed")
	}
}
