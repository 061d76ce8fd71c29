// Package news retrieves recent headlines for a ticker from an RSS
// feed and scores each title and summary with VADER sentiment.
package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/mmcdole/gofeed"

	"github.com/marketdash/marketdash/internal/domain/models"
)

// DefaultFeedURL is the Yahoo Finance headline feed; %s is the ticker.
const DefaultFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// maxArticles caps how many articles a single request presents.
const maxArticles = 10

// Source provides recent articles for a ticker.
type Source interface {
	RecentArticles(ctx context.Context, ticker string) ([]models.Article, error)
}

// FeedSource implements Source over an RSS feed.
type FeedSource struct {
	feedURL  string
	parser   *gofeed.Parser
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewFeedSource creates a feed-backed news source. feedURL must
// contain one %s verb for the ticker; empty uses DefaultFeedURL.
func NewFeedSource(feedURL string) *FeedSource {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &FeedSource{
		feedURL:  feedURL,
		parser:   gofeed.NewParser(),
		analyzer: govader.NewSentimentIntensityAnalyzer(),
	}
}

// RecentArticles fetches the feed for the ticker and returns at most
// ten articles, each with compound sentiment scores for its title and
// summary.
func (s *FeedSource) RecentArticles(ctx context.Context, ticker string) ([]models.Article, error) {
	feed, err := s.parser.ParseURLWithContext(fmt.Sprintf(s.feedURL, ticker), ctx)
	if err != nil {
		return nil, fmt.Errorf("news fetch: %w", err)
	}

	articles := make([]models.Article, 0, maxArticles)
	for _, item := range feed.Items {
		if len(articles) == maxArticles {
			break
		}
		a := models.Article{
			Title:            strings.TrimSpace(item.Title),
			Summary:          strings.TrimSpace(item.Description),
			TitleSentiment:   s.analyzer.PolarityScores(item.Title).Compound,
			SummarySentiment: s.analyzer.PolarityScores(item.Description).Compound,
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	return articles, nil
}
