package models

import "time"

// Article is one news headline for a ticker. TitleSentiment and
// SummarySentiment are compound polarity scores in [-1, 1].
type Article struct {
	Title            string    `json:"title"`
	PublishedAt      time.Time `json:"published_at"`
	Summary          string    `json:"summary"`
	TitleSentiment   float64   `json:"title_sentiment"`
	SummarySentiment float64   `json:"summary_sentiment"`
}
