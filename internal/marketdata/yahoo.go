// Package marketdata fetches historical daily price bars for a ticker.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketdash/marketdash/internal/domain/models"
)

const (
	// DefaultBaseURL is the Yahoo Finance chart API endpoint.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 5 // requests per second
)

// Source fetches daily price bars for a ticker over a date range.
// An empty result with a nil error signals an invalid ticker or an
// empty range.
type Source interface {
	FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.PriceBar, error)
}

// YahooSource implements Source against the Yahoo Finance v8 chart API.
type YahooSource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a YahooSource.
type Option func(*YahooSource)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(s *YahooSource) { s.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *YahooSource) { s.httpClient = c }
}

// NewYahooSource creates a Yahoo Finance source.
func NewYahooSource(opts ...Option) *YahooSource {
	s := &YahooSource{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// yahooChart mirrors the chart API response. Quote arrays use
// interface{} because Yahoo emits null for holidays and halts.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// FetchDailyBars returns one bar per trading day between start and end,
// ascending by date. Unknown tickers come back as an empty slice, not
// an error, so callers can treat them as an invalid-ticker condition.
func (s *YahooSource) FetchDailyBars(ctx context.Context, ticker string, start, end time.Time) ([]models.PriceBar, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d&events=div%%2Csplits",
		s.baseURL, url.PathEscape(ticker), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser-like agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// Unknown symbol
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, nil
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	var adjusted []interface{}
	if len(result.Indicators.AdjClose) > 0 {
		adjusted = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, okO := at(quote.Open, i)
		h, okH := at(quote.High, i)
		l, okL := at(quote.Low, i)
		c, okC := at(quote.Close, i)
		if !okO && !okH && !okL && !okC {
			continue // null bar (holiday, halt)
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:  o,
			High:  h,
			Low:   l,
			Close: c,
		}
		if v, ok := at(quote.Volume, i); ok {
			bar.Volume = int64(v)
		}
		if v, ok := at(adjusted, i); ok {
			adj := v
			bar.AdjustedClose = &adj
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dedupeByDate(bars), nil
}

func at(values []interface{}, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return toFloat(values[i])
}

// dedupeByDate enforces the one-bar-per-day invariant, keeping the
// last bar seen for a date.
func dedupeByDate(bars []models.PriceBar) []models.PriceBar {
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Date.Equal(b.Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
