// Package fundamentals retrieves annual financial statements from the
// Alpha Vantage fundamental data API and reshapes them into
// period-columned tables.
package fundamentals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/marketdash/marketdash/internal/domain/models"
)

const (
	// DefaultBaseURL is the Alpha Vantage query endpoint.
	DefaultBaseURL = "https://www.alphavantage.co"

	defaultTimeout = 30 * time.Second

	// The free tier allows very few calls; keep the limiter tight so a
	// burst of views cannot burn the quota in one second.
	defaultRateLimit = 1
)

var (
	// ErrMissingAPIKey is returned when no credential was configured.
	// Surfaces at request time on the fundamentals view only, never as
	// a startup failure.
	ErrMissingAPIKey = errors.New("fundamentals: API key not configured")

	// ErrQuotaExceeded is returned when the upstream reports call-
	// frequency or quota exhaustion.
	ErrQuotaExceeded = errors.New("fundamentals: API quota exceeded")

	// ErrUnknownTicker is returned when the upstream has no statements
	// for the symbol.
	ErrUnknownTicker = errors.New("fundamentals: no statements for ticker")
)

// Source provides the three annual statements for a ticker.
type Source interface {
	AnnualBalanceSheet(ctx context.Context, ticker string) (models.Statement, error)
	AnnualIncomeStatement(ctx context.Context, ticker string) (models.Statement, error)
	AnnualCashFlow(ctx context.Context, ticker string) (models.Statement, error)
}

// Client implements Source against Alpha Vantage. The API key is
// injected once at construction, not read from the environment ad hoc.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(requestsPerSecond int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates an Alpha Vantage client. An empty apiKey is
// allowed; calls will fail with ErrMissingAPIKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnnualBalanceSheet returns the annual balance sheet for the ticker.
func (c *Client) AnnualBalanceSheet(ctx context.Context, ticker string) (models.Statement, error) {
	return c.fetchStatement(ctx, ticker, "BALANCE_SHEET", models.StatementBalanceSheet)
}

// AnnualIncomeStatement returns the annual income statement.
func (c *Client) AnnualIncomeStatement(ctx context.Context, ticker string) (models.Statement, error) {
	return c.fetchStatement(ctx, ticker, "INCOME_STATEMENT", models.StatementIncomeStatement)
}

// AnnualCashFlow returns the annual cash flow statement.
func (c *Client) AnnualCashFlow(ctx context.Context, ticker string) (models.Statement, error) {
	return c.fetchStatement(ctx, ticker, "CASH_FLOW", models.StatementCashFlow)
}

// statementEnvelope mirrors the upstream response. Quota exhaustion
// arrives as a 200 with a "Note" or "Information" field instead of
// report data.
type statementEnvelope struct {
	Symbol        string            `json:"symbol"`
	AnnualReports []json.RawMessage `json:"annualReports"`
	Note          string            `json:"Note"`
	Information   string            `json:"Information"`
	ErrorMessage  string            `json:"Error Message"`
}

func (c *Client) fetchStatement(ctx context.Context, ticker, function string, typ models.StatementType) (models.Statement, error) {
	if c.apiKey == "" {
		return models.Statement{}, ErrMissingAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return models.Statement{}, err
	}

	params := url.Values{}
	params.Set("function", function)
	params.Set("symbol", ticker)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Statement{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Statement{}, fmt.Errorf("fundamentals fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Statement{}, fmt.Errorf("fundamentals read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Statement{}, fmt.Errorf("fundamentals: status %d, body: %s", resp.StatusCode, string(body))
	}

	var env statementEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return models.Statement{}, fmt.Errorf("fundamentals decode: %w", err)
	}
	if env.Note != "" || env.Information != "" {
		return models.Statement{}, ErrQuotaExceeded
	}
	if env.ErrorMessage != "" {
		return models.Statement{}, fmt.Errorf("fundamentals api error: %s", env.ErrorMessage)
	}
	if len(env.AnnualReports) == 0 {
		return models.Statement{}, ErrUnknownTicker
	}

	return transpose(ticker, typ, env.AnnualReports)
}

// transpose reshapes the per-period report objects into a table with
// one column per fiscal period: the period-end dates become the column
// headers, the remaining line items become rows.
func transpose(ticker string, typ models.StatementType, reports []json.RawMessage) (models.Statement, error) {
	parsed := make([]map[string]string, len(reports))
	for i, raw := range reports {
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return models.Statement{}, fmt.Errorf("fundamentals report decode: %w", err)
		}
		parsed[i] = m
	}

	stmt := models.Statement{Ticker: ticker, Type: typ}
	for _, m := range parsed {
		stmt.Periods = append(stmt.Periods, m["fiscalDateEnding"])
	}

	// Line-item order follows the upstream field order of the first
	// report; a plain map would shuffle rows between requests.
	items, err := fieldOrder(reports[0])
	if err != nil {
		return models.Statement{}, err
	}
	for _, item := range items {
		if item == "fiscalDateEnding" || item == "reportedCurrency" {
			continue // header rows, consumed above
		}
		row := models.StatementRow{Item: item, Values: make([]string, len(parsed))}
		for i, m := range parsed {
			row.Values[i] = m[item]
		}
		stmt.Rows = append(stmt.Rows, row)
	}

	return stmt, nil
}

// fieldOrder extracts the top-level key order of a JSON object.
func fieldOrder(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("fundamentals: report is not an object")
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("fundamentals: unexpected token %v in report", tok)
		}
		keys = append(keys, key)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		depth := 1
		for depth > 0 {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := tok.(json.Delim); ok {
				if d == '{' || d == '[' {
					depth++
				} else {
					depth--
				}
			}
		}
	}
	return nil
}
