// Package service orchestrates the four dashboard views. Each view is
// one synchronous request/response computation over freshly fetched
// data; a failure in one view never affects another.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/marketdash/marketdash/internal/cache"
	"github.com/marketdash/marketdash/internal/chart"
	"github.com/marketdash/marketdash/internal/domain/dto"
	"github.com/marketdash/marketdash/internal/domain/models"
	"github.com/marketdash/marketdash/internal/forecast"
	"github.com/marketdash/marketdash/internal/fundamentals"
	"github.com/marketdash/marketdash/internal/marketdata"
	"github.com/marketdash/marketdash/internal/metrics"
	"github.com/marketdash/marketdash/internal/news"
	"github.com/marketdash/marketdash/internal/pipeline"
)

// DashboardService exposes one operation per dashboard view, each
// returning a render model for the presentation layer.
type DashboardService interface {
	Overview(ctx context.Context, ticker string, years int) (*dto.OverviewResponse, error)
	OverviewChart(ctx context.Context, ticker string, years int) ([]byte, error)
	Forecast(ctx context.Context, ticker string, years int) (*dto.ForecastResponse, error)
	ForecastChart(ctx context.Context, ticker string, years int) ([]byte, error)
	Fundamentals(ctx context.Context, ticker string) (*dto.FundamentalsResponse, error)
	News(ctx context.Context, ticker string) (*dto.NewsResponse, error)
}

type dashboardService struct {
	market     marketdata.Source
	funds      fundamentals.Source
	news       news.Source
	forecaster forecast.Forecaster

	// Advisory cache for the quota-limited fundamentals endpoints,
	// keyed by (ticker, statement type).
	statements *cache.TTL[models.Statement]

	now func() time.Time
}

// NewDashboardService wires the view orchestration over the three data
// sources and the forecast adapter. statementTTL controls the advisory
// fundamentals cache; zero disables it.
func NewDashboardService(
	market marketdata.Source,
	funds fundamentals.Source,
	newsSource news.Source,
	forecaster forecast.Forecaster,
	statementTTL time.Duration,
) DashboardService {
	return &dashboardService{
		market:     market,
		funds:      funds,
		news:       newsSource,
		forecaster: forecaster,
		statements: cache.NewTTL[models.Statement](statementTTL),
		now:        time.Now,
	}
}

// fetchBars loads the lookback window of years x 365 days ending now.
func (s *dashboardService) fetchBars(ctx context.Context, ticker string, years int) ([]models.PriceBar, error) {
	end := s.now()
	start := end.AddDate(0, 0, -years*365)
	return s.market.FetchDailyBars(ctx, ticker, start, end)
}

func (s *dashboardService) Overview(ctx context.Context, ticker string, years int) (*dto.OverviewResponse, error) {
	bars, err := s.fetchBars(ctx, ticker, years)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	returns, err := pipeline.Returns(bars, pipeline.PreferAdjusted)
	if err != nil {
		return nil, err
	}
	summary, err := metrics.Compute(returns)
	if err != nil {
		return nil, err
	}

	return &dto.OverviewResponse{
		Ticker:     ticker,
		PriceField: string(returns.Field),
		Bars:       bars,
		Returns:    returns.Points,
		Metrics:    summary,
	}, nil
}

func (s *dashboardService) OverviewChart(ctx context.Context, ticker string, years int) ([]byte, error) {
	bars, err := s.fetchBars(ctx, ticker, years)
	if err != nil {
		return nil, fmt.Errorf("overview chart: %w", err)
	}
	if len(bars) == 0 {
		return nil, pipeline.ErrEmptyInput
	}
	return chart.RenderPriceHistory(ticker, bars)
}

// prepareForecast runs the shared fetch + clean + fit + predict path
// for the forecast view and its chart.
func (s *dashboardService) prepareForecast(ctx context.Context, ticker string, years int) (models.ObservedSeries, []models.ForecastPoint, error) {
	bars, err := s.fetchBars(ctx, ticker, years)
	if err != nil {
		return models.ObservedSeries{}, nil, fmt.Errorf("forecast: %w", err)
	}

	// The forecast view reads the plain close when both columns exist.
	series, err := pipeline.ForecastInput(bars, pipeline.PreferClose)
	if err != nil {
		return models.ObservedSeries{}, nil, err
	}

	model, err := s.forecaster.Fit(series)
	if err != nil {
		return models.ObservedSeries{}, nil, err
	}
	return series, model.Predict(years * 365), nil
}

func (s *dashboardService) Forecast(ctx context.Context, ticker string, years int) (*dto.ForecastResponse, error) {
	series, points, err := s.prepareForecast(ctx, ticker, years)
	if err != nil {
		return nil, err
	}
	return &dto.ForecastResponse{
		Ticker:      ticker,
		PriceField:  string(series.Field),
		HorizonDays: years * 365,
		History:     series.Points,
		Points:      points,
	}, nil
}

func (s *dashboardService) ForecastChart(ctx context.Context, ticker string, years int) ([]byte, error) {
	series, points, err := s.prepareForecast(ctx, ticker, years)
	if err != nil {
		return nil, err
	}
	return chart.RenderForecast(ticker, series.Points, points)
}

func (s *dashboardService) Fundamentals(ctx context.Context, ticker string) (*dto.FundamentalsResponse, error) {
	fetch := func(typ models.StatementType, call func(context.Context, string) (models.Statement, error)) (models.Statement, error) {
		return s.statements.GetOrFetch(cache.Key(ticker, string(typ)), func() (models.Statement, error) {
			return call(ctx, ticker)
		})
	}

	balance, err := fetch(models.StatementBalanceSheet, s.funds.AnnualBalanceSheet)
	if err != nil {
		return nil, err
	}
	income, err := fetch(models.StatementIncomeStatement, s.funds.AnnualIncomeStatement)
	if err != nil {
		return nil, err
	}
	cashFlow, err := fetch(models.StatementCashFlow, s.funds.AnnualCashFlow)
	if err != nil {
		return nil, err
	}

	return &dto.FundamentalsResponse{
		Ticker:          ticker,
		BalanceSheet:    balance,
		IncomeStatement: income,
		CashFlow:        cashFlow,
	}, nil
}

func (s *dashboardService) News(ctx context.Context, ticker string) (*dto.NewsResponse, error) {
	articles, err := s.news.RecentArticles(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return &dto.NewsResponse{Ticker: ticker, Articles: articles}, nil
}
