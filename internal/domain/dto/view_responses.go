package dto

import (
	"github.com/marketdash/marketdash/internal/domain/models"
)

// OverviewResponse is the render model for the overview view: the raw
// price history, the cleaned return table, and the three summary
// statistics.
//
// PriceField names the column the return series was derived from
// ("Close" or "Adjusted Close") for display labeling.
type OverviewResponse struct {
	Ticker     string                `json:"ticker" example:"AAPL"`
	PriceField string                `json:"price_field" example:"Adjusted Close"`
	Bars       []models.PriceBar     `json:"bars"`
	Returns    []models.ReturnPoint  `json:"returns"`
	Metrics    models.MetricsSummary `json:"metrics"`
}

// ForecastResponse is the render model for the forecast view.
// HorizonDays is years x 365.
type ForecastResponse struct {
	Ticker      string                 `json:"ticker" example:"AAPL"`
	PriceField  string                 `json:"price_field" example:"Close"`
	HorizonDays int                    `json:"horizon_days" example:"365"`
	History     []models.ObservedPoint `json:"history"`
	Points      []models.ForecastPoint `json:"points"`
}

// FundamentalsResponse carries the three annual statements for a
// ticker in one payload.
type FundamentalsResponse struct {
	Ticker          string           `json:"ticker" example:"AAPL"`
	BalanceSheet    models.Statement `json:"balance_sheet"`
	IncomeStatement models.Statement `json:"income_statement"`
	CashFlow        models.Statement `json:"cash_flow"`
}

// NewsResponse carries the most recent headlines (at most ten) with
// their sentiment scores.
type NewsResponse struct {
	Ticker   string           `json:"ticker" example:"AAPL"`
	Articles []models.Article `json:"articles"`
}
