package models

// MetricsSummary holds the three return statistics shown on the
// overview view. All three are percentages.
//
// AnnualReturnPct is a simple scaling estimator (mean daily change
// times 252 trading days), not a compounding model.
type MetricsSummary struct {
	AnnualReturnPct       float64 `json:"annual_return_pct" example:"12.4"`
	StdDevPct             float64 `json:"std_dev_pct" example:"21.3"`
	RiskAdjustedReturnPct float64 `json:"risk_adjusted_return_pct" example:"0.58"`
}
