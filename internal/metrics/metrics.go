// Package metrics derives the overview statistics from a cleaned
// return series.
package metrics

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/marketdash/marketdash/internal/domain/models"
)

// tradingDays approximates the number of trading days in a year and
// drives the annualization of both statistics.
const tradingDays = 252

// ErrUndefinedRatio is returned when the return series has zero or
// near-zero dispersion, leaving the risk-adjusted ratio undefined.
var ErrUndefinedRatio = errors.New("metrics: standard deviation too close to zero for risk-adjusted return")

// ErrEmptySeries is returned when asked to summarize an empty series;
// a summary is not computed in that case.
var ErrEmptySeries = errors.New("metrics: empty return series")

// Compute summarizes a return series into the three percentages shown
// on the overview view:
//
//	annualReturnPct       = mean(change) x 252 x 100
//	stdDevPct             = popStdDev(change) x sqrt(252) x 100
//	riskAdjustedReturnPct = annualReturnPct / (stdDevPct / 100)
//
// The ratio is Sharpe-like with no risk-free-rate subtraction. The
// standard deviation is the population form, matching the estimator
// the annualized return is scaled against.
func Compute(series models.ReturnSeries) (models.MetricsSummary, error) {
	changes := series.Values()
	if len(changes) == 0 {
		return models.MetricsSummary{}, ErrEmptySeries
	}

	annual := stat.Mean(changes, nil) * tradingDays * 100
	stdDev := stat.PopStdDev(changes, nil) * math.Sqrt(tradingDays) * 100

	stdFraction := stdDev / 100
	if math.Abs(stdFraction) < 1e-12 {
		return models.MetricsSummary{}, ErrUndefinedRatio
	}

	return models.MetricsSummary{
		AnnualReturnPct:       annual,
		StdDevPct:             stdDev,
		RiskAdjustedReturnPct: annual / stdFraction,
	}, nil
}
