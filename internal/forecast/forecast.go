// Package forecast fits a univariate time-series model to an observed
// price series and extends it over a future horizon. The model is an
// ordinary-least-squares fit of a linear trend plus weekly and yearly
// Fourier seasonalities, with a constant-width uncertainty band from
// the in-sample residuals.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/marketdash/marketdash/internal/domain/models"
)

const (
	weeklyPeriod  = 7.0
	yearlyPeriod  = 365.25
	weeklyOrder   = 2
	yearlyOrder   = 3
	intervalWidth = 1.96 // ~95% band assuming roughly normal residuals

	// Seasonal blocks are only fitted when the sample spans enough of
	// the period to identify them.
	minWeeklySpanDays = 14.0
	minYearlySpanDays = 730.0
)

// ErrTooFewObservations is returned when the series is too short to
// fit even the trend component.
var ErrTooFewObservations = errors.New("forecast: need at least two observations")

// Forecaster fits a model to an observed series.
type Forecaster interface {
	Fit(series models.ObservedSeries) (*Model, error)
}

// Model is a fitted forecaster, ready to extend the series over a
// horizon of future days.
type Model struct {
	origin      time.Time
	last        time.Time
	beta        []float64
	weekly      bool
	yearly      bool
	residualStd float64
}

// SeasonalTrend is the default Forecaster implementation.
type SeasonalTrend struct{}

// NewSeasonalTrend returns the default forecaster.
func NewSeasonalTrend() *SeasonalTrend { return &SeasonalTrend{} }

// Fit estimates the model coefficients by least squares over the
// observed series. Seasonal components are included only when the
// sample spans enough time to identify them, so short histories
// degrade to a plain trend fit instead of failing.
func (f *SeasonalTrend) Fit(series models.ObservedSeries) (*Model, error) {
	obs := series.Points
	if len(obs) < 2 {
		return nil, ErrTooFewObservations
	}

	origin := obs[0].Timestamp
	span := daysSince(origin, obs[len(obs)-1].Timestamp)

	m := &Model{
		origin: origin,
		last:   obs[len(obs)-1].Timestamp,
		weekly: span >= minWeeklySpanDays && len(obs) >= 4*weeklyOrder,
		yearly: span >= minYearlySpanDays && len(obs) >= 4*yearlyOrder,
	}

	p := m.featureCount()
	if len(obs) < p {
		// Not enough rows for the seasonal design; retry trend-only.
		m.weekly = false
		m.yearly = false
		p = m.featureCount()
	}

	x := mat.NewDense(len(obs), p, nil)
	y := mat.NewVecDense(len(obs), nil)
	for i, o := range obs {
		x.SetRow(i, m.features(daysSince(origin, o.Timestamp)))
		y.SetVec(i, o.Value)
	}

	var beta mat.VecDense
	if err := beta.SolveVec(x, y); err != nil {
		return nil, fmt.Errorf("forecast: least squares fit failed: %w", err)
	}
	m.beta = make([]float64, p)
	for i := range m.beta {
		m.beta[i] = beta.AtVec(i)
	}

	residuals := make([]float64, len(obs))
	for i, o := range obs {
		_, _, _, fitted := m.evaluate(daysSince(origin, o.Timestamp))
		residuals[i] = o.Value - fitted
	}
	m.residualStd = stat.StdDev(residuals, nil)
	if math.IsNaN(m.residualStd) {
		m.residualStd = 0
	}

	return m, nil
}

// Predict extends the fitted model over the next horizonDays calendar
// days past the last observation, one point per day.
func (m *Model) Predict(horizonDays int) []models.ForecastPoint {
	if horizonDays < 0 {
		horizonDays = 0
	}
	out := make([]models.ForecastPoint, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		ts := m.last.AddDate(0, 0, i)
		trend, weekly, yearly, total := m.evaluate(daysSince(m.origin, ts))
		band := intervalWidth * m.residualStd
		out = append(out, models.ForecastPoint{
			Timestamp:  ts,
			Predicted:  total,
			LowerBound: total - band,
			UpperBound: total + band,
			Trend:      trend,
			Weekly:     weekly,
			Yearly:     yearly,
		})
	}
	return out
}

func (m *Model) featureCount() int {
	n := 2 // intercept + slope
	if m.weekly {
		n += 2 * weeklyOrder
	}
	if m.yearly {
		n += 2 * yearlyOrder
	}
	return n
}

// features builds one design-matrix row for an offset of t days from
// the series origin.
func (m *Model) features(t float64) []float64 {
	row := make([]float64, 0, m.featureCount())
	row = append(row, 1, t)
	if m.weekly {
		row = appendHarmonics(row, t, weeklyPeriod, weeklyOrder)
	}
	if m.yearly {
		row = appendHarmonics(row, t, yearlyPeriod, yearlyOrder)
	}
	return row
}

func appendHarmonics(row []float64, t, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		angle := 2 * math.Pi * float64(k) * t / period
		row = append(row, math.Sin(angle), math.Cos(angle))
	}
	return row
}

// evaluate computes the additive components at offset t.
func (m *Model) evaluate(t float64) (trend, weekly, yearly, total float64) {
	row := m.features(t)
	trend = m.beta[0] + m.beta[1]*row[1]
	idx := 2
	if m.weekly {
		for j := 0; j < 2*weeklyOrder; j++ {
			weekly += m.beta[idx] * row[idx]
			idx++
		}
	}
	if m.yearly {
		for j := 0; j < 2*yearlyOrder; j++ {
			yearly += m.beta[idx] * row[idx]
			idx++
		}
	}
	return trend, weekly, yearly, trend + weekly + yearly
}

func daysSince(origin, ts time.Time) float64 {
	return ts.Sub(origin).Hours() / 24
}
