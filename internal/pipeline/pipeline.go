// Package pipeline normalizes raw daily price bars into the two shapes
// the rest of the service consumes: a day-over-day return series for
// the statistics view and a (timestamp, value) series for the forecast
// adapter. Transformations are pure and request-scoped.
package pipeline

import (
	"errors"
	"math"

	"github.com/marketdash/marketdash/internal/domain/models"
)

var (
	// ErrEmptyInput is returned when the raw bar sequence is empty,
	// which signals an invalid ticker or an empty date range.
	ErrEmptyInput = errors.New("pipeline: empty price data")

	// ErrEmptyAfterCleaning is returned when transformation leaves no
	// usable rows (fewer than two bars for returns, or every value
	// missing or non-numeric for forecast input).
	ErrEmptyAfterCleaning = errors.New("pipeline: no rows left after cleaning")
)

// FieldPolicy decides which price column a transformation reads.
type FieldPolicy int

const (
	// PreferAdjusted picks the adjusted close when any bar carries one,
	// falling back to the plain close. Used for return statistics.
	PreferAdjusted FieldPolicy = iota

	// PreferClose picks the plain close when present, falling back to
	// the adjusted close. Used for forecast input.
	PreferClose
)

// SelectField resolves the policy against the actual data. The chosen
// field is attached to pipeline output so downstream labels can
// distinguish a series built from "Close" from one built from
// "Adjusted Close"; numerically the pipeline treats them identically.
func SelectField(bars []models.PriceBar, policy FieldPolicy) models.PriceField {
	hasAdjusted := false
	for _, b := range bars {
		if b.AdjustedClose != nil {
			hasAdjusted = true
			break
		}
	}
	if policy == PreferAdjusted && hasAdjusted {
		return models.FieldAdjustedClose
	}
	return models.FieldClose
}

// Returns computes the day-over-day percent change series:
// change[i] = price[i]/price[i-1] - 1 for i >= 1. The undefined
// first-day change is dropped, as is any row whose result is not
// finite (defensive against gaps in the upstream data).
func Returns(bars []models.PriceBar, policy FieldPolicy) (models.ReturnSeries, error) {
	if len(bars) == 0 {
		return models.ReturnSeries{}, ErrEmptyInput
	}

	field := SelectField(bars, policy)
	points := make([]models.ReturnPoint, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Price(field)
		if prev == 0 {
			continue
		}
		change := bars[i].Price(field)/prev - 1
		if math.IsNaN(change) || math.IsInf(change, 0) {
			continue
		}
		points = append(points, models.ReturnPoint{
			Date:          bars[i].Date,
			PercentChange: change,
		})
	}

	if len(points) == 0 {
		return models.ReturnSeries{}, ErrEmptyAfterCleaning
	}
	return models.ReturnSeries{Field: field, Points: points}, nil
}

// ForecastInput projects the bars onto (timestamp, value) pairs for
// the forecast adapter, dropping rows with a missing timestamp or a
// missing or non-numeric value.
func ForecastInput(bars []models.PriceBar, policy FieldPolicy) (models.ObservedSeries, error) {
	if len(bars) == 0 {
		return models.ObservedSeries{}, ErrEmptyInput
	}

	field := SelectField(bars, policy)
	points := make([]models.ObservedPoint, 0, len(bars))
	for _, b := range bars {
		if b.Date.IsZero() {
			continue
		}
		v := b.Price(field)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		points = append(points, models.ObservedPoint{
			Timestamp: b.Date,
			Value:     v,
		})
	}

	if len(points) == 0 {
		return models.ObservedSeries{}, ErrEmptyAfterCleaning
	}
	return models.ObservedSeries{Field: field, Points: points}, nil
}
