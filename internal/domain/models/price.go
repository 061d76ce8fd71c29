package models

import "time"

// PriceField identifies which upstream price column a derived series
// was computed from. Attached to pipeline output so the presentation
// layer can label a series built from "Close" differently from one
// built from "Adjusted Close".
type PriceField string

const (
	FieldClose         PriceField = "Close"
	FieldAdjustedClose PriceField = "Adjusted Close"
)

// PriceBar represents one daily bar returned by the market data source.
//
// Bars arrive as an ascending sequence, one per trading day, with
// strictly increasing dates. AdjustedClose is nil when the source does
// not provide an adjusted series for the instrument.
type PriceBar struct {
	Date          time.Time `json:"date"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	AdjustedClose *float64  `json:"adjusted_close,omitempty"`
	Volume        int64     `json:"volume"`
}

// Price returns the bar's value for the given field, falling back to
// Close when the adjusted series is absent.
func (b PriceBar) Price(field PriceField) float64 {
	if field == FieldAdjustedClose && b.AdjustedClose != nil {
		return *b.AdjustedClose
	}
	return b.Close
}

// ReturnPoint is one day-over-day percent change.
type ReturnPoint struct {
	Date          time.Time `json:"date"`
	PercentChange float64   `json:"percent_change"`
}

// ReturnSeries is the cleaned day-over-day return series for a ticker,
// labeled with the price field it was derived from.
type ReturnSeries struct {
	Field  PriceField    `json:"field"`
	Points []ReturnPoint `json:"points"`
}

// Values returns the raw percent changes, in order.
func (s ReturnSeries) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.PercentChange
	}
	return out
}

// ObservedPoint is one (timestamp, value) observation handed to the
// forecast adapter.
type ObservedPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// ObservedSeries is the cleaned forecasting input: a (timestamp, value)
// projection of the price bars with unusable rows removed.
type ObservedSeries struct {
	Field  PriceField      `json:"field"`
	Points []ObservedPoint `json:"points"`
}
