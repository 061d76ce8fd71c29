package models

import "time"

// ForecastPoint is one future-dated prediction produced by the
// forecast adapter, with its uncertainty band and the additive
// component breakdown (trend plus seasonalities).
type ForecastPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Predicted  float64   `json:"predicted"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Trend      float64   `json:"trend"`
	Weekly     float64   `json:"weekly"`
	Yearly     float64   `json:"yearly"`
}
