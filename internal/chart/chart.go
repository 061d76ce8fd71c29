// Package chart renders the dashboard's PNG charts with go-chart.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/marketdash/marketdash/internal/domain/models"
)

// RenderPriceHistory renders the overview time-series chart: open and
// close lines, plus the adjusted close when the data carries one
// (falling back to the close with an explicit label, matching the
// dashboard's behavior for unadjusted instruments).
// Returns raw PNG bytes.
func RenderPriceHistory(ticker string, bars []models.PriceBar) ([]byte, error) {
	if len(bars) < 2 {
		return nil, fmt.Errorf("need at least 2 bars, got %d", len(bars))
	}

	xValues := make([]time.Time, len(bars))
	openY := make([]float64, len(bars))
	closeY := make([]float64, len(bars))
	adjY := make([]float64, len(bars))
	hasAdjusted := false
	for i, b := range bars {
		xValues[i] = b.Date
		openY[i] = b.Open
		closeY[i] = b.Close
		adjY[i] = b.Price(models.FieldAdjustedClose)
		if b.AdjustedClose != nil {
			hasAdjusted = true
		}
	}

	adjName := "Adj. Close"
	if !hasAdjusted {
		adjName = "Adj. Close (using Close)"
	}

	graph := chart.Chart{
		Title:  ticker + " Price History",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Stock Open",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("9ca3af"),
					StrokeWidth: 1.5,
				},
				XValues: xValues,
				YValues: openY,
			},
			chart.TimeSeries{
				Name: "Stock Close",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.0,
				},
				XValues: xValues,
				YValues: closeY,
			},
			chart.TimeSeries{
				Name: adjName,
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("2a9d8f"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: adjY,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderForecast renders observed history with the predicted path and
// its uncertainty band. Returns raw PNG bytes.
func RenderForecast(ticker string, history []models.ObservedPoint, points []models.ForecastPoint) ([]byte, error) {
	if len(history) < 2 || len(points) == 0 {
		return nil, fmt.Errorf("need history and forecast points, got %d/%d", len(history), len(points))
	}

	histX := make([]time.Time, len(history))
	histY := make([]float64, len(history))
	for i, p := range history {
		histX[i] = p.Timestamp
		histY[i] = p.Value
	}

	fcX := make([]time.Time, len(points))
	fcY := make([]float64, len(points))
	loY := make([]float64, len(points))
	hiY := make([]float64, len(points))
	for i, p := range points {
		fcX[i] = p.Timestamp
		fcY[i] = p.Predicted
		loY[i] = p.LowerBound
		hiY[i] = p.UpperBound
	}

	graph := chart.Chart{
		Title:  ticker + " Forecast",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Observed",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.0,
				},
				XValues: histX,
				YValues: histY,
			},
			chart.TimeSeries{
				Name: "Forecast",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2a9d8f"),
					StrokeWidth: 2.0,
				},
				XValues: fcX,
				YValues: fcY,
			},
			chart.TimeSeries{
				Name: "Lower Bound",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.0,
					StrokeDashArray: []float64{4.0, 4.0},
				},
				XValues: fcX,
				YValues: loY,
			},
			chart.TimeSeries{
				Name: "Upper Bound",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.0,
					StrokeDashArray: []float64{4.0, 4.0},
				},
				XValues: fcX,
				YValues: hiY,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
