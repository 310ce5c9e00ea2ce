package analytics

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// RenderBacktestChart renders a PNG line chart of the backtest equity curves.
// Two series: Portfolio (blue solid) and Benchmark (gray dashed), indexed by
// period number starting at 0. Returns raw PNG bytes.
func RenderBacktestChart(result *models.BacktestResult) ([]byte, error) {
	if result == nil || len(result.PortfolioCurve) < 2 {
		return nil, fmt.Errorf("need a backtest result with at least 2 curve points")
	}

	xValues := make([]float64, len(result.PortfolioCurve))
	for i := range xValues {
		xValues[i] = float64(i)
	}

	portfolioSeries := chart.ContinuousSeries{
		Name: "Portfolio",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: result.PortfolioCurve,
	}

	benchmarkSeries := chart.ContinuousSeries{
		Name: "Benchmark",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues[:len(result.BenchmarkCurve)],
		YValues: result.BenchmarkCurve,
	}

	graph := chart.Chart{
		Title:  "Backtest Equity Curve",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("P%d", int(f))
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			portfolioSeries,
			benchmarkSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
