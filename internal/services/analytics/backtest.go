package analytics

import (
	"math"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// MarketSeriesKey is the history key carrying the benchmark series, also used
// as the per-period fallback for assets without their own series.
const MarketSeriesKey = "market"

// minBacktestPeriods is the shortest history worth replaying.
const minBacktestPeriods = 3

// periodsPerYear is the fixed annualisation assumption. Injected history
// tables are treated as monthly regardless of their actual periodicity.
const periodsPerYear = 12

// MonthlyReturns is the built-in sample history table: one year of monthly
// fractional returns per asset id plus the market benchmark. Read-only.
var MonthlyReturns = map[string][]float64{
	"bitcoin":  {0.08, -0.12, 0.04, 0.06, -0.05, 0.10, 0.03, -0.02, 0.05, 0.01, -0.07, 0.09},
	"ethereum": {0.10, -0.15, 0.06, 0.07, -0.06, 0.12, 0.05, -0.03, 0.06, 0.02, -0.09, 0.11},
	"solana":   {0.14, -0.18, 0.08, 0.09, -0.08, 0.16, 0.06, -0.04, 0.08, 0.03, -0.12, 0.13},
	"tether":   {0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
	"market":   {0.03, -0.04, 0.02, 0.025, -0.015, 0.035, 0.015, -0.01, 0.02, 0.01, -0.02, 0.03},
}

// Backtest replays historical periodic returns weighted by the current
// allocation, building an equity curve against the market benchmark, and
// derives CAGR, volatility, Sharpe, max drawdown and win rate. history may be
// nil, in which case the built-in monthly table is used. Assets without their
// own series fall back to the market series, resolved per data point.
//
// Returns nil when there are no holdings, no portfolio value, no
// positive-value positions, or fewer than 3 usable periods.
func Backtest(data *models.PortfolioData, history map[string][]float64) *models.BacktestResult {
	if data == nil || len(data.Holdings) == 0 {
		return nil
	}
	total := data.Totals.TotalValue
	if total <= 0 {
		return nil
	}
	if history == nil {
		history = MonthlyReturns
	}

	type weighted struct {
		id     string
		weight float64
	}
	var included []weighted
	for _, h := range data.Holdings {
		if h.Value > 0 {
			included = append(included, weighted{id: h.ID, weight: h.Value / total})
		}
	}
	if len(included) == 0 {
		return nil
	}

	market := history[MarketSeriesKey]

	// Shortest non-empty series among the included assets bounds the replay.
	periods := 0
	for _, w := range included {
		series := history[w.id]
		if series == nil {
			series = market
		}
		if len(series) == 0 {
			continue
		}
		if periods == 0 || len(series) < periods {
			periods = len(series)
		}
	}
	if periods < minBacktestPeriods {
		return nil
	}

	portfolioCurve := make([]float64, 1, periods+1)
	benchmarkCurve := make([]float64, 1, periods+1)
	portfolioCurve[0] = 100
	benchmarkCurve[0] = 100

	wins := 0
	for k := 0; k < periods; k++ {
		marketRet := 0.0
		if k < len(market) && isFinite(market[k]) {
			marketRet = market[k]
		}

		r := 0.0
		for _, w := range included {
			series := history[w.id]
			if series == nil {
				series = market
			}
			v := marketRet
			if k < len(series) && isFinite(series[k]) {
				v = series[k]
			}
			r += w.weight * v
		}

		portfolioCurve = append(portfolioCurve, portfolioCurve[len(portfolioCurve)-1]*(1+r))
		benchmarkCurve = append(benchmarkCurve, benchmarkCurve[len(benchmarkCurve)-1]*(1+marketRet))
		if r >= 0 {
			wins++
		}
	}

	// Per-period arithmetic returns of the resulting curve.
	returns := make([]float64, 0, periods)
	for i := 1; i < len(portfolioCurve); i++ {
		prev := portfolioCurve[i-1]
		if prev > 0 {
			returns = append(returns, (portfolioCurve[i]-prev)/prev)
		}
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	// Population variance: denominator is the count, not count-1.
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	vol := math.Sqrt(math.Max(variance, 0))

	annualizedReturn := math.Pow(1+mean, periodsPerYear) - 1
	annualizedVol := vol * math.Sqrt(periodsPerYear)
	sharpe := math.NaN()
	if annualizedVol != 0 {
		sharpe = annualizedReturn / annualizedVol
	}

	peak := portfolioCurve[0]
	maxDD := 0.0
	for _, v := range portfolioCurve {
		if v > peak {
			peak = v
		}
		if dd := (v - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}

	return &models.BacktestResult{
		CAGR:           annualizedReturn,
		Volatility:     annualizedVol,
		Sharpe:         sharpe,
		MaxDrawdown:    maxDD,
		WinRate:        float64(wins) / float64(periods),
		PortfolioCurve: portfolioCurve,
		BenchmarkCurve: benchmarkCurve,
	}
}
