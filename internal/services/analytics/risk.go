package analytics

import (
	"math"
	"math/rand"
	"sort"

	"github.com/bobmcallan/coinfolio/internal/models"
)

const (
	// simDays is the target simulated horizon in daily steps.
	simDays = 60
	// dailyVol is the assumed daily return standard deviation. A fixed
	// assumption, not an estimate.
	dailyVol = 0.06
	// varQuantile is the loss quantile for the 1-day VaR estimate.
	varQuantile = 0.05
	// maxRiskAssets caps the correlation matrix at the top holdings by value.
	maxRiskAssets = 6
	// varianceFloor keeps correlation denominators away from zero.
	varianceFloor = 1e-9
)

// SimulateFn produces a per-asset daily return series of the requested
// length. The risk engine accepts any implementation so tests can supply
// deterministic fixed series.
type SimulateFn func(asset models.EnrichedHolding, days int) []float64

// NewSimulator returns the default return simulator driven by the supplied
// random generator. Drift is half the asset's 24h change as a damped daily
// proxy; noise is the sum of four uniforms minus 2, halved (Irwin–Hall
// approximation of a standard normal).
func NewSimulator(rng *rand.Rand) SimulateFn {
	return func(asset models.EnrichedHolding, days int) []float64 {
		mean := 0.0
		if isFinite(asset.Change24hPct) {
			mean = asset.Change24hPct / 100 / 2
		}
		series := make([]float64, days)
		for i := range series {
			z := (rng.Float64() + rng.Float64() + rng.Float64() + rng.Float64() - 2) / 2
			series[i] = mean + dailyVol*z
		}
		return series
	}
}

// defaultSimulator builds a simulator with a freshly seeded generator.
func defaultSimulator() SimulateFn {
	return NewSimulator(rand.New(rand.NewSource(int64(rand.Uint64()))))
}

// ComputeVaRAndCorrelations estimates 1-day and 5-day historical-simulation
// VaR and the pairwise correlation matrix over the top holdings by value.
// simulate may be nil, in which case the default random simulator is used.
//
// Returns nil when the portfolio has no value, no holdings, or the simulator
// yields no usable samples.
func ComputeVaRAndCorrelations(data *models.PortfolioData, simulate SimulateFn) *models.VaRResult {
	if data == nil || data.Totals.TotalValue <= 0 || len(data.Holdings) == 0 {
		return nil
	}
	if simulate == nil {
		simulate = defaultSimulator()
	}

	totalValue := data.Totals.TotalValue

	// Holdings are already value-sorted by the valuation engine.
	top := data.Holdings
	if len(top) > maxRiskAssets {
		top = top[:maxRiskAssets]
	}

	weights := make([]float64, len(top))
	series := make([][]float64, len(top))
	days := simDays
	anySeries := false
	for i, asset := range top {
		weights[i] = asset.Value / totalValue
		series[i] = simulate(asset, simDays)
		if len(series[i]) > 0 {
			anySeries = true
			if len(series[i]) < days {
				days = len(series[i])
			}
		}
	}
	if !anySeries || days < 1 {
		return nil
	}

	// Portfolio return per day: weighted sum, skipping any asset whose sample
	// for that day is non-finite. One bad sample drops only that asset's
	// contribution, not the whole day.
	portfolioReturns := make([]float64, 0, days)
	for k := 0; k < days; k++ {
		r := 0.0
		for i := range top {
			if k >= len(series[i]) || !isFinite(series[i][k]) {
				continue
			}
			r += weights[i] * series[i][k]
		}
		portfolioReturns = append(portfolioReturns, r)
	}

	finite := make([]float64, 0, len(portfolioReturns))
	for _, r := range portfolioReturns {
		if isFinite(r) {
			finite = append(finite, r)
		}
	}
	if len(finite) == 0 {
		return nil
	}
	sort.Float64s(finite)

	idx := int(math.Floor(varQuantile * float64(len(finite)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(finite)-1 {
		idx = len(finite) - 1
	}
	q := finite[idx]

	varPct1d := math.Max(0, -q)
	varAbs1d := totalValue * varPct1d
	// Square-root-of-time scaling assumes i.i.d. daily returns.
	varPct5d := varPct1d * math.Sqrt(5)
	varAbs5d := totalValue * varPct5d

	return &models.VaRResult{
		VarAbs1d: varAbs1d,
		VarPct1d: varPct1d,
		VarAbs5d: varAbs5d,
		VarPct5d: varPct5d,
		Matrix:   correlationMatrix(series),
		Assets:   append([]models.EnrichedHolding(nil), top...),
	}
}

// correlationMatrix computes the symmetric pairwise correlation matrix of the
// given return series. Entries for series with fewer than 2 samples keep the
// initial 1.0 fill; the diagonal is fixed at 1. Only the upper triangle is
// computed and mirrored.
func correlationMatrix(series [][]float64) [][]float64 {
	n := len(series)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			matrix[i][j] = 1
		}
	}

	for i := 0; i < n; i++ {
		rI := series[i]
		if len(rI) < 2 {
			continue
		}
		muI := seriesMean(rI)
		sigmaI := sampleStdev(rI, muI)
		for j := i + 1; j < n; j++ {
			rJ := series[j]
			if len(rJ) < 2 {
				continue
			}
			muJ := seriesMean(rJ)
			sigmaJ := sampleStdev(rJ, muJ)

			overlap := len(rI)
			if len(rJ) < overlap {
				overlap = len(rJ)
			}
			cov := 0.0
			for k := 0; k < overlap; k++ {
				cov += (rI[k] - muI) * (rJ[k] - muJ)
			}
			cov /= math.Max(1, float64(overlap-1))

			corr := cov / (sigmaI * sigmaJ)
			matrix[i][j] = corr
			matrix[j][i] = corr
		}
	}

	for i := 0; i < n; i++ {
		matrix[i][i] = 1
	}
	return matrix
}

func seriesMean(s []float64) float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// sampleStdev returns the sample standard deviation (n-1 denominator),
// floored at varianceFloor to avoid zero divisions in correlations.
func sampleStdev(s []float64, mu float64) float64 {
	variance := 0.0
	for _, v := range s {
		variance += (v - mu) * (v - mu)
	}
	variance /= math.Max(1, float64(len(s)-1))
	return math.Sqrt(math.Max(variance, varianceFloor))
}
