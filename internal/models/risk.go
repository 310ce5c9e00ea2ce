package models

import (
	"encoding/json"
	"math"
)

// VaRResult holds the historical-simulation Value-at-Risk estimate and the
// pairwise correlation matrix over the top holdings by value.
type VaRResult struct {
	VarAbs1d float64           `json:"varAbs1d"`
	VarPct1d float64           `json:"varPct1d"`
	VarAbs5d float64           `json:"varAbs5d"`
	VarPct5d float64           `json:"varPct5d"`
	Matrix   [][]float64       `json:"matrix"`
	Assets   []EnrichedHolding `json:"assets"`
}

// MacroScenario is one entry of the read-only macro shock catalog.
type MacroScenario struct {
	Label          string  `json:"label"`
	Shock          float64 `json:"shock"`
	GrowthPenalty  float64 `json:"growthPenalty"`
	DefensiveBoost float64 `json:"defensiveBoost"`
	Note           string  `json:"note"`
}

// AssetBucket classifies a holding for scenario sensitivity.
type AssetBucket string

const (
	BucketStable AssetBucket = "stable"
	BucketMega   AssetBucket = "mega"
	BucketAlt    AssetBucket = "alt"
)

// AssetImpact is the per-holding outcome of a scenario projection.
type AssetImpact struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name,omitempty"`
	Adjustment     float64 `json:"adjustment"`
	ProjectedValue float64 `json:"projectedValue"`
}

// ScenarioOptions configures a scenario projection.
type ScenarioOptions struct {
	// ScenarioKey selects a catalog entry; unknown keys fall back to the
	// default scenario rather than failing.
	ScenarioKey string `json:"scenarioKey"`
	// ExtraInvestment adds fresh capital to the invested base; negative
	// values are ignored.
	ExtraInvestment float64 `json:"extraInvestment"`
	// CustomMove overrides the scenario's base shock when set to a finite
	// value.
	CustomMove *float64 `json:"customMove,omitempty"`
}

// ScenarioResult is the output of the scenario projector.
type ScenarioResult struct {
	ScenarioKey    string        `json:"scenarioKey"`
	Label          string        `json:"label"`
	Note           string        `json:"note"`
	ProjectedValue float64       `json:"projectedValue"`
	Invested       float64       `json:"invested"`
	PnlAbs         float64       `json:"pnlAbs"`
	PnlPct         float64       `json:"pnlPct"`
	AssetImpacts   []AssetImpact `json:"assetImpacts"`
}

// BacktestResult holds the equity curves and risk-adjusted performance
// metrics of a historical replay. Curves start at 100 and have one more
// entry than the number of replayed periods.
type BacktestResult struct {
	CAGR           float64   `json:"cagr"`
	Volatility     float64   `json:"volatility"`
	Sharpe         float64   `json:"sharpe"`
	MaxDrawdown    float64   `json:"maxDrawdown"`
	WinRate        float64   `json:"winRate"`
	PortfolioCurve []float64 `json:"portfolioCurve"`
	BenchmarkCurve []float64 `json:"benchmarkCurve"`
}

// MarshalJSON encodes Sharpe as null when it is NaN or infinite. Sharpe is
// NaN for zero-volatility portfolios and encoding/json rejects non-finite
// numbers outright, which would abort the response mid-write.
func (r BacktestResult) MarshalJSON() ([]byte, error) {
	type alias BacktestResult
	out := struct {
		alias
		Sharpe *float64 `json:"sharpe"`
	}{alias: alias(r)}
	if !math.IsNaN(r.Sharpe) && !math.IsInf(r.Sharpe, 0) {
		out.Sharpe = &r.Sharpe
	}
	return json.Marshal(out)
}
