package analytics

import (
	"math"
	"strings"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// DefaultScenarioKey is used when an unknown scenario key is requested.
const DefaultScenarioKey = "inflation"

// MacroScenarios is the read-only macro shock catalog. Initialized once,
// never mutated.
var MacroScenarios = map[string]models.MacroScenario{
	"inflation": {
		Label:          "Inflation spike",
		Shock:          -0.12,
		GrowthPenalty:  -0.18,
		DefensiveBoost: 0.05,
		Note:           "Inflation hurting growth; stables and quality fare better.",
	},
	"rateHike": {
		Label:          "Rate hike cycle",
		Shock:          -0.18,
		GrowthPenalty:  -0.16,
		DefensiveBoost: 0.02,
		Note:           "Higher rates pressure duration-heavy and speculative assets.",
	},
	"liquidity": {
		Label:          "Liquidity crunch",
		Shock:          -0.25,
		GrowthPenalty:  -0.22,
		DefensiveBoost: -0.05,
		Note:           "Dollar strength and deleveraging favor stables, hurt alts.",
	},
	"reflation": {
		Label:          "Risk-on reflation",
		Shock:          0.08,
		GrowthPenalty:  0.14,
		DefensiveBoost: -0.06,
		Note:           "Liquidity returns; growth and beta lead while stables lag.",
	},
}

var stableIDs = map[string]bool{
	"tether":   true,
	"usdt":     true,
	"usd-coin": true,
	"usdc":     true,
}

var megaIDs = map[string]bool{
	"bitcoin":  true,
	"ethereum": true,
}

// ClassifyAssetBucket maps an asset id to its scenario sensitivity bucket.
func ClassifyAssetBucket(id string) models.AssetBucket {
	id = strings.ToLower(id)
	if stableIDs[id] {
		return models.BucketStable
	}
	if megaIDs[id] {
		return models.BucketMega
	}
	return models.BucketAlt
}

// ProjectScenarioOutcome applies a macro shock to each holding with
// bucket-sensitive dampening and penalties. Stables see the shock heavily
// dampened and floored before the defensive boost; mega caps get half the
// boost; everything else takes the growth penalty.
//
// Returns nil when the portfolio has no holdings.
func ProjectScenarioOutcome(data *models.PortfolioData, opts models.ScenarioOptions) *models.ScenarioResult {
	if data == nil || len(data.Holdings) == 0 {
		return nil
	}

	key := opts.ScenarioKey
	if key == "" {
		key = DefaultScenarioKey
	}
	scenario, ok := MacroScenarios[key]
	if !ok {
		scenario = MacroScenarios[DefaultScenarioKey]
	}

	baseShock := scenario.Shock
	if opts.CustomMove != nil && isFinite(*opts.CustomMove) {
		baseShock = *opts.CustomMove
	}

	totalValue := data.Totals.TotalValue
	workingTotal := totalValue
	if opts.ExtraInvestment > 0 {
		workingTotal += opts.ExtraInvestment
	}

	projected := 0.0
	impacts := make([]models.AssetImpact, 0, len(data.Holdings))
	for _, h := range data.Holdings {
		adj := baseShock
		switch ClassifyAssetBucket(h.ID) {
		case models.BucketStable:
			// Fixed -2% floor irrespective of scenario severity.
			adj = math.Max(adj*0.08, -0.02) + scenario.DefensiveBoost
		case models.BucketMega:
			adj += scenario.DefensiveBoost * 0.5
		default:
			adj += scenario.GrowthPenalty
		}

		value := h.Value * (1 + adj)
		projected += value
		impacts = append(impacts, models.AssetImpact{
			ID:             h.ID,
			Symbol:         h.Symbol,
			Name:           h.Name,
			Adjustment:     adj,
			ProjectedValue: value,
		})
	}

	pnlAbs := projected - workingTotal
	pnlPct := 0.0
	if workingTotal != 0 {
		pnlPct = pnlAbs / workingTotal
	}

	return &models.ScenarioResult{
		ScenarioKey:    key,
		Label:          scenario.Label,
		Note:           scenario.Note,
		ProjectedValue: projected,
		Invested:       workingTotal,
		PnlAbs:         pnlAbs,
		PnlPct:         pnlPct,
		AssetImpacts:   impacts,
	}
}
