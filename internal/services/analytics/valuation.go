// Package analytics implements the portfolio valuation, risk, scenario and
// backtest engines. All functions are pure: they compute fresh results from
// caller-supplied inputs and never mutate or persist shared state.
package analytics

import (
	"math"
	"sort"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// moverMinValue is the minimum position value for best/worst mover selection.
// Dust positions produce noisy 24h percentages, so they are excluded.
const moverMinValue = 10.0

// Calculate prices the raw holdings against live quotes and aggregates totals,
// allocations and day movers. It never fails: degenerate inputs (empty
// portfolio, zero total value) yield zeroed totals and nil movers.
//
// Quotes may be missing for any id; the holding then falls back to its buy
// price. Holdings in the result are sorted descending by value, ties keeping
// their input order.
func Calculate(holdings []models.Holding, prices map[string]models.PriceQuote) *models.PortfolioData {
	var totalValue, totalCost, dayChangeAbs float64

	detailed := make([]models.EnrichedHolding, 0, len(holdings))
	for _, h := range holdings {
		quote := prices[h.ID]

		price := float64(h.BuyPrice)
		if quote.USD != nil {
			price = *quote.USD
		}

		changePct := 0.0
		if quote.USD24hChange != nil {
			changePct = *quote.USD24hChange
		}

		amount := float64(h.Amount)
		value := amount * price
		costPer := price
		if h.BuyPrice > 0 {
			costPer = float64(h.BuyPrice)
		}
		cost := amount * costPer
		pnlAbs := value - cost
		pnlPct := 0.0
		if cost != 0 {
			pnlPct = pnlAbs / cost * 100
		}

		totalValue += value
		totalCost += cost
		dayChangeAbs += value * (changePct / 100)

		detailed = append(detailed, models.EnrichedHolding{
			ID:           h.ID,
			Symbol:       h.Symbol,
			Name:         h.Name,
			Amount:       amount,
			BuyPrice:     float64(h.BuyPrice),
			Price:        price,
			Value:        value,
			Cost:         cost,
			PnlAbs:       pnlAbs,
			PnlPct:       pnlPct,
			Change24hPct: changePct,
		})
	}

	dayChangePct := 0.0
	if totalValue > 0 {
		dayChangePct = dayChangeAbs / totalValue * 100
	}
	totalPnlAbs := totalValue - totalCost
	totalPnlPct := 0.0
	if totalCost != 0 {
		totalPnlPct = totalPnlAbs / totalCost * 100
	}

	// Allocation over the pre-sort list
	for i := range detailed {
		if totalValue > 0 {
			detailed[i].AllocationPct = detailed[i].Value / totalValue * 100
		} else {
			detailed[i].AllocationPct = 0
		}
	}

	best, worst := selectMovers(detailed)

	sort.SliceStable(detailed, func(i, j int) bool {
		return detailed[i].Value > detailed[j].Value
	})

	return &models.PortfolioData{
		Totals: models.Totals{
			TotalValue:   totalValue,
			TotalCost:    totalCost,
			TotalPnlAbs:  totalPnlAbs,
			TotalPnlPct:  totalPnlPct,
			DayChangeAbs: dayChangeAbs,
			DayChangePct: dayChangePct,
		},
		Holdings: detailed,
		Best:     best,
		Worst:    worst,
	}
}

// selectMovers picks the best and worst 24h movers among holdings worth more
// than moverMinValue with a finite change. Both nil when none qualify; both
// point at the same holding when exactly one does.
func selectMovers(detailed []models.EnrichedHolding) (best, worst *models.EnrichedHolding) {
	var movers []models.EnrichedHolding
	for _, h := range detailed {
		if h.Value > moverMinValue && isFinite(h.Change24hPct) {
			movers = append(movers, h)
		}
	}
	if len(movers) == 0 {
		return nil, nil
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].Change24hPct > movers[j].Change24hPct
	})

	b := movers[0]
	w := movers[len(movers)-1]
	return &b, &w
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
