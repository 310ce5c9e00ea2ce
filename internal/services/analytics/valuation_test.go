package analytics

import (
	"math"
	"testing"

	"github.com/bobmcallan/coinfolio/internal/models"
)

func fp(v float64) *float64 { return &v }

func quote(usd, change float64) models.PriceQuote {
	return models.PriceQuote{USD: fp(usd), USD24hChange: fp(change)}
}

func TestCalculateTotals(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Symbol: "BTC", Amount: 0.5, BuyPrice: 40000},
		{ID: "ethereum", Symbol: "ETH", Amount: 10, BuyPrice: 2000},
	}
	prices := map[string]models.PriceQuote{
		"bitcoin":  quote(60000, 2.5),
		"ethereum": quote(2500, -1.0),
	}

	data := Calculate(holdings, prices)

	wantValue := 0.5*60000 + 10*2500.0 // 55000
	if math.Abs(data.Totals.TotalValue-wantValue) > 1e-9 {
		t.Errorf("TotalValue = %.2f, want %.2f", data.Totals.TotalValue, wantValue)
	}

	wantCost := 0.5*40000 + 10*2000.0 // 40000
	if math.Abs(data.Totals.TotalCost-wantCost) > 1e-9 {
		t.Errorf("TotalCost = %.2f, want %.2f", data.Totals.TotalCost, wantCost)
	}

	if math.Abs(data.Totals.TotalPnlAbs-(wantValue-wantCost)) > 1e-9 {
		t.Errorf("TotalPnlAbs = %.2f, want %.2f", data.Totals.TotalPnlAbs, wantValue-wantCost)
	}

	// Sum of holding values must equal the total
	sum := 0.0
	for _, h := range data.Holdings {
		sum += h.Value
	}
	if math.Abs(sum-data.Totals.TotalValue) > 1e-9 {
		t.Errorf("sum of values = %.2f, want %.2f", sum, data.Totals.TotalValue)
	}
}

func TestCalculateDayChange(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 1, BuyPrice: 50000},
	}
	prices := map[string]models.PriceQuote{
		"bitcoin": quote(60000, 5),
	}

	data := Calculate(holdings, prices)

	// 60000 * 5% = 3000
	if math.Abs(data.Totals.DayChangeAbs-3000) > 1e-9 {
		t.Errorf("DayChangeAbs = %.2f, want 3000", data.Totals.DayChangeAbs)
	}
	if math.Abs(data.Totals.DayChangePct-5) > 1e-9 {
		t.Errorf("DayChangePct = %.2f, want 5", data.Totals.DayChangePct)
	}
}

func TestCalculateAllocationSumsTo100(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 1},
		{ID: "ethereum", Amount: 2},
		{ID: "solana", Amount: 100},
	}
	prices := map[string]models.PriceQuote{
		"bitcoin":  quote(60000, 0),
		"ethereum": quote(2500, 0),
		"solana":   quote(150, 0),
	}

	data := Calculate(holdings, prices)

	sum := 0.0
	for _, h := range data.Holdings {
		sum += h.AllocationPct
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("allocation sum = %.6f, want 100", sum)
	}
}

func TestCalculateZeroValueAllocations(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 0, BuyPrice: 50000},
		{ID: "ethereum", Amount: 0},
	}

	data := Calculate(holdings, map[string]models.PriceQuote{})

	if data.Totals.TotalValue != 0 {
		t.Fatalf("TotalValue = %.2f, want 0", data.Totals.TotalValue)
	}
	for _, h := range data.Holdings {
		if h.AllocationPct != 0 {
			t.Errorf("%s AllocationPct = %.2f, want 0", h.ID, h.AllocationPct)
		}
	}
	if data.Best != nil || data.Worst != nil {
		t.Errorf("movers should be nil for zero-value portfolio")
	}
}

func TestCalculatePriceFallback(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 2, BuyPrice: 40000}, // no quote: falls back to buy price
		{ID: "mystery", Amount: 3},                  // no quote, no buy price: 0
	}

	data := Calculate(holdings, map[string]models.PriceQuote{})

	byID := map[string]models.EnrichedHolding{}
	for _, h := range data.Holdings {
		byID[h.ID] = h
	}

	if byID["bitcoin"].Price != 40000 {
		t.Errorf("bitcoin price = %.2f, want 40000 (buy price fallback)", byID["bitcoin"].Price)
	}
	if byID["mystery"].Price != 0 || byID["mystery"].Value != 0 {
		t.Errorf("mystery price/value = %.2f/%.2f, want 0/0", byID["mystery"].Price, byID["mystery"].Value)
	}
}

func TestCalculateCostBasis(t *testing.T) {
	// No buy price: cost basis falls back to the live price, so P&L is zero
	holdings := []models.Holding{{ID: "solana", Amount: 10}}
	prices := map[string]models.PriceQuote{"solana": quote(150, 0)}

	data := Calculate(holdings, prices)

	h := data.Holdings[0]
	if h.Cost != 1500 {
		t.Errorf("Cost = %.2f, want 1500", h.Cost)
	}
	if h.PnlAbs != 0 || h.PnlPct != 0 {
		t.Errorf("PnlAbs/PnlPct = %.2f/%.2f, want 0/0", h.PnlAbs, h.PnlPct)
	}
}

func TestCalculatePnlPctZeroCost(t *testing.T) {
	holdings := []models.Holding{{ID: "airdrop", Amount: 0, BuyPrice: 0}}
	data := Calculate(holdings, map[string]models.PriceQuote{"airdrop": quote(5, 0)})

	if data.Holdings[0].PnlPct != 0 {
		t.Errorf("PnlPct = %.2f, want 0 for zero cost", data.Holdings[0].PnlPct)
	}
}

func TestCalculateSortsByValueDescending(t *testing.T) {
	holdings := []models.Holding{
		{ID: "small", Amount: 1},
		{ID: "large", Amount: 1},
		{ID: "medium", Amount: 1},
	}
	prices := map[string]models.PriceQuote{
		"small":  quote(10, 0),
		"large":  quote(1000, 0),
		"medium": quote(100, 0),
	}

	data := Calculate(holdings, prices)

	want := []string{"large", "medium", "small"}
	for i, id := range want {
		if data.Holdings[i].ID != id {
			t.Errorf("Holdings[%d] = %s, want %s", i, data.Holdings[i].ID, id)
		}
	}
}

func TestCalculateMovers(t *testing.T) {
	holdings := []models.Holding{
		{ID: "up", Amount: 1},
		{ID: "down", Amount: 1},
		{ID: "flat", Amount: 1},
		{ID: "dust", Amount: 1}, // value below threshold, excluded
	}
	prices := map[string]models.PriceQuote{
		"up":   quote(100, 8),
		"down": quote(100, -6),
		"flat": quote(100, 1),
		"dust": quote(5, 99),
	}

	data := Calculate(holdings, prices)

	if data.Best == nil || data.Worst == nil {
		t.Fatal("expected non-nil movers")
	}
	if data.Best.ID != "up" {
		t.Errorf("Best = %s, want up", data.Best.ID)
	}
	if data.Worst.ID != "down" {
		t.Errorf("Worst = %s, want down", data.Worst.ID)
	}
	if data.Best.Change24hPct < data.Worst.Change24hPct {
		t.Errorf("best change %.2f < worst change %.2f", data.Best.Change24hPct, data.Worst.Change24hPct)
	}
}

func TestCalculateSingleMover(t *testing.T) {
	holdings := []models.Holding{{ID: "only", Amount: 1}}
	prices := map[string]models.PriceQuote{"only": quote(100, 3)}

	data := Calculate(holdings, prices)

	if data.Best == nil || data.Worst == nil {
		t.Fatal("expected non-nil movers")
	}
	if data.Best.ID != "only" || data.Worst.ID != "only" {
		t.Errorf("Best/Worst = %s/%s, want only/only", data.Best.ID, data.Worst.ID)
	}
}

func TestCalculateMoversExcludeNonFiniteChange(t *testing.T) {
	holdings := []models.Holding{{ID: "bad", Amount: 1}}
	prices := map[string]models.PriceQuote{
		"bad": {USD: fp(100), USD24hChange: fp(math.NaN())},
	}

	data := Calculate(holdings, prices)

	if data.Best != nil || data.Worst != nil {
		t.Error("movers should be nil when no holding has a finite change")
	}
}

func TestCalculateEmptyPortfolio(t *testing.T) {
	data := Calculate(nil, nil)

	if data == nil {
		t.Fatal("Calculate must not return nil")
	}
	if data.Totals != (models.Totals{}) {
		t.Errorf("Totals = %+v, want zeroed", data.Totals)
	}
	if len(data.Holdings) != 0 {
		t.Errorf("Holdings = %d entries, want 0", len(data.Holdings))
	}
}

func TestCalculateIdempotent(t *testing.T) {
	holdings := []models.Holding{
		{ID: "bitcoin", Amount: 0.5, BuyPrice: 40000},
		{ID: "ethereum", Amount: 10, BuyPrice: 2000},
	}
	prices := map[string]models.PriceQuote{
		"bitcoin":  quote(60000, 2.5),
		"ethereum": quote(2500, -1.0),
	}

	first := Calculate(holdings, prices)
	second := Calculate(holdings, prices)

	if first.Totals != second.Totals {
		t.Errorf("totals differ across identical calls: %+v vs %+v", first.Totals, second.Totals)
	}
	for i := range first.Holdings {
		if first.Holdings[i] != second.Holdings[i] {
			t.Errorf("holding %d differs across identical calls", i)
		}
	}
}
