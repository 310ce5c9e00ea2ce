// Package models defines data structures for Coinfolio
package models

import (
	"encoding/json"
	"strconv"
)

// FlexFloat64 handles JSON values that may be a number, a numeric string,
// or missing entirely. Invalid values decode to 0 rather than failing.
type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat64(num)
		return nil
	}
	*f = 0
	return nil
}

// Holding represents a raw portfolio position as supplied by the caller.
type Holding struct {
	ID       string      `json:"id"`
	Symbol   string      `json:"symbol"`
	Name     string      `json:"name,omitempty"`
	Amount   FlexFloat64 `json:"amount"`
	BuyPrice FlexFloat64 `json:"buyPrice"`
}

// PriceQuote is a live market quote keyed by asset id. Both fields are
// optional; nil means the feed did not supply the value.
type PriceQuote struct {
	USD          *float64 `json:"usd,omitempty"`
	USD24hChange *float64 `json:"usd_24h_change,omitempty"`
}

// EnrichedHolding is a Holding priced against a quote, with derived values.
type EnrichedHolding struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Amount        float64 `json:"amount"`
	BuyPrice      float64 `json:"buyPrice"`
	Price         float64 `json:"price"`
	Value         float64 `json:"value"`
	Cost          float64 `json:"cost"`
	PnlAbs        float64 `json:"pnlAbs"`
	PnlPct        float64 `json:"pnlPct"`
	Change24hPct  float64 `json:"change24hPct"`
	AllocationPct float64 `json:"allocationPct"`
}

// Totals aggregates value, cost, P&L and day movement across all holdings.
type Totals struct {
	TotalValue   float64 `json:"totalValue"`
	TotalCost    float64 `json:"totalCost"`
	TotalPnlAbs  float64 `json:"totalPnlAbs"`
	TotalPnlPct  float64 `json:"totalPnlPct"`
	DayChangeAbs float64 `json:"dayChangeAbs"`
	DayChangePct float64 `json:"dayChangePct"`
}

// PortfolioData is the valuation engine output shared by the risk, scenario
// and backtest engines. Holdings are sorted descending by value. Best and
// Worst are nil when no holding qualifies as a mover.
type PortfolioData struct {
	Totals   Totals            `json:"totals"`
	Holdings []EnrichedHolding `json:"holdings"`
	Best     *EnrichedHolding  `json:"best"`
	Worst    *EnrichedHolding  `json:"worst"`
}
