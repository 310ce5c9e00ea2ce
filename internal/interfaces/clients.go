// Package interfaces defines the service and client contracts for Coinfolio
package interfaces

import (
	"context"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// MarketClient fetches live price quotes for a set of asset ids.
// Implementations are safe for concurrent use.
type MarketClient interface {
	// SimplePrices returns USD quotes with 24h change for the given ids.
	// Unknown ids are simply absent from the result map.
	SimplePrices(ctx context.Context, ids []string) (map[string]models.PriceQuote, error)
}
