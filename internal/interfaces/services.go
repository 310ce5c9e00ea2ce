package interfaces

import (
	"context"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// AnalyticsService runs the portfolio analytics transforms, fetching live
// quotes when the caller does not supply them. A nil result with a nil error
// means the analysis was not computable for the given inputs (insufficient
// data), as opposed to a transport or input failure.
type AnalyticsService interface {
	Valuation(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote) (*models.PortfolioData, error)
	Risk(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote) (*models.VaRResult, error)
	Scenario(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote, opts models.ScenarioOptions) (*models.ScenarioResult, error)
	Backtest(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote, history map[string][]float64) (*models.BacktestResult, error)
	BacktestChart(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote, history map[string][]float64) ([]byte, error)
}
