package analytics

import (
	"context"
	"fmt"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/models"
)

// Service runs the analytics transforms over caller-supplied holdings,
// fetching live quotes when the caller does not provide them. Each call is
// independent and side-effect free, so any number of analyses may run
// concurrently.
type Service struct {
	client   interfaces.MarketClient
	logger   *common.Logger
	simulate SimulateFn
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithSimulator overrides the default random return simulator. Used by tests
// to make the risk engine deterministic.
func WithSimulator(simulate SimulateFn) ServiceOption {
	return func(s *Service) {
		s.simulate = simulate
	}
}

// NewService creates the analytics service. client may be nil, in which case
// callers must supply their own price quotes.
func NewService(client interfaces.MarketClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = common.NewSilentLogger()
	}
	return s
}

// resolvePrices returns the supplied quotes, or fetches them for the holding
// ids when absent. Without a configured client an empty map is returned and
// valuation falls back to buy prices.
func (s *Service) resolvePrices(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote) (map[string]models.PriceQuote, error) {
	if prices != nil {
		return prices, nil
	}
	if s.client == nil || len(holdings) == 0 {
		s.logger.Debug().Int("holdings", len(holdings)).Msg("No price source; valuing against buy prices")
		return map[string]models.PriceQuote{}, nil
	}

	ids := make([]string, 0, len(holdings))
	for _, h := range holdings {
		ids = append(ids, h.ID)
	}

	quotes, err := s.client.SimplePrices(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch prices: %w", err)
	}
	return quotes, nil
}

// Valuation prices the holdings and aggregates portfolio totals.
func (s *Service) Valuation(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote) (*models.PortfolioData, error) {
	quotes, err := s.resolvePrices(ctx, holdings, prices)
	if err != nil {
		return nil, err
	}
	return Calculate(holdings, quotes), nil
}

// Risk runs valuation then the Monte Carlo VaR and correlation estimate.
// The result is nil (with nil error) when not computable.
func (s *Service) Risk(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote) (*models.VaRResult, error) {
	data, err := s.Valuation(ctx, holdings, prices)
	if err != nil {
		return nil, err
	}
	return ComputeVaRAndCorrelations(data, s.simulate), nil
}

// Scenario runs valuation then the macro stress projection.
// The result is nil (with nil error) when not computable.
func (s *Service) Scenario(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote, opts models.ScenarioOptions) (*models.ScenarioResult, error) {
	data, err := s.Valuation(ctx, holdings, prices)
	if err != nil {
		return nil, err
	}
	return ProjectScenarioOutcome(data, opts), nil
}

// Backtest runs valuation then the historical replay. history may be nil for
// the built-in monthly table. The result is nil (with nil error) when not
// computable.
func (s *Service) Backtest(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote, history map[string][]float64) (*models.BacktestResult, error) {
	data, err := s.Valuation(ctx, holdings, prices)
	if err != nil {
		return nil, err
	}
	return Backtest(data, history), nil
}

// BacktestChart renders the backtest equity curves as a PNG.
func (s *Service) BacktestChart(ctx context.Context, holdings []models.Holding, prices map[string]models.PriceQuote, history map[string][]float64) ([]byte, error) {
	result, err := s.Backtest(ctx, holdings, prices, history)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return RenderBacktestChart(result)
}
