package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/coinfolio/internal/models"
)

type stubMarketClient struct {
	quotes  map[string]models.PriceQuote
	err     error
	lastIDs []string
}

func (c *stubMarketClient) SimplePrices(ctx context.Context, ids []string) (map[string]models.PriceQuote, error) {
	c.lastIDs = ids
	if c.err != nil {
		return nil, c.err
	}
	return c.quotes, nil
}

func TestServiceValuationFetchesMissingPrices(t *testing.T) {
	client := &stubMarketClient{
		quotes: map[string]models.PriceQuote{"bitcoin": quote(60000, 2)},
	}
	svc := NewService(client, nil)
	holdings := []models.Holding{{ID: "bitcoin", Amount: 0.5}}

	data, err := svc.Valuation(context.Background(), holdings, nil)

	if err != nil {
		t.Fatalf("Valuation: %v", err)
	}
	if data.Totals.TotalValue != 30000 {
		t.Errorf("TotalValue = %.2f, want 30000", data.Totals.TotalValue)
	}
	if len(client.lastIDs) != 1 || client.lastIDs[0] != "bitcoin" {
		t.Errorf("requested ids = %v, want [bitcoin]", client.lastIDs)
	}
}

func TestServiceValuationSkipsFetchWhenPricesSupplied(t *testing.T) {
	client := &stubMarketClient{err: errors.New("should not be called")}
	svc := NewService(client, nil)
	holdings := []models.Holding{{ID: "bitcoin", Amount: 1}}
	prices := map[string]models.PriceQuote{"bitcoin": quote(50000, 0)}

	data, err := svc.Valuation(context.Background(), holdings, prices)

	if err != nil {
		t.Fatalf("Valuation: %v", err)
	}
	if data.Totals.TotalValue != 50000 {
		t.Errorf("TotalValue = %.2f, want 50000", data.Totals.TotalValue)
	}
	if client.lastIDs != nil {
		t.Error("client must not be called when prices are supplied")
	}
}

func TestServiceValuationWithoutClient(t *testing.T) {
	svc := NewService(nil, nil)
	holdings := []models.Holding{{ID: "bitcoin", Amount: 2, BuyPrice: 40000}}

	data, err := svc.Valuation(context.Background(), holdings, nil)

	if err != nil {
		t.Fatalf("Valuation: %v", err)
	}
	// No price source: the buy price carries the valuation.
	if data.Totals.TotalValue != 80000 {
		t.Errorf("TotalValue = %.2f, want 80000", data.Totals.TotalValue)
	}
}

func TestServicePropagatesFetchError(t *testing.T) {
	client := &stubMarketClient{err: errors.New("rate limited")}
	svc := NewService(client, nil)
	holdings := []models.Holding{{ID: "bitcoin", Amount: 1}}

	if _, err := svc.Valuation(context.Background(), holdings, nil); err == nil {
		t.Error("Valuation: expected an error")
	}
	if _, err := svc.Risk(context.Background(), holdings, nil); err == nil {
		t.Error("Risk: expected an error")
	}
	if _, err := svc.Scenario(context.Background(), holdings, nil, models.ScenarioOptions{}); err == nil {
		t.Error("Scenario: expected an error")
	}
	if _, err := svc.Backtest(context.Background(), holdings, nil, nil); err == nil {
		t.Error("Backtest: expected an error")
	}
}

func TestServiceRiskDeterministicWithInjectedSimulator(t *testing.T) {
	simulate := fixedSeries(map[string][]float64{
		"a": {0.02, -0.01, -0.03, 0.01, -0.02},
		"b": {0.01, -0.02, -0.04, 0.0, -0.01},
	})
	svc := NewService(nil, nil, WithSimulator(simulate))
	holdings := []models.Holding{
		{ID: "a", Amount: 6},
		{ID: "b", Amount: 4},
	}
	prices := map[string]models.PriceQuote{
		"a": quote(100, 0),
		"b": quote(100, 0),
	}

	first, err := svc.Risk(context.Background(), holdings, prices)
	if err != nil {
		t.Fatalf("Risk: %v", err)
	}
	second, err := svc.Risk(context.Background(), holdings, prices)
	if err != nil {
		t.Fatalf("Risk: %v", err)
	}

	if first == nil || second == nil {
		t.Fatal("expected results")
	}
	if first.VarPct1d != second.VarPct1d {
		t.Errorf("VarPct1d differs: %.8f vs %.8f", first.VarPct1d, second.VarPct1d)
	}
}

func TestServiceNilResultsAreNotErrors(t *testing.T) {
	svc := NewService(nil, nil)

	risk, err := svc.Risk(context.Background(), nil, nil)
	if err != nil || risk != nil {
		t.Errorf("Risk = %+v, %v; want nil, nil", risk, err)
	}
	scenario, err := svc.Scenario(context.Background(), nil, nil, models.ScenarioOptions{})
	if err != nil || scenario != nil {
		t.Errorf("Scenario = %+v, %v; want nil, nil", scenario, err)
	}
	backtest, err := svc.Backtest(context.Background(), nil, nil, nil)
	if err != nil || backtest != nil {
		t.Errorf("Backtest = %+v, %v; want nil, nil", backtest, err)
	}
	png, err := svc.BacktestChart(context.Background(), nil, nil, nil)
	if err != nil || png != nil {
		t.Errorf("BacktestChart = %d bytes, %v; want nil, nil", len(png), err)
	}
}

func TestServiceBacktestChartProducesPNG(t *testing.T) {
	svc := NewService(nil, nil)
	holdings := []models.Holding{{ID: "bitcoin", Amount: 1}}
	prices := map[string]models.PriceQuote{"bitcoin": quote(60000, 0)}

	png, err := svc.BacktestChart(context.Background(), holdings, prices, nil)

	if err != nil {
		t.Fatalf("BacktestChart: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("expected PNG bytes")
	}
	if png[0] != 0x89 || string(png[1:4]) != "PNG" {
		t.Error("output is not a PNG")
	}
}
