package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/coinfolio/internal/models"
)

// portfolioRequest is the shared request body for the analytics endpoints.
// Prices may be omitted, in which case quotes are fetched live when a market
// client is configured; otherwise holdings are valued at their buy prices.
type portfolioRequest struct {
	Holdings []models.Holding             `json:"holdings"`
	Prices   map[string]models.PriceQuote `json:"prices,omitempty"`
}

// scenarioRequest extends portfolioRequest with projection options.
type scenarioRequest struct {
	portfolioRequest
	ScenarioKey     string   `json:"scenarioKey"`
	ExtraInvestment float64  `json:"extraInvestment"`
	CustomMove      *float64 `json:"customMove,omitempty"`
}

// backtestRequest extends portfolioRequest with an optional history table of
// per-asset periodic returns plus a "market" benchmark series.
type backtestRequest struct {
	portfolioRequest
	History map[string][]float64 `json:"history,omitempty"`
}

func (s *Server) handleMarketPrices(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.app.MarketClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "No market data client configured")
		return
	}

	idsParam := r.URL.Query().Get("ids")
	if idsParam == "" {
		WriteError(w, http.StatusBadRequest, "ids query parameter is required")
		return
	}
	var ids []string
	for _, id := range strings.Split(idsParam, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	quotes, err := s.app.MarketClient.SimplePrices(r.Context(), ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("Price fetch failed")
		WriteError(w, http.StatusBadGateway, "Price fetch failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, quotes)
}

func (s *Server) handleValuation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req portfolioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	data, err := s.app.Analytics.Valuation(r.Context(), req.Holdings, req.Prices)
	if err != nil {
		s.logger.Error().Err(err).Msg("Valuation failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, data)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req portfolioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Analytics.Risk(r.Context(), req.Holdings, req.Prices)
	if err != nil {
		s.logger.Error().Err(err).Msg("Risk analysis failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	if result == nil {
		WriteError(w, http.StatusUnprocessableEntity, "Insufficient data to estimate VaR")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req scenarioRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	opts := models.ScenarioOptions{
		ScenarioKey:     req.ScenarioKey,
		ExtraInvestment: req.ExtraInvestment,
		CustomMove:      req.CustomMove,
	}
	result, err := s.app.Analytics.Scenario(r.Context(), req.Holdings, req.Prices, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("Scenario projection failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	if result == nil {
		WriteError(w, http.StatusUnprocessableEntity, "Portfolio has no holdings to project")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req backtestRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.Analytics.Backtest(r.Context(), req.Holdings, req.Prices, req.History)
	if err != nil {
		s.logger.Error().Err(err).Msg("Backtest failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	if result == nil {
		WriteError(w, http.StatusUnprocessableEntity, "Insufficient history to backtest")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

func (s *Server) handleBacktestChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var req backtestRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	png, err := s.app.Analytics.BacktestChart(r.Context(), req.Holdings, req.Prices, req.History)
	if err != nil {
		s.logger.Error().Err(err).Msg("Backtest chart failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if png == nil {
		WriteError(w, http.StatusUnprocessableEntity, "Insufficient history to backtest")
		return
	}
	WritePNG(w, http.StatusOK, png)
}
