package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/services/analytics"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Market data
	mux.HandleFunc("/api/market/prices", s.handleMarketPrices)

	// Analytics
	mux.HandleFunc("/api/scenarios", s.handleScenarioCatalog)
	mux.HandleFunc("/api/portfolio/valuation", s.handleValuation)
	mux.HandleFunc("/api/portfolio/risk", s.handleRisk)
	mux.HandleFunc("/api/portfolio/scenario", s.handleScenario)
	mux.HandleFunc("/api/portfolio/backtest", s.handleBacktest)
	mux.HandleFunc("/api/portfolio/backtest/chart", s.handleBacktestChart)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uptime := time.Since(s.app.StartupTime).Round(time.Second)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":          s.app.Config.Environment,
		"logging_level":        s.app.Config.Logging.Level,
		"coingecko_configured": s.app.MarketClient != nil,
		"uptime":               uptime.String(),
		"started_at":           s.app.StartupTime,
	})
}

// handleScenarioCatalog returns the read-only macro scenario catalog.
func (s *Server) handleScenarioCatalog(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, analytics.MacroScenarios)
}
