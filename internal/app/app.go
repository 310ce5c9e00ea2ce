// Package app wires configuration, logging, clients and services together.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/coinfolio/internal/clients/coingecko"
	"github.com/bobmcallan/coinfolio/internal/common"
	"github.com/bobmcallan/coinfolio/internal/interfaces"
	"github.com/bobmcallan/coinfolio/internal/services/analytics"
)

// App holds all initialized services and clients. It is the shared core used
// by cmd/coinfolio-server and by handler tests.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	MarketClient interfaces.MarketClient
	Analytics    interfaces.AnalyticsService
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, the market data client and the
// analytics service. configPath may be empty, in which case the default
// resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	// Load configuration - check provided path, COINFOLIO_CONFIG, then binary
	// dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("COINFOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "coinfolio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/coinfolio.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	// The market client is optional: without it, callers must supply their
	// own price quotes in each request.
	var marketClient interfaces.MarketClient
	cg := config.Clients.CoinGecko
	if cg.BaseURL != "" {
		marketClient = coingecko.NewClient(cg.APIKey,
			coingecko.WithBaseURL(cg.BaseURL),
			coingecko.WithLogger(logger),
			coingecko.WithRateLimit(cg.RateLimit),
			coingecko.WithTimeout(cg.GetTimeout()),
		)
	} else {
		logger.Warn().Msg("CoinGecko client not configured - live pricing unavailable")
	}

	analyticsService := analytics.NewService(marketClient, logger)

	a := &App{
		Config:       config,
		Logger:       logger,
		MarketClient: marketClient,
		Analytics:    analyticsService,
		StartupTime:  startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}
