// Package app wires configuration, storage, clients and services together.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jkwon/wondash/internal/clients/gemini"
	"github.com/jkwon/wondash/internal/clients/quotes"
	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/services/market"
	"github.com/jkwon/wondash/internal/services/portfolio"
	"github.com/jkwon/wondash/internal/services/preset"
	"github.com/jkwon/wondash/internal/services/user"
	"github.com/jkwon/wondash/internal/storage"
)

// App holds all initialized services and clients shared by the server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	QuotesClient     interfaces.QuoteClient
	GeminiClient     interfaces.TextGenerator
	MarketService    interfaces.MarketService
	PortfolioService interfaces.PortfolioService
	PresetService    interfaces.PresetService
	UserService      interfaces.UserService
	StartupTime      time.Time

	refreshCancel   context.CancelFunc
	warmCacheCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, clients and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Check provided path, WONDASH_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("WONDASH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "wondash.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/wondash.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level, config.Logging.Format)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	quotesClient := quotes.NewClient(
		quotes.WithBaseURL(config.Clients.Quotes.BaseURL),
		quotes.WithLogger(logger),
		quotes.WithRateLimit(config.Clients.Quotes.RateLimit),
		quotes.WithTimeout(config.Clients.Quotes.GetTimeout()),
	)

	ctx := context.Background()

	var geminiClient interfaces.TextGenerator
	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured, report summaries will be unavailable")
	} else {
		client, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			geminiClient = client
		}
	}

	marketService := market.NewService(storageManager, quotesClient, config.Market.Indices, logger)
	portfolioService := portfolio.NewService(storageManager, marketService, geminiClient, config, logger)
	presetService := preset.NewService(marketService, config, logger)
	userService := user.NewService(storageManager, logger)

	a := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		QuotesClient:     quotesClient,
		GeminiClient:     geminiClient,
		MarketService:    marketService,
		PortfolioService: portfolioService,
		PresetService:    presetService,
		UserService:      userService,
		StartupTime:      startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel refresh loop, cancel warm cache, close storage.
func (a *App) Close() {
	if a.refreshCancel != nil {
		a.refreshCancel()
		a.refreshCancel = nil
	}
	if a.warmCacheCancel != nil {
		a.warmCacheCancel()
		a.warmCacheCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartWarmCache launches the background cache warming goroutine.
func (a *App) StartWarmCache() {
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 5*time.Minute)
	a.warmCacheCancel = warmCancel
	go func() {
		defer warmCancel()
		warmCache(warmCtx, a.MarketService, a.Config, a.Logger)
	}()
}

// StartIndexRefresh launches the periodic index quote refresh goroutine.
func (a *App) StartIndexRefresh() {
	refreshCtx, refreshCancel := context.WithCancel(context.Background())
	a.refreshCancel = refreshCancel
	go startIndexRefresh(refreshCtx, a.MarketService, a.Logger, common.FreshnessQuote)
}
