package interfaces

import (
	"context"

	"github.com/jkwon/wondash/internal/models"
)

// MarketService serves price data through the cache layer.
type MarketService interface {
	// GetSeries returns a symbol's history for a range, from cache when
	// fresh and from the upstream API otherwise.
	GetSeries(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)

	// GetIndices returns the latest snapshots for the configured dashboard
	// indices.
	GetIndices(ctx context.Context) ([]models.Quote, error)

	// Search looks up symbols matching a free-text query.
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// PortfolioService manages user portfolios and their analysis.
type PortfolioService interface {
	SavePortfolio(ctx context.Context, userID, name string, holdings []models.Holding) (*models.Portfolio, error)
	GetPortfolio(ctx context.Context, userID, name string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, userID, name string) error

	// Analyze values the portfolio over the range and computes performance
	// metrics.
	Analyze(ctx context.Context, userID, name, rng string) (*models.PerformanceReport, error)

	// RenderChart renders the valuation history as a PNG.
	RenderChart(ctx context.Context, userID, name, rng string) ([]byte, error)
}

// PresetService serves the built-in model portfolios and their scores.
type PresetService interface {
	List() []models.PresetPortfolio
	Score(ctx context.Context, id string) (*models.PresetScore, error)
	ScoreAll(ctx context.Context) ([]models.PresetScore, error)
}

// UserService handles account registration and authentication.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
