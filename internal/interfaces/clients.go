// Package interfaces defines service contracts for Wondash
package interfaces

import (
	"context"

	"github.com/jkwon/wondash/internal/models"
)

// QuoteClient fetches market data from the upstream chart API.
type QuoteClient interface {
	// GetChart returns the daily close history for a symbol over a range
	// token such as "1y" or "10y".
	GetChart(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)

	// GetQuote returns the latest price snapshot for a symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// Search looks up symbols matching a free-text query.
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
}

// TextGenerator produces natural-language text from a prompt. Used for the
// optional AI performance summary.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
