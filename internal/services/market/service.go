// Package market provides market data services
package market

import (
	"context"
	"fmt"
	"sync"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

// Service implements MarketService as a read-through cache over the quote
// client. Fetch failures fall back to whatever the cache still holds, so a
// flaky upstream degrades to stale data instead of an empty dashboard.
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.QuoteClient
	indices []string
	logger  *common.Logger
}

// NewService creates a new market service. indices is the configured list of
// dashboard index symbols.
func NewService(
	storage interfaces.StorageManager,
	client interfaces.QuoteClient,
	indices []string,
	logger *common.Logger,
) *Service {
	return &Service{
		storage: storage,
		client:  client,
		indices: indices,
		logger:  logger,
	}
}

// GetSeries returns a symbol's history for a range. Cached data inside the
// freshness window is served directly; otherwise the upstream is fetched and
// the cache refreshed. When the fetch fails and a stale copy exists, the
// stale copy is returned.
func (s *Service) GetSeries(ctx context.Context, symbol, rng string) (*models.PriceSeries, error) {
	cached, _ := s.storage.MarketData().GetSeries(ctx, symbol, rng)
	if cached != nil && common.IsFresh(cached.FetchedAt, common.FreshnessSeries) {
		return cached, nil
	}

	series, err := s.client.GetChart(ctx, symbol, rng)
	if err != nil {
		if cached != nil {
			s.logger.Warn().
				Str("symbol", symbol).
				Str("range", rng).
				Err(err).
				Msg("Fetch failed, serving stale series")
			return cached, nil
		}
		return nil, fmt.Errorf("failed to fetch series for %s: %w", symbol, err)
	}

	if err := s.storage.MarketData().SaveSeries(ctx, series); err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to cache series")
	}

	return series, nil
}

// GetIndices returns the latest snapshots for the configured dashboard
// indices, fetched concurrently. Individual failures fall back to the cached
// quote; symbols with neither are skipped.
func (s *Service) GetIndices(ctx context.Context) ([]models.Quote, error) {
	results := make([]*models.Quote, len(s.indices))

	var wg sync.WaitGroup
	for i, symbol := range s.indices {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			results[i] = s.getQuote(ctx, symbol)
		}(i, symbol)
	}
	wg.Wait()

	quotes := make([]models.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, nil
}

// getQuote fetches one quote with cache fallback. Returns nil when neither
// the upstream nor the cache can serve the symbol.
func (s *Service) getQuote(ctx context.Context, symbol string) *models.Quote {
	cached, _ := s.storage.MarketData().GetQuote(ctx, symbol)
	if cached != nil && common.IsFresh(cached.Timestamp, common.FreshnessQuote) {
		return cached
	}

	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil {
		if cached != nil {
			return cached
		}
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to fetch quote")
		return nil
	}

	if err := s.storage.MarketData().SaveQuote(ctx, quote); err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Failed to cache quote")
	}
	return quote
}

// Search looks up symbols matching a free-text query.
func (s *Service) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is empty")
	}
	matches, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("symbol search failed: %w", err)
	}
	return matches, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
