package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

type MarketStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewMarketStore(db *surrealdb.DB, logger *common.Logger) *MarketStore {
	return &MarketStore{
		db:     db,
		logger: logger,
	}
}

func seriesID(symbol, rng string) string {
	return symbol + "_" + rng
}

func (s *MarketStore) SaveSeries(ctx context.Context, series *models.PriceSeries) error {
	sql := "UPSERT type::record('market_series', $id) CONTENT $series"
	vars := map[string]any{
		"id":     seriesID(series.Symbol, series.Range),
		"series": series,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.PriceSeries](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save series after retries: %w", lastErr)
}

func (s *MarketStore) GetSeries(ctx context.Context, symbol, rng string) (*models.PriceSeries, error) {
	series, err := surrealdb.Select[models.PriceSeries](ctx, s.db, surrealmodels.NewRecordID("market_series", seriesID(symbol, rng)))
	if err != nil {
		return nil, fmt.Errorf("failed to select series: %w", err)
	}
	if series == nil || series.Symbol == "" {
		return nil, fmt.Errorf("series '%s/%s': %w", symbol, rng, interfaces.ErrNotFound)
	}
	return series, nil
}

func (s *MarketStore) SaveQuote(ctx context.Context, quote *models.Quote) error {
	sql := "UPSERT type::record('market_quote', $id) CONTENT $quote"
	vars := map[string]any{"id": quote.Symbol, "quote": quote}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Quote](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save quote after retries: %w", lastErr)
}

func (s *MarketStore) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	quote, err := surrealdb.Select[models.Quote](ctx, s.db, surrealmodels.NewRecordID("market_quote", symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to select quote: %w", err)
	}
	if quote == nil || quote.Symbol == "" {
		return nil, fmt.Errorf("quote '%s': %w", symbol, interfaces.ErrNotFound)
	}
	return quote, nil
}

// Compile-time check
var _ interfaces.MarketDataStore = (*MarketStore)(nil)
