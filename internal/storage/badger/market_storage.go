package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

// seriesRecord wraps a cached price series under its composite key.
type seriesRecord struct {
	Key    string `badgerhold:"key"`
	Series models.PriceSeries
}

// quoteRecord wraps a cached quote snapshot.
type quoteRecord struct {
	Symbol string `badgerhold:"key"`
	Quote  models.Quote
}

func seriesKey(symbol, rng string) string {
	return symbol + "|" + rng
}

type marketStorage struct {
	store  *Store
	logger *common.Logger
}

// NewMarketStorage creates a new MarketDataStore backed by BadgerHold.
func NewMarketStorage(store *Store, logger *common.Logger) *marketStorage {
	return &marketStorage{store: store, logger: logger}
}

func (s *marketStorage) SaveSeries(_ context.Context, series *models.PriceSeries) error {
	rec := seriesRecord{Key: seriesKey(series.Symbol, series.Range), Series: *series}
	if err := s.store.db.Upsert(rec.Key, &rec); err != nil {
		return fmt.Errorf("failed to save series %s: %w", rec.Key, err)
	}
	s.logger.Debug().
		Str("symbol", series.Symbol).
		Str("range", series.Range).
		Int("observations", series.Len()).
		Msg("Series cached")
	return nil
}

func (s *marketStorage) GetSeries(_ context.Context, symbol, rng string) (*models.PriceSeries, error) {
	var rec seriesRecord
	key := seriesKey(symbol, rng)
	err := s.store.db.Get(key, &rec)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("series '%s': %w", key, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get series '%s': %w", key, err)
	}
	return &rec.Series, nil
}

func (s *marketStorage) SaveQuote(_ context.Context, quote *models.Quote) error {
	rec := quoteRecord{Symbol: quote.Symbol, Quote: *quote}
	if err := s.store.db.Upsert(rec.Symbol, &rec); err != nil {
		return fmt.Errorf("failed to save quote %s: %w", quote.Symbol, err)
	}
	return nil
}

func (s *marketStorage) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	var rec quoteRecord
	err := s.store.db.Get(symbol, &rec)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("quote '%s': %w", symbol, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get quote '%s': %w", symbol, err)
	}
	return &rec.Quote, nil
}
