// Package portfolio provides portfolio management and analysis services
package portfolio

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jkwon/wondash/internal/analytics"
	"github.com/jkwon/wondash/internal/clients/gemini"
	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

// Service implements PortfolioService
type Service struct {
	storage      interfaces.StorageManager
	market       interfaces.MarketService
	generator    interfaces.TextGenerator
	fxPair       string
	fxFallback   float64
	defaultRange string
	location     *time.Location
	logger       *common.Logger
}

// NewService creates a new portfolio service. generator may be nil, in which
// case reports are returned without the written summary.
func NewService(
	storage interfaces.StorageManager,
	market interfaces.MarketService,
	generator interfaces.TextGenerator,
	cfg *common.Config,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:      storage,
		market:       market,
		generator:    generator,
		fxPair:       cfg.Market.FXPair,
		fxFallback:   cfg.Market.FXFallbackRate,
		defaultRange: cfg.Analytics.DefaultRange,
		location:     cfg.Market.Location(),
		logger:       logger,
	}
}

// SavePortfolio validates and persists a holdings list. Quantities are
// rounded to 4 decimals and each holding's currency class is derived from
// its symbol suffix at ingestion time.
func (s *Service) SavePortfolio(ctx context.Context, userID, name string, holdings []models.Holding) (*models.Portfolio, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("portfolio name is empty")
	}

	cleaned := make([]models.Holding, 0, len(holdings))
	for _, h := range holdings {
		h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
		if h.Symbol == "" {
			return nil, fmt.Errorf("holding with empty symbol")
		}
		if h.Quantity < 0 {
			return nil, fmt.Errorf("holding %s has negative quantity", h.Symbol)
		}
		h.Quantity = math.Round(h.Quantity*10000) / 10000
		h.Class = models.ClassifyCurrency(h.Symbol)
		cleaned = append(cleaned, h)
	}

	portfolio := &models.Portfolio{
		UserID:   userID,
		Name:     name,
		Holdings: cleaned,
	}
	if err := s.storage.Portfolios().SavePortfolio(ctx, portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().
		Str("user", userID).
		Str("name", name).
		Int("holdings", len(cleaned)).
		Msg("Portfolio saved")

	return portfolio, nil
}

// GetPortfolio retrieves one of a user's portfolios by name
func (s *Service) GetPortfolio(ctx context.Context, userID, name string) (*models.Portfolio, error) {
	return s.storage.Portfolios().GetPortfolio(ctx, userID, name)
}

// ListPortfolios returns all portfolios belonging to a user
func (s *Service) ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	return s.storage.Portfolios().ListPortfolios(ctx, userID)
}

// DeletePortfolio removes a portfolio
func (s *Service) DeletePortfolio(ctx context.Context, userID, name string) error {
	return s.storage.Portfolios().DeletePortfolio(ctx, userID, name)
}

// Analyze values the portfolio over the range and computes performance
// metrics. Holding series and the FX series are fetched concurrently; a
// symbol that cannot be fetched contributes zero, and a missing FX series
// means the fallback rate applies throughout.
func (s *Service) Analyze(ctx context.Context, userID, name, rng string) (*models.PerformanceReport, error) {
	if rng == "" {
		rng = s.defaultRange
	}
	s.logger.Info().Str("user", userID).Str("name", name).Str("range", rng).Msg("Analyzing portfolio")

	portfolio, err := s.storage.Portfolios().GetPortfolio(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if len(portfolio.Holdings) == 0 {
		return nil, fmt.Errorf("portfolio '%s' has no holdings", name)
	}

	valuation, err := s.valuate(ctx, portfolio, rng)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildReport(valuation, portfolio.Holdings, name, rng)

	if s.generator != nil {
		summary, err := s.generator.GenerateText(ctx, gemini.BuildPerformancePrompt(report))
		if err != nil {
			s.logger.Warn().Str("name", name).Err(err).Msg("Failed to generate summary")
		} else {
			report.Summary = summary
		}
	}

	return report, nil
}

// RenderChart renders the valuation history for a portfolio as a PNG.
func (s *Service) RenderChart(ctx context.Context, userID, name, rng string) ([]byte, error) {
	if rng == "" {
		rng = s.defaultRange
	}

	portfolio, err := s.storage.Portfolios().GetPortfolio(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if len(portfolio.Holdings) == 0 {
		return nil, fmt.Errorf("portfolio '%s' has no holdings", name)
	}

	valuation, err := s.valuate(ctx, portfolio, rng)
	if err != nil {
		return nil, err
	}

	return RenderValuationChart(name, valuation.Points())
}

// valuate gathers every needed series and runs the valuation pipeline.
func (s *Service) valuate(ctx context.Context, portfolio *models.Portfolio, rng string) (*analytics.Valuation, error) {
	needFX := false
	for _, h := range portfolio.Holdings {
		if h.Class == models.CurrencyForeign {
			needFX = true
			break
		}
	}

	var mu sync.Mutex
	series := make(map[string]*models.PriceSeries, len(portfolio.Holdings))
	var fx *models.PriceSeries

	var wg sync.WaitGroup
	for _, h := range portfolio.Holdings {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			ps, err := s.market.GetSeries(ctx, symbol, rng)
			if err != nil {
				s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Series unavailable, holding valued at zero")
				return
			}
			mu.Lock()
			series[symbol] = ps
			mu.Unlock()
		}(h.Symbol)
	}
	if needFX {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ps, err := s.market.GetSeries(ctx, s.fxPair, rng)
			if err != nil {
				s.logger.Warn().Str("pair", s.fxPair).Err(err).Msg("FX series unavailable, using fallback rate")
				return
			}
			mu.Lock()
			fx = ps
			mu.Unlock()
		}()
	}
	wg.Wait()

	valuation, err := analytics.Valuate(analytics.Input{
		Holdings:   portfolio.Holdings,
		Series:     series,
		FX:         fx,
		FXFallback: s.fxFallback,
		Location:   s.location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to value portfolio '%s': %w", portfolio.Name, err)
	}
	return valuation, nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
